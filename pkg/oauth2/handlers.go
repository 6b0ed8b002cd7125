package oauth2

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const FlowIDHeader = "X-Flow-ID"

// RegisterRoutes mounts the flow endpoints on r
func RegisterRoutes(r gin.IRouter, manager *Manager) {
	auth := r.Group("/auth")
	{
		auth.GET("/flows/:id", StatusHandler(manager))
		auth.GET("/callback/:provider", RedirectHandler(manager))
		auth.GET("/start/:provider", StartHandler(manager))
	}
}

// StartHandler starts an authorization code flow
// @Summary Start OAuth2 authorization
// @Description Opens a new flow for the provider and redirects the user agent to the authorization endpoint
// @Tags oauth2
// @Produce json
// @Param provider path string true "Provider name"
// @Success 307 {string} string "Redirect"
// @Header 307 {string} X-Flow-ID "Flow id"
// @Failure 404 {object} map[string]string "Unknown provider"
// @Router /auth/start/{provider} [get]
func StartHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		flow, authURL, err := manager.StartFlow(c.Request.Context(), c.Param("provider"))
		if errors.Is(err, ErrProviderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header(FlowIDHeader, flow.ID())
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// RedirectHandler receives the authorization server redirect
// @Summary OAuth2 redirect
// @Description Feeds the redirect into the open flow and returns its result. Redirects that do not match or arrive after the flow finished are ignored.
// @Tags oauth2
// @Produce json
// @Param provider path string true "Provider name"
// @Param code query string false "Authorization code"
// @Param error query string false "Authorization error"
// @Success 200 {object} Result "Token response"
// @Success 202 {object} map[string]string "Ignored"
// @Failure 400 {object} Result "Cancelled by the user or provider"
// @Failure 410 {object} map[string]string "Flow closed before it finished"
// @Failure 502 {object} Result "Token endpoint error or transport failure"
// @Failure 504 {object} map[string]string "Exchange still running"
// @Router /auth/callback/{provider} [get]
func RedirectHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		flow, action, err := manager.HandleRedirect(c.Request.Context(), c.Param("provider"), requestURL(c.Request))
		if errors.Is(err, ErrProviderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, ErrNoActiveFlow) || action == ActionIgnored {
			c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header(FlowIDHeader, flow.ID())

		res, err := flow.Wait(c.Request.Context())
		switch {
		case errors.Is(err, ErrFlowClosed):
			c.JSON(http.StatusGone, gin.H{"error": err.Error(), "flow_id": flow.ID()})
			return
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "token exchange still running", "flow_id": flow.ID()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(httpStatusFor(res), res)
	}
}

// StatusHandler returns the stored status of a flow
// @Summary Flow status
// @Description Returns the last known state of a flow. Token bodies are never included.
// @Tags oauth2
// @Produce json
// @Param id path string true "Flow id"
// @Success 200 {object} FlowRecord
// @Failure 404 {object} map[string]string "Unknown or expired flow"
// @Router /auth/flows/{id} [get]
func StatusHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := manager.FlowStatus(c.Request.Context(), c.Param("id"))
		if errors.Is(err, ErrFlowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func httpStatusFor(res Result) int {
	switch res.Status {
	case StatusSuccess:
		return http.StatusOK
	case StatusCancelled:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// requestURL rebuilds the absolute URL the user agent requested so it can be
// prefix-matched against the configured redirect uri
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host + r.URL.RequestURI()
}
