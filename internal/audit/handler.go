package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryHandler lists recently finished flows for a provider
// @Summary Flow history
// @Description Returns finished flows for the provider, newest first. Only available when the audit database is configured.
// @Tags oauth2
// @Produce json
// @Param provider path string true "Provider name"
// @Param limit query int false "Maximum rows (1-100, default 20)"
// @Success 200 {array} oauth2.FlowRecord
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/history/{provider} [get]
func HistoryHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxHistoryLimit {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
				return
			}
			limit = n
		}

		records, err := store.Recent(c.Request.Context(), c.Param("provider"), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if records == nil {
			c.JSON(http.StatusOK, []any{})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}
