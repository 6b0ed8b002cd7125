package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authflow/cfg"
	"authflow/pkg/logger"
)

func TestInit_WithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), cfg.ObservabilityConfig{ServiceName: "authflow"}, logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(logger.NewWithWriter("development", &buf)))
	r.GET("/auth/flows/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/flows/42", nil))

	out := buf.String()
	assert.Contains(t, out, `"message":"request completed"`)
	assert.Contains(t, out, `"path":"/auth/flows/:id"`)
	assert.Contains(t, out, `"status":204`)
	assert.NotContains(t, out, "trace_id")
}
