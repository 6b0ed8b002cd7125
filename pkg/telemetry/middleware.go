package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"authflow/pkg/logger"
)

// RequestLogger logs each finished request, tagged with the span started by otelgin when one is present
func RequestLogger(log logger.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			{Key: "method", Value: c.Request.Method},
			{Key: "path", Value: c.FullPath()},
			{Key: "status", Value: c.Writer.Status()},
			{Key: "latency", Value: time.Since(start)},
		}

		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if sc.IsValid() {
			c.Set("trace_id", sc.TraceID().String())
			fields = append(fields,
				logger.Field{Key: "trace_id", Value: sc.TraceID().String()},
				logger.Field{Key: "span_id", Value: sc.SpanID().String()},
			)
		}

		log.Info("request completed", fields...)
	}
}
