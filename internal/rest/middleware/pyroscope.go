package middleware

import (
	"context"
	"fmt"

	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// PyroscopeMiddleware returns a middleware that adds profiling labels to HTTP requests
func PyroscopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Pyroscope.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Create profiling labels for the HTTP request
		labels := map[string]string{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
			"handler":  fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
		}

		if clientID := c.GetHeader(types.HeaderClientID); clientID != "" {
			labels["client_id"] = clientID
		}

		// Convert map to pyroscope labels format
		var labelPairs []string
		for key, value := range labels {
			labelPairs = append(labelPairs, key, value)
		}

		// Wrap the request processing with profiling labels
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labelPairs...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
