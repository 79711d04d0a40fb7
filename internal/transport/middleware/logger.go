package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one entry per request. Requests addressed to an
// image carry its id and, for file downloads, the variant served.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"route":      route,
			"status":     c.Writer.Status(),
			"bytes":      c.Writer.Size(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if id := c.Param("id"); id != "" {
			fields["image_id"] = id
		}
		if variant := c.Param("variant"); variant != "" {
			fields["variant"] = variant
		}

		entry := log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("image request failed")
		case status >= 400:
			entry.Warn("image request rejected")
		default:
			entry.Info("image request served")
		}
	}
}
