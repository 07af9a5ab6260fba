package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request plus any errors handlers
// attached with c.Error.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if userID := GetUserID(c); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		if len(c.Errors) > 0 {
			logger.Error("request failed", append(fields, "err", c.Errors.String())...)
			return
		}
		logger.Info("request", fields...)
	}
}
