// internal/interfaces/callback/middleware.go
package callback

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// requestLogger logs every request hitting the callback listener. The
// listener only ever sees the widget page load and the gateway redirect,
// so each line is part of the checkout audit trail.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		entry := logger.WithFields(logrus.Fields{
			"method":      param.Method,
			"path":        param.Path,
			"status_code": param.StatusCode,
			"latency":     param.Latency,
			"client_ip":   param.ClientIP,
		})

		if param.ErrorMessage != "" {
			entry = entry.WithField("error", param.ErrorMessage)
		}

		if param.StatusCode >= 400 {
			entry.Warn("callback request rejected")
		} else {
			entry.Debug("callback request completed")
		}

		return ""
	})
}
