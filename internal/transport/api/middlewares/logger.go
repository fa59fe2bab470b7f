package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger логирует каждый запрос. Ответы 5xx пишутся уровнем error, 4xx - warn.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIP": c.ClientIP(),
		}
		reqLog := entry.WithFields(fields)
		if len(c.Errors) > 0 {
			reqLog = reqLog.WithError(c.Errors.Last().Err)
		}

		switch status := c.Writer.Status(); {
		case status >= 500: //nolint:mnd
			reqLog.Error("request failed")
		case status >= 400: //nolint:mnd
			reqLog.Warn("request rejected")
		default:
			reqLog.Debug("request handled")
		}
	}
}
