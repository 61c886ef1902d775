package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := utils.InfoLogger.WithField("session", c.GetString(SessionKey))
		if status >= 500 {
			utils.ErrorLogger.Printf("%s | %3d | %13v | %s | %s", c.Request.Method, status, latency, path, c.Errors.String())
			return
		}
		entry.Printf("%s | %3d | %13v | %s", c.Request.Method, status, latency, path)
	}
}
