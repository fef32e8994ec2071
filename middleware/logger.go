package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/utils"
)

// RequestLogger logs one masked line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		utils.LogAPIRequest(
			c.Request.Method,
			c.Request.URL.Path,
			GetUserID(c),
			c.Writer.Status(),
			time.Since(start).Round(time.Microsecond).String(),
		)
	}
}
