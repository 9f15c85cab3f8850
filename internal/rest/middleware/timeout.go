package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// SetRequestContextWithTimeout bounds every request's context so a slow store
// cannot hold handlers forever.
func SetRequestContextWithTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
