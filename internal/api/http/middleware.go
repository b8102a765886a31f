package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKey gates the moderation surface behind an X-API-Key header. With
// no key configured the admin surface is disabled outright rather than
// left open.
func AdminKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"ok":    false,
				"error": "admin interface disabled",
			})
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" || key != expected {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "invalid API key",
			})
			return
		}

		c.Next()
	}
}
