package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API serves JSON under /api/v1 with bearer auth, so the method and
// header sets are fixed; only the allowed origins vary per deployment.
const (
	corsMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsHeaders = "Origin, Content-Type, Accept, Authorization"
	corsExpose  = "Content-Length, X-Request-ID"
	corsMaxAge  = "86400"
)

type CORSConfig struct {
	AllowOrigins []string
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{AllowOrigins: []string{"*"}}
}

func CORS(config CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := ""
		for _, o := range config.AllowOrigins {
			if o == "*" {
				// Credentials are allowed, so echo the caller's origin
				// instead of the wildcard.
				allowed = origin
				if allowed == "" {
					allowed = "*"
				}
				break
			}
			if o == origin {
				allowed = o
				break
			}
		}
		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", corsMethods)
		c.Header("Access-Control-Allow-Headers", corsHeaders)
		c.Header("Access-Control-Expose-Headers", corsExpose)
		c.Header("Access-Control-Max-Age", corsMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
