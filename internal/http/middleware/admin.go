// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Demo-grade admin gating. Access to /admin/* is granted by the
// is_admin_query query flag; there is no real authentication in the public
// access deployment. Replace with a proper auth middleware before exposing
// the admin surface beyond a demo.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminDeniedMessage mirrors the user-facing wording the frontend expects.
const adminDeniedMessage = "Akses admin diperlukan (gunakan ?is_admin_query=true untuk demo)"

// RequireAdminQuery gates a route group on ?is_admin_query=true. Anything
// else is rejected with 403 and the standard error envelope.
func RequireAdminQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("is_admin_query") == "true" {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "forbidden",
			"message":    adminDeniedMessage,
		})
	}
}
