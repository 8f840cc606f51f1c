package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/market"
)

// SessionMiddleware resolves the acting user from headers set by the
// authenticating gateway. Requests without a user id are rejected before any
// handler runs.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := market.Session{
			UID:  c.GetHeader("X-User-ID"),
			Name: c.GetHeader("X-User-Name"),
		}
		if !sess.Valid() {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("authentication required", []global.ValidationError{
				{Field: "X-User-ID", Message: "X-User-ID header is required", Code: "required"},
			}))
			c.Abort()
			return
		}

		c.Set("session", sess)
		c.Next()
	}
}

// currentSession returns the session stored by SessionMiddleware.
func currentSession(c *gin.Context) market.Session {
	if v, ok := c.Get("session"); ok {
		if sess, ok := v.(market.Session); ok {
			return sess
		}
	}
	return market.Session{}
}
