package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// RequireRoles lets the request through only for the listed roles. It must
// run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, utils.Unauthorizedf("unauthorized"))
			c.Abort()
			return
		}
		if !session.HasRole(roles...) {
			utils.RespondError(c, http.StatusForbidden, utils.Forbiddenf("role %s cannot access this resource", session.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}
