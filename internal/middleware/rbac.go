package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
	"github.com/colegiosys/licencias-api/pkg/response"
)

// RequireRoles enforces role-based access control for routes. Rejections
// carry no detail beyond the status: a profesor probing an admin path
// learns nothing about what lives there.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
