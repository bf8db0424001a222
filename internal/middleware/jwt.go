package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/licencias-api/internal/models"
	"github.com/colegiosys/licencias-api/internal/service"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
	"github.com/colegiosys/licencias-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token. The validated
// claims become the request-scoped identity for downstream handlers.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequirePasswordChanged blocks accounts still carrying their seeded
// initial password. Applied to every protected group except the
// change-password endpoint itself.
func RequirePasswordChanged() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)
		if claims.MustChangePassword {
			response.Error(c, appErrors.ErrPasswordChangeRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}
