package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskforce/internal/auth"
	"taskforce/internal/constants"
	apierrors "taskforce/internal/errors"
	"taskforce/internal/models"
	"taskforce/internal/repository"
)

// RequireAPIAuth authenticates JSON API requests via a bearer access token.
// The user is reloaded from the store so role changes take effect
// immediately rather than at token expiry.
func RequireAPIAuth(tokens *auth.TokenService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			apierrors.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "Invalid or expired token")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the request context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
