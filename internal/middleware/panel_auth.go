package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"taskforce/internal/constants"
	"taskforce/internal/models"
	"taskforce/internal/repository"
)

// PanelLoginPath is where unauthenticated panel requests are redirected.
const PanelLoginPath = "/panel/login"

// RequirePanelAuth authenticates panel requests via the session cookie and
// loads the user into the request context. Unauthenticated requests are
// redirected to the login page.
func RequirePanelAuth(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get(constants.ContextKeyUserID)

		userID, ok := sessionUserID(rawID)
		if !ok {
			c.Redirect(http.StatusFound, PanelLoginPath)
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			session.Clear()
			_ = session.Save()
			c.Redirect(http.StatusFound, PanelLoginPath)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole guards a panel route group: the authenticated user must hold
// one of the given roles, otherwise the forbidden page is rendered. This
// replaces per-handler role checks with one explicit middleware step.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, PanelLoginPath)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.HTML(http.StatusForbidden, "forbidden.html", gin.H{
			"User": user,
		})
		c.Abort()
	}
}

func sessionUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
