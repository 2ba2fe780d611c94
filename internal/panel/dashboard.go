package panel

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskforce/internal/authz"
	"taskforce/internal/middleware"
)

// Dashboard renders role-scoped counts. Standard users get the friendly
// forbidden page rather than an error.
func (p *Panel) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.PanelLoginPath)
		return
	}

	if !authz.Can(user, authz.ActionViewDashboard, nil) {
		c.HTML(http.StatusForbidden, "forbidden.html", gin.H{
			"User": user,
		})
		return
	}

	counts, err := p.taskService.DashboardCounts(user)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load dashboard.")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":       user,
		"UsersCount": counts.Users,
		"TasksCount": counts.Tasks,
	})
}
