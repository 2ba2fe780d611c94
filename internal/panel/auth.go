package panel

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"taskforce/internal/constants"
)

// ShowLogin renders the login form.
func (p *Panel) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login authenticates the form submission and starts a session.
func (p *Panel) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := p.authService.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error": "Invalid username or password.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Failed to start session.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/panel/")
}

// Logout clears the session. GET is accepted so a plain link works.
func (p *Panel) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/panel/login")
}
