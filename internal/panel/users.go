package panel

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskforce/internal/middleware"
	"taskforce/internal/models"
	"taskforce/internal/services"
)

// UsersList renders all users ordered by username.
func (p *Panel) UsersList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	users, err := p.userService.ListUsers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load users.")
		return
	}

	c.HTML(http.StatusOK, "users_list.html", gin.H{
		"User":  user,
		"Users": users,
	})
}

// UserCreateForm renders the empty user form.
func (p *Panel) UserCreateForm(c *gin.Context) {
	p.renderUserForm(c, "Create User", nil, "")
}

// UserCreate handles the user creation form submission.
func (p *Panel) UserCreate(c *gin.Context) {
	assignedAdminID, ok := formUint64(c, "assigned_admin")
	if !ok {
		p.renderUserForm(c, "Create User", nil, "Invalid assigned admin.")
		return
	}

	_, err := p.userService.CreateUser(services.CreateUserInput{
		Username:        c.PostForm("username"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		Role:            models.Role(c.PostForm("role")),
		AssignedAdminID: assignedAdminID,
	})
	if err != nil {
		p.renderUserForm(c, "Create User", nil, err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/panel/users")
}

// UserEditForm renders the form pre-filled with an existing user.
func (p *Panel) UserEditForm(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	subject, err := p.userService.GetUser(id)
	if err != nil {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	p.renderUserForm(c, "Edit "+subject.Username, subject, "")
}

// UserEdit handles the user edit form submission.
func (p *Panel) UserEdit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	subject, err := p.userService.GetUser(id)
	if err != nil {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	assignedAdminID, ok := formUint64(c, "assigned_admin")
	if !ok {
		p.renderUserForm(c, "Edit "+subject.Username, subject, "Invalid assigned admin.")
		return
	}

	email := c.PostForm("email")
	role := models.Role(c.PostForm("role"))
	input := services.UpdateUserInput{
		Email: &email,
		Role:  &role,
	}
	if assignedAdminID != nil {
		input.AssignedAdminID = assignedAdminID
	} else {
		input.ClearAssignedAdmin = true
	}
	if password := c.PostForm("password"); password != "" {
		input.Password = &password
	}

	if _, err := p.userService.UpdateUser(id, input); err != nil {
		p.renderUserForm(c, "Edit "+subject.Username, subject, err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/panel/users")
}

// UserDeleteForm renders the delete confirmation page.
func (p *Panel) UserDeleteForm(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	subject, err := p.userService.GetUser(id)
	if err != nil {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	c.HTML(http.StatusOK, "user_delete.html", gin.H{
		"User":    user,
		"Subject": subject,
	})
}

// UserDelete removes a user. Managed users of a deleted admin keep existing
// with their admin reference cleared.
func (p *Panel) UserDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	if err := p.userService.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.String(http.StatusNotFound, "User not found.")
			return
		}
		c.String(http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	c.Redirect(http.StatusFound, "/panel/users")
}

// AssignForm renders the user-to-admin assignment form.
func (p *Panel) AssignForm(c *gin.Context) {
	p.renderAssignForm(c, "")
}

// Assign handles the user-to-admin assignment submission.
func (p *Panel) Assign(c *gin.Context) {
	userID, okUser := formUint64(c, "user")
	adminID, okAdmin := formUint64(c, "admin")
	if !okUser || !okAdmin || userID == nil || adminID == nil {
		p.renderAssignForm(c, "Both a user and an admin are required.")
		return
	}

	if _, err := p.userService.AssignUserToAdmin(*userID, *adminID); err != nil {
		p.renderAssignForm(c, err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/panel/users")
}

func (p *Panel) renderUserForm(c *gin.Context, title string, subject *models.User, errMsg string) {
	user, _ := middleware.CurrentUser(c)

	admins, err := p.userService.ListAdmins()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load admins.")
		return
	}

	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "user_form.html", gin.H{
		"User":    user,
		"Title":   title,
		"Subject": subject,
		"Admins":  admins,
		"Roles":   Roles,
		"Error":   errMsg,
	})
}

func (p *Panel) renderAssignForm(c *gin.Context, errMsg string) {
	user, _ := middleware.CurrentUser(c)

	standardUsers, err := p.userService.ListStandardUsers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load users.")
		return
	}
	admins, err := p.userService.ListAdmins()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load admins.")
		return
	}

	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "assign_user.html", gin.H{
		"User":   user,
		"Users":  standardUsers,
		"Admins": admins,
		"Error":  errMsg,
	})
}
