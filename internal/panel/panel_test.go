package panel

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskforce/internal/auth"
	"taskforce/internal/constants"
	"taskforce/internal/middleware"
	"taskforce/internal/models"
	"taskforce/internal/repository"
	"taskforce/internal/services"
	"taskforce/web"
)

// PanelTestSuite drives the management panel through a full router with
// cookie-backed sessions, the way a browser would.
type PanelTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	superadmin *models.User
	adminA     *models.User
	adminB     *models.User
	worker     *models.User
}

func (s *PanelTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(s.db.AutoMigrate(&models.User{}, &models.Task{}))

	userRepo := repository.NewUserRepository(s.db)
	taskRepo := repository.NewTaskRepository(s.db)
	authService := services.NewAuthService(userRepo, auth.NewTokenService("test-secret"), nil)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	panelHandler := New(authService, userService, taskService)

	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.SetHTMLTemplate(web.Templates())

	store := cookie.NewStore([]byte("secret"))
	s.router.Use(sessions.Sessions(constants.SessionCookieName, store))

	group := s.router.Group("/panel")
	group.GET("/login", panelHandler.ShowLogin)
	group.POST("/login", panelHandler.Login)
	group.GET("/logout", panelHandler.Logout)

	authed := group.Group("")
	authed.Use(middleware.RequirePanelAuth(userRepo))
	authed.GET("/", panelHandler.Dashboard)

	superadmin := authed.Group("")
	superadmin.Use(middleware.RequireRole(models.RoleSuperAdmin))
	superadmin.GET("/users", panelHandler.UsersList)
	superadmin.POST("/users/create", panelHandler.UserCreate)
	superadmin.POST("/users/:id/delete", panelHandler.UserDelete)
	superadmin.POST("/assign", panelHandler.Assign)

	admins := authed.Group("")
	admins.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))
	admins.GET("/tasks", panelHandler.TasksList)
	admins.POST("/tasks/create", panelHandler.TaskCreate)
	admins.GET("/tasks/:id/report", panelHandler.TaskReport)

	s.superadmin = s.seedUser("root", models.RoleSuperAdmin, nil)
	s.adminA = s.seedUser("admin_a", models.RoleAdmin, nil)
	s.adminB = s.seedUser("admin_b", models.RoleAdmin, nil)
	s.worker = s.seedUser("worker", models.RoleUser, &s.adminA.ID)
}

func (s *PanelTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *PanelTestSuite) seedUser(username string, role models.Role, adminID *uint64) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	s.Require().NoError(err)

	user := &models.User{
		Username:        username,
		PasswordHash:    string(hash),
		Role:            role,
		AssignedAdminID: adminID,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *PanelTestSuite) seedTask(title string, ownerID uint64) *models.Task {
	task := &models.Task{
		Title:        title,
		AssignedToID: ownerID,
	}
	s.Require().NoError(s.db.Create(task).Error)
	return task
}

// login performs the form login and returns the session cookies.
func (s *PanelTestSuite) login(username string) []*http.Cookie {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", "password123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/panel/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusFound, w.Code)
	s.Require().Equal("/panel/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies, "expected session cookie to be set")
	return cookies
}

func (s *PanelTestSuite) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.router.ServeHTTP(w, req)
	return w
}

func (s *PanelTestSuite) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.router.ServeHTTP(w, req)
	return w
}

func (s *PanelTestSuite) TestLogin_BadPasswordRerendersForm() {
	form := url.Values{}
	form.Set("username", "root")
	form.Set("password", "wrongpassword")

	w := s.postForm("/panel/login", form, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Invalid username or password.")
}

func (s *PanelTestSuite) TestUnauthenticatedRedirectsToLogin() {
	w := s.get("/panel/", nil)

	s.Equal(http.StatusFound, w.Code)
	s.Equal(middleware.PanelLoginPath, w.Header().Get("Location"))
}

func (s *PanelTestSuite) TestLogout() {
	cookies := s.login("root")

	w := s.get("/panel/logout", cookies)
	s.Equal(http.StatusFound, w.Code)

	// the cleared session no longer authenticates
	w = s.get("/panel/", w.Result().Cookies())
	s.Equal(http.StatusFound, w.Code)
	s.Equal(middleware.PanelLoginPath, w.Header().Get("Location"))
}

func (s *PanelTestSuite) TestDashboard_SuperAdminSeesGlobalCounts() {
	s.seedTask("for worker", s.worker.ID)

	w := s.get("/panel/", s.login("root"))

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Signed in as root (SUPERADMIN)")
	s.Contains(w.Body.String(), "Users: 4")
	s.Contains(w.Body.String(), "Tasks: 1")
}

func (s *PanelTestSuite) TestDashboard_AdminSeesManagedCounts() {
	s.seedTask("for worker", s.worker.ID)
	other := s.seedUser("other_worker", models.RoleUser, &s.adminB.ID)
	s.seedTask("out of scope", other.ID)

	w := s.get("/panel/", s.login("admin_a"))

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Users: 1")
	s.Contains(w.Body.String(), "Tasks: 1")
}

func (s *PanelTestSuite) TestDashboard_ForbiddenForStandardUser() {
	w := s.get("/panel/", s.login("worker"))

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *PanelTestSuite) TestUserRoutes_ForbiddenForAdmin() {
	w := s.get("/panel/users", s.login("admin_a"))

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *PanelTestSuite) TestUserCreateAndAssign() {
	cookies := s.login("root")

	form := url.Values{}
	form.Set("username", "newworker")
	form.Set("password", "password123")
	form.Set("role", "USER")
	w := s.postForm("/panel/users/create", form, cookies)
	s.Equal(http.StatusFound, w.Code)

	var created models.User
	s.Require().NoError(s.db.Where("username = ?", "newworker").First(&created).Error)
	s.Equal(models.RoleUser, created.Role)

	assign := url.Values{}
	assign.Set("user", fmt.Sprint(created.ID))
	assign.Set("admin", fmt.Sprint(s.adminB.ID))
	w = s.postForm("/panel/assign", assign, cookies)
	s.Equal(http.StatusFound, w.Code)

	s.Require().NoError(s.db.First(&created, created.ID).Error)
	s.Require().NotNil(created.AssignedAdminID)
	s.Equal(s.adminB.ID, *created.AssignedAdminID)
}

func (s *PanelTestSuite) TestAssign_RejectsNonAdminTarget() {
	cookies := s.login("root")

	assign := url.Values{}
	assign.Set("user", fmt.Sprint(s.worker.ID))
	assign.Set("admin", fmt.Sprint(s.superadmin.ID))
	w := s.postForm("/panel/assign", assign, cookies)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "assigned admin must have the ADMIN role")
}

func (s *PanelTestSuite) TestDeleteAdmin_UnassignsManagedUsers() {
	cookies := s.login("root")

	w := s.postForm("/panel/users/"+fmt.Sprint(s.adminA.ID)+"/delete", url.Values{}, cookies)
	s.Equal(http.StatusFound, w.Code)

	var worker models.User
	s.Require().NoError(s.db.First(&worker, s.worker.ID).Error)
	s.Nil(worker.AssignedAdminID)
}

func (s *PanelTestSuite) TestTasksList_ScopedByAdmin() {
	s.seedTask("in scope", s.worker.ID)
	other := s.seedUser("other_worker", models.RoleUser, &s.adminB.ID)
	s.seedTask("out of scope", other.ID)

	w := s.get("/panel/tasks", s.login("admin_a"))

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "in scope")
	s.NotContains(w.Body.String(), "out of scope")
}

func (s *PanelTestSuite) TestTaskCreate_OutOfScopeAssigneeRejected() {
	other := s.seedUser("other_worker", models.RoleUser, &s.adminB.ID)
	cookies := s.login("admin_a")

	form := url.Values{}
	form.Set("title", "misdirected")
	form.Set("assigned_to", fmt.Sprint(other.ID))
	form.Set("status", "PENDING")
	w := s.postForm("/panel/tasks/create", form, cookies)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *PanelTestSuite) completeTask(task *models.Task) {
	report := "all done"
	hours := 3.0
	task.Status = models.TaskStatusCompleted
	task.CompletionReport = &report
	task.WorkedHours = &hours
	s.Require().NoError(s.db.Save(task).Error)
}

func (s *PanelTestSuite) TestTaskReport_ManagingAdmin() {
	task := s.seedTask("write summary", s.worker.ID)
	s.completeTask(task)

	w := s.get("/panel/tasks/"+fmt.Sprint(task.ID)+"/report", s.login("admin_a"))

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "all done")
}

func (s *PanelTestSuite) TestTaskReport_OtherAdminForbidden() {
	task := s.seedTask("write summary", s.worker.ID)
	s.completeTask(task)

	w := s.get("/panel/tasks/"+fmt.Sprint(task.ID)+"/report", s.login("admin_b"))

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *PanelTestSuite) TestTaskReport_PendingTaskForbiddenPage() {
	task := s.seedTask("write summary", s.worker.ID)

	w := s.get("/panel/tasks/"+fmt.Sprint(task.ID)+"/report", s.login("admin_a"))

	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "Report only available for completed tasks.")
}

func TestPanelTestSuite(t *testing.T) {
	suite.Run(t, new(PanelTestSuite))
}
