package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskforce/internal/constants"
	"taskforce/internal/models"
	"taskforce/internal/repository"
	"taskforce/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler

	admin *models.User
	owner *models.User
	other *models.User
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Task{})
	suite.Require().NoError(err)

	taskService := services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)

	suite.admin = suite.createTestUser("admin", models.RoleAdmin, nil)
	suite.owner = suite.createTestUser("owner", models.RoleUser, &suite.admin.ID)
	suite.other = suite.createTestUser("other", models.RoleUser, &suite.admin.ID)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(username string, role models.Role, adminID *uint64) *models.User {
	user := &models.User{
		Username:        username,
		PasswordHash:    "hashedpassword",
		Role:            role,
		AssignedAdminID: adminID,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID uint64) *models.Task {
	task := &models.Task{
		Title:        title,
		Description:  "Test Description",
		AssignedToID: ownerID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create an authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, actor *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUser, actor)

	return c, w
}

func (suite *TaskHandlerTestSuite) TestListMyTasks() {
	suite.createTestTask("mine first", suite.owner.ID)
	suite.createTestTask("not mine", suite.other.ID)
	suite.createTestTask("mine second", suite.owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, suite.owner)
	suite.handler.ListMyTasks(c)

	suite.Equal(http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	suite.Require().Len(response, 2)

	// newest first, never another user's task
	suite.Equal("mine second", response[0]["title"])
	suite.Equal("mine first", response[1]["title"])
}

func (suite *TaskHandlerTestSuite) TestListMyTasks_Unauthenticated() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/tasks", nil)

	suite.handler.ListMyTasks(c)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateMyTask_CompleteWithReport() {
	task := suite.createTestTask("write summary", suite.owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status":            "COMPLETED",
		"completion_report": "all done",
		"worked_hours":      5.5,
	})

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateMyTask(c)

	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	suite.Equal("COMPLETED", response["status"])
	suite.Equal("all done", response["completion_report"])

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	suite.Equal(models.TaskStatusCompleted, stored.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateMyTask_CompleteWithoutReport() {
	task := suite.createTestTask("write summary", suite.owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "COMPLETED",
	})

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateMyTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	suite.Equal(models.TaskStatusPending, stored.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateMyTask_NegativeHours() {
	suite.createTestTask("write summary", suite.owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status":            "COMPLETED",
		"completion_report": "all done",
		"worked_hours":      -2,
	})

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateMyTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

// A non-owner addressing a task by identifier is denied outright.
func (suite *TaskHandlerTestSuite) TestUpdateMyTask_NonOwnerForbidden() {
	suite.createTestTask("write summary", suite.owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "IN_PROGRESS",
	})

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, suite.other)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateMyTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateMyTask_NotFound() {
	body, _ := json.Marshal(map[string]interface{}{
		"status": "IN_PROGRESS",
	})

	c, w := suite.createAuthContext("PATCH", "/api/tasks/999", body, suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.UpdateMyTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateMyTask_InvalidID() {
	c, w := suite.createAuthContext("PATCH", "/api/tasks/abc", []byte("{}"), suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	suite.handler.UpdateMyTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) completeTask(task *models.Task) {
	report := "all done"
	hours := 3.0
	task.Status = models.TaskStatusCompleted
	task.CompletionReport = &report
	task.WorkedHours = &hours
	suite.Require().NoError(suite.db.Save(task).Error)
}

func (suite *TaskHandlerTestSuite) TestGetTaskReport_ManagingAdmin() {
	task := suite.createTestTask("write summary", suite.owner.ID)
	suite.completeTask(task)

	c, w := suite.createAuthContext("GET", "/api/tasks/1/report", nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetTaskReport(c)

	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	suite.Equal("all done", response["completion_report"])
	suite.Equal(3.0, response["worked_hours"])
}

func (suite *TaskHandlerTestSuite) TestGetTaskReport_OtherAdminForbidden() {
	otherAdmin := suite.createTestUser("other_admin", models.RoleAdmin, nil)
	task := suite.createTestTask("write summary", suite.owner.ID)
	suite.completeTask(task)

	c, w := suite.createAuthContext("GET", "/api/tasks/1/report", nil, otherAdmin)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetTaskReport(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

// The owner is denied before the completion check: the status code does not
// reveal whether a report exists.
func (suite *TaskHandlerTestSuite) TestGetTaskReport_OwnerForbiddenRegardlessOfStatus() {
	task := suite.createTestTask("write summary", suite.owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1/report", nil, suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.GetTaskReport(c)
	suite.Equal(http.StatusForbidden, w.Code)

	suite.completeTask(task)

	c, w = suite.createAuthContext("GET", "/api/tasks/1/report", nil, suite.owner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.GetTaskReport(c)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTaskReport_PendingTask() {
	suite.createTestTask("write summary", suite.owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1/report", nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetTaskReport(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTaskReport_NotFound() {
	c, w := suite.createAuthContext("GET", "/api/tasks/999/report", nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.GetTaskReport(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
