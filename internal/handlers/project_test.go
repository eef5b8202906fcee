package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tumbluv/tumbluv-api/internal/constants"
	"github.com/tumbluv/tumbluv-api/internal/dto"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/repository"
	"github.com/tumbluv/tumbluv-api/internal/services"
)

func createHandlerTestUser(t *testing.T, env *handlerTestEnv, name string) *models.User {
	t.Helper()
	user := &models.User{Fullname: name, Email: name + "@example.com"}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func registerTestProject(t *testing.T, env *handlerTestEnv, owner *models.User, uri string) *models.Project {
	t.Helper()
	category := &models.Category{Name: "design-" + uri}
	require.NoError(t, env.db.Create(category).Error)

	project, err := env.projectService.RegisterProject(context.Background(), services.RegisterProjectInput{
		UserID:       owner.ID,
		CategoryID:   category.ID,
		Name:         "Project " + uri,
		OpeningDate:  testNow.AddDate(0, 0, -1),
		ClosingDate:  testNow.AddDate(0, 0, 5),
		GoalAmount:   1000000,
		ThumbnailURL: "https://cdn.example.com/" + uri + ".png",
		Summary:      "summary",
		ProjectURI:   uri,
		Story:        "story",
		Gifts:        []services.GiftInput{{Name: "pin", Price: 5000, Stock: 20}},
	})
	require.NoError(t, err)
	return project
}

// withUser stands in for RequireAuth
func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// withProject stands in for RequireProject
func withProject(project *models.Project) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestRegisterProjectRequest_ToInput(t *testing.T) {
	complete := func() registerProjectRequest {
		return registerProjectRequest{
			CategoryID:   ptr(uint64(1)),
			Name:         ptr("robot"),
			OpeningDate:  ptr(testNow),
			ClosingDate:  ptr(testNow.Add(time.Hour)),
			GoalAmount:   ptr(100.0),
			ThumbnailURL: ptr("https://img"),
			Summary:      ptr("s"),
			ProjectURI:   ptr("robot"),
			Story:        ptr("story"),
			Gifts:        []giftRequest{{Name: ptr("pin"), Price: ptr(10.0), Stock: ptr(3)}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *registerProjectRequest)
		missing []string
	}{
		{"complete", func(r *registerProjectRequest) {}, nil},
		{"empty gift list", func(r *registerProjectRequest) { r.Gifts = []giftRequest{} }, nil},
		{"missing name", func(r *registerProjectRequest) { r.Name = nil }, []string{"name"}},
		{"missing story and gifts", func(r *registerProjectRequest) { r.Story, r.Gifts = nil, nil }, []string{"story", "gifts"}},
		{"gift without stock", func(r *registerProjectRequest) { r.Gifts[0].Stock = nil }, []string{"gifts[0].stock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := complete()
			tt.mutate(&req)
			input, missing := req.toInput(42)
			assert.Equal(t, tt.missing, missing)
			if missing == nil {
				assert.Equal(t, uint64(42), input.UserID)
				assert.Equal(t, "robot", input.ProjectURI)
				assert.Len(t, input.Gifts, len(req.Gifts))
			}
		})
	}
}

func TestProjectHandler_ListProjects(t *testing.T) {
	env := setupHandlerTestEnv(t)
	owner := createHandlerTestUser(t, env, "owner")
	registerTestProject(t, env, owner, "alpha")
	registerTestProject(t, env, owner, "beta")

	r := gin.New()
	r.GET("/project", env.projectHandler.ListProjects)

	req := httptest.NewRequest(http.MethodGet, "/project?limit=1&offset=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.ProjectListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(2), response.Count)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "beta", response.Results[0].ProjectURI)
	assert.Equal(t, "owner", response.Results[0].User)
	assert.Equal(t, 5, response.Results[0].DaysLeft)
}

// The listing reads the clock once, so days_left and the status predicate
// agree even when the clock moves between calls.
func TestProjectHandler_ListProjects_SingleClockRead(t *testing.T) {
	env := setupHandlerTestEnv(t)
	owner := createHandlerTestUser(t, env, "owner")
	registerTestProject(t, env, owner, "alpha")

	calls := 0
	ticking := func() time.Time {
		now := testNow.Add(time.Duration(calls) * 13 * time.Hour)
		calls++
		return now
	}
	handler := NewProjectHandler(services.NewProjectService(
		repository.NewProjectRepository(env.db),
		repository.NewCategoryRepository(env.db),
		ticking,
	))

	r := gin.New()
	r.GET("/project", handler.ListProjects)

	req := httptest.NewRequest(http.MethodGet, "/project?status=onGoing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.ProjectListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, 5, response.Results[0].DaysLeft)
	assert.Equal(t, 1, calls)
}

func TestProjectHandler_RegisterProject_MissingKeys(t *testing.T) {
	env := setupHandlerTestEnv(t)
	owner := createHandlerTestUser(t, env, "owner")

	r := gin.New()
	r.POST("/project/register", withUser(owner), env.projectHandler.RegisterProject)

	w := postJSON(t, r, "/project/register", map[string]any{
		"name":  "Robot",
		"gifts": []map[string]any{{"name": "pin", "price": 1000}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Message string `json:"message"`
		Details struct {
			Missing []string `json:"missing"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "KEY_ERROR", response.Message)
	assert.Equal(t, []string{
		"category_id", "opening_date", "closing_date", "goal_amount",
		"thumbnail_url", "summary", "project_uri", "story", "gifts[0].stock",
	}, response.Details.Missing)

	var count int64
	require.NoError(t, env.db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProjectHandler_RegisterProject(t *testing.T) {
	env := setupHandlerTestEnv(t)
	owner := createHandlerTestUser(t, env, "owner")
	category := &models.Category{Name: "tech"}
	require.NoError(t, env.db.Create(category).Error)

	r := gin.New()
	r.POST("/project/register", withUser(owner), env.projectHandler.RegisterProject)

	payload := map[string]any{
		"category_id":   category.ID,
		"name":          "Robot",
		"opening_date":  testNow.Format(time.RFC3339),
		"closing_date":  testNow.AddDate(0, 1, 0).Format(time.RFC3339),
		"goal_amount":   500000,
		"thumbnail_url": "https://img/robot.png",
		"summary":       "a robot",
		"project_uri":   "robot",
		"story":         "<p>hi</p>",
		"gifts":         []map[string]any{{"name": "pin", "price": 1000, "stock": 5}},
	}
	w := postJSON(t, r, "/project/register", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "SUCCESS", messageOf(t, w))

	var project models.Project
	require.NoError(t, env.db.Preload("Gifts").Preload("Stories").Where("project_uri = ?", "robot").First(&project).Error)
	assert.Equal(t, owner.ID, project.UserID)
	assert.Len(t, project.Gifts, 1)
	assert.Len(t, project.Stories, 1)

	w = postJSON(t, r, "/project/register", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "DUPLICATED_ENTRY", messageOf(t, w))

	anonymous := gin.New()
	anonymous.POST("/project/register", env.projectHandler.RegisterProject)
	w = postJSON(t, anonymous, "/project/register", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectHandler_ToggleLike(t *testing.T) {
	env := setupHandlerTestEnv(t)
	owner := createHandlerTestUser(t, env, "owner")
	fan := createHandlerTestUser(t, env, "fan")
	project := registerTestProject(t, env, owner, "alpha")

	r := gin.New()
	r.POST("/project/:project_uri/like", withUser(fan), withProject(project), env.projectHandler.ToggleLike)

	var response struct {
		Like bool `json:"like"`
	}
	for _, want := range []bool{true, false} {
		w := postJSON(t, r, "/project/alpha/like", map[string]any{})
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, want, response.Like)
	}
}

func TestProjectHandler_CreateComment(t *testing.T) {
	env := setupHandlerTestEnv(t)
	owner := createHandlerTestUser(t, env, "owner")
	project := registerTestProject(t, env, owner, "alpha")

	r := gin.New()
	r.POST("/project/:project_uri/community", withUser(owner), withProject(project), env.projectHandler.CreateComment)

	w := postJSON(t, r, "/project/alpha/community", map[string]any{"comment": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	var root dto.CommentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "hello", root.Comment)
	assert.Nil(t, root.ParentID)
	assert.True(t, root.CreatedAt.Equal(testNow))

	w = postJSON(t, r, "/project/alpha/community", map[string]any{"comment": "reply", "parent_id": root.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var reply dto.CommentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	w = postJSON(t, r, "/project/alpha/community", map[string]any{"comment": "deep", "parent_id": reply.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARENT", messageOf(t, w))

	w = postJSON(t, r, "/project/alpha/community", map[string]any{"comment": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "KEY_ERROR", messageOf(t, w))
}
