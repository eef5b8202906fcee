package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tumbluv/tumbluv-api/internal/dto"
	apierrors "github.com/tumbluv/tumbluv-api/internal/errors"
	"github.com/tumbluv/tumbluv-api/internal/logger"
	"github.com/tumbluv/tumbluv-api/internal/middleware"
	"github.com/tumbluv/tumbluv-api/internal/services"
	"github.com/tumbluv/tumbluv-api/internal/utils"
)

// ProjectHandler serves project browsing, registration and community routes.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns a filtered, sorted page of projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	filter := services.ParseProjectListOptions(c.Request.URL.Query(), utils.GetPaginationParams(c))
	filter.Now = h.projectService.Now()

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), filter)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, total, filter.Now))
}

// ListCategories returns every category
func (h *ProjectHandler) ListCategories(c *gin.Context) {
	categories, err := h.projectService.ListCategories(c.Request.Context())
	if err != nil {
		respondProjectError(c, err)
		return
	}

	results := make([]dto.CategoryDTO, len(categories))
	for i, category := range categories {
		results[i] = dto.ToCategoryDTO(category)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetProject returns the detail document. Anonymous viewers never see a like.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	var viewerID *uint64
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	detail, err := h.projectService.GetProjectDetail(c.Request.Context(), c.Param("project_uri"), viewerID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailResponse(*detail))
}

type giftRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int     `json:"stock"`
}

type registerProjectRequest struct {
	CategoryID   *uint64       `json:"category_id"`
	Name         *string       `json:"name"`
	OpeningDate  *time.Time    `json:"opening_date"`
	ClosingDate  *time.Time    `json:"closing_date"`
	GoalAmount   *float64      `json:"goal_amount"`
	ThumbnailURL *string       `json:"thumbnail_url"`
	Summary      *string       `json:"summary"`
	ProjectURI   *string       `json:"project_uri"`
	Story        *string       `json:"story"`
	Gifts        []giftRequest `json:"gifts"`
}

// missingKeys lists absent keys in payload order. Gift keys are reported as
// gifts[i].name and so on.
func (r registerProjectRequest) missingKeys() []string {
	var missing []string
	check := func(key string, absent bool) {
		if absent {
			missing = append(missing, key)
		}
	}

	check("category_id", r.CategoryID == nil)
	check("name", r.Name == nil)
	check("opening_date", r.OpeningDate == nil)
	check("closing_date", r.ClosingDate == nil)
	check("goal_amount", r.GoalAmount == nil)
	check("thumbnail_url", r.ThumbnailURL == nil)
	check("summary", r.Summary == nil)
	check("project_uri", r.ProjectURI == nil)
	check("story", r.Story == nil)
	check("gifts", r.Gifts == nil)
	for i, g := range r.Gifts {
		check(fmt.Sprintf("gifts[%d].name", i), g.Name == nil)
		check(fmt.Sprintf("gifts[%d].price", i), g.Price == nil)
		check(fmt.Sprintf("gifts[%d].stock", i), g.Stock == nil)
	}
	return missing
}

// toInput returns the missing keys instead of an input when the payload is
// incomplete
func (r registerProjectRequest) toInput(userID uint64) (services.RegisterProjectInput, []string) {
	if missing := r.missingKeys(); len(missing) > 0 {
		return services.RegisterProjectInput{}, missing
	}

	gifts := make([]services.GiftInput, len(r.Gifts))
	for i, g := range r.Gifts {
		gifts[i] = services.GiftInput{Name: *g.Name, Price: *g.Price, Stock: *g.Stock}
	}

	return services.RegisterProjectInput{
		UserID:       userID,
		CategoryID:   *r.CategoryID,
		Name:         *r.Name,
		OpeningDate:  *r.OpeningDate,
		ClosingDate:  *r.ClosingDate,
		GoalAmount:   *r.GoalAmount,
		ThumbnailURL: *r.ThumbnailURL,
		Summary:      *r.Summary,
		ProjectURI:   *r.ProjectURI,
		Story:        *r.Story,
		Gifts:        gifts,
	}, nil
}

// RegisterProject creates a project with its story and gifts
func (h *ProjectHandler) RegisterProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req registerProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeKeyError)
		return
	}
	input, missing := req.toInput(userID)
	if len(missing) > 0 {
		apierrors.BadRequestWithDetails(c, apierrors.CodeKeyError, gin.H{"missing": missing})
		return
	}

	if _, err := h.projectService.RegisterProject(c.Request.Context(), input); err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Message(c, http.StatusOK, apierrors.CodeSuccess)
}

// ToggleLike flips the viewer's like on the project
func (h *ProjectHandler) ToggleLike(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, apierrors.CodeProjectNotExist)
		return
	}

	liked, err := h.projectService.ToggleLike(c.Request.Context(), project.ID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": apierrors.CodeSuccess, "like": liked})
}

// CreateComment posts a comment or a reply to a root comment
func (h *ProjectHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		Comment  *string `json:"comment"`
		ParentID *uint64 `json:"parent_id"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, apierrors.CodeProjectNotExist)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Comment == nil {
		apierrors.BadRequest(c, apierrors.CodeKeyError)
		return
	}

	comment, err := h.projectService.CreateComment(c.Request.Context(), services.CreateCommentInput{
		ProjectID: project.ID,
		UserID:    userID,
		ParentID:  req.ParentID,
		Comment:   *req.Comment,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, apierrors.CodeProjectNotExist)
	case errors.Is(err, services.ErrDuplicatedProjectURI):
		apierrors.BadRequest(c, apierrors.CodeDuplicatedEntry)
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.BadRequest(c, apierrors.CodeCategoryNotExist)
	case errors.Is(err, services.ErrInvalidProjectDates):
		apierrors.BadRequest(c, apierrors.CodeInvalidDate)
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, apierrors.CodeCommunityNotExist)
	case errors.Is(err, services.ErrInvalidParentComment):
		apierrors.BadRequest(c, apierrors.CodeInvalidParent)
	case errors.Is(err, services.ErrCommentRequired):
		apierrors.BadRequest(c, apierrors.CodeKeyError)
	default:
		logger.New("ProjectHandler").Error("request failed", "path", c.FullPath(), "error", err)
		apierrors.InternalError(c)
	}
}
