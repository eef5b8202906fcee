package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tumbluv/tumbluv-api/internal/logger"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/repository"
	"github.com/tumbluv/tumbluv-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrDuplicatedProjectURI = errors.New("project uri already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrInvalidProjectDates  = errors.New("closing date is before opening date")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrInvalidParentComment = errors.New("replies can only target root comments")
	ErrCommentRequired      = errors.New("comment is required")
	ErrFailedToRegister     = errors.New("failed to register project")
)

// Clock returns the current time. Tests replace it to pin date math.
type Clock func() time.Time

// ProjectService handles project browsing, registration and community logic
type ProjectService struct {
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
	clock        Clock
}

// NewProjectService creates a new ProjectService. A nil clock uses time.Now.
func NewProjectService(projectRepo repository.ProjectRepository, categoryRepo repository.CategoryRepository, clock Clock) *ProjectService {
	if clock == nil {
		clock = time.Now
	}
	return &ProjectService{
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

// Now returns the service clock reading, truncated to whole seconds in UTC.
func (s *ProjectService) Now() time.Time {
	return s.clock().UTC().Truncate(time.Second)
}

// ParseProjectListOptions turns listing query parameters and a page window
// into a filter. Unrecognized values leave the matching predicate unset.
func ParseProjectListOptions(query url.Values, page utils.PaginationParams) repository.ProjectFilter {
	filter := repository.ProjectFilter{PaginationParams: page}

	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}

	switch status := repository.ProjectStatus(query.Get("status")); status {
	case repository.ProjectStatusOnGoing, repository.ProjectStatusConfirm, repository.ProjectStatusPrelaunching:
		filter.Status = &status
	}

	switch achieve := repository.AchieveRange(query.Get("achieve")); achieve {
	case repository.AchieveUnder75, repository.AchieveUnder100, repository.Achieve100Up:
		filter.Achieve = &achieve
	}

	switch money := repository.MoneyRange(query.Get("money")); money {
	case repository.MoneyUnder1M, repository.Money1MTo10M, repository.Money10MTo50M,
		repository.Money50MTo100M, repository.Money100MUp:
		filter.Money = &money
	}

	switch sortKey := repository.ProjectSort(query.Get("sort")); sortKey {
	case repository.SortPopular, repository.SortPublishedAt, repository.SortPledges,
		repository.SortAmount, repository.SortEndedAt:
		filter.Sort = &sortKey
	}

	return filter
}

// ListProjects returns one page of projects and the total match count.
// A zero filter.Now is stamped with the service clock.
func (s *ProjectService) ListProjects(ctx context.Context, filter repository.ProjectFilter) ([]models.Project, int64, error) {
	if filter.Now.IsZero() {
		filter.Now = s.Now()
	}

	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// GetProject resolves a project by slug
func (s *ProjectService) GetProject(ctx context.Context, uri string) (*models.Project, error) {
	project, err := s.projectRepo.FindByURI(ctx, uri)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// CommunityThread is a root comment with its direct replies
type CommunityThread struct {
	Root    models.Community
	Replies []models.Community
}

// ProjectDetail is everything the detail page shows for one project
type ProjectDetail struct {
	Project     models.Project
	Gifts       []models.Gift
	Story       *models.Story
	Communities []CommunityThread
	Liked       bool
	Now         time.Time
}

// GetProjectDetail aggregates a project, its gifts, story and comment tree.
// A nil viewerID is an anonymous viewer.
func (s *ProjectService) GetProjectDetail(ctx context.Context, uri string, viewerID *uint64) (*ProjectDetail, error) {
	project, err := s.GetProject(ctx, uri)
	if err != nil {
		return nil, err
	}

	gifts, err := s.projectRepo.ListGifts(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}

	story, err := s.projectRepo.FindFirstStory(ctx, project.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find story: %w", err)
		}
		story = nil
	}

	comments, err := s.projectRepo.ListComments(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	liked := false
	if viewerID != nil {
		liked, err = s.projectRepo.HasLike(ctx, project.ID, *viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check like: %w", err)
		}
	}

	return &ProjectDetail{
		Project:     *project,
		Gifts:       gifts,
		Story:       story,
		Communities: buildCommunities(comments),
		Liked:       liked,
		Now:         s.Now(),
	}, nil
}

// buildCommunities groups id-ordered comments into root threads. Roots come
// newest first; replies keep id order. Replies whose parent is not a root
// are dropped.
func buildCommunities(comments []models.Community) []CommunityThread {
	rootIndex := make(map[uint64]int)
	threads := make([]CommunityThread, 0)

	for _, comment := range comments {
		if comment.ParentID == nil {
			rootIndex[comment.ID] = len(threads)
			threads = append(threads, CommunityThread{Root: comment, Replies: []models.Community{}})
		}
	}

	for _, comment := range comments {
		if comment.ParentID == nil {
			continue
		}
		if idx, ok := rootIndex[*comment.ParentID]; ok {
			threads[idx].Replies = append(threads[idx].Replies, comment)
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		a, b := threads[i].Root, threads[j].Root
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return threads
}

// GiftInput is one gift tier of a registration
type GiftInput struct {
	Name  string
	Price float64
	Stock int
}

// RegisterProjectInput holds a fully keyed registration payload
type RegisterProjectInput struct {
	UserID       uint64
	CategoryID   uint64
	Name         string
	OpeningDate  time.Time
	ClosingDate  time.Time
	GoalAmount   float64
	ThumbnailURL string
	Summary      string
	ProjectURI   string
	Story        string
	Gifts        []GiftInput
}

// RegisterProject creates a project with its story and gifts atomically
func (s *ProjectService) RegisterProject(ctx context.Context, input RegisterProjectInput) (*models.Project, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if input.ClosingDate.Before(input.OpeningDate) {
		return nil, ErrInvalidProjectDates
	}

	exists, err := s.projectRepo.ExistsByURI(ctx, input.ProjectURI)
	if err != nil {
		return nil, fmt.Errorf("failed to check project uri: %w", err)
	}
	if exists {
		return nil, ErrDuplicatedProjectURI
	}

	categoryID := input.CategoryID
	project := &models.Project{
		UserID:       input.UserID,
		CategoryID:   &categoryID,
		Name:         input.Name,
		OpeningDate:  input.OpeningDate.UTC(),
		ClosingDate:  input.ClosingDate.UTC(),
		GoalAmount:   input.GoalAmount,
		ThumbnailURL: input.ThumbnailURL,
		Summary:      input.Summary,
		ProjectURI:   input.ProjectURI,
	}
	story := &models.Story{Content: input.Story}
	gifts := make([]models.Gift, len(input.Gifts))
	for i, g := range input.Gifts {
		gifts[i] = models.Gift{
			Name:  g.Name,
			Price: g.Price,
			Stock: g.Stock,
		}
	}

	if err := s.projectRepo.CreateWithStoryAndGifts(ctx, project, story, gifts); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatedProjectURI
		}
		logger.New("ProjectService").Error("project registration rolled back",
			"project_uri", input.ProjectURI,
			"error", err,
		)
		return nil, ErrFailedToRegister
	}

	return project, nil
}

// ListCategories returns every category
func (s *ProjectService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ToggleLike flips the user's like on the project and returns the new state
func (s *ProjectService) ToggleLike(ctx context.Context, projectID, userID uint64) (bool, error) {
	liked, err := s.projectRepo.ToggleLike(ctx, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}

// CreateCommentInput represents a new comment or reply
type CreateCommentInput struct {
	ProjectID uint64
	UserID    uint64
	ParentID  *uint64
	Comment   string
}

// CreateComment adds a root comment, or a reply when ParentID names a root
// comment of the same project
func (s *ProjectService) CreateComment(ctx context.Context, input CreateCommentInput) (*models.Community, error) {
	text := strings.TrimSpace(input.Comment)
	if text == "" {
		return nil, ErrCommentRequired
	}

	if input.ParentID != nil {
		parent, err := s.projectRepo.FindComment(ctx, input.ProjectID, *input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
		if parent.ParentID != nil {
			return nil, ErrInvalidParentComment
		}
	}

	userID := input.UserID
	now := s.Now()
	comment := &models.Community{
		UserID:    &userID,
		ProjectID: input.ProjectID,
		ParentID:  input.ParentID,
		Comment:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projectRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}
