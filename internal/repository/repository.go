package repository

import (
	"context"
	"time"

	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/utils"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// List retrieves projects matching the filter, with the count taken
	// before pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// FindByURI finds a project by slug with its creator and category
	FindByURI(ctx context.Context, uri string) (*models.Project, error)

	// ExistsByURI reports whether a slug is already taken
	ExistsByURI(ctx context.Context, uri string) (bool, error)

	// CreateWithStoryAndGifts writes a project, its story and its gifts in
	// one transaction
	CreateWithStoryAndGifts(ctx context.Context, project *models.Project, story *models.Story, gifts []models.Gift) error

	// ListGifts lists a project's gifts in id order
	ListGifts(ctx context.Context, projectID uint64) ([]models.Gift, error)

	// FindFirstStory finds the lowest-id story of a project
	FindFirstStory(ctx context.Context, projectID uint64) (*models.Story, error)

	// ListComments lists every comment and reply of a project in id order
	ListComments(ctx context.Context, projectID uint64) ([]models.Community, error)

	// FindComment finds a comment belonging to the project
	FindComment(ctx context.Context, projectID, commentID uint64) (*models.Community, error)

	// CreateComment creates a comment or reply
	CreateComment(ctx context.Context, comment *models.Community) error

	// HasLike reports whether the user liked the project
	HasLike(ctx context.Context, projectID, userID uint64) (bool, error)

	// ToggleLike adds or removes the user's like and returns the new state
	ToggleLike(ctx context.Context, projectID, userID uint64) (bool, error)
}

// ProjectStatus selects projects by their funding window.
type ProjectStatus string

const (
	ProjectStatusOnGoing      ProjectStatus = "onGoing"
	ProjectStatusConfirm      ProjectStatus = "confirm"
	ProjectStatusPrelaunching ProjectStatus = "prelaunching"
)

// AchieveRange selects projects by achieved rate percentage.
type AchieveRange string

const (
	AchieveUnder75  AchieveRange = "under75"
	AchieveUnder100 AchieveRange = "under100"
	Achieve100Up    AchieveRange = "100up"
)

// MoneyRange selects projects by total amount raised.
type MoneyRange string

const (
	MoneyUnder1M   MoneyRange = "under1m"
	Money1MTo10M   MoneyRange = "1mTo10m"
	Money10MTo50M  MoneyRange = "10mTo50m"
	Money50MTo100M MoneyRange = "50mTo100m"
	Money100MUp    MoneyRange = "100mUp"
)

// ProjectSort is the listing order.
type ProjectSort string

const (
	SortPopular     ProjectSort = "popular"
	SortPublishedAt ProjectSort = "publishedAt"
	SortPledges     ProjectSort = "pledges"
	SortAmount      ProjectSort = "amount"
	SortEndedAt     ProjectSort = "endedAt"
)

// ProjectFilter holds filtering options for listing projects. Nil fields
// are not applied.
type ProjectFilter struct {
	CategoryID *uint64
	Status     *ProjectStatus
	Achieve    *AchieveRange
	Money      *MoneyRange
	Sort       *ProjectSort
	// Now is the reference time for status predicates.
	Now time.Time
	utils.PaginationParams
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// List lists all categories in id order
	List(ctx context.Context) ([]models.Category, error)

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uint64) (*models.Category, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FirstOrCreateByEmail returns the user with the given email, creating
	// it from attrs when absent
	FirstOrCreateByEmail(ctx context.Context, email string, attrs models.User) (*models.User, error)
}

// VerificationRepository defines the interface for email code storage
type VerificationRepository interface {
	// Replace deletes earlier codes for the email and stores a new one
	Replace(ctx context.Context, verification *models.Verification) error

	// FindLatest finds the newest code issued for the email
	FindLatest(ctx context.Context, email string) (*models.Verification, error)

	// Delete removes a code
	Delete(ctx context.Context, id uint64) error
}
