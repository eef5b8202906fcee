package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tumbluv/tumbluv-api/internal/database"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCreateProject is returned when inserting the project row fails inside the registration transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateStory is returned when inserting the story row fails inside the registration transaction.
	ErrCreateStory = errors.New("project repository: create story failed")
	// ErrCreateGift is returned when inserting a gift row fails inside the registration transaction.
	ErrCreateGift = errors.New("project repository: create gift failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// List retrieves projects with filtering, sorting and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.WithContext(ctx).Model(&models.Project{})

	if filter.CategoryID != nil {
		query = query.Where("projects.category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		switch *filter.Status {
		case ProjectStatusOnGoing:
			query = query.Where("projects.opening_date <= ? AND projects.closing_date >= ?", filter.Now, filter.Now)
		case ProjectStatusConfirm:
			query = query.Where("projects.achieved_rate >= ?", 100)
		case ProjectStatusPrelaunching:
			query = query.Where("projects.opening_date > ?", filter.Now)
		}
	}
	if filter.Achieve != nil {
		switch *filter.Achieve {
		case AchieveUnder75:
			query = query.Where("projects.achieved_rate <= ?", 75)
		case AchieveUnder100:
			query = query.Where("projects.achieved_rate > ? AND projects.achieved_rate < ?", 75, 100)
		case Achieve100Up:
			query = query.Where("projects.achieved_rate >= ?", 100)
		}
	}
	if filter.Money != nil {
		switch *filter.Money {
		case MoneyUnder1M:
			query = query.Where("projects.total_amount <= ?", 1_000_000)
		case Money1MTo10M:
			query = query.Where("projects.total_amount > ? AND projects.total_amount <= ?", 1_000_000, 10_000_000)
		case Money10MTo50M:
			query = query.Where("projects.total_amount > ? AND projects.total_amount <= ?", 10_000_000, 50_000_000)
		case Money50MTo100M:
			query = query.Where("projects.total_amount > ? AND projects.total_amount <= ?", 50_000_000, 100_000_000)
		case Money100MUp:
			query = query.Where("projects.total_amount > ?", 100_000_000)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.Sort != nil {
		switch *filter.Sort {
		case SortPopular:
			listQuery = listQuery.Order("projects.achieved_rate DESC")
		case SortPublishedAt:
			listQuery = listQuery.Order("projects.opening_date DESC")
		case SortPledges:
			listQuery = listQuery.Order("projects.total_supporters DESC")
		case SortAmount:
			listQuery = listQuery.Order("projects.total_amount DESC")
		case SortEndedAt:
			listQuery = listQuery.Order("projects.closing_date ASC")
		}
	}
	listQuery = listQuery.Order("projects.id ASC")

	listQuery = listQuery.Scopes(database.Paginate(filter.PaginationParams))

	if err := listQuery.Preload("User").Preload("Category").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// FindByURI finds a project by slug with its creator and category
func (r *GormProjectRepository) FindByURI(ctx context.Context, uri string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		Where("project_uri = ?", uri).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsByURI reports whether a slug is already taken
func (r *GormProjectRepository) ExistsByURI(ctx context.Context, uri string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("project_uri = ?", uri).
		Count(&count).Error
	return count > 0, err
}

// CreateWithStoryAndGifts writes the project, then its story, then each gift.
// Any failure rolls back every row.
func (r *GormProjectRepository) CreateWithStoryAndGifts(ctx context.Context, project *models.Project, story *models.Story, gifts []models.Gift) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateProject, err)
		}

		story.ProjectID = project.ID
		if err := tx.Create(story).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateStory, err)
		}

		for i := range gifts {
			gifts[i].ProjectID = project.ID
			if err := tx.Create(&gifts[i]).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateGift, err)
			}
		}

		return nil
	})
}

// ListGifts lists a project's gifts in id order
func (r *GormProjectRepository) ListGifts(ctx context.Context, projectID uint64) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// FindFirstStory finds the lowest-id story of a project
func (r *GormProjectRepository) FindFirstStory(ctx context.Context, projectID uint64) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// ListComments lists every comment and reply of a project in id order
func (r *GormProjectRepository) ListComments(ctx context.Context, projectID uint64) ([]models.Community, error) {
	var comments []models.Community
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindComment finds a comment belonging to the project
func (r *GormProjectRepository) FindComment(ctx context.Context, projectID, commentID uint64) (*models.Community, error) {
	var comment models.Community
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, commentID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// CreateComment creates a comment or reply
func (r *GormProjectRepository) CreateComment(ctx context.Context, comment *models.Community) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// HasLike reports whether the user liked the project
func (r *GormProjectRepository) HasLike(ctx context.Context, projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// ToggleLike adds the like when absent and removes it otherwise. Losing an
// insert race to a concurrent first like still reports the project as liked.
func (r *GormProjectRepository) ToggleLike(ctx context.Context, projectID, userID uint64) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		liked = true
		return tx.Create(&models.Like{ProjectID: projectID, UserID: userID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return liked, nil
}
