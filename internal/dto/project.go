package dto

import (
	"time"

	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/services"
)

const day = 24 * time.Hour

// wholeDays truncates a duration toward zero in days
func wholeDays(d time.Duration) int {
	return int(d / day)
}

// ProjectListItemDTO represents a project card in list responses
type ProjectListItemDTO struct {
	ThumbnailURL string  `json:"thumbnail_url"`
	Name         string  `json:"name"`
	Category     *string `json:"category"`
	User         string  `json:"user"`
	Summary      string  `json:"summary"`
	TotalAmount  int64   `json:"total_amount"`
	AchievedRate int64   `json:"achieved_rate"`
	DaysLeft     int     `json:"days_left"`
	ProjectURI   string  `json:"project_uri"`
}

// ProjectListResponse represents one page of projects
type ProjectListResponse struct {
	Count   int64                `json:"count"`
	Results []ProjectListItemDTO `json:"results"`
}

// GiftOptionDTO represents a gift tier on the detail page
type GiftOptionDTO struct {
	ID          uint64  `json:"id"`
	Description string  `json:"description"`
	Money       float64 `json:"money"`
	People      int     `json:"people"`
	Stock       int     `json:"stock"`
}

type ProjectInfoDTO struct {
	Category        *string         `json:"category"`
	Name            string          `json:"name"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	Creator         string          `json:"creator"`
	AchievedRate    float64         `json:"achieved_rate"`
	TotalAmount     float64         `json:"total_amount"`
	RestDate        int             `json:"rest_date"`
	TotalSupporters int             `json:"total_supporters"`
	GoalAmount      float64         `json:"goal_amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	Like            bool            `json:"like"`
	Option          []GiftOptionDTO `json:"option"`
}

type CreatorInfoDTO struct {
	Name               string  `json:"name"`
	CreatorDescription *string `json:"creator_description"`
}

type RecommentDTO struct {
	User      *string   `json:"user"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CommunityDTO struct {
	User      *string        `json:"user"`
	Comment   string         `json:"comment"`
	PastDate  int            `json:"past_date"`
	CreatedAt time.Time      `json:"created_at"`
	Recomment []RecommentDTO `json:"recomment"`
}

type TabDTO struct {
	Story       *string        `json:"story"`
	Communities []CommunityDTO `json:"communities"`
}

// ProjectDetailResponse is the project detail document
type ProjectDetailResponse struct {
	ProjectInfo ProjectInfoDTO `json:"project_info"`
	CreatorInfo CreatorInfoDTO `json:"creator_info"`
	Tab         TabDTO         `json:"tab"`
}

// CategoryDTO represents a category
type CategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CommentDTO represents a freshly created comment
type CommentDTO struct {
	ID        uint64    `json:"id"`
	ParentID  *uint64   `json:"parent_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversion functions

func categoryName(project models.Project) *string {
	if project.Category == nil {
		return nil
	}
	name := project.Category.Name
	return &name
}

func commenterName(comment models.Community) *string {
	if comment.User == nil {
		return nil
	}
	name := comment.User.Fullname
	return &name
}

// ToProjectListItemDTO converts a Project model to a list card
func ToProjectListItemDTO(project models.Project, now time.Time) ProjectListItemDTO {
	return ProjectListItemDTO{
		ThumbnailURL: project.ThumbnailURL,
		Name:         project.Name,
		Category:     categoryName(project),
		User:         project.User.Fullname,
		Summary:      project.Summary,
		TotalAmount:  int64(project.TotalAmount),
		AchievedRate: int64(project.AchievedRate),
		DaysLeft:     wholeDays(project.ClosingDate.Sub(now)),
		ProjectURI:   project.ProjectURI,
	}
}

// ToProjectListResponse converts a page of projects
func ToProjectListResponse(projects []models.Project, count int64, now time.Time) ProjectListResponse {
	items := make([]ProjectListItemDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectListItemDTO(project, now)
	}
	return ProjectListResponse{
		Count:   count,
		Results: items,
	}
}

// ToProjectDetailResponse converts an aggregated project detail
func ToProjectDetailResponse(detail services.ProjectDetail) ProjectDetailResponse {
	project := detail.Project

	options := make([]GiftOptionDTO, len(detail.Gifts))
	for i, gift := range detail.Gifts {
		options[i] = GiftOptionDTO{
			ID:          gift.ID,
			Description: gift.Name,
			Money:       gift.Price,
			People:      gift.QuantitySold,
			Stock:       gift.Stock,
		}
	}

	communities := make([]CommunityDTO, len(detail.Communities))
	for i, thread := range detail.Communities {
		recomments := make([]RecommentDTO, len(thread.Replies))
		for j, reply := range thread.Replies {
			recomments[j] = RecommentDTO{
				User:      commenterName(reply),
				Comment:   reply.Comment,
				CreatedAt: reply.CreatedAt,
			}
		}
		communities[i] = CommunityDTO{
			User:      commenterName(thread.Root),
			Comment:   thread.Root.Comment,
			PastDate:  wholeDays(detail.Now.Sub(thread.Root.UpdatedAt)),
			CreatedAt: thread.Root.CreatedAt,
			Recomment: recomments,
		}
	}

	var story *string
	if detail.Story != nil {
		content := detail.Story.Content
		story = &content
	}

	return ProjectDetailResponse{
		ProjectInfo: ProjectInfoDTO{
			Category:        categoryName(project),
			Name:            project.Name,
			ThumbnailURL:    project.ThumbnailURL,
			Creator:         project.User.Fullname,
			AchievedRate:    project.AchievedRate,
			TotalAmount:     project.TotalAmount,
			RestDate:        wholeDays(project.ClosingDate.Sub(detail.Now)),
			TotalSupporters: project.TotalSupporters,
			GoalAmount:      project.GoalAmount,
			PaymentDate:     project.ClosingDate.Add(day),
			Like:            detail.Liked,
			Option:          options,
		},
		CreatorInfo: CreatorInfoDTO{
			Name:               project.User.Fullname,
			CreatorDescription: project.User.UserDescription,
		},
		Tab: TabDTO{
			Story:       story,
			Communities: communities,
		},
	}
}

// ToCategoryDTO converts a Category model
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
	}
}

// ToCommentDTO converts a Community model
func ToCommentDTO(comment models.Community) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		ParentID:  comment.ParentID,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
	}
}
