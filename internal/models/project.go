package models

import (
	"time"
)

type Category struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

type Project struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	UserID          uint64    `gorm:"not null;index" json:"user_id"`
	CategoryID      *uint64   `gorm:"index" json:"category_id"`
	Name            string    `gorm:"type:varchar(200);not null" json:"name"`
	OpeningDate     time.Time `gorm:"not null;index" json:"opening_date"`
	ClosingDate     time.Time `gorm:"not null;index" json:"closing_date"`
	TotalSupporters int       `gorm:"not null;default:0" json:"total_supporters"`
	AchievedRate    float64   `gorm:"type:decimal(10,2);not null;default:0" json:"achieved_rate"`
	TotalAmount     float64   `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	GoalAmount      float64   `gorm:"type:decimal(15,2);not null" json:"goal_amount"`
	ThumbnailURL    string    `gorm:"type:varchar(2000);not null" json:"thumbnail_url"`
	Summary         string    `gorm:"type:varchar(500);not null" json:"summary"`
	ProjectURI      string    `gorm:"column:project_uri;type:varchar(200);uniqueIndex;not null" json:"project_uri"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	User     User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Category *Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Gifts    []Gift      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"gifts,omitempty"`
	Stories  []Story     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Community `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Likes    []Like      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// Gift is a pledge tier. QuantitySold is expected to stay at or below Stock
// but the database does not enforce it.
type Gift struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	ProjectID    uint64  `gorm:"not null;index" json:"project_id"`
	Name         string  `gorm:"type:varchar(100);not null" json:"name"`
	Price        float64 `gorm:"type:decimal(15,2);not null" json:"price"`
	QuantitySold int     `gorm:"not null;default:0" json:"quantity_sold"`
	Stock        int     `gorm:"not null" json:"stock"`
}

type Story struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;index" json:"project_id"`
	Content   string `gorm:"type:text;not null" json:"content"`
}

type Like struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;uniqueIndex:idx_likes_project_user" json:"project_id"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_likes_project_user" json:"user_id"`
}
