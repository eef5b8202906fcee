package models

import "time"

// Community is a project comment. Rows with a ParentID are replies; the
// service layer only accepts replies to root comments.
type Community struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    *uint64   `gorm:"index" json:"user_id"`
	ProjectID uint64    `gorm:"not null;index:idx_communities_project_parent" json:"project_id"`
	ParentID  *uint64   `gorm:"index:idx_communities_project_parent" json:"parent_id"`
	Comment   string    `gorm:"type:varchar(1000);not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User    *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Replies []Community `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}
