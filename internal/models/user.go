package models

import (
	"time"
)

type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Fullname        string    `gorm:"type:varchar(40);not null" json:"fullname"`
	Email           string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`
	PasswordHash    *string   `gorm:"column:password;type:varchar(200)" json:"-"`
	ProfileImage    *string   `gorm:"type:varchar(2000)" json:"profile_image"`
	UserDescription *string   `gorm:"type:varchar(1000)" json:"user_description"`
	PhoneNumber     *string   `gorm:"type:varchar(40)" json:"phone_number"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Projects []Project   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders   []Order     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Likes    []Like      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Community `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

// Verification is an email ownership code issued during signup.
type Verification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(200);index;not null" json:"email"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
