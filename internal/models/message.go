package models

import "time"

type Message struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID *uint64   `gorm:"index" json:"project_id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"type:varchar(2000);not null" json:"text"`
	Status    bool      `gorm:"not null;default:false" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Verification{},
		&Category{},
		&Project{},
		&Gift{},
		&Story{},
		&Community{},
		&Like{},
		&OrderStatus{},
		&Recipient{},
		&CardNumber{},
		&AccountNumber{},
		&Order{},
		&Message{},
	}
}
