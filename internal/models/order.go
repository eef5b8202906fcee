package models

// Orders and the saved payment/shipping profiles are stored as submitted.
// Nothing in the API settles payments or adjusts project totals from them.

type Order struct {
	ID              uint64  `gorm:"primarykey" json:"id"`
	UserID          uint64  `gorm:"not null;index" json:"user_id"`
	GiftID          *uint64 `json:"gift_id"`
	RecipientID     *uint64 `json:"recipient_id"`
	CardNumberID    *uint64 `json:"card_number_id"`
	AccountNumberID *uint64 `json:"account_number_id"`
	Donation        float64 `gorm:"type:decimal(15,2);not null" json:"donation"`
	StatusID        *uint64 `json:"status_id"`

	// Relations
	Gift          *Gift          `gorm:"foreignKey:GiftID;constraint:OnDelete:SET NULL" json:"-"`
	Recipient     *Recipient     `gorm:"foreignKey:RecipientID;constraint:OnDelete:SET NULL" json:"-"`
	CardNumber    *CardNumber    `gorm:"foreignKey:CardNumberID;constraint:OnDelete:SET NULL" json:"-"`
	AccountNumber *AccountNumber `gorm:"foreignKey:AccountNumberID;constraint:OnDelete:SET NULL" json:"-"`
	Status        *OrderStatus   `gorm:"foreignKey:StatusID;constraint:OnDelete:SET NULL" json:"-"`
}

type Recipient struct {
	ID          uint64  `gorm:"primarykey" json:"id"`
	UserID      *uint64 `gorm:"index" json:"user_id"`
	Fullname    string  `gorm:"type:varchar(100);not null" json:"fullname"`
	Address     string  `gorm:"type:varchar(500);not null" json:"address"`
	PhoneNumber string  `gorm:"type:varchar(40);not null" json:"phone_number"`
	PostCode    *int    `json:"post_code"`
	IsDefault   bool    `gorm:"not null;default:false" json:"is_default"`
}

type CardNumber struct {
	ID         uint64  `gorm:"primarykey" json:"id"`
	UserID     *uint64 `gorm:"index" json:"user_id"`
	CardNumber string  `gorm:"type:varchar(16);not null" json:"card_number"`
	IsDefault  bool    `gorm:"not null;default:false" json:"is_default"`
}

type AccountNumber struct {
	ID            uint64  `gorm:"primarykey" json:"id"`
	UserID        *uint64 `gorm:"index" json:"user_id"`
	AccountNumber string  `gorm:"type:varchar(20);not null" json:"account_number"`
	IsDefault     bool    `gorm:"not null;default:false" json:"is_default"`
}

type OrderStatus struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	Status string `gorm:"type:varchar(20);not null" json:"status"`
}

func (OrderStatus) TableName() string {
	return "statuses"
}
