package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount      int       `json:"amount"`
	Type        string    `gorm:"type:varchar(32);index" json:"type"` // Signup, Use, Refund, Purchase, Adjustment
	Feature     string    `json:"feature,omitempty"`
	Reference   string    `gorm:"index" json:"reference,omitempty"`
	Description string    `json:"description"`
	Balance     int       `json:"balance"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type CreditPlan struct {
	ID       uint            `gorm:"primary_key;autoIncrement:false" json:"id"`
	Credits  int             `gorm:"not null" json:"credits"`
	InrPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"inr_price"`
	UsdPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"usd_price"`

	Timestamp
}
