package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentRequest struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	PlanID         uint            `json:"plan_id"`
	Plan           string          `json:"plan"`
	Credits        int             `json:"credits"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Currency       string          `gorm:"type:varchar(8)" json:"currency"`
	OrderID        string          `gorm:"uniqueIndex;not null" json:"order_id"`
	Note           string          `json:"note"`
	Status         string          `gorm:"type:varchar(16);index;not null" json:"status"` // pending, approved, rejected
	PaymentLink    string          `json:"payment_link,omitempty"`
	GatewayPayload datatypes.JSON  `json:"gateway_payload,omitempty"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type CryptoPaymentTransaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	PlanID         uint            `json:"plan_id"`
	OrderID        string          `gorm:"uniqueIndex;not null" json:"order_id"`
	TrackID        string          `gorm:"index" json:"track_id,omitempty"`
	Credits        int             `json:"credits"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Currency       string          `gorm:"type:varchar(8)" json:"currency"`
	Gateway        string          `gorm:"type:varchar(16)" json:"gateway"`
	Status         string          `gorm:"type:varchar(16);index;not null" json:"status"` // pending, completed
	PaymentURL     string          `json:"payment_url,omitempty"`
	GatewayPayload datatypes.JSON  `json:"gateway_payload,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}
