package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Credits  int       `gorm:"not null;default:0" json:"credits"`
	IsAdmin  bool      `gorm:"not null;default:false" json:"is_admin"`
	Country  string    `gorm:"type:varchar(64)" json:"country"`
	DeviceID string    `gorm:"type:varchar(128);index" json:"device_id,omitempty"`

	Timestamp
}

// DeviceClaim marks a device that already received signup credits.
// Rows outlive the user that claimed them.
type DeviceClaim struct {
	DeviceID string     `gorm:"type:varchar(128);primary_key" json:"device_id"`
	UserID   *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`

	Timestamp
}
