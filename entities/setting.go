package entities

import (
	"gorm.io/datatypes"
)

type Setting struct {
	Key   string         `gorm:"type:varchar(64);primary_key" json:"key"`
	Value datatypes.JSON `gorm:"not null" json:"value"`

	Timestamp
}
