package models

import (
	"time"

	"github.com/google/uuid"
)

type Color struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	HexCode   string    `gorm:"column:hex_code;not null"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Color) TableName() string { return "colors" }
