package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uuid.UUID  `gorm:"type:uuid;index" json:"barbershop_id"`
	UserID       *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	Action       string     `gorm:"size:50;not null" json:"action"`

	Entity   string     `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	Metadata string     `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
