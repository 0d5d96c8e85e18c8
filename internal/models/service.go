package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is soft-deleted through DeletedAt so appointments keep referencing it.
type Service struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BarbershopID uuid.UUID `gorm:"type:uuid;not null;index" json:"barbershop_id"`

	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"size:255" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Category        string          `gorm:"size:50" json:"category"`
	IsActive        bool            `gorm:"not null" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
