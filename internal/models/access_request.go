package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	BarbershopID uuid.UUID   `gorm:"type:uuid;not null;index" json:"barbershop_id"`
	Barbershop   *Barbershop `gorm:"foreignKey:BarbershopID" json:"barbershop,omitempty"`

	Status string `gorm:"size:20;not null" json:"status"`

	DecidedBy *uuid.UUID `gorm:"type:uuid" json:"decided_by"`
	DecidedAt *time.Time `json:"decided_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *AccessRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
