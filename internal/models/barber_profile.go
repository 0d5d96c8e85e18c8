package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRole string

const (
	StaffOwner  StaffRole = "OWNER"
	StaffBarber StaffRole = "BARBER"
)

// BarberProfile grants a user a staff role inside exactly one barbershop.
type BarberProfile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_barber_profiles_user_shop,priority:1" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	BarbershopID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:ux_barber_profiles_user_shop,priority:2;index" json:"barbershop_id"`
	Barbershop   *Barbershop `gorm:"foreignKey:BarbershopID" json:"barbershop,omitempty"`

	Role StaffRole `gorm:"size:20;not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *BarberProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
