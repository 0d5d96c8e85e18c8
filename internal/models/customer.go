package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer aggregates one user's spend and visits within one barbershop.
type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_customers_user_shop,priority:1" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	BarbershopID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:ux_customers_user_shop,priority:2;index" json:"barbershop_id"`
	Barbershop   *Barbershop `gorm:"foreignKey:BarbershopID" json:"barbershop,omitempty"`

	TotalSpent       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_spent"`
	AppointmentCount int             `gorm:"not null" json:"appointment_count"`
	FirstVisitDate   *time.Time      `json:"first_visit_date"`
	LastVisitDate    *time.Time      `json:"last_visit_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
