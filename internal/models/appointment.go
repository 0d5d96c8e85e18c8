package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"-"`

	BarberProfileID uuid.UUID      `gorm:"type:uuid;not null;index" json:"barber_profile_id"`
	BarberProfile   *BarberProfile `gorm:"foreignKey:BarberProfileID" json:"barber_profile,omitempty"`

	BarbershopID uuid.UUID   `gorm:"type:uuid;not null;index" json:"barbershop_id"`
	Barbershop   *Barbershop `gorm:"foreignKey:BarbershopID" json:"-"`

	AppointmentDate time.Time `gorm:"not null;index" json:"appointment_date"`
	Status          string    `gorm:"size:20;not null" json:"status"`

	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Services []AppointmentService `gorm:"foreignKey:AppointmentID" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Total sums the prices of the loaded line items.
func (a *Appointment) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range a.Services {
		if line.Service != nil {
			total = total.Add(line.Service.Price)
		}
	}
	return total
}

type AppointmentService struct {
	AppointmentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"appointment_id"`
	ServiceID     uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"service_id"`
	Service       *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}
