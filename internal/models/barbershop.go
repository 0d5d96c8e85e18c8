package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barbershop struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Address        string    `gorm:"size:255;not null" json:"address"`
	City           string    `gorm:"size:50" json:"city"`
	State          string    `gorm:"size:50" json:"state"`
	ZipCode        string    `gorm:"size:10" json:"zip_code"`
	AdditionalInfo string    `gorm:"size:200" json:"additional_info"`
	Phone          string    `gorm:"size:20" json:"phone"`
	Timezone       string    `gorm:"size:64" json:"timezone"`

	// Null until the address has been geocoded.
	Lat *float64 `gorm:"index:idx_barbershops_coords,priority:1" json:"lat"`
	Lng *float64 `gorm:"index:idx_barbershops_coords,priority:2" json:"lng"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barbershop) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// FullAddress is the text handed to the geocoder.
func (b *Barbershop) FullAddress() string {
	out := b.Address
	for _, part := range []string{b.City, b.State, b.ZipCode} {
		if part != "" {
			out += ", " + part
		}
	}
	return out
}

func (b *Barbershop) HasCoordinates() bool {
	return b.Lat != nil && b.Lng != nil
}
