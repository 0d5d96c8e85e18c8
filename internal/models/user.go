package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient UserRole = "CLIENT"
	RoleBarber UserRole = "BARBER"
	RoleAdmin  UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleBarber, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null" json:"role"`
	Username     string   `gorm:"size:50" json:"username"`
	Phone        string   `gorm:"size:20" json:"phone"`

	EmailVerified    bool   `gorm:"not null" json:"email_verified"`
	RefreshTokenHash string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
