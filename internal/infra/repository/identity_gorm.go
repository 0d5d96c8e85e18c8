package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type IdentityGormRepository struct {
	db *gorm.DB
}

func NewIdentityGormRepository(db *gorm.DB) *IdentityGormRepository {
	return &IdentityGormRepository{db: db}
}

func (r *IdentityGormRepository) WithinTx(
	ctx context.Context,
	fn func(identity.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&IdentityGormRepository{db: tx})
	})
}

func (r *IdentityGormRepository) CreateUser(
	ctx context.Context,
	u *models.User,
) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *IdentityGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *IdentityGormRepository) FindByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *IdentityGormRepository) UpdateUser(
	ctx context.Context,
	u *models.User,
) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("email", "password_hash", "username", "phone", "email_verified").
		Updates(u).Error
}

func (r *IdentityGormRepository) SetRefreshTokenHash(
	ctx context.Context,
	id uuid.UUID,
	hash string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token_hash", hash).Error
}

func (r *IdentityGormRepository) FindMembership(
	ctx context.Context,
	userID uuid.UUID,
	barbershopID uuid.UUID,
) (*models.BarberProfile, error) {
	return findMembership(r.db.WithContext(ctx), userID, barbershopID)
}

func (r *IdentityGormRepository) ListMemberships(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.BarberProfile, error) {

	var profiles []models.BarberProfile
	if err := r.db.WithContext(ctx).
		Preload("Barbershop").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *IdentityGormRepository) DeleteUser(
	ctx context.Context,
	id uuid.UUID,
) error {

	db := r.db.WithContext(ctx)

	profiles := db.Model(&models.BarberProfile{}).
		Select("id").
		Where("user_id = ?", id)

	appointments := db.Model(&models.Appointment{}).
		Select("id").
		Where("client_id = ? OR barber_profile_id IN (?)", id, profiles)

	if err := db.Where("appointment_id IN (?)", appointments).
		Delete(&models.AppointmentService{}).Error; err != nil {
		return err
	}
	if err := db.Where("client_id = ? OR barber_profile_id IN (?)", id, profiles).
		Delete(&models.Appointment{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).
		Delete(&models.Customer{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).
		Delete(&models.AccessRequest{}).Error; err != nil {
		return err
	}
	if err := db.Model(&models.AccessRequest{}).
		Where("decided_by = ?", id).
		Update("decided_by", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&models.AuditLog{}).
		Where("user_id = ?", id).
		Update("user_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).
		Delete(&models.BarberProfile{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var (
	_ identity.Repository    = (*IdentityGormRepository)(nil)
	_ authz.MembershipLookup = (*IdentityGormRepository)(nil)
)
