package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/accessrequest"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AccessRequestGormRepository struct {
	db *gorm.DB
}

func NewAccessRequestGormRepository(db *gorm.DB) *AccessRequestGormRepository {
	return &AccessRequestGormRepository{db: db}
}

func (r *AccessRequestGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccessRequestGormRepository{db: tx})
	})
}

func (r *AccessRequestGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AccessRequestGormRepository) GetBarbershop(
	ctx context.Context,
	id uuid.UUID,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AccessRequestGormRepository) FindMembership(
	ctx context.Context,
	userID uuid.UUID,
	barbershopID uuid.UUID,
) (*models.BarberProfile, error) {
	return findMembership(r.db.WithContext(ctx), userID, barbershopID)
}

func findMembership(
	db *gorm.DB,
	userID uuid.UUID,
	barbershopID uuid.UUID,
) (*models.BarberProfile, error) {

	var profile models.BarberProfile
	err := db.
		Where("user_id = ? AND barbershop_id = ?", userID, barbershopID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AccessRequestGormRepository) HasPending(
	ctx context.Context,
	userID uuid.UUID,
	barbershopID uuid.UUID,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccessRequest{}).
		Where(
			"user_id = ? AND barbershop_id = ? AND status = ?",
			userID, barbershopID, string(domain.StatusPending),
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AccessRequestGormRepository) Create(
	ctx context.Context,
	req *models.AccessRequest,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *AccessRequestGormRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*models.AccessRequest, error) {

	var req models.AccessRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AccessRequestGormRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*models.AccessRequest, error) {

	var req models.AccessRequest
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AccessRequestGormRepository) Decide(
	ctx context.Context,
	id uuid.UUID,
	status domain.Status,
	decidedBy uuid.UUID,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":     string(status),
			"decided_by": decidedBy,
			"decided_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AccessRequestGormRepository) CreateMembership(
	ctx context.Context,
	p *models.BarberProfile,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *AccessRequestGormRepository) ListByShop(
	ctx context.Context,
	barbershopID uuid.UUID,
	status *domain.Status,
) ([]models.AccessRequest, error) {

	q := r.db.WithContext(ctx).
		Preload("User").
		Where("barbershop_id = ?", barbershopID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}

	var reqs []models.AccessRequest
	if err := q.Order("created_at ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *AccessRequestGormRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.AccessRequest, error) {

	var reqs []models.AccessRequest
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

var _ domain.Repository = (*AccessRequestGormRepository)(nil)
