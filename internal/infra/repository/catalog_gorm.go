package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) WithinTx(
	ctx context.Context,
	fn func(catalog.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CatalogGormRepository{db: tx})
	})
}

func (r *CatalogGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *CatalogGormRepository) CreateBarbershop(
	ctx context.Context,
	shop *models.Barbershop,
) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *CatalogGormRepository) GetBarbershop(
	ctx context.Context,
	id uuid.UUID,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *CatalogGormRepository) UpdateBarbershop(
	ctx context.Context,
	shop *models.Barbershop,
) error {
	return r.db.WithContext(ctx).
		Model(shop).
		Select(
			"name", "address", "city", "state", "zip_code",
			"additional_info", "phone", "timezone", "lat", "lng",
		).
		Updates(shop).Error
}

func (r *CatalogGormRepository) DeleteBarbershop(
	ctx context.Context,
	id uuid.UUID,
) error {

	db := r.db.WithContext(ctx)

	appointmentIDs := db.
		Model(&models.Appointment{}).
		Select("id").
		Where("barbershop_id = ?", id)

	steps := []func() error{
		func() error {
			return db.Where("barbershop_id = ?", id).Delete(&models.AccessRequest{}).Error
		},
		func() error {
			return db.Where("appointment_id IN (?)", appointmentIDs).Delete(&models.AppointmentService{}).Error
		},
		func() error {
			return db.Where("barbershop_id = ?", id).Delete(&models.Appointment{}).Error
		},
		func() error {
			return db.Where("barbershop_id = ?", id).Delete(&models.Customer{}).Error
		},
		func() error {
			// nothing references them once the appointments are gone
			return db.Unscoped().Where("barbershop_id = ?", id).Delete(&models.Service{}).Error
		},
		func() error {
			return db.Where("barbershop_id = ?", id).Delete(&models.BarberProfile{}).Error
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	res := db.Delete(&models.Barbershop{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogGormRepository) ListBarbershops(
	ctx context.Context,
	limit, offset int,
) ([]models.Barbershop, int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Barbershop{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var shops []models.Barbershop
	if err := q.Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}

func (r *CatalogGormRepository) FindBarbershopsInBox(
	ctx context.Context,
	box geo.BoundingBox,
) ([]models.Barbershop, error) {

	q := r.db.WithContext(ctx).Where("lat IS NOT NULL AND lng IS NOT NULL")
	if box.FilterLat {
		q = q.Where("lat BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	}
	if box.FilterLng {
		q = q.Where("lng BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	var shops []models.Barbershop
	if err := q.Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *CatalogGormRepository) CreateMembership(
	ctx context.Context,
	p *models.BarberProfile,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *CatalogGormRepository) ListStaff(
	ctx context.Context,
	barbershopID uuid.UUID,
) ([]models.BarberProfile, error) {

	var staff []models.BarberProfile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("barbershop_id = ?", barbershopID).
		Order("created_at ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *CatalogGormRepository) CreateService(
	ctx context.Context,
	s *models.Service,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogGormRepository) ServiceNameTaken(
	ctx context.Context,
	barbershopID uuid.UUID,
	name string,
	exceptID *uuid.UUID,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("barbershop_id = ? AND LOWER(name) = LOWER(?)", barbershopID, name)
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CatalogGormRepository) UpdateService(
	ctx context.Context,
	s *models.Service,
) error {
	return r.db.WithContext(ctx).
		Model(s).
		Select("name", "description", "price", "duration_minutes", "category", "is_active").
		Updates(s).Error
}

func (r *CatalogGormRepository) SoftDeleteService(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	f catalog.ServiceFilter,
) ([]models.Service, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Service{})
	if f.IncludeDeleted {
		q = q.Unscoped()
	}
	if f.BarbershopID != nil {
		q = q.Where("barbershop_id = ?", *f.BarbershopID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Order("name ASC").Order("id ASC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}

	var services []models.Service
	if err := page.Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

var _ catalog.Repository = (*CatalogGormRepository)(nil)
