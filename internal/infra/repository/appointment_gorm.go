package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Identity / Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AppointmentGormRepository) GetBarbershop(
	ctx context.Context,
	id uuid.UUID,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) FindBarberProfile(
	ctx context.Context,
	userID uuid.UUID,
	barbershopID uuid.UUID,
) (*models.BarberProfile, error) {

	var profile models.BarberProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND barbershop_id = ?", userID, barbershopID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AppointmentGormRepository) FindShopServices(
	ctx context.Context,
	barbershopID uuid.UUID,
	ids []uuid.UUID,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}

	// default scope keeps deleted_at IS NULL
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND id IN ?", barbershopID, ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	userID uuid.UUID,
	barbershopID uuid.UUID,
) (*models.Customer, error) {

	// insert-or-ignore keeps a concurrent first booking from aborting the tx
	fresh := models.Customer{
		UserID:       userID,
		BarbershopID: barbershopID,
		TotalSpent:   decimal.Zero,
	}
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "barbershop_id"}},
			DoNothing: true,
		}).
		Create(&fresh).Error; err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND barbershop_id = ?", userID, barbershopID).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *AppointmentGormRepository) RecordCustomerVisit(
	ctx context.Context,
	customerID uuid.UUID,
	amount decimal.Decimal,
	visit time.Time,
) error {

	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&customer, "id = ?", customerID).Error; err != nil {
		return err
	}

	updates := map[string]any{
		"total_spent":       gorm.Expr("total_spent + ?", amount),
		"appointment_count": gorm.Expr("appointment_count + ?", 1),
	}
	if customer.FirstVisitDate == nil || visit.Before(*customer.FirstVisitDate) {
		updates["first_visit_date"] = visit
	}
	if customer.LastVisitDate == nil || visit.After(*customer.LastVisitDate) {
		updates["last_visit_date"] = visit
	}

	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(updates).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	serviceIDs []uuid.UUID,
) error {

	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error; err != nil {
		return err
	}

	return r.insertLines(ctx, ap.ID, serviceIDs)
}

func (r *AppointmentGormRepository) insertLines(
	ctx context.Context,
	appointmentID uuid.UUID,
	serviceIDs []uuid.UUID,
) error {

	if len(serviceIDs) == 0 {
		return nil
	}

	lines := make([]models.AppointmentService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		lines = append(lines, models.AppointmentService{
			AppointmentID: appointmentID,
			ServiceID:     id,
		})
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&lines).Error
}

func (r *AppointmentGormRepository) ReplaceAppointmentServices(
	ctx context.Context,
	appointmentID uuid.UUID,
	serviceIDs []uuid.UUID,
) error {

	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.AppointmentService{}).Error; err != nil {
		return err
	}

	return r.insertLines(ctx, appointmentID, serviceIDs)
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.preloaded(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Client").
		Preload("BarberProfile.User").
		Preload("Services.Service")
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Model(ap).
		Omit(clause.Associations).
		Select("appointment_date", "status", "completed_at", "cancelled_at").
		Updates(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uuid.UUID,
) error {

	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", id).
		Delete(&models.AppointmentService{}).Error; err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.BarbershopID != nil {
		q = q.Where("barbershop_id = ?", *f.BarbershopID)
	}
	if f.BarberProfileID != nil {
		q = q.Where("barber_profile_id = ?", *f.BarberProfileID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.From != nil {
		q = q.Where("appointment_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("appointment_date < ?", f.To.UTC())
	}

	// count and page share the filters
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.
		Preload("Client").
		Preload("BarberProfile.User").
		Preload("Services.Service").
		Order("appointment_date ASC").
		Order("id ASC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}

	var apps []models.Appointment
	if err := page.Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
