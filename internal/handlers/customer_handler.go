package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CustomerHandler reads the per-shop customer aggregates. Rows are only
// written by the booking flow.
type CustomerHandler struct {
	db    *gorm.DB
	authz *authz.Authorizer
}

func NewCustomerHandler(db *gorm.DB, authorizer *authz.Authorizer) *CustomerHandler {
	return &CustomerHandler{db: db, authz: authorizer}
}

// ======================================================
// LIST CUSTOMERS OF A SHOP (MEMBERS)
// ======================================================
func (h *CustomerHandler) ListByShop(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	shop, ok := h.loadShop(c, shopID)
	if !ok {
		return
	}

	if err := h.authz.Require(ctx, middleware.Principal(c), shop.ID, authz.RequireMember); err != nil {
		httperr.Respond(c, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page := httpresp.ParsePage(c)

	q := h.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customers.barbershop_id = ?", shop.ID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Joins("JOIN users ON users.id = customers.user_id").
			Where(
				"LOWER(users.username) LIKE ? OR users.phone LIKE ? OR LOWER(users.email) LIKE ?",
				like, like, like,
			)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var customers []models.Customer
	if err := q.
		Preload("User").
		Order("customers.last_visit_date DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&customers).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, customers, total, page)
}

// ======================================================
// MY CUSTOMER PROFILES (CLIENT)
// ======================================================
func (h *CustomerHandler) ListMine(c *gin.Context) {
	actor := middleware.Principal(c)

	var customers []models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		Where("user_id = ?", actor.ID).
		Order("last_visit_date DESC").
		Find(&customers).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, customers)
}

// ======================================================
// CUSTOMERS SERVED BY ONE BARBER (THE BARBER, OR THE OWNER)
// ======================================================
func (h *CustomerHandler) ListByBarber(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	barberID, ok := uuidParam(c, "barberId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	actor := middleware.Principal(c)

	shop, ok := h.loadShop(c, shopID)
	if !ok {
		return
	}

	if actor.ID != barberID {
		if err := h.authz.Require(ctx, actor, shop.ID, authz.RequireOwner); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	var profile models.BarberProfile
	if err := h.db.WithContext(ctx).
		Where("user_id = ? AND barbershop_id = ?", barberID, shop.ID).
		First(&profile).Error; err != nil {

		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("barber_not_in_shop")
		}
		httperr.Respond(c, err)
		return
	}

	served := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("customer_id").
		Where("barber_profile_id = ?", profile.ID)

	q := h.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("barbershop_id = ? AND id IN (?)", shop.ID, served).
		Session(&gorm.Session{})

	page := httpresp.ParsePage(c)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var customers []models.Customer
	if err := q.
		Preload("User").
		Order("last_visit_date DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&customers).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, customers, total, page)
}

type CustomerStatistics struct {
	TotalSpent       decimal.Decimal `json:"total_spent"`
	AppointmentCount int             `json:"appointment_count"`
	Barbershops      int             `json:"barbershops"`
}

// ======================================================
// MY TOTALS ACROSS SHOPS (CLIENT)
// ======================================================
func (h *CustomerHandler) MyStatistics(c *gin.Context) {
	actor := middleware.Principal(c)

	var customers []models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", actor.ID).
		Find(&customers).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	stats := CustomerStatistics{TotalSpent: decimal.Zero, Barbershops: len(customers)}
	for _, cu := range customers {
		stats.TotalSpent = stats.TotalSpent.Add(cu.TotalSpent)
		stats.AppointmentCount += cu.AppointmentCount
	}

	httpresp.OK(c, stats)
}

func (h *CustomerHandler) loadShop(c *gin.Context, id uuid.UUID) (*models.Barbershop, bool) {
	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, "id = ?", id).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrNotFound("shop_not_found")
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &shop, true
}
