package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db    *gorm.DB
	authz *authz.Authorizer
}

func NewAuditLogsHandler(db *gorm.DB, authorizer *authz.Authorizer) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, authz: authorizer}
}

// List serves GET /barbershops/:id/audit-logs for the shop owner.
// Filters: action, entity, from and to (YYYY-MM-DD, inclusive).
func (h *AuditLogsHandler) List(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.authz.Require(ctx, middleware.Principal(c), shopID, authz.RequireOwner); err != nil {
		httperr.Respond(c, err)
		return
	}

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page := httpresp.ParsePage(c)

	// --------------------------------------------------
	// Base query, always scoped to the shop
	// --------------------------------------------------

	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("barbershop_id = ?", shopID)

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr != "" {
		from, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at >= ?", from.UTC())
	}

	if toStr != "" {
		to, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at < ?", to.Add(24*time.Hour).UTC())
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&logs).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, logs, total, page)
}
