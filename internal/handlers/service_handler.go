package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	uccatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
)

type ServiceHandler struct {
	services *uccatalog.Services
}

func NewServiceHandler(services *uccatalog.Services) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required,max=100"`
	Description     string          `json:"description" binding:"max=500"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Category        string          `json:"category" binding:"max=50"`
	IsActive        *bool           `json:"is_active"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Description     *string          `json:"description" binding:"omitempty,max=500"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"duration_minutes"`
	Category        *string          `json:"category" binding:"omitempty,max=50"`
	IsActive        *bool            `json:"is_active"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.services.Create(c.Request.Context(), middleware.Principal(c), shopID, uccatalog.CreateServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		IsActive:        req.IsActive,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ServiceHandler) ListByShop(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	page := httpresp.ParsePage(c)
	items, total, err := h.services.ListByShop(c.Request.Context(), shopID, page.Limit, page.Offset())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, items, total, page)
}

// ListAll serves the platform-wide catalog for admins.
func (h *ServiceHandler) ListAll(c *gin.Context) {
	page := httpresp.ParsePage(c)

	items, total, err := h.services.ListAll(c.Request.Context(), middleware.Principal(c), uccatalog.ListServicesInput{
		IncludeDeleted: c.Query("include_deleted") == "true",
		Limit:          page.Limit,
		Offset:         page.Offset(),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, items, total, page)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "serviceId")
	if !ok {
		return
	}

	s, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "serviceId")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.services.Update(c.Request.Context(), middleware.Principal(c), id, uccatalog.UpdateServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		IsActive:        req.IsActive,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "serviceId")
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}
