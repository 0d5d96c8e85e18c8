package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *ucAppointment.CreateAppointment
	update *ucAppointment.UpdateAppointment
	remove *ucAppointment.RemoveAppointment
	get    *ucAppointment.GetAppointment
	list   *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	remove *ucAppointment.RemoveAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		remove: remove,
		get:    get,
		list:   list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarbershopID    uuid.UUID   `json:"barbershop_id" binding:"required"`
	BarberID        uuid.UUID   `json:"barber_id" binding:"required"`
	ServiceIDs      []uuid.UUID `json:"service_ids" binding:"required,min=1"`
	AppointmentDate time.Time   `json:"appointment_date" binding:"required"`
}

type UpdateAppointmentRequest struct {
	Status          *string     `json:"status"`
	AppointmentDate *time.Time  `json:"appointment_date"`
	ServiceIDs      []uuid.UUID `json:"service_ids" binding:"omitempty,min=1"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), middleware.Principal(c), ucAppointment.CreateAppointmentInput{
		BarbershopID:    req.BarbershopID,
		BarberID:        req.BarberID,
		ServiceIDs:      req.ServiceIDs,
		AppointmentDate: req.AppointmentDate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// GET / UPDATE / REMOVE
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), middleware.Principal(c), ucAppointment.UpdateAppointmentInput{
		AppointmentID:   id,
		Status:          req.Status,
		AppointmentDate: req.AppointmentDate,
		ServiceIDs:      req.ServiceIDs,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.Principal(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// LIST
// ======================================================

// ListByShop serves GET /barbershops/:id/appointments?date=YYYY-MM-DD.
func (h *AppointmentHandler) ListByShop(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	page := httpresp.ParsePage(c)
	res, err := h.list.ByShopDay(c.Request.Context(), middleware.Principal(c), shopID, date, listPage(page))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, dto.NewAppointmentDTOs(res.Items), res.Total, page)
}

func (h *AppointmentHandler) ListByBarber(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	barberID, ok := uuidParam(c, "barberId")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	page := httpresp.ParsePage(c)
	res, err := h.list.ByBarberDay(c.Request.Context(), middleware.Principal(c), shopID, barberID, date, listPage(page))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, dto.NewAppointmentDTOs(res.Items), res.Total, page)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	page := httpresp.ParsePage(c)

	res, err := h.list.ForClient(c.Request.Context(), middleware.Principal(c), listPage(page))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, dto.NewAppointmentDTOs(res.Items), res.Total, page)
}

func listPage(p httpresp.Page) ucAppointment.Page {
	return ucAppointment.Page{Limit: p.Limit, Offset: p.Offset()}
}
