package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	uccatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
)

type BarbershopHandler struct {
	shops *uccatalog.Barbershops
}

func NewBarbershopHandler(shops *uccatalog.Barbershops) *BarbershopHandler {
	return &BarbershopHandler{shops: shops}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBarbershopRequest struct {
	Name           string   `json:"name" binding:"required,max=100"`
	Address        string   `json:"address" binding:"required,max=255"`
	City           string   `json:"city" binding:"max=50"`
	State          string   `json:"state" binding:"max=50"`
	ZipCode        string   `json:"zip_code" binding:"max=10"`
	AdditionalInfo string   `json:"additional_info" binding:"max=200"`
	Phone          string   `json:"phone" binding:"max=20"`
	Timezone       string   `json:"timezone" binding:"max=64"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
}

type UpdateBarbershopRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=100"`
	Address        *string  `json:"address" binding:"omitempty,max=255"`
	City           *string  `json:"city" binding:"omitempty,max=50"`
	State          *string  `json:"state" binding:"omitempty,max=50"`
	ZipCode        *string  `json:"zip_code" binding:"omitempty,max=10"`
	AdditionalInfo *string  `json:"additional_info" binding:"omitempty,max=200"`
	Phone          *string  `json:"phone" binding:"omitempty,max=20"`
	Timezone       *string  `json:"timezone" binding:"omitempty,max=64"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *BarbershopHandler) Create(c *gin.Context) {
	var req CreateBarbershopRequest
	if !bindJSON(c, &req) {
		return
	}

	shop, err := h.shops.Create(c.Request.Context(), middleware.Principal(c), uccatalog.CreateBarbershopInput{
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		AdditionalInfo: req.AdditionalInfo,
		Phone:          req.Phone,
		Timezone:       req.Timezone,
		Lat:            req.Lat,
		Lng:            req.Lng,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, shop)
}

func (h *BarbershopHandler) List(c *gin.Context) {
	page := httpresp.ParsePage(c)

	shops, total, err := h.shops.List(c.Request.Context(), page.Limit, page.Offset())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, shops, total, page)
}

func (h *BarbershopHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	shop, err := h.shops.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBarbershopRequest
	if !bindJSON(c, &req) {
		return
	}

	shop, err := h.shops.Update(c.Request.Context(), middleware.Principal(c), id, uccatalog.UpdateBarbershopInput{
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		AdditionalInfo: req.AdditionalInfo,
		Phone:          req.Phone,
		Timezone:       req.Timezone,
		Lat:            req.Lat,
		Lng:            req.Lng,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.shops.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *BarbershopHandler) Staff(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	staff, err := h.shops.Staff(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, staff)
}

// ======================================================
// NEARBY
// ======================================================

// Nearby serves GET /barbershops/nearby?lat=&lng=&radius_km=.
func (h *BarbershopHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		httperr.BadRequest(c, "invalid_coordinates", "lat and lng are required numbers.")
		return
	}

	radius, err := strconv.ParseFloat(c.Query("radius_km"), 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_radius", "radius_km is required.")
		return
	}

	results, err := h.shops.Nearby(c.Request.Context(), geo.Query{
		Origin:   geo.Point{Lat: lat, Lng: lng},
		RadiusKm: radius,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, results)
}
