package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAccess "github.com/BruksfildServices01/barber-booking/internal/usecase/accessrequest"
)

type AccessRequestHandler struct {
	request *ucAccess.RequestAccess
	decide  *ucAccess.DecideAccessRequest
	list    *ucAccess.ListAccessRequests
}

func NewAccessRequestHandler(
	request *ucAccess.RequestAccess,
	decide *ucAccess.DecideAccessRequest,
	list *ucAccess.ListAccessRequests,
) *AccessRequestHandler {
	return &AccessRequestHandler{
		request: request,
		decide:  decide,
		list:    list,
	}
}

type DecideAccessRequestRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// Request serves POST /barbershops/:id/access-requests.
func (h *AccessRequestHandler) Request(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	req, err := h.request.Execute(c.Request.Context(), middleware.Principal(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, req)
}

func (h *AccessRequestHandler) ListPending(c *gin.Context) {
	shopID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	items, err := h.list.PendingForShop(c.Request.Context(), middleware.Principal(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AccessRequestHandler) ListMine(c *gin.Context) {
	items, err := h.list.Mine(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AccessRequestHandler) Decide(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req DecideAccessRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.decide.Execute(c.Request.Context(), middleware.Principal(c), id, req.Decision)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}
