package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// uuidParam parses a path parameter, writing a 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_request",
			"message":    "Invalid request body.",
			"details":    err.Error(),
		})
		return false
	}
	return true
}
