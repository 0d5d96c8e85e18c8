package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

var messages = map[string]string{
	"invalid_actor":         "Only client accounts can book appointments.",
	"shop_not_found":        "Barbershop not found.",
	"barber_not_in_shop":    "Barber does not belong to this barbershop.",
	"invalid_services":      "One or more services do not belong to this barbershop.",
	"not_barber":            "Only barber accounts can perform this action.",
	"duplicate_request":     "An access request is already pending for this barbershop.",
	"already_member":        "You are already a member of this barbershop.",
	"not_owner":             "Only the barbershop owner can perform this action.",
	"not_a_member":          "You are not a member of this barbershop.",
	"admin_required":        "Administrator access required.",
	"request_not_found":     "Access request not found.",
	"already_decided":       "Access request was already decided.",
	"invalid_decision":      "Decision must be APPROVED or REJECTED.",
	"appointment_not_found": "Appointment not found.",
	"service_not_found":     "Service not found.",
	"invalid_state":         "Appointment cannot move to the requested status.",
	"invalid_status":        "Unknown appointment status.",
	"invalid_date":          "Invalid date.",
	"invalid_name":          "Name must not be empty.",
	"email_taken":           "Email already registered.",
	"owns_barbershop":       "Delete your barbershops before deleting the account.",
	"service_name_taken":    "A service with this name already exists in the barbershop.",
	"invalid_price":         "Price must be positive with at most two decimals.",
	"invalid_duration":      "Duration must be at least one minute.",
	"invalid_coordinates":   "Latitude must be within [-90, 90] and longitude within [-180, 180].",
	"invalid_radius":        "Radius must be a positive number of kilometers.",
	"invalid_credentials":   "Invalid email or password.",
	"invalid_role":          "Role must be CLIENT or BARBER.",
	"user_not_found":        "User not found.",
	"invalid_password":      "Password must have at least 6 characters.",
	"invalid_email_domain":  "Email domain does not accept mail.",
	"invalid_token":         "Invalid or expired token.",
	"forbidden":             "Forbidden.",
}

func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

// Respond writes err as a JSON error. Anything that is not a BusinessError
// is logged and reported as internal_error.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		Write(c, statusFor(be.Kind), be.Code, messageFor(be.Code))
		return
	}

	log.Error().
		Err(err).
		Str("path", c.FullPath()).
		Str("method", c.Request.Method).
		Msg("request failed")
	Internal(c, "internal_error", "Internal server error.")
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}
