package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Respond(c, err)
	return w
}

func TestRespondMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrNotFound("shop_not_found"), http.StatusNotFound, "shop_not_found"},
		{ErrForbidden("not_owner"), http.StatusForbidden, "not_owner"},
		{ErrBusiness("invalid_services"), http.StatusBadRequest, "invalid_services"},
		{ErrConflict("email_taken"), http.StatusConflict, "email_taken"},
		{ErrUnauthorized("invalid_credentials"), http.StatusUnauthorized, "invalid_credentials"},
		{fmt.Errorf("wrapped: %w", ErrBusiness("already_decided")), http.StatusBadRequest, "already_decided"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := respond(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.code)
		assert.Contains(t, w.Body.String(), `"error_code":"`+tc.code+`"`)
	}
}

func TestRespondUsesKnownMessage(t *testing.T) {
	w := respond(ErrNotFound("shop_not_found"))
	assert.Contains(t, w.Body.String(), "Barbershop not found.")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}
