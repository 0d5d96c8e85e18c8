package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *token.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())

	r.GET("/whoami", AuthMiddleware(tokens), func(c *gin.Context) {
		p := Principal(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewIssuer("test-secret", time.Hour, time.Hour)
	r := newRouter(tokens)

	userID := uuid.New()
	pair, err := tokens.Issue(userID, models.RoleBarber)
	require.NoError(t, err)

	w := get(r, "/whoami", "Bearer "+pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "BARBER")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"missing", "", "missing_authorization_header"},
		{"wrong scheme", "Basic abc", "invalid_authorization_header"},
		{"garbage", "Bearer not-a-jwt", "invalid_token"},
		{"refresh token", "Bearer " + pair.RefreshToken, "invalid_token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, "/whoami", tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestRecovery(t *testing.T) {
	r := newRouter(token.NewIssuer("s", time.Hour, time.Hour))

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := newRouter(token.NewIssuer("s", time.Hour, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
