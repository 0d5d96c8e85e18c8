package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/infra/geocoding"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB: testutil.NewDB(t),
		Config: &config.Config{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
			JWTRefreshHours:    24,
		},
		Geocoder: geocoding.Disabled{},
	})
	return &api{t: t, r: r}
}

func (a *api) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// register returns the new user's id and access token.
func (a *api) register(email, role string) (string, string) {
	a.t.Helper()

	code, body := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "secret123",
		"username": email,
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, code, body)

	user := body["user"].(map[string]any)
	tokens := body["tokens"].(map[string]any)
	return user["id"].(string), tokens["access_token"].(string)
}

func TestHealth(t *testing.T) {
	code, body := newAPI(t).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	code, body := newAPI(t).do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing_authorization_header", body["error_code"])
}

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)

	ownerID, ownerToken := a.register("owner@example.com", "BARBER")
	_, clientToken := a.register("client@example.com", "CLIENT")

	// shop with explicit coordinates
	code, shop := a.do(http.MethodPost, "/api/barbershops", ownerToken, map[string]any{
		"name":     "Central Cuts",
		"address":  "Puerta del Sol 1",
		"city":     "Madrid",
		"timezone": "Europe/Madrid",
		"lat":      40.4168,
		"lng":      -3.7038,
	})
	require.Equal(t, http.StatusCreated, code, shop)
	shopID := shop["id"].(string)

	code, svc := a.do(http.MethodPost, "/api/barbershops/"+shopID+"/services", ownerToken, map[string]any{
		"name":             "Cut",
		"price":            "25.00",
		"duration_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, code, svc)

	code, body := a.do(http.MethodPost, "/api/barbershops/"+shopID+"/services", clientToken, map[string]any{
		"name":             "Sneaky",
		"price":            "1.00",
		"duration_minutes": 10,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "not_a_member", body["error_code"])

	code, ap := a.do(http.MethodPost, "/api/appointments", clientToken, map[string]any{
		"barbershop_id":    shopID,
		"barber_id":        ownerID,
		"service_ids":      []string{svc["id"].(string)},
		"appointment_date": "2030-01-15T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, code, ap)
	assert.Equal(t, "SCHEDULED", ap["status"])
	assert.Contains(t, []any{"25", "25.00"}, ap["total"])

	code, mine := a.do(http.MethodGet, "/api/me/appointments", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, mine["total"])

	code, customers := a.do(http.MethodGet, "/api/barbershops/"+shopID+"/customers", ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, customers["total"])

	code, body = a.do(http.MethodPost, "/api/appointments", ownerToken, map[string]any{
		"barbershop_id":    shopID,
		"barber_id":        ownerID,
		"service_ids":      []string{svc["id"].(string)},
		"appointment_date": "2030-01-15T11:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "invalid_actor", body["error_code"])

	code, nearby := a.do(http.MethodGet, "/api/barbershops/nearby?lat=40.42&lng=-3.70&radius_km=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, nearby["total"])

	code, body = a.do(http.MethodGet, "/api/barbershops/nearby?lat=91&lng=0&radius_km=5", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_coordinates", body["error_code"])
}

func TestAccessRequestFlow(t *testing.T) {
	a := newAPI(t)

	_, ownerToken := a.register("owner@example.com", "BARBER")
	_, barberToken := a.register("barber@example.com", "BARBER")

	code, shop := a.do(http.MethodPost, "/api/barbershops", ownerToken, map[string]any{
		"name":    "Fade Factory",
		"address": "Gran Via 10",
	})
	require.Equal(t, http.StatusCreated, code, shop)
	shopID := shop["id"].(string)

	code, req := a.do(http.MethodPost, "/api/barbershops/"+shopID+"/access-requests", barberToken, nil)
	require.Equal(t, http.StatusCreated, code, req)
	assert.Equal(t, "PENDING", req["status"])

	code, pending := a.do(http.MethodGet, "/api/barbershops/"+shopID+"/access-requests", ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, pending["total"])

	path := "/api/access-requests/" + req["id"].(string) + "/decision"

	code, body := a.do(http.MethodPost, path, barberToken, map[string]any{"decision": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "not_owner", body["error_code"])

	code, decided := a.do(http.MethodPost, path, ownerToken, map[string]any{"decision": "approved"})
	require.Equal(t, http.StatusOK, code, decided)
	assert.Equal(t, "APPROVED", decided["status"])

	code, staff := a.do(http.MethodGet, "/api/barbershops/"+shopID+"/staff", barberToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, staff["total"])

	code, body = a.do(http.MethodPost, path, ownerToken, map[string]any{"decision": "REJECTED"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "already_decided", body["error_code"])
}

func TestMalformedIDIsRejected(t *testing.T) {
	code, body := newAPI(t).do(http.MethodGet, "/api/barbershops/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_id", body["error_code"])
}

func TestCustomerReadersAndAccountDeletion(t *testing.T) {
	a := newAPI(t)

	ownerID, ownerToken := a.register("owner@example.com", "BARBER")
	_, clientToken := a.register("client@example.com", "CLIENT")

	code, shop := a.do(http.MethodPost, "/api/barbershops", ownerToken, map[string]any{
		"name":    "Clean Lines",
		"address": "Alcala 20",
	})
	require.Equal(t, http.StatusCreated, code, shop)
	shopID := shop["id"].(string)

	code, svc := a.do(http.MethodPost, "/api/barbershops/"+shopID+"/services", ownerToken, map[string]any{
		"name":             "Cut",
		"price":            "25.00",
		"duration_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, code, svc)

	code, ap := a.do(http.MethodPost, "/api/appointments", clientToken, map[string]any{
		"barbershop_id":    shopID,
		"barber_id":        ownerID,
		"service_ids":      []string{svc["id"].(string)},
		"appointment_date": "2030-02-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, code, ap)

	byBarber := "/api/barbershops/" + shopID + "/barbers/" + ownerID + "/customers"

	code, customers := a.do(http.MethodGet, byBarber, ownerToken, nil)
	require.Equal(t, http.StatusOK, code, customers)
	assert.EqualValues(t, 1, customers["total"])

	code, body := a.do(http.MethodGet, byBarber, clientToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "not_a_member", body["error_code"])

	code, stats := a.do(http.MethodGet, "/api/me/customers/statistics", clientToken, nil)
	require.Equal(t, http.StatusOK, code, stats)
	assert.EqualValues(t, 1, stats["appointment_count"])
	assert.EqualValues(t, 1, stats["barbershops"])
	assert.Contains(t, []any{"25", "25.00"}, stats["total_spent"])

	code, body = a.do(http.MethodDelete, "/api/me", ownerToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "owns_barbershop", body["error_code"])

	code, _ = a.do(http.MethodDelete, "/api/me", clientToken, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, body = a.do(http.MethodGet, "/api/me", clientToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "user_not_found", body["error_code"])

	code, customers = a.do(http.MethodGet, byBarber, ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, customers["total"])
}
