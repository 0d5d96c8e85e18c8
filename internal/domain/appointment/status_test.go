package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st)

	_, err = ParseStatus("completed")
	assert.True(t, httperr.IsBusiness(err, ReasonInvalidStatus))
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("complete from scheduled", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusScheduled)}
		require.NoError(t, ApplyStatus(ap, StatusCompleted, now))
		assert.Equal(t, string(StatusCompleted), ap.Status)
		assert.Equal(t, &now, ap.CompletedAt)
		assert.Nil(t, ap.CancelledAt)
	})

	t.Run("cancel from scheduled", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusScheduled)}
		require.NoError(t, ApplyStatus(ap, StatusCancelled, now))
		assert.Equal(t, string(StatusCancelled), ap.Status)
		assert.NotNil(t, ap.CancelledAt)
	})

	t.Run("terminal states do not move", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCancelled)}
		err := ApplyStatus(ap, StatusCompleted, now)
		assert.True(t, httperr.IsBusiness(err, ReasonInvalidState))
		assert.Equal(t, string(StatusCancelled), ap.Status)
	})

	t.Run("back to scheduled is rejected", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCompleted)}
		err := ApplyStatus(ap, StatusScheduled, now)
		assert.True(t, httperr.IsBusiness(err, ReasonInvalidState))
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCompleted)}
		assert.NoError(t, ApplyStatus(ap, StatusCompleted, now))
	})
}

func TestUniqueServiceIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	got, err := UniqueServiceIDs([]uuid.UUID{a, b, a})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, got)

	_, err = UniqueServiceIDs(nil)
	assert.True(t, httperr.IsBusiness(err, ReasonInvalidServices))
}

func TestCheckResolved(t *testing.T) {
	shop := uuid.New()
	s1 := models.Service{ID: uuid.New(), BarbershopID: shop, Price: decimal.RequireFromString("20")}
	s2 := models.Service{ID: uuid.New(), BarbershopID: shop, Price: decimal.RequireFromString("15")}

	assert.NoError(t, CheckResolved(shop, []uuid.UUID{s1.ID, s2.ID}, []models.Service{s1, s2}))
	assert.True(t, PriceTotal([]models.Service{s1, s2}).Equal(decimal.RequireFromString("35")))

	err := CheckResolved(shop, []uuid.UUID{s1.ID, uuid.New()}, []models.Service{s1})
	assert.True(t, httperr.IsBusiness(err, ReasonInvalidServices))

	foreign := models.Service{ID: uuid.New(), BarbershopID: uuid.New()}
	err = CheckResolved(shop, []uuid.UUID{foreign.ID}, []models.Service{foreign})
	assert.True(t, httperr.IsBusiness(err, ReasonInvalidServices))

	deleted := models.Service{ID: uuid.New(), BarbershopID: shop, DeletedAt: gorm.DeletedAt{Valid: true, Time: time.Now()}}
	err = CheckResolved(shop, []uuid.UUID{deleted.ID}, []models.Service{deleted})
	assert.True(t, httperr.IsBusiness(err, ReasonInvalidServices))
}
