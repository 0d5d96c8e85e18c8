package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

func TestDispatcherWritesOnStop(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db))

	shopID := uuid.New()
	userID := uuid.New()
	for i := 0; i < 3; i++ {
		d.Dispatch(Event{
			BarbershopID: shopID,
			UserID:       &userID,
			Action:       ActionAppointmentCreated,
			Entity:       "appointment",
			Metadata:     map[string]any{"n": i},
		})
	}
	d.Stop()
	d.Stop()

	var rows []models.AuditLog
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, shopID, rows[0].BarbershopID)
	assert.JSONEq(t, `{"n":0}`, rows[0].Metadata)
}

func TestDispatchAfterStopIsDropped(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db))
	d.Stop()

	assert.NotPanics(t, func() {
		d.Dispatch(Event{BarbershopID: uuid.New(), Action: ActionShopCreated, Entity: "barbershop"})
	})

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: ActionShopCreated})
		d.Stop()
	})
}

func TestRetentionPurgesOldRows(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	old := models.AuditLog{BarbershopID: uuid.New(), Action: "old", CreatedAt: now.AddDate(0, 0, -40)}
	fresh := models.AuditLog{BarbershopID: uuid.New(), Action: "fresh", CreatedAt: now.AddDate(0, 0, -5)}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	n, err := NewRetention(New(db), 30).RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left []models.AuditLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Action)
}

func TestRetentionDisabled(t *testing.T) {
	r := NewRetention(New(testutil.NewDB(t)), 0)
	require.NoError(t, r.Start())
	r.Stop()
}
