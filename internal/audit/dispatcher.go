package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentUpdated   = "appointment_updated"
	ActionAppointmentRemoved   = "appointment_removed"
	ActionAccessRequested      = "access_requested"
	ActionAccessRequestDecided = "access_request_decided"
	ActionShopCreated          = "shop_created"
	ActionShopUpdated          = "shop_updated"
	ActionServiceCreated       = "service_created"
	ActionServiceUpdated       = "service_updated"
	ActionServiceDeleted       = "service_deleted"
)

type Event struct {
	BarbershopID uuid.UUID
	UserID       *uuid.UUID
	Action       string
	Entity       string
	EntityID     *uuid.UUID
	Metadata     any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

// Dispatch enqueues ev without blocking. A full queue drops the event;
// auditing never fails a request. A nil or stopped Dispatcher drops it.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Warn().Str("action", ev.Action).Msg("audit dispatcher stopped, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Stop drains the queue and waits for the worker to finish.
// Events dispatched afterwards are dropped.
func (d *Dispatcher) Stop() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
