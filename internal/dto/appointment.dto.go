package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentServiceDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

type AppointmentDTO struct {
	ID              uuid.UUID               `json:"id"`
	BarbershopID    uuid.UUID               `json:"barbershop_id"`
	BarberProfileID uuid.UUID               `json:"barber_profile_id"`
	BarberID        uuid.UUID               `json:"barber_id"`
	BarberName      string                  `json:"barber_name"`
	ClientID        uuid.UUID               `json:"client_id"`
	ClientName      string                  `json:"client_name"`
	AppointmentDate time.Time               `json:"appointment_date"`
	Status          string                  `json:"status"`
	CompletedAt     *time.Time              `json:"completed_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	Services        []AppointmentServiceDTO `json:"services"`
	Total           decimal.Decimal         `json:"total"`
}

// NewAppointmentDTO flattens an appointment loaded with its client,
// barber and services.
func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:              ap.ID,
		BarbershopID:    ap.BarbershopID,
		BarberProfileID: ap.BarberProfileID,
		ClientID:        ap.ClientID,
		AppointmentDate: ap.AppointmentDate,
		Status:          ap.Status,
		CompletedAt:     ap.CompletedAt,
		CancelledAt:     ap.CancelledAt,
		Services:        make([]AppointmentServiceDTO, 0, len(ap.Services)),
		Total:           ap.Total(),
	}

	if ap.Client != nil {
		out.ClientName = ap.Client.Username
	}
	if ap.BarberProfile != nil {
		out.BarberID = ap.BarberProfile.UserID
		if ap.BarberProfile.User != nil {
			out.BarberName = ap.BarberProfile.User.Username
		}
	}

	for _, line := range ap.Services {
		if line.Service == nil {
			continue
		}
		out.Services = append(out.Services, AppointmentServiceDTO{
			ID:              line.Service.ID,
			Name:            line.Service.Name,
			Price:           line.Service.Price,
			DurationMinutes: line.Service.DurationMinutes,
		})
	}

	return out
}

func NewAppointmentDTOs(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, NewAppointmentDTO(&aps[i]))
	}
	return out
}
