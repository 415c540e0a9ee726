package repository

import (
	"context"

	"psico-portal/internal/domain/entity"
)

type AppointmentRepository interface {
	FindBookedByPsychologist(ctx context.Context, psychologistID string) ([]entity.BookedAppointment, error)
	FindBookedByPatient(ctx context.Context, patientID string) ([]entity.BookedAppointment, error)
	FindAvailableByPsychologist(ctx context.Context, psychologistID string) ([]entity.AvailableSlot, error)
	CreateSlot(ctx context.Context, slot *entity.NewSlot) error
	UpdateSlot(ctx context.Context, id string, patch *entity.SlotPatch) error
	UpdateBooked(ctx context.Context, id string, patch *entity.AppointmentPatch) error
	DeleteSlot(ctx context.Context, id string) error
	DeleteBooked(ctx context.Context, id string) error
	// Book claims an available slot. idempotencyKey is sent as the Idempotency-Key header.
	Book(ctx context.Context, req *entity.BookingRequest, idempotencyKey string) error
}
