package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
)

type appointmentRepository struct {
	client *APIClient
}

func NewAppointmentRepository(client *APIClient) repository.AppointmentRepository {
	return &appointmentRepository{client: client}
}

func (r *appointmentRepository) FindBookedByPsychologist(ctx context.Context, psychologistID string) ([]entity.BookedAppointment, error) {
	var appointments []entity.BookedAppointment
	path := "/consultas/psicologo/" + url.PathEscape(psychologistID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/consultas/psicologo/{id}", path, nil, &appointments); err != nil {
		return nil, fmt.Errorf("list booked appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBookedByPatient(ctx context.Context, patientID string) ([]entity.BookedAppointment, error) {
	var appointments []entity.BookedAppointment
	path := "/consultas/paciente/" + url.PathEscape(patientID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/consultas/paciente/{id}", path, nil, &appointments); err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAvailableByPsychologist(ctx context.Context, psychologistID string) ([]entity.AvailableSlot, error) {
	var slots []entity.AvailableSlot
	path := "/consultas/disponiveis/psicologo/" + url.PathEscape(psychologistID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/consultas/disponiveis/psicologo/{id}", path, nil, &slots); err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

func (r *appointmentRepository) CreateSlot(ctx context.Context, slot *entity.NewSlot) error {
	if err := r.client.doJSON(ctx, http.MethodPost, "/consultas", "/consultas", slot, nil); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

func (r *appointmentRepository) UpdateSlot(ctx context.Context, id string, patch *entity.SlotPatch) error {
	path := "/consultas/disponiveis/" + url.PathEscape(id)
	if err := r.client.doJSON(ctx, http.MethodPatch, "/consultas/disponiveis/{id}", path, patch, nil); err != nil {
		return fmt.Errorf("update slot %s: %w", id, err)
	}
	return nil
}

func (r *appointmentRepository) UpdateBooked(ctx context.Context, id string, patch *entity.AppointmentPatch) error {
	path := "/consultas/" + url.PathEscape(id)
	if err := r.client.doJSON(ctx, http.MethodPatch, "/consultas/{id}", path, patch, nil); err != nil {
		return fmt.Errorf("update appointment %s: %w", id, err)
	}
	return nil
}

func (r *appointmentRepository) DeleteSlot(ctx context.Context, id string) error {
	path := "/consultas/disponiveis/" + url.PathEscape(id)
	if err := r.client.doJSON(ctx, http.MethodDelete, "/consultas/disponiveis/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("delete slot %s: %w", id, err)
	}
	return nil
}

func (r *appointmentRepository) DeleteBooked(ctx context.Context, id string) error {
	path := "/consultas/" + url.PathEscape(id)
	if err := r.client.doJSON(ctx, http.MethodDelete, "/consultas/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("delete appointment %s: %w", id, err)
	}
	return nil
}

func (r *appointmentRepository) Book(ctx context.Context, req *entity.BookingRequest, idempotencyKey string) error {
	err := r.client.doJSON(ctx, http.MethodPost, "/consultas/agendar", "/consultas/agendar", req, nil, withIdempotencyKey(idempotencyKey))
	if err != nil {
		return fmt.Errorf("book slot %s: %w", req.AvailableConsultationID, err)
	}
	return nil
}
