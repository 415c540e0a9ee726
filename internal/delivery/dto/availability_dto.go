package dto

import (
	"time"

	"psico-portal/pkg/money"
)

// Request DTOs

// CreateSlotRequest dates accept RFC3339 or a datetime-local value
// (YYYY-MM-DDTHH:MM) read in the practice time zone. Price is a pointer so a
// missing valor fails validation while an explicit 0 passes.
type CreateSlotRequest struct {
	Date        string       `json:"data" validate:"required"`
	Description string       `json:"descricao" validate:"required"`
	Notes       string       `json:"observacoes" validate:"omitempty,max=1000"`
	Price       *money.Money `json:"valor" validate:"required,gte=0"`
}

// EditSlotRequest sends only the fields present in the body
type EditSlotRequest struct {
	Date        *string      `json:"data" validate:"omitempty,min=1"`
	Description *string      `json:"descricao" validate:"omitempty,min=1"`
	Notes       *string      `json:"observacoes" validate:"omitempty,max=1000"`
	Price       *money.Money `json:"valor" validate:"omitempty,gte=0"`
}

// EditAppointmentRequest has no price or description; booked appointments
// only accept date and notes.
type EditAppointmentRequest struct {
	Date  *string `json:"data" validate:"omitempty,min=1"`
	Notes *string `json:"observacoes" validate:"omitempty,max=1000"`
}

type OpenModalRequest struct {
	Mode   string `json:"mode" validate:"required,oneof=create edit-available edit-scheduled"`
	ItemID string `json:"itemId" validate:"required_unless=Mode create"`
}

type SubmitModalRequest struct {
	Date        *string      `json:"data"`
	Description *string      `json:"descricao"`
	Notes       *string      `json:"observacoes" validate:"omitempty,max=1000"`
	Price       *money.Money `json:"valor" validate:"omitempty,gte=0"`
}

// Response DTOs

type PatientResponse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"nome"`
	Email string `json:"email,omitempty"`
}

type PsychologistResponse struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
	CRP  string `json:"crp,omitempty"`
}

// ScheduleItemResponse is one row of the availability screen. Kind is
// "available" or "booked"; Price and Description only exist on available slots.
type ScheduleItemResponse struct {
	Kind         string                `json:"kind"`
	ID           string                `json:"id"`
	Date         time.Time             `json:"data"`
	Description  string                `json:"descricao,omitempty"`
	Notes        string                `json:"observacoes,omitempty"`
	Price        *money.Money          `json:"valor,omitempty"`
	Patient      *PatientResponse      `json:"paciente,omitempty"`
	Psychologist *PsychologistResponse `json:"psicologo,omitempty"`
	StartsSoon   bool                  `json:"startsSoon"`
}

type ViewCountsResponse struct {
	Available int `json:"available"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

type ModalResponse struct {
	Mode   string `json:"mode"`
	ItemID string `json:"itemId,omitempty"`
}

type AvailabilityResponse struct {
	PsychologistID string                 `json:"psychologistId"`
	View           string                 `json:"view"`
	Items          []ScheduleItemResponse `json:"items"`
	Counts         ViewCountsResponse     `json:"counts"`
	Modal          ModalResponse          `json:"modal"`
}
