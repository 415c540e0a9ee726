package dto

import (
	"time"

	"psico-portal/pkg/money"
)

// Request DTOs

type OpenSchedulingRequest struct {
	PsychologistID string `json:"psychologistId" validate:"required"`
	PatientID      string `json:"patientId"`
}

type PickSlotRequest struct {
	SlotID string `json:"slotId" validate:"required"`
}

type ConfirmBookingRequest struct {
	Notes string `json:"observacoes" validate:"omitempty,max=1000"`
}

// Response DTOs

type SlotResponse struct {
	ID           string                `json:"id"`
	Date         time.Time             `json:"data"`
	Description  string                `json:"descricao"`
	Notes        string                `json:"observacoes,omitempty"`
	Price        money.Money           `json:"valor"`
	Psychologist *PsychologistResponse `json:"psicologo,omitempty"`
}

type SchedulingResponse struct {
	Step           string         `json:"step"`
	PsychologistID string         `json:"psychologistId,omitempty"`
	PatientID      string         `json:"patientId,omitempty"`
	Slots          []SlotResponse `json:"slots"`
	Selected       *SlotResponse  `json:"selected,omitempty"`
	RequestID      string         `json:"requestId,omitempty"`
	Error          string         `json:"error,omitempty"`
	Loading        bool           `json:"loading"`
	Submitting     bool           `json:"submitting"`
}
