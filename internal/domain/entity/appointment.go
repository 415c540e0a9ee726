package entity

import (
	"time"

	"psico-portal/pkg/money"
)

// StartingSoonWindow is how far ahead an appointment counts as starting soon
const StartingSoonWindow = 24 * time.Hour

// AvailableSlot is an open, unbooked appointment window offered by a psychologist
type AvailableSlot struct {
	ID             string               `json:"id"`
	Date           time.Time            `json:"data"`
	PsychologistID string               `json:"psicologoId"`
	Description    string               `json:"descricao"`
	Notes          string               `json:"observacoes,omitempty"`
	Price          money.Money          `json:"valor"`
	Psychologist   *PsychologistProfile `json:"psicologo,omitempty"`
	CreatedAt      time.Time            `json:"createdAt,omitempty"`
	UpdatedAt      time.Time            `json:"updatedAt,omitempty"`
}

// BookedAppointment is a slot claimed by a patient.
// Only Date and Notes remain editable after booking.
type BookedAppointment struct {
	ID             string               `json:"id"`
	Date           time.Time            `json:"data"`
	Notes          string               `json:"observacoes"`
	PatientID      string               `json:"pacienteId"`
	PsychologistID string               `json:"psicologoId"`
	Patient        *PatientSummary      `json:"paciente,omitempty"`
	Psychologist   *PsychologistProfile `json:"psicologo,omitempty"`
	Payments       []Payment            `json:"pagamentos,omitempty"`
	CreatedAt      time.Time            `json:"createdAt,omitempty"`
	UpdatedAt      time.Time            `json:"updatedAt,omitempty"`
}

// HasPatient reports whether the appointment carries its patient detail
func (a *BookedAppointment) HasPatient() bool {
	return a.Patient != nil
}

// IsUpcoming uses an inclusive lower bound: an appointment at exactly now is upcoming
func (a *BookedAppointment) IsUpcoming(now time.Time) bool {
	return !a.Date.Before(now)
}

// StartsSoon reports 0 < date-now <= 24h
func (a *BookedAppointment) StartsSoon(now time.Time) bool {
	return startsSoon(a.Date, now)
}

func (s *AvailableSlot) StartsSoon(now time.Time) bool {
	return startsSoon(s.Date, now)
}

func startsSoon(date, now time.Time) bool {
	diff := date.Sub(now)
	return diff > 0 && diff <= StartingSoonWindow
}

// NewSlot is the POST /consultas payload
type NewSlot struct {
	Date           time.Time   `json:"data"`
	Description    string      `json:"descricao"`
	Notes          string      `json:"observacoes,omitempty"`
	Price          money.Money `json:"valor"`
	PsychologistID string      `json:"psicologoId"`
}

// SlotPatch is the PATCH /consultas/disponiveis/{id} payload.
// Nil fields are not sent.
type SlotPatch struct {
	Date        *time.Time   `json:"data,omitempty"`
	Description *string      `json:"descricao,omitempty"`
	Notes       *string      `json:"observacoes,omitempty"`
	Price       *money.Money `json:"valor,omitempty"`
}

func (p SlotPatch) IsEmpty() bool {
	return p.Date == nil && p.Description == nil && p.Notes == nil && p.Price == nil
}

// AppointmentPatch is the PATCH /consultas/{id} payload.
// The type carries no price or description so those can never be sent.
type AppointmentPatch struct {
	Date  *time.Time `json:"data,omitempty"`
	Notes *string    `json:"observacoes,omitempty"`
}

func (p AppointmentPatch) IsEmpty() bool {
	return p.Date == nil && p.Notes == nil
}

// BookingRequest is the POST /consultas/agendar payload
type BookingRequest struct {
	AvailableConsultationID string `json:"availableConsultationId"`
	PatientID               string `json:"pacienteId"`
	Notes                   string `json:"observacoes,omitempty"`
}
