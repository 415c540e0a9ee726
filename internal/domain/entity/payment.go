package entity

import (
	"time"

	"psico-portal/pkg/money"

	"github.com/jinzhu/now"
)

// PaymentStatus represents the status of an installment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pendente"
	PaymentStatusPaid    PaymentStatus = "Pago"
)

// Payment is one installment of a booked appointment
type Payment struct {
	ID            string              `json:"id"`
	Amount        money.Money         `json:"valor"`
	Date          time.Time           `json:"data"`
	DueDate       time.Time           `json:"dataVencimento"`
	Installment   int                 `json:"parcela"`
	Status        PaymentStatus       `json:"status"`
	AppointmentID string              `json:"atendimentoId"`
	Appointment   *PaymentAppointment `json:"atendimento,omitempty"`
	CreatedAt     time.Time           `json:"createdAt,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt,omitempty"`
}

// PaymentAppointment is the appointment detail embedded in payment listings
type PaymentAppointment struct {
	ID             string               `json:"id"`
	Date           time.Time            `json:"data"`
	Notes          string               `json:"observacoes,omitempty"`
	PatientID      string               `json:"pacienteId,omitempty"`
	PsychologistID string               `json:"psicologoId,omitempty"`
	Patient        *PatientSummary      `json:"paciente,omitempty"`
	Psychologist   *PsychologistProfile `json:"psicologo,omitempty"`
}

func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsOverdue is evaluated at read time and never persisted
func (p *Payment) IsOverdue(at time.Time) bool {
	return p.IsPending() && p.DueDate.Before(at)
}

// IsDueToday compares calendar days in the location of at
func (p *Payment) IsDueToday(at time.Time) bool {
	if !p.IsPending() {
		return false
	}
	return now.With(p.DueDate.In(at.Location())).BeginningOfDay().Equal(now.With(at).BeginningOfDay())
}

// PatientName falls back to a placeholder when the listing lacks patient detail
func (p *Payment) PatientName() string {
	if p.Appointment != nil && p.Appointment.Patient != nil && p.Appointment.Patient.Name != "" {
		return p.Appointment.Patient.Name
	}
	return UnknownPatientName
}

const UnknownPatientName = "unknown"

// PaymentStatusUpdate is the PATCH /financeiro/status/{id} payload
type PaymentStatusUpdate struct {
	Paid bool `json:"paid"`
}

// PaymentFilter is the ledger's view filter
type PaymentFilter string

const (
	PaymentFilterAll      PaymentFilter = "all"
	PaymentFilterPending  PaymentFilter = "pending"
	PaymentFilterReceived PaymentFilter = "received"
	PaymentFilterOverdue  PaymentFilter = "overdue"
)

func (f PaymentFilter) Valid() bool {
	switch f {
	case PaymentFilterAll, PaymentFilterPending, PaymentFilterReceived, PaymentFilterOverdue:
		return true
	}
	return false
}
