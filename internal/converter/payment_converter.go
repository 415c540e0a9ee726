package converter

import (
	"time"

	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
)

// PaymentToResponse derives the overdue and due-today flags at now
func PaymentToResponse(p *entity.Payment, now time.Time) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		Amount:        p.Amount,
		Date:          p.Date,
		DueDate:       p.DueDate,
		Installment:   p.Installment,
		Status:        string(p.Status),
		AppointmentID: p.AppointmentID,
		PatientName:   p.PatientName(),
		Overdue:       p.IsOverdue(now),
		DueToday:      p.IsDueToday(now),
	}
}

func PaymentsToResponses(payments []entity.Payment, now time.Time) []dto.PaymentResponse {
	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = PaymentToResponse(&payments[i], now)
	}
	return responses
}
