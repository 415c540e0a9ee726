package converter

import (
	"time"

	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
)

func PatientToResponse(p *entity.PatientSummary) *dto.PatientResponse {
	if p == nil {
		return nil
	}
	return &dto.PatientResponse{ID: p.ID, Name: p.Name, Email: p.Email}
}

func PsychologistToResponse(p *entity.PsychologistProfile) *dto.PsychologistResponse {
	if p == nil {
		return nil
	}
	return &dto.PsychologistResponse{ID: p.ID, Name: p.Name, CRP: p.CRP}
}

func ScheduleItemToResponse(item entity.ScheduleItem, now time.Time) dto.ScheduleItemResponse {
	resp := dto.ScheduleItemResponse{
		Kind:       string(item.Kind),
		ID:         item.ID(),
		Date:       item.Date(),
		StartsSoon: item.StartsSoon(now),
	}
	switch {
	case item.IsAvailable():
		price := item.Slot.Price
		resp.Description = item.Slot.Description
		resp.Notes = item.Slot.Notes
		resp.Price = &price
		resp.Psychologist = PsychologistToResponse(item.Slot.Psychologist)
	case item.IsBooked():
		resp.Notes = item.Appointment.Notes
		resp.Patient = PatientToResponse(item.Appointment.Patient)
		resp.Psychologist = PsychologistToResponse(item.Appointment.Psychologist)
	}
	return resp
}

func ScheduleItemsToResponses(items []entity.ScheduleItem, now time.Time) []dto.ScheduleItemResponse {
	responses := make([]dto.ScheduleItemResponse, len(items))
	for i, item := range items {
		responses[i] = ScheduleItemToResponse(item, now)
	}
	return responses
}

func SlotToResponse(slot *entity.AvailableSlot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}
	return &dto.SlotResponse{
		ID:           slot.ID,
		Date:         slot.Date,
		Description:  slot.Description,
		Notes:        slot.Notes,
		Price:        slot.Price,
		Psychologist: PsychologistToResponse(slot.Psychologist),
	}
}

func SlotsToResponses(slots []entity.AvailableSlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = *SlotToResponse(&slots[i])
	}
	return responses
}

func AppointmentToResponse(a *entity.BookedAppointment, now time.Time) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:           a.ID,
		Date:         a.Date,
		Notes:        a.Notes,
		Psychologist: PsychologistToResponse(a.Psychologist),
		Upcoming:     a.IsUpcoming(now),
		StartsSoon:   a.StartsSoon(now),
	}
}

func AppointmentsToResponses(appointments []entity.BookedAppointment, now time.Time) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = AppointmentToResponse(&appointments[i], now)
	}
	return responses
}
