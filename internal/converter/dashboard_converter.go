package converter

import (
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
)

func PatientDashboardToResponse(d *entity.PatientDashboard) *dto.PatientDashboardResponse {
	resp := &dto.PatientDashboardResponse{
		Role:           entity.RolePatient,
		Appointments:   make([]dto.MonthlyAppointmentsPoint, len(d.Appointments)),
		Moods:          moodSharesToResponse(d.Moods),
		MoodTrend:      make([]dto.MoodTrendPoint, len(d.MoodTrend)),
		Activities:     make([]dto.ActivityImpactPoint, len(d.Activities)),
		WeeklyProgress: make([]dto.WeeklyProgressPoint, len(d.WeeklyProgress)),
	}
	for i, p := range d.Appointments {
		resp.Appointments[i] = dto.MonthlyAppointmentsPoint{Month: p.Month, Count: p.Count}
	}
	for i, p := range d.MoodTrend {
		resp.MoodTrend[i] = dto.MoodTrendPoint{Date: p.Date, Mood: p.Mood}
	}
	for i, p := range d.Activities {
		resp.Activities[i] = dto.ActivityImpactPoint{Type: p.Type, Quantity: p.Quantity, Impact: p.Impact}
	}
	for i, p := range d.WeeklyProgress {
		resp.WeeklyProgress[i] = dto.WeeklyProgressPoint{Week: p.Week, Activities: p.Activities, Mood: p.Mood}
	}
	return resp
}

func PsychologistDashboardToResponse(d *entity.PsychologistDashboard) *dto.PsychologistDashboardResponse {
	resp := &dto.PsychologistDashboardResponse{
		Role:                  entity.RolePsychologist,
		PatientsByMonth:       make([]dto.MonthlyPatientsPoint, len(d.PatientsByMonth)),
		PatientMoods:          moodSharesToResponse(d.PatientMoods),
		AppointmentsByWeekday: make([]dto.WeekdayAppointmentsPoint, len(d.AppointmentsByWeekday)),
		PatientGrowth:         make([]dto.PatientGrowthPoint, len(d.PatientGrowth)),
		Performance:           make([]dto.PerformancePoint, len(d.Performance)),
	}
	for i, p := range d.PatientsByMonth {
		resp.PatientsByMonth[i] = dto.MonthlyPatientsPoint{Month: p.Month, Patients: p.Patients, Revenue: p.Revenue}
	}
	for i, p := range d.AppointmentsByWeekday {
		resp.AppointmentsByWeekday[i] = dto.WeekdayAppointmentsPoint{Weekday: p.Weekday, Count: p.Count}
	}
	for i, p := range d.PatientGrowth {
		resp.PatientGrowth[i] = dto.PatientGrowthPoint{Month: p.Month, New: p.New, Active: p.Active, Total: p.Total}
	}
	for i, p := range d.Performance {
		resp.Performance[i] = dto.PerformancePoint{Category: p.Category, Score: p.Score}
	}
	return resp
}

func moodSharesToResponse(shares []entity.MoodShare) []dto.MoodSharePoint {
	out := make([]dto.MoodSharePoint, len(shares))
	for i, s := range shares {
		out[i] = dto.MoodSharePoint{Mood: s.Mood, Value: s.Value}
	}
	return out
}

func MonitoredPatientToResponse(p *entity.MonitoredPatient, moodToday bool) dto.MonitoredPatientResponse {
	resp := dto.MonitoredPatientResponse{
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		RecentMoods:     MoodsToResponses(p.RecentMoods),
		TotalEntries:    p.TotalEntries,
		AverageMood:     p.AverageMood,
		LastAppointment: p.LastAppointment,
		MoodToday:       moodToday,
	}
	if latest := p.LatestMood(); latest != nil {
		mood := MoodToResponse(latest)
		resp.LatestMood = &mood
	}
	return resp
}

func PatientActivityToResponse(a *entity.PatientActivity, patientName string) dto.PatientActivityResponse {
	return dto.PatientActivityResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Desc,
		Date:        a.Date,
		Category:    a.Category,
		PatientID:   a.PatientID,
		PatientName: patientName,
	}
}
