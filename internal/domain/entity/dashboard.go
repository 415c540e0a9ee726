package entity

import (
	"time"

	"psico-portal/pkg/money"
)

// Series points as served by GET /dashboard/paciente/{id}

type MonthlyAppointments struct {
	Month string `json:"name"`
	Count int    `json:"consultas"`
}

// MoodShare is one slice of a mood distribution chart
type MoodShare struct {
	Mood  string `json:"name"`
	Value int    `json:"value"`
}

type MoodTrendPoint struct {
	Date string  `json:"data"`
	Mood float64 `json:"humor"`
}

type ActivityImpact struct {
	Type     string  `json:"tipo"`
	Quantity int     `json:"quantidade"`
	Impact   float64 `json:"impacto"`
}

type WeeklyProgress struct {
	Week       string  `json:"semana"`
	Activities int     `json:"atividades"`
	Mood       float64 `json:"humor"`
}

type PatientDashboard struct {
	Appointments   []MonthlyAppointments `json:"consultas"`
	Moods          []MoodShare           `json:"humores"`
	MoodTrend      []MoodTrendPoint      `json:"humorTendencia"`
	Activities     []ActivityImpact      `json:"atividades"`
	WeeklyProgress []WeeklyProgress      `json:"progressoSemanal"`
}

// Series points as served by GET /dashboard/psicologo/{id}

type MonthlyPatients struct {
	Month    string      `json:"name"`
	Patients int         `json:"pacientes"`
	Revenue  money.Money `json:"receita"`
}

type WeekdayAppointments struct {
	Weekday string `json:"dia"`
	Count   int    `json:"consultas"`
}

type PatientGrowth struct {
	Month  string `json:"mes"`
	New    int    `json:"novos"`
	Active int    `json:"ativos"`
	Total  int    `json:"total"`
}

type PerformanceScore struct {
	Category string  `json:"categoria"`
	Score    float64 `json:"pontuacao"`
}

type PsychologistDashboard struct {
	PatientsByMonth       []MonthlyPatients     `json:"pacientesPorMes"`
	PatientMoods          []MoodShare           `json:"humoresPacientes"`
	AppointmentsByWeekday []WeekdayAppointments `json:"consultasPorDiaSemana"`
	PatientGrowth         []PatientGrowth       `json:"evolucaoPacientes"`
	Performance           []PerformanceScore    `json:"performanceMensal"`
}

// MonitoredPatient is one row of GET /humor/psicologo/{id}. RecentMoods is
// newest first.
type MonitoredPatient struct {
	ID              string      `json:"id"`
	Name            string      `json:"nome"`
	Email           string      `json:"email"`
	Phone           string      `json:"telefone"`
	RecentMoods     []MoodEntry `json:"ultimoHumor"`
	TotalEntries    int         `json:"totalRegistros"`
	AverageMood     float64     `json:"mediaHumor"`
	LastAppointment *time.Time  `json:"ultimaConsulta,omitempty"`
}

// LatestMood is the most recent entry, nil when the patient has none
func (p *MonitoredPatient) LatestMood() *MoodEntry {
	if len(p.RecentMoods) == 0 {
		return nil
	}
	return &p.RecentMoods[0]
}

// PatientActivity is an activity as listed for a psychologist
type PatientActivity struct {
	ID        string    `json:"id"`
	Title     string    `json:"titulo"`
	Desc      string    `json:"descricao"`
	Date      time.Time `json:"data"`
	Category  string    `json:"categoria"`
	PatientID string    `json:"pacienteId"`
}

// PatientActivities is one row of GET /atividades/psicologo/{id}
type PatientActivities struct {
	ID         string            `json:"id"`
	Name       string            `json:"nome"`
	Activities []PatientActivity `json:"atividades"`
}
