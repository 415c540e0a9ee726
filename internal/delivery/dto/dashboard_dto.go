package dto

import (
	"time"

	"psico-portal/pkg/money"
)

// Response DTOs

type MonthlyAppointmentsPoint struct {
	Month string `json:"name"`
	Count int    `json:"consultas"`
}

type MoodSharePoint struct {
	Mood  string `json:"name"`
	Value int    `json:"value"`
}

type MoodTrendPoint struct {
	Date string  `json:"data"`
	Mood float64 `json:"humor"`
}

type ActivityImpactPoint struct {
	Type     string  `json:"tipo"`
	Quantity int     `json:"quantidade"`
	Impact   float64 `json:"impacto"`
}

type WeeklyProgressPoint struct {
	Week       string  `json:"semana"`
	Activities int     `json:"atividades"`
	Mood       float64 `json:"humor"`
}

type PatientDashboardStats struct {
	TotalAppointments int `json:"totalConsultas"`
	AverageMood       int `json:"humorMedio"`
	TotalActivities   int `json:"totalAtividades"`
	AverageImpact     int `json:"impactoMedio"`
}

type PatientDashboardResponse struct {
	Role           string                     `json:"role"`
	Appointments   []MonthlyAppointmentsPoint `json:"consultas"`
	Moods          []MoodSharePoint           `json:"humores"`
	MoodTrend      []MoodTrendPoint           `json:"humorTendencia"`
	Activities     []ActivityImpactPoint      `json:"atividades"`
	WeeklyProgress []WeeklyProgressPoint      `json:"progressoSemanal"`
	Stats          PatientDashboardStats      `json:"estatisticas"`
}

type MonthlyPatientsPoint struct {
	Month    string      `json:"name"`
	Patients int         `json:"pacientes"`
	Revenue  money.Money `json:"receita"`
}

type WeekdayAppointmentsPoint struct {
	Weekday string `json:"dia"`
	Count   int    `json:"consultas"`
}

type PatientGrowthPoint struct {
	Month  string `json:"mes"`
	New    int    `json:"novos"`
	Active int    `json:"ativos"`
	Total  int    `json:"total"`
}

type PerformancePoint struct {
	Category string  `json:"categoria"`
	Score    float64 `json:"pontuacao"`
}

type PsychologistDashboardStats struct {
	TotalPatients      int         `json:"totalPacientes"`
	MonthlyRevenue     money.Money `json:"receitaMensal"`
	WeeklyAppointments int         `json:"consultasSemana"`
	Growth             int         `json:"crescimento"`
}

type PsychologistDashboardResponse struct {
	Role                  string                     `json:"role"`
	PatientsByMonth       []MonthlyPatientsPoint     `json:"pacientesPorMes"`
	PatientMoods          []MoodSharePoint           `json:"humoresPacientes"`
	AppointmentsByWeekday []WeekdayAppointmentsPoint `json:"consultasPorDiaSemana"`
	PatientGrowth         []PatientGrowthPoint       `json:"evolucaoPacientes"`
	Performance           []PerformancePoint         `json:"performanceMensal"`
	Stats                 PsychologistDashboardStats `json:"estatisticas"`
}

type MonitoredPatientResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"nome"`
	Email           string         `json:"email"`
	Phone           string         `json:"telefone"`
	LatestMood      *MoodResponse  `json:"latestMood,omitempty"`
	RecentMoods     []MoodResponse `json:"ultimoHumor"`
	TotalEntries    int            `json:"totalRegistros"`
	AverageMood     float64        `json:"mediaHumor"`
	LastAppointment *time.Time     `json:"ultimaConsulta,omitempty"`
	MoodToday       bool           `json:"moodToday"`
}

type PatientMoodStatusResponse struct {
	Patients              []MonitoredPatientResponse `json:"patients"`
	TotalPatients         int                        `json:"totalPatients"`
	PatientsWithMoodToday int                        `json:"patientsWithMoodToday"`
	AverageMood           float64                    `json:"averageMood"`
}

type PatientActivityResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"titulo"`
	Description string    `json:"descricao"`
	Date        time.Time `json:"data"`
	Category    string    `json:"categoria"`
	PatientID   string    `json:"pacienteId"`
	PatientName string    `json:"pacienteNome"`
}

type PatientActivityFeedResponse struct {
	Activities      []PatientActivityResponse `json:"activities"`
	TotalActivities int                       `json:"totalActivities"`
}
