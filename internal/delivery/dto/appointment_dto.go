package dto

import "time"

// Response DTOs

type AppointmentResponse struct {
	ID           string                `json:"id"`
	Date         time.Time             `json:"data"`
	Notes        string                `json:"observacoes,omitempty"`
	Psychologist *PsychologistResponse `json:"psicologo,omitempty"`
	Upcoming     bool                  `json:"upcoming"`
	StartsSoon   bool                  `json:"startsSoon"`
}

type AppointmentCountsResponse struct {
	All      int `json:"all"`
	Upcoming int `json:"upcoming"`
	Past     int `json:"past"`
}

type AppointmentListResponse struct {
	Filter       string                    `json:"filter"`
	Appointments []AppointmentResponse     `json:"appointments"`
	Counts       AppointmentCountsResponse `json:"counts"`
}
