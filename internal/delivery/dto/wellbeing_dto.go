package dto

import "time"

// Request DTOs

type CreateMoodRequest struct {
	Scale int    `json:"escala" validate:"required,min=1,max=5"`
	Notes string `json:"observacoes" validate:"omitempty,max=1000"`
}

type UpdateMoodRequest struct {
	Scale int    `json:"escala" validate:"required,min=1,max=5"`
	Notes string `json:"observacoes" validate:"omitempty,max=1000"`
}

// ActivityRequest is used for both create and update; Date defaults to now
type ActivityRequest struct {
	Type        string `json:"tipo" validate:"required"`
	Description string `json:"descricao" validate:"required"`
	Date        string `json:"data"`
	Impact      int    `json:"impacto" validate:"required,min=1,max=5"`
}

// Response DTOs

type MoodResponse struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"data"`
	Scale int       `json:"escala"`
	Notes string    `json:"observacoes"`
}

type MoodLogResponse struct {
	Entries       []MoodResponse `json:"entries"`
	Today         *MoodResponse  `json:"today,omitempty"`
	WeeklyAverage float64        `json:"weeklyAverage"`
}

type ActivityResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"tipo"`
	Description string    `json:"descricao"`
	Date        time.Time `json:"data"`
	Impact      int       `json:"impacto"`
	ImpactLevel string    `json:"impactLevel"`
}

type ActivityLogResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Today      []ActivityResponse `json:"today"`
}
