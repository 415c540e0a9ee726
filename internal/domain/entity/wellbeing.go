package entity

import "time"

// Mood scale bounds
const (
	MoodScaleMin = 1
	MoodScaleMax = 5
)

// MoodEntry is a patient's daily mood record
type MoodEntry struct {
	ID        string    `json:"id,omitempty"`
	Date      time.Time `json:"data"`
	Scale     int       `json:"escala"`
	Notes     string    `json:"observacoes"`
	PatientID string    `json:"pacienteId"`
}

// Activity is a patient's logged activity with its perceived impact (1-5)
type Activity struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"tipo"`
	Desc      string    `json:"descricao"`
	Date      time.Time `json:"data"`
	Impact    int       `json:"impacto"`
	PatientID string    `json:"pacienteId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ImpactLevel buckets an activity impact score
type ImpactLevel string

const (
	ImpactNegative ImpactLevel = "negative"
	ImpactNeutral  ImpactLevel = "neutral"
	ImpactPositive ImpactLevel = "positive"
)

func ClassifyImpact(impact int) ImpactLevel {
	switch {
	case impact <= 2:
		return ImpactNegative
	case impact <= 3:
		return ImpactNeutral
	default:
		return ImpactPositive
	}
}

func (a *Activity) ImpactLevel() ImpactLevel {
	return ClassifyImpact(a.Impact)
}
