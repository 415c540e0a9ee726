package converter

import (
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
)

func MoodToResponse(m *entity.MoodEntry) dto.MoodResponse {
	return dto.MoodResponse{
		ID:    m.ID,
		Date:  m.Date,
		Scale: m.Scale,
		Notes: m.Notes,
	}
}

func MoodsToResponses(entries []entity.MoodEntry) []dto.MoodResponse {
	responses := make([]dto.MoodResponse, len(entries))
	for i := range entries {
		responses[i] = MoodToResponse(&entries[i])
	}
	return responses
}

func ActivityToResponse(a *entity.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Desc,
		Date:        a.Date,
		Impact:      a.Impact,
		ImpactLevel: string(a.ImpactLevel()),
	}
}

func ActivitiesToResponses(activities []entity.Activity) []dto.ActivityResponse {
	responses := make([]dto.ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = ActivityToResponse(&activities[i])
	}
	return responses
}

func ProfileToResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{ID: p.ID, Name: p.Name, Role: p.Role}
}
