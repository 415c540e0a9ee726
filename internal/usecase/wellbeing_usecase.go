package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"

	"github.com/jinzhu/now"
	"github.com/sirupsen/logrus"
)

var (
	ErrMoodAlreadyRecorded = errors.New("mood already recorded today")
	ErrMoodNotFound        = errors.New("mood entry not found")
	ErrInvalidScale        = errors.New("scale must be between 1 and 5")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrInvalidImpact       = errors.New("impact must be between 1 and 5")
)

const moodAverageWindow = 7 * 24 * time.Hour

type MoodUsecase interface {
	GetLog(ctx context.Context, patientID string) (*dto.MoodLogResponse, error)
	Record(ctx context.Context, patientID string, req *dto.CreateMoodRequest) (*dto.MoodLogResponse, error)
	Update(ctx context.Context, patientID, entryID string, req *dto.UpdateMoodRequest) (*dto.MoodLogResponse, error)
	Delete(ctx context.Context, patientID, entryID string) (*dto.MoodLogResponse, error)
}

type moodUsecase struct {
	log   *logrus.Logger
	repo  repository.MoodRepository
	clock Clock
}

func NewMoodUsecase(log *logrus.Logger, repo repository.MoodRepository, clock Clock) MoodUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &moodUsecase{log: log, repo: repo, clock: clock}
}

func (u *moodUsecase) GetLog(ctx context.Context, patientID string) (*dto.MoodLogResponse, error) {
	entries, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find mood entries for patient %s: %+v", patientID, err)
		return nil, err
	}
	return moodLog(entries, u.clock()), nil
}

// Record adds today's entry; a patient gets one entry per calendar day
func (u *moodUsecase) Record(ctx context.Context, patientID string, req *dto.CreateMoodRequest) (*dto.MoodLogResponse, error) {
	if !validScale(req.Scale) {
		return nil, ErrInvalidScale
	}

	entries, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find mood entries for patient %s: %+v", patientID, err)
		return nil, err
	}
	at := u.clock()
	if todayMood(entries, at) != nil {
		return nil, ErrMoodAlreadyRecorded
	}

	created, err := u.repo.Create(ctx, &entity.MoodEntry{
		Date:      at,
		Scale:     req.Scale,
		Notes:     strings.TrimSpace(req.Notes),
		PatientID: patientID,
	})
	if err != nil {
		u.log.Warnf("Failed to record mood for patient %s: %+v", patientID, err)
		return nil, err
	}
	u.log.Debugf("Mood entry %s recorded for patient %s", created.ID, patientID)

	return u.refetch(ctx, patientID, entries), nil
}

func (u *moodUsecase) Update(ctx context.Context, patientID, entryID string, req *dto.UpdateMoodRequest) (*dto.MoodLogResponse, error) {
	if !validScale(req.Scale) {
		return nil, ErrInvalidScale
	}

	entries, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find mood entries for patient %s: %+v", patientID, err)
		return nil, err
	}
	entry := findMood(entries, entryID)
	if entry == nil {
		return nil, ErrMoodNotFound
	}

	updated := *entry
	updated.Scale = req.Scale
	updated.Notes = strings.TrimSpace(req.Notes)
	if err := u.repo.Update(ctx, &updated); err != nil {
		u.log.Warnf("Failed to update mood entry %s: %+v", entryID, err)
		return nil, err
	}

	return u.refetch(ctx, patientID, entries), nil
}

func (u *moodUsecase) Delete(ctx context.Context, patientID, entryID string) (*dto.MoodLogResponse, error) {
	entries, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find mood entries for patient %s: %+v", patientID, err)
		return nil, err
	}
	if findMood(entries, entryID) == nil {
		return nil, ErrMoodNotFound
	}

	if err := u.repo.Delete(ctx, entryID); err != nil {
		u.log.Warnf("Failed to delete mood entry %s: %+v", entryID, err)
		return nil, err
	}

	return u.refetch(ctx, patientID, entries), nil
}

// refetch reloads after a successful mutation. On failure the previous list
// is returned and the mutation still counts as done.
func (u *moodUsecase) refetch(ctx context.Context, patientID string, previous []entity.MoodEntry) *dto.MoodLogResponse {
	entries, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to reload mood entries for patient %s: %+v", patientID, err)
		entries = previous
	}
	return moodLog(entries, u.clock())
}

func validScale(scale int) bool {
	return scale >= entity.MoodScaleMin && scale <= entity.MoodScaleMax
}

func findMood(entries []entity.MoodEntry, id string) *entity.MoodEntry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return now.With(a.In(b.Location())).BeginningOfDay().Equal(now.With(b).BeginningOfDay())
}

func todayMood(entries []entity.MoodEntry, at time.Time) *entity.MoodEntry {
	for i := range entries {
		if sameDay(entries[i].Date, at) {
			return &entries[i]
		}
	}
	return nil
}

// weeklyMoodAverage is the mean scale of the last seven days, one decimal
func weeklyMoodAverage(entries []entity.MoodEntry, at time.Time) float64 {
	since := at.Add(-moodAverageWindow)
	var sum, n int
	for _, e := range entries {
		if !e.Date.Before(since) {
			sum += e.Scale
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

func moodLog(entries []entity.MoodEntry, at time.Time) *dto.MoodLogResponse {
	sorted := append([]entity.MoodEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	resp := &dto.MoodLogResponse{
		Entries:       converter.MoodsToResponses(sorted),
		WeeklyAverage: weeklyMoodAverage(sorted, at),
	}
	if today := todayMood(sorted, at); today != nil {
		mood := converter.MoodToResponse(today)
		resp.Today = &mood
	}
	return resp
}

type ActivityUsecase interface {
	GetLog(ctx context.Context, patientID string) (*dto.ActivityLogResponse, error)
	Create(ctx context.Context, patientID string, req *dto.ActivityRequest) (*dto.ActivityLogResponse, error)
	Update(ctx context.Context, patientID, activityID string, req *dto.ActivityRequest) (*dto.ActivityLogResponse, error)
	Delete(ctx context.Context, patientID, activityID string) (*dto.ActivityLogResponse, error)
}

type activityUsecase struct {
	log   *logrus.Logger
	repo  repository.ActivityRepository
	clock Clock
	loc   *time.Location
}

// NewActivityUsecase reads datetime-local input in loc
func NewActivityUsecase(log *logrus.Logger, repo repository.ActivityRepository, clock Clock, loc *time.Location) ActivityUsecase {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &activityUsecase{log: log, repo: repo, clock: clock, loc: loc}
}

func (u *activityUsecase) GetLog(ctx context.Context, patientID string) (*dto.ActivityLogResponse, error) {
	activities, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find activities for patient %s: %+v", patientID, err)
		return nil, err
	}
	return activityLog(activities, u.clock()), nil
}

func (u *activityUsecase) Create(ctx context.Context, patientID string, req *dto.ActivityRequest) (*dto.ActivityLogResponse, error) {
	activity, err := u.activityFromRequest(req)
	if err != nil {
		return nil, err
	}
	activity.PatientID = patientID

	if err := u.repo.Create(ctx, activity); err != nil {
		u.log.Warnf("Failed to create activity for patient %s: %+v", patientID, err)
		return nil, err
	}
	u.log.Debugf("Activity %q logged for patient %s", activity.Type, patientID)

	return u.refetch(ctx, patientID, nil), nil
}

func (u *activityUsecase) Update(ctx context.Context, patientID, activityID string, req *dto.ActivityRequest) (*dto.ActivityLogResponse, error) {
	activity, err := u.activityFromRequest(req)
	if err != nil {
		return nil, err
	}

	activities, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find activities for patient %s: %+v", patientID, err)
		return nil, err
	}
	if findActivity(activities, activityID) == nil {
		return nil, ErrActivityNotFound
	}

	activity.ID = activityID
	activity.PatientID = patientID
	if err := u.repo.Update(ctx, activity); err != nil {
		u.log.Warnf("Failed to update activity %s: %+v", activityID, err)
		return nil, err
	}

	return u.refetch(ctx, patientID, activities), nil
}

func (u *activityUsecase) Delete(ctx context.Context, patientID, activityID string) (*dto.ActivityLogResponse, error) {
	activities, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find activities for patient %s: %+v", patientID, err)
		return nil, err
	}
	if findActivity(activities, activityID) == nil {
		return nil, ErrActivityNotFound
	}

	if err := u.repo.Delete(ctx, activityID); err != nil {
		u.log.Warnf("Failed to delete activity %s: %+v", activityID, err)
		return nil, err
	}

	return u.refetch(ctx, patientID, activities), nil
}

func (u *activityUsecase) activityFromRequest(req *dto.ActivityRequest) (*entity.Activity, error) {
	if req.Impact < 1 || req.Impact > 5 {
		return nil, ErrInvalidImpact
	}
	date := u.clock()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := converter.ParseDateTime(req.Date, u.loc)
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	return &entity.Activity{
		Type:   strings.TrimSpace(req.Type),
		Desc:   strings.TrimSpace(req.Description),
		Date:   date,
		Impact: req.Impact,
	}, nil
}

func (u *activityUsecase) refetch(ctx context.Context, patientID string, previous []entity.Activity) *dto.ActivityLogResponse {
	activities, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to reload activities for patient %s: %+v", patientID, err)
		activities = previous
	}
	return activityLog(activities, u.clock())
}

func findActivity(activities []entity.Activity, id string) *entity.Activity {
	for i := range activities {
		if activities[i].ID == id {
			return &activities[i]
		}
	}
	return nil
}

func activityLog(activities []entity.Activity, at time.Time) *dto.ActivityLogResponse {
	sorted := append([]entity.Activity(nil), activities...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	today := make([]entity.Activity, 0)
	for _, a := range sorted {
		if sameDay(a.Date, at) {
			today = append(today, a)
		}
	}
	return &dto.ActivityLogResponse{
		Activities: converter.ActivitiesToResponses(sorted),
		Today:      converter.ActivitiesToResponses(today),
	}
}
