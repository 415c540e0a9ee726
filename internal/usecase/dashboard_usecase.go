package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
	"psico-portal/pkg/money"

	"github.com/sirupsen/logrus"
)

// A mood counts as today's when it is less than a day old
const moodTodayWindow = 24 * time.Hour

type DashboardUsecase interface {
	PatientDashboard(ctx context.Context, patientID string) (*dto.PatientDashboardResponse, error)
	PsychologistDashboard(ctx context.Context, psychologistID string) (*dto.PsychologistDashboardResponse, error)
}

type dashboardUsecase struct {
	log  *logrus.Logger
	repo repository.DashboardRepository
}

func NewDashboardUsecase(log *logrus.Logger, repo repository.DashboardRepository) DashboardUsecase {
	return &dashboardUsecase{log: log, repo: repo}
}

func (u *dashboardUsecase) PatientDashboard(ctx context.Context, patientID string) (*dto.PatientDashboardResponse, error) {
	dashboard, err := u.repo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to get dashboard for patient %s: %+v", patientID, err)
		return nil, err
	}
	resp := converter.PatientDashboardToResponse(dashboard)
	resp.Stats = patientStats(dashboard)
	return resp, nil
}

func (u *dashboardUsecase) PsychologistDashboard(ctx context.Context, psychologistID string) (*dto.PsychologistDashboardResponse, error) {
	dashboard, err := u.repo.FindByPsychologist(ctx, psychologistID)
	if err != nil {
		u.log.Warnf("Failed to get dashboard for psychologist %s: %+v", psychologistID, err)
		return nil, err
	}
	resp := converter.PsychologistDashboardToResponse(dashboard)
	resp.Stats = psychologistStats(dashboard)
	return resp, nil
}

func patientStats(d *entity.PatientDashboard) dto.PatientDashboardStats {
	var stats dto.PatientDashboardStats
	for _, p := range d.Appointments {
		stats.TotalAppointments += p.Count
	}
	if n := len(d.MoodTrend); n > 0 {
		var sum float64
		for _, p := range d.MoodTrend {
			sum += p.Mood
		}
		stats.AverageMood = int(math.Round(sum / float64(n)))
	}
	if n := len(d.Activities); n > 0 {
		var sum float64
		for _, p := range d.Activities {
			stats.TotalActivities += p.Quantity
			sum += p.Impact
		}
		stats.AverageImpact = int(math.Round(sum / float64(n)))
	}
	return stats
}

func psychologistStats(d *entity.PsychologistDashboard) dto.PsychologistDashboardStats {
	stats := dto.PsychologistDashboardStats{MonthlyRevenue: money.Zero}
	if n := len(d.PatientsByMonth); n > 0 {
		last := d.PatientsByMonth[n-1]
		stats.TotalPatients = last.Patients
		stats.MonthlyRevenue = last.Revenue
	}
	for _, p := range d.AppointmentsByWeekday {
		stats.WeeklyAppointments += p.Count
	}
	if n := len(d.PatientGrowth); n > 0 {
		stats.Growth = d.PatientGrowth[n-1].New
	}
	return stats
}

// PatientMonitorUsecase gives a psychologist the mood status and activity
// feed of their patients
type PatientMonitorUsecase interface {
	MoodStatus(ctx context.Context, psychologistID, search string) (*dto.PatientMoodStatusResponse, error)
	ActivityFeed(ctx context.Context, psychologistID, search string) (*dto.PatientActivityFeedResponse, error)
}

type patientMonitorUsecase struct {
	log   *logrus.Logger
	repo  repository.PatientMonitorRepository
	clock Clock
}

func NewPatientMonitorUsecase(log *logrus.Logger, repo repository.PatientMonitorRepository, clock Clock) PatientMonitorUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &patientMonitorUsecase{log: log, repo: repo, clock: clock}
}

// MoodStatus filters by patient name; the totals describe the filtered list
func (u *patientMonitorUsecase) MoodStatus(ctx context.Context, psychologistID, search string) (*dto.PatientMoodStatusResponse, error) {
	patients, err := u.repo.FindMoodStatus(ctx, psychologistID)
	if err != nil {
		u.log.Warnf("Failed to get patient mood status for psychologist %s: %+v", psychologistID, err)
		return nil, err
	}

	at := u.clock()
	resp := &dto.PatientMoodStatusResponse{Patients: make([]dto.MonitoredPatientResponse, 0, len(patients))}
	var moodSum float64
	for i := range patients {
		p := &patients[i]
		if !matchesSearch(search, p.Name) {
			continue
		}
		today := moodIsFromToday(p.LatestMood(), at)
		if today {
			resp.PatientsWithMoodToday++
		}
		moodSum += p.AverageMood
		resp.Patients = append(resp.Patients, converter.MonitoredPatientToResponse(p, today))
	}
	resp.TotalPatients = len(resp.Patients)
	if resp.TotalPatients > 0 {
		resp.AverageMood = math.Round(moodSum/float64(resp.TotalPatients)*10) / 10
	}
	return resp, nil
}

// ActivityFeed flattens every patient's activities newest first. The total
// counts the whole feed, before the search is applied.
func (u *patientMonitorUsecase) ActivityFeed(ctx context.Context, psychologistID, search string) (*dto.PatientActivityFeedResponse, error) {
	patients, err := u.repo.FindActivities(ctx, psychologistID)
	if err != nil {
		u.log.Warnf("Failed to get patient activities for psychologist %s: %+v", psychologistID, err)
		return nil, err
	}

	feed := make([]dto.PatientActivityResponse, 0)
	for i := range patients {
		for j := range patients[i].Activities {
			feed = append(feed, converter.PatientActivityToResponse(&patients[i].Activities[j], patients[i].Name))
		}
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Date.After(feed[j].Date) })

	resp := &dto.PatientActivityFeedResponse{
		Activities:      make([]dto.PatientActivityResponse, 0, len(feed)),
		TotalActivities: len(feed),
	}
	for _, a := range feed {
		if matchesSearch(search, a.Title, a.Description, a.PatientName) {
			resp.Activities = append(resp.Activities, a)
		}
	}
	return resp, nil
}

// matchesSearch is a case-insensitive substring match against any field
func matchesSearch(search string, fields ...string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func moodIsFromToday(latest *entity.MoodEntry, at time.Time) bool {
	if latest == nil || latest.Date.After(at) {
		return false
	}
	return at.Sub(latest.Date) < moodTodayWindow
}
