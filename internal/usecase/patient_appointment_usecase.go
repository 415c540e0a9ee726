package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var ErrInvalidAppointmentFilter = errors.New("invalid filter, use all, upcoming or past")

// AppointmentFilter is the patient's appointment list filter
type AppointmentFilter string

const (
	AppointmentFilterAll      AppointmentFilter = "all"
	AppointmentFilterUpcoming AppointmentFilter = "upcoming"
	AppointmentFilterPast     AppointmentFilter = "past"
)

type PatientAppointmentUsecase interface {
	List(ctx context.Context, patientID string, filter AppointmentFilter) (*dto.AppointmentListResponse, error)
}

type patientAppointmentUsecase struct {
	log   *logrus.Logger
	repo  repository.AppointmentRepository
	clock Clock
}

func NewPatientAppointmentUsecase(log *logrus.Logger, repo repository.AppointmentRepository, clock Clock) PatientAppointmentUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &patientAppointmentUsecase{log: log, repo: repo, clock: clock}
}

// List returns the patient's appointments. Upcoming is ascending, past and
// all are most recent first.
func (u *patientAppointmentUsecase) List(ctx context.Context, patientID string, filter AppointmentFilter) (*dto.AppointmentListResponse, error) {
	if filter == "" {
		filter = AppointmentFilterAll
	}
	switch filter {
	case AppointmentFilterAll, AppointmentFilterUpcoming, AppointmentFilterPast:
	default:
		return nil, ErrInvalidAppointmentFilter
	}

	appointments, err := u.repo.FindBookedByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	now := u.clock()
	counts := dto.AppointmentCountsResponse{All: len(appointments)}
	selected := make([]entity.BookedAppointment, 0, len(appointments))
	for _, a := range appointments {
		upcoming := a.IsUpcoming(now)
		if upcoming {
			counts.Upcoming++
		} else {
			counts.Past++
		}
		if filter == AppointmentFilterAll ||
			(filter == AppointmentFilterUpcoming && upcoming) ||
			(filter == AppointmentFilterPast && !upcoming) {
			selected = append(selected, a)
		}
	}

	ascending := filter == AppointmentFilterUpcoming
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Date.Equal(b.Date) {
			return a.ID < b.ID
		}
		if ascending {
			return a.Date.Before(b.Date)
		}
		return a.Date.After(b.Date)
	})

	return &dto.AppointmentListResponse{
		Filter:       string(filter),
		Appointments: converter.AppointmentsToResponses(selected, now),
		Counts:       counts,
	}, nil
}
