package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindBookedByPsychologist(ctx context.Context, psychologistID string) ([]entity.BookedAppointment, error) {
	args := m.Called(ctx, psychologistID)
	booked, _ := args.Get(0).([]entity.BookedAppointment)
	return booked, args.Error(1)
}

func (m *MockAppointmentRepository) FindBookedByPatient(ctx context.Context, patientID string) ([]entity.BookedAppointment, error) {
	args := m.Called(ctx, patientID)
	booked, _ := args.Get(0).([]entity.BookedAppointment)
	return booked, args.Error(1)
}

func (m *MockAppointmentRepository) FindAvailableByPsychologist(ctx context.Context, psychologistID string) ([]entity.AvailableSlot, error) {
	args := m.Called(ctx, psychologistID)
	slots, _ := args.Get(0).([]entity.AvailableSlot)
	return slots, args.Error(1)
}

func (m *MockAppointmentRepository) CreateSlot(ctx context.Context, slot *entity.NewSlot) error {
	return m.Called(ctx, slot).Error(0)
}

func (m *MockAppointmentRepository) UpdateSlot(ctx context.Context, id string, patch *entity.SlotPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockAppointmentRepository) UpdateBooked(ctx context.Context, id string, patch *entity.AppointmentPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockAppointmentRepository) DeleteSlot(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAppointmentRepository) DeleteBooked(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAppointmentRepository) Book(ctx context.Context, req *entity.BookingRequest, idempotencyKey string) error {
	return m.Called(ctx, req, idempotencyKey).Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Login(ctx context.Context, credentials *entity.Credentials) (*entity.AccessToken, error) {
	args := m.Called(ctx, credentials)
	token, _ := args.Get(0).(*entity.AccessToken)
	return token, args.Error(1)
}

func (m *MockSessionRepository) CurrentProfile(ctx context.Context) (*entity.Profile, error) {
	args := m.Called(ctx)
	profile, _ := args.Get(0).(*entity.Profile)
	return profile, args.Error(1)
}

func (m *MockSessionRepository) RegisterPatient(ctx context.Context, req *entity.PatientRegistration) (*entity.Registration, error) {
	args := m.Called(ctx, req)
	reg, _ := args.Get(0).(*entity.Registration)
	return reg, args.Error(1)
}

func (m *MockSessionRepository) RegisterPsychologist(ctx context.Context, req *entity.PsychologistRegistration) (*entity.Registration, error) {
	args := m.Called(ctx, req)
	reg, _ := args.Get(0).(*entity.Registration)
	return reg, args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByPsychologist(ctx context.Context, psychologistID string) ([]entity.Payment, error) {
	args := m.Called(ctx, psychologistID)
	payments, _ := args.Get(0).([]entity.Payment)
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, paymentID string, update *entity.PaymentStatusUpdate) error {
	return m.Called(ctx, paymentID, update).Error(0)
}

type MockMoodRepository struct {
	mock.Mock
}

func (m *MockMoodRepository) FindByPatient(ctx context.Context, patientID string) ([]entity.MoodEntry, error) {
	args := m.Called(ctx, patientID)
	entries, _ := args.Get(0).([]entity.MoodEntry)
	return entries, args.Error(1)
}

func (m *MockMoodRepository) Create(ctx context.Context, entry *entity.MoodEntry) (*entity.MoodEntry, error) {
	args := m.Called(ctx, entry)
	created, _ := args.Get(0).(*entity.MoodEntry)
	return created, args.Error(1)
}

func (m *MockMoodRepository) Update(ctx context.Context, entry *entity.MoodEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockMoodRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByPatient(ctx context.Context, patientID string) ([]entity.Activity, error) {
	args := m.Called(ctx, patientID)
	activities, _ := args.Get(0).([]entity.Activity)
	return activities, args.Error(1)
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockActivityRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBookingGuard struct {
	mock.Mock
}

func (m *MockBookingGuard) Acquire(ctx context.Context, slotID, patientID, candidateKey string) (service.BookingLease, error) {
	args := m.Called(ctx, slotID, patientID, candidateKey)
	return args.Get(0).(service.BookingLease), args.Error(1)
}

func (m *MockBookingGuard) Release(ctx context.Context, slotID, patientID, token string) error {
	return m.Called(ctx, slotID, patientID, token).Error(0)
}

// countingReconciler records every reconcile call and delegates to inner
type countingReconciler struct {
	inner Reconciler

	mu    sync.Mutex
	calls []entity.ListKind
}

func (c *countingReconciler) ReconcileAfterMutation(ctx context.Context, list entity.ListKind) error {
	c.mu.Lock()
	c.calls = append(c.calls, list)
	c.mu.Unlock()
	if c.inner == nil {
		return nil
	}
	return c.inner.ReconcileAfterMutation(ctx, list)
}

func (c *countingReconciler) Calls() []entity.ListKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.ListKind(nil), c.calls...)
}

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) FindByPatient(ctx context.Context, patientID string) (*entity.PatientDashboard, error) {
	args := m.Called(ctx, patientID)
	dashboard, _ := args.Get(0).(*entity.PatientDashboard)
	return dashboard, args.Error(1)
}

func (m *MockDashboardRepository) FindByPsychologist(ctx context.Context, psychologistID string) (*entity.PsychologistDashboard, error) {
	args := m.Called(ctx, psychologistID)
	dashboard, _ := args.Get(0).(*entity.PsychologistDashboard)
	return dashboard, args.Error(1)
}

type MockPatientMonitorRepository struct {
	mock.Mock
}

func (m *MockPatientMonitorRepository) FindMoodStatus(ctx context.Context, psychologistID string) ([]entity.MonitoredPatient, error) {
	args := m.Called(ctx, psychologistID)
	patients, _ := args.Get(0).([]entity.MonitoredPatient)
	return patients, args.Error(1)
}

func (m *MockPatientMonitorRepository) FindActivities(ctx context.Context, psychologistID string) ([]entity.PatientActivities, error) {
	args := m.Called(ctx, psychologistID)
	patients, _ := args.Get(0).([]entity.PatientActivities)
	return patients, args.Error(1)
}
