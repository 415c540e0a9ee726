package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
	"psico-portal/internal/service"
	"psico-portal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidTransition  = errors.New("transition not allowed from the current step")
	ErrSlotNotListed      = errors.New("slot is not in the available list")
	ErrSubmissionInFlight = errors.New("booking submission already in progress")
	ErrPatientUnresolved  = errors.New("patient could not be resolved")
	ErrWizardNotOpen      = errors.New("wizard has no psychologist selected")
)

// Inline message shown on the confirm step when booking fails
const bookingFailedMessage = "Não foi possível agendar a consulta. Tente novamente."

// WizardStep is the scheduling wizard's position
type WizardStep string

const (
	StepSelect  WizardStep = "select"
	StepConfirm WizardStep = "confirm"
	StepSuccess WizardStep = "success"
)

// WizardState is a consistent read of the wizard
type WizardState struct {
	Step           WizardStep
	PsychologistID string
	PatientID      string
	Slots          []entity.AvailableSlot
	Selected       *entity.AvailableSlot
	RequestID      string
	Error          string
	Loading        bool
	Submitting     bool
}

// SchedulingWizard walks a patient through select -> confirm -> success.
//
// Loads are keyed to the psychologist id; a newer load cancels the previous
// request and its result is dropped by generation comparison.
type SchedulingWizard struct {
	log          *logrus.Logger
	appointments repository.AppointmentRepository
	sessions     repository.SessionRepository
	guard        service.BookingGuard
	metrics      *metrics.Metrics

	mu             sync.Mutex
	step           WizardStep
	psychologistID string
	patientID      string
	slots          []entity.AvailableSlot
	selected       *entity.AvailableSlot
	requestID      string
	errMessage     string
	loading        bool
	submitting     bool
	generation     uint64
	cancel         context.CancelFunc
	onClose        func()
}

func NewSchedulingWizard(
	log *logrus.Logger,
	appointments repository.AppointmentRepository,
	sessions repository.SessionRepository,
	guard service.BookingGuard,
	m *metrics.Metrics,
) *SchedulingWizard {
	return &SchedulingWizard{
		log:          log,
		appointments: appointments,
		sessions:     sessions,
		guard:        guard,
		metrics:      m,
		step:         StepSelect,
	}
}

// OnClose registers the hook notified by Close
func (w *SchedulingWizard) OnClose(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClose = fn
}

// Open starts at the select step and loads the psychologist's open slots.
// When patientID is empty and none is known yet, it is resolved from the
// session profile concurrently with the slot load.
func (w *SchedulingWizard) Open(ctx context.Context, psychologistID, patientID string) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.generation++
	gen := w.generation
	loadCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.step = StepSelect
	w.selected = nil
	w.requestID = ""
	w.errMessage = ""
	w.submitting = false
	w.loading = true
	if psychologistID != w.psychologistID {
		w.slots = nil
	}
	w.psychologistID = psychologistID
	if patientID != "" {
		w.patientID = patientID
	}
	resolvePatient := w.patientID == ""
	w.mu.Unlock()
	defer cancel()

	var (
		slots    []entity.AvailableSlot
		resolved string
	)
	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		var err error
		slots, err = w.appointments.FindAvailableByPsychologist(gctx, psychologistID)
		return err
	})
	if resolvePatient {
		g.Go(func() error {
			profile, err := w.sessions.CurrentProfile(gctx)
			if err != nil {
				return err
			}
			if profile.ID == "" {
				return ErrPatientUnresolved
			}
			resolved = profile.ID
			return nil
		})
	}
	err := g.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		w.metrics.IncStale("scheduling")
		w.log.Debugf("Discarding superseded slot load for psychologist %s", psychologistID)
		return ErrLoadSuperseded
	}
	w.loading = false
	if err != nil {
		w.log.Warnf("Failed to open scheduling for psychologist %s: %+v", psychologistID, err)
		return fmt.Errorf("open scheduling: %w", err)
	}
	w.slots = slots
	if resolved != "" {
		w.patientID = resolved
	}
	return nil
}

// Pick moves select -> confirm and proposes a new booking request id. Confirm
// replaces it with the key the guard hands back.
func (w *SchedulingWizard) Pick(slotID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelect {
		return ErrInvalidTransition
	}
	if w.psychologistID == "" {
		return ErrWizardNotOpen
	}
	for i := range w.slots {
		if w.slots[i].ID == slotID {
			slot := w.slots[i]
			w.selected = &slot
			w.requestID = uuid.NewString()
			w.errMessage = ""
			w.step = StepConfirm
			return nil
		}
	}
	return ErrSlotNotListed
}

// Back moves confirm -> select, clearing selection and error. The list is kept.
func (w *SchedulingWizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepConfirm {
		return ErrInvalidTransition
	}
	if w.submitting {
		return ErrSubmissionInFlight
	}
	w.selected = nil
	w.requestID = ""
	w.errMessage = ""
	w.step = StepSelect
	return nil
}

// Confirm submits the booking for the selected slot. On failure the wizard
// stays on confirm with an inline error; nothing is retried automatically.
func (w *SchedulingWizard) Confirm(ctx context.Context, notes string) error {
	w.mu.Lock()
	if w.step != StepConfirm || w.selected == nil {
		w.mu.Unlock()
		return ErrInvalidTransition
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if w.patientID == "" {
		w.mu.Unlock()
		return ErrPatientUnresolved
	}
	w.submitting = true
	w.errMessage = ""
	gen := w.generation
	slotID := w.selected.ID
	patientID := w.patientID
	candidate := w.requestID
	w.mu.Unlock()

	key, err := w.submit(ctx, slotID, patientID, candidate, notes)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		// closed or reopened while submitting; the newer flow owns the flags
		return err
	}
	w.submitting = false
	if key != "" {
		w.requestID = key
	}
	if err != nil {
		w.errMessage = bookingFailedMessage
		return err
	}
	w.step = StepSuccess
	w.log.Infof("Slot %s booked for patient %s", slotID, patientID)
	return nil
}

// submit returns the idempotency key the guard settled on, which differs from
// candidate when an earlier attempt for the same slot and patient exists
func (w *SchedulingWizard) submit(ctx context.Context, slotID, patientID, candidate, notes string) (string, error) {
	lease, err := w.guard.Acquire(ctx, slotID, patientID, candidate)
	if err != nil {
		if errors.Is(err, service.ErrBookingInFlight) {
			w.metrics.IncBooking("in_flight")
		} else {
			w.metrics.IncBooking("guard_error")
		}
		return lease.Key, err
	}
	defer func() {
		if relErr := w.guard.Release(context.WithoutCancel(ctx), slotID, patientID, lease.Token); relErr != nil {
			w.log.Warnf("Failed to release booking lock for slot %s: %+v", slotID, relErr)
		}
	}()

	req := &entity.BookingRequest{
		AvailableConsultationID: slotID,
		PatientID:               patientID,
		Notes:                   notes,
	}
	if err := w.appointments.Book(ctx, req, lease.Key); err != nil {
		w.metrics.IncBooking("failed")
		w.log.Warnf("Failed to book slot %s for patient %s: %+v", slotID, patientID, err)
		return lease.Key, err
	}
	w.metrics.IncBooking("booked")
	return lease.Key, nil
}

// Close discards the selection and any in-flight load, resets to select and
// notifies the close hook.
func (w *SchedulingWizard) Close() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.generation++
	w.step = StepSelect
	w.selected = nil
	w.requestID = ""
	w.errMessage = ""
	w.loading = false
	w.submitting = false
	w.slots = nil
	w.psychologistID = ""
	hook := w.onClose
	w.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (w *SchedulingWizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := WizardState{
		Step:           w.step,
		PsychologistID: w.psychologistID,
		PatientID:      w.patientID,
		Slots:          append([]entity.AvailableSlot(nil), w.slots...),
		RequestID:      w.requestID,
		Error:          w.errMessage,
		Loading:        w.loading,
		Submitting:     w.submitting,
	}
	if w.selected != nil {
		selected := *w.selected
		state.Selected = &selected
	}
	return state
}
