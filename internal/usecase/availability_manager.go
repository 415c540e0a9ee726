package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"psico-portal/internal/converter"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
	"psico-portal/pkg/metrics"
	"psico-portal/pkg/money"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrItemNotFound         = errors.New("schedule item not found")
	ErrNotAvailableSlot     = errors.New("item is not an available slot")
	ErrNotBookedAppointment = errors.New("item is not a booked appointment")
	ErrEmptyPatch           = errors.New("no fields to update")
	ErrInvalidView          = errors.New("invalid view, use available, upcoming or completed")
	ErrInvalidModalMode     = errors.New("invalid modal mode")
	ErrModalClosed          = errors.New("modal is closed")
	ErrIncompleteSlot       = errors.New("date, description and price are required")
	ErrLoadSuperseded       = errors.New("load superseded by a newer one")
	ErrNotLoaded            = errors.New("schedule not loaded")
)

// Clock returns the current instant; tests inject a fixed one
type Clock func() time.Time

// Reconciler reloads a list after a successful mutation
type Reconciler interface {
	ReconcileAfterMutation(ctx context.Context, list entity.ListKind) error
}

// ViewCounts are the item counts of the three views
type ViewCounts struct {
	Available int `json:"available"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

// ModalState is the manager's modal sub-state. ItemID is empty for create.
type ModalState struct {
	Mode   entity.ModalMode `json:"mode"`
	ItemID string           `json:"itemId,omitempty"`
}

// ModalForm carries the fields a modal submission may set
type ModalForm struct {
	Date        *time.Time
	Description *string
	Notes       *string
	Price       *money.Money
}

// AvailabilitySnapshot is a consistent read of the manager's state
type AvailabilitySnapshot struct {
	PsychologistID string
	View           entity.AvailabilityView
	Items          []entity.ScheduleItem
	Counts         ViewCounts
	Modal          ModalState
	Now            time.Time
}

// AvailabilityManager is a psychologist's view over their open slots and
// booked appointments.
//
// Network calls are made without holding mu; their results are applied only
// when the generation captured at call time is still current.
type AvailabilityManager struct {
	log        *logrus.Logger
	repo       repository.AppointmentRepository
	clock      Clock
	metrics    *metrics.Metrics
	reconciler Reconciler

	mu             sync.Mutex
	psychologistID string
	view           entity.AvailabilityView
	slots          []entity.ScheduleItem
	booked         []entity.ScheduleItem
	modal          ModalState
	loaded         bool
	generation     uint64
	cancel         context.CancelFunc
}

func NewAvailabilityManager(
	log *logrus.Logger,
	repo repository.AppointmentRepository,
	clock Clock,
	m *metrics.Metrics,
) *AvailabilityManager {
	if clock == nil {
		clock = time.Now
	}
	mgr := &AvailabilityManager{
		log:     log,
		repo:    repo,
		clock:   clock,
		metrics: m,
		view:    entity.ViewAvailable,
		modal:   ModalState{Mode: entity.ModalClosed},
	}
	mgr.reconciler = mgr
	return mgr
}

// SetReconciler replaces the post-mutation reload step
func (m *AvailabilityManager) SetReconciler(r Reconciler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciler = r
}

// LoadAll fetches both lists concurrently and replaces them together.
// A failure in either fetch leaves the previous lists untouched.
func (m *AvailabilityManager) LoadAll(ctx context.Context, psychologistID string) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.generation++
	gen := m.generation
	loadCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	if psychologistID != m.psychologistID {
		m.psychologistID = psychologistID
		m.slots, m.booked, m.loaded = nil, nil, false
		m.modal = ModalState{Mode: entity.ModalClosed}
	}
	m.mu.Unlock()
	defer cancel()

	var (
		slots  []entity.AvailableSlot
		booked []entity.BookedAppointment
	)
	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		var err error
		slots, err = m.repo.FindAvailableByPsychologist(gctx, psychologistID)
		return err
	})
	g.Go(func() error {
		var err error
		booked, err = m.repo.FindBookedByPsychologist(gctx, psychologistID)
		return err
	})
	err := g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		m.metrics.IncStale("availability")
		m.log.Debugf("Discarding superseded schedule load for psychologist %s", psychologistID)
		return ErrLoadSuperseded
	}
	if err != nil {
		m.log.Warnf("Failed to load schedule for psychologist %s: %+v", psychologistID, err)
		return fmt.Errorf("load schedule: %w", err)
	}

	m.slots = converter.AvailableSlotsToItems(slots)
	m.booked = converter.BookedAppointmentsToItems(booked)
	m.loaded = true
	m.log.Debugf("Loaded schedule for psychologist %s: available=%d, booked=%d", psychologistID, len(slots), len(booked))
	return nil
}

// EnsureLoaded loads only when nothing is loaded yet for psychologistID
func (m *AvailabilityManager) EnsureLoaded(ctx context.Context, psychologistID string) error {
	m.mu.Lock()
	ready := m.loaded && m.psychologistID == psychologistID
	m.mu.Unlock()
	if ready {
		return nil
	}
	return m.LoadAll(ctx, psychologistID)
}

// ReconcileAfterMutation refetches one list for the current psychologist
func (m *AvailabilityManager) ReconcileAfterMutation(ctx context.Context, list entity.ListKind) error {
	m.mu.Lock()
	gen := m.generation
	psychologistID := m.psychologistID
	m.mu.Unlock()

	var items []entity.ScheduleItem
	switch list {
	case entity.ListAvailable:
		slots, err := m.repo.FindAvailableByPsychologist(ctx, psychologistID)
		if err != nil {
			return err
		}
		items = converter.AvailableSlotsToItems(slots)
	case entity.ListBooked:
		booked, err := m.repo.FindBookedByPsychologist(ctx, psychologistID)
		if err != nil {
			return err
		}
		items = converter.BookedAppointmentsToItems(booked)
	default:
		return fmt.Errorf("unknown list %q", list)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		m.metrics.IncStale("availability")
		return nil
	}
	if list == entity.ListAvailable {
		m.slots = items
	} else {
		m.booked = items
	}
	return nil
}

// reconcile runs the reload step exactly once. A failed reload is logged and
// leaves the previous list in place; the mutation itself already succeeded.
func (m *AvailabilityManager) reconcile(ctx context.Context, list entity.ListKind) {
	m.mu.Lock()
	r := m.reconciler
	m.mu.Unlock()

	m.metrics.IncReconcile(string(list))
	if err := r.ReconcileAfterMutation(ctx, list); err != nil {
		m.log.Warnf("Failed to reload %s list after mutation: %+v", list, err)
	}
}

func (m *AvailabilityManager) CreateSlot(ctx context.Context, slot *entity.NewSlot) error {
	if err := m.repo.CreateSlot(ctx, slot); err != nil {
		m.log.Warnf("Failed to create slot: %+v", err)
		return err
	}
	m.reconcile(ctx, entity.ListAvailable)
	return nil
}

// EditSlot patches an available slot with only the submitted fields
func (m *AvailabilityManager) EditSlot(ctx context.Context, id string, patch *entity.SlotPatch) error {
	if err := m.requireKind(id, entity.ItemKindAvailable); err != nil {
		return err
	}
	if patch == nil || patch.IsEmpty() {
		return ErrEmptyPatch
	}
	if err := m.repo.UpdateSlot(ctx, id, patch); err != nil {
		m.log.Warnf("Failed to update slot %s: %+v", id, err)
		return err
	}
	m.reconcile(ctx, entity.ListAvailable)
	return nil
}

// EditBookedAppointment can only ever change date and notes
func (m *AvailabilityManager) EditBookedAppointment(ctx context.Context, id string, patch *entity.AppointmentPatch) error {
	if err := m.requireKind(id, entity.ItemKindBooked); err != nil {
		return err
	}
	if patch == nil || patch.IsEmpty() {
		return ErrEmptyPatch
	}
	if err := m.repo.UpdateBooked(ctx, id, patch); err != nil {
		m.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return err
	}
	m.reconcile(ctx, entity.ListBooked)
	return nil
}

func (m *AvailabilityManager) DeleteSlot(ctx context.Context, id string) error {
	if err := m.requireKind(id, entity.ItemKindAvailable); err != nil {
		return err
	}
	if err := m.repo.DeleteSlot(ctx, id); err != nil {
		m.log.Warnf("Failed to delete slot %s: %+v", id, err)
		return err
	}
	m.reconcile(ctx, entity.ListAvailable)
	return nil
}

func (m *AvailabilityManager) DeleteBookedAppointment(ctx context.Context, id string) error {
	if err := m.requireKind(id, entity.ItemKindBooked); err != nil {
		return err
	}
	if err := m.repo.DeleteBooked(ctx, id); err != nil {
		m.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	m.reconcile(ctx, entity.ListBooked)
	return nil
}

// ClassifyItem returns the tagged item with the given id
func (m *AvailabilityManager) ClassifyItem(id string) (entity.ScheduleItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classifyLocked(id)
}

func (m *AvailabilityManager) classifyLocked(id string) (entity.ScheduleItem, error) {
	if !m.loaded {
		return entity.ScheduleItem{}, ErrNotLoaded
	}
	for _, item := range m.slots {
		if item.ID() == id {
			return item, nil
		}
	}
	for _, item := range m.booked {
		if item.ID() == id {
			return item, nil
		}
	}
	return entity.ScheduleItem{}, ErrItemNotFound
}

func (m *AvailabilityManager) requireKind(id string, kind entity.ItemKind) error {
	item, err := m.ClassifyItem(id)
	if err != nil {
		return err
	}
	if item.Kind != kind {
		if kind == entity.ItemKindAvailable {
			return ErrNotAvailableSlot
		}
		return ErrNotBookedAppointment
	}
	return nil
}

func (m *AvailabilityManager) SetView(view entity.AvailabilityView) error {
	if !view.Valid() {
		return ErrInvalidView
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = view
	return nil
}

// Items derives one view at read time:
// available ascending; upcoming (with patient, date >= now) ascending;
// completed (with patient, date < now) descending.
func (m *AvailabilityManager) Items(view entity.AvailabilityView) []entity.ScheduleItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsLocked(view, m.clock())
}

func (m *AvailabilityManager) itemsLocked(view entity.AvailabilityView, now time.Time) []entity.ScheduleItem {
	var out []entity.ScheduleItem
	switch view {
	case entity.ViewAvailable:
		out = append(out, m.slots...)
		entity.SortByDate(out, false)
	case entity.ViewUpcoming, entity.ViewCompleted:
		upcoming := view == entity.ViewUpcoming
		for _, item := range m.booked {
			if !item.IsBooked() || !item.Appointment.HasPatient() {
				continue
			}
			if item.Appointment.IsUpcoming(now) == upcoming {
				out = append(out, item)
			}
		}
		entity.SortByDate(out, !upcoming)
	}
	if out == nil {
		out = []entity.ScheduleItem{}
	}
	return out
}

func (m *AvailabilityManager) Counts() ViewCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countsLocked(m.clock())
}

func (m *AvailabilityManager) countsLocked(now time.Time) ViewCounts {
	return ViewCounts{
		Available: len(m.itemsLocked(entity.ViewAvailable, now)),
		Upcoming:  len(m.itemsLocked(entity.ViewUpcoming, now)),
		Completed: len(m.itemsLocked(entity.ViewCompleted, now)),
	}
}

func (m *AvailabilityManager) Snapshot() AvailabilitySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	return AvailabilitySnapshot{
		PsychologistID: m.psychologistID,
		View:           m.view,
		Items:          m.itemsLocked(m.view, now),
		Counts:         m.countsLocked(now),
		Modal:          m.modal,
		Now:            now,
	}
}

// OpenModal enters create, edit-available or edit-scheduled. The edit modes
// require an item of the matching kind.
func (m *AvailabilityManager) OpenModal(mode entity.ModalMode, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch mode {
	case entity.ModalCreate:
		m.modal = ModalState{Mode: mode}
		return nil
	case entity.ModalEditAvailable, entity.ModalEditScheduled:
		item, err := m.classifyLocked(id)
		if err != nil {
			return err
		}
		if mode == entity.ModalEditAvailable && !item.IsAvailable() {
			return ErrNotAvailableSlot
		}
		if mode == entity.ModalEditScheduled && !item.IsBooked() {
			return ErrNotBookedAppointment
		}
		m.modal = ModalState{Mode: mode, ItemID: id}
		return nil
	}
	return ErrInvalidModalMode
}

func (m *AvailabilityManager) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modal = ModalState{Mode: entity.ModalClosed}
}

func (m *AvailabilityManager) Modal() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modal
}

// SubmitModal dispatches on the open mode and closes the modal on success.
// In edit-scheduled mode price and description are dropped.
func (m *AvailabilityManager) SubmitModal(ctx context.Context, form ModalForm) error {
	m.mu.Lock()
	modal := m.modal
	psychologistID := m.psychologistID
	m.mu.Unlock()

	var err error
	switch modal.Mode {
	case entity.ModalCreate:
		if form.Date == nil || form.Description == nil || form.Price == nil {
			return ErrIncompleteSlot
		}
		slot := &entity.NewSlot{
			Date:           *form.Date,
			Description:    *form.Description,
			Price:          *form.Price,
			PsychologistID: psychologistID,
		}
		if form.Notes != nil {
			slot.Notes = *form.Notes
		}
		err = m.CreateSlot(ctx, slot)
	case entity.ModalEditAvailable:
		err = m.EditSlot(ctx, modal.ItemID, &entity.SlotPatch{
			Date:        form.Date,
			Description: form.Description,
			Notes:       form.Notes,
			Price:       form.Price,
		})
	case entity.ModalEditScheduled:
		err = m.EditBookedAppointment(ctx, modal.ItemID, &entity.AppointmentPatch{
			Date:  form.Date,
			Notes: form.Notes,
		})
	default:
		return ErrModalClosed
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.modal == modal {
		m.modal = ModalState{Mode: entity.ModalClosed}
	}
	m.mu.Unlock()
	return nil
}

// Close cancels any in-flight load
func (m *AvailabilityManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.generation++
}
