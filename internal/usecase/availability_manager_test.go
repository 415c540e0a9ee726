package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/repository"
	"psico-portal/internal/testutil/fakeapi"
	"psico-portal/pkg/metrics"
	"psico-portal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

func patient(name string) *entity.PatientSummary {
	return &entity.PatientSummary{ID: "pat-" + name, Name: name}
}

func seededManager(t *testing.T) (*AvailabilityManager, *MockAppointmentRepository) {
	t.Helper()
	repo := new(MockAppointmentRepository)
	repo.On("FindAvailableByPsychologist", mock.Anything, "psi-1").Return([]entity.AvailableSlot{
		{ID: "s2", Date: testNow.Add(48 * time.Hour), Price: money.New(150)},
		{ID: "s1", Date: testNow.Add(2 * time.Hour), Price: money.New(150)},
		{ID: "s0", Date: testNow.Add(-72 * time.Hour), Price: money.New(150)},
	}, nil)
	repo.On("FindBookedByPsychologist", mock.Anything, "psi-1").Return([]entity.BookedAppointment{
		{ID: "b-now", Date: testNow, Patient: patient("Ana")},
		{ID: "b-future", Date: testNow.Add(5 * time.Hour), Patient: patient("Bruno")},
		{ID: "b-past-old", Date: testNow.Add(-30 * 24 * time.Hour), Patient: patient("Caio")},
		{ID: "b-past", Date: testNow.Add(-time.Nanosecond), Patient: patient("Dora")},
		{ID: "b-no-patient", Date: testNow.Add(time.Hour)},
	}, nil)

	mgr := NewAvailabilityManager(quietLogger(), repo, fixedClock(testNow), metrics.NewNop())
	require.NoError(t, mgr.LoadAll(context.Background(), "psi-1"))
	return mgr, repo
}

func itemIDs(items []entity.ScheduleItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID()
	}
	return out
}

func TestAvailabilityManager_ViewsPartitionBookedAppointments(t *testing.T) {
	mgr, _ := seededManager(t)

	upcoming := mgr.Items(entity.ViewUpcoming)
	completed := mgr.Items(entity.ViewCompleted)

	assert.Equal(t, []string{"b-now", "b-future"}, itemIDs(upcoming))
	assert.Equal(t, []string{"b-past", "b-past-old"}, itemIDs(completed))

	seen := map[string]int{}
	for _, item := range append(upcoming, completed...) {
		seen[item.ID()]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %s appears in both views", id)
	}
	assert.Len(t, seen, 4)
	assert.NotContains(t, seen, "b-no-patient")
}

func TestAvailabilityManager_AvailableAscendingAndUnfiltered(t *testing.T) {
	mgr, _ := seededManager(t)

	items := mgr.Items(entity.ViewAvailable)
	assert.Equal(t, []string{"s0", "s1", "s2"}, itemIDs(items))
	for _, item := range items {
		assert.True(t, item.IsAvailable())
	}
	assert.Equal(t, ViewCounts{Available: 3, Upcoming: 2, Completed: 2}, mgr.Counts())
}

func TestAvailabilityManager_LoadTwiceIsStable(t *testing.T) {
	mgr, _ := seededManager(t)
	first := mgr.Snapshot()

	require.NoError(t, mgr.LoadAll(context.Background(), "psi-1"))
	second := mgr.Snapshot()

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Counts, second.Counts)
}

func TestAvailabilityManager_LoadFailureKeepsLists(t *testing.T) {
	mgr, repo := seededManager(t)
	before := mgr.Snapshot()

	repo.ExpectedCalls = nil
	repo.On("FindAvailableByPsychologist", mock.Anything, "psi-1").Return([]entity.AvailableSlot{}, nil)
	repo.On("FindBookedByPsychologist", mock.Anything, "psi-1").Return(nil, errors.New("boom"))

	err := mgr.LoadAll(context.Background(), "psi-1")
	require.Error(t, err)
	assert.Equal(t, before.Items, mgr.Snapshot().Items)
	assert.Equal(t, before.Counts, mgr.Counts())
}

func TestAvailabilityManager_ClassifyItem(t *testing.T) {
	mgr, _ := seededManager(t)

	item, err := mgr.ClassifyItem("s1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemKindAvailable, item.Kind)

	item, err = mgr.ClassifyItem("b-future")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemKindBooked, item.Kind)

	_, err = mgr.ClassifyItem("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestAvailabilityManager_EditSlotRejectsBookedItem(t *testing.T) {
	mgr, repo := seededManager(t)
	notes := "x"

	err := mgr.EditSlot(context.Background(), "b-future", &entity.SlotPatch{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotAvailableSlot)

	err = mgr.EditBookedAppointment(context.Background(), "s1", &entity.AppointmentPatch{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotBookedAppointment)

	err = mgr.EditSlot(context.Background(), "s1", &entity.SlotPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	repo.AssertNotCalled(t, "UpdateSlot", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateBooked", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailabilityManager_ReconcilesOncePerSuccessfulMutation(t *testing.T) {
	mgr, repo := seededManager(t)
	counter := &countingReconciler{inner: mgr}
	mgr.SetReconciler(counter)
	ctx := context.Background()
	notes := "novas observações"

	repo.On("UpdateSlot", mock.Anything, "s1", mock.Anything).Return(nil).Once()
	repo.On("DeleteBooked", mock.Anything, "b-future").Return(nil).Once()
	repo.On("DeleteSlot", mock.Anything, "s2").Return(errors.New("upstream down")).Once()

	require.NoError(t, mgr.EditSlot(ctx, "s1", &entity.SlotPatch{Notes: &notes}))
	require.NoError(t, mgr.DeleteBookedAppointment(ctx, "b-future"))
	require.Error(t, mgr.DeleteSlot(ctx, "s2"))

	assert.Equal(t, []entity.ListKind{entity.ListAvailable, entity.ListBooked}, counter.Calls())
}

func TestAvailabilityManager_ReconcileFailureKeepsPreviousList(t *testing.T) {
	mgr, repo := seededManager(t)
	before := mgr.Items(entity.ViewAvailable)

	repo.On("DeleteSlot", mock.Anything, "s1").Return(nil).Once()
	mgr.SetReconciler(&failingReconciler{})

	require.NoError(t, mgr.DeleteSlot(context.Background(), "s1"))
	assert.Equal(t, before, mgr.Items(entity.ViewAvailable))
}

type failingReconciler struct{}

func (failingReconciler) ReconcileAfterMutation(context.Context, entity.ListKind) error {
	return errors.New("reload failed")
}

func TestAvailabilityManager_DiscardsSupersededLoad(t *testing.T) {
	repo := new(MockAppointmentRepository)
	started := make(chan struct{})
	release := make(chan struct{})

	repo.On("FindAvailableByPsychologist", mock.Anything, "psi-old").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]entity.AvailableSlot{{ID: "old-slot", Date: testNow}}, nil)
	repo.On("FindBookedByPsychologist", mock.Anything, "psi-old").Return([]entity.BookedAppointment{}, nil)
	repo.On("FindAvailableByPsychologist", mock.Anything, "psi-new").Return([]entity.AvailableSlot{{ID: "new-slot", Date: testNow}}, nil)
	repo.On("FindBookedByPsychologist", mock.Anything, "psi-new").Return([]entity.BookedAppointment{}, nil)

	mgr := NewAvailabilityManager(quietLogger(), repo, fixedClock(testNow), metrics.NewNop())

	done := make(chan error, 1)
	go func() { done <- mgr.LoadAll(context.Background(), "psi-old") }()
	<-started

	require.NoError(t, mgr.LoadAll(context.Background(), "psi-new"))
	close(release)

	assert.ErrorIs(t, <-done, ErrLoadSuperseded)
	snap := mgr.Snapshot()
	assert.Equal(t, "psi-new", snap.PsychologistID)
	assert.Equal(t, []string{"new-slot"}, itemIDs(snap.Items))
}

func TestAvailabilityManager_ModalStates(t *testing.T) {
	mgr, repo := seededManager(t)
	ctx := context.Background()

	assert.ErrorIs(t, mgr.SubmitModal(ctx, ModalForm{}), ErrModalClosed)
	assert.ErrorIs(t, mgr.OpenModal(entity.ModalEditAvailable, "b-future"), ErrNotAvailableSlot)
	assert.ErrorIs(t, mgr.OpenModal(entity.ModalEditScheduled, "s1"), ErrNotBookedAppointment)
	assert.ErrorIs(t, mgr.OpenModal("bogus", ""), ErrInvalidModalMode)

	require.NoError(t, mgr.OpenModal(entity.ModalEditScheduled, "b-future"))
	assert.Equal(t, ModalState{Mode: entity.ModalEditScheduled, ItemID: "b-future"}, mgr.Modal())

	price := money.New(999)
	desc := "ignored"
	notes := "remarcada"
	repo.On("UpdateBooked", mock.Anything, "b-future", &entity.AppointmentPatch{Notes: &notes}).Return(nil).Once()

	require.NoError(t, mgr.SubmitModal(ctx, ModalForm{Notes: &notes, Price: &price, Description: &desc}))
	assert.Equal(t, entity.ModalClosed, mgr.Modal().Mode)
	repo.AssertExpectations(t)
}

func TestAvailabilityManager_ModalStaysOpenOnFailure(t *testing.T) {
	mgr, repo := seededManager(t)
	require.NoError(t, mgr.OpenModal(entity.ModalCreate, ""))

	desc := "Sessão"
	price := money.New(100)
	date := testNow.Add(24 * time.Hour)
	repo.On("CreateSlot", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

	assert.ErrorIs(t, mgr.SubmitModal(context.Background(), ModalForm{Description: &desc}), ErrIncompleteSlot)
	require.Error(t, mgr.SubmitModal(context.Background(), ModalForm{Date: &date, Description: &desc, Price: &price}))
	assert.Equal(t, entity.ModalCreate, mgr.Modal().Mode)
}

// Scenario tests against the in-memory practice API

func scenarioManager(t *testing.T, api *fakeapi.Server, now time.Time) *AvailabilityManager {
	t.Helper()
	client := repository.NewAPIClient(api.URL, 2*time.Second, quietLogger(), metrics.NewNop())
	return NewAvailabilityManager(quietLogger(), repository.NewAppointmentRepository(client), fixedClock(now), metrics.NewNop())
}

func TestScenario_CreateThenList(t *testing.T) {
	api := fakeapi.New(t)
	mgr := scenarioManager(t, api, testNow)
	ctx := context.Background()
	require.NoError(t, mgr.LoadAll(ctx, "psi-1"))

	date := testNow.Add(24 * time.Hour)
	require.NoError(t, mgr.CreateSlot(ctx, &entity.NewSlot{
		Date:           date,
		Description:    "Sessão",
		Price:          money.New(150),
		PsychologistID: "psi-1",
	}))

	items := mgr.Items(entity.ViewAvailable)
	require.Len(t, items, 1)
	assert.True(t, items[0].Slot.Date.Equal(date))
	assert.Equal(t, "Sessão", items[0].Slot.Description)
	assert.True(t, items[0].Slot.Price.Equal(money.New(150)))
	assert.Equal(t, 1, api.Calls("GET /consultas/disponiveis/psicologo/{id}")-1, "one reload after create")
}

func TestScenario_EditSlotPreservesIDAndSendsOnlySubmittedFields(t *testing.T) {
	api := fakeapi.New(t)
	slotID := api.AddSlot(entity.AvailableSlot{
		PsychologistID: "psi-1",
		Date:           testNow.Add(24 * time.Hour),
		Description:    "Sessão",
		Price:          money.New(150),
	})
	mgr := scenarioManager(t, api, testNow)
	ctx := context.Background()
	require.NoError(t, mgr.LoadAll(ctx, "psi-1"))

	price := money.New(180)
	require.NoError(t, mgr.EditSlot(ctx, slotID, &entity.SlotPatch{Price: &price}))

	assert.Equal(t, map[string]interface{}{"valor": float64(180)}, api.LastBody("PATCH /consultas/disponiveis/{id}"))
	items := mgr.Items(entity.ViewAvailable)
	require.Len(t, items, 1)
	assert.Equal(t, slotID, items[0].ID())
	assert.Equal(t, "Sessão", items[0].Slot.Description)
	assert.True(t, items[0].Slot.Price.Equal(price))
}

func TestScenario_BookedEditCannotChangePrice(t *testing.T) {
	api := fakeapi.New(t)
	apptID := api.AddAppointment(entity.BookedAppointment{
		PsychologistID: "psi-1",
		PatientID:      "pat-1",
		Patient:        patient("Ana"),
		Date:           testNow.Add(24 * time.Hour),
		Payments:       []entity.Payment{{ID: "pay-x", Amount: money.New(150), Status: entity.PaymentStatusPending}},
	})
	mgr := scenarioManager(t, api, testNow)
	ctx := context.Background()
	require.NoError(t, mgr.LoadAll(ctx, "psi-1"))
	require.NoError(t, mgr.OpenModal(entity.ModalEditScheduled, apptID))

	newDate := testNow.Add(48 * time.Hour)
	price := money.New(1)
	require.NoError(t, mgr.SubmitModal(ctx, ModalForm{Date: &newDate, Price: &price}))

	body := api.LastBody("PATCH /consultas/{id}")
	assert.NotContains(t, body, "valor")
	assert.Contains(t, body, "data")

	stored, ok := api.Appointment(apptID)
	require.True(t, ok)
	assert.True(t, stored.Date.Equal(newDate))
	assert.True(t, stored.Payments[0].Amount.Equal(money.New(150)))

	upcoming := mgr.Items(entity.ViewUpcoming)
	require.Len(t, upcoming, 1)
	assert.True(t, upcoming[0].Appointment.Date.Equal(newDate))
}

func TestScenario_DeleteRemovesFromList(t *testing.T) {
	api := fakeapi.New(t)
	slotID := api.AddSlot(entity.AvailableSlot{PsychologistID: "psi-1", Date: testNow.Add(time.Hour)})
	mgr := scenarioManager(t, api, testNow)
	ctx := context.Background()
	require.NoError(t, mgr.LoadAll(ctx, "psi-1"))

	require.NoError(t, mgr.DeleteSlot(ctx, slotID))
	assert.Empty(t, mgr.Items(entity.ViewAvailable))
	assert.ErrorIs(t, mgr.DeleteSlot(ctx, slotID), ErrItemNotFound)
}

func TestScenario_UpstreamFailureLeavesStateUnchanged(t *testing.T) {
	api := fakeapi.New(t)
	slotID := api.AddSlot(entity.AvailableSlot{PsychologistID: "psi-1", Date: testNow.Add(time.Hour)})
	mgr := scenarioManager(t, api, testNow)
	ctx := context.Background()
	require.NoError(t, mgr.LoadAll(ctx, "psi-1"))
	loads := api.Calls("GET /consultas/disponiveis/psicologo/{id}")

	api.FailNext("DELETE /consultas/disponiveis/{id}", 500)
	err := mgr.DeleteSlot(ctx, slotID)
	require.Error(t, err)
	assert.True(t, repository.IsAPIError(err))

	assert.Equal(t, []string{slotID}, itemIDs(mgr.Items(entity.ViewAvailable)))
	assert.Equal(t, loads, api.Calls("GET /consultas/disponiveis/psicologo/{id}"), "no reload after a failed mutation")
}
