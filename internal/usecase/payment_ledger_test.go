package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
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

func payment(id string, status entity.PaymentStatus, amount float64, date, due time.Time, patientName string) entity.Payment {
	p := entity.Payment{
		ID:      id,
		Amount:  money.New(amount),
		Date:    date,
		DueDate: due,
		Status:  status,
	}
	if patientName != "" {
		p.Appointment = &entity.PaymentAppointment{ID: "appt-" + id, Patient: &entity.PatientSummary{Name: patientName}}
	}
	return p
}

func ledgerPayments() []entity.Payment {
	day := 24 * time.Hour
	return []entity.Payment{
		payment("paid-old", entity.PaymentStatusPaid, 100, testNow.AddDate(0, -2, 0), testNow.AddDate(0, -2, 0), "Ana"),
		payment("paid-recent", entity.PaymentStatusPaid, 200, testNow.Add(-2*day), testNow.Add(-2*day), "Bruno"),
		payment("due-soon", entity.PaymentStatusPending, 150, testNow.Add(-day), testNow.Add(3*day), "Ana"),
		payment("due-later", entity.PaymentStatusPending, 150, testNow.Add(-day), testNow.Add(10*day), "Caio"),
		payment("overdue-old", entity.PaymentStatusPending, 80, testNow.Add(-20*day), testNow.Add(-15*day), ""),
		payment("overdue-new", entity.PaymentStatusPending, 90, testNow.Add(-5*day), testNow.Add(-time.Minute), "Dora"),
	}
}

func seededLedger(t *testing.T) (*PaymentLedger, *MockPaymentRepository) {
	t.Helper()
	repo := new(MockPaymentRepository)
	repo.On("FindByPsychologist", mock.Anything, "psi-1").Return(ledgerPayments(), nil)
	ledger := NewPaymentLedger(quietLogger(), repo, fixedClock(testNow), metrics.NewNop())
	require.NoError(t, ledger.Load(context.Background(), "psi-1"))
	return ledger, repo
}

func paymentIDs(payments []entity.Payment) []string {
	out := make([]string, len(payments))
	for i := range payments {
		out[i] = payments[i].ID
	}
	return out
}

func TestPaymentLedger_Filters(t *testing.T) {
	ledger, _ := seededLedger(t)

	tests := []struct {
		name   string
		filter entity.PaymentFilter
		want   []string
	}{
		{"all puts overdue first then earliest due", entity.PaymentFilterAll,
			[]string{"overdue-old", "overdue-new", "paid-old", "paid-recent", "due-soon", "due-later"}},
		{"empty filter means all", "",
			[]string{"overdue-old", "overdue-new", "paid-old", "paid-recent", "due-soon", "due-later"}},
		{"pending excludes overdue", entity.PaymentFilterPending, []string{"due-soon", "due-later"}},
		{"received newest payment first", entity.PaymentFilterReceived, []string{"paid-recent", "paid-old"}},
		{"overdue", entity.PaymentFilterOverdue, []string{"overdue-old", "overdue-new"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := ledger.View(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paymentIDs(view.Payments))
		})
	}

	_, err := ledger.View("late")
	assert.ErrorIs(t, err, ErrInvalidPaymentFilter)
}

func TestPaymentLedger_CountsAndTotals(t *testing.T) {
	ledger, _ := seededLedger(t)

	view, err := ledger.View(entity.PaymentFilterAll)
	require.NoError(t, err)

	assert.Equal(t, PaymentCounts{All: 6, Pending: 2, Received: 2, Overdue: 2}, view.Counts)
	assert.True(t, view.Totals.Received.Equal(money.New(300)))
	assert.True(t, view.Totals.Pending.Equal(money.New(470)), "pending includes overdue amounts")
	assert.True(t, view.Totals.Overdue.Equal(money.New(170)))
	assert.True(t, view.Totals.MonthRevenue.Equal(money.New(200)))
	assert.True(t, view.Total.Equal(money.New(770)))
}

func TestPaymentLedger_OverdueBoundary(t *testing.T) {
	repo := new(MockPaymentRepository)
	repo.On("FindByPsychologist", mock.Anything, "psi-1").Return([]entity.Payment{
		payment("due-now", entity.PaymentStatusPending, 10, testNow, testNow, ""),
		payment("due-before", entity.PaymentStatusPending, 10, testNow, testNow.Add(-time.Nanosecond), ""),
	}, nil)
	ledger := NewPaymentLedger(quietLogger(), repo, fixedClock(testNow), metrics.NewNop())
	require.NoError(t, ledger.Load(context.Background(), "psi-1"))

	pending, err := ledger.View(entity.PaymentFilterPending)
	require.NoError(t, err)
	assert.Equal(t, []string{"due-now"}, paymentIDs(pending.Payments))

	overdue, err := ledger.View(entity.PaymentFilterOverdue)
	require.NoError(t, err)
	assert.Equal(t, []string{"due-before"}, paymentIDs(overdue.Payments))
}

func TestPaymentLedger_LoadFailureKeepsList(t *testing.T) {
	ledger, repo := seededLedger(t)
	repo.ExpectedCalls = nil
	repo.On("FindByPsychologist", mock.Anything, "psi-1").Return(nil, errors.New("down"))

	require.Error(t, ledger.Load(context.Background(), "psi-1"))
	view, err := ledger.View(entity.PaymentFilterAll)
	require.NoError(t, err)
	assert.Len(t, view.Payments, 6)
}

func TestPaymentLedger_Confirm(t *testing.T) {
	t.Run("rejects unknown and already paid", func(t *testing.T) {
		ledger, repo := seededLedger(t)
		assert.ErrorIs(t, ledger.Confirm(context.Background(), "nope"), ErrPaymentNotFound)
		assert.ErrorIs(t, ledger.Confirm(context.Background(), "paid-old"), ErrPaymentAlreadyPaid)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("marks paid and reloads", func(t *testing.T) {
		ledger, repo := seededLedger(t)
		repo.On("UpdateStatus", mock.Anything, "due-soon", &entity.PaymentStatusUpdate{Paid: true}).Return(nil).Once()

		require.NoError(t, ledger.Confirm(context.Background(), "due-soon"))
		repo.AssertNumberOfCalls(t, "FindByPsychologist", 2)
	})

	t.Run("upstream failure skips reload", func(t *testing.T) {
		ledger, repo := seededLedger(t)
		repo.On("UpdateStatus", mock.Anything, "due-soon", mock.Anything).Return(errors.New("boom")).Once()

		require.Error(t, ledger.Confirm(context.Background(), "due-soon"))
		repo.AssertNumberOfCalls(t, "FindByPsychologist", 1)
	})
}

func TestPaymentLedger_ConcurrentConfirmRejected(t *testing.T) {
	ledger, repo := seededLedger(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	repo.On("UpdateStatus", mock.Anything, "due-soon", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()

	var wg sync.WaitGroup
	var first error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = ledger.Confirm(context.Background(), "due-soon")
	}()
	<-entered

	assert.ErrorIs(t, ledger.Confirm(context.Background(), "due-soon"), ErrPaymentConfirmInFlight)
	close(release)
	wg.Wait()
	assert.NoError(t, first)
	repo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestPaymentLedger_Summary(t *testing.T) {
	ledger, _ := seededLedger(t)
	summary := ledger.Summary()

	assert.Equal(t, 6, summary.PaymentCount)
	assert.True(t, summary.TotalRevenue.Equal(money.New(770)))
	// dated in June 2025: paid-recent, due-soon, due-later, overdue-new
	assert.True(t, summary.MonthRevenue.Equal(money.New(590)))
	assert.Equal(t, 4, summary.PaymentsThisMonth)
	// last 30 days: 200+150+150+80+90
	assert.True(t, summary.WeeklyAverage.Equal(money.New(167.5)))
	assert.True(t, summary.AverageValue.Equal(money.New(770).DivInt(6)))

	require.Len(t, summary.Monthly, 3)
	assert.Equal(t, "2025-04", summary.Monthly[0].Month)
	assert.Equal(t, 1, summary.Monthly[0].Count)
	assert.Equal(t, "2025-05", summary.Monthly[1].Month)
	assert.Equal(t, "2025-06", summary.Monthly[2].Month)
	assert.Equal(t, 4, summary.Monthly[2].Count)
	assert.True(t, summary.Monthly[2].Revenue.Equal(money.New(590)))

	require.NotEmpty(t, summary.TopPatients)
	assert.Equal(t, "Ana", summary.TopPatients[0].Name)
	assert.True(t, summary.TopPatients[0].Revenue.Equal(money.New(250)))
	require.Len(t, summary.TopPatients, 5)
	assert.Equal(t, entity.UnknownPatientName, summary.TopPatients[4].Name)

	for i := 1; i < len(summary.Weekly); i++ {
		assert.Less(t, summary.Weekly[i-1].WeekStart, summary.Weekly[i].WeekStart)
	}
	for i := 1; i < len(summary.Daily); i++ {
		assert.Less(t, summary.Daily[i-1].Day, summary.Daily[i].Day)
	}
}

func TestPaymentLedger_EmptySummary(t *testing.T) {
	ledger := NewPaymentLedger(quietLogger(), new(MockPaymentRepository), fixedClock(testNow), metrics.NewNop())
	summary := ledger.Summary()

	assert.Equal(t, 0, summary.PaymentCount)
	assert.True(t, summary.AverageValue.Equal(money.Zero))
	assert.Empty(t, summary.TopPatients)
}

func TestScenario_ConfirmPayment(t *testing.T) {
	api := fakeapi.New(t)
	id := api.AddPayment(entity.Payment{
		Amount:      money.New(150),
		Date:        testNow.Add(-time.Hour),
		DueDate:     testNow.Add(24 * time.Hour),
		Status:      entity.PaymentStatusPending,
		Appointment: &entity.PaymentAppointment{ID: "appt-1", PsychologistID: "psi-1"},
	})

	client := repository.NewAPIClient(api.URL, 2*time.Second, quietLogger(), metrics.NewNop())
	ledger := NewPaymentLedger(quietLogger(), repository.NewPaymentRepository(client), fixedClock(testNow), metrics.NewNop())
	require.NoError(t, ledger.Load(context.Background(), "psi-1"))

	api.FailNext("PATCH /financeiro/status/{id}", http.StatusInternalServerError)
	require.Error(t, ledger.Confirm(context.Background(), id))
	view, err := ledger.View(entity.PaymentFilterPending)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, paymentIDs(view.Payments))

	require.NoError(t, ledger.Confirm(context.Background(), id))
	assert.Equal(t, true, api.LastBody("PATCH /financeiro/status/{id}")["paid"])

	view, err = ledger.View(entity.PaymentFilterReceived)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, paymentIDs(view.Payments))
	stored, ok := api.Payment(id)
	require.True(t, ok)
	assert.True(t, stored.IsPaid())
}
