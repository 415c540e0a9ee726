package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
	"psico-portal/pkg/metrics"
	"psico-portal/pkg/money"

	"github.com/jinzhu/now"
	"github.com/sirupsen/logrus"
)

var (
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentAlreadyPaid     = errors.New("payment is already confirmed")
	ErrPaymentConfirmInFlight = errors.New("payment confirmation already in progress")
	ErrInvalidPaymentFilter   = errors.New("invalid filter, use all, pending, received or overdue")
)

const (
	summaryMonths       = 6
	summaryWeeks        = 6
	summaryDays         = 14
	summaryTopPatients  = 5
	weeklyAverageWindow = 30 * 24 * time.Hour
	weeksPerMonth       = 4
)

type PaymentCounts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Received int `json:"received"`
	Overdue  int `json:"overdue"`
}

type PaymentTotals struct {
	Received     money.Money `json:"received"`
	Pending      money.Money `json:"pending"`
	Overdue      money.Money `json:"overdue"`
	MonthRevenue money.Money `json:"monthRevenue"`
}

// PaymentView is one filtered, ordered read of the ledger
type PaymentView struct {
	Filter   entity.PaymentFilter
	Payments []entity.Payment
	Counts   PaymentCounts
	Totals   PaymentTotals
	Total    money.Money
	Now      time.Time
}

type MonthlyRevenue struct {
	Month   string      `json:"month"`
	Revenue money.Money `json:"revenue"`
	Count   int         `json:"count"`
}

type WeeklyRevenue struct {
	WeekStart string      `json:"weekStart"`
	Revenue   money.Money `json:"revenue"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type PatientRevenue struct {
	Name    string      `json:"name"`
	Revenue money.Money `json:"revenue"`
	Count   int         `json:"count"`
}

// FinancialSummary aggregates every listed payment regardless of status
type FinancialSummary struct {
	TotalRevenue      money.Money      `json:"totalRevenue"`
	MonthRevenue      money.Money      `json:"monthRevenue"`
	WeeklyAverage     money.Money      `json:"weeklyAverage"`
	PaymentCount      int              `json:"paymentCount"`
	AverageValue      money.Money      `json:"averageValue"`
	PaymentsThisMonth int              `json:"paymentsThisMonth"`
	Monthly           []MonthlyRevenue `json:"monthly"`
	Weekly            []WeeklyRevenue  `json:"weekly"`
	Daily             []DailyCount     `json:"daily"`
	TopPatients       []PatientRevenue `json:"topPatients"`
}

// PaymentLedger is a psychologist's payment list with filters and receipt confirmation
type PaymentLedger struct {
	log     *logrus.Logger
	repo    repository.PaymentRepository
	clock   Clock
	metrics *metrics.Metrics

	mu             sync.Mutex
	psychologistID string
	payments       []entity.Payment
	loaded         bool
	generation     uint64
	confirming     map[string]struct{}
}

func NewPaymentLedger(log *logrus.Logger, repo repository.PaymentRepository, clock Clock, m *metrics.Metrics) *PaymentLedger {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentLedger{
		log:        log,
		repo:       repo,
		clock:      clock,
		metrics:    m,
		confirming: make(map[string]struct{}),
	}
}

func (l *PaymentLedger) Load(ctx context.Context, psychologistID string) error {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	if psychologistID != l.psychologistID {
		l.psychologistID = psychologistID
		l.payments, l.loaded = nil, false
	}
	l.mu.Unlock()

	payments, err := l.repo.FindByPsychologist(ctx, psychologistID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		l.metrics.IncStale("payments")
		return ErrLoadSuperseded
	}
	if err != nil {
		l.log.Warnf("Failed to load payments for psychologist %s: %+v", psychologistID, err)
		return fmt.Errorf("load payments: %w", err)
	}
	l.payments = payments
	l.loaded = true
	return nil
}

func (l *PaymentLedger) EnsureLoaded(ctx context.Context, psychologistID string) error {
	l.mu.Lock()
	ready := l.loaded && l.psychologistID == psychologistID
	l.mu.Unlock()
	if ready {
		return nil
	}
	return l.Load(ctx, psychologistID)
}

// View filters and orders at read time: overdue first, then most recent
// payment date for received, otherwise earliest due date.
func (l *PaymentLedger) View(filter entity.PaymentFilter) (PaymentView, error) {
	if filter == "" {
		filter = entity.PaymentFilterAll
	}
	if !filter.Valid() {
		return PaymentView{}, ErrInvalidPaymentFilter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	at := l.clock()

	out := make([]entity.Payment, 0, len(l.payments))
	for _, p := range l.payments {
		if matchesFilter(&p, filter, at) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		aOver, bOver := a.IsOverdue(at), b.IsOverdue(at)
		if aOver != bOver {
			return aOver
		}
		if filter == entity.PaymentFilterReceived {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
		} else if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})

	amounts := make([]money.Money, len(out))
	for i := range out {
		amounts[i] = out[i].Amount
	}

	return PaymentView{
		Filter:   filter,
		Payments: out,
		Counts:   l.countsLocked(at),
		Totals:   l.totalsLocked(at),
		Total:    money.Sum(amounts...),
		Now:      at,
	}, nil
}

func matchesFilter(p *entity.Payment, filter entity.PaymentFilter, at time.Time) bool {
	switch filter {
	case entity.PaymentFilterPending:
		return p.IsPending() && !p.IsOverdue(at)
	case entity.PaymentFilterReceived:
		return p.IsPaid()
	case entity.PaymentFilterOverdue:
		return p.IsOverdue(at)
	}
	return true
}

func (l *PaymentLedger) countsLocked(at time.Time) PaymentCounts {
	counts := PaymentCounts{All: len(l.payments)}
	for i := range l.payments {
		p := &l.payments[i]
		switch {
		case p.IsPaid():
			counts.Received++
		case p.IsOverdue(at):
			counts.Overdue++
		case p.IsPending():
			counts.Pending++
		}
	}
	return counts
}

// totalsLocked: pending includes overdue amounts, month revenue counts paid
// payments dated in the current calendar month.
func (l *PaymentLedger) totalsLocked(at time.Time) PaymentTotals {
	totals := PaymentTotals{Received: money.Zero, Pending: money.Zero, Overdue: money.Zero, MonthRevenue: money.Zero}
	monthStart := now.With(at).BeginningOfMonth()
	monthEnd := now.With(at).EndOfMonth()
	for i := range l.payments {
		p := &l.payments[i]
		if p.IsPaid() {
			totals.Received = totals.Received.Add(p.Amount)
			d := p.Date.In(at.Location())
			if !d.Before(monthStart) && !d.After(monthEnd) {
				totals.MonthRevenue = totals.MonthRevenue.Add(p.Amount)
			}
		}
		if p.IsPending() {
			totals.Pending = totals.Pending.Add(p.Amount)
		}
		if p.IsOverdue(at) {
			totals.Overdue = totals.Overdue.Add(p.Amount)
		}
	}
	return totals
}

// Confirm marks a pending payment as paid, then reloads the list.
// Concurrent confirmations of the same payment are rejected.
func (l *PaymentLedger) Confirm(ctx context.Context, paymentID string) error {
	l.mu.Lock()
	var found *entity.Payment
	for i := range l.payments {
		if l.payments[i].ID == paymentID {
			found = &l.payments[i]
			break
		}
	}
	if found == nil {
		l.mu.Unlock()
		return ErrPaymentNotFound
	}
	if found.IsPaid() {
		l.mu.Unlock()
		return ErrPaymentAlreadyPaid
	}
	if _, busy := l.confirming[paymentID]; busy {
		l.mu.Unlock()
		return ErrPaymentConfirmInFlight
	}
	l.confirming[paymentID] = struct{}{}
	psychologistID := l.psychologistID
	l.mu.Unlock()

	err := l.repo.UpdateStatus(ctx, paymentID, &entity.PaymentStatusUpdate{Paid: true})

	l.mu.Lock()
	delete(l.confirming, paymentID)
	l.mu.Unlock()

	if err != nil {
		l.log.Warnf("Failed to confirm payment %s: %+v", paymentID, err)
		return err
	}
	l.log.Infof("Payment %s confirmed", paymentID)

	l.metrics.IncReconcile("payments")
	if err := l.Load(ctx, psychologistID); err != nil && !errors.Is(err, ErrLoadSuperseded) {
		l.log.Warnf("Failed to reload payments after confirming %s: %+v", paymentID, err)
	}
	return nil
}

func (l *PaymentLedger) Summary() FinancialSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return summarize(l.payments, l.clock())
}

func summarize(payments []entity.Payment, at time.Time) FinancialSummary {
	loc := at.Location()
	clock := now.With(at)
	monthStart := clock.BeginningOfMonth()
	monthEnd := clock.EndOfMonth()
	sixMonthsAgo := at.AddDate(0, -summaryMonths, 0)
	sixWeeksAgo := at.AddDate(0, 0, -7*summaryWeeks)
	twoWeeksAgo := at.AddDate(0, 0, -summaryDays)
	thirtyDaysAgo := at.Add(-weeklyAverageWindow)

	summary := FinancialSummary{
		TotalRevenue:  money.Zero,
		MonthRevenue:  money.Zero,
		WeeklyAverage: money.Zero,
		AverageValue:  money.Zero,
		PaymentCount:  len(payments),
	}

	monthly := map[string]*MonthlyRevenue{}
	weekly := map[string]*WeeklyRevenue{}
	daily := map[string]*DailyCount{}
	patients := map[string]*PatientRevenue{}
	recent := money.Zero

	for i := range payments {
		p := &payments[i]
		d := p.Date.In(loc)
		summary.TotalRevenue = summary.TotalRevenue.Add(p.Amount)

		if !d.Before(monthStart) && !d.After(monthEnd) {
			summary.MonthRevenue = summary.MonthRevenue.Add(p.Amount)
			summary.PaymentsThisMonth++
		}
		if !d.Before(thirtyDaysAgo) {
			recent = recent.Add(p.Amount)
		}
		if !d.Before(sixMonthsAgo) {
			key := d.Format("2006-01")
			if monthly[key] == nil {
				monthly[key] = &MonthlyRevenue{Month: key, Revenue: money.Zero}
			}
			monthly[key].Revenue = monthly[key].Revenue.Add(p.Amount)
			monthly[key].Count++
		}
		if !d.Before(sixWeeksAgo) {
			key := now.With(d).BeginningOfWeek().Format("2006-01-02")
			if weekly[key] == nil {
				weekly[key] = &WeeklyRevenue{WeekStart: key, Revenue: money.Zero}
			}
			weekly[key].Revenue = weekly[key].Revenue.Add(p.Amount)
		}
		if !d.Before(twoWeeksAgo) {
			key := d.Format("2006-01-02")
			if daily[key] == nil {
				daily[key] = &DailyCount{Day: key}
			}
			daily[key].Count++
		}

		name := p.PatientName()
		if patients[name] == nil {
			patients[name] = &PatientRevenue{Name: name, Revenue: money.Zero}
		}
		patients[name].Revenue = patients[name].Revenue.Add(p.Amount)
		patients[name].Count++
	}

	summary.WeeklyAverage = recent.DivInt(weeksPerMonth)
	summary.AverageValue = summary.TotalRevenue.DivInt(len(payments))

	summary.Monthly = make([]MonthlyRevenue, 0, len(monthly))
	for _, m := range monthly {
		summary.Monthly = append(summary.Monthly, *m)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool { return summary.Monthly[i].Month < summary.Monthly[j].Month })

	summary.Weekly = make([]WeeklyRevenue, 0, len(weekly))
	for _, w := range weekly {
		summary.Weekly = append(summary.Weekly, *w)
	}
	sort.Slice(summary.Weekly, func(i, j int) bool { return summary.Weekly[i].WeekStart < summary.Weekly[j].WeekStart })

	summary.Daily = make([]DailyCount, 0, len(daily))
	for _, d := range daily {
		summary.Daily = append(summary.Daily, *d)
	}
	sort.Slice(summary.Daily, func(i, j int) bool { return summary.Daily[i].Day < summary.Daily[j].Day })

	summary.TopPatients = make([]PatientRevenue, 0, len(patients))
	for _, p := range patients {
		summary.TopPatients = append(summary.TopPatients, *p)
	}
	sort.Slice(summary.TopPatients, func(i, j int) bool {
		a, b := summary.TopPatients[i], summary.TopPatients[j]
		if c := a.Revenue.Cmp(b.Revenue.Decimal); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})
	if len(summary.TopPatients) > summaryTopPatients {
		summary.TopPatients = summary.TopPatients[:summaryTopPatients]
	}

	return summary
}
