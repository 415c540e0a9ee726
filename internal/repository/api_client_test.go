package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/testutil/fakeapi"
	"psico-portal/pkg/jwt"
	"psico-portal/pkg/metrics"
	"psico-portal/pkg/money"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, api *fakeapi.Server) (*APIClient, *metrics.Metrics) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.NewNop()
	return NewAPIClient(api.URL, 2*time.Second, log, m), m
}

func TestAPIClient_ForwardsBearerToken(t *testing.T) {
	api := fakeapi.New(t)
	token := api.AddUser("psi@example.com", "secret", entity.Profile{ID: "psi-1", Name: "Dra. Ana", Role: entity.RolePsychologist})
	client, _ := newTestClient(t, api)
	sessions := NewSessionRepository(client)

	ctx := jwt.ContextWithToken(context.Background(), token)
	profile, err := sessions.CurrentProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "psi-1", profile.ID)
	assert.True(t, profile.IsPsychologist())
	assert.Equal(t, "Bearer "+token, api.LastHeader("GET /login", "Authorization"))
}

func TestAPIClient_Non2xxBecomesAPIError(t *testing.T) {
	api := fakeapi.New(t)
	client, m := newTestClient(t, api)
	sessions := NewSessionRepository(client)

	_, err := sessions.CurrentProfile(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, IsAPIError(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("/login", http.MethodGet, "401")))
}

func TestSessionRepository_Login(t *testing.T) {
	api := fakeapi.New(t)
	token := api.AddUser("ana@example.com", "secret", entity.Profile{ID: "pat-1", Role: entity.RolePatient})
	client, _ := newTestClient(t, api)
	sessions := NewSessionRepository(client)

	got, err := sessions.Login(context.Background(), &entity.Credentials{Username: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, token, got.AccessToken)

	_, err = sessions.Login(context.Background(), &entity.Credentials{Username: "ana@example.com", Password: "wrong"})
	assert.True(t, IsAPIError(err))
}

func TestAppointmentRepository_SlotLifecycle(t *testing.T) {
	api := fakeapi.New(t)
	client, _ := newTestClient(t, api)
	repo := NewAppointmentRepository(client)
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)

	err := repo.CreateSlot(ctx, &entity.NewSlot{
		Date:           date,
		Description:    "Sessão individual",
		Price:          money.New(150),
		PsychologistID: "psi-1",
	})
	require.NoError(t, err)

	body := api.LastBody("POST /consultas")
	assert.Equal(t, float64(150), body["valor"])
	assert.NotContains(t, body, "observacoes")

	slots, err := repo.FindAvailableByPsychologist(ctx, "psi-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Price.Equal(money.New(150)))
	assert.True(t, slots[0].Date.Equal(date))

	notes := "trazer exames"
	require.NoError(t, repo.UpdateSlot(ctx, slots[0].ID, &entity.SlotPatch{Notes: &notes}))
	patch := api.LastBody("PATCH /consultas/disponiveis/{id}")
	assert.Equal(t, map[string]interface{}{"observacoes": notes}, patch)

	require.NoError(t, repo.DeleteSlot(ctx, slots[0].ID))
	slots, err = repo.FindAvailableByPsychologist(ctx, "psi-1")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAppointmentRepository_BookSendsIdempotencyKey(t *testing.T) {
	api := fakeapi.New(t)
	slotID := api.AddSlot(entity.AvailableSlot{PsychologistID: "psi-1", Date: time.Now().Add(48 * time.Hour), Price: money.New(200)})
	client, _ := newTestClient(t, api)
	repo := NewAppointmentRepository(client)

	req := &entity.BookingRequest{AvailableConsultationID: slotID, PatientID: "pat-1"}
	require.NoError(t, repo.Book(context.Background(), req, "key-123"))
	assert.Equal(t, "key-123", api.LastHeader("POST /consultas/agendar", IdempotencyKeyHeader))

	// a replay with the same key is answered without a second booking
	require.NoError(t, repo.Book(context.Background(), req, "key-123"))
	assert.Equal(t, 1, api.AppointmentCount())

	booked, err := repo.FindBookedByPatient(context.Background(), "pat-1")
	require.NoError(t, err)
	require.Len(t, booked, 1)
	require.Len(t, booked[0].Payments, 1)
	assert.Equal(t, entity.PaymentStatusPending, booked[0].Payments[0].Status)
}

func TestPaymentRepository_UpdateStatus(t *testing.T) {
	api := fakeapi.New(t)
	id := api.AddPayment(entity.Payment{
		Amount:      money.New(120),
		Status:      entity.PaymentStatusPending,
		Appointment: &entity.PaymentAppointment{ID: "appt-1", PsychologistID: "psi-1"},
	})
	client, _ := newTestClient(t, api)
	repo := NewPaymentRepository(client)

	require.NoError(t, repo.UpdateStatus(context.Background(), id, &entity.PaymentStatusUpdate{Paid: true}))
	assert.Equal(t, map[string]interface{}{"paid": true}, api.LastBody("PATCH /financeiro/status/{id}"))

	payments, err := repo.FindByPsychologist(context.Background(), "psi-1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].IsPaid())
}

func TestMoodRepository_CreateReturnsEntry(t *testing.T) {
	api := fakeapi.New(t)
	client, _ := newTestClient(t, api)
	repo := NewMoodRepository(client)

	created, err := repo.Create(context.Background(), &entity.MoodEntry{
		Date:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Scale:     4,
		PatientID: "pat-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	created.Scale = 2
	require.NoError(t, repo.Update(context.Background(), created))
	assert.Equal(t, map[string]interface{}{"escala": float64(2), "observacoes": ""}, api.LastBody("PATCH /humor/{id}"))
}
