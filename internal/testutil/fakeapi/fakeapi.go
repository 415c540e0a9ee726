// Package fakeapi is an in-memory stand-in for the practice API used by tests.
package fakeapi

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/pkg/money"

	"github.com/goccy/go-json"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

var signingKey = []byte("fakeapi-secret")

// issueToken signs an access token the way the practice API does: HS256,
// subject set to the user id, one hour expiry.
func issueToken(id, username string) string {
	claims := jwtlib.MapClaims{
		"sub":      id,
		"id":       id,
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return token
}

type user struct {
	username string
	password string
	token    string
	profile  entity.Profile
}

type failure struct {
	status int
	body   string
}

// Server serves the practice API routes from memory
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	seq          int
	users        map[string]*user // by token
	slots        map[string]entity.AvailableSlot
	appointments map[string]entity.BookedAppointment
	payments     map[string]entity.Payment
	moods        map[string]entity.MoodEntry
	activities   map[string]entity.Activity
	idempotency  map[string]string // key -> appointment id

	patientDashboards      map[string]entity.PatientDashboard
	psychologistDashboards map[string]entity.PsychologistDashboard
	moodStatus             map[string][]entity.MonitoredPatient  // by psychologist
	activityFeeds          map[string][]entity.PatientActivities // by psychologist

	calls    map[string]int
	bodies   map[string][]byte
	headers  map[string]http.Header
	failures map[string][]failure
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:        make(map[string]*user),
		slots:        make(map[string]entity.AvailableSlot),
		appointments: make(map[string]entity.BookedAppointment),
		payments:     make(map[string]entity.Payment),
		moods:        make(map[string]entity.MoodEntry),
		activities:   make(map[string]entity.Activity),
		idempotency:  make(map[string]string),

		patientDashboards:      make(map[string]entity.PatientDashboard),
		psychologistDashboards: make(map[string]entity.PsychologistDashboard),
		moodStatus:             make(map[string][]entity.MonitoredPatient),
		activityFeeds:          make(map[string][]entity.PatientActivities),

		calls:    make(map[string]int),
		bodies:   make(map[string][]byte),
		headers:  make(map[string]http.Header),
		failures: make(map[string][]failure),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/login", s.me).Methods(http.MethodGet)
	r.HandleFunc("/pacientes", s.register(entity.RolePatient)).Methods(http.MethodPost)
	r.HandleFunc("/psicologos", s.register(entity.RolePsychologist)).Methods(http.MethodPost)

	r.HandleFunc("/consultas/psicologo/{id}", s.bookedByPsychologist).Methods(http.MethodGet)
	r.HandleFunc("/consultas/paciente/{id}", s.bookedByPatient).Methods(http.MethodGet)
	r.HandleFunc("/consultas/disponiveis/psicologo/{id}", s.availableByPsychologist).Methods(http.MethodGet)
	r.HandleFunc("/consultas/agendar", s.book).Methods(http.MethodPost)
	r.HandleFunc("/consultas", s.createSlot).Methods(http.MethodPost)
	r.HandleFunc("/consultas/disponiveis/{id}", s.patchSlot).Methods(http.MethodPatch)
	r.HandleFunc("/consultas/disponiveis/{id}", s.deleteSlot).Methods(http.MethodDelete)
	r.HandleFunc("/consultas/{id}", s.patchAppointment).Methods(http.MethodPatch)
	r.HandleFunc("/consultas/{id}", s.deleteAppointment).Methods(http.MethodDelete)

	r.HandleFunc("/financeiro/psicologo/{id}", s.paymentsByPsychologist).Methods(http.MethodGet)
	r.HandleFunc("/financeiro/status/{id}", s.patchPaymentStatus).Methods(http.MethodPatch)

	r.HandleFunc("/humor/paciente/{id}", s.moodsByPatient).Methods(http.MethodGet)
	r.HandleFunc("/humor", s.createMood).Methods(http.MethodPost)
	r.HandleFunc("/humor/{id}", s.patchMood).Methods(http.MethodPatch)
	r.HandleFunc("/humor/{id}", s.deleteMood).Methods(http.MethodDelete)

	r.HandleFunc("/atividades/paciente/{id}", s.activitiesByPatient).Methods(http.MethodGet)
	r.HandleFunc("/atividades", s.createActivity).Methods(http.MethodPost)
	r.HandleFunc("/atividades/{id}", s.patchActivity).Methods(http.MethodPatch)
	r.HandleFunc("/atividades/{id}", s.deleteActivity).Methods(http.MethodDelete)

	r.HandleFunc("/dashboard/paciente/{id}", s.patientDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/psicologo/{id}", s.psychologistDashboard).Methods(http.MethodGet)
	r.HandleFunc("/humor/psicologo/{id}", s.moodStatusByPsychologist).Methods(http.MethodGet)
	r.HandleFunc("/atividades/psicologo/{id}", s.activitiesByPsychologist).Methods(http.MethodGet)
	return r
}

// record counts calls per route template, keeps the last body and headers,
// and serves queued failures.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = r.Method + " " + tmpl
			}
		}
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.calls[route]++
		s.bodies[route] = body
		s.headers[route] = r.Header.Clone()
		var fail *failure
		if queued := s.failures[route]; len(queued) > 0 {
			fail = &queued[0]
			s.failures[route] = queued[1:]
		}
		s.mu.Unlock()

		if fail != nil {
			http.Error(w, fail.body, fail.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailNext makes the next call to route ("METHOD /template") answer status
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, body: http.StatusText(status)})
}

// Calls returns how many times route ("METHOD /template") was hit
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastBody decodes the last request body sent to route into a generic map
func (s *Server) LastBody(route string) map[string]interface{} {
	s.mu.Lock()
	raw := s.bodies[route]
	s.mu.Unlock()
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	return out
}

func (s *Server) LastHeader(route, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[route].Get(name)
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// AddUser registers a login and returns the bearer token for it
func (s *Server) AddUser(username, password string, profile entity.Profile) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.ID == "" {
		profile.ID = s.nextID("user")
	}
	token := issueToken(profile.ID, username)
	s.users[token] = &user{username: username, password: password, token: token, profile: profile}
	return token
}

func (s *Server) AddSlot(slot entity.AvailableSlot) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == "" {
		slot.ID = s.nextID("slot")
	}
	s.slots[slot.ID] = slot
	return slot.ID
}

func (s *Server) AddAppointment(appointment entity.BookedAppointment) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appointment.ID == "" {
		appointment.ID = s.nextID("appt")
	}
	s.appointments[appointment.ID] = appointment
	return appointment.ID
}

func (s *Server) AddPayment(payment entity.Payment) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment.ID == "" {
		payment.ID = s.nextID("pay")
	}
	s.payments[payment.ID] = payment
	return payment.ID
}

func (s *Server) AddMood(entry entity.MoodEntry) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = s.nextID("mood")
	}
	s.moods[entry.ID] = entry
	return entry.ID
}

func (s *Server) AddActivity(activity entity.Activity) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if activity.ID == "" {
		activity.ID = s.nextID("act")
	}
	s.activities[activity.ID] = activity
	return activity.ID
}

func (s *Server) SetPatientDashboard(patientID string, dashboard entity.PatientDashboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patientDashboards[patientID] = dashboard
}

func (s *Server) SetPsychologistDashboard(psychologistID string, dashboard entity.PsychologistDashboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.psychologistDashboards[psychologistID] = dashboard
}

// AddMonitoredPatient lists a patient under GET /humor/psicologo/{id}
func (s *Server) AddMonitoredPatient(psychologistID string, patient entity.MonitoredPatient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moodStatus[psychologistID] = append(s.moodStatus[psychologistID], patient)
}

// AddPatientActivities lists a patient under GET /atividades/psicologo/{id}
func (s *Server) AddPatientActivities(psychologistID string, patient entity.PatientActivities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activityFeeds[psychologistID] = append(s.activityFeeds[psychologistID], patient)
}

func (s *Server) Payment(id string) (entity.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[id]
	return payment, ok
}

func (s *Server) Slot(id string) (entity.AvailableSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	return slot, ok
}

func (s *Server) Appointment(id string) (entity.BookedAppointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment, ok := s.appointments[id]
	return appointment, ok
}

func (s *Server) AppointmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

func (s *Server) profileFor(r *http.Request) (*entity.Profile, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[token]
	if !ok {
		return nil, false
	}
	profile := u.profile
	return &profile, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds entity.Credentials
	if err := decode(r, &creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.username == creds.Username && u.password == creds.Password {
			writeJSON(w, http.StatusOK, entity.AccessToken{AccessToken: u.token})
			return
		}
	}
	http.Error(w, "invalid credentials", http.StatusUnauthorized)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.profileFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) register(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name     string `json:"nome"`
			Email    string `json:"email"`
			Password string `json:"senha"`
		}
		if err := decode(r, &body); err != nil || body.Email == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		for _, u := range s.users {
			if u.username == body.Email {
				s.mu.Unlock()
				http.Error(w, "email already registered", http.StatusConflict)
				return
			}
		}
		id := s.nextID("user")
		token := issueToken(id, body.Email)
		s.users[token] = &user{
			username: body.Email,
			password: body.Password,
			token:    token,
			profile:  entity.Profile{ID: id, Name: body.Name, Role: role},
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, entity.Registration{ID: id})
	}
}

func (s *Server) bookedByPsychologist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := []entity.BookedAppointment{}
	for _, a := range s.appointments {
		if a.PsychologistID == id {
			out = append(out, a)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) bookedByPatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := []entity.BookedAppointment{}
	for _, a := range s.appointments {
		if a.PatientID == id {
			out = append(out, a)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) availableByPsychologist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := []entity.AvailableSlot{}
	for _, slot := range s.slots {
		if slot.PsychologistID == id {
			out = append(out, slot)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createSlot(w http.ResponseWriter, r *http.Request) {
	var req entity.NewSlot
	if err := decode(r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	now := time.Now()
	s.mu.Lock()
	slot := entity.AvailableSlot{
		ID:             s.nextID("slot"),
		Date:           req.Date,
		PsychologistID: req.PsychologistID,
		Description:    req.Description,
		Notes:          req.Notes,
		Price:          req.Price,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.slots[slot.ID] = slot
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, slot)
}

func (s *Server) patchSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch entity.SlotPatch
	if err := decode(r, &patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if patch.Date != nil {
		slot.Date = *patch.Date
	}
	if patch.Description != nil {
		slot.Description = *patch.Description
	}
	if patch.Notes != nil {
		slot.Notes = *patch.Notes
	}
	if patch.Price != nil {
		slot.Price = *patch.Price
	}
	slot.UpdatedAt = time.Now()
	s.slots[id] = slot
	writeJSON(w, http.StatusOK, slot)
}

func (s *Server) deleteSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(s.slots, id)
	w.WriteHeader(http.StatusNoContent)
}

// patchAppointment only ever applies data and observacoes; anything else is ignored
func (s *Server) patchAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch entity.AppointmentPatch
	if err := decode(r, &patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment, ok := s.appointments[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if patch.Date != nil {
		appointment.Date = *patch.Date
	}
	if patch.Notes != nil {
		appointment.Notes = *patch.Notes
	}
	appointment.UpdatedAt = time.Now()
	s.appointments[id] = appointment
	writeJSON(w, http.StatusOK, appointment)
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(s.appointments, id)
	w.WriteHeader(http.StatusNoContent)
}

// book turns an available slot into a booked appointment with one pending
// payment. A repeated Idempotency-Key answers with the original appointment.
func (s *Server) book(w http.ResponseWriter, r *http.Request) {
	var req entity.BookingRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	key := r.Header.Get("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if apptID, ok := s.idempotency[key]; ok {
			writeJSON(w, http.StatusOK, s.appointments[apptID])
			return
		}
	}
	slot, ok := s.slots[req.AvailableConsultationID]
	if !ok {
		http.Error(w, "slot not available", http.StatusNotFound)
		return
	}

	var patient *entity.PatientSummary
	for _, u := range s.users {
		if u.profile.ID == req.PatientID {
			patient = &entity.PatientSummary{ID: u.profile.ID, Name: u.profile.Name, Email: u.username}
			break
		}
	}
	if patient == nil {
		patient = &entity.PatientSummary{ID: req.PatientID}
	}

	now := time.Now()
	notes := req.Notes
	if notes == "" {
		notes = slot.Notes
	}
	appointment := entity.BookedAppointment{
		ID:             s.nextID("appt"),
		Date:           slot.Date,
		Notes:          notes,
		PatientID:      req.PatientID,
		PsychologistID: slot.PsychologistID,
		Patient:        patient,
		Psychologist:   slot.Psychologist,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	payment := entity.Payment{
		ID:            s.nextID("pay"),
		Amount:        slot.Price,
		Date:          now,
		DueDate:       slot.Date,
		Installment:   1,
		Status:        entity.PaymentStatusPending,
		AppointmentID: appointment.ID,
		Appointment: &entity.PaymentAppointment{
			ID:             appointment.ID,
			Date:           appointment.Date,
			PatientID:      appointment.PatientID,
			PsychologistID: appointment.PsychologistID,
			Patient:        patient,
		},
	}
	appointment.Payments = []entity.Payment{payment}

	delete(s.slots, slot.ID)
	s.appointments[appointment.ID] = appointment
	s.payments[payment.ID] = payment
	if key != "" {
		s.idempotency[key] = appointment.ID
	}
	writeJSON(w, http.StatusCreated, appointment)
}

func (s *Server) paymentsByPsychologist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := []entity.Payment{}
	for _, p := range s.payments {
		if p.Appointment != nil && p.Appointment.PsychologistID == id {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) patchPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var update entity.PaymentStatusUpdate
	if err := decode(r, &update); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if update.Paid {
		payment.Status = entity.PaymentStatusPaid
	} else {
		payment.Status = entity.PaymentStatusPending
	}
	s.payments[id] = payment
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) moodsByPatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := []entity.MoodEntry{}
	for _, m := range s.moods {
		if m.PatientID == id {
			out = append(out, m)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createMood(w http.ResponseWriter, r *http.Request) {
	var entry entity.MoodEntry
	if err := decode(r, &entry); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	entry.ID = s.nextID("mood")
	s.moods[entry.ID] = entry
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) patchMood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch struct {
		Scale *int    `json:"escala"`
		Notes *string `json:"observacoes"`
	}
	if err := decode(r, &patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.moods[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if patch.Scale != nil {
		entry.Scale = *patch.Scale
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	s.moods[id] = entry
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteMood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moods[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(s.moods, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activitiesByPatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := []entity.Activity{}
	for _, a := range s.activities {
		if a.PatientID == id {
			out = append(out, a)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var activity entity.Activity
	if err := decode(r, &activity); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	now := time.Now()
	s.mu.Lock()
	activity.ID = s.nextID("act")
	activity.CreatedAt = now
	activity.UpdatedAt = now
	s.activities[activity.ID] = activity
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, activity)
}

func (s *Server) patchActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch entity.Activity
	if err := decode(r, &patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	activity.Type = patch.Type
	activity.Desc = patch.Desc
	activity.Date = patch.Date
	activity.Impact = patch.Impact
	activity.UpdatedAt = time.Now()
	s.activities[id] = activity
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) deleteActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(s.activities, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) patientDashboard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	dashboard := s.patientDashboards[id]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) psychologistDashboard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	dashboard := s.psychologistDashboards[id]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) moodStatusByPsychologist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := append([]entity.MonitoredPatient{}, s.moodStatus[id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) activitiesByPsychologist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	out := append([]entity.PatientActivities{}, s.activityFeeds[id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// Price is shorthand for building slot prices in tests
func Price(value float64) money.Money {
	return money.New(value)
}
