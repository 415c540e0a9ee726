package http

import (
	"net/http"

	"psico-portal/internal/delivery/http/handler"
	"psico-portal/internal/delivery/http/middleware"
	"psico-portal/internal/domain/entity"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	availabilityHandler *handler.AvailabilityHandler
	schedulingHandler   *handler.SchedulingHandler
	paymentHandler      *handler.PaymentHandler
	appointmentHandler  *handler.AppointmentHandler
	wellbeingHandler    *handler.WellbeingHandler
	dashboardHandler    *handler.DashboardHandler
	authMiddleware      *middleware.AuthMiddleware
	roleMiddleware      *middleware.RoleMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	gatherer            prometheus.Gatherer
}

// Handlers groups the route handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	Availability *handler.AvailabilityHandler
	Scheduling   *handler.SchedulingHandler
	Payment      *handler.PaymentHandler
	Appointment  *handler.AppointmentHandler
	Wellbeing    *handler.WellbeingHandler
	Dashboard    *handler.DashboardHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         handlers.Auth,
		availabilityHandler: handlers.Availability,
		schedulingHandler:   handlers.Scheduling,
		paymentHandler:      handlers.Payment,
		appointmentHandler:  handlers.Appointment,
		wellbeingHandler:    handlers.Wellbeing,
		dashboardHandler:    handlers.Dashboard,
		authMiddleware:      authMiddleware,
		roleMiddleware:      roleMiddleware,
		corsMiddleware:      corsMiddleware,
		gatherer:            gatherer,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	if r.gatherer != nil {
		api.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/psychologist", r.authHandler.RegisterPsychologist).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Psychologist routes
	availability := r.gated(api, "/availability", r.roleMiddleware.RequirePsychologist)
	availability.HandleFunc("", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)
	availability.HandleFunc("/slots", r.availabilityHandler.CreateSlot).Methods(http.MethodPost)
	availability.HandleFunc("/slots/{id}", r.availabilityHandler.EditSlot).Methods(http.MethodPatch)
	availability.HandleFunc("/slots/{id}", r.availabilityHandler.DeleteSlot).Methods(http.MethodDelete)
	availability.HandleFunc("/appointments/{id}", r.availabilityHandler.EditAppointment).Methods(http.MethodPatch)
	availability.HandleFunc("/appointments/{id}", r.availabilityHandler.DeleteAppointment).Methods(http.MethodDelete)
	availability.HandleFunc("/modal", r.availabilityHandler.OpenModal).Methods(http.MethodPost)
	availability.HandleFunc("/modal", r.availabilityHandler.CloseModal).Methods(http.MethodDelete)
	availability.HandleFunc("/modal/submit", r.availabilityHandler.SubmitModal).Methods(http.MethodPost)

	payments := r.gated(api, "/payments", r.roleMiddleware.RequirePsychologist)
	payments.HandleFunc("", r.paymentHandler.GetPayments).Methods(http.MethodGet)
	payments.HandleFunc("/summary", r.paymentHandler.GetSummary).Methods(http.MethodGet)
	payments.HandleFunc("/{id}/confirm", r.paymentHandler.ConfirmPayment).Methods(http.MethodPost)

	patients := r.gated(api, "/patients", r.roleMiddleware.RequirePsychologist)
	patients.HandleFunc("/moods", r.dashboardHandler.GetPatientMoods).Methods(http.MethodGet)
	patients.HandleFunc("/activities", r.dashboardHandler.GetPatientActivities).Methods(http.MethodGet)

	// Either role
	dashboard := r.gated(api, "/dashboard", r.roleMiddleware.RequireRole(entity.RolePatient, entity.RolePsychologist))
	dashboard.HandleFunc("", r.dashboardHandler.GetDashboard).Methods(http.MethodGet)

	// Patient routes
	scheduling := r.gated(api, "/scheduling", r.roleMiddleware.RequirePatient)
	scheduling.HandleFunc("", r.schedulingHandler.GetState).Methods(http.MethodGet)
	scheduling.HandleFunc("/open", r.schedulingHandler.Open).Methods(http.MethodPost)
	scheduling.HandleFunc("/pick", r.schedulingHandler.Pick).Methods(http.MethodPost)
	scheduling.HandleFunc("/back", r.schedulingHandler.Back).Methods(http.MethodPost)
	scheduling.HandleFunc("/confirm", r.schedulingHandler.Confirm).Methods(http.MethodPost)
	scheduling.HandleFunc("/close", r.schedulingHandler.Close).Methods(http.MethodPost)

	appointments := r.gated(api, "/appointments", r.roleMiddleware.RequirePatient)
	appointments.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)

	moods := r.gated(api, "/moods", r.roleMiddleware.RequirePatient)
	moods.HandleFunc("", r.wellbeingHandler.GetMoods).Methods(http.MethodGet)
	moods.HandleFunc("", r.wellbeingHandler.RecordMood).Methods(http.MethodPost)
	moods.HandleFunc("/{id}", r.wellbeingHandler.UpdateMood).Methods(http.MethodPatch)
	moods.HandleFunc("/{id}", r.wellbeingHandler.DeleteMood).Methods(http.MethodDelete)

	activities := r.gated(api, "/activities", r.roleMiddleware.RequirePatient)
	activities.HandleFunc("", r.wellbeingHandler.GetActivities).Methods(http.MethodGet)
	activities.HandleFunc("", r.wellbeingHandler.CreateActivity).Methods(http.MethodPost)
	activities.HandleFunc("/{id}", r.wellbeingHandler.UpdateActivity).Methods(http.MethodPatch)
	activities.HandleFunc("/{id}", r.wellbeingHandler.DeleteActivity).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

// gated mounts prefix behind authentication and a role check
func (r *Router) gated(api *mux.Router, prefix string, role mux.MiddlewareFunc) *mux.Router {
	sub := api.PathPrefix(prefix).Subrouter()
	sub.Use(r.authMiddleware.Authenticate)
	sub.Use(role)
	return sub
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
