package http

import (
	"net/http"

	"askadoc-server/internal/delivery/http/handler"
	"askadoc-server/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	availabilityHandler   *handler.AvailabilityHandler
	appointmentHandler    *handler.AppointmentHandler
	chatbotHandler        *handler.ChatbotHandler
	chatHandler           *handler.ChatHandler
	doctorHandler         *handler.DoctorHandler
	medicalHistoryHandler *handler.MedicalHistoryHandler
	auditLogHandler       *handler.AuditLogHandler
	wsHandler             http.Handler
	metricsHandler        http.Handler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	requestLogger         func(http.Handler) http.Handler
}

// RouterConfig groups everything the router mounts
type RouterConfig struct {
	AuthHandler           *handler.AuthHandler
	AvailabilityHandler   *handler.AvailabilityHandler
	AppointmentHandler    *handler.AppointmentHandler
	ChatbotHandler        *handler.ChatbotHandler
	ChatHandler           *handler.ChatHandler
	DoctorHandler         *handler.DoctorHandler
	MedicalHistoryHandler *handler.MedicalHistoryHandler
	AuditLogHandler       *handler.AuditLogHandler
	WSHandler             http.Handler
	MetricsHandler        http.Handler
	AuthMiddleware        *middleware.AuthMiddleware
	CORSMiddleware        *middleware.CORSMiddleware
	RequestLogger         func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           cfg.AuthHandler,
		availabilityHandler:   cfg.AvailabilityHandler,
		appointmentHandler:    cfg.AppointmentHandler,
		chatbotHandler:        cfg.ChatbotHandler,
		chatHandler:           cfg.ChatHandler,
		doctorHandler:         cfg.DoctorHandler,
		medicalHistoryHandler: cfg.MedicalHistoryHandler,
		auditLogHandler:       cfg.AuditLogHandler,
		wsHandler:             cfg.WSHandler,
		metricsHandler:        cfg.MetricsHandler,
		authMiddleware:        cfg.AuthMiddleware,
		corsMiddleware:        cfg.CORSMiddleware,
		requestLogger:         cfg.RequestLogger,
	}
}

func (r *Router) Setup() *mux.Router {
	// Operational endpoints
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}
	if r.wsHandler != nil {
		// token is read from the query string by the handler itself
		r.router.Handle("/ws", r.wsHandler).Methods(http.MethodGet)
	}

	api := r.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Public directory
	api.HandleFunc("/users/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/users/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/users/doctors/{doctorId}/availability", r.availabilityHandler.GetDoctorAvailability).Methods(http.MethodGet)

	// Any authenticated user
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/appointments/me", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPut)
	protected.HandleFunc("/chatbot/message", r.chatbotHandler.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/chatbot/history", r.chatbotHandler.GetHistory).Methods(http.MethodGet)
	protected.HandleFunc("/chats", r.chatHandler.GetChats).Methods(http.MethodGet)
	protected.HandleFunc("/chats/{id}", r.chatHandler.GetChat).Methods(http.MethodGet)
	protected.HandleFunc("/chats/{id}/messages", r.chatHandler.AddMessage).Methods(http.MethodPost)
	protected.HandleFunc("/users/me/activity", r.auditLogHandler.GetMyActivity).Methods(http.MethodGet)

	// Doctor routes
	doctor := api.NewRoute().Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/appointments/doctors/me/availability", r.availabilityHandler.AddSlot).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/doctors/me/availability", r.availabilityHandler.GetMySlots).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/doctors/me/availability/{slotId}", r.availabilityHandler.DeleteSlot).Methods(http.MethodDelete)
	doctor.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPut)
	doctor.HandleFunc("/users/patients/{id}/medical-history", r.medicalHistoryHandler.GetPatientHistory).Methods(http.MethodGet)

	// Patient routes
	patient := api.NewRoute().Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments/book", r.appointmentHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/chats", r.chatHandler.CreateChat).Methods(http.MethodPost)
	patient.HandleFunc("/users/doctors/{id}/reviews", r.doctorHandler.AddReview).Methods(http.MethodPost)
	patient.HandleFunc("/users/profile/medical-history", r.medicalHistoryHandler.GetMine).Methods(http.MethodGet)
	patient.HandleFunc("/users/profile/medical-history/conditions", r.medicalHistoryHandler.AddConditions).Methods(http.MethodPost)
	patient.HandleFunc("/users/profile/medical-history/allergies", r.medicalHistoryHandler.AddAllergies).Methods(http.MethodPost)
	patient.HandleFunc("/users/profile/medical-history/prescriptions", r.medicalHistoryHandler.AddPrescription).Methods(http.MethodPost)
	patient.HandleFunc("/users/profile/medical-history/documents", r.medicalHistoryHandler.AddDocument).Methods(http.MethodPost)

	// Preflight requests for any path, answered by the CORS middleware
	r.router.PathPrefix("/").MatcherFunc(isPreflight).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	if r.requestLogger != nil {
		r.router.Use(r.requestLogger)
	}
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

// isPreflight avoids a method matcher so unknown paths still answer 404
func isPreflight(req *http.Request, _ *mux.RouteMatch) bool {
	return req.Method == http.MethodOptions
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
