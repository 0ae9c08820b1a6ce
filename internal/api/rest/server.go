package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fortuna/oncourt/internal/jobs"
	"github.com/fortuna/oncourt/internal/query"
	"github.com/fortuna/oncourt/internal/scheduler"
)

// Server represents the REST API server
type Server struct {
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. orch may be nil when the
// scheduler is disabled; metrics may be nil to omit the /metrics endpoint.
func NewServer(addr string, querySvc *query.Service, jobSvc *jobs.Service, orch *scheduler.Orchestrator, metrics prometheus.Gatherer) *Server {
	handler := NewHandler(querySvc)
	jobHandler := NewJobHandler(jobSvc, orch)

	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	if metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})).Methods("GET")
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{team}/roster", handler.GetTeamRoster).Methods("GET")
	api.HandleFunc("/teams/{team}/onoff", handler.GetOnOff).Methods("GET")

	// Snapshot jobs
	api.HandleFunc("/jobs", jobHandler.HandleEnqueue).Methods("POST")
	api.HandleFunc("/jobs/status", jobHandler.HandleStatus).Methods("GET")
	api.HandleFunc("/jobs/{jobID}", jobHandler.HandleGet).Methods("GET")

	// Scheduler
	api.HandleFunc("/scheduler/status", jobHandler.HandleSchedulerStatus).Methods("GET")
	api.HandleFunc("/scheduler/refresh", jobHandler.HandleSchedulerRefresh).Methods("POST")

	return &Server{
		handler: handler,
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
