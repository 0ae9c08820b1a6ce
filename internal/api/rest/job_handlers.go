package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/jobs"
	"github.com/fortuna/oncourt/internal/scheduler"
)

// JobHandler proxies API calls to the job service and scheduler.
type JobHandler struct {
	service *jobs.Service
	orch    *scheduler.Orchestrator
}

// NewJobHandler wires the REST layer to the job service. orch may be nil.
func NewJobHandler(service *jobs.Service, orch *scheduler.Orchestrator) *JobHandler {
	return &JobHandler{service: service, orch: orch}
}

// HandleEnqueue handles POST /api/v1/jobs
func (h *JobHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.service.Enqueue(req)
	if err != nil {
		if errors.Is(err, nba.ErrUnknownTeam) {
			respondError(w, http.StatusNotFound, "Team not found", err)
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to enqueue job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": job,
	})
}

// HandleGet handles GET /api/v1/jobs/{jobID}
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	job, ok := h.service.Get(vars["jobID"])
	if !ok {
		respondError(w, http.StatusNotFound, "Job not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// HandleStatus handles GET /api/v1/jobs/status
func (h *JobHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	summary := h.service.GetStatus()

	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"history": summary.History,
	}
	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		response["message"] = summary.ActiveJob.Message
		response["active_job"] = summary.ActiveJob
	}
	if summary.History == nil {
		response["history"] = []*jobs.Job{}
	}

	respondJSON(w, http.StatusOK, response)
}

// HandleSchedulerStatus handles GET /api/v1/scheduler/status
func (h *JobHandler) HandleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if h.orch == nil {
		respondError(w, http.StatusNotFound, "Scheduler is disabled", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.orch.GetStatus())
}

// HandleSchedulerRefresh handles POST /api/v1/scheduler/refresh
func (h *JobHandler) HandleSchedulerRefresh(w http.ResponseWriter, r *http.Request) {
	if h.orch == nil {
		respondError(w, http.StatusNotFound, "Scheduler is disabled", nil)
		return
	}
	if err := h.orch.TriggerRefresh(r.Context()); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to trigger refresh", err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Refresh pass enqueued",
	})
}
