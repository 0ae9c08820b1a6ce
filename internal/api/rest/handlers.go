package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/query"
	"github.com/fortuna/oncourt/internal/store"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	querySvc *query.Service
}

// NewHandler creates a new handler
func NewHandler(querySvc *query.Service) *Handler {
	return &Handler{querySvc: querySvc}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "oncourt",
		"version": "1.0.0",
	})
}

// GetTeams returns every NBA franchise
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": nba.Teams(),
	})
}

// GetTeamRoster returns the roster for a team's snapshot, ordered by
// cumulative floor time.
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team := vars["team"]
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "season query parameter is required", nil)
		return
	}

	roster, err := h.querySvc.Roster(r.Context(), team, season)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":   team,
		"season": season,
		"roster": roster,
	})
}

// GetOnOff answers an on/off query. on and off are repeatable player-name
// parameters: /teams/wolves/onoff?season=2025-26&on=Gobert&off=Edwards
func (h *Handler) GetOnOff(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team := vars["team"]

	params := r.URL.Query()
	season := params.Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "season query parameter is required", nil)
		return
	}

	req := query.Request{
		Team:   team,
		Season: season,
		On:     params["on"],
		Off:    params["off"],
	}

	result, err := h.querySvc.Query(r.Context(), req)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// respondQueryError maps query-layer errors to HTTP statuses: an unknown
// team is 404, an unbuilt snapshot is 409 (the caller should enqueue a
// build job first), an unresolvable player name is 400.
func respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nba.ErrUnknownTeam):
		respondError(w, http.StatusNotFound, "Team not found", err)
	case errors.Is(err, store.ErrNotBuilt):
		respondError(w, http.StatusConflict, "Snapshot not built for this team/season; enqueue a build job first", err)
	case errors.Is(err, query.ErrPlayerNotFound):
		respondError(w, http.StatusBadRequest, "Player not found on roster", err)
	default:
		respondError(w, http.StatusInternalServerError, "Query failed", err)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
