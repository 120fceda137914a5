package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hainm/keobot/internal/settle"
)

type eventInfo struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Date     *string `json:"date,omitempty"`
	VenueURL string  `json:"venue_url,omitempty"`
}

type summaryResponse struct {
	Event  eventInfo     `json:"event"`
	Report settle.Report `json:"report"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleGroupSummary renders the latest event's settlement report, ended or
// not, as JSON.
func (a *API) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["group_id"]

	ev, err := a.events.LatestEvent(r.Context(), groupID)
	if err != nil {
		a.log.Error().Err(err).Str("group_id", groupID).Msg("failed to load latest event")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ev == nil {
		writeError(w, http.StatusNotFound, "no events for this group")
		return
	}

	snap, err := a.events.Snapshot(r.Context(), ev.ID)
	if err != nil || snap == nil {
		a.log.Error().Err(err).Str("event_id", ev.ID).Msg("failed to load event snapshot")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	info := eventInfo{ID: ev.ID, Status: string(ev.Status), VenueURL: ev.VenueURL}
	if ev.Date != nil {
		d := ev.Date.Format("2006-01-02")
		info.Date = &d
	}

	writeJSON(w, http.StatusOK, summaryResponse{Event: info, Report: settle.Settle(*snap)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
