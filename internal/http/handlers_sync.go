package http

import (
	"net/http"

	"zenfin/internal/ledger"
)

// handleSyncTrigger starts a manual sync run. A trigger while a run is in
// flight is a no-op, reported as 409; nothing is queued.
func (s *Server) handleSyncTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.sync == nil {
		respondError(w, http.StatusServiceUnavailable, "sync is not configured")
		return
	}

	if !s.sync.Trigger(r.Context()) {
		respondJSON(w, http.StatusConflict, syncStatusResponse{
			Status:  string(s.sync.Status()),
			Syncing: s.sync.Syncing(),
		})
		return
	}

	respondJSON(w, http.StatusAccepted, syncStatusResponse{
		Status:  string(s.sync.Status()),
		Syncing: true,
	})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.sync == nil {
		respondJSON(w, http.StatusOK, syncStatusResponse{Status: string(ledger.SyncIdle), Syncing: false})
		return
	}
	respondJSON(w, http.StatusOK, syncStatusResponse{
		Status:  string(s.sync.Status()),
		Syncing: s.sync.Syncing(),
	})
}
