package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// handleEntries serves the collection: GET lists newest first, POST submits
// a draft and returns the entries it expanded into.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r)
	case http.MethodPost:
		s.createEntries(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	voices := s.settings.Voices(r.Context())
	respondJSON(w, http.StatusOK, toEntryResponses(entries, voices))
}

func (s *Server) createEntries(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := draft.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.entries.Add(r.Context(), draft)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateAggregates()

	slog.InfoContext(r.Context(), "Entries created via API",
		"description", draft.Description,
		"count", len(created))

	voices := s.settings.Voices(r.Context())
	respondJSON(w, http.StatusCreated, toEntryResponses(created, voices))
}

// handleEntryByID serves /api/entries/{id}: PUT replaces the entry fields,
// DELETE removes it. Edits never expand.
func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusNotFound, "entry not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateEntry(w, r, id)
	case http.MethodDelete:
		s.deleteEntry(w, r, id)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request, id string) {
	var req entryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := req.toEntry(id)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := entry.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.entries.Update(r.Context(), entry); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateAggregates()

	voices := s.settings.Voices(r.Context())
	respondJSON(w, http.StatusOK, toEntryResponse(entry, voices))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.entries.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateAggregates()
	w.WriteHeader(http.StatusNoContent)
}
