package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"zenfin/internal/core"
	"zenfin/internal/storage"
)

// entryResponse is the wire form of an entry. Dates go out in the
// date-picker format, and each entry carries its resolved display icon.
type entryResponse struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
	Icon          string  `json:"icon"`
}

func toEntryResponse(e core.Entry, voices []core.VoiceMapping) entryResponse {
	return entryResponse{
		ID:            e.ID,
		Description:   e.Description,
		Amount:        e.Amount,
		Category:      string(e.Category),
		PaymentMethod: string(e.PaymentMethod),
		Date:          e.Date.Format("2006-01-02"),
		Icon:          core.IconFor(e.Description, voices),
	}
}

func toEntryResponses(entries []core.Entry, voices []core.VoiceMapping) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e, voices))
	}
	return out
}

// monthOverview is the aggregate payload for one period.
type monthOverview struct {
	Year       int                   `json:"year"`
	Month      int                   `json:"month"`
	Summary    core.Summary          `json:"summary"`
	ByCategory []core.CategoryAmount `json:"byCategory"`
	Entries    []entryResponse       `json:"entries"`
}

type syncStatusResponse struct {
	Status  string `json:"status"`
	Syncing bool   `json:"syncing"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps a service error to a status code: unknown ids are
// 404, validation failures 422, everything else 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "entry not found")
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyID,
		core.ErrEmptyDescription,
		core.ErrInvalidAmount,
		core.ErrInvalidCategory,
		core.ErrInvalidPayment,
		core.ErrInvalidDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	respondError(w, http.StatusMethodNotAllowed, "method not allowed")
}
