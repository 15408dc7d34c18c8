package http

import (
	"log/slog"
	"net/http"
	"time"

	"zenfin/internal/core"
)

// handleOverview returns the month aggregate: totals, category breakdown and
// the period's entries. Defaults to the current month.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	params := ParseMonthParams(r.URL.Query())
	key := periodKey(params.Year, params.Month)

	if cached, found := s.overviewCache.Get(key); found {
		slog.DebugContext(r.Context(), "Overview cache hit", "year", params.Year, "month", int(params.Month))
		respondJSON(w, http.StatusOK, cached)
		return
	}

	entries, summary, byCategory, err := s.entries.Month(r.Context(), params.Year, params.Month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	voices := s.settings.Voices(r.Context())
	overview := monthOverview{
		Year:       params.Year,
		Month:      int(params.Month),
		Summary:    summary,
		ByCategory: byCategory,
		Entries:    toEntryResponses(entries, voices),
	}

	s.overviewCache.Set(key, overview)
	respondJSON(w, http.StatusOK, overview)
}

// handleTrend returns the six-month revenue/expense series ending at the
// requested period.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	params := ParseMonthParams(r.URL.Query())
	key := periodKey(params.Year, params.Month)

	if cached, found := s.trendCache.Get(key); found {
		slog.DebugContext(r.Context(), "Trend cache hit", "year", params.Year, "month", int(params.Month))
		respondJSON(w, http.StatusOK, cached)
		return
	}

	ref := time.Date(params.Year, params.Month, 1, 0, 0, 0, 0, time.UTC)
	trend, err := s.entries.Trend(r.Context(), ref)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if trend == nil {
		trend = []core.TrendPoint{}
	}

	s.trendCache.Set(key, trend)
	respondJSON(w, http.StatusOK, trend)
}
