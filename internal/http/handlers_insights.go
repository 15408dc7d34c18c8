package http

import (
	"context"
	"net/http"
	"time"
)

// InsightProvider generates the month's financial tips. The server treats a
// nil provider as the feature being unconfigured.
type InsightProvider interface {
	MonthlyInsight(ctx context.Context, year int, month time.Month) (string, error)
}

type insightResponse struct {
	Insight string `json:"insight"`
}

// handleInsights returns AI-generated tips for the requested month.
// Defaults to the current month.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}

	params := ParseMonthParams(r.URL.Query())
	text, err := s.insights.MonthlyInsight(r.Context(), params.Year, params.Month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, insightResponse{Insight: text})
}
