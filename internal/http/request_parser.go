package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zenfin/internal/core"
)

// maxBodySize caps request bodies; entry payloads are tiny.
const maxBodySize = 64 * 1024

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month time.Month
}

// ParseMonthParams extracts year and month from query parameters, using the
// current date as defaults. Out-of-range months fall back to the current one.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: now.Month(),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			params.Month = time.Month(m)
		}
	}

	return params
}

// draftRequest is the wire form of an entry submission. Dates come in as
// yyyy-mm-dd strings from the date picker.
type draftRequest struct {
	Description      string  `json:"description"`
	Amount           float64 `json:"amount"`
	Category         string  `json:"category"`
	PaymentMethod    string  `json:"paymentMethod"`
	Date             string  `json:"date"`
	Installments     int     `json:"installments,omitempty"`
	Recurring        bool    `json:"recurring,omitempty"`
	RecurrenceMonths int     `json:"recurrenceMonths,omitempty"`
}

func (req draftRequest) toDraft() (core.Draft, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Draft{}, err
	}
	return core.Draft{
		Description:      sanitizeInput(req.Description),
		Amount:           req.Amount,
		Category:         core.Category(req.Category),
		PaymentMethod:    core.PaymentMethod(req.PaymentMethod),
		Date:             date,
		Installments:     req.Installments,
		Recurring:        req.Recurring,
		RecurrenceMonths: req.RecurrenceMonths,
	}, nil
}

// entryUpdateRequest is the wire form of an entry edit. The id comes from
// the URL path, never the body.
type entryUpdateRequest struct {
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
}

func (req entryUpdateRequest) toEntry(id string) (core.Entry, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{
		ID:            id,
		Description:   sanitizeInput(req.Description),
		Amount:        req.Amount,
		Category:      core.Category(req.Category),
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
		Date:          date,
	}, nil
}

// parseDate accepts the date-picker format and RFC 3339.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected yyyy-mm-dd", s)
}

// decodeJSON reads and decodes a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
