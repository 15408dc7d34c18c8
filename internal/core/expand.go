package core

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FixedSeriesMonths is the unconditional series length for Fixed-category
// entries. Any Fixed submission becomes a 12-month series regardless of user
// intent; product has been asked to confirm this rule (see DESIGN.md).
const FixedSeriesMonths = 12

// DefaultRecurrenceMonths is the revenue recurrence length when the user
// enables recurrence without choosing a count.
const DefaultRecurrenceMonths = 12

// Draft is a user submission before identifier assignment and expansion.
type Draft struct {
	Description   string        `json:"description"`
	Amount        float64       `json:"amount"`
	Category      Category      `json:"category"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Date          time.Time     `json:"date"`

	// Installments splits the amount across N monthly entries. Only honored
	// for categories other than Receita and Fixo, and only when > 1.
	Installments int `json:"installments,omitempty"`

	// Recurring repeats a Receita entry monthly at full amount.
	Recurring        bool `json:"recurring,omitempty"`
	RecurrenceMonths int  `json:"recurrenceMonths,omitempty"`
}

func (d Draft) Validate() error {
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return fmt.Errorf("description too long (max 200 characters)")
	}
	if d.Amount < 0 || math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return ErrInvalidAmount
	}
	if !d.Category.Valid() {
		return ErrInvalidCategory
	}
	if !d.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if d.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Expand turns one validated draft into one or more concrete entries with
// fresh identifiers. The rules are mutually exclusive and checked in this
// order: revenue recurrence, the unconditional Fixo series, installments,
// single entry.
//
// Month arithmetic offsets from the submitted start date and lets the time
// package normalize day-of-month overflow forward (Jan 31 plus one month
// lands in early March), matching how the browser app advanced dates.
func Expand(d Draft) []Entry {
	switch {
	case d.Category == CategoryRevenue && d.Recurring:
		months := d.RecurrenceMonths
		if months == 0 {
			months = DefaultRecurrenceMonths
		}
		if months < 1 {
			months = 1
		}
		return expandSeries(d, months, d.Amount, " (Recorrente)")

	case d.Category == CategoryFixed:
		return expandSeries(d, FixedSeriesMonths, d.Amount, " (Fixo)")

	case d.Installments > 1:
		count := d.Installments
		// Plain float division; the last installment does not absorb the
		// rounding remainder.
		each := d.Amount / float64(count)
		out := make([]Entry, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, Entry{
				ID:            NewID(),
				Description:   fmt.Sprintf("%s (%d/%d)", d.Description, i+1, count),
				Amount:        each,
				Category:      d.Category,
				PaymentMethod: d.PaymentMethod,
				Date:          d.Date.AddDate(0, i, 0),
			})
		}
		return out

	default:
		return []Entry{{
			ID:            NewID(),
			Description:   d.Description,
			Amount:        d.Amount,
			Category:      d.Category,
			PaymentMethod: d.PaymentMethod,
			Date:          d.Date,
		}}
	}
}

// expandSeries emits count entries one calendar month apart at full amount.
// The first entry keeps the base description; the rest carry the suffix.
func expandSeries(d Draft, count int, amount float64, suffix string) []Entry {
	out := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		desc := d.Description
		if i > 0 {
			desc += suffix
		}
		out = append(out, Entry{
			ID:            NewID(),
			Description:   desc,
			Amount:        amount,
			Category:      d.Category,
			PaymentMethod: d.PaymentMethod,
			Date:          d.Date.AddDate(0, i, 0),
		})
	}
	return out
}
