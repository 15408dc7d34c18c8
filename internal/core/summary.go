package core

import (
	"math"
	"sort"
	"time"
)

type (
	// Summary holds the revenue/expense totals for a filtered period.
	// Balance may be negative.
	Summary struct {
		Revenue  float64 `json:"revenue"`
		Expenses float64 `json:"expenses"`
		Balance  float64 `json:"balance"`
	}

	// CategoryAmount is one slice of the expense breakdown.
	CategoryAmount struct {
		Category Category `json:"category"`
		Amount   float64  `json:"amount"`
	}

	// TrendPoint is one month of the revenue/expense trend series.
	TrendPoint struct {
		Label    string  `json:"label"`
		Revenue  float64 `json:"revenue"`
		Expenses float64 `json:"expenses"`
	}
)

// ptMonthShort holds Portuguese month abbreviations for trend labels,
// indexed by time.Month.
var ptMonthShort = [...]string{"", "jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// FilterByPeriod returns the entries whose date falls in the given calendar
// month. Input order is preserved.
func FilterByPeriod(entries []Entry, year int, month time.Month) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out
}

// Totals computes the revenue/expense sums over the given entries by linear
// accumulation. No rounding is applied; formatting belongs to the caller.
func Totals(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		if e.Category == CategoryRevenue {
			s.Revenue += e.Amount
		} else {
			s.Expenses += e.Amount
		}
	}
	s.Balance = s.Revenue - s.Expenses
	return s
}

// CategoryTotals sums amounts per expense category. Revenue is excluded from
// the breakdown; every expense category is present even when its sum is zero,
// in stable display order.
func CategoryTotals(entries []Entry) []CategoryAmount {
	sums := make(map[Category]float64, len(entries))
	for _, e := range entries {
		if e.Category == CategoryRevenue {
			continue
		}
		sums[e.Category] += e.Amount
	}
	cats := ExpenseCategories()
	out := make([]CategoryAmount, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryAmount{Category: c, Amount: sums[c]})
	}
	return out
}

// Trend computes the revenue/expense series for the monthsBack consecutive
// calendar months ending at ref (inclusive), oldest first. Values are rounded
// to two decimals for charting. Only ref's year and month matter: the walk
// starts from the first of the month, so a ref dated the 29th-31st cannot
// skip February when stepping back.
func Trend(entries []Entry, ref time.Time, monthsBack int) []TrendPoint {
	base := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]TrendPoint, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		d := base.AddDate(0, -i, 0)
		s := Totals(FilterByPeriod(entries, d.Year(), d.Month()))
		out = append(out, TrendPoint{
			Label:    ptMonthShort[d.Month()],
			Revenue:  round2(s.Revenue),
			Expenses: round2(s.Expenses),
		})
	}
	return out
}

// SortByDateDesc orders the collection newest first. Ordering among same-date
// entries is unspecified.
func SortByDateDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
