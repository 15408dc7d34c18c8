package core

import (
	"testing"
	"time"
)

func entryAt(cat Category, amount float64, year int, month time.Month, day int) Entry {
	return Entry{
		ID:            NewID(),
		Description:   "e",
		Amount:        amount,
		Category:      cat,
		PaymentMethod: PaymentPix,
		Date:          time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestFilterByPeriod(t *testing.T) {
	entries := []Entry{
		entryAt(CategoryFixed, 10, 2024, time.March, 1),
		entryAt(CategoryFixed, 20, 2024, time.March, 31),
		entryAt(CategoryFixed, 30, 2024, time.April, 1),
		entryAt(CategoryFixed, 40, 2023, time.March, 15),
	}

	got := FilterByPeriod(entries, 2024, time.March)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Amount != 10 || got[1].Amount != 20 {
		t.Fatalf("wrong entries selected: %+v", got)
	}
}

func TestTotalsBalanceIdentity(t *testing.T) {
	cases := [][]Entry{
		nil,
		{entryAt(CategoryRevenue, 5000, 2024, time.May, 1)},
		{
			entryAt(CategoryRevenue, 5000, 2024, time.May, 1),
			entryAt(CategoryFixed, 1500, 2024, time.May, 5),
			entryAt(CategoryVariable, 800.50, 2024, time.May, 10),
		},
		{
			// No revenue at all: balance goes negative.
			entryAt(CategoryFixed, 1500, 2024, time.May, 5),
			entryAt(CategoryInvestment, 500, 2024, time.May, 9),
		},
	}
	for i, entries := range cases {
		s := Totals(entries)
		if s.Balance != s.Revenue-s.Expenses {
			t.Fatalf("case %d: balance %v != revenue %v - expenses %v", i, s.Balance, s.Revenue, s.Expenses)
		}
	}
}

func TestTotalsSplitsRevenueFromExpenses(t *testing.T) {
	entries := []Entry{
		entryAt(CategoryRevenue, 5000, 2024, time.May, 1),
		entryAt(CategoryFixed, 1500, 2024, time.May, 5),
		entryAt(CategoryVariable, 800, 2024, time.May, 10),
		entryAt(CategoryInvestment, 500, 2024, time.May, 12),
	}
	s := Totals(entries)
	if s.Revenue != 5000 {
		t.Fatalf("revenue = %v", s.Revenue)
	}
	if s.Expenses != 2800 {
		t.Fatalf("expenses = %v", s.Expenses)
	}
	if s.Balance != 2200 {
		t.Fatalf("balance = %v", s.Balance)
	}
}

func TestCategoryTotalsIncludesZeroCategories(t *testing.T) {
	got := CategoryTotals(nil)
	if len(got) != len(ExpenseCategories()) {
		t.Fatalf("expected %d categories, got %d", len(ExpenseCategories()), len(got))
	}
	for _, ca := range got {
		if ca.Amount != 0 {
			t.Fatalf("category %s amount = %v, want 0", ca.Category, ca.Amount)
		}
	}
}

func TestCategoryTotalsExcludesRevenue(t *testing.T) {
	entries := []Entry{
		entryAt(CategoryRevenue, 5000, 2024, time.May, 1),
		entryAt(CategoryFixed, 1500, 2024, time.May, 5),
		entryAt(CategoryFixed, 100, 2024, time.May, 6),
		entryAt(CategoryLifestyle, 50, 2024, time.May, 7),
	}
	got := CategoryTotals(entries)

	sums := map[Category]float64{}
	for _, ca := range got {
		sums[ca.Category] = ca.Amount
	}
	if _, ok := sums[CategoryRevenue]; ok {
		t.Fatalf("revenue must not appear in the expense breakdown")
	}
	if sums[CategoryFixed] != 1600 {
		t.Fatalf("fixed sum = %v", sums[CategoryFixed])
	}
	if sums[CategoryLifestyle] != 50 {
		t.Fatalf("lifestyle sum = %v", sums[CategoryLifestyle])
	}
	if sums[CategoryVariable] != 0 || sums[CategoryInvestment] != 0 {
		t.Fatalf("zero categories missing or non-zero: %+v", sums)
	}
}

func TestTrendSixMonthsOldestFirst(t *testing.T) {
	entries := []Entry{
		entryAt(CategoryRevenue, 1000, 2024, time.January, 10),
		entryAt(CategoryFixed, 400, 2024, time.January, 12),
		entryAt(CategoryRevenue, 2000, 2024, time.June, 1),
		entryAt(CategoryVariable, 333.333, 2024, time.June, 2),
		// Outside the window.
		entryAt(CategoryRevenue, 9999, 2023, time.December, 31),
	}
	ref := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	got := Trend(entries, ref, 6)
	if len(got) != 6 {
		t.Fatalf("expected 6 points, got %d", len(got))
	}

	wantLabels := []string{"jan", "fev", "mar", "abr", "mai", "jun"}
	for i, p := range got {
		if p.Label != wantLabels[i] {
			t.Fatalf("point %d label = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
	if got[0].Revenue != 1000 || got[0].Expenses != 400 {
		t.Fatalf("january point = %+v", got[0])
	}
	if got[5].Revenue != 2000 {
		t.Fatalf("june revenue = %v", got[5].Revenue)
	}
	if got[5].Expenses != 333.33 {
		t.Fatalf("june expenses = %v, want 2-decimal rounding", got[5].Expenses)
	}
	for i := 1; i < 5; i++ {
		if got[i].Revenue != 0 || got[i].Expenses != 0 {
			t.Fatalf("empty month %d = %+v", i, got[i])
		}
	}
}

func TestTrendMonthEndRef(t *testing.T) {
	entries := []Entry{
		entryAt(CategoryFixed, 100, 2024, time.February, 10),
		entryAt(CategoryFixed, 200, 2024, time.March, 10),
	}
	// A ref on the 31st must not skip short months when stepping back.
	ref := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	got := Trend(entries, ref, 3)
	wantLabels := []string{"jan", "fev", "mar"}
	for i, p := range got {
		if p.Label != wantLabels[i] {
			t.Fatalf("point %d label = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
	if got[1].Expenses != 100 {
		t.Fatalf("february expenses = %v, want 100", got[1].Expenses)
	}
	if got[2].Expenses != 200 {
		t.Fatalf("march expenses = %v, want 200 (counted once)", got[2].Expenses)
	}
}

func TestSortByDateDesc(t *testing.T) {
	entries := []Entry{
		entryAt(CategoryFixed, 1, 2024, time.January, 1),
		entryAt(CategoryFixed, 2, 2024, time.March, 1),
		entryAt(CategoryFixed, 3, 2024, time.February, 1),
	}
	SortByDateDesc(entries)
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.After(entries[i-1].Date) {
			t.Fatalf("entries not sorted descending by date: %v before %v", entries[i-1].Date, entries[i].Date)
		}
	}
}
