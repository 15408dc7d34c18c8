package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"zenfin/internal/core"
)

type fakeStore struct {
	entries []core.Entry
	listErr error
}

func (f *fakeStore) ListEntries(ctx context.Context) ([]core.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Entry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeStore) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Entry{}, errors.New("not found")
}

func (f *fakeStore) SaveEntries(ctx context.Context, entries []core.Entry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeStore) ReplaceEntry(ctx context.Context, e core.Entry) error {
	for i := range f.entries {
		if f.entries[i].ID == e.ID {
			f.entries[i] = e
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteEntry(ctx context.Context, id string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type recordingPublisher struct {
	changed [][]string
	deleted [][]string
	err     error
}

func (p *recordingPublisher) PublishEntriesChanged(ctx context.Context, ids []string) error {
	p.changed = append(p.changed, ids)
	return p.err
}

func (p *recordingPublisher) PublishEntriesDeleted(ctx context.Context, ids []string) error {
	p.deleted = append(p.deleted, ids)
	return p.err
}

func testDraft() core.Draft {
	return core.Draft{
		Description:   "Aluguel",
		Amount:        1200,
		Category:      core.CategoryFixed,
		PaymentMethod: core.PaymentPix,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddExpandsAndPersists(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewService(store, pub)

	entries, err := svc.Add(context.Background(), testDraft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(entries) != core.FixedSeriesMonths {
		t.Fatalf("expected %d entries, got %d", core.FixedSeriesMonths, len(entries))
	}
	if len(store.entries) != core.FixedSeriesMonths {
		t.Fatalf("store has %d entries", len(store.entries))
	}
	if len(pub.changed) != 1 || len(pub.changed[0]) != core.FixedSeriesMonths {
		t.Fatalf("expected one publication with all ids, got %+v", pub.changed)
	}
}

func TestAddRejectsInvalidDraftBeforePersisting(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	d := testDraft()
	d.Description = ""
	if _, err := svc.Add(context.Background(), d); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(store.entries) != 0 {
		t.Fatalf("nothing may be persisted on validation failure")
	}
}

func TestAddSurvivesPublisherFailure(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{err: errors.New("amqp down")}
	svc := NewService(store, pub)

	d := testDraft()
	d.Category = core.CategoryVariable
	if _, err := svc.Add(context.Background(), d); err != nil {
		t.Fatalf("publish failure must not fail the mutation: %v", err)
	}
	if len(store.entries) != 1 {
		t.Fatalf("entry not persisted")
	}
}

func TestUpdateReplacesExactlyOneEntry(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	d := testDraft()
	d.Category = core.CategoryVariable
	created, err := svc.Add(context.Background(), d)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	other := testDraft()
	other.Category = core.CategoryLifestyle
	other.Description = "Cinema"
	if _, err := svc.Add(context.Background(), other); err != nil {
		t.Fatalf("add: %v", err)
	}

	edited := created[0]
	edited.Description = "Aluguel novo"
	edited.Amount = 1300
	if err := svc.Update(context.Background(), edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetEntry(context.Background(), edited.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Aluguel novo" || got.Amount != 1300 {
		t.Fatalf("entry not replaced: %+v", got)
	}
	if got.ID != created[0].ID {
		t.Fatalf("id must be preserved")
	}
	// The edit must not have expanded into a series.
	if len(store.entries) != 2 {
		t.Fatalf("expected 2 entries after edit, got %d", len(store.entries))
	}
	for _, e := range store.entries {
		if e.ID != edited.ID && e.Description == "Aluguel novo" {
			t.Fatalf("edit leaked into another entry")
		}
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	e := core.Entry{
		ID:            core.NewID(),
		Description:   "x",
		Amount:        1,
		Category:      core.CategoryVariable,
		PaymentMethod: core.PaymentPix,
		Date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.Update(context.Background(), e); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestDeletePublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewService(store, pub)

	d := testDraft()
	d.Category = core.CategoryInvestment
	created, err := svc.Add(context.Background(), d)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Delete(context.Background(), created[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatalf("entry not removed")
	}
	if len(pub.deleted) != 1 {
		t.Fatalf("delete not published")
	}
}

func TestListSortedDescending(t *testing.T) {
	store := &fakeStore{entries: []core.Entry{
		{ID: "a", Description: "a", Amount: 1, Category: core.CategoryFixed, PaymentMethod: core.PaymentPix, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Description: "b", Amount: 1, Category: core.CategoryFixed, PaymentMethod: core.PaymentPix, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Description: "c", Amount: 1, Category: core.CategoryFixed, PaymentMethod: core.PaymentPix, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(store, nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Fatalf("wrong order: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestMonthAggregates(t *testing.T) {
	store := &fakeStore{entries: []core.Entry{
		{ID: "a", Description: "sal", Amount: 5000, Category: core.CategoryRevenue, PaymentMethod: core.PaymentPix, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Description: "alu", Amount: 1500, Category: core.CategoryFixed, PaymentMethod: core.PaymentPix, Date: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Description: "old", Amount: 999, Category: core.CategoryFixed, PaymentMethod: core.PaymentPix, Date: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(store, nil)

	filtered, totals, breakdown, err := svc.Month(context.Background(), 2024, time.May)
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(filtered))
	}
	if totals.Revenue != 5000 || totals.Expenses != 1500 || totals.Balance != 3500 {
		t.Fatalf("totals = %+v", totals)
	}
	if len(breakdown) != len(core.ExpenseCategories()) {
		t.Fatalf("breakdown misses zero categories: %+v", breakdown)
	}
}
