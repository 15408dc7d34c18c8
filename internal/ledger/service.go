package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zenfin/internal/core"
)

// Service orchestrates entry mutations: expansion, identifier assignment,
// local persistence and change publication. The entry collection is owned by
// the local store; derived views are always recomputed from it.
type Service struct {
	store     EntryStore
	publisher ChangePublisher
}

func NewService(store EntryStore, publisher ChangePublisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// Add validates the draft, expands it into one or more dated entries and
// persists the batch. Publication failures are logged, never surfaced: the
// entries are already safe locally.
func (s *Service) Add(ctx context.Context, d core.Draft) ([]core.Entry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	entries := core.Expand(d)
	if err := s.store.SaveEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("save entries: %w", err)
	}

	slog.InfoContext(ctx, "Entries created",
		"description", d.Description,
		"category", string(d.Category),
		"count", len(entries))

	s.publishChanged(ctx, entryIDs(entries))
	return entries, nil
}

// Update replaces exactly one entry by id with the given field values. An
// edit never triggers expansion; the identifier is preserved.
func (s *Service) Update(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetEntry(ctx, e.ID); err != nil {
		return fmt.Errorf("lookup entry %s: %w", e.ID, err)
	}
	if err := s.store.ReplaceEntry(ctx, e); err != nil {
		return fmt.Errorf("replace entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry updated", "id", e.ID, "description", e.Description)

	s.publishChanged(ctx, []string{e.ID})
	return nil
}

// Delete removes one entry by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)

	if s.publisher != nil {
		if err := s.publisher.PublishEntriesDeleted(ctx, []string{id}); err != nil {
			slog.WarnContext(ctx, "Failed to publish delete message", "id", id, "error", err)
		}
	}
	return nil
}

// List returns the full collection, newest first.
func (s *Service) List(ctx context.Context) ([]core.Entry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	core.SortByDateDesc(entries)
	return entries, nil
}

// Month returns the entries, totals and category breakdown for one period.
func (s *Service) Month(ctx context.Context, year int, month time.Month) ([]core.Entry, core.Summary, []core.CategoryAmount, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, core.Summary{}, nil, err
	}
	filtered := core.FilterByPeriod(entries, year, month)
	return filtered, core.Totals(filtered), core.CategoryTotals(filtered), nil
}

// Trend returns the six-month revenue/expense series ending at ref.
func (s *Service) Trend(ctx context.Context, ref time.Time) ([]core.TrendPoint, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return core.Trend(entries, ref, 6), nil
}

func (s *Service) publishChanged(ctx context.Context, ids []string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntriesChanged(ctx, ids); err != nil {
		slog.WarnContext(ctx, "Failed to publish sync message", "ids", len(ids), "error", err)
	}
}

func entryIDs(entries []core.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
