package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"zenfin/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "zenfin.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleEntry(id string, day int) core.Entry {
	return core.Entry{
		ID:            id,
		Description:   "Supermercado",
		Amount:        123.45,
		Category:      core.CategoryVariable,
		PaymentMethod: core.PaymentDebitCard,
		Date:          time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndListEntries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := []core.Entry{sampleEntry("a", 1), sampleEntry("b", 20), sampleEntry("c", 10)}
	if err := repo.SaveEntries(ctx, entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Fatalf("wrong order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Amount != 123.45 || got[0].Category != core.CategoryVariable {
		t.Fatalf("fields not round-tripped: %+v", got[0])
	}
}

func TestGetEntryNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEntry(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveEntries(ctx, []core.Entry{sampleEntry("a", 1), sampleEntry("b", 2)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	edited := sampleEntry("a", 5)
	edited.Description = "Feira"
	edited.Amount = 99.9
	if err := repo.ReplaceEntry(ctx, edited); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.GetEntry(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Feira" || got.Amount != 99.9 || got.Date.Day() != 5 {
		t.Fatalf("entry not replaced: %+v", got)
	}

	other, err := repo.GetEntry(ctx, "b")
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if other.Description != "Supermercado" {
		t.Fatalf("untouched entry changed: %+v", other)
	}

	if err := repo.ReplaceEntry(ctx, sampleEntry("missing", 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveEntries(ctx, []core.Entry{sampleEntry("a", 1)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.DeleteEntry(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteEntry(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 sample entries, got %d", len(first))
	}

	// A second call must not duplicate the samples.
	if err := repo.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("seed again: %v", err)
	}
	second, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(second) != 4 {
		t.Fatalf("seed ran twice: %d entries", len(second))
	}
}

func TestProfileDefaultsAndRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if got := repo.Profile(ctx); got != core.DefaultProfile() {
		t.Fatalf("expected default profile, got %+v", got)
	}

	p := core.UserProfile{Name: "Maria", PhotoURL: "https://example.com/m.png"}
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	if got := repo.Profile(ctx); got != p {
		t.Fatalf("profile = %+v, want %+v", got, p)
	}

	// Saving again overwrites the single row.
	p.Name = "Maria Silva"
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save profile again: %v", err)
	}
	if got := repo.Profile(ctx); got.Name != "Maria Silva" {
		t.Fatalf("profile not overwritten: %+v", got)
	}
}

func TestVoicesDefaultsAndRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// A fresh database carries the migration-seeded defaults.
	if got := repo.Voices(ctx); len(got) != len(core.DefaultVoices()) {
		t.Fatalf("expected seeded default voices, got %+v", got)
	}

	voices := []core.VoiceMapping{{Description: "Farmácia", Icon: "health"}}
	if err := repo.SaveVoices(ctx, voices); err != nil {
		t.Fatalf("save voices: %v", err)
	}
	got := repo.Voices(ctx)
	if len(got) != 1 || got[0].Description != "Farmácia" || got[0].Icon != "health" {
		t.Fatalf("voices = %+v", got)
	}
}

func TestVoicesRemovedStayRemoved(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveVoices(ctx, []core.VoiceMapping{}); err != nil {
		t.Fatalf("clear voices: %v", err)
	}
	// Removing every mapping must not resurrect the defaults on read.
	if got := repo.Voices(ctx); len(got) != 0 {
		t.Fatalf("voices after clearing = %+v, want none", got)
	}
}

func TestPreferences(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if got := repo.Preference(ctx, "theme"); got != "" {
		t.Fatalf("missing preference should read empty, got %q", got)
	}
	if err := repo.SavePreference(ctx, "theme", "dark"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SavePreference(ctx, "theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := repo.Preference(ctx, "theme"); got != "light" {
		t.Fatalf("preference = %q, want light", got)
	}
}
