package ledger

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"zenfin/internal/core"
)

// SyncStatus is the tri-state outcome reported to the UI.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// Coordinator runs at most one remote sync attempt at a time. A trigger while
// an attempt is in flight is a no-op, not queued. After an attempt finishes
// the status is held for a short display window and then reset to idle.
type Coordinator struct {
	store  EntryStore
	syncer RemoteSyncer

	attemptTimeout time.Duration
	successHold    time.Duration
	errorHold      time.Duration

	mu       sync.Mutex
	inFlight bool
	status   SyncStatus
	reset    *time.Timer
}

// NewCoordinator builds a coordinator whose attempts are cut off after
// attemptTimeout. A non-positive timeout falls back to 30 seconds.
func NewCoordinator(store EntryStore, syncer RemoteSyncer, attemptTimeout time.Duration) *Coordinator {
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}
	return &Coordinator{
		store:          store,
		syncer:         syncer,
		attemptTimeout: attemptTimeout,
		successHold:    3 * time.Second,
		errorHold:      4 * time.Second,
		status:         SyncIdle,
	}
}

// Status returns the current sync status.
func (c *Coordinator) Status() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Syncing reports whether an attempt is in flight.
func (c *Coordinator) Syncing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Trigger starts a sync attempt in the background. It returns false when no
// syncer is configured or an attempt is already running.
func (c *Coordinator) Trigger(ctx context.Context) bool {
	if c.syncer == nil {
		return false
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	c.status = SyncIdle
	c.mu.Unlock()

	go c.run(context.WithoutCancel(ctx))
	return true
}

func (c *Coordinator) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	err := c.attempt(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		slog.ErrorContext(ctx, "Remote sync failed", "error", err)
		c.status = SyncError
		c.reset = time.AfterFunc(c.errorHold, c.resetToIdle)
		return
	}
	c.status = SyncSuccess
	c.reset = time.AfterFunc(c.successHold, c.resetToIdle)
}

func (c *Coordinator) attempt(ctx context.Context) error {
	entries, err := c.store.ListEntries(ctx)
	if err != nil {
		return err
	}
	// Remote rows read better in chronological order.
	sortByDateAsc(entries)
	if err := c.syncer.Upsert(ctx, entries); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Remote sync completed", "entries", len(entries))
	return nil
}

func (c *Coordinator) resetToIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.status = SyncIdle
	c.reset = nil
}

func sortByDateAsc(entries []core.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
