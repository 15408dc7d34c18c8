// Package worker drives the background sync pipeline: AMQP change messages
// come in, entries go out to the remote store.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"zenfin/internal/amqp"
	"zenfin/internal/core"
)

// EntrySource reads entries from the local store.
type EntrySource interface {
	ListEntries(ctx context.Context) ([]core.Entry, error)
	GetEntries(ctx context.Context, ids []string) ([]core.Entry, error)
}

// RemoteWriter pushes entries to the remote store with idempotent upsert.
type RemoteWriter interface {
	Upsert(ctx context.Context, entries []core.Entry) error
}

// RemoteDeleter removes entries from the remote store by id. Optional: a
// target that rewrites the full collection on every upsert (the spreadsheet
// export) has no use for it.
type RemoteDeleter interface {
	Delete(ctx context.Context, ids []string) error
}

// SyncWorker handles synchronization of entries from SQLite to the remote store.
type SyncWorker struct {
	source  EntrySource
	remote  RemoteWriter
	deleter RemoteDeleter
}

func NewSyncWorker(source EntrySource, remote RemoteWriter, deleter RemoteDeleter) *SyncWorker {
	return &SyncWorker{
		source:  source,
		remote:  remote,
		deleter: deleter,
	}
}

// HandleMessage processes a single entry sync message from AMQP.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"operation", msg.Operation,
		"ids", len(msg.IDs))

	switch msg.Operation {
	case amqp.OpUpsert:
		return w.handleUpsert(ctx, msg.IDs)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg.IDs)
	default:
		// Unknown operations are dropped, not requeued: a newer producer
		// would otherwise wedge the queue.
		slog.WarnContext(ctx, "Skipping message with unknown operation",
			"operation", msg.Operation)
		return nil
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, ids []string) error {
	entries, err := w.source.GetEntries(ctx, ids)
	if err != nil {
		return fmt.Errorf("get entries from storage: %w", err)
	}

	// Ids deleted locally between publish and consume simply resolve to
	// fewer rows; the delete message for them is already in flight.
	if len(entries) == 0 {
		slog.WarnContext(ctx, "No entries found for upsert message", "ids", len(ids))
		return nil
	}

	if err := w.remote.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("upsert entries: %w", err)
	}

	slog.InfoContext(ctx, "Successfully synced entries", "count", len(entries))
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, ids []string) error {
	if w.deleter != nil {
		if err := w.deleter.Delete(ctx, ids); err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}
		slog.InfoContext(ctx, "Successfully deleted entries from remote", "count", len(ids))
		return nil
	}

	// Without id-based deletion the remote is brought back in line by
	// rewriting the full collection.
	return w.Resync(ctx)
}

// Resync pushes the whole local collection to the remote store. Used at
// startup to recover from missed messages or worker downtime, and as the
// delete fallback for full-rewrite targets.
func (w *SyncWorker) Resync(ctx context.Context) error {
	entries, err := w.source.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries for resync: %w", err)
	}

	if err := w.remote.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("resync entries: %w", err)
	}

	slog.InfoContext(ctx, "Resync completed", "count", len(entries))
	return nil
}
