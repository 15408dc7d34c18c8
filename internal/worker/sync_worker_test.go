package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"zenfin/internal/amqp"
	"zenfin/internal/core"
)

type fakeSource struct {
	entries []core.Entry
	err     error
}

func (f *fakeSource) ListEntries(ctx context.Context) ([]core.Entry, error) {
	return f.entries, f.err
}

func (f *fakeSource) GetEntries(ctx context.Context, ids []string) ([]core.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Entry
	for _, id := range ids {
		for _, e := range f.entries {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeRemote struct {
	upserted [][]core.Entry
	deleted  [][]string
	err      error
}

func (f *fakeRemote) Upsert(ctx context.Context, entries []core.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, entries)
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, ids []string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, ids)
	return nil
}

func testEntry(id string) core.Entry {
	return core.Entry{
		ID:            id,
		Description:   "Supermercado",
		Amount:        150,
		Category:      core.CategoryVariable,
		PaymentMethod: core.PaymentPix,
		Date:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleMessageUpsert(t *testing.T) {
	source := &fakeSource{entries: []core.Entry{testEntry("a"), testEntry("b"), testEntry("c")}}
	remote := &fakeRemote{}
	w := NewSyncWorker(source, remote, remote)

	msg := amqp.NewEntrySyncMessage(amqp.OpUpsert, []string{"a", "c"})
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(remote.upserted) != 1 {
		t.Fatalf("got %d upsert calls, want 1", len(remote.upserted))
	}
	if got := len(remote.upserted[0]); got != 2 {
		t.Fatalf("upserted %d entries, want 2", got)
	}
	if remote.upserted[0][0].ID != "a" || remote.upserted[0][1].ID != "c" {
		t.Errorf("upserted ids = %q, %q; want a, c", remote.upserted[0][0].ID, remote.upserted[0][1].ID)
	}
}

func TestHandleMessageUpsertUnknownIDs(t *testing.T) {
	source := &fakeSource{}
	remote := &fakeRemote{}
	w := NewSyncWorker(source, remote, remote)

	msg := amqp.NewEntrySyncMessage(amqp.OpUpsert, []string{"gone"})
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(remote.upserted) != 0 {
		t.Errorf("got %d upsert calls for unknown ids, want 0", len(remote.upserted))
	}
}

func TestHandleMessageDelete(t *testing.T) {
	source := &fakeSource{}
	remote := &fakeRemote{}
	w := NewSyncWorker(source, remote, remote)

	msg := amqp.NewEntrySyncMessage(amqp.OpDelete, []string{"a", "b"})
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(remote.deleted) != 1 || len(remote.deleted[0]) != 2 {
		t.Fatalf("deleted calls = %v, want one call with two ids", remote.deleted)
	}
}

func TestHandleMessageDeleteWithoutDeleter(t *testing.T) {
	source := &fakeSource{entries: []core.Entry{testEntry("a"), testEntry("b")}}
	remote := &fakeRemote{}
	w := NewSyncWorker(source, remote, nil)

	msg := amqp.NewEntrySyncMessage(amqp.OpDelete, []string{"a"})
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	// Full-rewrite fallback: the whole remaining collection goes out.
	if len(remote.upserted) != 1 || len(remote.upserted[0]) != 2 {
		t.Fatalf("fallback upsert = %v, want one call with the full collection", remote.upserted)
	}
}

func TestHandleMessageUnknownOperation(t *testing.T) {
	remote := &fakeRemote{}
	w := NewSyncWorker(&fakeSource{}, remote, remote)

	msg := amqp.NewEntrySyncMessage("compact", []string{"a"})
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown operation should be dropped, got error %v", err)
	}
	if len(remote.upserted) != 0 || len(remote.deleted) != 0 {
		t.Error("unknown operation must not touch the remote")
	}
}

func TestHandleMessageRemoteFailure(t *testing.T) {
	source := &fakeSource{entries: []core.Entry{testEntry("a")}}
	remote := &fakeRemote{err: errors.New("connection refused")}
	w := NewSyncWorker(source, remote, remote)

	msg := amqp.NewEntrySyncMessage(amqp.OpUpsert, []string{"a"})
	if err := w.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error when remote upsert fails")
	}
}

func TestResync(t *testing.T) {
	source := &fakeSource{entries: []core.Entry{testEntry("a"), testEntry("b"), testEntry("c")}}
	remote := &fakeRemote{}
	w := NewSyncWorker(source, remote, remote)

	if err := w.Resync(context.Background()); err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if len(remote.upserted) != 1 || len(remote.upserted[0]) != 3 {
		t.Fatalf("resync upserted %v, want one call with three entries", remote.upserted)
	}
}
