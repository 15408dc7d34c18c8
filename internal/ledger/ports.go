package ledger

import (
	"context"

	"zenfin/internal/core"
)

// Ports for outbound adapters.
type (
	// EntryStore is the durable local home of the entry collection.
	EntryStore interface {
		// ListEntries returns the full collection, newest first.
		ListEntries(ctx context.Context) ([]core.Entry, error)
		GetEntry(ctx context.Context, id string) (core.Entry, error)
		SaveEntries(ctx context.Context, entries []core.Entry) error
		ReplaceEntry(ctx context.Context, e core.Entry) error
		DeleteEntry(ctx context.Context, id string) error
	}

	// SettingsStore persists everything that is not an entry: profile, voice
	// mappings and named preferences (theme, sync endpoint). Loads fall back
	// to defaults instead of failing.
	SettingsStore interface {
		Profile(ctx context.Context) core.UserProfile
		SaveProfile(ctx context.Context, p core.UserProfile) error
		Voices(ctx context.Context) []core.VoiceMapping
		SaveVoices(ctx context.Context, voices []core.VoiceMapping) error
		Preference(ctx context.Context, key string) string
		SavePreference(ctx context.Context, key, value string) error
	}

	// ChangePublisher notifies the sync pipeline about local mutations.
	ChangePublisher interface {
		PublishEntriesChanged(ctx context.Context, ids []string) error
		PublishEntriesDeleted(ctx context.Context, ids []string) error
	}

	// RemoteSyncer pushes the collection to a remote store with an
	// idempotent upsert keyed by entry id.
	RemoteSyncer interface {
		Upsert(ctx context.Context, entries []core.Entry) error
	}
)

// Preference keys understood by the settings store.
//
// PrefSyncEndpoint is a user-facing label persisted for the settings screen;
// the actual sync target is fixed at process start from the environment and
// does not re-read this value.
const (
	PrefTheme        = "theme"
	PrefSyncEndpoint = "sync_endpoint"
)
