package core

import "github.com/oklog/ulid/v2"

// NewID returns a collision-resistant opaque identifier for a new entry.
// ULIDs sort by creation time, which keeps exported data readable; no
// cryptographic strength is required here.
func NewID() string {
	return ulid.Make().String()
}
