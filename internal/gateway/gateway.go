// Package gateway abstracts the document store the storefront keeps
// its shared state in. Subscribers receive full-collection snapshots on
// every change, never diffs; callers must swap their in-memory copy
// wholesale.
package gateway

import "context"

// Document is one record of a collection, its body kept as raw JSON so
// each domain package decodes its own shape.
type Document struct {
	ID   string
	Data []byte
}

// Snapshot is a full, point-in-time replica of a collection.
type Snapshot []Document

// Unsubscribe tears down a live subscription. Normal operation never
// calls it; subscriptions run for the lifetime of the session.
type Unsubscribe func()

type Gateway interface {
	// CreateRecord stores data under a freshly minted identity and
	// returns it.
	CreateRecord(ctx context.Context, collection string, data any) (string, error)

	// PutRecord writes data at id. With merge set, only the fields
	// present in data are updated; otherwise the record is replaced
	// wholesale. The record is created if it does not exist.
	PutRecord(ctx context.Context, collection, id string, data any, merge bool) error

	// DeleteRecord removes the record at id. Deleting a missing record
	// is not an error.
	DeleteRecord(ctx context.Context, collection, id string) error

	// Subscribe delivers an initial snapshot and then one snapshot per
	// change until unsubscribed. onError is informational; delivery
	// continues where possible and already-delivered state stays valid.
	Subscribe(ctx context.Context, collection string, onChange func(Snapshot), onError func(error)) (Unsubscribe, error)
}
