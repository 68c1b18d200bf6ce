package repository

import (
	"context"
	"encoding/json"
)

// SnapshotFunc receives the complete current value at a subscribed
// path. Delivery is at-least-once full-replacement: the callback fires
// immediately with the current value and again after every change, and
// each emission is the whole value, never a diff. An absent value is
// delivered as the JSON literal null.
type SnapshotFunc func(data json.RawMessage)

// RealtimeStore is the push-subscription key-value tree the chat and
// notification layers run against. Paths are slash-separated
// ("chats/{id}/messages"). Push appends under a store-generated key
// whose lexicographic order preserves append order.
type RealtimeStore interface {
	Get(ctx context.Context, path string, into interface{}) error
	Set(ctx context.Context, path string, value interface{}) error
	Push(ctx context.Context, path string, value interface{}) (string, error)

	// Subscribe registers fn at path and returns a function that
	// cancels the subscription. Cancelling the supplied context also
	// ends delivery.
	Subscribe(ctx context.Context, path string, fn SnapshotFunc) (func(), error)
}
