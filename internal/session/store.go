// Package session holds per-session shop state: the cart and the
// current-order pointer. Values are read at the start of an operation and
// written back explicitly; nothing here is ambient or global.
package session

import "context"

// Store is a JSON-value store keyed by session-derived keys. Get reports
// found=false when the key does not exist.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Put(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
