// Package metadata implements a small key/value store used for the
// current-user profile cache and other client-local state.
package metadata

import "context"

// Keys used by the client core.
const (
	KeyCurrentUser     = "current_user"      // JSON snapshot of the signed-in profile
	KeyCurrentUserKind = "current_user_kind" // account kind of the signed-in profile
)

// Repository is a simple byte-valued key/value store.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
