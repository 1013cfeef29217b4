// Package refreshtokens stores the rotating refresh tokens of the identity
// backend.
package refreshtokens

import (
	"context"
	"time"

	"github.com/smolnikov/readhub/internal/server/models"
)

type Repository interface {
	// Create inserts a token for userID expiring after validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Get returns the token record, or common.ErrorNotFound.
	Get(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a single token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteForUser removes every token of userID (logout everywhere).
	DeleteForUser(ctx context.Context, userID string) error
}
