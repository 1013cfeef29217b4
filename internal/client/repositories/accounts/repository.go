// Package accounts implements the local account repository: a
// username-keyed store of shadow accounts (credential record + profile
// snapshot) used when no backend account exists.
package accounts

import (
	"context"

	"github.com/smolnikov/readhub/internal/client/models"
)

// Repository stores local shadow accounts keyed by username. Writes replace
// the whole record, so readers never observe a partially updated account.
type Repository interface {
	// Upsert creates or replaces the account record for its username.
	Upsert(ctx context.Context, account *models.Account) error

	// GetByUsername returns the account for username, or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetByID scans the repository for an account with the given profile id,
	// or returns common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// DisplayIDExists reports whether any stored account already uses the
	// given 6-digit display id.
	DisplayIDExists(ctx context.Context, displayID string) (bool, error)

	// Delete removes the account record for username. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, username string) error
}
