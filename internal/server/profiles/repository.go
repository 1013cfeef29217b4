// Package profiles stores the profile table and the privacy-settings table.
// The two are separate rows updated independently; the API merges them into
// one document for the client.
package profiles

import (
	"context"

	"github.com/smolnikov/readhub/internal/server/models"
)

type Repository interface {
	// CreateDefaults inserts empty profile and privacy rows for userID.
	// New accounts allow comments globally.
	CreateDefaults(ctx context.Context, userID string) error

	// GetProfile returns the profile row for userID, or common.ErrorNotFound.
	GetProfile(ctx context.Context, userID string) (*models.ProfileRecord, error)

	// SaveProfile replaces the profile row for record.UserID.
	SaveProfile(ctx context.Context, record *models.ProfileRecord) error

	// GetPrivacy returns the privacy row for userID, or common.ErrorNotFound.
	GetPrivacy(ctx context.Context, userID string) (*models.PrivacyRecord, error)

	// SavePrivacy replaces the privacy row for record.UserID.
	SavePrivacy(ctx context.Context, record *models.PrivacyRecord) error
}
