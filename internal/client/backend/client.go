// Package backend defines the narrow contract the client core has with the
// remote identity backend, and its HTTP implementation.
//
// The backend's account model is address-based; the facade maps human-chosen
// usernames to synthetic addresses before calling in here. Credentials follow
// the cryptox salt/verifier scheme, so the plain password is never sent.
package backend

import (
	"context"
	"errors"

	"github.com/smolnikov/readhub/internal/client/models"
)

var (
	// ErrUnavailable is returned when the backend cannot be reached. The
	// facade falls back to local shadow accounts on this error.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned for rejected credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when registration hits a uniqueness
	// constraint (address or username already taken).
	ErrConflict = errors.New("already registered")
)

// Identity is the result of a successful sign-in or sign-up.
type Identity struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// SignUpMetadata tags a new backend identity with its platform attributes.
type SignUpMetadata struct {
	Username  string
	DisplayID string
}

// Client is the full surface the client core consumes from the identity
// backend. All methods honor context cancellation.
type Client interface {
	// SignUp creates a new identity for address with the given credential
	// material and metadata.
	SignUp(ctx context.Context, address string, salt, verifier []byte, meta SignUpMetadata) (*Identity, error)

	// GetSalt returns the credential salt stored for address. Backends
	// return a random salt for unknown addresses so callers cannot probe
	// which addresses exist.
	GetSalt(ctx context.Context, address string) ([]byte, error)

	// SignIn authenticates address with a verifier candidate.
	SignIn(ctx context.Context, address string, verifierCandidate []byte) (*Identity, error)

	// SignOut invalidates the current token pair.
	SignOut(ctx context.Context) error

	// FetchProfile reads the profile-table record for userID, merged with
	// its privacy-settings-table record.
	FetchProfile(ctx context.Context, userID string) (*models.Profile, error)

	// SaveProfile writes the profile-table record for the profile's id.
	SaveProfile(ctx context.Context, profile *models.Profile) error

	// SavePrivacy writes the privacy-settings-table record for userID.
	SavePrivacy(ctx context.Context, userID string, privacy *models.PrivacySettings) error

	// MediaUploadURL returns a presigned URL the caller can PUT an avatar
	// or cover image to, and the public URL it will be served from.
	MediaUploadURL(ctx context.Context, kind string) (uploadURL string, publicURL string, err error)

	// Ping checks backend liveness.
	Ping(ctx context.Context) error

	// Close releases client resources.
	Close() error
}
