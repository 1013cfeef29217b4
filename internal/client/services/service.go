// Package services contains the application services of the reader client.
// This file defines the auth service: the single entry point for all
// identity, social-graph and privacy mutations.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smolnikov/readhub/internal/client/backend"
	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/client/session"
	"github.com/smolnikov/readhub/internal/client/store"
	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/logging"
)

// ErrLocalDataNotAvailable is returned by the offline login path when no
// local account record exists for the requested username.
var ErrLocalDataNotAvailable = errors.New("local account data not available")

// AuthService is the facade mediating every profile, session and privacy
// mutation. The UI issues one operation at a time and awaits its result, so
// the service performs no internal locking over the current profile.
//
// Failure contract: expected failures come back as sentinel errors
// (common.ErrorUnauthorized, common.ErrorNotFound, validation errors) and
// never as panics. No operation leaves the profile, the session store or the
// account repository partially updated.
type AuthService struct {
	backend  backend.Client
	store    *store.Store
	sessions *session.Store
	logger   logging.Logger

	current *models.Profile
	kind    models.AccountKind
}

// NewAuthService constructs the facade bound to the given backend client,
// local store and session store.
func NewAuthService(b backend.Client, st *store.Store, sessions *session.Store, logger logging.Logger) *AuthService {
	return &AuthService{
		backend:  b,
		store:    st,
		sessions: sessions,
		logger:   logger,
	}
}

// MapAddress resolves a user-facing identifier to the address form the
// identity backend understands. Identifiers already containing '@' are used
// verbatim; plain usernames get the synthetic domain appended.
func MapAddress(identifier string) string {
	if strings.Contains(identifier, "@") {
		return identifier
	}
	return identifier + "@" + common.SyntheticAddressDomain
}

// CurrentUser returns a copy of the signed-in profile, or nil when
// unauthenticated.
func (s *AuthService) CurrentUser() *models.Profile {
	if s.sessions.Read() == nil {
		return nil
	}
	return s.current.Clone()
}

// IsAuthenticated reports whether a live session exists.
func (s *AuthService) IsAuthenticated() bool {
	return s.sessions.Read() != nil && s.current != nil
}

// AccountKind returns the kind of the signed-in account. Only meaningful
// while authenticated.
func (s *AuthService) AccountKind() models.AccountKind {
	return s.kind
}

// Ping proxies a liveness check to the identity backend.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases resources held by the underlying backend client.
func (s *AuthService) Close() error {
	return s.backend.Close()
}

// requireSession returns the signed-in profile or common.ErrorUnauthorized.
// An expired session is cleared by the read, so the check also drops the
// in-memory profile when the deadline has passed.
func (s *AuthService) requireSession() (*models.Profile, error) {
	if s.sessions.Read() == nil {
		s.current = nil
		return nil, common.ErrorUnauthorized
	}
	if s.current == nil {
		return nil, common.ErrorUnauthorized
	}
	return s.current, nil
}

// commit installs profile as the current user and mirrors it into the
// current-user cache. Called only after authoritative persistence succeeded.
func (s *AuthService) commit(ctx context.Context, profile *models.Profile, kind models.AccountKind) error {
	s.current = profile
	s.kind = kind
	if err := s.writeCurrentUserCache(ctx); err != nil {
		return fmt.Errorf("failed to cache current user: %w", err)
	}
	return nil
}
