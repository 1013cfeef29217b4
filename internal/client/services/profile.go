package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/client/repositories/metadata"
	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/dbx"
)

// displayIDAttempts bounds the uniqueness retry loop for generated
// 6-digit display ids. Collisions past the limit are accepted; the id is a
// user-facing label, not a key.
const displayIDAttempts = 5

// UpdateProfile merges the patch into the signed-in profile and persists
// the result to every view that is authoritative for the account kind.
// Omitted patch fields are untouched; fields explicitly set (including to an
// empty string) are overwritten. The in-memory profile is only replaced
// after persistence succeeded, so a failed call leaves no partial state.
func (s *AuthService) UpdateProfile(ctx context.Context, patch *models.ProfilePatch) error {
	current, err := s.requireSession()
	if err != nil {
		return err
	}

	updated := current.Clone()
	patch.Apply(updated)

	privacyChanged := patch != nil && patch.Privacy != nil
	if err := s.persistProfile(ctx, updated, privacyChanged); err != nil {
		s.logger.Error(ctx, "profile update failed", "error", err.Error())
		return err
	}

	return s.commit(ctx, updated, s.kind)
}

// ReloadProfile re-reads the signed-in profile from whichever store is
// authoritative for the account kind, replacing the in-memory copy. A page
// reload reconstructs identical state through this path.
func (s *AuthService) ReloadProfile(ctx context.Context) error {
	current, err := s.requireSession()
	if err != nil {
		return err
	}

	var profile *models.Profile

	switch s.kind {
	case models.AccountRemote:
		profile, err = s.backend.FetchProfile(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("profile load error: %w", err)
		}

	case models.AccountLocalShadow:
		account, err := s.store.Accounts.GetByUsername(ctx, current.Username)
		if err != nil {
			return fmt.Errorf("account load error: %w", err)
		}
		profile = account.Profile.Clone()

	case models.AccountSeededDemo:
		// Seeded authors are read-only; reload restores from the cache,
		// which holds any in-memory edits made this session.
		cached, err := s.readCurrentUserCache(ctx)
		if err != nil {
			return err
		}
		profile = cached

	default:
		return common.ErrorInternal
	}

	profile.Normalize()
	return s.commit(ctx, profile, s.kind)
}

// persistProfile writes the profile to the stores that are authoritative
// for the current account kind. Failures surface before any local view has
// been touched.
//
//   - remote: profile table first (and privacy table when the privacy
//     sub-structure changed), then the local offline snapshot.
//   - local shadow: replace the account repository record.
//   - seeded demo: no durable writes; the in-memory cache is the only view.
func (s *AuthService) persistProfile(ctx context.Context, profile *models.Profile, privacyChanged bool) error {
	switch {
	case s.kind.PersistsRemotely():
		if err := s.backend.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("profile save error: %w", err)
		}
		if privacyChanged {
			if err := s.backend.SavePrivacy(ctx, profile.ID, &profile.Privacy); err != nil {
				return fmt.Errorf("privacy save error: %w", err)
			}
		}
		if err := s.updateAccountSnapshot(ctx, profile); err != nil {
			s.logger.Warn(ctx, "failed to update offline snapshot", "error", err.Error())
		}
		return nil

	case s.kind.PersistsLocally():
		return s.updateAccountSnapshot(ctx, profile)

	case s.kind == models.AccountSeededDemo:
		return nil

	default:
		return common.ErrorInternal
	}
}

// updateAccountSnapshot replaces the account repository record for the
// profile's username, preserving the stored credential record.
func (s *AuthService) updateAccountSnapshot(ctx context.Context, profile *models.Profile) error {
	account, err := s.store.Accounts.GetByUsername(ctx, profile.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// No snapshot yet; nothing to preserve.
			account = &models.Account{Kind: models.AccountLocalShadow}
		} else {
			return fmt.Errorf("account load error: %w", err)
		}
	}

	account.Profile = *profile.Clone()
	if err := s.store.Accounts.Upsert(ctx, account); err != nil {
		return fmt.Errorf("account save error: %w", err)
	}
	return nil
}

// saveOfflineSnapshot stores the credential material and profile snapshot
// after a successful remote login or registration.
func (s *AuthService) saveOfflineSnapshot(ctx context.Context, profile *models.Profile, salt, verifier []byte) error {
	account := &models.Account{
		Kind:       models.AccountLocalShadow,
		Profile:    *profile.Clone(),
		Credential: &models.CredentialRecord{Salt: salt, Verifier: verifier},
	}
	return s.store.Accounts.Upsert(ctx, account)
}

// writeCurrentUserCache stores the profile snapshot and the account kind in
// one transaction, so the cache never holds one key without the other.
func (s *AuthService) writeCurrentUserCache(ctx context.Context) error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := metadata.NewSQLiteRepository(tx)
		if err := md.Set(ctx, metadata.KeyCurrentUser, data); err != nil {
			return err
		}
		return md.Set(ctx, metadata.KeyCurrentUserKind, []byte(s.kind.String()))
	})
}

func (s *AuthService) readCurrentUserCache(ctx context.Context) (*models.Profile, error) {
	data, err := s.store.Metadata.Get(ctx, metadata.KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, common.ErrorNotFound
	}
	profile := &models.Profile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return profile, nil
}

func (s *AuthService) clearCurrentUserCache(ctx context.Context) error {
	return dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := metadata.NewSQLiteRepository(tx)
		if err := md.Delete(ctx, metadata.KeyCurrentUser); err != nil {
			return err
		}
		return md.Delete(ctx, metadata.KeyCurrentUserKind)
	})
}

// generateDisplayID produces a 6-digit numeric id, retrying a few times
// against the local repository to avoid obvious collisions.
func (s *AuthService) generateDisplayID(ctx context.Context) (string, error) {
	var id string
	for range displayIDAttempts {
		id = randomDisplayID()
		exists, err := s.store.Accounts.DisplayIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return id, nil
}

func randomDisplayID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	n := binary.BigEndian.Uint64(b[:]) % 900000
	return fmt.Sprintf("%06d", 100000+n)
}
