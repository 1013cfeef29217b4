package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smolnikov/readhub/internal/client/backend"
	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/cryptox"
)

// Login authenticates identifier/password. The remote backend is tried
// first; when it is unreachable the service falls back to verifier-based
// offline login against the local account repository.
//
// A failed attempt returns common.ErrorUnauthorized (or a wrapped transport
// error) and leaves any existing session and profile untouched.
//
// Identifiers matching a seeded demo author bypass the backend entirely and
// authenticate with DemoPassword.
func (s *AuthService) Login(ctx context.Context, identifier string, password []byte) error {
	if seed := seededAuthorByUsername(identifier); seed != nil {
		return s.loginSeeded(ctx, seed, password)
	}

	address := MapAddress(identifier)

	salt, err := s.backend.GetSalt(ctx, address)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			s.logger.Warn(ctx, "backend unreachable, trying offline login", "identifier", identifier)
			return s.offlineLogin(ctx, identifier, password)
		}
		return fmt.Errorf("get salt error: %w", err)
	}

	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	verifier := cryptox.MakeVerifier(key)

	identity, err := s.backend.SignIn(ctx, address, verifier)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			return s.offlineLogin(ctx, identifier, password)
		}
		if errors.Is(err, backend.ErrUnauthorized) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("login error: %w", err)
	}

	profile, err := s.backend.FetchProfile(ctx, identity.UserID)
	if err != nil {
		return fmt.Errorf("profile load error: %w", err)
	}
	profile.Normalize()

	if _, err := s.sessions.Create(profile.ID); err != nil {
		return fmt.Errorf("session create error: %w", err)
	}
	if err := s.commit(ctx, profile, models.AccountRemote); err != nil {
		return err
	}

	// Snapshot credentials and profile locally so this account stays usable
	// when the backend is unreachable.
	if err := s.saveOfflineSnapshot(ctx, profile, salt, verifier); err != nil {
		s.logger.Warn(ctx, "failed to save offline snapshot", "error", err.Error())
	}

	s.logger.Info(ctx, "login successful", "user_id", profile.ID)
	return nil
}

// loginSeeded signs the user in as a seeded demo author. The seeded catalog
// stays read-only: edits live in the in-memory session and the current-user
// cache, never in the account repository or on the backend.
func (s *AuthService) loginSeeded(ctx context.Context, profile *models.Profile, password []byte) error {
	if string(password) != DemoPassword {
		return common.ErrorUnauthorized
	}

	if _, err := s.sessions.Create(profile.ID); err != nil {
		return fmt.Errorf("session create error: %w", err)
	}
	if err := s.commit(ctx, profile, models.AccountSeededDemo); err != nil {
		return err
	}

	s.logger.Info(ctx, "demo login successful", "user_id", profile.ID)
	return nil
}

// offlineLogin verifies the password against the locally stored credential
// record and restores the profile snapshot from the account repository.
func (s *AuthService) offlineLogin(ctx context.Context, identifier string, password []byte) error {
	account, err := s.store.Accounts.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrLocalDataNotAvailable
		}
		return fmt.Errorf("account lookup error: %w", err)
	}
	if account.Credential == nil {
		return ErrLocalDataNotAvailable
	}

	key := cryptox.DeriveKey(password, account.Credential.Salt)
	defer common.WipeByteArray(key)

	if !cryptox.CheckVerifier(account.Credential.Verifier, cryptox.MakeVerifier(key)) {
		return common.ErrorUnauthorized
	}

	profile := account.Profile.Clone()
	profile.Normalize()

	if _, err := s.sessions.Create(profile.ID); err != nil {
		return fmt.Errorf("session create error: %w", err)
	}
	if err := s.commit(ctx, profile, models.AccountLocalShadow); err != nil {
		return err
	}

	s.logger.Info(ctx, "offline login successful", "user_id", profile.ID)
	return nil
}

// Register creates a new account. Username and password formats are
// validated before any persistence is attempted. The backend is tried
// first; when unreachable, a local shadow account is created instead.
func (s *AuthService) Register(ctx context.Context, username string, password []byte) error {
	if !models.ValidUsername(username) {
		return common.ErrorInvalidUsernameFormat
	}
	if !models.ValidPassword(password) {
		return common.ErrorInvalidPasswordFormat
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	verifier := cryptox.MakeVerifier(key)

	displayID, err := s.generateDisplayID(ctx)
	if err != nil {
		return fmt.Errorf("display id error: %w", err)
	}

	address := MapAddress(username)
	identity, err := s.backend.SignUp(ctx, address, salt, verifier,
		backend.SignUpMetadata{Username: username, DisplayID: displayID})
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			s.logger.Warn(ctx, "backend unreachable, creating local account", "username", username)
			return s.registerLocal(ctx, username, displayID, salt, verifier)
		}
		if errors.Is(err, backend.ErrConflict) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("registration error: %w", err)
	}

	profile, err := s.backend.FetchProfile(ctx, identity.UserID)
	if err != nil {
		return fmt.Errorf("profile load error: %w", err)
	}
	profile.Normalize()

	if _, err := s.sessions.Create(profile.ID); err != nil {
		return fmt.Errorf("session create error: %w", err)
	}
	if err := s.commit(ctx, profile, models.AccountRemote); err != nil {
		return err
	}
	if err := s.saveOfflineSnapshot(ctx, profile, salt, verifier); err != nil {
		s.logger.Warn(ctx, "failed to save offline snapshot", "error", err.Error())
	}

	s.logger.Info(ctx, "registered", "user_id", profile.ID, "username", username)
	return nil
}

// registerLocal creates a shadow account that lives only in the local
// account repository. Username uniqueness is enforced within that keyspace.
func (s *AuthService) registerLocal(ctx context.Context, username, displayID string, salt, verifier []byte) error {
	if _, err := s.store.Accounts.GetByUsername(ctx, username); err == nil {
		return common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("account lookup error: %w", err)
	}

	profile := &models.Profile{
		ID:        uuid.NewString(),
		Username:  username,
		DisplayID: displayID,
		Privacy: models.PrivacySettings{
			Comments: models.CommentSettings{Global: true, PerBook: map[string]bool{}},
		},
	}

	account := &models.Account{
		Kind:       models.AccountLocalShadow,
		Profile:    *profile,
		Credential: &models.CredentialRecord{Salt: salt, Verifier: verifier},
	}
	if err := s.store.Accounts.Upsert(ctx, account); err != nil {
		return fmt.Errorf("account save error: %w", err)
	}

	if _, err := s.sessions.Create(profile.ID); err != nil {
		return fmt.Errorf("session create error: %w", err)
	}
	if err := s.commit(ctx, profile, models.AccountLocalShadow); err != nil {
		return err
	}

	s.logger.Info(ctx, "local account created", "user_id", profile.ID, "username", username)
	return nil
}

// Logout clears the session and the current-user cache. The underlying
// account record survives; only the proof of authentication is destroyed.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.kind.PersistsRemotely() {
		if err := s.backend.SignOut(ctx); err != nil && !errors.Is(err, backend.ErrUnavailable) {
			s.logger.Warn(ctx, "backend sign-out failed", "error", err.Error())
		}
	}

	s.sessions.Clear()
	s.current = nil

	if err := s.clearCurrentUserCache(ctx); err != nil {
		return fmt.Errorf("failed to clear cached user: %w", err)
	}
	return nil
}
