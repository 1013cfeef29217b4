// Package services contains the application services of the identity
// backend: account registration and login, token lifecycle, and profile
// persistence.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/smolnikov/readhub/internal/common"
	"github.com/smolnikov/readhub/internal/dbx"
	"github.com/smolnikov/readhub/internal/server/auth"
	"github.com/smolnikov/readhub/internal/server/config"
	"github.com/smolnikov/readhub/internal/server/models"
	"github.com/smolnikov/readhub/internal/server/shared/db"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService implements registration and the salt/verifier login protocol.
// The plain password never reaches the server; clients derive a key from it
// and send only a verifier.
type UserService struct {
	manager              db.RepositoryManager
	jwtSecret            []byte
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration
}

func NewUserService(manager db.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		manager:              manager,
		jwtSecret:            []byte(cfg.SecretKey),
		accessTokenValidity:  cfg.AccessTokenValidity,
		refreshTokenValidity: cfg.RefreshTokenValidity,
	}
}

// Register creates the user row together with its empty profile and default
// privacy rows in one transaction, then issues a token pair.
func (s *UserService) Register(ctx context.Context, address, username, displayID string, salt, verifier []byte) (*models.User, *TokenPair, error) {

	user := &models.User{
		Address:   address,
		Username:  username,
		DisplayID: displayID,
		Salt:      salt,
		Verifier:  verifier,
	}

	err := dbx.WithTxx(ctx, s.manager.Conn(), nil, func(ctx context.Context, tx *sqlx.Tx) error {
		created, err := s.manager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		return s.manager.Profiles(tx).CreateDefaults(ctx, created.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, common.ErrorAlreadyExists
		}
		return nil, nil, fmt.Errorf("error creating user: %v", err)
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

func (s *UserService) getRandomSalt() []byte {
	return common.GenerateRandByteArray(32)
}

// GetSalt returns the stored salt for address. Unknown addresses get a
// random salt so callers cannot probe which addresses exist.
func (s *UserService) GetSalt(ctx context.Context, address string) ([]byte, error) {

	user, err := s.manager.Users(s.manager.Conn()).GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return s.getRandomSalt(), nil
		}
		return nil, common.ErrorInternal
	}

	return user.Salt, nil
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) checkVerifier(verifier []byte, verifierCandidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, verifierCandidate) == 1
}

func (s *UserService) issueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.manager.RefreshTokens(s.manager.Conn()).Create(ctx, userID, refreshToken, s.refreshTokenValidity); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login authenticates address with a verifier candidate and issues a token
// pair. Unknown addresses and wrong verifiers are indistinguishable.
func (s *UserService) Login(ctx context.Context, address string, verifierCandidate []byte) (string, *TokenPair, error) {

	user, err := s.manager.Users(s.manager.Conn()).GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !s.checkVerifier(user.Verifier, verifierCandidate) {
		return "", nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return user.ID, pair, nil
}

// Refresh rotates a refresh token: the presented token is deleted and a new
// pair is issued. An expired or unknown token yields
// common.ErrRefreshTokenExpired so the client knows to log in again.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	repo := s.manager.RefreshTokens(s.manager.Conn())

	record, err := repo.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrorInternal
	}

	if err := repo.Delete(ctx, refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, common.ErrRefreshTokenExpired
	}

	pair, err := s.issueTokenPair(ctx, record.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Logout destroys every refresh token of the user. Outstanding access
// tokens simply age out.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.manager.RefreshTokens(s.manager.Conn()).DeleteForUser(ctx, userID); err != nil {
		return common.ErrorInternal
	}
	return nil
}
