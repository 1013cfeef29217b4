package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/common"
)

// GetUserByID resolves a profile by id for the signed-in user. Resolution
// order: the current user themselves, the seeded demo authors, then the
// local account repository. Misses return common.ErrorNotFound; an
// unauthenticated caller gets common.ErrorUnauthorized.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.Profile, error) {
	current, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	if id == current.ID {
		return current.Clone(), nil
	}

	if profile := seededAuthor(id); profile != nil {
		return profile, nil
	}

	account, err := s.store.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("account lookup error: %w", err)
	}

	profile := account.Profile.Clone()
	profile.Normalize()
	return profile, nil
}
