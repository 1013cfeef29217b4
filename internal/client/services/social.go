package services

import (
	"context"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/common"
)

// SubscribeToUser adds targetID to the subscription list. Subscribing to a
// user already followed, or to oneself, is a no-op.
func (s *AuthService) SubscribeToUser(ctx context.Context, targetID string) error {
	return s.mutateProfile(ctx, func(p *models.Profile) bool {
		if targetID == p.ID || p.IsSubscribedTo(targetID) {
			return false
		}
		p.Subscribe(targetID)
		return true
	})
}

// UnsubscribeFromUser removes targetID from the subscription list.
// Unsubscribing from a user not followed is a no-op.
func (s *AuthService) UnsubscribeFromUser(ctx context.Context, targetID string) error {
	return s.mutateProfile(ctx, func(p *models.Profile) bool {
		if !p.IsSubscribedTo(targetID) {
			return false
		}
		p.Unsubscribe(targetID)
		return true
	})
}

// BlockUser adds targetID to the block list and removes any subscription to
// them. Blocking an already-blocked user is a no-op.
func (s *AuthService) BlockUser(ctx context.Context, targetID string) error {
	return s.mutateProfile(ctx, func(p *models.Profile) bool {
		if targetID == p.ID || p.HasBlocked(targetID) {
			return false
		}
		p.Block(targetID)
		return true
	})
}

// UnblockUser removes targetID from the block list. The subscription
// severed by the original block is not restored.
func (s *AuthService) UnblockUser(ctx context.Context, targetID string) error {
	return s.mutateProfile(ctx, func(p *models.Profile) bool {
		if !p.HasBlocked(targetID) {
			return false
		}
		p.Unblock(targetID)
		return true
	})
}

// mutateProfile runs fn over a clone of the signed-in profile and persists
// the result when fn reports a change. The in-memory profile is only
// replaced after persistence succeeded.
func (s *AuthService) mutateProfile(ctx context.Context, fn func(*models.Profile) bool) error {
	current, err := s.requireSession()
	if err != nil {
		return err
	}
	if current.ID == "" {
		return common.ErrorInternal
	}

	updated := current.Clone()
	if !fn(updated) {
		return nil
	}

	if err := s.persistProfile(ctx, updated, false); err != nil {
		s.logger.Error(ctx, "profile mutation failed", "error", err.Error())
		return err
	}
	return s.commit(ctx, updated, s.kind)
}
