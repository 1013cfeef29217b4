package services

import (
	"context"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/privacy"
)

// ToggleHideSubscriptions flips whether other users may see the
// subscription list.
func (s *AuthService) ToggleHideSubscriptions(ctx context.Context) error {
	current, err := s.requireSession()
	if err != nil {
		return err
	}
	return s.UpdateProfile(ctx, &models.ProfilePatch{
		Privacy: &models.PrivacyPatch{
			HideSubscriptions: models.Ptr(!current.Privacy.HideSubscriptions),
		},
	})
}

// TogglePreventCopying flips the text-copy protection flag.
func (s *AuthService) TogglePreventCopying(ctx context.Context) error {
	current, err := s.requireSession()
	if err != nil {
		return err
	}
	return s.UpdateProfile(ctx, &models.ProfilePatch{
		Privacy: &models.PrivacyPatch{
			PreventCopying: models.Ptr(!current.Privacy.PreventCopying),
		},
	})
}

// ToggleGlobalComments flips the account-wide comment default. Per-book
// overrides are untouched and keep winning for their books.
func (s *AuthService) ToggleGlobalComments(ctx context.Context) error {
	current, err := s.requireSession()
	if err != nil {
		return err
	}
	return s.UpdateProfile(ctx, &models.ProfilePatch{
		Privacy: &models.PrivacyPatch{
			Comments: &models.CommentsPatch{
				Global: models.Ptr(!current.Privacy.Comments.Global),
			},
		},
	})
}

// SetBookCommentSetting sets the per-book comment override for bookID,
// taking precedence over the global default.
func (s *AuthService) SetBookCommentSetting(ctx context.Context, bookID string, allowed bool) error {
	if _, err := s.requireSession(); err != nil {
		return err
	}
	return s.UpdateProfile(ctx, &models.ProfilePatch{
		Privacy: &models.PrivacyPatch{
			Comments: &models.CommentsPatch{
				PerBook: map[string]bool{bookID: allowed},
			},
		},
	})
}

// CanViewSubscriptionsOf evaluates whether the signed-in user may see the
// subscription list of the user with targetID.
func (s *AuthService) CanViewSubscriptionsOf(ctx context.Context, targetID string) (bool, error) {
	viewer, err := s.requireSession()
	if err != nil {
		return false, err
	}
	target, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return false, err
	}
	return privacy.CanViewSubscriptions(viewer, target), nil
}

// CanCommentOnBook evaluates whether the signed-in user may comment on the
// given book, owned by the author with authorID.
func (s *AuthService) CanCommentOnBook(ctx context.Context, authorID, bookID string) (bool, error) {
	viewer, err := s.requireSession()
	if err != nil {
		return false, err
	}
	author, err := s.GetUserByID(ctx, authorID)
	if err != nil {
		return false, err
	}
	return privacy.CanCommentOnBook(viewer, bookID, author), nil
}
