package models

// ProfilePatch is a partial profile update. Only non-nil fields are applied;
// a field explicitly set to a value (including an empty string) overwrites the
// existing one, and absent fields are left untouched.
type ProfilePatch struct {
	FirstName     *string       `json:"first_name,omitempty"`
	LastName      *string       `json:"last_name,omitempty"`
	Bio           *string       `json:"bio,omitempty"`
	AvatarURL     *string       `json:"avatar_url,omitempty"`
	CoverImageURL *string       `json:"cover_image_url,omitempty"`
	Privacy       *PrivacyPatch `json:"privacy,omitempty"`
}

// PrivacyPatch updates privacy fields. Each sub-level merges independently:
// setting HideSubscriptions does not clobber Comments and vice versa.
type PrivacyPatch struct {
	HideSubscriptions *bool          `json:"hide_subscriptions,omitempty"`
	PreventCopying    *bool          `json:"prevent_copying,omitempty"`
	Comments          *CommentsPatch `json:"comments,omitempty"`
}

// CommentsPatch updates comment settings. PerBook entries are merged
// key-by-key into the existing per-book overrides; keys not present in the
// patch keep their prior value.
type CommentsPatch struct {
	Global  *bool           `json:"global,omitempty"`
	PerBook map[string]bool `json:"per_book,omitempty"`
}

// Apply merges the patch into profile. Precedence is patch-wins per field;
// untouched fields retain their prior value.
func (patch *ProfilePatch) Apply(profile *Profile) {
	if patch == nil {
		return
	}
	if patch.FirstName != nil {
		profile.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		profile.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		profile.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = *patch.AvatarURL
	}
	if patch.CoverImageURL != nil {
		profile.CoverImageURL = *patch.CoverImageURL
	}
	if patch.Privacy != nil {
		patch.Privacy.apply(&profile.Privacy)
	}
}

func (patch *PrivacyPatch) apply(privacy *PrivacySettings) {
	if patch.HideSubscriptions != nil {
		privacy.HideSubscriptions = *patch.HideSubscriptions
	}
	if patch.PreventCopying != nil {
		privacy.PreventCopying = *patch.PreventCopying
	}
	if patch.Comments != nil {
		patch.Comments.apply(&privacy.Comments)
	}
}

func (patch *CommentsPatch) apply(settings *CommentSettings) {
	if patch.Global != nil {
		settings.Global = *patch.Global
	}
	if len(patch.PerBook) > 0 {
		if settings.PerBook == nil {
			settings.PerBook = make(map[string]bool, len(patch.PerBook))
		}
		for bookID, allowed := range patch.PerBook {
			settings.PerBook[bookID] = allowed
		}
	}
}

// Ptr returns a pointer to v. Convenience for building patches.
func Ptr[T any](v T) *T {
	return &v
}
