// Package privacy contains the pure visibility and permission rules of the
// platform. Functions here are deterministic, side-effect-free and never
// mutate their arguments, so the UI and the facade can call them freely.
package privacy

import "github.com/smolnikov/readhub/internal/client/models"

// CanViewSubscriptions decides whether viewer may see target's subscription
// list. A user can always see their own; everyone else is allowed unless the
// target hides subscriptions. An unauthenticated viewer (nil) never can.
func CanViewSubscriptions(viewer, target *models.Profile) bool {
	if viewer == nil || target == nil {
		return false
	}
	if viewer.ID == target.ID {
		return true
	}
	return !target.Privacy.HideSubscriptions
}

// CanCommentOnBook decides whether viewer may comment on the given book.
// The author's per-book override, when present, wins over the global comment
// setting. An unauthenticated viewer (nil) never can.
func CanCommentOnBook(viewer *models.Profile, bookID string, author *models.Profile) bool {
	if viewer == nil || author == nil {
		return false
	}
	if allowed, ok := author.Privacy.Comments.PerBook[bookID]; ok {
		return allowed
	}
	return author.Privacy.Comments.Global
}
