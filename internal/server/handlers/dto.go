package handlers

import (
	"github.com/smolnikov/readhub/internal/server/models"
)

// Wire types of the JSON API. Byte slices (salt, verifier) travel base64
// encoded, which encoding/json does for free.

type registerRequest struct {
	Address   string `json:"address"`
	Username  string `json:"username"`
	DisplayID string `json:"display_id"`
	Salt      []byte `json:"salt"`
	Verifier  []byte `json:"verifier"`
}

type loginRequest struct {
	Address  string `json:"address"`
	Verifier []byte `json:"verifier"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type identityResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type saltResponse struct {
	Salt []byte `json:"salt"`
}

type uploadURLRequest struct {
	Kind string `json:"kind"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type commentsDoc struct {
	Global  bool            `json:"global"`
	PerBook map[string]bool `json:"per_book,omitempty"`
}

type privacyDoc struct {
	HideSubscriptions bool        `json:"hide_subscriptions"`
	PreventCopying    bool        `json:"prevent_copying"`
	Comments          commentsDoc `json:"comments"`
}

// profileDoc is the merged profile document served to clients: identity
// attributes, the profile row and the privacy row in one object.
type profileDoc struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	DisplayID      string     `json:"display_id"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	CoverImageURL  string     `json:"cover_image_url,omitempty"`
	Subscriptions  []string   `json:"subscriptions,omitempty"`
	Subscribers    []string   `json:"subscribers,omitempty"`
	BlockedUsers   []string   `json:"blocked_users,omitempty"`
	PublishedBooks []string   `json:"published_books,omitempty"`
	Privacy        privacyDoc `json:"privacy"`
}

func buildProfileDoc(user *models.User, profile *models.ProfileRecord, privacy *models.PrivacyRecord) *profileDoc {
	return &profileDoc{
		ID:             user.ID,
		Username:       user.Username,
		DisplayID:      user.DisplayID,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Bio:            profile.Bio,
		AvatarURL:      profile.AvatarURL,
		CoverImageURL:  profile.CoverImageURL,
		Subscriptions:  profile.Subscriptions,
		Subscribers:    profile.Subscribers,
		BlockedUsers:   profile.BlockedUsers,
		PublishedBooks: profile.PublishedBooks,
		Privacy:        buildPrivacyDoc(privacy),
	}
}

func buildPrivacyDoc(privacy *models.PrivacyRecord) privacyDoc {
	return privacyDoc{
		HideSubscriptions: privacy.HideSubscriptions,
		PreventCopying:    privacy.PreventCopying,
		Comments: commentsDoc{
			Global:  privacy.CommentsGlobal,
			PerBook: privacy.CommentsPerBook,
		},
	}
}

func (d *profileDoc) toProfileRecord(userID string) *models.ProfileRecord {
	return &models.ProfileRecord{
		UserID:         userID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Bio:            d.Bio,
		AvatarURL:      d.AvatarURL,
		CoverImageURL:  d.CoverImageURL,
		Subscriptions:  d.Subscriptions,
		Subscribers:    d.Subscribers,
		BlockedUsers:   d.BlockedUsers,
		PublishedBooks: d.PublishedBooks,
	}
}

func (d *privacyDoc) toPrivacyRecord(userID string) *models.PrivacyRecord {
	return &models.PrivacyRecord{
		UserID:            userID,
		HideSubscriptions: d.HideSubscriptions,
		PreventCopying:    d.PreventCopying,
		CommentsGlobal:    d.Comments.Global,
		CommentsPerBook:   d.Comments.PerBook,
	}
}
