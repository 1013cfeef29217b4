// Package models defines the client-side data model: the canonical user
// profile, its privacy settings, local account records, and the patch
// structures used for partial profile updates.
package models

import (
	"regexp"
	"slices"
	"time"
)

// usernamePattern: must start with a letter; letters, digits and underscore only.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
	PasswordMinLen = 8
)

// ValidUsername reports whether name satisfies the account username format.
func ValidUsername(name string) bool {
	if len(name) < UsernameMinLen || len(name) > UsernameMaxLen {
		return false
	}
	return usernamePattern.MatchString(name)
}

// ValidPassword reports whether the password satisfies the minimum format
// requirements. Strength scoring beyond length is left to the UI.
func ValidPassword(password []byte) bool {
	return len(password) >= PasswordMinLen
}

// BanLevel is a graduated moderation level, 1–5.
type BanLevel int

const (
	BanLevelCaution BanLevel = iota + 1
	BanLevelRestriction24h
	BanLevelWeekOfSilence
	BanLevelIsolation30d
	BanLevelUltimate
)

var banLevelNames = map[BanLevel]string{
	BanLevelCaution:        "Caution",
	BanLevelRestriction24h: "24h Restriction",
	BanLevelWeekOfSilence:  "Week of Silence",
	BanLevelIsolation30d:   "30-Day Isolation",
	BanLevelUltimate:       "Ultimate Ban",
}

func (l BanLevel) String() string {
	if name, ok := banLevelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// BanStatus is a declared moderation state. No transition logic exists yet;
// the field is carried through persistence untouched until a sanctions
// system lands.
type BanStatus struct {
	Level     BanLevel   `json:"level"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// CommentSettings controls who may comment on the user's books.
// PerBook overrides Global for a specific content id; a missing key
// means "inherit Global".
type CommentSettings struct {
	Global  bool            `json:"global"`
	PerBook map[string]bool `json:"per_book,omitempty"`
}

// PrivacySettings groups the user's per-resource privacy rules.
type PrivacySettings struct {
	HideSubscriptions bool            `json:"hide_subscriptions"`
	PreventCopying    bool            `json:"prevent_copying"`
	Comments          CommentSettings `json:"comments"`
}

// Profile is the canonical user record: identity, social graph and
// privacy settings.
type Profile struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	DisplayID      string          `json:"display_id"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	AvatarURL      string          `json:"avatar_url,omitempty"`
	CoverImageURL  string          `json:"cover_image_url,omitempty"`
	Subscriptions  []string        `json:"subscriptions,omitempty"`
	Subscribers    []string        `json:"subscribers,omitempty"`
	BlockedUsers   []string        `json:"blocked_users,omitempty"`
	PublishedBooks []string        `json:"published_books,omitempty"`
	Ban            *BanStatus      `json:"ban,omitempty"`
	Privacy        PrivacySettings `json:"privacy"`
}

// Clone returns a deep copy of the profile. Callers that hand profiles to
// read-only consumers should clone first so the canonical record cannot be
// mutated behind the facade's back.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Subscriptions = slices.Clone(p.Subscriptions)
	c.Subscribers = slices.Clone(p.Subscribers)
	c.BlockedUsers = slices.Clone(p.BlockedUsers)
	c.PublishedBooks = slices.Clone(p.PublishedBooks)
	if p.Ban != nil {
		ban := *p.Ban
		c.Ban = &ban
	}
	if p.Privacy.Comments.PerBook != nil {
		perBook := make(map[string]bool, len(p.Privacy.Comments.PerBook))
		for k, v := range p.Privacy.Comments.PerBook {
			perBook[k] = v
		}
		c.Privacy.Comments.PerBook = perBook
	}
	return &c
}

// Normalize fills in sub-structures that may be missing from historical
// records, so that consumers can rely on the full privacy shape being
// populated.
func (p *Profile) Normalize() {
	if p.Privacy.Comments.PerBook == nil {
		p.Privacy.Comments.PerBook = map[string]bool{}
	}
}

// IsSubscribedTo reports whether the profile follows targetID.
func (p *Profile) IsSubscribedTo(targetID string) bool {
	return slices.Contains(p.Subscriptions, targetID)
}

// HasBlocked reports whether the profile has blocked targetID.
func (p *Profile) HasBlocked(targetID string) bool {
	return slices.Contains(p.BlockedUsers, targetID)
}

// Subscribe adds targetID to the subscription set. Idempotent.
func (p *Profile) Subscribe(targetID string) {
	if !slices.Contains(p.Subscriptions, targetID) {
		p.Subscriptions = append(p.Subscriptions, targetID)
	}
}

// Unsubscribe removes targetID from the subscription set. Idempotent.
func (p *Profile) Unsubscribe(targetID string) {
	p.Subscriptions = removeID(p.Subscriptions, targetID)
}

// Block adds targetID to the blocked set and removes any existing
// subscription to it. A user is never both subscribed to and blocking
// the same target.
func (p *Profile) Block(targetID string) {
	if !slices.Contains(p.BlockedUsers, targetID) {
		p.BlockedUsers = append(p.BlockedUsers, targetID)
	}
	p.Subscriptions = removeID(p.Subscriptions, targetID)
}

// Unblock removes targetID from the blocked set. It does not restore any
// subscription removed by a prior Block.
func (p *Profile) Unblock(targetID string) {
	p.BlockedUsers = removeID(p.BlockedUsers, targetID)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
