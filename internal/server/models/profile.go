package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a []string column as JSON.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// BoolMap stores a map[string]bool column as JSON.
type BoolMap map[string]bool

func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *BoolMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

// ProfileRecord is one row of the profile table.
type ProfileRecord struct {
	UserID         string     `db:"user_id"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Bio            string     `db:"bio"`
	AvatarURL      string     `db:"avatar_url"`
	CoverImageURL  string     `db:"cover_image_url"`
	Subscriptions  StringList `db:"subscriptions"`
	Subscribers    StringList `db:"subscribers"`
	BlockedUsers   StringList `db:"blocked_users"`
	PublishedBooks StringList `db:"published_books"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// PrivacyRecord is one row of the privacy-settings table.
type PrivacyRecord struct {
	UserID            string    `db:"user_id"`
	HideSubscriptions bool      `db:"hide_subscriptions"`
	PreventCopying    bool      `db:"prevent_copying"`
	CommentsGlobal    bool      `db:"comments_global"`
	CommentsPerBook   BoolMap   `db:"comments_per_book"`
	UpdatedAt         time.Time `db:"updated_at"`
}
