package models

import "time"

// User is the identity record: address-keyed credential material plus the
// platform attributes chosen at registration.
type User struct {
	ID        string    `db:"id"`
	Address   string    `db:"address"`
	Username  string    `db:"username"`
	DisplayID string    `db:"display_id"`
	Salt      []byte    `db:"salt"`
	Verifier  []byte    `db:"verifier"`
	CreatedAt time.Time `db:"created_at"`
}

// RefreshToken is one entry of the refresh-token table. Tokens are rotated:
// using one deletes it and issues a replacement.
type RefreshToken struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
