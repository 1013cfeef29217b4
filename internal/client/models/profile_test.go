package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"simple", "alice123", true},
		{"min length", "abc", true},
		{"max length", strings.Repeat("a", 20), true},
		{"underscore", "a_b_c", true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 21), false},
		{"starts with digit", "1alice", false},
		{"starts with underscore", "_alice", false},
		{"contains dash", "ali-ce", false},
		{"contains space", "ali ce", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidUsername(tt.username))
		})
	}
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword([]byte("Password1")))
	assert.False(t, ValidPassword([]byte("short")))
}

func TestSubscribe_Idempotent(t *testing.T) {
	p := &Profile{ID: "u1"}

	p.Subscribe("u2")
	p.Subscribe("u2")

	assert.Equal(t, []string{"u2"}, p.Subscriptions)
}

func TestUnsubscribe_NoopWhenAbsent(t *testing.T) {
	p := &Profile{ID: "u1", Subscriptions: []string{"u2"}}

	p.Unsubscribe("u3")
	assert.Equal(t, []string{"u2"}, p.Subscriptions)

	p.Unsubscribe("u2")
	assert.Empty(t, p.Subscriptions)
}

func TestBlock_RemovesSubscription(t *testing.T) {
	p := &Profile{ID: "u1"}
	p.Subscribe("u2")

	p.Block("u2")

	assert.False(t, p.IsSubscribedTo("u2"))
	assert.True(t, p.HasBlocked("u2"))

	// blocking again changes nothing
	p.Block("u2")
	assert.Equal(t, []string{"u2"}, p.BlockedUsers)
}

func TestUnblock_DoesNotRestoreSubscription(t *testing.T) {
	p := &Profile{ID: "u1"}
	p.Subscribe("u2")
	p.Block("u2")

	p.Unblock("u2")

	assert.False(t, p.HasBlocked("u2"))
	assert.False(t, p.IsSubscribedTo("u2"))
}

func TestClone_IsDeep(t *testing.T) {
	p := &Profile{
		ID:            "u1",
		Subscriptions: []string{"a"},
		Privacy: PrivacySettings{
			Comments: CommentSettings{Global: true, PerBook: map[string]bool{"b1": false}},
		},
	}

	c := p.Clone()
	c.Subscribe("x")
	c.Privacy.Comments.PerBook["b2"] = true

	assert.Equal(t, []string{"a"}, p.Subscriptions)
	assert.NotContains(t, p.Privacy.Comments.PerBook, "b2")
}

func TestNormalize_PopulatesPerBook(t *testing.T) {
	p := &Profile{ID: "u1"}
	p.Normalize()
	assert.NotNil(t, p.Privacy.Comments.PerBook)
}

func TestBanLevel_String(t *testing.T) {
	assert.Equal(t, "Caution", BanLevelCaution.String())
	assert.Equal(t, "Ultimate Ban", BanLevelUltimate.String())
	assert.Equal(t, "Unknown", BanLevel(42).String())
}
