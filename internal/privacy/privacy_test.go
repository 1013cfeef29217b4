package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smolnikov/readhub/internal/client/models"
)

func profileWith(id string, hideSubs bool) *models.Profile {
	return &models.Profile{
		ID:      id,
		Privacy: models.PrivacySettings{HideSubscriptions: hideSubs},
	}
}

func TestCanViewSubscriptions(t *testing.T) {
	tests := []struct {
		name     string
		viewer   *models.Profile
		target   *models.Profile
		expected bool
	}{
		{"self always allowed", profileWith("u1", true), profileWith("u1", true), true},
		{"visible to others by default", profileWith("u2", false), profileWith("u1", false), true},
		{"hidden from others", profileWith("u2", false), profileWith("u1", true), false},
		{"unauthenticated viewer", nil, profileWith("u1", false), false},
		{"missing target", profileWith("u1", false), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanViewSubscriptions(tt.viewer, tt.target))
		})
	}
}

func TestCanCommentOnBook(t *testing.T) {
	author := &models.Profile{
		ID: "author",
		Privacy: models.PrivacySettings{
			Comments: models.CommentSettings{
				Global:  true,
				PerBook: map[string]bool{"closed": false, "open": true},
			},
		},
	}
	viewer := &models.Profile{ID: "viewer"}

	t.Run("per-book override beats global", func(t *testing.T) {
		assert.False(t, CanCommentOnBook(viewer, "closed", author))
	})

	t.Run("explicit per-book allow", func(t *testing.T) {
		assert.True(t, CanCommentOnBook(viewer, "open", author))
	})

	t.Run("absent key inherits global", func(t *testing.T) {
		assert.True(t, CanCommentOnBook(viewer, "other", author))
	})

	t.Run("unauthenticated viewer", func(t *testing.T) {
		assert.False(t, CanCommentOnBook(nil, "open", author))
	})

	t.Run("global off and no override", func(t *testing.T) {
		closed := &models.Profile{ID: "a2"}
		assert.False(t, CanCommentOnBook(viewer, "any", closed))
	})
}

func TestEvaluator_DoesNotMutateArguments(t *testing.T) {
	author := &models.Profile{
		ID:      "a",
		Privacy: models.PrivacySettings{Comments: models.CommentSettings{Global: true}},
	}
	viewer := &models.Profile{ID: "v"}

	before := author.Clone()
	for range 3 {
		CanCommentOnBook(viewer, "b1", author)
		CanViewSubscriptions(viewer, author)
	}

	assert.Equal(t, before, author)
}
