package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleHideSubscriptions_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	require.False(t, svc.CurrentUser().Privacy.HideSubscriptions)

	require.NoError(t, svc.ToggleHideSubscriptions(ctx))
	assert.True(t, svc.CurrentUser().Privacy.HideSubscriptions)

	require.NoError(t, svc.ToggleHideSubscriptions(ctx))
	assert.False(t, svc.CurrentUser().Privacy.HideSubscriptions)
}

func TestTogglePreventCopying(t *testing.T) {
	ctx := context.Background()
	fb := onlineBackend()
	svc, _ := newTestService(t, fb)
	loginRemote(t, svc)

	require.NoError(t, svc.TogglePreventCopying(ctx))
	assert.True(t, svc.CurrentUser().Privacy.PreventCopying)
	require.NotNil(t, fb.SavedPrivacy)
	assert.True(t, fb.SavedPrivacy.PreventCopying)
}

func TestToggleGlobalComments_KeepsPerBookOverrides(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	require.NoError(t, svc.SetBookCommentSetting(ctx, "book-9", false))
	require.NoError(t, svc.ToggleGlobalComments(ctx))

	privacy := svc.CurrentUser().Privacy
	assert.False(t, privacy.Comments.Global)
	allowed, ok := privacy.Comments.PerBook["book-9"]
	require.True(t, ok, "per-book override survives the global toggle")
	assert.False(t, allowed)
}

func TestCanViewSubscriptionsOf(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	// Own subscriptions are always visible.
	ok, err := svc.CanViewSubscriptionsOf(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Viktor hides his.
	ok, err = svc.CanViewSubscriptionsOf(ctx, "seed-author-viktor")
	require.NoError(t, err)
	assert.False(t, ok)

	// Amelia does not.
	ok, err = svc.CanViewSubscriptionsOf(ctx, "seed-author-amelia")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanCommentOnBook_OverrideBeatsGlobal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	// Viktor disables comments globally but allows them on one book.
	ok, err := svc.CanCommentOnBook(ctx, "seed-author-viktor", "book-night-express")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanCommentOnBook(ctx, "seed-author-viktor", "book-other")
	require.NoError(t, err)
	assert.False(t, ok)

	// Amelia allows comments everywhere.
	ok, err = svc.CanCommentOnBook(ctx, "seed-author-amelia", "book-harbor-lights")
	require.NoError(t, err)
	assert.True(t, ok)
}
