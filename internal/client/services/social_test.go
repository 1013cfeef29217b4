package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolnikov/readhub/internal/common"
)

func TestSubscribe_IdempotentAndPersisted(t *testing.T) {
	ctx := context.Background()
	fb := onlineBackend()
	svc, _ := newTestService(t, fb)
	loginRemote(t, svc)

	require.NoError(t, svc.SubscribeToUser(ctx, "user-2"))
	require.NoError(t, svc.SubscribeToUser(ctx, "user-2"))

	current := svc.CurrentUser()
	assert.Equal(t, []string{"user-2"}, current.Subscriptions)
	require.NotNil(t, fb.SavedProfile)
	assert.Equal(t, []string{"user-2"}, fb.SavedProfile.Subscriptions)
}

func TestSubscribe_ToSelfIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	require.NoError(t, svc.SubscribeToUser(ctx, "user-1"))
	assert.Empty(t, svc.CurrentUser().Subscriptions)
}

func TestUnsubscribe_MissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	fb := onlineBackend()
	svc, _ := newTestService(t, fb)
	loginRemote(t, svc)

	require.NoError(t, svc.UnsubscribeFromUser(ctx, "user-2"))
	assert.Nil(t, fb.SavedProfile, "no-op mutations must not persist")

	require.NoError(t, svc.SubscribeToUser(ctx, "user-2"))
	require.NoError(t, svc.UnsubscribeFromUser(ctx, "user-2"))
	assert.Empty(t, svc.CurrentUser().Subscriptions)
}

func TestBlock_RemovesSubscription(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	require.NoError(t, svc.SubscribeToUser(ctx, "user-2"))
	require.NoError(t, svc.BlockUser(ctx, "user-2"))

	current := svc.CurrentUser()
	assert.Equal(t, []string{"user-2"}, current.BlockedUsers)
	assert.Empty(t, current.Subscriptions, "blocking severs the subscription")
}

func TestUnblock_DoesNotRestoreSubscription(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, onlineBackend())
	loginRemote(t, svc)

	require.NoError(t, svc.SubscribeToUser(ctx, "user-2"))
	require.NoError(t, svc.BlockUser(ctx, "user-2"))
	require.NoError(t, svc.UnblockUser(ctx, "user-2"))

	current := svc.CurrentUser()
	assert.Empty(t, current.BlockedUsers)
	assert.Empty(t, current.Subscriptions)
}

func TestSocial_Unauthenticated(t *testing.T) {
	svc, _ := newTestService(t, &fakeBackend{})
	ctx := context.Background()

	require.ErrorIs(t, svc.SubscribeToUser(ctx, "user-2"), common.ErrorUnauthorized)
	require.ErrorIs(t, svc.BlockUser(ctx, "user-2"), common.ErrorUnauthorized)
}
