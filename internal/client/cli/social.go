package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/smolnikov/readhub/internal/common"
)

// Follow subscribes the signed-in user to the user with the given id.
func (a *App) Follow(ctx context.Context, id string) error {
	if err := a.authService.SubscribeToUser(ctx, id); err != nil {
		logSocialError("Follow", err)
		return err
	}
	fmt.Println("Following", id)
	return nil
}

// Unfollow removes the subscription to the user with the given id.
func (a *App) Unfollow(ctx context.Context, id string) error {
	if err := a.authService.UnsubscribeFromUser(ctx, id); err != nil {
		logSocialError("Unfollow", err)
		return err
	}
	fmt.Println("Unfollowed", id)
	return nil
}

// Block blocks the user with the given id and severs any subscription.
func (a *App) Block(ctx context.Context, id string) error {
	if err := a.authService.BlockUser(ctx, id); err != nil {
		logSocialError("Block", err)
		return err
	}
	fmt.Println("Blocked", id)
	return nil
}

// Unblock removes the block on the user with the given id.
func (a *App) Unblock(ctx context.Context, id string) error {
	if err := a.authService.UnblockUser(ctx, id); err != nil {
		logSocialError("Unblock", err)
		return err
	}
	fmt.Println("Unblocked", id)
	return nil
}

func logSocialError(op string, err error) {
	if errors.Is(err, common.ErrorUnauthorized) {
		log.Printf("%s failed: not logged in", op)
		return
	}
	log.Printf("%s failed: %s", op, err.Error())
}
