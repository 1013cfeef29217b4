package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/smolnikov/readhub/internal/client/models"
)

// ShowProfile prints the full signed-in profile.
func (a *App) ShowProfile(ctx context.Context) error {
	current := a.authService.CurrentUser()
	if current == nil {
		fmt.Println("Not logged in")
		return nil
	}
	printProfile(current)
	return nil
}

// EditProfile interactively collects profile field changes and applies them
// as a single patch. Entering '-' keeps the current value of a field.
func (a *App) EditProfile(ctx context.Context) error {
	current := a.authService.CurrentUser()
	if current == nil {
		fmt.Println("Not logged in")
		return nil
	}

	patch := &models.ProfilePatch{}

	if v, ok, err := GetOptionalText(a.reader, "First name", os.Stdout); err != nil {
		return err
	} else if ok {
		patch.FirstName = models.Ptr(v)
	}

	if v, ok, err := GetOptionalText(a.reader, "Last name", os.Stdout); err != nil {
		return err
	} else if ok {
		patch.LastName = models.Ptr(v)
	}

	if v, ok, err := GetOptionalText(a.reader, "Bio", os.Stdout); err != nil {
		return err
	} else if ok {
		patch.Bio = models.Ptr(v)
	}

	if err := a.authService.UpdateProfile(ctx, patch); err != nil {
		log.Printf("Profile update failed: %s", err.Error())
		return err
	}

	fmt.Println("Profile updated")
	return nil
}

// ShowUser looks up and prints another user's profile by id.
func (a *App) ShowUser(ctx context.Context, id string) error {
	profile, err := a.authService.GetUserByID(ctx, id)
	if err != nil {
		log.Printf("Lookup failed: %s", err.Error())
		return err
	}
	printProfile(profile)
	return nil
}

func printProfile(p *models.Profile) {
	fmt.Printf("Username:      %s (#%s)\n", p.Username, p.DisplayID)
	if p.FirstName != "" || p.LastName != "" {
		fmt.Printf("Name:          %s\n", strings.TrimSpace(p.FirstName+" "+p.LastName))
	}
	if p.Bio != "" {
		fmt.Printf("Bio:           %s\n", p.Bio)
	}
	fmt.Printf("Subscriptions: %d\n", len(p.Subscriptions))
	fmt.Printf("Subscribers:   %d\n", len(p.Subscribers))
	fmt.Printf("Books:         %d\n", len(p.PublishedBooks))
	if p.Ban != nil {
		fmt.Printf("Ban:           %s\n", p.Ban.Level)
	}
	fmt.Printf("Privacy:       hide subscriptions=%t, prevent copying=%t, comments=%t\n",
		p.Privacy.HideSubscriptions, p.Privacy.PreventCopying, p.Privacy.Comments.Global)
	for bookID, allowed := range p.Privacy.Comments.PerBook {
		fmt.Printf("  comments on %s: %t\n", bookID, allowed)
	}
}
