package cli

import (
	"context"
	"fmt"
	"log"
)

// Privacy shows or changes the privacy settings.
//
// Usage:
//
//	privacy                       — print current settings
//	privacy hide                  — toggle hidden subscriptions
//	privacy copy                  — toggle text copy protection
//	privacy comments              — toggle the global comment default
//	privacy comments <book> on    — allow comments on one book
//	privacy comments <book> off   — disallow comments on one book
func (a *App) Privacy(ctx context.Context, args []string) error {
	if len(args) == 0 {
		current := a.authService.CurrentUser()
		if current == nil {
			fmt.Println("Not logged in")
			return nil
		}
		p := current.Privacy
		fmt.Printf("hide subscriptions: %t\n", p.HideSubscriptions)
		fmt.Printf("prevent copying:    %t\n", p.PreventCopying)
		fmt.Printf("comments (global):  %t\n", p.Comments.Global)
		for bookID, allowed := range p.Comments.PerBook {
			fmt.Printf("comments on %s: %t\n", bookID, allowed)
		}
		return nil
	}

	var err error
	switch args[0] {
	case "hide":
		err = a.authService.ToggleHideSubscriptions(ctx)
	case "copy":
		err = a.authService.TogglePreventCopying(ctx)
	case "comments":
		if len(args) == 1 {
			err = a.authService.ToggleGlobalComments(ctx)
			break
		}
		if len(args) != 3 || (args[2] != "on" && args[2] != "off") {
			fmt.Println("Usage: privacy comments <book> on|off")
			return nil
		}
		err = a.authService.SetBookCommentSetting(ctx, args[1], args[2] == "on")
	default:
		fmt.Println("Usage: privacy [hide|copy|comments [<book> on|off]]")
		return nil
	}

	if err != nil {
		log.Printf("Privacy update failed: %s", err.Error())
		return err
	}
	fmt.Println("Done")
	return nil
}
