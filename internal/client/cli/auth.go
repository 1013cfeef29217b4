package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/smolnikov/readhub/internal/client/models"
	"github.com/smolnikov/readhub/internal/client/services"
	"github.com/smolnikov/readhub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and attempts to
// create a new account via the AuthService.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidUsernameFormat):
			log.Printf("Invalid username: 3-20 characters, letters, digits and '_', starting with a letter")
		case errors.Is(err, common.ErrorInvalidPasswordFormat):
			log.Printf("Invalid password: at least %d characters", models.PasswordMinLen)
		case errors.Is(err, common.ErrorAlreadyExists):
			log.Printf("Username already taken")
		default:
			log.Printf("Registration unsuccessful: %s", err.Error())
		}
		return err
	}

	if a.authService.AccountKind() == models.AccountLocalShadow {
		a.setMode(ModeOffline)
		log.Printf("Server unavailable, created a local account")
	} else {
		a.setMode(ModeOnline)
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// The AuthService first attempts an online login and falls back to the
// local account snapshot when the server is unreachable. Connectivity Mode
// is updated to reflect which path succeeded:
//   - ModeOnline for a backend login,
//   - ModeOffline for a snapshot login,
//   - ModeDisabled when both fail.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			log.Printf("Login unsuccessful: wrong username or password")
		case errors.Is(err, services.ErrLocalDataNotAvailable):
			log.Printf("Server unavailable and no local data for this account")
			a.setMode(ModeDisabled)
		default:
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	if a.authService.AccountKind() == models.AccountLocalShadow {
		log.Printf("Offline login successful")
		a.setMode(ModeOffline)
	} else {
		log.Printf("Login successful")
		a.setMode(ModeOnline)
	}
	return nil
}

// Logout destroys the session. The local account snapshot survives, so the
// user can log back in offline later.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("Logout error: %s", err.Error())
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// WhoAmI prints the signed-in identity in one line.
func (a *App) WhoAmI(ctx context.Context) error {
	current := a.authService.CurrentUser()
	if current == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (#%s) [%s]\n", current.Username, current.DisplayID, a.authService.AccountKind())
	return nil
}
