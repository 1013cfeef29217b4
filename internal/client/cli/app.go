package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"github.com/smolnikov/readhub/internal/client/backend"
	"github.com/smolnikov/readhub/internal/client/config"
	"github.com/smolnikov/readhub/internal/client/services"
	"github.com/smolnikov/readhub/internal/client/session"
	"github.com/smolnikov/readhub/internal/client/store"
	"github.com/smolnikov/readhub/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config      *config.Config
	authService *services.AuthService
	store       *store.Store
	Mode        Mode
	reader      *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	st, err := store.Open(ctx, c.LocalDatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := backend.NewHTTPClient(c.ServerEndpointAddr)

	as := services.NewAuthService(apiClient, st, session.NewStore(), logger)

	return &App{config: c, authService: as, store: st, reader: bufio.NewReader(os.Stdin)}, nil
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close()
		_ = a.store.Close()
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
