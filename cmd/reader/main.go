package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/smolnikov/readhub/internal/buildinfo"
	"github.com/smolnikov/readhub/internal/client/cli"
	"github.com/smolnikov/readhub/internal/client/config"
	"github.com/smolnikov/readhub/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
