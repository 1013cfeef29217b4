package main

import (
	"context"
	"log"

	"github.com/smolnikov/readhub/internal/server"
	"github.com/smolnikov/readhub/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
