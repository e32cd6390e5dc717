package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/cli"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
