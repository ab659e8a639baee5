package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amleal/produtos-manager/internal/cli"
	"github.com/amleal/produtos-manager/internal/config"
	"github.com/amleal/produtos-manager/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)
}
