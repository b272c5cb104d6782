package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MLowen1/basicwebapp/internal/client/cli"
	"github.com/MLowen1/basicwebapp/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	cli.NewApp(cfg).Run(ctx)
}
