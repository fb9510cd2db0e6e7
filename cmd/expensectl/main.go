package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"expenseboard/internal/cli"
)

var version = "dev"

func main() {
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewCtlApp(version, nil).Execute(ctx)
	stop()
	cli.ExitOnError(err)
}
