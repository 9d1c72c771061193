// Command cli is the interactive MyDrive terminal client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mydrive/internal/buildinfo"
	"github.com/dmitrijs2005/mydrive/internal/client/cli"
	"github.com/dmitrijs2005/mydrive/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	app, err := cli.NewApp(config.LoadConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "mydrive:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
}
