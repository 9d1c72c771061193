package devserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mydrive/internal/devserver/httpapi"
	"github.com/dmitrijs2005/mydrive/internal/devserver/storage"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/timex"
)

type App struct {
	config *Config
	logger logging.Logger
	store  *storage.Memory
}

// NewApp sets up logging and storage and applies the seed file, if any.
func NewApp(c *Config) (*App, error) {
	logger, err := logging.Setup(logging.Options{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stdout})
	if err != nil {
		return nil, err
	}

	store := storage.NewMemory(timex.RealClock{})

	if c.SeedFile != "" {
		seed, err := ReadSeed(c.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := seed.Apply(context.Background(), store); err != nil {
			return nil, fmt.Errorf("apply seed: %w", err)
		}
		logger.Info(context.Background(), "Seed applied", "file", c.SeedFile, "users", len(seed.Users), "groups", len(seed.Groups))
	}

	return &App{config: c, logger: logger, store: store}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the API until a termination signal arrives or ctx ends.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	h := httpapi.NewHandler(app.store, app.logger)
	return httpapi.NewServer(app.config.Addr, h.Routes(), app.logger).Run(ctx)
}
