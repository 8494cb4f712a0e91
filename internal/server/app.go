// Package server wires the back office together: configuration, storage,
// the content store, and the HTTP endpoint, with graceful shutdown on OS
// signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/motordesk/internal/logging"
	"github.com/dmitrijs2005/motordesk/internal/server/assets"
	"github.com/dmitrijs2005/motordesk/internal/server/config"
	"github.com/dmitrijs2005/motordesk/internal/server/contentstore"
	"github.com/dmitrijs2005/motordesk/internal/server/httpapi"
	"github.com/dmitrijs2005/motordesk/internal/server/shared/db"
	"github.com/dmitrijs2005/motordesk/internal/server/vehicles"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := contentstore.NewS3Store(ctx, contentstore.Options{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("content store init error: %w", err)
	}

	as := assets.NewService(store, logger)
	vs := vehicles.NewService(rm.Vehicles(), rm.Conn())

	srv := httpapi.NewServer(c, logger, as, vs, store)

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}
}
