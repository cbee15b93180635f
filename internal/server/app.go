// Package server initializes and runs the gateway: it wires configuration,
// storage, the authentication services, and the HTTP server, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmartins/askgate/internal/logging"
	"github.com/dmartins/askgate/internal/server/ask"
	"github.com/dmartins/askgate/internal/server/auth"
	"github.com/dmartins/askgate/internal/server/config"
	"github.com/dmartins/askgate/internal/server/storage"
	"github.com/dmartins/askgate/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.Manager
	web    *web.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	store, err := storage.NewPostgresManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	authService := auth.NewService(store, issuer, cfg)
	askService := ask.NewService()

	webServer := web.NewServer(cfg.EndpointAddr, logger, authService, askService, cfg.CORSAllowedOrigins)

	return &App{config: cfg, logger: logger, store: store, web: webServer}, nil
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

	app.logger.Info(ctx, "starting app...")

	// The pool is released on every exit path, including a failed startup.
	defer func() {
		if err := app.store.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}()

	app.initSignalHandler(cancelFunc)

	if err := app.store.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.web.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
