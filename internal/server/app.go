// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MLowen1/basicwebapp/internal/cryptox"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/logging"
	"github.com/MLowen1/basicwebapp/internal/server/auth"
	"github.com/MLowen1/basicwebapp/internal/server/config"
	"github.com/MLowen1/basicwebapp/internal/server/httpapi"
	"github.com/MLowen1/basicwebapp/internal/server/openverse"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/repomanager"
	"github.com/MLowen1/basicwebapp/internal/server/services"

	gs "github.com/MLowen1/basicwebapp/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	revocations *services.RevocationList
	httpServer  *httpapi.Server
	grpcServer  *gs.GRPCServer
}

// NewApp opens the database, applies migrations and builds every component.
// Logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogBackend, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "using the built-in development secret key")
	}

	db, dialect, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, dialect dbx.Dialect) (*App, error) {
	rm, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	credentials := services.NewCredentialStore(db, rm, hasher)
	revocations := services.NewRevocationList(db, rm)
	authenticator := services.NewAuthenticator(db, credentials, revocations,
		auth.NewTokenManager(c.SecretKey, c.AccessTokenTTL),
		auth.NewResetTokenManager(c.SecretKey, c.ResetTokenTTL),
		logger,
	)

	images := openverse.New(openverse.Config{
		BaseURL:      c.OpenverseBaseURL,
		APIKey:       c.OpenverseAPIKey,
		ClientID:     c.OpenverseClientID,
		ClientSecret: c.OpenverseClientSecret,
		Timeout:      c.OpenverseTimeout,
	})

	httpServer := httpapi.NewServer(httpapi.Deps{
		Auth:     authenticator,
		Contacts: services.NewContactService(db, rm, logger),
		Images:   images,
		DB:       db,
		Logger:   logger,
	}, httpapi.Options{
		Addr:            c.HTTPAddr,
		AllowedOrigin:   c.CORSAllowedOrigin,
		ShutdownTimeout: c.ShutdownTimeout,
	})

	var grpcServer *gs.GRPCServer
	if c.GRPCHealthAddr != "" {
		grpcServer = gs.NewGRPCServer(c.GRPCHealthAddr, logger, db)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		revocations: revocations,
		httpServer:  httpServer,
		grpcServer:  grpcServer,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Shutdown signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// pruneOnce drops revocation entries whose tokens have already expired.
func (app *App) pruneOnce(ctx context.Context) {
	n, err := app.revocations.Prune(ctx, time.Now())
	if err != nil {
		app.logger.Error(ctx, "blocklist prune failed", "err", err)
		return
	}
	if n > 0 {
		app.logger.Info(ctx, "blocklist pruned", "removed", n)
	}
}

func (app *App) runPruner(ctx context.Context) error {
	ticker := time.NewTicker(app.config.BlocklistPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			app.pruneOnce(ctx)
		}
	}
}

// Run starts every server and blocks until a signal arrives, ctx is done
// or one of them fails. The database is closed before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, name+" failed", "err", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http server", app.httpServer.Run)
	if app.grpcServer != nil {
		start("grpc server", app.grpcServer.Run)
	}
	if app.config.BlocklistPruneInterval > 0 {
		start("blocklist pruner", app.runPruner)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}

	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}
