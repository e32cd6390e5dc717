// Package server wires the assistant's backend: PostgreSQL-backed users, the
// HTTP API the admin client logs in through, and the gRPC health service.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/config"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/httpapi"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/repomanager"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/users"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gs "github.com/eurisssow03/wc-helper-sub001/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	zap         *zap.Logger
	logger      *logging.ZapLogger
	db          *sql.DB
	userService *users.Service
}

// NewApp opens the database, applies migrations and optionally seeds an
// admin account (config.SeedAdmin).
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewProductionZap(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{
		config:      c,
		zap:         logger.Desugar(),
		logger:      logger,
		db:          db,
		userService: users.NewService(rm.Users(db), c),
	}

	if c.SeedAdmin != "" {
		if err := app.seedAdmin(ctx, c.SeedAdmin); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) seedAdmin(ctx context.Context, pair string) error {
	username, password, ok := strings.Cut(pair, ":")
	if !ok || username == "" || password == "" {
		return fmt.Errorf("seed admin: expected username:password")
	}

	_, err := app.userService.Register(ctx, username, password, users.RoleAdmin)
	switch {
	case err == nil:
		app.logger.Info(ctx, "admin user registered", "username", username)
	case errors.Is(err, common.ErrDuplicateUsername):
		app.logger.Info(ctx, "admin user already exists", "username", username)
	default:
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
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

func (app *App) startGRPCServer(ctx context.Context) error {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.db, app.config.HealthCheckInterval)
	return s.Run(ctx)
}

func (app *App) startHTTPServer(ctx context.Context) error {
	h := httpapi.NewHandler(app.userService, app.db, app.config.SecretKey, app.logger)
	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           httpapi.NewRouter(h, app.zap),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves HTTP and gRPC until a signal arrives or either server fails;
// a failure of one stops the other.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.startGRPCServer(gctx) })
	g.Go(func() error { return app.startHTTPServer(gctx) })

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	_ = app.db.Close()
	_ = app.logger.Sync()
}
