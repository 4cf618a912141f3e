package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/taskboard/internal/todo/http"
	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application wires the todo service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.TokenIssuer
	hasher *cryptox.Hasher

	authService         *service.AuthService
	todoService         *service.TodoService
	trashService        *service.TrashService
	holidayService      *service.HolidayService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New validates cfg and builds every dependency. The database is migrated
// and the admin account seeded before New returns.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "todo-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	filled, err := app.cfg.fillEphemeralSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral secrets: %w", err)
	}
	if filled {
		app.logger.Warn("JWT secrets not configured, using ephemeral secrets; tokens will not survive a restart")
	}

	if err := app.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tokens, err := jwtx.NewTokenIssuer(jwtx.TokenConfig{
		AccessSecret:  app.cfg.JWTSecret,
		RefreshSecret: app.cfg.JWTRefreshSecret,
		Issuer:        app.cfg.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	app.tokens = tokens
	app.hasher = cryptox.NewHasher(app.cfg.PasswordHashCost)

	app.logger.Info("token issuer ready",
		slog.String("access_key", cryptox.Fingerprint(app.cfg.JWTSecret)),
		slog.String("refresh_key", cryptox.Fingerprint(app.cfg.JWTRefreshSecret)),
	)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("todo service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the server within the grace period, then stops background
// work and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down todo service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("todo service stopped")
	return nil
}

// sqliteDSN turns a file path into a DSN with WAL, a busy timeout and
// foreign keys on every pooled connection.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqliteDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	app.authService = &service.AuthService{
		Store:  app.db,
		Tokens: app.tokens,
		Hasher: app.hasher,
	}
	app.todoService = &service.TodoService{Store: app.db}
	app.trashService = &service.TrashService{Store: app.db}
	app.holidayService = &service.HolidayService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Hasher: app.hasher,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.trashService,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.TrashRetention,
	)

	if app.cfg.AdminEmail == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := app.bootstrapService.EnsureAdmin(slogx.WithContext(ctx, app.logger), app.cfg.AdminEmail, app.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	app.logger.Info("admin account ready", slog.String("user_id", admin.ID))
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens.AccessVerifier(),
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.TodoService = app.todoService
	router.TrashService = app.trashService
	router.HolidayService = app.holidayService
	router.RateLimits.TrustProxyHeaders = app.cfg.TrustProxyHeaders
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
