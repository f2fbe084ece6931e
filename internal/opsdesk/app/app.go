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

	httpapi "github.com/aussiebroadwan/opsdesk/internal/opsdesk/http"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store/drivers/mongo"
	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
	"github.com/aussiebroadwan/opsdesk/pkg/cryptox"
	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	startupTimeout = 15 * time.Second
)

// Application encapsulates the ops desk service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	blobs blobx.Store

	// Services
	authService       *service.AuthService
	bootstrapService  *service.BootstrapService
	userService       *service.UserService
	departmentService *service.DepartmentService
	assetService      *service.AssetService
	itemService       *service.ItemService
	ticketService     *service.TicketService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("OPSDESK_JWT_SECRET must be set")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "opsdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initBlobs(); err != nil {
		return nil, err
	}

	signer, err := jwtx.NewSignerHS256([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier := jwtx.NewVerifierHS256([]byte(cfg.JWTSecret), cfg.Issuer)

	app.initServices(signer)
	app.initHTTP(verifier)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("opsdesk starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down opsdesk...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(ctx); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("opsdesk stopped")
	return nil
}

// initDatabase connects to MongoDB and ensures indexes exist
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := mongo.NewStore(ctx, app.cfg.MongoURI, app.cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("failed to ensure database indexes: %w", err)
	}

	app.logger.Info("database indexes ensured")
	return nil
}

// initBlobs wires the S3-compatible blob store backing image attachments
func (app *Application) initBlobs() error {
	blobs, err := blobx.NewS3Store(blobx.S3Config{
		Endpoint:    app.cfg.BlobEndpoint,
		Region:      app.cfg.BlobRegion,
		KeyID:       app.cfg.BlobKeyID,
		Secret:      app.cfg.BlobSecret,
		Bucket:      app.cfg.BlobBucket,
		CallTimeout: app.cfg.BlobCallTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	app.blobs = blobs
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices(signer jwtx.Signer) {
	app.authService = &service.AuthService{
		Store:    app.db,
		Signer:   signer,
		Issuer:   app.cfg.Issuer,
		TokenTTL: app.cfg.TokenTTL,
	}

	app.userService = &service.UserService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Users: app.userService,
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
	app.departmentService = &service.DepartmentService{Store: app.db}
	app.assetService = &service.AssetService{Store: app.db, Blobs: app.blobs}
	app.itemService = &service.ItemService{Store: app.db}
	app.ticketService = &service.TicketService{Store: app.db, Blobs: app.blobs}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP(verifier jwtx.Verifier) {
	router := httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.BootstrapService = app.bootstrapService
	router.UserService = app.userService
	router.DepartmentService = app.departmentService
	router.AssetService = app.assetService
	router.ItemService = app.itemService
	router.TicketService = app.ticketService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
