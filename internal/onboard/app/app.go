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

	httpapi "github.com/talentwire/onboard/internal/onboard/http"
	"github.com/talentwire/onboard/internal/onboard/mail"
	"github.com/talentwire/onboard/internal/onboard/render"
	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/talentwire/onboard/pkg/cryptox"
	"github.com/talentwire/onboard/pkg/jwtx"
	"github.com/talentwire/onboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the onboarding service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	cipher *cryptox.FieldCipher
	tokens *jwtx.HS256
	mailer mail.Dispatcher

	// Services
	adminService        *service.AdminService
	linkService         *service.LinkService
	sectionService      *service.SectionService
	masterService       *service.MasterService
	salaryService       *service.SalaryService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. It fails fast
// on missing secrets: a deployment without a field key, draft salt, or
// session secret must not come up and silently fall back to anything.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "onboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initSecrets(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	// Seed the first admin before serving traffic.
	ctx := context.Background()
	if err := app.adminService.EnsureBootstrap(ctx,
		app.cfg.BootstrapAdminEmail,
		app.cfg.BootstrapAdminName,
		app.cfg.BootstrapAdminPassword,
	); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	app.housekeepingService.Start()

	app.logger.Info("onboarding service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down onboarding service...")

	// Give outstanding requests a deadline for completion
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

	app.logger.Info("onboarding service stopped")
	return nil
}

// initSecrets validates the required secrets and builds the cipher and the
// session signer from them.
func (app *Application) initSecrets() error {
	if app.cfg.FieldKey == "" {
		return errors.New("ONBOARD_FIELD_KEY is required: refusing to start without a PII encryption key")
	}
	if app.cfg.DraftSalt == "" {
		return errors.New("ONBOARD_DRAFT_SALT is required: refusing to start without a draft identifier salt")
	}
	if app.cfg.SessionSecret == "" {
		return errors.New("ONBOARD_SESSION_SECRET is required: refusing to start without a session secret")
	}

	cipher, err := cryptox.NewFieldCipher(app.cfg.FieldKey)
	if err != nil {
		return fmt.Errorf("failed to initialize field cipher: %w", err)
	}
	app.cipher = cipher

	tokens, err := jwtx.NewHS256([]byte(app.cfg.SessionSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize session signer: %w", err)
	}
	app.tokens = tokens

	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initMail picks the mail backend. Without a configured region the service
// logs invitations instead of sending them, which is what dev wants anyway.
func (app *Application) initMail() error {
	if app.cfg.MailRegion == "" || app.cfg.MailSender == "" {
		app.logger.Info("mail disabled, invitations will be logged only")
		app.mailer = mail.LogDispatcher{}
		return nil
	}

	dispatcher, err := mail.NewSESDispatcher(context.Background(), app.cfg.MailRegion, app.cfg.MailSender)
	if err != nil {
		return fmt.Errorf("failed to initialize SES dispatcher: %w", err)
	}
	app.mailer = dispatcher
	app.logger.Info("mail enabled via SES", "region", app.cfg.MailRegion)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	app.adminService = &service.AdminService{
		Store:      app.db,
		Signer:     app.tokens,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.linkService = &service.LinkService{
		Store:   app.db,
		Mail:    app.mailer,
		BaseURL: app.cfg.BaseURL,
		LinkTTL: app.cfg.LinkTTL,
	}

	app.sectionService = &service.SectionService{
		Store:     app.db,
		Cipher:    app.cipher,
		DraftSalt: app.cfg.DraftSalt,
	}

	app.masterService = &service.MasterService{
		Store:    app.db,
		Cipher:   app.cipher,
		Renderer: &render.HTMLRenderer{CompanyName: app.cfg.CompanyName},
	}

	app.salaryService = &service.SalaryService{}
	if app.cfg.SalaryPlan != "" {
		plan, err := service.ParseSalaryPlan(app.cfg.SalaryPlan)
		if err != nil {
			return fmt.Errorf("invalid ONBOARD_SALARY_PLAN: %w", err)
		}
		app.salaryService.Plan = plan
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.LinkRetention,
	)

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AdminService = app.adminService
	router.LinkService = app.linkService
	router.SectionService = app.sectionService
	router.MasterService = app.masterService
	router.SalaryService = app.salaryService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
