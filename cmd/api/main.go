package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stickynote/internal/auth"
	"stickynote/internal/config"
	"stickynote/internal/database"
	"stickynote/internal/database/migration"
	handlers "stickynote/internal/http/handler"
	"stickynote/internal/http/middleware"
	"stickynote/internal/logging"
	"stickynote/internal/mail"
	"stickynote/internal/otel"
	"stickynote/internal/repository/postgres"
	"stickynote/internal/service"
	"stickynote/internal/storage"
)

const serviceName = "stickynote"

// @title StickyNote API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location(), slog.LevelInfo)

	if err := run(cfg, log); err != nil {
		log.Error("server_exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		UserSecret:  []byte(cfg.Auth.UserSecret),
		AdminSecret: []byte(cfg.Auth.AdminSecret),
		TTL:         cfg.Auth.TokenTTL,
	})
	if err != nil {
		return err
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	userRepo := postgres.NewUserPostgres(db)
	adminRepo := postgres.NewAdminPostgres(db)
	noteRepo := postgres.NewNotePostgres(db)
	labelRepo := postgres.NewLabelPostgres(db)

	services := handlers.Services{
		Users: service.NewUserService(userRepo, noteRepo, store, hasher, tokens, log),
		Admins: service.NewAdminService(adminRepo, store, hasher, tokens, mailer, service.OTPSettings{
			Length: cfg.OTP.Length,
			TTL:    cfg.OTP.TTL,
		}, log),
		Notes:       service.NewNoteService(noteRepo, store, log),
		Attachments: service.NewAttachmentService(noteRepo, store, log),
		Labels:      service.NewLabelService(labelRepo),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		BodyLimit:             cfg.Upload.MaxBodyBytes,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithServerName(serviceName)))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterDocs(app, cfg.AppHost, cfg.AppScheme)

	handlers.RegisterRoutes(app, handlers.RouteConfig{
		DB:                db,
		Store:             store,
		Tokens:            tokens,
		Services:          services,
		MaxFilesPerUpload: cfg.Upload.MaxFiles,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", "addr", ":"+cfg.Port, "storage_driver", cfg.Storage.Driver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverLocal {
		l, err := storage.NewLocal(cfg.Storage.LocalRoot)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	m, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// newMailer uses SMTP when a host is configured and logs messages otherwise.
func newMailer(cfg *config.AppConfig, log *slog.Logger) (mail.Mailer, error) {
	if cfg.Mail.Host == "" {
		log.Warn("mail_disabled", "reason", "SMTP_HOST not set, OTP mails are logged only")
		return mail.NewLogMailer(log), nil
	}
	return mail.NewSMTP(cfg.Mail)
}
