package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AnshRaj112/inkwell-backend/internal/config"
	"github.com/AnshRaj112/inkwell-backend/internal/database"
	"github.com/AnshRaj112/inkwell-backend/internal/handlers"
	"github.com/AnshRaj112/inkwell-backend/internal/logger"
	"github.com/AnshRaj112/inkwell-backend/internal/mail"
	"github.com/AnshRaj112/inkwell-backend/internal/metrics"
	"github.com/AnshRaj112/inkwell-backend/internal/repository"
	"github.com/AnshRaj112/inkwell-backend/internal/routes"
	"github.com/AnshRaj112/inkwell-backend/internal/services"
	"github.com/AnshRaj112/inkwell-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.SetupDefault(os.Stdout, cfg.Environment)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrate(cfg); err != nil {
			slog.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func migrate(cfg *config.Config) error {
	if cfg.PostgresURI == "" {
		return errors.New("POSTGRES_URI is not set")
	}
	return database.RunMigrations(cfg.PostgresURI)
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// MongoDB
	slog.Info("Connecting to MongoDB...")
	mongoClient, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			slog.Error("failed to disconnect MongoDB", slog.Any("error", err))
		}
	}()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	slog.Info("✅ MongoDB indexes ensured")

	// Redis
	slog.Info("Connecting to Redis...")
	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	// PostgreSQL audit log, optional
	var audit services.AuditLog = services.NopAuditLog{}
	var pg *sql.DB
	if cfg.PostgresURI != "" {
		pg, err = database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		if err := database.RunMigrations(cfg.PostgresURI); err != nil {
			return err
		}
		audit = repository.NewPostgresAuditRepository(pg)
		slog.Info("✅ Auth audit log enabled")
	} else {
		slog.Warn("POSTGRES_URI not set. Auth audit log is disabled")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Mail
	sender, closeSender, err := newMailSender(cfg)
	if err != nil {
		return err
	}
	defer closeSender()
	templates, err := mail.LoadTemplates(cfg.MailTemplatesFile)
	if err != nil {
		return fmt.Errorf("load mail templates: %w", err)
	}
	notifier := mail.NewNotifier(sender, templates, collector)

	// Services
	users := repository.NewMongoUserRepository(db)
	posts := repository.NewMongoPostRepository(db)
	comments := repository.NewMongoCommentRepository(db)

	sessions := services.NewSessionManager(rdb, cfg.SessionSecret, cfg.SessionTTL, collector)
	auth := services.NewAuthService(users, sessions, utils.NewArgon2Hasher(utils.DefaultArgon2Params), notifier,
		services.WithAuditRecorder(audit),
		services.WithAuthMetrics(collector),
		services.WithResetTokenTTL(cfg.ResetTokenTTL),
		services.WithMailTimeout(cfg.MailTimeout),
	)
	san := services.NewSanitizer()
	postSvc := services.NewPostService(posts, comments, san)
	commentSvc := services.NewCommentService(posts, comments, san)
	profileSvc := services.NewProfileService(users, posts, auth, audit)

	var uploader services.ImageUploader = services.UnavailableUploader{}
	if cfg.CloudinaryConfigured() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			slog.Warn("failed to initialize Cloudinary. File uploads will not be available", slog.Any("error", err))
		} else {
			uploader = cld
			slog.Info("✅ Cloudinary service initialized")
		}
	} else {
		slog.Warn("Cloudinary credentials not found. File uploads will not be available")
	}

	// HTTP
	cookies := handlers.CookieConfigFrom(cfg)
	pages, err := handlers.NewPageHandler(auth, postSvc, sessions, cookies, cfg.BaseURL)
	if err != nil {
		return err
	}

	health := map[string]handlers.Pinger{
		"mongodb": handlers.PingerFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) }),
		"redis":   handlers.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}
	if pg != nil {
		health["postgres"] = handlers.PingerFunc(pg.PingContext)
	}

	router := routes.NewRouter(&routes.Deps{
		Logger:         slog.Default(),
		Metrics:        collector,
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		HSTS:           cfg.IsProduction(),
		Sessions:       auth,
		CookieVerifier: sessions,
		Auth:           handlers.NewAuthHandler(auth, sessions, cookies, cfg.BaseURL),
		Pages:          pages,
		Posts:          handlers.NewPostHandler(postSvc, commentSvc),
		Profile:        handlers.NewProfileHandler(profileSvc),
		Upload:         handlers.NewUploadHandler(uploader),
		Health:         handlers.Health(health),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🚀 Inkwell backend running", slog.String("addr", server.Addr), slog.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := auth.Drain(shutdownCtx); err != nil {
		slog.Warn("pending mail not delivered before shutdown", slog.Any("error", err))
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newMailSender picks the delivery path from MAIL_ENABLED and MAIL_TRANSPORT.
func newMailSender(cfg *config.Config) (mail.Sender, func(), error) {
	noop := func() {}
	if !cfg.MailEnabled {
		slog.Warn("Email sending is disabled")
		return mail.DisabledSender{}, noop, nil
	}

	switch cfg.MailTransport {
	case config.MailTransportQueue:
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect amqp: %w", err)
		}
		slog.Info("✅ Mail is queued for the mailer", slog.String("queue", cfg.MailQueue))
		return mail.NewQueueSender(conn, cfg.MailQueue), func() { _ = conn.Close() }, nil
	default:
		slog.Info("✅ Mail is sent over SMTP", slog.String("host", cfg.SMTPHost))
		return mail.NewSMTPSender(smtpConfig(cfg)), noop, nil
	}
}

func smtpConfig(cfg *config.Config) mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
}
