package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/email"
	"github.com/dukerupert/shopery/internal/jobs"
	"github.com/dukerupert/shopery/internal/telemetry"
)

const metricsNamespace = "shopery"

// app holds what every command needs: configuration, logger, the metrics
// registry and the Sentry flush.
type app struct {
	cfg      *internal.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.BusinessMetrics
	flush    func()
}

func newApp() (*app, error) {
	cfg, err := internal.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	zerolog.DefaultContextLogger = &logger

	flush, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  telemetry.NewBusinessMetrics(metricsNamespace, registry),
		flush:    flush,
	}, nil
}

func (a *app) close() {
	a.flush()
}

// migrateDB runs goose over a database/sql handle opened with the pgx driver.
func (a *app) migrateDB(ctx context.Context, command string) error {
	sqlDB, err := sql.Open("pgx", a.cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	a.logger.Info().Str("command", command).Msg("Running database migrations...")
	if err := internal.Migrate(ctx, sqlDB, command); err != nil {
		return err
	}
	a.logger.Info().Msg("Database migrations completed successfully")
	return nil
}

func (a *app) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, a.cfg.DatabaseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	a.logger.Info().Msg("Database connection established")
	return pool, nil
}

// connectNATS returns nil when NATS_URL is unset.
func (a *app) connectNATS() (*nats.Conn, error) {
	if a.cfg.NatsURL == "" {
		a.logger.Warn().Msg("NATS_URL not set, notifications will only be logged")
		return nil, nil
	}

	logger := a.logger
	conn, err := nats.Connect(a.cfg.NatsURL,
		nats.Name("shopery"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	a.logger.Info().Str("url", conn.ConnectedUrl()).Msg("NATS connection established")
	return conn, nil
}

// notifier publishes to NATS when connected and logs otherwise.
func (a *app) notifier(conn *nats.Conn) domain.Notifier {
	if conn == nil {
		return jobs.NewLogPublisher(a.logger)
	}
	return jobs.NewPublisher(conn)
}

// mailer builds the email service for the configured provider.
func (a *app) mailer() (*email.Service, error) {
	var sender email.Sender
	switch a.cfg.Email.Provider {
	case "smtp":
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     a.cfg.Email.Host,
			Port:     a.cfg.Email.Port,
			Username: a.cfg.Email.Username,
			Password: a.cfg.Email.Password,
			From:     a.cfg.Email.From,
		}, a.logger)
	case "sendgrid":
		sender = email.NewSendGridSender(a.cfg.Email.SendGridAPIKey, a.logger)
	default:
		sender = email.NewLogSender(a.logger)
	}

	svc, err := email.NewService(sender, a.cfg.Email.From, a.cfg.Email.FromName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}
	a.logger.Info().Str("provider", a.cfg.Email.Provider).Msg("Email service initialized")
	return svc, nil
}

func migrate(ctx context.Context, command string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return a.migrateDB(ctx, command)
}
