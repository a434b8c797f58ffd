package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/saludboard/internal/api"
	"github.com/terraincognita07/saludboard/internal/cli"
	"github.com/terraincognita07/saludboard/internal/config"
	"github.com/terraincognita07/saludboard/internal/db"
	"github.com/terraincognita07/saludboard/internal/i18n"
	"github.com/terraincognita07/saludboard/internal/services"
	"github.com/terraincognita07/saludboard/internal/templates"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:          "saludboard",
		Short:        "SaludBoard onboarding server",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, migrateCmd(), resetPasswordCmd(), resetOnboardingCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations and list them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(database *gorm.DB, _ zerolog.Logger) error {
				records, err := db.ListAppliedMigrations(database)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, record := range records {
					fmt.Fprintf(out, "%s\t%s\t%s\n", record.Version, record.Name, record.AppliedAt)
				}
				return nil
			})
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(database *gorm.DB, _ zerolog.Logger) error {
				out := cmd.OutOrStdout()
				return cli.RunResetPasswordCommand(database, email, cli.TerminalPasswordSource(os.Stdin, out), out)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func resetOnboardingCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-onboarding",
		Short: "Send an account back to the first onboarding step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(database *gorm.DB, _ zerolog.Logger) error {
				return cli.RunResetOnboardingCommand(database, email, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func withStorage(fn func(*gorm.DB, zerolog.Logger) error) error {
	cfg, err := config.LoadStorage()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(database, logger)
}

func runServer(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg, os.Stdout)
	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, i18n.EmbeddedLocales())
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	options := []api.HandlerOption{
		api.WithLogger(logger),
		api.WithCompletionLockTTL(cfg.CompletionLockTTL),
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		defer client.Close()
		options = append(options, api.WithLocker(services.NewRedisLocker(client)))
		logger.Info().Str("addr", cfg.RedisAddr).Msg("completion locks backed by redis")
	}

	if cfg.AMQPURL != "" {
		publisher, err := services.DialAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		options = append(options, api.WithEventPublisher(publisher))
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("onboarding events published to amqp")
	}

	handler, err := api.NewHandler(database, cfg.SecretKey, templates.FS(), location, i18nManager, cfg.CookieSecure, options...)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "SaludBoard",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(api.RequestLogger(logger))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("tz", location.String()).
		Msg("saludboard listening")
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// csrfMiddlewareConfig protects form posts. JSON requests cannot be sent
// cross-site without a preflight, so they skip the token check.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Next:           isJSONRequest,
		KeyLookup:      "form:csrf_token",
		CookieName:     "saludboard_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

func isJSONRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(cfg.Level()).With().Timestamp().Str("service", "saludboard").Logger()
}
