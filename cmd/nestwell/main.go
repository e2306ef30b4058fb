// Package main provides the nestwell binary: the HTTP service and the
// operator commands that act on stored onboarding state.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/nestwell/internal/api"
	"github.com/terraincognita07/nestwell/internal/cli"
	"github.com/terraincognita07/nestwell/internal/config"
	"github.com/terraincognita07/nestwell/internal/db"
	"github.com/terraincognita07/nestwell/internal/i18n"
	"github.com/terraincognita07/nestwell/internal/logging"
	"github.com/terraincognita07/nestwell/internal/metrics"
	"github.com/terraincognita07/nestwell/internal/remote"
)

const (
	Version = "0.1.0"
	appName = "nestwell"

	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Nestwell onboarding service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with settings")

	cmd.AddCommand(serveCmd(&envFile))
	cmd.AddCommand(onboardingCmd(&envFile, "reset-onboarding", "Send a user through onboarding again, keeping prefill data", cli.RunResetOnboardingCommand))
	cmd.AddCommand(onboardingCmd(&envFile, "clear-onboarding", "Remove every stored onboarding slot of a user", cli.RunClearOnboardingCommand))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logging.New(cfg.LogLevel, cfg.LogFormat))
		},
	}
}

type onboardingCommand func(ctx context.Context, dbPath string, email string, out io.Writer, logger *logrus.Logger) error

func onboardingCmd(envFile *string, use string, short string, run onboardingCommand) *cobra.Command {
	var (
		email  string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				resolved, err := config.DatabaseOnly(*envFile)
				if err != nil {
					return err
				}
				dbPath = resolved
			}
			return run(cmd.Context(), dbPath, email, cmd.OutOrStdout(), logging.New("warn", "text"))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email of the account")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to DB_PATH)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, i18n.Locales())
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.HandlerOptions{
		SecretKey:    cfg.SecretKey,
		CookieSecure: cfg.CookieSecure,
		I18n:         i18nManager,
		Logger:       logger,
		Metrics:      metrics.New(),
		SetupAPI:     remote.NewSetupClient(cfg.ProfileAPIURL, cfg.ProfileAPIToken, cfg.ProfileAPITimeout),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"db":          cfg.DBPath,
		"profile_api": cfg.ProfileAPIURL,
	}).Info("Nestwell listening")
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
