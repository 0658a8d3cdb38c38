package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/vkmindia80/nexbii/internal/config"
	"github.com/vkmindia80/nexbii/internal/serverapp"
)

// Build metadata, injected via -ldflags "-X main.Version=... -X main.Commit=...".
var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	pflag.BoolP("version", "v", false, "Print version and exit")

	cfg, err := config.Load()
	if err != nil {
		fail(fmt.Errorf("failed to load configuration: %w", err))
	}

	if showVersion, _ := pflag.CommandLine.GetBool("version"); showVersion {
		fmt.Printf("nexbii %s (%s)\n", Version, Commit)
		return
	}

	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = Version
	}
	if err := reportValidation(cfg); err != nil {
		fail(err)
	}

	if err := run(cfg); err != nil {
		fail(err)
	}
}

func fail(err error) {
	slog.Error("server error", slog.String("error", err.Error()))
	os.Exit(1)
}

// reportValidation logs every configuration warning and error, and returns
// a non-nil error when any issue is fatal.
func reportValidation(cfg *config.Config) error {
	result := cfg.Validate()
	for _, warn := range result.Warnings {
		slog.Warn("configuration warning",
			slog.String("field", warn.Field),
			slog.String("message", warn.Message),
			slog.String("hint", warn.Hint),
		)
	}
	for _, issue := range result.Errors {
		slog.Error("configuration error",
			slog.String("field", issue.Field),
			slog.String("message", issue.Message),
			slog.String("hint", issue.Hint),
		)
	}
	if result.HasErrors() {
		return errors.New("configuration validation failed")
	}
	return nil
}

func run(cfg *config.Config) error {
	logger, loggerProvider, err := serverapp.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	app, err := serverapp.New(cfg, logger)
	if err != nil {
		if loggerProvider != nil {
			_ = loggerProvider.Shutdown(context.Background(), logger.Logger)
		}
		return err
	}
	app.AttachLoggerProvider(loggerProvider)

	if err := app.Init(context.Background()); err != nil {
		return err
	}

	shutdown := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return app.Shutdown(ctx)
	}

	serverErrors, err := app.Start()
	if err != nil {
		_ = shutdown()
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	waitErr := app.WaitForStop(stop, serverErrors)

	logger.Info("shutting down server gracefully")
	if err := errors.Join(waitErr, shutdown()); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
