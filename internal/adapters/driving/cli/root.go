// Package cli provides the cobra command tree for manualqa.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// version is overridden at build time via SetVersion.
var version = "dev"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// Services driven by the commands. Either injected directly (tests) or built
// on first use through the Builder.
var (
	askService      driving.AskService
	ingestService   driving.IngestService
	catalogService  driving.CatalogService
	healthService   driving.HealthService
	settingsService driving.SettingsService
	metricsHandler  http.Handler

	settings   domain.Settings
	configPath string
)

// Services is the wired pipeline handed back by a Builder.
type Services struct {
	Ask     driving.AskService
	Ingest  driving.IngestService
	Catalog driving.CatalogService
	Health  driving.HealthService
	Metrics http.Handler

	// Close releases index connections. May be nil.
	Close func() error
}

// Builder opens configuration and wires the pipeline.
type Builder interface {
	// OpenSettings loads the config file at path, or the default location
	// when path is empty, and returns the resolved path.
	OpenSettings(path string) (driving.SettingsService, string, error)

	// Build wires the pipeline from validated settings.
	Build(ctx context.Context, settings domain.Settings) (*Services, error)
}

var (
	builder   Builder
	closeFunc func() error
)

// SetBuilder sets the composition root used to create services.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "manualqa",
	Short: "Answer questions from product manuals",
	Long: `manualqa answers questions about ingested product manuals.

Each question is matched against a vector index and a keyword index in
parallel. The best excerpts go to a language model and the answer comes back
with page citations.

Run 'manualqa ingest' once to index a directory of manuals, then ask away.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
		if logLevel != "" {
			l, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(l)
		}
		return openSettings()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.manualqa/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic level: error, warn, info, or debug (overrides --verbose)")
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func openSettings() error {
	if builder == nil || settingsService != nil {
		return nil
	}

	svc, path, err := builder.OpenSettings(cfgFile)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService, configPath = svc, path
	return nil
}

// requireServices builds the pipeline once for commands that need it.
func requireServices(cmd *cobra.Command) error {
	if builder == nil || askService != nil {
		return nil
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	svc, err := builder.Build(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("starting services: %w", err)
	}

	settings = s
	askService = svc.Ask
	ingestService = svc.Ingest
	catalogService = svc.Catalog
	healthService = svc.Health
	metricsHandler = svc.Metrics
	closeFunc = svc.Close
	return nil
}

func closeServices() {
	if closeFunc == nil {
		return
	}
	if err := closeFunc(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	closeFunc = nil
}

// manualsDir returns the configured manuals directory.
func manualsDir() string {
	if settings.Ingest.ManualsDir != "" {
		return settings.Ingest.ManualsDir
	}
	return domain.DefaultManualsDir
}

// serverAddr returns the configured HTTP listen address.
func serverAddr() string {
	if settings.Server.Addr != "" {
		return settings.Server.Addr
	}
	return domain.DefaultServerAddr
}
