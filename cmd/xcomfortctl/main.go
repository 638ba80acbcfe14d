// Xcomfortctl is a command line client for the Eaton xComfort Smart
// Home Controller.
//
// It drives the gateway's remote interface through the library in the
// repository root: listing the configured device and scene names,
// switching and dimming devices, triggering scenes, and running the
// discovery that populates the name directory.
//
// Usage:
//
//	xcomfortctl [command] [flags]
//
// Configuration comes from a YAML file, overridden by XCOMFORT_*
// environment variables, optionally seeded from a .env file. See
// 'xcomfortctl --help' for available commands.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	xcomfort "github.com/kevinsch95/xcomfort-shc-api"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/config"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// defaultConfigPath is tried when --config is not given. A missing
// default file is fine; configuration then comes from the environment.
const defaultConfigPath = "xcomfortctl.yaml"

// Command line flags.
var (
	configPath string
	envPath    string
	verbose    bool
)

func main() {
	// Cancel the command context on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xcomfortctl",
	Short: "Remote client for the xComfort Smart Home Controller",
	Long: `A command line client for the Eaton xComfort Smart Home Controller.

Lists the device and scene names configured on the gateway, switches
and dims devices, triggers scenes, and runs the discovery that builds
the local name directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to .env file (missing files are ignored)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

// loadDotEnv loads environment variables from path. Missing files are
// ignored so .env files remain optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig assembles the effective configuration: .env file, then the
// YAML file when present, then XCOMFORT_* environment overrides.
func loadConfig() (*config.Config, error) {
	if err := loadDotEnv(envPath); err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			// No file at all: environment-only configuration
			cfg := config.Default()
			config.ApplyEnv(cfg)
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		path = defaultConfigPath
	}

	return config.Load(path)
}

// buildClient constructs a client from the effective configuration.
//
// forceDiscovery makes the client run discovery regardless of the
// configured setup mode; the setup command uses it.
func buildClient(ctx context.Context, forceDiscovery bool) (*xcomfort.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	var logger *xcomfort.Logger
	if verbose {
		logCfg := cfg.Logging
		logCfg.Format = "text"
		logCfg.Output = "stderr"
		logger = xcomfort.NewLogger(logCfg, version)
	}

	opts := xcomfort.Options{
		BaseURL:         cfg.Gateway.BaseURL,
		Username:        cfg.Gateway.Username,
		Password:        cfg.Gateway.Password,
		RemoteKey:       cfg.Gateway.RemoteKey,
		AutoSetup:       cfg.Setup.Auto,
		ImportSetupPath: cfg.Setup.ImportPath,
		Cache:           cfg.Cache,
		HTTPTimeout:     cfg.GetHTTPTimeout(),
		Logger:          logger,
		Influx:          cfg.InfluxDB,
	}
	if forceDiscovery {
		opts.AutoSetup = true
		opts.ImportSetupPath = ""
	}

	if cfg.HTTP.InsecureSkipVerify {
		opts.HTTPClient = &http.Client{
			Timeout: cfg.GetHTTPTimeout(),
			Transport: &http.Transport{
				// #nosec G402 -- explicit opt-in for gateways with self-signed certs
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	client, err := xcomfort.New(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
