package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/boshu2/daysince/internal/config"
	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/notifier"
	"github.com/boshu2/daysince/internal/storage"
)

var (
	// Global flags
	dryRun      bool
	verbose     bool
	output      string
	cfgFile     string
	historyFile string

	// cfg is the configuration resolved for this invocation.
	cfg = config.Default()

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "daysince",
	Short: "Days since the last production incident",
	Long: `daysince tracks the number of days since the last production incident.

It keeps an append-only incident history in a JSON file, computes the
current and record incident-free streaks, matches them against status
thresholds and milestones, and posts a daily update to a Slack webhook.

Core Commands:
  check     Report the current streak (run it daily from CI)
  reset     Record a new incident and restart the streak
  history   List recorded incidents
  plot      Chart streaks and incidents per month
  init      Seed a new history with a "start of tracking" record
  config    Show or validate configuration`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		syncConfigFlagToEnv()
		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without writing the history or posting to the webhook")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json, yaml, markdown, jsonl; default from config: table)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .daysince/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history", "", "Incident history file (default: last_incident.json)")
}

// loadConfig resolves configuration for this run and configures logging.
func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(&config.Config{
		Output:      output,
		HistoryFile: historyFile,
		Verbose:     verbose,
		TestMode:    dryRun,
	})
	if err != nil {
		return err
	}
	cfg = c
	logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// GetDryRun returns the dry-run flag value for use by subcommands.
func GetDryRun() bool {
	return dryRun
}

// GetOutput returns the resolved output format for use by subcommands.
func GetOutput() string {
	return cfg.Output
}

// GetConfigFile returns the config file path for use by subcommands.
func GetConfigFile() string {
	return cfgFile
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(GetConfigFile())
	if path == "" {
		return
	}
	_ = os.Setenv("DAYSINCE_CONFIG", path)
}

// openStore returns the history store for the resolved history file.
func openStore() storage.Store {
	return storage.NewFileStorage(storage.WithPath(cfg.HistoryFile))
}

// parseDay parses a --today/--date flag value; empty means today.
func parseDay(flag, value string) (incident.Date, error) {
	if strings.TrimSpace(value) == "" {
		return incident.Today(), nil
	}
	d, err := incident.ParseDate(value)
	if err != nil {
		return incident.Date{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return d, nil
}

// writeStructured writes v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// newNotifier builds the notifier for a run. Tests replace it.
var newNotifier = selectNotifier

// selectNotifier builds the notifier for this run from configuration.
func selectNotifier(w io.Writer) (notifier.Notifier, error) {
	timeout, err := cfg.NotifyTimeout()
	if err != nil {
		return nil, err
	}
	interval, err := cfg.NotifyMinInterval()
	if err != nil {
		return nil, err
	}
	return notifier.Select(cfg.WebhookTargets(), cfg.TestMode, w,
		notifier.WithTimeout(timeout),
		notifier.WithMinInterval(interval),
		notifier.WithLogger(logger),
	)
}
