package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/daysince/internal/config"
	"github.com/boshu2/daysince/internal/formatter"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or validate configuration",
	Long: `View and check daysince configuration.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (DAYSINCE_*)
  3. Project config (.daysince/config.yaml, or --config / DAYSINCE_CONFIG)
  4. Home config (~/.daysince/config.yaml)
  5. Defaults

Config files may be YAML, TOML or JSON; the extension selects the format.
notify.webhook_urls (config files only) posts each notification to several
webhooks, spaced by notify.min_interval.

Environment variables:
  DAYSINCE_CONFIG           - Explicit config file path
  DAYSINCE_OUTPUT           - Default output format (table, json, yaml, markdown, jsonl)
  DAYSINCE_HISTORY_FILE     - Incident history file (default: last_incident.json)
  DAYSINCE_VERBOSE          - Enable debug logging (true/1)
  DAYSINCE_TEAM             - Team name shown in reports and metric labels
  DAYSINCE_WEBHOOK_URL      - Slack incoming webhook (falls back to SLACK_WEBHOOK_URL)
  DAYSINCE_TEST_MODE        - Print notifications instead of posting (falls back to TEST_MODE)
  DAYSINCE_METRICS_TEXTFILE - Prometheus textfile written by check`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with sources",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check status thresholds, milestones, messages and durations",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// configShowOutput is the structured output of config show.
type configShowOutput struct {
	Files      []config.FileStatus      `json:"files" yaml:"files"`
	Resolved   *config.ResolvedConfig   `json:"resolved" yaml:"resolved"`
	Status     []config.ThresholdConfig `json:"status_thresholds" yaml:"status_thresholds"`
	Milestones config.MilestoneConfig   `json:"milestones" yaml:"milestones"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	resolved := config.Resolve(config.Flags{
		Output:      output,
		HistoryFile: historyFile,
		Verbose:     verbose,
		DryRun:      dryRun,
	})
	show := configShowOutput{
		Files:      config.Files(),
		Resolved:   resolved,
		Status:     cfg.StatusThresholds,
		Milestones: cfg.Milestones,
	}

	w := cmd.OutOrStdout()
	switch GetOutput() {
	case "json", "yaml":
		return writeStructured(w, GetOutput(), show)
	}

	fmt.Fprintln(w, "daysince Configuration")
	fmt.Fprintln(w, "======================")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config files:")
	for _, f := range show.Files {
		mark := "not found"
		if f.Exists {
			mark = "loaded"
		}
		fmt.Fprintf(w, "  %-26s %s (%s)\n", f.Source, f.Path, mark)
	}
	fmt.Fprintln(w)

	tbl := formatter.NewTable(w, "SETTING", "VALUE", "SOURCE")
	for _, row := range []struct {
		name  string
		value any
		src   config.Source
	}{
		{"output", resolved.Output.Value, resolved.Output.Source},
		{"history_file", resolved.HistoryFile.Value, resolved.HistoryFile.Source},
		{"verbose", resolved.Verbose.Value, resolved.Verbose.Source},
		{"test_mode", resolved.TestMode.Value, resolved.TestMode.Source},
		{"team", resolved.Team.Value, resolved.Team.Source},
		{"notify.webhook_url", resolved.WebhookURL.Value, resolved.WebhookURL.Source},
		{"notify.webhook_urls", resolved.WebhookURLs.Value, resolved.WebhookURLs.Source},
		{"metrics.textfile", resolved.MetricsTextfile.Value, resolved.MetricsTextfile.Source},
	} {
		tbl.AddRow(row.name, fmt.Sprint(row.value), string(row.src))
	}
	if err := tbl.Render(); err != nil {
		return err
	}

	rules, err := cfg.Rules()
	if err != nil {
		fmt.Fprintf(w, "\nStatus thresholds: invalid (%v)\n", err)
		return nil
	}
	fmt.Fprintln(w)
	status := formatter.NewTable(w, "DAYS", "STATUS")
	for _, r := range rules.Status.Ranges() {
		status.AddRow(r.String(), r.Emoji+" "+r.Label)
	}
	return status.Render()
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), "✅ Configuration is valid")
	return err
}
