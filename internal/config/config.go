// Package config provides configuration management for daysince.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (DAYSINCE_*)
// 3. Project config (.daysince/config.yaml in cwd, or $DAYSINCE_CONFIG)
// 4. Home config (~/.daysince/config.yaml)
// 5. Defaults
//
// Config files may be YAML, TOML or JSON; the format follows the extension.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/boshu2/daysince/internal/report"
	"github.com/boshu2/daysince/internal/threshold"
)

// Config holds all daysince configuration.
type Config struct {
	// Output controls the default output format (table, json, yaml, markdown).
	Output string `yaml:"output" json:"output" toml:"output"`

	// HistoryFile is the incident history location (default: last_incident.json).
	HistoryFile string `yaml:"history_file" json:"history_file" toml:"history_file"`

	// Verbose enables debug logging on stderr.
	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`

	// TestMode prints notifications instead of posting them.
	TestMode bool `yaml:"test_mode" json:"test_mode" toml:"test_mode"`

	// Team is shown in notification headers when set.
	Team string `yaml:"team" json:"team" toml:"team"`

	// StatusThresholds replaces the default status table when non-empty.
	StatusThresholds []ThresholdConfig `yaml:"status_thresholds" json:"status_thresholds" toml:"status_thresholds"`

	Milestones MilestoneConfig `yaml:"milestones" json:"milestones" toml:"milestones"`
	Messages   MessagesConfig  `yaml:"messages" json:"messages" toml:"messages"`
	Notify     NotifyConfig    `yaml:"notify" json:"notify" toml:"notify"`
	Metrics    MetricsConfig   `yaml:"metrics" json:"metrics" toml:"metrics"`
}

// ThresholdConfig is one row of the status table. A missing max_days makes
// the row open-ended.
type ThresholdConfig struct {
	MinDays int    `yaml:"min_days" json:"min_days" toml:"min_days"`
	MaxDays *int   `yaml:"max_days,omitempty" json:"max_days,omitempty" toml:"max_days,omitempty"`
	Emoji   string `yaml:"emoji" json:"emoji" toml:"emoji"`
	Label   string `yaml:"label" json:"label" toml:"label"`
}

// MilestoneConfig holds milestone messages. Days is keyed by the day count as
// a string so the same file shape works in YAML, TOML and JSON.
type MilestoneConfig struct {
	Days map[string]string `yaml:"days" json:"days" toml:"days"`

	// RecurringIntervalDays fires a generic milestone every N days (0 = off).
	RecurringIntervalDays *int `yaml:"recurring_interval_days,omitempty" json:"recurring_interval_days,omitempty" toml:"recurring_interval_days,omitempty"`

	// RecurringAfterDays suppresses the recurring milestone up to this day.
	RecurringAfterDays *int `yaml:"recurring_after_days,omitempty" json:"recurring_after_days,omitempty" toml:"recurring_after_days,omitempty"`

	// RecurringMessage is a text/template rendered with {{.Days}}.
	RecurringMessage string `yaml:"recurring_message" json:"recurring_message" toml:"recurring_message"`
}

// MessagesConfig holds the text templates used by the report formatter.
// Templates are rendered with the report as data.
type MessagesConfig struct {
	Title           string `yaml:"title" json:"title" toml:"title"`
	NoIncidents     string `yaml:"no_incidents" json:"no_incidents" toml:"no_incidents"`
	NewRecord       string `yaml:"new_record" json:"new_record" toml:"new_record"`
	MilestoneHeader string `yaml:"milestone_header" json:"milestone_header" toml:"milestone_header"`
	Footer          string `yaml:"footer" json:"footer" toml:"footer"`
	ResetTitle      string `yaml:"reset_title" json:"reset_title" toml:"reset_title"`
	ResetBody       string `yaml:"reset_body" json:"reset_body" toml:"reset_body"`
	ResetFooter     string `yaml:"reset_footer" json:"reset_footer" toml:"reset_footer"`
}

// NotifyConfig holds webhook settings.
type NotifyConfig struct {
	// WebhookURL is the Slack-compatible incoming webhook.
	WebhookURL string `yaml:"webhook_url" json:"webhook_url" toml:"webhook_url"`

	// WebhookURLs lists further webhooks that receive the same payload,
	// e.g. one per channel. Posts to all of them share MinInterval.
	WebhookURLs []string `yaml:"webhook_urls" json:"webhook_urls" toml:"webhook_urls"`

	// Timeout bounds a single webhook POST (Go duration, default 10s).
	Timeout string `yaml:"timeout" json:"timeout" toml:"timeout"`

	// MinInterval is the minimum spacing between posts (default 1s).
	MinInterval string `yaml:"min_interval" json:"min_interval" toml:"min_interval"`
}

// MetricsConfig holds Prometheus textfile settings.
type MetricsConfig struct {
	// Textfile is written after each check when set.
	Textfile string `yaml:"textfile" json:"textfile" toml:"textfile"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput      = "table"
	defaultHistoryFile = "last_incident.json"
	defaultTimeout     = "10s"
	defaultMinInterval = "1s"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output:           defaultOutput,
		HistoryFile:      defaultHistoryFile,
		StatusThresholds: DefaultThresholds(),
		Milestones: MilestoneConfig{
			Days: map[string]string{
				"10":  "🎉 10 Days! Team shoutout time! 🎉",
				"30":  "☕ 30 Days! Virtual coffee vouchers for everyone! ☕",
				"50":  "🍽️ 50 Days! Team lunch celebration! 🍽️",
				"100": "🎁 100 Days! Custom swag incoming! 🎁",
			},
			RecurringIntervalDays: intPtr(50),
			RecurringAfterDays:    intPtr(100),
			RecurringMessage:      threshold.DefaultRecurringMessage,
		},
		Messages: MessagesConfig(report.DefaultMessages()),
		Notify: NotifyConfig{
			Timeout:     defaultTimeout,
			MinInterval: defaultMinInterval,
		},
	}
}

// DefaultThresholds returns the built-in status table.
func DefaultThresholds() []ThresholdConfig {
	return []ThresholdConfig{
		{MinDays: 0, MaxDays: intPtr(0), Emoji: "🔄", Label: "Starting fresh"},
		{MinDays: 1, MaxDays: intPtr(9), Emoji: "🌱", Label: "Building momentum"},
		{MinDays: 10, MaxDays: intPtr(29), Emoji: "🌿", Label: "Growing strong"},
		{MinDays: 30, MaxDays: intPtr(49), Emoji: "🌳", Label: "Solid foundation"},
		{MinDays: 50, Emoji: "🏆", Label: "Excellence achieved"},
	}
}

func intPtr(n int) *int { return &n }

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
// Missing config files are skipped; unreadable or malformed ones are errors.
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	for _, path := range []string{homeConfigPath(), projectConfigPath()} {
		fileConfig, err := loadFromPath(path)
		if err != nil {
			return nil, err
		}
		if fileConfig != nil {
			cfg = merge(cfg, fileConfig)
		}
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".daysince", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("DAYSINCE_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".daysince", "config.yaml")
}

// loadFromPath loads config from a YAML, TOML or JSON file. It returns
// (nil, nil) when path is empty or the file does not exist.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := decode(path, data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// decode picks the decoder from the file extension; YAML is the default.
func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// envTrue reports whether any of keys is set to true/1.
func envTrue(keys ...string) bool {
	for _, k := range keys {
		if v, err := strconv.ParseBool(os.Getenv(k)); err == nil && v {
			return true
		}
	}
	return false
}

// applyEnv applies environment variable overrides. SLACK_WEBHOOK_URL and
// TEST_MODE are honored for compatibility with existing CI pipelines.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("DAYSINCE_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("DAYSINCE_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("DAYSINCE_TEAM"); v != "" {
		cfg.Team = v
	}
	if envTrue("DAYSINCE_VERBOSE") {
		cfg.Verbose = true
	}
	if envTrue("DAYSINCE_TEST_MODE", "TEST_MODE") {
		cfg.TestMode = true
	}
	if v := firstEnv("DAYSINCE_WEBHOOK_URL", "SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("DAYSINCE_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeIntPtr overwrites dst with src when src was explicitly set.
func mergeIntPtr(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// merge merges src into dst, with src values taking precedence. Tables
// (status thresholds, milestone days) are replaced whole, never mixed.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Output, src.Output)
	mergeStr(&dst.HistoryFile, src.HistoryFile)
	mergeStr(&dst.Team, src.Team)
	if src.Verbose {
		dst.Verbose = true
	}
	if src.TestMode {
		dst.TestMode = true
	}
	if len(src.StatusThresholds) > 0 {
		dst.StatusThresholds = append([]ThresholdConfig(nil), src.StatusThresholds...)
	}

	mergeMilestones(&dst.Milestones, &src.Milestones)
	mergeMessages(&dst.Messages, &src.Messages)
	mergeNotify(&dst.Notify, &src.Notify)
	mergeStr(&dst.Metrics.Textfile, src.Metrics.Textfile)

	return dst
}

// mergeMilestones merges milestone fields.
func mergeMilestones(dst, src *MilestoneConfig) {
	if len(src.Days) > 0 {
		dst.Days = make(map[string]string, len(src.Days))
		for k, v := range src.Days {
			dst.Days[k] = v
		}
	}
	// An interval set without a start begins counting at day 0, not at the
	// start inherited from a lower layer.
	if src.RecurringIntervalDays != nil && src.RecurringAfterDays == nil {
		dst.RecurringAfterDays = intPtr(0)
	}
	mergeIntPtr(&dst.RecurringIntervalDays, src.RecurringIntervalDays)
	mergeIntPtr(&dst.RecurringAfterDays, src.RecurringAfterDays)
	mergeStr(&dst.RecurringMessage, src.RecurringMessage)
}

// mergeMessages merges message templates.
func mergeMessages(dst, src *MessagesConfig) {
	mergeStr(&dst.Title, src.Title)
	mergeStr(&dst.NoIncidents, src.NoIncidents)
	mergeStr(&dst.NewRecord, src.NewRecord)
	mergeStr(&dst.MilestoneHeader, src.MilestoneHeader)
	mergeStr(&dst.Footer, src.Footer)
	mergeStr(&dst.ResetTitle, src.ResetTitle)
	mergeStr(&dst.ResetBody, src.ResetBody)
	mergeStr(&dst.ResetFooter, src.ResetFooter)
}

// mergeNotify merges webhook settings.
func mergeNotify(dst, src *NotifyConfig) {
	mergeStr(&dst.WebhookURL, src.WebhookURL)
	if len(src.WebhookURLs) > 0 {
		dst.WebhookURLs = append([]string(nil), src.WebhookURLs...)
	}
	mergeStr(&dst.Timeout, src.Timeout)
	mergeStr(&dst.MinInterval, src.MinInterval)
}

// Rules converts the loose threshold and milestone settings into validated
// tables. Malformed configuration is rejected here, before any matching.
func (c *Config) Rules() (*threshold.Rules, error) {
	ranges := make([]threshold.Range, 0, len(c.StatusThresholds))
	for _, t := range c.StatusThresholds {
		ranges = append(ranges, threshold.Range{
			MinDays: t.MinDays,
			MaxDays: t.MaxDays,
			Emoji:   t.Emoji,
			Label:   t.Label,
		})
	}
	table, err := threshold.NewTable(ranges)
	if err != nil {
		return nil, fmt.Errorf("status_thresholds: %w", err)
	}

	spec := threshold.MilestoneSpec{
		Days:             make(map[int]string, len(c.Milestones.Days)),
		RecurringMessage: c.Milestones.RecurringMessage,
	}
	for key, msg := range c.Milestones.Days {
		days, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("milestones.days: %w: key %q is not a day count", threshold.ErrInvalidMilestone, key)
		}
		spec.Days[days] = msg
	}
	if c.Milestones.RecurringIntervalDays != nil {
		spec.RecurringIntervalDays = *c.Milestones.RecurringIntervalDays
	}
	if c.Milestones.RecurringAfterDays != nil {
		spec.RecurringAfterDays = *c.Milestones.RecurringAfterDays
	}
	milestones, err := threshold.NewMilestones(spec)
	if err != nil {
		return nil, fmt.Errorf("milestones: %w", err)
	}

	return &threshold.Rules{Status: table, Milestones: milestones}, nil
}

// WebhookTargets returns webhook_url followed by webhook_urls, without
// blanks or duplicates.
func (c *Config) WebhookTargets() []string {
	var targets []string
	seen := make(map[string]bool)
	for _, u := range append([]string{c.Notify.WebhookURL}, c.Notify.WebhookURLs...) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		targets = append(targets, u)
	}
	return targets
}

// NotifyTimeout returns the parsed webhook timeout.
func (c *Config) NotifyTimeout() (time.Duration, error) {
	return parseDuration("notify.timeout", c.Notify.Timeout, defaultTimeout)
}

// NotifyMinInterval returns the parsed spacing between webhook posts.
func (c *Config) NotifyMinInterval() (time.Duration, error) {
	return parseDuration("notify.min_interval", c.Notify.MinInterval, defaultMinInterval)
}

func parseDuration(field, value, def string) (time.Duration, error) {
	if value == "" {
		value = def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

// Validate checks everything that can be checked without running.
func (c *Config) Validate() error {
	var errs []error
	switch c.Output {
	case "table", "json", "yaml", "markdown", "jsonl":
	default:
		errs = append(errs, fmt.Errorf("output: unknown format %q", c.Output))
	}
	if _, err := c.Rules(); err != nil {
		errs = append(errs, err)
	}
	if _, err := report.NewRenderer(c.ReportMessages()); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.NotifyTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.NotifyMinInterval(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ReportMessages returns the message templates in the form the report
// renderer takes.
func (c *Config) ReportMessages() report.Messages {
	return report.Messages(c.Messages)
}
