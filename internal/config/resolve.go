package config

import (
	"net/url"
	"os"
	"strconv"
)

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.daysince/config.yaml"
	SourceProject Source = ".daysince/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// getEnvString returns the first set value among keys and whether one was set.
func getEnvString(keys ...string) (string, bool) {
	v := firstEnv(keys...)
	return v, v != ""
}

// resolveStringField resolves a string through the precedence chain.
func resolveStringField(home, project, env, flag, def string) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// resolveBoolField resolves a boolean with OR semantics through the chain.
func resolveBoolField(home, project, env, flag bool) resolved {
	result := resolved{Value: false, Source: SourceDefault}
	if home {
		result = resolved{Value: true, Source: SourceHome}
	}
	if project {
		result = resolved{Value: true, Source: SourceProject}
	}
	if env {
		result = resolved{Value: true, Source: SourceEnv}
	}
	if flag {
		result = resolved{Value: true, Source: SourceFlag}
	}
	return result
}

// ResolvedConfig shows config values with their sources.
type ResolvedConfig struct {
	Output          resolved `json:"output" yaml:"output"`
	HistoryFile     resolved `json:"history_file" yaml:"history_file"`
	Verbose         resolved `json:"verbose" yaml:"verbose"`
	TestMode        resolved `json:"test_mode" yaml:"test_mode"`
	Team            resolved `json:"team" yaml:"team"`
	WebhookURL      resolved `json:"webhook_url" yaml:"webhook_url"`
	WebhookURLs     resolved `json:"webhook_urls" yaml:"webhook_urls"`
	MetricsTextfile resolved `json:"metrics_textfile" yaml:"metrics_textfile"`
}

type resolved struct {
	Value  interface{} `json:"value" yaml:"value"`
	Source Source      `json:"source" yaml:"source"`
}

// Flags carries the command-line values that take part in resolution.
type Flags struct {
	Output      string
	HistoryFile string
	Verbose     bool
	DryRun      bool
}

// Resolve returns configuration with source tracking.
// Uses precedence chain: flags > env > project > home > defaults.
// Unreadable config files are reported by Load, not here.
func Resolve(flags Flags) *ResolvedConfig {
	home, _ := loadFromPath(homeConfigPath())
	project, _ := loadFromPath(projectConfigPath())
	if home == nil {
		home = &Config{}
	}
	if project == nil {
		project = &Config{}
	}

	envOutput, _ := getEnvString("DAYSINCE_OUTPUT")
	envHistory, _ := getEnvString("DAYSINCE_HISTORY_FILE")
	envTeam, _ := getEnvString("DAYSINCE_TEAM")
	envWebhook, _ := getEnvString("DAYSINCE_WEBHOOK_URL", "SLACK_WEBHOOK_URL")
	envTextfile, _ := getEnvString("DAYSINCE_METRICS_TEXTFILE")

	rc := &ResolvedConfig{
		Output:          resolveStringField(home.Output, project.Output, envOutput, flags.Output, defaultOutput),
		HistoryFile:     resolveStringField(home.HistoryFile, project.HistoryFile, envHistory, flags.HistoryFile, defaultHistoryFile),
		Verbose:         resolveBoolField(home.Verbose, project.Verbose, envTrue("DAYSINCE_VERBOSE"), flags.Verbose),
		TestMode:        resolveBoolField(home.TestMode, project.TestMode, envTrue("DAYSINCE_TEST_MODE", "TEST_MODE"), flags.DryRun),
		Team:            resolveStringField(home.Team, project.Team, envTeam, "", ""),
		WebhookURL:      resolveStringField(home.Notify.WebhookURL, project.Notify.WebhookURL, envWebhook, "", ""),
		MetricsTextfile: resolveStringField(home.Metrics.Textfile, project.Metrics.Textfile, envTextfile, "", ""),
	}
	if s, ok := rc.WebhookURL.Value.(string); ok {
		rc.WebhookURL.Value = MaskURL(s)
	}
	rc.WebhookURLs = resolveListField(home.Notify.WebhookURLs, project.Notify.WebhookURLs)
	return rc
}

// resolveListField resolves a file-only list, masking each URL.
func resolveListField(home, project []string) resolved {
	list, src := []string{}, SourceDefault
	if len(home) > 0 {
		list, src = home, SourceHome
	}
	if len(project) > 0 {
		list, src = project, SourceProject
	}
	masked := make([]string, len(list))
	for i, u := range list {
		masked[i] = MaskURL(u)
	}
	return resolved{Value: masked, Source: src}
}

// MaskURL hides the path of a webhook URL, which carries the secret token.
func MaskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "****"
	}
	return u.Scheme + "://" + u.Host + "/****"
}

// ProjectConfigPath returns the project config location that Load reads.
func ProjectConfigPath() string {
	return projectConfigPath()
}

// HomeConfigPath returns the home config location that Load reads.
func HomeConfigPath() string {
	return homeConfigPath()
}

// exists reports whether path names an existing file.
func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Files lists the config files that Load would read, in precedence order
// (lowest first), marking which exist.
func Files() []FileStatus {
	return []FileStatus{
		{Path: homeConfigPath(), Source: SourceHome, Exists: exists(homeConfigPath())},
		{Path: projectConfigPath(), Source: SourceProject, Exists: exists(projectConfigPath())},
	}
}

// FileStatus describes one candidate config file.
type FileStatus struct {
	Path   string `json:"path" yaml:"path"`
	Source Source `json:"source" yaml:"source"`
	Exists bool   `json:"exists" yaml:"exists"`
}

// String renders the status on one line.
func (f FileStatus) String() string {
	return f.Path + " (exists=" + strconv.FormatBool(f.Exists) + ")"
}
