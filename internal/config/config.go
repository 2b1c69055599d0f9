package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Organization controls how solutions are grouped under the repo root
type Organization string

const (
	OrganizeByDifficulty Organization = "difficulty"
	OrganizeFlat         Organization = "flat"
)

const (
	DefaultBaseURL        = "https://leetcode.com"
	DefaultCommitTemplate = "Add: {problem_id} - {problem_title} [{difficulty}]"
	EnvPrefix             = "LEETSYNC"
)

var (
	ErrMissingSession      = errors.New("leetcode_session is not set")
	ErrInvalidOrganization = errors.New("organize_by must be \"difficulty\" or \"flat\"")
)

// HistoryConfig controls the local run ledger
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path" toml:"path"`
}

// Config is read once at startup and passed by value to every component
type Config struct {
	Session               string        `mapstructure:"leetcode_session" toml:"leetcode_session"`
	CSRFToken             string        `mapstructure:"csrf_token" toml:"csrf_token"`
	BaseURL               string        `mapstructure:"base_url" toml:"base_url"`
	RepoPath              string        `mapstructure:"repo_path" toml:"repo_path"`
	OrganizeBy            Organization  `mapstructure:"organize_by" toml:"organize_by"`
	MaxSubmissions        int           `mapstructure:"max_submissions" toml:"max_submissions"`
	AutoPush              bool          `mapstructure:"auto_push" toml:"auto_push"`
	TodayOnly             bool          `mapstructure:"today_only" toml:"today_only"`
	CommitMessageTemplate string        `mapstructure:"commit_message_template" toml:"commit_message_template"`
	IncludeHeader         bool          `mapstructure:"include_header" toml:"include_header"`
	RemoteName            string        `mapstructure:"remote_name" toml:"remote_name"`
	RemoteURL             string        `mapstructure:"remote_url" toml:"remote_url"`
	Branch                string        `mapstructure:"branch" toml:"branch"`
	PageDelayMS           int           `mapstructure:"page_delay_ms" toml:"page_delay_ms"`
	RecordDelayMS         int           `mapstructure:"record_delay_ms" toml:"record_delay_ms"`
	History               HistoryConfig `mapstructure:"history" toml:"history"`
}

// Default returns the configuration used when no file overrides a key
func Default() Config {
	return Config{
		BaseURL:               DefaultBaseURL,
		RepoPath:              "./solutions",
		OrganizeBy:            OrganizeByDifficulty,
		MaxSubmissions:        100,
		AutoPush:              true,
		CommitMessageTemplate: DefaultCommitTemplate,
		IncludeHeader:         true,
		RemoteName:            "origin",
		Branch:                "main",
		PageDelayMS:           500,
		RecordDelayMS:         300,
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
	}
}

// Dir returns the directory holding the config file and the history ledger
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "leetsync"), nil
}

// DefaultHistoryPath returns the ledger location, or "" when no home directory exists
func DefaultHistoryPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// SetDefaults registers every key with viper so env overrides reach Unmarshal
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("leetcode_session", d.Session)
	v.SetDefault("csrf_token", d.CSRFToken)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("repo_path", d.RepoPath)
	v.SetDefault("organize_by", string(d.OrganizeBy))
	v.SetDefault("max_submissions", d.MaxSubmissions)
	v.SetDefault("auto_push", d.AutoPush)
	v.SetDefault("today_only", d.TodayOnly)
	v.SetDefault("commit_message_template", d.CommitMessageTemplate)
	v.SetDefault("include_header", d.IncludeHeader)
	v.SetDefault("remote_name", d.RemoteName)
	v.SetDefault("remote_url", d.RemoteURL)
	v.SetDefault("branch", d.Branch)
	v.SetDefault("page_delay_ms", d.PageDelayMS)
	v.SetDefault("record_delay_ms", d.RecordDelayMS)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
}

// Load builds a validated Config from viper state
func Load(v *viper.Viper) (Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode builds a Config from viper state without validating it. Commands
// that never talk to the remote use it so a missing session is not fatal.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Session = strings.TrimSpace(cfg.Session)
	cfg.CSRFToken = strings.TrimSpace(cfg.CSRFToken)
	cfg.OrganizeBy = Organization(strings.ToLower(string(cfg.OrganizeBy)))

	repoPath, err := expandHome(cfg.RepoPath)
	if err != nil {
		return Config{}, err
	}
	cfg.RepoPath = repoPath

	historyPath, err := expandHome(cfg.History.Path)
	if err != nil {
		return Config{}, err
	}
	cfg.History.Path = historyPath

	return cfg, nil
}

// Validate reports the first fatal problem with the configuration
func (c Config) Validate() error {
	if c.Session == "" {
		return ErrMissingSession
	}
	switch c.OrganizeBy {
	case OrganizeByDifficulty, OrganizeFlat:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidOrganization, c.OrganizeBy)
	}
	if c.MaxSubmissions <= 0 {
		return fmt.Errorf("max_submissions must be positive, got %d", c.MaxSubmissions)
	}
	if strings.TrimSpace(c.CommitMessageTemplate) == "" {
		return fmt.Errorf("commit_message_template cannot be empty")
	}
	if c.RepoPath == "" {
		return fmt.Errorf("repo_path cannot be empty")
	}
	return nil
}

// PageDelay returns the pause between submission pages
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// RecordDelay returns the pause between processed records
func (c Config) RecordDelay() time.Duration {
	return time.Duration(c.RecordDelayMS) * time.Millisecond
}

// CommitMessage fills the commit template placeholders
func (c Config) CommitMessage(problemID, title, difficulty string) string {
	r := strings.NewReplacer(
		"{problem_id}", problemID,
		"{problem_title}", title,
		"{difficulty}", difficulty,
	)
	return r.Replace(c.CommitMessageTemplate)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
