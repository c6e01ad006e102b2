// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is read, if present, before the environment is inspected.
// Variables already set in the environment take precedence.
var DotEnvFile = ".env"

// maxPollIntervalSeconds is the largest interval that fits in a time.Duration.
const maxPollIntervalSeconds = math.MaxInt64 / int64(time.Second)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	RailwayToken     string
	RailwayProjectID string
	RailwayServiceID string
	RailwayAPIURL    string

	GitHubToken string
	GitHubRepo  string

	RepoPath     string
	Mode         string
	PollInterval time.Duration
	ListenAddr   string
	WebhookToken string

	ArtifactDir    string
	IDEPath        string
	IDEArgs        []string
	SignaturesPath string

	DBPath   string
	LogDir   string
	LogLevel string
}

// HasGitHub returns true when a repository is configured for commit lookups.
// The token is optional for public repositories.
func (c *Config) HasGitHub() bool {
	return c.GitHubRepo != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// Required: DEPLOYFIX_RAILWAY_TOKEN, DEPLOYFIX_REPO_PATH, and DEPLOYFIX_RAILWAY_PROJECT_ID
// in poll mode. Optional variables with defaults: DEPLOYFIX_MODE (poll),
// DEPLOYFIX_POLL_INTERVAL (60 seconds), DEPLOYFIX_LISTEN_ADDR (127.0.0.1:8080),
// DEPLOYFIX_ARTIFACT_DIR (OS temp dir), DEPLOYFIX_IDE_PATH (code),
// DEPLOYFIX_DB_PATH (deployfix.db), DEPLOYFIX_LOG_DIR (logs).
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{
		RailwayToken:     strings.TrimSpace(os.Getenv("DEPLOYFIX_RAILWAY_TOKEN")),
		RailwayProjectID: strings.TrimSpace(os.Getenv("DEPLOYFIX_RAILWAY_PROJECT_ID")),
		RailwayServiceID: strings.TrimSpace(os.Getenv("DEPLOYFIX_RAILWAY_SERVICE_ID")),
		RailwayAPIURL:    getEnv("DEPLOYFIX_RAILWAY_API_URL", ""),
		GitHubToken:      strings.TrimSpace(os.Getenv("DEPLOYFIX_GITHUB_TOKEN")),
		GitHubRepo:       strings.TrimSpace(os.Getenv("DEPLOYFIX_GITHUB_REPO")),
		RepoPath:         strings.TrimSpace(os.Getenv("DEPLOYFIX_REPO_PATH")),
		Mode:             getEnv("DEPLOYFIX_MODE", "poll"),
		ListenAddr:       getEnv("DEPLOYFIX_LISTEN_ADDR", "127.0.0.1:8080"),
		WebhookToken:     os.Getenv("DEPLOYFIX_WEBHOOK_TOKEN"),
		ArtifactDir:      getEnv("DEPLOYFIX_ARTIFACT_DIR", filepath.Join(os.TempDir(), "deployfix")),
		IDEPath:          getEnv("DEPLOYFIX_IDE_PATH", "code"),
		IDEArgs:          strings.Fields(os.Getenv("DEPLOYFIX_IDE_ARGS")),
		SignaturesPath:   os.Getenv("DEPLOYFIX_SIGNATURES_PATH"),
		DBPath:           getEnv("DEPLOYFIX_DB_PATH", "deployfix.db"),
		LogDir:           getEnv("DEPLOYFIX_LOG_DIR", "logs"),
		LogLevel:         getEnv("DEPLOYFIX_LOG_LEVEL", "info"),
		PollInterval:     60 * time.Second,
	}

	var errs []error

	if v, ok := os.LookupEnv("DEPLOYFIX_POLL_INTERVAL"); ok && strings.TrimSpace(v) != "" {
		secs, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		switch {
		case err != nil || secs <= 0:
			errs = append(errs, fmt.Errorf("DEPLOYFIX_POLL_INTERVAL must be a positive number of seconds, got %q", v))
		case secs > maxPollIntervalSeconds:
			errs = append(errs, fmt.Errorf("DEPLOYFIX_POLL_INTERVAL must be at most %d seconds, got %q", maxPollIntervalSeconds, v))
		default:
			cfg.PollInterval = time.Duration(secs) * time.Second
		}
	}

	if cfg.RailwayToken == "" {
		errs = append(errs, errors.New("DEPLOYFIX_RAILWAY_TOKEN is required"))
	}
	if cfg.RepoPath == "" {
		errs = append(errs, errors.New("DEPLOYFIX_REPO_PATH is required"))
	}

	switch cfg.Mode {
	case "poll":
		if cfg.RailwayProjectID == "" {
			errs = append(errs, errors.New("DEPLOYFIX_RAILWAY_PROJECT_ID is required in poll mode"))
		}
	case "webhook":
	default:
		errs = append(errs, fmt.Errorf("DEPLOYFIX_MODE must be poll or webhook, got %q", cfg.Mode))
	}

	if cfg.GitHubRepo != "" {
		owner, name, ok := strings.Cut(cfg.GitHubRepo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			errs = append(errs, fmt.Errorf("DEPLOYFIX_GITHUB_REPO must be owner/name, got %q", cfg.GitHubRepo))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// getEnv returns the trimmed value of key, or def when unset or blank.
func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
