package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/julianshen/stacklens/internal/scan"
)

// Config represents the top-level application configuration.
type Config struct {
	Scan      ScanConfig      `toml:"scan"`
	Output    OutputConfig    `toml:"output"`
	Recommend RecommendConfig `toml:"recommend"`
	Quiz      QuizConfig      `toml:"quiz"`
	Remote    RemoteConfig    `toml:"remote"`
}

// ScanConfig controls directory traversal.
type ScanConfig struct {
	MaxDepth    int      `toml:"max_depth"`
	SkipDirs    []string `toml:"skip_dirs"`
	Exclude     []string `toml:"exclude"`
	Concurrency int      `toml:"concurrency"`
}

// OutputConfig controls how reports are printed.
type OutputConfig struct {
	Format string `toml:"format"` // terminal, markdown, json
	Color  string `toml:"color"`  // auto, always, never
}

// RecommendConfig controls the recommendation layer.
type RecommendConfig struct {
	Limit int `toml:"limit"`
}

// QuizConfig controls the self-check quiz.
type QuizConfig struct {
	Questions int `toml:"questions"`
}

// RemoteConfig holds settings used when the input is a repository URL.
type RemoteConfig struct {
	GitHubTokenEnv string `toml:"github_token_env"`
	GitLabTokenEnv string `toml:"gitlab_token_env"`
	GitLabBaseURL  string `toml:"gitlab_base_url"`
	CloneRetries   int    `toml:"clone_retries"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			MaxDepth:    5,
			SkipDirs:    append([]string(nil), scan.DefaultSkipDirs...),
			Concurrency: 4,
		},
		Output: OutputConfig{
			Format: "terminal",
			Color:  "auto",
		},
		Recommend: RecommendConfig{
			Limit: 3,
		},
		Quiz: QuizConfig{
			Questions: 5,
		},
		Remote: RemoteConfig{
			GitHubTokenEnv: "GITHUB_TOKEN",
			GitLabTokenEnv: "GITLAB_TOKEN",
			GitLabBaseURL:  "https://gitlab.com/api/v4",
			CloneRetries:   3,
		},
	}
}

// DefaultPath returns ~/.config/stacklens/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stacklens", "config.toml"), nil
}

// Load reads the TOML file at path on top of DefaultConfig. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Validate rejects values the rest of the tool cannot work with.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 0 {
		return fmt.Errorf("config: scan.max_depth must be >= 0, got %d", c.Scan.MaxDepth)
	}
	switch c.Output.Format {
	case "terminal", "markdown", "json":
	default:
		return fmt.Errorf("config: unknown output.format %q (must be terminal, markdown, or json)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: unknown output.color %q (must be auto, always, or never)", c.Output.Color)
	}
	if c.Recommend.Limit < 1 {
		return fmt.Errorf("config: recommend.limit must be >= 1, got %d", c.Recommend.Limit)
	}
	return nil
}
