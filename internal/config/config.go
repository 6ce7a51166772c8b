package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the autodocs configuration
type Config struct {
	// Run settings shared by every processed file
	Run RunConfig `json:"run" yaml:"run"`

	// Which files are picked up when a directory is given
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`

	// Where docstring text comes from
	Generator GeneratorConfig `json:"generator" yaml:"generator"`

	// Output settings
	Output OutputConfig `json:"output" yaml:"output"`

	// Language-specific settings
	Languages map[string]LanguageConfig `json:"languages" yaml:"languages" validate:"dive"`
}

// RunConfig controls how files are rewritten
type RunConfig struct {
	// Replace docstrings that already exist
	Update bool `json:"update" yaml:"update"`

	// Ask before every change
	Interactive bool `json:"interactive" yaml:"interactive"`

	// Print a diff instead of writing files
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Keep a copy of every rewritten file next to it
	Backup bool `json:"backup" yaml:"backup"`

	// Number of files processed concurrently
	Workers int `json:"workers" yaml:"workers" validate:"min=1,max=64"`
}

// DiscoveryConfig contains file discovery settings
type DiscoveryConfig struct {
	// Directory names skipped while walking
	ExcludePaths []string `json:"exclude_paths" yaml:"exclude_paths"`

	// Glob patterns matched against slash separated relative paths
	ExcludeGlobs []string `json:"exclude_globs" yaml:"exclude_globs"`

	// Maximum depth for directory traversal, 0 means unlimited and 1 keeps
	// to the target directory itself
	MaxDepth int `json:"max_depth" yaml:"max_depth" validate:"min=0"`

	// Whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" yaml:"follow_symlinks"`

	// Whether dot files and directories are visited
	IncludeHidden bool `json:"include_hidden" yaml:"include_hidden"`
}

// GeneratorConfig selects and tunes the docstring generator
type GeneratorConfig struct {
	// static, agent or anthropic
	Mode string `json:"mode" yaml:"mode" validate:"oneof=static agent anthropic"`

	// Template for static mode, rendered with the definition as data
	Template string `json:"template" yaml:"template"`

	// Quote style of new docstrings: double or single
	Quote string `json:"quote" yaml:"quote" validate:"oneof=double single"`

	// Coding agent used in agent mode; empty picks the first one found
	Agent string `json:"agent,omitempty" yaml:"agent,omitempty" validate:"omitempty,oneof=gemini claude openai github"`

	// Model used in anthropic mode
	Model string `json:"model" yaml:"model" validate:"required_if=Mode anthropic"`

	// Environment variable holding the API key
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env" validate:"required_if=Mode anthropic"`

	MaxTokens      int `json:"max_tokens" yaml:"max_tokens" validate:"min=1"`
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1"`
	Retries        int `json:"retries" yaml:"retries" validate:"min=0,max=10"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	// Log format: text or json
	LogFormat string `json:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// Whether to colorize diffs
	Color bool `json:"color" yaml:"color"`

	Verbose bool `json:"verbose" yaml:"verbose"`
}

// LanguageConfig contains language-specific settings
type LanguageConfig struct {
	// Whether this language is enabled
	Enabled bool `json:"enabled" yaml:"enabled"`

	// File extensions handled by this language
	Extensions []string `json:"extensions" yaml:"extensions" validate:"dive,startswith=."`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Workers: 4,
		},
		Discovery: DiscoveryConfig{
			ExcludePaths: []string{
				".git",
				"__pycache__",
				".venv",
				"venv",
				"env",
				".tox",
				"node_modules",
				"build",
				"dist",
			},
			ExcludeGlobs:   []string{},
			MaxDepth:       0,
			FollowSymlinks: false,
		},
		Generator: GeneratorConfig{
			Mode:           "static",
			Template:       "PLACEHOLDER",
			Quote:          "double",
			Model:          "claude-3-5-haiku-latest",
			APIKeyEnv:      "ANTHROPIC_API_KEY",
			MaxTokens:      512,
			TimeoutSeconds: 60,
			Retries:        3,
		},
		Output: OutputConfig{
			LogFormat: "text",
			Color:     true,
		},
		Languages: map[string]LanguageConfig{
			"python": {
				Enabled:    true,
				Extensions: []string{".py", ".pyw", ".pyi"},
			},
		},
	}
}

// QuoteDelimiter returns the triple quote matching Generator.Quote.
func (c *Config) QuoteDelimiter() string {
	if c.Generator.Quote == "single" {
		return "'''"
	}
	return `"""`
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If no config file specified, try to find one
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config file, return default
	if configPath == "" {
		return config, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(configPath) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves configuration to a file, as YAML when the extension asks
// for it and JSON otherwise.
func SaveConfig(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(configPath) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

var configNames = []string{
	".autodocs.yaml",
	".autodocs.yml",
	".autodocs.json",
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	for _, candidate := range configNames {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		for _, name := range configNames {
			candidate := filepath.Join(homeDir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}

	return ""
}

// GetConfigPath returns the config file path to use
func GetConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	found := findConfigFile()
	if found != "" {
		return found
	}

	// Default location
	homeDir, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(homeDir, ".autodocs.yaml")
	}

	return ".autodocs.yaml"
}
