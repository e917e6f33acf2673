// Package config loads the eventsite YAML configuration.
//
// Values may reference the environment as ${VAR}; .env and .env.local are
// loaded first without overriding variables already set in the process.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "eventsite.yaml"

// Config represents the application configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Templates TemplatesConfig `yaml:"templates"`
	Output    OutputConfig    `yaml:"output"`
	Slug      SlugConfig      `yaml:"slug"`
	Store     StoreConfig     `yaml:"store"`
	Logging   LoggingConfig   `yaml:"logging"`
	Develop   DevelopConfig   `yaml:"develop"`

	// EnvFiles lists the env files applied while loading, in load order.
	EnvFiles []string `yaml:"-"`
}

// SiteConfig holds values shown on every page.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	// BasePath prefixes every route, e.g. "/events".
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// ContentConfig locates the event data files.
type ContentConfig struct {
	DataDir string   `yaml:"data_dir"`
	Include []string `yaml:"include,omitempty"` // doublestar patterns relative to DataDir
}

// TemplatesConfig names the component templates.
type TemplatesConfig struct {
	Dir    string `yaml:"dir,omitempty"`
	Index  string `yaml:"index"`
	Detail string `yaml:"detail"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before rendering

	cleanSpecified bool
}

// SlugConfig tunes slug derivation.
type SlugConfig struct {
	FoldDiacritics bool `yaml:"fold_diacritics"`
}

// StoreConfig locates the node store database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// DevelopConfig configures the preview server.
type DevelopConfig struct {
	Port int `yaml:"port"`
}

// Load loads configuration from the specified file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	return load(configPath, loadEnvFiles())
}

func load(configPath string, envFiles []string) (*Config, error) {

	// #nosec G304 -- the config path is chosen by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				UserAction().
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			Fatal().
			UserAction().
			WithContext("path", configPath).
			Build()
	}
	cfg.EnvFiles = envFiles
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	envFiles := loadEnvFiles()
	cfg, err := load(configPath, envFiles)
	if errors.HasCategory(err, errors.CategoryNotFound) {
		cfg = Default()
		cfg.EnvFiles = envFiles
		return cfg, nil
	}
	return cfg, err
}

// Parse decodes YAML after environment expansion, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Site.Title = "Upcoming Events"
	example.Site.Description = "Meetups, conferences and workshops"
	example.Site.BaseURL = "https://events.example.com"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// #nosec G306 -- config files are not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
