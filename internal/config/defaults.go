package config

import (
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultTitle          = "Events"
	DefaultBasePath       = "/"
	DefaultDataDir        = "data"
	DefaultIndexTemplate  = "event-list.html"
	DefaultDetailTemplate = "event.html"
	DefaultOutputDir      = "public"
	DefaultStorePath      = ".eventsite/nodes.db"
	DefaultDevelopPort    = 8000
)

// UnmarshalYAML records whether clean was given so an omitted field can default to true.
func (o *OutputConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain OutputConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	var probe struct {
		Clean *bool `yaml:"clean"`
	}
	if err := value.Decode(&probe); err != nil {
		return err
	}
	*o = OutputConfig(p)
	o.cleanSpecified = probe.Clean != nil
	return nil
}

func applyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultTitle
	}
	cfg.Site.BasePath = normalizeBasePath(cfg.Site.BasePath)

	if cfg.Content.DataDir == "" {
		cfg.Content.DataDir = DefaultDataDir
	}

	if cfg.Templates.Index == "" {
		cfg.Templates.Index = DefaultIndexTemplate
	}
	if cfg.Templates.Detail == "" {
		cfg.Templates.Detail = DefaultDetailTemplate
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if !cfg.Output.cleanSpecified {
		cfg.Output.Clean = true
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}

	level, err := ParseLogLevel(string(cfg.Logging.Level))
	if err != nil {
		return err
	}
	cfg.Logging.Level = level
	format, err := ParseLogFormat(string(cfg.Logging.Format))
	if err != nil {
		return err
	}
	cfg.Logging.Format = format

	if cfg.Develop.Port == 0 {
		cfg.Develop.Port = DefaultDevelopPort
	}
	return nil
}

// normalizeBasePath trims whitespace and trailing slashes; empty becomes "/".
// A path without a leading slash is left for Validate to reject.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultBasePath
	}
	if !strings.HasPrefix(p, "/") {
		return p
	}
	return path.Clean(p)
}
