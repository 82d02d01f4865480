package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/pagenav/internal/walker"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a
// double underscore: PAGENAV_SERVER__PORT sets server.port.
const EnvPrefix = "PAGENAV_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGENAV_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: PAGENAV_DOCS_DIR -> docs_dir,
	// PAGENAV_LOG__LEVEL -> log.level.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[LogLevel]bool{
	LogNone:   true,
	LogNormal: true,
	LogDebug:  true,
}

var validLogFormats = map[LogFormat]bool{
	FormatConsole: true,
	FormatJSON:    true,
}

var validBehaviors = map[string]bool{"smooth": true, "instant": true, "auto": true}

var validBlocks = map[string]bool{"start": true, "center": true, "end": true, "nearest": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}

	if err := walker.ValidatePatterns(c.Include); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if err := walker.ValidatePatterns(c.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}

	if c.SectionLevel < 1 || c.SectionLevel > 6 {
		return fmt.Errorf("section_level must be between 1 and 6, got %d", c.SectionLevel)
	}

	t := c.Thresholds
	if t.Min < 0 || t.Min > 1 || t.Max < 0 || t.Max > 1 {
		return fmt.Errorf("thresholds must be within [0,1]")
	}
	if t.Min > t.Max {
		return fmt.Errorf("thresholds.min (%.2f) exceeds thresholds.max (%.2f)", t.Min, t.Max)
	}
	if t.Step <= 0 || t.Step > 1 {
		return fmt.Errorf("thresholds.step must be in (0,1]")
	}

	if strings.TrimSpace(c.Classes.Section) == "" || strings.TrimSpace(c.Classes.Entry) == "" {
		return fmt.Errorf("classes.section and classes.entry are required")
	}
	if strings.ContainsAny(c.Classes.Section+c.Classes.Entry, " \t\n") {
		return fmt.Errorf("class names must not contain whitespace")
	}

	if !validBehaviors[c.Scroll.Behavior] {
		return fmt.Errorf("invalid scroll.behavior %q: must be one of smooth, instant, auto", c.Scroll.Behavior)
	}
	if !validBlocks[c.Scroll.Block] {
		return fmt.Errorf("invalid scroll.block %q: must be one of start, center, end, nearest", c.Scroll.Block)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of none, normal, debug", c.Log.Level)
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be one of console, json", c.Log.Format)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}

	return nil
}
