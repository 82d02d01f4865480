package config

import (
	"github.com/ziadkadry99/pagenav/internal/scroll"
	"github.com/ziadkadry99/pagenav/internal/visibility"
	"github.com/ziadkadry99/pagenav/internal/walker"
)

// DefaultExcludes are glob patterns excluded from the document library by default.
var DefaultExcludes = []string{
	"**/_*.md",
	"**/drafts/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DocsDir:      "docs",
		Include:      append([]string(nil), walker.DefaultInclude...),
		Exclude:      append([]string(nil), DefaultExcludes...),
		SectionLevel: 2,
		Watch:        true,
		Thresholds: ThresholdsConfig{
			Min:  visibility.DefaultMin,
			Max:  visibility.DefaultMax,
			Step: visibility.DefaultStep,
		},
		Classes: ClassesConfig{
			Section: "sec-active",
			Entry:   "item-active",
		},
		Scroll: ScrollConfig{
			Behavior: scroll.DefaultOptions.Behavior,
			Block:    scroll.DefaultOptions.Block,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level:  LogNormal,
			Format: FormatConsole,
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    ".pagenav/journal.db",
		},
	}
}

// ThresholdValues returns the configured visibility thresholds.
func (c *Config) ThresholdValues() []float64 {
	return visibility.Thresholds(c.Thresholds.Min, c.Thresholds.Max, c.Thresholds.Step)
}

// ScrollOptions returns the configured scrollIntoView options.
func (c *Config) ScrollOptions() scroll.Options {
	return scroll.Options{Behavior: c.Scroll.Behavior, Block: c.Scroll.Block}
}
