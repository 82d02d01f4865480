package config

// LogLevel controls how much the service logs.
type LogLevel string

const (
	LogNone   LogLevel = "none"
	LogNormal LogLevel = "normal"
	LogDebug  LogLevel = "debug"
)

// LogFormat selects the log encoder.
type LogFormat string

const (
	FormatConsole LogFormat = "console"
	FormatJSON    LogFormat = "json"
)

// Config is the top-level pagenav configuration, corresponding to .pagenav.yml.
type Config struct {
	DocsDir      string           `yaml:"docs_dir" koanf:"docs_dir"`
	Include      []string         `yaml:"include" koanf:"include"`
	Exclude      []string         `yaml:"exclude" koanf:"exclude"`
	SectionLevel int              `yaml:"section_level" koanf:"section_level"`
	Watch        bool             `yaml:"watch" koanf:"watch"`
	Thresholds   ThresholdsConfig `yaml:"thresholds" koanf:"thresholds"`
	Classes      ClassesConfig    `yaml:"classes" koanf:"classes"`
	Scroll       ScrollConfig     `yaml:"scroll" koanf:"scroll"`
	Server       ServerConfig     `yaml:"server" koanf:"server"`
	Log          LogConfig        `yaml:"log" koanf:"log"`
	Journal      JournalConfig    `yaml:"journal" koanf:"journal"`
}

// ThresholdsConfig sets the visibility ratios at which the page reports
// crossings: Min to Max inclusive in Step increments.
type ThresholdsConfig struct {
	Min  float64 `yaml:"min" koanf:"min"`
	Max  float64 `yaml:"max" koanf:"max"`
	Step float64 `yaml:"step" koanf:"step"`
}

// ClassesConfig names the markers applied to the active section and the
// active navigation entry.
type ClassesConfig struct {
	Section string `yaml:"section" koanf:"section"`
	Entry   string `yaml:"entry" koanf:"entry"`
}

// ScrollConfig is passed to scrollIntoView.
type ScrollConfig struct {
	Behavior string `yaml:"behavior" koanf:"behavior"`
	Block    string `yaml:"block" koanf:"block"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  LogLevel  `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}

// JournalConfig controls the navigation journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"`
}
