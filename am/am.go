// Package am loads the qntx-ctags configuration ("I am").
//
// Sources, lowest to highest precedence: built-in defaults, the user file
// (~/.qntx/ctags.toml), the nearest project ctags.toml found walking up from
// the working directory, and QNTX_CTAGS_* environment variables.
package am

// Config represents the complete qntx-ctags configuration
type Config struct {
	Ctags     CtagsConfig     `mapstructure:"ctags" toml:"ctags" json:"ctags" yaml:"ctags"`
	Discovery DiscoveryConfig `mapstructure:"discovery" toml:"discovery" json:"discovery" yaml:"discovery"`
	Gather    GatherConfig    `mapstructure:"gather" toml:"gather" json:"gather" yaml:"gather"`
	Server    ServerConfig    `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// CtagsConfig configures the tag-generator executable
type CtagsConfig struct {
	Executable string `mapstructure:"executable" toml:"executable" json:"executable" yaml:"executable"`     // Name or path (default: ctags)
	MinVersion string `mapstructure:"min_version" toml:"min_version" json:"min_version" yaml:"min_version"` // Optional semver constraint, e.g. ">= 5.9"
}

// DiscoveryConfig configures the optional project file discovery step
type DiscoveryConfig struct {
	Enabled        bool     `mapstructure:"enabled" toml:"enabled" json:"enabled" yaml:"enabled"`
	Suffixes       []string `mapstructure:"suffixes" toml:"suffixes" json:"suffixes" yaml:"suffixes"`                             // e.g. [".py", ".pyi"]; empty = current file's extension
	Walker         string   `mapstructure:"walker" toml:"walker" json:"walker" yaml:"walker"`                                     // find | glob
	FindExecutable string   `mapstructure:"find_executable" toml:"find_executable" json:"find_executable" yaml:"find_executable"` // used when walker = find
}

// GatherConfig configures candidate gathering
type GatherConfig struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"` // 0 = no timeout
	EchoProgress   bool `mapstructure:"echo_progress" toml:"echo_progress" json:"echo_progress" yaml:"echo_progress"`
}

// ServerConfig configures the lsp and mcp commands
type ServerConfig struct {
	Listen              string `mapstructure:"listen" toml:"listen" json:"listen" yaml:"listen"`                                                                 // host:port for LSP over WebSocket; empty = stdio
	MaxGathersPerMinute int    `mapstructure:"max_gathers_per_minute" toml:"max_gathers_per_minute" json:"max_gathers_per_minute" yaml:"max_gathers_per_minute"` // 0 = unlimited
}

// LogConfig configures logging output
type LogConfig struct {
	JSON      bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme     string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // everforest | gruvbox
	Verbosity int    `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// Walker names accepted by discovery.walker
const (
	WalkerFind = "find"
	WalkerGlob = "glob"
)

// File and directory names used by the loader
const (
	ConfigFileName = "ctags.toml"
	UserConfigDir  = ".qntx"
	EnvPrefix      = "QNTX_CTAGS"
)
