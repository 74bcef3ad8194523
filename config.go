package parinfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"

	defaults "github.com/avrma-forks/parinfer-rust/default"
	"github.com/avrma-forks/parinfer-rust/language"
)

// Settings are read from the process environment.
type Settings struct {
	// ConfigDir overrides the config directory. ENV: PARINFER_CONFIG_DIR
	ConfigDir string `env:"PARINFER_CONFIG_DIR"`
	// LogLevel is debug, info, warn or error. ENV: PARINFER_LOG_LEVEL
	LogLevel string `env:"PARINFER_LOG_LEVEL,default=warn"`
	// LogFormat is text or json. ENV: PARINFER_LOG_FORMAT
	LogFormat string `env:"PARINFER_LOG_FORMAT,default=text"`
}

// LoadSettings decodes Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Config is the user's config file.
type Config struct {
	Version int        `toml:"version"`
	Flags   FlagConfig `toml:"flags"`
	// Filetypes maps editor filetypes onto built-in dialect names.
	Filetypes map[string]string `toml:"filetypes"`
}

// FlagConfig holds defaults for absent command line flags.
type FlagConfig struct {
	InputFormat  string `toml:"input_format"`
	OutputFormat string `toml:"output_format"`
	Mode         string `toml:"mode"`
	CommentChar  string `toml:"comment_char"`
}

// ConfigDir returns the config directory path.
// Resolution order: settings > $XDG_CONFIG_HOME/parinfer > ~/.config/parinfer
func ConfigDir(s Settings) string {
	if s.ConfigDir != "" {
		return s.ConfigDir
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "parinfer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "parinfer-config")
	}
	return filepath.Join(home, ".config", "parinfer")
}

// ConfigPath returns the full path to the config file.
func ConfigPath(s Settings) string {
	return filepath.Join(ConfigDir(s), "config.toml")
}

// DefaultConfig returns the configuration embedded in the binary.
func DefaultConfig() *Config {
	var cfg Config
	if _, err := toml.Decode(defaults.DefaultConfigTOML, &cfg); err != nil {
		panic("parinfer: invalid embedded default_config.toml: " + err.Error())
	}
	return &cfg
}

// LoadConfig loads the config file at path, or returns the defaults when it
// does not exist. Keys missing from the file take their default values. The
// second result lists keys the file set but nothing reads.
func LoadConfig(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil, nil
		}
		return nil, nil, &IOError{Operation: "read", Path: path, Err: err}
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, nil, &DecodeError{Format: "TOML", Message: fmt.Sprintf("%s: %v", path, err), Err: err}
	}
	var undecoded []string
	for _, key := range md.Undecoded() {
		undecoded = append(undecoded, key.String())
	}

	// Apply defaults for missing fields
	d := DefaultConfig()
	if cfg.Version == 0 {
		cfg.Version = d.Version
	}
	if cfg.Flags.InputFormat == "" {
		cfg.Flags.InputFormat = d.Flags.InputFormat
	}
	if cfg.Flags.OutputFormat == "" {
		cfg.Flags.OutputFormat = d.Flags.OutputFormat
	}
	if cfg.Flags.Mode == "" {
		cfg.Flags.Mode = d.Flags.Mode
	}
	if cfg.Flags.CommentChar == "" {
		cfg.Flags.CommentChar = d.Flags.CommentChar
	}
	if cfg.Filetypes == nil {
		cfg.Filetypes = d.Filetypes
	}

	return &cfg, undecoded, nil
}

// ValidateConfig checks configuration for potential issues and returns warnings.
// Flag values are validated by the flag parser, not here.
func ValidateConfig(cfg *Config) []string {
	var warnings []string
	if cfg == nil {
		return warnings
	}
	filetypes := make([]string, 0, len(cfg.Filetypes))
	for ft := range cfg.Filetypes {
		filetypes = append(filetypes, ft)
	}
	sort.Strings(filetypes)
	for _, ft := range filetypes {
		dialect := cfg.Filetypes[ft]
		switch {
		case language.Known(ft):
			warnings = append(warnings, fmt.Sprintf("filetype %q is a built-in dialect and cannot be aliased", ft))
		case !language.Known(dialect):
			warnings = append(warnings, fmt.Sprintf("filetype %q maps to unknown dialect %q; %s rules will be used", ft, dialect, language.Fallback))
		}
	}
	return warnings
}
