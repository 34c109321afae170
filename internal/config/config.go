// Package config holds the console configuration: terminal geometry, which
// streams to capture and how to log. Values are loaded through viper from a
// YAML file and DIFFUSION_CONSOLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rodjjo/diffusion-expert-sub000/internal/logging"
	"github.com/rodjjo/diffusion-expert-sub000/internal/vtlog"
)

// AppHomeDir is the application's home directory under the user's home.
const AppHomeDir = ".diffusion-console"

// EnvPrefix prefixes environment overrides, e.g. DIFFUSION_CONSOLE_TERMINAL_COLUMNS.
const EnvPrefix = "DIFFUSION_CONSOLE"

// ErrInvalid is wrapped by Load when validation fails.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete console configuration
type Config struct {
	Terminal TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	Capture  CaptureConfig  `mapstructure:"capture" yaml:"capture"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// TerminalConfig sizes every console terminal
type TerminalConfig struct {
	// Columns and Rows are the visible window
	Columns int `mapstructure:"columns" yaml:"columns"`
	Rows    int `mapstructure:"rows" yaml:"rows"`
	// LineSize and LineCount size the arena: LineSize*LineCount bytes and
	// LineSize row slots
	LineSize  int `mapstructure:"line_size" yaml:"line_size"`
	LineCount int `mapstructure:"line_count" yaml:"line_count"`
	// ASCIIBoxDrawing stores box-drawing glyphs as ASCII
	ASCIIBoxDrawing bool `mapstructure:"ascii_box_drawing" yaml:"ascii_box_drawing"`
	// PollIntervalMs is how often viewers check the terminal version
	PollIntervalMs int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// CaptureConfig selects the captured streams
type CaptureConfig struct {
	Stdout bool `mapstructure:"stdout" yaml:"stdout"`
	Stderr bool `mapstructure:"stderr" yaml:"stderr"`
	// Tee keeps forwarding captured bytes to the original destination
	Tee bool `mapstructure:"tee" yaml:"tee"`
	// BufferSize is the pipe reader's chunk size in bytes
	BufferSize int `mapstructure:"buffer_size" yaml:"buffer_size"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Level   string `mapstructure:"level" yaml:"level"`
	// Dir defaults to {app home}/logs
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	g := vtlog.DefaultGeometry()
	return &Config{
		Terminal: TerminalConfig{
			Columns:        g.Columns,
			Rows:           g.Rows,
			LineSize:       g.LineSize,
			LineCount:      g.LineCount,
			PollIntervalMs: 50,
		},
		Capture: CaptureConfig{
			Stdout:     true,
			Stderr:     true,
			BufferSize: 4096,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   logging.LevelInfo,
		},
	}
}

// Geometry converts the terminal section for vtlog.
func (c *TerminalConfig) Geometry() vtlog.Geometry {
	return vtlog.Geometry{
		Columns:   c.Columns,
		Rows:      c.Rows,
		LineSize:  c.LineSize,
		LineCount: c.LineCount,
	}
}

// PollInterval returns the viewer poll interval as a Duration
func (c *TerminalConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// LogDir returns the configured log directory or the default one.
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(AppHome(), "logs")
}

// SetDefaults registers every default with v
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("terminal.columns", d.Terminal.Columns)
	v.SetDefault("terminal.rows", d.Terminal.Rows)
	v.SetDefault("terminal.line_size", d.Terminal.LineSize)
	v.SetDefault("terminal.line_count", d.Terminal.LineCount)
	v.SetDefault("terminal.ascii_box_drawing", d.Terminal.ASCIIBoxDrawing)
	v.SetDefault("terminal.poll_interval_ms", d.Terminal.PollIntervalMs)

	v.SetDefault("capture.stdout", d.Capture.Stdout)
	v.SetDefault("capture.stderr", d.Capture.Stderr)
	v.SetDefault("capture.tee", d.Capture.Tee)
	v.SetDefault("capture.buffer_size", d.Capture.BufferSize)

	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
}

// NewViper returns a viper instance with defaults, environment overrides and
// the config file at path. An empty path searches the app home and the
// working directory for config.yaml.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(AppHome())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file (if any) into a validated Config.
// A missing file, searched for or explicit, is not an error; defaults apply.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Logging.Level = logging.ParseLevel(cfg.Logging.Level)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, ValidationErrors(errs))
	}
	return &cfg, nil
}

// Write stores c as YAML at path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// AppHome returns ~/.diffusion-console, or "." when the home directory is
// unknown.
func AppHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, AppHomeDir)
}

// ConfigFile returns the default config file path
func ConfigFile() string {
	return filepath.Join(AppHome(), "config.yaml")
}
