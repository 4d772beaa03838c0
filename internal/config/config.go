package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding config.yaml and saved views.
const DirName = ".listcutter"

// Global configuration structure.
type Global struct {
	DefaultTable   string `mapstructure:"default_table" yaml:"default_table"`
	FormatSQL      bool   `mapstructure:"format_sql" yaml:"format_sql"`
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows        int    `mapstructure:"max_rows" yaml:"max_rows"`
	ViewsDir       string `mapstructure:"views_dir" yaml:"views_dir"`
	ListenAddr     string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
}

// Defaults returns the built-in configuration, before files and env apply.
func Defaults() *Global {
	return &Global{
		DefaultTable:   "data",
		FormatSQL:      true,
		MaxRows:        100000,
		ListenAddr:     "127.0.0.1:8080",
		MaxUploadBytes: 10 << 20,
		LogLevel:       "info",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.listcutter/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, DirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LISTCUTTER")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("default_table", d.DefaultTable)
	v.SetDefault("format_sql", d.FormatSQL)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("views_dir", "")
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("max_upload_bytes", d.MaxUploadBytes)
	v.SetDefault("log_level", d.LogLevel)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, DirName)
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve views_dir default: ~/.listcutter/views
	if c.ViewsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ViewsDir = filepath.Join(home, DirName, "views")
	}
	return &c, nil
}

// DelimiterRune maps the delimiter setting to a CSV separator; 0 means sniff.
func (c *Global) DelimiterRune() (rune, error) {
	switch strings.ToLower(c.Delimiter) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "pipe", "|":
		return '|', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter: %q", c.Delimiter)
	}
	return r[0], nil
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Global) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
