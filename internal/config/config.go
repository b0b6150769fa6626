package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"mural/internal/storage"
)

// EnvPrefix namespaces environment overrides, e.g. MURAL_DOCUMENT_PATH.
const EnvPrefix = "MURAL"

// Config holds all configuration for the application.
type Config struct {
	Document DocumentConfig `mapstructure:"document"`
	History  HistoryConfig  `mapstructure:"history"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// DocumentConfig locates the persisted collection.
type DocumentConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// HistoryConfig controls the snapshot archive.
type HistoryConfig struct {
	DBPath       string `mapstructure:"db_path" validate:"required"`
	Schedule     string `mapstructure:"schedule"`
	MaxSnapshots int    `mapstructure:"max_snapshots" validate:"gte=0"`
}

// WatchConfig controls the external-change watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from defaults, an optional config file, a .env
// file and MURAL_* environment variables, in increasing priority.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType(strings.TrimLeft(filepath.Ext(configFile), "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Document.Path = expandHome(cfg.Document.Path)
	cfg.History.DBPath = expandHome(cfg.History.DBPath)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks struct-level constraints.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

func setDefaults(v *viper.Viper) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}

	docPath, err := storage.DefaultDocumentPath()
	if err != nil {
		return err
	}
	v.SetDefault("document.path", docPath)

	v.SetDefault("history.db_path", filepath.Join(home, ".local", "share", "mural", "history.db"))
	v.SetDefault("history.schedule", "")
	v.SetDefault("history.max_snapshots", 50)

	v.SetDefault("watch.debounce", 500*time.Millisecond)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "")
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
