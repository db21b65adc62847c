package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/taskdash/internal/focus"
	"github.com/sandeepkv93/taskdash/internal/storage"
)

const (
	configName = ".taskdash"
	envPrefix  = "TASKDASH"
)

type RuntimeConfig struct {
	UserKey   string          `mapstructure:"user" yaml:"user" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Focus     FocusConfig     `mapstructure:"focus" yaml:"focus"`
	Transfer  TransferConfig  `mapstructure:"transfer" yaml:"transfer"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
}

type StorageConfig struct {
	Backend     string      `mapstructure:"backend" yaml:"backend" validate:"oneof=memory sqlite redis postgres"`
	SQLitePath  string      `mapstructure:"sqlite_path" yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	Redis       RedisConfig `mapstructure:"redis" yaml:"redis"`
	PostgresDSN string      `mapstructure:"postgres_dsn" yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	Password  string `mapstructure:"password" yaml:"-"`
	DB        int    `mapstructure:"db" yaml:"db" validate:"min=0"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

type LogConfig struct {
	Level   string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Path    string `mapstructure:"path" yaml:"path"`
	Console bool   `mapstructure:"console" yaml:"console"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

type FocusConfig struct {
	WorkMinutes       int `mapstructure:"work_minutes" yaml:"work_minutes" validate:"min=1,max=180"`
	ShortBreakMinutes int `mapstructure:"short_break_minutes" yaml:"short_break_minutes" validate:"min=1,max=60"`
	LongBreakMinutes  int `mapstructure:"long_break_minutes" yaml:"long_break_minutes" validate:"min=1,max=120"`
	LongBreakEvery    int `mapstructure:"long_break_every" yaml:"long_break_every" validate:"min=1"`
	DailyGoal         int `mapstructure:"daily_goal" yaml:"daily_goal" validate:"min=1"`
}

type TransferConfig struct {
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir" validate:"required"`
	ImportDir string `mapstructure:"import_dir" yaml:"import_dir"`
}

type SchedulerConfig struct {
	Buffer int `mapstructure:"buffer" yaml:"buffer" validate:"min=1"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		UserKey: "demo@example.com",
		Storage: StorageConfig{
			Backend:    storage.BackendSQLite,
			SQLitePath: ".taskdash/taskdash.db",
			Redis:      RedisConfig{Addr: "localhost:6379"},
		},
		Log: LogConfig{Level: "info", Path: ".taskdash/taskdash.log"},
		Focus: FocusConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakEvery:    4,
			DailyGoal:         5,
		},
		Transfer:  TransferConfig{ExportDir: "."},
		Scheduler: SchedulerConfig{Buffer: 64},
	}
}

type LoadOptions struct {
	// ConfigFile overrides the .taskdash.yaml search in the working and home directories.
	ConfigFile string
	// EnvFile is loaded before reading the environment. Defaults to .env.
	EnvFile string
}

var validate = validator.New()

// Load merges defaults, the config file and TASKDASH_* variables, in that
// order of increasing precedence.
func Load(opts LoadOptions) (RuntimeConfig, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return RuntimeConfig{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, DefaultRuntimeConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return RuntimeConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d RuntimeConfig) {
	v.SetDefault("user", d.UserKey)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.redis.addr", d.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", d.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.key_prefix", d.Storage.Redis.KeyPrefix)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("focus.work_minutes", d.Focus.WorkMinutes)
	v.SetDefault("focus.short_break_minutes", d.Focus.ShortBreakMinutes)
	v.SetDefault("focus.long_break_minutes", d.Focus.LongBreakMinutes)
	v.SetDefault("focus.long_break_every", d.Focus.LongBreakEvery)
	v.SetDefault("focus.daily_goal", d.Focus.DailyGoal)
	v.SetDefault("transfer.export_dir", d.Transfer.ExportDir)
	v.SetDefault("transfer.import_dir", d.Transfer.ImportDir)
	v.SetDefault("scheduler.buffer", d.Scheduler.Buffer)
}

func (c RuntimeConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c RuntimeConfig) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.Storage.Backend,
		SQLitePath: c.Storage.SQLitePath,
		Redis: storage.RedisConfig{
			Addr:      c.Storage.Redis.Addr,
			Password:  c.Storage.Redis.Password,
			DB:        c.Storage.Redis.DB,
			KeyPrefix: c.Storage.Redis.KeyPrefix,
		},
		PostgresDSN: c.Storage.PostgresDSN,
	}
}

func (c RuntimeConfig) FocusDurations() focus.Durations {
	return focus.Durations{
		Work:           time.Duration(c.Focus.WorkMinutes) * time.Minute,
		ShortBreak:     time.Duration(c.Focus.ShortBreakMinutes) * time.Minute,
		LongBreak:      time.Duration(c.Focus.LongBreakMinutes) * time.Minute,
		LongBreakEvery: c.Focus.LongBreakEvery,
	}
}

// YAML renders c without secrets.
func (c RuntimeConfig) YAML() ([]byte, error) {
	if c.Storage.PostgresDSN != "" {
		c.Storage.PostgresDSN = "<redacted>"
	}
	return yaml.Marshal(c)
}
