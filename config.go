// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// config.go - file and environment configuration: logging, encryption,
// metrics, the Redis relay, and schema declarations that can be registered
// without Go code.

package wirepack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig is the root of a wirepack config file.
type FileConfig struct {
	Log LogConfig `mapstructure:"log"`

	// EncryptionKey is a 64-digit hex AES-256 key enabling "sealed:" fields.
	EncryptionKey string `mapstructure:"encryption_key"`

	Metrics MetricsConfig  `mapstructure:"metrics"`
	Relay   RelayConfig    `mapstructure:"relay"`
	Schemas []SchemaConfig `mapstructure:"schemas"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs  []string       `mapstructure:"outputs"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig controls rotation of file outputs.
type RotationConfig struct {
	Enable     bool `mapstructure:"enable"`
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// MetricsConfig enables the Prometheus recorder.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// SchemaConfig declares one schema. Fields are wire names as accepted by
// Lookup, optionally prefixed with "sealed:".
type SchemaConfig struct {
	Name   string   `mapstructure:"name"`
	ID     *int     `mapstructure:"id"` // nil: lowest unused ID
	Fields []string `mapstructure:"fields"`
}

// DefaultFileConfig returns a FileConfig populated with defaults.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Metrics: MetricsConfig{Namespace: "wirepack"},
		Relay:   RelayConfig{Channel: DefaultRelayChannel},
	}
}

// LoadConfig reads configuration from path (YAML, JSON or TOML by
// extension). An empty path searches ./wirepack.yaml, ./configs and
// ~/.wirepack, and falls back to defaults when nothing is found.
// Environment variables use the prefix WIREPACK with `.` replaced by `_`,
// e.g. WIREPACK_LOG_LEVEL=debug.
func LoadConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()

	v := viper.New()
	v.SetEnvPrefix("WIREPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults so env-only configs work
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("encryption_key", "")
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)
	v.SetDefault("relay.addr", cfg.Relay.Addr)
	v.SetDefault("relay.password", cfg.Relay.Password)
	v.SetDefault("relay.db", cfg.Relay.DB)
	v.SetDefault("relay.channel", cfg.Relay.Channel)

	if path == "" {
		path = os.Getenv("WIREPACK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wirepack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wirepack"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read config: %v", ErrInvalidConfig, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *FileConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	if c.Relay.Channel == "" {
		c.Relay.Channel = DefaultRelayChannel
	}
	for i, s := range c.Schemas {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: schemas[%d] has no name", ErrInvalidConfig, i)
		}
		if s.ID != nil && (*s.ID < 0 || *s.ID >= maxSchemas) {
			return fmt.Errorf("%w: schema %q id %d outside 0..255", ErrInvalidConfig, s.Name, *s.ID)
		}
	}
	return nil
}

// NewFromConfig builds a Packer from fc and registers its declared schemas.
// logger may be nil. When metrics are enabled the Prometheus collectors are
// registered with reg, or with the default registerer when reg is nil.
// Packers built on the same registerer share one set of collectors.
func NewFromConfig(fc *FileConfig, logger Logger, reg prometheus.Registerer) (*Packer, error) {
	cfg := Config{Logger: logger}
	if fc.EncryptionKey != "" {
		enc, err := NewAES256GCMHex(fc.EncryptionKey)
		if err != nil {
			return nil, err
		}
		cfg.Encryptor = enc
	}
	if fc.Metrics.Enabled {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		cfg.Metrics = NewPrometheusRecorder(reg, fc.Metrics.Namespace)
	}
	p := New(cfg)
	if err := p.RegisterSchemas(fc.Schemas); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterSchemas registers each declaration in order. Declarations without
// an ID take the lowest ID unused at that point.
func (p *Packer) RegisterSchemas(defs []SchemaConfig) error {
	for _, d := range defs {
		fields := make([]Field, len(d.Fields))
		for i, name := range d.Fields {
			f, err := p.fieldByName(name)
			if err != nil {
				return fmt.Errorf("schema %q field %d: %w", d.Name, i, err)
			}
			fields[i] = f
		}
		if d.ID == nil {
			if _, err := p.Register(d.Name, fields...); err != nil {
				return err
			}
			continue
		}
		if *d.ID < 0 || *d.ID >= maxSchemas {
			return fmt.Errorf("%w: schema %q id %d outside 0..255", ErrInvalidSchema, d.Name, *d.ID)
		}
		if err := p.RegisterID(uint8(*d.ID), d.Name, fields...); err != nil {
			return err
		}
	}
	return nil
}

// SetupZap builds a zap.Logger from c. File outputs rotate through
// lumberjack when rotation is enabled. The caller should defer Sync.
func SetupZap(c LogConfig) (*zap.Logger, error) {
	name := strings.ToLower(strings.TrimSpace(c.Level))
	if name == "warning" {
		name = "warn"
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Level)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if strings.ToLower(c.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	var cores []zapcore.Core
	for _, out := range c.Outputs {
		var ws zapcore.WriteSyncer
		switch strings.ToLower(out) {
		case "stdout":
			ws = zapcore.Lock(os.Stdout)
		case "stderr":
			ws = zapcore.Lock(os.Stderr)
		default:
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("wirepack: log dir: %w", err)
				}
			}
			if c.Rotation.Enable {
				ws = zapcore.AddSync(&lumberjack.Logger{
					Filename:   out,
					MaxSize:    max(c.Rotation.MaxSizeMB, 1),
					MaxBackups: c.Rotation.MaxBackups,
					MaxAge:     c.Rotation.MaxAgeDays,
					Compress:   c.Rotation.Compress,
				})
			} else {
				f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return nil, fmt.Errorf("wirepack: log output: %w", err)
				}
				ws = zapcore.AddSync(f)
			}
		}
		cores = append(cores, zapcore.NewCore(encoder, ws, level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
