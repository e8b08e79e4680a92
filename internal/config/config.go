// Package config loads application settings from defaults, an optional yaml
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const CurrentVersion = "1"

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Version string        `yaml:"version" env:"BLOG_CONFIG_VERSION" default:"1"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Wizard  WizardConfig  `yaml:"wizard"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"BLOG_LOG_LEVEL" default:"info"`
}

type SiteConfig struct {
	Name string `yaml:"name" env:"BLOG_SITE_NAME" default:"Blog Wizard"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"BLOG_SERVER_HOST" default:"0.0.0.0"`
	Port string `yaml:"port" env:"BLOG_SERVER_PORT" default:"12600"`
}

type StorageConfig struct {
	// One of memory, file, sqlite, s3, redis.
	Backend string `yaml:"backend" env:"BLOG_STORAGE_BACKEND" default:"file"`
	// Name of the single record holding the serialized post collection.
	Key string `yaml:"key" env:"BLOG_STORAGE_KEY" default:"blog-posts"`
	// One of none, gzip, zstd.
	Compression  string        `yaml:"compression" env:"BLOG_STORAGE_COMPRESSION" default:"none"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"BLOG_STORAGE_WRITE_TIMEOUT" default:"5s"`

	File   FileStorageConfig   `yaml:"file"`
	SQLite SQLiteStorageConfig `yaml:"sqlite"`
	S3     S3StorageConfig     `yaml:"s3"`
	Redis  RedisStorageConfig  `yaml:"redis"`
}

type FileStorageConfig struct {
	Dir string `yaml:"dir" env:"BLOG_STORAGE_FILE_DIR" default:"./data"`
}

type SQLiteStorageConfig struct {
	Path string `yaml:"path" env:"BLOG_STORAGE_SQLITE_PATH" default:"./database.db"`
}

type S3StorageConfig struct {
	Bucket          string `yaml:"bucket" env:"BLOG_STORAGE_S3_BUCKET" default:""`
	Prefix          string `yaml:"prefix" env:"BLOG_STORAGE_S3_PREFIX" default:""`
	Endpoint        string `yaml:"endpoint" env:"BLOG_STORAGE_S3_ENDPOINT" default:""`
	Region          string `yaml:"region" env:"BLOG_STORAGE_S3_REGION" default:"auto"`
	AccessKeyID     string `yaml:"access_key_id" env:"BLOG_STORAGE_S3_ACCESS_KEY_ID" default:""`
	SecretAccessKey string `yaml:"secret_access_key" env:"BLOG_STORAGE_S3_SECRET_ACCESS_KEY" default:""`
}

type RedisStorageConfig struct {
	URL    string `yaml:"url" env:"BLOG_STORAGE_REDIS_URL" default:"localhost:6379"`
	Prefix string `yaml:"prefix" env:"BLOG_STORAGE_REDIS_PREFIX" default:"blog:"`
}

type WizardConfig struct {
	// Idle wizard sessions older than this are discarded.
	SessionTTL  time.Duration `yaml:"session_ttl" env:"BLOG_WIZARD_SESSION_TTL" default:"30m"`
	MaxSessions int           `yaml:"max_sessions" env:"BLOG_WIZARD_MAX_SESSIONS" default:"1000"`
}

var AppConfig *Config

// LoadConfig loads the configuration at path into AppConfig.
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load builds a Config from defaults, then the yaml file at path (if it
// exists), then BLOG_* environment variables.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported configuration version %q", c.Version)
	}

	switch c.Storage.Backend {
	case "memory", "file", "sqlite", "s3", "redis":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Storage.Compression {
	case "none", "gzip", "zstd":
	default:
		return fmt.Errorf("unknown storage compression %q", c.Storage.Compression)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage key must not be empty")
	}

	if c.Storage.WriteTimeout <= 0 {
		return fmt.Errorf("storage write timeout must be positive, got %v", c.Storage.WriteTimeout)
	}

	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch {
		case field.Type() == durationType:
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
		case field.Kind() == reflect.String:
			field.SetString(defaultValue)
		case field.Kind() == reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case field.Kind() == reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case field.Kind() == reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case field.Kind() == reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
