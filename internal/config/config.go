// Package config loads farmcore settings from defaults, an optional YAML file
// and FARMCORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"farmcore/internal/blob"
	"farmcore/internal/core"
)

type (
	// Config holds every runtime setting of farmctl.
	Config struct {
		Storage StorageConfig `yaml:"storage"`
		Blob    blob.Config   `yaml:"blob"`
		Server  ServerConfig  `yaml:"server"`
		Log     LogConfig     `yaml:"log"`
		Queue   QueueConfig   `yaml:"queue"`
		Reports ReportsConfig `yaml:"reports"`
	}

	// StorageConfig selects the persistent store.
	StorageConfig struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	}

	// ServerConfig configures the HTTP API.
	ServerConfig struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	}

	// LogConfig configures zap.
	LogConfig struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		// Audit logs every mutating service call.
		Audit bool `yaml:"audit"`
		// TracePath appends service spans as JSON lines when set.
		TracePath string `yaml:"trace_path"`
	}

	// QueueConfig selects the dyna flow queue.
	QueueConfig struct {
		Driver      string        `yaml:"driver"`
		Size        int           `yaml:"size"`
		RedisAddr   string        `yaml:"redis_addr"`
		Password    string        `yaml:"password"`
		DB          int           `yaml:"db"`
		Key         string        `yaml:"key"`
		PollTimeout time.Duration `yaml:"poll_timeout"`
	}

	// ReportsConfig configures report exports.
	ReportsConfig struct {
		URLExpiry time.Duration `yaml:"url_expiry"`
	}
)

// Queue drivers.
const (
	QueueChannel = "channel"
	QueueRedis   = "redis"
)

const (
	EnvPrefix = "FARMCORE_"

	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultShutdownTimeout = 10 * time.Second
	DefaultSQLitePath      = "farmcore.db"
	DefaultFSRoot          = "exports"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultQueueSize       = 64
	DefaultRedisAddr       = "localhost:6379"
	DefaultQueueKey        = "farmcore:dyna_flow:queue"
	DefaultPollTimeout     = time.Second
	DefaultURLExpiry       = 15 * time.Minute

	MaxTCPPort   = 65535
	MaxQueueSize = 1_000_000
	MaxRedisDB   = 15
)

var (
	ErrInvalidPort            = errors.New("invalid server port")
	ErrInvalidStorageDriver   = errors.New("invalid storage driver")
	ErrMissingPostgresDSN     = errors.New("postgres storage requires a dsn")
	ErrInvalidQueueDriver     = errors.New("invalid queue driver")
	ErrInvalidLogFormat       = errors.New("invalid log format")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrMissingS3Bucket        = errors.New("s3 blob driver requires a bucket")
)

// NewDefaultConfig returns a configuration that runs locally on sqlite with
// filesystem exports and an in-process queue.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:     string(core.StorageSQLite),
			SQLitePath: DefaultSQLitePath,
		},
		Blob: blob.Config{
			Driver: blob.DriverFilesystem,
			FSRoot: DefaultFSRoot,
		},
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Queue: QueueConfig{
			Driver:      QueueChannel,
			Size:        DefaultQueueSize,
			RedisAddr:   DefaultRedisAddr,
			Key:         DefaultQueueKey,
			PollTimeout: DefaultPollTimeout,
		},
		Reports: ReportsConfig{URLExpiry: DefaultURLExpiry},
	}
}

// Load builds a configuration from defaults, the YAML file at path when path
// is not empty, and the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv populates configuration values from FARMCORE_* variables.
// Returns an error if any value cannot be parsed.
func (c *Config) LoadFromEnv() error {
	loadEnvString("STORAGE_DRIVER", &c.Storage.Driver)
	loadEnvString("SQLITE_PATH", &c.Storage.SQLitePath)
	loadEnvString("POSTGRES_DSN", &c.Storage.PostgresDSN)

	if driver := os.Getenv(EnvPrefix + "BLOB_DRIVER"); driver != "" {
		c.Blob.Driver = blob.Driver(driver)
	}
	loadEnvString("BLOB_FS_ROOT", &c.Blob.FSRoot)
	loadEnvString("BLOB_PUBLIC_BASE_URL", &c.Blob.PublicBaseURL)
	loadEnvString("S3_BUCKET", &c.Blob.S3.Bucket)
	loadEnvString("S3_REGION", &c.Blob.S3.Region)
	loadEnvString("S3_ENDPOINT", &c.Blob.S3.Endpoint)
	loadEnvString("S3_ACCESS_KEY_ID", &c.Blob.S3.AccessKeyID)
	loadEnvString("S3_SECRET_ACCESS_KEY", &c.Blob.S3.SecretAccessKey)
	loadEnvString("S3_PREFIX", &c.Blob.S3.Prefix)
	if err := loadEnvBool("S3_PATH_STYLE", &c.Blob.S3.PathStyle); err != nil {
		return err
	}

	loadEnvString("HOST", &c.Server.Host)
	if err := loadEnvInt("PORT", &c.Server.Port, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvDuration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout); err != nil {
		return err
	}

	loadEnvString("LOG_LEVEL", &c.Log.Level)
	loadEnvString("LOG_FORMAT", &c.Log.Format)
	loadEnvString("TRACE_PATH", &c.Log.TracePath)
	if err := loadEnvBool("LOG_AUDIT", &c.Log.Audit); err != nil {
		return err
	}

	loadEnvString("QUEUE_DRIVER", &c.Queue.Driver)
	loadEnvString("REDIS_ADDR", &c.Queue.RedisAddr)
	loadEnvString("REDIS_PASSWORD", &c.Queue.Password)
	loadEnvString("QUEUE_KEY", &c.Queue.Key)
	if err := loadEnvInt("QUEUE_SIZE", &c.Queue.Size, 0, MaxQueueSize); err != nil {
		return err
	}
	if err := loadEnvInt("REDIS_DB", &c.Queue.DB, -1, MaxRedisDB); err != nil {
		return err
	}
	if err := loadEnvDuration("QUEUE_POLL_TIMEOUT", &c.Queue.PollTimeout); err != nil {
		return err
	}

	return loadEnvDuration("REPORT_URL_EXPIRY", &c.Reports.URLExpiry)
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	switch core.StorageDriver(c.Storage.Driver) {
	case core.StorageMemory, core.StorageSQLite:
	case core.StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return ErrMissingPostgresDSN
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStorageDriver, c.Storage.Driver)
	}

	driver, err := blob.ParseDriver(string(c.Blob.Driver))
	if err != nil {
		return err
	}
	if driver == blob.DriverS3 && c.Blob.S3.Bucket == "" {
		return ErrMissingS3Bucket
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, c.Log.Format)
	}

	if c.Queue.Driver != QueueChannel && c.Queue.Driver != QueueRedis {
		return fmt.Errorf("%w: %s", ErrInvalidQueueDriver, c.Queue.Driver)
	}
	return nil
}

// StorageOptions maps the storage section onto core options.
func (c *Config) StorageOptions() core.StorageOptions {
	return core.StorageOptions{
		Driver:      core.StorageDriver(c.Storage.Driver),
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
	}
}

// Addr is the host:port the API listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func loadEnvString(key string, dst *string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func loadEnvBool(key string, dst *bool) error {
	s := os.Getenv(EnvPrefix + key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid %s%s: %q", EnvPrefix, key, s)
	}
	*dst = v
	return nil
}

func loadEnvDuration(key string, dst *time.Duration) error {
	s := os.Getenv(EnvPrefix + key)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s%s: %q", EnvPrefix, key, s)
	}
	*dst = v
	return nil
}

// loadEnvInt sets *dst when the variable parses to a value in (min, max].
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(EnvPrefix + key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %q", EnvPrefix, key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s%s: %d out of range [%d, %d]",
			EnvPrefix, key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
