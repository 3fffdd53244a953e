package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MaxFileSizeLimit bounds FILE_MAX_FILE_SIZE so request body limits derived
// from it stay within int range
const MaxFileSizeLimit = 1 << 30

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	AWS          AWSConfig          `yaml:"aws"`
	Storage      StorageConfig      `yaml:"storage"`
	Notification NotificationConfig `yaml:"notification"`
	Saga         SagaConfig         `yaml:"saga"`
	Log          LogConfig          `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowOrigins    string        `yaml:"allow_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Name         string        `yaml:"name"`
	SSLMode      string        `yaml:"sslmode"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxLifetime  time.Duration `yaml:"max_lifetime"`
}

// Enabled reports whether a PostgreSQL database is configured. Without one
// the service keeps applications in memory.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type StorageConfig struct {
	Backend           string   `yaml:"backend"`
	UploadDir         string   `yaml:"upload_dir"`
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	PublicPrefix      string   `yaml:"public_prefix"`
}

const (
	NotifierLog      = "log"
	NotifierHTTP     = "http"
	NotifierSendGrid = "sendgrid"
)

type NotificationConfig struct {
	Provider       string        `yaml:"provider"`
	ServiceURL     string        `yaml:"service_url"`
	Timeout        time.Duration `yaml:"timeout"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key"`
	FromEmail      string        `yaml:"from_email"`
	FromName       string        `yaml:"from_name"`
}

const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

type SagaConfig struct {
	Queue      string        `yaml:"queue"`
	QueueName  string        `yaml:"queue_name"`
	Workers    int           `yaml:"workers"`
	BufferSize int           `yaml:"buffer_size"`
	Timeout    time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	up := upload.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			AllowOrigins:    "*",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Port:         "5432",
			User:         "postgres",
			Name:         "revjobs_applications",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		AWS: AWSConfig{
			Region: "us-east-1",
			Prefix: "uploads",
		},
		Storage: StorageConfig{
			Backend:           StorageLocal,
			UploadDir:         "./uploads",
			MaxFileSize:       up.MaxFileSize,
			AllowedExtensions: up.AllowedExtensions,
			PublicPrefix:      up.PublicPrefix,
		},
		Notification: NotificationConfig{
			Provider:  NotifierLog,
			Timeout:   5 * time.Second,
			FromEmail: "no-reply@revjobs.com",
			FromName:  "RevJobs",
		},
		Saga: SagaConfig{
			Queue:      QueueMemory,
			QueueName:  "revjobs:application-saga",
			Workers:    2,
			BufferSize: 256,
			Timeout:    30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named
// by CONFIG_FILE, an optional .env file and finally the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.Storage.AllowedExtensions = upload.ParseExtensions(strings.Join(c.Storage.AllowedExtensions, ","))
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error

	setString(&c.Server.Port, "PORT")
	setString(&c.Server.AllowOrigins, "CORS_ALLOW_ORIGINS")

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASS")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASS")

	setString(&c.AWS.Region, "AWS_REGION")
	setString(&c.AWS.Bucket, "AWS_BUCKET")

	setString(&c.Storage.Backend, "FILE_STORAGE")
	setString(&c.Storage.UploadDir, "FILE_UPLOAD_DIR")
	errs = append(errs, setInt64(&c.Storage.MaxFileSize, "FILE_MAX_FILE_SIZE"))
	if v := os.Getenv("FILE_ALLOWED_EXTENSIONS"); v != "" {
		c.Storage.AllowedExtensions = upload.ParseExtensions(v)
	}
	setString(&c.Storage.PublicPrefix, "FILE_PUBLIC_PREFIX")

	setString(&c.Notification.Provider, "NOTIFICATION_PROVIDER")
	setString(&c.Notification.ServiceURL, "NOTIFICATION_SERVICE_URL")
	errs = append(errs, setDuration(&c.Notification.Timeout, "NOTIFICATION_TIMEOUT"))
	setString(&c.Notification.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Notification.FromEmail, "NOTIFICATION_FROM_EMAIL")
	setString(&c.Notification.FromName, "NOTIFICATION_FROM_NAME")

	setString(&c.Saga.Queue, "SAGA_QUEUE")
	setString(&c.Saga.QueueName, "SAGA_QUEUE_NAME")
	errs = append(errs, setInt(&c.Saga.Workers, "SAGA_WORKERS"))
	errs = append(errs, setInt(&c.Saga.BufferSize, "SAGA_BUFFER"))

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	return errors.Join(errs...)
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			errs = append(errs, errors.New("FILE_UPLOAD_DIR is required for local storage"))
		}
	case StorageS3:
		if c.AWS.Bucket == "" {
			errs = append(errs, errors.New("AWS_BUCKET is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown FILE_STORAGE %q", c.Storage.Backend))
	}

	if c.Storage.MaxFileSize <= 0 {
		errs = append(errs, errors.New("FILE_MAX_FILE_SIZE must be positive"))
	} else if c.Storage.MaxFileSize > MaxFileSizeLimit {
		errs = append(errs, fmt.Errorf("FILE_MAX_FILE_SIZE must not exceed %d bytes", int64(MaxFileSizeLimit)))
	}
	if len(c.Storage.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("FILE_ALLOWED_EXTENSIONS must list at least one extension"))
	}

	switch c.Notification.Provider {
	case NotifierLog:
	case NotifierHTTP:
		if c.Notification.ServiceURL == "" {
			errs = append(errs, errors.New("NOTIFICATION_SERVICE_URL is required for the http notifier"))
		}
	case NotifierSendGrid:
		if c.Notification.SendGridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required for the sendgrid notifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFICATION_PROVIDER %q", c.Notification.Provider))
	}
	if c.Notification.Timeout <= 0 {
		errs = append(errs, errors.New("NOTIFICATION_TIMEOUT must be positive"))
	}

	switch c.Saga.Queue {
	case QueueMemory, QueueRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SAGA_QUEUE %q", c.Saga.Queue))
	}
	if c.Saga.Workers < 1 {
		errs = append(errs, errors.New("SAGA_WORKERS must be at least 1"))
	}

	return errors.Join(errs...)
}

// UploadConfig is the file store configuration derived from Storage
func (c *Config) UploadConfig() upload.Config {
	return upload.Config{
		MaxFileSize:       c.Storage.MaxFileSize,
		AllowedExtensions: c.Storage.AllowedExtensions,
		PublicPrefix:      c.Storage.PublicPrefix,
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := parseSize(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// setDuration accepts Go durations ("5s") or a bare number of milliseconds
func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// parseSize reads a byte count, optionally suffixed with KB or MB
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "MB"):
		mult, s = 1024*1024, strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		mult, s = 1024, strings.TrimSuffix(s, "KB")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64/mult || n < math.MinInt64/mult {
		return 0, fmt.Errorf("size %s out of range", s)
	}
	return n * mult, nil
}
