package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Dataset sources
const (
	SourceCSV      = "csv"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig        `yaml:"server"`
	Dataset   DatasetConfig       `yaml:"dataset"`
	Database  DatabaseConfig      `yaml:"database"`
	Redis     RedisConfig         `yaml:"redis"`
	Kafka     KafkaConfig         `yaml:"kafka"`
	Observ    ObservabilityConfig `yaml:"observability"`
	Dashboard DashboardConfig     `yaml:"dashboard"`
}

type ServerConfig struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

type DatasetConfig struct {
	Source    string `yaml:"source"`
	Dir       string `yaml:"dir"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Prefix  string `yaml:"s3_prefix"`
	AWSRegion string `yaml:"aws_region"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	SelectionTTL time.Duration `yaml:"selection_ttl"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	TopicReportEvents  string   `yaml:"topic_report_events"`
	ConsumerGroup      string   `yaml:"consumer_group"`
	AuditWorkerEnabled bool     `yaml:"audit_worker_enabled"`
}

type ObservabilityConfig struct {
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
}

type DashboardConfig struct {
	PreviewRows int `yaml:"preview_rows"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		Dataset: DatasetConfig{
			Source:    SourceCSV,
			Dir:       "data",
			AWSRegion: "us-east-1",
		},
		Redis: RedisConfig{
			SelectionTTL: 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			TopicReportEvents: "report-events",
			ConsumerGroup:     "influencer-dashboard-audit",
		},
		Dashboard: DashboardConfig{
			PreviewRows: 50,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, then environment variables (including a .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded: env=%s, port=%s, dataset=%s", cfg.Server.Env, cfg.Server.Port, cfg.Dataset.Source)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("ENV", c.Server.Env)
	c.Server.LogLevel = getEnv("LOG_LEVEL", c.Server.LogLevel)

	c.Dataset.Source = strings.ToLower(getEnv("DATASET_SOURCE", c.Dataset.Source))
	c.Dataset.Dir = getEnv("DATA_DIR", c.Dataset.Dir)
	c.Dataset.S3Bucket = getEnv("DATASET_S3_BUCKET", c.Dataset.S3Bucket)
	c.Dataset.S3Prefix = getEnv("DATASET_S3_PREFIX", c.Dataset.S3Prefix)
	c.Dataset.AWSRegion = getEnv("AWS_REGION", c.Dataset.AWSRegion)

	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)

	c.Kafka.TopicReportEvents = getEnv("KAFKA_TOPIC_REPORT_EVENTS", c.Kafka.TopicReportEvents)
	c.Kafka.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", c.Kafka.ConsumerGroup)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}

	c.Observ.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", c.Observ.JaegerEndpoint)

	var errs []error
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("SELECTION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SELECTION_TTL: %w", err))
		}
		c.Redis.SelectionTTL = ttl
	}
	if v := os.Getenv("AUDIT_WORKER_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("AUDIT_WORKER_ENABLED: %w", err))
		}
		c.Kafka.AuditWorkerEnabled = enabled
	}
	if v := os.Getenv("PREVIEW_ROWS"); v != "" {
		rows, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PREVIEW_ROWS: %w", err))
		}
		c.Dashboard.PreviewRows = rows
	}
	return multierr.Combine(errs...)
}

// Validate reports every inconsistent setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.Dir == "" {
			errs = append(errs, errors.New("DATA_DIR is required for the csv dataset source"))
		}
	case SourceS3:
		if c.Dataset.S3Bucket == "" {
			errs = append(errs, errors.New("DATASET_S3_BUCKET is required for the s3 dataset source"))
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres dataset source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATASET_SOURCE %q", c.Dataset.Source))
	}

	if c.Kafka.AuditWorkerEnabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when the audit worker is enabled"))
		}
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when the audit worker is enabled"))
		}
	}
	if c.Redis.SelectionTTL < 0 {
		errs = append(errs, errors.New("SELECTION_TTL must not be negative"))
	}
	if c.Dashboard.PreviewRows < 0 {
		errs = append(errs, errors.New("PREVIEW_ROWS must not be negative"))
	}

	return multierr.Combine(errs...)
}

// KafkaEnabled reports whether export events should be published
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
