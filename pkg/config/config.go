// Package config loads and validates vocabgen configuration from a YAML file
// with environment-variable overrides. Command-line flags are applied on top
// by the caller before Validate is run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Vocab    VocabConfig    `yaml:"vocab"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Publish  PublishConfig  `yaml:"publish"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// VocabConfig controls vocabulary size, the OOV sentinel and tokenization.
type VocabConfig struct {
	MaxWords int    `yaml:"maxWords"`
	OOVToken string `yaml:"oovToken"`
	Lower    bool   `yaml:"lower"`
	Filters  string `yaml:"filters"`
}

// InputConfig locates the CSV dataset and the text column to read.
type InputConfig struct {
	Path       string `yaml:"path"`
	Column     string `yaml:"column"`
	Delimiter  string `yaml:"delimiter"`
	LazyQuotes bool   `yaml:"lazyQuotes"`
}

// DelimiterRune returns the CSV field delimiter, defaulting to a comma.
func (i InputConfig) DelimiterRune() rune {
	if i.Delimiter == "" {
		return ','
	}
	if i.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(i.Delimiter)
	return r
}

// OutputConfig controls where the vocabulary is written and how much of it
// is previewed on stdout.
type OutputConfig struct {
	Path        string `yaml:"path"`
	PreviewSize int    `yaml:"previewSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls pushing build metrics to a Prometheus Pushgateway.
type MetricsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	PushgatewayURL string `yaml:"pushgatewayUrl"`
	Job            string `yaml:"job"`
}

// PublishConfig bounds every downstream sink call.
type PublishConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay"`
}

// RedisConfig holds the connection for the inference-side vocabulary cache.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// PostgresConfig holds PostgreSQL connection parameters for build history.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds the broker list and the topic build events go to.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidConfiguration, "parsing config file %s: %v", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns the configuration the original data-prep run used.
func Default() *Config {
	return &Config{
		Vocab: VocabConfig{
			MaxWords: 5000,
			OOVToken: "<OOV>",
			Lower:    true,
			Filters:  tokenizer.DefaultFilters,
		},
		Input: InputConfig{
			Path:      "bank_sms_dataset.csv",
			Column:    "message_text",
			Delimiter: ",",
		},
		Output: OutputConfig{
			Path:        "vocabulary.json",
			PreviewSize: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Job: "vocabgen",
		},
		Publish: PublishConfig{
			Timeout:      30 * time.Second,
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 4,
			Key:      "vocabulary",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "vocabgen",
			User:            "vocabgen",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "vocabulary.built",
		},
	}
}

// Validate rejects configurations that cannot produce a vocabulary. It must
// run before any input is read.
func (c *Config) Validate() error {
	if c.Vocab.MaxWords < 1 {
		return apperrors.Newf(apperrors.ErrInvalidConfiguration, "maxWords must be >= 1, got %d", c.Vocab.MaxWords)
	}
	if c.Vocab.OOVToken == "" {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "oovToken must not be empty")
	}
	if c.Input.Path == "" {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "input path must not be empty")
	}
	if c.Input.Column == "" {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "input column must not be empty")
	}
	if c.Output.Path == "" {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "output path must not be empty")
	}
	if utf8.RuneCountInString(c.Input.Delimiter) > 1 && c.Input.Delimiter != `\t` {
		return apperrors.Newf(apperrors.ErrInvalidConfiguration, "delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if c.Metrics.Enabled && c.Metrics.PushgatewayURL == "" {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "metrics enabled without pushgatewayUrl")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "kafka enabled without brokers")
	}
	return nil
}

// applyEnvOverrides reads VG_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VG_MAX_WORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Vocab.MaxWords = n
		}
	}
	if v := os.Getenv("VG_OOV_TOKEN"); v != "" {
		cfg.Vocab.OOVToken = v
	}
	if v := os.Getenv("VG_INPUT_PATH"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("VG_INPUT_COLUMN"); v != "" {
		cfg.Input.Column = v
	}
	if v := os.Getenv("VG_OUTPUT_PATH"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("VG_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VG_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("VG_PUSHGATEWAY_URL"); v != "" {
		cfg.Metrics.PushgatewayURL = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("VG_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("VG_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("VG_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("VG_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("VG_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("VG_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
}
