package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vocab.MaxWords != 5000 {
		t.Errorf("MaxWords = %d, want 5000", cfg.Vocab.MaxWords)
	}
	if cfg.Vocab.OOVToken != "<OOV>" {
		t.Errorf("OOVToken = %q, want <OOV>", cfg.Vocab.OOVToken)
	}
	if cfg.Input.Column != "message_text" {
		t.Errorf("Column = %q, want message_text", cfg.Input.Column)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabgen.yaml")
	data := []byte(`
vocab:
  maxWords: 200
  oovToken: "[UNK]"
input:
  path: sms.csv
  column: body
  delimiter: ";"
output:
  path: out/vocab.json
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VG_MAX_WORDS", "300")
	t.Setenv("VG_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vocab.MaxWords != 300 {
		t.Errorf("MaxWords = %d, want env override 300", cfg.Vocab.MaxWords)
	}
	if cfg.Vocab.OOVToken != "[UNK]" {
		t.Errorf("OOVToken = %q", cfg.Vocab.OOVToken)
	}
	if !cfg.Vocab.Lower {
		t.Error("Lower should keep its default when absent from YAML")
	}
	if cfg.Input.DelimiterRune() != ';' {
		t.Errorf("DelimiterRune = %q, want ';'", cfg.Input.DelimiterRune())
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("vocab: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !apperrors.Is(err, apperrors.ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max words", func(c *Config) { c.Vocab.MaxWords = 0 }},
		{"negative max words", func(c *Config) { c.Vocab.MaxWords = -5 }},
		{"empty oov", func(c *Config) { c.Vocab.OOVToken = "" }},
		{"empty input", func(c *Config) { c.Input.Path = "" }},
		{"empty column", func(c *Config) { c.Input.Column = "" }},
		{"empty output", func(c *Config) { c.Output.Path = "" }},
		{"long delimiter", func(c *Config) { c.Input.Delimiter = "||" }},
		{"metrics without url", func(c *Config) { c.Metrics.Enabled = true }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !apperrors.Is(err, apperrors.ErrInvalidConfiguration) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestDelimiterRuneTab(t *testing.T) {
	in := InputConfig{Delimiter: `\t`}
	if in.DelimiterRune() != '\t' {
		t.Errorf("DelimiterRune = %q, want tab", in.DelimiterRune())
	}
	if (InputConfig{}).DelimiterRune() != ',' {
		t.Error("empty delimiter should default to comma")
	}
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "vocabgen.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("shipped config does not validate: %v", err)
	}
	if cfg.Vocab.Filters == "" {
		t.Error("filters should fall back to the default set")
	}
	if cfg.Redis.Enabled || cfg.Postgres.Enabled || cfg.Kafka.Enabled {
		t.Error("sinks should be disabled in the shipped config")
	}
}
