package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/publish"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/store"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/vocab"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vocabgen: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("vocabgen", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	input := fs.String("input", "", "CSV dataset path (overrides config)")
	column := fs.String("column", "", "text column name (overrides config)")
	output := fs.String("output", "", "vocabulary JSON path (overrides config)")
	maxWords := fs.Int("max-words", 0, "maximum vocabulary size including the OOV entry (overrides config)")
	oov := fs.String("oov", "", "out-of-vocabulary token (overrides config)")
	if err := fs.Parse(args); err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfiguration, "parsing flags: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(fs, cfg, *input, *column, *output, *maxWords, *oov)

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := metrics.New()
	runErr := build(ctx, cfg, m, stdout)
	if runErr == nil {
		m.MarkSuccess()
	}
	if cfg.Metrics.Enabled {
		if err := m.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			slog.Warn("metrics push failed", "error", err)
		}
	}
	return runErr
}

func applyFlags(fs *flag.FlagSet, cfg *config.Config, input, column, output string, maxWords int, oov string) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = input
		case "column":
			cfg.Input.Column = column
		case "output":
			cfg.Output.Path = output
		case "max-words":
			cfg.Vocab.MaxWords = maxWords
		case "oov":
			cfg.Vocab.OOVToken = oov
		}
	})
}

func build(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stdout io.Writer) error {
	log := logger.WithComponent("vocabgen")

	start := time.Now()
	corpus, err := dataset.LoadColumn(cfg.Input.Path, cfg.Input.Column, dataset.CSVOptions{
		Delimiter:  cfg.Input.DelimiterRune(),
		LazyQuotes: cfg.Input.LazyQuotes,
	})
	if err != nil {
		return err
	}
	m.ObserveStage("load", start)
	m.RecordsRead.Add(float64(len(corpus)))
	log.Info("dataset loaded", "path", cfg.Input.Path, "column", cfg.Input.Column, "records", len(corpus))

	start = time.Now()
	tok := tokenizer.Config{Lower: cfg.Vocab.Lower, Filters: cfg.Vocab.Filters}
	v, stats, err := vocab.Build(corpus, vocab.Options{
		MaxWords:  cfg.Vocab.MaxWords,
		OOVToken:  cfg.Vocab.OOVToken,
		Tokenizer: tok,
	})
	if err != nil {
		return err
	}
	m.ObserveStage("build", start)
	m.TokensCounted.Add(float64(stats.Tokens))
	m.DistinctTokens.Set(float64(stats.DistinctTokens))
	m.TruncatedTokens.Set(float64(stats.Truncated))
	m.VocabularySize.Set(float64(v.Size()))
	log.Info("vocabulary built",
		"size", v.Size(),
		"tokens", stats.Tokens,
		"distinct_tokens", stats.DistinctTokens,
		"truncated", stats.Truncated,
	)

	start = time.Now()
	n, err := store.WriteFile(cfg.Output.Path, v)
	if err != nil {
		return err
	}
	m.ObserveStage("write", start)
	m.OutputBytes.Set(float64(n))
	log.Info("vocabulary written", "path", cfg.Output.Path, "bytes", n)

	if err := report(stdout, v, cfg.Output.PreviewSize); err != nil {
		return err
	}

	sinks, closeSinks, err := openSinks(ctx, cfg)
	if err != nil {
		return apperrors.Newf(apperrors.ErrPublish, "connecting sinks: %v", err)
	}
	defer closeSinks()
	if len(sinks) == 0 {
		return nil
	}

	b, err := publish.NewBuild(v, stats, cfg.Vocab.MaxWords, cfg.Output.Path)
	if err != nil {
		return err
	}
	start = time.Now()
	err = publish.NewPublisher(cfg.Publish, m, sinks...).Publish(ctx, b)
	m.ObserveStage("publish", start)
	return err
}

// report prints the human-readable summary: the vocabulary size and the
// first entries by index.
func report(w io.Writer, v *vocab.Vocabulary, previewSize int) error {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range v.Preview(previewSize) {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %d", strconv.Quote(e.Token), e.Index)
	}
	sb.WriteByte('}')

	if _, err := fmt.Fprintf(w, "Vocabulary saved with %d words\nVocabulary preview: %s\n", v.Size(), sb.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// openSinks connects every enabled sink. The returned close function is
// always safe to call.
func openSinks(ctx context.Context, cfg *config.Config) ([]publish.Sink, func(), error) {
	var (
		sinks   []publish.Sink
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Warn("closing sink", "error", err)
			}
		}
	}

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, rc.Close)
		sinks = append(sinks, publish.NewRedisSink(rc, cfg.Redis.Key, cfg.Redis.TTL))
	}
	if cfg.Postgres.Enabled {
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, db.Close)
		sinks = append(sinks, publish.NewPostgresSink(db))
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		closers = append(closers, producer.Close)
		sinks = append(sinks, publish.NewKafkaSink(producer))
	}
	return sinks, closeAll, nil
}
