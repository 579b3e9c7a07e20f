// Package publish hands a finished vocabulary build to downstream systems:
// a Redis hash for online lookup, a PostgreSQL build history and a Kafka
// event for the training pipeline. Every sink is optional and runs after
// the vocabulary file is already on disk.
package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/vocab"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/resilience"
	"golang.org/x/sync/errgroup"
)

// Build is a completed vocabulary plus the facts sinks record about it.
type Build struct {
	ID         string
	Vocabulary *vocab.Vocabulary
	Stats      vocab.Stats
	MaxWords   int
	OutputPath string
	CreatedAt  time.Time
}

// NewBuild derives a content-addressed ID from the serialized vocabulary,
// so rebuilding an identical vocabulary yields the same ID.
func NewBuild(v *vocab.Vocabulary, stats vocab.Stats, maxWords int, outputPath string) (*Build, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return &Build{
		ID:         hex.EncodeToString(sum[:8]),
		Vocabulary: v,
		Stats:      stats,
		MaxWords:   maxWords,
		OutputPath: outputPath,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Sink receives a finished build.
type Sink interface {
	Name() string
	Publish(ctx context.Context, b *Build) error
}

// Publisher fans a build out to all sinks concurrently.
type Publisher struct {
	sinks   []Sink
	retry   resilience.RetryConfig
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Publisher. m may be nil.
func NewPublisher(cfg config.PublishConfig, m *metrics.Metrics, sinks ...Sink) *Publisher {
	return &Publisher{
		sinks: sinks,
		retry: resilience.RetryConfig{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialDelay,
		},
		timeout: cfg.Timeout,
		metrics: m,
		logger:  slog.Default().With("component", "publisher"),
	}
}

// Publish runs every sink with retries and waits for all of them. Failures
// do not cancel sibling sinks; all failures are joined under ErrPublish.
func (p *Publisher) Publish(ctx context.Context, b *Build) error {
	if len(p.sinks) == 0 {
		return nil
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, sink := range p.sinks {
		sink := sink
		g.Go(func() error {
			start := time.Now()
			err := resilience.Retry(ctx, "publish-"+sink.Name(), p.retry, func(ctx context.Context) error {
				return sink.Publish(ctx, b)
			})
			status := "ok"
			if err != nil {
				status = "error"
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
				mu.Unlock()
				p.logger.Error("sink publish failed", "sink", sink.Name(), "build_id", b.ID, "error", err)
			} else {
				p.logger.Info("sink published", "sink", sink.Name(), "build_id", b.ID, "elapsed", time.Since(start))
			}
			if p.metrics != nil {
				p.metrics.PublishTotal.WithLabelValues(sink.Name(), status).Inc()
			}
			return nil
		})
	}
	g.Wait()

	if len(errs) > 0 {
		return apperrors.Newf(apperrors.ErrPublish, "%v", errors.Join(errs...))
	}
	return nil
}
