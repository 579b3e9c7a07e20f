package publish

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/kafka"
)

type eventPublisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// BuildEvent announces a new vocabulary to the training pipeline. It carries
// the summary only; consumers read the mapping from OutputPath or Redis.
type BuildEvent struct {
	BuildID        string    `json:"buildId"`
	Size           int       `json:"size"`
	MaxWords       int       `json:"maxWords"`
	Records        int       `json:"records"`
	Tokens         int       `json:"tokens"`
	DistinctTokens int       `json:"distinctTokens"`
	Truncated      int       `json:"truncated"`
	OOVToken       string    `json:"oovToken"`
	OutputPath     string    `json:"outputPath"`
	CreatedAt      time.Time `json:"createdAt"`
}

type KafkaSink struct {
	producer eventPublisher
}

func NewKafkaSink(producer eventPublisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, b *Build) error {
	return s.producer.Publish(ctx, kafka.Event{
		Key:     b.ID,
		Headers: map[string]string{"event": "vocabulary.built"},
		Value: BuildEvent{
			BuildID:        b.ID,
			Size:           b.Vocabulary.Size(),
			MaxWords:       b.MaxWords,
			Records:        b.Stats.Records,
			Tokens:         b.Stats.Tokens,
			DistinctTokens: b.Stats.DistinctTokens,
			Truncated:      b.Stats.Truncated,
			OOVToken:       b.Vocabulary.OOVToken(),
			OutputPath:     b.OutputPath,
			CreatedAt:      b.CreatedAt,
		},
	})
}
