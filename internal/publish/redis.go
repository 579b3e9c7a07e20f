package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type hashStore interface {
	ReplaceHash(ctx context.Context, key string, fields map[string]any, ttl time.Duration) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RedisSink stores the vocabulary as a token->index hash under key and a
// JSON summary under key+":meta".
type RedisSink struct {
	store hashStore
	key   string
	ttl   time.Duration
}

func NewRedisSink(store hashStore, key string, ttl time.Duration) *RedisSink {
	return &RedisSink{store: store, key: key, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

type redisMeta struct {
	BuildID   string    `json:"buildId"`
	Size      int       `json:"size"`
	OOVToken  string    `json:"oovToken"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *RedisSink) Publish(ctx context.Context, b *Build) error {
	entries := b.Vocabulary.Entries()
	fields := make(map[string]any, len(entries))
	for _, e := range entries {
		fields[e.Token] = e.Index
	}
	if err := s.store.ReplaceHash(ctx, s.key, fields, s.ttl); err != nil {
		return err
	}
	meta, err := json.Marshal(redisMeta{
		BuildID:   b.ID,
		Size:      b.Vocabulary.Size(),
		OOVToken:  b.Vocabulary.OOVToken(),
		CreatedAt: b.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling redis meta: %w", err)
	}
	if err := s.store.Set(ctx, s.key+":meta", meta, s.ttl); err != nil {
		return fmt.Errorf("writing redis meta: %w", err)
	}
	return nil
}
