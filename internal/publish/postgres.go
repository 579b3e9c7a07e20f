package publish

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type txRunner interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// PostgresSink records each build and its entries. It requires:
//
//	CREATE TABLE vocabulary_builds (
//	    build_id        TEXT PRIMARY KEY,
//	    size            INT NOT NULL,
//	    max_words       INT NOT NULL,
//	    records         INT NOT NULL,
//	    tokens          BIGINT NOT NULL,
//	    distinct_tokens INT NOT NULL,
//	    oov_token       TEXT NOT NULL,
//	    output_path     TEXT NOT NULL,
//	    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE TABLE vocabulary_entries (
//	    build_id  TEXT NOT NULL REFERENCES vocabulary_builds(build_id),
//	    token     TEXT NOT NULL,
//	    idx       INT NOT NULL,
//	    count     INT NOT NULL,
//	    doc_count INT NOT NULL,
//	    PRIMARY KEY (build_id, idx)
//	);
type PostgresSink struct {
	db txRunner
}

func NewPostgresSink(db txRunner) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

// Publish is idempotent per build ID: a build already recorded is skipped.
func (s *PostgresSink) Publish(ctx context.Context, b *Build) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO vocabulary_builds
			    (build_id, size, max_words, records, tokens, distinct_tokens, oov_token, output_path, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (build_id) DO NOTHING`,
			b.ID, b.Vocabulary.Size(), b.MaxWords, b.Stats.Records, b.Stats.Tokens,
			b.Stats.DistinctTokens, b.Vocabulary.OOVToken(), b.OutputPath, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting build %s: %w", b.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("vocabulary_entries", "build_id", "token", "idx", "count", "doc_count"))
		if err != nil {
			return fmt.Errorf("preparing entry copy: %w", err)
		}
		defer stmt.Close()
		for _, e := range b.Vocabulary.Entries() {
			if _, err := stmt.ExecContext(ctx, b.ID, e.Token, e.Index, e.Count, e.DocCount); err != nil {
				return fmt.Errorf("copying entry %q: %w", e.Token, err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flushing entry copy: %w", err)
		}
		return nil
	})
}
