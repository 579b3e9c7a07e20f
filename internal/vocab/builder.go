// Package vocab builds a frequency-ranked word index from a corpus of text
// records. Index 1 is reserved for the out-of-vocabulary sentinel and real
// terms follow in descending frequency, ties broken by first appearance.
package vocab

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
)

// OOVIndex is the index always held by the out-of-vocabulary sentinel.
const OOVIndex = 1

// Options configures a single Build.
type Options struct {
	MaxWords  int
	OOVToken  string
	Tokenizer tokenizer.Config
}

// Stats summarises the corpus a vocabulary was built from.
type Stats struct {
	Records        int
	Tokens         int
	DistinctTokens int
	Truncated      int
}

type termCount struct {
	term      string
	count     int
	docCount  int
	firstSeen int
	lastDoc   int
}

// Validate checks options before any counting starts.
func (o Options) Validate() error {
	if o.MaxWords < 1 {
		return apperrors.Newf(apperrors.ErrInvalidConfiguration, "max words must be >= 1, got %d", o.MaxWords)
	}
	if o.OOVToken == "" {
		return apperrors.New(apperrors.ErrInvalidConfiguration, "oov token must not be empty")
	}
	return nil
}

// Build counts every term in corpus and returns the top MaxWords-1 terms
// behind the OOV sentinel. An empty corpus yields the OOV entry alone. It
// fails with ErrInvalidConfiguration if the options are invalid or the OOV
// token occurs as a real term.
func Build(corpus []string, opts Options) (*Vocabulary, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}

	counts := make(map[string]*termCount)
	stats := Stats{Records: len(corpus)}
	pos := 0
	for doc, record := range corpus {
		for _, tok := range tokenizer.Tokenize(record, opts.Tokenizer) {
			tc, exists := counts[tok.Term]
			if !exists {
				tc = &termCount{term: tok.Term, firstSeen: pos, lastDoc: -1}
				counts[tok.Term] = tc
			}
			tc.count++
			if tc.lastDoc != doc {
				tc.docCount++
				tc.lastDoc = doc
			}
			pos++
		}
	}
	stats.Tokens = pos
	stats.DistinctTokens = len(counts)

	if _, collides := counts[opts.OOVToken]; collides {
		return nil, stats, apperrors.Newf(apperrors.ErrInvalidConfiguration,
			"oov token %q occurs as a corpus term", opts.OOVToken)
	}

	ranked := make([]*termCount, 0, len(counts))
	for _, tc := range counts {
		ranked = append(ranked, tc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	limit := opts.MaxWords - 1
	if len(ranked) > limit {
		stats.Truncated = len(ranked) - limit
		ranked = ranked[:limit]
	}

	entries := make([]Entry, 0, len(ranked)+1)
	entries = append(entries, Entry{Token: opts.OOVToken, Index: OOVIndex})
	for i, tc := range ranked {
		entries = append(entries, Entry{
			Token:    tc.term,
			Index:    i + 2,
			Count:    tc.count,
			DocCount: tc.docCount,
		})
	}
	return newVocabulary(entries, opts.OOVToken, opts.Tokenizer), stats, nil
}
