package vocab

import (
	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/tokenizer"
)

// Entry is one vocabulary slot. Count and DocCount are zero for the OOV
// sentinel and for vocabularies loaded with Parse.
type Entry struct {
	Token    string `json:"token"`
	Index    int    `json:"index"`
	Count    int    `json:"count,omitempty"`
	DocCount int    `json:"docCount,omitempty"`
}

// Vocabulary is an immutable token-to-index mapping. Entries are held in
// ascending index order, which is 1..Size() with no gaps.
type Vocabulary struct {
	entries  []Entry
	index    map[string]int
	oovToken string
	tok      tokenizer.Config
}

func newVocabulary(entries []Entry, oovToken string, tok tokenizer.Config) *Vocabulary {
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		index[e.Token] = e.Index
	}
	return &Vocabulary{
		entries:  entries,
		index:    index,
		oovToken: oovToken,
		tok:      tok,
	}
}

// Size returns the number of entries including the OOV sentinel.
func (v *Vocabulary) Size() int {
	return len(v.entries)
}

// OOVToken returns the sentinel stored at OOVIndex.
func (v *Vocabulary) OOVToken() string {
	return v.oovToken
}

// Lookup returns the index of token, if present.
func (v *Vocabulary) Lookup(token string) (int, bool) {
	idx, ok := v.index[token]
	return idx, ok
}

// Entries returns a copy of all entries in index order.
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Preview returns at most n entries from the start of the index.
func (v *Vocabulary) Preview(n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(v.entries) {
		n = len(v.entries)
	}
	out := make([]Entry, n)
	copy(out, v.entries[:n])
	return out
}

// Map returns the vocabulary as a plain token-to-index map.
func (v *Vocabulary) Map() map[string]int {
	m := make(map[string]int, len(v.index))
	for k, idx := range v.index {
		m[k] = idx
	}
	return m
}

// Encode converts text into a sequence of indices using the tokenization
// policy the vocabulary was built with. Unknown terms map to OOVIndex.
func (v *Vocabulary) Encode(text string) []int {
	terms := tokenizer.Terms(text, v.tok)
	seq := make([]int, len(terms))
	for i, term := range terms {
		if idx, ok := v.index[term]; ok && term != v.oovToken {
			seq[i] = idx
			continue
		}
		seq[i] = OOVIndex
	}
	return seq
}
