// Package tokenizer splits message text into vocabulary terms. A record is
// optionally lower-cased, every filter character is replaced by a space,
// and the result is split on whitespace. No stemming or stop-word removal
// is applied, so every surface word becomes its own term.
package tokenizer

import (
	"strings"
	"unicode"
)

// DefaultFilters is the punctuation stripped before splitting. The
// apostrophe is absent, so "don't" stays a single term.
const DefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// Config fixes the tokenization policy. It is observable in every
// vocabulary produced, so it travels with the build rather than living in
// package state.
type Config struct {
	Lower   bool
	Filters string
}

// DefaultConfig lower-cases and strips DefaultFilters.
func DefaultConfig() Config {
	return Config{Lower: true, Filters: DefaultFilters}
}

// Token represents a single normalised term and its position in the
// original text.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text into Tokens according to cfg.
func Tokenize(text string, cfg Config) []Token {
	terms := Terms(text, cfg)
	tokens := make([]Token, len(terms))
	for i, term := range terms {
		tokens[i] = Token{Term: term, Position: i}
	}
	return tokens
}

// Terms is Tokenize without positions.
func Terms(text string, cfg Config) []string {
	if cfg.Lower {
		text = strings.ToLower(text)
	}
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(cfg.Filters, r)
	})
}
