package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
)

// MarshalJSON encodes the vocabulary as a flat object of token to index.
// Keys are written in index order so repeated builds produce identical
// bytes. HTML characters are left unescaped, so "<OOV>" appears verbatim.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	var key bytes.Buffer
	enc := json.NewEncoder(&key)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, e := range v.entries {
		if !utf8.ValidString(e.Token) {
			return nil, apperrors.Newf(apperrors.ErrSerialization, "token at index %d is not valid UTF-8", e.Index)
		}
		key.Reset()
		if err := enc.Encode(e.Token); err != nil {
			return nil, apperrors.Newf(apperrors.ErrSerialization, "encoding token at index %d: %v", e.Index, err)
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.Write(bytes.TrimRight(key.Bytes(), "\n"))
		fmt.Fprintf(&buf, ": %d", e.Index)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Serialize writes the JSON form of v to w.
func Serialize(w io.Writer, v *Vocabulary) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return apperrors.Newf(apperrors.ErrSerialization, "writing vocabulary: %v", err)
	}
	return nil
}

// Parse reads a flat token-to-index object written by Serialize. The entry
// at index 1 becomes the OOV token, and tok is used by Encode.
func Parse(r io.Reader, tok tokenizer.Config) (*Vocabulary, error) {
	var raw map[string]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedInput, "decoding vocabulary: %v", err)
	}
	if len(raw) == 0 {
		return nil, apperrors.New(apperrors.ErrMalformedInput, "vocabulary is empty")
	}

	entries := make([]Entry, len(raw))
	seen := make([]bool, len(raw)+1)
	for token, idx := range raw {
		if idx < 1 || idx > len(raw) {
			return nil, apperrors.Newf(apperrors.ErrMalformedInput, "index %d for %q outside 1..%d", idx, token, len(raw))
		}
		if seen[idx] {
			return nil, apperrors.Newf(apperrors.ErrMalformedInput, "index %d assigned twice", idx)
		}
		seen[idx] = true
		entries[idx-1] = Entry{Token: token, Index: idx}
	}
	return newVocabulary(entries, entries[OOVIndex-1].Token, tok), nil
}
