// Package store persists a finished vocabulary to disk.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/vocabgen/internal/vocab"
	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
)

// WriteFile atomically writes v as JSON to path and returns the number of
// bytes written. The vocabulary is fully encoded in memory, written to a
// .tmp file in the same directory, synced and renamed. On any failure the
// temp file is removed and path is left untouched.
func WriteFile(path string, v *vocab.Vocabulary) (int64, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, apperrors.Newf(apperrors.ErrSerialization, "creating output directory: %v", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrSerialization, "creating temp vocabulary file: %v", err)
	}

	fail := func(format string, err error) (int64, error) {
		f.Close()
		os.Remove(tmpPath)
		return 0, apperrors.Newf(apperrors.ErrSerialization, format, err)
	}
	if _, err := f.Write(data); err != nil {
		return fail("writing vocabulary: %v", err)
	}
	if err := f.Sync(); err != nil {
		return fail("syncing vocabulary file: %v", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, apperrors.Newf(apperrors.ErrSerialization, "closing vocabulary file: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, apperrors.Newf(apperrors.ErrSerialization, "renaming vocabulary file: %v", err)
	}
	return int64(len(data)), nil
}

// ReadFile loads a vocabulary previously written by WriteFile. tok is the
// policy used by Encode on the returned vocabulary.
func ReadFile(path string, tok tokenizer.Config) (*vocab.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInputNotFound, "opening vocabulary %s: %v", path, err)
	}
	defer f.Close()
	v, err := vocab.Parse(f, tok)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return v, nil
}
