// Package dataset extracts a single text column from a delimited file.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/vocabgen/pkg/errors"
)

// CSVOptions controls how the file is parsed.
type CSVOptions struct {
	Delimiter  rune
	LazyQuotes bool
}

// LoadColumn opens path and returns the values of column in row order. The
// first row is treated as the header. Empty cells are returned as empty
// strings so the record count matches the number of data rows.
func LoadColumn(path, column string, opts CSVOptions) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrInputNotFound, "dataset %s does not exist", path)
		}
		return nil, apperrors.Newf(apperrors.ErrInputNotFound, "opening dataset %s: %v", path, err)
	}
	defer f.Close()

	records, err := ReadColumn(f, column, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	slog.Debug("dataset loaded", "path", path, "column", column, "records", len(records))
	return records, nil
}

// ReadColumn is LoadColumn over an already-open reader.
func ReadColumn(r io.Reader, column string, opts CSVOptions) ([]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.New(apperrors.ErrMalformedInput, "dataset has no header row")
	}
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedInput, "reading header: %v", err)
	}
	col, err := findColIndex(header, column)
	if err != nil {
		return nil, err
	}

	var records []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedInput, "row %d: %v", len(records)+2, err)
		}
		if col >= len(row) {
			records = append(records, "")
			continue
		}
		records = append(records, row[col])
	}
	return records, nil
}

// findColIndex finds column in the header, ignoring case, surrounding
// whitespace and a UTF-8 byte order mark on the first cell.
func findColIndex(header []string, column string) (int, error) {
	want := strings.TrimSpace(column)
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return i, nil
		}
	}
	return -1, apperrors.Newf(apperrors.ErrInvalidConfiguration, "column %q not found in header %q", column, header)
}
