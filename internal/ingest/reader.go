// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// CSVReader streams a header-first CSV file as Rows.
type CSVReader struct {
	file   *os.File
	csv    *csv.Reader
	header []string
}

// OpenCSV opens path and reads its header row. A missing file returns an
// error wrapping ErrSourceNotFound. An empty file yields no rows.
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is trusted input from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	buf := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	reader := csv.NewReader(buf)
	reader.FieldsPerRecord = -1

	r := &CSVReader{file: file, csv: reader}

	header, err := reader.Read()
	switch {
	case errors.Is(err, io.EOF):
		// empty source
	case err != nil:
		_ = file.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	default:
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		r.header = header
	}

	return r, nil
}

// Header returns the column names from the first line.
func (r *CSVReader) Header() []string {
	return r.header
}

// Next returns the next data row and its 1-based line number. Framing
// problems on a single record (bad quoting, fewer fields than the header)
// come back as a *RowError so the caller can skip the row. Fields past the
// last header column are ignored. io.EOF ends the stream.
func (r *CSVReader) Next() (Row, int, error) {
	if r.header == nil {
		return nil, 0, io.EOF
	}

	record, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, parseErr.StartLine, &RowError{Line: parseErr.StartLine, Reason: parseErr.Err.Error()}
		}
		return nil, 0, err
	}

	line, _ := r.csv.FieldPos(0)
	if len(record) < len(r.header) {
		return nil, line, &RowError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(r.header), len(record)),
		}
	}

	row := make(Row, len(r.header))
	for i, name := range r.header {
		row[name] = record[i]
	}
	return row, line, nil
}

// Close closes the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}
