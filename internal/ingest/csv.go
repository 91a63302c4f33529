// Package ingest reads order exports into an in-memory table. It is
// deliberately forgiving: ragged rows are padded or truncated and reported
// as warnings instead of failing the whole file.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyFile = errors.New("file is empty: no header row found")

// ParseWarning represents a non-fatal issue encountered while reading.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is a raw export: a header row plus string cells, every row padded
// to the header width.
type Table struct {
	Header   []string       `json:"header"`
	Rows     [][]string     `json:"-"`
	Lines    []int          `json:"-"`
	Warnings []ParseWarning `json:"warnings,omitempty"`
	Encoding string         `json:"encoding"`
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Line returns the source line number of data row i (the header is line 1).
func (t *Table) Line(i int) int {
	if i >= 0 && i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Index returns the position of the named header, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Read consumes r fully and parses it. The whole export is held in memory.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(data)
}

// Parse decodes and parses CSV bytes.
func Parse(data []byte) (*Table, error) {
	decoded, enc, err := DetectAndDecode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header, Encoding: enc}
	width := len(header)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			t.Warnings = append(t.Warnings, ParseWarning{
				Row:     line,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}
		rowNum, _ := reader.FieldPos(0)

		switch {
		case len(row) < width:
			t.Warnings = append(t.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), width),
			})
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		case len(row) > width:
			t.Warnings = append(t.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), width),
			})
			row = row[:width]
		}

		t.Rows = append(t.Rows, row)
		t.Lines = append(t.Lines, rowNum)
	}

	return t, nil
}
