// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage persists calculation history as a tabular CSV file.
//
// The on-disk format is one row per history entry in chronological order,
// with the columns operation, operand1, operand2, result, timestamp
// (RFC 3339). An empty history persists as a header-only table, never a
// missing file; a missing file on load means "start empty".
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reckonhq/reckon/pkg/engine"
	"github.com/reckonhq/reckon/pkg/logging"
)

// historyColumns is the fixed header of the history table.
var historyColumns = []string{"operation", "operand1", "operand2", "result", "timestamp"}

// CSVStore implements engine.HistoryStore over a single CSV file.
//
// Malformed rows encountered during Load are skipped with a warning rather
// than rejecting the whole file; a header that does not match the expected
// columns fails the load outright, since the file is then some other table
// entirely.
type CSVStore struct {
	path string
	log  *logging.Logger
}

// NewCSVStore creates a store backed by the file at path. log may be nil.
func NewCSVStore(path string, log *logging.Logger) *CSVStore {
	if log == nil {
		log = logging.Default()
	}
	return &CSVStore{path: path, log: log}
}

// Path returns the location of the history file.
func (s *CSVStore) Path() string {
	return s.path
}

// Save writes the full history, creating parent directories as needed.
// An empty history still produces a well-formed header-only table.
func (s *CSVStore) Save(entries []engine.Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(historyColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			entry.Operation,
			entry.Operand1.String(),
			entry.Operand2.String(),
			entry.Result.String(),
			entry.Timestamp.Format(time.RFC3339Nano),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush history file: %w", err)
	}
	return f.Sync()
}

// Load reads the persisted history in file order. A missing file returns
// (nil, nil). Rows that cannot be parsed are skipped with a warning.
func (s *CSVStore) Load() ([]engine.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row length is validated per record below

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Zero-byte file: treat the same as a missing file.
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !matchesHeader(header) {
		return nil, fmt.Errorf("unexpected history header: %v", header)
	}

	var entries []engine.Entry
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.log.Warn("skipping malformed history row", "line", line, "error", err.Error())
				continue
			}
			return nil, fmt.Errorf("read history row: %w", err)
		}

		entry, err := parseRow(record)
		if err != nil {
			s.log.Warn("skipping unparseable history row", "line", line, "error", err.Error())
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func matchesHeader(header []string) bool {
	if len(header) != len(historyColumns) {
		return false
	}
	for i, col := range historyColumns {
		if header[i] != col {
			return false
		}
	}
	return true
}

func parseRow(record []string) (engine.Entry, error) {
	if len(record) != len(historyColumns) {
		return engine.Entry{}, fmt.Errorf("expected %d fields, got %d", len(historyColumns), len(record))
	}

	operand1, err := decimal.NewFromString(record[1])
	if err != nil {
		return engine.Entry{}, fmt.Errorf("operand1: %w", err)
	}
	operand2, err := decimal.NewFromString(record[2])
	if err != nil {
		return engine.Entry{}, fmt.Errorf("operand2: %w", err)
	}
	result, err := decimal.NewFromString(record[3])
	if err != nil {
		return engine.Entry{}, fmt.Errorf("result: %w", err)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, record[4])
	if err != nil {
		return engine.Entry{}, fmt.Errorf("timestamp: %w", err)
	}

	return engine.Entry{
		Operation: record[0],
		Operand1:  operand1,
		Operand2:  operand2,
		Result:    result,
		Timestamp: timestamp,
	}, nil
}
