// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockInputReader_ReturnsInputsInOrder(t *testing.T) {
	mock := NewMockInputReader([]string{"add", "2", "3"})

	line, err := mock.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "add", line)

	line, err = mock.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "2", line)

	line, err = mock.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "3", line)
}

func TestMockInputReader_EOFAfterExhaustion(t *testing.T) {
	mock := NewMockInputReader([]string{"only"})

	_, err := mock.ReadLine()
	require.NoError(t, err)

	_, err = mock.ReadLine()
	assert.Equal(t, io.EOF, err)

	// Stays EOF on repeated calls
	_, err = mock.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestMockInputReader_EmptyInputs(t *testing.T) {
	mock := NewMockInputReader(nil)
	_, err := mock.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestInteractiveInputReader_AddToHistory(t *testing.T) {
	r := &InteractiveInputReader{
		history:      make([]string, 0, 3),
		historyIndex: -1,
		maxHistory:   3,
	}

	r.addToHistory("add")
	r.addToHistory("subtract")
	assert.Equal(t, []string{"add", "subtract"}, r.history)
}

func TestInteractiveInputReader_HistorySkipsConsecutiveDuplicates(t *testing.T) {
	r := &InteractiveInputReader{maxHistory: 5}

	r.addToHistory("add")
	r.addToHistory("add")
	assert.Equal(t, []string{"add"}, r.history)

	// Non-consecutive duplicates are kept
	r.addToHistory("subtract")
	r.addToHistory("add")
	assert.Equal(t, []string{"add", "subtract", "add"}, r.history)
}

func TestInteractiveInputReader_HistoryEvictsOldest(t *testing.T) {
	r := &InteractiveInputReader{maxHistory: 2}

	r.addToHistory("one")
	r.addToHistory("two")
	r.addToHistory("three")
	assert.Equal(t, []string{"two", "three"}, r.history)
}

func TestNewInteractiveInputReader_NonTTYFallsBack(t *testing.T) {
	// Under `go test` stdin is not a TTY, so the constructor returns the
	// plain stdin reader.
	reader := NewInteractiveInputReader(10)
	_, ok := reader.(*StdinReader)
	assert.True(t, ok, "expected StdinReader fallback for non-TTY stdin")
}
