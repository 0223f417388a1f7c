// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reckonhq/reckon/pkg/errs"
	"github.com/reckonhq/reckon/pkg/logging"
	"github.com/reckonhq/reckon/pkg/operation"
)

// memStore is an in-memory HistoryStore for engine tests.
type memStore struct {
	entries []Entry
	saves   int
	saveErr error
	loadErr error
}

func (s *memStore) Save(entries []Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.entries = append([]Entry(nil), entries...)
	return nil
}

func (s *memStore) Load() ([]Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]Entry(nil), s.entries...), nil
}

func quietLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.New(logging.Config{Quiet: true})
}

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	return New(Config{MaxInputValue: decimal.RequireFromString("1e100")}, nil, quietLogger(t))
}

func mustPerform(t *testing.T, c *Calculator, op operation.Operation, a, b string) decimal.Decimal {
	t.Helper()
	c.SetOperation(op)
	result, err := c.Perform(a, b)
	require.NoError(t, err)
	return result
}

func TestPerform_NoOperationSet(t *testing.T) {
	c := newTestCalculator(t)

	_, err := c.Perform("2", "3")
	require.Error(t, err)
	assert.True(t, errs.IsOperation(err))
	assert.Contains(t, err.Error(), "no operation set")
}

func TestPerform_EndToEnd(t *testing.T) {
	c := newTestCalculator(t)

	result := mustPerform(t, c, operation.Add{}, "2", "3")

	assert.True(t, result.Equal(decimal.NewFromInt(5)))
	assert.Len(t, c.History(), 1)
	assert.Equal(t, 1, c.UndoDepth())
	assert.Equal(t, 0, c.RedoDepth())
	assert.Equal(t, "add(2, 3) = 5", c.ShowHistory()[0])
}

func TestPerform_RepeatedWithSameOperation(t *testing.T) {
	c := newTestCalculator(t)
	c.SetOperation(operation.Multiply{})

	// Once an operation is set, Perform may run repeatedly with new operands.
	_, err := c.Perform("2", "3")
	require.NoError(t, err)
	_, err = c.Perform("4", "5")
	require.NoError(t, err)

	assert.Len(t, c.History(), 2)
	assert.Equal(t, 2, c.UndoDepth())
}

func TestPerform_ValidationErrorLeavesHistoryUntouched(t *testing.T) {
	c := newTestCalculator(t)
	c.SetOperation(operation.Divide{})

	_, err := c.Perform("2", "0")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err), "division by zero must surface as ValidationError")

	assert.Empty(t, c.History())
	assert.Equal(t, 0, c.UndoDepth())
	assert.Equal(t, 0, c.RedoDepth())
}

func TestPerform_BadOperandSurfacesValidationError(t *testing.T) {
	c := newTestCalculator(t)
	c.SetOperation(operation.Add{})

	for _, raw := range []string{"", "   ", "abc"} {
		_, err := c.Perform(raw, "1")
		require.Error(t, err, "operand %q should be rejected", raw)
		assert.True(t, errs.IsValidation(err))
	}
	assert.Empty(t, c.History())
}

func TestPerform_MagnitudeCeiling(t *testing.T) {
	c := New(Config{MaxInputValue: decimal.NewFromInt(100)}, nil, quietLogger(t))
	c.SetOperation(operation.Add{})

	_, err := c.Perform("101", "1")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestUndo_EmptyStackIsNoOp(t *testing.T) {
	c := newTestCalculator(t)

	// Repeated undo with nothing to undo returns false and never mutates
	// the history.
	for i := 0; i < 3; i++ {
		assert.False(t, c.Undo())
		assert.Empty(t, c.History())
	}
	assert.False(t, c.Redo())
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	c := newTestCalculator(t)
	mustPerform(t, c, operation.Add{}, "2", "3")
	mustPerform(t, c, operation.Add{}, "4", "4")

	before := c.History()

	require.True(t, c.Undo())
	require.Len(t, c.History(), 1)
	assert.Equal(t, "add(2, 3) = 5", c.History()[0].String())

	require.True(t, c.Redo())
	after := c.History()
	require.Len(t, after, len(before))
	for i := range before {
		assert.True(t, before[i].Equal(after[i]), "entry %d should round-trip through undo/redo", i)
	}
}

func TestUndo_ThenNewCalculationInvalidatesRedo(t *testing.T) {
	c := newTestCalculator(t)
	mustPerform(t, c, operation.Add{}, "2", "3")
	mustPerform(t, c, operation.Add{}, "4", "4")

	require.True(t, c.Undo())
	require.Equal(t, 1, c.RedoDepth())

	// A new divergent calculation makes the "future" branch invalid.
	mustPerform(t, c, operation.Subtract{}, "10", "1")
	assert.Equal(t, 0, c.RedoDepth())
	assert.False(t, c.Redo())
	require.Len(t, c.History(), 2)
	assert.Equal(t, "subtract(10, 1) = 9", c.History()[1].String())
}

func TestUndo_AllTheWayDown(t *testing.T) {
	c := newTestCalculator(t)
	mustPerform(t, c, operation.Add{}, "1", "1")
	mustPerform(t, c, operation.Add{}, "2", "2")
	mustPerform(t, c, operation.Add{}, "3", "3")

	require.True(t, c.Undo())
	require.True(t, c.Undo())
	require.True(t, c.Undo())
	assert.Empty(t, c.History())
	assert.False(t, c.Undo())

	// And redo restores them in the original order.
	require.True(t, c.Redo())
	require.True(t, c.Redo())
	require.True(t, c.Redo())
	history := c.ShowHistory()
	require.Len(t, history, 3)
	assert.Equal(t, []string{"add(1, 1) = 2", "add(2, 2) = 4", "add(3, 3) = 6"}, history)
}

func TestMemento_SnapshotsDoNotAliasLiveHistory(t *testing.T) {
	c := newTestCalculator(t)
	mustPerform(t, c, operation.Add{}, "1", "1")
	require.True(t, c.Undo())

	// Mutating the slice returned by History must not leak into the
	// memento that redo will restore.
	leaked := c.History()
	require.Empty(t, leaked)

	require.True(t, c.Redo())
	require.Len(t, c.History(), 1)
	assert.Equal(t, "add(1, 1) = 2", c.History()[0].String())
}

func TestClearHistory(t *testing.T) {
	c := newTestCalculator(t)
	mustPerform(t, c, operation.Add{}, "2", "3")
	require.True(t, c.Undo())
	mustPerform(t, c, operation.Add{}, "4", "4")

	c.ClearHistory()

	assert.Empty(t, c.History())
	assert.Equal(t, 0, c.UndoDepth())
	assert.Equal(t, 0, c.RedoDepth())
	assert.False(t, c.Undo())
	assert.False(t, c.Redo())
}

func TestSaveLoad_RoundTripThroughStore(t *testing.T) {
	store := &memStore{}
	c := New(Config{}, store, quietLogger(t))
	mustPerform(t, c, operation.Add{}, "2", "3")
	mustPerform(t, c, operation.Divide{}, "10", "4")
	require.NoError(t, c.SaveHistory())

	// A fresh engine on the same store reproduces an equivalent history.
	fresh := New(Config{}, store, quietLogger(t))
	require.Len(t, fresh.History(), 2)
	for i, entry := range c.History() {
		assert.True(t, entry.Equal(fresh.History()[i]))
	}
}

func TestLoadHistory_FailureLeavesHistoryUntouched(t *testing.T) {
	store := &memStore{}
	c := New(Config{}, store, quietLogger(t))
	mustPerform(t, c, operation.Add{}, "2", "3")

	store.loadErr = errors.New("corrupt table")
	err := c.LoadHistory()
	require.Error(t, err)
	assert.True(t, errs.IsOperation(err))
	assert.Len(t, c.History(), 1, "failed load must not clobber the in-memory history")
}

func TestSaveHistory_FailureIsOperationError(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	c := New(Config{}, store, quietLogger(t))
	mustPerform(t, c, operation.Add{}, "2", "3")

	err := c.SaveHistory()
	require.Error(t, err)
	assert.True(t, errs.IsOperation(err))
	assert.ErrorContains(t, err, "disk full")
}

func TestNew_LoadFailureIsBestEffort(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt table")}

	// Construction logs a warning and starts empty instead of failing.
	c := New(Config{}, store, quietLogger(t))
	assert.Empty(t, c.History())
}

func TestMementoStack_EvictsOldestAtCap(t *testing.T) {
	c := New(Config{MaxHistorySize: 2}, nil, quietLogger(t))
	mustPerform(t, c, operation.Add{}, "1", "1")
	mustPerform(t, c, operation.Add{}, "2", "2")
	mustPerform(t, c, operation.Add{}, "3", "3")

	assert.Equal(t, 2, c.UndoDepth(), "stack should stay at its cap")
	assert.Len(t, c.History(), 3)
}
