// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/reckonhq/reckon/pkg/errs"
	"github.com/reckonhq/reckon/pkg/logging"
	"github.com/reckonhq/reckon/pkg/operation"
	"github.com/reckonhq/reckon/pkg/validation"
)

// defaultMaxHistorySize bounds the undo/redo stacks when the caller does
// not configure a limit.
const defaultMaxHistorySize = 1000

// timeNow is swapped out by tests that need deterministic timestamps.
var timeNow = time.Now

// HistoryStore is the persistence contract the engine depends on. The
// concrete tabular encoding lives in pkg/storage.
type HistoryStore interface {
	// Save persists the full history, writing a well-formed (possibly
	// header-only) table even when entries is empty.
	Save(entries []Entry) error

	// Load reads the persisted history in chronological order. A missing
	// file is not an error: it returns (nil, nil), meaning "start empty".
	Load() ([]Entry, error)
}

// Config carries the engine's own knobs. The CLI builds it from the
// validated application configuration.
type Config struct {
	// MaxInputValue caps operand magnitude. Zero disables the check.
	MaxInputValue decimal.Decimal

	// MaxHistorySize bounds the undo and redo stacks. Zero or negative
	// falls back to defaultMaxHistorySize.
	MaxHistorySize int
}

// Calculator orchestrates validation, execution, history, undo/redo and
// observer notification. One instance owns its state exclusively; see the
// package comment for the concurrency model.
type Calculator struct {
	cfg   Config
	store HistoryStore
	log   *logging.Logger

	history   []Entry
	current   operation.Operation
	observers []Observer

	undoStack *mementoStack
	redoStack *mementoStack
}

// New creates a Calculator. store may be nil, which disables persistence
// (SaveHistory and LoadHistory become no-ops); log may be nil, which falls
// back to the default stderr logger.
//
// When a store is present, any existing history is loaded best-effort: a
// load failure is logged as a warning and the calculator starts empty
// rather than refusing to start.
func New(cfg Config, store HistoryStore, log *logging.Logger) *Calculator {
	if log == nil {
		log = logging.Default()
	}
	c := &Calculator{
		cfg:       cfg,
		store:     store,
		log:       log,
		undoStack: newMementoStack(cfg.MaxHistorySize),
		redoStack: newMementoStack(cfg.MaxHistorySize),
	}

	if store != nil {
		if err := c.LoadHistory(); err != nil {
			log.Warn("could not load existing history", "error", err.Error())
		}
	}
	log.Info("calculator initialized", "loaded_entries", len(c.history))
	return c
}

// SetOperation selects the operation for subsequent Perform calls. The
// operation is trusted registry output and is not re-validated here.
func (c *Calculator) SetOperation(op operation.Operation) {
	c.current = op
	c.log.Info("operation set", "operation", op.Name())
}

// Perform validates both operands, executes the selected operation, records
// the result and notifies observers.
//
// Error policy:
//   - no operation selected: *errs.OperationError
//   - invalid operand or failed precondition: the *errs.ValidationError
//     surfaces unchanged
//   - any other execution fault: wrapped into *errs.OperationError with the
//     cause preserved
//   - an observer failure propagates unwrapped; by then the entry is
//     already appended and the undo snapshot taken
func (c *Calculator) Perform(aRaw, bRaw string) (decimal.Decimal, error) {
	if c.current == nil {
		return decimal.Zero, errs.Operationf("no operation set")
	}

	a, err := validation.ParseOperand(aRaw, c.cfg.MaxInputValue)
	if err != nil {
		c.log.Error("operand validation failed", "operand", "first", "error", err.Error())
		return decimal.Zero, err
	}
	b, err := validation.ParseOperand(bRaw, c.cfg.MaxInputValue)
	if err != nil {
		c.log.Error("operand validation failed", "operand", "second", "error", err.Error())
		return decimal.Zero, err
	}

	result, err := c.current.Execute(a, b)
	if err != nil {
		c.log.Error("operation failed", "operation", c.current.Name(), "error", err.Error())
		if errs.IsValidation(err) {
			return decimal.Zero, err
		}
		return decimal.Zero, errs.WrapOperation("operation failed", err)
	}

	entry := Entry{
		Operation: c.current.Name(),
		Operand1:  a,
		Operand2:  b,
		Result:    result,
		Timestamp: timeNow(),
	}

	// The undo snapshot captures the history as it was before this
	// calculation; a new calculation invalidates any redo branch.
	c.undoStack.push(snapshot(c.history))
	c.redoStack.clear()
	c.history = append(c.history, entry)

	if err := c.notifyObservers(entry); err != nil {
		c.log.Error("observer notification failed", "error", err.Error())
		return decimal.Zero, err
	}

	c.log.Info("calculation recorded",
		"operation", entry.Operation,
		"result", result.String(),
		"history_len", len(c.history),
	)
	return result, nil
}

// Undo rolls the history back to the state before the most recent
// calculation. Returns false when there is nothing to undo; an empty undo
// stack is a normal outcome, not an error.
func (c *Calculator) Undo() bool {
	m, ok := c.undoStack.pop()
	if !ok {
		return false
	}
	c.redoStack.push(snapshot(c.history))
	c.history = m.restore()
	c.log.Info("operation undone", "history_len", len(c.history))
	return true
}

// Redo restores the most recently undone state. Returns false when there is
// nothing to redo.
func (c *Calculator) Redo() bool {
	m, ok := c.redoStack.pop()
	if !ok {
		return false
	}
	c.undoStack.push(snapshot(c.history))
	c.history = m.restore()
	c.log.Info("operation redone", "history_len", len(c.history))
	return true
}

// ClearHistory empties the history list and both stacks. Clearing history
// invalidates every rollback point; there is nothing meaningful left to
// undo back to.
func (c *Calculator) ClearHistory() {
	c.history = nil
	c.undoStack.clear()
	c.redoStack.clear()
	c.log.Info("history cleared")
}

// SaveHistory persists the entire history through the store. Storage
// failures are wrapped into *errs.OperationError.
func (c *Calculator) SaveHistory() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(c.History()); err != nil {
		c.log.Error("failed to save history", "error", err.Error())
		return errs.WrapOperation("failed to save history", err)
	}
	c.log.Info("history saved", "entries", len(c.history))
	return nil
}

// LoadHistory replaces the in-memory history wholesale with the persisted
// one. On failure the current history is left untouched and an
// *errs.OperationError is returned. A missing file loads as empty.
func (c *Calculator) LoadHistory() error {
	if c.store == nil {
		return nil
	}
	entries, err := c.store.Load()
	if err != nil {
		c.log.Error("failed to load history", "error", err.Error())
		return errs.WrapOperation("failed to load history", err)
	}
	c.history = entries
	c.log.Info("history loaded", "entries", len(c.history))
	return nil
}

// AddObserver registers an observer for post-calculation notifications. The
// engine holds a non-owning reference.
func (c *Calculator) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
	c.log.Info("observer added")
}

// RemoveObserver unregisters an observer. Removing an observer that was
// never added is a no-op.
func (c *Calculator) RemoveObserver(o Observer) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			c.log.Info("observer removed")
			return
		}
	}
}

// notifyObservers notifies a snapshot of the observer set, so observers may
// add or remove observers during Update without affecting this round.
func (c *Calculator) notifyObservers(entry Entry) error {
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	for _, o := range observers {
		if err := o.Update(entry); err != nil {
			return err
		}
	}
	return nil
}

// History returns a copy of the history list.
func (c *Calculator) History() []Entry {
	entries := make([]Entry, len(c.history))
	copy(entries, c.history)
	return entries
}

// ShowHistory returns the history formatted one line per calculation.
func (c *Calculator) ShowHistory() []string {
	lines := make([]string, len(c.history))
	for i, entry := range c.history {
		lines[i] = entry.String()
	}
	return lines
}

// UndoDepth and RedoDepth expose stack sizes for the REPL status output.
func (c *Calculator) UndoDepth() int { return c.undoStack.len() }
func (c *Calculator) RedoDepth() int { return c.redoStack.len() }
