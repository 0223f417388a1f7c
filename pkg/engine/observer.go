// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"github.com/reckonhq/reckon/pkg/logging"
)

// Observer receives a notification after each successful calculation.
//
// Observers are notified synchronously, in registration order, after the
// entry has been appended to the in-memory history but before Perform
// returns. An error from Update propagates to the Perform caller; the
// engine does not swallow listener failures.
type Observer interface {
	Update(entry Entry) error
}

// LoggingObserver records every calculation through the injected logger.
type LoggingObserver struct {
	log *logging.Logger
}

// NewLoggingObserver creates an observer that logs each entry.
func NewLoggingObserver(log *logging.Logger) *LoggingObserver {
	if log == nil {
		log = logging.Default()
	}
	return &LoggingObserver{log: log}
}

// Update logs the completed calculation.
func (o *LoggingObserver) Update(entry Entry) error {
	o.log.Info("calculation performed",
		"operation", entry.Operation,
		"operand1", entry.Operand1.String(),
		"operand2", entry.Operand2.String(),
		"result", entry.Result.String(),
	)
	return nil
}

// AutoSaveObserver persists the full history after every calculation.
type AutoSaveObserver struct {
	calc *Calculator
}

// NewAutoSaveObserver creates an observer that saves the calculator's
// history on each update.
func NewAutoSaveObserver(calc *Calculator) *AutoSaveObserver {
	return &AutoSaveObserver{calc: calc}
}

// Update triggers a save of the entire history. A storage failure here
// surfaces to the Perform caller.
func (o *AutoSaveObserver) Update(Entry) error {
	return o.calc.SaveHistory()
}
