// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine orchestrates the calculator: operand validation, operation
// execution, the append-only history list, the memento-based undo/redo
// stacks, and observer notification.
//
// The engine is single-threaded by design. One Calculator instance owns its
// history and stacks exclusively; there is no locking discipline because no
// concurrent mutation is supported. A caller wrapping the engine in a
// service must guard the whole perform/undo/redo/clear/save/load sequence
// behind a single mutual-exclusion boundary.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is an immutable record of one completed calculation. Entries are
// created only by the engine on successful execution and never mutated.
type Entry struct {
	Operation string
	Operand1  decimal.Decimal
	Operand2  decimal.Decimal
	Result    decimal.Decimal
	Timestamp time.Time
}

// String renders the entry in the canonical "name(op1, op2) = result" form
// used by history listings.
func (e Entry) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", e.Operation, e.Operand1, e.Operand2, e.Result)
}

// Equal reports whether two entries describe the same calculation. Decimal
// fields compare by numeric value, timestamps by instant.
func (e Entry) Equal(other Entry) bool {
	return e.Operation == other.Operation &&
		e.Operand1.Equal(other.Operand1) &&
		e.Operand2.Equal(other.Operand2) &&
		e.Result.Equal(other.Result) &&
		e.Timestamp.Equal(other.Timestamp)
}
