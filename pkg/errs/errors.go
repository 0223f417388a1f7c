// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package errs defines the error taxonomy shared by the calculator engine
// and its collaborators.
//
// Three failure classes exist, and callers are expected to distinguish them:
//
//   - ValidationError: an operand or an operation precondition is invalid
//     (bad parse, magnitude too large, zero divisor, negative root). Always
//     recoverable by retrying with corrected input.
//   - OperationError: an operation-level failure not attributable to operand
//     validity (no operation selected, unexpected execution fault, storage
//     failure). Wraps the underlying cause when there is one.
//   - UnknownOperationError: the registry has no behavior for the requested
//     identifier. Surfaced before any validation occurs.
//
// The engine never swallows a ValidationError; it always surfaces unchanged
// so callers can tell "bad input" apart from "internal failure".
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid operands or failed operation preconditions.
type ValidationError struct {
	Reason string
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// OperationError reports operation-level failures: no operation selected,
// unexpected execution faults, or storage failures during save/load.
type OperationError struct {
	Reason string
	Err    error // underlying cause, may be nil
}

// Operationf builds an OperationError with no underlying cause.
func Operationf(format string, args ...any) *OperationError {
	return &OperationError{Reason: fmt.Sprintf(format, args...)}
}

// WrapOperation builds an OperationError that preserves the cause for
// errors.Is / errors.As inspection.
func WrapOperation(reason string, err error) *OperationError {
	return &OperationError{Reason: reason, Err: err}
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap exposes the underlying cause, if any.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// UnknownOperationError reports a registry lookup for an identifier that was
// never registered.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %q", e.Name)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsOperation reports whether err is (or wraps) an OperationError.
func IsOperation(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}

// IsUnknownOperation reports whether err is (or wraps) an UnknownOperationError.
func IsUnknownOperation(err error) bool {
	var ue *UnknownOperationError
	return errors.As(err, &ue)
}
