// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package operation defines the arithmetic operations the calculator can
// perform and the registry that maps identifiers to them.
//
// Each operation carries its own precondition check, because error
// conditions (zero divisor, negative root, negative exponent) are
// operation-specific. Execute always runs Validate first, so an operation
// obtained from the registry can be executed directly.
//
// Preconditions fail with *errs.ValidationError; unexpected execution
// faults (non-finite float intermediates in power/root) surface as plain
// errors for the engine to wrap.
package operation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/reckonhq/reckon/pkg/errs"
)

// Operation is a named arithmetic transform over two decimal operands.
type Operation interface {
	// Name returns the canonical identifier, e.g. "add".
	Name() string

	// Validate checks operation-specific preconditions. It returns
	// *errs.ValidationError when a precondition fails, nil otherwise.
	Validate(a, b decimal.Decimal) error

	// Execute validates the operands and computes the result.
	Execute(a, b decimal.Decimal) (decimal.Decimal, error)
}

var hundred = decimal.NewFromInt(100)

// Add computes a + b.
type Add struct{}

func (Add) Name() string { return "add" }
func (Add) Validate(a, b decimal.Decimal) error { return nil }
func (op Add) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Add(b), nil
}

// Subtract computes a - b.
type Subtract struct{}

func (Subtract) Name() string { return "subtract" }
func (Subtract) Validate(a, b decimal.Decimal) error { return nil }
func (op Subtract) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Sub(b), nil
}

// Multiply computes a * b.
type Multiply struct{}

func (Multiply) Name() string { return "multiply" }
func (Multiply) Validate(a, b decimal.Decimal) error { return nil }
func (op Multiply) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Mul(b), nil
}

// Divide computes the decimal-precision quotient a / b.
type Divide struct{}

func (Divide) Name() string { return "divide" }

func (Divide) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return errs.Validationf("division by zero is not allowed")
	}
	return nil
}

func (op Divide) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Div(b), nil
}

// Power computes a raised to b. Exponents must be non-negative; the
// computation goes through float64 so fractional exponents work.
type Power struct{}

func (Power) Name() string { return "power" }

func (Power) Validate(a, b decimal.Decimal) error {
	if b.IsNegative() {
		return errs.Validationf("negative exponents are not supported")
	}
	return nil
}

func (op Power) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return fromFloat(math.Pow(a.InexactFloat64(), b.InexactFloat64()))
}

// Root computes the b-th root of a via float64 math.
type Root struct{}

func (Root) Name() string { return "root" }

func (Root) Validate(a, b decimal.Decimal) error {
	if a.IsNegative() {
		return errs.Validationf("cannot calculate root of a negative number")
	}
	if b.IsZero() {
		return errs.Validationf("zero root is undefined")
	}
	return nil
}

func (op Root) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return fromFloat(math.Pow(a.InexactFloat64(), 1/b.InexactFloat64()))
}

// Modulus computes a mod b.
type Modulus struct{}

func (Modulus) Name() string { return "modulus" }

func (Modulus) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return errs.Validationf("modulus by zero is not allowed")
	}
	return nil
}

func (op Modulus) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Mod(b), nil
}

// IntegerDivide computes floor(a) / floor(b), floored to an integral result.
// Because both operands are floored before dividing, the divisor's floor
// must be non-zero as well (0 < b < 1 floors to zero).
type IntegerDivide struct{}

func (IntegerDivide) Name() string { return "integer-divide" }

func (IntegerDivide) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return errs.Validationf("integer division by zero is not allowed")
	}
	if b.Floor().IsZero() {
		return errs.Validationf("integer division by a divisor that floors to zero")
	}
	return nil
}

func (op IntegerDivide) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Floor().Div(b.Floor()).Floor(), nil
}

// Percentage computes (a / b) * 100.
type Percentage struct{}

func (Percentage) Name() string { return "percentage" }

func (Percentage) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return errs.Validationf("cannot calculate percentage with a zero denominator")
	}
	return nil
}

func (op Percentage) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Div(b).Mul(hundred), nil
}

// AbsoluteDifference computes |a - b|.
type AbsoluteDifference struct{}

func (AbsoluteDifference) Name() string { return "absolute-difference" }
func (AbsoluteDifference) Validate(a, b decimal.Decimal) error { return nil }
func (op AbsoluteDifference) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Sub(b).Abs(), nil
}

// fromFloat converts a float64 intermediate back to decimal, rejecting
// non-finite values before decimal.NewFromFloat can panic on them.
func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("result is not a finite number")
	}
	return decimal.NewFromFloat(f), nil
}
