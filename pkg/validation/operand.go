// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation parses and validates raw numeric input before it
// reaches an operation.
//
// Operands are arbitrary-precision decimals (github.com/shopspring/decimal),
// never float64, so "0.1" round-trips exactly through history persistence.
// Validation is pure: the only configuration is the magnitude ceiling.
package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/reckonhq/reckon/pkg/errs"
)

// ParseOperand converts raw user input into a validated decimal operand.
//
// Accepts integers ("3"), floating values ("2.5", "-0.75") and scientific
// notation ("1e10"). Leading and trailing whitespace is tolerated.
//
// Fails with *errs.ValidationError when:
//   - the input is empty or whitespace-only
//   - the input cannot be parsed as a number
//   - the absolute magnitude exceeds max (when max is positive)
//
// A zero or negative max disables the magnitude check.
func ParseOperand(raw string, max decimal.Decimal) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, errs.Validationf("operand must not be empty")
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, errs.Validationf("invalid number format: %q", trimmed)
	}

	if max.IsPositive() && value.Abs().GreaterThan(max) {
		return decimal.Zero, errs.Validationf("value exceeds maximum allowed: %s", max)
	}

	return value, nil
}
