// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package operation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reckonhq/reckon/pkg/errs"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExecute_ExactResults(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		a, b string
		want string
	}{
		{"add integers", Add{}, "2", "3", "5"},
		{"add decimals", Add{}, "0.1", "0.2", "0.3"},
		{"subtract", Subtract{}, "10", "4", "6"},
		{"subtract negative result", Subtract{}, "4", "10", "-6"},
		{"multiply", Multiply{}, "6", "7", "42"},
		{"multiply decimals", Multiply{}, "2.5", "4", "10"},
		{"divide even", Divide{}, "10", "4", "2.5"},
		{"divide negative", Divide{}, "-9", "3", "-3"},
		{"modulus", Modulus{}, "7", "3", "1"},
		{"modulus even", Modulus{}, "9", "3", "0"},
		{"integer divide", IntegerDivide{}, "7", "2", "3"},
		{"integer divide floors operands", IntegerDivide{}, "7.9", "2.5", "3"},
		{"integer divide floors result", IntegerDivide{}, "-7", "2", "-4"},
		{"percentage", Percentage{}, "50", "200", "25"},
		{"percentage over 100", Percentage{}, "300", "200", "150"},
		{"absolute difference", AbsoluteDifference{}, "3", "10", "7"},
		{"absolute difference zero", AbsoluteDifference{}, "5", "5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Execute(dec(tt.a), dec(tt.b))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)),
				"%s.Execute(%s, %s) = %s, want %s", tt.op.Name(), tt.a, tt.b, got, tt.want)
		})
	}
}

func TestExecute_FloatBackedResults(t *testing.T) {
	// power and root go through float64, so compare within tolerance.
	tests := []struct {
		name string
		op   Operation
		a, b string
		want float64
	}{
		{"power integer exponent", Power{}, "2", "10", 1024},
		{"power zero exponent", Power{}, "9", "0", 1},
		{"power fractional exponent", Power{}, "4", "0.5", 2},
		{"square root", Root{}, "9", "2", 3},
		{"cube root", Root{}, "27", "3", 3},
		{"root of one", Root{}, "1", "5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Execute(dec(tt.a), dec(tt.b))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.InexactFloat64(), 1e-9)
		})
	}
}

func TestValidate_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		a, b string
	}{
		{"divide by zero", Divide{}, "1", "0"},
		{"modulus by zero", Modulus{}, "1", "0"},
		{"integer divide by zero", IntegerDivide{}, "1", "0"},
		{"integer divide by sub-unit divisor", IntegerDivide{}, "1", "0.5"},
		{"percentage zero denominator", Percentage{}, "1", "0"},
		{"negative exponent", Power{}, "2", "-1"},
		{"root of negative", Root{}, "-9", "2"},
		{"zero root", Root{}, "9", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := dec(tt.a), dec(tt.b)

			err := tt.op.Validate(a, b)
			require.Error(t, err, "Validate should reject the operands")
			assert.True(t, errs.IsValidation(err), "precondition failures must be ValidationErrors")

			// Execute runs the same validation before computing.
			_, err = tt.op.Execute(a, b)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
		})
	}
}

func TestExecute_NeverFailsAfterValidate(t *testing.T) {
	// For operands that pass Validate, Execute must succeed.
	ops := []Operation{
		Add{}, Subtract{}, Multiply{}, Divide{}, Power{},
		Root{}, Modulus{}, IntegerDivide{}, Percentage{}, AbsoluteDifference{},
	}
	pairs := [][2]string{
		{"2", "3"}, {"10", "4"}, {"0", "5"}, {"1.5", "2.5"}, {"100", "7"},
	}

	for _, op := range ops {
		for _, pair := range pairs {
			a, b := dec(pair[0]), dec(pair[1])
			if op.Validate(a, b) != nil {
				continue
			}
			_, err := op.Execute(a, b)
			assert.NoError(t, err, "%s.Execute(%s, %s)", op.Name(), pair[0], pair[1])
		}
	}
}
