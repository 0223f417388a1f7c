// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package operation

import (
	"errors"
	"sort"
	"strings"

	"github.com/reckonhq/reckon/pkg/errs"
)

// Factory instantiates an operation behavior. The registry stores factories
// rather than instances so each Create call hands out a fresh value.
type Factory func() Operation

// ErrNilFactory is returned by Register when the factory is nil or produces
// a nil operation.
var ErrNilFactory = errors.New("operation factory must produce a non-nil operation")

// Registry maps case-insensitive identifiers to operation factories.
//
// The registry is seeded with the ten built-in operations at construction
// and permits runtime extension through Register. It is designed for
// single-session use alongside the engine and defines no locking discipline.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry seeded with the built-in operations.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	builtins := []Operation{
		Add{},
		Subtract{},
		Multiply{},
		Divide{},
		Power{},
		Root{},
		Modulus{},
		IntegerDivide{},
		Percentage{},
		AbsoluteDifference{},
	}
	for _, op := range builtins {
		op := op
		// Seeding cannot fail: every built-in factory returns a value.
		_ = r.Register(op.Name(), func() Operation { return op })
	}
	return r
}

// Register associates an identifier with an operation factory.
//
// Registering an identifier that already exists silently overwrites the
// previous factory (last write wins); this is what permits runtime
// extension. A nil factory, or one that produces nil, is rejected with
// ErrNilFactory.
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil || factory() == nil {
		return ErrNilFactory
	}
	r.factories[strings.ToLower(name)] = factory
	return nil
}

// Create looks up the identifier case-insensitively and instantiates the
// operation. Unregistered identifiers fail with *errs.UnknownOperationError.
func (r *Registry) Create(name string) (Operation, error) {
	factory, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, &errs.UnknownOperationError{Name: name}
	}
	return factory(), nil
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
