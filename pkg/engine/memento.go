// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// memento is an immutable snapshot of the history list at a point in time.
// Entry is a value type, so copying the slice is a deep copy: a memento
// never aliases the live history list.
type memento struct {
	entries []Entry
}

// snapshot copies the given history into a new memento.
func snapshot(entries []Entry) memento {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return memento{entries: copied}
}

// restore returns a fresh copy of the snapshot's contents, so the restored
// history does not alias the memento either.
func (m memento) restore() []Entry {
	copied := make([]Entry, len(m.entries))
	copy(copied, m.entries)
	return copied
}

// mementoStack is a bounded LIFO of mementos. When the cap is exceeded the
// oldest snapshot is evicted, the same policy as any bounded undo buffer.
type mementoStack struct {
	items []memento
	max   int
}

func newMementoStack(max int) *mementoStack {
	if max <= 0 {
		max = defaultMaxHistorySize
	}
	return &mementoStack{items: make([]memento, 0, max), max: max}
}

func (s *mementoStack) push(m memento) {
	if len(s.items) >= s.max {
		s.items = s.items[1:]
	}
	s.items = append(s.items, m)
}

// pop removes and returns the most recent memento. The second return is
// false when the stack is empty.
func (s *mementoStack) pop() (memento, bool) {
	if len(s.items) == 0 {
		return memento{}, false
	}
	m := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return m, true
}

func (s *mementoStack) clear() {
	s.items = s.items[:0]
}

func (s *mementoStack) len() int {
	return len(s.items)
}
