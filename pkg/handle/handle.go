// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package handle hands out opaque integer handles for Go values that are
// referenced from outside Go. A handle is never reused: each slot carries a
// generation that changes when its value is taken out, so stale handles
// are detected rather than aliasing a newer value.
package handle

import (
	"sync"
)

// Handle is zero for "no value".
type Handle uint64

func (h Handle) slot() uint32       { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

func makeHandle(slot, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(slot))
}

type entry[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Table is safe for concurrent use.
type Table[T any] struct {
	mu      sync.Mutex
	entries []entry[T]
	free    []uint32
}

// Insert stores value and returns a new, non-zero handle for it.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var slot uint32

	if n := len(t.free); n > 0 {
		slot = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		// Slot 0 stays unused so the zero handle is never valid
		if len(t.entries) == 0 {
			t.entries = append(t.entries, entry[T]{})
		}

		slot = uint32(len(t.entries))
		t.entries = append(t.entries, entry[T]{})
	}

	e := &t.entries[slot]
	e.generation++
	e.value = value
	e.live = true

	return makeHandle(slot, e.generation)
}

func (t *Table[T]) lookup(h Handle) *entry[T] {
	slot := h.slot()

	if slot == 0 || int(slot) >= len(t.entries) {
		return nil
	}

	e := &t.entries[slot]
	if !e.live || e.generation != h.generation() {
		return nil
	}

	return e
}

// Get returns the value behind h, or false if h is unknown or was taken.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e := t.lookup(h); e != nil {
		return e.value, true
	}

	var zero T
	return zero, false
}

// Take removes the value behind h and invalidates h.
func (t *Table[T]) Take(h Handle) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T

	e := t.lookup(h)
	if e == nil {
		return zero, false
	}

	value := e.value
	e.value = zero
	e.live = false
	t.free = append(t.free, h.slot())

	return value, true
}

// Len is the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, e := range t.entries {
		if e.live {
			n++
		}
	}

	return n
}
