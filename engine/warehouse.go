/*
 * Copyright 2024 The Factory Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package engine implements the factory runtime proper: the Warehouse that
// memoizes built components, the graph construction and topological build
// order that turn a requested Name into a fully satisfied tree of Engines,
// and the Builder that runs the fixed-point bootstrap over a set of rule
// sources. It is one package, the way the teacher keeps its registry,
// chain construction and chain execution together in its own engine
// package - these pieces are coupled tightly enough that splitting them
// across packages would only add import-cycle plumbing.
package engine

import (
	"sync"
	"time"

	"github.com/wireway/factory/types"
)

// warehouseEntry is what the Warehouse keeps per checked-in Name: the Box
// itself (stable, per the memoization invariant) plus the SatisfiedBOM it
// was built from and how long construction took, both kept for Dump.
type warehouseEntry struct {
	box       types.Box
	satisfied *types.SatisfiedBOM
	built     time.Duration
}

// Warehouse is the Factory's memoization table: once a Name is checked in,
// every subsequent CheckOut for that Name returns a component derived from
// the same Box, never re-running Construct.
type Warehouse struct {
	mu      sync.RWMutex
	entries map[types.Name]warehouseEntry
	order   []types.Name
}

// NewWarehouse returns an empty Warehouse.
func NewWarehouse() *Warehouse {
	return &Warehouse{entries: make(map[types.Name]warehouseEntry)}
}

// CheckOut picks a component out of the Box checked in for name, if any.
func (w *Warehouse) CheckOut(name types.Name) (types.NamedComponent, bool) {
	w.mu.RLock()
	e, ok := w.entries[name]
	w.mu.RUnlock()
	if !ok {
		return types.NamedComponent{}, false
	}
	return e.box.Pick()
}

// Contains reports whether name has already been checked in, without
// picking a component out of it.
func (w *Warehouse) Contains(name types.Name) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.entries[name]
	return ok
}

// CheckIn stores box under name along with the SatisfiedBOM it was built
// from and how long Construct took, and records its position in check-in
// order so CheckedInOrder can report it. The first CheckIn of a Name wins:
// a later CheckIn of a Name already present (two builds of the same Name
// racing each other) is ignored, so a checked-in Box never changes.
func (w *Warehouse) CheckIn(name types.Name, box types.Box, satisfied *types.SatisfiedBOM, built time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entries[name]; ok {
		return
	}
	w.order = append(w.order, name)
	w.entries[name] = warehouseEntry{box: box, satisfied: satisfied, built: built}
}

// Names returns every Name currently checked in, in no particular order.
func (w *Warehouse) Names() []types.Name {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]types.Name, 0, len(w.entries))
	for n := range w.entries {
		out = append(out, n)
	}
	return out
}

// CheckedInOrder returns every checked-in Name in the order it was first
// checked in - leaves first, since the resolution engine only checks a
// Name in once its dependencies are already checked in. Close walks this
// slice in reverse so a component is always closed before the components
// it depends on.
func (w *Warehouse) CheckedInOrder() []types.Name {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]types.Name, len(w.order))
	copy(out, w.order)
	return out
}

// satisfiedBOMFor returns the SatisfiedBOM a Name was built from, for
// Dump.
func (w *Warehouse) satisfiedBOMFor(name types.Name) (*types.SatisfiedBOM, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entries[name]
	if !ok {
		return nil, false
	}
	return e.satisfied, true
}

// buildDurationFor returns how long Construct took to build name, for
// Dump.
func (w *Warehouse) buildDurationFor(name types.Name) (time.Duration, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entries[name]
	if !ok {
		return 0, false
	}
	return e.built, true
}
