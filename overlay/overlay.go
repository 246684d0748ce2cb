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

// Package overlay provides registries of ad hoc SingletonRules that sit
// above a Factory's normal rule sources: process-global values set once at
// startup, and scoped values layered in for the lifetime of a request or a
// goroutine. A Registry's Rules method is what Builder.WithOverlayRules
// takes, and the Builder calls it on every Build, so an entry set before a
// rebuild is picked up. The Builder does not look for a Registry attached
// to a context; FromContext only hands it back to the caller.
//
// The concurrency model mirrors the teacher's component registry
// (engine/registry.go in the source tree this was built from): a
// sync.RWMutex guarding a plain map, sized for frequent reads and rare
// writes.
package overlay

import (
	"context"
	"sync"

	"github.com/wireway/factory/types"
)

// Registry holds a flat set of overlay entries, each a Name bound to a
// value with a Priority high enough to win over a Factory's normal rule
// sources (the default Priority used here is -1000; smaller wins).
type Registry struct {
	mu      sync.RWMutex
	entries map[types.Name]entry
}

type entry struct {
	value    any
	priority int
}

// DefaultOverlayPriority is low enough (priority: smaller wins) to beat
// any ordinarily-registered Rule without requiring every overlay caller to
// pick a number.
const DefaultOverlayPriority = -1000

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: map[types.Name]entry{}}
}

// Set installs value under name at DefaultOverlayPriority, replacing
// whatever was there before.
func (r *Registry) Set(name types.Name, value any) {
	r.SetPriority(name, value, DefaultOverlayPriority)
}

// SetPriority installs value under name at an explicit priority.
func (r *Registry) SetPriority(name types.Name, value any, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{value: value, priority: priority}
}

// Unset removes name from the overlay, if present.
func (r *Registry) Unset(name types.Name) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Rules renders the current contents of the Registry as SingletonRules,
// suitable for Builder.WithOverlayRules. Call this fresh on every rebuild;
// it is a snapshot, not a live view.
func (r *Registry) Rules() []types.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Rule, 0, len(r.entries))
	for name, e := range r.entries {
		out = append(out, types.NewSingletonRule(name, e.value, e.priority))
	}
	return out
}

// contextKey scopes a Registry to a context.Context, for request- or
// call-scoped overlays layered on top of the process-global one.
type contextKey struct{}

// WithContext returns a context carrying r, retrievable with FromContext.
func WithContext(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the Registry attached to ctx, if any.
func FromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(contextKey{}).(*Registry)
	return r, ok
}
