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

// Package metrics implements types.MetricsSink. NopSink and InMemorySink
// need nothing beyond the standard library; PrometheusSink (in
// prometheus.go) registers a pair of HistogramVecs, one for <BUILD> and
// one for <CUSTOMIZE> timings.
package metrics

import (
	"sync"
	"time"

	"github.com/wireway/factory/types"
)

// NopSink discards every observation, like the unexported no-op sink
// types.NewConfig installs by default.
type NopSink struct{}

func (NopSink) ObserveBuild(types.Name, time.Duration)             {}
func (NopSink) ObserveCustomize(types.Name, string, time.Duration) {}

// BuildSample is one recorded <BUILD> observation.
type BuildSample struct {
	Name     types.Name
	Duration time.Duration
}

// CustomizeSample is one recorded <CUSTOMIZE> observation.
type CustomizeSample struct {
	Name     types.Name
	Label    string
	Duration time.Duration
}

// InMemorySink accumulates every observation in process memory. Useful in
// tests and for a debug endpoint that dumps recent build timings without
// standing up Prometheus.
type InMemorySink struct {
	mu          sync.Mutex
	builds      []BuildSample
	customizers []CustomizeSample
}

// NewInMemorySink returns an empty InMemorySink.
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) ObserveBuild(name types.Name, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds = append(s.builds, BuildSample{Name: name, Duration: d})
}

func (s *InMemorySink) ObserveCustomize(name types.Name, label string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customizers = append(s.customizers, CustomizeSample{Name: name, Label: label, Duration: d})
}

// Builds returns a copy of every <BUILD> observation recorded so far.
func (s *InMemorySink) Builds() []BuildSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BuildSample, len(s.builds))
	copy(out, s.builds)
	return out
}

// Customizations returns a copy of every <CUSTOMIZE> observation recorded
// so far.
func (s *InMemorySink) Customizations() []CustomizeSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CustomizeSample, len(s.customizers))
	copy(out, s.customizers)
	return out
}
