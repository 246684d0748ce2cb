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

// Package scheduler periodically reruns a Builder and swaps in the result,
// so a long-lived process can pick up new rule-source announcements
// (an mqttrule.Source, a config file a deploy pipeline rewrites) without a
// restart. It never hot-reloads a live Factory in place - every tick
// produces a brand new one, which is handed to callers through Current;
// existing holders of an older Factory keep using it until they fetch the
// new one.
package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/gofrs/uuid/v5"
	"github.com/robfig/cron/v3"
	"github.com/wireway/factory/engine"
	"github.com/wireway/factory/types"
)

// Rebuilder periodically calls a Builder.Build and publishes the result.
type Rebuilder struct {
	build   func(context.Context) (*engine.Factory, error)
	logger  types.Logger
	current atomic.Pointer[engine.Factory]
	cron    *cron.Cron
	spec    string
}

// New returns a Rebuilder that will run build on the given cron spec once
// Start is called. build is typically (*engine.Builder).Build bound to a
// configured Builder.
func New(spec string, build func(context.Context) (*engine.Factory, error), logger types.Logger) *Rebuilder {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Rebuilder{build: build, logger: logger, spec: spec, cron: cron.New()}
}

// Current returns the most recently built Factory, or nil if Start has not
// yet completed its first build.
func (r *Rebuilder) Current() *engine.Factory {
	return r.current.Load()
}

// Start performs an initial build synchronously (so Current is non-nil the
// moment Start returns) and then schedules rebuilds on the configured
// cron spec. Satisfies types.AutoStartable.
func (r *Rebuilder) Start() error {
	if err := r.rebuildOnce(); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(r.spec, func() {
		if err := r.rebuildOnce(); err != nil {
			r.logger.Errorf("scheduler: rebuild failed: %v", err)
		}
	}); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Close stops the cron scheduler and waits for any in-flight rebuild to
// finish. Satisfies types.Closer.
func (r *Rebuilder) Close() error {
	<-r.cron.Stop().Done()
	return nil
}

func (r *Rebuilder) rebuildOnce() error {
	runID, err := uuid.NewV4()
	if err != nil {
		// NewV4 only fails if the system's random source is broken; fall
		// back to the nil UUID rather than blocking a rebuild on it.
		runID = uuid.UUID{}
	}

	f, err := r.build(context.Background())
	if err != nil {
		r.logger.Errorf("scheduler: rebuild %s failed: %v", runID, err)
		return err
	}
	r.current.Store(f)
	r.logger.Infof("scheduler: rebuild %s produced a new factory", runID)
	return nil
}
