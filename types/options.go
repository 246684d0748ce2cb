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

package types

import "time"

// Option configures a Config. See NewConfig.
type Option func(*Config) error

// WithLogger sets the Logger a Factory's Builder and resolution engine log
// through.
//
//	cfg := types.NewConfig(types.WithLogger(logging.NewZap(zapLogger)))
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMetrics sets the MetricsSink <BUILD>/<CUSTOMIZE> timings are reported
// to.
func WithMetrics(sink MetricsSink) Option {
	return func(c *Config) error {
		c.Metrics = sink
		return nil
	}
}

// WithProperty sets a single global property, additive across calls.
func WithProperty(key, value string) Option {
	return func(c *Config) error {
		if c.Properties == nil {
			c.Properties = map[string]string{}
		}
		c.Properties[key] = value
		return nil
	}
}

// WithProperties merges props into the Config's properties, additive
// across calls.
func WithProperties(props map[string]string) Option {
	return func(c *Config) error {
		if c.Properties == nil {
			c.Properties = map[string]string{}
		}
		for k, v := range props {
			c.Properties[k] = v
		}
		return nil
	}
}

// WithBuildTimeout bounds how long a Builder.Build call may run.
func WithBuildTimeout(d time.Duration) Option {
	return func(c *Config) error {
		c.BuildTimeout = d
		return nil
	}
}
