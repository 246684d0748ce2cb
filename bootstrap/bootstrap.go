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

// Package bootstrap loads a Factory's starting configuration from a TOML
// file: global properties, and a manifest of literal rule entries each
// mapstructure-decoded into a typed Go value before being wrapped as a
// types.SingletonRule. The split mirrors how the teacher's node
// initialization works - a loosely-typed configuration blob
// (map[string]interface{}) decoded into a concrete struct at Init time -
// just applied once at process startup instead of once per node.
package bootstrap

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"github.com/wireway/factory/types"
)

// File is the top-level shape of a bootstrap TOML document.
//
//	[properties]
//	environment = "staging"
//
//	[[rule]]
//	class = "config.Database"
//	id = "primary"
//	priority = 0
//	[rule.value]
//	dsn = "postgres://..."
//	max_open_conns = 10
type File struct {
	Properties map[string]string `toml:"properties"`
	Rules      []ManifestEntry   `toml:"rule"`
}

// ManifestEntry is one [[rule]] table: enough to build a types.Name and a
// raw value map. File.Rules turns Value into a concrete Go struct.
type ManifestEntry struct {
	Class    string         `toml:"class"`
	ID       string         `toml:"id"`
	Priority int            `toml:"priority"`
	Value    map[string]any `toml:"value"`
}

// Load parses path as TOML into a File.
func Load(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("bootstrap: loading %s: %w", path, err)
	}
	return &f, nil
}

// ClassRegistry maps a ManifestEntry's Class string to a types.Name
// constructor and a destination struct to decode Value into. Rules uses it
// to turn a File's [[rule]] entries into concrete types.Rule values.
type ClassRegistry map[string]func() (types.Name, any)

// Rules decodes every ManifestEntry in f whose Class is present in
// classes, mapstructure-decoding its Value into the struct classes
// provides, and returns one types.SingletonRule per entry. Entries whose
// Class is not registered are skipped, not an error - a bootstrap file may
// be shared across binaries that only know some of its classes.
func (f *File) Rules(classes ClassRegistry) ([]types.Rule, error) {
	var rules []types.Rule
	for _, e := range f.Rules {
		ctor, ok := classes[e.Class]
		if !ok {
			continue
		}
		name, dest := ctor()
		name.ID = e.ID
		if err := mapstructure.Decode(e.Value, dest); err != nil {
			return nil, fmt.Errorf("bootstrap: decoding rule %s/%s: %w", e.Class, e.ID, err)
		}
		rules = append(rules, types.NewSingletonRule(name, dest, e.Priority))
	}
	return rules, nil
}
