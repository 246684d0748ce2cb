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

// Package predicate compiles expr-lang boolean expressions into
// types.Customizer predicates, the way the teacher's transform package
// compiles a filter node's script once at Init and runs the cached
// *vm.Program on every message afterward.
package predicate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/wireway/factory/types"
)

// env is the variable set an expr script sees: the candidate Name's class
// string and ID.
type env struct {
	Class string
	ID    string
}

// Compile compiles script once and returns a predicate usable as a
// Customizer.Predicate. script may reference Class and ID, e.g.
// `Class contains "Handler" && ID != "internal"`.
func Compile(script string) (func(types.Name) bool, error) {
	program, err := expr.Compile(script, expr.Env(env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling customizer predicate %q: %w", script, err)
	}
	return func(name types.Name) bool {
		return run(program, name)
	}, nil
}

func run(program *vm.Program, name types.Name) bool {
	class := "<nil>"
	if name.Class != nil {
		class = name.Class.String()
	}
	out, err := expr.Run(program, env{Class: class, ID: name.ID})
	if err != nil {
		return false
	}
	matched, _ := out.(bool)
	return matched
}

// Engine is a types.CustomizerEngine backed by a compiled predicate and a
// fixed Customizer to apply when it matches.
type Engine struct {
	match     func(types.Name) bool
	customize types.Customizer
}

// NewEngine returns a CustomizerEngine that applies customize to every
// Name the compiled script matches.
func NewEngine(script string, priority int, label string, transform func(types.Box) types.Box) (*Engine, error) {
	match, err := Compile(script)
	if err != nil {
		return nil, err
	}
	return &Engine{
		match: match,
		customize: types.Customizer{
			Priority:  priority,
			Label:     label,
			Predicate: match,
			Transform: transform,
		},
	}, nil
}

func (e *Engine) CanCustomize(name types.Name) bool { return e.match(name) }

func (e *Engine) CustomizerFor(name types.Name) (types.Customizer, error) {
	return e.customize, nil
}
