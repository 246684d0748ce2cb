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

// Package scriptrule lets a Name be built by a JavaScript function instead
// of Go code: the script is run once, at Rule construction, to define its
// top-level functions; EngineFor then calls the named build function on
// every (re)build, passing its dependencies in as a plain object. Grounded
// on the goja engine the teacher's utils/js package wraps for its script
// transform nodes - compile once, invoke by name, export the result.
package scriptrule

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dop251/goja"
	"github.com/wireway/factory/types"
)

// Rule builds a single Name by calling a named function inside a
// pre-loaded JavaScript script. The function receives one argument: a
// plain object whose keys are the Query labels passed to New, each set to
// the built dependency's value (or, for Multiple queries, an array of
// them).
type Rule struct {
	name     types.Name
	priority int
	bom      types.BOM
	labels   []string // one per BOM entry, in order, used as the JS argument's keys
	funcName string
	vm       *goja.Runtime
}

// New compiles script (run once, immediately, to define its functions) and
// returns a Rule that builds name by calling funcName with an object built
// from bom, each entry keyed by the corresponding label.
func New(name types.Name, priority int, funcName, script string, bom types.BOM, labels []string) (*Rule, error) {
	if len(labels) != len(bom) {
		return nil, fmt.Errorf("scriptrule: %d labels for a %d-entry BOM", len(labels), len(bom))
	}
	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, fmt.Errorf("scriptrule: loading script for %s: %w", name, err)
	}
	return &Rule{name: name, priority: priority, bom: bom, labels: labels, funcName: funcName, vm: vm}, nil
}

func (r *Rule) NamesProducedFor(target reflect.Type) []types.Name {
	if !types.Assignable(r.name.Class, target) {
		return nil
	}
	return []types.Name{r.name}
}

func (r *Rule) CanBuild(name types.Name) bool { return name == r.name }
func (r *Rule) Priority() int                 { return r.priority }

func (r *Rule) EngineFor(name types.Name) (types.Engine, error) {
	return &scriptEngine{rule: r}, nil
}

type scriptEngine struct{ rule *Rule }

func (e *scriptEngine) Name() types.Name { return e.rule.name }
func (e *scriptEngine) BOM() types.BOM   { return e.rule.bom }

func (e *scriptEngine) Construct(satisfied *types.SatisfiedBOM) (types.Box, error) {
	r := e.rule
	args := make(map[string]any, len(r.bom))
	for i, q := range r.bom {
		comps := satisfied.Get(q)
		if q.Multiple() {
			values := make([]any, len(comps))
			for j, c := range comps {
				values[j] = c.Value
			}
			args[r.labels[i]] = values
		} else if len(comps) > 0 {
			args[r.labels[i]] = comps[0].Value
		}
	}

	f, ok := goja.AssertFunction(r.vm.Get(r.funcName))
	if !ok {
		return nil, errors.New("scriptrule: " + r.funcName + " is not a function")
	}
	res, err := f(goja.Undefined(), r.vm.ToValue(args))
	if err != nil {
		return nil, fmt.Errorf("scriptrule: calling %s: %w", r.funcName, err)
	}
	exported := res.Export()
	if exported == nil {
		return types.NewAbsentBox(), nil
	}
	return types.NewBox(types.NamedComponent{Name: r.name, Value: exported}), nil
}
