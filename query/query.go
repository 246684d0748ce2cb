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

// Package query provides the Query implementations Engines use to declare
// their BOM: a single explicit Name, or every Name of a class. Both are
// built with a small fluent builder (.Optional(), .Single()) since most of
// the time the defaults - mandatory, many - are exactly right.
package query

import (
	"fmt"
	"reflect"

	"github.com/wireway/factory/types"
)

// nameQuery matches one explicit Name.
type nameQuery struct {
	name      types.Name
	mandatory bool
}

// ByName returns a Query for the single, explicit Name given. Mandatory by
// default; call .Optional() to relax that.
func ByName(name types.Name) *nameQuery {
	return &nameQuery{name: name, mandatory: true}
}

// ByType is shorthand for ByName(types.NameOf[T](id)).
func ByType[T any](id string) *nameQuery {
	return ByName(types.NameOf[T](id))
}

// Optional marks the query as satisfiable by nothing, returning q for
// chaining.
func (q *nameQuery) Optional() *nameQuery {
	q.mandatory = false
	return q
}

func (q *nameQuery) Mandatory() bool            { return q.mandatory }
func (q *nameQuery) Multiple() bool             { return false }
func (q *nameQuery) TargetClass() reflect.Type  { return q.name.Class }
func (q *nameQuery) String() string             { return fmt.Sprintf("Name[%s]", q.name) }

func (q *nameQuery) FindNames(r types.Resolver) []types.Name {
	if _, _, found := r.RuleFor(q.name); !found {
		return nil
	}
	return []types.Name{q.name}
}

func (q *nameQuery) Find(r types.Resolver) ([]types.NamedComponent, error) {
	nc, found, err := r.Get(q.name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return []types.NamedComponent{nc}, nil
}

func (q *nameQuery) FindOne(r types.Resolver) (types.NamedComponent, bool, error) {
	return r.Get(q.name)
}

func (q *nameQuery) CheckSatisfy(r types.Resolver) error {
	_, _, found := r.RuleFor(q.name)
	if !found && q.mandatory {
		return &types.MachineNotFound{Query: q.String(), Name: q.name, Similar: r.NamesOfClass(q.name.Class)}
	}
	return nil
}

// classQuery matches every Name assignable to a class.
type classQuery struct {
	class     reflect.Type
	mandatory bool
	multiple  bool
}

// ByClass returns a Query matching every registered Name assignable to T,
// in Rule-priority order. Mandatory and Multiple by default.
func ByClass[T any]() *classQuery {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return &classQuery{class: t, mandatory: true, multiple: true}
}

// Optional marks the query as satisfiable by zero matches.
func (q *classQuery) Optional() *classQuery {
	q.mandatory = false
	return q
}

// Single requires exactly zero-or-one match instead of many; more than one
// match is an immediate Ambiguous error.
func (q *classQuery) Single() *classQuery {
	q.multiple = false
	return q
}

func (q *classQuery) Mandatory() bool           { return q.mandatory }
func (q *classQuery) Multiple() bool            { return q.multiple }
func (q *classQuery) TargetClass() reflect.Type { return q.class }
func (q *classQuery) String() string            { return fmt.Sprintf("Class[%s]", q.class) }

func (q *classQuery) FindNames(r types.Resolver) []types.Name {
	return r.NamesOfClass(q.class)
}

func (q *classQuery) Find(r types.Resolver) ([]types.NamedComponent, error) {
	names := r.NamesOfClass(q.class)
	if !q.multiple && len(names) > 1 {
		return nil, &types.Ambiguous{Query: q.String(), Names: names}
	}
	out := make([]types.NamedComponent, 0, len(names))
	for _, n := range names {
		nc, found, err := r.Get(n)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, nc)
		}
	}
	return out, nil
}

func (q *classQuery) FindOne(r types.Resolver) (types.NamedComponent, bool, error) {
	names := r.NamesOfClass(q.class)
	if len(names) > 1 {
		return types.NamedComponent{}, false, &types.Ambiguous{Query: q.String(), Names: names}
	}
	if len(names) == 0 {
		return types.NamedComponent{}, false, nil
	}
	return r.Get(names[0])
}

func (q *classQuery) CheckSatisfy(r types.Resolver) error {
	names := r.NamesOfClass(q.class)
	if !q.multiple && len(names) > 1 {
		return &types.Ambiguous{Query: q.String(), Names: names}
	}
	if len(names) == 0 && q.mandatory {
		return &types.MachineNotFound{Query: q.String(), Name: types.Name{Class: q.class}}
	}
	return nil
}

// Factory returns a Query resolving to the Factory that built the
// component asking for it - always satisfied, since the Factory checks
// itself into its own Warehouse before building anything else.
func Factory() *nameQuery {
	return ByName(types.FactoryName)
}
