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

// Package types holds the vocabulary shared by every part of the factory
// runtime: Name, Rule, Engine, Box, Query and the capability interfaces a
// built component may implement. Nothing in this package knows how a
// dependency graph gets resolved - that belongs to package engine.
package types

import (
	"fmt"
	"reflect"
)

// Name identifies a single buildable component: a Go type plus a
// discriminator string. Two Names with the same Class but different ID
// address different components of that type (e.g. two *sql.DB for two
// different shards).
//
// Name is intentionally comparable so it can be used as a map key and
// compared with ==.
type Name struct {
	Class reflect.Type
	ID    string
}

// NameOf builds a Name for type T with the given discriminator. The zero
// value ID ("") addresses the "default" component of that type.
//
//	db := types.NameOf[*sql.DB]("primary")
func NameOf[T any](id string) Name {
	return Name{Class: classOf[T](), ID: id}
}

func classOf[T any]() reflect.Type {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil {
		return t
	}
	// T is an interface type; reflect.TypeOf(zero) is nil for a nil
	// interface value, so recover the interface type via a pointer trick.
	return reflect.TypeOf((*T)(nil)).Elem()
}

// String renders a Name as "pkg.Class/id", dropping the "/id" suffix when
// ID is empty. Used in error messages, dump output and metric keys.
func (n Name) String() string {
	class := "<nil>"
	if n.Class != nil {
		class = n.Class.String()
	}
	if n.ID == "" {
		return class
	}
	return fmt.Sprintf("%s/%s", class, n.ID)
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool {
	return n.Class == nil && n.ID == ""
}

// factorySentinel is never instantiated; it exists only so FactoryName has
// a distinct, private reflect.Type that user code cannot collide with.
type factorySentinel struct{}

// FactoryName is the well-known Name under which a Factory registers
// itself into its own Warehouse. Any component may depend on
// query.Factory() (which resolves to this Name) to reach the Factory that
// built it, without the recursion a literal self-dependency would imply.
var FactoryName = Name{Class: reflect.TypeOf(factorySentinel{}), ID: "$factory"}

// Assignable reports whether a component built for class `have` may satisfy
// a query for class `want` - either identical types, or `have` implements
// the interface `want`.
func Assignable(have, want reflect.Type) bool {
	if have == nil || want == nil {
		return false
	}
	if have == want {
		return true
	}
	return have.AssignableTo(want)
}
