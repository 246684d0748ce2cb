package types

import "reflect"

// singletonRule is the simplest possible Rule: it produces exactly one
// Name, wrapping an already-built value. Overlay entries and literal
// bootstrap values are both expressed as singletonRule instances.
type singletonRule struct {
	name     Name
	value    any
	priority int
}

// NewSingletonRule returns a Rule that always builds name as value, with no
// dependencies of its own.
func NewSingletonRule(name Name, value any, priority int) Rule {
	return &singletonRule{name: name, value: value, priority: priority}
}

func (r *singletonRule) NamesProducedFor(target reflect.Type) []Name {
	if !Assignable(r.name.Class, target) {
		return nil
	}
	return []Name{r.name}
}

func (r *singletonRule) CanBuild(name Name) bool { return name == r.name }

func (r *singletonRule) EngineFor(name Name) (Engine, error) {
	return &funcEngine{name: name, build: func(*SatisfiedBOM) (Box, error) {
		return NewBox(NamedComponent{Name: name, Value: r.value}), nil
	}}, nil
}

func (r *singletonRule) Priority() int { return r.priority }

// funcRule is a Rule backed by a single closure, for the common case of one
// Name with a handful of dependencies and no reason to hand-write a type.
type funcRule struct {
	name     Name
	bom      BOM
	priority int
	build    func(*SatisfiedBOM) (Box, error)
}

// NewFuncRule returns a Rule that produces exactly one Name, depending on
// bom, built by calling build once its BOM is satisfied.
func NewFuncRule(name Name, priority int, bom BOM, build func(*SatisfiedBOM) (Box, error)) Rule {
	return &funcRule{name: name, bom: bom, priority: priority, build: build}
}

func (r *funcRule) NamesProducedFor(target reflect.Type) []Name {
	if !Assignable(r.name.Class, target) {
		return nil
	}
	return []Name{r.name}
}

func (r *funcRule) CanBuild(name Name) bool { return name == r.name }

func (r *funcRule) EngineFor(name Name) (Engine, error) {
	return &funcEngine{name: name, bom: r.bom, build: r.build}, nil
}

func (r *funcRule) Priority() int { return r.priority }

// funcEngine is the Engine counterpart of funcRule/singletonRule: a Name, a
// BOM and a build closure.
type funcEngine struct {
	name  Name
	bom   BOM
	build func(*SatisfiedBOM) (Box, error)
}

func (e *funcEngine) Name() Name { return e.name }
func (e *funcEngine) BOM() BOM   { return e.bom }
func (e *funcEngine) Construct(satisfied *SatisfiedBOM) (Box, error) {
	return e.build(satisfied)
}
