package types

import "reflect"

// Rule is a factory's unit of extension: something that knows how to
// produce zero or more Names of a given class, and, when asked for one it
// can build, hands back an Engine that actually builds it.
//
// A Rule never builds anything itself - NamesProducedFor is pure discovery,
// EngineFor is construction deferred one more step. This split lets the
// resolution engine enumerate every Name a Rule could satisfy for a class
// query without paying the cost (or side effects) of building any of them.
type Rule interface {
	// NamesProducedFor lists the Names this Rule can build whose Class is
	// assignable to target. Implementations that don't care about a
	// particular target class may ignore it and always return the same
	// set, but most Rules narrow their answer to target.
	NamesProducedFor(target reflect.Type) []Name

	// CanBuild reports whether this Rule can produce the exact Name given.
	CanBuild(name Name) bool

	// EngineFor returns the Engine that builds name. Only ever called
	// after CanBuild(name) returned true; implementations may panic or
	// return an error otherwise.
	EngineFor(name Name) (Engine, error)

	// Priority orders competing Rules for the same Name: smaller wins
	// (priority 0 beats priority 10). Ties are broken by declaration order
	// - later rule sources and overlays override earlier ones at equal
	// priority.
	Priority() int
}

// Engine is what a Rule hands back for one specific Name: a declaration of
// the Name's dependencies (its BOM) plus the function that turns a
// satisfied BOM into a Box.
type Engine interface {
	// Name is the Name this Engine builds.
	Name() Name

	// BOM lists the Queries this Engine's Construct needs satisfied before
	// it can run. Returning nil means "no dependencies".
	BOM() BOM

	// Construct builds the Box for Name() given the dependencies it asked
	// for in BOM(), already resolved into a SatisfiedBOM. Construct should
	// be side-effect-free beyond building its own component; anything that
	// needs to run once the whole Factory is up belongs in
	// AutoStartable.Start, not here.
	Construct(satisfied *SatisfiedBOM) (Box, error)
}

// BOM (bill of materials) is the ordered list of Queries an Engine depends
// on. Order is preserved end to end so diagnostics and dumps can report
// dependencies in the order the Engine declared them.
type BOM []Query

// SatisfiedBOM carries, for each Query in an Engine's BOM, the
// NamedComponents the resolution engine found for it. It is built once per
// Engine invocation and handed to Construct.
type SatisfiedBOM struct {
	order   []Query
	results map[Query][]NamedComponent
}

// NewSatisfiedBOM returns an empty SatisfiedBOM ready for Put calls.
func NewSatisfiedBOM() *SatisfiedBOM {
	return &SatisfiedBOM{results: make(map[Query][]NamedComponent)}
}

// Put records the components found for q. Calling Put twice for the same
// Query overwrites the previous entry but keeps its position in Queries().
func (s *SatisfiedBOM) Put(q Query, components []NamedComponent) {
	if _, seen := s.results[q]; !seen {
		s.order = append(s.order, q)
	}
	s.results[q] = components
}

// Get returns the components recorded for q, or nil if q was never put.
func (s *SatisfiedBOM) Get(q Query) []NamedComponent {
	return s.results[q]
}

// One returns the single component recorded for q, or the zero value and
// false if q resolved to nothing. Construct implementations typically call
// this for their mandatory, non-multiple dependencies.
func (s *SatisfiedBOM) One(q Query) (NamedComponent, bool) {
	cs := s.results[q]
	if len(cs) == 0 {
		return NamedComponent{}, false
	}
	return cs[0], true
}

// Queries returns every Query that has been Put, in BOM declaration order.
func (s *SatisfiedBOM) Queries() []Query {
	return s.order
}
