package types

import "sort"

// Customizer wraps or replaces a built Box before it is checked into the
// Warehouse. Predicate records which Names it applies to and is what
// Matches consults; the resolution engine picks Customizers through
// CustomizerEngine.CanCustomize and does not consult Predicate. Transform
// does the wrapping. Label identifies the Customizer in metrics.
//
// Priority orders Customizers that both match the same Name: lower runs
// first, so a Priority-0 "add default timeout" Customizer wraps before a
// Priority-10 "add tracing" Customizer wraps the already-timeout-wrapped
// Box - mirroring how aspect priority ordering works one layer up, in the
// resolution engine's build pipeline.
type Customizer struct {
	Priority  int
	Label     string
	Predicate func(Name) bool
	Transform func(Box) Box
}

// Matches reports whether this Customizer applies to name. A nil
// Predicate matches nothing.
func (c Customizer) Matches(name Name) bool {
	return c.Predicate != nil && c.Predicate(name)
}

// CustomizerEngine is discovered and built exactly like any other
// component - a Rule may produce a Name of class CustomizerEngine, and the
// Builder builds every such Name once the rule set has stabilized. Each
// resulting CustomizerEngine is then consulted for every subsequently
// built component.
type CustomizerEngine interface {
	// CanCustomize reports whether this engine has an opinion about name.
	CanCustomize(name Name) bool

	// CustomizerFor returns the Customizer to apply to name. Only called
	// after CanCustomize(name) returned true.
	CustomizerFor(name Name) (Customizer, error)
}

// CustomizerList is a slice of resolved Customizers kept in priority
// order (ascending, ties broken by discovery order) via SortStable.
type CustomizerList []Customizer

// SortStable orders the list ascending by Priority, preserving relative
// order of equal-priority entries.
func (l CustomizerList) SortStable() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Priority < l[j].Priority
	})
}
