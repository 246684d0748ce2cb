package types

import "reflect"

// Resolver is the narrow surface the engine package's Factory exposes back
// into package types so that Query implementations can do their job
// without types importing engine (which builds Factory and would create an
// import cycle). Package query's Query implementations are written against
// this interface; *engine.Factory satisfies it structurally.
type Resolver interface {
	// RuleFor returns the Rule currently in effect for name (the
	// highest-priority Rule that can build it), plus any lower-priority
	// Rules that also claimed it, for diagnostics. found is false if no
	// registered Rule can build name.
	RuleFor(name Name) (rule Rule, overridden []Rule, found bool)

	// NamesOfClass enumerates every distinct Name of the given class any
	// registered Rule can produce, in priority order (highest first),
	// de-duplicated so each Name appears once even if multiple Rules
	// declare it.
	NamesOfClass(class reflect.Type) []Name

	// Get builds (or fetches from cache) the component for name. found is
	// false when the Name is legitimately absent (an Engine chose not to
	// produce it); err is non-nil only on an actual resolution failure.
	Get(name Name) (component NamedComponent, found bool, err error)
}

// Query describes what an Engine wants out of the Factory: one specific
// Name, or every Name of some class, optionally required, optionally
// plural. A Query is a value object; it does no work until handed a
// Resolver.
type Query interface {
	// Mandatory reports whether resolution must fail if this Query finds
	// nothing.
	Mandatory() bool

	// Multiple reports whether this Query may legitimately resolve to more
	// than one component.
	Multiple() bool

	// TargetClass is the reflect.Type this Query matches against.
	TargetClass() reflect.Type

	// FindNames enumerates the Names this Query currently matches, without
	// building any of them.
	FindNames(r Resolver) []Name

	// Find builds and returns every component this Query matches.
	Find(r Resolver) ([]NamedComponent, error)

	// FindOne builds and returns the single component this Query matches.
	// It is an error to call FindOne on a Multiple query that matches more
	// than one Name.
	FindOne(r Resolver) (NamedComponent, bool, error)

	// CheckSatisfy reports, without building anything, whether this Query
	// could currently be satisfied (enough Names exist to build from).
	CheckSatisfy(r Resolver) error

	// String renders the Query for diagnostics, e.g. "Name[*sql.DB/primary]"
	// or "Class[[]http.Handler]".
	String() string
}
