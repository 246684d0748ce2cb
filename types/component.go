package types

// NamedComponent pairs a built value with the Name it was built for. It is
// the unit the Warehouse stores and Queries hand back to consumers.
type NamedComponent struct {
	Name  Name
	Value any
}

// Capability interfaces a built component's Value may optionally satisfy.
// The engine package type-asserts for these after a component is checked
// into the Warehouse; neither is required.

// AutoStartable is implemented by components that need a hook run once,
// after the whole Factory has finished building, before it is handed to
// callers. Typical uses: opening a listener, starting a background poller.
type AutoStartable interface {
	Start() error
}

// Closer is implemented by components that hold a resource which must be
// released when the Factory that built them is closed (a connection pool,
// a file handle, a goroutine that needs stopping).
type Closer interface {
	Close() error
}
