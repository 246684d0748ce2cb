package types

// Box is the opaque wrapper an Engine hands back from Construct. The
// resolution engine never looks inside a Box; it only Picks a component out
// of it (to decide whether the Name is present) and Customizes it (to let
// CustomizerEngines wrap or replace the value before it is checked into the
// Warehouse).
//
// Two shapes cover every case the resolution engine needs:
//
//   - Singleton: wraps exactly one NamedComponent, built once. Pick always
//     returns the same value. This is the default for almost every
//     component.
//   - Boundless: wraps a producer func invoked on every Pick, so a
//     component that legitimately needs a fresh value per consumer (a
//     *rand.Rand, a scratch buffer) can still participate in the same BOM
//     machinery without the Warehouse pretending it is a singleton.
type Box interface {
	// Pick returns the component this Box currently holds, and whether one
	// is present. A Box that returns false represents an Engine that
	// legitimately chose not to produce anything for an optional Name.
	Pick() (NamedComponent, bool)

	// Customize applies c to this Box's contents and returns the resulting
	// Box (which may be the same Box, mutated, or a new one - callers must
	// use the returned value and discard the receiver).
	Customize(c Customizer) Box
}

// singletonBox is the common Box: one component, possibly absent, whose
// value Customizers may replace.
type singletonBox struct {
	component NamedComponent
	present   bool
}

// NewBox wraps a single NamedComponent as a present, singleton Box.
func NewBox(component NamedComponent) Box {
	return &singletonBox{component: component, present: true}
}

// NewAbsentBox returns a Box that holds nothing. Engines return this for
// Names they legitimately decline to produce.
func NewAbsentBox() Box {
	return &singletonBox{present: false}
}

func (b *singletonBox) Pick() (NamedComponent, bool) {
	return b.component, b.present
}

func (b *singletonBox) Customize(c Customizer) Box {
	if !b.present || c.Transform == nil {
		return b
	}
	return c.Transform(b)
}

// boundlessBox produces a fresh NamedComponent (of the same Name) on every
// Pick by invoking produce. Customizers wrap the producer, not a cached
// value.
type boundlessBox struct {
	name    Name
	produce func() (any, bool)
}

// NewBoundlessBox wraps produce as a Box for name that may be Picked
// repeatedly, each time re-invoking produce.
func NewBoundlessBox(name Name, produce func() (any, bool)) Box {
	return &boundlessBox{name: name, produce: produce}
}

func (b *boundlessBox) Pick() (NamedComponent, bool) {
	v, ok := b.produce()
	if !ok {
		return NamedComponent{}, false
	}
	return NamedComponent{Name: b.name, Value: v}, true
}

func (b *boundlessBox) Customize(c Customizer) Box {
	if c.Transform == nil {
		return b
	}
	inner := b.produce
	return &boundlessBox{name: b.name, produce: func() (any, bool) {
		v, ok := inner()
		if !ok {
			return nil, false
		}
		wrapped := c.Transform(&singletonBox{component: NamedComponent{Name: b.name, Value: v}, present: true})
		nc, ok := wrapped.Pick()
		return nc.Value, ok
	}}
}
