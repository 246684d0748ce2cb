package engine

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/wireway/factory/query"
	"github.com/wireway/factory/types"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// ruleRecord is one Rule together with the bookkeeping RuleFor and
// NamesOfClass need: which bucket it came from (for Dump and the
// same-bucket duplicate check) and its ordinal - a monotonically
// increasing position across every bucket, so that among equal-Priority
// Rules the one declared later (a later rule source, an overlay applied
// after another) wins.
type ruleRecord struct {
	rule    types.Rule
	bucket  string
	ordinal int
}

// RuleBucket groups the Rules contributed by one source - an explicit
// rule list, a RuleSource, an overlay - under a label used in Dump and in
// the same-bucket DuplicateName check.
type RuleBucket struct {
	Label string
	Rules []types.Rule
}

// Factory is the built, immutable result of a Builder run: a fixed set of
// Rules and CustomizerEngines plus the Warehouse that memoizes what has
// been built from them so far. A Factory registers itself into its own
// Warehouse under types.FactoryName before anything else is built, so
// query.Factory() is always satisfied without recursion.
type Factory struct {
	cfg               types.Config
	warehouse         *Warehouse
	records           []ruleRecord
	customizerEngines []types.CustomizerEngine
}

// NewFactory builds a Factory from the given rule buckets and
// CustomizerEngines. It returns a DuplicateName error if two Rules in the
// same bucket declare the identical Name at the same Priority.
func NewFactory(buckets []RuleBucket, customizerEngines []types.CustomizerEngine, cfg types.Config) (*Factory, error) {
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = types.NewConfig().Metrics
	}
	f := &Factory{cfg: cfg, warehouse: NewWarehouse(), customizerEngines: customizerEngines}

	ordinal := 0
	for _, bucket := range buckets {
		prioritiesSeen := map[types.Name]map[int]bool{}
		for _, rule := range bucket.Rules {
			for _, name := range rule.NamesProducedFor(anyType) {
				seen := prioritiesSeen[name]
				if seen == nil {
					seen = map[int]bool{}
					prioritiesSeen[name] = seen
				}
				if seen[rule.Priority()] {
					return nil, &types.DuplicateName{Bucket: bucket.Label, Name: name}
				}
				seen[rule.Priority()] = true
			}
			f.records = append(f.records, ruleRecord{rule: rule, bucket: bucket.Label, ordinal: ordinal})
			ordinal++
		}
	}

	self := types.NewSingletonRule(types.FactoryName, f, 0)
	f.records = append(f.records, ruleRecord{rule: self, bucket: "$self", ordinal: ordinal})
	if _, _, err := f.Get(types.FactoryName); err != nil {
		return nil, fmt.Errorf("registering factory self-component: %w", err)
	}

	return f, nil
}

// RuleFor implements types.Resolver.
func (f *Factory) RuleFor(name types.Name) (types.Rule, []types.Rule, bool) {
	var matches []ruleRecord
	for _, rec := range f.records {
		if rec.rule.CanBuild(name) {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return nil, nil, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rule.Priority() != matches[j].rule.Priority() {
			return matches[i].rule.Priority() < matches[j].rule.Priority()
		}
		return matches[i].ordinal > matches[j].ordinal
	})
	overridden := make([]types.Rule, 0, len(matches)-1)
	for _, rec := range matches[1:] {
		overridden = append(overridden, rec.rule)
	}
	return matches[0].rule, overridden, true
}

// NamesOfClass implements types.Resolver.
func (f *Factory) NamesOfClass(class reflect.Type) []types.Name {
	ordered := make([]ruleRecord, len(f.records))
	copy(ordered, f.records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].rule.Priority() != ordered[j].rule.Priority() {
			return ordered[i].rule.Priority() < ordered[j].rule.Priority()
		}
		return ordered[i].ordinal > ordered[j].ordinal
	})

	seen := map[types.Name]bool{}
	var out []types.Name
	for _, rec := range ordered {
		for _, name := range rec.rule.NamesProducedFor(class) {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Get implements types.Resolver: it builds, or fetches from the Warehouse,
// the component for name.
func (f *Factory) Get(name types.Name) (types.NamedComponent, bool, error) {
	if nc, ok := f.warehouse.CheckOut(name); ok {
		return nc, true, nil
	}
	if _, _, found := f.RuleFor(name); !found {
		return types.NamedComponent{}, false, nil
	}

	order, err := buildGraph(f, name)
	if err != nil {
		return types.NamedComponent{}, false, err
	}
	if err := f.resolve(order); err != nil {
		return types.NamedComponent{}, false, err
	}
	return f.warehouse.CheckOut(name)
}

// resolve runs steps 3-6 of the resolution engine over a leaves-first
// build order: satisfy each box's BOM from already-built children,
// construct it, customize it, check it in.
func (f *Factory) resolve(order []*buildingBox) error {
	for _, b := range order {
		if b.engine == nil {
			continue // already checked in; nothing to build
		}
		if f.warehouse.Contains(b.name) {
			continue // built by an earlier root in the same call, or pre-existing
		}

		satisfied := types.NewSatisfiedBOM()
		for _, q := range b.engine.BOM() {
			names := b.names[q]
			var comps []types.NamedComponent
			for _, n := range names {
				if nc, ok := f.warehouse.CheckOut(n); ok {
					comps = append(comps, nc)
				}
			}
			satisfied.Put(q, comps)
		}

		start := time.Now()
		box, err := b.engine.Construct(satisfied)
		duration := time.Since(start)
		f.cfg.Metrics.ObserveBuild(b.name, duration)
		if err != nil {
			return fmt.Errorf("constructing %s: %w", b.name, err)
		}

		nc, present := box.Pick()
		if !present {
			continue // Engine legitimately declined to produce a value
		}

		box = f.applyCustomizers(nc.Name, box)
		nc, _ = box.Pick()
		f.warehouse.CheckIn(b.name, box, satisfied, duration)
		b.built = &nc
		f.cfg.Logger.Debugf("factory: built %s in %s", b.name, duration)
	}
	return nil
}

// applyCustomizers folds every matching CustomizerEngine's Customizer over
// box, in ascending priority order.
func (f *Factory) applyCustomizers(name types.Name, box types.Box) types.Box {
	if name == types.FactoryName || len(f.customizerEngines) == 0 {
		return box
	}
	var applicable types.CustomizerList
	for _, ce := range f.customizerEngines {
		if !ce.CanCustomize(name) {
			continue
		}
		c, err := ce.CustomizerFor(name)
		if err != nil {
			f.cfg.Logger.Warnf("factory: customizer for %s failed: %v", name, err)
			continue
		}
		applicable = append(applicable, c)
	}
	applicable.SortStable()
	for _, c := range applicable {
		start := time.Now()
		box = box.Customize(c)
		f.cfg.Metrics.ObserveCustomize(name, c.Label, time.Since(start))
	}
	return box
}

// Config returns the Config this Factory was built with.
func (f *Factory) Config() types.Config {
	return f.cfg
}

// Close releases every checked-in component that implements types.Closer,
// in reverse build order: a component is always closed before the
// components it depends on. The Factory's own self-registered component
// (types.FactoryName, Value == f) is skipped, since *Factory itself
// satisfies types.Closer and closing it would just call Close again.
func (f *Factory) Close() error {
	var errs []error
	order := f.warehouse.CheckedInOrder()
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		if name == types.FactoryName {
			continue
		}
		nc, ok := f.warehouse.CheckOut(name)
		if !ok {
			continue
		}
		if c, ok := nc.Value.(types.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d component(s) failed to close: %v", len(errs), errs)
}

// Start builds every Name whose class implements types.AutoStartable (in
// Rule-priority order, like any class query) and invokes Start() on each.
// The Factory's own self-registered component is skipped for the same
// reason Close skips it.
func (f *Factory) Start() error {
	startables, err := query.ByClass[types.AutoStartable]().Optional().Find(f)
	if err != nil {
		return err
	}
	for _, nc := range startables {
		if nc.Name == types.FactoryName {
			continue
		}
		if s, ok := nc.Value.(types.AutoStartable); ok {
			if err := s.Start(); err != nil {
				return fmt.Errorf("starting %s: %w", nc.Name, err)
			}
		}
	}
	return nil
}
