package engine

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"
	"github.com/wireway/factory/types"
)

// Dump renders a human-readable snapshot of every component this Factory
// has built so far: its Name, how long it took to build, its dependencies'
// Names, and - for struct-shaped values - their exported fields. It never
// triggers a new build; it only reports what is already checked in.
func (f *Factory) Dump() string {
	names := f.warehouse.Names()
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })

	var b strings.Builder
	for _, name := range names {
		nc, ok := f.warehouse.CheckOut(name)
		if !ok {
			continue
		}
		dur, _ := f.warehouse.buildDurationFor(name)
		fmt.Fprintf(&b, "%s (%s)\n", name, dur)

		if satisfied, ok := f.warehouse.satisfiedBOMFor(name); ok {
			for _, q := range satisfied.Queries() {
				deps := satisfied.Get(q)
				depNames := make([]string, len(deps))
				for i, d := range deps {
					depNames[i] = d.Name.String()
				}
				fmt.Fprintf(&b, "  depends on %s -> [%s]\n", q, strings.Join(depNames, ", "))
			}
		}

		if v := reflect.ValueOf(nc.Value); v.IsValid() && structs.IsStruct(dereference(nc.Value)) {
			fields := structs.Map(dereference(nc.Value))
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "  field %s = %v\n", k, fields[k])
			}
		}
	}

	if inconsistent := f.inconsistencies(); len(inconsistent) > 0 {
		b.WriteString("inconsistent rules:\n")
		for _, line := range inconsistent {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	return b.String()
}

// dereference unwraps a single level of pointer so structs.IsStruct/Map can
// introspect *T the way they introspect T.
func dereference(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

// inconsistencies reports every Name with more than one Rule claiming it,
// i.e. every override Dump should surface so an operator can see which
// Rule lost and why.
func (f *Factory) inconsistencies() []string {
	seen := map[types.Name]bool{}
	var lines []string
	for _, rec := range f.records {
		for _, name := range rec.rule.NamesProducedFor(anyType) {
			if seen[name] {
				continue
			}
			seen[name] = true
			_, overridden, _ := f.RuleFor(name)
			if len(overridden) > 0 {
				lines = append(lines, fmt.Sprintf("%s: %d rule(s) overridden", name, len(overridden)))
			}
		}
	}
	sort.Strings(lines)
	return lines
}
