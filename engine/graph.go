package engine

import (
	"fmt"

	"github.com/wireway/factory/types"
)

// buildingBox is the scratch node the resolution engine assembles while
// walking a build graph: one per Name reachable from the build root,
// holding the Engine that will construct it, the Names each of its BOM
// queries resolved to, the edges to its dependencies, and - once built -
// the resulting component.
type buildingBox struct {
	name    types.Name
	engine  types.Engine
	names   map[types.Query][]types.Name // query -> names it resolved to
	deps    []types.Name                 // every dependency Name, flattened
	depSet  map[types.Name]bool

	// predecessors are the Names that depend on this one; used by the
	// topological sort to know which node to reconsider once this one is
	// fully built.
	predecessors map[types.Name]bool

	// depsToSort counts outstanding dependencies; reaches zero once every
	// dependency has been sorted.
	depsToSort int

	built *types.NamedComponent
}

// buildGraph walks outward from rootName, collecting every buildingBox
// reachable through BOM queries, and returns it in a leaves-first
// topological order ready for the resolve step. Already-checked-in Names
// are still included as graph nodes (with no engine work to do) so the
// sort sees the whole shape, but they contribute no new dependency edges.
func buildGraph(f *Factory, rootName types.Name) ([]*buildingBox, error) {
	boxes := map[types.Name]*buildingBox{}
	unsatisfied := types.NewUnsatisfiedDependencies()

	var queue []*buildingBox
	root, err := newBuildingBox(f, rootName, "", unsatisfied)
	if err != nil {
		return nil, err
	}
	if root == nil {
		// Root Name has no rule and is not already checked in; the caller
		// decides whether that is fatal.
		return nil, nil
	}
	boxes[rootName] = root
	queue = append(queue, root)

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if b.engine == nil {
			continue // already checked into the warehouse; no dependencies to expand
		}
		for _, q := range b.engine.BOM() {
			names := q.FindNames(f)
			if !q.Multiple() && len(names) > 1 {
				return nil, &types.Ambiguous{Query: q.String(), Names: names}
			}
			if len(names) == 0 {
				if q.Mandatory() {
					unsatisfied.Add(&types.UnsatisfiedDependency{
						Path:  b.name.String(),
						Query: q.String(),
						Cause: &types.MachineNotFound{Query: q.String(), Name: types.Name{Class: q.TargetClass()}, Similar: f.NamesOfClass(q.TargetClass())},
					})
				}
				b.names[q] = nil
				continue
			}
			b.names[q] = names
			for _, childName := range names {
				child, ok := boxes[childName]
				if !ok {
					child, err = newBuildingBox(f, childName, b.name.String()+" -> "+q.String(), unsatisfied)
					if err != nil {
						return nil, err
					}
					if child == nil {
						continue
					}
					boxes[childName] = child
					queue = append(queue, child)
				}
				if !b.depSet[childName] {
					b.depSet[childName] = true
					b.deps = append(b.deps, childName)
					b.depsToSort++
				}
				child.predecessors[b.name] = true
			}
		}
	}

	if err := unsatisfied.ErrorOrNil(); err != nil {
		return nil, err
	}

	return topoSort(boxes)
}

// newBuildingBox creates the scratch node for name. If name is already
// checked into the Warehouse it returns a node with no Engine (nothing
// more to build). It returns (nil, nil) if no Rule can build name - the
// caller is responsible for deciding mandatoriness at the
// query level; newBuildingBox only records a MachineNotFound when asked to
// by the caller via path != "".
func newBuildingBox(f *Factory, name types.Name, path string, unsatisfied *types.UnsatisfiedDependencies) (*buildingBox, error) {
	if f.warehouse.Contains(name) {
		return &buildingBox{name: name, names: map[types.Query][]types.Name{}, depSet: map[types.Name]bool{}, predecessors: map[types.Name]bool{}}, nil
	}
	rule, _, found := f.RuleFor(name)
	if !found {
		if path != "" {
			unsatisfied.Add(&types.UnsatisfiedDependency{
				Path:  path,
				Query: name.String(),
				Cause: &types.MachineNotFound{Query: name.String(), Name: name, Similar: f.NamesOfClass(name.Class)},
			})
		}
		return nil, nil
	}
	eng, err := rule.EngineFor(name)
	if err != nil {
		return nil, fmt.Errorf("building engine for %s: %w", name, err)
	}
	return &buildingBox{
		name:         name,
		engine:       eng,
		names:        map[types.Query][]types.Name{},
		depSet:       map[types.Name]bool{},
		predecessors: map[types.Name]bool{},
	}, nil
}
