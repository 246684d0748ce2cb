package engine

import "github.com/wireway/factory/types"

// topoSort orders boxes leaves-first using Kahn's algorithm: seed the
// worklist with every box that has no outstanding dependencies, repeatedly
// remove one, append it to the output, and for each of its predecessors
// decrement their outstanding-dependency count, enqueueing any that reach
// zero. Anything left with depsToSort > 0 once the worklist empties is
// part of a cycle.
func topoSort(boxes map[types.Name]*buildingBox) ([]*buildingBox, error) {
	var ready []*buildingBox
	for _, b := range boxes {
		if b.depsToSort == 0 {
			ready = append(ready, b)
		}
	}

	ordered := make([]*buildingBox, 0, len(boxes))
	for len(ready) > 0 {
		b := ready[0]
		ready = ready[1:]
		ordered = append(ordered, b)
		for predName := range b.predecessors {
			pred := boxes[predName]
			pred.depsToSort--
			if pred.depsToSort == 0 {
				ready = append(ready, pred)
			}
		}
	}

	if len(ordered) != len(boxes) {
		var names []types.Name
		for n, b := range boxes {
			if b.depsToSort > 0 {
				names = append(names, n)
			}
		}
		return nil, &types.Cycle{Names: names}
	}
	return ordered, nil
}
