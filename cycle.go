package cactusref

import (
	"github.com/sirupsen/logrus"
	"github.com/zephyrtronium/contains"
	"golang.org/x/exp/slices"
)

// orphanedCycle traverses the linked object graph from b to determine
// whether the reachable clique is externally unreachable. It returns a map
// from every clique member to the number of strong references it receives
// from inside the clique, and whether the clique is orphaned.
//
// A clique with even one member whose strong count exceeds its
// clique-internal references is externally reachable and must not be
// reclaimed.
func orphanedCycle[T any](b *box[T]) (map[*box[T]]uint, bool) {
	cycle := cycleRefs(b)
	if len(cycle) == 0 {
		return nil, false
	}
	if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		traceCycle(cycle)
	}
	for member, owned := range cycle {
		if member.strong > owned {
			log.Debugf("reachability test found externally owned cycle of %d objects", len(cycle))
			return nil, false
		}
	}
	return cycle, true
}

// cycleRefs performs a breadth-first search from seed over forward and
// loopback links to compute the clique of allocations in a cycle and their
// clique-internal strong counts. Targets of backward links join the clique
// as members but are not searched from. It runs in O(edges + members)
// with an explicit work list, so deep graphs cannot overflow the stack.
func cycleRefs[T any](seed *box[T]) map[*box[T]]uint {
	owned := make(map[*box[T]]uint)
	visited := contains.Set{}
	frontier := []*box[T]{seed}

	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]
		if !visited.Add(node.uniqueID()) {
			continue
		}
		for lk, m := range node.links.registry {
			switch lk.kind {
			case kindForward, kindLoopback:
				// Loopback multiplicities count toward the target's
				// clique-internal total just like forward ones.
				owned[lk.target] += m
				frontier = append(frontier, lk.target)
			case kindBackward:
				// A back-referenced predecessor is a clique member even if
				// never reached forward; its uncovered strong count keeps
				// the clique externally reachable.
				if _, ok := owned[lk.target]; !ok {
					owned[lk.target] = 0
				}
			}
		}
	}
	return owned
}

func traceCycle[T any](cycle map[*box[T]]uint) {
	ids := make([]uint64, 0, len(cycle))
	byID := make(map[uint64]*box[T], len(cycle))
	for member := range cycle {
		id := uint64(member.uniqueID())
		ids = append(ids, id)
		byID[id] = member
	}
	slices.Sort(ids)
	counts := make([][2]uint, 0, len(ids))
	for _, id := range ids {
		member := byID[id]
		counts = append(counts, [2]uint{member.strong, cycle[member]})
	}
	log.Tracef("reachability test found (strong, cycle) counts: %v", counts)
}
