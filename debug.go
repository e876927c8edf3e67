package cactusref

import (
	"github.com/zephyrtronium/contains"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	yaml "gopkg.in/yaml.v2"
)

// GraphEdge describes one adoption edge of a DumpGraph snapshot.
type GraphEdge struct {
	Target uint64 `yaml:"target"`
	Kind   string `yaml:"kind"`
	Count  uint   `yaml:"count"`
}

// GraphNode describes one allocation of a DumpGraph snapshot. IDs are
// control-block addresses and are stable only for the lifetime of the
// snapshot's allocations.
type GraphNode struct {
	ID     uint64      `yaml:"id"`
	Strong uint        `yaml:"strong"`
	Weak   uint        `yaml:"weak"`
	Dead   bool        `yaml:"dead,omitempty"`
	Edges  []GraphEdge `yaml:"edges,omitempty"`
}

// DumpGraph serializes the part of the adoption graph reachable from r as
// YAML, for diagnostics. Nodes and edges are emitted in address order so
// the output is stable for a fixed set of allocations.
func DumpGraph[T any](r *Rc[T]) (string, error) {
	seed := r.inner()
	byID := make(map[uint64]*box[T])
	visited := contains.Set{}
	frontier := []*box[T]{seed}
	for len(frontier) > 0 {
		node := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if !visited.Add(node.uniqueID()) {
			continue
		}
		byID[uint64(node.uniqueID())] = node
		for lk := range node.links.registry {
			frontier = append(frontier, lk.target)
		}
	}

	ids := maps.Keys(byID)
	slices.Sort(ids)
	nodes := make([]GraphNode, 0, len(ids))
	for _, id := range ids {
		node := byID[id]
		gn := GraphNode{ID: id, Weak: node.weak, Dead: node.isDead()}
		if !node.isUninit() {
			gn.Strong = node.strong
		}
		for lk, m := range node.links.registry {
			gn.Edges = append(gn.Edges, GraphEdge{
				Target: uint64(lk.target.uniqueID()),
				Kind:   lk.kind.String(),
				Count:  m,
			})
		}
		slices.SortFunc(gn.Edges, func(a, b GraphEdge) bool {
			if a.Target != b.Target {
				return a.Target < b.Target
			}
			return a.Kind < b.Kind
		})
		nodes = append(nodes, gn)
	}

	out, err := yaml.Marshal(nodes)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
