// Package testutils provides utilities for testing object graphs built on
// cactusref pointers.
package testutils

import "github.com/artichoke/cactusref"

// DropTally counts payload destructor runs across a graph.
type DropTally struct {
	Drops int
}

// Node is a graph payload owning an arbitrary set of strong handles. Its
// destructor drops every owned handle and bumps the tally, so tests can
// observe exactly how many payloads a reclamation destroyed.
type Node struct {
	Tally *DropTally
	Links []*cactusref.Rc[Node]
}

// Destroy implements cactusref.Destroyer.
func (n *Node) Destroy() {
	if n.Tally != nil {
		n.Tally.Drops++
	}
	for _, rc := range n.Links {
		rc.Drop()
	}
	n.Links = nil
}

// YieldOwnedRcs implements cactusref.Tracer.
func (n *Node) YieldOwnedRcs(mark func(*cactusref.Rc[Node])) {
	for _, rc := range n.Links {
		mark(rc)
	}
}

// Own stores a clone of owned in owner's payload and records the adoption.
func Own(owner, owned *cactusref.Rc[Node]) {
	owner.Value().Links = append(owner.Value().Links, owned.Clone())
	cactusref.Adopt(owner, owned)
}

// Chain builds count allocations, each owning its predecessor with no
// adoptions recorded, and returns the head. Dropping the head cascades
// through every node's destructor.
func Chain(t *DropTally, count int) *cactusref.Rc[Node] {
	last := cactusref.New(Node{Tally: t})
	for i := 1; i < count; i++ {
		obj := cactusref.New(Node{Tally: t, Links: []*cactusref.Rc[Node]{last.Clone()}})
		last.Drop()
		last = obj
	}
	return last
}

// ChainAdopted builds the same chain as Chain with every ownership edge
// recorded, and returns the head.
func ChainAdopted(t *DropTally, count int) *cactusref.Rc[Node] {
	last := cactusref.New(Node{Tally: t})
	for i := 1; i < count; i++ {
		obj := cactusref.New(Node{Tally: t})
		Own(obj, last)
		last.Drop()
		last = obj
	}
	return last
}

// CircularGraph builds a ring of count nodes, each owning and adopting its
// predecessor, with the first node closing the loop to the last. It returns
// the first node.
func CircularGraph(t *DropTally, count int) *cactusref.Rc[Node] {
	first := cactusref.New(Node{Tally: t})
	last := first.Clone()
	for i := 1; i < count; i++ {
		obj := cactusref.New(Node{Tally: t})
		Own(obj, last)
		last.Drop()
		last = obj
	}
	Own(first, last)
	last.Drop()
	return first
}

// FullyConnected builds count nodes in which every node owns and adopts a
// clone of every node, itself included, and returns the external handles.
func FullyConnected(t *DropTally, count int) []*cactusref.Rc[Node] {
	nodes := make([]*cactusref.Rc[Node], 0, count)
	for i := 0; i < count; i++ {
		nodes = append(nodes, cactusref.New(Node{Tally: t}))
	}
	for _, left := range nodes {
		for _, right := range nodes {
			Own(left, right)
		}
	}
	return nodes
}
