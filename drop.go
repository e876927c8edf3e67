package cactusref

// Drop releases this strong handle. The handle is nil afterward; dropping
// it again is a no-op.
//
// Drop decrements the strong count and classifies the allocation. With no
// recorded edges this behaves like a conventional reference-counted
// pointer: the value is destroyed when the count reaches zero. With
// recorded edges, a drop that reaches zero excises the allocation from the
// graph and reclaims it without a trace; any other drop traces the adoption
// graph and reclaims the whole clique if it is an orphaned cycle.
func (r *Rc[T]) Drop() {
	if r == nil || r.ptr == nil {
		return
	}
	b := r.ptr
	r.ptr = nil
	// Members of a cycle being torn down drop their handles to each other
	// from inside their destructors. The dead check makes those recursive
	// drops no-ops, bounding re-entry to one useful frame per allocation.
	if b.isDead() {
		return
	}
	b.decStrong()
	if b.links.isEmpty() {
		// Never adopted, or already excised from a busted cycle.
		if b.isDead() {
			dropUnreachable(b)
		}
		return
	}
	if b.isDead() {
		dropUnreachableWithAdoptions(b)
		return
	}
	if cycle, ok := orphanedCycle(b); ok {
		dropCycle(cycle)
		return
	}
	log.Debugf("drop of %#x skipped, allocation is reachable", b.uniqueID())
}

// dropUnreachable reclaims an allocation with no recorded edges and no
// remaining strong handles.
func dropUnreachable[T any](b *box[T]) {
	log.Tracef("deallocating unreachable %#x", b.uniqueID())
	b.makeUninit()
	v := b.takeValue()
	destroyValue(&v)
	b.links.clear()
	releaseStrongWeak(b)
}

// dropUnreachableWithAdoptions reclaims an allocation whose strong handles
// are all gone while other live allocations still record edges toward it.
// The allocation is excised from the graph before its storage is torn down
// so no peer can chase an edge to a reclaimed control block.
func dropUnreachableWithAdoptions[T any](b *box[T]) {
	log.Tracef("excising unreachable %#x from the object graph", b.uniqueID())
	excise(b)
	b.makeUninit()
	v := b.takeValue()
	destroyValue(&v)
	releaseStrongWeak(b)
}

// excise removes every edge between b and the rest of the graph. Peer
// registries may record fewer entries than b's multiplicities claim, so
// removal saturates.
func excise[T any](b *box[T]) {
	fwd, back := forwardTo(b), backwardTo(b)
	for lk, n := range b.links.registry {
		t := lk.target
		if t == b {
			continue
		}
		t.links.remove(fwd, n)
		t.links.remove(back, n)
	}
	b.links.clear()
}

// deadNode carries a reclaimed payload and its registry out of its control
// block. The registry rides along because it must outlive the payload:
// peers consult their neighbors' registries while a cycle is torn down, and
// both are destroyed together only after every member's edges are gone.
type deadNode[T any] struct {
	value    T
	registry map[link[T]]uint
}

// dropCycle reclaims an orphaned cycle.
//
// Inside a cycle, payloads reference each other through strong handles
// stored in the payloads themselves. Destroying any payload first would
// drop handles into live members and re-enter detection. Teardown instead
// zeroes every member's strong count, then moves every payload out of its
// control block, and only then runs destructors: every handle a destructor
// drops finds a dead allocation and short-circuits.
//
// If a destructor panics mid-teardown, the members already drained stay
// dead and consistent; members not yet released leak rather than
// double-free.
func dropCycle[T any](cycle map[*box[T]]uint) {
	log.Debugf("detected orphaned cycle with %d objects", len(cycle))

	// Break every clique-internal edge and zero the strong counts they
	// carried. Forward and loopback multiplicities alike record owned
	// clones inside the cycle.
	for member := range cycle {
		drained := member.links.drainIf(func(lk link[T], _ uint) bool {
			if lk.kind != kindForward && lk.kind != kindLoopback {
				return false
			}
			_, in := cycle[lk.target]
			return in
		})
		var internal uint
		for _, m := range drained {
			internal += m
		}
		for i := uint(0); i < internal && !member.isDead(); i++ {
			member.decStrong()
		}
	}

	// Move payloads and registries out of every dead member before any
	// destructor runs.
	graveyard := make([]deadNode[T], 0, len(cycle))
	for member := range cycle {
		if !member.isDead() || member.isUninit() {
			// Strong counts beyond the drained edges mean the member is
			// still referenced in another part of the graph; leave it.
			continue
		}
		log.Tracef("deconstructed member %#x of orphaned cycle", member.uniqueID())
		member.makeUninit()
		graveyard = append(graveyard, deadNode[T]{
			value:    member.takeValue(),
			registry: member.links.detach(),
		})
	}

	// Destroy the moved-out payloads. Handles dropped by the destructors
	// find dead control blocks and no-op.
	for i := range graveyard {
		destroyValue(&graveyard[i].value)
		graveyard[i].registry = nil
	}

	// Release the implicit strong-weak and free every member no weak
	// handle still needs.
	for member := range cycle {
		if !member.isDead() {
			continue
		}
		releaseStrongWeak(member)
	}
}

// releaseStrongWeak removes the implicit weak reference the strong handles
// held collectively, freeing the control block if no weak handles remain.
func releaseStrongWeak[T any](b *box[T]) {
	b.decWeak()
	if b.weak == 0 {
		b.deallocate()
	}
}
