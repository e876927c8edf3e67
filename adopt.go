package cactusref

// Adopt records that owner's value holds a strong handle to owned's
// allocation. Adoption is a directed edge in the object graph meaning
// "owner owns owned".
//
// Adopt can be called multiple times for the same pair; each call records
// one more distinct owned clone. Adopt never touches a reference count: the
// strong count is carried by the clone stored in the owner's value.
//
// Callers must ensure the owner actually holds the claimed clone. Recording
// an edge that has no backing clone can cause the collector to reclaim
// allocations that are still reachable. Callers should call Unadopt when
// the owned clone is dropped; failing to do so is safe but may leak.
func Adopt[T any](owner, owned *Rc[T]) {
	a, b := owner.inner(), owned.inner()
	if a == b {
		a.links.insert(loopbackTo(a))
		return
	}
	a.links.insert(forwardTo(b))
	b.links.insert(backwardTo(a))
}

// Unadopt records that owner no longer holds one owned clone of owned's
// allocation, removing one edge recorded by Adopt. Unadopt is best-effort:
// removing an edge that was never recorded is a safe no-op.
func Unadopt[T any](owner, owned *Rc[T]) {
	a, b := owner.inner(), owned.inner()
	if a == b {
		a.links.remove(loopbackTo(a), 1)
		return
	}
	a.links.remove(forwardTo(b), 1)
	b.links.remove(backwardTo(a), 1)
}

// Tracer is implemented by payloads that can enumerate the strong handles
// they own. Mark is called once per owned handle; implementations must not
// drop or clone handles while yielding.
type Tracer[T any] interface {
	YieldOwnedRcs(mark func(*Rc[T]))
}

// AdoptTraced records the adoption only if owner's payload yields a handle
// to owned's allocation, discharging Adopt's caller contract at run time.
// It reports whether an edge was recorded. Payloads that do not implement
// Tracer never record an edge through this function.
func AdoptTraced[T any](owner, owned *Rc[T]) bool {
	tr, ok := any(owner.Value()).(Tracer[T])
	if !ok {
		return false
	}
	target := owned.inner()
	found := false
	tr.YieldOwnedRcs(func(rc *Rc[T]) {
		if found || rc == nil || rc.ptr == nil {
			return
		}
		if rc.ptr == target {
			found = true
		}
	})
	if found {
		Adopt(owner, owned)
	}
	return found
}
