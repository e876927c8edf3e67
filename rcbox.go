package cactusref

import "fmt"

// uninitialized is the sentinel strong count marking a control block whose
// value storage has been torn down. A block with this count is dead but its
// registry and weak count may still be live; weak handles observe it as
// expired.
const uninitialized = ^uint(0)

// Destroyer is implemented by payloads that must release resources when
// their allocation is reclaimed. Destroy is called exactly once, after the
// allocation has been marked dead; strong handles dropped inside Destroy
// that belong to the same cycle no-op instead of recursing.
type Destroyer interface {
	Destroy()
}

// box is the control block of one allocation. It holds the payload, the
// strong and weak counts, and the registry of adoption edges adjacent to
// the allocation.
//
// The weak count includes one implicit reference held collectively by the
// strong handles while strong > 0, so the control block always outlives the
// payload for the weak cleanup path. The registry likewise outlives the
// payload: peers consult it after the value has been destroyed, during
// cycle teardown.
type box[T any] struct {
	strong uint
	weak   uint
	links  links[T]
	value  T
}

func newBox[T any](value T) *box[T] {
	return &box[T]{strong: 1, weak: 1, value: value}
}

// incStrong panics instead of wrapping: a wrapped counter frees a live
// allocation, and incrementing a zero count resurrects a dead one.
func (b *box[T]) incStrong() {
	if b.strong == 0 || b.strong == uninitialized || b.strong+1 == uninitialized {
		panic(fmt.Sprintf("cactusref: strong count %#x cannot be incremented", b.strong))
	}
	b.strong++
}

// decStrong saturates at zero so cycle teardown can call it without
// tracking exact counts.
func (b *box[T]) decStrong() {
	if b.strong == 0 || b.strong == uninitialized {
		return
	}
	b.strong--
}

func (b *box[T]) incWeak() {
	if b.weak == 0 || b.weak == uninitialized || b.weak+1 == uninitialized {
		panic(fmt.Sprintf("cactusref: weak count %#x cannot be incremented", b.weak))
	}
	b.weak++
}

func (b *box[T]) decWeak() {
	if b.weak == 0 {
		return
	}
	b.weak--
}

func (b *box[T]) isDead() bool {
	return b.strong == 0 || b.strong == uninitialized
}

func (b *box[T]) isUninit() bool {
	return b.strong == uninitialized
}

// makeUninit marks the value storage as torn down. Idempotent; repeated
// calls during cycle teardown are no-ops.
func (b *box[T]) makeUninit() {
	b.strong = uninitialized
}

// takeValue moves the payload out of the control block, leaving the storage
// zeroed so the payload's references cannot be reached through the block
// again.
func (b *box[T]) takeValue() T {
	var zero T
	v := b.value
	b.value = zero
	return v
}

// deallocate releases the control block once no handle of any kind needs
// it. The Go runtime reclaims the memory when the last pointer disappears;
// dropping the registry here breaks any remaining chains into the rest of
// the graph.
func (b *box[T]) deallocate() {
	b.links.clear()
	log.Tracef("deallocated control block %#x", b.uniqueID())
}

// destroyValue runs the payload's destructor, if it has one. The value has
// already been moved out of its control block, so recursive drops triggered
// by the destructor observe a dead allocation.
func destroyValue[T any](v *T) {
	if d, ok := any(v).(Destroyer); ok {
		d.Destroy()
		return
	}
	if d, ok := any(*v).(Destroyer); ok {
		d.Destroy()
	}
}
