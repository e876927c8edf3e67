//go:build !nounsafe
// +build !nounsafe

package cactusref

import "unsafe"

// Using unsafe to retrieve the control block's address is markedly faster
// than using reflect, and the address is taken on every node of every
// reachability trace.

// uniqueID returns the control block's address.
func (b *box[T]) uniqueID() uintptr {
	return uintptr(unsafe.Pointer(b))
}
