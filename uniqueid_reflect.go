//go:build nounsafe
// +build nounsafe

package cactusref

import "reflect"

// The default implementation of uniqueID uses unsafe.Pointer. If you can't
// use packages importing unsafe, you can build with -tags=nounsafe to select
// this implementation instead at a performance penalty in cycle detection.

// uniqueID returns the control block's address.
func (b *box[T]) uniqueID() uintptr {
	return reflect.ValueOf(b).Pointer()
}
