// Copyright 2024 The Bucketset Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bucketset

import "reflect"

// Allocator owns the lifecycle of a BucketSet's elements. An allocator
// instance is bound to a single BucketSet and must not be shared between
// tables.
//
// Allocation failure is not a recoverable condition: a table that cannot
// obtain a slot for a key it has committed to inserting cannot safely
// continue, so Allocate panics (or aborts via the runtime) rather than
// returning an error.
type Allocator[K comparable, V any] interface {
	// Allocate returns a zero-initialized element. It never returns nil.
	Allocate() *Element[K, V]

	// Deallocate returns an element to the free pool for reuse. The element
	// must not be referenced by any bucket chain.
	Deallocate(e *Element[K, V])

	// Park allocates a transient staging area holding exactly n element
	// handles, invokes fn with it, and discards it when fn returns. The
	// staging area is indexable, not a queue: the resize algorithm fills it
	// in walk order and drains it by index. Elements placed in the staging
	// area are considered live for the duration of fn.
	Park(n int, fn func(parked []*Element[K, V]))

	// Release drops the free pool and any memory retained for reuse. The
	// allocator remains usable; subsequent Allocate calls obtain fresh
	// memory.
	Release()
}

// HeapAllocator is the default allocation strategy: every element is an
// individual garbage-collected allocation, recycled through a free list.
// It is safe by construction for keys and values containing references.
type HeapAllocator[K comparable, V any] struct {
	free *Element[K, V]
}

// NewHeapAllocator returns an empty HeapAllocator.
func NewHeapAllocator[K comparable, V any]() *HeapAllocator[K, V] {
	return &HeapAllocator[K, V]{}
}

// Allocate implements Allocator.
func (a *HeapAllocator[K, V]) Allocate() *Element[K, V] {
	if e := a.free; e != nil {
		a.free = e.next
		e.next = nil
		return e
	}
	return &Element[K, V]{}
}

// Deallocate implements Allocator. The element's key and value are zeroed
// so that references they held do not outlive the entry.
func (a *HeapAllocator[K, V]) Deallocate(e *Element[K, V]) {
	var zeroK K
	var zeroV V
	e.key = zeroK
	e.value = zeroV
	e.next = a.free
	a.free = e
}

// Park implements Allocator.
func (a *HeapAllocator[K, V]) Park(n int, fn func(parked []*Element[K, V])) {
	fn(make([]*Element[K, V], n))
}

// Release implements Allocator, dropping the free list.
func (a *HeapAllocator[K, V]) Release() {
	a.free = nil
}

// defaultSlabSize is the number of elements carved from one slab.
const defaultSlabSize = 1024

// SlabAllocator allocates elements in fixed-size slabs and recycles slots
// through an intrusive free list threaded over the element next pointers.
// Compared to HeapAllocator it trades peak memory for far fewer individual
// allocations and less collector pressure on churn-heavy tables.
//
// Whether freed slots must be scrubbed is decided once at construction, by
// reflecting on the key and value types: if neither contains references,
// a freed slot cannot pin memory and scrubbing is skipped on Deallocate.
// Allocate always returns a zero-initialized slot either way.
type SlabAllocator[K comparable, V any] struct {
	slabSize int
	slabs    [][]Element[K, V]
	free     *Element[K, V]
	// scrub is true if K or V can transitively contain references, in which
	// case freed slots are zeroed immediately so the slab (which stays
	// live) does not pin dead keys or values.
	scrub bool
	// staging is reused across Park calls.
	staging []*Element[K, V]
}

// NewSlabAllocator returns a SlabAllocator carving slabs of slabSize
// elements. A slabSize <= 0 selects a default.
func NewSlabAllocator[K comparable, V any](slabSize int) *SlabAllocator[K, V] {
	if slabSize <= 0 {
		slabSize = defaultSlabSize
	}
	return &SlabAllocator[K, V]{
		slabSize: slabSize,
		scrub: typeHasReferences(reflect.TypeOf((*K)(nil)).Elem()) ||
			typeHasReferences(reflect.TypeOf((*V)(nil)).Elem()),
	}
}

// Scrubs reports whether the allocator zeroes freed slots. Exposed for
// inspection; the decision is fixed at construction.
func (a *SlabAllocator[K, V]) Scrubs() bool {
	return a.scrub
}

// Allocate implements Allocator.
func (a *SlabAllocator[K, V]) Allocate() *Element[K, V] {
	if a.free == nil {
		a.grow()
	}
	e := a.free
	a.free = e.next
	if !a.scrub {
		// Scrubbing types are zeroed on Deallocate and slabs start zeroed,
		// so only non-scrubbing types can hold stale bytes here.
		var zero Element[K, V]
		*e = zero
	}
	e.next = nil
	return e
}

func (a *SlabAllocator[K, V]) grow() {
	slab := make([]Element[K, V], a.slabSize)
	a.slabs = append(a.slabs, slab)
	for i := range slab {
		slab[i].next = a.free
		a.free = &slab[i]
	}
}

// Deallocate implements Allocator.
func (a *SlabAllocator[K, V]) Deallocate(e *Element[K, V]) {
	if a.scrub {
		var zeroK K
		var zeroV V
		e.key = zeroK
		e.value = zeroV
	}
	e.next = a.free
	a.free = e
}

// Park implements Allocator. The staging area is retained between calls so
// repeated resizes of a large table do not reallocate it.
func (a *SlabAllocator[K, V]) Park(n int, fn func(parked []*Element[K, V])) {
	if cap(a.staging) < n {
		a.staging = make([]*Element[K, V], n)
	}
	s := a.staging[:n]
	fn(s)
	for i := range s {
		s[i] = nil
	}
}

// Release implements Allocator, dropping all slabs and the free list. Any
// element still held by a table after Release is dangling; Release is only
// safe once the owning table has been cleared.
func (a *SlabAllocator[K, V]) Release() {
	a.slabs = nil
	a.free = nil
	a.staging = nil
}

// typeHasReferences reports whether a value of type t can transitively
// contain a reference into the Go heap.
func typeHasReferences(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasReferences(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasReferences(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointers, strings, slices, maps, channels, funcs, interfaces and
		// unsafe pointers all reference heap memory.
		return true
	}
}
