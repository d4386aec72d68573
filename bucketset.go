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

// Package bucketset implements a chained hash table with a pluggable
// element allocator, an explicit in-place resize primitive, and a resumable
// iteration protocol. It is the substrate for the typed Map and Set
// containers in this package, and is usable directly when callers want to
// hold on to table entries across operations.
//
// # Structure
//
// The table is an array of buckets whose length is always a power of two,
// so a key's bucket is hash(key) masked with len-1. Collisions are handled
// by chaining: each bucket heads a singly linked list of elements. Alongside
// the bucket array the table keeps per-bucket occupancy counters and a
// compacted list of non-empty bucket indexes, so iteration and resize visit
// only occupied buckets no matter how sparse the table is.
//
// Elements are obtained from an Allocator, which owns their lifecycle. The
// default allocator takes individual garbage-collected allocations and
// recycles them through a free list; SlabAllocator instead carves elements
// out of fixed-size blocks, cutting allocation traffic for churn-heavy
// tables. Because elements are never copied or reallocated once created,
// an *Element returned by Get or Put stays valid until that key is removed
// or the table is cleared -- including across resizes.
//
// # Resize
//
// SetNumBuckets changes the bucket count without touching element storage.
// Every live element is first parked in an allocator-provided staging area,
// then the bucket array and its bookkeeping are reallocated, and finally
// each parked element is re-linked into the bucket selected by its key's
// hash under the new mask. The hash is recomputed from the key for each
// element rather than cached; the hash function is required to be pure, so
// the resulting distribution is deterministic. No element is allocated,
// copied, or freed along the way. The operation is a single blocking step
// with O(len) cost; there is no incremental rehash.
//
// # Concurrency
//
// A BucketSet is not goroutine-safe. All operations, including iteration
// steps, run to completion synchronously and callers must serialize access.
package bucketset

import (
	"fmt"
	"math/rand"
)

const (
	debug = false

	// maxBucketsExp2 bounds the bucket array so indexes stay well inside
	// the positive int32 range.
	maxBucketsExp2 = 31

	defaultLoadFactor = 0.75
)

// Hash computes a 64-bit hash of key. Implementations must be pure: equal
// keys hash equally for the lifetime of the table, for any fixed seed. The
// seed is chosen per table at construction.
type Hash[K comparable] func(seed uint64, key K) uint64

// BucketSet is the hash table engine: a power-of-two bucket array, the
// occupancy bookkeeping, and an allocator. Keys are compared with == and
// hashed by the function supplied at construction.
//
// A BucketSet is NOT goroutine-safe.
type BucketSet[K comparable, V any] struct {
	hash Hash[K]
	seed uint64
	// alloc owns every element in the table.
	alloc Allocator[K, V]
	// buckets is always a power-of-two length, mask its length minus one.
	buckets []bucket[K, V]
	mask    uint64
	info    bucketInfo
	// loadFactor is the occupancy ratio above which Put grows the table.
	loadFactor float64
}

// New constructs a BucketSet sized for the expected number of elements at
// the configured load factor (default 0.75, see WithLoadFactor). The hash
// function is required. An expected count of 0 yields a single bucket.
func New[K comparable, V any](expected int, hash Hash[K], options ...option[K, V]) *BucketSet[K, V] {
	if hash == nil {
		panic("bucketset: nil hash function")
	}
	s := &BucketSet[K, V]{
		hash:       hash,
		seed:       rand.Uint64(),
		loadFactor: defaultLoadFactor,
	}
	for _, op := range options {
		op.apply(s)
	}
	if s.alloc == nil {
		s.alloc = NewHeapAllocator[K, V]()
	}
	exp := CalcNumBucketsExp2(expected, s.loadFactor)
	s.buckets = make([]bucket[K, V], 1<<exp)
	s.mask = uint64(len(s.buckets) - 1)
	s.info.init(len(s.buckets))
	s.checkInvariants()
	return s
}

// CalcNumBucketsExp2 returns the smallest exponent e such that 2^e buckets
// hold n elements at the given load factor, i.e. 2^e >= n/loadFactor. A
// loadFactor <= 0 or an exponent beyond the table's index range panics;
// n == 0 yields 0.
func CalcNumBucketsExp2(n int, loadFactor float64) uint {
	if loadFactor <= 0 {
		panic("bucketset: load factor must be > 0")
	}
	if n < 0 {
		panic("bucketset: negative element count")
	}
	if n == 0 {
		return 0
	}
	target := float64(n) / loadFactor
	var exp uint
	for float64(uint64(1)<<exp) < target {
		exp++
		if exp > maxBucketsExp2 {
			panic("bucketset: bucket count overflows the table's index range")
		}
	}
	return exp
}

// Len returns the number of elements in the table.
func (s *BucketSet[K, V]) Len() int {
	return s.info.length
}

// NumBuckets returns the current bucket count, always a power of two.
func (s *BucketSet[K, V]) NumBuckets() int {
	return len(s.buckets)
}

func (s *BucketSet[K, V]) bucketIndex(key K) int {
	return int(s.hash(s.seed, key) & s.mask)
}

// Get returns the element for key, or (nil, false) if the key is absent.
// The element stays valid until the key is removed or the table is cleared.
func (s *BucketSet[K, V]) Get(key K) (*Element[K, V], bool) {
	e := s.buckets[s.bucketIndex(key)].find(key)
	return e, e != nil
}

// MustGet returns the element for key and panics if the key is absent.
// Absence here is a caller bug, not a recoverable condition; use Get to
// probe for a key that may be missing.
func (s *BucketSet[K, V]) MustGet(key K) *Element[K, V] {
	e := s.buckets[s.bucketIndex(key)].find(key)
	if e == nil {
		panic(fmt.Sprintf("bucketset: MustGet of absent key %v", key))
	}
	return e
}

// Put returns the element for key, inserting a fresh zero-valued element if
// the key is absent. The second return value reports whether an insertion
// happened. An insertion that pushes occupancy past the load factor grows
// the table; the returned element remains valid across that growth.
func (s *BucketSet[K, V]) Put(key K) (*Element[K, V], bool) {
	i := s.bucketIndex(key)
	wasEmpty := s.info.counts[i] == 0
	e, added := s.buckets[i].add(key, s.alloc.Allocate)
	if !added {
		return e, false
	}
	if wasEmpty {
		s.info.create(i)
	} else {
		s.info.put(i)
	}
	if float64(s.info.length) > s.loadFactor*float64(len(s.buckets)) {
		s.SetNumBuckets(CalcNumBucketsExp2(s.info.length, s.loadFactor))
	}
	s.checkInvariants()
	return e, true
}

// Remove unlinks the element for key, invokes onRemoved (if non-nil) with
// the element's key and value before recycling it, and returns whether the
// key was present. Removing an absent key is a no-op returning false.
func (s *BucketSet[K, V]) Remove(key K, onRemoved func(key K, value *V)) bool {
	i := s.bucketIndex(key)
	e := s.buckets[i].remove(key)
	if e == nil {
		return false
	}
	s.info.remove(i)
	if onRemoved != nil {
		onRemoved(e.key, &e.value)
	}
	s.alloc.Deallocate(e)
	s.checkInvariants()
	return true
}

// Redistribute resizes the table to hold the current element count at the
// given load factor. It is a convenience wrapper around SetNumBuckets.
func (s *BucketSet[K, V]) Redistribute(loadFactor float64) {
	s.SetNumBuckets(CalcNumBucketsExp2(s.info.length, loadFactor))
}

// SetNumBuckets resizes the bucket array to 2^exp2 slots and re-homes every
// element under the new mask. Elements are parked in an allocator staging
// area, the bucket array and bookkeeping are reallocated, and each parked
// element is re-linked into the bucket its recomputed hash selects. No
// element is allocated, copied, or freed; element pointers held by callers
// remain valid. A target equal to the current bucket count is a no-op.
func (s *BucketSet[K, V]) SetNumBuckets(exp2 uint) {
	if exp2 > maxBucketsExp2 {
		panic("bucketset: bucket count overflows the table's index range")
	}
	newCount := 1 << exp2
	if newCount == len(s.buckets) {
		return
	}
	if debug {
		fmt.Printf("setNumBuckets: %d -> %d buckets, %d elements\n",
			len(s.buckets), newCount, s.info.length)
	}
	s.alloc.Park(s.info.length, func(parked []*Element[K, V]) {
		// Full uninterrupted pass; the cursor is discarded afterwards.
		n := 0
		var c cursor
		s.walkFrom(&c, func(e *Element[K, V]) bool {
			parked[n] = e
			n++
			return true
		})

		s.buckets = make([]bucket[K, V], newCount)
		s.mask = uint64(newCount - 1)
		s.info.clearResize(newCount)

		for _, e := range parked[:n] {
			e.next = nil
			i := s.bucketIndex(e.key)
			if s.info.counts[i] == 0 {
				s.info.create(i)
			} else {
				s.info.put(i)
			}
			s.buckets[i].push(e)
		}
	})
	s.checkInvariants()
}

// Clear recycles every element back to the allocator and resets the
// bookkeeping. The bucket array keeps its current size.
func (s *BucketSet[K, V]) Clear() {
	for _, bi := range s.info.occupied {
		b := &s.buckets[bi]
		for e := b.head; e != nil; {
			next := e.next
			s.alloc.Deallocate(e)
			e = next
		}
		b.head = nil
	}
	s.info.clear()
	s.checkInvariants()
}

// Close clears the table and releases any memory the allocator retained.
// The table remains usable; subsequent inserts obtain fresh memory.
func (s *BucketSet[K, V]) Close() {
	s.Clear()
	s.alloc.Release()
}

// checkInvariants verifies the table's structural invariants. It is a no-op
// unless built with -tags invariants.
func (s *BucketSet[K, V]) checkInvariants() {
	if !invariants {
		return
	}
	if n := len(s.buckets); n == 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("invariant failed: bucket count %d is not a power of two", n))
	}
	if s.mask != uint64(len(s.buckets)-1) {
		panic(fmt.Sprintf("invariant failed: mask %#x with %d buckets", s.mask, len(s.buckets)))
	}
	total := 0
	for i := range s.buckets {
		n := 0
		for e := s.buckets[i].head; e != nil; e = e.next {
			if got := s.bucketIndex(e.key); got != i {
				panic(fmt.Sprintf("invariant failed: key %v hashes to bucket %d but chained in %d",
					e.key, got, i))
			}
			n++
		}
		if int(s.info.counts[i]) != n {
			panic(fmt.Sprintf("invariant failed: bucket %d holds %d elements, occupancy records %d",
				i, n, s.info.counts[i]))
		}
		if (n == 0) != (s.info.pos[i] < 0) {
			panic(fmt.Sprintf("invariant failed: bucket %d occupancy %d disagrees with occupied list",
				i, n))
		}
		if n > 0 && s.info.occupied[s.info.pos[i]] != uint32(i) {
			panic(fmt.Sprintf("invariant failed: occupied list position for bucket %d is stale", i))
		}
		total += n
	}
	if total != s.info.length {
		panic(fmt.Sprintf("invariant failed: found %d elements, length records %d",
			total, s.info.length))
	}
}
