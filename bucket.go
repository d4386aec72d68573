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

// Element is a single key/value record stored in a BucketSet. An Element is
// owned by exactly one bucket chain while it is live, by the allocator's
// free pool after removal, and transiently by the allocator's parking area
// during a resize. Pointers to an Element remain valid across resizes:
// SetNumBuckets re-links elements under the new mask but never reallocates
// or copies them.
type Element[K comparable, V any] struct {
	key   K
	value V
	next  *Element[K, V]
}

// Key returns the element's key. The key must not be mutated through any
// alias while the element is in a table; doing so desynchronizes the key
// from its bucket and corrupts the table.
func (e *Element[K, V]) Key() K {
	return e.key
}

// Value returns a pointer to the element's value. Mutating the value in
// place is supported, including during iteration.
func (e *Element[K, V]) Value() *V {
	return &e.value
}

// bucket is one slot of the hash table: the head of a singly linked chain
// of elements whose keys hash to this slot. Per-bucket occupancy is not
// stored here; it lives in bucketInfo.
type bucket[K comparable, V any] struct {
	head *Element[K, V]
}

// find returns the element with the given key, or nil. Linear scan of the
// chain.
func (b *bucket[K, V]) find(key K) *Element[K, V] {
	for e := b.head; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

// add returns the element with the given key, allocating one via newElement
// and linking it at the head of the chain if no such element exists. The
// second return value reports whether a new element was created.
func (b *bucket[K, V]) add(key K, newElement func() *Element[K, V]) (*Element[K, V], bool) {
	if e := b.find(key); e != nil {
		return e, false
	}
	e := newElement()
	e.key = key
	e.next = b.head
	b.head = e
	return e, true
}

// remove unlinks and returns the element with the given key, or nil if the
// key is absent. Ownership of the unlinked element passes to the caller;
// remove does not recycle it.
func (b *bucket[K, V]) remove(key K) *Element[K, V] {
	var prev *Element[K, V]
	for e := b.head; e != nil; prev, e = e, e.next {
		if e.key != key {
			continue
		}
		if prev == nil {
			b.head = e.next
		} else {
			prev.next = e.next
		}
		e.next = nil
		return e
	}
	return nil
}

// push links an element at the head of the chain without scanning for
// duplicates. Used by the resize re-link step which knows every parked key
// is unique.
func (b *bucket[K, V]) push(e *Element[K, V]) {
	e.next = b.head
	b.head = e
}
