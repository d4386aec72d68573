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

// Map is the typed convenience layer over BucketSet: value-typed get and
// put, probe-without-assert lookups, and iteration. Operations that return
// a *V hand out a pointer into the element itself; it stays valid until the
// key is removed or the map is cleared, including across resizes.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	set *BucketSet[K, V]
}

// NewMap constructs a Map sized for the expected number of entries. See New
// for the hash function and option semantics.
func NewMap[K comparable, V any](expected int, hash Hash[K], options ...option[K, V]) *Map[K, V] {
	return &Map[K, V]{set: New(expected, hash, options...)}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.set.Len()
}

// Put associates key with value, inserting or overwriting, and reports
// whether a new entry was inserted.
func (m *Map[K, V]) Put(key K, value V) bool {
	e, added := m.set.Put(key)
	e.value = value
	return added
}

// PutNew associates key with value only if the key is absent, reporting
// whether an entry was inserted. An existing entry is left untouched; use
// Put to overwrite.
func (m *Map[K, V]) PutNew(key K, value V) bool {
	e, added := m.set.Put(key)
	if !added {
		return false
	}
	e.value = value
	return true
}

// Get returns the value for key, or (zero, false) if the key is absent.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if e, ok := m.set.Get(key); ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Ref returns a pointer to the value for key, which must be present:
// looking up an absent key is a caller bug and panics. Use Get or Contains
// to probe. The pointer supports in-place updates and stays valid until the
// key is removed or the map is cleared.
func (m *Map[K, V]) Ref(key K) *V {
	return &m.set.MustGet(key).value
}

// Contains reports whether key is in the map.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.set.Get(key)
	return ok
}

// Remove deletes key from the map, reporting whether it was present.
func (m *Map[K, V]) Remove(key K) bool {
	return m.set.Remove(key, nil)
}

// RemoveFunc deletes key from the map, invoking onRemoved with the removed
// entry before its storage is recycled. It reports whether the key was
// present; onRemoved is not called for an absent key.
func (m *Map[K, V]) RemoveFunc(key K, onRemoved func(key K, value V)) bool {
	return m.set.Remove(key, func(k K, v *V) {
		onRemoved(k, *v)
	})
}

// Redistribute resizes the table to hold the current entry count at the
// given load factor.
func (m *Map[K, V]) Redistribute(loadFactor float64) {
	m.set.Redistribute(loadFactor)
}

// Clear removes all entries. The bucket array keeps its current size.
func (m *Map[K, V]) Clear() {
	m.set.Clear()
}

// Close clears the map and releases memory retained by the allocator.
func (m *Map[K, V]) Close() {
	m.set.Close()
}

// All calls yield for every entry in one uninterrupted pass, stopping early
// if yield returns false. See BucketSet.All for the mutation rules.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	m.set.All(func(k K, v *V) bool {
		return yield(k, *v)
	})
}

// Iter returns a forgetful traversal cursor over the map's entries.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	return m.set.Iter()
}

// InterruptibleIter returns a traversal cursor that resumes after an early
// break.
func (m *Map[K, V]) InterruptibleIter() *InterruptibleIterator[K, V] {
	return m.set.InterruptibleIter()
}

// BucketSet returns the underlying table, for callers that need the
// element-level API.
func (m *Map[K, V]) BucketSet() *BucketSet[K, V] {
	return m.set
}
