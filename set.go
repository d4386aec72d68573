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

// Set is the degenerate Map with no value payload: membership only.
//
// A Set is NOT goroutine-safe.
type Set[K comparable] struct {
	set *BucketSet[K, struct{}]
}

// NewSet constructs a Set sized for the expected number of keys. See New
// for the hash function and option semantics.
func NewSet[K comparable](expected int, hash Hash[K], options ...option[K, struct{}]) *Set[K] {
	return &Set[K]{set: New(expected, hash, options...)}
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.set.Len()
}

// Add inserts key, reporting whether it was absent.
func (s *Set[K]) Add(key K) bool {
	_, added := s.set.Put(key)
	return added
}

// Contains reports whether key is in the set.
func (s *Set[K]) Contains(key K) bool {
	_, ok := s.set.Get(key)
	return ok
}

// Remove deletes key from the set, reporting whether it was present.
func (s *Set[K]) Remove(key K) bool {
	return s.set.Remove(key, nil)
}

// Redistribute resizes the table to hold the current key count at the given
// load factor.
func (s *Set[K]) Redistribute(loadFactor float64) {
	s.set.Redistribute(loadFactor)
}

// Clear removes all keys. The bucket array keeps its current size.
func (s *Set[K]) Clear() {
	s.set.Clear()
}

// Close clears the set and releases memory retained by the allocator.
func (s *Set[K]) Close() {
	s.set.Close()
}

// All calls yield for every key in one uninterrupted pass, stopping early
// if yield returns false. See BucketSet.All for the mutation rules.
func (s *Set[K]) All(yield func(key K) bool) {
	s.set.All(func(k K, _ *struct{}) bool {
		return yield(k)
	})
}

// Iter returns a forgetful traversal cursor over the set's keys.
func (s *Set[K]) Iter() *Iterator[K, struct{}] {
	return s.set.Iter()
}

// InterruptibleIter returns a traversal cursor that resumes after an early
// break.
func (s *Set[K]) InterruptibleIter() *InterruptibleIterator[K, struct{}] {
	return s.set.InterruptibleIter()
}

// BucketSet returns the underlying table.
func (s *Set[K]) BucketSet() *BucketSet[K, struct{}] {
	return s.set
}
