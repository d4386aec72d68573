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

// cursor is the traversal state shared by both iterator flavors and by the
// internal full passes in SetNumBuckets: the position within the
// occupied-bucket list, the ordinal within the current bucket's chain, and
// the number of elements visited in the current logical pass.
type cursor struct {
	bucketPos int
	elemPos   int
	count     int
	finished  bool
}

func (c *cursor) reset() {
	*c = cursor{finished: true}
}

// walkFrom resumes the walk described by c, invoking visit for each element
// and returning whether the pass ran to completion. Buckets are visited in
// occupied-list order and, within a bucket, in chain order from the head.
// When visit returns false the cursor is left positioned just past the
// element that stopped the walk, so a later walkFrom with the same cursor
// resumes there. Elements removed ahead of the recorded position are
// tolerated (the ordinal simply lands earlier in the chain); removals
// behind it, or any bucket-count change, invalidate the cursor.
func (s *BucketSet[K, V]) walkFrom(c *cursor, visit func(e *Element[K, V]) bool) bool {
	c.finished = false
	for ; c.bucketPos < len(s.info.occupied); c.bucketPos++ {
		e := s.buckets[s.info.occupied[c.bucketPos]].head
		for skip := c.elemPos; skip > 0 && e != nil; skip-- {
			e = e.next
		}
		for ; e != nil; e = e.next {
			c.elemPos++
			c.count++
			if !visit(e) {
				if e.next == nil && c.bucketPos == len(s.info.occupied)-1 {
					// The break landed on the final element, so the pass has
					// in fact visited everything.
					c.finished = true
					return true
				}
				return false
			}
		}
		c.elemPos = 0
	}
	c.finished = true
	return true
}

// All calls yield for every element in the table in a single uninterrupted
// pass, stopping early if yield returns false. A full pass visits every
// element exactly once. The table must not be structurally mutated (insert,
// remove, clear, resize) during the pass; mutating values in place through
// the pointer is supported and is the intended way to update in bulk.
func (s *BucketSet[K, V]) All(yield func(key K, value *V) bool) {
	var c cursor
	s.walkFrom(&c, func(e *Element[K, V]) bool {
		return yield(e.key, &e.value)
	})
}

// Iterator is a traversal cursor that forgets an early break: every pass
// started by Each begins at the first element regardless of how the
// previous pass ended.
type Iterator[K comparable, V any] struct {
	s *BucketSet[K, V]
	c cursor
}

// Iter returns an Iterator over the table.
func (s *BucketSet[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{s: s, c: cursor{finished: true}}
}

// Each runs one pass from the start of the table, stopping early if visit
// returns false. The cursor rewinds afterwards whether or not the pass was
// interrupted. The structural mutation rules of All apply.
func (it *Iterator[K, V]) Each(visit func(key K, value *V) bool) {
	it.s.walkFrom(&it.c, func(e *Element[K, V]) bool {
		return visit(e.key, &e.value)
	})
	it.c.reset()
}

// InterruptibleIterator is a traversal cursor that survives an early break:
// when a pass stops because visit returned false, the next Each resumes
// immediately after the element that stopped it. Only a completed pass, or
// an explicit Reset, rewinds to the start.
//
// The table must not be structurally mutated between the resumed calls of
// one logical pass, or the resumed position may skip or re-visit elements.
type InterruptibleIterator[K comparable, V any] struct {
	s *BucketSet[K, V]
	c cursor
}

// InterruptibleIter returns an InterruptibleIterator over the table.
func (s *BucketSet[K, V]) InterruptibleIter() *InterruptibleIterator[K, V] {
	return &InterruptibleIterator[K, V]{s: s, c: cursor{finished: true}}
}

// Each resumes (or begins) a pass, stopping early if visit returns false,
// and reports whether the pass ran to completion.
func (it *InterruptibleIterator[K, V]) Each(visit func(key K, value *V) bool) bool {
	if it.c.finished {
		it.c.reset()
	}
	return it.s.walkFrom(&it.c, func(e *Element[K, V]) bool {
		return visit(e.key, &e.value)
	})
}

// Finished reports whether the last pass ran to completion. It is true for
// a fresh iterator.
func (it *InterruptibleIterator[K, V]) Finished() bool {
	return it.c.finished
}

// Visited returns the number of elements visited in the current logical
// pass, accumulated across resumed calls.
func (it *InterruptibleIterator[K, V]) Visited() int {
	return it.c.count
}

// Reset rewinds the iterator to the start of the table.
func (it *InterruptibleIterator[K, V]) Reset() {
	it.c.reset()
}
