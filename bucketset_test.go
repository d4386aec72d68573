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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcNumBucketsExp2(t *testing.T) {
	testCases := []struct {
		n          int
		loadFactor float64
		expected   uint
	}{
		{0, 0.75, 0},
		{0, 100, 0},
		{1, 1, 0},
		{1, 0.75, 1},
		{2, 1, 1},
		{3, 1, 2},
		{10, 0.75, 4}, // 10/0.75 = 13.33 -> 16 buckets
		{13, 1, 4},
		{16, 1, 4},
		{17, 1, 5},
		{20, 0.5, 6}, // 20/0.5 = 40 -> 64 buckets
		{1000, 0.75, 11},
	}
	for _, c := range testCases {
		got := CalcNumBucketsExp2(c.n, c.loadFactor)
		require.Equalf(t, c.expected, got, "n=%d loadFactor=%v", c.n, c.loadFactor)
	}

	require.Panics(t, func() { CalcNumBucketsExp2(10, 0) })
	require.Panics(t, func() { CalcNumBucketsExp2(10, -1) })
	require.Panics(t, func() { CalcNumBucketsExp2(-1, 0.75) })
}

func TestBucketSetPutGet(t *testing.T) {
	s := New[int, string](0, IntegerHash[int])

	e, added := s.Put(1)
	require.True(t, added)
	*e.Value() = "one"

	e, added = s.Put(1)
	require.False(t, added)
	require.Equal(t, "one", *e.Value())
	require.Equal(t, 1, e.Key())

	got, ok := s.Get(1)
	require.True(t, ok)
	require.Same(t, e, got)

	_, ok = s.Get(2)
	require.False(t, ok)
	require.EqualValues(t, 1, s.Len())
}

func TestBucketSetMustGet(t *testing.T) {
	s := New[int, int](0, IntegerHash[int])
	s.Put(5)
	require.NotNil(t, s.MustGet(5))
	require.Panics(t, func() {
		s.MustGet(6)
	})
}

func TestBucketSetRemove(t *testing.T) {
	s := New[int, int](0, IntegerHash[int])

	// Removing an absent key leaves the length unchanged.
	require.False(t, s.Remove(1, nil))
	require.EqualValues(t, 0, s.Len())

	e, _ := s.Put(1)
	*e.Value() = 11
	s.Put(2)

	var cbKey, cbValue int
	require.True(t, s.Remove(1, func(k int, v *int) {
		cbKey, cbValue = k, *v
	}))
	require.Equal(t, 1, cbKey)
	require.Equal(t, 11, cbValue)
	require.EqualValues(t, 1, s.Len())

	require.False(t, s.Remove(1, nil))
	require.EqualValues(t, 1, s.Len())
}

func TestPowerOfTwoInvariant(t *testing.T) {
	s := New[int, int](0, IntegerHash[int])
	check := func() {
		n := s.NumBuckets()
		require.Positive(t, n)
		require.Zero(t, n&(n-1), "bucket count %d is not a power of two", n)
		require.EqualValues(t, n-1, s.mask)
	}

	check()
	for i := 0; i < 1000; i++ {
		s.Put(i)
		check()
	}
	for _, exp := range []uint{3, 0, 12, 7} {
		s.SetNumBuckets(exp)
		check()
	}
	for i := 0; i < 1000; i += 2 {
		s.Remove(i, nil)
		check()
	}
}

func TestSetNumBucketsPreservesContent(t *testing.T) {
	testIntAllocators(t, func(t *testing.T, alloc Allocator[int, int]) {
		const count = 300
		s := New[int, int](count, IntegerHash[int], WithAllocator(alloc))
		for i := 0; i < count; i++ {
			e, _ := s.Put(i)
			*e.Value() = i * 7
		}

		snapshot := func() map[int]int {
			r := make(map[int]int)
			s.All(func(k int, v *int) bool {
				r[k] = *v
				return true
			})
			return r
		}
		before := snapshot()
		require.Len(t, before, count)

		// Both shrinking and growing re-home every element without losing
		// or duplicating any.
		for _, exp := range []uint{2, 10, 0, 9, 5} {
			s.SetNumBuckets(exp)
			require.Equal(t, 1<<exp, s.NumBuckets())
			require.EqualValues(t, count, s.Len())
			require.Equal(t, before, snapshot())
		}
	})
}

func TestSetNumBucketsKeepsElementPointers(t *testing.T) {
	s := New[int, int](16, IntegerHash[int])
	elems := make(map[int]*Element[int, int])
	for i := 0; i < 50; i++ {
		e, _ := s.Put(i)
		*e.Value() = i
		elems[i] = e
	}

	// Resize relinks elements; it never reallocates or copies them.
	s.SetNumBuckets(8)
	s.SetNumBuckets(1)
	for i, e := range elems {
		got := s.MustGet(i)
		require.Same(t, e, got)
		require.Equal(t, i, *got.Value())
	}
}

func TestSetNumBucketsNoop(t *testing.T) {
	s := New[int, int](10, IntegerHash[int])
	n := s.NumBuckets()
	exp := uint(0)
	for 1<<exp < n {
		exp++
	}
	s.SetNumBuckets(exp)
	require.Equal(t, n, s.NumBuckets())

	require.Panics(t, func() {
		s.SetNumBuckets(maxBucketsExp2 + 1)
	})
}

func TestAutoGrow(t *testing.T) {
	s := New[int, int](10, IntegerHash[int], WithLoadFactor[int, int](0.75))
	require.Equal(t, 16, s.NumBuckets())

	for i := 0; i < 100; i++ {
		s.Put(i)
	}
	require.EqualValues(t, 100, s.Len())
	// Occupancy stays at or below the configured load factor.
	require.LessOrEqual(t, float64(s.Len()), 0.75*float64(s.NumBuckets()))
	for i := 0; i < 100; i++ {
		_, ok := s.Get(i)
		require.True(t, ok)
	}
}

func TestOccupiedBucketTracking(t *testing.T) {
	s := New[int, int](0, IntegerHash[int], WithSeed[int, int](42))
	for i := 0; i < 64; i++ {
		s.Put(i)
	}

	// Every occupancy count agrees with the actual chains, and the occupied
	// list covers exactly the non-empty buckets.
	occupied := 0
	for i := range s.buckets {
		n := 0
		for e := s.buckets[i].head; e != nil; e = e.next {
			n++
		}
		require.EqualValues(t, n, s.info.counts[i])
		if n > 0 {
			occupied++
			require.EqualValues(t, i, s.info.occupied[s.info.pos[i]])
		} else {
			require.EqualValues(t, -1, s.info.pos[i])
		}
	}
	require.Equal(t, occupied, len(s.info.occupied))
	require.Equal(t, 64, s.info.length)
}

func TestNewValidation(t *testing.T) {
	require.Panics(t, func() {
		New[int, int](0, nil)
	})
	require.Panics(t, func() {
		WithLoadFactor[int, int](0)
	})
	require.Panics(t, func() {
		WithLoadFactor[int, int](-0.5)
	})
}
