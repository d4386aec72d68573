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

// bucketInfo maintains table-wide bookkeeping: the total element count,
// per-bucket occupancy counters, and a compacted list of the indexes of
// non-empty buckets. The occupied list lets iteration and resize skip empty
// buckets entirely, which matters for sparse tables sized for a low load
// factor.
//
// The occupied list is unordered: remove compacts it by swapping the last
// entry into the vacated position. Its order is stable only while no bucket
// transitions between empty and non-empty, which is all the iterator
// protocol requires of a single uninterrupted pass.
type bucketInfo struct {
	// length is the total number of elements across all buckets.
	length int
	// counts[i] is the number of elements in bucket i.
	counts []int32
	// occupied holds the index of every bucket with counts[i] > 0.
	occupied []uint32
	// pos[i] is the position of bucket i within occupied, or -1 if bucket i
	// is empty. Gives O(1) swap-removal from the occupied list.
	pos []int32
}

func (bi *bucketInfo) init(numBuckets int) {
	bi.length = 0
	bi.counts = make([]int32, numBuckets)
	bi.occupied = make([]uint32, 0, numBuckets)
	bi.pos = make([]int32, numBuckets)
	for i := range bi.pos {
		bi.pos[i] = -1
	}
}

// create records the first element landing in a previously empty bucket:
// the bucket is appended to the occupied list.
func (bi *bucketInfo) create(index int) {
	if invariants && bi.counts[index] != 0 {
		panic("bucketinfo: create on a non-empty bucket")
	}
	bi.counts[index] = 1
	bi.pos[index] = int32(len(bi.occupied))
	bi.occupied = append(bi.occupied, uint32(index))
	bi.length++
}

// put records a second or later element landing in an already occupied
// bucket.
func (bi *bucketInfo) put(index int) {
	if invariants && bi.counts[index] == 0 {
		panic("bucketinfo: put on an empty bucket")
	}
	bi.counts[index]++
	bi.length++
}

// remove records the removal of one element from a bucket. When the bucket
// becomes empty it is removed from the occupied list by swapping the last
// entry into its slot.
func (bi *bucketInfo) remove(index int) {
	if invariants && bi.counts[index] == 0 {
		panic("bucketinfo: remove on an empty bucket")
	}
	bi.counts[index]--
	bi.length--
	if bi.counts[index] > 0 {
		return
	}
	p := bi.pos[index]
	last := len(bi.occupied) - 1
	moved := bi.occupied[last]
	bi.occupied[p] = moved
	bi.pos[moved] = p
	bi.occupied = bi.occupied[:last]
	bi.pos[index] = -1
}

// clear resets all counters, keeping the backing storage sized for the
// current bucket count.
func (bi *bucketInfo) clear() {
	bi.length = 0
	for _, b := range bi.occupied {
		bi.counts[b] = 0
		bi.pos[b] = -1
	}
	bi.occupied = bi.occupied[:0]
}

// clearResize resets all counters and resizes the backing storage for a new
// bucket count. Used by SetNumBuckets after the bucket array has been
// reallocated.
func (bi *bucketInfo) clearResize(numBuckets int) {
	bi.init(numBuckets)
}
