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

func TestBucketInfoCreatePutRemove(t *testing.T) {
	var bi bucketInfo
	bi.init(8)
	require.Equal(t, 0, bi.length)
	require.Empty(t, bi.occupied)

	bi.create(3)
	require.Equal(t, 1, bi.length)
	require.EqualValues(t, []uint32{3}, bi.occupied)
	require.EqualValues(t, 0, bi.pos[3])

	bi.put(3)
	bi.create(5)
	bi.create(1)
	require.Equal(t, 4, bi.length)
	require.EqualValues(t, []uint32{3, 5, 1}, bi.occupied)

	// Bucket 3 holds two elements; removing one keeps it occupied.
	bi.remove(3)
	require.Equal(t, 3, bi.length)
	require.EqualValues(t, []uint32{3, 5, 1}, bi.occupied)

	// Removing the last element swap-compacts the occupied list.
	bi.remove(3)
	require.Equal(t, 2, bi.length)
	require.EqualValues(t, []uint32{1, 5}, bi.occupied)
	require.EqualValues(t, -1, bi.pos[3])
	require.EqualValues(t, 0, bi.pos[1])
	require.EqualValues(t, 1, bi.pos[5])

	bi.remove(5)
	bi.remove(1)
	require.Equal(t, 0, bi.length)
	require.Empty(t, bi.occupied)
}

func TestBucketInfoClear(t *testing.T) {
	var bi bucketInfo
	bi.init(4)
	bi.create(0)
	bi.put(0)
	bi.create(2)

	bi.clear()
	require.Equal(t, 0, bi.length)
	require.Empty(t, bi.occupied)
	for i := 0; i < 4; i++ {
		require.EqualValues(t, 0, bi.counts[i])
		require.EqualValues(t, -1, bi.pos[i])
	}
	// Backing storage keeps its size after clear.
	require.Len(t, bi.counts, 4)
}

func TestBucketInfoClearResize(t *testing.T) {
	var bi bucketInfo
	bi.init(4)
	bi.create(1)
	bi.create(3)

	bi.clearResize(16)
	require.Equal(t, 0, bi.length)
	require.Len(t, bi.counts, 16)
	require.Len(t, bi.pos, 16)
	require.Empty(t, bi.occupied)

	bi.create(15)
	require.Equal(t, 1, bi.length)
	require.EqualValues(t, []uint32{15}, bi.occupied)
}
