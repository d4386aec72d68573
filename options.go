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

// option configures a BucketSet while it is being created.
type option[K comparable, V any] interface {
	apply(s *BucketSet[K, V])
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(s *BucketSet[K, V]) {
	s.alloc = op.allocator
}

// WithAllocator selects the Allocator a BucketSet obtains its elements
// from. The default is a HeapAllocator. The allocator must not be shared
// with another table.
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) option[K, V] {
	return allocatorOption[K, V]{allocator}
}

type loadFactorOption[K comparable, V any] struct {
	loadFactor float64
}

func (op loadFactorOption[K, V]) apply(s *BucketSet[K, V]) {
	s.loadFactor = op.loadFactor
}

// WithLoadFactor sets the occupancy ratio above which Put grows the table,
// and the ratio initial sizing is computed against. Must be > 0; lower
// values trade memory for shorter chains. The default is 0.75.
func WithLoadFactor[K comparable, V any](loadFactor float64) option[K, V] {
	if loadFactor <= 0 {
		panic("bucketset: load factor must be > 0")
	}
	return loadFactorOption[K, V]{loadFactor}
}

type seedOption[K comparable, V any] struct {
	seed uint64
}

func (op seedOption[K, V]) apply(s *BucketSet[K, V]) {
	s.seed = op.seed
}

// WithSeed fixes the hash seed instead of drawing a random one. Useful for
// reproducing a specific bucket distribution; production tables should keep
// the random default.
func WithSeed[K comparable, V any](seed uint64) option[K, V] {
	return seedOption[K, V]{seed}
}
