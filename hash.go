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
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Ready-made Hash implementations for common key shapes. Aggregate key
// types supply their own Hash, typically by combining BytesHash or
// IntegerHash over their fields. Whatever the implementation, it must be
// pure: the hash of a key is recomputed on every resize and is required to
// land the key in a deterministic bucket.

// StringHash hashes a string key with xxHash, folding in the table seed.
func StringHash(seed uint64, key string) uint64 {
	return mix64(xxhash.Sum64String(key) ^ seed)
}

// BytesHash hashes raw bytes with xxHash, folding in the seed. A []byte is
// not a comparable key type, so BytesHash is not itself a Hash; it is a
// building block for hashing the byte-like fields of aggregate keys.
func BytesHash(seed uint64, key []byte) uint64 {
	return mix64(xxhash.Sum64(key) ^ seed)
}

// IntegerHash hashes an integer key of any width.
func IntegerHash[K constraints.Integer](seed uint64, key K) uint64 {
	return mix64(uint64(key) + seed)
}

// mix64 is the splitmix64 finalizer. It drives the seed and every input
// bit into the low bits, which is what bucket masking looks at.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
