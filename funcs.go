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
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Equal reports whether m1 and m2 hold the same set of entries, comparing
// values with ==.
func Equal[K, V comparable](m1, m2 *Map[K, V]) bool {
	return EqualFunc(m1, m2, func(a, b V) bool { return a == b })
}

// EqualFunc reports whether m1 and m2 hold the same set of keys with values
// compared by eq.
func EqualFunc[K comparable, V any](m1, m2 *Map[K, V], eq func(a, b V) bool) bool {
	if m1.Len() != m2.Len() {
		return false
	}
	equal := true
	m1.All(func(k K, v1 V) bool {
		v2, ok := m2.Get(k)
		if !ok || !eq(v1, v2) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// String converts m to a string representation, formatting keys and values
// with %v and sorting entries by key for stable output.
func String[K comparable, V any](m *Map[K, V]) string {
	return StringFunc(m,
		func(key K) string { return fmt.Sprintf("%v", key) },
		func(value V) string { return fmt.Sprintf("%v", value) },
	)
}

type strKV struct {
	k string
	v string
}

// StringFunc converts m to a string representation with the help of strK
// and strV to stringify keys and values.
func StringFunc[K comparable, V any](m *Map[K, V],
	strK func(key K) string,
	strV func(value V) string) string {
	if m == nil || m.Len() == 0 {
		return "bucketset.Map[]"
	}
	strs := make([]strKV, 0, m.Len())
	size := 0
	m.All(func(k K, v V) bool {
		kv := strKV{k: strK(k), v: strV(v)}
		size += len(kv.k) + len(kv.v)
		strs = append(strs, kv)
		return true
	})
	slices.SortFunc(strs, func(a, b strKV) bool { return a.k < b.k })

	var b strings.Builder
	b.Grow(len("bucketset.Map[]") +
		len(strs)*2 - 1 +
		size)
	b.WriteString("bucketset.Map[")
	for i, kv := range strs {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(kv.k)
		b.WriteByte(':')
		b.WriteString(kv.v)
	}
	b.WriteByte(']')
	return b.String()
}
