// Copyright IKOS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package patricia

type unit = struct{}

// Set is a persistent set of Keys, built directly on Map[unit].
type Set struct {
	m Map[unit]
}

// EmptySet returns the empty set.
func EmptySet() Set { return Set{Empty[unit]()} }

// SetOf builds a set from a slice of keys.
func SetOf(keys ...Key) Set {
	s := EmptySet()
	for _, k := range keys {
		s = s.Insert(k)
	}
	return s
}

// IsEmpty reports whether the set has no elements.
func (s Set) IsEmpty() bool { return s.m.IsEmpty() }

// Contains reports whether k is a member.
func (s Set) Contains(k Key) bool { return s.m.Contains(k) }

// Insert returns a new set with k added.
func (s Set) Insert(k Key) Set { return Set{s.m.Insert(k, unit{})} }

// Remove returns a new set with k removed.
func (s Set) Remove(k Key) Set { return Set{s.m.Remove(k)} }

// Filter returns a new set containing only elements for which keep is true.
func (s Set) Filter(keep func(Key) bool) Set {
	return Set{s.m.Filter(func(k Key, _ unit) bool { return keep(k) })}
}

// Join returns the union of two sets.
func (s Set) Join(o Set) Set {
	return Set{s.m.Merge(o.m, func(_, _ unit) unit { return unit{} })}
}

// Intersect returns the intersection of two sets.
func (s Set) Intersect(o Set) Set {
	return s.Filter(o.Contains)
}

// Difference returns the elements of s not present in o.
func (s Set) Difference(o Set) Set {
	return s.Filter(func(k Key) bool { return !o.Contains(k) })
}

// Leq reports whether s is a subset of o.
func (s Set) Leq(o Set) bool {
	subset := true
	s.ForEach(func(k Key) bool {
		if !o.Contains(k) {
			subset = false
			return false
		}
		return true
	})
	return subset
}

// Equals reports set equality.
func (s Set) Equals(o Set) bool {
	return s.Leq(o) && o.Leq(s)
}

// ForEach visits every element in ascending order.
func (s Set) ForEach(visit func(Key) bool) {
	s.m.ForEach(func(k Key, _ unit) bool { return visit(k) })
}

// Len counts the elements. O(n).
func (s Set) Len() int { return s.m.Len() }

// Elements returns all members in ascending order.
func (s Set) Elements() []Key { return s.m.Keys() }
