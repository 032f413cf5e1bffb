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

import (
	"reflect"
	"testing"
)

func TestMapInsertGetRemove(t *testing.T) {
	m := Empty[string]()
	m2 := m.Insert(7, "seven").Insert(3, "three").Insert(1000, "thousand")

	// original map is untouched (persistence)
	if !m.IsEmpty() {
		t.Fatalf("original map mutated")
	}
	if v, ok := m2.Get(3); !ok || v != "three" {
		t.Fatalf("Get(3) = %q, %v", v, ok)
	}
	m3 := m2.Remove(3)
	if m3.Contains(3) {
		t.Fatalf("Remove(3) did not remove")
	}
	if !m2.Contains(3) {
		t.Fatalf("Remove mutated earlier root")
	}
}

func TestMapOrderedIteration(t *testing.T) {
	m := Empty[int]()
	keys := []Key{42, 1, 1000, 7, 0, 999999}
	for _, k := range keys {
		m = m.Insert(k, int(k))
	}
	var got []Key
	m.ForEach(func(k Key, _ int) bool { got = append(got, k); return true })
	want := []Key{0, 1, 7, 42, 1000, 999999}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("iteration order = %v, want %v", got, want)
	}
}

func TestMapMergeCombine(t *testing.T) {
	a := Empty[int]().Insert(1, 10).Insert(2, 20)
	b := Empty[int]().Insert(2, 200).Insert(3, 30)
	merged := a.Merge(b, func(l, r int) int { return l + r })
	if v, _ := merged.Get(2); v != 220 {
		t.Fatalf("merged(2) = %d, want 220", v)
	}
	if v, _ := merged.Get(1); v != 10 {
		t.Fatalf("merged(1) = %d, want 10", v)
	}
	if v, _ := merged.Get(3); v != 30 {
		t.Fatalf("merged(3) = %d, want 30", v)
	}
}

func TestSetOps(t *testing.T) {
	a := SetOf(1, 2, 3)
	b := SetOf(2, 3, 4)
	if got := a.Join(b).Elements(); !reflect.DeepEqual(got, []Key{1, 2, 3, 4}) {
		t.Fatalf("Join = %v", got)
	}
	if got := a.Intersect(b).Elements(); !reflect.DeepEqual(got, []Key{2, 3}) {
		t.Fatalf("Intersect = %v", got)
	}
	if got := a.Difference(b).Elements(); !reflect.DeepEqual(got, []Key{1}) {
		t.Fatalf("Difference = %v", got)
	}
	if !SetOf(1, 2).Leq(SetOf(1, 2, 3)) {
		t.Fatalf("subset check failed")
	}
}

func TestSetFilter(t *testing.T) {
	a := SetOf(1, 2, 3, 4, 5, 6)
	even := a.Filter(func(k Key) bool { return k%2 == 0 })
	if !reflect.DeepEqual(even.Elements(), []Key{2, 4, 6}) {
		t.Fatalf("Filter = %v", even.Elements())
	}
}
