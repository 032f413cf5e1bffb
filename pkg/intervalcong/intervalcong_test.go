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
package intervalcong

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/congruence"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

// TestReductionExact reproduces spec's end-to-end scenario 3: x starts at 0
// and increments by 4 while < 40; with the reduced product the exit
// interval collapses to exactly {40} once the congruence 4Z+0 is known.
func TestReductionExact(t *testing.T) {
	i := interval.ZRange(40, 43)
	c := congruence.New(z(4), z(0))
	got := New(i, c)
	want := Singleton(z(40))
	if !got.Equals(want) {
		t.Errorf("reduced product of [40,43] and 4Z+0 = %s, want {40}", got)
	}
}

func TestReductionTightensToEvenPoint(t *testing.T) {
	i := interval.ZRange(1, 3)
	c := congruence.New(z(2), z(0)) // even numbers only
	got := New(i, c)
	if got.IsBottom() {
		t.Fatalf("reduction of [1,3] with evens should keep {2}, got bottom")
	}
	if !got.Interval().Equals(interval.ZSingleton(z(2))) {
		t.Errorf("reduced interval = %s, want {2}", got.Interval())
	}
}

func TestReductionBottomWhenDisjoint(t *testing.T) {
	i := interval.ZRange(1, 3)
	c := congruence.New(z(10), z(5)) // {..., -5, 5, 15, ...}
	if got := New(i, c); !got.IsBottom() {
		t.Errorf("reduction of [1,3] with 10Z+5 should be bottom, got %s", got)
	}
}

func TestIdempotence(t *testing.T) {
	v := New(interval.ZRange(0, 10), congruence.New(z(2), z(0)))
	if got := v.Join(v); !got.Equals(v) {
		t.Errorf("Join(self) = %s, want %s", got, v)
	}
	if got := v.Meet(v); !got.Equals(v) {
		t.Errorf("Meet(self) = %s, want %s", got, v)
	}
}
