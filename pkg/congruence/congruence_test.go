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
package congruence

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

func TestCanonicalForm(t *testing.T) {
	c := New(z(4), z(-2))
	if !c.A().Equals(z(4)) || !c.B().Equals(z(2)) {
		t.Errorf("New(4,-2) = %sZ+%s, want 4Z+2", c.A(), c.B())
	}
}

func TestJoinIdempotent(t *testing.T) {
	c := New(z(4), z(0))
	if got := c.Join(c); !got.Equals(c) {
		t.Errorf("Join(self) = %s, want %s", got, c)
	}
}

func TestJoinExample(t *testing.T) {
	// loop "x = 0; x = x + 4 while x < 40" -> congruence at loop head is 4Z+0
	acc := Singleton(z(0))
	for i := int64(4); i <= 36; i += 4 {
		acc = acc.Join(Singleton(z(i)))
	}
	if !acc.A().Equals(z(4)) || !acc.B().Equals(z(0)) {
		t.Errorf("congruence of {0,4,...,36} = %s, want 4Z+0", acc)
	}
}

func TestMeetContradiction(t *testing.T) {
	// x = 0 mod 2, x = 1 mod 2 -> bottom
	even := New(z(2), z(0))
	odd := New(z(2), z(1))
	if got := even.Meet(odd); !got.IsBottom() {
		t.Errorf("Meet(0 mod 2, 1 mod 2) = %s, want bottom", got)
	}
}

func TestMeetCRT(t *testing.T) {
	// x = 1 mod 2, x = 2 mod 3 -> x = 5 mod 6
	c1 := New(z(2), z(1))
	c2 := New(z(3), z(2))
	got := c1.Meet(c2)
	want := New(z(6), z(5))
	if !got.Equals(want) {
		t.Errorf("CRT meet = %s, want %s", got, want)
	}
}

func TestLeq(t *testing.T) {
	four := New(z(4), z(0))
	two := New(z(2), z(0))
	if !four.Leq(two) {
		t.Errorf("4Z+0 should be subset of 2Z+0")
	}
	if two.Leq(four) {
		t.Errorf("2Z+0 should not be subset of 4Z+0")
	}
}

func TestTopBottom(t *testing.T) {
	if !Top().IsTop() {
		t.Errorf("Top() is not top")
	}
	if !Bottom().IsBottom() {
		t.Errorf("Bottom() is not bottom")
	}
	if !Bottom().Leq(Top()) {
		t.Errorf("bottom must be leq everything")
	}
}
