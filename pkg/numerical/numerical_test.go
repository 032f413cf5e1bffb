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
package numerical

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/intervalcong"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

func TestTopGetIsTop(t *testing.T) {
	d := Top()
	if !d.Get(1).IsTop() {
		t.Errorf("Get on an unbound variable in Top() should be Top, got %s", d.Get(1))
	}
}

func TestAssignEvaluatesExpression(t *testing.T) {
	d := Top()
	d = d.Set(1, intervalcong.Singleton(z(3)))
	d = d.Assign(2, linear.Term(z(2), 1).Add(linear.Const(z(1)))) // x2 = 2*x1 + 1
	want := intervalcong.Singleton(z(7))
	if !d.Get(2).Equals(want) {
		t.Errorf("x2 = %s, want %s", d.Get(2), want)
	}
}

func TestApplyAdd(t *testing.T) {
	d := Top()
	d = d.Set(1, intervalcong.Singleton(z(3)))
	d = d.Set(2, intervalcong.Singleton(z(4)))
	d = d.Apply(Add, 3, 1, 2)
	want := intervalcong.Singleton(z(7))
	if !d.Get(3).Equals(want) {
		t.Errorf("x3 = x1+x2 = %s, want %s", d.Get(3), want)
	}
}

func TestApplyConstMul(t *testing.T) {
	d := Top()
	d = d.Set(1, intervalcong.Singleton(z(5)))
	d = d.ApplyConst(Mul, 2, 1, z(3))
	want := intervalcong.Singleton(z(15))
	if !d.Get(2).Equals(want) {
		t.Errorf("x2 = x1*3 = %s, want %s", d.Get(2), want)
	}
}

func TestForgetRestoresTop(t *testing.T) {
	d := Top()
	d = d.Set(1, intervalcong.Singleton(z(5)))
	d = d.Forget(1)
	if !d.Get(1).IsTop() {
		t.Errorf("Forget(1) should restore Top, got %s", d.Get(1))
	}
	if !d.IsTop() {
		t.Errorf("Forget of the only bound variable should leave the domain IsTop, got %s", d)
	}
}

func TestAddConstraintRefines(t *testing.T) {
	d := Top()
	// x1 - 10 <= 0  =>  x1 <= 10
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Const(z(-10)))))
	ub := d.Get(1).Interval().UB()
	if !ub.IsFinite() || !ub.Z().Equals(z(10)) {
		t.Errorf("x1 upper bound after x1<=10 = %s, want 10", d.Get(1))
	}
}

func TestAddConstraintUnsatIsBottom(t *testing.T) {
	d := Top()
	d = d.Set(1, intervalcong.Singleton(z(3)))
	d = d.AddConstraint(linear.NewEQ(linear.Term(z(1), 1).Add(linear.Const(z(-5)))))
	if !d.IsBottom() {
		t.Errorf("pinning x1=3 then requiring x1=5 should be Bottom, got %s", d)
	}
}

func TestJoinDropsVariableUnconstrainedOnOneSide(t *testing.T) {
	a := Top().Set(1, intervalcong.Singleton(z(1))).Set(2, intervalcong.Singleton(z(2)))
	b := Top().Set(1, intervalcong.Singleton(z(9)))
	j := a.Join(b)
	if !j.Get(2).IsTop() {
		t.Errorf("x2 unconstrained in b should join to Top, got %s", j.Get(2))
	}
	if j.Get(1).IsTop() {
		t.Errorf("x1 constrained on both sides should not join to Top, got %s", j.Get(1))
	}
}

func TestMeetKeepsVariableFromEitherSide(t *testing.T) {
	a := Top().Set(1, intervalcong.Singleton(z(1)))
	b := Top().Set(2, intervalcong.Singleton(z(2)))
	m := a.Meet(b)
	if !m.Get(1).Equals(intervalcong.Singleton(z(1))) {
		t.Errorf("x1 only in a should survive Meet unchanged, got %s", m.Get(1))
	}
	if !m.Get(2).Equals(intervalcong.Singleton(z(2))) {
		t.Errorf("x2 only in b should survive Meet unchanged, got %s", m.Get(2))
	}
}

func TestLeqAbsentIsTopOnSelf(t *testing.T) {
	a := Top()
	b := Top().Set(1, intervalcong.Singleton(z(5)))
	if a.Leq(b) {
		t.Errorf("Top (x1 unconstrained) should not be <= a domain pinning x1=5")
	}
	if !b.Leq(a) {
		t.Errorf("a domain pinning x1=5 should be <= Top")
	}
}

func TestEqualsStructural(t *testing.T) {
	a := Top().Set(1, intervalcong.Singleton(z(5)))
	b := Top().Set(1, intervalcong.Singleton(z(5)))
	if !a.Equals(b) {
		t.Errorf("%s should equal %s", a, b)
	}
	c := Top().Set(1, intervalcong.Singleton(z(6)))
	if a.Equals(c) {
		t.Errorf("%s should not equal %s", a, c)
	}
}

func TestSetBottomAbsorbs(t *testing.T) {
	d := Top().Set(1, intervalcong.Singleton(z(1)))
	d.SetToBottom()
	if !d.IsBottom() {
		t.Fatal("SetToBottom should make IsBottom true")
	}
	if !d.Assign(2, linear.Const(z(0))).IsBottom() {
		t.Errorf("operations on Bottom should stay Bottom")
	}
	if d.Join(Top()).IsBottom() {
		t.Errorf("Join(Bottom, Top) should be Top (Bottom is the join identity)")
	}
}
