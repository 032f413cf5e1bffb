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
package dbm

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

func TestTopIsTopAndUnconstrained(t *testing.T) {
	d := Top()
	if !d.IsTop() {
		t.Errorf("Top() should be IsTop")
	}
	iv := d.ToInterval(1)
	if !iv.IsTop() {
		t.Errorf("ToInterval of an untracked variable on Top should be Top, got %s", iv)
	}
}

func TestAssignConst(t *testing.T) {
	d := Top()
	d = d.AssignConst(1, z(5))
	iv := d.ToInterval(1)
	if !iv.LB().IsFinite() || !iv.LB().Z().Equals(z(5)) || !iv.UB().IsFinite() || !iv.UB().Z().Equals(z(5)) {
		t.Errorf("x1 = 5 should pin the interval to [5,5], got %s", iv)
	}
}

func TestAssignShift(t *testing.T) {
	d := Top()
	d = d.AssignConst(1, z(3))
	d = d.Assign(2, 1, z(4)) // x2 = x1 + 4
	iv := d.ToInterval(2)
	if !iv.LB().Z().Equals(z(7)) || !iv.UB().Z().Equals(z(7)) {
		t.Errorf("x2 = x1+4 with x1=3 should give 7, got %s", iv)
	}
}

func TestAssignSelfIncrement(t *testing.T) {
	d := Top()
	d = d.AssignConst(1, z(10))
	d = d.Assign(1, 1, z(-3)) // x1 = x1 - 3
	iv := d.ToInterval(1)
	if !iv.LB().Z().Equals(z(7)) || !iv.UB().Z().Equals(z(7)) {
		t.Errorf("x1 = x1-3 with x1=10 should give 7, got %s", iv)
	}
}

func TestForgetRestoresTop(t *testing.T) {
	d := Top()
	d = d.AssignConst(1, z(5))
	d = d.Forget(1)
	if !d.ToInterval(1).IsTop() {
		t.Errorf("Forget(1) should restore Top, got %s", d.ToInterval(1))
	}
	if !d.IsTop() {
		t.Errorf("Forget of the only tracked variable should leave the domain IsTop, got %s", d)
	}
}

func TestForgetPropagatesThroughIntermediary(t *testing.T) {
	// x1 <= x2 <= x3, so x1 <= x3 is implied through x2. Forgetting x2 should
	// not lose that implied x1<=x3 edge (the edge-propagation optimization):
	// adding the contradicting x3 <= x1-1 afterwards must still drive the
	// domain to Bottom, proving x1<=x3 survived the forget.
	d := Top()
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Term(z(-1), 2))))
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 2).Add(linear.Term(z(-1), 3))))
	d = d.Forget(2)
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 3).Add(linear.Term(z(-1), 1)).Add(linear.Const(z(1)))))
	if !d.IsBottom() {
		t.Errorf("x1<=x3 (propagated through forgotten x2) contradicted by x3<=x1-1 should be Bottom, got %s", d)
	}
}

func TestAddConstraintUnsatIsBottom(t *testing.T) {
	d := Top()
	d = d.AssignConst(1, z(3))
	d = d.AddConstraint(linear.NewEQ(linear.Term(z(1), 1).Add(linear.Const(z(-5)))))
	if !d.IsBottom() {
		t.Errorf("pinning x1=3 then requiring x1=5 should be Bottom, got %s", d)
	}
}

func TestAddConstraintTwoVarEdge(t *testing.T) {
	// Pin x2 first: AssignConst resets x2's prior edges, so the relation must
	// be added afterwards to survive (adding it before the pin would be
	// forgotten along with x2's other edges when AssignConst resets it).
	d := Top()
	d = d.AssignConst(2, z(10))
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Term(z(-1), 2)).Add(linear.Const(z(-3))))) // x1-x2<=3
	iv := d.ToInterval(1)
	if !iv.UB().IsFinite() || !iv.UB().Z().Equals(z(13)) {
		t.Errorf("x1 <= x2+3 with x2=10 should give x1<=13, got %s", iv)
	}
}

func TestAddSystemNeqFallsBackToSolver(t *testing.T) {
	// x1 in [0,0] forced by x1 != 1 meeting a prior [0,1] bound via two LEQs.
	d := Top()
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Const(z(-1)))))  // x1 <= 1
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(-1), 1).Add(linear.Const(z(0))))) // -x1 <= 0, i.e. x1 >= 0
	d = d.AddConstraint(linear.NewNEQ(linear.Term(z(1), 1).Add(linear.Const(z(-1))))) // x1 != 1
	iv := d.ToInterval(1)
	if !iv.UB().IsFinite() || !iv.UB().Z().Equals(z(0)) {
		t.Errorf("x1 in [0,1], x1!=1 should narrow to x1<=0, got %s", iv)
	}
}

func TestJoinDropsVariableUnconstrainedOnOneSide(t *testing.T) {
	a := Top().AssignConst(1, z(1))
	a = a.AssignConst(2, z(2))
	b := Top().AssignConst(1, z(9))
	j := a.Join(b)
	if !j.ToInterval(2).IsTop() {
		t.Errorf("x2 unconstrained in b should join to Top, got %s", j.ToInterval(2))
	}
	iv1 := j.ToInterval(1)
	if !iv1.LB().IsFinite() || !iv1.LB().Z().Equals(z(1)) || !iv1.UB().Z().Equals(z(9)) {
		t.Errorf("x1 constrained on both sides should join to [1,9], got %s", iv1)
	}
}

func TestMeetKeepsVariableFromEitherSide(t *testing.T) {
	a := Top().AssignConst(1, z(1))
	b := Top().AssignConst(2, z(2))
	m := a.Meet(b)
	iv1 := m.ToInterval(1)
	iv2 := m.ToInterval(2)
	if !iv1.LB().Z().Equals(z(1)) || !iv1.UB().Z().Equals(z(1)) {
		t.Errorf("x1 only in a should survive Meet unchanged, got %s", iv1)
	}
	if !iv2.LB().Z().Equals(z(2)) || !iv2.UB().Z().Equals(z(2)) {
		t.Errorf("x2 only in b should survive Meet unchanged, got %s", iv2)
	}
}

func TestLeqPinnedIsLeqTop(t *testing.T) {
	a := Top()
	b := Top().AssignConst(1, z(5))
	if a.Leq(b) {
		t.Errorf("Top (x1 unconstrained) should not be <= a domain pinning x1=5")
	}
	if !b.Leq(a) {
		t.Errorf("a domain pinning x1=5 should be <= Top")
	}
}

func TestEqualsAfterDifferentConstructionPaths(t *testing.T) {
	a := Top().AssignConst(1, z(5))
	b := Top()
	b = b.AddConstraint(linear.NewEQ(linear.Term(z(1), 1).Add(linear.Const(z(-5)))))
	if !a.Equals(b) {
		t.Errorf("%s should equal %s (same constraint via different paths)", a, b)
	}
}

func TestNegativeCycleIsBottom(t *testing.T) {
	// x1 <= x2 - 1 and x2 <= x1 - 1 is unsatisfiable (a negative cycle).
	d := Top()
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Term(z(-1), 2)).Add(linear.Const(z(1)))))
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 2).Add(linear.Term(z(-1), 1)).Add(linear.Const(z(1)))))
	if !d.IsBottom() {
		t.Errorf("x1<=x2-1 and x2<=x1-1 should be Bottom, got %s", d)
	}
}

func TestWideningStabilizesGrowingBound(t *testing.T) {
	a := Top().AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Const(z(-1))))) // x1 <= 1
	b := Top().AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Const(z(-2))))) // x1 <= 2
	w := a.Widening(b)
	if !w.ToInterval(1).IsTop() {
		t.Errorf("widening a growing upper bound should jump to Top, got %s", w.ToInterval(1))
	}
}
