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
package apron

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

func TestIntervalKindAssignConst(t *testing.T) {
	d := Top(Interval)
	d = d.AssignConst(1, z(5))
	iv := d.ToInterval(1)
	if !iv.LB().Z().Equals(z(5)) || !iv.UB().Z().Equals(z(5)) {
		t.Errorf("interval-kind x1=5 should pin to [5,5], got %s", iv)
	}
}

// pinX2 narrows x2 to exactly 10 through two meet-style LEQ constraints
// (never AssignConst, which would reset any prior edge on x2) so that a
// relational backend's earlier symbolic edge on x2 survives to be combined
// with the new bound, the way two separate statements in a real program
// would narrow a variable incrementally rather than reassign it.
func pinX2(d Domain) Domain {
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 2).Add(linear.Const(z(-10)))))  // x2 <= 10
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(-1), 2).Add(linear.Const(z(10))))) // -x2 <= -10, i.e. x2 >= 10
	return d
}

func TestOctagonKindTracksRelationAcrossSeparateStatements(t *testing.T) {
	// x1 <= x2+3 is recorded first, while x2 is still unconstrained; pinning
	// x2 afterwards (as a separate, later statement) must still let a
	// relational backend recover x1 <= 13 through closure.
	d := Top(Octagon)
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Term(z(-1), 2)).Add(linear.Const(z(-3)))))
	d = pinX2(d)
	iv := d.ToInterval(1)
	if !iv.UB().IsFinite() || !iv.UB().Z().Equals(z(13)) {
		t.Errorf("octagon-kind x1<=x2+3 recorded before x2=10, then x2 pinned, should give x1<=13, got %s", iv)
	}
}

func TestIntervalKindDropsRelationAcrossSeparateStatements(t *testing.T) {
	// The non-relational kind only narrows the variables a constraint
	// mentions using their *current* intervals; it cannot store a relation
	// between two still-unconstrained variables for later use. Recorded
	// before x2 is pinned, the x1<=x2+3 relation is solved against x2=Top
	// and gives no improvement, then is discarded (pkg/numerical keeps no
	// memory of the constraint itself, only the resulting per-variable
	// interval) — so pinning x2 afterwards cannot recover a bound on x1.
	d := Top(Interval)
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Term(z(-1), 2)).Add(linear.Const(z(-3)))))
	d = pinX2(d)
	if !d.ToInterval(1).IsTop() {
		t.Errorf("interval kind should not recover a bound on x1 from a relation recorded before x2 was pinned, got %s", d.ToInterval(1))
	}
}

func TestJoinAcrossMismatchedDimensions(t *testing.T) {
	a := Top(Interval).AssignConst(1, z(1))
	a = a.AssignConst(2, z(2))
	b := Top(Interval).AssignConst(1, z(9))
	j := a.Join(b)
	if !j.ToInterval(2).IsTop() {
		t.Errorf("x2 unconstrained on one side should join to Top, got %s", j.ToInterval(2))
	}
	if len(j.Dimensions()) < 2 {
		t.Errorf("Join should have extended the dimension map to cover both operands' variables, got %v", j.Dimensions())
	}
}

func TestNarrowingDefaultsToMeetExceptOctagon(t *testing.T) {
	a := Top(Polyhedra)
	b := Top(Polyhedra).AssignConst(1, z(5))
	n := a.Narrowing(b)
	if !n.Equals(a.Meet(b)) {
		t.Errorf("Polyhedra-kind narrowing should default to meet")
	}
}

func TestBottomIsBottom(t *testing.T) {
	d := Bottom(Octagon)
	if !d.IsBottom() {
		t.Errorf("Bottom(Octagon) should be IsBottom")
	}
}

func TestEqualsAfterAssign(t *testing.T) {
	a := Top(Congruence).AssignConst(1, z(7))
	b := Top(Congruence).AssignConst(1, z(7))
	if !a.Equals(b) {
		t.Errorf("%s should equal %s", a, b)
	}
}
