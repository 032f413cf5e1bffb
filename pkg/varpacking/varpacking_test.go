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
package varpacking

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/dbm"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

func top() Domain[dbm.Domain] { return Top[dbm.Domain](dbm.Top) }

func TestUnrelatedVariablesStayInSeparateClasses(t *testing.T) {
	d := top()
	d = d.AssignConst(1, z(5))
	d = d.AssignConst(2, z(7))

	if len(d.Variables()) != 2 {
		t.Fatalf("expected 2 tracked variables, got %v", d.Variables())
	}
	iv1 := d.ToInterval(1)
	iv2 := d.ToInterval(2)
	if !iv1.LB().Z().Equals(z(5)) || !iv1.UB().Z().Equals(z(5)) {
		t.Errorf("x1=5 should pin to [5,5], got %s", iv1)
	}
	if !iv2.LB().Z().Equals(z(7)) || !iv2.UB().Z().Equals(z(7)) {
		t.Errorf("x2=7 should pin to [7,7], got %s", iv2)
	}
}

func TestRelationPullsUntrackedVariableIntoClass(t *testing.T) {
	// x2 starts pinned in its own class and x1 is not tracked at all; a
	// relation mentioning both must bring x1 into x2's class so the
	// relational sub-domain can combine the facts.
	d := top()
	d = d.AssignConst(2, z(10))
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Term(z(-1), 2)).Add(linear.Const(z(-3))))) // x1-x2<=3

	if len(d.Variables()) != 2 {
		t.Fatalf("expected the relation to bring x1 into x2's class, got %v", d.Variables())
	}
	iv := d.ToInterval(1)
	if !iv.UB().IsFinite() || !iv.UB().Z().Equals(z(13)) {
		t.Errorf("x1<=x2+3 with x2=10 should give x1<=13 once merged, got %s", iv)
	}
}

func TestForgetRootPromotesNewRepresentative(t *testing.T) {
	// Build one class over {x1, x2}: x1 pinned to 5, then x2<=x1 merges x2
	// into x1's class. Forgetting the class's root (x1) must promote x2 to
	// root and keep the derivable x2<=5 fact alive via the DBM's own
	// edge-propagation-before-reset optimization.
	d := top()
	d = d.AssignConst(1, z(5))
	d = d.AddConstraint(linear.NewLEQ(linear.Term(z(1), 2).Add(linear.Term(z(-1), 1)))) // x2-x1<=0, i.e. x2<=x1

	if len(d.Variables()) != 2 {
		t.Fatalf("expected x2 merged into x1's class, got %v", d.Variables())
	}

	d = d.Forget(1)

	if len(d.Variables()) != 1 {
		t.Fatalf("expected only x2 to remain after forgetting x1, got %v", d.Variables())
	}
	iv := d.ToInterval(2)
	if !iv.UB().IsFinite() || !iv.UB().Z().Equals(z(5)) {
		t.Errorf("x2<=x1 with x1=5 forgotten should still give x2<=5 (propagated before reset), got %s", iv)
	}
}

func TestLeqTreatsMissingVariableAsTop(t *testing.T) {
	a := top().AssignConst(1, z(5))
	b := top()

	if !a.Leq(b) {
		t.Errorf("a pinning x1=5 should be <= an empty (Top) packing")
	}
	if b.Leq(a) {
		t.Errorf("an empty (Top) packing should not be <= a pinning x1=5")
	}
}

func TestJoinOfDisjointClassesDropsBothSides(t *testing.T) {
	// Neither operand's class for x1 overlaps the other's variable set for
	// x2 (a has only x1, b has only x2), so after the union-binary-op's
	// forget-unshared-variables pass, both x1 and x2 are gone: a genuine
	// join between two totally independent packings carries no information
	// forward for variables only one side tracked.
	a := top().AssignConst(1, z(1))
	b := top().AssignConst(2, z(2))
	j := a.Join(b)

	if len(j.Variables()) != 0 {
		t.Errorf("join of packings with disjoint variable sets should track nothing, got %v", j.Variables())
	}
}

func TestMeetOfDisjointClassesKeepsBothSides(t *testing.T) {
	a := top().AssignConst(1, z(1))
	b := top().AssignConst(2, z(2))
	m := a.Meet(b)

	iv1 := m.ToInterval(1)
	iv2 := m.ToInterval(2)
	if !iv1.LB().Z().Equals(z(1)) || !iv1.UB().Z().Equals(z(1)) {
		t.Errorf("x1 only in a should survive meet unchanged, got %s", iv1)
	}
	if !iv2.LB().Z().Equals(z(2)) || !iv2.UB().Z().Equals(z(2)) {
		t.Errorf("x2 only in b should survive meet unchanged, got %s", iv2)
	}
}

func TestWideningStabilizesGrowingClassBound(t *testing.T) {
	a := top().AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Const(z(-1))))) // x1<=1
	b := top().AddConstraint(linear.NewLEQ(linear.Term(z(1), 1).Add(linear.Const(z(-2))))) // x1<=2
	w := a.Widening(b)

	if !w.ToInterval(1).IsTop() {
		t.Errorf("widening a growing upper bound should jump to Top, got %s", w.ToInterval(1))
	}
}

func TestBottomIsBottom(t *testing.T) {
	d := Bottom[dbm.Domain](dbm.Top)
	if !d.IsBottom() {
		t.Errorf("Bottom should be IsBottom")
	}
}

func TestEqualsAfterDifferentConstructionPaths(t *testing.T) {
	a := top().AssignConst(1, z(5))
	b := top()
	b = b.AddConstraint(linear.NewEQ(linear.Term(z(1), 1).Add(linear.Const(z(-5)))))
	if !a.Equals(b) {
		t.Errorf("%s should equal %s (same fact via different construction paths)", a, b)
	}
}
