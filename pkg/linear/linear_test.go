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
package linear

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func z(v int64) number.Z { return number.ZFromInt64(v) }

// testStore is a trivial map-backed IntervalStore for exercising the solver
// in isolation, ahead of pkg/numerical and pkg/dbm adapting their own state.
type testStore struct {
	m map[Var]interval.ZInterval
}

func newTestStore() *testStore { return &testStore{m: map[Var]interval.ZInterval{}} }

func (s *testStore) Get(v Var) interval.ZInterval {
	if i, ok := s.m[v]; ok {
		return i
	}
	return interval.ZTop()
}

func (s *testStore) Refine(v Var, i interval.ZInterval) { s.m[v] = i }

func TestExpressionEquals(t *testing.T) {
	a := Term(z(2), 1).AddTerm(z(3), 2).Add(Const(z(5)))
	b := Term(z(3), 2).AddTerm(z(2), 1).Add(Const(z(5)))
	if !a.Equals(b) {
		t.Errorf("%s != %s, want equal after reordering", a, b)
	}
	c := a.AddTerm(z(1), 3)
	if a.Equals(c) {
		t.Errorf("%s should not equal %s", a, c)
	}
}

func TestSystemVariablesOrdered(t *testing.T) {
	sys := NewSystem(
		NewLEQ(Term(z(1), 5)),
		NewEQ(Term(z(1), 2).AddTerm(z(1), 9)),
	)
	got := sys.Variables()
	want := []Var{2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("Variables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Variables()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestSolveSingleInequality refines x from x - 10 <= 0 starting at Top,
// i.e. x <= 10.
func TestSolveSingleInequality(t *testing.T) {
	store := newTestStore()
	sys := NewSystem(NewLEQ(Term(z(1), 1).Add(Const(z(-10)))))
	if ok := Solve(sys, store, DefaultMaxReductionCycles); !ok {
		t.Fatal("Solve returned false on a satisfiable system")
	}
	got := store.Get(1)
	if !got.UB().Equals(interval.ZSingleton(z(10)).UB()) {
		t.Errorf("x upper bound = %s, want 10", got)
	}
}

// TestSolveEquality refines x to the single point 7 from x - 7 = 0.
func TestSolveEquality(t *testing.T) {
	store := newTestStore()
	sys := NewSystem(NewEQ(Term(z(1), 1).Add(Const(z(-7)))))
	if ok := Solve(sys, store, DefaultMaxReductionCycles); !ok {
		t.Fatal("Solve returned false on a satisfiable system")
	}
	got := store.Get(1)
	want := interval.ZSingleton(z(7))
	if !got.Equals(want) {
		t.Errorf("x = %s, want %s", got, want)
	}
}

// TestSolveChain mirrors the spec's x >= 0; y = x + 1; y <= 10 scenario,
// expecting x to be refined to [0, 9].
func TestSolveChain(t *testing.T) {
	store := newTestStore()
	x, y := Var(1), Var(2)
	sys := NewSystem(
		NewLEQ(Term(z(-1), x)),                              // -x <= 0  =>  x >= 0
		NewEQ(Term(z(1), y).AddTerm(z(-1), x).Add(Const(z(-1)))), // y - x - 1 = 0
		NewLEQ(Term(z(1), y).Add(Const(z(-10)))),            // y - 10 <= 0  =>  y <= 10
	)
	if ok := Solve(sys, store, DefaultMaxReductionCycles); !ok {
		t.Fatal("Solve returned false on a satisfiable system")
	}
	gotX := store.Get(x)
	wantX := interval.ZRange(0, 9)
	if !gotX.Equals(wantX) {
		t.Errorf("x = %s, want %s", gotX, wantX)
	}
}

// TestSolveUnsatEquality detects a contradictory system driving the store to
// Bottom.
func TestSolveUnsatEquality(t *testing.T) {
	store := newTestStore()
	store.Refine(1, interval.ZSingleton(z(3)))
	sys := NewSystem(NewEQ(Term(z(1), 1).Add(Const(z(-5)))))
	if ok := Solve(sys, store, DefaultMaxReductionCycles); ok {
		t.Fatal("Solve should report unsatisfiable when x is pinned to 3 but constrained to 5")
	}
}

// TestSolveDisequationRemovesSingleton checks that x != 5 combined with
// x in [3,5] narrows to [3,4].
func TestSolveDisequationRemovesSingleton(t *testing.T) {
	store := newTestStore()
	store.Refine(1, interval.ZRange(3, 5))
	sys := NewSystem(NewNEQ(Term(z(1), 1).Add(Const(z(-5)))))
	if ok := Solve(sys, store, DefaultMaxReductionCycles); !ok {
		t.Fatal("Solve returned false on a satisfiable system")
	}
	got := store.Get(1)
	want := interval.ZRange(3, 4)
	if !got.Equals(want) {
		t.Errorf("x = %s, want %s", got, want)
	}
}
