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
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/bound"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// IntervalStore is the minimal per-variable interval state the solver reads
// and refines; pkg/numerical and pkg/dbm both implement it over their own
// backing map so this solver is reusable as-is from both (spec: "Linear
// inequalities are dispatched to the linear-interval-solver").
type IntervalStore interface {
	Get(v Var) interval.ZInterval
	Refine(v Var, i interval.ZInterval)
}

// DefaultMaxReductionCycles is the spec section 6 default for
// max_reduction_cycles.
const DefaultMaxReductionCycles = 10

// Solve refines store by iterating the system's constraints to a
// fixed point, bounded by maxCycles, per spec section 4.6. Returns false if
// the store was driven to Bottom (an unsatisfiable system was detected).
func Solve(sys System, store IntervalStore, maxCycles int) bool {
	cs := sys.Constraints()
	for cycle := 0; cycle < maxCycles; cycle++ {
		changed := false
		for _, c := range cs {
			ok := applyConstraint(c, store, &changed)
			if !ok {
				return false
			}
		}
		if !changed {
			return true
		}
	}
	return true
}

// applyConstraint isolates each variable of c in turn and refines its
// interval from the others' current intervals. Returns false if a
// refinement produced Bottom.
func applyConstraint(c Constraint, store IntervalStore, changed *bool) bool {
	switch c.Kind {
	case EQ:
		if !applyLeq(c.Expr, store, changed) {
			return false
		}
		return applyLeq(c.Expr.ScalarMul(number.ZFromInt64(-1)), store, changed)
	case LEQ:
		return applyLeq(c.Expr, store, changed)
	case NEQ:
		return applyNeq(c.Expr, store, changed)
	default:
		return true
	}
}

// applyLeq refines every variable of "expr <= 0": for x_i with coefficient
// c_i, isolate c_i*x_i <= -(sum_{j!=i} c_j*x_j + k) and divide through.
func applyLeq(expr Expression, store IntervalStore, changed *bool) bool {
	for _, v := range expr.Variables() {
		c := expr.Coefficient(v)
		rest := boundOthers(expr, v, store)
		// c*x <= -rest  =>  x <= -rest/c (c>0) or x >= -rest/c (c<0)
		negRestOverC := interval.ZDiv(rest.Neg(), interval.ZSingleton(c))
		cur := store.Get(v)
		var refined interval.ZInterval
		if c.Sign() > 0 {
			refined = cur.Meet(interval.New(bound.NegInfinity, negRestOverC.UB(), zInf()))
		} else {
			refined = cur.Meet(interval.New(negRestOverC.LB(), bound.PosInfinity, zInf()))
		}
		if refined.IsBottom() {
			store.Refine(v, refined)
			return false
		}
		if !refined.Equals(cur) {
			store.Refine(v, refined)
			*changed = true
		}
	}
	return true
}

// applyNeq removes a singleton disequation point: for a disequation over a
// single variable, "c*x + k != 0", the point -k/c is excluded from x's
// interval when it sits at an endpoint. A disequation over two or more
// variables refines nothing.
func applyNeq(expr Expression, store IntervalStore, changed *bool) bool {
	vars := expr.Variables()
	if len(vars) != 1 {
		return true
	}
	v := vars[0]
	c := expr.Coefficient(v)
	// c*x + k != 0  =>  x != -k/c
	if c.IsZero() {
		return true
	}
	forbidden := number.ZFromInt64(0).Sub(expr.Constant()).Div(c)
	if !expr.Constant().Mod(c).IsZero() {
		return true // -k/c not integral: the disequation is vacuous over Z
	}
	cur := store.Get(v)
	if cur.IsBottom() {
		return true
	}
	var refined interval.ZInterval
	switch {
	case cur.LB().IsFinite() && cur.LB().Z().Equals(forbidden) && cur.UB().IsFinite() && cur.UB().Z().Equals(forbidden):
		refined = interval.ZBottom()
	case cur.LB().IsFinite() && cur.LB().Z().Equals(forbidden):
		refined = cur.Meet(interval.New(bound.FromZ(forbidden.Add(number.ZFromInt64(1))), bound.PosInfinity, zInf()))
	case cur.UB().IsFinite() && cur.UB().Z().Equals(forbidden):
		refined = cur.Meet(interval.New(bound.NegInfinity, bound.FromZ(forbidden.Sub(number.ZFromInt64(1))), zInf()))
	default:
		return true
	}
	if refined.IsBottom() {
		store.Refine(v, refined)
		return false
	}
	if !refined.Equals(cur) {
		store.Refine(v, refined)
		*changed = true
	}
	return true
}

// boundOthers evaluates sum_{j != except} c_j * interval(x_j) + k.
func boundOthers(expr Expression, except Var, store IntervalStore) interval.ZInterval {
	acc := interval.ZSingleton(expr.Constant())
	for _, v := range expr.Variables() {
		if v == except {
			continue
		}
		term := interval.ZSingleton(expr.Coefficient(v)).Mul(store.Get(v))
		acc = acc.Add(term)
	}
	return acc
}

func zInf() interval.Infinities[bound.Bound] {
	return interval.Infinities[bound.Bound]{Neg: bound.NegInfinity, Pos: bound.PosInfinity}
}
