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

// Package intervalcong implements IntervalCongruence, the reduced product
// of Interval and Congruence (spec section 4.4): after every constructor or
// operation, the interval bounds are tightened to the nearest values
// congruent to the congruence's residue, and the whole value collapses to
// Bottom if that empties the interval.
//
// Grounded on original_source's adjacent interval_congruence.cpp test files
// (core/test/unit/value/{numeric,machine_int}/interval_congruence.cpp) for
// the reduction contract; pkg/interval and pkg/congruence supply the two
// factors.
package intervalcong

import (
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/bound"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/congruence"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// IntervalCongruence is the reduced product (Interval, Congruence) over Z.
type IntervalCongruence struct {
	i interval.ZInterval
	c congruence.Congruence
}

// Top is the unconstrained value.
func Top() IntervalCongruence {
	return reduce(IntervalCongruence{interval.ZTop(), congruence.Top()})
}

// Bottom is the empty value.
func Bottom() IntervalCongruence {
	return IntervalCongruence{interval.ZBottom(), congruence.Bottom()}
}

// New builds and reduces the product of i and c.
func New(i interval.ZInterval, c congruence.Congruence) IntervalCongruence {
	return reduce(IntervalCongruence{i, c})
}

// Singleton builds the exact value {v}.
func Singleton(v number.Z) IntervalCongruence {
	return IntervalCongruence{interval.ZSingleton(v), congruence.Singleton(v)}
}

// FromInterval lifts a plain interval, with an unconstrained congruence.
func FromInterval(i interval.ZInterval) IntervalCongruence {
	return New(i, congruence.Top())
}

// Interval returns the interval component.
func (v IntervalCongruence) Interval() interval.ZInterval { return v.i }

// Congruence returns the congruence component.
func (v IntervalCongruence) Congruence() congruence.Congruence { return v.c }

// reduce tightens v.i's bounds to the nearest points congruent to v.c,
// sliding lb up and ub down, per spec section 4.4. Collapses to Bottom if
// either factor is already Bottom or the tightened interval is empty; a
// tightened interval of one point pins the congruence to that point too.
func reduce(v IntervalCongruence) IntervalCongruence {
	if v.i.IsBottom() || v.c.IsBottom() {
		return Bottom()
	}
	if v.c.A().IsZero() {
		// singleton congruence: the value is exactly {b} if that point lies
		// in the interval, else bottom.
		b := v.c.B()
		if v.i.LB().IsFinite() && v.i.LB().Z().Cmp(b) > 0 {
			return Bottom()
		}
		if v.i.UB().IsFinite() && v.i.UB().Z().Cmp(b) < 0 {
			return Bottom()
		}
		return IntervalCongruence{interval.ZSingleton(b), v.c}
	}
	a, b := v.c.A(), v.c.B()
	lb := v.i.LB()
	if lb.IsFinite() {
		lb = bound.FromZ(slideUp(lb.Z(), a, b))
	}
	ub := v.i.UB()
	if ub.IsFinite() {
		ub = bound.FromZ(slideDown(ub.Z(), a, b))
	}
	newI := interval.New(lb, ub, interval.Infinities[bound.Bound]{Neg: bound.NegInfinity, Pos: bound.PosInfinity})
	if newI.IsBottom() {
		return Bottom()
	}
	if lb.IsFinite() && lb.Equals(ub) {
		return IntervalCongruence{newI, congruence.Singleton(lb.Z())}
	}
	return IntervalCongruence{newI, v.c}
}

// slideUp returns the least value >= lb that is congruent to b modulo a.
func slideUp(lb, a, b number.Z) number.Z {
	r := lb.Mod(a)
	delta := b.Sub(r).Mod(a)
	return lb.Add(delta)
}

// slideDown returns the greatest value <= ub that is congruent to b modulo a.
func slideDown(ub, a, b number.Z) number.Z {
	r := ub.Mod(a)
	delta := r.Sub(b).Mod(a)
	return ub.Sub(delta)
}

// IsBottom reports emptiness.
func (v IntervalCongruence) IsBottom() bool { return v.i.IsBottom() || v.c.IsBottom() }

// IsTop reports whether both factors are unconstrained.
func (v IntervalCongruence) IsTop() bool { return v.i.IsTop() && v.c.IsTop() }

// SetToBottom mutates v in place to Bottom.
func (v *IntervalCongruence) SetToBottom() { *v = Bottom() }

// SetToTop mutates v in place to Top.
func (v *IntervalCongruence) SetToTop() { *v = Top() }

// Leq is the product order on both factors.
func (v IntervalCongruence) Leq(o IntervalCongruence) bool {
	if v.IsBottom() {
		return true
	}
	if o.IsBottom() {
		return false
	}
	return v.i.Leq(o.i) && v.c.Leq(o.c)
}

// Equals reports structural equality.
func (v IntervalCongruence) Equals(o IntervalCongruence) bool {
	if v.IsBottom() || o.IsBottom() {
		return v.IsBottom() && o.IsBottom()
	}
	return v.i.Equals(o.i) && v.c.Equals(o.c)
}

// Join reduces the pointwise join of both factors.
func (v IntervalCongruence) Join(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return v
	}
	return New(v.i.Join(o.i), v.c.Join(o.c))
}

// JoinInPlace destructively joins o into v.
func (v *IntervalCongruence) JoinInPlace(o IntervalCongruence) { *v = v.Join(o) }

// Meet reduces the pointwise meet of both factors.
func (v IntervalCongruence) Meet(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return New(v.i.Meet(o.i), v.c.Meet(o.c))
}

// MeetInPlace destructively meets o into v.
func (v *IntervalCongruence) MeetInPlace(o IntervalCongruence) { *v = v.Meet(o) }

// Widening widens the interval factor and joins the congruence factor (the
// congruence lattice has finite height on its own, so it never needs
// widening; only the interval side can ascend infinitely).
func (v IntervalCongruence) Widening(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return v
	}
	return New(v.i.Widening(o.i), v.c.Join(o.c))
}

// WideningInPlace destructively widens v with o.
func (v *IntervalCongruence) WideningInPlace(o IntervalCongruence) { *v = v.Widening(o) }

// WideningThreshold widens the interval factor with a threshold list.
func (v IntervalCongruence) WideningThreshold(o IntervalCongruence, thresholds []bound.Bound) IntervalCongruence {
	if v.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return v
	}
	return New(v.i.WideningThreshold(o.i, thresholds), v.c.Join(o.c))
}

// Narrowing narrows the interval factor and meets the congruence factor.
func (v IntervalCongruence) Narrowing(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return New(v.i.Narrowing(o.i), v.c.Meet(o.c))
}

// NarrowingInPlace destructively narrows v with o.
func (v *IntervalCongruence) NarrowingInPlace(o IntervalCongruence) { *v = v.Narrowing(o) }

// Add computes v + o on both factors, then reduces.
func (v IntervalCongruence) Add(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return New(v.i.Add(o.i), v.c.Add(o.c))
}

// Sub computes v - o on both factors, then reduces.
func (v IntervalCongruence) Sub(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return New(v.i.Sub(o.i), v.c.Sub(o.c))
}

// Mul computes v * o on both factors, then reduces.
func (v IntervalCongruence) Mul(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return New(v.i.Mul(o.i), v.c.Mul(o.c))
}

// Div computes v / o on both factors, then reduces.
func (v IntervalCongruence) Div(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return New(interval.ZDiv(v.i, o.i), v.c.Div(o.c))
}

func (v IntervalCongruence) String() string {
	if v.IsBottom() {
		return "_|_"
	}
	return v.i.String() + " ^ " + v.c.String()
}
