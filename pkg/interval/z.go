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
package interval

import (
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/bound"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// ZInterval is an interval over the unbounded integers.
type ZInterval = Interval[bound.Bound]

var zInf = Infinities[bound.Bound]{Neg: bound.NegInfinity, Pos: bound.PosInfinity}

// ZTop is the unconstrained integer interval.
func ZTop() ZInterval { return Top[bound.Bound](zInf) }

// ZBottom is the empty integer interval.
func ZBottom() ZInterval { return Bottom[bound.Bound](zInf) }

// ZSingleton builds the one-point interval {v}.
func ZSingleton(v number.Z) ZInterval { return Singleton(bound.FromZ(v), zInf) }

// ZRange builds [lo, hi] from finite machine int64 bounds.
func ZRange(lo, hi int64) ZInterval {
	return New(bound.FromInt64(lo), bound.FromInt64(hi), zInf)
}

// ZRangeFrom builds [lo, hi] from finite Z bounds.
func ZRangeFrom(lo, hi number.Z) ZInterval {
	return New(bound.FromZ(lo), bound.FromZ(hi), zInf)
}

var zZero = bound.FromInt64(0)
var zOne = bound.FromInt64(1)

// ZDiv computes Euclidean interval division per spec section 4.1, splitting
// the divisor around zero. Since Z is discrete, the split excludes 0 by
// moving to the nearest integers -1 and +1, which remain exact (unlike the
// rational case, where no such nearest value exists).
func ZDiv(p, q ZInterval) ZInterval {
	if p.IsBottom() || q.IsBottom() {
		return ZBottom()
	}
	if q.lb.Equals(zZero) && q.ub.Equals(zZero) {
		return ZBottom()
	}
	if !q.ContainsZero(zZero) {
		return zDivNonZero(p, q)
	}
	result := ZBottom()
	if q.lb.Cmp(zZero) < 0 {
		negUB := bound.Min(q.ub, zZero.Sub(zOne))
		if q.lb.Cmp(negUB) <= 0 {
			result = result.Join(zDivNonZero(p, New(q.lb, negUB, zInf)))
		}
	}
	if q.ub.Cmp(zZero) > 0 {
		posLB := bound.Max(q.lb, zZero.Add(zOne))
		if posLB.Cmp(q.ub) <= 0 {
			result = result.Join(zDivNonZero(p, New(posLB, q.ub, zInf)))
		}
	}
	return result
}

func zDivNonZero(p, q ZInterval) ZInterval {
	div := func(a, b bound.Bound) bound.Bound {
		switch {
		case a.IsFinite() && b.IsFinite():
			return bound.FromZ(a.Z().Div(b.Z()))
		case a.IsFinite() && a.Z().IsZero():
			return bound.FromInt64(0)
		case !a.IsFinite() && !b.IsFinite():
			neg := (a.Cmp(zZero) < 0) != (b.Cmp(zZero) < 0)
			if neg {
				return bound.NegInfinity
			}
			return bound.PosInfinity
		case !b.IsFinite():
			return bound.FromInt64(0)
		default: // a infinite, b finite non-zero
			neg := (a.Cmp(zZero) < 0) != (b.Cmp(zZero) < 0)
			if neg {
				return bound.NegInfinity
			}
			return bound.PosInfinity
		}
	}
	x1, x2 := div(p.lb, q.lb), div(p.lb, q.ub)
	x3, x4 := div(p.ub, q.lb), div(p.ub, q.ub)
	lb := bound.Min(bound.Min(x1, x2), bound.Min(x3, x4))
	ub := bound.Max(bound.Max(x1, x2), bound.Max(x3, x4))
	return New(lb, ub, zInf)
}

// BitWidth returns the number of bits needed to represent every value in
// [0, ub] (spec's use case: sizing a fresh variable from a known-non-negative
// interval). Returns 0 for Bottom, a negative-only interval, or an interval
// with no finite upper bound.
func BitWidth(p ZInterval) uint {
	if p.IsBottom() || !p.ub.IsFinite() || p.ub.Cmp(zZero) < 0 {
		return 0
	}
	ub := p.ub.Z().BigInt()
	return uint(ub.BitLen())
}

// BitAndApprox conservatively approximates bitwise AND over two
// non-negative integer intervals as [0, min(ub1,ub2)], per spec section 4.1;
// returns Top if either operand may be negative (no closed form attempted).
func BitAndApprox(p, q ZInterval) ZInterval {
	if p.IsBottom() || q.IsBottom() {
		return ZBottom()
	}
	if p.lb.Cmp(zZero) < 0 || q.lb.Cmp(zZero) < 0 {
		return ZTop()
	}
	return New(zZero, bound.Min(p.ub, q.ub), zInf)
}

// BitOrApprox conservatively approximates bitwise OR over two non-negative
// integer intervals as [max(lb1,lb2), 2^k - 1] where 2^k-1 is the smallest
// all-ones value covering both upper bounds.
func BitOrApprox(p, q ZInterval) ZInterval {
	if p.IsBottom() || q.IsBottom() {
		return ZBottom()
	}
	if p.lb.Cmp(zZero) < 0 || q.lb.Cmp(zZero) < 0 {
		return ZTop()
	}
	if !p.ub.IsFinite() || !q.ub.IsFinite() {
		return New(bound.Max(p.lb, q.lb), bound.PosInfinity, zInf)
	}
	bits := BitWidth(p)
	if BitWidth(q) > bits {
		bits = BitWidth(q)
	}
	if bits == 0 {
		return ZRange(0, 0)
	}
	allOnes := number.ZFromInt64(1)
	two := number.ZFromInt64(2)
	for i := uint(0); i < bits; i++ {
		allOnes = allOnes.Mul(two)
	}
	allOnes = allOnes.Sub(number.ZFromInt64(1))
	return New(bound.Max(p.lb, q.lb), bound.FromZ(allOnes), zInf)
}

// BitXorApprox approximates XOR the same way as OR (a standard, very coarse,
// but sound closed form): [0, 2^k - 1] covering both operands' bit widths.
func BitXorApprox(p, q ZInterval) ZInterval {
	if p.IsBottom() || q.IsBottom() {
		return ZBottom()
	}
	if p.lb.Cmp(zZero) < 0 || q.lb.Cmp(zZero) < 0 {
		return ZTop()
	}
	or := BitOrApprox(p, q)
	return New(zZero, or.ub, zInf)
}
