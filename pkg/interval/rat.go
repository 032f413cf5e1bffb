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

// QInterval is an interval over the unbounded rationals.
type QInterval = Interval[bound.RatBound]

var qInf = Infinities[bound.RatBound]{Neg: bound.RatNegInfinity, Pos: bound.RatPosInfinity}

// QTop is the unconstrained rational interval.
func QTop() QInterval { return Top[bound.RatBound](qInf) }

// QBottom is the empty rational interval.
func QBottom() QInterval { return Bottom[bound.RatBound](qInf) }

// QSingleton builds the one-point interval {v}.
func QSingleton(v number.Q) QInterval { return Singleton(bound.RatFromQ(v), qInf) }

// QRangeFrom builds [lo, hi] from finite Q bounds.
func QRangeFrom(lo, hi number.Q) QInterval {
	return New(bound.RatFromQ(lo), bound.RatFromQ(hi), qInf)
}

var qZero = bound.RatFromInt64(0)

// QDiv computes rational interval division. Unlike Z, Q is dense: there is
// no "nearest value to zero" to split around, so whenever the divisor
// interval contains zero anywhere in its range (including at an endpoint)
// the quotient is unbounded on at least one side and the sound result is
// Top, matching the classical IEEE-754-style convention for continuous
// interval division. The one exception is p = {0}: 0 divided by any
// divisor other than {0} is exactly {0}. A divisor of exactly {0} has no
// quotient at all and gives Bottom, checked before either rule above.
func QDiv(p, q QInterval) QInterval {
	if p.IsBottom() || q.IsBottom() {
		return QBottom()
	}
	if q.lb.Equals(qZero) && q.ub.Equals(qZero) {
		return QBottom()
	}
	if q.ContainsZero(qZero) {
		if p.lb.Equals(qZero) && p.ub.Equals(qZero) {
			return QSingleton(number.QFromZ(number.ZFromInt64(0)))
		}
		return QTop()
	}
	div := func(a, b bound.RatBound) bound.RatBound {
		if a.IsFinite() && b.IsFinite() {
			return bound.RatFromQ(a.Q().Quo(b.Q()))
		}
		if a.IsFinite() && a.Q().IsZero() {
			return bound.RatFromInt64(0)
		}
		neg := (a.Cmp(qZero) < 0) != (b.Cmp(qZero) < 0)
		if neg {
			return bound.RatNegInfinity
		}
		return bound.RatPosInfinity
	}
	x1, x2 := div(p.lb, q.lb), div(p.lb, q.ub)
	x3, x4 := div(p.ub, q.lb), div(p.ub, q.ub)
	lb := bound.RatMin(bound.RatMin(x1, x2), bound.RatMin(x3, x4))
	ub := bound.RatMax(bound.RatMax(x1, x2), bound.RatMax(x3, x4))
	return New(lb, ub, qInf)
}
