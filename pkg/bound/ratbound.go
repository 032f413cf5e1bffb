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
package bound

import "github.com/NASA-SW-VnV/ikos-sub006/pkg/number"

// RatBound is the rational analog of Bound: a rational number or +-infinity.
// Kept as a distinct type (rather than making Bound generic) because spec
// section 4.1 treats "Integer and rational intervals share the algorithm;
// only the underlying number differs" as a statement about the interval
// algorithm, not about the bound representation; pkg/interval's generic
// Interval[T] is what actually shares the code, parameterized over this and
// Bound via the Value constraint.
type RatBound struct {
	val number.Q
	s   sign
}

// RatNegInfinity is the rational bound below every finite value.
var RatNegInfinity = RatBound{s: negInf}

// RatPosInfinity is the rational bound above every finite value.
var RatPosInfinity = RatBound{s: posInf}

// RatFromQ lifts a finite rational into a RatBound.
func RatFromQ(q number.Q) RatBound { return RatBound{val: q, s: finite} }

// RatFromInt64 lifts a machine int64 into a RatBound.
func RatFromInt64(v int64) RatBound { return RatFromQ(number.QFromZ(number.ZFromInt64(v))) }

// IsFinite reports whether this bound is not an infinity.
func (b RatBound) IsFinite() bool { return b.s == finite }

// Q returns the finite value. Panics if the bound is infinite.
func (b RatBound) Q() number.Q {
	if b.s != finite {
		panic("ratbound: cannot extract finite value from an infinity")
	}
	return b.val
}

// Cmp orders two bounds, -inf < finite < +inf.
func (b RatBound) Cmp(o RatBound) int {
	switch {
	case b.s == finite && o.s == finite:
		return b.val.Cmp(o.val)
	case b.s == o.s:
		return 0
	case b.s == negInf || o.s == posInf:
		return -1
	default:
		return 1
	}
}

// Leq reports b <= o.
func (b RatBound) Leq(o RatBound) bool { return b.Cmp(o) <= 0 }

// Equals reports structural equality.
func (b RatBound) Equals(o RatBound) bool { return b.Cmp(o) == 0 }

// Neg negates a bound, swapping the two infinities.
func (b RatBound) Neg() RatBound {
	switch b.s {
	case negInf:
		return RatPosInfinity
	case posInf:
		return RatNegInfinity
	default:
		return RatFromQ(b.val.Neg())
	}
}

// Add adds two bounds per the same total-function convention as Bound.Add.
func (b RatBound) Add(o RatBound) RatBound {
	switch {
	case b.s == finite && o.s == finite:
		return RatFromQ(b.val.Add(o.val))
	case b.s == o.s:
		return b
	case b.s == finite:
		return o
	case o.s == finite:
		return b
	default:
		return RatNegInfinity
	}
}

// Sub subtracts o from b.
func (b RatBound) Sub(o RatBound) RatBound { return b.Add(o.Neg()) }

// Mul multiplies two bounds, applying the single special rule 0 * +-inf = 0.
func (b RatBound) Mul(o RatBound) RatBound {
	switch {
	case b.s == finite && b.val.IsZero():
		return RatFromInt64(0)
	case o.s == finite && o.val.IsZero():
		return RatFromInt64(0)
	case b.s == finite && o.s == finite:
		return RatFromQ(b.val.Mul(o.val))
	default:
		negative := (b.signOf() < 0) != (o.signOf() < 0)
		if negative {
			return RatNegInfinity
		}
		return RatPosInfinity
	}
}

func (b RatBound) signOf() int {
	switch b.s {
	case negInf:
		return -1
	case posInf:
		return 1
	default:
		return b.val.Cmp(number.QFromZ(number.ZFromInt64(0)))
	}
}

func (b RatBound) String() string {
	switch b.s {
	case negInf:
		return "-oo"
	case posInf:
		return "+oo"
	default:
		return b.val.String()
	}
}

// RatMin returns the lesser of two bounds.
func RatMin(a, b RatBound) RatBound {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// RatMax returns the greater of two bounds.
func RatMax(a, b RatBound) RatBound {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
