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

// Package number provides the two exact number kinds the engine's lattices
// are built over: unbounded integers (Z) and unbounded rationals (Q).
package number

import "math/big"

// Z is an unbounded (arbitrary-precision) integer.
type Z struct {
	val big.Int
}

// ZFromInt64 constructs a Z from a machine int64.
func ZFromInt64(v int64) Z {
	var z Z
	z.val.SetInt64(v)
	return z
}

// ZFromBigInt constructs a Z by cloning a big.Int.
func ZFromBigInt(v *big.Int) Z {
	var z Z
	z.val.Set(v)
	return z
}

// BigInt returns a copy of the underlying big.Int.
func (z Z) BigInt() big.Int {
	var v big.Int
	v.Set(&z.val)
	return v
}

// Sign returns -1, 0 or +1.
func (z Z) Sign() int { return z.val.Sign() }

// Cmp compares two Z values.
func (z Z) Cmp(o Z) int { return z.val.Cmp(&o.val) }

// Add returns z + o.
func (z Z) Add(o Z) Z {
	var r Z
	r.val.Add(&z.val, &o.val)
	return r
}

// Sub returns z - o.
func (z Z) Sub(o Z) Z {
	var r Z
	r.val.Sub(&z.val, &o.val)
	return r
}

// Mul returns z * o.
func (z Z) Mul(o Z) Z {
	var r Z
	r.val.Mul(&z.val, &o.val)
	return r
}

// Neg returns -z.
func (z Z) Neg() Z {
	var r Z
	r.val.Neg(&z.val)
	return r
}

// Abs returns |z|.
func (z Z) Abs() Z {
	var r Z
	r.val.Abs(&z.val)
	return r
}

// EuclideanDivMod returns (q, r) such that z = o*q + r, 0 <= r < |o|, per the
// Euclidean convention: the remainder always takes the sign of the divisor's
// absolute value (i.e. is always non-negative), matching spec's "remainder
// same sign as divisor" for Div and "mathematical modulo" for Mod.
func (z Z) EuclideanDivMod(o Z) (Z, Z) {
	var q, r big.Int
	q.DivMod(&z.val, &o.val, &r)
	return Z{q}, Z{r}
}

// Mod returns the non-negative mathematical modulo of z by o.
func (z Z) Mod(o Z) Z {
	_, r := z.EuclideanDivMod(o)
	return r
}

// Div returns the Euclidean quotient of z by o.
func (z Z) Div(o Z) Z {
	q, _ := z.EuclideanDivMod(o)
	return q
}

// GCD returns the non-negative greatest common divisor of z and o.
func (z Z) GCD(o Z) Z {
	var r Z
	az, ao := z.Abs(), o.Abs()
	r.val.GCD(nil, nil, &az.val, &ao.val)
	return r
}

// IsZero reports whether z == 0.
func (z Z) IsZero() bool { return z.val.Sign() == 0 }

// Equals reports structural equality.
func (z Z) Equals(o Z) bool { return z.Cmp(o) == 0 }

// String renders the decimal representation.
func (z Z) String() string { return z.val.String() }

// Min returns the lesser of two Z values.
func Min(a, b Z) Z {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the greater of two Z values.
func Max(a, b Z) Z {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Q is an unbounded rational number.
type Q struct {
	val big.Rat
}

// QFromZ lifts an integer to a rational.
func QFromZ(z Z) Q {
	var q Q
	q.val.SetInt(&z.val)
	return q
}

// QFromFrac constructs num/den.
func QFromFrac(num, den Z) Q {
	var q Q
	q.val.SetFrac(&num.val, &den.val)
	return q
}

// Cmp compares two Q values.
func (q Q) Cmp(o Q) int { return q.val.Cmp(&o.val) }

// Add returns q + o.
func (q Q) Add(o Q) Q {
	var r Q
	r.val.Add(&q.val, &o.val)
	return r
}

// Sub returns q - o.
func (q Q) Sub(o Q) Q {
	var r Q
	r.val.Sub(&q.val, &o.val)
	return r
}

// Mul returns q * o.
func (q Q) Mul(o Q) Q {
	var r Q
	r.val.Mul(&q.val, &o.val)
	return r
}

// Quo returns q / o. Panics if o is zero, matching big.Rat's own contract.
func (q Q) Quo(o Q) Q {
	var r Q
	r.val.Quo(&q.val, &o.val)
	return r
}

// Neg returns -q.
func (q Q) Neg() Q {
	var r Q
	r.val.Neg(&q.val)
	return r
}

// IsZero reports whether q == 0.
func (q Q) IsZero() bool { return q.val.Sign() == 0 }

// Equals reports structural equality.
func (q Q) Equals(o Q) bool { return q.Cmp(o) == 0 }

// String renders the rational as "num/den" (or an integer when den == 1).
func (q Q) String() string { return q.val.RatString() }

// QMin returns the lesser of two Q values.
func QMin(a, b Q) Q {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// QMax returns the greater of two Q values.
func QMax(a, b Q) Q {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
