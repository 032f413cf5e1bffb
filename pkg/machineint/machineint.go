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

// Package machineint implements MachineInt, a fixed-width two's-complement
// integer, and MachineIntInterval, the bit-width/signedness-aware interval
// built on top of pkg/interval's Z carrier (spec section 4.2).
//
// Grounded on original_source/core/include/ikos/core/value/machine_int/interval.hpp
// (trunc/ext/sign_cast/cast, to_z_interval/from_z_interval with WrapTag and
// TruncTag) and .../domain/machine_int/numeric_domain_adapter.hpp (the
// wrap-as-two-congruent-Z-ops identity used by Wrap below).
package machineint

import (
	"fmt"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// Signedness distinguishes signed (two's-complement) from unsigned machine
// integers.
type Signedness bool

const (
	Unsigned Signedness = false
	Signed   Signedness = true
)

func (s Signedness) String() string {
	if s == Signed {
		return "signed"
	}
	return "unsigned"
}

// MachineInt is a fixed-width integer, canonically stored in its signed or
// unsigned range for (bitWidth, sign).
type MachineInt struct {
	z        number.Z
	bitWidth uint
	sign     Signedness
}

func powerOf2(n uint) number.Z {
	r := number.ZFromInt64(1)
	two := number.ZFromInt64(2)
	for i := uint(0); i < n; i++ {
		r = r.Mul(two)
	}
	return r
}

// modulus returns 2^bitWidth.
func modulus(bitWidth uint) number.Z { return powerOf2(bitWidth) }

// wrapZ reduces z into the canonical range of (bitWidth, sign), the same
// identity the adapter uses: unsigned is "z mod n"; signed is
// "((z + n/2) mod n) - n/2".
func wrapZ(z number.Z, bitWidth uint, sign Signedness) number.Z {
	n := modulus(bitWidth)
	if sign == Unsigned {
		return z.Mod(n)
	}
	half := powerOf2(bitWidth - 1)
	return z.Add(half).Mod(n).Sub(half)
}

// New builds a MachineInt by wrapping z into range.
func New(z number.Z, bitWidth uint, sign Signedness) MachineInt {
	return MachineInt{wrapZ(z, bitWidth, sign), bitWidth, sign}
}

// FromInt64 builds a MachineInt from a machine int64.
func FromInt64(v int64, bitWidth uint, sign Signedness) MachineInt {
	return New(number.ZFromInt64(v), bitWidth, sign)
}

// Min returns the least representable value for (bitWidth, sign).
func Min(bitWidth uint, sign Signedness) MachineInt {
	if sign == Unsigned {
		return MachineInt{number.ZFromInt64(0), bitWidth, sign}
	}
	return MachineInt{powerOf2(bitWidth - 1).Neg(), bitWidth, sign}
}

// Max returns the greatest representable value for (bitWidth, sign).
func Max(bitWidth uint, sign Signedness) MachineInt {
	if sign == Unsigned {
		return MachineInt{modulus(bitWidth).Sub(number.ZFromInt64(1)), bitWidth, sign}
	}
	return MachineInt{powerOf2(bitWidth - 1).Sub(number.ZFromInt64(1)), bitWidth, sign}
}

// BitWidth returns the bit width.
func (m MachineInt) BitWidth() uint { return m.bitWidth }

// Sign returns the signedness.
func (m MachineInt) Sign() Signedness { return m.sign }

// ToZ returns the unbounded-integer value.
func (m MachineInt) ToZ() number.Z { return m.z }

// HighBit returns the sign/most-significant bit (0 or 1), used by trunc and
// sign_cast to decide whether two values share the bits being dropped.
func (m MachineInt) HighBit() int {
	shifted := m.z
	if m.sign == Signed {
		// reinterpret the two's-complement bit pattern as unsigned first
		shifted = wrapZ(m.z, m.bitWidth, Unsigned)
	}
	half := powerOf2(m.bitWidth - 1)
	if shifted.Cmp(half) >= 0 {
		return 1
	}
	return 0
}

// Equals reports value, bit-width and sign equality.
func (m MachineInt) Equals(o MachineInt) bool {
	return m.bitWidth == o.bitWidth && m.sign == o.sign && m.z.Equals(o.z)
}

// Cmp compares two same-shaped MachineInt values.
func (m MachineInt) Cmp(o MachineInt) int { return m.z.Cmp(o.z) }

// Add/Sub/Mul are the wrap-around (two's-complement) binary operators.
func (m MachineInt) Add(o MachineInt) MachineInt { return New(m.z.Add(o.z), m.bitWidth, m.sign) }
func (m MachineInt) Sub(o MachineInt) MachineInt { return New(m.z.Sub(o.z), m.bitWidth, m.sign) }
func (m MachineInt) Mul(o MachineInt) MachineInt { return New(m.z.Mul(o.z), m.bitWidth, m.sign) }
func (m MachineInt) Neg() MachineInt             { return New(m.z.Neg(), m.bitWidth, m.sign) }

// Trunc reduces to a smaller bit width, keeping the sign: the value is
// wrapped into the new width's range. Whether a whole interval survives a
// trunc (the dropped high bits agree on lb and ub) is decided by
// Interval.Trunc below.
func (m MachineInt) Trunc(bitWidth uint) MachineInt {
	return New(m.z, bitWidth, m.sign)
}

// Ext extends to a larger bit width, keeping the sign and the mathematical
// value (no wrap can occur since the range only grows).
func (m MachineInt) Ext(bitWidth uint) MachineInt {
	return MachineInt{m.z, bitWidth, m.sign}
}

// SignCast reinterprets the same bit pattern under a different sign.
func (m MachineInt) SignCast(sign Signedness) MachineInt {
	return New(m.z, m.bitWidth, sign)
}

// Cast combines Trunc/Ext and SignCast in the canonical order: resize first,
// then reinterpret sign.
func (m MachineInt) Cast(bitWidth uint, sign Signedness) MachineInt {
	switch {
	case m.bitWidth == bitWidth:
		return m.SignCast(sign)
	case m.bitWidth < bitWidth:
		return m.Ext(bitWidth).SignCast(sign)
	default:
		return m.Trunc(bitWidth).SignCast(sign)
	}
}

func (m MachineInt) String() string {
	return fmt.Sprintf("%s (i%d %s)", m.z.String(), m.bitWidth, m.sign)
}

// Interval is a MachineInt interval: an Interval[bound.Bound] tagged with
// the bit-width and signedness it ranges over.
type Interval struct {
	i        interval.ZInterval
	bitWidth uint
	sign     Signedness
}

func fullRangeZ(bitWidth uint, sign Signedness) interval.ZInterval {
	return interval.ZRangeFrom(Min(bitWidth, sign).z, Max(bitWidth, sign).z)
}

// Top is the full representable range for (bitWidth, sign).
func Top(bitWidth uint, sign Signedness) Interval {
	return Interval{fullRangeZ(bitWidth, sign), bitWidth, sign}
}

// Bottom is the empty interval for (bitWidth, sign).
func Bottom(bitWidth uint, sign Signedness) Interval {
	return Interval{interval.ZBottom(), bitWidth, sign}
}

// Singleton builds the one-point interval {v}.
func Singleton(v MachineInt) Interval {
	return Interval{interval.ZSingleton(v.z), v.bitWidth, v.sign}
}

// NewInterval builds [lo, hi], both assumed already canonical for
// (bitWidth, sign).
func NewInterval(lo, hi MachineInt) Interval {
	return Interval{interval.ZRangeFrom(lo.z, hi.z), lo.bitWidth, lo.sign}
}

// BitWidth/Sign report the interval's shape.
func (v Interval) BitWidth() uint     { return v.bitWidth }
func (v Interval) Sign() Signedness   { return v.sign }
func (v Interval) IsBottom() bool     { return v.i.IsBottom() }
func (v Interval) IsTop() bool        { return v.i.Equals(fullRangeZ(v.bitWidth, v.sign)) }

// LB/UB return the bounds as MachineInt. Meaningless if IsBottom.
func (v Interval) LB() MachineInt { return MachineInt{v.i.LB().Z(), v.bitWidth, v.sign} }
func (v Interval) UB() MachineInt { return MachineInt{v.i.UB().Z(), v.bitWidth, v.sign} }

// SetToBottom/SetToTop mutate v in place.
func (v *Interval) SetToBottom() { v.i = interval.ZBottom() }
func (v *Interval) SetToTop()    { v.i = fullRangeZ(v.bitWidth, v.sign) }

// Leq/Equals/Join/Meet delegate to the underlying Z interval (same bit-width
// and sign is a caller invariant, matching the original's assert_compatible).
func (v Interval) Leq(o Interval) bool      { return v.i.Leq(o.i) }
func (v Interval) Equals(o Interval) bool   { return v.i.Equals(o.i) }
func (v Interval) Join(o Interval) Interval { return Interval{v.i.Join(o.i), v.bitWidth, v.sign} }
func (v Interval) Meet(o Interval) Interval { return Interval{v.i.Meet(o.i), v.bitWidth, v.sign} }

// Widening/Narrowing delegate the same way.
func (v Interval) Widening(o Interval) Interval {
	return Interval{v.i.Widening(o.i), v.bitWidth, v.sign}
}
func (v Interval) Narrowing(o Interval) Interval {
	return Interval{v.i.Narrowing(o.i), v.bitWidth, v.sign}
}

// wrap computes a binary op's wrap-around result: the exact Z result is
// reduced modulo 2^bitWidth into range, which is always a sound
// over-approximation; it is Top whenever wrapZInterval widens to the full
// range.
func wrap(zres interval.ZInterval, bitWidth uint, sign Signedness) Interval {
	return Interval{i: wrapZInterval(zres, bitWidth, sign), bitWidth: bitWidth, sign: sign}
}

// wrapZInterval applies the per-value wrap to both bounds; since wrapping is
// not monotone across a 2^n boundary, the result is widened to the full
// range when a bound is infinite, when the span covers a whole period or
// more, or when the wrapped bounds straddle the boundary (lb wraps above ub).
func wrapZInterval(i interval.ZInterval, bitWidth uint, sign Signedness) interval.ZInterval {
	if i.IsBottom() {
		return interval.ZBottom()
	}
	n := modulus(bitWidth)
	if !i.LB().IsFinite() || !i.UB().IsFinite() || i.UB().Z().Sub(i.LB().Z()).Cmp(n) >= 0 {
		return fullRangeZ(bitWidth, sign)
	}
	lo := New(i.LB().Z(), bitWidth, sign)
	hi := New(i.UB().Z(), bitWidth, sign)
	if lo.z.Cmp(hi.z) <= 0 {
		return interval.ZRangeFrom(lo.z, hi.z)
	}
	return fullRangeZ(bitWidth, sign)
}

// NoWrap computes a binary op's no-wrap result: the post-condition is
// weakened to Top if the exact result would not fit in range, per spec
// ("assumed absent, never strengthened to bottom").
func noWrap(zres interval.ZInterval, bitWidth uint, sign Signedness) Interval {
	if zres.IsBottom() {
		return Bottom(bitWidth, sign)
	}
	full := fullRangeZ(bitWidth, sign)
	if zres.Leq(full) {
		return Interval{zres, bitWidth, sign}
	}
	return Top(bitWidth, sign)
}

// WrapZInterval reduces an arbitrary-precision binary-op result into
// (bitWidth, sign)'s representable range, wrapping on overflow. This is the
// bridge pkg/transfer's generic per-ir.BinOp combinators call through for a
// statement's wrap variant: the combinator itself stays a plain Z-interval
// operation, and this function is what makes its result a sound
// machine-integer one.
func WrapZInterval(zres interval.ZInterval, bitWidth uint, sign Signedness) interval.ZInterval {
	return wrapZInterval(zres, bitWidth, sign)
}

// NoWrapZInterval applies the no-wrap postcondition to an arbitrary-precision
// binary-op result: kept as-is if it already fits (bitWidth, sign)'s range,
// otherwise weakened to the full range (never strengthened to Bottom, per
// spec's "overflow assumed absent"). The pkg/transfer bridge for a
// statement's no-wrap variant.
func NoWrapZInterval(zres interval.ZInterval, bitWidth uint, sign Signedness) interval.ZInterval {
	return noWrap(zres, bitWidth, sign).ToZInterval()
}

// Add/Sub/Mul (wrap) and AddNoWrap/SubNoWrap/MulNoWrap mirror spec's two
// flavors of every binary arithmetic operator.
func (v Interval) Add(o Interval) Interval { return wrap(v.i.Add(o.i), v.bitWidth, v.sign) }
func (v Interval) Sub(o Interval) Interval { return wrap(v.i.Sub(o.i), v.bitWidth, v.sign) }
func (v Interval) Mul(o Interval) Interval { return wrap(v.i.Mul(o.i), v.bitWidth, v.sign) }

func (v Interval) AddNoWrap(o Interval) Interval { return noWrap(v.i.Add(o.i), v.bitWidth, v.sign) }
func (v Interval) SubNoWrap(o Interval) Interval { return noWrap(v.i.Sub(o.i), v.bitWidth, v.sign) }
func (v Interval) MulNoWrap(o Interval) Interval { return noWrap(v.i.Mul(o.i), v.bitWidth, v.sign) }

// Div is Euclidean division under the no-wrap rule: overflow on division,
// e.g. MIN/-1, is undefined behavior in C, so a quotient that does not fit
// in range weakens to Top.
func (v Interval) Div(o Interval) Interval {
	return noWrap(interval.ZDiv(v.i, o.i), v.bitWidth, v.sign)
}

// Trunc reduces the interval to a smaller bit width, per spec: kept iff the
// dropped high bits agree on lb and ub, else Top.
func (v Interval) Trunc(bitWidth uint) Interval {
	if v.IsBottom() {
		return Bottom(bitWidth, v.sign)
	}
	if v.i.LB().Equals(v.i.UB()) {
		return Singleton(v.LB().Trunc(bitWidth))
	}
	if v.LB().HighDroppedBits(bitWidth) == v.UB().HighDroppedBits(bitWidth) {
		return NewInterval(v.LB().Trunc(bitWidth), v.UB().Trunc(bitWidth))
	}
	return Top(bitWidth, v.sign)
}

// HighDroppedBits returns the bits of m above bitWidth, as the decimal
// string of that integer, used to test agreement before a trunc.
func (m MachineInt) HighDroppedBits(bitWidth uint) string {
	u := wrapZ(m.z, m.bitWidth, Unsigned)
	shifted := u.Div(powerOf2(bitWidth))
	return shifted.String()
}

// Ext extends the interval to a larger bit width (always exact: the range
// only grows).
func (v Interval) Ext(bitWidth uint) Interval {
	if v.IsBottom() {
		return Bottom(bitWidth, v.sign)
	}
	return NewInterval(v.LB().Ext(bitWidth), v.UB().Ext(bitWidth))
}

// SignCast reinterprets the interval's bit pattern under a different sign,
// kept exact iff lb and ub share the same high (sign) bit.
func (v Interval) SignCast(sign Signedness) Interval {
	if v.IsBottom() {
		return Bottom(v.bitWidth, sign)
	}
	if v.i.LB().Equals(v.i.UB()) {
		return Singleton(v.LB().SignCast(sign))
	}
	if v.LB().HighBit() == v.UB().HighBit() {
		lo, hi := v.LB().SignCast(sign), v.UB().SignCast(sign)
		if lo.Cmp(hi) <= 0 {
			return NewInterval(lo, hi)
		}
		return NewInterval(hi, lo)
	}
	return Top(v.bitWidth, sign)
}

// Cast composes Trunc/Ext and SignCast in the same order as MachineInt.Cast.
func (v Interval) Cast(bitWidth uint, sign Signedness) Interval {
	switch {
	case v.bitWidth == bitWidth:
		if v.sign == sign {
			return v
		}
		return v.SignCast(sign)
	case v.bitWidth < bitWidth:
		if v.sign == sign {
			return v.Ext(bitWidth)
		}
		return v.Ext(bitWidth).SignCast(sign)
	default:
		if v.sign == sign {
			return v.Trunc(bitWidth)
		}
		return v.Trunc(bitWidth).SignCast(sign)
	}
}

// ToZInterval drops the bit-width/sign tag, returning the exact Z interval.
func (v Interval) ToZInterval() interval.ZInterval { return v.i }

// FromZMode selects the Wrap or Trunc conversion policy of FromZInterval.
type FromZMode int

const (
	// Wrap keeps the interval iff the span equals the wrapped span,
	// otherwise Top (spec: "[255,256] unsigned/8 -> Top").
	Wrap FromZMode = iota
	// Trunc intersects with [MIN,MAX] first, then moves to machine-int
	// space (spec: "[255,256] unsigned/8 -> [255,255]").
	Trunc
)

// FromZInterval converts an unbounded Z interval into a MachineInt interval
// of the given shape, per the selected mode.
func FromZInterval(i interval.ZInterval, bitWidth uint, sign Signedness, mode FromZMode) Interval {
	if i.IsBottom() {
		return Bottom(bitWidth, sign)
	}
	if mode == Trunc {
		full := fullRangeZ(bitWidth, sign)
		j := i.Meet(full)
		if j.IsBottom() {
			return Bottom(bitWidth, sign)
		}
		return Interval{j, bitWidth, sign}
	}
	// Wrap
	if !i.LB().IsFinite() || !i.UB().IsFinite() {
		return Top(bitWidth, sign)
	}
	zLB, zUB := i.LB().Z(), i.UB().Z()
	lo := New(zLB, bitWidth, sign)
	hi := New(zUB, bitWidth, sign)
	if hi.z.Sub(lo.z).Equals(zUB.Sub(zLB)) {
		return NewInterval(lo, hi)
	}
	return Top(bitWidth, sign)
}

func (v Interval) String() string {
	if v.IsBottom() {
		return "_|_"
	}
	return v.i.String()
}
