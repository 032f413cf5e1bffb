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

// Package congruence implements the Congruence abstract value of spec
// section 4.3: the set of integers aZ+b, canonicalized so that a >= 0 and
// 0 <= b < a when a != 0 (spec invariant 6: unique representation).
//
// Grounded on original_source/core/test/unit/value/numeric/congruence.cpp
// for the canonical-form and CRT-meet semantics; no teacher file models
// this (go-corset has no notion of modular/congruence reasoning).
package congruence

import "github.com/NASA-SW-VnV/ikos-sub006/pkg/number"

// Congruence represents aZ+b, or a distinguished Bottom.
type Congruence struct {
	a, b     number.Z
	isBottom bool
}

// Top is the congruence 1Z+0, i.e. all integers.
func Top() Congruence {
	return Congruence{a: number.ZFromInt64(1), b: number.ZFromInt64(0)}
}

// Bottom is the empty congruence.
func Bottom() Congruence {
	return Congruence{isBottom: true}
}

// New builds aZ+b, canonicalizing a and b per spec invariant 6. a must be
// non-negative; a == 0 represents the single-point congruence {b}.
func New(a, b number.Z) Congruence {
	a = a.Abs()
	if !a.IsZero() {
		b = b.Mod(a)
	}
	return Congruence{a: a, b: b}
}

// Singleton builds the congruence {v}, i.e. 0Z+v.
func Singleton(v number.Z) Congruence {
	return New(number.ZFromInt64(0), v)
}

// A returns the modulus.
func (c Congruence) A() number.Z { return c.a }

// B returns the residue.
func (c Congruence) B() number.Z { return c.b }

// IsBottom reports emptiness.
func (c Congruence) IsBottom() bool { return c.isBottom }

// IsTop reports whether this is 1Z+0.
func (c Congruence) IsTop() bool {
	return !c.isBottom && c.a.Equals(number.ZFromInt64(1))
}

// IsSingleton reports whether this congruence denotes exactly one integer.
func (c Congruence) IsSingleton() bool {
	return !c.isBottom && c.a.IsZero()
}

// SetToBottom mutates c in place to Bottom.
func (c *Congruence) SetToBottom() { *c = Bottom() }

// SetToTop mutates c in place to Top.
func (c *Congruence) SetToTop() { *c = Top() }

// Contains reports whether v is in aZ+b.
func (c Congruence) Contains(v number.Z) bool {
	if c.isBottom {
		return false
	}
	if c.a.IsZero() {
		return v.Equals(c.b)
	}
	return v.Mod(c.a).Equals(c.b)
}

// Leq reports c subset-of o: every element of c's congruence class is an
// element of o's, i.e. o.a divides c.a and c.b == o.b (mod o.a).
func (c Congruence) Leq(o Congruence) bool {
	if c.isBottom {
		return true
	}
	if o.isBottom {
		return false
	}
	if o.a.IsZero() {
		return c.IsSingleton() && c.b.Equals(o.b)
	}
	return c.a.Mod(o.a).IsZero() && c.b.Mod(o.a).Equals(o.b.Mod(o.a))
}

// Equals reports structural equality after canonicalization.
func (c Congruence) Equals(o Congruence) bool {
	if c.isBottom || o.isBottom {
		return c.isBottom && o.isBottom
	}
	return c.a.Equals(o.a) && c.b.Equals(o.b)
}

// Join is gcd(a, a', |b-b'|)Z + b, canonicalized (spec section 4.3).
func (c Congruence) Join(o Congruence) Congruence {
	if c.isBottom {
		return o
	}
	if o.isBottom {
		return c
	}
	diff := c.b.Sub(o.b).Abs()
	g := c.a.GCD(o.a).GCD(diff)
	return New(g, c.b)
}

// JoinInPlace destructively joins o into c.
func (c *Congruence) JoinInPlace(o Congruence) { *c = c.Join(o) }

// Meet solves the CRT system {x = b mod a, x = b' mod a'}; Bottom if
// unsolvable.
func (c Congruence) Meet(o Congruence) Congruence {
	if c.isBottom || o.isBottom {
		return Bottom()
	}
	if c.a.IsZero() && o.a.IsZero() {
		if c.b.Equals(o.b) {
			return c
		}
		return Bottom()
	}
	if c.a.IsZero() {
		if o.Contains(c.b) {
			return c
		}
		return Bottom()
	}
	if o.a.IsZero() {
		if c.Contains(o.b) {
			return o
		}
		return Bottom()
	}
	// Solve x = c.b (mod c.a), x = o.b (mod o.a) via extended-Euclid CRT.
	g, u, _ := extendedGCD(c.a, o.a)
	diff := o.b.Sub(c.b)
	if !diff.Mod(g).IsZero() {
		return Bottom()
	}
	lcm := c.a.Div(g).Mul(o.a)
	// x = c.b + c.a * (u * diff/g mod (o.a/g))
	step := o.a.Div(g)
	k := u.Mul(diff.Div(g)).Mod(step)
	x := c.b.Add(c.a.Mul(k))
	return New(lcm, x)
}

// MeetInPlace destructively meets o into c.
func (c *Congruence) MeetInPlace(o Congruence) { *c = c.Meet(o) }

// extendedGCD returns (g, u, v) such that a*u + b*v = g = gcd(a,b).
func extendedGCD(a, b number.Z) (number.Z, number.Z, number.Z) {
	old_r, r := a, b
	old_s, s := number.ZFromInt64(1), number.ZFromInt64(0)
	old_t, t := number.ZFromInt64(0), number.ZFromInt64(1)
	for !r.IsZero() {
		q := old_r.Div(r)
		old_r, r = r, old_r.Sub(q.Mul(r))
		old_s, s = s, old_s.Sub(q.Mul(s))
		old_t, t = t, old_t.Sub(q.Mul(t))
	}
	return old_r, old_s, old_t
}

// Widening has no finer upper-bound than Join in a height-bounded lattice
// of divisors: the modulus a only ever grows via gcd, so widening coincides
// with join (the ascending chain already stabilizes in O(log a) steps).
func (c Congruence) Widening(o Congruence) Congruence { return c.Join(o) }

// WideningInPlace destructively widens c with o.
func (c *Congruence) WideningInPlace(o Congruence) { *c = c.Widening(o) }

// Narrowing has no finer lower-bound computable from congruences alone
// without extra context, so it coincides with Meet.
func (c Congruence) Narrowing(o Congruence) Congruence { return c.Meet(o) }

// NarrowingInPlace destructively narrows c with o.
func (c *Congruence) NarrowingInPlace(o Congruence) { *c = c.Narrowing(o) }

// Add computes (aZ+b) + (a'Z+b').
func (c Congruence) Add(o Congruence) Congruence {
	if c.isBottom || o.isBottom {
		return Bottom()
	}
	return New(c.a.GCD(o.a), c.b.Add(o.b))
}

// Neg computes -(aZ+b) = aZ-b.
func (c Congruence) Neg() Congruence {
	if c.isBottom {
		return c
	}
	return New(c.a, c.b.Neg())
}

// Sub computes (aZ+b) - (a'Z+b').
func (c Congruence) Sub(o Congruence) Congruence { return c.Add(o.Neg()) }

// Mul computes (aZ+b) * (a'Z+b') = gcd(a*a', a*b', a'*b)Z + b*b'.
func (c Congruence) Mul(o Congruence) Congruence {
	if c.isBottom || o.isBottom {
		return Bottom()
	}
	g := c.a.Mul(o.a).GCD(c.a.Mul(o.b)).GCD(o.a.Mul(c.b))
	return New(g, c.b.Mul(o.b))
}

// Div computes (aZ+b) / (a'Z+b'): Top unless the divisor is a non-zero
// singleton a'=0,b'!=0, in which case it's aZ/b' + floor(b/b') per spec
// section 4.3 (Euclidean rounding).
func (c Congruence) Div(o Congruence) Congruence {
	if c.isBottom || o.isBottom {
		return Bottom()
	}
	if !o.a.IsZero() || o.b.IsZero() {
		return Top()
	}
	return New(c.a.Div(o.b), c.b.Div(o.b))
}

func (c Congruence) String() string {
	if c.isBottom {
		return "_|_"
	}
	return c.a.String() + "Z+" + c.b.String()
}
