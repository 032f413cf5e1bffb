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

// Package interval implements the Interval abstract value of spec section
// 4.1: a single generic algorithm shared by the integer (Z) and rational (Q)
// flavors, parameterized over the underlying Value (spec: "Integer and
// rational intervals share the algorithm; only the underlying number
// differs").
//
// Grounded directly on the teacher's pkg/util/interval.go and
// pkg/util/math/interval.go (the closest file in the whole retrieved pack to
// a spec component): same [lb,ub] shape over a big.Int-backed bound, same
// Add/Sub/Mul-by-corner-cases algorithm. Widening/narrowing and the
// threshold variants have no teacher analog (go-corset never
// fixpoint-iterates a CFG) and are built directly from spec section 4.1.
package interval

// Value is the bound type an Interval is built over: bound.Bound for
// integers, bound.RatBound for rationals.
type Value[T any] interface {
	Cmp(o T) int
	Leq(o T) bool
	Equals(o T) bool
	Add(o T) T
	Sub(o T) T
	Mul(o T) T
	Neg() T
	String() string
}

// Infinities supplies the two sentinel values used to represent Top and to
// widen a worsening bound, since Go generics cannot call per-type static
// constructors.
type Infinities[T any] struct {
	Neg, Pos T
}

// Interval is [lb, ub] over T; lb.Cmp(ub) > 0 encodes Bottom.
type Interval[T Value[T]] struct {
	lb, ub T
	inf    Infinities[T]
}

// New builds the interval [lb, ub].
func New[T Value[T]](lb, ub T, inf Infinities[T]) Interval[T] {
	return Interval[T]{lb, ub, inf}
}

// Bottom returns the empty interval for the given carrier.
func Bottom[T Value[T]](inf Infinities[T]) Interval[T] {
	return Interval[T]{inf.Pos, inf.Neg, inf}
}

// Top returns [-inf, +inf].
func Top[T Value[T]](inf Infinities[T]) Interval[T] {
	return Interval[T]{inf.Neg, inf.Pos, inf}
}

// Singleton returns the one-point interval [v, v].
func Singleton[T Value[T]](v T, inf Infinities[T]) Interval[T] {
	return Interval[T]{v, v, inf}
}

// LB returns the lower bound. Meaningless if IsBottom.
func (p Interval[T]) LB() T { return p.lb }

// UB returns the upper bound. Meaningless if IsBottom.
func (p Interval[T]) UB() T { return p.ub }

// IsBottom reports emptiness.
func (p Interval[T]) IsBottom() bool { return p.lb.Cmp(p.ub) > 0 }

// IsTop reports whether this is the unconstrained [-inf,+inf] interval.
func (p Interval[T]) IsTop() bool {
	return !p.IsBottom() && p.lb.Equals(p.inf.Neg) && p.ub.Equals(p.inf.Pos)
}

// SetToBottom mutates p in place to Bottom.
func (p *Interval[T]) SetToBottom() { p.lb, p.ub = p.inf.Pos, p.inf.Neg }

// SetToTop mutates p in place to Top.
func (p *Interval[T]) SetToTop() { p.lb, p.ub = p.inf.Neg, p.inf.Pos }

// Leq is the interval partial order: subset-of.
func (p Interval[T]) Leq(q Interval[T]) bool {
	if p.IsBottom() {
		return true
	}
	if q.IsBottom() {
		return false
	}
	return q.lb.Leq(p.lb) && p.ub.Leq(q.ub)
}

// Equals is structural interval equality (both bottom, or same bounds).
func (p Interval[T]) Equals(q Interval[T]) bool {
	if p.IsBottom() || q.IsBottom() {
		return p.IsBottom() && q.IsBottom()
	}
	return p.lb.Equals(q.lb) && p.ub.Equals(q.ub)
}

func minT[T Value[T]](a, b T) T {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func maxT[T Value[T]](a, b T) T {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Join is the convex hull of the two intervals.
func (p Interval[T]) Join(q Interval[T]) Interval[T] {
	if p.IsBottom() {
		return q
	}
	if q.IsBottom() {
		return p
	}
	return Interval[T]{minT(p.lb, q.lb), maxT(p.ub, q.ub), p.inf}
}

// JoinInPlace destructively joins q into p.
func (p *Interval[T]) JoinInPlace(q Interval[T]) { *p = p.Join(q) }

// Meet is the intersection of the two intervals.
func (p Interval[T]) Meet(q Interval[T]) Interval[T] {
	if p.IsBottom() || q.IsBottom() {
		return Bottom(p.inf)
	}
	return Interval[T]{maxT(p.lb, q.lb), minT(p.ub, q.ub), p.inf}
}

// MeetInPlace destructively meets q into p.
func (p *Interval[T]) MeetInPlace(q Interval[T]) { *p = p.Meet(q) }

// Widening is the classical interval widening: any bound that strictly
// worsened (grew wider) jumps straight to infinity.
func (p Interval[T]) Widening(q Interval[T]) Interval[T] {
	if p.IsBottom() {
		return q
	}
	if q.IsBottom() {
		return p
	}
	lb := p.lb
	if q.lb.Cmp(p.lb) < 0 {
		lb = p.inf.Neg
	}
	ub := p.ub
	if q.ub.Cmp(p.ub) > 0 {
		ub = p.inf.Pos
	}
	return Interval[T]{lb, ub, p.inf}
}

// WideningInPlace destructively widens p with q.
func (p *Interval[T]) WideningInPlace(q Interval[T]) { *p = p.Widening(q) }

// WideningThreshold widens p with q, jumping a worsening bound to the
// nearest threshold that still bounds the new value instead of straight to
// infinity, per spec section 4.1. Thresholds need not be sorted.
func (p Interval[T]) WideningThreshold(q Interval[T], thresholds []T) Interval[T] {
	if p.IsBottom() {
		return q
	}
	if q.IsBottom() {
		return p
	}
	lb := p.lb
	if q.lb.Cmp(p.lb) < 0 {
		lb = p.inf.Neg
		for _, t := range thresholds {
			// largest threshold <= q.lb and <= p.lb, i.e. still a sound lower bound
			if t.Leq(q.lb) && lb.Cmp(t) < 0 {
				lb = t
			}
		}
	}
	ub := p.ub
	if q.ub.Cmp(p.ub) > 0 {
		ub = p.inf.Pos
		for _, t := range thresholds {
			if q.ub.Leq(t) && t.Cmp(ub) < 0 {
				ub = t
			}
		}
	}
	return Interval[T]{lb, ub, p.inf}
}

// Narrowing refines a post-fixpoint: an infinite bound in p is replaced by
// q's (necessarily tighter) corresponding bound.
func (p Interval[T]) Narrowing(q Interval[T]) Interval[T] {
	if p.IsBottom() || q.IsBottom() {
		return Bottom(p.inf)
	}
	lb := p.lb
	if p.lb.Equals(p.inf.Neg) {
		lb = q.lb
	}
	ub := p.ub
	if p.ub.Equals(p.inf.Pos) {
		ub = q.ub
	}
	return Interval[T]{lb, ub, p.inf}
}

// NarrowingInPlace destructively narrows p with q.
func (p *Interval[T]) NarrowingInPlace(q Interval[T]) { *p = p.Narrowing(q) }

// NarrowingThreshold narrows as Narrowing does, and additionally replaces a
// bound that exactly equals a threshold.
func (p Interval[T]) NarrowingThreshold(q Interval[T], thresholds []T) Interval[T] {
	if p.IsBottom() || q.IsBottom() {
		return Bottom(p.inf)
	}
	lb := p.lb
	if p.lb.Equals(p.inf.Neg) || containsT(thresholds, p.lb) {
		lb = q.lb
	}
	ub := p.ub
	if p.ub.Equals(p.inf.Pos) || containsT(thresholds, p.ub) {
		ub = q.ub
	}
	return Interval[T]{lb, ub, p.inf}
}

func containsT[T Value[T]](xs []T, v T) bool {
	for _, x := range xs {
		if x.Equals(v) {
			return true
		}
	}
	return false
}

// Add computes [lb1+lb2, ub1+ub2].
func (p Interval[T]) Add(q Interval[T]) Interval[T] {
	if p.IsBottom() || q.IsBottom() {
		return Bottom(p.inf)
	}
	return Interval[T]{p.lb.Add(q.lb), p.ub.Add(q.ub), p.inf}
}

// Sub computes [lb1-ub2, ub1-lb2].
func (p Interval[T]) Sub(q Interval[T]) Interval[T] {
	if p.IsBottom() || q.IsBottom() {
		return Bottom(p.inf)
	}
	return Interval[T]{p.lb.Sub(q.ub), p.ub.Sub(q.lb), p.inf}
}

// Neg negates the interval.
func (p Interval[T]) Neg() Interval[T] {
	if p.IsBottom() {
		return p
	}
	return Interval[T]{p.ub.Neg(), p.lb.Neg(), p.inf}
}

// Mul computes the convex hull of the four corner products.
func (p Interval[T]) Mul(q Interval[T]) Interval[T] {
	if p.IsBottom() || q.IsBottom() {
		return Bottom(p.inf)
	}
	x1 := p.lb.Mul(q.lb)
	x2 := p.lb.Mul(q.ub)
	x3 := p.ub.Mul(q.lb)
	x4 := p.ub.Mul(q.ub)
	lb := minT(minT(x1, x2), minT(x3, x4))
	ub := maxT(maxT(x1, x2), maxT(x3, x4))
	return Interval[T]{lb, ub, p.inf}
}

// ContainsZero reports whether 0 lies within [lb,ub], given a zero value.
// Exported for use by the carrier-specific division helpers in z.go/rat.go:
// division genuinely differs between Z (Euclidean) and Q (exact), so it is
// implemented per carrier rather than generically here.
func (p Interval[T]) ContainsZero(zero T) bool {
	return !p.IsBottom() && p.lb.Leq(zero) && zero.Leq(p.ub)
}

func (p Interval[T]) String() string {
	if p.IsBottom() {
		return "_|_"
	}
	return "[" + p.lb.String() + ", " + p.ub.String() + "]"
}
