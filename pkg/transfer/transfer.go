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

// Package transfer implements the symbolic transfer function of spec
// section 4.12: one abstract-state update per ir.Statement kind, dispatched
// by double-dispatch through ir.Visitor the way Consensys-go-corset's own
// constraint package dispatches by concrete constraint type (e.g.
// pkg/schema/constraint/vanishing.go's Accept pattern), generalized here to
// an arbitrary L3 numerical domain kind via a generic type parameter.
//
// A State pairs the live numerical domain D (tracking scalar variables,
// flow-sensitively) with a read-only *pointer.Info (tracking points-to sets
// and their offset intervals, flow-insensitively). This two-level split mirrors
// original_source/analyzer's own separation between the points-to analysis
// (a whole-program pre-pass) and the numerical analysis that consumes its
// result: Collector gathers every pointer.Constraint implied by the CFG in
// one pass (no fixpoint of its own beyond pointer.ConstraintSystem.Solve),
// and the per-node State.Step that follows treats the solved Info as
// constant context. Field-insensitivity therefore comes for free from
// pkg/pointer; D does not track pointer offsets, which live only in the
// solved Info.
package transfer

import (
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
)

// Var is a variable index, shared across pkg/linear, pkg/pointer and pkg/ir.
type Var = linear.Var

// Domain is the operation set every L3 numerical domain kind exposes under a
// single uniform name (spec section 4.9's "any of these domains may be
// selected by configuration without the rest of the engine changing").
// pkg/numerical, pkg/dbm, pkg/apron and pkg/varpacking[D] all satisfy this
// directly — see each package's AssignLinear/ApplyCombine/ToInterval alias
// methods, added specifically so this interface needs no per-kind branch.
type Domain[D any] interface {
	IsBottom() bool
	IsTop() bool
	Leq(o D) bool
	Equals(o D) bool
	Join(o D) D
	Widening(o D) D
	Meet(o D) D
	Narrowing(o D) D
	Forget(v Var) D
	AssignConst(x Var, c number.Z) D
	AssignLinear(x Var, e linear.Expression) D
	ApplyCombine(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) D
	AddConstraint(c linear.Constraint) D
	AddSystem(sys linear.System) D
	ToInterval(v Var) interval.ZInterval
	String() string
}

// State is the abstract value attached to a program point: a numerical
// domain value plus the (shared, read-only) solved pointer information.
type State[D Domain[D]] struct {
	Num D
	Ptr *pointer.Info
}

// Bottom builds the unreachable state for domain value zero (the zero value
// of most domain kinds is not Bottom, so callers pass an explicit bottom).
func Bottom[D Domain[D]](bottom D, ptr *pointer.Info) State[D] { return State[D]{Num: bottom, Ptr: ptr} }

func (s State[D]) IsBottom() bool { return s.Num.IsBottom() }

func (s State[D]) Leq(o State[D]) bool { return s.Num.Leq(o.Num) }

func (s State[D]) Equals(o State[D]) bool { return s.Num.Equals(o.Num) }

func (s State[D]) Join(o State[D]) State[D] { return State[D]{Num: s.Num.Join(o.Num), Ptr: s.Ptr} }

func (s State[D]) Widening(o State[D]) State[D] {
	return State[D]{Num: s.Num.Widening(o.Num), Ptr: s.Ptr}
}

func (s State[D]) Meet(o State[D]) State[D] { return State[D]{Num: s.Num.Meet(o.Num), Ptr: s.Ptr} }

func (s State[D]) Narrowing(o State[D]) State[D] {
	return State[D]{Num: s.Num.Narrowing(o.Num), Ptr: s.Ptr}
}

func (s State[D]) String() string { return s.Num.String() }

// combine is the uniform binary-op table of spec section 4.12: one interval
// combinator per ir.BinOp. add/sub/mul reuse Interval's exact closed forms;
// div is spec's Euclidean ZDiv; and/or/xor reuse pkg/interval's
// non-negative-only closed forms (Top fallback otherwise, same as that
// package). rem/shl/lshr/ashr have no existing pkg/interval helper (none of
// that package's native domains ever needed them) — each is a conservative
// closed form derived directly from the operator's definition rather than
// ported from anywhere, and documented at its own definition below.
var combine = map[ir.BinOp]func(a, b interval.ZInterval) interval.ZInterval{
	ir.Add:  func(a, b interval.ZInterval) interval.ZInterval { return a.Add(b) },
	ir.Sub:  func(a, b interval.ZInterval) interval.ZInterval { return a.Sub(b) },
	ir.Mul:  func(a, b interval.ZInterval) interval.ZInterval { return a.Mul(b) },
	ir.Div:  interval.ZDiv,
	ir.Rem:  combineRem,
	ir.Shl:  combineShl,
	ir.Lshr: combineLshr,
	ir.Ashr: combineAshr,
	ir.And:  interval.BitAndApprox,
	ir.Or:   interval.BitOrApprox,
	ir.Xor:  interval.BitXorApprox,
}

// combineRem approximates truncating remainder a % b. Magnitude is bounded
// by max(|b.lb|, |b.ub|) - 1 (the largest possible divisor magnitude in the
// interval, minus one, since |a % b| < |b|); sign follows a's (truncating
// remainder always has the dividend's sign or is zero). Falls back to Top
// when b may be zero, since the result is otherwise undefined.
func combineRem(a, b interval.ZInterval) interval.ZInterval {
	zero := number.ZFromInt64(0)
	if a.IsBottom() || b.IsBottom() {
		return interval.ZBottom()
	}
	if b.ContainsZero(zero) {
		return interval.ZTop()
	}
	maxAbs, ok := maxAbsZ(b)
	if !ok || maxAbs.IsZero() {
		return interval.ZTop()
	}
	lim := maxAbs.Sub(number.ZFromInt64(1))
	lo, hi := lim.Neg(), lim
	if alo, afinite := finiteLB(a); afinite && alo.Cmp(zero) >= 0 {
		lo = zero
	}
	if aup, afinite := finiteUB(a); afinite && aup.Cmp(zero) <= 0 {
		hi = zero
	}
	return interval.ZRangeFrom(lo, hi)
}

// maxAbsZ returns max(|p.LB()|, |p.UB()|), or false if either bound is
// infinite (an unbounded divisor gives no magnitude to bound the remainder
// by).
func maxAbsZ(p interval.ZInterval) (number.Z, bool) {
	lo, loOK := finiteLB(p)
	hi, hiOK := finiteUB(p)
	if !loOK || !hiOK {
		return number.Z{}, false
	}
	lo, hi = lo.Abs(), hi.Abs()
	if lo.Cmp(hi) > 0 {
		return lo, true
	}
	return hi, true
}

func finiteLB(p interval.ZInterval) (number.Z, bool) {
	b := p.LB()
	if !b.IsFinite() {
		return number.Z{}, false
	}
	return b.Z(), true
}

func finiteUB(p interval.ZInterval) (number.Z, bool) {
	b := p.UB()
	if !b.IsFinite() {
		return number.Z{}, false
	}
	return b.Z(), true
}

// combineShl approximates a << b: exact (a * 2^k) when b is a known
// constant k >= 0; Top otherwise (an unknown or ranged shift amount can move
// a's bits arbitrarily far, and pkg/interval has no bit-precise domain to
// bound that without tracking bit width, which the plain Z interval does
// not do).
func combineShl(a, b interval.ZInterval) interval.ZInterval {
	if a.IsBottom() || b.IsBottom() {
		return interval.ZBottom()
	}
	k, ok := singleton(b)
	if !ok || k.Sign() < 0 {
		return interval.ZTop()
	}
	return a.Mul(interval.ZSingleton(powOf2(k)))
}

// combineLshr and combineAshr both only give an exact result for a known
// shift amount, where they reduce to division by 2^k (logical and
// arithmetic right shift agree with truncating division by a power of two
// for non-negative dividends; ashr's sign-extension behavior on negative
// dividends is approximated by the same division, which is sound but not
// exact). Anything else is Top, for the same reason as combineShl.
func combineLshr(a, b interval.ZInterval) interval.ZInterval { return shrByConst(a, b) }
func combineAshr(a, b interval.ZInterval) interval.ZInterval { return shrByConst(a, b) }

func shrByConst(a, b interval.ZInterval) interval.ZInterval {
	if a.IsBottom() || b.IsBottom() {
		return interval.ZBottom()
	}
	k, ok := singleton(b)
	if !ok || k.Sign() < 0 {
		return interval.ZTop()
	}
	return interval.ZDiv(a, interval.ZSingleton(powOf2(k)))
}

func singleton(p interval.ZInterval) (number.Z, bool) {
	if p.IsBottom() || !p.LB().Equals(p.UB()) {
		return number.Z{}, false
	}
	return finiteLB(p)
}

func powOf2(k number.Z) number.Z {
	result := number.ZFromInt64(1)
	two := number.ZFromInt64(2)
	for i := number.ZFromInt64(0); i.Cmp(k) < 0; i = i.Add(number.ZFromInt64(1)) {
		result = result.Mul(two)
	}
	return result
}

// cmpToConstraint turns a Compare statement's predicate into the linear
// constraint implied by "the comparison holds" (spec section 4.12: "the
// true and false successors of a conditional branch each refine the state
// with the implied linear constraint"). Strict inequalities are tightened
// to their non-strict integer equivalent (x < y becomes x - y + 1 <= 0)
// since every domain here is over the integers, not the rationals.
func cmpToConstraint(kind ir.CmpKind, y, z Var) (linear.Constraint, bool) {
	diff := linear.VarRef(y).Sub(linear.VarRef(z)) // y - z
	one := linear.Const(number.ZFromInt64(1))
	neg := diff.ScalarMul(number.ZFromInt64(-1)) // z - y
	switch kind {
	case ir.CmpEQ:
		return linear.NewEQ(diff), true
	case ir.CmpNE:
		return linear.NewNEQ(diff), true
	case ir.CmpLE: // y <= z  <=>  y - z <= 0
		return linear.NewLEQ(diff), true
	case ir.CmpLT: // y < z  <=>  y - z + 1 <= 0
		return linear.NewLEQ(diff.Add(one)), true
	case ir.CmpGE: // y >= z  <=>  z - y <= 0
		return linear.NewLEQ(neg), true
	case ir.CmpGT: // y > z  <=>  z - y + 1 <= 0
		return linear.NewLEQ(neg.Add(one)), true
	default:
		return linear.Constraint{}, false
	}
}

// negate produces the constraint for the predicate's negation (used for the
// branch not taken).
func negate(kind ir.CmpKind) ir.CmpKind {
	switch kind {
	case ir.CmpEQ:
		return ir.CmpNE
	case ir.CmpNE:
		return ir.CmpEQ
	case ir.CmpLT:
		return ir.CmpGE
	case ir.CmpLE:
		return ir.CmpGT
	case ir.CmpGT:
		return ir.CmpLE
	case ir.CmpGE:
		return ir.CmpLT
	default:
		return kind
	}
}

func constLiteral(c ir.Literal) (number.Z, bool) {
	switch v := c.(type) {
	case ir.ConstantInt:
		return v.Value.ToZ(), true
	default:
		return number.Z{}, false
	}
}

// Refine strengthens state with the linear constraint implied by cond
// holding (cond true) or not holding (cond false); used by the fixpoint
// iterator at a two-way conditional branch. A Compare statement that cannot
// be expressed linearly (currently: none, every CmpKind above has a linear
// form) leaves the state untouched.
func Refine[D Domain[D]](s State[D], cond *ir.Compare, branchTaken bool) State[D] {
	if s.IsBottom() {
		return s
	}
	kind := cond.Kind
	if !branchTaken {
		kind = negate(kind)
	}
	c, ok := cmpToConstraint(kind, cond.Y, cond.Z)
	if !ok {
		return s
	}
	return State[D]{Num: s.Num.AddConstraint(c), Ptr: s.Ptr}
}

// visitor implements ir.Visitor, threading State[D] through as mutable
// accumulator state the way a single-method interpreter loop would; it is
// unexported because Step is the only entry point a caller needs. vf is
// nil-able: a nil factory falls back to plain unbounded Z-interval
// arithmetic (no machine-width bridging), the same fallback widthSign uses
// in collect.go.
type visitor[D Domain[D]] struct {
	state State[D]
	vf    VariableFactory
}

// Step applies stmt's effect to s and returns the resulting state. vf
// supplies the bit width and signedness BinaryOp's machine-integer bridge
// needs; Control transfer (which successor(s) to visit next) is the
// fixpoint iterator's concern, not this function's — Step only ever
// updates the numerical component; Unreachable, and a call to one of the
// non-returning externals applyExternal lists (abort, exit, _exit,
// __assert_fail, __cxa_throw), collapse it straight to Bottom.
func Step[D Domain[D]](s State[D], stmt ir.Statement, vf VariableFactory) State[D] {
	if s.IsBottom() {
		return s
	}
	v := &visitor[D]{state: s, vf: vf}
	stmt.Accept(v)
	return v.state
}

func (v *visitor[D]) VisitAssignConst(s *ir.AssignConst) {
	if c, ok := constLiteral(s.C); ok {
		v.state.Num = v.state.Num.AssignConst(s.X, c)
		return
	}
	// Null, Undefined, aggregate and float literals carry no numerical
	// information for the scalar domain; forgetting x is sound (spec
	// section 4.12's fallback for "no precise effect modelled").
	v.state.Num = v.state.Num.Forget(s.X)
}

func (v *visitor[D]) VisitAssignVar(s *ir.AssignVar) {
	v.state.Num = v.state.Num.AssignLinear(s.X, linear.VarRef(s.Y))
}

func (v *visitor[D]) VisitBinaryOp(s *ir.BinaryOp) {
	fn, ok := combine[s.Op]
	if !ok {
		v.state.Num = v.state.Num.Forget(s.X)
		return
	}
	v.state.Num = v.state.Num.ApplyCombine(s.X, s.Y, s.Z, v.machineIntBridge(s, fn))
}

// machineIntBridge wraps a plain Z-interval combinator so its result is
// reduced to x's machine-integer representation before it reaches the
// domain: the wrap variant reduces modulo 2^bitWidth (pkg/machineint's
// wrap()), the no-wrap variant weakens an out-of-range result to Top
// (pkg/machineint's noWrap()) — spec §4.12's "wrap/no-wrap variant matching
// the statement's flag". With no VariableFactory available (vf == nil),
// the combinator is returned unchanged, matching this package's existing
// plain-Z-interval fallback.
func (v *visitor[D]) machineIntBridge(
	s *ir.BinaryOp, fn func(a, b interval.ZInterval) interval.ZInterval,
) func(a, b interval.ZInterval) interval.ZInterval {
	if v.vf == nil {
		return fn
	}
	bitWidth, sign := v.vf.BitWidth(s.X), v.vf.Signedness(s.X)
	if s.NoWrap {
		return func(a, b interval.ZInterval) interval.ZInterval {
			return machineint.NoWrapZInterval(fn(a, b), bitWidth, sign)
		}
	}
	return func(a, b interval.ZInterval) interval.ZInterval {
		return machineint.WrapZInterval(fn(a, b), bitWidth, sign)
	}
}

func (v *visitor[D]) VisitCast(s *ir.Cast) {
	// Every cast kind (trunc/ext/sign-cast) is a machine-integer-specific
	// reinterpretation the Z-valued L3 domains do not model precisely;
	// spec section 4.12 allows a sound Forget fallback for any statement
	// whose exact effect a given domain kind cannot express.
	v.state.Num = v.state.Num.Forget(s.X)
}

func (v *visitor[D]) VisitCompare(s *ir.Compare) {
	// The comparison's boolean result itself is not tracked numerically
	// (spec section 4.12: the implied constraint is only applied at the
	// branch that consumes it, via Refine) — x is simply forgotten here.
	v.state.Num = v.state.Num.Forget(s.X)
}

// VisitAlloca and VisitAddrOfGlobal have no numerical effect: x's points-to
// fact was already fixed by the flow-insensitive pre-pass
// (pointer.ConstraintSystem.Solve, see Collector), and its offset starts at
// 0 through that solved Info, so there is nothing left for this domain to
// update.
func (v *visitor[D]) VisitAlloca(*ir.Alloca)             {}
func (v *visitor[D]) VisitAddrOfGlobal(*ir.AddrOfGlobal) {}

func (v *visitor[D]) VisitPointerShift(s *ir.PointerShift) {
	// The pointer's points-to set is unaffected by a shift (field
	// insensitivity, spec section 4.11); only p's numerical offset
	// contribution changes, and that's tracked by the pointer domain, not
	// this domain, so there is nothing for the scalar domain to update
	// beyond forgetting any stale binding for x.
	v.state.Num = v.state.Num.Forget(s.X)
}

func (v *visitor[D]) VisitLoad(s *ir.Load) {
	// The loaded value's numerical content is unknown to this domain
	// (memory contents are not modelled as linear expressions) — sound
	// fallback is Forget, matching spec section 4.12's default for any
	// statement whose precise value this domain kind can't represent.
	v.state.Num = v.state.Num.Forget(s.X)
}

func (v *visitor[D]) VisitStore(*ir.Store) {
	// A store through an unknown pointer could overwrite any variable the
	// points-to set covers, but the numerical domain here only tracks
	// scalar variables directly named in the IR, not memory cells, so
	// there is no effect to apply at this level (the memory side is fully
	// owned by pkg/pointer's cell map).
}

func (v *visitor[D]) VisitCall(s *ir.Call) {
	v.applyExternal(s)
}

func (v *visitor[D]) VisitInvoke(s *ir.Invoke) {
	v.applyExternal(&s.Call)
}

// applyExternal looks up s.ExternalName in the small set of libc/libc++
// intrinsics this domain can say something precise about (spec section 6's
// external call model table); anything else, including every pointer-
// returning allocator (malloc/calloc/realloc/new/new[]), falls back to
// Forget here since its points-to effect is already handled by the
// pointer pre-pass and this domain has no further numerical content to add.
func (v *visitor[D]) applyExternal(s *ir.Call) {
	switch s.ExternalName {
	case "strlen", "wcslen":
		// size_t return: non-negative, otherwise unconstrained.
		if s.X != 0 {
			v.state.Num = v.state.Num.Forget(s.X).AddConstraint(
				linear.NewLEQ(linear.VarRef(s.X).ScalarMul(number.ZFromInt64(-1))))
		}
	case "abort", "exit", "_exit", "__assert_fail", "__cxa_throw":
		v.state.Num = v.state.Num.AddConstraint(unsat)
	default:
		if s.X != 0 {
			v.state.Num = v.state.Num.Forget(s.X)
		}
	}
}

func (v *visitor[D]) VisitReturn(*ir.Return) {}

// unsat is the contradictory constraint "1 = 0": adding it to any domain
// value drives it to Bottom through the ordinary linear solver, without
// needing a domain-specific Bottom() constructor this generic code has no
// way to name. Used for Unreachable and for the non-returning external
// calls in applyExternal.
var unsat = linear.NewEQ(linear.Const(number.ZFromInt64(1)))

func (v *visitor[D]) VisitUnreachable(*ir.Unreachable) {
	v.state.Num = v.state.Num.AddConstraint(unsat)
}

func (v *visitor[D]) VisitLandingPad(s *ir.LandingPad) {
	v.state.Num = v.state.Num.Forget(s.X)
}

func (v *visitor[D]) VisitResume(*ir.Resume) {}

func (v *visitor[D]) VisitVarArgIntrinsic(s *ir.VarArgIntrinsic) {
	for _, a := range s.Args {
		v.state.Num = v.state.Num.Forget(a)
	}
}

