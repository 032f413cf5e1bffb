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

// Package dbm implements the Difference-Bound Matrix domain (spec section
// 4.8): the conjunction of constraints xi - xj <= c, with a dedicated zero
// variable v0 (index 0) so a single-variable bound xi <= c is stored as
// xi - v0 <= c. Closure is Floyd-Warshall, kept lazy behind a normalized
// flag.
//
// Grounded directly on original_source/core/include/ikos/domains/dbm.hpp:
// same matrix-of-bounds shape, same add_constraint/forget/assign edge
// manipulation and pointwise join/meet/widening/narrowing. That file's
// dbmatrix is a mutable, in-place-resized vector; this port instead follows
// the value-semantics idiom the rest of L2/L3 uses (pkg/interval,
// pkg/numerical): every mutator clones and returns a new Domain.
package dbm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/bound"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// Var is a variable index.
type Var = linear.Var

// Domain is a difference-bound matrix: a size (n+1)x(n+1) array of bounds,
// index 0 reserved for the zero variable v0, indexed by a variable->index
// map for the remaining n tracked variables.
type Domain struct {
	bottom     bool
	normalized bool
	dim        int
	m          []bound.Bound
	idx        map[Var]int
}

func zInf() interval.Infinities[bound.Bound] {
	return interval.Infinities[bound.Bound]{Neg: bound.NegInfinity, Pos: bound.PosInfinity}
}

// Top is the unconstrained domain (no tracked variables).
func Top() Domain {
	return Domain{dim: 1, m: []bound.Bound{bound.FromInt64(0)}, idx: map[Var]int{}, normalized: true}
}

// Bottom is the empty (unreachable) domain.
func Bottom() Domain { return Domain{bottom: true, normalized: true} }

// IsBottom detects unreachability, closing the matrix first if needed.
func (d Domain) IsBottom() bool { return d.Normalize().bottom }

// IsTop reports whether every off-diagonal entry is unconstrained. Does not
// require normalization (spec: mirrors the original's is_top, which inspects
// the raw matrix).
func (d Domain) IsTop() bool {
	if d.bottom {
		return false
	}
	for i := 0; i < d.dim; i++ {
		for j := 0; j < d.dim; j++ {
			if i == j {
				continue
			}
			if !d.at(i, j).IsPosInf() {
				return false
			}
		}
	}
	return true
}

func (d *Domain) SetToBottom() { *d = Bottom() }
func (d *Domain) SetToTop()    { *d = Top() }

func (d Domain) at(i, j int) bound.Bound   { return d.m[i*d.dim+j] }
func (d Domain) setAt(i, j int, v bound.Bound) { d.m[i*d.dim+j] = v }

func (d Domain) clone() Domain {
	m2 := append([]bound.Bound(nil), d.m...)
	idx2 := make(map[Var]int, len(d.idx))
	for k, v := range d.idx {
		idx2[k] = v
	}
	return Domain{bottom: d.bottom, normalized: d.normalized, dim: d.dim, m: m2, idx: idx2}
}

// ensureIndex returns v's matrix index, growing the matrix by one row/column
// if v is not yet tracked (mirrors dbmatrix::add_variable, without the
// original's freed-slot reuse optimization: a forgotten variable's index is
// simply abandoned rather than recycled, trading a little matrix size for
// much simpler bookkeeping).
func (d *Domain) ensureIndex(v Var) int {
	if i, ok := d.idx[v]; ok {
		return i
	}
	oldDim := d.dim
	newIdx := oldDim
	newDim := oldDim + 1
	m := make([]bound.Bound, newDim*newDim)
	for i := range m {
		m[i] = bound.PosInfinity
	}
	for i := 0; i < oldDim; i++ {
		for j := 0; j < oldDim; j++ {
			m[i*newDim+j] = d.m[i*oldDim+j]
		}
	}
	m[newIdx*newDim+newIdx] = bound.FromInt64(0)
	d.m = m
	d.dim = newDim
	if d.idx == nil {
		d.idx = map[Var]int{}
	}
	d.idx[v] = newIdx
	return newIdx
}

// addConstraintIdx records "x_i - x_j <= c" by tightening M[j,i].
func (d *Domain) addConstraintIdx(i, j int, c bound.Bound) {
	w := d.at(j, i)
	if c.Cmp(w) < 0 {
		d.setAt(j, i, c)
		d.normalized = false
	}
}

// increment applies x_i += c in place: row i shifts by -c, column i by +c.
func (d *Domain) increment(i int, c number.Z) {
	if c.IsZero() {
		return
	}
	cb := bound.FromZ(c)
	for j := 0; j < d.dim; j++ {
		if i != j {
			d.setAt(i, j, d.at(i, j).Sub(cb))
			d.setAt(j, i, d.at(j, i).Add(cb))
		}
	}
	d.normalized = false
}

// resetRowCol clears variable k's row/column to +infinity (0 on the
// diagonal), first propagating M[i,k]+M[k,j] into M[i,j] if the matrix is
// not already closed, so that information mediated through k is not lost
// (spec: "forget(v) ... with an optimization ... to propagate M[i,v]+M[v,j]
// into M[i,j] so information is not lost").
func (d *Domain) resetRowCol(k int) {
	if !d.normalized {
		for i := 0; i < d.dim; i++ {
			wik := d.at(i, k)
			for j := 0; j < d.dim; j++ {
				if i != k && j != k {
					nv := wik.Add(d.at(k, j))
					d.setAt(i, j, bound.Min(d.at(i, j), nv))
				}
			}
		}
	}
	for i := 0; i < d.dim; i++ {
		d.setAt(i, k, bound.PosInfinity)
		d.setAt(k, i, bound.PosInfinity)
	}
	d.setAt(k, k, bound.FromInt64(0))
	d.normalized = false
}

// Normalize closes the matrix via Floyd-Warshall if it is not already
// closed, collapsing to Bottom if a negative cycle (M[i,i] < 0) is found.
func (d Domain) Normalize() Domain {
	if d.normalized {
		return d
	}
	if d.bottom {
		return Domain{bottom: true, normalized: true}
	}
	m := append([]bound.Bound(nil), d.m...)
	dim := d.dim
	at := func(i, j int) bound.Bound { return m[i*dim+j] }
	set := func(i, j int, v bound.Bound) { m[i*dim+j] = v }
	for i := 0; i < dim; i++ {
		set(i, i, bound.FromInt64(0))
	}
	for k := 0; k < dim; k++ {
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				nv := at(i, k).Add(at(k, j))
				set(i, j, bound.Min(at(i, j), nv))
			}
		}
	}
	for i := 0; i < dim; i++ {
		if at(i, i).Cmp(bound.FromInt64(0)) < 0 {
			return Domain{bottom: true, normalized: true}
		}
	}
	idx2 := make(map[Var]int, len(d.idx))
	for k, v := range d.idx {
		idx2[k] = v
	}
	return Domain{dim: dim, m: m, idx: idx2, normalized: true}
}

// Forget drops every constraint on v (spec: "forget(v) sets the v row and
// column to +inf").
func (d Domain) Forget(v Var) Domain {
	if d.bottom {
		return d
	}
	k, ok := d.idx[v]
	if !ok {
		return d
	}
	nd := d.clone()
	nd.resetRowCol(k)
	delete(nd.idx, v)
	return nd
}

// AssignConst implements x = c.
func (d Domain) AssignConst(x Var, c number.Z) Domain {
	if d.bottom {
		return d
	}
	nd := d.clone()
	i := nd.ensureIndex(x)
	nd.resetRowCol(i)
	cb := bound.FromZ(c)
	nd.addConstraintIdx(i, 0, cb)
	nd.addConstraintIdx(0, i, cb.Neg())
	return nd
}

// Assign implements x = y + c (spec: "assign(x, y+c) shifts row/column of
// x"), including the x == y increment-in-place special case.
func (d Domain) Assign(x, y Var, c number.Z) Domain {
	if d.bottom {
		return d
	}
	nd := d.clone()
	i := nd.ensureIndex(x)
	if x == y {
		nd.increment(i, c)
		return nd
	}
	j := nd.ensureIndex(y)
	nd.resetRowCol(i)
	cb := bound.FromZ(c)
	nd.addConstraintIdx(i, j, cb)
	nd.addConstraintIdx(j, i, cb.Neg())
	return nd
}

// AssignLinear handles an arbitrary linear assignment by projecting through
// intervals (spec: "Arbitrary linear assigns fall back to projecting through
// intervals").
func (d Domain) AssignLinear(x Var, e linear.Expression) Domain {
	if d.bottom {
		return d
	}
	nd := d.Normalize()
	if nd.bottom {
		return nd
	}
	val := nd.evalInterval(e)
	i := nd.ensureIndex(x)
	nd.resetRowCol(i)
	nd.addConstraintIdx(i, 0, val.UB())
	nd.addConstraintIdx(0, i, val.LB().Neg())
	return nd
}

// Apply computes x = combine(y, z) by interval projection, the same
// fallback the original's apply(operation_t, x, y, z) uses once neither
// operand is a constant worth dispatching to Assign.
func (d Domain) Apply(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) Domain {
	if d.bottom {
		return d
	}
	nd := d.Normalize()
	if nd.bottom {
		return nd
	}
	vx := combine(nd.ToInterval(y), nd.ToInterval(z))
	i := nd.ensureIndex(x)
	nd.resetRowCol(i)
	nd.addConstraintIdx(i, 0, vx.UB())
	nd.addConstraintIdx(0, i, vx.LB().Neg())
	return nd
}

// ApplyCombine is an alias for Apply under the name pkg/transfer dispatches
// through uniformly across every L3 domain kind. pkg/numerical can't reuse
// the plain name "Apply" for this shape (it's already that package's
// BinaryOp-based entry point), so every domain exposes this operation as
// ApplyCombine for pkg/transfer's benefit; DBM keeps Apply as well for its
// own existing callers.
func (d Domain) ApplyCombine(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) Domain {
	return d.Apply(x, y, z, combine)
}

func (d Domain) evalInterval(e linear.Expression) interval.ZInterval {
	acc := interval.ZSingleton(e.Constant())
	for _, v := range e.Variables() {
		term := interval.ZSingleton(e.Coefficient(v)).Mul(d.ToInterval(v))
		acc = acc.Add(term)
	}
	return acc
}

// ToInterval projects v's current bound as a plain interval: x_i <= M[0,i],
// x_i >= -M[i,0].
func (d Domain) ToInterval(v Var) interval.ZInterval {
	if d.bottom {
		return interval.ZBottom()
	}
	nd := d.Normalize()
	if nd.bottom {
		return interval.ZBottom()
	}
	i, ok := nd.idx[v]
	if !ok {
		return interval.ZTop()
	}
	lb := nd.at(i, 0).Neg()
	ub := nd.at(0, i)
	return interval.New(lb, ub, zInf())
}

// dbmPattern recognizes the 1- and 2-variable unit-coefficient shapes the
// spec calls out ("patterns on 1- and 2-variable constraints to emit direct
// edges"): xi (coefficient +1) alone, -xj (coefficient -1) alone, or
// xi - xj. Returns the positive and negative variable (0 standing for v0
// when absent) and whether the expression matched.
func dbmPattern(vars []Var, e linear.Expression) (posVar, negVar Var, hasPos, hasNeg, ok bool) {
	one := number.ZFromInt64(1)
	negOne := number.ZFromInt64(-1)
	switch len(vars) {
	case 1:
		v := vars[0]
		c := e.Coefficient(v)
		switch {
		case c.Equals(one):
			return v, 0, true, false, true
		case c.Equals(negOne):
			return 0, v, false, true, true
		}
	case 2:
		a, b := vars[0], vars[1]
		ca, cb := e.Coefficient(a), e.Coefficient(b)
		if ca.Equals(one) && cb.Equals(negOne) {
			return a, b, true, true, true
		}
		if ca.Equals(negOne) && cb.Equals(one) {
			return b, a, true, true, true
		}
	}
	return 0, 0, false, false, false
}

type dbmSolverStore struct{ d Domain }

func (s *dbmSolverStore) Get(v linear.Var) interval.ZInterval { return s.d.ToInterval(v) }

func (s *dbmSolverStore) Refine(v linear.Var, iv interval.ZInterval) {
	nd := s.d.clone()
	i := nd.ensureIndex(v)
	nd.addConstraintIdx(i, 0, iv.UB())
	nd.addConstraintIdx(0, i, iv.LB().Neg())
	s.d = nd
}

// AddSystem dispatches every constraint to a direct edge where its shape
// allows, batching everything else through the linear-interval-solver in one
// pass (spec: "everything else falls back to the linear-interval-solver").
func (d Domain) AddSystem(sys linear.System) Domain {
	if d.bottom {
		return d
	}
	nd := d
	var remaining []linear.Constraint
	for _, c := range sys.Constraints() {
		vars := c.Expr.Variables()
		if len(vars) == 0 {
			if violatesConstant(c) {
				return Bottom()
			}
			continue
		}
		if c.Kind == linear.NEQ {
			remaining = append(remaining, c)
			continue
		}
		posVar, negVar, hasPos, hasNeg, ok := dbmPattern(vars, c.Expr)
		if !ok {
			remaining = append(remaining, c)
			continue
		}
		work := nd.clone()
		i := 0
		if hasPos {
			i = work.ensureIndex(posVar)
		}
		j := 0
		if hasNeg {
			j = work.ensureIndex(negVar)
		}
		bound1 := bound.FromZ(c.Expr.Constant()).Neg()
		work.addConstraintIdx(i, j, bound1)
		if c.Kind == linear.EQ {
			work.addConstraintIdx(j, i, bound1.Neg())
		}
		nd = work
	}
	if len(remaining) == 0 {
		return nd
	}
	nd2 := nd.Normalize()
	if nd2.bottom {
		return nd2
	}
	store := &dbmSolverStore{d: nd2}
	ok := linear.Solve(linear.NewSystem(remaining...), store, linear.DefaultMaxReductionCycles)
	if !ok {
		return Bottom()
	}
	return store.d
}

func violatesConstant(c linear.Constraint) bool {
	k := c.Expr.Constant()
	switch c.Kind {
	case linear.EQ:
		return !k.IsZero()
	case linear.LEQ:
		return k.Sign() > 0
	case linear.NEQ:
		return k.IsZero()
	default:
		return false
	}
}

// AddConstraint adds a single constraint.
func (d Domain) AddConstraint(c linear.Constraint) Domain { return d.AddSystem(linear.NewSystem(c)) }

// Leq is the DBM entailment order: every bound o asserts, d must satisfy at
// least as tightly (a variable o never touches is unconstrained in d too, by
// construction, so it imposes nothing).
func (d Domain) Leq(o Domain) bool {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom {
		return true
	}
	if on.bottom {
		return false
	}
	for v, oi := range on.idx {
		if _, ok := dn.idx[v]; ok {
			continue
		}
		for j := 0; j < on.dim; j++ {
			if j == oi {
				continue
			}
			if !on.at(oi, j).IsPosInf() || !on.at(j, oi).IsPosInf() {
				return false
			}
		}
	}
	var common []Var
	for v := range on.idx {
		if _, ok := dn.idx[v]; ok {
			common = append(common, v)
		}
	}
	for _, v := range common {
		di, oi := dn.idx[v], on.idx[v]
		if on.at(oi, 0).Cmp(dn.at(di, 0)) < 0 || on.at(0, oi).Cmp(dn.at(0, di)) < 0 {
			return false
		}
		for _, v2 := range common {
			dj, oj := dn.idx[v2], on.idx[v2]
			if on.at(oi, oj).Cmp(dn.at(di, dj)) < 0 {
				return false
			}
		}
	}
	return true
}

// Equals is mutual Leq.
func (d Domain) Equals(o Domain) bool { return d.Leq(o) && o.Leq(d) }

// pointwiseOp is one of the four lattice operations' per-cell combinator,
// following the original's join_op/meet_op/widening_op/narrowing_op functors:
// zero is the value when neither side tracks the pair, one is applied when
// only one side does, two combines both.
type pointwiseOp struct {
	zero func() bound.Bound
	one  func(v bound.Bound) bound.Bound
	two  func(l, r bound.Bound) bound.Bound
}

var joinOp = pointwiseOp{
	zero: func() bound.Bound { return bound.PosInfinity },
	one:  func(bound.Bound) bound.Bound { return bound.PosInfinity },
	two:  func(l, r bound.Bound) bound.Bound { return bound.Max(l, r) },
}

var meetOp = pointwiseOp{
	zero: func() bound.Bound { return bound.PosInfinity },
	one:  func(v bound.Bound) bound.Bound { return v },
	two:  func(l, r bound.Bound) bound.Bound { return bound.Min(l, r) },
}

var wideningOp = pointwiseOp{
	zero: func() bound.Bound { return bound.PosInfinity },
	one:  func(bound.Bound) bound.Bound { return bound.PosInfinity },
	two: func(l, r bound.Bound) bound.Bound {
		if r.Leq(l) {
			return l
		}
		return bound.PosInfinity
	},
}

var narrowingOp = pointwiseOp{
	zero: func() bound.Bound { return bound.PosInfinity },
	one:  func(v bound.Bound) bound.Bound { return v },
	two: func(l, r bound.Bound) bound.Bound {
		if l.IsPosInf() {
			return r
		}
		return l
	},
}

func unionVars(d, o Domain) []Var {
	seen := map[Var]bool{}
	for v := range d.idx {
		seen[v] = true
	}
	for v := range o.idx {
		seen[v] = true
	}
	vars := make([]Var, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// pointwiseBinaryOp rebuilds a matrix over the union of d's and o's tracked
// variables, applying op cell by cell (spec: "pointwise bound operations on
// the matrix").
func pointwiseBinaryOp(d, o Domain, op pointwiseOp) Domain {
	vars := unionVars(d, o)
	dim := len(vars) + 1
	m := make([]bound.Bound, dim*dim)
	idx := make(map[Var]int, len(vars))
	for i, v := range vars {
		idx[v] = i + 1
	}
	for _, v := range vars {
		i := idx[v]
		di, dok := d.idx[v]
		oi, ook := o.idx[v]
		switch {
		case dok && ook:
			m[i*dim+0] = op.two(d.at(di, 0), o.at(oi, 0))
			m[0*dim+i] = op.two(d.at(0, di), o.at(0, oi))
		case dok:
			m[i*dim+0] = op.one(d.at(di, 0))
			m[0*dim+i] = op.one(d.at(0, di))
		case ook:
			m[i*dim+0] = op.one(o.at(oi, 0))
			m[0*dim+i] = op.one(o.at(0, oi))
		default:
			m[i*dim+0] = op.zero()
			m[0*dim+i] = op.zero()
		}
	}
	for _, v1 := range vars {
		i := idx[v1]
		di1, dok1 := d.idx[v1]
		oi1, ook1 := o.idx[v1]
		for _, v2 := range vars {
			j := idx[v2]
			di2, dok2 := d.idx[v2]
			oi2, ook2 := o.idx[v2]
			dEdge := dok1 && dok2
			oEdge := ook1 && ook2
			switch {
			case dEdge && oEdge:
				m[i*dim+j] = op.two(d.at(di1, di2), o.at(oi1, oi2))
			case dEdge:
				m[i*dim+j] = op.one(d.at(di1, di2))
			case oEdge:
				m[i*dim+j] = op.one(o.at(oi1, oi2))
			default:
				m[i*dim+j] = op.zero()
			}
		}
	}
	for i := 0; i < dim; i++ {
		m[i*dim+i] = bound.FromInt64(0)
	}
	return Domain{dim: dim, m: m, idx: idx, normalized: false}
}

// Join is the pointwise max after closing both operands; the result is
// closed by construction (Mine's DBM join theorem), so it is marked
// normalized without re-running Floyd-Warshall.
func (d Domain) Join(o Domain) Domain {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom {
		return on
	}
	if on.bottom {
		return dn
	}
	r := pointwiseBinaryOp(dn, on, joinOp)
	r.normalized = true
	return r
}

// Meet is the pointwise min after closing both operands.
func (d Domain) Meet(o Domain) Domain {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom || on.bottom {
		return Bottom()
	}
	return pointwiseBinaryOp(dn, on, meetOp)
}

// Widening sends any bound that strictly worsened to +infinity. Only the
// right operand is closed first (spec: normalization is needed to compare
// against a stable value; the left operand is the growing iterate and is
// used as-is, matching the original's own asymmetric contract).
func (d Domain) Widening(o Domain) Domain {
	on := o.Normalize()
	if d.bottom {
		return on
	}
	if on.bottom {
		return d
	}
	return pointwiseBinaryOp(d, on, wideningOp)
}

// Narrowing replaces a +infinity bound in the left operand with the right's.
func (d Domain) Narrowing(o Domain) Domain {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom || on.bottom {
		return Bottom()
	}
	return pointwiseBinaryOp(dn, on, narrowingOp)
}

func (d Domain) String() string {
	if d.bottom {
		return "_|_"
	}
	nd := d.Normalize()
	if nd.bottom {
		return "_|_"
	}
	if len(nd.idx) == 0 {
		return "T"
	}
	vars := make([]Var, 0, len(nd.idx))
	for v := range nd.idx {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	var sb strings.Builder
	first := true
	for _, v := range vars {
		if !first {
			sb.WriteString("; ")
		}
		first = false
		sb.WriteString("x")
		sb.WriteString(strconv.FormatUint(v, 10))
		sb.WriteString(" in ")
		sb.WriteString(nd.ToInterval(v).String())
	}
	for _, v1 := range vars {
		i := nd.idx[v1]
		for _, v2 := range vars {
			if v2 <= v1 {
				continue
			}
			j := nd.idx[v2]
			ub := nd.at(j, i)
			lb := nd.at(i, j).Neg()
			if ub.IsPosInf() && lb.IsNegInf() {
				continue
			}
			sb.WriteString("; x")
			sb.WriteString(strconv.FormatUint(v1, 10))
			sb.WriteString("-x")
			sb.WriteString(strconv.FormatUint(v2, 10))
			sb.WriteString(" in [")
			sb.WriteString(lb.String())
			sb.WriteString(", ")
			sb.WriteString(ub.String())
			sb.WriteString("]")
		}
	}
	return sb.String()
}
