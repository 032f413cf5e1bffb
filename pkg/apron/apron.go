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

// Package apron implements the uniform façade of spec section 4.9: a single
// Domain type that dispatches to one of several backend numerical domains
// selected by Kind (interval, octagon, polyhedra, linear equalities, linear
// congruences, or their reduced product), fronted by a bidirectional
// variable<->dimension map the way the real APRON C library's ap_dim_t
// indexing requires.
//
// This module never links the native APRON C library (out of scope for a
// Go port, per spec's own redesign flag: "If the implementation language
// cannot link it, the adapter becomes a no-op stub, and only the native
// domains... remain"). Every Kind here is therefore backed by one of this
// module's own native domains rather than a real polyhedra/octagon solver:
// Interval and Congruence kinds route to pkg/numerical (which is already a
// reduced interval/congruence product, so Congruence gets slightly more
// precision than the name promises — documented, not hidden); Octagon,
// Polyhedra, Equalities and ReducedProduct all route to pkg/dbm, the
// strongest native relational domain this module has. Requesting a
// polyhedra-flavored Domain therefore silently gets DBM's weaker-than-true-
// polyhedra precision, which is sound (DBM is a valid over-approximation of
// any of those stronger domains) but not complete.
//
// Grounded on original_source/core/domains/apron.hpp and
// core/include/ikos/core/domain/numeric/apron.hpp for the dimension-map and
// dimension-compatibility ("add missing dimensions, then permute") shape.
package apron

import (
	"sort"
	"strings"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/dbm"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/numerical"
)

// Var is a variable index.
type Var = linear.Var

// Kind selects which native domain a Domain's operations are forwarded to.
type Kind int

const (
	Interval Kind = iota
	Octagon
	Polyhedra
	Equalities
	Congruence
	ReducedProduct
)

func (k Kind) String() string {
	switch k {
	case Interval:
		return "interval"
	case Octagon:
		return "octagon"
	case Polyhedra:
		return "polyhedra"
	case Equalities:
		return "equalities"
	case Congruence:
		return "congruence"
	case ReducedProduct:
		return "reduced-product"
	default:
		return "?"
	}
}

func (k Kind) relational() bool {
	switch k {
	case Octagon, Polyhedra, Equalities, ReducedProduct:
		return true
	default:
		return false
	}
}

// Domain is the APRON-style façade: an opaque native value (one of
// pkg/numerical or pkg/dbm's domains, selected by kind) plus a bidirectional
// variable<->dimension map mirroring the real adapter's ap_dim_t bookkeeping.
type Domain struct {
	kind   Kind
	dimOf  map[Var]int
	varOf  []Var
	nonRel numerical.Domain
	rel    dbm.Domain
}

// Top builds the unconstrained value of the given kind.
func Top(kind Kind) Domain {
	d := Domain{kind: kind, dimOf: map[Var]int{}}
	if kind.relational() {
		d.rel = dbm.Top()
	} else {
		d.nonRel = numerical.Top()
	}
	return d
}

// Bottom builds the empty (unreachable) value of the given kind.
func Bottom(kind Kind) Domain {
	d := Top(kind)
	if kind.relational() {
		d.rel = dbm.Bottom()
	} else {
		d.nonRel = numerical.Bottom()
	}
	return d
}

func (d Domain) IsBottom() bool {
	if d.kind.relational() {
		return d.rel.IsBottom()
	}
	return d.nonRel.IsBottom()
}

func (d Domain) IsTop() bool {
	if d.kind.relational() {
		return d.rel.IsTop()
	}
	return d.nonRel.IsTop()
}

func (d *Domain) SetToBottom() { *d = Bottom(d.kind) }
func (d *Domain) SetToTop()    { *d = Top(d.kind) }

// addDimension records v in the variable<->dimension map if not already
// present. The native backends here index directly by Var and need no
// compaction, but the map is still maintained so the adapter's shape matches
// what a real APRON-linked backend would require (spec: "a bidirectional map
// variable <-> dimension").
func (d *Domain) addDimension(v Var) {
	if _, ok := d.dimOf[v]; ok {
		return
	}
	// Copy before writing: a Domain copied by value shares its map and
	// slice with the operand it came from, which must stay unchanged.
	dimOf := make(map[Var]int, len(d.dimOf)+1)
	for k, i := range d.dimOf {
		dimOf[k] = i
	}
	dimOf[v] = len(d.varOf)
	d.dimOf = dimOf
	d.varOf = append(d.varOf[:len(d.varOf):len(d.varOf)], v)
}

func (d *Domain) addDimensions(vs []Var) {
	for _, v := range vs {
		d.addDimension(v)
	}
}

// compatible extends both operands' dimension maps to their union (spec:
// "adding missing dimensions to each side"). No permutation step is needed
// here, unlike the real adapter, because the native backends are keyed
// directly by Var rather than by a dense permutable dimension array.
func compatible(a, b Domain) (Domain, Domain) {
	for v := range b.dimOf {
		a.addDimension(v)
	}
	for v := range a.dimOf {
		b.addDimension(v)
	}
	return a, b
}

// Assign evaluates e over the current state and rebinds x.
func (d Domain) Assign(x Var, e linear.Expression) Domain {
	nd := d
	nd.addDimension(x)
	nd.addDimensions(e.Variables())
	if d.kind.relational() {
		nd.rel = d.rel.AssignLinear(x, e)
	} else {
		nd.nonRel = d.nonRel.Assign(x, e)
	}
	return nd
}

// AssignLinear is an alias for Assign under the name pkg/transfer dispatches
// through uniformly across every L3 domain kind.
func (d Domain) AssignLinear(x Var, e linear.Expression) Domain { return d.Assign(x, e) }

// AssignConst binds x to the constant c, discarding any prior relation.
func (d Domain) AssignConst(x Var, c number.Z) Domain {
	nd := d
	nd.addDimension(x)
	if d.kind.relational() {
		nd.rel = d.rel.AssignConst(x, c)
	} else {
		nd.nonRel = d.nonRel.Assign(x, linear.Const(c))
	}
	return nd
}

// ApplyCombine computes x = combine(y, z) and rebinds x to the result,
// dispatching to whichever native backend this Kind is fronting. This gives
// pkg/transfer the same uniform combine-func signature dbm/varpacking
// already expose natively and pkg/numerical now exposes as a fallback
// (pkg/numerical.Domain.ApplyCombine) — across kinds, an APRON-style facade has no
// extra precision to offer a non-linear binary op beyond what its backend
// already gives through ToInterval, so this adds no new arithmetic of its
// own.
func (d Domain) ApplyCombine(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) Domain {
	nd := d
	nd.addDimension(x)
	nd.addDimension(y)
	nd.addDimension(z)
	if d.kind.relational() {
		nd.rel = d.rel.Apply(x, y, z, combine)
	} else {
		nd.nonRel = d.nonRel.ApplyCombine(x, y, z, combine)
	}
	return nd
}

// Forget removes any information about v.
func (d Domain) Forget(v Var) Domain {
	nd := d
	if d.kind.relational() {
		nd.rel = d.rel.Forget(v)
	} else {
		nd.nonRel = d.nonRel.Forget(v)
	}
	return nd
}

// AddConstraint narrows the state with a single linear constraint.
func (d Domain) AddConstraint(c linear.Constraint) Domain { return d.AddSystem(linear.NewSystem(c)) }

// AddSystem narrows the state with a linear constraint system.
func (d Domain) AddSystem(sys linear.System) Domain {
	nd := d
	nd.addDimensions(sys.Variables())
	if d.kind.relational() {
		nd.rel = d.rel.AddSystem(sys)
	} else {
		nd.nonRel = d.nonRel.AddSystem(sys)
	}
	return nd
}

// ToInterval projects v's current bound.
func (d Domain) ToInterval(v Var) interval.ZInterval {
	if d.kind.relational() {
		return d.rel.ToInterval(v)
	}
	return d.nonRel.ToInterval(v)
}

func (d Domain) Leq(o Domain) bool {
	d, o = compatible(d, o)
	if d.kind.relational() {
		return d.rel.Leq(o.rel)
	}
	return d.nonRel.Leq(o.nonRel)
}

func (d Domain) Equals(o Domain) bool {
	if d.kind.relational() {
		return d.rel.Equals(o.rel)
	}
	return d.nonRel.Equals(o.nonRel)
}

func (d Domain) Join(o Domain) Domain {
	d, o = compatible(d, o)
	r := d
	if d.kind.relational() {
		r.rel = d.rel.Join(o.rel)
	} else {
		r.nonRel = d.nonRel.Join(o.nonRel)
	}
	return r
}

// Widening is the native domain's widening, unchanged across kinds: the spec
// only singles out narrowing as kind-dependent ("octagons have a true
// narrowing operator"), so widening always forwards directly.
func (d Domain) Widening(o Domain) Domain {
	d, o = compatible(d, o)
	r := d
	if d.kind.relational() {
		r.rel = d.rel.Widening(o.rel)
	} else {
		r.nonRel = d.nonRel.Widening(o.nonRel)
	}
	return r
}

func (d Domain) Meet(o Domain) Domain {
	d, o = compatible(d, o)
	r := d
	if d.kind.relational() {
		r.rel = d.rel.Meet(o.rel)
	} else {
		r.nonRel = d.nonRel.Meet(o.nonRel)
	}
	return r
}

// Narrowing defaults to Meet for every kind except Octagon, which has a true
// narrowing operator (spec: "Narrowing defaults to meet; octagons have a
// true narrowing operator") — backed here by DBM's own Narrowing, the
// closest native analog to octagon narrowing this module implements.
func (d Domain) Narrowing(o Domain) Domain {
	d, o = compatible(d, o)
	r := d
	switch {
	case d.kind == Octagon:
		r.rel = d.rel.Narrowing(o.rel)
	case d.kind.relational():
		r.rel = d.rel.Meet(o.rel)
	default:
		r.nonRel = d.nonRel.Meet(o.nonRel)
	}
	return r
}

func (d Domain) String() string {
	var sb strings.Builder
	sb.WriteString(d.kind.String())
	sb.WriteString(": ")
	if d.kind.relational() {
		sb.WriteString(d.rel.String())
	} else {
		sb.WriteString(d.nonRel.String())
	}
	return sb.String()
}

// Dimensions returns the variables currently tracked in the dimension map,
// in dimension order.
func (d Domain) Dimensions() []Var {
	vs := append([]Var(nil), d.varOf...)
	sort.Slice(vs, func(i, j int) bool { return d.dimOf[vs[i]] < d.dimOf[vs[j]] })
	return vs
}
