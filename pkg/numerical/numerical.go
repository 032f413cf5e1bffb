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

// Package numerical implements the non-relational numerical abstract domain
// of spec section 4.7: a persistent map from variable to IntervalCongruence,
// where a variable absent from the map is Top. Linear inequalities are
// dispatched to pkg/linear's solver.
//
// Grounded on original_source's numeric_domain_adapter.hpp for the
// "absent = top" convention and on the teacher's own persistent-map idiom
// (pkg/util/collection/hash/hash_map.go) for a value type layered over a
// persistent backing store.
package numerical

import (
	"strconv"
	"strings"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/intervalcong"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/patricia"
)

// Var is a variable index.
type Var = linear.Var

// Domain is the non-relational numerical abstract value.
type Domain struct {
	m      patricia.Map[intervalcong.IntervalCongruence]
	bottom bool
}

// Top is the unconstrained domain value (empty map).
func Top() Domain { return Domain{m: patricia.Empty[intervalcong.IntervalCongruence]()} }

// Bottom is the empty (unreachable) domain value.
func Bottom() Domain { return Domain{bottom: true} }

// IsBottom reports unreachability.
func (d Domain) IsBottom() bool { return d.bottom }

// IsTop reports whether every variable is unconstrained.
func (d Domain) IsTop() bool { return !d.bottom && d.m.IsEmpty() }

// SetToBottom/SetToTop mutate d in place.
func (d *Domain) SetToBottom() { *d = Bottom() }
func (d *Domain) SetToTop()    { *d = Top() }

// Get returns the value bound to v, or Top if v is unconstrained.
func (d Domain) Get(v Var) intervalcong.IntervalCongruence {
	if d.bottom {
		return intervalcong.Bottom()
	}
	if val, ok := d.m.Get(v); ok {
		return val
	}
	return intervalcong.Top()
}

// set stores val at v, normalizing Top away to keep the map canonically
// sparse (so two domains are structurally Equals iff their maps are).
func (d Domain) set(v Var, val intervalcong.IntervalCongruence) Domain {
	if d.bottom {
		return d
	}
	if val.IsBottom() {
		return Bottom()
	}
	if val.IsTop() {
		return Domain{m: d.m.Remove(v)}
	}
	return Domain{m: d.m.Insert(v, val)}
}

// Set binds v to an exact IntervalCongruence, discarding any prior relation.
func (d Domain) Set(v Var, val intervalcong.IntervalCongruence) Domain { return d.set(v, val) }

// Refine meets v's current value with val (strengthens, never weakens).
func (d Domain) Refine(v Var, val intervalcong.IntervalCongruence) Domain {
	if d.bottom {
		return d
	}
	return d.set(v, d.Get(v).Meet(val))
}

// Forget removes any information about v (sets it back to Top).
func (d Domain) Forget(v Var) Domain {
	if d.bottom {
		return d
	}
	return Domain{m: d.m.Remove(v)}
}

// eval evaluates a linear expression in the current map.
func (d Domain) eval(e linear.Expression) intervalcong.IntervalCongruence {
	acc := intervalcong.Singleton(e.Constant())
	for _, v := range e.Variables() {
		term := intervalcong.Singleton(e.Coefficient(v)).Mul(d.Get(v))
		acc = acc.Add(term)
	}
	return acc
}

// Assign evaluates e in the current map and rebinds x to the result.
func (d Domain) Assign(x Var, e linear.Expression) Domain {
	if d.bottom {
		return d
	}
	return d.set(x, d.eval(e))
}

// AssignLinear is an alias for Assign under the name pkg/dbm and
// pkg/varpacking use natively, so pkg/transfer can dispatch through one
// method name across every L3 domain kind.
func (d Domain) AssignLinear(x Var, e linear.Expression) Domain { return d.Assign(x, e) }

// BinaryOp is a numerical binary operator dispatched by Apply.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Apply computes x = y op z from the current bindings of y and z.
func (d Domain) Apply(op BinaryOp, x, y, z Var) Domain {
	if d.bottom {
		return d
	}
	return d.set(x, applyOp(op, d.Get(y), d.Get(z)))
}

// ApplyConst computes x = y op c for a constant c.
func (d Domain) ApplyConst(op BinaryOp, x, y Var, c number.Z) Domain {
	if d.bottom {
		return d
	}
	return d.set(x, applyOp(op, d.Get(y), intervalcong.Singleton(c)))
}

// ApplyCombine computes x = combine(y, z) directly over intervals,
// discarding congruence information, and rebinds x to the result. It gives
// pkg/transfer one uniform signature to dispatch binary operators through
// across every L3 domain kind (dbm and varpacking already expose the same
// shape natively; apron's is an interval-arithmetic fallback built the same
// way, see pkg/apron).
func (d Domain) ApplyCombine(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) Domain {
	if d.bottom {
		return d
	}
	return d.set(x, intervalcong.FromInterval(combine(d.Get(y).Interval(), d.Get(z).Interval())))
}

// ToInterval projects v's current bound, discarding congruence information.
// An alias under the name pkg/dbm, pkg/apron and pkg/varpacking already use
// natively, so pkg/transfer can dispatch through one method name across
// every L3 domain kind.
func (d Domain) ToInterval(v Var) interval.ZInterval { return d.Get(v).Interval() }

func applyOp(op BinaryOp, a, b intervalcong.IntervalCongruence) intervalcong.IntervalCongruence {
	switch op {
	case Add:
		return a.Add(b)
	case Sub:
		return a.Sub(b)
	case Mul:
		return a.Mul(b)
	case Div:
		return a.Div(b)
	default:
		return intervalcong.Top()
	}
}

// AddConstraint dispatches a single linear constraint to the
// linear-interval-solver, refining every variable it mentions.
func (d Domain) AddConstraint(c linear.Constraint) Domain {
	return d.AddSystem(linear.NewSystem(c))
}

// AddSystem dispatches a constraint system to the linear-interval-solver.
func (d Domain) AddSystem(sys linear.System) Domain {
	if d.bottom {
		return d
	}
	store := &solverStore{d: d}
	ok := linear.Solve(sys, store, linear.DefaultMaxReductionCycles)
	if !ok {
		return Bottom()
	}
	return store.d
}

// solverStore adapts Domain to linear.IntervalStore, bridging the
// Z-only interval view the solver operates on against the IntervalCongruence
// map (the congruence component is left untouched by linear refinement, and
// reduction is re-applied when writing back).
type solverStore struct{ d Domain }

func (s *solverStore) Get(v linear.Var) interval.ZInterval { return s.d.Get(v).Interval() }

func (s *solverStore) Refine(v linear.Var, i interval.ZInterval) {
	cur := s.d.Get(v)
	s.d = s.d.set(v, intervalcong.New(i, cur.Congruence()))
}

// Leq is the pointwise order: every variable that other constrains must be
// at least as tight in d (a variable other leaves unconstrained imposes no
// requirement, matching the absent-is-Top convention).
func (d Domain) Leq(o Domain) bool {
	if d.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	ok := true
	o.m.ForEach(func(v patricia.Key, ov intervalcong.IntervalCongruence) bool {
		if !d.Get(v).Leq(ov) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// Equals reports structural equality (both bottom, or identical sparse maps
// thanks to set's Top-normalization).
func (d Domain) Equals(o Domain) bool {
	if d.bottom || o.bottom {
		return d.bottom == o.bottom
	}
	if d.m.Len() != o.m.Len() {
		return false
	}
	return d.Leq(o) && o.Leq(d)
}

// Join drops any variable not constrained by both sides (a variable
// unconstrained on either side is Top, and Top joined with anything is Top,
// i.e. absent), then joins the rest pointwise.
func (d Domain) Join(o Domain) Domain {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	result := patricia.Empty[intervalcong.IntervalCongruence]()
	d.m.ForEach(func(v patricia.Key, dv intervalcong.IntervalCongruence) bool {
		if ov, ok := o.m.Get(v); ok {
			result = result.Insert(v, dv.Join(ov))
		}
		return true
	})
	return Domain{m: result}
}

// Widening behaves like Join on the variable set (a one-sided variable's
// implicit Top always widens the pair to Top, so it is dropped the same way)
// but combines shared variables with Widening instead of Join.
func (d Domain) Widening(o Domain) Domain {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	result := patricia.Empty[intervalcong.IntervalCongruence]()
	d.m.ForEach(func(v patricia.Key, dv intervalcong.IntervalCongruence) bool {
		if ov, ok := o.m.Get(v); ok {
			result = result.Insert(v, dv.Widening(ov))
		}
		return true
	})
	return Domain{m: result}
}

// Meet and Narrowing keep every variable constrained by either side, since
// combining a finite value with an absent (Top) one is the identity for both
// operations; shared variables combine pointwise.
func (d Domain) Meet(o Domain) Domain {
	if d.bottom || o.bottom {
		return Bottom()
	}
	merged := d.m.Merge(o.m, func(a, b intervalcong.IntervalCongruence) intervalcong.IntervalCongruence {
		return a.Meet(b)
	})
	r := Domain{m: merged}
	if hasBottomEntry(merged) {
		return Bottom()
	}
	return r
}

func (d Domain) Narrowing(o Domain) Domain {
	if d.bottom || o.bottom {
		return Bottom()
	}
	merged := d.m.Merge(o.m, func(a, b intervalcong.IntervalCongruence) intervalcong.IntervalCongruence {
		return a.Narrowing(b)
	})
	r := Domain{m: merged}
	if hasBottomEntry(merged) {
		return Bottom()
	}
	return r
}

func hasBottomEntry(m patricia.Map[intervalcong.IntervalCongruence]) bool {
	found := false
	m.ForEach(func(_ patricia.Key, v intervalcong.IntervalCongruence) bool {
		if v.IsBottom() {
			found = true
			return false
		}
		return true
	})
	return found
}

func (d Domain) String() string {
	if d.bottom {
		return "_|_"
	}
	if d.m.IsEmpty() {
		return "T"
	}
	var sb strings.Builder
	first := true
	d.m.ForEach(func(v patricia.Key, val intervalcong.IntervalCongruence) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString("x")
		sb.WriteString(strconv.FormatUint(v, 10))
		sb.WriteString(" -> ")
		sb.WriteString(val.String())
		return true
	})
	return sb.String()
}
