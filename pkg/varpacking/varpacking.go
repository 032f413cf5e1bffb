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

// Package varpacking implements the variable-packing meta-domain (spec
// section 4.10): a union-find partition of the tracked variables into
// equivalence classes, each holding an independent copy of some relational
// sub-domain D over only the variables in that class. A relation that spans
// two classes forces them together; everything else stays local to one
// class, so a relational domain whose cost is quadratic (or worse) in the
// number of variables only ever pays that cost against the size of the
// largest class rather than the whole variable universe.
//
// Grounded directly on
// original_source/core/include/ikos/domains/var_packing_domains.hpp
// (var_packing_domain, its nested equivalence_relation union-find, and its
// union_binary_op/meet_binary_op binary-operation helpers). That file's
// equivalence_class holds a shared_ptr<Domain> and copies only on write
// (copy_domain()); this port instead follows the value-semantics idiom used
// throughout L2/L3 (pkg/interval, pkg/numerical, pkg/dbm): every mutator
// clones the union-find once up front and returns a new Domain.
//
// One place this module deliberately departs from the spec's own wording:
// spec 4.10 says a union "takes the join of their sub-domains", but the
// grounding source's join_equiv_class (the union-find's internal merge,
// used whenever a single relation forces two of *this* domain's own classes
// together) computes the merge with meet (operator&), not join — see
// var_packing_domains.hpp line ~216. That is the mathematically sound
// choice: both classes' facts hold simultaneously in the one abstract state
// being built, so conjunction preserves them; an internal join would throw
// away everything about both sides the moment two previously-independent
// classes first touch. Join (the lattice operation) is reserved for
// union_binary_op, which combines the classes of two separate, independent
// Domain values (the actual Join/Widening entry points below) — there, a
// variable tracked by only one side is forgotten first, and the sub-domain's
// own Join (or Widening) combines each class of the common partition.
package varpacking

import (
	"sort"
	"strings"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// Var is a variable index.
type Var = linear.Var

// SubDomain is the interface a relational domain must satisfy to be wrapped
// by a variable-packing Domain. pkg/dbm.Domain satisfies this directly.
type SubDomain[D any] interface {
	IsBottom() bool
	IsTop() bool
	Normalize() D
	Leq(o D) bool
	Join(o D) D
	Meet(o D) D
	Widening(o D) D
	Narrowing(o D) D
	Forget(v Var) D
	AddSystem(sys linear.System) D
	AssignConst(x Var, c number.Z) D
	AssignLinear(x Var, e linear.Expression) D
	Apply(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) D
	ToInterval(v Var) interval.ZInterval
	String() string
}

// class is one equivalence class: its union-find rank plus the sub-domain
// tracking every variable currently assigned to it.
type class[D SubDomain[D]] struct {
	rank   int
	domain D
}

// unionFind is the variable partition: parent maps every tracked variable to
// its parent (a root maps to itself); classes maps each root to its
// equivalence class.
type unionFind[D SubDomain[D]] struct {
	parent  map[Var]Var
	classes map[Var]*class[D]
}

func newUnionFind[D SubDomain[D]]() *unionFind[D] {
	return &unionFind[D]{parent: map[Var]Var{}, classes: map[Var]*class[D]{}}
}

func (u *unionFind[D]) clone() *unionFind[D] {
	nu := newUnionFind[D]()
	for k, v := range u.parent {
		nu.parent[k] = v
	}
	for k, c := range u.classes {
		cc := *c
		nu.classes[k] = &cc
	}
	return nu
}

func (u *unionFind[D]) contains(v Var) bool {
	_, ok := u.parent[v]
	return ok
}

func (u *unionFind[D]) addClass(v Var, top D) {
	u.parent[v] = v
	u.classes[v] = &class[D]{domain: top}
}

// addToClass adds v as a non-root member of parent's class (mirrors
// add_var_to_equiv_class: bumps the parent class's rank to 1 the first time
// it gains a second member).
func (u *unionFind[D]) addToClass(v, parent Var) {
	root := u.find(parent)
	pc := u.classes[root]
	if pc.rank == 0 {
		pc.rank++
	}
	u.parent[v] = root
}

// find locates v's representative, compressing the path as it goes.
func (u *unionFind[D]) find(v Var) Var {
	p := u.parent[v]
	if p == v {
		return v
	}
	root := u.find(p)
	u.parent[v] = root
	return root
}

func (u *unionFind[D]) classOf(v Var) *class[D] { return u.classes[u.find(v)] }

func (u *unionFind[D]) domainOf(v Var) D { return u.classOf(v).domain }

// union merges the classes containing x and y by meet (see the package doc
// comment: this is the internal union-find merge, grounded on
// join_equiv_class's use of operator&, not the lattice Join). Reports
// whether a merge actually happened (false if x and y were already in the
// same class).
func (u *unionFind[D]) union(x, y Var) bool {
	xr, yr := u.find(x), u.find(y)
	if xr == yr {
		return false
	}
	xc, yc := u.classes[xr], u.classes[yr]
	merged := xc.domain.Meet(yc.domain)
	if xc.rank > yc.rank {
		u.parent[yr] = xr
		xc.domain = merged
		delete(u.classes, yr)
	} else {
		u.parent[xr] = yr
		if xc.rank == yc.rank {
			yc.rank++
		}
		yc.domain = merged
		delete(u.classes, xr)
	}
	return true
}

// forget removes v from the partition (spec: "if v is not the
// representative of its class, remove it from the class and forget it in D;
// if v is the representative, promote an arbitrary member to representative,
// redirect all children").
func (u *unionFind[D]) forget(v Var) {
	if !u.contains(v) {
		return
	}
	if u.parent[v] != v {
		root := u.find(v)
		for k, p := range u.parent {
			if p == v {
				u.parent[k] = root
			}
		}
		c := u.classes[root]
		c.domain = c.domain.Forget(v)
	} else {
		var newRoot Var
		found := false
		for k, p := range u.parent {
			if k != v && p == v {
				if !found {
					newRoot = k
					found = true
					u.classes[newRoot] = u.classes[v]
				}
				u.parent[k] = newRoot
			}
		}
		if found {
			c := u.classes[newRoot]
			c.domain = c.domain.Forget(v)
		}
		delete(u.classes, v)
	}
	delete(u.parent, v)
}

// forgetClass drops every variable in v's equivalence class at once.
func (u *unionFind[D]) forgetClass(v Var) {
	if !u.contains(v) {
		return
	}
	root := u.find(v)
	var toDelete []Var
	for k := range u.parent {
		if u.find(k) == root {
			toDelete = append(toDelete, k)
		}
	}
	for _, k := range toDelete {
		delete(u.parent, k)
	}
	delete(u.classes, root)
}

// classesVars returns, for every current root, the list of variables in its
// class.
func (u *unionFind[D]) classesVars() map[Var][]Var {
	out := map[Var][]Var{}
	for v := range u.parent {
		root := u.find(v)
		out[root] = append(out[root], v)
	}
	return out
}

func (u *unionFind[D]) variables() []Var {
	vs := make([]Var, 0, len(u.parent))
	for v := range u.parent {
		vs = append(vs, v)
	}
	return vs
}

// mergeExisting is the "merge_existing_equiv_classes" helper: if v is
// already tracked, union its class into the running root (or adopt v as the
// root if none has been picked yet).
func mergeExisting[D SubDomain[D]](u *unionFind[D], root *Var, found *bool, v Var) {
	if !u.contains(v) {
		return
	}
	if *found {
		u.union(v, *root)
	} else {
		*root = v
		*found = true
	}
}

// mergeUnexisting is "merge_unexisting_equiv_classes": if v is not yet
// tracked, either add it to the running root's class, or make it a fresh
// singleton class and adopt it as the root.
func mergeUnexisting[D SubDomain[D]](u *unionFind[D], newTop func() D, root *Var, found *bool, v Var) {
	if u.contains(v) {
		return
	}
	if *found {
		u.addToClass(v, *root)
	} else {
		*root = v
		*found = true
		u.addClass(v, newTop())
	}
}

// Domain is the variable-packing meta-domain over a sub-domain D.
type Domain[D SubDomain[D]] struct {
	bottom     bool
	normalized bool
	newTop     func() D
	uf         *unionFind[D]
}

// New builds the unconstrained (top) domain, given a factory for a fresh
// top-valued sub-domain (Go generics cannot call a constructor method on a
// bare type parameter, so the factory is supplied explicitly once).
func New[D SubDomain[D]](newTop func() D) Domain[D] {
	return Domain[D]{normalized: true, newTop: newTop, uf: newUnionFind[D]()}
}

// Top is an alias for New, matching the Top()/Bottom() naming used by every
// other domain in this module.
func Top[D SubDomain[D]](newTop func() D) Domain[D] { return New(newTop) }

// Bottom builds the empty (unreachable) domain.
func Bottom[D SubDomain[D]](newTop func() D) Domain[D] {
	d := New(newTop)
	d.bottom = true
	return d
}

func (d Domain[D]) IsBottom() bool { return d.Normalize().bottom }

// IsTop reports whether every tracked class's sub-domain is itself top; does
// not require normalization, matching the original's is_top.
func (d Domain[D]) IsTop() bool {
	if d.bottom {
		return false
	}
	for _, c := range d.uf.classes {
		if !c.domain.IsTop() {
			return false
		}
	}
	return true
}

func (d *Domain[D]) SetToBottom() { *d = Bottom(d.newTop) }
func (d *Domain[D]) SetToTop()    { *d = Top(d.newTop) }

// Variables returns every variable currently tracked by some class.
func (d Domain[D]) Variables() []Var { return d.uf.variables() }

// Normalize closes every class's sub-domain, collapsing the whole packing to
// Bottom if any one class does.
func (d Domain[D]) Normalize() Domain[D] {
	if d.normalized {
		return d
	}
	if d.bottom {
		nd := d
		nd.uf = newUnionFind[D]()
		nd.normalized = true
		return nd
	}
	nd := d
	nd.uf = d.uf.clone()
	for root, c := range nd.uf.classes {
		nc := c.domain.Normalize()
		if nc.IsBottom() {
			return Bottom(d.newTop)
		}
		nd.uf.classes[root].domain = nc
	}
	nd.normalized = true
	return nd
}

// Forget removes every trace of v.
func (d Domain[D]) Forget(v Var) Domain[D] {
	if d.bottom {
		return d
	}
	nd := d
	nd.uf = d.uf.clone()
	nd.uf.forget(v)
	nd.normalized = false
	return nd
}

// AssignConst binds x to the constant c, discarding any class x previously
// belonged to.
func (d Domain[D]) AssignConst(x Var, c number.Z) Domain[D] {
	if d.bottom {
		return d
	}
	nd := d
	nd.uf = d.uf.clone()
	nd.uf.forget(x)
	nd.uf.addClass(x, d.newTop())
	rc := nd.uf.classes[x]
	rc.domain = rc.domain.AssignConst(x, c)
	nd.normalized = false
	return nd
}

// Assign evaluates e (over zero or more variables, none of which need
// already be tracked) and rebinds x, merging x's class with every class e
// mentions.
func (d Domain[D]) Assign(x Var, e linear.Expression) Domain[D] {
	if d.bottom {
		return d
	}
	nd := d
	nd.uf = d.uf.clone()
	vars := e.Variables()

	if len(vars) == 0 {
		nd.uf.forget(x)
		nd.uf.addClass(x, d.newTop())
		rc := nd.uf.classes[x]
		rc.domain = rc.domain.AssignLinear(x, e)
		nd.normalized = false
		return nd
	}

	var root Var
	found := false
	for _, v := range vars {
		mergeExisting(nd.uf, &root, &found, v)
	}
	for _, v := range vars {
		mergeUnexisting(nd.uf, d.newTop, &root, &found, v)
	}

	if e.Coefficient(x).IsZero() {
		nd.uf.forget(x)
		nd.uf.addToClass(x, root)
	}
	// otherwise x has already been merged in by the loops above

	rc := nd.uf.classes[nd.uf.find(root)]
	rc.domain = rc.domain.AssignLinear(x, e)
	nd.normalized = false
	return nd
}

// Apply computes x = combine(y, z), merging the classes of x, y and z.
func (d Domain[D]) Apply(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) Domain[D] {
	if d.bottom {
		return d
	}
	nd := d
	nd.uf = d.uf.clone()

	var root Var
	found := false
	mergeExisting(nd.uf, &root, &found, y)
	mergeExisting(nd.uf, &root, &found, z)
	mergeUnexisting(nd.uf, d.newTop, &root, &found, y)
	mergeUnexisting(nd.uf, d.newTop, &root, &found, z)

	if x != y && x != z {
		nd.uf.forget(x)
		nd.uf.addToClass(x, root)
	}

	rc := nd.uf.classes[nd.uf.find(root)]
	rc.domain = rc.domain.Apply(x, y, z, combine)
	nd.normalized = false
	return nd
}

// AssignLinear and ApplyCombine are aliases for Assign and Apply under the
// names pkg/transfer dispatches through uniformly across every L3 domain
// kind: pkg/dbm, pkg/numerical and pkg/apron expose the same two names, so
// these aliases let a caller generic over any of the four kinds never
// special-case this one.
func (d Domain[D]) AssignLinear(x Var, e linear.Expression) Domain[D] { return d.Assign(x, e) }

func (d Domain[D]) ApplyCombine(x, y, z Var, combine func(a, b interval.ZInterval) interval.ZInterval) Domain[D] {
	return d.Apply(x, y, z, combine)
}

func (d Domain[D]) addOneConstraint(c linear.Constraint) Domain[D] {
	vars := c.Expr.Variables()
	if len(vars) == 0 {
		if d.newTop().AddSystem(linear.NewSystem(c)).IsBottom() {
			return Bottom(d.newTop)
		}
		return d
	}

	var root Var
	found := false
	for _, v := range vars {
		mergeExisting(d.uf, &root, &found, v)
	}
	for _, v := range vars {
		mergeUnexisting(d.uf, d.newTop, &root, &found, v)
	}

	rc := d.uf.classes[d.uf.find(root)]
	rc.domain = rc.domain.AddSystem(linear.NewSystem(c))
	if rc.domain.IsBottom() {
		return Bottom(d.newTop)
	}
	return d
}

// AddConstraint narrows the state with a single linear constraint.
func (d Domain[D]) AddConstraint(c linear.Constraint) Domain[D] { return d.AddSystem(linear.NewSystem(c)) }

// AddSystem narrows the state with every constraint in sys, in order,
// merging classes as relations demand.
func (d Domain[D]) AddSystem(sys linear.System) Domain[D] {
	if d.bottom {
		return d
	}
	nd := d
	nd.uf = d.uf.clone()
	nd.normalized = false
	for _, c := range sys.Constraints() {
		nd = nd.addOneConstraint(c)
		if nd.bottom {
			return nd
		}
	}
	return nd
}

// ToInterval projects v's current bound (top if v is untracked).
func (d Domain[D]) ToInterval(v Var) interval.ZInterval {
	if d.bottom {
		return interval.ZBottom()
	}
	if !d.uf.contains(v) {
		return interval.ZTop()
	}
	return d.uf.domainOf(v).ToInterval(v)
}

// Leq is the packing entailment order (spec: "for every class in the right
// operand, build the join of the overlapping left classes and check leq on
// D; missing variables are treated as top").
func (d Domain[D]) Leq(o Domain[D]) bool {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom {
		return true
	}
	if on.bottom {
		return false
	}

	for _, vars := range on.uf.classesVars() {
		oDomain := on.uf.domainOf(vars[0])

		var thisDomain D
		have := false
		seenRoots := map[Var]bool{}
		for _, v := range vars {
			if !dn.uf.contains(v) {
				continue
			}
			root := dn.uf.find(v)
			if seenRoots[root] {
				continue
			}
			seenRoots[root] = true
			cdom := dn.uf.classes[root].domain
			if !have {
				thisDomain = cdom
				have = true
			} else {
				thisDomain = thisDomain.Meet(cdom)
			}
		}

		if have {
			if !thisDomain.Normalize().Leq(oDomain.Normalize()) {
				return false
			}
		} else if !oDomain.IsTop() {
			return false
		}
	}
	return true
}

func (d Domain[D]) Equals(o Domain[D]) bool { return d.Leq(o) && o.Leq(d) }

// unionBinaryOp combines d and o class-by-class using op, first dropping any
// variable unique to one side (so both end up tracking exactly the same
// variable set), then refining both operands' partitions to their common
// coarsening before applying op per merged class. Mirrors union_binary_op,
// used by Join and Widening.
func (d Domain[D]) unionBinaryOp(o Domain[D], op func(l, r D) D) Domain[D] {
	result := d
	result.uf = d.uf.clone()
	oCopy := o
	oCopy.uf = o.uf.clone()

	for _, v := range result.uf.variables() {
		if !oCopy.uf.contains(v) {
			result.uf.forget(v)
		}
	}
	for _, v := range oCopy.uf.variables() {
		if !result.uf.contains(v) {
			oCopy.uf.forget(v)
		}
	}

	for _, vars := range result.uf.classesVars() {
		var root Var
		found := false
		for _, v := range vars {
			mergeExisting(oCopy.uf, &root, &found, v)
		}
	}

	for oRoot, vars := range oCopy.uf.classesVars() {
		oDomain := oCopy.uf.domainOf(oRoot)
		var root Var
		found := false
		for _, v := range vars {
			mergeExisting(result.uf, &root, &found, v)
		}
		if found {
			rc := result.uf.classes[result.uf.find(root)]
			rc.domain = op(rc.domain, oDomain)
		}
	}

	result.normalized = false
	return result
}

// meetBinaryOp combines d and o class-by-class using op, merging d's classes
// to match each of o's (adding any variable o tracks that d doesn't, as a
// fresh class seeded from o's domain for that class). Mirrors
// meet_binary_op, used by Meet and Narrowing.
func (d Domain[D]) meetBinaryOp(o Domain[D], op func(l, r D) D) Domain[D] {
	result := d
	result.uf = d.uf.clone()

	for oRoot, vars := range o.uf.classesVars() {
		oDomain := o.uf.domainOf(oRoot)

		var root Var
		found := false
		for _, v := range vars {
			mergeExisting(result.uf, &root, &found, v)
		}
		hadDomain := found
		for _, v := range vars {
			mergeUnexisting(result.uf, d.newTop, &root, &found, v)
		}

		rc := result.uf.classes[result.uf.find(root)]
		if hadDomain {
			rc.domain = op(rc.domain, oDomain)
		} else {
			rc.domain = oDomain
		}
	}

	result.normalized = false
	return result
}

// Join requires no normalization precondition beyond the two early-outs: the
// operands are normalized internally before the classes are combined.
func (d Domain[D]) Join(o Domain[D]) Domain[D] {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom {
		return on
	}
	if on.bottom {
		return dn
	}
	return dn.unionBinaryOp(on, func(l, r D) D { return l.Join(r) })
}

// Widening requires the normalization of the right operand only; the left
// operand (the growing iterate) is used as-is, matching every other
// domain's asymmetric Widening contract in this module.
func (d Domain[D]) Widening(o Domain[D]) Domain[D] {
	on := o.Normalize()
	if d.bottom {
		return on
	}
	if on.bottom {
		return d
	}
	return d.unionBinaryOp(on, func(l, r D) D { return l.Widening(r) })
}

func (d Domain[D]) Meet(o Domain[D]) Domain[D] {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom || on.bottom {
		return Bottom(d.newTop)
	}
	return dn.meetBinaryOp(on, func(l, r D) D { return l.Meet(r) })
}

func (d Domain[D]) Narrowing(o Domain[D]) Domain[D] {
	dn := d.Normalize()
	on := o.Normalize()
	if dn.bottom || on.bottom {
		return Bottom(d.newTop)
	}
	return dn.meetBinaryOp(on, func(l, r D) D { return l.Narrowing(r) })
}

func (d Domain[D]) String() string {
	if d.bottom {
		return "_|_"
	}
	if len(d.uf.classes) == 0 {
		return "T"
	}
	roots := make([]Var, 0, len(d.uf.classes))
	for root := range d.uf.classes {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	parts := make([]string, 0, len(roots))
	for _, root := range roots {
		parts = append(parts, d.uf.classes[root].domain.String())
	}
	return strings.Join(parts, " ^ ")
}
