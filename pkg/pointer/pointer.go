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

// Package pointer implements the pointer-constraint system and its solver
// (spec section 4.11): four constraint shapes over a pointer-information
// domain mapping pointer variables to a (points-to-set, offset-interval)
// pair, solved by monotone iteration to a fixpoint. The points-to-set
// domain has finite height (a bounded universe of abstract memory locations
// plus a top element), so no widening is needed here — plain repeated
// application until a pass changes nothing is already guaranteed to
// terminate.
//
// Grounded on original_source/analyzer/include/ikos/analyzer/analysis/pointer/constraint.hpp
// for the four constraint shapes (AssignCst/StoreCst/LoadCst, an
// AddrOp/VarOp operand pair) and its solve-to-fixpoint driver
// (PointerConstraints::solve). That file's constraints carry an
// ar::DataLayout-derived offset through a MachineIntInterval; the same
// shape is kept here via pkg/machineint.Interval.
//
// This is a field-insensitive model: Store and Load both carry the offset
// their shape names, but — like the original's own generator, which
// comments "In theory, we should add stores at `ptr + field.offset` instead
// of `ptr`, but the pointer analysis ignores offsets" — that offset only
// ever ends up in a PointerValue's own Offset field, never used to select
// which abstract location within an object a store or load touches.
package pointer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
)

// Var is a pointer variable index.
type Var = uint64

// Location is an abstract memory location index.
type Location = uint64

// PointsToSet is a finite set of abstract memory locations, plus an
// explicit top element standing for "may point anywhere" (spec: "a T
// (unknown) element"). Backed by a bitset.BitSet: a set of small integer
// location ids is exactly the use case that structure is built for, and
// join (Union) is the operation the solver calls in its inner loop.
type PointsToSet struct {
	top  bool
	bits *bitset.BitSet
}

// EmptyPointsTo is the empty points-to set (bottom: "points nowhere yet").
func EmptyPointsTo() PointsToSet { return PointsToSet{bits: bitset.New(0)} }

// TopPointsTo is the unknown points-to set ("may point anywhere").
func TopPointsTo() PointsToSet { return PointsToSet{top: true} }

// SingletonPointsTo is the points-to set containing exactly l.
func SingletonPointsTo(l Location) PointsToSet {
	b := bitset.New(0)
	b.Set(uint(l))
	return PointsToSet{bits: b}
}

func (s PointsToSet) IsTop() bool   { return s.top }
func (s PointsToSet) IsEmpty() bool { return !s.top && s.bits.None() }

// Contains reports whether l is in the set (top contains everything).
func (s PointsToSet) Contains(l Location) bool {
	if s.top {
		return true
	}
	return s.bits.Test(uint(l))
}

// Union is the points-to-set join.
func (s PointsToSet) Union(o PointsToSet) PointsToSet {
	if s.top || o.top {
		return TopPointsTo()
	}
	return PointsToSet{bits: s.bits.Union(o.bits)}
}

// Leq is the points-to-set entailment order (s's locations all appear in o).
func (s PointsToSet) Leq(o PointsToSet) bool {
	if o.top {
		return true
	}
	if s.top {
		return false
	}
	return o.bits.IsSuperSet(s.bits)
}

func (s PointsToSet) Equals(o PointsToSet) bool {
	if s.top != o.top {
		return false
	}
	if s.top {
		return true
	}
	return s.bits.Equal(o.bits)
}

// Locations returns the tracked locations in ascending order (nil if top).
func (s PointsToSet) Locations() []Location {
	if s.top {
		return nil
	}
	out := make([]Location, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, Location(i))
	}
	return out
}

func (s PointsToSet) String() string {
	if s.top {
		return "T"
	}
	locs := s.Locations()
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = fmt.Sprintf("@%d", l)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PointerValue pairs a points-to set with an offset interval (spec: "The
// pointer information domain maps each pointer variable to a pair
// (points-to-set, offset-interval)").
type PointerValue struct {
	PTS    PointsToSet
	Offset machineint.Interval
}

func (v PointerValue) Join(o PointerValue) PointerValue {
	return PointerValue{PTS: v.PTS.Union(o.PTS), Offset: v.Offset.Join(o.Offset)}
}

func (v PointerValue) Equals(o PointerValue) bool {
	return v.PTS.Equals(o.PTS) && v.Offset.Equals(o.Offset)
}

func (v PointerValue) String() string { return v.PTS.String() + " + " + v.Offset.String() }

// Info is the pointer-information domain: pointer variables mapped to a
// PointerValue, plus the field-insensitive contents of every abstract
// memory location that has been stored into. A variable or location absent
// from its map means "nothing known yet" (bottom), not "points nowhere" —
// every constraint can only grow what is known, never shrink it, which is
// what gives the solver its finite-height termination guarantee (spec:
// "the points-to-set domain has finite height per variable... no widening
// is needed at this layer").
type Info struct {
	vars  map[Var]PointerValue
	cells map[Location]PointerValue
	sizes map[Location]machineint.Interval
}

// NewInfo builds the empty (nothing known yet) pointer information.
func NewInfo() *Info {
	return &Info{
		vars:  map[Var]PointerValue{},
		cells: map[Location]PointerValue{},
		sizes: map[Location]machineint.Interval{},
	}
}

// Var returns v's current pointer value, or false if nothing is known yet.
func (i *Info) Var(v Var) (PointerValue, bool) {
	pv, ok := i.vars[v]
	return pv, ok
}

// Cell returns the current contents of location l, or false if nothing has
// been stored into it yet.
func (i *Info) Cell(l Location) (PointerValue, bool) {
	pv, ok := i.cells[l]
	return pv, ok
}

// SizeOf returns the byte size of the memory location l was allocated with
// (spec: "size(addr(p))"), or false if l was never the target of an Alloca
// (e.g. a global, whose size this domain does not track).
func (i *Info) SizeOf(l Location) (machineint.Interval, bool) {
	sz, ok := i.sizes[l]
	return sz, ok
}

// Variables returns every pointer variable with known information, in
// ascending order.
func (i *Info) Variables() []Var {
	vs := make([]Var, 0, len(i.vars))
	for v := range i.vars {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(a, b int) bool { return vs[a] < vs[b] })
	return vs
}

func (i *Info) joinVar(v Var, pv PointerValue) bool {
	old, ok := i.vars[v]
	if !ok {
		i.vars[v] = pv
		return true
	}
	merged := old.Join(pv)
	if merged.Equals(old) {
		return false
	}
	i.vars[v] = merged
	return true
}

func (i *Info) joinCell(l Location, pv PointerValue) bool {
	old, ok := i.cells[l]
	if !ok {
		i.cells[l] = pv
		return true
	}
	merged := old.Join(pv)
	if merged.Equals(old) {
		return false
	}
	i.cells[l] = merged
	return true
}

func (i *Info) joinSize(l Location, sz machineint.Interval) bool {
	old, ok := i.sizes[l]
	if !ok {
		i.sizes[l] = sz
		return true
	}
	merged := old.Join(sz)
	if merged.Equals(old) {
		return false
	}
	i.sizes[l] = merged
	return true
}

// Constraint is one of the four pointer constraint shapes (spec section
// 4.11), or SetSize, the record of an allocation's byte size. apply joins
// new facts into info in place, monotonically, and reports whether
// anything changed, so the solver's fixpoint loop below can detect
// stabilization.
type Constraint interface {
	apply(info *Info) bool
}

// AssignAddr is "p = &a @ I": p points to a, offset by I.
type AssignAddr struct {
	P      Var
	A      Location
	Offset machineint.Interval
}

func (c AssignAddr) apply(info *Info) bool {
	return info.joinVar(c.P, PointerValue{PTS: SingletonPointsTo(c.A), Offset: c.Offset})
}

// AssignVar is "p = q @ I": p points to everything q points to, q's own
// offset shifted by I.
type AssignVar struct {
	P, Q   Var
	Offset machineint.Interval
}

func (c AssignVar) apply(info *Info) bool {
	qv, ok := info.Var(c.Q)
	if !ok {
		return false
	}
	return info.joinVar(c.P, PointerValue{PTS: qv.PTS, Offset: qv.Offset.Add(c.Offset)})
}

// Store is "*p = q @ I": q's pointer value is written into every location p
// may point to. If p's points-to set is top, nothing is refined: a truly
// sound treatment would have to weaken every tracked cell, which this
// model does not attempt (documented limitation — the pointer domain here
// is a best-effort aid for call resolution and offset refinement, per
// spec, not a soundness-critical memory model).
type Store struct {
	P, Q   Var
	Offset machineint.Interval
}

func (c Store) apply(info *Info) bool {
	pv, ok := info.Var(c.P)
	if !ok || pv.PTS.IsTop() {
		return false
	}
	qv, ok := info.Var(c.Q)
	if !ok {
		return false
	}
	changed := false
	for _, a := range pv.PTS.Locations() {
		if info.joinCell(a, qv) {
			changed = true
		}
	}
	return changed
}

// Load is "p = *q @ I": p is joined with the contents of every location q
// may point to.
type Load struct {
	P, Q   Var
	Offset machineint.Interval
}

func (c Load) apply(info *Info) bool {
	qv, ok := info.Var(c.Q)
	if !ok || qv.PTS.IsTop() {
		return false
	}
	changed := false
	for _, a := range qv.PTS.Locations() {
		cv, ok := info.Cell(a)
		if !ok {
			continue
		}
		if info.joinVar(c.P, cv) {
			changed = true
		}
	}
	return changed
}

// SetSize records the byte size of a freshly allocated location (spec
// §4.12's alloca row: "set its size variable to the evaluation of
// n·sizeof(τ)"). Grounded on the same n*sizeof(tau) accounting
// original_source/analyzer/include/ikos/analyzer/analysis/pointer/constraint.hpp's
// alloca handling performs, here surfaced as a constraint so it is solved
// (joined, not merely assigned) the same way every other pointer fact is —
// a location revisited by a loop-carried Alloca just widens its size like
// any other PointerValue component.
type SetSize struct {
	A    Location
	Size machineint.Interval
}

func (c SetSize) apply(info *Info) bool {
	return info.joinSize(c.A, c.Size)
}

// ConstraintSystem accumulates constraints for one solving pass.
type ConstraintSystem struct {
	constraints []Constraint
}

// NewConstraintSystem builds an empty system.
func NewConstraintSystem() *ConstraintSystem { return &ConstraintSystem{} }

// Add appends a constraint.
func (s *ConstraintSystem) Add(c Constraint) { s.constraints = append(s.constraints, c) }

// Solve runs every constraint to a fixpoint (spec: "repeat ... until no
// pointer information changes"). Termination is guaranteed: every
// PointerValue's height is bounded (a finite location universe plus top,
// joined with a finite-height machine-integer interval), so a full pass
// eventually changes nothing.
func (s *ConstraintSystem) Solve() *Info {
	info := NewInfo()
	for {
		changed := false
		for _, c := range s.constraints {
			if c.apply(info) {
				changed = true
			}
		}
		if !changed {
			return info
		}
	}
}
