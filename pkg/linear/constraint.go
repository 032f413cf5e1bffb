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
package linear

import "sort"

// Kind is the relational operator of a LinearConstraint (spec section 4.5).
type Kind int

const (
	// EQ is "expr = 0".
	EQ Kind = iota
	// LEQ is "expr <= 0".
	LEQ
	// NEQ is "expr != 0".
	NEQ
)

func (k Kind) String() string {
	switch k {
	case EQ:
		return "= 0"
	case LEQ:
		return "<= 0"
	case NEQ:
		return "!= 0"
	default:
		return "?"
	}
}

// Constraint is a linear expression paired with a relational kind.
type Constraint struct {
	Expr Expression
	Kind Kind
}

// NewEQ builds "e = 0".
func NewEQ(e Expression) Constraint { return Constraint{e, EQ} }

// NewLEQ builds "e <= 0".
func NewLEQ(e Expression) Constraint { return Constraint{e, LEQ} }

// NewNEQ builds "e != 0".
func NewNEQ(e Expression) Constraint { return Constraint{e, NEQ} }

func (c Constraint) String() string { return c.Expr.String() + " " + c.Kind.String() }

// System is a collection of linear constraints.
type System struct {
	constraints []Constraint
}

// NewSystem builds a system from the given constraints, in the order given
// (the linear solver's tie-breaking order is "first appearance in the
// constraint list", spec section 4.6).
func NewSystem(cs ...Constraint) System {
	return System{append([]Constraint{}, cs...)}
}

// Add appends a constraint to the system, mirroring the original's in-place
// "+=" merge (spec section 4.5).
func (s *System) Add(c Constraint) { s.constraints = append(s.constraints, c) }

// AddSystem merges another system's constraints into this one, in order.
func (s *System) AddSystem(o System) {
	s.constraints = append(s.constraints, o.constraints...)
}

// Constraints returns the constraints in insertion order.
func (s System) Constraints() []Constraint { return s.constraints }

// Variables returns the set of all variables mentioned by the system, in
// ascending order.
func (s System) Variables() []Var {
	seen := map[Var]bool{}
	for _, c := range s.constraints {
		for _, v := range c.Expr.Variables() {
			seen[v] = true
		}
	}
	vs := make([]Var, 0, len(seen))
	for v := range seen {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}
