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

// Package linear implements LinearExpression and LinearConstraint (spec
// section 4.5) and the linear-interval solver (spec section 4.6).
//
// Grounded on original_source/core/include/ikos/algorithms/linear_constraints.hpp
// for the sparse-map + variables()-accessor shape.
package linear

import (
	"sort"
	"strconv"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

// Var is a variable index, the same Key space as pkg/patricia.
type Var = uint64

// Expression is sum(c_i * x_i) + k, stored as a sparse coefficient map with
// zero coefficients pruned (spec section 3/4.5).
type Expression struct {
	coeffs map[Var]number.Z
	k      number.Z
}

// Zero builds the expression "0".
func Zero() Expression {
	return Expression{coeffs: map[Var]number.Z{}, k: number.ZFromInt64(0)}
}

// Const builds the constant expression "k".
func Const(k number.Z) Expression {
	return Expression{coeffs: map[Var]number.Z{}, k: k}
}

// Term builds the single-term expression "c*x".
func Term(c number.Z, x Var) Expression {
	e := Zero()
	if !c.IsZero() {
		e.coeffs[x] = c
	}
	return e
}

// VarRef builds the expression "x" (coefficient 1).
func VarRef(x Var) Expression { return Term(number.ZFromInt64(1), x) }

func (e Expression) clone() Expression {
	m := make(map[Var]number.Z, len(e.coeffs))
	for k, v := range e.coeffs {
		m[k] = v
	}
	return Expression{coeffs: m, k: e.k}
}

// Coefficient returns the coefficient of x (zero if absent).
func (e Expression) Coefficient(x Var) number.Z {
	if c, ok := e.coeffs[x]; ok {
		return c
	}
	return number.ZFromInt64(0)
}

// Constant returns k.
func (e Expression) Constant() number.Z { return e.k }

// Variables returns the set of variables with a non-zero coefficient, in
// ascending order for deterministic iteration.
func (e Expression) Variables() []Var {
	vs := make([]Var, 0, len(e.coeffs))
	for v := range e.coeffs {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

// Add returns e + o.
func (e Expression) Add(o Expression) Expression {
	r := e.clone()
	for v, c := range o.coeffs {
		nc := r.Coefficient(v).Add(c)
		setOrPrune(r.coeffs, v, nc)
	}
	r.k = r.k.Add(o.k)
	return r
}

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression { return e.Add(o.ScalarMul(number.ZFromInt64(-1))) }

// ScalarMul returns c * e.
func (e Expression) ScalarMul(c number.Z) Expression {
	r := Zero()
	r.k = e.k.Mul(c)
	if c.IsZero() {
		return r
	}
	for v, coeff := range e.coeffs {
		r.coeffs[v] = coeff.Mul(c)
	}
	return r
}

// AddTerm returns e + c*x.
func (e Expression) AddTerm(c number.Z, x Var) Expression {
	return e.Add(Term(c, x))
}

func setOrPrune(m map[Var]number.Z, v Var, c number.Z) {
	if c.IsZero() {
		delete(m, v)
	} else {
		m[v] = c
	}
}

// Equals reports structural equality after pruning (spec section 4.5).
func (e Expression) Equals(o Expression) bool {
	if !e.k.Equals(o.k) {
		return false
	}
	if len(e.coeffs) != len(o.coeffs) {
		return false
	}
	for v, c := range e.coeffs {
		oc, ok := o.coeffs[v]
		if !ok || !oc.Equals(c) {
			return false
		}
	}
	return true
}

func (e Expression) String() string {
	s := ""
	for _, v := range e.Variables() {
		c := e.Coefficient(v)
		if s != "" && c.Sign() >= 0 {
			s += " + "
		} else if s != "" {
			s += " - "
			c = c.Neg()
		}
		s += c.String() + "*x" + strconv.FormatUint(v, 10)
	}
	if !e.k.IsZero() || s == "" {
		if s != "" && e.k.Sign() >= 0 {
			s += " + "
		}
		s += e.k.String()
	}
	return s
}
