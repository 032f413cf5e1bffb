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

// Package analyzererror implements spec section 7's third failure class:
// analyzer errors (IR malformedness, unsupported statement, a type
// mismatch between an operand and a lattice operation) — fatal, aborting
// the current analysis run, as opposed to domain contradictions (propagated
// as bottom) or imprecision (a Warning result).
//
// Grounded on the teacher's own "structural failure object with a Message"
// pattern (pkg/schema/constraint/vanishing.go's VanishingFailure).
package analyzererror

import (
	"fmt"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"go.uber.org/multierr"
)

// Kind classifies why an analyzer error was raised.
type Kind int

const (
	// MalformedIR: a CFG or statement violates a structural invariant the
	// core assumes (e.g. an Invoke naming a non-existent successor node).
	MalformedIR Kind = iota
	// UnsupportedStatement: a well-formed statement the transfer function
	// has no handling for.
	UnsupportedStatement
	// TypeMismatch: an operand's declared kind disagrees with the lattice
	// operation applied to it (e.g. a pointer variable used as an integer
	// operand of a BinaryOp).
	TypeMismatch
)

func (k Kind) String() string {
	switch k {
	case MalformedIR:
		return "malformed-ir"
	case UnsupportedStatement:
		return "unsupported-statement"
	case TypeMismatch:
		return "type-mismatch"
	default:
		return "?"
	}
}

// Error is the structured fatal error spec section 7 requires: a kind, the
// node it was raised at, a human-readable reason, and an optional wrapped
// cause.
type Error struct {
	Kind   Kind
	Node   ir.Node
	Reason string
	Cause  error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, node ir.Node, reason string) *Error {
	return &Error{Kind: kind, Node: node, Reason: reason}
}

// Wrap builds an Error recording cause as the underlying failure.
func Wrap(kind Kind, node ir.Node, reason string, cause error) *Error {
	return &Error{Kind: kind, Node: node, Reason: reason, Cause: cause}
}

// Message provides a suitable error message, mirroring the teacher's own
// VanishingFailure.Message().
func (e *Error) Message() string {
	return fmt.Sprintf("%s at node %d: %s", e.Kind, e.Node, e.Reason)
}

func (e *Error) Error() string { return e.Message() }

func (e *Error) Unwrap() error { return e.Cause }

// Aggregate combines every analyzer error accumulated across a
// whole-program run (one per function that aborted) into a single error,
// using go.uber.org/multierr the way a caller iterating many functions
// needs to report every failure, not just the first.
func Aggregate(errs ...error) error {
	var combined error
	for _, e := range errs {
		combined = multierr.Append(combined, e)
	}
	return combined
}
