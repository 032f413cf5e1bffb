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

// Package config holds the analyzer's caller-facing configuration (spec
// section 6): a plain struct threaded through the pipeline the way the
// teacher threads a CompilationConfig through its compiler stages, with a
// defaulted constructor.
package config

import "go.uber.org/atomic"

// NumericalDomain selects which L3 domain pkg/engine instantiates the
// fixpoint iterator with.
type NumericalDomain int

const (
	Interval NumericalDomain = iota
	IntervalCongruence
	DBM
	ApronOctagon
	ApronPolka
	VarPackingDBM
)

func (d NumericalDomain) String() string {
	switch d {
	case Interval:
		return "interval"
	case IntervalCongruence:
		return "interval-congruence"
	case DBM:
		return "dbm"
	case ApronOctagon:
		return "apron-octagon"
	case ApronPolka:
		return "apron-polka"
	case VarPackingDBM:
		return "var-packing-dbm"
	default:
		return "?"
	}
}

// Precision selects how much of the machine state the analysis tracks.
type Precision int

const (
	RegisterOnly Precision = iota
	Pointer
	Memory
)

func (p Precision) String() string {
	switch p {
	case RegisterOnly:
		return "register-only"
	case Pointer:
		return "pointer"
	case Memory:
		return "memory"
	default:
		return "?"
	}
}

// Config is the set of options spec section 6 surfaces to callers.
type Config struct {
	WideningDelay       uint
	NarrowingIterations uint
	MaxReductionCycles  uint
	NumericalDomain     NumericalDomain
	Precision           Precision
	// CancellationFlag is polled by the fixpoint iterator between CFG
	// nodes; a caller sets it to stop an in-flight analysis run early.
	CancellationFlag *atomic.Bool
}

// DefaultConfig returns the spec-mandated defaults: widening after 1
// iteration, 2 narrowing passes, 10 reduction cycles, the plain interval
// domain, and register-only precision, with a fresh (never-set)
// cancellation flag.
func DefaultConfig() Config {
	return Config{
		WideningDelay:       1,
		NarrowingIterations: 2,
		MaxReductionCycles:  10,
		NumericalDomain:     Interval,
		Precision:           RegisterOnly,
		CancellationFlag:    atomic.NewBool(false),
	}
}
