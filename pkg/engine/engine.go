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

// Package engine wires the pieces spec section 2's layering keeps
// separate — config, a chosen numerical domain, the pointer pre-pass, the
// fixpoint iterator, and the results table — into the one entry point a
// caller actually uses. It dispatches at compile time to one of several
// generic fixpoint.Iterator instantiations based on the runtime
// config.NumericalDomain enum, the way a library with several interchangeable
// backends behind one config knob has to in a language without runtime
// generics.
package engine

import (
	"fmt"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/analyzererror"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/apron"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/config"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/dbm"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/fixpoint"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/numerical"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/results"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/transfer"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/varpacking"
)

// Engine holds the caller's variable factory and configuration across
// however many functions it analyzes.
type Engine struct {
	VF  ir.VariableFactory
	Cfg config.Config
}

// New builds an Engine.
func New(vf ir.VariableFactory, cfg config.Config) *Engine {
	return &Engine{VF: vf, Cfg: cfg}
}

// Unit is one function's CFG paired with the call context its results
// should be recorded under (spec section 6: an opaque caller-defined key
// the core never interprets).
type Unit struct {
	CFG         ir.CFG
	CallContext string
}

// Analyze runs the full pipeline for a single function: the flow-
// insensitive pointer-constraint pre-pass, the fixpoint iterator over
// whichever numerical domain e.Cfg.NumericalDomain selects, and population
// of a fresh results table.
func (e *Engine) Analyze(cfg ir.CFG, callContext string) (*results.Table, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	collector := transfer.NewCollector(e.VF)
	collector.Collect(cfg)
	ptr := collector.Solve()

	table := results.NewTable()

	switch e.Cfg.NumericalDomain {
	case config.Interval, config.IntervalCongruence:
		populate(table, runDomain(cfg, e.VF, numerical.Bottom(), numerical.Top(), ptr, e.Cfg), callContext)
	case config.DBM:
		populate(table, runDomain(cfg, e.VF, dbm.Bottom(), dbm.Top(), ptr, e.Cfg), callContext)
	case config.ApronOctagon:
		populate(table, runDomain(cfg, e.VF, apron.Bottom(apron.Octagon), apron.Top(apron.Octagon), ptr, e.Cfg), callContext)
	case config.ApronPolka:
		populate(table, runDomain(cfg, e.VF, apron.Bottom(apron.Polyhedra), apron.Top(apron.Polyhedra), ptr, e.Cfg), callContext)
	case config.VarPackingDBM:
		populate(table, runDomain(cfg, e.VF, varpacking.Bottom[dbm.Domain](dbm.Top), varpacking.Top[dbm.Domain](dbm.Top), ptr, e.Cfg), callContext)
	default:
		return nil, analyzererror.New(analyzererror.UnsupportedStatement, cfg.Entry(),
			fmt.Sprintf("unknown numerical domain %q", e.Cfg.NumericalDomain))
	}

	return table, nil
}

// AnalyzeProgram runs Analyze once per unit, merging every function's rows
// into one table and aggregating every analyzer error raised along the way
// (spec section 3's "one analyzer error per function that aborted") rather
// than stopping at the first failing function.
func (e *Engine) AnalyzeProgram(units []Unit) (*results.Table, error) {
	table := results.NewTable()
	var errs []error
	for _, u := range units {
		t, err := e.Analyze(u.CFG, u.CallContext)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.ForEach(func(entry results.Entry) bool {
			table.Set(entry.Key, entry.Status, entry.Value, entry.Message)
			return true
		})
	}
	return table, analyzererror.Aggregate(errs...)
}

func validate(cfg ir.CFG) error {
	if cfg == nil {
		return analyzererror.New(analyzererror.MalformedIR, 0, "nil CFG")
	}
	entry := cfg.Entry()
	for _, n := range cfg.Nodes() {
		if n == entry {
			return nil
		}
	}
	return analyzererror.New(analyzererror.MalformedIR, entry, "entry node not present in Nodes()")
}

func runDomain[D transfer.Domain[D]](
	cfg ir.CFG, vf ir.VariableFactory, bottom, top D, ptr *pointer.Info, opts config.Config,
) fixpoint.Result[D] {
	it := fixpoint.New[D](cfg, vf, bottom, ptr, opts)
	return it.Run(transfer.State[D]{Num: top, Ptr: ptr})
}

func populate[D transfer.Domain[D]](table *results.Table, r fixpoint.Result[D], callContext string) {
	for n, inv := range r.Nodes {
		status := results.OK
		message := ""
		switch {
		case inv.Post.IsBottom():
			status = results.Unreachable
		case !inv.Sound:
			status = results.Warning
			message = "analysis stopped before reaching a sound fixpoint (cancelled or timed out)"
		}
		table.Set(results.Key{Node: n, CallContext: callContext}, status, inv.Post.String(), message)
	}
}
