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

// Package fixpoint implements the forward fixpoint iterator of spec
// section 4.13: a pkg/wto-ordered traversal of a CFG that computes a
// pre/post abstract state per node, widening at loop heads after a
// caller-configured delay, then narrowing the whole result in a bounded
// number of descending passes.
//
// Grounded on spec section 4.13's own algorithm description (which is, in
// turn, Bourdoncle's own fixpoint strategy — the same one
// original_source/analyzer's fwd_fixpoint_iterator.hpp implements); the
// iteration-progress logging idiom (package-level `log.WithField(...)`)
// is grounded on the teacher's logrus usage.
package fixpoint

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/config"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/transfer"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/wto"
)

// Invariant is the abstract state recorded at one CFG node.
type Invariant[D transfer.Domain[D]] struct {
	Pre  transfer.State[D]
	Post transfer.State[D]
	// Sound is false when cancellation or a timeout stopped the run before
	// every node reached its final ascending+narrowing state (spec §5:
	// "partial results may be unsound and must be marked as such").
	Sound bool
}

// Result is the per-node invariant map produced by a complete (or
// cancelled) Run.
type Result[D transfer.Domain[D]] struct {
	Nodes     map[ir.Node]*Invariant[D]
	Cancelled bool
}

// Iterator drives the fixpoint computation for one CFG and one L3 domain
// kind D, selected at compile time by the caller (pkg/engine picks D from
// the runtime numerical_domain config option).
type Iterator[D transfer.Domain[D]] struct {
	cfg    ir.CFG
	cond   ir.ConditionalCFG
	vf     ir.VariableFactory
	order  wto.WTO
	opts   config.Config
	bottom transfer.State[D]

	entryState transfer.State[D]
	pre        map[ir.Node]transfer.State[D]
	post       map[ir.Node]transfer.State[D]

	deadline  time.Time
	cancelled bool
}

// New builds an Iterator. bottomDomain seeds every node's pre/post state
// before it is first reached; ptr is the whole-program points-to
// information a prior pkg/transfer.Collector pass computed, shared
// read-only across every node's State; vf supplies each variable's bit
// width and signedness for the transfer function's machine-integer
// bridging (spec §4.12) — a nil vf is accepted and falls back to plain
// unbounded Z-interval arithmetic, same as pkg/transfer's own fallback.
func New[D transfer.Domain[D]](cfg ir.CFG, vf ir.VariableFactory, bottomDomain D, ptr *pointer.Info, opts config.Config) *Iterator[D] {
	cond, _ := cfg.(ir.ConditionalCFG)
	return &Iterator[D]{
		cfg:    cfg,
		cond:   cond,
		vf:     vf,
		order:  wto.Build(cfg),
		opts:   opts,
		bottom: transfer.Bottom(bottomDomain, ptr),
		pre:    map[ir.Node]transfer.State[D]{},
		post:   map[ir.Node]transfer.State[D]{},
	}
}

// WithTimeout arms the optional per-function wall-clock timeout of spec
// section 5. Run stops exactly as on cancellation once the deadline
// passes.
func (it *Iterator[D]) WithTimeout(d time.Duration) *Iterator[D] {
	it.deadline = time.Now().Add(d)
	return it
}

// Run computes the fixpoint, seeding the entry node with entryState (the
// caller's initial abstract value for the function's arguments/globals).
func (it *Iterator[D]) Run(entryState transfer.State[D]) Result[D] {
	it.entryState = entryState
	log.WithField("nodes", len(it.cfg.Nodes())).Debug("starting fixpoint iteration")

	it.ascend(it.order.Elements)
	if !it.cancelledNow() {
		it.narrow()
	}
	return it.result()
}

// ascend is the widening phase: a single WTO-ordered pass over elems,
// iterating each component to local stabilization before moving past it —
// spec's own "at a loop head, repeat until stabilization of the nested
// body" before continuing.
func (it *Iterator[D]) ascend(elems []wto.Element) {
	for _, e := range elems {
		if it.cancelledNow() {
			return
		}
		if !e.Component {
			it.visit(e.Vertex)
			continue
		}
		it.ascendComponent(e)
	}
}

func (it *Iterator[D]) ascendComponent(e wto.Element) {
	h := e.Vertex
	var iteration uint
	for {
		if it.cancelledNow() {
			return
		}
		newPre := it.joinPredecessors(h)
		switch {
		case iteration == 0:
			it.pre[h] = newPre
		case iteration <= it.opts.WideningDelay:
			it.pre[h] = it.pre[h].Join(newPre)
		default:
			it.pre[h] = it.pre[h].Widening(newPre)
		}
		it.post[h] = it.stepStatements(h, it.pre[h])
		it.ascend(e.Body)
		iteration++

		stable := it.joinPredecessors(h).Leq(it.pre[h])
		log.WithField("head", h).WithField("iteration", iteration).WithField("stable", stable).
			Debug("loop head widening iteration")
		if stable {
			return
		}
	}
}

// narrow performs up to opts.NarrowingIterations descending passes over
// the whole WTO, stopping early once a full pass leaves every node
// unchanged.
func (it *Iterator[D]) narrow() {
	for i := uint(0); i < it.opts.NarrowingIterations; i++ {
		if it.cancelledNow() {
			return
		}
		changed := it.narrowPass(it.order.Elements)
		log.WithField("pass", i+1).WithField("changed", changed).Debug("narrowing pass")
		if !changed {
			return
		}
	}
}

func (it *Iterator[D]) narrowPass(elems []wto.Element) bool {
	changed := false
	for _, e := range elems {
		if it.cancelledNow() {
			return changed
		}
		if !e.Component {
			if it.narrowNode(e.Vertex) {
				changed = true
			}
			continue
		}
		h := e.Vertex
		newPre := it.joinPredecessors(h)
		narrowed := it.pre[h].Narrowing(newPre)
		if !narrowed.Equals(it.pre[h]) {
			changed = true
		}
		it.pre[h] = narrowed
		it.post[h] = it.stepStatements(h, narrowed)
		if it.narrowPass(e.Body) {
			changed = true
		}
	}
	return changed
}

func (it *Iterator[D]) narrowNode(n ir.Node) bool {
	newPre := it.joinPredecessors(n)
	changed := !newPre.Equals(it.pre[n])
	it.pre[n] = newPre
	newPost := it.stepStatements(n, newPre)
	if !newPost.Equals(it.post[n]) {
		changed = true
	}
	it.post[n] = newPost
	return changed
}

func (it *Iterator[D]) visit(n ir.Node) {
	it.pre[n] = it.joinPredecessors(n)
	it.post[n] = it.stepStatements(n, it.pre[n])
}

func (it *Iterator[D]) stepStatements(n ir.Node, pre transfer.State[D]) transfer.State[D] {
	post := pre
	for _, s := range it.cfg.Statements(n) {
		if post.IsBottom() {
			break
		}
		post = transfer.Step(post, s, it.vf)
	}
	return post
}

// joinPredecessors computes a node's new pre-state as the join of every
// predecessor's post-state, narrowed through the branch condition on that
// edge when the CFG is a ConditionalCFG. The entry node also folds in the
// caller-seeded entryState, so a CFG whose entry participates in a cycle
// (a back edge into the function's own start) still keeps its initial
// value rather than losing it to an all-bottom join on the first pass.
func (it *Iterator[D]) joinPredecessors(n ir.Node) transfer.State[D] {
	acc := it.bottom
	if n == it.cfg.Entry() {
		acc = it.entryState
	}
	for _, p := range it.cfg.Predecessors(n) {
		post, ok := it.post[p]
		if !ok {
			continue
		}
		edge := post
		if it.cond != nil {
			if cond, taken, ok2 := it.cond.BranchCondition(p, n); ok2 {
				edge = transfer.Refine(post, cond, taken)
			}
		}
		acc = acc.Join(edge)
	}
	return acc
}

func (it *Iterator[D]) cancelledNow() bool {
	if it.cancelled {
		return true
	}
	if it.opts.CancellationFlag != nil && it.opts.CancellationFlag.Load() {
		it.cancelled = true
		return true
	}
	if !it.deadline.IsZero() && time.Now().After(it.deadline) {
		it.cancelled = true
		return true
	}
	return false
}

func (it *Iterator[D]) result() Result[D] {
	nodes := make(map[ir.Node]*Invariant[D], len(it.cfg.Nodes()))
	for _, n := range it.cfg.Nodes() {
		pre, ok := it.pre[n]
		if !ok {
			pre = it.bottom
		}
		post, ok := it.post[n]
		if !ok {
			post = it.bottom
		}
		nodes[n] = &Invariant[D]{Pre: pre, Post: post, Sound: !it.cancelled}
	}
	return Result[D]{Nodes: nodes, Cancelled: it.cancelled}
}
