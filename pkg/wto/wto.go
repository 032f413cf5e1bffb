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

// Package wto computes Bourdoncle's weak topological order of a CFG (spec
// sections 4.13 and 9's GLOSSARY entry "WTO"): a linear sequence of nodes,
// grouped into nested components around loop heads, such that every edge
// goes from an earlier element to a later one except edges feeding back
// into a component's own head. This is what lets the forward fixpoint
// iterator (pkg/fixpoint) visit every node exactly once per pass outside a
// loop, and iterate a loop's body to convergence (widening) before moving
// past its head.
//
// No teacher analog exists for this (Consensys-go-corset's constraint
// dependency graphs are acyclic by construction, so it never needed a loop
// ordering); this is Bourdoncle's published construction implemented
// directly, the same algorithm original_source/analyzer's own wto.hpp
// implements for the identical purpose.
package wto

import (
	"strconv"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
)

// Node is a CFG node.
type Node = ir.Node

// Element is one entry of a weak topological order: either a plain vertex,
// or a component headed by Vertex with Body the nested weak topological
// order of the rest of its strongly connected region.
type Element struct {
	Vertex    Node
	Component bool
	Body      []Element
}

// WTO is the top-level linear sequence of Elements.
type WTO struct {
	Elements []Element
}

const infinity = int(^uint(0) >> 1)

// Build computes the weak topological order of cfg, starting from its
// entry node; any node unreachable from Entry (e.g. dead code) is still
// included, appended in cfg.Nodes() order, so the iterator never silently
// skips a node spec's results table must report on.
func Build(cfg ir.CFG) WTO {
	b := &builder{cfg: cfg, dfn: map[Node]int{}}
	var elems []Element
	b.visit(cfg.Entry(), &elems)
	// Any node unreachable from Entry gets its own, independently-ordered
	// partition built the same way, then appended after the main one: each
	// call below prepends within its own 'extra' slice, so mixing it into
	// elems via prepend would wrongly shuffle unreachable code ahead of the
	// reachable flow built above.
	for _, n := range cfg.Nodes() {
		if b.dfn[n] == 0 {
			var extra []Element
			b.visit(n, &extra)
			elems = append(elems, extra...)
		}
	}
	return WTO{Elements: elems}
}

type builder struct {
	cfg   ir.CFG
	num   int
	dfn   map[Node]int
	stack []Node
}

// visit is Bourdoncle's recursive DFS: it returns the smallest DFS number
// reachable from v, identifying v as a component head exactly when that
// minimum equals v's own number (spec's GLOSSARY "WTO" cites this
// construction by name).
func (b *builder) visit(v Node, partition *[]Element) int {
	b.stack = append(b.stack, v)
	b.num++
	b.dfn[v] = b.num
	head := b.dfn[v]
	loop := false
	for _, succ := range b.cfg.Successors(v) {
		min := b.dfn[succ]
		if min == 0 {
			min = b.visit(succ, partition)
		}
		if min <= head {
			head = min
			loop = true
		}
	}
	if head == b.dfn[v] {
		b.dfn[v] = infinity
		top := b.pop()
		if loop {
			for top != v {
				b.dfn[top] = 0
				top = b.pop()
			}
			b.component(v, partition)
		} else {
			prepend(partition, Element{Vertex: v})
		}
	}
	return head
}

func (b *builder) pop() Node {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top
}

// prepend inserts e at the front of *partition. Every vertex finalizes only
// after everything reachable from it has already been prepended (DFS
// post-order), so prepending — not appending — is what puts the entry
// first and each node ahead of its non-back-edge successors in the final
// sequence.
func prepend(partition *[]Element, e Element) {
	*partition = append([]Element{e}, (*partition)...)
}

// component builds the nested body of the strongly connected region headed
// by v: every successor of v not yet assigned a DFS number is the entry
// point of part of that body.
func (b *builder) component(v Node, partition *[]Element) {
	var body []Element
	for _, succ := range b.cfg.Successors(v) {
		if b.dfn[succ] == 0 {
			b.visit(succ, &body)
		}
	}
	prepend(partition, Element{Vertex: v, Component: true, Body: body})
}

// Walk visits every element of the WTO in order, depth-first into nested
// components; enter is called with the element and its nesting depth
// before its body (if any) is walked, exit after. fixpoint uses this to
// drive widening/narrowing at component heads without duplicating the
// recursive-descent logic.
func (w WTO) Walk(enter func(e Element, depth int), exit func(e Element, depth int)) {
	walk(w.Elements, 0, enter, exit)
}

func walk(elems []Element, depth int, enter, exit func(e Element, depth int)) {
	for _, e := range elems {
		if enter != nil {
			enter(e, depth)
		}
		if e.Component {
			walk(e.Body, depth+1, enter, exit)
		}
		if exit != nil {
			exit(e, depth)
		}
	}
}

func (w WTO) String() string {
	return stringOf(w.Elements)
}

func stringOf(elems []Element) string {
	s := ""
	for i, e := range elems {
		if i > 0 {
			s += " "
		}
		s += elemString(e)
	}
	return s
}

func elemString(e Element) string {
	if !e.Component {
		return nodeString(e.Vertex)
	}
	return nodeString(e.Vertex) + "(" + stringOf(e.Body) + ")"
}

func nodeString(n Node) string { return strconv.FormatUint(uint64(n), 10) }
