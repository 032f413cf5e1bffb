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
package fixpoint

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/config"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/numerical"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/transfer"
)

const (
	varX   ir.Var = 1
	varOne ir.Var = 2
)

type loopCFG struct{}

func (loopCFG) Entry() ir.Node   { return 1 }
func (loopCFG) Exits() []ir.Node { return []ir.Node{4} }
func (loopCFG) Nodes() []ir.Node { return []ir.Node{1, 2, 3, 4} }

func (loopCFG) Successors(n ir.Node) []ir.Node {
	switch n {
	case 1:
		return []ir.Node{2}
	case 2:
		return []ir.Node{3, 4}
	case 3:
		return []ir.Node{2}
	default:
		return nil
	}
}

func (loopCFG) Predecessors(n ir.Node) []ir.Node {
	switch n {
	case 2:
		return []ir.Node{1, 3}
	case 3:
		return []ir.Node{2}
	case 4:
		return []ir.Node{2}
	default:
		return nil
	}
}

func cst(v int64) ir.Literal {
	return ir.ConstantInt{Value: machineint.FromInt64(v, 32, machineint.Signed)}
}

func (loopCFG) Statements(n ir.Node) []ir.Statement {
	switch n {
	case 1:
		return []ir.Statement{
			&ir.AssignConst{X: varX, C: cst(0)},
			&ir.AssignConst{X: varOne, C: cst(1)},
		}
	case 3:
		return []ir.Statement{&ir.BinaryOp{Op: ir.Add, X: varX, Y: varX, Z: varOne}}
	default:
		return nil
	}
}

func entryState() transfer.State[numerical.Domain] {
	return transfer.State[numerical.Domain]{Num: numerical.Top(), Ptr: pointer.NewInfo()}
}

func TestRunWidensUnboundedLoopCounter(t *testing.T) {
	cfg := loopCFG{}
	opts := config.DefaultConfig()
	it := New[numerical.Domain](cfg, nil, numerical.Bottom(), pointer.NewInfo(), opts)

	result := it.Run(entryState())
	if result.Cancelled {
		t.Fatalf("unexpected cancellation")
	}

	exit, ok := result.Nodes[4]
	if !ok {
		t.Fatalf("missing invariant for exit node")
	}
	xi := exit.Pre.Num.ToInterval(varX)
	if xi.IsBottom() {
		t.Fatalf("expected node 4 reachable, got bottom for x")
	}
	if xi.UB().IsFinite() {
		t.Errorf("expected widening to produce an unbounded upper bound for x, got %s", xi)
	}
	if !exit.Sound {
		t.Errorf("expected a completed run to be marked sound")
	}
}

func TestRunHeadLowerBoundStaysNonNegative(t *testing.T) {
	cfg := loopCFG{}
	opts := config.DefaultConfig()
	it := New[numerical.Domain](cfg, nil, numerical.Bottom(), pointer.NewInfo(), opts)

	result := it.Run(entryState())

	head := result.Nodes[2]
	xi := head.Pre.Num.ToInterval(varX)
	lb := xi.LB()
	if !lb.IsFinite() || lb.Z().Cmp(number.ZFromInt64(0)) < 0 {
		t.Errorf("expected x's lower bound at the loop head to stay >= 0, got %s", xi)
	}
}

func TestRunCancelledBeforeStartMarksResultUnsound(t *testing.T) {
	cfg := loopCFG{}
	opts := config.DefaultConfig()
	opts.CancellationFlag.Store(true)
	it := New[numerical.Domain](cfg, nil, numerical.Bottom(), pointer.NewInfo(), opts)

	result := it.Run(entryState())
	if !result.Cancelled {
		t.Fatalf("expected Run to observe the pre-set cancellation flag")
	}
	for n, inv := range result.Nodes {
		if inv.Sound {
			t.Errorf("node %d: expected Sound=false after cancellation", n)
		}
	}
}
