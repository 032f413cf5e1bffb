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
package cmd

import (
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
)

// Variable indices for the toy function below: "x = 0; one = 1; while (x <
// bound) { x = x + one }".
const (
	toyX     ir.Var = 1
	toyOne   ir.Var = 2
	toyBound ir.Var = 3
)

// toyVariableFactory resolves every variable in the toy CFG to a signed
// 32-bit integer, the simplest kind spec section 6's factory can report.
type toyVariableFactory struct{}

func (toyVariableFactory) Kind(ir.Var) ir.VarKind                  { return ir.IntegerKind }
func (toyVariableFactory) BitWidth(ir.Var) uint                    { return 32 }
func (toyVariableFactory) Signedness(ir.Var) machineint.Signedness { return machineint.Signed }

// toyCFG is a hard-coded four-node loop: entry assigns x=0, one=1 and bound=10 and
// falls into the loop head, the loop head exits to the tail once x>=bound,
// otherwise the body increments x and branches back. It implements
// ir.ConditionalCFG so the command also demonstrates the iterator's
// branch-condition refinement.
type toyCFG struct{}

const (
	toyEntry ir.Node = 1
	toyHead  ir.Node = 2
	toyBody  ir.Node = 3
	toyExit  ir.Node = 4
)

func (toyCFG) Entry() ir.Node   { return toyEntry }
func (toyCFG) Exits() []ir.Node { return []ir.Node{toyExit} }
func (toyCFG) Nodes() []ir.Node { return []ir.Node{toyEntry, toyHead, toyBody, toyExit} }

func (toyCFG) Successors(n ir.Node) []ir.Node {
	switch n {
	case toyEntry:
		return []ir.Node{toyHead}
	case toyHead:
		return []ir.Node{toyBody, toyExit}
	case toyBody:
		return []ir.Node{toyHead}
	default:
		return nil
	}
}

func (toyCFG) Predecessors(n ir.Node) []ir.Node {
	switch n {
	case toyHead:
		return []ir.Node{toyEntry, toyBody}
	case toyBody:
		return []ir.Node{toyHead}
	case toyExit:
		return []ir.Node{toyHead}
	default:
		return nil
	}
}

func toyConst(v int64) ir.Literal {
	return ir.ConstantInt{Value: machineint.FromInt64(v, 32, machineint.Signed)}
}

func (toyCFG) Statements(n ir.Node) []ir.Statement {
	switch n {
	case toyEntry:
		return []ir.Statement{
			&ir.AssignConst{X: toyX, C: toyConst(0)},
			&ir.AssignConst{X: toyOne, C: toyConst(1)},
			&ir.AssignConst{X: toyBound, C: toyConst(10)},
		}
	case toyBody:
		return []ir.Statement{&ir.BinaryOp{Op: ir.Add, X: toyX, Y: toyX, Z: toyOne}}
	default:
		return nil
	}
}

// BranchCondition reports the loop's own guard on the head->body and
// head->exit edges: "x < bound" taken reaches the body, not taken reaches
// the tail.
func (toyCFG) BranchCondition(n, succ ir.Node) (cond *ir.Compare, branchTaken bool, ok bool) {
	if n != toyHead {
		return nil, false, false
	}
	guard := &ir.Compare{Kind: ir.CmpLT, Y: toyX, Z: toyBound}
	switch succ {
	case toyBody:
		return guard, true, true
	case toyExit:
		return guard, false, true
	default:
		return nil, false, false
	}
}
