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

package transfer

import (
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
)

// Collector walks a whole CFG once and gathers every pointer.Constraint its
// statements imply, independent of any particular numerical domain kind —
// the flow-insensitive pre-pass described in this package's doc comment.
// Only the statement kinds with a pointer effect contribute a constraint;
// everything else is a no-op visit.
type Collector struct {
	vf VariableFactory
	cs *pointer.ConstraintSystem
}

// VariableFactory is the subset of ir.VariableFactory the collector needs:
// a pointer variable's bit width and signedness size the zero-offset
// interval every non-shifting pointer constraint carries.
type VariableFactory = ir.VariableFactory

// NewCollector builds an empty collector.
func NewCollector(vf VariableFactory) *Collector {
	return &Collector{vf: vf, cs: pointer.NewConstraintSystem()}
}

// Collect walks every statement of cfg and records its implied pointer
// constraints.
func (c *Collector) Collect(cfg ir.CFG) {
	cv := &collectVisitor{c: c}
	for _, n := range cfg.Nodes() {
		for _, s := range cfg.Statements(n) {
			s.Accept(cv)
		}
	}
}

// Solve runs the monotone fixpoint over every constraint gathered so far.
func (c *Collector) Solve() *pointer.Info { return c.cs.Solve() }

func (c *Collector) widthSign(v Var) (uint, machineint.Signedness) {
	if c.vf != nil {
		return c.vf.BitWidth(v), c.vf.Signedness(v)
	}
	return 64, machineint.Signed
}

func (c *Collector) zeroOffset(v Var) machineint.Interval {
	width, sign := c.widthSign(v)
	return machineint.Singleton(machineint.New(number.ZFromInt64(0), width, sign))
}

// sizeLiteral resolves an Alloca's already-evaluated n*sizeof(tau) operand to
// an interval: an exact singleton when the IR builder folded it to a
// constant (the common case), falling back to Top at the allocated
// pointer's own width/sign for anything else — the same "can't be bounded
// any more precisely here" fallback VisitPointerShift uses for a
// variable-valued offset.
func (c *Collector) sizeLiteral(p Var, size ir.Literal) machineint.Interval {
	if ci, ok := size.(ir.ConstantInt); ok {
		return machineint.Singleton(ci.Value)
	}
	width, sign := c.widthSign(p)
	return machineint.Top(width, sign)
}

type collectVisitor struct{ c *Collector }

func (v *collectVisitor) VisitAssignConst(s *ir.AssignConst) {
	switch lit := s.C.(type) {
	case ir.Null:
		// Modelled via the fixed AbsoluteZero sentinel once the engine
		// wires a MemoryLocationFactory through; until then this statement
		// contributes no constraint (the numerical fallback in Step
		// already Forgets x, which remains sound).
		_ = lit
	case ir.PointerVar:
		v.c.cs.Add(pointer.AssignVar{P: s.X, Q: lit.V, Offset: v.c.zeroOffset(s.X)})
	}
}

func (v *collectVisitor) VisitAssignVar(s *ir.AssignVar) {
	v.c.cs.Add(pointer.AssignVar{P: s.X, Q: s.Y, Offset: v.c.zeroOffset(s.X)})
}

func (v *collectVisitor) VisitBinaryOp(*ir.BinaryOp) {}
func (v *collectVisitor) VisitCast(*ir.Cast)         {}
func (v *collectVisitor) VisitCompare(*ir.Compare)   {}

func (v *collectVisitor) VisitAlloca(s *ir.Alloca) {
	v.c.cs.Add(pointer.AssignAddr{P: s.X, A: s.Loc, Offset: v.c.zeroOffset(s.X)})
	v.c.cs.Add(pointer.SetSize{A: s.Loc, Size: v.c.sizeLiteral(s.X, s.Size)})
}

func (v *collectVisitor) VisitAddrOfGlobal(s *ir.AddrOfGlobal) {
	v.c.cs.Add(pointer.AssignAddr{P: s.X, A: s.Loc, Offset: v.c.zeroOffset(s.X)})
}

// VisitPointerShift resolves the shift's symbolic offset to an interval
// when it is a compile-time constant (no variables), and falls back to Top
// otherwise: the collector runs before any numerical state exists, so a
// shift by a variable amount can't be bounded any more precisely here.
func (v *collectVisitor) VisitPointerShift(s *ir.PointerShift) {
	width, sign := v.c.widthSign(s.X)
	offset := machineint.Top(width, sign)
	if len(s.Offset.Variables()) == 0 {
		offset = machineint.Singleton(machineint.New(s.Offset.Constant(), width, sign))
	}
	v.c.cs.Add(pointer.AssignVar{P: s.X, Q: s.P, Offset: offset})
}

func (v *collectVisitor) VisitLoad(s *ir.Load) {
	v.c.cs.Add(pointer.Load{P: s.X, Q: s.P, Offset: v.c.zeroOffset(s.X)})
}

func (v *collectVisitor) VisitStore(s *ir.Store) {
	v.c.cs.Add(pointer.Store{P: s.P, Q: s.V, Offset: v.c.zeroOffset(s.V)})
}

func (v *collectVisitor) VisitCall(*ir.Call)                       {}
func (v *collectVisitor) VisitInvoke(*ir.Invoke)                   {}
func (v *collectVisitor) VisitReturn(*ir.Return)                   {}
func (v *collectVisitor) VisitUnreachable(*ir.Unreachable)         {}
func (v *collectVisitor) VisitLandingPad(*ir.LandingPad)           {}
func (v *collectVisitor) VisitResume(*ir.Resume)                   {}
func (v *collectVisitor) VisitVarArgIntrinsic(*ir.VarArgIntrinsic) {}
