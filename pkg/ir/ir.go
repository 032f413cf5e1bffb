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

// Package ir declares the external-collaborator interfaces the engine
// consumes (spec section 6): a CFG, a statement visitor over a closed set
// of statement variants, and the literal/variable/memory-location
// factories that resolve IR operand references into the values pkg/linear,
// pkg/pointer and the L3 domains understand. The core never builds an IR —
// it is handed one through these interfaces (spec §1: "the IR builder...
// is an external collaborator").
//
// Grounded on the teacher's own "interfaces, not a closed implementation"
// style for the piece of a pipeline the core doesn't own
// (pkg/ir/schema.Module/Column in Consensys-go-corset: small doc-commented
// interfaces, one accessor per concern, no generic container forced on the
// caller). Unlike that schema, the statement set here is deliberately
// closed (spec §6 calls out "double-dispatch over the closed IR statement
// variants") rather than left open for a caller to extend, so it is
// modelled as a sealed interface (an unexported marker method) plus a
// Visitor with one method per kind, rather than the teacher's open
// interface-per-concept style.
package ir

import (
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/linear"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
)

// Var identifies a program variable; the same index space pkg/linear and
// pkg/pointer already use (spec §6 "Variable factory... stable unique
// indices used as patricia-tree keys").
type Var = linear.Var

// Location identifies an abstract memory location (global, allocation,
// function address, or one of the two sentinels below); the same index
// space pkg/pointer already uses.
type Location = pointer.Location

// Node identifies a basic block within a CFG.
type Node uint64

// VarKind is the scalar kind of a variable (spec §6 literal factory:
// "integer-var, float-var, pointer-var, aggregate-var").
type VarKind int

const (
	IntegerKind VarKind = iota
	FloatKind
	PointerKind
	AggregateKind
)

// VariableFactory supplies stable indices and kinds for program variables
// (spec §6).
type VariableFactory interface {
	Kind(v Var) VarKind
	// BitWidth and Signedness apply to IntegerKind and PointerKind
	// variables (pointers are modelled as machine-width integers for
	// offset arithmetic, per spec §4.11).
	BitWidth(v Var) uint
	Signedness(v Var) machineint.Signedness
}

// MemoryLocationFactory supplies the two sentinel memory locations
// `libc_errno` and absolute-zero (the null pointer's target, used so a
// null dereference shows up as an ordinary points-to-set member rather
// than a special case in the transfer function). It has no method for any
// other kind of location: globals, local and dynamic allocations and
// function addresses reach the core already resolved, as the Location a
// statement such as Alloca, AddrOfGlobal or Call carries.
type MemoryLocationFactory interface {
	Errno() Location
	AbsoluteZero() Location
}

// Literal is the resolved shape of an IR operand reference (spec §6
// literal factory: one of constant-int, constant-fp, null, undefined,
// integer-var, float-var, pointer-var, aggregate-zero, aggregate-literal,
// aggregate-var). The core only ever inspects a Literal through a type
// switch over the concrete types below — this interface exists solely to
// let a single field hold any of them.
type Literal interface {
	isLiteral()
}

type ConstantInt struct{ Value machineint.MachineInt }
type ConstantFP struct{ Bits uint64 }
type Null struct{}
type Undefined struct{}
type IntegerVar struct{ V Var }
type FloatVar struct{ V Var }
type PointerVar struct{ V Var }
type AggregateZero struct{}
type AggregateLiteral struct{ Fields []Literal }
type AggregateVar struct{ V Var }

func (ConstantInt) isLiteral()      {}
func (ConstantFP) isLiteral()       {}
func (Null) isLiteral()             {}
func (Undefined) isLiteral()        {}
func (IntegerVar) isLiteral()       {}
func (FloatVar) isLiteral()         {}
func (PointerVar) isLiteral()       {}
func (AggregateZero) isLiteral()    {}
func (AggregateLiteral) isLiteral() {}
func (AggregateVar) isLiteral()     {}

// BinOp is one of the integer/pointer binary operators spec §4.12 lists for
// the `x = op y z` statement kind.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Shl
	Lshr
	Ashr
	And
	Or
	Xor
)

func (op BinOp) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Rem:
		return "rem"
	case Shl:
		return "shl"
	case Lshr:
		return "lshr"
	case Ashr:
		return "ashr"
	case And:
		return "and"
	case Or:
		return "or"
	case Xor:
		return "xor"
	default:
		return "?"
	}
}

// CastKind distinguishes the three machine-integer conversions spec §4.2
// exposes (trunc, ext i.e. zero/sign-extend, and a same-width sign cast).
type CastKind int

const (
	Trunc CastKind = iota
	Ext
	SignCast
)

// CmpKind is a comparison predicate (spec §4.12 "x = cmp y z").
type CmpKind int

const (
	CmpEQ CmpKind = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

// Statement is the closed tagged union of IR statement variants (spec §6).
// A Statement only ever arrives through Accept, never constructed or
// matched on by the core outside of a Visitor implementation — the sealed
// isStatement method keeps any external package from growing the union.
type Statement interface {
	Accept(v Visitor)
	isStatement()
}

// Visitor double-dispatches over the closed statement set (spec §6).
// pkg/transfer is the one implementation the core ships.
type Visitor interface {
	VisitAssignConst(s *AssignConst)
	VisitAssignVar(s *AssignVar)
	VisitBinaryOp(s *BinaryOp)
	VisitCast(s *Cast)
	VisitCompare(s *Compare)
	VisitAlloca(s *Alloca)
	VisitAddrOfGlobal(s *AddrOfGlobal)
	VisitPointerShift(s *PointerShift)
	VisitLoad(s *Load)
	VisitStore(s *Store)
	VisitCall(s *Call)
	VisitInvoke(s *Invoke)
	VisitReturn(s *Return)
	VisitUnreachable(s *Unreachable)
	VisitLandingPad(s *LandingPad)
	VisitResume(s *Resume)
	VisitVarArgIntrinsic(s *VarArgIntrinsic)
}

// AssignConst is "x = c".
type AssignConst struct {
	X Var
	C Literal
}

// AssignVar is "x = y".
type AssignVar struct {
	X, Y Var
}

// BinaryOp is "x = op y z". NoWrap marks the statement's no-wrap variant
// (spec §4.12): the wrap form reduces the result modulo 2^bitWidth, the
// no-wrap form instead weakens an out-of-range result to Top (overflow is
// assumed absent, per spec never strengthened to Bottom) — both forms are
// applied at x's own bit width and signedness by pkg/transfer's
// machine-integer bridge.
type BinaryOp struct {
	Op      BinOp
	X, Y, Z Var
	NoWrap  bool
}

// Cast is "x = trunc/ext/cast y".
type Cast struct {
	Kind CastKind
	X, Y Var
}

// Compare is "x = cmp y z". A CFG whose branch depends on the comparison
// reports it per edge through ConditionalCFG.BranchCondition, so the
// transfer function can emit the implied linear constraint on the taken
// branch (spec §4.12).
type Compare struct {
	Kind CmpKind
	X, Y, Z Var
}

// Alloca is "x = alloca tau, n": allocate a fresh memory location of Size
// bytes (already evaluated from n*sizeof(tau) by the IR builder) and
// publish it in x's points-to-set.
type Alloca struct {
	X    Var
	Loc  Location
	Size Literal
}

// AddrOfGlobal is "x = &gv": publish the global's memory location in x's
// points-to-set.
type AddrOfGlobal struct {
	X   Var
	Loc Location
}

// PointerShift is "x = p + sum(ci*ei)": copy p's points-to-set into x,
// shifted by Offset.
type PointerShift struct {
	X, P   Var
	Offset linear.Expression
}

// Load is "x = *p".
type Load struct {
	X, P Var
}

// Store is "*p = v".
type Store struct {
	P, V Var
}

// Call is "call f(args)"; Callee is nil for an indirect call (resolved
// through the pointer points-to-set at solve time, spec §4.12); ExternalName
// is set when the callee is a known libc/libc++ intrinsic so the transfer
// function can consult the external call model table instead of inlining a
// summary.
type Call struct {
	X            Var
	Callee       *Location
	ExternalName string
	Args         []Var
}

// Invoke is a Call that may unwind to an exception destination.
type Invoke struct {
	Call
	NormalDest, ExceptionDest Node
}

// Return binds the function's return slot.
type Return struct {
	V *Var
}

// Unreachable marks a program point that can never execute; its transfer
// function is simply "set the state to bottom".
type Unreachable struct{}

// LandingPad models an exception value abstractly.
type LandingPad struct {
	X Var
}

// Resume re-raises the current exception value.
type Resume struct {
	V Var
}

// VarArgIntrinsic models va_start/va_arg/va_end/va_copy abstractly: Name
// distinguishes which one, Args are the operands.
type VarArgIntrinsic struct {
	Name string
	Args []Var
}

func (s *AssignConst) Accept(v Visitor)     { v.VisitAssignConst(s) }
func (s *AssignVar) Accept(v Visitor)       { v.VisitAssignVar(s) }
func (s *BinaryOp) Accept(v Visitor)        { v.VisitBinaryOp(s) }
func (s *Cast) Accept(v Visitor)            { v.VisitCast(s) }
func (s *Compare) Accept(v Visitor)         { v.VisitCompare(s) }
func (s *Alloca) Accept(v Visitor)          { v.VisitAlloca(s) }
func (s *AddrOfGlobal) Accept(v Visitor)    { v.VisitAddrOfGlobal(s) }
func (s *PointerShift) Accept(v Visitor)    { v.VisitPointerShift(s) }
func (s *Load) Accept(v Visitor)            { v.VisitLoad(s) }
func (s *Store) Accept(v Visitor)           { v.VisitStore(s) }
func (s *Call) Accept(v Visitor)            { v.VisitCall(s) }
func (s *Invoke) Accept(v Visitor)          { v.VisitInvoke(s) }
func (s *Return) Accept(v Visitor)          { v.VisitReturn(s) }
func (s *Unreachable) Accept(v Visitor)     { v.VisitUnreachable(s) }
func (s *LandingPad) Accept(v Visitor)      { v.VisitLandingPad(s) }
func (s *Resume) Accept(v Visitor)          { v.VisitResume(s) }
func (s *VarArgIntrinsic) Accept(v Visitor) { v.VisitVarArgIntrinsic(s) }

func (*AssignConst) isStatement()     {}
func (*AssignVar) isStatement()       {}
func (*BinaryOp) isStatement()        {}
func (*Cast) isStatement()            {}
func (*Compare) isStatement()         {}
func (*Alloca) isStatement()          {}
func (*AddrOfGlobal) isStatement()    {}
func (*PointerShift) isStatement()    {}
func (*Load) isStatement()            {}
func (*Store) isStatement()           {}
func (*Call) isStatement()            {}
func (*Invoke) isStatement()          {}
func (*Return) isStatement()          {}
func (*Unreachable) isStatement()     {}
func (*LandingPad) isStatement()      {}
func (*Resume) isStatement()          {}
func (*VarArgIntrinsic) isStatement() {}

// CFG is the opaque graph object the iterator consumes (spec §6): entry
// node, exit nodes, predecessors/successors, and the ordered statements of
// each node. Weak topological order is computed on demand by pkg/wto
// rather than required from the CFG, matching spec §6's "either
// precomputed by the frontend or computed on demand by the core" (this
// port always takes the "computed on demand" branch, so Node plays the
// same role as go-corset's bare `uint` column/module indices: a stable
// small-integer key the core never needs the frontend to further explain).
type CFG interface {
	Entry() Node
	Exits() []Node
	Successors(n Node) []Node
	Predecessors(n Node) []Node
	Statements(n Node) []Statement
	Nodes() []Node
}

// ConditionalCFG is the optional extension a CFG implements when its nodes
// can end in a two-way conditional branch. pkg/fixpoint type-asserts for
// this interface and, when present, narrows the state flowing across an
// edge with the branch's condition (pkg/transfer.Refine) before joining it
// into the successor's pre-state; a CFG that doesn't implement it still
// analyzes soundly, just without that extra precision.
type ConditionalCFG interface {
	CFG
	// BranchCondition reports the Compare governing the edge n->succ and
	// whether succ is reached when that comparison holds. ok is false for
	// an edge that isn't part of a conditional branch (e.g. a fallthrough
	// or an unconditional jump), in which case cond and branchTaken are
	// meaningless.
	BranchCondition(n, succ Node) (cond *Compare, branchTaken bool, ok bool)
}
