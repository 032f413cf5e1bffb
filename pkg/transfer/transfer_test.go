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
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/machineint"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/numerical"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/pointer"
)

const (
	bvX ir.Var = 1
	bvY ir.Var = 2
)

// byteVF resolves every variable to an unsigned byte, the narrowest width
// that makes a wrap/no-wrap distinction easy to hand-trace.
type byteVF struct{}

func (byteVF) Kind(ir.Var) ir.VarKind                  { return ir.IntegerKind }
func (byteVF) BitWidth(ir.Var) uint                    { return 8 }
func (byteVF) Signedness(ir.Var) machineint.Signedness { return machineint.Unsigned }

func byteState() State[numerical.Domain] {
	return State[numerical.Domain]{Num: numerical.Top(), Ptr: pointer.NewInfo()}
}

func cstByte(v int64) ir.Literal {
	return ir.ConstantInt{Value: machineint.FromInt64(v, 8, machineint.Unsigned)}
}

func TestVisitBinaryOpWrapsAroundTheDestinationsBitWidth(t *testing.T) {
	s := byteState()
	s = Step(s, &ir.AssignConst{X: bvX, C: cstByte(250)}, byteVF{})
	s = Step(s, &ir.AssignConst{X: bvY, C: cstByte(10)}, byteVF{})
	s = Step(s, &ir.BinaryOp{Op: ir.Add, X: bvX, Y: bvX, Z: bvY}, byteVF{})

	xi := s.Num.ToInterval(bvX)
	want := number.ZFromInt64(4)
	if !xi.LB().IsFinite() || !xi.UB().IsFinite() || xi.LB().Z().Cmp(want) != 0 || xi.UB().Z().Cmp(want) != 0 {
		t.Errorf("expected 250+10 to wrap to 4 at 8 bits, got %s", xi)
	}
}

func TestVisitBinaryOpNoWrapWeakensOverflowToTop(t *testing.T) {
	s := byteState()
	s = Step(s, &ir.AssignConst{X: bvX, C: cstByte(250)}, byteVF{})
	s = Step(s, &ir.AssignConst{X: bvY, C: cstByte(10)}, byteVF{})
	s = Step(s, &ir.BinaryOp{Op: ir.Add, X: bvX, Y: bvX, Z: bvY, NoWrap: true}, byteVF{})

	xi := s.Num.ToInterval(bvX)
	if xi.IsBottom() {
		t.Fatalf("an assumed no-wrap overflow must never strengthen to bottom")
	}
	if !xi.LB().IsFinite() || !xi.UB().IsFinite() ||
		xi.LB().Z().Cmp(number.ZFromInt64(0)) != 0 || xi.UB().Z().Cmp(number.ZFromInt64(255)) != 0 {
		t.Errorf("expected the no-wrap overflow to weaken x to the full byte range, got %s", xi)
	}
}

func TestVisitBinaryOpWithNoVariableFactoryFallsBackToUnboundedArithmetic(t *testing.T) {
	s := byteState()
	s = Step(s, &ir.AssignConst{X: bvX, C: cstByte(250)}, nil)
	s = Step(s, &ir.AssignConst{X: bvY, C: cstByte(10)}, nil)
	s = Step(s, &ir.BinaryOp{Op: ir.Add, X: bvX, Y: bvX, Z: bvY}, nil)

	xi := s.Num.ToInterval(bvX)
	want := number.ZFromInt64(260)
	if !xi.LB().IsFinite() || !xi.UB().IsFinite() || xi.LB().Z().Cmp(want) != 0 || xi.UB().Z().Cmp(want) != 0 {
		t.Errorf("expected plain unbounded Z arithmetic with no VariableFactory, got %s", xi)
	}
}
