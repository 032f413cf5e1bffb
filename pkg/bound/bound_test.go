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
package bound

import "testing"

func TestZeroTimesInfinity(t *testing.T) {
	zero := FromInt64(0)
	if got := zero.Mul(PosInfinity); !got.Equals(zero) {
		t.Errorf("0 * +oo = %s, want 0", got)
	}
	if got := PosInfinity.Mul(zero); !got.Equals(zero) {
		t.Errorf("+oo * 0 = %s, want 0", got)
	}
}

func TestOrdering(t *testing.T) {
	five := FromInt64(5)
	if !NegInfinity.Leq(five) || !five.Leq(PosInfinity) {
		t.Errorf("ordering violated: -oo <= 5 <= +oo expected")
	}
	if NegInfinity.Equals(PosInfinity) {
		t.Errorf("-oo must not equal +oo")
	}
}

func TestMulSign(t *testing.T) {
	if got := FromInt64(-1).Mul(PosInfinity); !got.Equals(NegInfinity) {
		t.Errorf("-1 * +oo = %s, want -oo", got)
	}
	if got := NegInfinity.Mul(NegInfinity); !got.Equals(PosInfinity) {
		t.Errorf("-oo * -oo = %s, want +oo", got)
	}
}

func TestMinMax(t *testing.T) {
	if !Min(FromInt64(3), FromInt64(5)).Equals(FromInt64(3)) {
		t.Errorf("Min mismatch")
	}
	if !Max(NegInfinity, FromInt64(5)).Equals(FromInt64(5)) {
		t.Errorf("Max mismatch")
	}
}
