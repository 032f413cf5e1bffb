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
package machineint

import (
	"testing"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/interval"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/number"
)

func TestWrapUnsigned(t *testing.T) {
	m := FromInt64(256, 8, Unsigned)
	if !m.Equals(FromInt64(0, 8, Unsigned)) {
		t.Errorf("256 wrapped to u8 = %s, want 0", m)
	}
}

func TestWrapSigned(t *testing.T) {
	m := FromInt64(128, 8, Signed)
	if !m.Equals(FromInt64(-128, 8, Signed)) {
		t.Errorf("128 wrapped to i8 = %s, want -128", m)
	}
	m2 := FromInt64(-129, 8, Signed)
	if !m2.Equals(FromInt64(127, 8, Signed)) {
		t.Errorf("-129 wrapped to i8 = %s, want 127", m2)
	}
}

func TestMinMax(t *testing.T) {
	if Min(8, Unsigned).ToZ().Sign() != 0 {
		t.Errorf("u8 min should be 0")
	}
	if !Max(8, Unsigned).ToZ().Equals(number.ZFromInt64(255)) {
		t.Errorf("u8 max should be 255, got %s", Max(8, Unsigned))
	}
	if !Min(8, Signed).ToZ().Equals(number.ZFromInt64(-128)) {
		t.Errorf("i8 min should be -128, got %s", Min(8, Signed))
	}
	if !Max(8, Signed).ToZ().Equals(number.ZFromInt64(127)) {
		t.Errorf("i8 max should be 127, got %s", Max(8, Signed))
	}
}

func TestIntervalAddWrapsAcrossBoundary(t *testing.T) {
	// [100,200] + 100 spans the 256 boundary (200..300), so the wrapped
	// bounds (200, 44) are no longer ordered and the result must widen to Top.
	v := NewInterval(FromInt64(100, 8, Unsigned), FromInt64(200, 8, Unsigned))
	got := v.Add(Singleton(FromInt64(100, 8, Unsigned)))
	if !got.IsTop() {
		t.Errorf("[100,200]+100 over u8 should wrap past the boundary into Top, got %s", got)
	}
}

func TestIntervalAddWrapsContiguously(t *testing.T) {
	// [250,255] + 10 = [260,265], which wraps to [4,9] without crossing the
	// boundary discontinuity (the whole span shifts down by one modulus).
	v := NewInterval(FromInt64(250, 8, Unsigned), FromInt64(255, 8, Unsigned))
	got := v.Add(Singleton(FromInt64(10, 8, Unsigned)))
	want := NewInterval(FromInt64(4, 8, Unsigned), FromInt64(9, 8, Unsigned))
	if !got.Equals(want) {
		t.Errorf("[250,255]+10 over u8 = %s, want %s", got, want)
	}
}

func TestIntervalAddNoWrapWeakensToTop(t *testing.T) {
	v := NewInterval(FromInt64(250, 8, Unsigned), FromInt64(255, 8, Unsigned))
	got := v.AddNoWrap(Singleton(FromInt64(10, 8, Unsigned)))
	if !got.IsTop() {
		t.Errorf("no-wrap add that would overflow should weaken to Top, got %s", got)
	}
}

func TestIntervalAddNoWrapExact(t *testing.T) {
	v := NewInterval(FromInt64(1, 8, Unsigned), FromInt64(2, 8, Unsigned))
	got := v.AddNoWrap(Singleton(FromInt64(10, 8, Unsigned)))
	want := NewInterval(FromInt64(11, 8, Unsigned), FromInt64(12, 8, Unsigned))
	if !got.Equals(want) {
		t.Errorf("[1,2]+10 (no-wrap, no overflow) = %s, want %s", got, want)
	}
}

func TestTruncKeepsWhenHighBitsAgree(t *testing.T) {
	v := NewInterval(FromInt64(0x100, 16, Unsigned), FromInt64(0x105, 16, Unsigned))
	got := v.Trunc(8)
	want := NewInterval(FromInt64(0, 8, Unsigned), FromInt64(5, 8, Unsigned))
	if !got.Equals(want) {
		t.Errorf("trunc([0x100,0x105], 8) = %s, want %s", got, want)
	}
}

func TestTruncTopWhenHighBitsDisagree(t *testing.T) {
	v := NewInterval(FromInt64(0x0FF, 16, Unsigned), FromInt64(0x105, 16, Unsigned))
	got := v.Trunc(8)
	if !got.IsTop() {
		t.Errorf("trunc([0xFF,0x105], 8) should be Top, got %s", got)
	}
}

func TestSignCastKeepsWhenHighBitAgrees(t *testing.T) {
	v := NewInterval(FromInt64(1, 8, Unsigned), FromInt64(5, 8, Unsigned))
	got := v.SignCast(Signed)
	want := NewInterval(FromInt64(1, 8, Signed), FromInt64(5, 8, Signed))
	if !got.Equals(want) {
		t.Errorf("sign_cast([1,5]) = %s, want %s", got, want)
	}
}

func TestFromZIntervalWrapTop(t *testing.T) {
	zi := interval.ZRange(255, 256)
	got := FromZInterval(zi, 8, Unsigned, Wrap)
	if !got.IsTop() {
		t.Errorf("from_z_interval([255,256], 8, unsigned, Wrap) should be Top, got %s", got)
	}
}

func TestFromZIntervalTruncClamps(t *testing.T) {
	zi := interval.ZRange(255, 256)
	got := FromZInterval(zi, 8, Unsigned, Trunc)
	want := NewInterval(FromInt64(255, 8, Unsigned), FromInt64(255, 8, Unsigned))
	if !got.Equals(want) {
		t.Errorf("from_z_interval([255,256], 8, unsigned, Trunc) = %s, want %s", got, want)
	}
}

func TestDivWeakensToTopOnOverflow(t *testing.T) {
	// MIN / -1 overflows a signed i8 (128 isn't representable); must weaken
	// to Top rather than produce an impossible point.
	v := Singleton(Min(8, Signed))
	got := v.Div(Singleton(FromInt64(-1, 8, Signed)))
	if !got.IsTop() {
		t.Errorf("MIN/-1 over i8 should weaken to Top, got %s", got)
	}
}
