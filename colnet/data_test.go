// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"math/rand"
	"testing"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

func TestBinarize(t *testing.T) {
	tsr := etensor.NewFloat32([]int{5}, nil, nil)
	for i, v := range []float32{0, 0.2, 0.5, 0.7, 1} {
		tsr.Values[i] = v
	}
	CmprBools(Binarize(tsr, 0.5), bools(0, 0, 0, 1, 1), "Binarize", t)
}

func TestConfigClassPats(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	dt := &etable.Table{}
	nClass, nPer, size, nOn := 3, 4, 50, 10
	ConfigClassPats(dt, nClass, nPer, size, nOn, 0, rnd)
	if dt.Rows != nClass*nPer {
		t.Fatalf("rows = %d", dt.Rows)
	}
	td := NewTableData(dt)
	if td.Len() != nClass*nPer {
		t.Errorf("Len = %d", td.Len())
	}
	for i := 0; i < td.Len(); i++ {
		in, lbl := td.Sample(i)
		if lbl != i/nPer {
			t.Errorf("row %d label %d want %d", i, lbl, i/nPer)
		}
		non := 0
		for _, v := range in {
			if v {
				non++
			}
		}
		if non != nOn {
			t.Errorf("row %d has %d on, want %d", i, non, nOn)
		}
		proto, _ := td.Sample(lbl * nPer)
		CmprBools(in, proto, "copy of prototype", t)
	}

	ss := Collect(td, []int{5, 0})
	if len(ss) != 2 || ss[0].Label != 1 || ss[1].Label != 0 {
		t.Errorf("Collect gave labels %d, %d", ss[0].Label, ss[1].Label)
	}
	if all := Collect(td, nil); all.Len() != td.Len() {
		t.Errorf("Collect(nil) gave %d samples", all.Len())
	}
}

func TestConfigClassPatsSeeded(t *testing.T) {
	mk := func(seed int64) *etable.Table {
		dt := &etable.Table{}
		ConfigClassPats(dt, 3, 2, 40, 8, 3, rand.New(rand.NewSource(seed)))
		return dt
	}
	a, b, c := mk(5), mk(5), mk(6)
	ta, tb, tc := NewTableData(a), NewTableData(b), NewTableData(c)
	ndiff := 0
	for i := 0; i < ta.Len(); i++ {
		ia, _ := ta.Sample(i)
		ib, _ := tb.Sample(i)
		ic, _ := tc.Sample(i)
		CmprBools(ia, ib, "same seed", t)
		for j := range ia {
			if ia[j] != ic[j] {
				ndiff++
			}
		}
	}
	if ndiff == 0 {
		t.Errorf("different seeds gave identical patterns")
	}
}

func TestConfigClassProtos(t *testing.T) {
	proto := &etable.Table{}
	ConfigClassProtos(proto, 4, 30, 7, rand.New(rand.NewSource(1)))
	if proto.Rows != 4 {
		t.Fatalf("rows = %d", proto.Rows)
	}
	for ci := 0; ci < proto.Rows; ci++ {
		non := 0
		for _, v := range Binarize(proto.CellTensor("Input", ci), 0.5) {
			if v {
				non++
			}
		}
		if non != 7 {
			t.Errorf("prototype %d has %d on, want 7", ci, non)
		}
	}
}
