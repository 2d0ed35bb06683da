// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"math/rand"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Dataset is a source of labeled binary samples.  Acquiring and binarizing
// the raw data (e.g., images) happens before, outside of this package.
type Dataset interface {
	// Len returns the number of samples.
	Len() int

	// Sample returns the binary features and class label of sample i.
	Sample(i int) ([]bool, int)
}

// Sample is one labeled binary feature vector.
type Sample struct {
	Input []bool
	Label int
}

// Samples is an in-memory Dataset.
type Samples []Sample

func (ss Samples) Len() int                   { return len(ss) }
func (ss Samples) Sample(i int) ([]bool, int) { return ss[i].Input, ss[i].Label }

// Collect returns all the samples of a dataset, in given order (all rows in
// order if nil).
func Collect(ds Dataset, order []int) Samples {
	if order == nil {
		order = make([]int, ds.Len())
		for i := range order {
			order[i] = i
		}
	}
	ss := make(Samples, len(order))
	for i, si := range order {
		ss[i].Input, ss[i].Label = ds.Sample(si)
	}
	return ss
}

// TableData is a Dataset on rows of an etable.Table, with a tensor column of
// feature values and a scalar column of class labels.
type TableData struct {
	Table    *etable.Table `desc:"the table of samples"`
	InputCol string        `desc:"name of the feature tensor column"`
	LabelCol string        `desc:"name of the class label column"`
	Thr      float64       `desc:"features greater than this are on"`
}

// NewTableData returns a TableData on dt with the standard "Input" and
// "Label" columns and a 0.5 threshold.
func NewTableData(dt *etable.Table) *TableData {
	return &TableData{Table: dt, InputCol: "Input", LabelCol: "Label", Thr: 0.5}
}

func (td *TableData) Len() int { return td.Table.Rows }

func (td *TableData) Sample(i int) ([]bool, int) {
	in := Binarize(td.Table.CellTensor(td.InputCol, i), td.Thr)
	return in, int(td.Table.CellFloat(td.LabelCol, i))
}

// Binarize returns the flat values of tsr as bools: true where > thr.
func Binarize(tsr etensor.Tensor, thr float64) []bool {
	n := tsr.Len()
	bs := make([]bool, n)
	for i := 0; i < n; i++ {
		bs[i] = tsr.FloatVal1D(i) > thr
	}
	return bs
}

// SchemaClassPats returns the schema of tables made by ConfigClassPats.
func SchemaClassPats(size int) etable.Schema {
	return etable.Schema{
		{"Input", etensor.FLOAT32, []int{size}, []string{"Input"}},
		{"Label", etensor.INT64, nil, nil},
	}
}

// SchemaClassProtos returns the schema of prototype tables.
func SchemaClassProtos(size int) etable.Schema {
	return etable.Schema{
		{"Input", etensor.FLOAT32, []int{size}, []string{"Input"}},
	}
}

// ConfigClassProtos fills proto with nClass random binary prototypes of
// size features, each with exactly nOn features on, drawn from rnd.
func ConfigClassProtos(proto *etable.Table, nClass, size, nOn int, rnd *rand.Rand) {
	proto.SetFromSchema(SchemaClassProtos(size), nClass)
	for ci := 0; ci < nClass; ci++ {
		pt := proto.CellTensor("Input", ci)
		for _, i := range rnd.Perm(size)[:nOn] {
			pt.SetFloat1D(i, 1)
		}
	}
}

// ConfigNoisyPats fills dt with nPer copies of each prototype row of proto,
// labeled with the prototype row, each with nFlip random features flipped
// (a feature can be flipped back, so up to nFlip differ).
func ConfigNoisyPats(dt, proto *etable.Table, nPer, nFlip int, rnd *rand.Rand) {
	nClass := proto.Rows
	size := proto.CellTensor("Input", 0).Len()
	dt.SetFromSchema(SchemaClassPats(size), nClass*nPer)
	for ci := 0; ci < nClass; ci++ {
		pt := proto.CellTensor("Input", ci)
		for pi := 0; pi < nPer; pi++ {
			row := ci*nPer + pi
			ct := dt.CellTensor("Input", row)
			for i := 0; i < size; i++ {
				ct.SetFloat1D(i, pt.FloatVal1D(i))
			}
			for f := 0; f < nFlip; f++ {
				i := rnd.Intn(size)
				ct.SetFloat1D(i, 1-ct.FloatVal1D(i))
			}
			dt.SetCellFloat("Label", row, float64(ci))
		}
	}
}

// ConfigClassPats fills dt with a synthetic classification task: one random
// prototype per class with nOn active features out of size, and nPer noisy
// copies of each prototype.  The same rnd state gives the same table.
func ConfigClassPats(dt *etable.Table, nClass, nPer, size, nOn, nFlip int, rnd *rand.Rand) {
	proto := &etable.Table{}
	ConfigClassProtos(proto, nClass, size, nOn, rnd)
	ConfigNoisyPats(dt, proto, nPer, nFlip, rnd)
}
