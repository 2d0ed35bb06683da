// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import "github.com/emer/etable/etensor"

// Trace is the activation state of every layer from one forward pass.
// It is owned by the caller that ran the pass and is only read afterwards,
// by the Trainer and by Snapshot.
type Trace struct {
	Acts     []*etensor.Bits `desc:"unit activations per layer: Acts[0] is the input, shape [InputSize], and Acts[l] the neurons of layer l, shape [Column, Type] -- a neuron is active if any of its branches is"`
	Branches []*etensor.Bits `desc:"branch activations per layer, shape [Column, Type, Branch] -- Branches[0] is nil"`
}

// NewTrace allocates an all-inactive trace for the given configuration.
func NewTrace(cf *Config) *Trace {
	tr := &Trace{}
	tr.Acts = make([]*etensor.Bits, cf.NLayers)
	tr.Branches = make([]*etensor.Bits, cf.NLayers)
	tr.Acts[0] = etensor.NewBits([]int{cf.InputSize}, nil, []string{"Input"})
	for l := 1; l < cf.NLayers; l++ {
		tr.Acts[l] = etensor.NewBits([]int{cf.NColumns, cf.NTypes}, nil, []string{"Column", "Type"})
		tr.Branches[l] = etensor.NewBits([]int{cf.NColumns, cf.NTypes, cf.NBranches}, nil, []string{"Column", "Type", "Branch"})
	}
	return tr
}

// NLayers returns the number of layers in the trace, including the input.
func (tr *Trace) NLayers() int { return len(tr.Acts) }

// Output returns the branch activations of the final layer.
func (tr *Trace) Output() *etensor.Bits { return tr.Branches[len(tr.Branches)-1] }

// BitsToBools returns the flat values of a bits tensor as a bool slice.
func BitsToBools(bt *etensor.Bits) []bool {
	n := bt.Len()
	bs := make([]bool, n)
	for i := 0; i < n; i++ {
		bs[i] = bt.Value1D(i)
	}
	return bs
}

// ActiveIndexes returns the flat indexes of the set bits of bt, and those of
// the unset bits.
func ActiveIndexes(bt *etensor.Bits) (active, inactive []int) {
	n := bt.Len()
	for i := 0; i < n; i++ {
		if bt.Value1D(i) {
			active = append(active, i)
		} else {
			inactive = append(inactive, i)
		}
	}
	return
}
