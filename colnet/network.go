// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"fmt"
	"log"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// colnet.Network is a columnar E/I network: NLayers layers (the first being
// the input), with one Conns table per layer boundary.  The Network itself only
// reads its connectivity -- the Trainer is the only thing that changes it.
type Network struct {
	Nm     string  `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers []Conns `desc:"connectivity per layer boundary: Layers[l-1] feeds layer l from layer l-1"`
	cfg    Config
}

// NewNetwork validates the config and returns a network with all tables
// allocated, unwired and untrained.
func NewNetwork(name string, cf Config) (*Network, error) {
	cf.Update()
	if err := cf.Validate(); err != nil {
		log.Println(err)
		return nil, err
	}
	nt := &Network{Nm: name, cfg: cf}
	nt.Layers = make([]Conns, cf.NLayers-1)
	for l := 1; l < cf.NLayers; l++ {
		nt.Layers[l-1] = NewConns(&nt.cfg, l)
	}
	return nt, nil
}

// Name returns the network name
func (nt *Network) Name() string { return nt.Nm }

// Config returns a copy of the network configuration.
func (nt *Network) Config() Config { return nt.cfg }

// Conns returns the connectivity feeding given layer (1..NLayers-1).
func (nt *Network) Conns(layer int) Conns { return nt.Layers[layer-1] }

//////////////////////////////////////////////////////////////////////////////////////
//  Forward

// InputBits checks the input size and returns it as an input tensor.
func (nt *Network) InputBits(in []bool) (*etensor.Bits, error) {
	if len(in) != nt.cfg.InputSize {
		return nil, fmt.Errorf("%w: got %d values, network %v has InputSize %d", ErrInputSize, len(in), nt.Nm, nt.cfg.InputSize)
	}
	bt := etensor.NewBits([]int{len(in)}, nil, []string{"Input"})
	for i, v := range in {
		if v {
			bt.Set1D(i, true)
		}
	}
	return bt, nil
}

// Forward computes the activations of all layers bottom-up for given binary input.
// It has no side effects, so it can be called from multiple goroutines as long
// as nothing is wiring the network at the same time.
func (nt *Network) Forward(in []bool) (*Trace, error) {
	inb, err := nt.InputBits(in)
	if err != nil {
		return nil, err
	}
	tr := NewTrace(&nt.cfg)
	tr.Acts[0] = inb
	for l := 1; l < nt.cfg.NLayers; l++ {
		nt.LayerFwd(l, tr.Acts[l-1], tr.Branches[l], tr.Acts[l])
	}
	return tr, nil
}

// LayerFwd computes the branch and neuron activations of layer from the
// activations of the layer below (prev): a segment is active when at least
// SegThr of its synapses have an active source, and a branch when at least
// BranchThr of its segments are active.  brs and nrns must be all-false.
func (nt *Network) LayerFwd(layer int, prev, brs, nrns *etensor.Bits) {
	cf := &nt.cfg
	cn := nt.Layers[layer-1]
	nbr := cf.NColumns * cf.NTypes * cf.NBranches
	for bi := 0; bi < nbr; bi++ {
		nact := 0
		for si := 0; si < cf.NSegments; si++ {
			if cn.SegCount(bi*cf.NSegments+si, prev) >= cf.SegThr {
				nact++
			}
		}
		if nact >= cf.BranchThr {
			brs.Set1D(bi, true)
			nrns.Set1D(bi/cf.NBranches, true)
		}
	}
}

// SegOn returns whether flat segment seg of layer is active given the
// activations of the layer below.
func (nt *Network) SegOn(layer, seg int, prev *etensor.Bits) bool {
	return nt.Layers[layer-1].SegCount(seg, prev) >= nt.cfg.SegThr
}

// Scores returns the classification score of each column: the number of
// active Excitatory branches in the final layer.
func (nt *Network) Scores(tr *Trace) []int {
	cf := &nt.cfg
	out := tr.Output()
	scs := make([]int, cf.NColumns)
	for ci := range scs {
		st := (ci*cf.NTypes + int(Excitatory)) * cf.NBranches
		for bi := 0; bi < cf.NBranches; bi++ {
			if out.Value1D(st + bi) {
				scs[ci]++
			}
		}
	}
	return scs
}

// Classify runs the forward pass and returns the predicted class, which is
// the column with the highest score (lowest index on ties), with the trace.
func (nt *Network) Classify(in []bool) (int, *Trace, error) {
	tr, err := nt.Forward(in)
	if err != nil {
		return -1, nil, err
	}
	return Argmax(nt.Scores(tr)), tr, nil
}

// Argmax returns the index of the largest value, the lowest such index on ties,
// and -1 for an empty slice.
func Argmax(vals []int) int {
	mi := -1
	for i, v := range vals {
		if mi < 0 || v > vals[mi] {
			mi = i
		}
	}
	return mi
}

//////////////////////////////////////////////////////////////////////////////////////
//  Reports

// SizeReport returns a string reporting the size of each layer's connectivity
// and the total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	cf := &nt.cfg
	segs := 0
	mem := 0
	for _, cn := range nt.Layers {
		cb := cn.AsBase()
		ns := cb.NSegsTot()
		nm := cn.MemBytes()
		segs += ns
		mem += nm
		fmt.Fprintf(&b, "%14s:\t Form: %v\t Prev: %d\t Segs: %d\t Syns: %d\t ConnMem: %v\n", fmt.Sprintf("Layer%d", cb.Layer), cn.Form(), cb.NPrev, ns, ns*cb.NSyns, (datasize.ByteSize)(nm).HumanReadable())
	}
	fmt.Fprintf(&b, "\n%14s:\t Neurons: %d\t Segs: %d\t ConnMem: %v\n", nt.Nm, (cf.NLayers-1)*cf.NNeurons(), segs, (datasize.ByteSize)(mem).HumanReadable())
	return b.String()
}

// CapacityReport returns a string reporting, per layer and neuron type, the
// fraction of segments that have been trained: min, average and max over columns.
// Once a column reaches 1, further samples of that class only get Exhausted.
func (nt *Network) CapacityReport() string {
	var b strings.Builder
	cf := &nt.cfg
	nper := float32(cf.NBranches * cf.NSegments)
	for _, cn := range nt.Layers {
		cb := cn.AsBase()
		for ti := 0; ti < cf.NTypes; ti++ {
			mn := float32(1)
			mx := float32(0)
			avg := float32(0)
			for ci := 0; ci < cf.NColumns; ci++ {
				fr := float32(cb.TrainedCount(ci, ti)) / nper
				mn = mat32.Min(mn, fr)
				mx = mat32.Max(mx, fr)
				avg += fr
			}
			avg /= float32(cf.NColumns)
			fmt.Fprintf(&b, "%14s:\t %10v\t Trained Min: %6.4g\t Avg: %6.4g\t Max: %6.4g\n", fmt.Sprintf("Layer%d", cb.Layer), NeuronTypes(ti), mn, avg, mx)
		}
	}
	return b.String()
}
