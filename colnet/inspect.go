// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"fmt"
	"io"

	"github.com/goki/ki/indent"
)

// Snapshot is a read-only view of a network together with one trace of
// its activity, for rendering by external tools.  Segment activations are not
// kept in the trace -- they are recomputed here from the connectivity and the
// previous layer of the trace.  The trace must come from the same
// connectivity state for the views to be consistent.
type Snapshot struct {
	net   *Network
	trace *Trace
}

// NewSnapshot returns a snapshot of network activity in given trace.
func NewSnapshot(nt *Network, tr *Trace) *Snapshot {
	return &Snapshot{net: nt, trace: tr}
}

// SynView is one synapse of a segment: its source unit and whether that unit is active.
type SynView struct {
	Src    int
	Active bool
}

// SegView is one segment: its activation, number of active synapses and synapses.
type SegView struct {
	Seg    int
	Active bool
	NAct   int
	Syns   []SynView
}

// BranchView is one branch and its segments.
type BranchView struct {
	Branch int
	Active bool
	Segs   []SegView
}

// NeuronView is one neuron and its branches.
type NeuronView struct {
	Layer    int
	Column   int
	Type     NeuronTypes
	Active   bool
	Branches []BranchView
}

// NeuronActive returns whether neuron (column, type) of layer is active.
func (sn *Snapshot) NeuronActive(layer, ci, ti int) bool {
	return sn.trace.Acts[layer].Value1D(ci*sn.net.cfg.NTypes + ti)
}

// BranchActive returns whether branch of neuron (column, type) of layer is active.
func (sn *Snapshot) BranchActive(layer, ci, ti, bi int) bool {
	cf := &sn.net.cfg
	return sn.trace.Branches[layer].Value1D((ci*cf.NTypes+ti)*cf.NBranches + bi)
}

// SegActive returns whether given segment is active.
func (sn *Snapshot) SegActive(layer, ci, ti, bi, si int) bool {
	seg := sn.net.Layers[layer-1].AsBase().SegIndex(ci, ti, bi, si)
	return sn.net.SegOn(layer, seg, sn.trace.Acts[layer-1])
}

// SegSources returns the previous-layer units wired onto given segment.
func (sn *Snapshot) SegSources(layer, ci, ti, bi, si int) []int {
	cn := sn.net.Layers[layer-1]
	return cn.Sources(cn.AsBase().SegIndex(ci, ti, bi, si))
}

// IsSource returns whether previous-layer unit pi is wired onto given segment.
func (sn *Snapshot) IsSource(layer, ci, ti, bi, si, pi int) bool {
	cn := sn.net.Layers[layer-1]
	return cn.IsSource(cn.AsBase().SegIndex(ci, ti, bi, si), pi)
}

// SourceActive returns whether unit pi of the layer below given layer is active.
func (sn *Snapshot) SourceActive(layer, pi int) bool {
	return sn.trace.Acts[layer-1].Value1D(pi)
}

// Neuron returns the full view of neuron (column, type) of layer.
func (sn *Snapshot) Neuron(layer, ci, ti int) NeuronView {
	cf := &sn.net.cfg
	cn := sn.net.Layers[layer-1]
	prev := sn.trace.Acts[layer-1]
	nv := NeuronView{Layer: layer, Column: ci, Type: NeuronTypes(ti), Active: sn.NeuronActive(layer, ci, ti)}
	nv.Branches = make([]BranchView, cf.NBranches)
	for bi := range nv.Branches {
		bv := &nv.Branches[bi]
		bv.Branch = bi
		bv.Active = sn.BranchActive(layer, ci, ti, bi)
		bv.Segs = make([]SegView, cf.NSegments)
		for si := range bv.Segs {
			sv := &bv.Segs[si]
			sv.Seg = si
			seg := cn.AsBase().SegIndex(ci, ti, bi, si)
			sv.NAct = cn.SegCount(seg, prev)
			sv.Active = sv.NAct >= cf.SegThr
			for _, pi := range cn.Sources(seg) {
				sv.Syns = append(sv.Syns, SynView{Src: pi, Active: prev.Value1D(pi)})
			}
		}
	}
	return nv
}

func onStr(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// WriteNeuron writes a text rendering of neuron (column, type) of layer,
// down to its segments, and to the synapses if syns is true.
func (sn *Snapshot) WriteNeuron(w io.Writer, layer, ci, ti, depth int, syns bool) {
	nv := sn.Neuron(layer, ci, ti)
	w.Write(indent.TabBytes(depth))
	fmt.Fprintf(w, "L%dC%dT%d %v: %s\n", layer, ci, ti, nv.Type, onStr(nv.Active))
	depth++
	for _, bv := range nv.Branches {
		w.Write(indent.TabBytes(depth))
		fmt.Fprintf(w, "B%d: %s\n", bv.Branch, onStr(bv.Active))
		depth++
		for _, sv := range bv.Segs {
			w.Write(indent.TabBytes(depth))
			fmt.Fprintf(w, "B%dS%d: %s (%d/%d)\n", bv.Branch, sv.Seg, onStr(sv.Active), sv.NAct, len(sv.Syns))
			if !syns {
				continue
			}
			depth++
			for _, sy := range sv.Syns {
				w.Write(indent.TabBytes(depth))
				fmt.Fprintf(w, "in%d: %s\n", sy.Src, onStr(sy.Active))
			}
			depth--
		}
		depth--
	}
}

// WriteNetwork writes a text rendering of all neurons in all layers with
// their branches, and down to segments and synapses if synLevel is true.
func (sn *Snapshot) WriteNetwork(w io.Writer, synLevel bool) {
	cf := &sn.net.cfg
	depth := 0
	w.Write(indent.TabBytes(depth))
	fmt.Fprintf(w, "%s:\n", sn.net.Nm)
	depth++
	for l := 1; l < cf.NLayers; l++ {
		for ci := 0; ci < cf.NColumns; ci++ {
			for ti := 0; ti < cf.NTypes; ti++ {
				if synLevel {
					sn.WriteNeuron(w, l, ci, ti, depth, true)
					continue
				}
				w.Write(indent.TabBytes(depth))
				fmt.Fprintf(w, "L%dC%dT%d: %s\t", l, ci, ti, onStr(sn.NeuronActive(l, ci, ti)))
				for bi := 0; bi < cf.NBranches; bi++ {
					fmt.Fprintf(w, " B%d: %s", bi, onStr(sn.BranchActive(l, ci, ti, bi)))
				}
				w.Write([]byte("\n"))
			}
		}
	}
}
