// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// Unwired marks an empty synapse slot in SparseConns.
const Unwired = -1

// Conns is the connectivity across one layer boundary: for each
// (Column, Type, Branch, Segment) cell, the set of previous-layer units wired
// onto it, and a write-once trained flag.  Segments are addressed by the flat
// index returned by ConnsBase.SegIndex.  The Forward pass and the Trainer
// only go through this interface, so they never depend on the storage form.
type Conns interface {
	// Form returns the storage form of this connectivity.
	Form() StorageForms

	// AsBase returns the structural info and trained flags common to both forms.
	AsBase() *ConnsBase

	// SegCount returns the number of wired synapses on segment whose source
	// unit is active in prev.
	SegCount(seg int, prev *etensor.Bits) int

	// Wire replaces the synapses of segment with given source units.
	// Duplicate sources collapse to one synapse in both forms.
	// More than NSyns sources, or a source outside the previous layer,
	// is a programmer error and panics.
	Wire(seg int, srcs []int)

	// Sources returns the distinct source units wired onto segment.
	Sources(seg int) []int

	// IsSource returns whether previous-layer unit pi is wired onto segment.
	IsSource(seg, pi int) bool

	// MemBytes returns the memory used by the connectivity tables.
	MemBytes() int
}

// ConnsBase holds the geometry of a layer boundary and the trained flags.
// Flags (and dense masks) are kept in one tensor per column, so that wiring
// different columns from different goroutines never writes the same word.
type ConnsBase struct {
	Layer   int             `desc:"index of the receiving layer (1..NLayers-1)"`
	NCols   int             `desc:"number of columns"`
	NTypes  int             `desc:"number of neuron types per column"`
	NBrs    int             `desc:"number of branches per neuron"`
	NSegs   int             `desc:"number of segments per branch"`
	NSyns   int             `desc:"number of synapse slots per segment"`
	NPrev   int             `desc:"number of units in the previous layer"`
	ColSegs int             `desc:"number of segments per column = NTypes * NBrs * NSegs"`
	Trained []*etensor.Bits `desc:"per column trained flags, shape [Type, Branch, Segment] -- set once when a segment is claimed, never reset"`
}

// InitBase sets the geometry from config and allocates all-false trained flags.
func (cb *ConnsBase) InitBase(cf *Config, layer int) {
	cb.Layer = layer
	cb.NCols = cf.NColumns
	cb.NTypes = cf.NTypes
	cb.NBrs = cf.NBranches
	cb.NSegs = cf.NSegments
	cb.NSyns = cf.NSynapses
	cb.NPrev = cf.PrevSize(layer)
	cb.ColSegs = cb.NTypes * cb.NBrs * cb.NSegs
	cb.Trained = make([]*etensor.Bits, cb.NCols)
	for ci := range cb.Trained {
		cb.Trained[ci] = etensor.NewBits([]int{cb.NTypes, cb.NBrs, cb.NSegs}, nil, []string{"Type", "Branch", "Segment"})
	}
}

func (cb *ConnsBase) AsBase() *ConnsBase { return cb }

// NSegsTot returns the total number of segments across all columns.
func (cb *ConnsBase) NSegsTot() int { return cb.NCols * cb.ColSegs }

// SegIndex returns the flat segment index for given cell coordinates.
// Out of range coordinates are a programmer error and panic.
func (cb *ConnsBase) SegIndex(ci, ti, bi, si int) int {
	if ci < 0 || ci >= cb.NCols || ti < 0 || ti >= cb.NTypes || bi < 0 || bi >= cb.NBrs || si < 0 || si >= cb.NSegs {
		panic(fmt.Sprintf("colnet: layer %d segment [%d %d %d %d] out of range [%d %d %d %d]", cb.Layer, ci, ti, bi, si, cb.NCols, cb.NTypes, cb.NBrs, cb.NSegs))
	}
	return ((ci*cb.NTypes+ti)*cb.NBrs+bi)*cb.NSegs + si
}

// SegCoords returns the cell coordinates of flat segment index.
func (cb *ConnsBase) SegCoords(seg int) (ci, ti, bi, si int) {
	ci, off := cb.colOff(seg)
	si = off % cb.NSegs
	off /= cb.NSegs
	bi = off % cb.NBrs
	ti = off / cb.NBrs
	return
}

// colOff returns the column and within-column offset of flat segment index.
func (cb *ConnsBase) colOff(seg int) (ci, off int) {
	if seg < 0 || seg >= cb.NSegsTot() {
		panic(fmt.Sprintf("colnet: layer %d segment index %d out of range %d", cb.Layer, seg, cb.NSegsTot()))
	}
	return seg / cb.ColSegs, seg % cb.ColSegs
}

// checkSrc panics if pi is not a valid previous-layer unit.
func (cb *ConnsBase) checkSrc(pi int) {
	if pi < 0 || pi >= cb.NPrev {
		panic(fmt.Sprintf("colnet: layer %d source unit %d out of range %d", cb.Layer, pi, cb.NPrev))
	}
}

// IsTrained returns whether segment has been claimed for wiring.
func (cb *ConnsBase) IsTrained(seg int) bool {
	ci, off := cb.colOff(seg)
	return cb.Trained[ci].Value1D(off)
}

// MarkTrained sets the trained flag on segment, returning false (and changing
// nothing) if it was already set.  Callers enforce the write-once discipline
// by only wiring segments for which this returns true.
func (cb *ConnsBase) MarkTrained(seg int) bool {
	ci, off := cb.colOff(seg)
	tr := cb.Trained[ci]
	if tr.Value1D(off) {
		return false
	}
	tr.Set1D(off, true)
	return true
}

// TrainedCount returns the number of trained segments for given column and type.
func (cb *ConnsBase) TrainedCount(ci, ti int) int {
	st := cb.SegIndex(ci, ti, 0, 0) - ci*cb.ColSegs
	tr := cb.Trained[ci]
	n := 0
	for off := st; off < st+cb.NBrs*cb.NSegs; off++ {
		if tr.Value1D(off) {
			n++
		}
	}
	return n
}

func (cb *ConnsBase) trainedBytes() int {
	n := 0
	for _, tr := range cb.Trained {
		n += len(tr.Values)
	}
	return n
}

// NewConns allocates unwired, untrained connectivity for given layer
// (1..NLayers-1) in the storage form set in config.
func NewConns(cf *Config, layer int) Conns {
	if cf.Form == DenseForm {
		return NewDenseConns(cf, layer)
	}
	return NewSparseConns(cf, layer)
}

///////////////////////////////////////////////////////////////////////
//  SparseConns

// SparseConns stores, per segment, NSyns previous-layer unit indexes,
// with Unwired in the slots that are not connected.
type SparseConns struct {
	ConnsBase
	Idx *etensor.Int32 `desc:"source unit per synapse slot, Unwired if empty, shape [Column, Type, Branch, Segment, Synapse]"`
}

// NewSparseConns returns all-Unwired sparse connectivity for given layer.
func NewSparseConns(cf *Config, layer int) *SparseConns {
	sc := &SparseConns{}
	sc.InitBase(cf, layer)
	sc.Idx = etensor.NewInt32([]int{sc.NCols, sc.NTypes, sc.NBrs, sc.NSegs, sc.NSyns}, nil, []string{"Column", "Type", "Branch", "Segment", "Synapse"})
	for i := range sc.Idx.Values {
		sc.Idx.Values[i] = Unwired
	}
	return sc
}

func (sc *SparseConns) Form() StorageForms { return SparseForm }

// Slots returns the synapse slots of segment, as a view into Idx.
func (sc *SparseConns) Slots(seg int) []int32 {
	sc.colOff(seg)
	st := seg * sc.NSyns
	return sc.Idx.Values[st : st+sc.NSyns]
}

func (sc *SparseConns) SegCount(seg int, prev *etensor.Bits) int {
	n := 0
	for _, pi := range sc.Slots(seg) {
		if pi != Unwired && prev.Value1D(int(pi)) {
			n++
		}
	}
	return n
}

func (sc *SparseConns) Wire(seg int, srcs []int) {
	if len(srcs) > sc.NSyns {
		panic(fmt.Sprintf("colnet: layer %d: %d sources for %d synapse slots", sc.Layer, len(srcs), sc.NSyns))
	}
	slots := sc.Slots(seg)
	n := 0
	for _, pi := range srcs {
		sc.checkSrc(pi)
		dup := false
		for _, ex := range slots[:n] {
			if int(ex) == pi {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		slots[n] = int32(pi)
		n++
	}
	for i := n; i < len(slots); i++ {
		slots[i] = Unwired
	}
}

func (sc *SparseConns) Sources(seg int) []int {
	var srcs []int
	for _, pi := range sc.Slots(seg) {
		if pi != Unwired {
			srcs = append(srcs, int(pi))
		}
	}
	return srcs
}

func (sc *SparseConns) IsSource(seg, pi int) bool {
	for _, ex := range sc.Slots(seg) {
		if ex != Unwired && int(ex) == pi {
			return true
		}
	}
	return false
}

func (sc *SparseConns) MemBytes() int {
	return 4*len(sc.Idx.Values) + sc.trainedBytes()
}

///////////////////////////////////////////////////////////////////////
//  DenseConns

// DenseConns stores, per segment, one bit for each previous-layer unit,
// set if that unit is wired onto the segment.
type DenseConns struct {
	ConnsBase
	Mask []*etensor.Bits `desc:"per column connection masks, shape [Type, Branch, Segment, Prev]"`
}

// NewDenseConns returns all-false dense connectivity for given layer.
func NewDenseConns(cf *Config, layer int) *DenseConns {
	dc := &DenseConns{}
	dc.InitBase(cf, layer)
	dc.Mask = make([]*etensor.Bits, dc.NCols)
	for ci := range dc.Mask {
		dc.Mask[ci] = etensor.NewBits([]int{dc.NTypes, dc.NBrs, dc.NSegs, dc.NPrev}, nil, []string{"Type", "Branch", "Segment", "Prev"})
	}
	return dc
}

func (dc *DenseConns) Form() StorageForms { return DenseForm }

// segMask returns the mask tensor holding segment and the offset of its first bit.
func (dc *DenseConns) segMask(seg int) (*etensor.Bits, int) {
	ci, off := dc.colOff(seg)
	return dc.Mask[ci], off * dc.NPrev
}

func (dc *DenseConns) SegCount(seg int, prev *etensor.Bits) int {
	mk, st := dc.segMask(seg)
	n := 0
	for pi := 0; pi < dc.NPrev; pi++ {
		if mk.Value1D(st+pi) && prev.Value1D(pi) {
			n++
		}
	}
	return n
}

func (dc *DenseConns) Wire(seg int, srcs []int) {
	if len(srcs) > dc.NSyns {
		panic(fmt.Sprintf("colnet: layer %d: %d sources for %d synapse slots", dc.Layer, len(srcs), dc.NSyns))
	}
	mk, st := dc.segMask(seg)
	for pi := 0; pi < dc.NPrev; pi++ {
		mk.Set1D(st+pi, false)
	}
	for _, pi := range srcs {
		dc.checkSrc(pi)
		mk.Set1D(st+pi, true)
	}
}

func (dc *DenseConns) Sources(seg int) []int {
	mk, st := dc.segMask(seg)
	var srcs []int
	for pi := 0; pi < dc.NPrev; pi++ {
		if mk.Value1D(st + pi) {
			srcs = append(srcs, pi)
		}
	}
	return srcs
}

func (dc *DenseConns) IsSource(seg, pi int) bool {
	if pi < 0 || pi >= dc.NPrev {
		return false
	}
	mk, st := dc.segMask(seg)
	return mk.Value1D(st + pi)
}

func (dc *DenseConns) MemBytes() int {
	n := dc.trainedBytes()
	for _, mk := range dc.Mask {
		n += len(mk.Values)
	}
	return n
}
