// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import "github.com/goki/ki/kit"

// NeuronTypes are the roles of the neurons within a column.
// Excitatory neurons wire onto active previous-layer units,
// inhibitory neurons onto inactive ones.
type NeuronTypes int32

//go:generate stringer -type=NeuronTypes

var KiT_NeuronTypes = kit.Enums.AddEnum(NeuronTypesN, kit.NotBitFlag, nil)

func (ev NeuronTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron types
const (
	// Excitatory neurons detect the presence of their inputs, and drive
	// classification in the final layer.
	Excitatory NeuronTypes = iota

	// Inhibitory neurons detect the absence of their inputs.
	Inhibitory

	NeuronTypesN
)

// StorageForms are the two equivalent representations of segment connectivity.
type StorageForms int32

//go:generate stringer -type=StorageForms

var KiT_StorageForms = kit.Enums.AddEnum(StorageFormsN, kit.NotBitFlag, nil)

func (ev StorageForms) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *StorageForms) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The storage forms
const (
	// SparseForm stores a fixed-length list of previous-layer unit indexes per
	// segment, with Unwired marking empty slots.
	SparseForm StorageForms = iota

	// DenseForm stores a bit mask over the whole previous layer per segment.
	DenseForm

	StorageFormsN
)

// WireOutcomes are the results of one segment wiring step.
// Only Wired adds capacity: the others are expected once a column saturates,
// and are counted, not reported as errors.
type WireOutcomes int32

//go:generate stringer -type=WireOutcomes

var KiT_WireOutcomes = kit.Enums.AddEnum(WireOutcomesN, kit.NotBitFlag, nil)

func (ev WireOutcomes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *WireOutcomes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The wiring outcomes
const (
	// Wired means an untrained segment was found and wired to the pool.
	Wired WireOutcomes = iota

	// Exhausted means no untrained segment was found within SegAttempts draws.
	Exhausted

	// EmptyPool means a segment was claimed (and marked trained) but there
	// were no candidate units to wire it to, so it stays unwired.
	EmptyPool

	WireOutcomesN
)

// WireCounts counts wiring steps by outcome.
type WireCounts [WireOutcomesN]int

// Add accumulates the other counts into these.
func (wc *WireCounts) Add(oc WireCounts) {
	for i := range wc {
		wc[i] += oc[i]
	}
}

// Total returns the total number of wiring steps attempted.
func (wc *WireCounts) Total() int {
	n := 0
	for _, v := range wc {
		n += v
	}
	return n
}
