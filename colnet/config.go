// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig is returned (wrapped) for any Config field out of its valid range.
	ErrConfig = errors.New("colnet: invalid configuration")

	// ErrInputSize is returned (wrapped) when an input vector does not match InputSize.
	ErrInputSize = errors.New("colnet: input size mismatch")

	// ErrLabel is returned (wrapped) when a class label is not a valid column.
	ErrLabel = errors.New("colnet: class label out of range")
)

// Config has the structural, threshold and training parameters of a columnar
// network.  It is copied into the Network at construction and never changed after.
type Config struct {
	NLayers   int `def:"3" min:"2" desc:"number of layers, including the input layer"`
	NColumns  int `def:"10" min:"1" desc:"number of columns -- one per class label"`
	NTypes    int `def:"2" min:"1" max:"2" desc:"number of neuron types per column: 1 = Excitatory only, 2 = Excitatory and Inhibitory"`
	NBranches int `def:"4" min:"1" desc:"number of dendritic branches per neuron -- segments within a branch are AND-combined through BranchThr"`
	NSegments int `def:"4" min:"1" desc:"number of segments per branch -- synapses within a segment are OR-combined through SegThr"`
	NSynapses int `def:"20" min:"1" desc:"number of synapse slots per segment"`
	InputSize int `def:"1024" min:"1" desc:"number of binary input features"`

	SegThr    int `def:"10" min:"1" desc:"number of active synapses needed to activate a segment, in 1..NSynapses"`
	BranchThr int `def:"2" min:"1" desc:"number of active segments needed to activate a branch, in 1..NSegments"`

	TrainN int `def:"1" min:"1" desc:"number of neurons trained per layer, type and sample"`
	TrainB int `def:"1" min:"1" desc:"number of branches trained per trained neuron"`
	TrainS int `def:"1" min:"1" desc:"number of segments trained per trained branch"`
	TrainI int `min:"0" desc:"number of synapses wired per trained segment, in 1..NSynapses -- 0 = NSynapses (set by Update)"`

	Form StorageForms `desc:"connectivity storage form -- both forms compute identical activations"`
	Seed int64        `desc:"random seed for structural learning -- each column draws from its own stream derived from this"`
}

// Defaults sets the parameters used by the reference demo: a 3 layer network
// over 32x32 binarized images with 10 classes.
func (cf *Config) Defaults() {
	cf.NLayers = 3
	cf.NColumns = 10
	cf.NTypes = 2
	cf.NBranches = 4
	cf.NSegments = 4
	cf.NSynapses = 20
	cf.InputSize = 1024
	cf.SegThr = 10
	cf.BranchThr = 2
	cf.TrainN = 1
	cf.TrainB = 1
	cf.TrainS = 1
	cf.TrainI = 0
	cf.Form = SparseForm
	cf.Seed = 0
	cf.Update()
}

// Update must be called after any changes to parameters
func (cf *Config) Update() {
	if cf.TrainI == 0 {
		cf.TrainI = cf.NSynapses
	}
}

// Validate checks that every parameter is within range, returning one
// error wrapping ErrConfig that lists all the problems found, or nil.
func (cf *Config) Validate() error {
	var emsg []string
	chk := func(ok bool, format string, args ...any) {
		if !ok {
			emsg = append(emsg, fmt.Sprintf(format, args...))
		}
	}
	chk(cf.NLayers >= 2, "NLayers: %d must be >= 2", cf.NLayers)
	chk(cf.NColumns >= 1, "NColumns: %d must be >= 1", cf.NColumns)
	chk(cf.NTypes >= 1 && cf.NTypes <= int(NeuronTypesN), "NTypes: %d must be 1 or 2", cf.NTypes)
	chk(cf.NBranches >= 1, "NBranches: %d must be >= 1", cf.NBranches)
	chk(cf.NSegments >= 1, "NSegments: %d must be >= 1", cf.NSegments)
	chk(cf.NSynapses >= 1, "NSynapses: %d must be >= 1", cf.NSynapses)
	chk(cf.InputSize >= 1, "InputSize: %d must be >= 1", cf.InputSize)
	chk(cf.SegThr >= 1 && cf.SegThr <= cf.NSynapses, "SegThr: %d must be in 1..NSynapses (%d)", cf.SegThr, cf.NSynapses)
	chk(cf.BranchThr >= 1 && cf.BranchThr <= cf.NSegments, "BranchThr: %d must be in 1..NSegments (%d)", cf.BranchThr, cf.NSegments)
	chk(cf.TrainN >= 1, "TrainN: %d must be >= 1", cf.TrainN)
	chk(cf.TrainB >= 1, "TrainB: %d must be >= 1", cf.TrainB)
	chk(cf.TrainS >= 1, "TrainS: %d must be >= 1", cf.TrainS)
	chk(cf.TrainI >= 1 && cf.TrainI <= cf.NSynapses, "TrainI: %d must be in 1..NSynapses (%d)", cf.TrainI, cf.NSynapses)
	chk(cf.Form >= 0 && cf.Form < StorageFormsN, "Form: %d is not a valid StorageForms", int(cf.Form))
	if len(emsg) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConfig, strings.Join(emsg, "; "))
}

// PrevSize returns the number of units in the layer below given layer
// (1..NLayers-1): InputSize for layer 1, NColumns * NTypes above that.
func (cf Config) PrevSize(layer int) int {
	if layer == 1 {
		return cf.InputSize
	}
	return cf.NNeurons()
}

// NNeurons returns the number of neurons in each non-input layer.
func (cf Config) NNeurons() int {
	return cf.NColumns * cf.NTypes
}

// SegsPerCol returns the number of segments in one column of one layer.
func (cf Config) SegsPerCol() int {
	return cf.NTypes * cf.NBranches * cf.NSegments
}
