// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cf := Config{}
	cf.Defaults()
	if err := cf.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cf.TrainI != cf.NSynapses {
		t.Errorf("TrainI: %d should default to NSynapses: %d", cf.TrainI, cf.NSynapses)
	}
	if cf.PrevSize(1) != 1024 || cf.PrevSize(2) != 20 {
		t.Errorf("PrevSize: got %d, %d want 1024, 20", cf.PrevSize(1), cf.PrevSize(2))
	}
	nt, err := NewNetwork("Defaults", cf)
	if err != nil {
		t.Fatal(err)
	}
	if ncf := nt.Config(); nt.Config().NNeurons() != 20 || nt.Config().SegsPerCol() != ncf.NTypes*ncf.NBranches*ncf.NSegments {
		t.Errorf("NNeurons: %d SegsPerCol: %d", nt.Config().NNeurons(), nt.Config().SegsPerCol())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(cf *Config)
		field string
	}{
		{"layers", func(cf *Config) { cf.NLayers = 1 }, "NLayers"},
		{"columns", func(cf *Config) { cf.NColumns = 0 }, "NColumns"},
		{"types", func(cf *Config) { cf.NTypes = 3 }, "NTypes"},
		{"branches", func(cf *Config) { cf.NBranches = 0 }, "NBranches"},
		{"segments", func(cf *Config) { cf.NSegments = 0; cf.BranchThr = 0 }, "NSegments"},
		{"input", func(cf *Config) { cf.InputSize = -1 }, "InputSize"},
		{"segthr", func(cf *Config) { cf.SegThr = 21 }, "SegThr"},
		{"branchthr", func(cf *Config) { cf.BranchThr = 5 }, "BranchThr"},
		{"trainN", func(cf *Config) { cf.TrainN = 0 }, "TrainN"},
		{"trainI", func(cf *Config) { cf.TrainI = 21 }, "TrainI"},
		{"form", func(cf *Config) { cf.Form = StorageFormsN }, "Form"},
	}
	for _, tt := range tests {
		cf := Config{}
		cf.Defaults()
		tt.mod(&cf)
		err := cf.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !errors.Is(err, ErrConfig) {
			t.Errorf("%s: error does not wrap ErrConfig: %v", tt.name, err)
		}
		if !strings.Contains(err.Error(), tt.field) {
			t.Errorf("%s: error does not mention %s: %v", tt.name, tt.field, err)
		}
		if _, err := NewNetwork("Bad", cf); !errors.Is(err, ErrConfig) {
			t.Errorf("%s: NewNetwork should fail with ErrConfig, got: %v", tt.name, err)
		}
	}
}
