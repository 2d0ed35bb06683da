// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func inspectTestNet(t *testing.T) (*Network, *Snapshot) {
	cf := Config{NLayers: 2, NColumns: 2, NTypes: 2, NBranches: 2, NSegments: 2, NSynapses: 3,
		InputSize: 5, SegThr: 2, BranchThr: 1, TrainN: 1, TrainB: 1, TrainS: 1}
	nt := MakeTestNet(t, cf)
	cn := nt.Conns(1)
	cb := cn.AsBase()
	cn.Wire(cb.SegIndex(1, 0, 1, 0), []int{0, 2, 4})
	cn.Wire(cb.SegIndex(1, 0, 0, 1), []int{0, 1})
	tr, err := nt.Forward(bools(1, 0, 1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	return nt, NewSnapshot(nt, tr)
}

func TestSnapshotQueries(t *testing.T) {
	_, sn := inspectTestNet(t)
	if !sn.SegActive(1, 1, 0, 1, 0) {
		t.Errorf("segment B1S0 of C1 should be active")
	}
	if sn.SegActive(1, 1, 0, 0, 1) {
		t.Errorf("segment B0S1 of C1 has 1 active source, below threshold")
	}
	if !sn.BranchActive(1, 1, 0, 1) || sn.BranchActive(1, 1, 0, 0) {
		t.Errorf("wrong branch activity for C1")
	}
	if !sn.NeuronActive(1, 1, 0) || sn.NeuronActive(1, 0, 0) || sn.NeuronActive(1, 1, 1) {
		t.Errorf("wrong neuron activity")
	}
	if srcs := sn.SegSources(1, 1, 0, 1, 0); !sameInts(srcs, []int{0, 2, 4}) {
		t.Errorf("sources = %v", srcs)
	}
	if !sn.IsSource(1, 1, 0, 1, 0, 4) || sn.IsSource(1, 1, 0, 1, 0, 3) {
		t.Errorf("IsSource wrong")
	}
	if !sn.SourceActive(1, 2) || sn.SourceActive(1, 4) {
		t.Errorf("SourceActive wrong")
	}
}

func TestSnapshotNeuron(t *testing.T) {
	_, sn := inspectTestNet(t)
	nv := sn.Neuron(1, 1, 0)
	if !nv.Active || nv.Type != Excitatory || len(nv.Branches) != 2 {
		t.Fatalf("bad neuron view: %+v", nv)
	}
	sv := nv.Branches[1].Segs[0]
	if !sv.Active || sv.NAct != 2 || len(sv.Syns) != 3 {
		t.Errorf("bad segment view: %+v", sv)
	}
	if !sv.Syns[0].Active || sv.Syns[2].Active {
		t.Errorf("bad synapse activity: %+v", sv.Syns)
	}
	if len(nv.Branches[0].Segs[0].Syns) != 0 {
		t.Errorf("unwired segment has synapses: %+v", nv.Branches[0].Segs[0])
	}
}

func TestWriteNeuron(t *testing.T) {
	_, sn := inspectTestNet(t)
	var b bytes.Buffer
	sn.WriteNeuron(&b, 1, 1, 0, 0, true)
	out := b.String()
	for _, s := range []string{"L1C1T0 Excitatory: on", "\tB1: on", "\t\tB1S0: on (2/3)", "\t\t\tin4: off", "\t\tB0S1: off (1/2)"} {
		if !strings.Contains(out, s) {
			t.Errorf("WriteNeuron missing %q in:\n%s", s, out)
		}
	}
	b.Reset()
	sn.WriteNeuron(&b, 1, 1, 0, 0, false)
	if strings.Contains(b.String(), "in0") {
		t.Errorf("synapses written without syns:\n%s", b.String())
	}
}

func TestWriteNetwork(t *testing.T) {
	nt, sn := inspectTestNet(t)
	var b bytes.Buffer
	sn.WriteNetwork(&b, false)
	out := b.String()
	if !strings.HasPrefix(out, nt.Name()+":") {
		t.Errorf("missing network name:\n%s", out)
	}
	if !strings.Contains(out, "L1C1T0: on") || !strings.Contains(out, "L1C0T1: off") {
		t.Errorf("missing neuron lines:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 1+nt.Config().NNeurons() {
		t.Errorf("got %d lines", n)
	}
	b.Reset()
	sn.WriteNetwork(&b, true)
	if !strings.Contains(b.String(), "in2: on") {
		t.Errorf("synapse level missing synapses:\n%s", b.String())
	}
}

func TestSnapshotReadOnly(t *testing.T) {
	typ := reflect.TypeOf(Snapshot{})
	for i := 0; i < typ.NumField(); i++ {
		if fl := typ.Field(i); fl.IsExported() {
			t.Errorf("Snapshot field %s gives access to the network", fl.Name)
		}
	}
	nt, sn := inspectTestNet(t)
	before := allSources(nt)
	sn.Neuron(1, 1, 0)
	var b bytes.Buffer
	sn.WriteNetwork(&b, true)
	cmprSources(before, allSources(nt), "after inspection", t)
}
