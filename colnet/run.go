// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// TestStats are the classification results over a dataset.
type TestStats struct {
	N         int     `desc:"number of samples tested"`
	NCor      int     `desc:"number classified correctly"`
	Confusion [][]int `desc:"counts of [true label][predicted label]"`
}

// PctCor returns the proportion of samples classified correctly.
func (ts *TestStats) PctCor() float64 {
	if ts.N == 0 {
		return 0
	}
	return float64(ts.NCor) / float64(ts.N)
}

// Runner drives epochs of online structural training and testing of a
// network, logging one row per epoch, and timing each step.
type Runner struct {
	Net      *Network             `desc:"the network"`
	Trainer  *Trainer             `desc:"structural trainer for the network"`
	Epoch    int                  `desc:"number of epochs logged so far"`
	EpcLog   *etable.Table        `desc:"one row per epoch of training and test results"`
	Steps    map[string]*StepTime `view:"-" desc:"time and sample counts for each step of processing"`
}

// StepTime accumulates the time spent in one step of processing and the
// number of samples it processed, for throughput reports.
type StepTime struct {
	Tmr    timer.Time `desc:"accumulated time in the step"`
	NSamps int        `desc:"number of samples processed by the step"`
}

// SampsPerSec returns the step throughput, 0 if it has taken no time.
func (st *StepTime) SampsPerSec() float64 {
	secs := st.Tmr.TotalSecs()
	if secs <= 0 {
		return 0
	}
	return float64(st.NSamps) / secs
}

// NewRunner returns a runner for network, with a new Trainer and empty epoch log.
func NewRunner(nt *Network) *Runner {
	rn := &Runner{Net: nt, Trainer: NewTrainer(nt)}
	rn.EpcLog = &etable.Table{}
	rn.ConfigEpcLog(rn.EpcLog)
	rn.Steps = make(map[string]*StepTime)
	return rn
}

// ConfigEpcLog sets the epoch log columns.
func (rn *Runner) ConfigEpcLog(dt *etable.Table) {
	dt.SetMetaData("name", "EpcLog")
	dt.SetFromSchema(etable.Schema{
		{"Epoch", etensor.INT64, nil, nil},
		{"NTrain", etensor.INT64, nil, nil},
		{"Wired", etensor.INT64, nil, nil},
		{"Exhausted", etensor.INT64, nil, nil},
		{"EmptyPool", etensor.INT64, nil, nil},
		{"NTest", etensor.INT64, nil, nil},
		{"PctCor", etensor.FLOAT64, nil, nil},
		{"PctErr", etensor.FLOAT64, nil, nil},
	}, 0)
}

// TrainEpoch trains on every sample of ds once, online, in given order
// (dataset order if nil), returning the wiring outcome counts.
func (rn *Runner) TrainEpoch(ds Dataset, order []int) (WireCounts, error) {
	nsamp := 0
	rn.StepStart("TrainEpoch")
	defer func() { rn.StepStop("TrainEpoch", nsamp) }()
	st := rn.Trainer.Stats
	delta := func() WireCounts {
		var wc WireCounts
		for i := range wc {
			wc[i] = rn.Trainer.Stats[i] - st[i]
		}
		return wc
	}
	n := ds.Len()
	if order != nil {
		n = len(order)
	}
	for i := 0; i < n; i++ {
		si := i
		if order != nil {
			si = order[i]
		}
		in, lbl := ds.Sample(si)
		if _, err := rn.Trainer.TrainSample(in, lbl); err != nil {
			return delta(), fmt.Errorf("TrainEpoch sample %d: %w", si, err)
		}
		nsamp++
	}
	return delta(), nil
}

// Test classifies every sample of ds.
func (rn *Runner) Test(ds Dataset) (TestStats, error) {
	ts := TestStats{}
	rn.StepStart("Test")
	defer func() { rn.StepStop("Test", ts.N) }()
	ncol := rn.Net.cfg.NColumns
	ts.Confusion = make([][]int, ncol)
	for ci := range ts.Confusion {
		ts.Confusion[ci] = make([]int, ncol)
	}
	for i := 0; i < ds.Len(); i++ {
		in, lbl := ds.Sample(i)
		if lbl < 0 || lbl >= ncol {
			return ts, fmt.Errorf("Test sample %d: %w: %d", i, ErrLabel, lbl)
		}
		pred, _, err := rn.Net.Classify(in)
		if err != nil {
			return ts, fmt.Errorf("Test sample %d: %w", i, err)
		}
		ts.N++
		if pred == lbl {
			ts.NCor++
		}
		ts.Confusion[lbl][pred]++
	}
	return ts, nil
}

// LogEpoch adds a row to EpcLog for the current epoch and increments Epoch.
func (rn *Runner) LogEpoch(ntrain int, wc WireCounts, ts TestStats) {
	dt := rn.EpcLog
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Epoch", row, float64(rn.Epoch))
	dt.SetCellFloat("NTrain", row, float64(ntrain))
	dt.SetCellFloat("Wired", row, float64(wc[Wired]))
	dt.SetCellFloat("Exhausted", row, float64(wc[Exhausted]))
	dt.SetCellFloat("EmptyPool", row, float64(wc[EmptyPool]))
	dt.SetCellFloat("NTest", row, float64(ts.N))
	dt.SetCellFloat("PctCor", row, ts.PctCor())
	dt.SetCellFloat("PctErr", row, 1-ts.PctCor())
	rn.Epoch++
}

// RunEpoch trains on train in given order, tests on test, and logs the epoch.
func (rn *Runner) RunEpoch(train, test Dataset, order []int) (TestStats, error) {
	wc, err := rn.TrainEpoch(train, order)
	if err != nil {
		return TestStats{}, err
	}
	ts, err := rn.Test(test)
	if err != nil {
		return ts, err
	}
	ntrain := train.Len()
	if order != nil {
		ntrain = len(order)
	}
	rn.LogEpoch(ntrain, wc, ts)
	return ts, nil
}

// StepStart starts the timer of given step, creating it if needed.
func (rn *Runner) StepStart(step string) {
	st, ok := rn.Steps[step]
	if !ok {
		st = &StepTime{}
		rn.Steps[step] = st
	}
	st.Tmr.Start()
}

// StepStop stops the timer of given step, which must have been started,
// and adds nsamp to the samples it processed.
func (rn *Runner) StepStop(step string, nsamp int) {
	st := rn.Steps[step]
	st.Tmr.Stop()
	st.NSamps += nsamp
}

// TimerReport returns, for each step, the total time, its share of the time
// of all steps, and the number of samples processed per second.
func (rn *Runner) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: %v\n", rn.Net.Nm)
	fmt.Fprintf(&b, "\t%14s\t%10s\t%6s\t%8s\t%10s\n", "Step", "Secs", "Pct", "Samples", "Samps/Sec")
	steps := make([]string, 0, len(rn.Steps))
	tot := 0.0
	for k, st := range rn.Steps {
		steps = append(steps, k)
		tot += st.Tmr.TotalSecs()
	}
	sort.Strings(steps)
	for _, k := range steps {
		st := rn.Steps[k]
		pct := 0.0
		if tot > 0 {
			pct = 100 * st.Tmr.TotalSecs() / tot
		}
		fmt.Fprintf(&b, "\t%14s\t%10.4g\t%6.4g\t%8d\t%10.4g\n", k, st.Tmr.TotalSecs(), pct, st.NSamps, st.SampsPerSec())
	}
	fmt.Fprintf(&b, "\t%14s\t%10.4g\n", "Total", tot)
	return b.String()
}
