// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colnet

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/goki/ki/ints"
)

// SegAttempts is the number of random (Branch, Segment) draws made when
// looking for an untrained segment before giving up.
const SegAttempts = 1000

// Trainer does online structural learning on a Network: for each labeled
// sample it claims untrained segments in the column of the sample's class,
// and wires them to previous-layer units drawn from that sample's activity.
// It is the only thing that modifies the network connectivity.
type Trainer struct {
	Net   *Network     `desc:"the network being wired"`
	Rands []*rand.Rand `desc:"random streams, one per column, seeded from Config.Seed and the column index"`
	Stats WireCounts   `desc:"counts of wiring outcomes since the trainer was made"`
}

// NewTrainer returns a trainer for given network, with its random streams
// seeded from the network config.
func NewTrainer(nt *Network) *Trainer {
	tr := &Trainer{Net: nt}
	cf := nt.Config()
	tr.Rands = make([]*rand.Rand, cf.NColumns)
	for ci := range tr.Rands {
		tr.Rands[ci] = rand.New(rand.NewSource(cf.Seed + int64(ci)))
	}
	return tr
}

// checkLabel returns an error if label is not a valid column.
func (tr *Trainer) checkLabel(label int) error {
	ncol := tr.Net.cfg.NColumns
	if label < 0 || label >= ncol {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrLabel, label, ncol)
	}
	return nil
}

// TrainSample does structural learning for one labeled sample: one forward
// pass, then wiring of every layer bottom-up from that same trace.
// Returns the number of segments wired.
func (tr *Trainer) TrainSample(in []bool, label int) (int, error) {
	if err := tr.checkLabel(label); err != nil {
		return 0, err
	}
	act, err := tr.Net.Forward(in)
	if err != nil {
		return 0, err
	}
	wc := tr.WireSample(act, label)
	tr.Stats.Add(wc)
	return wc[Wired], nil
}

// WireSample wires the column for label in every layer, using the
// activations in act as the previous-layer activity.  Layer l reads act.Acts[l-1],
// which wiring does not change, so all layers see the state of the same pass.
// For each layer and type, TrainN * TrainB * TrainS segments are claimed.
// Only touches cells of column label, and only uses that column's random stream.
func (tr *Trainer) WireSample(act *Trace, label int) WireCounts {
	var wc WireCounts
	cf := &tr.Net.cfg
	rnd := tr.Rands[label]
	nstep := cf.TrainN * cf.TrainB * cf.TrainS
	for l := 1; l < cf.NLayers; l++ {
		active, inactive := ActiveIndexes(act.Acts[l-1])
		for ti := 0; ti < cf.NTypes; ti++ {
			for i := 0; i < nstep; i++ {
				wc[tr.WireSeg(rnd, l, label, NeuronTypes(ti), active, inactive)]++
			}
		}
	}
	return wc
}

// WireSeg does one wiring step: claims an untrained segment of given column
// and type, and wires it to TrainI units sampled from the pool for the type:
// active units for Excitatory, inactive ones for Inhibitory.
func (tr *Trainer) WireSeg(rnd *rand.Rand, layer, ci int, typ NeuronTypes, active, inactive []int) WireOutcomes {
	cn := tr.Net.Layers[layer-1]
	seg, ok := tr.UntrainedSeg(rnd, layer, ci, int(typ))
	if !ok {
		return Exhausted
	}
	pool := active
	if typ == Inhibitory {
		pool = inactive
		if len(pool) == 0 {
			pool = Complement(active, cn.AsBase().NPrev)
		}
	}
	if len(pool) == 0 {
		return EmptyPool
	}
	cn.Wire(seg, SamplePool(rnd, pool, tr.Net.cfg.TrainI))
	return Wired
}

// UntrainedSeg draws (Branch, Segment) uniformly at random for given layer,
// column and type until it finds one that is not trained, which it marks
// trained and returns.  Returns false after SegAttempts failed draws.
func (tr *Trainer) UntrainedSeg(rnd *rand.Rand, layer, ci, ti int) (int, bool) {
	cb := tr.Net.Layers[layer-1].AsBase()
	for a := 0; a < SegAttempts; a++ {
		bi := rnd.Intn(cb.NBrs)
		si := rnd.Intn(cb.NSegs)
		seg := cb.SegIndex(ci, ti, bi, si)
		if cb.MarkTrained(seg) {
			return seg, true
		}
	}
	return -1, false
}

// SamplePool returns n units sampled from pool, as if drawn without
// replacement from pool repeated enough times to hold n: when the pool is
// smaller than n, units are repeated.  Repeated units are then dropped, so
// the result has min(n, len(pool)) or fewer distinct units, in draw order.
func SamplePool(rnd *rand.Rand, pool []int, n int) []int {
	np := len(pool)
	if np == 0 || n <= 0 {
		return nil
	}
	reps := n/np + 1
	tiled := make([]int, 0, np*reps)
	for r := 0; r < reps; r++ {
		tiled = append(tiled, pool...)
	}
	n = ints.MinInt(n, len(tiled))
	for i := 0; i < n; i++ { // partial Fisher-Yates
		j := i + rnd.Intn(len(tiled)-i)
		tiled[i], tiled[j] = tiled[j], tiled[i]
	}
	seen := make(map[int]bool, n)
	pick := make([]int, 0, n)
	for _, pi := range tiled[:n] {
		if seen[pi] {
			continue
		}
		seen[pi] = true
		pick = append(pick, pi)
	}
	return pick
}

// Complement returns the units in 0..n-1 that are not in idxs.
func Complement(idxs []int, n int) []int {
	in := make([]bool, n)
	for _, i := range idxs {
		if i >= 0 && i < n {
			in[i] = true
		}
	}
	var cmp []int
	for i, v := range in {
		if !v {
			cmp = append(cmp, i)
		}
	}
	return cmp
}

//////////////////////////////////////////////////////////////////////////////////////
//  Batch

// TrainBatch does structural learning for a batch of samples, using multiple
// goroutines.  All forward passes are computed first, against the connectivity
// at the start of the batch, and then each class's samples are wired in batch
// order on a separate goroutine.  Wiring only touches the sample's own column
// and random stream, so the result does not depend on scheduling.
// Unlike a loop of TrainSample, later samples do not see the wiring done
// by earlier samples of the same batch.  Returns the number of segments wired.
func (tr *Trainer) TrainBatch(samps Samples) (int, error) {
	for i := range samps {
		if err := tr.checkLabel(samps[i].Label); err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		if len(samps[i].Input) != tr.Net.cfg.InputSize {
			return 0, fmt.Errorf("sample %d: %w: got %d values, InputSize %d", i, ErrInputSize, len(samps[i].Input), tr.Net.cfg.InputSize)
		}
	}
	ns := len(samps)
	if ns == 0 {
		return 0, nil
	}
	acts := make([]*Trace, ns)
	nthr := ints.MinInt(runtime.GOMAXPROCS(0), ns)
	var wg sync.WaitGroup
	for th := 0; th < nthr; th++ {
		wg.Add(1)
		go func(th int) {
			defer wg.Done()
			for i := th; i < ns; i += nthr {
				acts[i], _ = tr.Net.Forward(samps[i].Input) // sizes checked above
			}
		}(th)
	}
	wg.Wait()

	cf := &tr.Net.cfg
	byCol := make([][]int, cf.NColumns)
	for i := range samps {
		byCol[samps[i].Label] = append(byCol[samps[i].Label], i)
	}
	colWc := make([]WireCounts, cf.NColumns)
	for ci := range byCol {
		if len(byCol[ci]) == 0 {
			continue
		}
		wg.Add(1)
		go func(ci int) {
			defer wg.Done()
			for _, i := range byCol[ci] {
				colWc[ci].Add(tr.WireSample(acts[i], ci))
			}
		}(ci)
	}
	wg.Wait()
	var wc WireCounts
	for ci := range colWc {
		wc.Add(colWc[ci])
	}
	tr.Stats.Add(wc)
	return wc[Wired], nil
}
