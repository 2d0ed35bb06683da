// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package columnar is the overall repository for the columnar excitatory /
inhibitory (E/I) network: a hierarchy of Column x Type x Branch x Segment x
Synapse units whose connectivity is grown online by structural learning,
i.e., by randomly wiring synapses onto untrained segments from the activity
of the previous layer, with no weights and no gradients.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* colnet: the core implementation: configuration, the two connectivity storage
forms (sparse index lists and dense bit masks), the threshold-based forward pass,
the structural trainer, read-only inspection of activation traces, and simple
dataset / epoch-running helpers built on etable.

* examples: these actually compile into runnable programs. examples/bench trains
and tests on synthetic class patterns for benchmarking different sized networks,
and examples/colei is the reference demo with text renderings of neuron and
network state.
*/
package columnar
