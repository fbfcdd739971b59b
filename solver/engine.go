// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
	"github.com/cpmech/gosl/la"
)

// Engine drives one discrete-time tick across a Network: reset, repeated
// doCalc sweeps plus node-balance closure until no component or node makes
// progress, then a finished check (spec §4.1). The literal recursive
// push-cascade described by the original write-up is replaced here by a
// flat fixed-point sweep: both converge to the same result under the
// invariants the node/edge updated-flags already enforce (no write ever
// fires twice), and the sweep form composes far more simply with the
// Exclusive-edge closure below.
type Engine struct {
	Net *Network

	// MaxIterFactor bounds the number of sweeps as MaxIterFactor times the
	// number of registered components (floor 10), guarding against a
	// mis-wired network that can never settle.
	MaxIterFactor int
}

// NewEngine returns an Engine with the default iteration budget
func NewEngine(net *Network) *Engine {
	return &Engine{Net: net, MaxIterFactor: 10}
}

// Tick runs prepare, propagate, and the finished check, in order
func (e *Engine) Tick() error {
	e.prepare()
	if err := e.propagate(); err != nil {
		return err
	}
	return e.checkFinished()
}

// PrepareCalculation is the tick's first step (spec §6 solver API): reset
// every node's updated-flags and let each component stage its rotated state
func (e *Engine) PrepareCalculation() { e.prepare() }

// DoCalculation runs the sweep-and-close loop to a fixed point and reports
// the resulting error, if any (spec §6 do_calculation)
func (e *Engine) DoCalculation() error { return e.propagate() }

// IsCalculationFinished reports whether every component settled and every
// node balances, without the error detail checkFinished returns internally
// (spec §6 is_calculation_finished)
func (e *Engine) IsCalculationFinished() bool { return e.checkFinished() == nil }

func (e *Engine) prepare() {
	e.Net.AdvanceTime()
	e.Net.Arena.ResetAll()
	for _, c := range e.Net.Comps {
		c.Prepare(e.Net)
	}
}

func (e *Engine) propagate() error {
	maxIters := e.MaxIterFactor * len(e.Net.Comps)
	if maxIters < 10 {
		maxIters = 10
	}
	for iter := 0; iter < maxIters; iter++ {
		progressed := false
		for _, c := range e.Net.Comps {
			p, err := c.DoCalc(e.Net)
			if err != nil {
				return err
			}
			if p {
				progressed = true
			}
		}
		if e.closeNodeBalances() {
			progressed = true
		}
		if e.closeHeatMixing() {
			progressed = true
		}
		if !progressed {
			return nil
		}
	}
	return simerr.AlgebraicErr("network did not converge within %d sweeps; consider the linear reducer or superposition solver for this topology", maxIters)
}

// closeHeatMixing performs spec §4.8's perfect-mixing rule at every
// phased-fluid node once all of that node's flows are known: inbound edges
// (flow > 0, i.e. delivered into the node) are enthalpy-weighted and
// averaged; every outbound edge (flow <= 0) receives the mixed value. A
// node with no net inflow marks its still-pending edges no_energy instead
// (spec §4.8 "if Σ|f_i| < 1e-10 ... no_energy").
func (e *Engine) closeHeatMixing() bool {
	progressed := false
	for _, n := range e.Net.Arena.Nodes {
		if n.Domain != node.PhasedFluid && n.Domain != node.Multidomain {
			continue
		}
		if len(n.Edges) == 0 {
			continue
		}
		allFlowsSet := true
		for i := range n.Edges {
			if !n.Edges[i].FlowSet {
				allFlowsSet = false
				break
			}
		}
		if !allFlowsSet {
			continue
		}
		anyPending := false
		for i := range n.Edges {
			if !n.Edges[i].HeatSet && !n.Edges[i].NoEnergy {
				anyPending = true
				break
			}
		}
		if !anyPending {
			continue
		}

		var inF, inH []float64
		inboundReady := true
		for i := range n.Edges {
			f := n.Edges[i].Flow
			if f > 1e-12 {
				if !n.Edges[i].HeatSet {
					inboundReady = false
					break
				}
				inF = append(inF, f)
				inH = append(inH, n.Edges[i].Heat)
			}
		}
		if !inboundReady {
			continue
		}
		sumF := 0.0
		for _, f := range inF {
			sumF += f
		}
		sumFH := la.VecDot(inF, inH)
		if sumF < 1e-10 {
			for i := range n.Edges {
				if !n.Edges[i].HeatSet && !n.Edges[i].NoEnergy {
					n.Edges[i].NoEnergy = true
					progressed = true
				}
			}
			continue
		}
		hOut := sumFH / sumF
		for i := range n.Edges {
			if n.Edges[i].Flow <= 1e-12 && !n.Edges[i].HeatSet {
				n.Edges[i].Heat = hOut
				n.Edges[i].HeatSet = true
				progressed = true
			}
		}
	}
	return progressed
}

// closeNodeBalances resolves, for every node with exactly one unset
// non-exclusive flow edge, that edge's flow from Kirchhoff-style
// conservation: the sum of all signed flows into a node is zero (spec
// §4.1 node-balance closure). An Exclusive edge is never closed this way —
// only the component that owns it may set it.
func (e *Engine) closeNodeBalances() bool {
	progressed := false
	for _, n := range e.Net.Arena.Nodes {
		unset := n.UnsetFlowEdges()
		if len(unset) != 1 {
			continue
		}
		idx := unset[0]
		if n.Edges[idx].Exclusive {
			continue
		}
		sum := 0.0
		for i := range n.Edges {
			if i == idx {
				continue
			}
			sum += n.Edges[i].Flow
		}
		v := -sum
		if v == 0 {
			v = 0
		}
		n.Edges[idx].Flow = v
		n.Edges[idx].FlowSet = true
		progressed = true
	}
	return progressed
}

func (e *Engine) checkFinished() error {
	for _, c := range e.Net.Comps {
		if !c.Finished(e.Net) {
			return simerr.AlgebraicErr("component %q (kind %s) did not settle this tick", c.Name(), c.Kind())
		}
	}
	for _, n := range e.Net.Arena.Nodes {
		if !n.EffortSet {
			return simerr.AlgebraicErr("node %d (%q): effort never resolved", n.ID, n.Name)
		}
		if r := math.Abs(n.FlowSum()); r > 1e-8 {
			return simerr.AlgebraicErr("node %d (%q): flow balance residual %.3g exceeds tolerance", n.ID, n.Name, r)
		}
		if n.Domain == node.PhasedFluid || n.Domain == node.Multidomain {
			for i := range n.Edges {
				if !n.Edges[i].HeatSet && !n.Edges[i].NoEnergy {
					return simerr.AlgebraicErr("node %d (%q) edge %d: heat energy neither updated nor marked no_energy", n.ID, n.Name, i)
				}
			}
		}
	}
	return nil
}
