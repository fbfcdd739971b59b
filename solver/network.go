// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solver implements the Propagation Engine and Integrator: the
// orchestrator that owns the node arena and the component registry, runs
// one prepare/doCalc/finished tick, and rotates state-storing components'
// staged state between ticks. This plays the role gofem's fem.FEM /
// fem.Domain pair plays for a finite-element mesh, adapted to a local
// fixed-point sweep instead of a global Newton assembly.
package solver

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

// Network owns the node arena and the component registry and implements
// comp.Network, the surface components use to read and write values
type Network struct {
	Arena    *node.Arena
	Comps    []comp.Component
	dt       float64
	elapsed  float64
	reporter func(format string, args ...interface{})
}

// NewNetwork returns an empty network with a unit step time
func NewNetwork() *Network {
	return &Network{Arena: node.NewArena(), dt: 1}
}

// RegisterNode allocates a node of the given domain and returns its index
func (n *Network) RegisterNode(domain node.Domain, name string) int {
	return n.Arena.New(domain, name)
}

// RegisterElement registers a component, assigns it an id, and returns it
func (n *Network) RegisterElement(c comp.Component) int {
	id := len(n.Comps)
	c.SetID(id)
	c.SetStepTime(n.dt)
	n.Comps = append(n.Comps, c)
	return id
}

// SetStepTime sets Δt on the network and propagates it to every registered
// component (spec §6 set_step_time)
func (n *Network) SetStepTime(dt float64) {
	n.dt = dt
	for _, c := range n.Comps {
		c.SetStepTime(dt)
	}
}

// SetReporter installs the warning-reporter callback (Design Notes: "no
// global mutable state in the core"; warnings are dropped if none is set)
func (n *Network) SetReporter(f func(format string, args ...interface{})) {
	n.reporter = f
}

// comp.Network implementation //////////////////////////////////////////////

func (n *Network) Domain(nodeID int) node.Domain { return n.Arena.At(nodeID).Domain }
func (n *Network) EdgeCount(nodeID int) int      { return len(n.Arena.At(nodeID).Edges) }

func (n *Network) Effort(nodeID int) (float64, bool) {
	nd := n.Arena.At(nodeID)
	return nd.Effort, nd.EffortSet
}

func (n *Network) SetEffort(nodeID int, v float64, sourceID int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return simerr.CalcErr("node %d: component %d set a non-finite effort %v", nodeID, sourceID, v)
	}
	nd := n.Arena.At(nodeID)
	if nd.EffortSet {
		return simerr.ModelErr("node %d (%q): effort already set; component %d attempted a double-set", nodeID, nd.Name, sourceID)
	}
	nd.Effort = canonicalizeZero(v)
	nd.EffortSet = true
	return nil
}

func (n *Network) Flow(nodeID, edgeIdx int) (float64, bool) {
	nd := n.Arena.At(nodeID)
	e := nd.Edges[edgeIdx]
	return e.Flow, e.FlowSet
}

func (n *Network) SetFlow(nodeID, edgeIdx int, v float64, sourceID int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return simerr.CalcErr("node %d edge %d: component %d set a non-finite flow %v", nodeID, edgeIdx, sourceID, v)
	}
	nd := n.Arena.At(nodeID)
	if edgeIdx < 0 || edgeIdx >= len(nd.Edges) {
		return simerr.NoFlowErr("node %d: edge index %d out of range", nodeID, edgeIdx)
	}
	if nd.Edges[edgeIdx].FlowSet {
		return simerr.ModelErr("node %d (%q) edge %d: flow already set; component %d attempted a double-set", nodeID, nd.Name, edgeIdx, sourceID)
	}
	nd.Edges[edgeIdx].Flow = canonicalizeZero(v)
	nd.Edges[edgeIdx].FlowSet = true
	return nil
}

func (n *Network) Heat(nodeID, edgeIdx int) (float64, bool, bool) {
	e := n.Arena.At(nodeID).Edges[edgeIdx]
	return e.Heat, e.HeatSet, e.NoEnergy
}

func (n *Network) SetHeat(nodeID, edgeIdx int, v float64, sourceID int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return simerr.CalcErr("node %d edge %d: component %d set non-finite heat energy %v", nodeID, edgeIdx, sourceID, v)
	}
	nd := n.Arena.At(nodeID)
	if nd.Domain != node.PhasedFluid && nd.Domain != node.Multidomain {
		return simerr.ModelErr("node %d (%q): heat energy is only valid on a PHASED_FLUID node", nodeID, nd.Name)
	}
	if nd.Edges[edgeIdx].HeatSet {
		return simerr.ModelErr("node %d (%q) edge %d: heat energy already set; component %d attempted a double-set", nodeID, nd.Name, edgeIdx, sourceID)
	}
	nd.Edges[edgeIdx].Heat = v
	nd.Edges[edgeIdx].HeatSet = true
	return nil
}

func (n *Network) SetNoEnergy(nodeID, edgeIdx int) {
	n.Arena.At(nodeID).Edges[edgeIdx].NoEnergy = true
}

func (n *Network) StepTime() float64 { return n.dt }

// Time returns the cumulative simulation time, advanced by one Δt at the
// start of every tick by AdvanceTime (so it already counts the running tick)
func (n *Network) Time() float64 { return n.elapsed }

// AdvanceTime adds one step's worth of Δt to the cumulative clock; the
// Engine calls this at the start of every Tick, before any time-varying
// source (spec §6 "function of time" drivers) evaluates itself
func (n *Network) AdvanceTime() { n.elapsed += n.dt }

func (n *Network) Report(format string, args ...interface{}) {
	if n.reporter != nil {
		n.reporter(format, args...)
	}
}

// canonicalizeZero maps IEEE negative zero to positive zero so that
// downstream comparisons and printed results never show "-0" (spec §8
// boundary behavior)
func canonicalizeZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
