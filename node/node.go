// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package node implements the Value Channel: the arena of Nodes and their
// per-component Edges that carry effort and flow across one simulation
// tick. Node holds no back-pointers to components; every cross-reference
// is a stable arena index, resolved by the solver package which owns both
// the node arena and the component registry.
package node

import "github.com/cpmech/gosl/chk"

// Domain enumerates the physical regimes a Node or Component may belong to
type Domain int

const (
	Electrical Domain = iota
	Hydraulic
	Thermal
	Mechanical
	PhasedFluid
	Multidomain
)

func (d Domain) String() string {
	switch d {
	case Electrical:
		return "electrical"
	case Hydraulic:
		return "hydraulic"
	case Thermal:
		return "thermal"
	case Mechanical:
		return "mechanical"
	case PhasedFluid:
		return "phased-fluid"
	case Multidomain:
		return "multidomain"
	}
	return "unknown"
}

// Compatible reports whether a node of domain d may host a component of
// domain other: identical domains always match; MULTIDOMAIN on either side
// bridges any pair (spec §3 invariant i)
func (d Domain) Compatible(other Domain) bool {
	return d == other || d == Multidomain || other == Multidomain
}

// Edge is one component's slot on a Node: its flow, update flag, and (for
// PHASED_FLUID nodes only) the heat-energy companion channel of §4.8.
// Exclusive marks edges whose flow may only be set by the owning
// component itself (flow sources, enforcers, forced-zero origin/dissipator
// ends) — the node-balance closure rule in the propagation engine must
// never write to an Exclusive edge.
type Edge struct {
	CompID    int // arena index of the connected component
	Exclusive bool

	Flow      float64
	FlowSet   bool

	Heat     float64
	HeatSet  bool
	NoEnergy bool
}

// Node is one meeting point of the bond-graph: a scalar effort shared by
// every connected component, plus one Edge per connection (spec §3)
type Node struct {
	ID        int
	Domain    Domain
	Name      string
	Effort    float64
	EffortSet bool
	Edges     []Edge
}

// EdgeIndex returns the position of compID's edge on this node, or -1
func (n *Node) EdgeIndex(compID int) int {
	for i := range n.Edges {
		if n.Edges[i].CompID == compID {
			return i
		}
	}
	return -1
}

// Reset clears every updated-flag on the node ahead of a new tick. It is
// idempotent, so calling it more than once per tick is harmless; the
// engine calls it once per node through Arena.ResetAll (spec §4.1 step 1).
func (n *Node) Reset() {
	n.EffortSet = false
	for i := range n.Edges {
		n.Edges[i].FlowSet = false
		n.Edges[i].HeatSet = false
		n.Edges[i].NoEnergy = false
	}
}

// UnsetFlowEdges returns the indices of edges on n whose flow is not yet set
func (n *Node) UnsetFlowEdges() []int {
	var out []int
	for i := range n.Edges {
		if !n.Edges[i].FlowSet {
			out = append(out, i)
		}
	}
	return out
}

// FlowSum returns the sum of signed flows over every edge whose flow is set
func (n *Node) FlowSum() float64 {
	var s float64
	for i := range n.Edges {
		if n.Edges[i].FlowSet {
			s += n.Edges[i].Flow
		}
	}
	return s
}

// Arena owns the stable-index table of Nodes
type Arena struct {
	Nodes []*Node
}

// NewArena returns an empty node arena
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a Node of the given domain and returns its arena index
func (a *Arena) New(domain Domain, name string) int {
	id := len(a.Nodes)
	a.Nodes = append(a.Nodes, &Node{ID: id, Domain: domain, Name: name})
	return id
}

// At returns the Node at the given arena index, panicking on an
// out-of-range index: this is an internal invariant violation, not a
// caller-recoverable error (Design Notes, "Exceptions vs. result types")
func (a *Arena) At(id int) *Node {
	if id < 0 || id >= len(a.Nodes) {
		chk.Panic("node: arena index %d out of range [0,%d)", id, len(a.Nodes))
	}
	return a.Nodes[id]
}

// Connect registers compID onto node nodeID's edge list and returns the
// new edge's index within that node. domain mismatch (neither side
// MULTIDOMAIN) is reported to the caller via ok=false so the solver layer
// can raise a ModelError with full component context.
func (a *Arena) Connect(nodeID int, compID int, compDomain Domain, exclusive bool) (edgeIdx int, ok bool) {
	n := a.At(nodeID)
	if !n.Domain.Compatible(compDomain) {
		return 0, false
	}
	n.Edges = append(n.Edges, Edge{CompID: compID, Exclusive: exclusive})
	return len(n.Edges) - 1, true
}

// ResetAll clears every node's updated-flags; the engine calls it at the
// start of every tick, before any component's Prepare runs.
func (a *Arena) ResetAll() {
	for _, n := range a.Nodes {
		n.Reset()
	}
}
