// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"github.com/cpmech/bondnet/comp/linear"
	"github.com/cpmech/bondnet/simerr"
	"github.com/cpmech/bondnet/solver"
)

// SourceKind distinguishes the two linear source kinds a Superposition
// overlay can neutralize or drive
type SourceKind int

const (
	EffortSourceKind SourceKind = iota
	FlowSourceKind
)

// Source names one independent driver within a linear sub-network: either
// an EffortSource (n1 = n0 + E) or a FlowSource (F into n0, out of n1)
type Source struct {
	Kind SourceKind
	N0   int
	N1   int
	Comp interface{} // *linear.EffortSource or *linear.FlowSource
}

func (s *Source) effortValue() float64 {
	return s.Comp.(*linear.EffortSource).E
}

func (s *Source) flowValue() float64 {
	return s.Comp.(*linear.FlowSource).F
}

// Superposition is the Superposition Solver of spec §4.6: for a linear
// sub-network driven by more than one independent source, it overlays one
// per-source solve (every other source neutralized: effort sources become
// a short, flow sources become an open break) and sums the per-node effort
// and per-branch flow contributions linearly.
type Superposition struct {
	Net     *solver.Network
	Sources []*Source

	// SubnetNodes lists every node ID in the linear sub-network under
	// superposition, including both terminals of every source.
	SubnetNodes []int

	// Origins marks the reference node(s) held at a fixed known effort
	// across every overlay (typically the network's ground/origin node).
	Origins map[int]bool
}

// NewSuperposition returns an empty solver over net
func NewSuperposition(net *solver.Network) *Superposition {
	return &Superposition{Net: net, Origins: map[int]bool{}}
}

// overlayReducer builds a Reducer over SubnetNodes with every source other
// than active replaced by its neutralized form: an EffortSource becomes a
// BRIDGED (R=0) branch between its two nodes, a FlowSource contributes no
// branch at all (OPEN, i.e. disconnected for this overlay's resistive
// graph). Spec §4.6's "detect/merge parallel shortcuts from neutralization"
// falls directly out of mergeParallel, since a neutralized effort source
// lands in the branch list as an ordinary R=0 branch between two nodes that
// may already carry a real dissipator between them.
func (sp *Superposition) overlayReducer(active *Source) *Reducer {
	rd := NewReducer(sp.Net)
	for nid := range sp.Origins {
		rd.Origins[nid] = true
	}
	rd.Origins[active.N0] = true
	rd.Origins[active.N1] = true
	rd.Discover(sp.SubnetNodes)
	for _, s := range sp.Sources {
		if s == active {
			continue
		}
		switch s.Kind {
		case EffortSourceKind:
			b := &Branch{N0: s.N0, N1: s.N1, R: 0, CompID: -1}
			rd.Branches = append(rd.Branches, b)
			rd.AllBranches = append(rd.AllBranches, b)
		case FlowSourceKind:
			// OPEN: contributes nothing to this overlay's resistive graph
		}
	}
	return rd
}

// Overlay is one source's isolated contribution: the node efforts it alone
// would produce, and each dissipator's effort-difference across its own
// two ports (deltaE, additive under superposition the same way effort is,
// and the quantity ApplyExternalDelta consumes directly)
type Overlay struct {
	Source       *Source
	NodeEffort   map[int]float64
	ElementDelta map[int]float64 // dissipator component id -> e(port0)-e(port1)
}

// Solve runs one overlay per source and returns them unsummed, so callers
// can inspect individual contributions as well as the total (spec §4.6
// "sum per-element flows and per-node efforts linearly across overlays")
func (sp *Superposition) Solve() ([]*Overlay, error) {
	overlays := make([]*Overlay, 0, len(sp.Sources))
	for _, s := range sp.Sources {
		ov, err := sp.solveOne(s)
		if err != nil {
			return nil, err
		}
		overlays = append(overlays, ov)
	}
	return overlays, nil
}

func (sp *Superposition) solveOne(active *Source) (*Overlay, error) {
	rd := sp.overlayReducer(active)
	if err := rd.Reduce(); err != nil {
		return nil, err
	}

	known := map[int]float64{}
	for nid := range sp.Origins {
		known[nid] = 0
	}

	switch active.Kind {
	case EffortSourceKind:
		known[active.N0] = 0
		known[active.N1] = active.effortValue()
	case FlowSourceKind:
		r, err := rd.TwoTerminalResistance(active.N0, active.N1)
		if err != nil {
			return nil, err
		}
		f := active.flowValue()
		known[active.N0] = f * r
		known[active.N1] = 0
	default:
		return nil, simerr.ModelErr("superposition: unknown source kind")
	}

	resolved, err := rd.solveFrom(known)
	if err != nil {
		return nil, err
	}

	ov := &Overlay{Source: active, NodeEffort: known, ElementDelta: map[int]float64{}}
	for _, b := range rd.AllBranches {
		if b.CompID < 0 {
			continue
		}
		if _, done := resolved[b]; !done {
			continue
		}
		// b.N0/b.N1 mirror the dissipator's own port0/port1 node ids exactly
		// (Discover built the branch straight from Ports()[0]/Ports()[1]),
		// so this is the deltaE ApplyExternalDelta expects.
		ov.ElementDelta[b.CompID] = known[b.N0] - known[b.N1]
	}
	return ov, nil
}

// Sum adds every overlay's contribution and applies the totals to the real
// network: node efforts via a direct write, dissipator deltas via
// ApplyExternalDelta (spec §4.6 "sum... linearly across overlays")
func (sp *Superposition) Sum(overlays []*Overlay) error {
	totalEffort := map[int]float64{}
	totalDelta := map[int]float64{}
	for _, ov := range overlays {
		for nid, e := range ov.NodeEffort {
			totalEffort[nid] += e
		}
		for cid, d := range ov.ElementDelta {
			totalDelta[cid] += d
		}
	}
	for nid, e := range totalEffort {
		if _, set := sp.Net.Effort(nid); !set {
			if err := sp.Net.SetEffort(nid, e, -1); err != nil {
				return err
			}
		}
	}
	for cid, delta := range totalDelta {
		d, ok := sp.dissipator(cid)
		if !ok {
			continue
		}
		if err := d.ApplyExternalDelta(sp.Net, delta); err != nil {
			return err
		}
	}
	return nil
}

func (sp *Superposition) dissipator(compID int) (*linear.LinearDissipator, bool) {
	for _, c := range sp.Net.Comps {
		if d, ok := c.(*linear.LinearDissipator); ok && d.ID() == compID {
			return d, true
		}
	}
	return nil, false
}
