// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"math"

	"github.com/cpmech/bondnet/comp/linear"
	"github.com/cpmech/bondnet/simerr"
	"github.com/cpmech/bondnet/solver"
)

// Reducer is the Linear Reducer of spec §4.4: it flattens a sub-network of
// linear-dissipator bonds into a Branch list, repeatedly applies
// series/parallel merges and star-delta/star-polygon transforms until no
// rule fires, solves the collapsed two-terminal network, and back-
// substitutes to recover every original dissipator's flow. Mirrors how
// gofem's msolid state-update models iterate a local fixed point (here:
// reduction rules) rather than assemble and invert a global matrix.
type Reducer struct {
	Net *solver.Network

	// Origins marks node IDs that must never be merged away: the two
	// terminal nodes the reduced network is ultimately solved between
	// (typically a source node and a ground/origin node).
	Origins map[int]bool

	// Protected marks additional node IDs a caller wants preserved through
	// the reduction (e.g. a node the Transfer-Subnet Solver still needs
	// direct access to); never merged or star-transformed away.
	Protected map[int]bool

	// Branches is the active reduction frontier; it shrinks as merges and
	// transforms replace groups of branches with one synthetic branch.
	Branches []*Branch

	// AllBranches accumulates every branch ever created, real and
	// synthetic, across every layer; Solve walks this to back-substitute.
	AllBranches []*Branch

	dissipatorByID map[int]*linear.LinearDissipator
}

// NewReducer returns an empty reducer over net
func NewReducer(net *solver.Network) *Reducer {
	return &Reducer{
		Net:            net,
		Origins:        map[int]bool{},
		Protected:      map[int]bool{},
		dissipatorByID: map[int]*linear.LinearDissipator{},
	}
}

// Discover builds the initial Branch list from every LinearDissipator whose
// two ports both lie within nodeIDs
func (rd *Reducer) Discover(nodeIDs []int) {
	within := map[int]bool{}
	for _, id := range nodeIDs {
		within[id] = true
	}
	for _, c := range rd.Net.Comps {
		d, ok := c.(*linear.LinearDissipator)
		if !ok {
			continue
		}
		ports := d.Ports()
		if len(ports) != 2 {
			continue
		}
		n0, n1 := ports[0].NodeID, ports[1].NodeID
		if !within[n0] || !within[n1] {
			continue
		}
		b := &Branch{N0: n0, N1: n1, R: d.R, CompID: d.ID()}
		rd.Branches = append(rd.Branches, b)
		rd.AllBranches = append(rd.AllBranches, b)
		rd.dissipatorByID[d.ID()] = d
	}
}

// Reduce repeatedly applies merge and transform rules until none fire or
// at most one branch remains (spec §4.4's reduction loop)
func (rd *Reducer) Reduce() error {
	for {
		if len(rd.Branches) <= 1 {
			return nil
		}
		if rd.mergeParallel() {
			continue
		}
		if rd.mergeSeries() {
			continue
		}
		if rd.applyStarTransform() {
			continue
		}
		return nil
	}
}

// mergeParallel combines every group of branches sharing the same unordered
// endpoint pair into one SimplifiedResistor via conductance summation
func (rd *Reducer) mergeParallel() bool {
	groups := map[[2]int][]*Branch{}
	order := [][2]int{}
	for _, b := range rd.Branches {
		a0, a1 := endpoints(b.N0, b.N1)
		key := [2]int{a0, a1}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], b)
	}
	changed := false
	var kept []*Branch
	for _, key := range order {
		g := groups[key]
		if len(g) < 2 {
			kept = append(kept, g...)
			continue
		}
		sumG := 0.0
		for _, b := range g {
			sumG += conductance(b.R)
		}
		merged := &Branch{
			N0: key[0], N1: key[1], R: resistanceOf(sumG), CompID: -1,
			Parents: append([]*Branch(nil), g...), Rule: "parallel",
		}
		rd.AllBranches = append(rd.AllBranches, merged)
		kept = append(kept, merged)
		changed = true
	}
	rd.Branches = kept
	return changed
}

// mergeSeries collapses the first unprotected degree-2 node found into a
// single branch summing the two arm resistances
func (rd *Reducer) mergeSeries() bool {
	deg := degreeMap(rd.Branches)
	for nid, d := range deg {
		if d != 2 || rd.Origins[nid] || rd.Protected[nid] {
			continue
		}
		var touching []*Branch
		for _, b := range rd.Branches {
			if b.N0 == nid || b.N1 == nid {
				touching = append(touching, b)
			}
		}
		if len(touching) != 2 {
			continue
		}
		b0, b1 := touching[0], touching[1]
		other0, other1 := b0.other(nid), b1.other(nid)
		if other0 == other1 {
			// the two arms already share their far endpoint too: this is a
			// parallel pair through nid, not a true series chain; leave it
			// for mergeParallel once nid's neighbor branches settle
			continue
		}
		merged := &Branch{
			N0: other0, N1: other1, R: b0.R + b1.R, CompID: -1,
			Parents: []*Branch{b0, b1}, Rule: "series", Mid: nid,
		}
		rd.AllBranches = append(rd.AllBranches, merged)
		var kept []*Branch
		for _, b := range rd.Branches {
			if b != b0 && b != b1 {
				kept = append(kept, b)
			}
		}
		rd.Branches = append(kept, merged)
		return true
	}
	return false
}

// applyStarTransform finds the first unprotected node of degree >= 3 and
// replaces its star with a delta (degree 3) or polygon (degree >= 4)
func (rd *Reducer) applyStarTransform() bool {
	deg := degreeMap(rd.Branches)
	for nid, d := range deg {
		if d < 3 || rd.Origins[nid] || rd.Protected[nid] {
			continue
		}
		var touching []*Branch
		for _, b := range rd.Branches {
			if b.N0 == nid || b.N1 == nid {
				touching = append(touching, b)
			}
		}
		if len(touching) != d {
			continue
		}
		outer := make([]int, len(touching))
		arms := make([]float64, len(touching))
		armByOuter := map[int]float64{}
		for i, b := range touching {
			o := b.other(nid)
			outer[i] = o
			arms[i] = b.R
			armByOuter[o] = b.R
		}
		star := &starRecord{Center: nid, Arms: armByOuter}

		var synths []*Branch
		if len(touching) == 3 {
			rAB, rBC, rCA := starToDelta(arms[0], arms[1], arms[2])
			pairs := [3][2]int{{0, 1}, {1, 2}, {2, 0}}
			vals := [3]float64{rAB, rBC, rCA}
			for i, pr := range pairs {
				synths = append(synths, &Branch{
					N0: outer[pr[0]], N1: outer[pr[1]], R: vals[i], CompID: -1,
					Parents: touching, Rule: "star-delta", Star: star,
				})
			}
		} else {
			m := starToPolygon(arms, outer)
			for key, r := range m {
				synths = append(synths, &Branch{
					N0: key[0], N1: key[1], R: r, CompID: -1,
					Parents: touching, Rule: "star-polygon", Star: star,
				})
			}
		}
		rd.AllBranches = append(rd.AllBranches, synths...)

		touchSet := map[*Branch]bool{}
		for _, b := range touching {
			touchSet[b] = true
		}
		var kept []*Branch
		for _, b := range rd.Branches {
			if !touchSet[b] {
				kept = append(kept, b)
			}
		}
		rd.Branches = append(kept, synths...)
		return true
	}
	return false
}

// flowFor returns (e0-e1)/R, with BRIDGED (R=0) and OPEN (R=+Inf) both
// reporting 0 since Ohm's law alone cannot resolve either boundary case
func flowFor(b *Branch, e0, e1 float64) float64 {
	if b.R == 0 || math.IsInf(b.R, 1) {
		return 0
	}
	return (e0 - e1) / b.R
}

// Solve runs a fixed-point sweep over AllBranches (the same "repeat until
// no progress" shape the propagation engine itself uses) seeded with every
// node effort the engine already resolved, discovering star centers and
// series midpoints as their surrounding efforts become known, then applies
// each real dissipator's recovered delta effort via ApplyExternalDelta.
//
// This assumes every node that survives to the top reduction layer already
// has a resolved effort in net (true of the ordinary case: one source node
// and one origin/ground node terminate the reduced sub-network). A star
// whose outer nodes are themselves buried inside a further, unresolved
// reduction layer is still handled correctly, since its center becomes
// knowable only once those outer nodes are discovered by earlier sweep
// iterations over the branches that produced them.
func (rd *Reducer) Solve() error {
	known := map[int]float64{}
	for _, b := range rd.AllBranches {
		for _, nid := range [2]int{b.N0, b.N1} {
			if _, have := known[nid]; have {
				continue
			}
			if e, set := rd.Net.Effort(nid); set {
				known[nid] = e
			}
		}
	}
	if _, err := rd.solveFrom(known); err != nil {
		return err
	}
	for _, b := range rd.AllBranches {
		if b.CompID < 0 {
			continue
		}
		d := rd.dissipatorByID[b.CompID]
		deltaE := known[b.N0] - known[b.N1]
		if err := d.ApplyExternalDelta(rd.Net, deltaE); err != nil {
			return err
		}
	}
	return nil
}

// solveFrom runs the fixed-point sweep seeded from an externally supplied
// map of known node efforts (mutated in place as new nodes are discovered)
// and returns each branch's resolved flow, without touching rd.Net; the
// Superposition and Transfer-Subnet solvers call this directly since their
// overlay networks are neutralized variants that were never themselves
// propagated onto rd.Net.
func (rd *Reducer) solveFrom(known map[int]float64) (map[*Branch]float64, error) {
	resolved := map[*Branch]float64{}
	maxIters := 10*len(rd.AllBranches) + 10
	for iter := 0; iter < maxIters; iter++ {
		progressed := false

		for _, b := range rd.AllBranches {
			if b.Star == nil {
				continue
			}
			if _, have := known[b.Star.Center]; have {
				continue
			}
			sumWV, sumW, allKnown := 0.0, 0.0, true
			for outer, armR := range b.Star.Arms {
				ev, ok := known[outer]
				if !ok {
					allKnown = false
					break
				}
				w := conductance(armR)
				sumWV += w * ev
				sumW += w
			}
			if allKnown && sumW > 0 {
				known[b.Star.Center] = sumWV / sumW
				progressed = true
			}
		}

		for _, b := range rd.AllBranches {
			if _, done := resolved[b]; done {
				continue
			}
			e0, ok0 := known[b.N0]
			e1, ok1 := known[b.N1]
			if !ok0 || !ok1 {
				continue
			}
			resolved[b] = flowFor(b, e0, e1)
			progressed = true
			if b.Rule == "series" {
				if _, have := known[b.Mid]; !have {
					known[b.Mid] = e0 - resolved[b]*b.Parents[0].R
				}
			}
		}

		if !progressed {
			break
		}
	}

	for _, b := range rd.AllBranches {
		if b.CompID < 0 {
			continue
		}
		if _, done := resolved[b]; !done {
			return nil, simerr.AlgebraicErr("reduce: branch for component %d left unresolved after reduction", b.CompID)
		}
	}
	return resolved, nil
}

// TwoTerminalResistance returns the resistance of the first active branch
// whose endpoints are exactly a and b, or an error if no active branch
// joins them directly; other branches still remaining are not checked
// (spec §4.4 "closed-form resistance/current for the final 2-node network")
func (rd *Reducer) TwoTerminalResistance(a, b int) (float64, error) {
	for _, br := range rd.Branches {
		x0, x1 := endpoints(br.N0, br.N1)
		y0, y1 := endpoints(a, b)
		if x0 == y0 && x1 == y1 {
			return br.R, nil
		}
	}
	return 0, simerr.AlgebraicErr("reduce: no single equivalent branch between nodes %d and %d; reduction did not fully collapse", a, b)
}
