// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"github.com/cpmech/bondnet/simerr"
	"github.com/cpmech/bondnet/solver"
)

// TransferSolver is the Transfer-Subnet Solver of spec §4.7: it unblocks a
// resistor bridge trapped between two or more state-storing capacitances
// (or an origin) whose pinned node efforts the plain propagation sweep
// cannot connect through on its own, because the bridge between them needs
// a star-delta/polygon transform the sweep has no mechanism for.
//
// Every self-capacitance already forces its own port efforts to its
// current state unconditionally, as the very first thing its own DoCalc
// does (comp/linear's SelfCapacitance) — it never waits on a flow to do
// so. A MutualCapacitance does not pin either port on its own: it sets one
// port's effort only once the other port's effort is known. The
// self-capacitance behavior is precisely spec §4.7's "replace
// self-capacitances with effort sources at current state": by the time
// this solver runs, those effort values are already sitting in the
// network, one per port, which is also precisely the "synthetic origin
// per extra port" behavior a multi-port capacitance needs — no additional
// machinery is required to produce either. This solver's own remaining job
// is narrower: run the Linear Reducer over the dissipator bridge
// connecting those already-pinned nodes so its flows resolve; the ordinary
// engine's node-balance closure and each capacitance's own DoCalc then
// integrate the newly available flows on the very next tick, exactly as
// they would for any other bridge the Reducer unblocks.
type TransferSolver struct {
	Net *solver.Network

	// SubnetNodes lists every node ID in the trapped resistor sub-network,
	// including every pinned (capacitance- or origin-held) terminal.
	SubnetNodes []int
}

// NewTransferSolver returns an empty solver over net
func NewTransferSolver(net *solver.Network) *TransferSolver {
	return &TransferSolver{Net: net}
}

// Solve protects every already-pinned node in SubnetNodes as a Reducer
// origin, reduces the bridge between them, and applies the recovered
// flows. It fails if no node in the subnet has a resolved effort yet — the
// reduction has no reference to solve relative to.
func (ts *TransferSolver) Solve() error {
	rd := NewReducer(ts.Net)
	pinned := 0
	for _, nid := range ts.SubnetNodes {
		if _, set := ts.Net.Effort(nid); set {
			rd.Origins[nid] = true
			pinned++
		}
	}
	if pinned == 0 {
		return simerr.AlgebraicErr("transfer-subnet solver: no pinned (capacitance or origin) effort found in subnet; cannot solve without a reference")
	}
	rd.Discover(ts.SubnetNodes)
	if err := rd.Reduce(); err != nil {
		return err
	}
	return rd.Solve()
}
