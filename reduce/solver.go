// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"github.com/cpmech/bondnet/simerr"
	"github.com/cpmech/bondnet/solver"
)

// Solver is the full Solver API of spec §6: register_node and
// register_element plus the per-tick triplet come straight from the
// embedded *solver.Engine/*solver.Network, and the three setup-entry
// methods below arm the reducer tiers DoCalculation escalates to when the
// plain propagation sweep stalls (spec §4.1/§6 "exceeding it means the
// configured solver is insufficient — escalate to the next reducer tier or
// fail with no-solution"). This type, not solver.Engine, is where that
// wiring has to live: reduce already imports solver for *solver.Network,
// so solver cannot import reduce back without a cycle.
type Solver struct {
	*solver.Engine

	simplification *Reducer
	superposition  *Superposition
	transfer       *TransferSolver
}

// NewSolver returns a Solver over net with no escalation tier armed yet
func NewSolver(net *solver.Network) *Solver {
	return &Solver{Engine: solver.NewEngine(net)}
}

// RecursiveSimplificationSetup arms the Linear Reducer (spec §4.4) as an
// escalation tier: subnetNodeIDs is every node in the linear-dissipator
// sub-network to flatten, originNodeIDs the terminals (source/ground) that
// must survive the reduction as the two-terminal network's endpoints.
func (s *Solver) RecursiveSimplificationSetup(originNodeIDs, subnetNodeIDs []int) {
	rd := NewReducer(s.Engine.Net)
	for _, id := range originNodeIDs {
		rd.Origins[id] = true
	}
	rd.Discover(subnetNodeIDs)
	s.simplification = rd
}

// SuperPositionSetup arms the Superposition Solver (spec §4.6) as an
// escalation tier over a sub-network driven by more than one independent
// source.
func (s *Solver) SuperPositionSetup(originNodeIDs, subnetNodeIDs []int, sources []*Source) {
	sp := NewSuperposition(s.Engine.Net)
	for _, id := range originNodeIDs {
		sp.Origins[id] = true
	}
	sp.SubnetNodes = subnetNodeIDs
	sp.Sources = sources
	s.superposition = sp
}

// SetupTransferSubnet arms the Transfer-Subnet Solver (spec §4.7) as an
// escalation tier over a resistor bridge trapped between already-pinned
// (capacitance- or origin-held) nodes.
func (s *Solver) SetupTransferSubnet(subnetNodeIDs []int) {
	s.transfer = NewTransferSolver(s.Engine.Net)
	s.transfer.SubnetNodes = subnetNodeIDs
}

// DoCalculation runs the ordinary propagation sweep (spec §6
// do_calculation) and, if the network isn't fully resolved afterward,
// escalates through whichever tiers the setup-entry methods armed, in the
// order spec §4.1 lists them: recursive simplification, then
// superposition, then the transfer-subnet solver. A stalled sweep need not
// itself return an error — propagate() reports a clean nil the moment one
// sweep makes zero progress, even if the network is far from resolved
// (e.g. every dissipator in a bridge waiting on the other side) — so the
// real stall signal this checks is IsCalculationFinished, not propagate's
// own error. After each tier that runs without error, the sweep is retried
// so newly pinned efforts/flows propagate to whatever the tier didn't
// touch directly. It returns an AlgebraicErr (spec §6 "fail with
// no-solution") if no armed tier leaves the network finished.
func (s *Solver) DoCalculation() error {
	err := s.Engine.DoCalculation()
	if err != nil && !simerr.Is(err, simerr.Algebraic) {
		return err
	}
	if err == nil && s.Engine.IsCalculationFinished() {
		return nil
	}

	for _, escalate := range []func() error{
		s.tryRecursiveSimplification,
		s.trySuperposition,
		s.tryTransferSubnet,
	} {
		if escalate() != nil {
			continue
		}
		err = s.Engine.DoCalculation()
		if err == nil && s.Engine.IsCalculationFinished() {
			return nil
		}
	}
	if err != nil {
		return err
	}
	return simerr.AlgebraicErr("network did not converge even after escalating through every armed reducer tier")
}

func (s *Solver) tryRecursiveSimplification() error {
	if s.simplification == nil {
		return simerr.AlgebraicErr("recursive simplification not armed")
	}
	if err := s.simplification.Reduce(); err != nil {
		return err
	}
	return s.simplification.Solve()
}

func (s *Solver) trySuperposition() error {
	if s.superposition == nil {
		return simerr.AlgebraicErr("superposition not armed")
	}
	overlays, err := s.superposition.Solve()
	if err != nil {
		return err
	}
	return s.superposition.Sum(overlays)
}

func (s *Solver) tryTransferSubnet() error {
	if s.transfer == nil {
		return simerr.AlgebraicErr("transfer-subnet not armed")
	}
	return s.transfer.Solve()
}

// Tick runs prepare and the escalating do_calculation above, mirroring
// solver.Engine.Tick but with escalation wired in.
func (s *Solver) Tick() error {
	s.Engine.PrepareCalculation()
	return s.DoCalculation()
}
