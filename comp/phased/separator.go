// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/fluid"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

func init() {
	comp.SetAllocator("phase-separator", func() comp.Component { return NewPhaseSeparator() })
}

// PhaseSeparator splits one inbound phased-fluid stream into a steam
// outlet and a liquid outlet by vapor fraction (spec §3, §4.8
// "phase-separating vessel"). Stateless: the split is recomputed every
// tick from the inlet's mixed enthalpy and the node pressure. Ports:
// [0]=inlet, [1]=steam outlet, [2]=liquid outlet.
type PhaseSeparator struct {
	comp.Base
	Props fluid.Properties
}

// NewPhaseSeparator returns an unconfigured separator
func NewPhaseSeparator() *PhaseSeparator {
	return &PhaseSeparator{Base: comp.NewBase(comp.KindPhaseSeparator, node.PhasedFluid)}
}

// SetFluidProperties installs the saturation/vapor-fraction model
func (s *PhaseSeparator) SetFluidProperties(p fluid.Properties) { s.Props = p }

// ConnectTo attaches the inlet, steam outlet, and liquid outlet, in that
// order
func (s *PhaseSeparator) ConnectTo(arena *node.Arena, inlet, steamOut, liquidOut int) error {
	if err := s.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := s.Base.Connect(arena, inlet, false); err != nil {
		return err
	}
	if err := s.Base.Connect(arena, steamOut, true); err != nil {
		return err
	}
	return s.Base.Connect(arena, liquidOut, true)
}

func (s *PhaseSeparator) Prepare(net comp.Network) {}

func (s *PhaseSeparator) DoCalc(net comp.Network) (progressed bool, err error) {
	if s.Props == nil {
		return false, simerr.ModelErr("phase-separator %q: no FluidProperties installed", s.Name())
	}
	inlet, steamOut, liquidOut := s.Ports()[0], s.Ports()[1], s.Ports()[2]

	p, pset := net.Effort(inlet.NodeID)
	fIn, finSet := net.Flow(inlet.NodeID, inlet.EdgeIdx)
	hIn, hInSet, noEnergy := net.Heat(inlet.NodeID, inlet.EdgeIdx)
	if !pset || !finSet || (!hInSet && !noEnergy) {
		return
	}
	if noEnergy {
		hIn = s.Props.HLiqSat(p)
	}

	hLiqSat := s.Props.HLiqSat(p)
	hSteam := hLiqSat + s.Props.HEvap()
	x := s.Props.X(hIn, p)
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}

	if _, set := net.Effort(steamOut.NodeID); !set {
		if err = net.SetEffort(steamOut.NodeID, p, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, set := net.Effort(liquidOut.NodeID); !set {
		if err = net.SetEffort(liquidOut.NodeID, p, s.ID()); err != nil {
			return
		}
		progressed = true
	}

	if _, set := net.Flow(steamOut.NodeID, steamOut.EdgeIdx); !set {
		if err = net.SetFlow(steamOut.NodeID, steamOut.EdgeIdx, -x*fIn, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, set := net.Flow(liquidOut.NodeID, liquidOut.EdgeIdx); !set {
		if err = net.SetFlow(liquidOut.NodeID, liquidOut.EdgeIdx, -(1-x)*fIn, s.ID()); err != nil {
			return
		}
		progressed = true
	}

	if _, set, noEnergy := net.Heat(steamOut.NodeID, steamOut.EdgeIdx); !set && !noEnergy {
		if math.Abs(x*fIn) < 1e-12 {
			net.SetNoEnergy(steamOut.NodeID, steamOut.EdgeIdx)
		} else if err = net.SetHeat(steamOut.NodeID, steamOut.EdgeIdx, hSteam, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, set, noEnergy := net.Heat(liquidOut.NodeID, liquidOut.EdgeIdx); !set && !noEnergy {
		if math.Abs((1-x)*fIn) < 1e-12 {
			net.SetNoEnergy(liquidOut.NodeID, liquidOut.EdgeIdx)
		} else if err = net.SetHeat(liquidOut.NodeID, liquidOut.EdgeIdx, hLiqSat, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	return
}

func (s *PhaseSeparator) Finished(net comp.Network) bool {
	for _, p := range s.Ports() {
		if _, set := net.Effort(p.NodeID); !set {
			return false
		}
		if _, set := net.Flow(p.NodeID, p.EdgeIdx); !set {
			return false
		}
		if _, set, noEnergy := net.Heat(p.NodeID, p.EdgeIdx); !set && !noEnergy {
			return false
		}
	}
	return true
}
