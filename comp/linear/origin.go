// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package linear implements the resistive-network component kinds: origins,
// sources, the enforcer, the linear and square dissipators, and the three
// state-storing linear kinds (self-capacitance, mutual capacitance,
// inductance). These are the kinds the Linear Reducer (package reduce)
// operates on.
package linear

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

func init() {
	comp.SetAllocator("origin-closed", func() comp.Component { return NewOriginClosed(node.Electrical) })
	comp.SetAllocator("origin-open", func() comp.Component { return NewOriginOpen(node.Electrical) })
}

// Origin forces an effort on one node; Closed also forces zero flow,
// Open allows any flow to pass (spec §3)
type Origin struct {
	comp.Base
	Closed bool
	Effort float64
}

// NewOriginClosed returns a closed origin: illegal on a PHASED_FLUID node
func NewOriginClosed(domain node.Domain) *Origin {
	return &Origin{Base: comp.NewBase(comp.KindOriginClosed, domain), Closed: true}
}

// NewOriginOpen returns an open origin: forbidden on an ELECTRICAL node
// (Kirchhoff: an unconstrained-flow boundary has no meaning there)
func NewOriginOpen(domain node.Domain) *Origin {
	return &Origin{Base: comp.NewBase(comp.KindOriginOpen, domain), Closed: false}
}

// SetEffort configures the forced effort e0
func (o *Origin) SetEffort(e float64) { o.Effort = e }

// ConnectTo attaches the origin to node n
func (o *Origin) ConnectTo(arena *node.Arena, n int) error {
	if err := o.Base.RequirePorts(0); err != nil {
		return err
	}
	if o.Closed && o.Domain() == node.PhasedFluid {
		return simerr.ModelErr("origin %q: a closed origin is illegal on a PHASED_FLUID node; use an open origin", o.Name())
	}
	if !o.Closed && o.Domain() == node.Electrical {
		return simerr.ModelErr("origin %q: an open origin is forbidden on an ELECTRICAL node", o.Name())
	}
	return o.Base.Connect(arena, n, o.Closed)
}

func (o *Origin) Prepare(net comp.Network) {}

func (o *Origin) DoCalc(net comp.Network) (progressed bool, err error) {
	p := o.Ports()[0]
	if math.IsNaN(o.Effort) || math.IsInf(o.Effort, 0) {
		return false, simerr.CalcErr("origin %q: forced effort is non-finite", o.Name())
	}
	if _, set := net.Effort(p.NodeID); !set {
		if err = net.SetEffort(p.NodeID, o.Effort, o.ID()); err != nil {
			return
		}
		progressed = true
	}
	if o.Closed {
		if _, set := net.Flow(p.NodeID, p.EdgeIdx); !set {
			if err = net.SetFlow(p.NodeID, p.EdgeIdx, 0, o.ID()); err != nil {
				return
			}
			progressed = true
		}
	}
	return
}

func (o *Origin) Finished(net comp.Network) bool {
	p := o.Ports()[0]
	if _, set := net.Effort(p.NodeID); !set {
		return false
	}
	_, flowSet := net.Flow(p.NodeID, p.EdgeIdx)
	return flowSet
}

func (o *Origin) SetStepTime(dt float64) { o.Base.SetStepTime(dt) }
