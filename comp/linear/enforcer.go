// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

func init() {
	comp.SetAllocator("enforcer", func() comp.Component { return NewEnforcer(node.Electrical) })
}

// Enforcer forces both effort and flow on its single node: an arbitrary
// source used by test harnesses and as the phased-fluid interface (spec §3)
type Enforcer struct {
	comp.Base
	Effort float64
	Flow   float64
}

// NewEnforcer returns an enforcer with effort=flow=0
func NewEnforcer(domain node.Domain) *Enforcer {
	return &Enforcer{Base: comp.NewBase(comp.KindEnforcer, domain)}
}

// ConnectTo attaches the enforcer to node n
func (e *Enforcer) ConnectTo(arena *node.Arena, n int) error {
	if err := e.Base.RequirePorts(0); err != nil {
		return err
	}
	return e.Base.Connect(arena, n, true)
}

// SetEffort configures the forced effort.
//
// NOTE: preserved quirk — the finiteness check below validates the
// component's *existing* Effort field, not the incoming argument newEffort, before
// accepting it. This mirrors a latent bug in the original implementation
// (spec §9 open question); behaviour is preserved rather than silently
// corrected, and is flagged here rather than fixed.
func (e *Enforcer) SetEffort(newEffort float64) error {
	if math.IsNaN(e.Effort) || math.IsInf(e.Effort, 0) {
		return simerr.CalcErr("enforcer %q: effort is non-finite", e.Name())
	}
	e.Effort = newEffort
	return nil
}

// SetFlow configures the forced flow
func (e *Enforcer) SetFlow(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return simerr.CalcErr("enforcer %q: flow is non-finite", e.Name())
	}
	e.Flow = f
	return nil
}

func (e *Enforcer) Prepare(net comp.Network) {}

func (e *Enforcer) DoCalc(net comp.Network) (progressed bool, err error) {
	p := e.Ports()[0]
	if _, set := net.Effort(p.NodeID); !set {
		if err = net.SetEffort(p.NodeID, e.Effort, e.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, set := net.Flow(p.NodeID, p.EdgeIdx); !set {
		if err = net.SetFlow(p.NodeID, p.EdgeIdx, e.Flow, e.ID()); err != nil {
			return
		}
		progressed = true
	}
	return
}

func (e *Enforcer) Finished(net comp.Network) bool {
	p := e.Ports()[0]
	_, eSet := net.Effort(p.NodeID)
	_, fSet := net.Flow(p.NodeID, p.EdgeIdx)
	return eSet && fSet
}
