// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/ic"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

func init() {
	comp.SetAllocator("inductance", func() comp.Component { return NewInductance(node.Electrical) })
}

// Inductance forces its state as the flow on each of its 1 or 2 nodes and
// integrates the driving effort into that flow with time-constant Tau
// (spec §3): next_state = state + Δe·Δt/τ, where Δe is the effort at the
// single node (one-port form) or the effort difference across both nodes
type Inductance struct {
	comp.Base
	Tau             float64
	state           float64
	next            float64
	deltaCalculated bool
}

// NewInductance returns an inductance with Tau=1, state=0
func NewInductance(domain node.Domain) *Inductance {
	return &Inductance{Base: comp.NewBase(comp.KindInductance, domain), Tau: 1}
}

// SetTimeConstant sets τ
func (c *Inductance) SetTimeConstant(tau float64) error {
	if tau <= 0 || math.IsNaN(tau) || math.IsInf(tau, 0) {
		return simerr.ModelErr("inductance %q: time constant must be finite and positive", c.Name())
	}
	c.Tau = tau
	return nil
}

// SetInitialState sets the starting flow
func (c *Inductance) SetInitialState(f float64) { c.state = f }

// ConnectTo attaches a single node (one-port form)
func (c *Inductance) ConnectTo(arena *node.Arena, n int) error {
	return c.Base.Connect(arena, n, true)
}

// ConnectBetween attaches two nodes (two-port form)
func (c *Inductance) ConnectBetween(arena *node.Arena, n0, n1 int) error {
	if err := c.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := c.Base.Connect(arena, n0, true); err != nil {
		return err
	}
	return c.Base.Connect(arena, n1, true)
}

func (c *Inductance) State() float64          { return c.state }
func (c *Inductance) TimeConstant() float64   { return c.Tau }
func (c *Inductance) DeltaCalculated() bool   { return c.deltaCalculated }
func (c *Inductance) StageNext(delta float64) { c.next = c.state + delta/c.Tau }

func (c *Inductance) Prepare(net comp.Network) {
	if c.deltaCalculated {
		c.state = c.next
	}
	c.deltaCalculated = false
}

func (c *Inductance) DoCalc(net comp.Network) (progressed bool, err error) {
	ports := c.Ports()
	if _, set := net.Flow(ports[0].NodeID, ports[0].EdgeIdx); !set {
		if err = net.SetFlow(ports[0].NodeID, ports[0].EdgeIdx, c.state, c.ID()); err != nil {
			return
		}
		progressed = true
	}
	if len(ports) == 2 {
		if _, set := net.Flow(ports[1].NodeID, ports[1].EdgeIdx); !set {
			if err = net.SetFlow(ports[1].NodeID, ports[1].EdgeIdx, -c.state, c.ID()); err != nil {
				return
			}
			progressed = true
		}
	}
	if !c.deltaCalculated {
		e0, set0 := net.Effort(ports[0].NodeID)
		if len(ports) == 1 && set0 {
			c.StageNext(e0 * net.StepTime())
			c.deltaCalculated = true
			progressed = true
		} else if len(ports) == 2 {
			e1, set1 := net.Effort(ports[1].NodeID)
			if set0 && set1 {
				c.StageNext((e0 - e1) * net.StepTime())
				c.deltaCalculated = true
				progressed = true
			}
		}
	}
	return
}

// SaveIC captures the current flow state as an opaque record
func (c *Inductance) SaveIC() ic.Record { return ic.NewRecord(c.Name(), c.state) }

// LoadIC restores the flow state from a record
func (c *Inductance) LoadIC(r ic.Record) error {
	if r.Name != c.Name() {
		return simerr.ModelErr("inductance %q: IC record name %q does not match", c.Name(), r.Name)
	}
	c.state, c.next = r.Scalars[0], r.Scalars[0]
	return nil
}

func (c *Inductance) Finished(net comp.Network) bool {
	if !c.deltaCalculated {
		return false
	}
	for _, p := range c.Ports() {
		if _, set := net.Effort(p.NodeID); !set {
			return false
		}
		if _, set := net.Flow(p.NodeID, p.EdgeIdx); !set {
			return false
		}
	}
	return true
}
