// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
	"github.com/cpmech/gosl/fun"
)

func init() {
	comp.SetAllocator("effort-source", func() comp.Component { return NewEffortSource(node.Electrical) })
	comp.SetAllocator("flow-source", func() comp.Component { return NewFlowSource(node.Electrical) })
}

// EffortSource forces effort(n1) = effort(n0) + E, passing flow through
// unconstrained; it carries an armed flag so a cross-domain bridge (e.g. a
// thermal effort source embedded in a phased-fluid exchanger) can be wired
// before the driving value is known, and only starts propagating once
// SetEffort is first called (spec §3)
type EffortSource struct {
	comp.Base
	E        float64
	armed    bool
	TimeFunc fun.Func // when set, E is re-evaluated at TimeFunc.F(t, nil) every tick instead of held fixed
}

// NewEffortSource returns an unarmed effort source
func NewEffortSource(domain node.Domain) *EffortSource {
	return &EffortSource{Base: comp.NewBase(comp.KindEffortSource, domain)}
}

// ConnectBetween attaches the source between n0 (reference) and n1 (n0+E)
func (s *EffortSource) ConnectBetween(arena *node.Arena, n0, n1 int) error {
	if err := s.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := s.Base.Connect(arena, n0, false); err != nil {
		return err
	}
	return s.Base.Connect(arena, n1, false)
}

// SetEffort configures (and arms) the effort difference E
func (s *EffortSource) SetEffort(e float64) { s.E = e; s.armed = true }

// Armed reports whether SetEffort has been called since construction
func (s *EffortSource) Armed() bool { return s.armed }

// SetTimeFunc arms the source with a time-varying driver: E is recomputed
// from f every tick instead of held fixed (spec §6 "function of time" mode)
func (s *EffortSource) SetTimeFunc(f fun.Func) { s.TimeFunc = f; s.armed = true }

func (s *EffortSource) Prepare(net comp.Network) {}

func (s *EffortSource) DoCalc(net comp.Network) (progressed bool, err error) {
	if !s.armed {
		return false, nil
	}
	if s.TimeFunc != nil {
		s.E = s.TimeFunc.F(net.Time(), nil)
	}
	if math.IsNaN(s.E) || math.IsInf(s.E, 0) {
		return false, simerr.CalcErr("effort source %q: E is non-finite", s.Name())
	}
	p0, p1 := s.Ports()[0], s.Ports()[1]
	e0, set0 := net.Effort(p0.NodeID)
	e1, set1 := net.Effort(p1.NodeID)
	switch {
	case set0 && !set1:
		if err = net.SetEffort(p1.NodeID, e0+s.E, s.ID()); err != nil {
			return
		}
		progressed = true
	case set1 && !set0:
		if err = net.SetEffort(p0.NodeID, e1-s.E, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	return
}

func (s *EffortSource) Finished(net comp.Network) bool {
	p0, p1 := s.Ports()[0], s.Ports()[1]
	_, e0 := net.Effort(p0.NodeID)
	_, e1 := net.Effort(p1.NodeID)
	_, f0 := net.Flow(p0.NodeID, p0.EdgeIdx)
	_, f1 := net.Flow(p1.NodeID, p1.EdgeIdx)
	return e0 && e1 && f0 && f1
}

// FlowSource forces flow +F into n0 and -F out of n1; it rejects any flow
// set by the node-balance closure on either of its own edges (both ports
// are Exclusive), but a self-loop where both its nodes reduce to itself is
// permitted and must not raise (spec §3, §8 "allow_looping")
type FlowSource struct {
	comp.Base
	F        float64
	TimeFunc fun.Func // when set, F is re-evaluated at TimeFunc.F(t, nil) every tick instead of held fixed
}

// NewFlowSource returns a flow source with F=0
func NewFlowSource(domain node.Domain) *FlowSource {
	return &FlowSource{Base: comp.NewBase(comp.KindFlowSource, domain)}
}

// SetFlow configures the forced flow magnitude F
func (s *FlowSource) SetFlow(f float64) { s.F = f }

// SetTimeFunc arms the source with a time-varying driver: F is recomputed
// from f every tick instead of held fixed (spec §6 "function of time" mode)
func (s *FlowSource) SetTimeFunc(f fun.Func) { s.TimeFunc = f }

// ConnectBetween attaches the source between n0 (flow enters) and n1 (flow exits)
func (s *FlowSource) ConnectBetween(arena *node.Arena, n0, n1 int) error {
	if err := s.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := s.Base.Connect(arena, n0, true); err != nil {
		return err
	}
	return s.Base.Connect(arena, n1, true)
}

func (s *FlowSource) Prepare(net comp.Network) {}

func (s *FlowSource) DoCalc(net comp.Network) (progressed bool, err error) {
	if s.TimeFunc != nil {
		s.F = s.TimeFunc.F(net.Time(), nil)
	}
	if math.IsNaN(s.F) || math.IsInf(s.F, 0) {
		return false, simerr.CalcErr("flow source %q: F is non-finite", s.Name())
	}
	p0, p1 := s.Ports()[0], s.Ports()[1]
	if _, set := net.Flow(p0.NodeID, p0.EdgeIdx); !set {
		if err = net.SetFlow(p0.NodeID, p0.EdgeIdx, s.F, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, set := net.Flow(p1.NodeID, p1.EdgeIdx); !set {
		if err = net.SetFlow(p1.NodeID, p1.EdgeIdx, -s.F, s.ID()); err != nil {
			return
		}
		progressed = true
	}
	return
}

func (s *FlowSource) Finished(net comp.Network) bool {
	p0, p1 := s.Ports()[0], s.Ports()[1]
	_, e0 := net.Effort(p0.NodeID)
	_, e1 := net.Effort(p1.NodeID)
	_, f0 := net.Flow(p0.NodeID, p0.EdgeIdx)
	_, f1 := net.Flow(p1.NodeID, p1.EdgeIdx)
	return e0 && e1 && f0 && f1
}
