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
	comp.SetAllocator("linear-dissipator", func() comp.Component { return NewLinearDissipator(node.Electrical) })
}

// Mode is the dissipator's operating regime (spec §4.2)
type Mode int

const (
	NORMAL Mode = iota // finite, positive R
	BRIDGED             // R = 0: both ends forced to the same effort
	OPEN                // R = +Inf: both ends forced to zero flow
)

// flow sign convention: Edge.Flow is the signed flow delivered BY the
// component INTO the node it belongs to. For a two-terminal dissipator
// with internal current f := (e0-e1)/R flowing from node 0 to node 1,
// the dissipator removes f from node 0 and delivers f into node 1:
//   edge0.Flow = -f = (e1-e0)/R
//   edge1.Flow = +f = (e0-e1)/R
// which matches spec §4.2's "flow = (e0-e1)/R, sign-inverted at n0".

// LinearDissipator relates effort-difference to flow by e0-e1 = f*R
type LinearDissipator struct {
	comp.Base
	Mode Mode
	R    float64
}

// NewLinearDissipator returns a dissipator in NORMAL mode with R=1
func NewLinearDissipator(domain node.Domain) *LinearDissipator {
	return &LinearDissipator{Base: comp.NewBase(comp.KindLinearDissipator, domain), Mode: NORMAL, R: 1}
}

// SetResistance sets R and switches to NORMAL mode
func (d *LinearDissipator) SetResistance(r float64) error {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return simerr.ModelErr("dissipator %q: resistance must be finite and positive, got %v", d.Name(), r)
	}
	d.R = r
	d.Mode = NORMAL
	return nil
}

// SetConductance sets R = 1/g and switches to NORMAL mode
func (d *LinearDissipator) SetConductance(g float64) error {
	if g <= 0 || math.IsNaN(g) || math.IsInf(g, 0) {
		return simerr.ModelErr("dissipator %q: conductance must be finite and positive, got %v", d.Name(), g)
	}
	return d.SetResistance(1 / g)
}

// SetBridged switches to BRIDGED (R=0) mode
func (d *LinearDissipator) SetBridged() { d.Mode = BRIDGED; d.R = 0 }

// SetOpen switches to OPEN (R=+Inf) mode
func (d *LinearDissipator) SetOpen() { d.Mode = OPEN; d.R = math.Inf(1) }

// ConnectBetween attaches the dissipator between n0 and n1
func (d *LinearDissipator) ConnectBetween(arena *node.Arena, n0, n1 int) error {
	if err := d.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := d.Base.Connect(arena, n0, false); err != nil {
		return err
	}
	return d.Base.Connect(arena, n1, false)
}

func (d *LinearDissipator) Prepare(net comp.Network) {}

func (d *LinearDissipator) DoCalc(net comp.Network) (progressed bool, err error) {
	p0, p1 := d.Ports()[0], d.Ports()[1]

	// dead-end node: this dissipator is the only thing attached to one side
	deg0, deg1 := net.EdgeCount(p0.NodeID), net.EdgeCount(p1.NodeID)
	if deg0 == 1 || deg1 == 1 {
		return d.calcDeadEnd(net, p0, p1, deg0 == 1)
	}

	if d.Mode == OPEN {
		return d.calcOpen(net, p0, p1)
	}
	return d.calcCoupled(net, p0, p1)
}

func (d *LinearDissipator) calcDeadEnd(net comp.Network, p0, p1 comp.Port, node0IsDeadEnd bool) (progressed bool, err error) {
	if _, set := net.Flow(p0.NodeID, p0.EdgeIdx); !set {
		if err = net.SetFlow(p0.NodeID, p0.EdgeIdx, 0, d.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, set := net.Flow(p1.NodeID, p1.EdgeIdx); !set {
		if err = net.SetFlow(p1.NodeID, p1.EdgeIdx, 0, d.ID()); err != nil {
			return
		}
		progressed = true
	}
	deadPort, livePort := p0, p1
	if !node0IsDeadEnd {
		deadPort, livePort = p1, p0
	}
	if _, deadSet := net.Effort(deadPort.NodeID); !deadSet {
		if eLive, liveSet := net.Effort(livePort.NodeID); liveSet {
			if err = net.SetEffort(deadPort.NodeID, eLive, d.ID()); err != nil {
				return
			}
			progressed = true
		}
	}
	return
}

func (d *LinearDissipator) calcOpen(net comp.Network, p0, p1 comp.Port) (progressed bool, err error) {
	if f, set := net.Flow(p0.NodeID, p0.EdgeIdx); !set {
		if err = net.SetFlow(p0.NodeID, p0.EdgeIdx, 0, d.ID()); err != nil {
			return
		}
		progressed = true
	} else if math.Abs(f) > 1e-6 {
		net.Report("dissipator %q: OPEN with residual flow %.3g clamped to 0", d.Name(), f)
	}
	if f, set := net.Flow(p1.NodeID, p1.EdgeIdx); !set {
		if err = net.SetFlow(p1.NodeID, p1.EdgeIdx, 0, d.ID()); err != nil {
			return
		}
		progressed = true
	} else if math.Abs(f) > 1e-6 {
		net.Report("dissipator %q: OPEN with residual flow %.3g clamped to 0", d.Name(), f)
	}
	return
}

func (d *LinearDissipator) calcCoupled(net comp.Network, p0, p1 comp.Port) (progressed bool, err error) {
	e0, set0 := net.Effort(p0.NodeID)
	e1, set1 := net.Effort(p1.NodeID)
	f0, fset0 := net.Flow(p0.NodeID, p0.EdgeIdx)
	f1, fset1 := net.Flow(p1.NodeID, p1.EdgeIdx)

	if d.Mode == BRIDGED {
		switch {
		case set0 && !set1:
			if err = net.SetEffort(p1.NodeID, e0, d.ID()); err != nil {
				return
			}
			progressed = true
		case set1 && !set0:
			if err = net.SetEffort(p0.NodeID, e1, d.ID()); err != nil {
				return
			}
			progressed = true
		case set0 && set1:
			if diff := math.Abs(e0 - e1); diff > 1e-2 && (math.Abs(valueOr(f0, fset0))+math.Abs(valueOr(f1, fset1))) > 1e-6 {
				net.Report("dissipator %q: BRIDGED with effort drift %.3g", d.Name(), diff)
			}
		}
		return
	}

	// NORMAL: one effort + same-side flow known -> solve the other effort
	if set0 && fset0 && !set1 {
		if err = net.SetEffort(p1.NodeID, e0-d.R*f0, d.ID()); err != nil {
			return
		}
		return true, nil
	}
	if set1 && fset1 && !set0 {
		if err = net.SetEffort(p0.NodeID, e1+d.R*f1, d.ID()); err != nil {
			return
		}
		return true, nil
	}

	// both efforts known, flows unknown -> solve flow
	if set0 && set1 {
		f := (e0 - e1) / d.R
		if !fset0 {
			if err = net.SetFlow(p0.NodeID, p0.EdgeIdx, -f, d.ID()); err != nil {
				return
			}
			progressed = true
		}
		if !fset1 {
			if err = net.SetFlow(p1.NodeID, p1.EdgeIdx, f, d.ID()); err != nil {
				return
			}
			progressed = true
		}
	}
	return
}

func valueOr(v float64, set bool) float64 {
	if set {
		return v
	}
	return 0
}

func (d *LinearDissipator) Finished(net comp.Network) bool {
	p0, p1 := d.Ports()[0], d.Ports()[1]
	_, e0 := net.Effort(p0.NodeID)
	_, e1 := net.Effort(p1.NodeID)
	_, f0 := net.Flow(p0.NodeID, p0.EdgeIdx)
	_, f1 := net.Flow(p1.NodeID, p1.EdgeIdx)
	return e0 && e1 && f0 && f1
}

// ApplyExternalDelta is used by the Linear Reducer's back-substitution
// pass: given a delta-effort synthesized by a star-delta/polygon or
// series/parallel reduction, complete whichever of flow/effort this
// dissipator is still missing (spec §4.2 "known external delta effort")
func (d *LinearDissipator) ApplyExternalDelta(net comp.Network, deltaE float64) error {
	p0, p1 := d.Ports()[0], d.Ports()[1]
	if d.Mode != OPEN {
		f := deltaE / d.R
		if _, set := net.Flow(p0.NodeID, p0.EdgeIdx); !set {
			if err := net.SetFlow(p0.NodeID, p0.EdgeIdx, -f, d.ID()); err != nil {
				return err
			}
		}
		if _, set := net.Flow(p1.NodeID, p1.EdgeIdx); !set {
			if err := net.SetFlow(p1.NodeID, p1.EdgeIdx, f, d.ID()); err != nil {
				return err
			}
		}
	}
	if e0, set0 := net.Effort(p0.NodeID); set0 {
		if _, set1 := net.Effort(p1.NodeID); !set1 {
			return net.SetEffort(p1.NodeID, e0-deltaE, d.ID())
		}
	}
	return nil
}
