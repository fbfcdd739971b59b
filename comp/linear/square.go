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

// EnableSquareDissipator gates SquareDissipator.DoCalc. The original
// implementation's header reads "DO NOT USE! IT'S NOT WORKING!" (spec §9
// open question) — it is kept for completeness but never exercised by any
// reduction tier or default test, and defaults to disabled.
var EnableSquareDissipator = false

func init() {
	comp.SetAllocator("square-dissipator", func() comp.Component { return NewSquareDissipator(node.Electrical) })
}

// SquareDissipator relates effort-difference to flow by
// e0-e1 = sign(f)*f^2*zeta, a quadratic drag law (e.g. turbulent orifice
// loss). EXPERIMENTAL: known to be numerically unstable at discrete time
// steps; see EnableSquareDissipator.
type SquareDissipator struct {
	comp.Base
	Zeta float64
}

// NewSquareDissipator returns a square dissipator with zeta=1
func NewSquareDissipator(domain node.Domain) *SquareDissipator {
	return &SquareDissipator{Base: comp.NewBase(comp.KindSquareDissipator, domain), Zeta: 1}
}

// SetZeta sets the quadratic loss coefficient
func (d *SquareDissipator) SetZeta(zeta float64) error {
	if zeta <= 0 || math.IsNaN(zeta) || math.IsInf(zeta, 0) {
		return simerr.ModelErr("square dissipator %q: zeta must be finite and positive", d.Name())
	}
	d.Zeta = zeta
	return nil
}

// ConnectBetween attaches the dissipator between n0 and n1
func (d *SquareDissipator) ConnectBetween(arena *node.Arena, n0, n1 int) error {
	if err := d.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := d.Base.Connect(arena, n0, false); err != nil {
		return err
	}
	return d.Base.Connect(arena, n1, false)
}

func (d *SquareDissipator) Prepare(net comp.Network) {}

func (d *SquareDissipator) DoCalc(net comp.Network) (progressed bool, err error) {
	if !EnableSquareDissipator {
		return false, simerr.ModelErr("square dissipator %q: disabled (EnableSquareDissipator=false); this kind is experimental and known-unstable", d.Name())
	}
	p0, p1 := d.Ports()[0], d.Ports()[1]
	e0, set0 := net.Effort(p0.NodeID)
	e1, set1 := net.Effort(p1.NodeID)
	f0, fset0 := net.Flow(p0.NodeID, p0.EdgeIdx)

	if set0 && set1 {
		delta := e0 - e1
		f := math.Copysign(math.Sqrt(math.Abs(delta)/d.Zeta), delta)
		if !fset0 {
			if err = net.SetFlow(p0.NodeID, p0.EdgeIdx, -f, d.ID()); err != nil {
				return
			}
			progressed = true
		}
		if _, set := net.Flow(p1.NodeID, p1.EdgeIdx); !set {
			if err = net.SetFlow(p1.NodeID, p1.EdgeIdx, f, d.ID()); err != nil {
				return
			}
			progressed = true
		}
		return
	}
	if set0 && fset0 && !set1 {
		delta := math.Copysign(f0*f0, f0) * d.Zeta
		if err = net.SetEffort(p1.NodeID, e0-delta, d.ID()); err != nil {
			return
		}
		progressed = true
	}
	return
}

func (d *SquareDissipator) Finished(net comp.Network) bool {
	p0, p1 := d.Ports()[0], d.Ports()[1]
	_, e0 := net.Effort(p0.NodeID)
	_, e1 := net.Effort(p1.NodeID)
	_, f0 := net.Flow(p0.NodeID, p0.EdgeIdx)
	_, f1 := net.Flow(p1.NodeID, p1.EdgeIdx)
	return e0 && e1 && f0 && f1
}
