// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import (
	"math"

	"github.com/cpmech/bondnet/comp"
	"github.com/cpmech/bondnet/fluid"
	"github.com/cpmech/bondnet/ic"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

func init() {
	comp.SetAllocator("closed-steamed-reservoir", func() comp.Component { return NewClosedSteamedReservoir() })
}

// ClosedSteamedReservoir is a self-capacitance over mass: a sealed volume
// that integrates net mass inflow and reports a pressure floor of either
// the ambient pressure or the saturation pressure implied by the
// accumulated vapor, whichever is higher (spec §3 "closed-steamed
// reservoir"). It shares the self-capacitance integration shape — state is
// mass here rather than effort — and carries its own pressure as the
// node-side effort.
type ClosedSteamedReservoir struct {
	comp.Base
	AmbientPressure float64
	Props           fluid.Properties

	state           float64 // kg, accumulated mass
	next            float64
	innerEnthalpy   float64 // J/kg, mixed enthalpy of the accumulated mass
	deltaCalculated bool
}

// NewClosedSteamedReservoir returns a reservoir floored at standard
// atmospheric pressure with zero accumulated mass
func NewClosedSteamedReservoir() *ClosedSteamedReservoir {
	return &ClosedSteamedReservoir{
		Base:            comp.NewBase(comp.KindClosedSteamedReservoir, node.PhasedFluid),
		AmbientPressure: 101325,
	}
}

// SetAmbientPressure sets the floor pressure
func (r *ClosedSteamedReservoir) SetAmbientPressure(p float64) error {
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return simerr.ModelErr("closed-steamed-reservoir %q: ambient pressure must be finite and positive", r.Name())
	}
	r.AmbientPressure = p
	return nil
}

// SetFluidProperties installs the saturation model used to floor pressure
func (r *ClosedSteamedReservoir) SetFluidProperties(p fluid.Properties) { r.Props = p }

// SetInitialState sets the starting accumulated mass and enthalpy
func (r *ClosedSteamedReservoir) SetInitialState(mass, h float64) {
	r.state = mass
	r.innerEnthalpy = h
}

// ConnectTo attaches the single fluid-side node
func (r *ClosedSteamedReservoir) ConnectTo(arena *node.Arena, n int) error {
	return r.Base.Connect(arena, n, false)
}

func (r *ClosedSteamedReservoir) State() float64          { return r.state }
func (r *ClosedSteamedReservoir) TimeConstant() float64   { return 1 }
func (r *ClosedSteamedReservoir) DeltaCalculated() bool   { return r.deltaCalculated }
func (r *ClosedSteamedReservoir) StageNext(delta float64) { r.next = r.state + delta }

func (r *ClosedSteamedReservoir) Prepare(net comp.Network) {
	if r.deltaCalculated {
		r.state = r.next
	}
	r.deltaCalculated = false
}

func (r *ClosedSteamedReservoir) DoCalc(net comp.Network) (progressed bool, err error) {
	port := r.Ports()[0]

	pressure := r.AmbientPressure
	if r.Props != nil {
		if tSat := r.Props.TSat(pressure); !math.IsNaN(tSat) {
			if pSat := r.Props.PSat(r.Props.T(r.innerEnthalpy, pressure)); pSat > pressure {
				pressure = pSat
			}
		}
	}

	if _, set := net.Effort(port.NodeID); !set {
		if err = net.SetEffort(port.NodeID, pressure, r.ID()); err != nil {
			return
		}
		progressed = true
	}

	if !r.deltaCalculated {
		if f, set := net.Flow(port.NodeID, port.EdgeIdx); set {
			r.StageNext(f * net.StepTime())
			r.deltaCalculated = true
			progressed = true
		}
	}
	return
}

// SaveIC captures accumulated mass and mixed enthalpy as an opaque record
func (r *ClosedSteamedReservoir) SaveIC() ic.Record {
	return ic.NewRecord(r.Name(), r.state, r.innerEnthalpy)
}

// LoadIC restores accumulated mass and mixed enthalpy from a record
func (r *ClosedSteamedReservoir) LoadIC(rec ic.Record) error {
	if rec.Name != r.Name() {
		return simerr.ModelErr("closed-steamed-reservoir %q: IC record name %q does not match", r.Name(), rec.Name)
	}
	r.state, r.next = rec.Scalars[0], rec.Scalars[0]
	r.innerEnthalpy = rec.Scalars[1]
	return nil
}

func (r *ClosedSteamedReservoir) Finished(net comp.Network) bool {
	if !r.deltaCalculated {
		return false
	}
	port := r.Ports()[0]
	if _, set := net.Effort(port.NodeID); !set {
		return false
	}
	_, set := net.Flow(port.NodeID, port.EdgeIdx)
	return set
}
