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
	comp.SetAllocator("expanding-thermal-exchanger", func() comp.Component { return NewExpandingThermalExchanger() })
}

// evapState is the expanding exchanger's explicit mini-FSM (spec §4.9)
type evapState int

const (
	evapIdle evapState = iota
	evapNormalFlow
	evapReverseFlowPending
	evapReverseFlowResolved
)

// ExpandingThermalExchanger is an isobaric evaporator of fixed volume V: it
// tracks inner_mass, h_internal (State) and h_delayed_in, and ejects mass
// through its outlet as the fluid's density drops on vaporization (spec §3,
// §4.8 "expanding thermal volume"). Ports: [0]=inlet, [1]=outlet, both on
// PHASED_FLUID nodes; pressure is read off whichever port resolves its
// effort first, since the volume is isobaric across both.
type ExpandingThermalExchanger struct {
	comp.Base
	Volume float64 // m^3
	Props  fluid.Properties

	innerMass     float64
	nextInnerMass float64
	hDelayedIn    float64
	nextDelayedIn float64

	state           float64 // J/kg, h_internal
	next            float64
	deltaCalculated bool

	fsm          evapState
	negativeMass float64 // accumulated shortfall carried to future positive outflow
}

// NewExpandingThermalExchanger returns an evaporator with V=1, inner_mass=1
func NewExpandingThermalExchanger() *ExpandingThermalExchanger {
	return &ExpandingThermalExchanger{
		Base:      comp.NewBase(comp.KindExpandingThermalExchanger, node.PhasedFluid),
		Volume:    1,
		innerMass: 1,
		fsm:       evapIdle,
	}
}

// SetVolume sets V
func (e *ExpandingThermalExchanger) SetVolume(v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return simerr.ModelErr("expanding-thermal-exchanger %q: volume must be finite and positive", e.Name())
	}
	e.Volume = v
	return nil
}

// SetFluidProperties installs the density/saturation model driving the
// average-density integral
func (e *ExpandingThermalExchanger) SetFluidProperties(p fluid.Properties) { e.Props = p }

// SetInitialState sets starting internal enthalpy and mass
func (e *ExpandingThermalExchanger) SetInitialState(h, mass float64) {
	e.state = h
	e.innerMass = mass
	e.hDelayedIn = h
	e.nextInnerMass = mass
	e.nextDelayedIn = h
}

// ConnectTo attaches the inlet and outlet nodes, in that order
func (e *ExpandingThermalExchanger) ConnectTo(arena *node.Arena, inlet, outlet int) error {
	if err := e.Base.RequirePorts(0); err != nil {
		return err
	}
	if err := e.Base.Connect(arena, inlet, false); err != nil {
		return err
	}
	return e.Base.Connect(arena, outlet, true)
}

func (e *ExpandingThermalExchanger) State() float64          { return e.state }
func (e *ExpandingThermalExchanger) TimeConstant() float64   { return 1 }
func (e *ExpandingThermalExchanger) DeltaCalculated() bool   { return e.deltaCalculated }
func (e *ExpandingThermalExchanger) StageNext(delta float64) { e.next = e.state + delta }

func (e *ExpandingThermalExchanger) Prepare(net comp.Network) {
	if e.deltaCalculated {
		e.state = e.next
		e.innerMass = e.nextInnerMass
		e.hDelayedIn = e.nextDelayedIn
	}
	e.deltaCalculated = false
	if e.fsm == evapReverseFlowResolved || e.fsm == evapNormalFlow {
		e.fsm = evapIdle
	}
}

func (e *ExpandingThermalExchanger) pressure(net comp.Network) (float64, bool) {
	inlet, outlet := e.Ports()[0], e.Ports()[1]
	if p, set := net.Effort(inlet.NodeID); set {
		return p, true
	}
	return net.Effort(outlet.NodeID)
}

func (e *ExpandingThermalExchanger) DoCalc(net comp.Network) (progressed bool, err error) {
	inlet, outlet := e.Ports()[0], e.Ports()[1]
	dt := net.StepTime()

	p, pset := e.pressure(net)
	if pset {
		if _, set := net.Effort(inlet.NodeID); !set {
			if err = net.SetEffort(inlet.NodeID, p, e.ID()); err != nil {
				return
			}
			progressed = true
		}
		if _, set := net.Effort(outlet.NodeID); !set {
			if err = net.SetEffort(outlet.NodeID, p, e.ID()); err != nil {
				return
			}
			progressed = true
		}
	}

	fIn, finSet := net.Flow(inlet.NodeID, inlet.EdgeIdx)
	_, foutSet := net.Flow(outlet.NodeID, outlet.EdgeIdx)

	// reverse-flow regime: the inlet edge resolves to an outflow (fIn<0)
	// instead of the expected inflow — spec §4.9's REVERSE_FLOW_PENDING
	// branch. Provisionally set the outlet flow from volume conservation,
	// then finalize once the inlet's own h arrives on a later pass.
	if finSet && fIn < -1e-12 && e.fsm == evapIdle {
		e.fsm = evapReverseFlowPending
	}
	if e.fsm == evapReverseFlowPending {
		if !foutSet {
			if err = net.SetFlow(outlet.NodeID, outlet.EdgeIdx, -fIn, e.ID()); err != nil {
				return
			}
			progressed = true
		}
		hIn, hInSet, _ := net.Heat(inlet.NodeID, inlet.EdgeIdx)
		if hInSet {
			if _, hset, _ := net.Heat(outlet.NodeID, outlet.EdgeIdx); !hset {
				if err = net.SetHeat(outlet.NodeID, outlet.EdgeIdx, hIn, e.ID()); err != nil {
					return
				}
				progressed = true
			}
			e.fsm = evapReverseFlowResolved
			if !e.deltaCalculated {
				e.next = e.state
				e.nextInnerMass = e.innerMass
				e.nextDelayedIn = e.hDelayedIn
				e.deltaCalculated = true
				progressed = true
			}
		}
		return
	}

	if !finSet || !pset || e.Props == nil {
		return
	}
	e.fsm = evapNormalFlow

	hIn, hInSet, noEnergyIn := net.Heat(inlet.NodeID, inlet.EdgeIdx)
	if fIn > 1e-12 && !hInSet && !noEnergyIn {
		return // wait for the mixing closure to resolve the inlet's enthalpy
	}
	if fIn <= 1e-12 {
		hIn = 0
	}

	// step 1: energy without outflow (spec §4.8 step 1), degenerate when
	// there is no inflow
	var ePrime float64
	if fIn > 1e-12 {
		ePrime = (e.innerMass*e.state + fIn*dt*hIn) / (e.innerMass + fIn*dt)
	} else {
		ePrime = e.state
	}

	// step 2: PT1 update of the density-weighting anchor
	hDelayedNext := e.hDelayedIn
	if e.innerMass > 0 {
		hDelayedNext = e.hDelayedIn + dt*(fIn/e.innerMass)*(hIn-e.hDelayedIn)
	}

	// step 3: average density over the path from the anchor to e'
	rhoAvg := e.Props.RhoAvg(hDelayedNext, ePrime, p)
	mCapacity := rhoAvg * e.Volume

	// step 4: mass ejected this tick
	mOut := e.innerMass - mCapacity + fIn*dt

	if !foutSet {
		outFlow := 0.0
		if dt > 0 {
			outFlow = -mOut / dt
		}
		if mOut <= 0 {
			e.negativeMass += -mOut
			outFlow = 0
		}
		if err = net.SetFlow(outlet.NodeID, outlet.EdgeIdx, outFlow, e.ID()); err != nil {
			return
		}
		progressed = true
	}
	if _, hset, _ := net.Heat(outlet.NodeID, outlet.EdgeIdx); !hset {
		if err = net.SetHeat(outlet.NodeID, outlet.EdgeIdx, e.state, e.ID()); err != nil {
			return
		}
		progressed = true
	}

	if !e.deltaCalculated {
		e.next = ePrime
		e.nextDelayedIn = hDelayedNext
		nextMass := e.innerMass - mOut + fIn*dt
		if e.negativeMass > 0 && nextMass > e.innerMass {
			drain := math.Min(e.negativeMass, nextMass-e.innerMass)
			e.negativeMass -= drain
		}
		e.nextInnerMass = nextMass
		e.deltaCalculated = true
		progressed = true
	}
	return
}

// SaveIC captures internal enthalpy, mass, and the delayed-inlet anchor
func (e *ExpandingThermalExchanger) SaveIC() ic.Record {
	return ic.NewRecord(e.Name(), e.state, e.innerMass, e.hDelayedIn)
}

// LoadIC restores internal enthalpy, mass, and the delayed-inlet anchor
func (e *ExpandingThermalExchanger) LoadIC(r ic.Record) error {
	if r.Name != e.Name() {
		return simerr.ModelErr("expanding-thermal-exchanger %q: IC record name %q does not match", e.Name(), r.Name)
	}
	e.state, e.next = r.Scalars[0], r.Scalars[0]
	e.innerMass, e.nextInnerMass = r.Scalars[1], r.Scalars[1]
	e.hDelayedIn, e.nextDelayedIn = r.Scalars[2], r.Scalars[2]
	return nil
}

func (e *ExpandingThermalExchanger) Finished(net comp.Network) bool {
	if !e.deltaCalculated {
		return false
	}
	inlet, outlet := e.Ports()[0], e.Ports()[1]
	if _, set := net.Effort(inlet.NodeID); !set {
		return false
	}
	if _, set := net.Effort(outlet.NodeID); !set {
		return false
	}
	if _, set := net.Flow(inlet.NodeID, inlet.EdgeIdx); !set {
		return false
	}
	if _, set := net.Flow(outlet.NodeID, outlet.EdgeIdx); !set {
		return false
	}
	return true
}
