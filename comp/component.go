// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comp defines the tagged-union Component registry: the shared
// Component interface every component kind implements, the closed Kind
// enum, and the factory used to allocate components by string name (the
// same pattern gofem's ele package uses to allocate finite elements by
// type tag, but keyed here on component kind rather than a cell tag).
package comp

import "github.com/cpmech/bondnet/node"

// Kind is the closed enumeration of component kinds (spec §3)
type Kind int

const (
	KindOriginClosed Kind = iota
	KindOriginOpen
	KindEffortSource
	KindFlowSource
	KindEnforcer
	KindLinearDissipator
	KindSquareDissipator
	KindSelfCapacitance
	KindMutualCapacitance
	KindInductance
	KindThermalVolumeExchanger
	KindExpandingThermalExchanger
	KindClosedSteamedReservoir
	KindPhaseSeparator
)

func (k Kind) String() string {
	switch k {
	case KindOriginClosed:
		return "origin-closed"
	case KindOriginOpen:
		return "origin-open"
	case KindEffortSource:
		return "effort-source"
	case KindFlowSource:
		return "flow-source"
	case KindEnforcer:
		return "enforcer"
	case KindLinearDissipator:
		return "linear-dissipator"
	case KindSquareDissipator:
		return "square-dissipator"
	case KindSelfCapacitance:
		return "self-capacitance"
	case KindMutualCapacitance:
		return "mutual-capacitance"
	case KindInductance:
		return "inductance"
	case KindThermalVolumeExchanger:
		return "thermal-volume-exchanger"
	case KindExpandingThermalExchanger:
		return "expanding-thermal-exchanger"
	case KindClosedSteamedReservoir:
		return "closed-steamed-reservoir"
	case KindPhaseSeparator:
		return "phase-separator"
	}
	return "unknown"
}

// StateStoring reports whether components of this kind carry a {state,
// next_state} pair that the Integrator rotates at prepare (spec §4.3)
func (k Kind) StateStoring() bool {
	switch k {
	case KindSelfCapacitance, KindMutualCapacitance, KindInductance,
		KindThermalVolumeExchanger, KindExpandingThermalExchanger, KindClosedSteamedReservoir:
		return true
	}
	return false
}

// Network is the surface a Component uses to read and write node values.
// It is implemented by solver.Network; comp does not import solver to
// avoid a cycle, following the Design Notes' "small trait/interface"
// guidance over deep inheritance.
type Network interface {
	Domain(nodeID int) node.Domain
	EdgeCount(nodeID int) int

	Effort(nodeID int) (value float64, set bool)
	SetEffort(nodeID int, value float64, sourceID int) error

	Flow(nodeID, edgeIdx int) (value float64, set bool)
	SetFlow(nodeID, edgeIdx int, value float64, sourceID int) error

	Heat(nodeID, edgeIdx int) (value float64, set bool, noEnergy bool)
	SetHeat(nodeID, edgeIdx int, value float64, sourceID int) error
	SetNoEnergy(nodeID, edgeIdx int)

	StepTime() float64
	Time() float64
	Report(format string, args ...interface{})
}

// Component is what every component kind must implement: the lifecycle of
// spec §4.1 (prepare / doCalc / finished) plus identity and topology.
type Component interface {
	ID() int
	SetID(id int)
	Name() string
	SetName(name string)
	Kind() Kind
	Domain() node.Domain

	// Ports returns the (nodeID, edgeIdx) pairs this component owns, in
	// connection order
	Ports() []Port

	// Prepare resets the component's own per-tick scratch and rotates any
	// staged state; it does not reset node update-flags itself — Network
	// implementations reset every node once per tick before the first
	// Prepare call, which is equivalent to (and cheaper than) cascading
	// the reset through every component's Prepare.
	Prepare(net Network)

	// DoCalc attempts one local step of algebraic progress; it returns
	// true if it changed or newly read any node value, enabling the
	// engine to detect a fixed point.
	DoCalc(net Network) (progressed bool, err error)

	// Finished reports whether this component's own state and all
	// connected node slots are updated
	Finished(net Network) bool

	SetStepTime(dt float64)
}

// Port records one (node, edge) pair a component owns
type Port struct {
	NodeID  int
	EdgeIdx int
}

// Stateful is implemented by state-storing kinds so the Integrator can
// drive the Forward-Euler rotation generically (spec §4.3)
type Stateful interface {
	State() float64
	StageNext(delta float64)
	DeltaCalculated() bool
	TimeConstant() float64
}
