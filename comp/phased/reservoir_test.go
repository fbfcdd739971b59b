// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/bondnet/fluid"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/solver"
)

func Test_reservoir01_ambientFloorWithoutProps(tst *testing.T) {

	//verbose()
	chk.PrintTitle("reservoir01")

	net := solver.NewNetwork()
	n0 := net.RegisterNode(node.PhasedFluid, "tank")
	r := NewClosedSteamedReservoir()
	net.RegisterElement(r)
	if err := r.ConnectTo(net.Arena, n0); err != nil {
		tst.Fatalf("ConnectTo failed: %v", err)
	}

	if _, err := r.DoCalc(net); err != nil {
		tst.Fatalf("DoCalc failed: %v", err)
	}
	p, set := net.Effort(n0)
	if !set {
		tst.Fatalf("reservoir should have forced the node's pressure")
	}
	chk.Scalar(tst, "pressure floors at ambient with no fluid model", 1e-9, p, r.AmbientPressure)
}

func Test_reservoir02_saturationFloorAboveAmbient(tst *testing.T) {

	chk.PrintTitle("reservoir02")

	net := solver.NewNetwork()
	n0 := net.RegisterNode(node.PhasedFluid, "tank")
	r := NewClosedSteamedReservoir()
	net.RegisterElement(r)
	if err := r.ConnectTo(net.Arena, n0); err != nil {
		tst.Fatalf("ConnectTo failed: %v", err)
	}
	w := fluid.NewWater()
	r.SetFluidProperties(w)

	hLiq := w.HLiqSat(r.AmbientPressure)
	hVap := hLiq + w.HEvap()
	r.SetInitialState(0, hVap+100000) // superheated: saturation pressure for this enthalpy exceeds ambient

	if _, err := r.DoCalc(net); err != nil {
		tst.Fatalf("DoCalc failed: %v", err)
	}
	p, set := net.Effort(n0)
	if !set {
		tst.Fatalf("reservoir should have forced the node's pressure")
	}
	if p <= r.AmbientPressure {
		tst.Errorf("a superheated charge should float the floor above ambient, got %v", p)
	}
	chk.Scalar(tst, "saturation-pressure floor", 1e-6, p, 1887039.2857142857)
}

func Test_reservoir03_massIntegration(tst *testing.T) {

	chk.PrintTitle("reservoir03")

	net := solver.NewNetwork()
	net.SetStepTime(2)
	n0 := net.RegisterNode(node.PhasedFluid, "tank")
	r := NewClosedSteamedReservoir()
	net.RegisterElement(r)
	if err := r.ConnectTo(net.Arena, n0); err != nil {
		tst.Fatalf("ConnectTo failed: %v", err)
	}
	r.SetInitialState(10, 5e5)

	net.SetFlow(n0, r.Ports()[0].EdgeIdx, 3, -1)
	if _, err := r.DoCalc(net); err != nil {
		tst.Fatalf("DoCalc failed: %v", err)
	}
	if !r.DeltaCalculated() {
		tst.Fatalf("delta should be calculated once the port's flow is known")
	}
	r.Prepare(net)
	chk.Scalar(tst, "mass after rotation: 10 + 3*2", 1e-12, r.State(), 16)
}

func Test_reservoir04_icRoundTrip(tst *testing.T) {

	chk.PrintTitle("reservoir04")

	r := NewClosedSteamedReservoir()
	r.SetName("tank")
	r.SetInitialState(7, 3e5)
	rec := r.SaveIC()

	other := NewClosedSteamedReservoir()
	other.SetName("tank")
	if err := other.LoadIC(rec); err != nil {
		tst.Fatalf("LoadIC failed: %v", err)
	}
	chk.Scalar(tst, "mass round trip", 1e-15, other.State(), r.State())
}
