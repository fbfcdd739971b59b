// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/bondnet/comp/linear"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

func Test_network01_canonicalizeZero(tst *testing.T) {

	//verbose()
	chk.PrintTitle("network01")

	net := NewNetwork()
	n0 := net.RegisterNode(node.Electrical, "a")
	negZero := math.Copysign(0, -1)
	if err := net.SetEffort(n0, negZero, -1); err != nil {
		tst.Fatalf("SetEffort failed: %v", err)
	}
	e, _ := net.Effort(n0)
	if math.Signbit(e) {
		tst.Errorf("a negative zero effort should have been canonicalized to positive zero")
	}
}

func Test_network02_doubleSetRejected(tst *testing.T) {

	chk.PrintTitle("network02")

	net := NewNetwork()
	n0 := net.RegisterNode(node.Electrical, "a")
	if err := net.SetEffort(n0, 1, -1); err != nil {
		tst.Fatalf("first SetEffort failed: %v", err)
	}
	if err := net.SetEffort(n0, 2, -1); !simerr.Is(err, simerr.Model) {
		tst.Errorf("a second SetEffort on the same node should raise a ModelError, got %v", err)
	}
}

func Test_network03_stepTimePropagatesToRegisteredComponents(tst *testing.T) {

	chk.PrintTitle("network03")

	net := NewNetwork()
	n0 := net.RegisterNode(node.Electrical, "a")
	o := linear.NewOriginClosed(node.Electrical)
	net.RegisterElement(o)
	if err := o.ConnectTo(net.Arena, n0); err != nil {
		tst.Fatalf("ConnectTo failed: %v", err)
	}

	net.SetStepTime(5)
	chk.Scalar(tst, "step time reaches an already-registered component", 1e-15, o.StepDt(), 5)

	d := linear.NewLinearDissipator(node.Electrical)
	id := net.RegisterElement(d)
	chk.Scalar(tst, "a newly registered component inherits the network's current Δt", 1e-15, d.StepDt(), 5)
	if id != 1 {
		tst.Errorf("expected the second registered component to get id 1, got %d", id)
	}
}

func Test_network04_heatOnlyValidOnPhasedFluid(tst *testing.T) {

	chk.PrintTitle("network04")

	net := NewNetwork()
	n0 := net.RegisterNode(node.Electrical, "a")
	net.Arena.Connect(n0, 999, node.Electrical, false)
	if err := net.SetHeat(n0, 0, 1000, -1); !simerr.Is(err, simerr.Model) {
		tst.Errorf("heat energy on a non-PHASED_FLUID node should raise a ModelError, got %v", err)
	}
}
