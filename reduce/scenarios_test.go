// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/bondnet/comp/linear"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/solver"
)

// Test_solver03_wheatstoneBridgeLiteral is spec §8's literal Wheatstone
// bridge scenario: a 10 V source in series with R1=40, R2=55 on one side,
// R3=60, R4=50 on the other, bridged by R0=45. It drives the network
// through reduce.Solver rather than calling Reducer directly, exercising
// the escalation path Solver.DoCalculation wires to the armed recursive
// simplification tier once the plain sweep stalls on the bridge.
func Test_solver03_wheatstoneBridgeLiteral(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver03")

	net := solver.NewNetwork()
	s := net.RegisterNode(node.Electrical, "source")
	g := net.RegisterNode(node.Electrical, "ground")
	m1 := net.RegisterNode(node.Electrical, "m1")
	m2 := net.RegisterNode(node.Electrical, "m2")

	dSM1 := mkDissipator(tst, net, s, m1, 40)
	dSM2 := mkDissipator(tst, net, s, m2, 55)
	mkDissipator(tst, net, m1, g, 60)
	mkDissipator(tst, net, m2, g, 50)
	mkDissipator(tst, net, m1, m2, 45)

	if err := net.SetEffort(s, 10, -1); err != nil {
		tst.Fatalf("SetEffort(s) failed: %v", err)
	}
	if err := net.SetEffort(g, 0, -1); err != nil {
		tst.Fatalf("SetEffort(g) failed: %v", err)
	}

	sv := NewSolver(net)
	sv.RecursiveSimplificationSetup([]int{s, g}, []int{s, g, m1, m2})
	if err := sv.DoCalculation(); err != nil {
		tst.Fatalf("DoCalculation failed: %v", err)
	}

	i1, _ := net.Flow(m1, dSM1.Ports()[1].EdgeIdx)
	i2, _ := net.Flow(m2, dSM2.Ports()[1].EdgeIdx)
	is := i1 + i2

	chk.Scalar(tst, "source current", 1e-3, is, 0.197)
	chk.Scalar(tst, "total resistance seen by the source", 1e-2, 10/is, 50.8)
}

// Test_solver04_millmanSuperpositionLiteral is spec §8's literal two-source
// superposition scenario: nodes n0..n3, R0=200 and R1=50 feeding a common
// node from two effort sources (U0=15 V, U1=10 V), R2=100 loading that node
// to ground. Driven through reduce.Solver with only SuperPositionSetup
// armed, so the escalation resolves it without ever calling Superposition
// directly.
func Test_solver04_millmanSuperpositionLiteral(tst *testing.T) {

	chk.PrintTitle("solver04")

	net := solver.NewNetwork()
	n0 := net.RegisterNode(node.Electrical, "n0")
	n1 := net.RegisterNode(node.Electrical, "n1")
	n2 := net.RegisterNode(node.Electrical, "n2")
	n3 := net.RegisterNode(node.Electrical, "n3")

	u0 := linear.NewEffortSource(node.Electrical)
	net.RegisterElement(u0)
	if err := u0.ConnectBetween(net.Arena, n0, n1); err != nil {
		tst.Fatalf("ConnectBetween u0 failed: %v", err)
	}
	u0.SetEffort(15)

	u1 := linear.NewEffortSource(node.Electrical)
	net.RegisterElement(u1)
	if err := u1.ConnectBetween(net.Arena, n0, n3); err != nil {
		tst.Fatalf("ConnectBetween u1 failed: %v", err)
	}
	u1.SetEffort(10)

	mkDissipator(tst, net, n1, n2, 200)
	mkDissipator(tst, net, n3, n2, 50)
	load := mkDissipator(tst, net, n2, n0, 100)

	if err := net.SetEffort(n0, 0, -1); err != nil {
		tst.Fatalf("SetEffort(n0) failed: %v", err)
	}

	sv := NewSolver(net)
	sv.SuperPositionSetup([]int{n0}, []int{n0, n1, n2, n3}, []*Source{
		{Kind: EffortSourceKind, N0: n0, N1: n1, Comp: u0},
		{Kind: EffortSourceKind, N0: n0, N1: n3, Comp: u1},
	})
	if err := sv.DoCalculation(); err != nil {
		tst.Fatalf("DoCalculation failed: %v", err)
	}

	f, set := net.Flow(n2, load.Ports()[0].EdgeIdx)
	if !set {
		tst.Fatalf("superposition escalation should have resolved the load's flow")
	}
	chk.Scalar(tst, "flow through the load resistor", 1e-4, -f, 0.0785)
}
