// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/bondnet/comp/linear"
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/solver"
)

func mkDissipator(tst *testing.T, net *solver.Network, n0, n1 int, r float64) *linear.LinearDissipator {
	d := linear.NewLinearDissipator(node.Electrical)
	net.RegisterElement(d)
	if err := d.ConnectBetween(net.Arena, n0, n1); err != nil {
		tst.Fatalf("ConnectBetween failed: %v", err)
	}
	if err := d.SetResistance(r); err != nil {
		tst.Fatalf("SetResistance failed: %v", err)
	}
	return d
}

func Test_stardelta01_roundTrip(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stardelta01")

	ra, rb, rc := 10.0, 20.0, 30.0
	rAB, rBC, rCA := starToDelta(ra, rb, rc)
	ra2, rb2, rc2 := deltaToStar(rAB, rBC, rCA)

	chk.Scalar(tst, "ra round trip", 1e-10, ra2, ra)
	chk.Scalar(tst, "rb round trip", 1e-10, rb2, rb)
	chk.Scalar(tst, "rc round trip", 1e-10, rc2, rc)
}

func Test_stardelta02_oneArmOpen(tst *testing.T) {

	chk.PrintTitle("stardelta02")

	inf := math.Inf(1)
	rAB, rBC, rCA := starToDelta(inf, 5, 7)
	if !math.IsInf(rAB, 1) || !math.IsInf(rCA, 1) {
		tst.Errorf("the two delta branches touching the open arm's outer node should stay open")
	}
	chk.Scalar(tst, "remaining delta branch sums the two finite arms", 1e-12, rBC, 12)
}

func Test_reducer01_seriesMerge(tst *testing.T) {

	chk.PrintTitle("reducer01")

	net := solver.NewNetwork()
	a := net.RegisterNode(node.Electrical, "a")
	mid := net.RegisterNode(node.Electrical, "mid")
	b := net.RegisterNode(node.Electrical, "b")
	mkDissipator(tst, net, a, mid, 3)
	mkDissipator(tst, net, mid, b, 4)

	rd := NewReducer(net)
	rd.Origins[a] = true
	rd.Origins[b] = true
	rd.Discover([]int{a, mid, b})
	if err := rd.Reduce(); err != nil {
		tst.Fatalf("Reduce failed: %v", err)
	}
	req, err := rd.TwoTerminalResistance(a, b)
	if err != nil {
		tst.Fatalf("TwoTerminalResistance failed: %v", err)
	}
	chk.Scalar(tst, "series sum", 1e-12, req, 7)
}

func Test_reducer02_parallelMerge(tst *testing.T) {

	chk.PrintTitle("reducer02")

	net := solver.NewNetwork()
	a := net.RegisterNode(node.Electrical, "a")
	b := net.RegisterNode(node.Electrical, "b")
	mkDissipator(tst, net, a, b, 6)
	mkDissipator(tst, net, a, b, 3)

	rd := NewReducer(net)
	rd.Origins[a] = true
	rd.Origins[b] = true
	rd.Discover([]int{a, b})
	if err := rd.Reduce(); err != nil {
		tst.Fatalf("Reduce failed: %v", err)
	}
	req, err := rd.TwoTerminalResistance(a, b)
	if err != nil {
		tst.Fatalf("TwoTerminalResistance failed: %v", err)
	}
	// 1/(1/6 + 1/3) = 2
	chk.Scalar(tst, "parallel combination", 1e-12, req, 2)
}

func Test_reducer03_wheatstoneBridge(tst *testing.T) {

	chk.PrintTitle("reducer03")

	net := solver.NewNetwork()
	s := net.RegisterNode(node.Electrical, "source")
	g := net.RegisterNode(node.Electrical, "ground")
	m1 := net.RegisterNode(node.Electrical, "m1")
	m2 := net.RegisterNode(node.Electrical, "m2")

	mkDissipator(tst, net, s, m1, 10)
	mkDissipator(tst, net, s, m2, 20)
	mkDissipator(tst, net, m1, g, 30)
	mkDissipator(tst, net, m2, g, 40)
	bridge := mkDissipator(tst, net, m1, m2, 50)

	if err := net.SetEffort(s, 12, -1); err != nil {
		tst.Fatalf("SetEffort(s) failed: %v", err)
	}
	if err := net.SetEffort(g, 0, -1); err != nil {
		tst.Fatalf("SetEffort(g) failed: %v", err)
	}

	rd := NewReducer(net)
	rd.Origins[s] = true
	rd.Origins[g] = true
	rd.Discover([]int{s, g, m1, m2})
	if err := rd.Reduce(); err != nil {
		tst.Fatalf("Reduce failed: %v", err)
	}
	if err := rd.Solve(); err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}

	e1, set1 := net.Effort(m1)
	e2, set2 := net.Effort(m2)
	if !set1 || !set2 {
		tst.Fatalf("Solve should have resolved both bridge midpoints")
	}
	chk.Scalar(tst, "m1 effort", 1e-9, e1, 756.0/85.0)
	chk.Scalar(tst, "m2 effort", 1e-9, e2, 696.0/85.0)

	f0, _ := net.Flow(m1, bridge.Ports()[0].EdgeIdx)
	f1, _ := net.Flow(m2, bridge.Ports()[1].EdgeIdx)
	chk.Scalar(tst, "bridge flow out of m1", 1e-9, f0, -6.0/425.0)
	chk.Scalar(tst, "bridge flow into m2", 1e-9, f1, 6.0/425.0)
}

func Test_superposition01_millman(tst *testing.T) {

	chk.PrintTitle("superposition01")

	net := solver.NewNetwork()
	g := net.RegisterNode(node.Electrical, "ground")
	s1n := net.RegisterNode(node.Electrical, "s1")
	s2n := net.RegisterNode(node.Electrical, "s2")
	c := net.RegisterNode(node.Electrical, "c")

	src1 := linear.NewEffortSource(node.Electrical)
	net.RegisterElement(src1)
	if err := src1.ConnectBetween(net.Arena, g, s1n); err != nil {
		tst.Fatalf("ConnectBetween src1 failed: %v", err)
	}
	src1.SetEffort(12)

	src2 := linear.NewEffortSource(node.Electrical)
	net.RegisterElement(src2)
	if err := src2.ConnectBetween(net.Arena, g, s2n); err != nil {
		tst.Fatalf("ConnectBetween src2 failed: %v", err)
	}
	src2.SetEffort(6)

	mkDissipator(tst, net, s1n, c, 10)
	mkDissipator(tst, net, s2n, c, 20)
	d3 := mkDissipator(tst, net, c, g, 30)

	if err := net.SetEffort(g, 0, -1); err != nil {
		tst.Fatalf("SetEffort(g) failed: %v", err)
	}

	sp := NewSuperposition(net)
	sp.Origins[g] = true
	sp.SubnetNodes = []int{g, s1n, s2n, c}
	sp.Sources = []*Source{
		{Kind: EffortSourceKind, N0: g, N1: s1n, Comp: src1},
		{Kind: EffortSourceKind, N0: g, N1: s2n, Comp: src2},
	}

	overlays, err := sp.Solve()
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	if len(overlays) != 2 {
		tst.Fatalf("expected one overlay per source, got %d", len(overlays))
	}
	if err := sp.Sum(overlays); err != nil {
		tst.Fatalf("Sum failed: %v", err)
	}

	ec, set := net.Effort(c)
	if !set {
		tst.Fatalf("Sum should have resolved the shared node's effort")
	}
	chk.Scalar(tst, "Millman node effort", 1e-9, ec, 90.0/11.0)

	f0, _ := net.Flow(c, d3.Ports()[0].EdgeIdx)
	f1, _ := net.Flow(g, d3.Ports()[1].EdgeIdx)
	chk.Scalar(tst, "load flow out of c", 1e-9, f0, -3.0/11.0)
	chk.Scalar(tst, "load flow into g", 1e-9, f1, 3.0/11.0)
}
