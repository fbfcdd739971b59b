// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reduce

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// starToDelta implements spec §4.5's 3-branch transform: a center with
// arms {Ra, Rb, Rc} to outer nodes {A, B, C} becomes a triangle among
// {A, B, C} with R_AB, R_BC, R_CA. OPEN arms are handled by the stated
// limits: two opens leaves every delta branch open; one open makes the
// delta branch opposite the open arm equal to the sum of the two finite
// arms, the other two delta branches open.
func starToDelta(ra, rb, rc float64) (rAB, rBC, rCA float64) {
	openCount := 0
	for _, r := range []float64{ra, rb, rc} {
		if math.IsInf(r, 1) {
			openCount++
		}
	}
	if openCount >= 2 {
		inf := math.Inf(1)
		return inf, inf, inf
	}
	if openCount == 1 {
		switch {
		case math.IsInf(ra, 1):
			return math.Inf(1), rb + rc, math.Inf(1)
		case math.IsInf(rb, 1):
			return math.Inf(1), math.Inf(1), rc + ra
		default:
			return ra + rb, math.Inf(1), math.Inf(1)
		}
	}
	sum := ra*rb + rb*rc + rc*ra
	return sum / rc, sum / ra, sum / rb
}

// deltaToStar is the standard inverse of starToDelta, used only by the
// round-trip law in spec §8 ("Star→Delta→Star on a 3-branch star yields
// resistances equal to the input within 1e-10")
func deltaToStar(rAB, rBC, rCA float64) (ra, rb, rc float64) {
	sum := rAB + rBC + rCA
	return rAB * rCA / sum, rAB * rBC / sum, rBC * rCA / sum
}

// starToSquare implements spec §4.5's 4-branch transform: a center with
// arms {R1..R4} to outer nodes {N1..N4} becomes a complete graph on the
// four outer nodes, R_ij = R_i*R_j*Σ_k(1/R_k). A bridged arm (R_i=0) shorts
// its outer node directly to the center, which the caller observes as
// R_ij = R_j for every other j; two bridged arms are joined by R_ij = 0,
// and a pair that includes no bridged arm becomes +Inf (see starToPolygon).
func starToSquare(r []float64, nodes []int) map[[2]int]float64 {
	return starToPolygon(r, nodes)
}

// starToPolygon generalizes starToDelta/starToSquare to n branches: every
// pair (i, j) of outer nodes gets R_ij = R_i*R_j*Σ_k(1/R_k) (spec §4.5).
// Only meaningful when every other transform rule has already failed to
// simplify the node (callers gate on that; this function has no topology
// awareness of its own).
func starToPolygon(r []float64, nodes []int) map[[2]int]float64 {
	n := len(r)
	sumG := 0.0
	zeroArms := 0
	for _, ri := range r {
		g := conductance(ri)
		if math.IsInf(g, 1) {
			zeroArms++
			continue
		}
		sumG += g
	}

	// dense n×n resistance matrix, scratch space for the pairwise formula
	// (spec §4.5's "dense resistance matrix" treatment of the polygon)
	res := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case zeroArms >= 1:
				// a bridged arm puts its outer node at the center: two
				// bridged outer nodes are shorted together, a bridged and
				// an unbridged one are joined by the unbridged arm, and two
				// unbridged ones have no direct branch left
				switch {
				case r[i] == 0 && r[j] == 0:
					res[i][j] = 0
				case r[i] == 0:
					res[i][j] = r[j]
				case r[j] == 0:
					res[i][j] = r[i]
				default:
					res[i][j] = math.Inf(1)
				}
			default:
				res[i][j] = r[i] * r[j] * sumG
			}
			res[j][i] = res[i][j]
		}
	}

	out := make(map[[2]int]float64, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out[[2]int{nodes[i], nodes[j]}] = res[i][j]
		}
	}
	return out
}
