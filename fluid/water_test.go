// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
)

func Test_water01_saturationLine(tst *testing.T) {

	//verbose()
	chk.PrintTitle("water01")

	w := NewWater()
	chk.Scalar(tst, "TSat at pRef", 1e-12, w.TSat(101325), 373.15)
	chk.Scalar(tst, "PSat at TSat reference", 1e-6, w.PSat(373.15), 101325)

	// TSat and PSat must be mutual inverses along the line
	p := 150000.0
	t := w.TSat(p)
	chk.Scalar(tst, "PSat(TSat(p)) == p", 1e-6, w.PSat(t), p)
}

func Test_water02_rhoPiecewise(tst *testing.T) {

	chk.PrintTitle("water02")

	w := NewWater()
	p := 101325.0
	hLiq := w.HLiqSat(p)
	hVap := w.hVapSat(p)

	chk.Scalar(tst, "rho at liquid boundary", 1e-9, w.Rho(hLiq, p), w.RhoLiq(p))
	chk.Scalar(tst, "rho at vapor boundary", 1e-9, w.Rho(hVap, p), w.RhoVap(p))
	chk.Scalar(tst, "rho well below plateau", 1e-9, w.Rho(hLiq-1e6, p), w.RhoLiq(p))
	chk.Scalar(tst, "rho well above plateau", 1e-9, w.Rho(hVap+1e6, p), w.RhoVap(p))

	mid := 0.5 * (hLiq + hVap)
	want := 0.5 * (w.RhoLiq(p) + w.RhoVap(p))
	chk.Scalar(tst, "rho at plateau midpoint", 1e-9, w.Rho(mid, p), want)

	xMid := w.X(mid, p)
	chk.Scalar(tst, "vapor fraction at plateau midpoint", 1e-9, xMid, 0.5)
	chk.Scalar(tst, "vapor fraction below plateau", 1e-9, w.X(hLiq-1, p), 0)
	chk.Scalar(tst, "vapor fraction above plateau", 1e-9, w.X(hVap+1, p), 1)
}

func Test_water03_rhoAvgMatchesPointwiseOnSingleSegment(tst *testing.T) {

	chk.PrintTitle("water03")

	w := NewWater()
	p := 101325.0
	hLiq := w.HLiqSat(p)

	// entirely inside the liquid segment: average density should equal the
	// (constant) pointwise density
	h1, h2 := hLiq-2e5, hLiq-1e5
	chk.Scalar(tst, "rhoAvg on constant segment", 1e-9, w.RhoAvg(h1, h2, p), w.RhoLiq(p))

	// degenerate path: h1 == h2 falls back to the pointwise value
	chk.Scalar(tst, "rhoAvg degenerate path", 1e-9, w.RhoAvg(h1, h1, p), w.Rho(h1, p))

	// the reversed path gives the same average, since RhoAvg does not
	// depend on the direction of the path; on a constant segment it must
	// still recover the same density
	chk.Scalar(tst, "rhoAvg is direction-symmetric on a constant segment", 1e-9,
		w.RhoAvg(h2, h1, p), w.RhoLiq(p))
}

func Test_water04_temperatureDerivative(tst *testing.T) {

	chk.PrintTitle("water04")

	w := NewWater()
	p := 101325.0
	hLiq := w.HLiqSat(p)

	// well inside the liquid segment, T(h,p) = h/cpLiq, so dT/dh = 1/cpLiq
	h := hLiq - 5e5
	dnum, err := num.DerivCentral(func(x float64, args ...interface{}) (res float64) {
		return w.T(x, p)
	}, h, 1e-3)
	if err != nil {
		tst.Fatalf("DerivCentral failed: %v", err)
	}
	chk.Scalar(tst, "dT/dh in liquid region", 1e-6, dnum, 1/w.cpLiq)

	// inside the plateau, T is pinned at TSat regardless of h, so dT/dh == 0
	mid := 0.5 * (hLiq + w.hVapSat(p))
	dnum, err = num.DerivCentral(func(x float64, args ...interface{}) (res float64) {
		return w.T(x, p)
	}, mid, 1e-3)
	if err != nil {
		tst.Fatalf("DerivCentral failed: %v", err)
	}
	chk.Scalar(tst, "dT/dh across the two-phase plateau", 1e-6, dnum, 0)
}

func Test_water05_getCompatLookup(tst *testing.T) {

	chk.PrintTitle("water05")

	w := NewWater()
	p := 101325.0

	cp, err := w.Get("cp", 0)
	if err != nil {
		tst.Fatalf("Get(cp) failed: %v", err)
	}
	chk.Scalar(tst, "get cp", 1e-12, cp, w.SpecHeatCp())

	tsat, err := w.Get("t_sat", p)
	if err != nil {
		tst.Fatalf("Get(t_sat) failed: %v", err)
	}
	chk.Scalar(tst, "get t_sat", 1e-12, tsat, w.TSat(p))

	rho, err := w.Get("rho", 1e5, p)
	if err != nil {
		tst.Fatalf("Get(rho) failed: %v", err)
	}
	chk.Scalar(tst, "get rho", 1e-12, rho, w.Rho(1e5, p))

	if _, err := w.Get("rho", 1e5); err == nil {
		tst.Errorf("Get(rho) missing the pressure argument should fail")
	}
	if _, err := w.Get("bogus-name", 0); err == nil {
		tst.Errorf("Get with an unknown name should fail")
	}
}

func Test_water06_factoryRegistration(tst *testing.T) {

	chk.PrintTitle("water06")

	p := New("water")
	if _, ok := p.(*Water); !ok {
		tst.Errorf("New(\"water\") should return a *Water")
	}
}
