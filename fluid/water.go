// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func init() {
	SetAllocator("water", func() Properties { return NewWater() })
}

// Water is a linearised liquid/vapor water model: constant specific heats
// on either side of the saturation plateau and a saturation line that is
// affine in pressure. It stands in for a steam-table lookup the way
// mreten's BrooksCorey stands in for a measured retention curve: close
// enough over the operating range the phased components are exercised
// against, configured the same way via fun.Prms.
type Water struct {
	cpLiq   float64 // J/(kg·K), liquid specific heat
	cpVap   float64 // J/(kg·K), vapor specific heat
	hEvap   float64 // J/kg, latent heat (assumed pressure-independent)
	tSatRef float64 // K, saturation temperature at pRef
	pRef    float64 // Pa, reference pressure
	dTdp    float64 // K/Pa, d(T_sat)/dp slope
	rhoLiq0 float64 // kg/m³, liquid density (assumed constant)
	rhoVap0 float64 // kg/m³, vapor density at pRef
	dRhoVdp float64 // (kg/m³)/Pa, d(rho_vap)/dp slope
}

// NewWater returns a Water model with defaults representative of
// low-pressure saturated steam/condensate
func NewWater() *Water {
	return &Water{
		cpLiq:   4200,
		cpVap:   2000,
		hEvap:   2.257e6,
		tSatRef: 373.15,
		pRef:    101325,
		dTdp:    2.8e-5,
		rhoLiq0: 958,
		rhoVap0: 0.6,
		dRhoVdp: 6e-6,
	}
}

// Init configures the model from a parameter set, mirroring
// mreten.BrooksCorey.Init's switch-on-name pattern
func (w *Water) Init(prms fun.Prms) error {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "cpliq":
			w.cpLiq = p.V
		case "cpvap":
			w.cpVap = p.V
		case "hevap":
			w.hEvap = p.V
		case "tsatref":
			w.tSatRef = p.V
		case "pref":
			w.pRef = p.V
		case "dtdp":
			w.dTdp = p.V
		case "rholiq0":
			w.rhoLiq0 = p.V
		case "rhovap0":
			w.rhoVap0 = p.V
		case "drhovdp":
			w.dRhoVdp = p.V
		default:
			return chk.Err("water: parameter named %q is incorrect\n", p.N)
		}
	}
	return nil
}

// GetPrms returns an example parameter set, mirroring mreten models
func (w Water) GetPrms(example bool) fun.Prms {
	return []*fun.Prm{
		{N: "cpliq", V: w.cpLiq},
		{N: "cpvap", V: w.cpVap},
		{N: "hevap", V: w.hEvap},
		{N: "tsatref", V: w.tSatRef},
		{N: "pref", V: w.pRef},
		{N: "dtdp", V: w.dTdp},
		{N: "rholiq0", V: w.rhoLiq0},
		{N: "rhovap0", V: w.rhoVap0},
		{N: "drhovdp", V: w.dRhoVdp},
	}
}

func (w *Water) SpecHeatCp() float64 { return w.cpLiq }
func (w *Water) HEvap() float64      { return w.hEvap }

func (w *Water) TSat(p float64) float64 { return w.tSatRef + w.dTdp*(p-w.pRef) }
func (w *Water) PSat(t float64) float64 { return w.pRef + (t-w.tSatRef)/w.dTdp }

func (w *Water) HLiqSat(p float64) float64 { return w.cpLiq * w.TSat(p) }
func (w *Water) hVapSat(p float64) float64 { return w.HLiqSat(p) + w.hEvap }

func (w *Water) RhoLiq(p float64) float64 { return w.rhoLiq0 }
func (w *Water) RhoVap(p float64) float64 { return w.rhoVap0 + w.dRhoVdp*(p-w.pRef) }

// Rho returns the density at the given enthalpy and pressure, piecewise:
// constant liquid, linear across the two-phase plateau, constant vapor
// (spec §4.8 "average-density integral" segment shape, evaluated pointwise)
func (w *Water) Rho(h, p float64) float64 {
	hLiq, hVap := w.HLiqSat(p), w.hVapSat(p)
	switch {
	case h <= hLiq:
		return w.RhoLiq(p)
	case h >= hVap:
		return w.RhoVap(p)
	default:
		x := (h - hLiq) / (hVap - hLiq)
		return w.RhoLiq(p) + x*(w.RhoVap(p)-w.RhoLiq(p))
	}
}

// RhoAvg integrates Rho over an isobaric path from h1 to h2 and divides by
// the path length, using the three-segment closed form spec §4.8 describes
// (constant ρ_liq, linear plateau, constant ρ_vap) rather than a quadrature,
// since each segment is exactly affine.
func (w *Water) RhoAvg(h1, h2, p float64) float64 {
	if h1 == h2 {
		return w.Rho(h1, p)
	}
	lo, hi := h1, h2
	sign := 1.0
	if lo > hi {
		lo, hi = hi, lo
		sign = -1.0
	}
	hLiq, hVap := w.HLiqSat(p), w.hVapSat(p)
	rhoLiq, rhoVap := w.RhoLiq(p), w.RhoVap(p)

	integral := 0.0
	// segment 1: constant rho_liq below hLiq
	if a, b := lo, min(hi, hLiq); b > a {
		integral += rhoLiq * (b - a)
	}
	// segment 2: linear plateau between hLiq and hVap
	if a, b := max(lo, hLiq), min(hi, hVap); b > a {
		fa := rhoLiq + (a-hLiq)/(hVap-hLiq)*(rhoVap-rhoLiq)
		fb := rhoLiq + (b-hLiq)/(hVap-hLiq)*(rhoVap-rhoLiq)
		integral += 0.5 * (fa + fb) * (b - a)
	}
	// segment 3: constant rho_vap above hVap
	if a, b := max(lo, hVap), hi; b > a {
		integral += rhoVap * (b - a)
	}
	return sign * integral / (h2 - h1)
}

// X returns the vapor mass fraction at (h, p): 0 in the liquid region, 1 in
// the superheated region, linear across the plateau
func (w *Water) X(h, p float64) float64 {
	hLiq, hVap := w.HLiqSat(p), w.hVapSat(p)
	switch {
	case h <= hLiq:
		return 0
	case h >= hVap:
		return 1
	default:
		return (h - hLiq) / (hVap - hLiq)
	}
}

// T returns the temperature at (h, p): linear in h below and above the
// plateau, constant at T_sat(p) across it
func (w *Water) T(h, p float64) float64 {
	hLiq, hVap := w.HLiqSat(p), w.hVapSat(p)
	tSat := w.TSat(p)
	switch {
	case h <= hLiq:
		return h / w.cpLiq
	case h >= hVap:
		return tSat + (h-hVap)/w.cpVap
	default:
		return tSat
	}
}

func (w *Water) Get(name string, arg1 float64, arg2 ...float64) (float64, error) {
	return get(w, name, arg1, arg2...)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
