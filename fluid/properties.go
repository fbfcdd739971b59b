// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements the FluidProperties contract (spec §6): the
// query-only surface the phased-fluid components consume for saturation,
// density and vapor-fraction queries, plus a concrete water/steam model
// built the way mreten's retention models are: a small value-typed struct
// configured by fun.Prms and self-registered into a name-keyed factory.
package fluid

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Properties is the query-only FluidProperties contract (spec §6). All
// inputs and outputs are SI: temperature in Kelvin, pressure in Pa,
// enthalpy in J/kg, density in kg/m³.
type Properties interface {
	SpecHeatCp() float64
	HEvap() float64
	TSat(p float64) float64
	PSat(t float64) float64
	HLiqSat(p float64) float64
	Rho(h, p float64) float64
	RhoAvg(h1, h2, p float64) float64
	RhoLiq(p float64) float64
	RhoVap(p float64) float64
	X(h, p float64) float64
	T(h, p float64) float64

	// Get is the string-keyed compatibility lookup for callers written
	// against an older steam-table-wrapper surface (spec §6)
	Get(name string, arg1 float64, arg2 ...float64) (float64, error)
}

// Allocator builds an unconfigured Properties implementation
type Allocator func() Properties

var allocators = make(map[string]Allocator)

// SetAllocator registers a Properties implementation under name, panicking
// on a duplicate registration — the same factory discipline comp.Kind
// allocators use
func SetAllocator(name string, fcn Allocator) {
	if _, dup := allocators[name]; dup {
		chk.Panic("fluid: allocator %q already registered", name)
	}
	allocators[name] = fcn
}

// New allocates an unconfigured Properties by name; call Init (if the
// concrete type exposes it) before use
func New(name string) Properties {
	fcn, ok := allocators[name]
	if !ok {
		chk.Panic("fluid: no allocator registered under name %q", name)
	}
	return fcn()
}

// get dispatches the string-keyed compatibility lookup shared by every
// concrete Properties implementation (spec §6 get(name, arg1[, arg2]))
func get(p Properties, name string, arg1 float64, arg2 ...float64) (float64, error) {
	switch strings.ToLower(name) {
	case "cp", "spec_heat_cp":
		return p.SpecHeatCp(), nil
	case "h_evap":
		return p.HEvap(), nil
	case "t_sat":
		return p.TSat(arg1), nil
	case "p_sat":
		return p.PSat(arg1), nil
	case "h_liq_sat", "h_liq_cap":
		return p.HLiqSat(arg1), nil
	case "rho":
		if len(arg2) < 1 {
			return 0, chk.Err("fluid: get(\"rho\", h, p) requires a pressure argument\n")
		}
		return p.Rho(arg1, arg2[0]), nil
	case "rho_avg":
		if len(arg2) < 2 {
			return 0, chk.Err("fluid: get(\"rho_avg\", h1, h2, p) requires two more arguments\n")
		}
		return p.RhoAvg(arg1, arg2[0], arg2[1]), nil
	case "rho_liq":
		return p.RhoLiq(arg1), nil
	case "rho_vap":
		return p.RhoVap(arg1), nil
	case "x":
		if len(arg2) < 1 {
			return 0, chk.Err("fluid: get(\"x\", h, p) requires a pressure argument\n")
		}
		return p.X(arg1, arg2[0]), nil
	case "t", "temperature":
		if len(arg2) < 1 {
			return 0, chk.Err("fluid: get(\"t\", h, p) requires a pressure argument\n")
		}
		return p.T(arg1, arg2[0]), nil
	}
	return 0, chk.Err("fluid: get: unknown property name %q\n", name)
}
