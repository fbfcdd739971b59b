// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/cpmech/bondnet/comp"

// Integrator checks that every state-storing component has staged its next
// state before a tick is allowed to close (spec §4.3, §8 universal
// invariant "for every state-storing component, delta_calculated is
// true"). Each comp.Stateful implementation rotates its own state in its
// Prepare method; Integrator does not duplicate that rotation, it verifies
// the outcome, the same way gofem's fem.Domain leaves state updates to each
// element but still checks the assembled residual before accepting a step.
type Integrator struct{}

// NewIntegrator returns an Integrator
func NewIntegrator() *Integrator { return &Integrator{} }

// CheckSettled returns the comp.Stateful components in comps that do not
// yet have deltaCalculated set, i.e. have not staged their next-state
// value this tick; an empty result means every one has
func (Integrator) CheckSettled(comps []comp.Component) []comp.Component {
	var unsettled []comp.Component
	for _, c := range comps {
		if sc, ok := c.(comp.Stateful); ok {
			if !sc.DeltaCalculated() {
				unsettled = append(unsettled, c)
			}
		}
	}
	return unsettled
}
