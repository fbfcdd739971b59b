// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"github.com/cpmech/bondnet/node"
	"github.com/cpmech/bondnet/simerr"
)

// Base carries the fields and bookkeeping shared by every component kind:
// identity, domain, port list and step time. Concrete kinds embed Base
// instead of re-implementing the common half of the Component interface,
// the same "shared behaviour factored via a small trait" idea the Design
// Notes call for in place of deep inheritance.
type Base struct {
	id     int
	name   string
	kind   Kind
	domain node.Domain
	ports  []Port
	dt     float64
}

// NewBase initialises a Base for the given kind/domain
func NewBase(kind Kind, domain node.Domain) Base {
	return Base{kind: kind, domain: domain}
}

func (b *Base) ID() int                { return b.id }
func (b *Base) SetID(id int)           { b.id = id }
func (b *Base) Name() string           { return b.name }
func (b *Base) SetName(name string)    { b.name = name }
func (b *Base) Kind() Kind             { return b.kind }
func (b *Base) Domain() node.Domain    { return b.domain }
func (b *Base) SetDomain(d node.Domain) { b.domain = d }
func (b *Base) Ports() []Port          { return b.ports }
func (b *Base) SetStepTime(dt float64) { b.dt = dt }
func (b *Base) StepDt() float64        { return b.dt }

// Connect attaches this component to nodeID in the node arena, recording
// the resulting (nodeID, edgeIdx) pair as the component's next port.
// exclusive marks the edge as force-only (flow sources, enforcers, forced
// ends of origins/dissipators): the engine's node-balance closure never
// writes to such an edge.
func (b *Base) Connect(arena *node.Arena, nodeID int, exclusive bool) error {
	edgeIdx, ok := arena.Connect(nodeID, b.id, b.domain, exclusive)
	if !ok {
		n := arena.At(nodeID)
		return simerr.ModelErr("component %q (%s): cannot connect to node %d: domain mismatch (%s vs %s)",
			b.name, b.kind, nodeID, b.domain, n.Domain)
	}
	b.ports = append(b.ports, Port{NodeID: nodeID, EdgeIdx: edgeIdx})
	return nil
}

// RequirePorts validates the component has exactly n ports, e.g. a
// two-terminal dissipator or a one-terminal origin
func (b *Base) RequirePorts(n int) error {
	if len(b.ports) != n {
		return simerr.ModelErr("component %q (%s): expected %d node(s), got %d", b.name, b.kind, n, len(b.ports))
	}
	return nil
}
