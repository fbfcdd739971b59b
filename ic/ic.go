// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ic implements the opaque initial-condition record (spec §4.3,
// §6): `{element_name, scalar_fields...}`, persisted by callers outside
// the core and round-tripped through gosl/utl's gob-based Encoder/Decoder,
// the same contract gofem's ele.Element.Encode/Decode use to checkpoint
// integration-point state.
package ic

import (
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/bondnet/simerr"
)

// Record is the opaque per-component initial-condition payload: a name tag
// (validated on load) plus an ordered list of scalar state fields. The
// field count and meaning are private to whichever component kind wrote
// it — callers never interpret Scalars directly.
type Record struct {
	Name    string
	Scalars []float64
}

// NewRecord captures name and scalars into a Record
func NewRecord(name string, scalars ...float64) Record {
	return Record{Name: name, Scalars: append([]float64(nil), scalars...)}
}

// Encode writes the record via enc, mirroring ele.Element.Encode's direct
// enc.Encode(value) call
func (r Record) Encode(enc utl.Encoder) error {
	return enc.Encode(r)
}

// Decode reads a record via dec and refuses a name mismatch against want
// (spec §4.3 "loading refuses name mismatch")
func Decode(dec utl.Decoder, want string) (Record, error) {
	var r Record
	if err := dec.Decode(&r); err != nil {
		return Record{}, err
	}
	if r.Name != want {
		return Record{}, simerr.ModelErr("ic: record name %q does not match expected %q", r.Name, want)
	}
	return r, nil
}

// Component is implemented by every state-storing component kind so a
// caller can checkpoint and restore it without reaching into kind-specific
// fields
type Component interface {
	Name() string
	SaveIC() Record
	LoadIC(r Record) error
}
