// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simerr

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_kinds01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kinds01")

	cases := []struct {
		build func(format string, args ...interface{}) error
		kind  Kind
		tag   string
	}{
		{ModelErr, Model, "ModelError"},
		{CalcErr, Calculation, "CalculationError"},
		{NoStateErr, NonexistingState, "NonexistingStateVariable"},
		{NoFlowErr, NoFlow, "NoFlowThrough"},
		{AlgebraicErr, Algebraic, "AlgebraicError"},
	}

	for _, c := range cases {
		err := c.build("node %d misbehaved", 7)
		if !Is(err, c.kind) {
			tst.Errorf("Is(err, %s) should be true for a %s-built error", c.kind, c.tag)
		}
		if !strings.HasPrefix(err.Error(), c.tag+":") {
			tst.Errorf("error message should start with %q, got %q", c.tag+":", err.Error())
		}
		if !strings.Contains(err.Error(), "node 7 misbehaved") {
			tst.Errorf("error message should carry the formatted detail, got %q", err.Error())
		}
	}
}

func Test_isRejectsOtherKinds01(tst *testing.T) {

	chk.PrintTitle("isRejectsOtherKinds01")

	err := ModelErr("bad topology")
	if Is(err, Algebraic) {
		tst.Errorf("a ModelError should not report Is(..., Algebraic)")
	}
	if Is(nil, Model) {
		tst.Errorf("Is(nil, ...) should be false")
	}
	if Is(chk.Err("plain gosl error"), Model) {
		tst.Errorf("a plain error not built via simerr should never satisfy Is")
	}
}
