// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package simerr defines the typed error taxonomy raised by the propagation
// engine and the reduction solvers. Structural, propagation and
// unsupported-operation failures are fatal to a tick and are never
// swallowed; only numerical tolerance drift is logged and clamped by the
// caller instead of being raised here.
package simerr

import "github.com/cpmech/gosl/chk"

// Kind enumerates the error taxonomy of spec §7
type Kind int

const (
	Model            Kind = iota // structural violation: wrong node count, double-set, name mismatch, domain mismatch
	Calculation                  // non-finite value or inconsistent known state
	NonexistingState             // request for state on a stateless handler
	NoFlow                       // structural assumption invalidated, e.g. get_only_other_node on non-degree-2
	Algebraic                    // no-solution after all reduction tiers
)

func (k Kind) String() string {
	switch k {
	case Model:
		return "ModelError"
	case Calculation:
		return "CalculationError"
	case NonexistingState:
		return "NonexistingStateVariable"
	case NoFlow:
		return "NoFlowThrough"
	case Algebraic:
		return "AlgebraicError"
	}
	return "UnknownError"
}

// Error is a typed, recoverable error caused by caller or model misuse
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

func build(k Kind, format string, args ...interface{}) error {
	return &Error{Kind: k, msg: chk.Err(format, args...).Error()}
}

// ModelErr reports a structural/topology violation
func ModelErr(format string, args ...interface{}) error { return build(Model, format, args...) }

// CalcErr reports a non-finite value or an inconsistent known state
func CalcErr(format string, args ...interface{}) error { return build(Calculation, format, args...) }

// NoStateErr reports a request for state on a stateless handler
func NoStateErr(format string, args ...interface{}) error {
	return build(NonexistingState, format, args...)
}

// NoFlowErr reports a structural assumption invalidated, e.g. a degree != 2 query
func NoFlowErr(format string, args ...interface{}) error { return build(NoFlow, format, args...) }

// AlgebraicErr reports exhaustion of all reduction tiers without a solution
func AlgebraicErr(format string, args ...interface{}) error { return build(Algebraic, format, args...) }

// Is reports whether err is a *Error of the given kind
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
