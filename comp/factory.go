// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import "github.com/cpmech/gosl/chk"

// Allocator builds a new, unconfigured Component of one kind
type Allocator func() Component

// allocators holds all component allocators, keyed by kind name; concrete
// kinds register themselves from an init() in comp/linear and comp/phased,
// the same self-registration idiom as ele.SetAllocator in the teacher
var allocators = make(map[string]Allocator)

// SetAllocator registers a new allocator under elementName
func SetAllocator(elementName string, fcn Allocator) {
	if _, ok := allocators[elementName]; ok {
		chk.Panic("comp: cannot set allocator for %q because it exists already", elementName)
	}
	allocators[elementName] = fcn
}

// New allocates a fresh, unconfigured Component of the named kind
func New(elementName string) Component {
	fcn, ok := allocators[elementName]
	if !ok {
		chk.Panic("comp: cannot find allocator for %q", elementName)
	}
	return fcn()
}

// Registered reports whether elementName has a registered allocator
func Registered(elementName string) bool {
	_, ok := allocators[elementName]
	return ok
}
