// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !tlsfdebug

package tlsf

// assert is a no-op in a release build: precondition violations (double
// free, an alien pointer handed to Free/Realloc) are undefined behavior
// here, matching spec.md §7. Build with -tags tlsfdebug to turn the same
// call sites into panics while developing against this package.
func assert(cond bool, msg string) {}
