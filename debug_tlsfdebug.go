// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tlsfdebug

package tlsf

// assert panics with msg when cond is false. Only compiled in under
// -tags tlsfdebug; see debug.go for the release build's no-op twin.
func assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
