// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tlsf implements a two-level segregated fit dynamic memory
// allocator over host-supplied []byte storage: O(1) worst-case Malloc,
// Free, Memalign and Realloc, a small fixed per-block header overhead,
// and no internal fragmentation beyond ALIGN rounding.
//
// A Control owns zero or more Pools; each Pool is one contiguous []byte a
// host hands over with AddPool (or CreateWithPool, for the common
// single-pool case) and never touches directly again. Blocks are tracked
// in-band inside a pool's own bytes - see internal/rawblock - and
// indexed by a segregated free-list matrix keyed on (first-level,
// second-level) size class, the same scheme as the TLSF family this
// package continues.
package tlsf
