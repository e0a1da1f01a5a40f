// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import (
	"math/bits"

	"github.com/cznic/mathutil"
)

// fls returns the index of the most significant set bit of x, 0-based, or
// -1 if x is zero. Callers in this package never invoke it with zero -
// every size reaching fls has already been through adjustRequest or is a
// live block's stored size, both of which are >= minBlockSize.
//
// math/bits.Len64 is implemented as a compiler intrinsic on every
// architecture Go targets (a single hardware bit-scan instruction where
// available); there is no third-party library in the retrieved corpus
// that does this job better than the standard library already does, so
// this is one of the few primitives in this package built directly on
// math/bits rather than on an example-sourced dependency.
func fls(x uint64) int {
	if x == 0 {
		return -1
	}
	return bits.Len64(x) - 1
}

// ffs returns the index of the least significant set bit of x, or -1 if x
// is zero.
func ffs(x uint32) int {
	if x == 0 {
		return -1
	}
	return bits.TrailingZeros32(x)
}

// mapInsert computes the (fl, sl) cell that a block of the given size
// belongs to when it is inserted into the free-list matrix.
func mapInsert(size uint64) (fl, sl int) {
	if size < smallBlockThreshold {
		// mathutil.Min guards the size == smallBlockThreshold-1 edge the
		// same way lldb/falloc.go clamps a read-ahead count against a
		// buffer's remaining length before indexing with it.
		return 0, mathutil.Min(int(size/(smallBlockThreshold/slIndexCount)), slIndexCount-1)
	}

	f := fls(size)
	fl = f - flIndexShift + 1
	sl = int(size>>uint(f-slIndexCountLog2)) ^ slIndexCount
	return fl, sl
}

// mapSearch rounds size up to the next second-level boundary (when it
// isn't already one) before mapping, so that the cell search_suitable_block
// lands on is guaranteed to hold only blocks big enough for size - without
// ever having to walk a cell's list looking for one that fits. Sizes below
// smallBlockThreshold are mapped unrounded: each small cell is one ALIGN
// step wide, so the guarantee holds for the ALIGN-multiple sizes
// adjustRequest produces, not for an arbitrary small size such as 17.
func mapSearch(size uint64) (fl, sl int) {
	if size >= smallBlockThreshold {
		f := fls(size)
		mask := (uint64(1) << uint(f-slIndexCountLog2)) - 1
		size = size + mask
	}
	return mapInsert(size)
}

