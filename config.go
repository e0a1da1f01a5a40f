// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "github.com/cznic/tlsf/internal/rawblock"

// Compile-time tunables. These mirror the parameters of §4.1: the
// second-level index is a fixed 32-way linear split of each first-level
// (log2-scale) class, and the first-level range is wide enough to address
// pools up to 2^FLIndexMax-1 bytes.
const (
	wordSize = rawblock.WordSize // 8
	align    = rawblock.Align   // 16
	alignLog2 = 4 // log2(align)

	slIndexCountLog2 = 5
	slIndexCount     = 1 << slIndexCountLog2 // 32

	// FLIndexMax bounds the largest representable allocation at
	// 2^FLIndexMax - 1 bytes. 32 comfortably covers 64-bit hosts without
	// requiring a 64-entry first-level bitmap (fl_bitmap stays a single
	// uint32).
	flIndexMax = 32

	// flIndexShift: sizes smaller than 1<<flIndexShift are "small
	// blocks" and go straight into first-level class 0 with linear
	// sub-partitioning; see mapSmall in sizeclass.go.
	flIndexShift = slIndexCountLog2 + alignLog2 // 9 -> small-block threshold 512

	flIndexCount = flIndexMax - flIndexShift + 1 // 24

	smallBlockThreshold = 1 << flIndexShift // 512
)

const (
	// blockHeaderOverhead is the per-block bookkeeping cost: the two
	// header words (PrevPhys plus size+flags) every block - used or
	// free - carries immediately before its payload. It is fixed at
	// rawblock.HeaderSize, which deliberately equals align: the stride
	// from one block's payload to the next is blockHeaderOverhead+size,
	// and size is always an align multiple, so the header has to be one
	// too for every payload to land ALIGN-aligned (see
	// original_source/tlsf_ori.h's BHDR_OVERHEAD).
	blockHeaderOverhead = rawblock.HeaderSize

	// minBlockSize is the smallest payload a block can have: enough
	// room for the free-list next/prev pointers when the block is free.
	minBlockSize = 2 * wordSize

	// maxBlockSize is the largest payload size the size-class mapping
	// can address.
	maxBlockSize = (uint64(1) << flIndexMax) - 1

	// sentinelSize marks the permanently-used zero-size block that
	// terminates every pool, preventing coalesce past its end.
	sentinelSize = 0
)

// roundUp rounds n up to the next multiple of align.
func roundUp(n uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

// roundDown rounds n down to the next multiple of align - the
// ROUNDDOWN_SIZE counterpart original_source/tlsf_ori.h applies when
// carving a pool's first free block, so that a pool size that isn't
// itself an align multiple never leaves a block whose size violates
// spec.md invariant 7.
func roundDown(n uint64) uint64 {
	return n &^ (align - 1)
}

// adjustRequest clamps and aligns a user-requested payload size the way
// Malloc/Memalign do before ever consulting the free-list matrix: size
// zero is promoted to the minimum block size rather than rejected (see
// SPEC_FULL.md §10, Open Question carried over from spec.md Design Notes).
// A size above maxBlockSize comes back as maxBlockSize+1, which every
// caller rejects, so rounding never wraps a huge request to a small one.
func adjustRequest(size uint64) uint64 {
	if size > maxBlockSize {
		return maxBlockSize + 1
	}
	adjusted := roundUp(size)
	if adjusted < minBlockSize {
		adjusted = minBlockSize
	}
	return adjusted
}
