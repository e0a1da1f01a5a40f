// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import (
	"github.com/cznic/mathutil"
	"github.com/cznic/tlsf/internal/rawblock"
)

// Out of memory is not an error condition at this package's API boundary:
// Malloc, Memalign, Realloc and Calloc return a plain nil slice when no
// pool holds a big enough block, the same as the C original's null
// pointer, since a Go error value on every allocation's hot path would
// cost an allocation of its own on the one interface where that is
// exactly the thing being avoided.

// payloadSlice returns the bytes of block b's payload in pool, sized to
// its current (post-trim) size.
func payloadSlice(pool []byte, b blockOff) []byte {
	off := payloadOf(b)
	size := blockSize(pool, b)
	return pool[off : uint64(off)+size : uint64(off)+size]
}

// findBlock locates the pool owning payload and the block backing it.
func findBlock(ctrl *Control, payload []byte) (*Pool, blockOff, bool) {
	for _, p := range ctrl.pools {
		if off, ok := rawblock.OffsetOf(p.data, payload); ok {
			return p, blockFromPayload(off), true
		}
	}
	return nil, nullBlock, false
}

// Malloc returns size bytes from the first pool of ctrl with a free block
// big enough, or nil if none does. Search, split and bookkeeping are all
// O(1) in the number of distinct size classes; only the outer loop over
// ctrl.pools scales with pool count, which a host is expected to keep
// small (see Pool's doc comment).
func Malloc(ctrl *Control, size uint64) []byte {
	assert(ctrl.valid(), "tlsf: Malloc on a destroyed control")
	adjusted := adjustRequest(size)
	if adjusted > maxBlockSize {
		return nil
	}

	for _, p := range ctrl.pools {
		b, ok := searchSuitableBlock(p.data, &p.m, adjusted)
		if !ok {
			continue
		}

		removeFreeBlock(p.data, &p.m, b)
		blockMarkUsed(p.data, b)
		trimFree(p.data, &p.m, b, adjusted)

		ctrl.stats.UsedBytes += blockSize(p.data, b)
		ctrl.stats.AllocCount++
		return payloadSlice(p.data, b)
	}
	return nil
}

// Calloc is Malloc(ctrl, n*size) with the product overflow-checked and
// the returned payload zeroed. original_source/tlsf_ori.h exposes
// calloc_ex alongside malloc_ex/free_ex/realloc_ex; this restores it.
func Calloc(ctrl *Control, n, size uint64) []byte {
	if size != 0 && n > maxBlockSize/size {
		return nil
	}

	mem := Malloc(ctrl, n*size)
	if mem == nil {
		return nil
	}
	for i := range mem {
		mem[i] = 0
	}
	return mem
}

// Memalign returns size bytes aligned to align, which must be a power of
// two, or nil if no pool can satisfy the request. It over-allocates by
// enough to guarantee a fit, then donates the leading pad (and, if the
// remainder is large enough, the trailing pad) back to the free-list
// matrix via trimUsedLeading/trimUsedTrailing.
func Memalign(ctrl *Control, reqAlign uint64, size uint64) []byte {
	assert(ctrl.valid(), "tlsf: Memalign on a destroyed control")
	if reqAlign == 0 || reqAlign&(reqAlign-1) != 0 {
		return nil
	}
	if reqAlign <= wordSize*2 {
		return Malloc(ctrl, size)
	}

	adjusted := adjustRequest(size)
	gap := reqAlign + blockHeaderOverhead + minBlockSize
	if adjusted+gap > maxBlockSize {
		return nil
	}

	for _, p := range ctrl.pools {
		b, ok := searchSuitableBlock(p.data, &p.m, adjusted+gap)
		if !ok {
			continue
		}

		removeFreeBlock(p.data, &p.m, b)
		blockMarkUsed(p.data, b)

		payload := payloadOf(b)
		aligned := rawblock.AlignOffset(p.data, payload, reqAlign)
		lead := uint64(aligned - payload)
		if lead != 0 && lead < blockHeaderOverhead+minBlockSize {
			lead += reqAlign
		}

		b = trimUsedLeading(p.data, &p.m, b, lead)
		trimUsedTrailing(p.data, &p.m, b, adjusted)

		ctrl.stats.UsedBytes += blockSize(p.data, b)
		ctrl.stats.AllocCount++
		return payloadSlice(p.data, b)
	}
	return nil
}

// Free returns payload to ctrl, coalescing with either physical neighbor
// that happens to already be free. payload must be a slice previously
// returned by Malloc, Calloc, Memalign or Realloc on this same ctrl and
// not already freed; violating that is undefined behavior in a release
// build and an assertion failure under the tlsfdebug build tag (see
// debug.go).
func Free(ctrl *Control, payload []byte) {
	assert(ctrl.valid(), "tlsf: Free on a destroyed control")
	p, b, ok := findBlock(ctrl, payload)
	assert(ok, "tlsf: Free of a pointer not owned by this control")
	if !ok {
		return
	}

	ctrl.stats.UsedBytes -= blockSize(p.data, b)
	ctrl.stats.FreeCount++

	blockMarkFree(p.data, b)
	b = mergePrev(p.data, &p.m, b)
	b = mergeNext(p.data, &p.m, b)
	insertFreeBlock(p.data, &p.m, b)
}

// Realloc resizes payload to size, preserving its contents up to
// min(old, new) bytes. It tries, in order: shrinking in place and
// trimming the remainder back to the free list; growing in place by
// absorbing a free next-neighbor; and finally relocating via Malloc plus
// copy plus Free. A nil payload behaves like Malloc, even with a size of
// 0; otherwise a size of 0 behaves like Free and returns nil.
func Realloc(ctrl *Control, payload []byte, size uint64) []byte {
	if payload == nil {
		return Malloc(ctrl, size)
	}
	if size == 0 {
		Free(ctrl, payload)
		return nil
	}

	p, b, ok := findBlock(ctrl, payload)
	assert(ok, "tlsf: Realloc of a pointer not owned by this control")
	if !ok {
		return nil
	}

	adjusted := adjustRequest(size)
	cur := blockSize(p.data, b)

	switch {
	case adjusted <= cur:
		trimUsedTrailing(p.data, &p.m, b, adjusted)
		ctrl.stats.UsedBytes -= cur - blockSize(p.data, b)
		return payloadSlice(p.data, b)

	case canGrowInPlace(p.data, b, adjusted):
		next := blockNext(p.data, b)
		removeFreeBlock(p.data, &p.m, next)
		blockSetSize(p.data, b, cur+blockHeaderOverhead+blockSize(p.data, next))
		blockLinkNeighbor(p.data, b)
		trimUsedTrailing(p.data, &p.m, b, adjusted)
		ctrl.stats.UsedBytes += blockSize(p.data, b) - cur
		return payloadSlice(p.data, b)

	default:
		newMem := Malloc(ctrl, size)
		if newMem == nil {
			return nil
		}
		old := payloadSlice(p.data, b)
		n := mathutil.Min(len(old), len(newMem))
		copy(newMem[:n], old[:n])
		Free(ctrl, payload)
		ctrl.stats.Relocations++
		return newMem
	}
}

// canGrowInPlace reports whether b's physically next neighbor is free and
// large enough that absorbing it would bring b up to at least adjusted
// bytes - the one case Realloc can satisfy without relocating.
func canGrowInPlace(pool []byte, b blockOff, adjusted uint64) bool {
	next := blockNext(pool, b)
	if !blockIsFree(pool, next) {
		return false
	}
	return blockSize(pool, b)+blockHeaderOverhead+blockSize(pool, next) >= adjusted
}

// BlockSize returns the usable payload size of a live allocation, the
// same value block_size(payload) reports in spec.md's external interface
// table.
func BlockSize(ctrl *Control, payload []byte) (uint64, bool) {
	p, b, ok := findBlock(ctrl, payload)
	if !ok {
		return 0, false
	}
	return blockSize(p.data, b), true
}
