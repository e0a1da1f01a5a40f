// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

// split carves a used-sized head off b and returns the remaining tail as a
// new block. b keeps its original free/used flag; the tail is born with
// free=false (used) and a PREV_FREE flag mirroring b's current state.
//
// Contract: the caller must immediately call blockMarkFree or
// blockMarkUsed on the returned block before performing any other
// operation that reads its physical successor's PREV_FREE flag - that
// call is what propagates the correct back-pointer past the newly
// inserted boundary (see blockLinkNeighbor in block.go).
//
// Precondition: blockCanSplit(pool, b, size).
func split(pool []byte, b blockOff, size uint64) blockOff {
	oldSize := blockSize(pool, b)
	restSize := oldSize - size - blockHeaderOverhead

	blockSetSize(pool, b, size)
	rest := blockNext(pool, b)
	blockInit(pool, rest, restSize, false, blockIsFree(pool, b))
	return rest
}

// mergePrev absorbs b into its physically previous block, if that
// neighbor is currently free, and returns the (possibly merged) block.
// The merged block is left exactly as free as prev was. This function
// removes prev from its free list itself; callers insert the result
// afterward.
func mergePrev(pool []byte, m *matrix, b blockOff) blockOff {
	if !blockIsPrevFree(pool, b) {
		return b
	}

	prev := blockPrev(pool, b)
	removeFreeBlock(pool, m, prev)

	blockSetSize(pool, prev, blockSize(pool, prev)+blockHeaderOverhead+blockSize(pool, b))
	blockLinkNeighbor(pool, prev)
	return prev
}

// mergeNext absorbs b's physically next block into b, if that neighbor is
// currently free. Callers remove the absorbed block from its free list
// implicitly via this call; b itself is not inserted anywhere by this
// function.
func mergeNext(pool []byte, m *matrix, b blockOff) blockOff {
	next := blockNext(pool, b)
	if !blockIsFree(pool, next) {
		return b
	}

	removeFreeBlock(pool, m, next)
	blockSetSize(pool, b, blockSize(pool, b)+blockHeaderOverhead+blockSize(pool, next))
	blockLinkNeighbor(pool, b)
	return b
}

// trimFree splits a free block down to size, if the remainder would be
// large enough to stand alone, and reinserts that remainder into the
// free-list matrix. b is assumed already removed from its own free list
// by the caller (it is about to be handed out as the used block).
func trimFree(pool []byte, m *matrix, b blockOff, size uint64) {
	if !blockCanSplit(pool, b, size) {
		return
	}

	rest := split(pool, b, size)
	blockMarkFree(pool, rest)
	insertFreeBlock(pool, m, rest)
}

// trimUsedTrailing carves the trailing remainder off an oversized used
// block and returns it to the free-list matrix, coalescing with the next
// physical block first if that neighbor happens to already be free.
func trimUsedTrailing(pool []byte, m *matrix, b blockOff, size uint64) {
	if !blockCanSplit(pool, b, size) {
		return
	}

	rest := split(pool, b, size)
	blockMarkFree(pool, rest)
	rest = mergeNext(pool, m, rest)
	insertFreeBlock(pool, m, rest)
}

// trimUsedLeading carves a leading chunk of leadBytes off the front of a
// used block b - used by Memalign to donate back the padding in front of
// an aligned payload - coalescing it with the previous physical block if
// that neighbor is free, and returns the offset of the shifted used
// block. leadBytes must be 0 or >= blockHeaderOverhead+minBlockSize.
func trimUsedLeading(pool []byte, m *matrix, b blockOff, leadBytes uint64) blockOff {
	if leadBytes == 0 {
		return b
	}

	frontPayload := leadBytes - blockHeaderOverhead
	shifted := split(pool, b, frontPayload)
	blockMarkFree(pool, b)
	b = mergePrev(pool, m, b)
	insertFreeBlock(pool, m, b)
	return shifted
}
