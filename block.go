// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "github.com/cznic/tlsf/internal/rawblock"

// blockOff names a block by the byte offset of its header - the prev_hdr
// word followed by the size-and-flags word - within a pool's backing
// slice. It is the pool-relative analogue of lldb's file-relative handle.
type blockOff = rawblock.Off

const nullBlock blockOff = 0

func blockSize(pool []byte, b blockOff) uint64   { return rawblock.Size(pool, b) }
func blockIsFree(pool []byte, b blockOff) bool   { return rawblock.IsFree(pool, b) }
func blockIsPrevFree(pool []byte, b blockOff) bool {
	return rawblock.IsPrevFree(pool, b)
}

func blockSetSize(pool []byte, b blockOff, size uint64) { rawblock.SetSize(pool, b, size) }

// blockInit writes a fresh header at b - used when a block is carved out
// of payload bytes that never held header content before (the tail half
// of a split).
func blockInit(pool []byte, b blockOff, size uint64, free, prevFree bool) {
	rawblock.SetHeader(pool, b, size, free, prevFree)
}

// blockMarkFree marks b free and updates its physical successor's
// PREV_FREE flag and back-pointer so that successor can later coalesce
// backward in O(1) without walking the physical list.
func blockMarkFree(pool []byte, b blockOff) {
	rawblock.SetFree(pool, b, true)
	blockLinkNeighbor(pool, b)
}

// blockMarkUsed is the inverse of blockMarkFree.
func blockMarkUsed(pool []byte, b blockOff) {
	rawblock.SetFree(pool, b, false)
	blockLinkNeighbor(pool, b)
}

// blockFromPayload recovers a block's start from the payload pointer
// handed to the caller by Malloc/Memalign.
func blockFromPayload(payload blockOff) blockOff { return rawblock.PayloadToBlock(payload) }

// payloadOf returns the payload offset of a block.
func payloadOf(b blockOff) blockOff { return rawblock.Payload(b) }

// blockNext returns the physically next block: the one immediately
// following b's payload in the pool.
func blockNext(pool []byte, b blockOff) blockOff {
	return blockOff(uint64(rawblock.Payload(b)) + blockSize(pool, b))
}

// blockPrev returns the physically previous block. Valid only when
// blockIsPrevFree(pool, b) is true.
func blockPrev(pool []byte, b blockOff) blockOff { return rawblock.PrevPhys(pool, b) }

// blockCanSplit reports whether carving a payload of size bytes off the
// front of b would leave a remainder big enough to stand alone as a block
// (header plus minimum payload).
func blockCanSplit(pool []byte, b blockOff, size uint64) bool {
	return blockSize(pool, b) >= size+blockHeaderOverhead+minBlockSize
}

// blockLinkNeighbor rewrites the PREV_FREE-dependent back-pointer that the
// physical successor of b holds, after b's address or free state changed.
func blockLinkNeighbor(pool []byte, b blockOff) {
	next := blockNext(pool, b)
	if blockIsFree(pool, b) {
		rawblock.SetPrevFreeFlag(pool, next, true)
		rawblock.SetPrevPhys(pool, next, b)
	} else {
		rawblock.SetPrevFreeFlag(pool, next, false)
	}
}
