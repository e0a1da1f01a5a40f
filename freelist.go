// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "github.com/cznic/tlsf/internal/rawblock"

// matrix is the segregated free-list table: a two-dimensional array of
// free-block list heads, indexed by (first-level, second-level) size
// class, plus the two bitmaps that let searchSuitableBlock find a
// populated cell in O(1) without probing every slot.
//
// This is the in-memory, bitmap-driven analogue of lldb's FLT (flt.go):
// lldb had to abstract its free-list heads behind the FLT interface
// because they lived in a persistent Filer and a canned implementation
// (FLTPowersOf2/FLTFib/FLTFull) picked how many buckets existed. tlsf's
// free-list heads have no persistence story at all - each Pool holds its
// own matrix as an ordinary Go field - so the buckets are the fixed
// (fl, sl) classes spec.md §4.1 mandates and the heads live directly in
// this struct - no Report/Head/SetHead indirection needed.
type matrix struct {
	flBitmap uint32
	slBitmap [flIndexCount]uint32
	blocks   [flIndexCount][slIndexCount]blockOff
}

// insertFreeBlock pushes b onto the head of the free list for its size
// class and sets the corresponding bitmap bits.
func insertFreeBlock(pool []byte, m *matrix, b blockOff) {
	fl, sl := mapInsert(blockSize(pool, b))
	head := m.blocks[fl][sl]

	rawblock.SetFreeNext(pool, b, head)
	rawblock.SetFreePrev(pool, b, nullBlock)
	if head != nullBlock {
		rawblock.SetFreePrev(pool, head, b)
	}

	m.blocks[fl][sl] = b
	m.slBitmap[fl] |= 1 << uint(sl)
	m.flBitmap |= 1 << uint(fl)
}

// removeFreeBlock unlinks b from its doubly linked free list, clearing
// bitmap bits for any cell left empty.
func removeFreeBlock(pool []byte, m *matrix, b blockOff) {
	fl, sl := mapInsert(blockSize(pool, b))
	prev := rawblock.FreePrev(pool, b)
	next := rawblock.FreeNext(pool, b)

	if next != nullBlock {
		rawblock.SetFreePrev(pool, next, prev)
	}
	if prev != nullBlock {
		rawblock.SetFreeNext(pool, prev, next)
	} else {
		m.blocks[fl][sl] = next
	}

	if m.blocks[fl][sl] == nullBlock {
		m.slBitmap[fl] &^= 1 << uint(sl)
		if m.slBitmap[fl] == 0 {
			m.flBitmap &^= 1 << uint(fl)
		}
	}
}

// searchSuitableBlock finds a free block whose size class is guaranteed to
// be big enough for size (mapSearch already rounded up to the class
// boundary), falling back to the next populated first-level class when
// the exact cell and everything above it in the same class is empty. It
// never walks a free list - only bitmap scans and a single head lookup.
func searchSuitableBlock(pool []byte, m *matrix, size uint64) (blockOff, bool) {
	fl, sl := mapSearch(size)
	if fl < 0 {
		fl = 0
	}
	if fl >= flIndexCount {
		return nullBlock, false
	}

	slMap := m.slBitmap[fl] & (^uint32(0) << uint(sl))
	if slMap == 0 {
		flMap := m.flBitmap & (^uint32(0) << uint(fl+1))
		if flMap == 0 {
			return nullBlock, false
		}
		fl = ffs(flMap)
		slMap = m.slBitmap[fl]
	}

	sl = ffs(slMap)
	return m.blocks[fl][sl], true
}
