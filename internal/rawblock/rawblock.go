// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rawblock isolates the unsafe, in-band pointer arithmetic that
// backs every tlsf block header.
//
// A pool is a host-supplied []byte. Every region of it, free or used, is
// described by a two-word header living in-band at the start of the
// region: a prev_hdr word (valid only while the physically previous block
// is free; see PrevPhys) followed by a packed size-and-flags word, then the
// payload. Fixing the header at two words - the same width as ALIGN - is
// what keeps every block's payload landing on an ALIGN boundary: the
// stride from one block's payload to the next is header + size, and size
// is always an ALIGN multiple, so the header must be one too (see
// tlsf_ori.h's BHDR_OVERHEAD). Everything above this package addresses a
// block by its Off, a byte offset into the pool, and never touches the
// backing array directly.
package rawblock

import "unsafe"

// WordSize is the width, in bytes, of every header field and free-list
// link. tlsf targets 64-bit hosts, so a word is 8 bytes.
const WordSize = 8

// Align is the minimum payload alignment: two words, so that a free
// block's next/prev free-list links always fit inside the smallest
// allocatable payload.
const Align = 2 * WordSize

// HeaderSize is the width, in bytes, of a block's header: the prev_hdr
// word plus the size-and-flags word. It is deliberately equal to Align
// (see the package doc comment) so that a block header starting on an
// Align boundary always puts the payload right back on one too.
const HeaderSize = 2 * WordSize

// Flags packed into the low bits of a block's size word.
const (
	FlagFree     uint64 = 1 << 0 // this block is on a free list
	FlagPrevFree uint64 = 1 << 1 // the physically previous block is free
	flagMask            = FlagFree | FlagPrevFree
)

// Off is a byte offset into a pool's backing slice, naming a block by the
// start of its header (the prev_hdr word). Off(0) never names a real
// block inside a pool body (pool layout always reserves the leading
// bytes), so it doubles as the null handle terminating free lists.
type Off uint32

func at(pool []byte, off Off) unsafe.Pointer {
	return unsafe.Pointer(&pool[off])
}

func load(pool []byte, off Off) uint64 {
	return *(*uint64)(at(pool, off))
}

func store(pool []byte, off Off, v uint64) {
	*(*uint64)(at(pool, off)) = v
}

// sizeOff is the offset, relative to a block's start, of its packed
// size-and-flags word - the second of the two header words.
const sizeOff = WordSize

// SizeAndFlags returns the raw packed word at a block's size field.
func SizeAndFlags(pool []byte, blockStart Off) uint64 { return load(pool, blockStart+sizeOff) }

// Size returns the block's payload size in bytes, flags masked off.
func Size(pool []byte, blockStart Off) uint64 { return load(pool, blockStart+sizeOff) &^ flagMask }

// SetSize rewrites a block's payload size, preserving its flags.
func SetSize(pool []byte, blockStart Off, size uint64) {
	v := load(pool, blockStart+sizeOff)
	store(pool, blockStart+sizeOff, (v&flagMask)|(size&^flagMask))
}

// SetHeader writes a block's size-and-flags word from scratch. Used when
// a block is carved out of previously unstructured payload bytes (split)
// and there is no prior header content worth preserving.
func SetHeader(pool []byte, blockStart Off, size uint64, free, prevFree bool) {
	v := size &^ flagMask
	if free {
		v |= FlagFree
	}
	if prevFree {
		v |= FlagPrevFree
	}
	store(pool, blockStart+sizeOff, v)
}

// IsFree reports whether the block itself is currently free.
func IsFree(pool []byte, blockStart Off) bool { return load(pool, blockStart+sizeOff)&FlagFree != 0 }

// IsPrevFree reports whether the physically previous block is free.
func IsPrevFree(pool []byte, blockStart Off) bool {
	return load(pool, blockStart+sizeOff)&FlagPrevFree != 0
}

// SetFree sets or clears the block's own FREE flag.
func SetFree(pool []byte, blockStart Off, free bool) {
	v := load(pool, blockStart+sizeOff)
	if free {
		v |= FlagFree
	} else {
		v &^= FlagFree
	}
	store(pool, blockStart+sizeOff, v)
}

// SetPrevFreeFlag sets or clears the PREV_FREE flag.
func SetPrevFreeFlag(pool []byte, blockStart Off, free bool) {
	v := load(pool, blockStart+sizeOff)
	if free {
		v |= FlagPrevFree
	} else {
		v &^= FlagPrevFree
	}
	store(pool, blockStart+sizeOff, v)
}

// PrevPhys reads the physically previous block's start offset out of this
// block's own prev_hdr word (the first of its two header words). Valid
// only when IsPrevFree is true.
func PrevPhys(pool []byte, blockStart Off) Off { return Off(load(pool, blockStart)) }

// SetPrevPhys writes the physically previous block's start offset into
// this block's prev_hdr word. Caller must have PREV_FREE set.
func SetPrevPhys(pool []byte, blockStart Off, prev Off) {
	store(pool, blockStart, uint64(prev))
}

// Payload returns the offset of a block's payload: for a used block, the
// bytes returned to the caller; for a free block, the start of its
// next/prev free-list link pair. It sits a full HeaderSize past the
// block's start - past both the prev_hdr word and the size word.
func Payload(blockStart Off) Off { return blockStart + HeaderSize }

// FreeNext/FreePrev read and write the doubly linked free-list pointers.
// Valid only while the block is free; a used block's payload occupies this
// same memory. Free lists are pool-local (see matrix in freelist.go), so
// these stay Off like every other physical-layout field here.
func FreeNext(pool []byte, blockStart Off) Off { return Off(load(pool, Payload(blockStart))) }
func SetFreeNext(pool []byte, blockStart Off, next Off) {
	store(pool, Payload(blockStart), uint64(next))
}

func FreePrev(pool []byte, blockStart Off) Off {
	return Off(load(pool, Payload(blockStart) + WordSize))
}
func SetFreePrev(pool []byte, blockStart Off, prev Off) {
	store(pool, Payload(blockStart)+WordSize, uint64(prev))
}

// PayloadToBlock converts a payload offset back to its block start.
func PayloadToBlock(payload Off) Off { return payload - HeaderSize }

// AlignPad returns the smallest n >= 0 such that (address-of-mem's-first-
// byte + n) mod alignment == residue. A pool's first block must start at
// a fixed residue relative to ALIGN (see poolHeaderResidue in pool.go) so
// its payload lands ALIGN-aligned regardless of where the host's backing
// array itself happens to sit in the address space - mem is not assumed
// pre-aligned.
func AlignPad(mem []byte, alignment, residue uintptr) int {
	if len(mem) == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(&mem[0]))
	return int(((residue - addr) % alignment + alignment) % alignment)
}

// AlignOffset returns the smallest off' >= off such that the real address
// of pool[off'] - not merely its pool-relative offset - is a multiple of
// alignment, which must be a power of two. Memalign needs this rather than
// AlignPad because a pool's backing array is only guaranteed ALIGN-aligned;
// for a caller-requested alignment wider than ALIGN, the pool's own base
// address residue has to be folded into the computation, not just the
// offset within it.
func AlignOffset(pool []byte, off Off, alignment uint64) Off {
	if len(pool) == 0 {
		return off
	}
	addr := uintptr(unsafe.Pointer(&pool[0])) + uintptr(off)
	mask := uintptr(alignment) - 1
	aligned := (addr + mask) &^ mask
	return off + Off(aligned-addr)
}

// OffsetOf reports the byte offset of payload's first element within
// pool's backing array, answering "does this slice live inside this
// pool, and where" without the caller ever comparing pointers itself.
// Free/Realloc use it to recover a payload's owning block when the
// caller hands back a plain []byte rather than an opaque handle.
func OffsetOf(pool, payload []byte) (Off, bool) {
	if len(pool) == 0 || len(payload) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&pool[0]))
	p := uintptr(unsafe.Pointer(&payload[0]))
	if p < base || p-base >= uintptr(len(pool)) {
		return 0, false
	}
	return Off(p - base), true
}
