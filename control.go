// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "github.com/sirupsen/logrus"

// controlSignature marks a live Control the same way the 2.4.6 C lineage
// of this package signs its on-disk control block, though here it is
// never written to host memory - just held in a Go field and checked by
// Control.valid under the tlsfdebug build tag (debug.go) to catch use
// after Destroy.
const controlSignature = 0x2A59FA59

// Stats accumulates running counters a Control updates on every Malloc,
// Free, Memalign, Calloc and Realloc call. It costs a handful of integer
// adds per call and is always on; no option or build tag turns it off.
type Stats struct {
	PoolBytes    uint64
	UsedBytes    uint64
	AllocCount   uint64
	FreeCount    uint64
	Relocations  uint64
}

// Control is a TLSF instance: the shared configuration for a set of pools,
// each of which carves its blocks independently (see Pool). A Control
// carries no unsafe state of its own - it is a plain Go struct, not a
// placement-new'd header inside host memory - only pools allocate from a
// host-supplied []byte that the unsafe bookkeeping in internal/rawblock
// touches (see DESIGN.md's Open Question notes on why the control block
// itself is not literally placed into caller storage).
type Control struct {
	signature uint32
	pools     []*Pool
	stats     Stats
	logger    *logrus.Logger
}

// valid reports whether c has a live signature - false before Create has
// run or after Destroy. Checked only under the tlsfdebug build tag (see
// debug.go); using a Control past Destroy is undefined behavior in a
// release build, same as any other precondition violation in this
// package.
func (c *Control) valid() bool { return c.signature == controlSignature }

// Create builds a Control, ready to have pools attached via AddPool. It
// accepts a storage argument to keep the shape spec.md's create(storage)
// names, and rejects one shorter than SizeRequiredForControl - but that
// requirement is zero bytes here. Unlike the pools a Control manages,
// whose bytes are addressed by unsafe in-band offsets and so must be raw
// host memory, the Control itself holds nothing performance-critical
// enough to justify literally placing its bookkeeping inside storage the
// way the C original does; storage may be nil. See DESIGN.md.
func Create(storage []byte, opts ...Option) (*Control, error) {
	if uint64(len(storage)) < SizeRequiredForControl() && storage != nil {
		return nil, &ConfigError{"storage smaller than size required for control", len(storage)}
	}
	c := &Control{signature: controlSignature}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateWithPool is the common-case convenience constructor: build a
// Control and attach memory as its first and only pool in one call,
// mirroring lldb's NewAllocator(Filer) which never separates "make an
// allocator" from "give it somewhere to allocate". Like spec.md's
// create_with_pool, the same buffer serves both roles; here that's
// trivial, since Create needs none of it for itself.
func CreateWithPool(memory []byte, opts ...Option) (*Control, *Pool, error) {
	c, err := Create(nil, opts...)
	if err != nil {
		return nil, nil, err
	}
	p, err := AddPool(c, memory)
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

// Destroy releases a Control's bookkeeping. It does not touch the bytes
// of any pool still attached - callers that want pool memory reusable
// must RemovePool each one first, exactly as lldb's Allocator never frees
// the underlying Filer itself.
func Destroy(c *Control) {
	c.pools = nil
	c.signature = 0
}

// Stats returns a snapshot of the running counters Malloc/Free/Memalign/
// Calloc/Realloc maintain.
func (c *Control) Stats() Stats { return c.stats }

// Pools returns the pools currently attached to c, in registration order -
// the same order Malloc searches them in.
func (c *Control) Pools() []*Pool {
	out := make([]*Pool, len(c.pools))
	copy(out, c.pools)
	return out
}

func (c *Control) logf(format string, args ...interface{}) {
	if c.logger == nil {
		return
	}
	c.logger.Debugf(format, args...)
}

// SizeRequiredForControl reports how many bytes Create itself needs from
// the host. It is always zero: see the doc comment on Control and
// DESIGN.md for why this package does not place its control block inside
// caller-supplied storage the way the C original does. Kept as a function
// (not removed) because spec.md's External Interfaces table names it.
func SizeRequiredForControl() uint64 { return 0 }

// AlignRequired returns ALIGN, the alignment of every payload this package
// hands out. A pool's backing slice need not satisfy it: AddPool aligns
// the pool's first block within the slice itself.
func AlignRequired() uint64 { return align }

// MinBlockSize returns the smallest payload size a used block can have.
func MinBlockSize() uint64 { return minBlockSize }

// MaxBlockSize returns the largest payload size the size-class mapping
// can address.
func MaxBlockSize() uint64 { return maxBlockSize }

// PoolOverhead returns the bookkeeping bytes a pool's backing slice spends
// on the header of its first block and on its sentinel, beyond what it
// can ever hand out as payload. It does not include the alignment pad: a
// backing slice that does not start ALIGN-aligned loses up to ALIGN-1
// further leading bytes.
func PoolOverhead() uint64 { return uint64(poolHeaderResidue) + poolOverhead }

// AllocOverhead returns the per-allocation bookkeeping cost: the two
// header words (prev_hdr plus size-and-flags) every block carries ahead
// of its payload.
func AllocOverhead() uint64 { return blockHeaderOverhead }
