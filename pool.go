// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import (
	"github.com/cznic/tlsf/internal/rawblock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// poolOverhead is the bookkeeping a pool's backing slice must hold besides
// the payload bytes it eventually hands out: a header for the sentinel
// block at the end and a header for the one large free block at the
// start. The leading pad that keeps the first payload ALIGN-aligned is
// not included; newPool and validatePoolMemory add it separately.
const poolOverhead = 2 * blockHeaderOverhead

// poolHeaderResidue is the residue, modulo ALIGN, a pool's first block's
// header address must land on. blockHeaderOverhead is itself ALIGN bytes
// wide (see config.go), so a header placed at any ALIGN-aligned address
// puts its payload, HeaderSize further on, right back on an ALIGN
// boundary - the residue is simply 0.
const poolHeaderResidue = 0

// Pool is one contiguous span of memory a Control carves blocks out of.
// A Control may own several Pools (see AddPool); spec.md's Control block
// models one shared free-list matrix across all of a control's pools, but
// since a pool's free-list links are in-band 64-bit words living inside
// that pool's own []byte, this package gives every Pool its own matrix
// instead of threading pool-crossing pointers through borrowed header
// words (see SPEC_FULL.md's Open Question notes in DESIGN.md). Malloc
// scans a Control's pools in registration order, so the number of pools
// attached to a Control should stay small - the common case, and the one
// spec.md's own CreateWithPool convenience targets, is exactly one.
type Pool struct {
	ID uuid.UUID

	data     []byte
	m        matrix
	first    blockOff
	sentinel blockOff
}

// newPool carves mem into one large free block bracketed by a sentinel,
// aligning the first block's header up to ALIGN within mem itself
// (spec.md §4.6: add_pool "aligns mem up to ALIGN" rather than requiring
// the caller to have done so). The free block's payload is rounded down
// to an ALIGN multiple (original_source/tlsf_ori.h's ROUNDDOWN_SIZE) in
// case len(mem), after the alignment pad and poolOverhead are subtracted,
// isn't one already; any remainder bytes go unused rather than leaving a
// block whose size violates spec.md invariant 7. Callers (AddPool,
// CreateWithPool) check mem is big enough via validatePoolMemory before
// calling this.
func newPool(mem []byte) *Pool {
	p := &Pool{ID: uuid.New(), data: mem}

	pad := rawblock.AlignPad(mem, align, poolHeaderResidue)
	p.first = blockOff(pad)
	payload := roundDown(uint64(len(mem)) - uint64(pad) - poolOverhead)
	blockInit(p.data, p.first, payload, true, false)

	p.sentinel = blockNext(p.data, p.first)
	blockInit(p.data, p.sentinel, sentinelSize, false, true)
	blockLinkNeighbor(p.data, p.first)

	insertFreeBlock(p.data, &p.m, p.first)
	return p
}

// validatePoolMemory checks mem is big enough to hold a pool once its own
// ALIGN pad is accounted for - spec.md §4.6's "bytes >= pool_overhead +
// MIN_BLOCK_SIZE after alignment".
func validatePoolMemory(mem []byte) error {
	if len(mem) == 0 {
		return &ConfigError{"pool memory must not be empty", len(mem)}
	}
	pad := rawblock.AlignPad(mem, align, poolHeaderResidue)
	need := uint64(pad) + poolOverhead + minBlockSize
	if uint64(len(mem)) < need {
		return &ConfigError{"pool memory smaller than minimum pool size after alignment", len(mem)}
	}
	return nil
}

// AddPool attaches mem as an additional pool of ctrl, returning the new
// Pool so callers can later RemovePool it. mem is used in place, not
// copied; the caller must keep it alive and must not touch its bytes
// directly once it is handed to AddPool.
func AddPool(ctrl *Control, mem []byte) (*Pool, error) {
	if err := validatePoolMemory(mem); err != nil {
		return nil, errors.Wrap(err, "tlsf: AddPool")
	}

	p := newPool(mem)
	ctrl.pools = append(ctrl.pools, p)
	ctrl.stats.PoolBytes += uint64(len(mem))
	ctrl.logf("pool added id=%s bytes=%d", p.ID, len(mem))
	return p, nil
}

// poolIsEmpty reports whether p contains exactly one block, free, and
// spanning the pool entirely - spec.md's precondition for remove_pool.
func poolIsEmpty(p *Pool) bool {
	return blockIsFree(p.data, p.first) && blockNext(p.data, p.first) == p.sentinel
}

// RemovePool detaches p from ctrl. p must currently contain exactly one
// free block spanning it entirely; RemovePool does not itself coalesce or
// free anything to get there, matching spec.md §4.6's remove_pool, which
// leaves reaching that state entirely up to the caller.
func RemovePool(ctrl *Control, p *Pool) error {
	if !poolIsEmpty(p) {
		return &ConfigError{"pool not fully empty", p.ID}
	}

	for i, q := range ctrl.pools {
		if q == p {
			removeFreeBlock(p.data, &p.m, p.first)
			ctrl.pools = append(ctrl.pools[:i], ctrl.pools[i+1:]...)
			ctrl.stats.PoolBytes -= uint64(len(p.data))
			ctrl.logf("pool removed id=%s", p.ID)
			return nil
		}
	}
	return &ConfigError{"pool not owned by this control", p.ID}
}
