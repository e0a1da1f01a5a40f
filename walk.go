// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "github.com/cznic/tlsf/internal/rawblock"

// PoolWalk visits every block of p, in physical order, passing its
// payload slice, size and used/free state to visit. It stops and returns
// visit's error the first time visit returns one.
func PoolWalk(p *Pool, visit func(payload []byte, size uint64, used bool) error) error {
	for b := p.first; b != p.sentinel; b = blockNext(p.data, b) {
		size := blockSize(p.data, b)
		used := !blockIsFree(p.data, b)
		if err := visit(payloadSlice(p.data, b), size, used); err != nil {
			return err
		}
	}
	return nil
}

// Check walks every pool of ctrl looking for violations of the
// invariants spec.md §3 lists, logging one ErrCorrupt-shaped entry per
// violation found through ctrl's logger (if any) and returning the total
// count. It never returns an error itself and never touches the data
// structure - only spec.md's external check operation calls it, always
// off the hot path.
func Check(ctrl *Control) int {
	violations := 0
	report := func(poolIdx int, v Violation, off blockOff, arg int64) {
		violations++
		e := &ErrCorrupt{Type: v, Off: int64(off), Arg: arg}
		ctrl.logf("pool=%d %s", poolIdx, e.Error())
	}

	for pi, p := range ctrl.pools {
		for b := p.first; ; b = blockNext(p.data, b) {
			if uint64(payloadOf(b))%align != 0 {
				report(pi, ViolationMisaligned, b, 0)
			}
			if blockSize(p.data, b)%align != 0 && b != p.sentinel {
				report(pi, ViolationSizeNotAligned, b, int64(blockSize(p.data, b)))
			}

			if b == p.sentinel {
				if blockSize(p.data, b) != sentinelSize || blockIsFree(p.data, b) {
					report(pi, ViolationBadSentinel, b, 0)
				}
				break
			}

			next := blockNext(p.data, b)
			if blockIsFree(p.data, b) && blockIsFree(p.data, next) {
				report(pi, ViolationAdjacentFree, b, 0)
			}

			if blockIsPrevFree(p.data, b) {
				prev := blockPrev(p.data, b)
				if !blockIsFree(p.data, prev) || blockNext(p.data, prev) != b {
					report(pi, ViolationPrevPhysMismatch, b, int64(prev))
				}
			}

			if blockIsFree(p.data, b) {
				fl, sl := mapInsert(blockSize(p.data, b))
				if p.m.blocks[fl][sl] != b {
					found := false
					for at := p.m.blocks[fl][sl]; at != nullBlock; at = rawblock.FreeNext(p.data, at) {
						if at == b {
							found = true
							break
						}
					}
					if !found {
						report(pi, ViolationSizeClassMismatch, b, int64(fl<<16|sl))
					}
				}
				if p.m.flBitmap&(1<<uint(fl)) == 0 || p.m.slBitmap[fl]&(1<<uint(sl)) == 0 {
					report(pi, ViolationBitmapMismatch, b, int64(fl<<16|sl))
				}
			}
		}
	}
	return violations
}
