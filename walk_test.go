// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func addrOf(b []byte) uintptr { return uintptr(unsafe.Pointer(&b[0])) }

func TestPoolWalkAscendingAndConservesBytes(t *testing.T) {
	const poolBytes = 1 << 16
	ctrl, p := mustPool(t, poolBytes)

	a := Malloc(ctrl, 300)
	b := Malloc(ctrl, 4000)
	require.NotNil(t, a)
	require.NotNil(t, b)
	Free(ctrl, a)

	var lastAddr uintptr
	var total uint64
	count := 0
	require.NoError(t, PoolWalk(p, func(payload []byte, size uint64, used bool) error {
		addr := addrOf(payload)
		if count > 0 {
			require.Greater(t, addr, lastAddr)
		}
		lastAddr = addr
		total += size + blockHeaderOverhead
		count++
		return nil
	}))

	require.Equal(t, uint64(poolBytes)-uint64(poolHeaderResidue)-blockHeaderOverhead, total)
}

func TestCheckOnHealthyPoolIsZero(t *testing.T) {
	ctrl, _ := mustPool(t, 1<<16)

	p1 := Malloc(ctrl, 100)
	p2 := Malloc(ctrl, 2000)
	p3 := Malloc(ctrl, 64)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	require.NotNil(t, p3)

	Free(ctrl, p2)
	require.Equal(t, 0, Check(ctrl))

	Free(ctrl, p1)
	Free(ctrl, p3)
	require.Equal(t, 0, Check(ctrl))
}
