// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPoolRejectsUndersizedMemory(t *testing.T) {
	ctrl, err := Create(nil)
	require.NoError(t, err)

	_, err = AddPool(ctrl, alignedBuf(4))
	require.Error(t, err)
}

func TestAddPoolAssignsDistinctIdentity(t *testing.T) {
	ctrl, err := Create(nil)
	require.NoError(t, err)

	p1, err := AddPool(ctrl, alignedBuf(1<<16))
	require.NoError(t, err)
	p2, err := AddPool(ctrl, alignedBuf(1<<16))
	require.NoError(t, err)

	require.NotEqual(t, p1.ID, p2.ID)
	require.Len(t, ctrl.Pools(), 2)
}

func TestMallocSpansMultiplePools(t *testing.T) {
	ctrl, err := Create(nil)
	require.NoError(t, err)

	_, err = AddPool(ctrl, alignedBuf(1<<12))
	require.NoError(t, err)

	first := Malloc(ctrl, 1<<13)
	require.Nil(t, first, "request larger than the only pool should fail")

	_, err = AddPool(ctrl, alignedBuf(1<<16))
	require.NoError(t, err)

	second := Malloc(ctrl, 1<<13)
	require.NotNil(t, second, "the second, larger pool should now satisfy the request")
}

// TestRemovePoolCapacityStable is invariant 6 of the testable properties:
// re-adding the same buffer after a successful remove_pool yields the
// same free capacity, within alignment padding.
func TestRemovePoolCapacityStable(t *testing.T) {
	ctrl, err := Create(nil)
	require.NoError(t, err)

	buf := alignedBuf(1 << 16)
	p, err := AddPool(ctrl, buf)
	require.NoError(t, err)

	capBefore := blockSize(p.data, p.first)
	require.NoError(t, RemovePool(ctrl, p))

	p2, err := AddPool(ctrl, buf)
	require.NoError(t, err)
	capAfter := blockSize(p2.data, p2.first)

	require.Equal(t, capBefore, capAfter)
}
