// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tlsfstress

package tlsf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStressRandomAllocFreeFullScale runs scenario 2 at the scale the
// spec actually names: a million-slot table over ten million iterations
// against a gigabyte pool. Excluded from the default test run by the
// tlsfstress build tag - `go test -tags tlsfstress ./...` to run it.
func TestStressRandomAllocFreeFullScale(t *testing.T) {
	const slots = 1_000_000
	const iterations = 10_000_000
	const poolSize = 1_000_000_000

	ctrl, _, err := CreateWithPool(alignedBuf(poolSize))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	table := make([][]byte, slots)
	oom := 0

	for i := 0; i < iterations; i++ {
		slot := rng.Intn(slots)
		if table[slot] != nil {
			Free(ctrl, table[slot])
			table[slot] = nil
		}
		mem := Malloc(ctrl, uint64(rng.Intn(5000)))
		if mem == nil {
			oom++
		}
		table[slot] = mem
	}

	for i, mem := range table {
		if mem != nil {
			Free(ctrl, mem)
			table[i] = nil
		}
	}

	require.Equal(t, 0, Check(ctrl))
	for _, mem := range table {
		require.Nil(t, mem)
	}
	t.Logf("oom count: %d", oom)
}
