// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeConcurrentMallocFree(t *testing.T) {
	ctrl, err := Create(nil)
	require.NoError(t, err)
	_, err = AddPool(ctrl, alignedBuf(1<<20))
	require.NoError(t, err)

	s := NewSafe(ctrl)

	const goroutines = 16
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				mem := s.Malloc(uint64(16 + i%200))
				if mem != nil {
					mem[0] = 1
					s.Free(mem)
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 0, s.Check())
}
