// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "testing"

func TestFlsFfs(t *testing.T) {
	if g, e := fls(0), -1; g != e {
		t.Fatalf("fls(0) = %d, want %d", g, e)
	}
	if g, e := fls(1), 0; g != e {
		t.Fatalf("fls(1) = %d, want %d", g, e)
	}
	if g, e := fls(1<<20), 20; g != e {
		t.Fatalf("fls(1<<20) = %d, want %d", g, e)
	}

	if g, e := ffs(0), -1; g != e {
		t.Fatalf("ffs(0) = %d, want %d", g, e)
	}
	if g, e := ffs(1<<7), 7; g != e {
		t.Fatalf("ffs(1<<7) = %d, want %d", g, e)
	}
}

func TestMapSearchRoundsUpToClass(t *testing.T) {
	for _, size := range []uint64{1, 17, 511, 512, 513, 4095, 4096, 1 << 20, 1 << 30} {
		fl, sl := mapSearch(size)
		if fl < 0 || fl >= flIndexCount || sl < 0 || sl >= slIndexCount {
			t.Fatalf("mapSearch(%d) = (%d, %d) out of range", size, fl, sl)
		}
		if size >= smallBlockThreshold {
			// Smallest block size that mapInsert puts into cell (fl, sl).
			f := uint(fl + flIndexShift - 1)
			lower := uint64(1)<<f + uint64(sl)<<(f-slIndexCountLog2)
			if lower < size {
				t.Fatalf("mapSearch(%d) = (%d, %d), a class starting at %d", size, fl, sl, lower)
			}
		}
	}
}

func TestMapInsertSmallBlocksLinear(t *testing.T) {
	fl, sl0 := mapInsert(0)
	if fl != 0 {
		t.Fatalf("mapInsert(0) fl = %d, want 0", fl)
	}
	_, sl1 := mapInsert(smallBlockThreshold / slIndexCount)
	if sl1 <= sl0 {
		t.Fatalf("mapInsert second-level index did not advance: %d <= %d", sl1, sl0)
	}
}
