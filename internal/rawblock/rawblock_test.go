// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rawblock

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	pool := make([]byte, 256)
	SetHeader(pool, 16, 100, true, false)

	if g, e := Size(pool, 16), uint64(100); g != e {
		t.Fatalf("Size = %d, want %d", g, e)
	}
	if !IsFree(pool, 16) {
		t.Fatal("expected IsFree true")
	}
	if IsPrevFree(pool, 16) {
		t.Fatal("expected IsPrevFree false")
	}

	SetFree(pool, 16, false)
	if IsFree(pool, 16) {
		t.Fatal("expected IsFree false after SetFree(false)")
	}
	if g, e := Size(pool, 16), uint64(100); g != e {
		t.Fatalf("Size after SetFree changed unexpectedly: %d, want %d", g, e)
	}
}

func TestPrevPhysRoundTrip(t *testing.T) {
	pool := make([]byte, 256)
	SetPrevPhys(pool, 64, 16)
	if g, e := PrevPhys(pool, 64), Off(16); g != e {
		t.Fatalf("PrevPhys = %d, want %d", g, e)
	}
}

func TestFreeListLinkRoundTrip(t *testing.T) {
	pool := make([]byte, 256)
	SetHeader(pool, 32, 48, true, false)
	SetFreeNext(pool, 32, 128)
	SetFreePrev(pool, 32, 0)

	if g, e := FreeNext(pool, 32), Off(128); g != e {
		t.Fatalf("FreeNext = %d, want %d", g, e)
	}
	if g, e := FreePrev(pool, 32), Off(0); g != e {
		t.Fatalf("FreePrev = %d, want %d", g, e)
	}
}

func TestOffsetOf(t *testing.T) {
	pool := make([]byte, 256)
	payload := pool[40:60]

	off, ok := OffsetOf(pool, payload)
	if !ok || off != 40 {
		t.Fatalf("OffsetOf = (%d, %v), want (40, true)", off, ok)
	}

	outside := make([]byte, 16)
	if _, ok := OffsetOf(pool, outside); ok {
		t.Fatal("OffsetOf reported a foreign slice as contained")
	}
}

func TestPayloadConversions(t *testing.T) {
	if g, e := Payload(16), Off(32); g != e {
		t.Fatalf("Payload(16) = %d, want %d", g, e)
	}
	if g, e := PayloadToBlock(32), Off(16); g != e {
		t.Fatalf("PayloadToBlock(32) = %d, want %d", g, e)
	}
}
