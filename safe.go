// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "sync"

// Safe wraps a Control with a mutex, giving every operation the
// serialized-access story spec.md §7 assumes a single Control instance
// needs from concurrent callers. lldb's Allocator left that entirely to
// its Filer (filer.go: "the other objects on package[sic], which should
// use a Filer from one goroutine"); tlsf instead bakes the lock in here
// so callers that do want concurrent access don't each reinvent it.
type Safe struct {
	mu   sync.Mutex
	ctrl *Control
}

// NewSafe wraps ctrl for concurrent use. ctrl must not be used directly
// by any other caller once wrapped.
func NewSafe(ctrl *Control) *Safe { return &Safe{ctrl: ctrl} }

func (s *Safe) Malloc(size uint64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Malloc(s.ctrl, size)
}

func (s *Safe) Calloc(n, size uint64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Calloc(s.ctrl, n, size)
}

func (s *Safe) Memalign(align, size uint64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Memalign(s.ctrl, align, size)
}

func (s *Safe) Realloc(payload []byte, size uint64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Realloc(s.ctrl, payload, size)
}

func (s *Safe) Free(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Free(s.ctrl, payload)
}

func (s *Safe) AddPool(mem []byte) (*Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AddPool(s.ctrl, mem)
}

func (s *Safe) RemovePool(p *Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RemovePool(s.ctrl, p)
}

func (s *Safe) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Stats()
}

func (s *Safe) Check() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Check(s.ctrl)
}
