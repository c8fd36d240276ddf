// arena.go: chunked bump allocator backing code generation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// SliceArena is a CodeArena backed by heap-allocated blocks. It hands
// out a worst-case reservation from the current block and reclaims the
// unused tail on Commit, so bodies pack densely; when a block cannot
// hold the next reservation a fresh block is allocated and the old one
// is retained, keeping every committed body valid for the arena's
// lifetime.
//
// SliceArena memory is ordinary Go heap memory, not executable pages.
// It suits backends whose "compiled function" is a Go value (a closure
// specialized from the emitted byte program, an interpreter over it)
// and it is the arena used throughout the test suite. Embedders that
// emit real machine code supply their own CodeArena over mmap'd
// executable memory.
//
// A SliceArena is not safe for concurrent use; the owning cache
// serializes access.
type SliceArena struct {
	blockSize int
	blocks    [][]byte
	cur       []byte
	off       int
	reserved  int // active reservation size, -1 when none
	committed int
}

// NewSliceArena creates an arena that grows in blocks of blockSize
// bytes. If blockSize <= 0, DefaultArenaBlockSize is used.
func NewSliceArena(blockSize int) *SliceArena {
	if blockSize <= 0 {
		blockSize = DefaultArenaBlockSize
	}
	return &SliceArena{
		blockSize: blockSize,
		reserved:  -1,
	}
}

// Reserve returns a writable region of max bytes. An oversized max is
// honored with a dedicated block.
func (a *SliceArena) Reserve(max int) ([]byte, error) {
	if max <= 0 {
		return nil, NewErrArenaExhausted(max, nil)
	}
	if a.reserved >= 0 {
		return nil, NewErrInternal("reserve without commit", nil)
	}

	if a.cur == nil || a.off+max > len(a.cur) {
		size := a.blockSize
		if max > size {
			size = max
		}
		block := make([]byte, size)
		a.blocks = append(a.blocks, block)
		a.cur = block
		a.off = 0
	}

	a.reserved = max
	return a.cur[a.off : a.off+max], nil
}

// Commit trims the most recent reservation to size bytes. Commit(0)
// releases the whole reservation; sizes beyond the reservation are
// clamped to it. Commit without a pending reservation does nothing.
func (a *SliceArena) Commit(size int) {
	if a.reserved < 0 {
		return
	}
	if size < 0 {
		size = 0
	}
	if size > a.reserved {
		size = a.reserved
	}
	a.off += size
	a.committed += size
	a.reserved = -1
}

// Committed returns the cumulative number of committed bytes.
func (a *SliceArena) Committed() int {
	return a.committed
}

// Blocks returns the number of blocks the arena has allocated.
func (a *SliceArena) Blocks() int {
	return len(a.blocks)
}
