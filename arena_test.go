// arena_test.go: tests for the chunked bump allocator
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"bytes"
	"testing"
)

// TestSliceArena_ReserveCommit verifies dense packing: committing the
// actual footprint returns the unused tail to the arena.
func TestSliceArena_ReserveCommit(t *testing.T) {
	arena := NewSliceArena(1024)

	r1, err := arena.Reserve(256)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if len(r1) != 256 {
		t.Fatalf("expected 256-byte region, got %d", len(r1))
	}
	copy(r1, []byte("first"))
	arena.Commit(5)

	r2, err := arena.Reserve(256)
	if err != nil {
		t.Fatalf("second Reserve failed: %v", err)
	}

	// The second reservation starts right after the committed footprint.
	if !bytes.Equal(r1[:5], []byte("first")) {
		t.Error("committed bytes were disturbed")
	}
	copy(r2, []byte("second"))
	arena.Commit(6)

	if arena.Committed() != 11 {
		t.Errorf("expected 11 committed bytes, got %d", arena.Committed())
	}
	if arena.Blocks() != 1 {
		t.Errorf("expected both bodies in one block, got %d", arena.Blocks())
	}
	if !bytes.Equal(r1[:5], []byte("first")) || !bytes.Equal(r2[:6], []byte("second")) {
		t.Error("committed bodies must remain valid and immutable")
	}
}

// TestSliceArena_CommitZero verifies that releasing a reservation
// consumes no space and the next reservation reuses it.
func TestSliceArena_CommitZero(t *testing.T) {
	arena := NewSliceArena(1024)

	r1, _ := arena.Reserve(128)
	arena.Commit(0)

	r2, err := arena.Reserve(128)
	if err != nil {
		t.Fatalf("Reserve after release failed: %v", err)
	}
	if &r1[0] != &r2[0] {
		t.Error("expected released reservation to be reused")
	}
	if arena.Committed() != 0 {
		t.Errorf("expected 0 committed bytes, got %d", arena.Committed())
	}
}

// TestSliceArena_BlockGrowth verifies that a reservation that does not
// fit the current block allocates a fresh one while old blocks keep
// their committed bodies valid.
func TestSliceArena_BlockGrowth(t *testing.T) {
	arena := NewSliceArena(64)

	r1, _ := arena.Reserve(48)
	copy(r1, []byte("retained"))
	arena.Commit(48)

	// 48 + 48 > 64 forces a new block.
	if _, err := arena.Reserve(48); err != nil {
		t.Fatalf("Reserve across block boundary failed: %v", err)
	}
	arena.Commit(16)

	if arena.Blocks() != 2 {
		t.Errorf("expected 2 blocks, got %d", arena.Blocks())
	}
	if !bytes.Equal(r1[:8], []byte("retained")) {
		t.Error("body in the old block was disturbed")
	}
}

// TestSliceArena_OversizedReservation verifies that a reservation
// larger than the block size gets a dedicated block.
func TestSliceArena_OversizedReservation(t *testing.T) {
	arena := NewSliceArena(64)

	r, err := arena.Reserve(4096)
	if err != nil {
		t.Fatalf("oversized Reserve failed: %v", err)
	}
	if len(r) != 4096 {
		t.Errorf("expected 4096-byte region, got %d", len(r))
	}
	arena.Commit(4096)
	if arena.Committed() != 4096 {
		t.Errorf("expected 4096 committed, got %d", arena.Committed())
	}
}

// TestSliceArena_Misuse verifies contract enforcement: non-positive
// reservations and reservation overlap are rejected, commits are
// clamped.
func TestSliceArena_Misuse(t *testing.T) {
	arena := NewSliceArena(1024)

	if _, err := arena.Reserve(0); err == nil {
		t.Error("expected error for zero-size reservation")
	}

	if _, err := arena.Reserve(64); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if _, err := arena.Reserve(64); err == nil {
		t.Error("expected error for overlapping reservation")
	}

	// Commit beyond the reservation is clamped to it.
	arena.Commit(128)
	if arena.Committed() != 64 {
		t.Errorf("expected clamp to 64, got %d", arena.Committed())
	}

	// Commit without a reservation is a no-op.
	arena.Commit(32)
	if arena.Committed() != 64 {
		t.Errorf("expected no-op commit, got %d", arena.Committed())
	}
}

// TestSliceArena_DefaultBlockSize verifies the zero-config constructor.
func TestSliceArena_DefaultBlockSize(t *testing.T) {
	arena := NewSliceArena(0)
	if arena.blockSize != DefaultArenaBlockSize {
		t.Errorf("expected default block size %d, got %d", DefaultArenaBlockSize, arena.blockSize)
	}
}
