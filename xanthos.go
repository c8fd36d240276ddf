// Package xanthos provides a keyed just-in-time code-generation cache.
//
// Xanthos maps a compact configuration key (a bitfield selector, a
// pixel-format word, a blend-mode descriptor) to a compiled callable,
// generating the implementation on first use and tracking per-key
// runtime statistics thereafter. It was built for real-time rendering
// pipelines that specialize machine code per configuration and need
// visibility into which variants dominate frame cost.
//
// Example usage:
//
//	cache, err := xanthos.NewGeneratingCache[uint64, DrawFn](env, backend, arena, xanthos.Config{
//		Name:        "scanline",
//		MaxCodeSize: 8192,
//	})
//	if err != nil {
//		return err
//	}
//
//	fn, usage, err := cache.Lookup(key)
//	if err != nil {
//		return err
//	}
//	start := ticks()
//	pixels := fn(prims)
//	cache.RecordUsage(usage, frame, ticks()-start, pixels, attempted, len(prims))
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

const (
	// Version of Xanthos cache library
	Version = "v0.1.0-dev"

	// DefaultMaxCodeSize is the default per-generation reservation in bytes.
	// It must upper-bound the largest body a backend can emit for one key.
	DefaultMaxCodeSize = 8192

	// DefaultTickFrequency is the default tick rate used by stats reports
	// (nanosecond ticks).
	DefaultTickFrequency = 1_000_000_000

	// DefaultArenaBlockSize is the default block size of SliceArena
	DefaultArenaBlockSize = 256 * 1024
)
