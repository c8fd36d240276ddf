// codegen.go: arena-backed generating cache with body deduplication
//
// This file implements the specialization of FunctionCache that backs
// lazy generation with an instruction-encoding backend and a CodeArena,
// sharing one compiled blob between keys whose generated bodies come
// out byte-identical.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// bodyRef ties a materialized function to its committed code so hash
// collisions can be disambiguated with a byte comparison.
type bodyRef[F any] struct {
	fn   F
	code []byte
}

// GeneratingCache is a FunctionCache whose generation step emits native
// instructions through a CodeGenerator into a CodeArena.
//
// Generation reserves a worst-case MaxCodeSize block, lets the backend
// emit into it, then commits only the actual footprint, so the arena
// stays dense without a two-pass measure-then-emit protocol. Two dedup
// layers avoid redundant emission: a per-key index short-circuits
// repeat generation requests without touching the arena, and a content
// index (xxhash over the emitted bytes) shares one blob between
// structurally distinct keys that compile identically.
//
// Generation is non-reentrant: it mutates the arena cursor and both
// indexes, so at most one generation may be in flight per cache. The
// single-owner model inherited from FunctionCache already guarantees
// this.
type GeneratingCache[K Key, F any] struct {
	*FunctionCache[K, F]

	param        any
	backend      CodeGenerator[K, F]
	arena        CodeArena
	sink         MethodSink
	timeProvider TimeProvider
	maxCodeSize  int

	dedup  map[K]F
	bodies map[uint64][]bodyRef[F]

	generations uint64
	shared      uint64
	totalCode   uint64
}

// NewGeneratingCache creates a cache that compiles keys through backend
// into arena. param is an opaque environment value handed to the
// backend on every generation (e.g. a pointer to the scanline
// environment the emitted code closes over). If arena is nil, a
// SliceArena with the default block size is used.
func NewGeneratingCache[K Key, F any](param any, backend CodeGenerator[K, F], arena CodeArena, cfg Config) (*GeneratingCache[K, F], error) {
	_ = cfg.Validate()

	if backend == nil {
		return nil, NewErrInvalidGenerator(cfg.Name)
	}
	if arena == nil {
		arena = NewSliceArena(DefaultArenaBlockSize)
	}

	g := &GeneratingCache[K, F]{
		param:        param,
		backend:      backend,
		arena:        arena,
		sink:         cfg.Sink,
		timeProvider: cfg.TimeProvider,
		maxCodeSize:  cfg.MaxCodeSize,
		dedup:        make(map[K]F),
		bodies:       make(map[uint64][]bodyRef[F]),
	}

	inner, err := NewFunctionCache[K, F](g.generateDefault, cfg)
	if err != nil {
		return nil, err
	}
	g.FunctionCache = inner

	return g, nil
}

// generateDefault is the generation capability backing the embedded
// FunctionCache.
func (g *GeneratingCache[K, F]) generateDefault(key K) (F, error) {
	var zero F

	if fn, ok := g.dedup[key]; ok {
		return fn, nil
	}

	region, err := g.arena.Reserve(g.maxCodeSize)
	if err != nil {
		return zero, NewErrArenaExhausted(g.maxCodeSize, err)
	}

	start := g.timeProvider.Now()

	fn, size, err := g.backend.Generate(g.param, key, region)
	if err != nil {
		g.arena.Commit(0)
		return zero, NewErrBackendFailed(uint64(key), err)
	}
	if size < 0 || size >= g.maxCodeSize {
		// The next reservation would overlap this body; the bound must
		// be raised, not worked around.
		panic(NewErrGenerationOverflow(uint64(key), size, g.maxCodeSize))
	}

	body := region[:size]
	sum := xxhash.Sum64(body)
	for _, ref := range g.bodies[sum] {
		if bytes.Equal(ref.code, body) {
			g.arena.Commit(0)
			g.dedup[key] = ref.fn
			g.shared++
			g.logger.Debug("shared identical body",
				"cache", g.name,
				"key", fmt.Sprintf("%#x", uint64(key)),
				"bytes", size)
			return ref.fn, nil
		}
	}

	g.arena.Commit(size)
	g.generations++
	g.totalCode += uint64(size)
	g.bodies[sum] = append(g.bodies[sum], bodyRef[F]{fn: fn, code: body})
	g.dedup[key] = fn

	g.sink.MethodLoaded(fmt.Sprintf("%s<%016x>", g.name, uint64(key)), body)
	g.logger.Debug("generated code",
		"cache", g.name,
		"key", fmt.Sprintf("%#x", uint64(key)),
		"bytes", size,
		"elapsed_ns", g.timeProvider.Now()-start)

	return fn, nil
}

// TotalCodeSize returns the cumulative number of bytes committed for
// generated bodies.
func (g *GeneratingCache[K, F]) TotalCodeSize() uint64 {
	return g.totalCode
}

// SetMaxCodeSize changes the per-generation reservation bound.
// It applies to future generations only; already-committed bodies are
// unaffected. Intended for hot reload.
func (g *GeneratingCache[K, F]) SetMaxCodeSize(size int) error {
	if size <= 0 {
		return NewErrInvalidMaxCodeSize(size)
	}
	g.maxCodeSize = size
	return nil
}

// Stats returns cache statistics including generation counters.
func (g *GeneratingCache[K, F]) Stats() CacheStats {
	s := g.FunctionCache.Stats()
	s.Generations = g.generations
	s.SharedBodies = g.shared
	s.BytesEmitted = g.totalCode
	return s
}

// Close tears the cache down after logging a generation summary, the
// way a debug build reports total emitted instruction bytes at
// shutdown.
func (g *GeneratingCache[K, F]) Close() error {
	g.logger.Debug("code generation summary",
		"cache", g.name,
		"generated_bytes", g.totalCode,
		"bodies", g.generations,
		"shared", g.shared)
	return g.FunctionCache.Close()
}
