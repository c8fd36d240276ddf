// cache.go: generic lazy function cache with per-key usage statistics
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// noEpoch marks an entry that has never been used in any reporting period.
const noEpoch = ^uint64(0)

// entryStats accumulates per-key usage statistics. All counters are
// monotonic; the attempted counter must never fall below processed.
type entryStats struct {
	lastEpoch uint64 // most recent epoch routed to this entry, noEpoch when unused
	periods   uint64 // distinct epochs in which the entry was used
	ticks     uint64 // cumulative time cost in caller ticks
	processed uint64 // work items actually produced
	attempted uint64 // work items attempted (>= processed)
	units     uint64 // work units (e.g. primitives) submitted
}

// cacheEntry pairs a compiled function with its statistics.
// The function is set exactly once, at creation.
type cacheEntry[F any] struct {
	fn F
	entryStats
}

// Handle routes usage statistics back to the entry returned by the most
// recent Lookup, without re-presenting the key. A Handle is valid only
// until the next Lookup on the same cache; the zero Handle is inert.
//
// Handles must not be retained across Lookup calls: the compiled
// function may be, the Handle may not.
type Handle struct {
	stats *entryStats
	gen   uint64
	key   uint64
}

// Valid reports whether the handle can still receive usage updates.
func (h Handle) Valid() bool { return h.stats != nil }

// FunctionCache maps an opaque configuration key to a lazily generated
// function and records per-key usage statistics supplied by the caller
// after each use.
//
// A cache is designed for a single logical owner: Lookup, RecordUsage
// and report generation are not internally synchronized. Callers that
// share a cache across goroutines must serialize every operation behind
// one external mutual-exclusion boundary; generation is rare (amortized
// once per distinct key), so finer-grained locking buys nothing.
type FunctionCache[K Key, F any] struct {
	name          string
	generate      func(K) (F, error)
	logger        Logger
	tickFrequency uint64

	entries map[K]*cacheEntry[F]
	lookups uint64 // doubles as the handle generation counter

	hits         uint64
	misses       uint64
	generated    uint64
	violations   uint64
	staleHandles uint64
}

// CacheStats provides statistics about cache behavior.
type CacheStats struct {
	// Lookups is the total number of Lookup calls
	Lookups uint64

	// Hits is the number of lookups served from the table
	Hits uint64

	// Misses is the number of lookups that triggered generation
	Misses uint64

	// Generations is the number of distinct compiled bodies materialized.
	// For a plain FunctionCache this equals the number of successful
	// generator invocations; a GeneratingCache does not count lookups
	// served by byte-identical body sharing.
	Generations uint64

	// SharedBodies is the number of generation attempts resolved by
	// byte-identical body sharing (GeneratingCache only)
	SharedBodies uint64

	// BytesEmitted is the cumulative size of committed code bodies
	// (GeneratingCache only)
	BytesEmitted uint64

	// ContractViolations counts RecordUsage calls that drove the
	// attempted counter below the processed counter
	ContractViolations uint64

	// StaleHandles counts RecordUsage calls dropped because their
	// handle outlived the Lookup that produced it
	StaleHandles uint64

	// Size is the current number of cached entries
	Size int
}

// HitRatio returns the cache hit ratio as a percentage (0-100).
// Returns 0.0 if no Lookup operations have been performed yet.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// NewFunctionCache creates a cache backed by the given generation
// capability. generate must be deterministic for a given key within the
// cache's lifetime: same key, same observable behavior.
func NewFunctionCache[K Key, F any](generate func(K) (F, error), cfg Config) (*FunctionCache[K, F], error) {
	if generate == nil {
		return nil, NewErrInvalidGenerator(cfg.Name)
	}
	_ = cfg.Validate()

	return &FunctionCache[K, F]{
		name:          cfg.Name,
		generate:      generate,
		logger:        cfg.Logger,
		tickFrequency: cfg.TickFrequency,
		entries:       make(map[K]*cacheEntry[F]),
	}, nil
}

// Lookup returns the compiled function for key, generating it on first
// use, together with a usage handle for routing statistics from the
// upcoming invocation. The handle from any previous Lookup is
// invalidated at the start of the call, hit or miss.
//
// Generation failure is propagated and installs nothing: a later Lookup
// for the same key retries from scratch.
func (c *FunctionCache[K, F]) Lookup(key K) (F, Handle, error) {
	c.lookups++

	if e, ok := c.entries[key]; ok {
		c.hits++
		return e.fn, Handle{stats: &e.entryStats, gen: c.lookups, key: uint64(key)}, nil
	}

	c.misses++

	fn, err := c.generate(key)
	if err != nil {
		var zero F
		return zero, Handle{}, err
	}

	e := &cacheEntry[F]{fn: fn}
	e.lastEpoch = noEpoch
	c.entries[key] = e
	c.generated++

	return e.fn, Handle{stats: &e.entryStats, gen: c.lookups, key: uint64(key)}, nil
}

// RecordUsage attributes one invocation's cost to the entry behind h.
//
// epoch identifies the reporting period (e.g. the frame number); the
// entry's period count grows by one the first time a new epoch is seen,
// no matter how many RecordUsage calls land within that epoch. ticks,
// processed, attempted and units accumulate unconditionally.
//
// A zero or stale handle makes the call a no-op. Driving the cumulative
// attempted count below processed is caller misuse: it is reported
// through the logger and the ContractViolations counter, never
// corrected and never fatal.
func (c *FunctionCache[K, F]) RecordUsage(h Handle, epoch, ticks uint64, processed, attempted, units int) {
	if h.stats == nil {
		return
	}
	if h.gen != c.lookups {
		c.staleHandles++
		c.logger.Debug("usage sample dropped", "cache", c.name, "error", NewErrStaleHandle(c.name))
		return
	}

	s := h.stats

	if s.lastEpoch != epoch {
		s.lastEpoch = epoch
		s.periods++
	}

	s.ticks += ticks
	s.processed += uint64(processed)
	s.attempted += uint64(attempted)
	s.units += uint64(units)

	if s.attempted < s.processed {
		c.violations++
		c.logger.Error("statistics contract violated",
			"cache", c.name,
			"error", NewErrStatsContract(h.key, s.processed, s.attempted))
	}
}

// Len returns the current number of cached entries.
func (c *FunctionCache[K, F]) Len() int {
	return len(c.entries)
}

// Name returns the cache name used in reports and logs.
func (c *FunctionCache[K, F]) Name() string {
	return c.name
}

// Logger returns the logger the cache was configured with.
func (c *FunctionCache[K, F]) Logger() Logger {
	return c.logger
}

// SetTickFrequency changes the tick rate used by stats reports.
// Intended for hot reload; it does not rescale already-recorded ticks.
func (c *FunctionCache[K, F]) SetTickFrequency(freq uint64) error {
	if freq == 0 {
		return NewErrInvalidTickFrequency(freq)
	}
	c.tickFrequency = freq
	return nil
}

// Stats returns cache statistics.
func (c *FunctionCache[K, F]) Stats() CacheStats {
	return CacheStats{
		Lookups:            c.lookups,
		Hits:               c.hits,
		Misses:             c.misses,
		Generations:        c.generated,
		ContractViolations: c.violations,
		StaleHandles:       c.staleHandles,
		Size:               len(c.entries),
	}
}

// Close tears the cache down, releasing every entry. The compiled
// functions themselves live in the arena (or the Go heap) and stay
// callable until their arena is destroyed; the cache only forgets them.
func (c *FunctionCache[K, F]) Close() error {
	c.logger.Debug("function cache closed",
		"cache", c.name,
		"entries", len(c.entries),
		"lookups", c.lookups)
	c.entries = make(map[K]*cacheEntry[F])
	c.lookups++ // outstanding handles become stale
	return nil
}
