// interfaces.go: public interfaces for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// Key constrains cache keys to fixed-width unsigned values.
// Keys are opaque configuration selectors (typically packed bitfields);
// the cache only compares them, maps on them and renders them in hex.
type Key interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// CodeArena is a growable region of executable memory from which the
// cache requests contiguous slices for generated instructions.
//
// The arena is append-only: once a reservation has been committed the
// returned bytes must remain valid and immutable for the lifetime of
// the arena (no relocation of already-compiled bodies).
//
// Implementations are not required to be safe for concurrent use; the
// cache serializes all arena access on its owner thread.
type CodeArena interface {
	// Reserve returns a writable region of at least max bytes.
	// The region stays owned by the arena; the caller must follow up
	// with exactly one Commit before the next Reserve.
	Reserve(max int) ([]byte, error)

	// Commit trims the most recent reservation to size bytes, returning
	// the unused tail to the arena. Commit(0) releases the whole
	// reservation.
	Commit(size int)
}

// CodeGenerator is the instruction-encoding backend that turns a key
// into native instructions. Xanthos never inspects the emitted bytes
// beyond content hashing; encoding is entirely the backend's concern.
type CodeGenerator[K Key, F any] interface {
	// Generate writes the compiled body for key into region and returns
	// the callable entry point together with the number of bytes
	// written. param is the opaque environment value the cache was
	// constructed with.
	//
	// The emitted size must be strictly less than len(region);
	// reaching or exceeding it is a fatal configuration error.
	Generate(param any, key K, region []byte) (fn F, size int, err error)
}

// GeneratorFunc adapts a plain function to the CodeGenerator interface.
type GeneratorFunc[K Key, F any] func(param any, key K, region []byte) (F, int, error)

// Generate calls g.
func (g GeneratorFunc[K, F]) Generate(param any, key K, region []byte) (F, int, error) {
	return g(param, key, region)
}

// MethodSink receives best-effort notifications about freshly generated
// code, for profiler and tooling integration (method-load events,
// disassembly dumps). Absence of a sink must not alter cache behavior.
type MethodSink interface {
	// MethodLoaded is called once per newly materialized body.
	// name identifies the variant (cache name plus key in hex) and code
	// aliases the committed bytes; the sink must not retain or mutate
	// the slice past the call.
	MethodLoaded(name string, code []byte)
}

// NoOpMethodSink is a sink that does nothing. Used as default to avoid
// nil checks on the generation path.
type NoOpMethodSink struct{}

// MethodLoaded does nothing (no-op implementation).
func (NoOpMethodSink) MethodLoaded(name string, code []byte) {}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
// Xanthos uses it only for generation-duration diagnostics; the tick
// counts reported through RecordUsage come from the caller.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}
