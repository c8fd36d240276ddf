// config.go: configuration for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the cache.
type Config struct {
	// Name identifies the cache in reports, logs and method-load
	// notifications (e.g. "scanline", "setup-prim").
	// Default: "xanthos".
	Name string

	// MaxCodeSize is the reservation requested from the arena for each
	// generation attempt, in bytes. It must strictly upper-bound the
	// largest body the backend can emit for any key.
	// Must be > 0. Default: DefaultMaxCodeSize.
	MaxCodeSize int

	// TickFrequency is the number of ticks per second of the clock the
	// caller uses for RecordUsage. Stats reports use it to convert tick
	// totals to wall time. Default: DefaultTickFrequency (nanoseconds).
	TickFrequency uint64

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for generation-duration
	// diagnostics. If nil, a default implementation is used.
	// Default: system time via go-timecache.
	TimeProvider TimeProvider

	// Sink receives method-load notifications when new code is
	// generated (profiler integration). If nil, NoOpMethodSink is used
	// and generation behaves identically. Default: NoOpMethodSink.
	Sink MethodSink
}

// Validate checks configuration parameters and applies sensible defaults.
// Returns nil (no actual validation errors, only normalization).
//
// This method is automatically called by NewFunctionCache and
// NewGeneratingCache, so you typically don't need to call it manually.
// However, it's provided as a public API if you want to inspect the
// normalized configuration before creating a cache.
//
// Default values applied:
//   - Name: "xanthos" if empty
//   - MaxCodeSize: DefaultMaxCodeSize (8192) if <= 0
//   - TickFrequency: DefaultTickFrequency (1e9) if 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - Sink: NoOpMethodSink{} if nil
func (c *Config) Validate() error {
	if c.Name == "" {
		c.Name = "xanthos"
	}

	if c.MaxCodeSize <= 0 {
		c.MaxCodeSize = DefaultMaxCodeSize
	}

	if c.TickFrequency == 0 {
		c.TickFrequency = DefaultTickFrequency
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.Sink == nil {
		c.Sink = NoOpMethodSink{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:          "xanthos",
		MaxCodeSize:   DefaultMaxCodeSize,
		TickFrequency: DefaultTickFrequency,
		Logger:        NoOpLogger{},
		TimeProvider:  &systemTimeProvider{},
		Sink:          NoOpMethodSink{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access compared to time.Now() with
// zero allocations, which matters because it sits on the generation path.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
