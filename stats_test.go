// stats_test.go: tests for per-key usage statistics accounting
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync"
	"testing"
)

// recordingLogger captures Error calls so contract violations can be
// asserted on.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debug(msg string, keyvals ...interface{}) {}
func (l *recordingLogger) Info(msg string, keyvals ...interface{})  {}
func (l *recordingLogger) Warn(msg string, keyvals ...interface{})  {}
func (l *recordingLogger) Error(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func newStatsCache(t *testing.T, cfg Config) *FunctionCache[uint64, func() uint64] {
	t.Helper()
	cache, err := NewFunctionCache[uint64](func(key uint64) (func() uint64, error) {
		return func() uint64 { return key }, nil
	}, cfg)
	if err != nil {
		t.Fatalf("NewFunctionCache failed: %v", err)
	}
	return cache
}

// TestRecordUsage_Accumulation runs the reference accounting scenario:
// two samples within one epoch accumulate all counters but bump the
// period count exactly once.
func TestRecordUsage_Accumulation(t *testing.T) {
	cache := newStatsCache(t, DefaultConfig())
	defer cache.Close()

	_, h, err := cache.Lookup(0x1)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	cache.RecordUsage(h, 1, 1000, 10, 12, 10)
	cache.RecordUsage(h, 1, 500, 5, 5, 5)

	e := cache.entries[0x1]
	if e.periods != 1 {
		t.Errorf("expected periods=1, got %d", e.periods)
	}
	if e.ticks != 1500 {
		t.Errorf("expected ticks=1500, got %d", e.ticks)
	}
	if e.processed != 15 {
		t.Errorf("expected processed=15, got %d", e.processed)
	}
	if e.attempted != 17 {
		t.Errorf("expected attempted=17, got %d", e.attempted)
	}
	if e.units != 15 {
		t.Errorf("expected units=15, got %d", e.units)
	}
}

// TestRecordUsage_PeriodCounting verifies that the period count tracks
// distinct epochs, not call volume.
func TestRecordUsage_PeriodCounting(t *testing.T) {
	cache := newStatsCache(t, DefaultConfig())
	defer cache.Close()

	t.Run("TwoEpochs", func(t *testing.T) {
		_, h, _ := cache.Lookup(0x1)
		cache.RecordUsage(h, 1, 100, 1, 1, 1)
		cache.RecordUsage(h, 2, 100, 1, 1, 1)
		if e := cache.entries[0x1]; e.periods != 2 {
			t.Errorf("expected periods=2, got %d", e.periods)
		}
	})

	t.Run("RepeatedEpoch", func(t *testing.T) {
		_, h, _ := cache.Lookup(0x2)
		cache.RecordUsage(h, 1, 100, 1, 1, 1)
		cache.RecordUsage(h, 1, 100, 1, 1, 1)
		if e := cache.entries[0x2]; e.periods != 1 {
			t.Errorf("expected periods=1, got %d", e.periods)
		}
	})

	t.Run("EpochPerEntry", func(t *testing.T) {
		// The same epoch seen by two entries bumps each entry once.
		_, h3, _ := cache.Lookup(0x3)
		cache.RecordUsage(h3, 7, 100, 1, 1, 1)
		_, h4, _ := cache.Lookup(0x4)
		cache.RecordUsage(h4, 7, 100, 1, 1, 1)

		if e := cache.entries[0x3]; e.periods != 1 {
			t.Errorf("entry 0x3: expected periods=1, got %d", e.periods)
		}
		if e := cache.entries[0x4]; e.periods != 1 {
			t.Errorf("entry 0x4: expected periods=1, got %d", e.periods)
		}
	})
}

// TestRecordUsage_Monotonic verifies that counters only ever grow, and
// periods grow by at most one per distinct epoch.
func TestRecordUsage_Monotonic(t *testing.T) {
	cache := newStatsCache(t, DefaultConfig())
	defer cache.Close()

	_, h, _ := cache.Lookup(0x1)

	var prev entryStats
	epochs := []uint64{1, 1, 2, 2, 2, 3, 5, 5, 8}
	distinct := map[uint64]bool{}

	for i, epoch := range epochs {
		cache.RecordUsage(h, epoch, 100, 4, 5, 2)
		distinct[epoch] = true

		e := cache.entries[0x1]
		if e.periods < prev.periods || e.ticks < prev.ticks ||
			e.processed < prev.processed || e.attempted < prev.attempted {
			t.Fatalf("sample %d: counters regressed: %+v -> %+v", i, prev, e.entryStats)
		}
		if e.periods > uint64(len(distinct)) {
			t.Fatalf("sample %d: periods %d exceeds distinct epochs %d", i, e.periods, len(distinct))
		}
		if e.attempted < e.processed {
			t.Fatalf("sample %d: attempted %d < processed %d", i, e.attempted, e.processed)
		}
		prev = e.entryStats
	}

	if e := cache.entries[0x1]; e.periods != uint64(len(distinct)) {
		t.Errorf("expected periods=%d, got %d", len(distinct), e.periods)
	}
}

// TestRecordUsage_ContractViolation verifies that driving attempted
// below processed is reported but neither corrected nor fatal.
func TestRecordUsage_ContractViolation(t *testing.T) {
	logger := &recordingLogger{}
	cfg := DefaultConfig()
	cfg.Logger = logger

	cache := newStatsCache(t, cfg)
	defer cache.Close()

	_, h, _ := cache.Lookup(0x1)

	// attempted < processed in one sample drags the accumulated
	// attempted count below processed.
	cache.RecordUsage(h, 1, 100, 10, 3, 1)

	stats := cache.Stats()
	if stats.ContractViolations != 1 {
		t.Errorf("expected 1 contract violation, got %d", stats.ContractViolations)
	}
	if len(logger.errors) != 1 {
		t.Errorf("expected 1 logged error, got %d", len(logger.errors))
	}

	// Counters keep the misreported values; nothing is corrected.
	e := cache.entries[0x1]
	if e.processed != 10 || e.attempted != 3 {
		t.Errorf("expected uncorrected counters, got processed=%d attempted=%d", e.processed, e.attempted)
	}

	// The cache remains usable.
	cache.RecordUsage(h, 2, 100, 0, 10, 1)
	if e.periods != 2 {
		t.Errorf("expected cache to keep recording, periods=%d", e.periods)
	}
}

// TestRecordUsage_NeverUsedSentinel verifies that a fresh entry has no
// periods until the first sample arrives, whatever the first epoch is.
func TestRecordUsage_NeverUsedSentinel(t *testing.T) {
	cache := newStatsCache(t, DefaultConfig())
	defer cache.Close()

	_, h, _ := cache.Lookup(0x1)
	if e := cache.entries[0x1]; e.periods != 0 {
		t.Errorf("expected 0 periods before first sample, got %d", e.periods)
	}

	// Epoch 0 is a legitimate first period.
	cache.RecordUsage(h, 0, 100, 1, 1, 1)
	if e := cache.entries[0x1]; e.periods != 1 {
		t.Errorf("expected epoch 0 to open a period, got %d", e.periods)
	}
}
