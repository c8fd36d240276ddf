// errors.go: comprehensive error handling for xanthos cache operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all cache and code-generation operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for Xanthos cache operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig        errors.ErrorCode = "XANTHOS_INVALID_CONFIG"
	ErrCodeInvalidMaxCodeSize   errors.ErrorCode = "XANTHOS_INVALID_MAX_CODE_SIZE"
	ErrCodeInvalidTickFrequency errors.ErrorCode = "XANTHOS_INVALID_TICK_FREQUENCY"
	ErrCodeInvalidGenerator     errors.ErrorCode = "XANTHOS_INVALID_GENERATOR"
	ErrCodeInvalidArena         errors.ErrorCode = "XANTHOS_INVALID_ARENA"

	// Generation errors (2xxx)
	ErrCodeGenerationOverflow errors.ErrorCode = "XANTHOS_GENERATION_OVERFLOW"
	ErrCodeBackendFailed      errors.ErrorCode = "XANTHOS_BACKEND_FAILED"
	ErrCodeArenaExhausted     errors.ErrorCode = "XANTHOS_ARENA_EXHAUSTED"

	// Statistics errors (3xxx)
	ErrCodeStatsContract errors.ErrorCode = "XANTHOS_STATS_CONTRACT"
	ErrCodeStaleHandle   errors.ErrorCode = "XANTHOS_STALE_HANDLE"

	// Internal errors (4xxx)
	ErrCodeInternalError  errors.ErrorCode = "XANTHOS_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "XANTHOS_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidMaxCodeSize   = "invalid max code size: must be greater than 0"
	msgInvalidTickFrequency = "invalid tick frequency: must be greater than 0"
	msgInvalidGenerator     = "generator cannot be nil"
	msgInvalidArena         = "code arena cannot be nil"
	msgGenerationOverflow   = "backend emitted more bytes than the reserved maximum"
	msgBackendFailed        = "instruction-encoding backend failed"
	msgArenaExhausted       = "code arena cannot satisfy the reservation"
	msgStatsContract        = "attempted work-unit count fell below processed count"
	msgStaleHandle          = "usage handle is stale: a newer Lookup invalidated it"
	msgInternalError        = "internal cache error"
	msgPanicRecovered       = "panic recovered in cache operation"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidMaxCodeSize creates an error for an invalid generation bound
func NewErrInvalidMaxCodeSize(size int) error {
	return errors.NewWithContext(ErrCodeInvalidMaxCodeSize, msgInvalidMaxCodeSize, map[string]interface{}{
		"provided_size":    size,
		"minimum_required": 1,
	})
}

// NewErrInvalidTickFrequency creates an error for an invalid tick frequency
func NewErrInvalidTickFrequency(freq uint64) error {
	return errors.NewWithContext(ErrCodeInvalidTickFrequency, msgInvalidTickFrequency, map[string]interface{}{
		"provided_frequency": freq,
	})
}

// NewErrInvalidGenerator creates an error when the generation capability is nil
func NewErrInvalidGenerator(cacheName string) error {
	return errors.NewWithField(ErrCodeInvalidGenerator, msgInvalidGenerator, "cache", cacheName)
}

// NewErrInvalidArena creates an error when the code arena is nil
func NewErrInvalidArena(cacheName string) error {
	return errors.NewWithField(ErrCodeInvalidArena, msgInvalidArena, "cache", cacheName)
}

// =============================================================================
// GENERATION ERRORS
// =============================================================================

// NewErrGenerationOverflow creates an error when a backend emits a body that
// reaches or exceeds the reserved maximum. Continuing after an overflow would
// corrupt the arena, so callers treat this as fatal (the cache panics with it).
func NewErrGenerationOverflow(key uint64, emitted, max int) error {
	return errors.NewWithContext(ErrCodeGenerationOverflow, msgGenerationOverflow, map[string]interface{}{
		"key":           fmt.Sprintf("%#x", key),
		"emitted_bytes": emitted,
		"max_bytes":     max,
	}).WithSeverity("critical")
}

// NewErrBackendFailed creates an error when the encoding backend cannot
// produce code for a key
func NewErrBackendFailed(key uint64, cause error) error {
	return errors.Wrap(cause, ErrCodeBackendFailed, msgBackendFailed).
		WithContext("key", fmt.Sprintf("%#x", key))
}

// NewErrArenaExhausted creates an error when the arena cannot satisfy a
// reservation
func NewErrArenaExhausted(requested int, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeArenaExhausted, msgArenaExhausted).
			WithContext("requested_bytes", requested)
	}
	return errors.NewWithContext(ErrCodeArenaExhausted, msgArenaExhausted, map[string]interface{}{
		"requested_bytes": requested,
	})
}

// =============================================================================
// STATISTICS ERRORS
// =============================================================================

// NewErrStatsContract creates an error when accumulated attempted counts drop
// below processed counts. This indicates caller misuse; the cache reports it
// without correcting the counters.
func NewErrStatsContract(key uint64, processed, attempted uint64) error {
	return errors.NewWithContext(ErrCodeStatsContract, msgStatsContract, map[string]interface{}{
		"key":       fmt.Sprintf("%#x", key),
		"processed": processed,
		"attempted": attempted,
	}).WithSeverity("warning")
}

// NewErrStaleHandle creates an error when a usage handle outlived the Lookup
// that produced it
func NewErrStaleHandle(cacheName string) error {
	return errors.NewWithField(ErrCodeStaleHandle, msgStaleHandle, "cache", cacheName)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsGenerationOverflow checks if error is a generation overflow error
func IsGenerationOverflow(err error) bool {
	return errors.HasCode(err, ErrCodeGenerationOverflow)
}

// IsBackendFailure checks if error is a backend generation failure
func IsBackendFailure(err error) bool {
	return errors.HasCode(err, ErrCodeBackendFailed)
}

// IsArenaExhausted checks if error is an arena exhaustion error
func IsArenaExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeArenaExhausted)
}

// IsStatsContract checks if error is a statistics contract violation
func IsStatsContract(err error) bool {
	return errors.HasCode(err, ErrCodeStatsContract)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	// Check if error implements ErrorCoder interface
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidMaxCodeSize ||
			code == ErrCodeInvalidTickFrequency || code == ErrCodeInvalidGenerator ||
			code == ErrCodeInvalidArena
	}
	return false
}

// IsGenerationError checks if error belongs to the generation path
func IsGenerationError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeGenerationOverflow || code == ErrCodeBackendFailed ||
			code == ErrCodeArenaExhausted
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	// Type assert to *errors.Error to access Context field
	var xerr *errors.Error
	if goerrors.As(err, &xerr) {
		return xerr.Context
	}
	return nil
}
