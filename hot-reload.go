// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig provides dynamic configuration reload capabilities using Argus.
// It watches a configuration file and automatically updates cache settings
// when changes are detected.
//
// Only settings that are safe to change while code is already committed
// are applied dynamically: MaxCodeSize affects future reservations only,
// and TickFrequency only affects how future reports render tick totals.
// The cache name is parsed and surfaced through GetConfig but requires
// reconstruction to apply.
type HotConfig struct {
	target  any
	watcher *argus.Watcher
	mu      sync.RWMutex
	config  Config
	logger  Logger

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations.
	// If nil, uses the target cache's logger when available.
	Logger Logger
}

// maxCodeSizeSetter is probed on the target to apply max_code_size changes.
type maxCodeSizeSetter interface {
	SetMaxCodeSize(size int) error
}

// tickFrequencySetter is probed on the target to apply tick_frequency changes.
type tickFrequencySetter interface {
	SetTickFrequency(freq uint64) error
}

// NewHotConfig creates a new hot-reloadable configuration for a cache
// (typically a *GeneratingCache). It starts watching the configuration
// file immediately.
//
// Example configuration file (YAML):
//
//	cache:
//	  name: "scanline"
//	  max_code_size: 8192
//	  tick_frequency: 1000000000
//
// Supported configuration keys:
//   - cache.name (string): Cache name for reports and logs
//   - cache.max_code_size (int): Per-generation arena reservation in bytes
//   - cache.tick_frequency (int): Ticks per second for stats reports
//
// Note: the Argus callback runs on the watcher goroutine while the
// cache runs on its owner thread. The applied setters only store plain
// values read once per generation or report, which keeps the race
// window benign, but callers needing strict ordering should apply
// changes from OnReload on the owner thread instead.
func NewHotConfig(target any, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		// Try to extract logger from the target if it exposes one
		if lg, ok := target.(interface{ Logger() Logger }); ok {
			opts.Logger = lg.Logger()
		} else {
			opts.Logger = NoOpLogger{}
		}
	}

	hc := &HotConfig{
		target:   target,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		config:   DefaultConfig(), // Start with defaults
	}

	// Create Argus config with specified PollInterval for fast file change detection
	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	// Use UniversalConfigWatcherWithConfig to pass custom poll interval
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
// Note: The watcher monitors file changes at the configured PollInterval.
func (hc *HotConfig) Start() error {
	// Check if already running to avoid ARGUS_WATCHER_BUSY error
	if hc.watcher.IsRunning() {
		return nil // Already started
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
// Returns any error from stopping the watcher.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(configData)
	hc.config = newConfig
	hc.mu.Unlock()

	// Apply dynamic configuration changes
	hc.applyChanges(oldConfig, newConfig)

	// Trigger callback if set
	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseString extracts a non-empty string from interface{} value.
func parseString(value interface{}) (string, bool) {
	if str, ok := value.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// parseConfig extracts cache configuration from Argus config data.
func (hc *HotConfig) parseConfig(data map[string]interface{}) Config {
	config := DefaultConfig()

	// Extract cache section - Argus might nest it or provide it directly
	cacheSection, ok := data["cache"].(map[string]interface{})
	if !ok {
		// Try if the whole data IS the cache section
		if _, hasMaxCodeSize := data["max_code_size"]; hasMaxCodeSize {
			cacheSection = data
		} else {
			return config
		}
	}

	// Parse Name
	if name, ok := parseString(cacheSection["name"]); ok {
		config.Name = name
	}

	// Parse MaxCodeSize
	if maxCodeSize, ok := parsePositiveInt(cacheSection["max_code_size"]); ok {
		config.MaxCodeSize = maxCodeSize
	}

	// Parse TickFrequency
	if freq, ok := parsePositiveInt(cacheSection["tick_frequency"]); ok {
		config.TickFrequency = uint64(freq)
	}

	return config
}

// applyChanges applies configuration changes to the running cache.
// Note: Name changes cannot be applied dynamically and require cache
// reconstruction; they are surfaced through GetConfig only.
func (hc *HotConfig) applyChanges(old, new Config) {
	if new.MaxCodeSize != old.MaxCodeSize {
		if setter, ok := hc.target.(maxCodeSizeSetter); ok {
			if err := setter.SetMaxCodeSize(new.MaxCodeSize); err != nil {
				hc.logger.Warn("max_code_size not applied", "error", err)
			}
		}
	}

	if new.TickFrequency != old.TickFrequency {
		if setter, ok := hc.target.(tickFrequencySetter); ok {
			if err := setter.SetTickFrequency(new.TickFrequency); err != nil {
				hc.logger.Warn("tick_frequency not applied", "error", err)
			}
		}
	}
}
