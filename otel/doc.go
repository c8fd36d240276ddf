// Package otel provides OpenTelemetry integration for xanthos generation events.
//
// # Overview
//
// This package implements the xanthos.MethodSink interface using OpenTelemetry,
// exporting code generation activity to any OTEL-compatible backend
// (Prometheus, Jaeger, DataDog, Grafana).
//
// The package is a separate module to keep the xanthos core lightweight.
// Applications that don't need generation metrics don't pay for the OTEL
// dependencies.
//
// # Features
//
//   - Generation Rate: counter of materialized code bodies
//   - Code Size Distribution: OTEL Histogram of emitted body sizes (p50, p95, p99)
//   - Multi-Backend Support: Works with any OTEL-compatible backend
//   - Thread-Safe: Lock-free, safe for concurrent use
//   - Low Overhead: generation is the slow path; the sink never runs on lookups
//   - Industry Standard: Uses OpenTelemetry (CNCF standard)
//
// # Installation
//
//	go get github.com/agilira/xanthos/otel
//
// # Quick Start
//
// Basic setup with Prometheus exporter:
//
//	import (
//	    "github.com/agilira/xanthos"
//	    xanthosotel "github.com/agilira/xanthos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	// Setup Prometheus exporter
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create OTEL MeterProvider
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	// Create method sink
//	sink, err := xanthosotel.NewOTelMethodSink(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Configure cache with the sink
//	cache, _ := xanthos.NewGeneratingCache[uint64, ScanlineFn](param, backend, arena, xanthos.Config{
//	    Name: "scanline",
//	    Sink: sink,
//	})
//
//	// Use the cache normally - generation events are exported automatically
//	fn, usage, _ := cache.Lookup(key)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Counters:
//   - xanthos_methods_loaded_total: Total number of materialized code bodies
//
// Histograms (with automatic percentiles):
//   - xanthos_method_code_bytes: Size of materialized bodies in bytes
//
// Shared bodies (byte-identical emissions reused across keys) produce no
// sink notification, so the counter tracks distinct blobs only. Comparing
// it against the cache's own Stats().Generations is a cheap consistency
// check between in-process and exported numbers.
//
// # Configuration
//
// Custom meter name (useful for multiple cache instances):
//
//	sink, err := xanthosotel.NewOTelMethodSink(
//	    provider,
//	    xanthosotel.WithMeterName("myapp_scanline_cache"),
//	)
//
// Custom histogram buckets for better size resolution:
//
//	provider := metric.NewMeterProvider(
//	    metric.WithReader(exporter),
//	    metric.WithView(metric.NewView(
//	        metric.Instrument{Name: "xanthos_method_code_bytes"},
//	        metric.Stream{
//	            Aggregation: metric.AggregationExplicitBucketHistogram{
//	                Boundaries: []float64{64, 128, 256, 512, 1024, 2048, 4096, 8192},
//	            },
//	        },
//	    )),
//	)
//
// # Prometheus Queries
//
// Generation rate (bodies per second, last 5 minutes):
//
//	rate(xanthos_methods_loaded_total[5m])
//
// P95 body size:
//
//	histogram_quantile(0.95, rate(xanthos_method_code_bytes_bucket[5m]))
//
// A steadily climbing generation rate after warmup usually means the key
// space is unbounded for the workload; see the core package documentation
// on key design.
//
// # Architecture
//
// Separation of concerns: the core package defines the MethodSink interface
// and defaults to NoOpMethodSink, so there is zero overhead when no sink is
// configured. This package carries the OTEL SDK dependencies and adapts the
// interface to OTEL instruments.
//
// # Thread Safety
//
// MethodLoaded is safe to call from multiple goroutines; the OTEL
// instruments are lock-free.
//
// # Compatibility
//
//   - Go: 1.23+
//   - OpenTelemetry: v1.31.0+
//
// # License
//
// Same as xanthos core (see LICENSE in main repository).
package otel
