// report.go: relative-cost breakdown across cached keys
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
)

const (
	million = 1000 * 1000
	billion = 1000 * million
)

// Report returns a human-readable table summarizing relative runtime
// cost across all cached keys.
//
// For every entry used in at least one period the per-period tick cost
// contributes to a grand total; each row then shows the entry's share
// of that total, average microseconds per period, average nanoseconds
// per processed item, items per period, items per work unit, and the
// overdraw percentage (attempted-but-unproductive share of attempted
// work). Entries with zero periods or zero processed items never
// executed meaningfully and are omitted.
//
// Rows are ordered by ascending key, so a report is stable for a given
// table snapshot. Tick-to-time conversion uses Config.TickFrequency.
func (c *FunctionCache[K, F]) Report() string {
	var b strings.Builder

	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		return cmp.Compare(uint64(a), uint64(b))
	})

	// Grand total of per-period tick cost across all used entries.
	var ttpp uint64
	for _, k := range keys {
		e := c.entries[k]
		if e.periods > 0 {
			ttpp += e.ticks / e.periods
		}
	}

	tps := c.tickFrequency

	fmt.Fprintf(&b, "%s stats\n", c.name)
	fmt.Fprintf(&b, "      key      | periods | units |       runtime      |          items\n")
	fmt.Fprintf(&b, "               |         |  #/p  |   pct   µs/p ns/i  |     #/p  #/unit overdraw\n")

	for _, k := range keys {
		e := c.entries[k]

		if e.periods == 0 || e.processed == 0 || ttpp == 0 {
			continue
		}

		tpi := e.ticks / e.processed
		tpp := e.ticks / e.periods
		ipp := e.processed / e.periods

		var itemsPerUnit uint64
		if e.units > 0 {
			itemsPerUnit = e.processed / e.units
		}

		fmt.Fprintf(&b, "%014x | %7d | %5d | %5.2f%% %6d %4d | %8d %7d %5.2f%%\n",
			uint64(k),
			e.periods,
			e.units/e.periods,
			float64(tpp*10000/ttpp)/100,
			tpp*million/tps,
			tpi*billion/tps,
			ipp,
			itemsPerUnit,
			float64((e.attempted-e.processed)*10000/e.attempted)/100)
	}

	return b.String()
}

// WriteReport writes the stats report to w.
func (c *FunctionCache[K, F]) WriteReport(w io.Writer) error {
	_, err := io.WriteString(w, c.Report())
	return err
}
