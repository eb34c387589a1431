// seehuhn.de/go/fontsampler - generate PDF font catalogues
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package memstat samples process memory usage for the batch planner.
//
// On Linux the resident set size is read from /proc/self/statm.  Where
// that is unavailable the Go heap size is used instead, which
// undercounts but still responds to pressure.  Sampling never fails:
// when no usable source or no budget is configured, the usage is
// reported with Known set to false and callers must degrade gracefully.
package memstat

import (
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
)

// Usage is one memory sample.
type Usage struct {
	// Resident is the sampled memory use in bytes.
	Resident int64

	// Fraction is Resident divided by the configured budget.
	// Only meaningful when Known is true.
	Fraction float64

	// Known reports whether Fraction carries information.
	Known bool
}

// Monitor samples process memory against a fixed budget.
//
// The only mutable state is the rolling peak, kept for end-of-run
// reporting.  A Monitor must not be shared between goroutines.
type Monitor struct {
	budget    int64
	threshold float64

	peak int64
}

// New returns a monitor for the given budget (bytes) and threshold
// (fraction of the budget).  A budget of zero disables the fraction and
// all samples report Known == false.
func New(budget int64, threshold float64) *Monitor {
	return &Monitor{budget: budget, threshold: threshold}
}

// Sample returns the current memory usage and updates the rolling peak.
func (m *Monitor) Sample() Usage {
	res := residentBytes()
	if res > m.peak {
		m.peak = res
	}
	u := Usage{Resident: res}
	if m.budget > 0 && res > 0 {
		u.Fraction = float64(res) / float64(m.budget)
		u.Known = true
	}
	return u
}

// Exceeds reports whether current usage is above the threshold.
// Unknown usage never exceeds.
func (m *Monitor) Exceeds() bool {
	u := m.Sample()
	return u.Known && u.Fraction > m.threshold
}

// Threshold returns the configured threshold fraction.
func (m *Monitor) Threshold() float64 {
	return m.threshold
}

// Peak returns the largest resident size observed so far.
func (m *Monitor) Peak() int64 {
	return m.peak
}

// Reclaim hints the runtime to release unreferenced memory.  This is
// called between batches, after batch-local data has gone out of scope.
func (m *Monitor) Reclaim() {
	runtime.GC()
	debug.FreeOSMemory()
}

// residentBytes returns the process RSS, or the Go heap size when the
// RSS is unavailable.
func residentBytes() int64 {
	if rss, ok := statmResident(); ok {
		return rss
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapAlloc)
}

// statmResident reads the resident page count from /proc/self/statm.
func statmResident() (int64, bool) {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0, false
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, false
	}
	pages, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return pages * int64(os.Getpagesize()), true
}
