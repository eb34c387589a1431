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

package memstat

import (
	"testing"
)

func TestSample(t *testing.T) {
	m := New(1<<40, 0.7)
	u := m.Sample()
	if u.Resident <= 0 {
		t.Fatalf("resident memory reported as %d", u.Resident)
	}
	if !u.Known {
		t.Error("usage not known despite a configured budget")
	}
	if u.Fraction <= 0 || u.Fraction >= 1 {
		t.Errorf("implausible fraction %g for a 1 TiB budget", u.Fraction)
	}
}

func TestZeroBudget(t *testing.T) {
	m := New(0, 0.7)
	u := m.Sample()
	if u.Known {
		t.Error("usage reported as known without a budget")
	}
	if u.Fraction != 0 {
		t.Errorf("fraction %g without a budget", u.Fraction)
	}
}

func TestPeakIsMonotone(t *testing.T) {
	m := New(1<<40, 0.7)

	var prev int64
	for i := 0; i < 10; i++ {
		m.Sample()
		peak := m.Peak()
		if peak < prev {
			t.Fatalf("peak decreased from %d to %d", prev, peak)
		}
		prev = peak
	}
	if prev <= 0 {
		t.Error("peak never recorded")
	}
}

func TestExceeds(t *testing.T) {
	// With a one byte budget any process is over the threshold.
	m := New(1, 0.5)
	m.Sample()
	if !m.Exceeds() {
		t.Error("one byte budget not reported as exceeded")
	}

	// With a huge budget we must be below it.
	m = New(1<<40, 0.5)
	m.Sample()
	if m.Exceeds() {
		t.Error("1 TiB budget reported as exceeded")
	}
}

func TestReclaim(t *testing.T) {
	m := New(1<<40, 0.7)
	m.Sample()
	m.Reclaim() // must not panic and must leave the monitor usable
	u := m.Sample()
	if u.Resident <= 0 {
		t.Errorf("monitor unusable after reclaim: resident %d", u.Resident)
	}
}
