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

package pipeline

import (
	"testing"

	"seehuhn.de/go/fontsampler/config"
	"seehuhn.de/go/fontsampler/memstat"
)

var testBatch = config.BatchConfig{Default: 100, Min: 10, Max: 500}

func low() memstat.Usage {
	return memstat.Usage{Resident: 1, Fraction: 0.1, Known: true}
}

func high() memstat.Usage {
	return memstat.Usage{Resident: 1, Fraction: 0.9, Known: true}
}

func TestPlannerHoldsOnUnknown(t *testing.T) {
	p := NewPlanner(testBatch, 0.7)
	for i := 0; i < 5; i++ {
		if n := p.Next(1000, memstat.Usage{}); n != testBatch.Default {
			t.Fatalf("step %d: got %d, want %d", i, n, testBatch.Default)
		}
	}
}

func TestPlannerGrowsUnderLowPressure(t *testing.T) {
	p := NewPlanner(testBatch, 0.7)

	prev := p.Size()
	for i := 0; i < 50; i++ {
		n := p.Next(10000, low())
		if n < prev {
			t.Fatalf("step %d: size shrank from %d to %d", i, prev, n)
		}
		if n > testBatch.Max {
			t.Fatalf("step %d: size %d above maximum %d", i, n, testBatch.Max)
		}
		prev = n
	}
	if prev != testBatch.Max {
		t.Errorf("size %d never reached the maximum %d", prev, testBatch.Max)
	}
}

func TestPlannerShrinksUnderPressure(t *testing.T) {
	p := NewPlanner(testBatch, 0.7)

	prev := p.Size()
	for i := 0; i < 20; i++ {
		n := p.Next(10000, high())
		if n > prev {
			t.Fatalf("step %d: size grew from %d to %d under pressure", i, prev, n)
		}
		if n < testBatch.Min {
			t.Fatalf("step %d: size %d below minimum %d", i, n, testBatch.Min)
		}
		prev = n
	}
	if prev != testBatch.Min {
		t.Errorf("size %d never reached the minimum %d", prev, testBatch.Min)
	}
}

func TestPlannerHoldsNearThreshold(t *testing.T) {
	// From 90% of the threshold upwards the batch must not grow,
	// including at the band edge itself.
	const threshold = 0.7
	fractions := []float64{
		0.9 * threshold,
		0.63,
		0.65,
		threshold,
	}
	for _, f := range fractions {
		p := NewPlanner(testBatch, threshold)
		u := memstat.Usage{Resident: 1, Fraction: f, Known: true}
		for i := 0; i < 5; i++ {
			if n := p.Next(10000, u); n != testBatch.Default {
				t.Fatalf("fraction %g, step %d: got %d, want %d",
					f, i, n, testBatch.Default)
			}
		}
	}
}

func TestPlannerRecovers(t *testing.T) {
	p := NewPlanner(testBatch, 0.7)
	for i := 0; i < 10; i++ {
		p.Next(10000, high())
	}
	if p.Size() != testBatch.Min {
		t.Fatalf("setup failed, size is %d", p.Size())
	}

	n := p.Next(10000, low())
	if n <= testBatch.Min {
		t.Errorf("size %d did not grow after pressure eased", n)
	}
}

func TestPlannerRemainingCap(t *testing.T) {
	p := NewPlanner(testBatch, 0.7)

	if n := p.Next(7, low()); n != 7 {
		t.Errorf("got %d for 7 remaining, want 7", n)
	}
	if n := p.Next(0, low()); n != 0 {
		t.Errorf("got %d for 0 remaining, want 0", n)
	}
	if n := p.Next(-1, low()); n != 0 {
		t.Errorf("got %d for negative remaining, want 0", n)
	}

	// A small batch must not clamp the controller state.
	if n := p.Next(10000, memstat.Usage{}); n < testBatch.Default {
		t.Errorf("controller state lost after remaining cap: %d", n)
	}
}
