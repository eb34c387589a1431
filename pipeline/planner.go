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
	"seehuhn.de/go/fontsampler/config"
	"seehuhn.de/go/fontsampler/memstat"
)

// Planner chooses the size of the next batch.
//
// The controller is additive-increase, multiplicative-decrease: above
// the memory threshold the size halves (never below the configured
// minimum), below 90% of the threshold the size grows by a fixed step
// (never above the configured maximum).  From 90% of the threshold up to
// the threshold, and on unknown memory usage, the size holds steady.
// The planned size never exceeds the number of remaining candidates.
type Planner struct {
	min, max  int
	step      int
	threshold float64

	cur int
}

// NewPlanner returns a planner starting at the configured default size.
func NewPlanner(batch config.BatchConfig, threshold float64) *Planner {
	step := batch.Default / 4
	if step < 1 {
		step = 1
	}
	return &Planner{
		min:       batch.Min,
		max:       batch.Max,
		step:      step,
		threshold: threshold,
		cur:       batch.Default,
	}
}

// Next plans the size of the next batch.  The result is in
// [min, max], capped by remaining; for remaining <= 0 it is 0.
func (p *Planner) Next(remaining int, u memstat.Usage) int {
	if remaining <= 0 {
		return 0
	}

	switch r := u.Fraction / p.threshold; {
	case !u.Known:
		// no information, hold
	case r > 1:
		p.cur /= 2
		if p.cur < p.min {
			p.cur = p.min
		}
	case r >= 0.9:
		// at or near the threshold, hold
	default:
		p.cur += p.step
		if p.cur > p.max {
			p.cur = p.max
		}
	}

	n := p.cur
	if n > remaining {
		n = remaining
	}
	return n
}

// Size returns the current controller size, before the remaining cap.
func (p *Planner) Size() int {
	return p.cur
}
