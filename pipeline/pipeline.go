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

// Package pipeline drives the batched catalogue run.
//
// The processor consumes the candidate list one batch at a time.
// Memory pressure is re-assessed before every batch and unreferenced
// batch-local memory is reclaimed after it, so that peak memory stays
// bounded regardless of collection size.  The pipeline is synchronous
// and single-threaded; the only shared mutable state is the statistics
// struct, which only the processor touches.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"seehuhn.de/go/fontsampler/config"
	"seehuhn.de/go/fontsampler/memstat"
	"seehuhn.de/go/fontsampler/scan"
	"seehuhn.de/go/fontsampler/validate"
)

// Sink receives validated fonts, one page each, and is finalized once
// at the end of the run.
type Sink interface {
	// EmitPage renders one font page.  An error is a per-font render
	// failure: the processor records it and continues.
	EmitPage(rec *validate.Record) error

	// Finalize resolves the table of contents and closes the output
	// artifact.  An error here is fatal.
	Finalize() error
}

// Stats are the counters for one run.  They are mutated only by the
// processor and are final once Run returns.
type Stats struct {
	Total        int
	Valid        int
	Invalid      map[validate.Reason]int
	RenderFailed int
	Batches      int
	Elapsed      time.Duration
	PeakBytes    int64
}

// InvalidTotal returns the number of candidates rejected by validation.
func (s *Stats) InvalidTotal() int {
	n := 0
	for _, c := range s.Invalid {
		n += c
	}
	return n
}

// Processor runs the batched validation and rendering pipeline.
type Processor struct {
	validator *validate.Validator
	planner   *Planner
	monitor   *memstat.Monitor
	log       *slog.Logger
}

// New returns a processor for one run.
func New(cfg *config.Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		validator: validate.New(cfg.Fonts.MinFileSize),
		planner:   NewPlanner(cfg.Batch, cfg.Memory.Threshold),
		monitor:   memstat.New(cfg.Memory.BudgetBytes, cfg.Memory.Threshold),
		log:       logger,
	}
}

// Run processes all candidates in batches and finalizes the sink.
//
// Per-font failures (validation or rendering) are recorded and the run
// continues; fonts reach the sink in candidate order.  The returned
// error is non-nil only for finalization failures.  Statistics are
// returned in either case.
func (p *Processor) Run(candidates []scan.Candidate, sink Sink) (*Stats, error) {
	start := time.Now()
	stats := &Stats{
		Total:   len(candidates),
		Invalid: make(map[validate.Reason]int),
	}

	remaining := candidates
	for len(remaining) > 0 {
		usage := p.monitor.Sample()
		n := p.planner.Next(len(remaining), usage)
		batch := remaining[:n]
		remaining = remaining[n:]
		stats.Batches++

		p.log.Debug("batch planned",
			slog.Int("size", n),
			slog.Int("remaining", len(remaining)),
			slog.Int64("resident", usage.Resident),
			slog.Bool("known", usage.Known))

		for _, c := range batch {
			outcome := p.validator.Validate(c)
			if !outcome.Valid() {
				stats.Invalid[outcome.Reason]++
				p.log.Warn("font rejected",
					slog.String("path", c.Path),
					slog.String("reason", outcome.Reason.String()),
					slog.Any("error", outcome.Err))
				continue
			}

			if err := sink.EmitPage(outcome.Record); err != nil {
				stats.RenderFailed++
				p.log.Warn("font page failed",
					slog.String("path", c.Path),
					slog.String("error", err.Error()))
				continue
			}
			stats.Valid++
			p.log.Debug("font added",
				slog.String("path", c.Path),
				slog.String("id", outcome.Record.ID))
		}

		p.monitor.Reclaim()
	}

	p.monitor.Sample() // final peak update, also covers the empty run
	stats.Elapsed = time.Since(start)
	stats.PeakBytes = p.monitor.Peak()

	if err := sink.Finalize(); err != nil {
		return stats, fmt.Errorf("finalize catalogue: %w", err)
	}
	return stats, nil
}
