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

// Fontsampler scans a directory tree for font files and generates a PDF
// catalogue with one sample page per font.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"seehuhn.de/go/fontsampler/catalog"
	"seehuhn.de/go/fontsampler/config"
	"seehuhn.de/go/fontsampler/pipeline"
	"seehuhn.de/go/fontsampler/scan"
	"seehuhn.de/go/fontsampler/validate"
)

func run(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Args().First()
	if root == "" {
		return cli.Exit("usage: fontsampler [options] <font directory>", 1)
	}

	cfg := config.Default()
	if fileName := cmd.String("config"); fileName != "" {
		if err := config.Load(fileName, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if out := cmd.String("output"); out != "" {
		cfg.Output = out
	}
	if limit := cmd.Int("limit"); limit > 0 {
		cfg.Fonts.MaxFonts = int(limit)
	}
	if scenario := cmd.String("scenario"); scenario != "" {
		if _, ok := cfg.Scenarios[scenario]; !ok {
			return fmt.Errorf("unknown scenario %q", scenario)
		}
		cfg.Scenario = scenario
	}

	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if err := generate(root, cfg, logger); err != nil {
		return err
	}

	if !cmd.Bool("watch") {
		return nil
	}
	logger.Info("watching for changes", "dir", root)
	return scan.Watch(ctx, root, cfg.Fonts.Extensions, 2*time.Second, func() {
		if err := generate(root, cfg, logger); err != nil {
			logger.Error("regeneration failed", "error", err)
		}
	}, logger)
}

// generate runs one complete catalogue build.
func generate(root string, cfg *config.Config, logger *slog.Logger) error {
	candidates, err := scan.Scan(root, cfg.Fonts.Extensions)
	if err != nil {
		return err
	}
	if len(candidates) > cfg.Fonts.MaxFonts {
		logger.Warn("too many font files, truncating",
			"found", len(candidates), "limit", cfg.Fonts.MaxFonts)
		candidates = candidates[:cfg.Fonts.MaxFonts]
	}
	logger.Info("scan complete", "dir", root, "candidates", len(candidates))

	r, err := catalog.Create(cfg.Output, cfg)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", cfg.Output, err)
	}

	stats, err := pipeline.New(cfg, logger).Run(candidates, r)
	if err != nil {
		return err
	}

	fmt.Println(summary(cfg.Output, stats))
	logger.Debug("run statistics", "batches", stats.Batches)
	return nil
}

// summary formats the end-of-run report: totals, invalid counts by
// reason, elapsed time and peak memory.
func summary(output string, stats *pipeline.Stats) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "wrote %s: %d of %d fonts", output, stats.Valid, stats.Total)
	if n := stats.InvalidTotal(); n > 0 {
		fmt.Fprintf(b, ", %d invalid (%s)", n, invalidByReason(stats.Invalid))
	}
	if stats.RenderFailed > 0 {
		fmt.Fprintf(b, ", %d failed to render", stats.RenderFailed)
	}
	fmt.Fprintf(b, " (%.1fs, peak memory %.1f MiB)",
		stats.Elapsed.Seconds(), float64(stats.PeakBytes)/(1<<20))
	return b.String()
}

func invalidByReason(m map[validate.Reason]int) string {
	reasons := []validate.Reason{
		validate.TooSmall,
		validate.Unreadable,
		validate.MalformedMetadata,
		validate.UnsupportedFormat,
	}
	var parts []string
	for _, r := range reasons {
		if n := m[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, r))
		}
	}
	return strings.Join(parts, ", ")
}

func main() {
	cmd := &cli.Command{
		Name:      "fontsampler",
		Usage:     "Generate a PDF catalogue with sample pages for all fonts in a directory",
		ArgsUsage: "<font directory>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Name of the PDF file to write",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("FONTSAMPLER_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Process at most this many fonts",
			},
			&cli.StringFlag{
				Name:  "scenario",
				Usage: "Sample text scenario to use",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and regenerate when the font directory changes",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("fontsampler failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
