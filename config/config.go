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

// Package config holds the static configuration for a catalogue run.
//
// A Config is constructed once at process start, either from the built-in
// defaults or from a YAML file, and is treated as read-only afterwards.
// All components receive the configuration through their constructors;
// there is no global lookup.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for one catalogue run.
type Config struct {
	Output    string                 `yaml:"output"`
	Fonts     FontsConfig            `yaml:"fonts"`
	Batch     BatchConfig            `yaml:"batch"`
	Memory    MemoryConfig           `yaml:"memory"`
	Page      PageConfig             `yaml:"page"`
	Scenario  string                 `yaml:"scenario"`
	Scenarios map[string]SampleTexts `yaml:"scenarios"`
}

// FontsConfig controls which files are considered font candidates.
type FontsConfig struct {
	// Extensions is the allow-list of font file extensions,
	// each including the leading dot.
	Extensions []string `yaml:"extensions"`

	// MinFileSize is the minimum size in bytes for a file to be
	// considered a usable font.  Smaller files are rejected without
	// being opened.
	MinFileSize int64 `yaml:"min_file_size"`

	// MaxFonts caps the number of fonts processed in one run.
	// The candidate list is truncated before processing starts.
	MaxFonts int `yaml:"max_fonts"`
}

// BatchConfig bounds the adaptive batch sizing.
type BatchConfig struct {
	Default int `yaml:"default"`
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
}

// MemoryConfig controls the memory monitor.
type MemoryConfig struct {
	// BudgetBytes is the memory budget the monitor compares resident
	// memory against.  A value of zero disables the comparison and the
	// monitor reports usage as unknown.
	BudgetBytes int64 `yaml:"budget_bytes"`

	// Threshold is the fraction of the budget above which the batch
	// planner shrinks the batch size.
	Threshold float64 `yaml:"threshold"`
}

// PageConfig holds the page layout parameters for the catalogue.
type PageConfig struct {
	Margin            float64   `yaml:"margin"`
	HeaderSize        float64   `yaml:"header_size"`
	MetadataSize      float64   `yaml:"metadata_size"`
	SampleSizes       []float64 `yaml:"sample_sizes"`
	ParagraphSize     float64   `yaml:"paragraph_size"`
	TOCEntriesPerPage int       `yaml:"toc_entries_per_page"`
}

// SampleTexts is the text shown on each font page for one scenario.
type SampleTexts struct {
	// Sample is a short line, typically a pangram, repeated at each
	// of the configured sample sizes.
	Sample string `yaml:"sample"`

	// Paragraph is a longer run of text including a character-set
	// sample, shown once at the paragraph size.
	Paragraph string `yaml:"paragraph"`
}

const charsetSample = "ABCDEFGHIJKLMNOPQRSTUVWXYZ abcdefghijklmnopqrstuvwxyz " +
	"1234567890 !@#$%^&*()_+-=[]{}|;:,.<>?`~"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: "font_samples.pdf",
		Fonts: FontsConfig{
			Extensions:  []string{".ttf", ".otf"},
			MinFileSize: 1024,
			MaxFonts:    1000,
		},
		Batch: BatchConfig{
			Default: 100,
			Min:     10,
			Max:     500,
		},
		Memory: MemoryConfig{
			BudgetBytes: 512 * 1024 * 1024,
			Threshold:   0.7,
		},
		Page: PageConfig{
			Margin:            50,
			HeaderSize:        18,
			MetadataSize:      10,
			SampleSizes:       []float64{8, 12, 18, 24, 36},
			ParagraphSize:     12,
			TOCEntriesPerPage: 40,
		},
		Scenario: "default",
		Scenarios: map[string]SampleTexts{
			"default": {
				Sample: "Sphinx of black quartz, judge my vow!",
				Paragraph: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. " +
					"Integer nec odio. Praesent libero. Sed cursus ante dapibus diam. " +
					"Sed nisi. Nulla quis sem at nibh elementum imperdiet. " +
					charsetSample,
			},
			"typography": {
				Sample: "The quick brown fox jumps over the lazy dog.",
				Paragraph: "Typography is the craft of endowing human language with a " +
					"durable visual form. “Quoted text,” em—dashes, " +
					"fi fl ffi ligatures, 3⁄4 fractions and snéaky " +
					"diäcritics all stress a face in different ways. " +
					charsetSample,
			},
			"international": {
				Sample: "Falsches Üben von Xylophonmusik quält jeden größeren Zwerg.",
				Paragraph: "Portez ce vieux whisky au juge blond qui fume. " +
					"El veloz murciélago hindú comía feliz cardillo y kiwi. " +
					"Pójdźże, kiń tę chmurność w głąb flaszy! " +
					charsetSample,
			},
		},
	}
}

// Load reads a YAML configuration file into cfg, expanding environment
// variable references in the file before parsing.  Values not present in
// the file keep their previous (normally default) values.
func Load(fileName string, cfg *Config) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("read config %s: %w", fileName, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", fileName, err)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.Scenario, validation.Required),
	)
	if err != nil {
		return err
	}
	if _, ok := c.Scenarios[c.Scenario]; !ok {
		return fmt.Errorf("unknown scenario %q", c.Scenario)
	}
	if err := c.Fonts.validate(); err != nil {
		return err
	}
	if err := c.Batch.validate(); err != nil {
		return err
	}
	if err := c.Memory.validate(); err != nil {
		return err
	}
	return c.Page.validate()
}

func (c *FontsConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Extensions, validation.Required, validation.Length(1, 0)),
		validation.Field(&c.MinFileSize, validation.Min(int64(0))),
		validation.Field(&c.MaxFonts, validation.Required, validation.Min(1)),
	)
}

func (c *BatchConfig) validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Default, validation.Required, validation.Min(1)),
		validation.Field(&c.Min, validation.Required, validation.Min(1)),
		validation.Field(&c.Max, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return err
	}
	if c.Min > c.Max {
		return fmt.Errorf("batch: min %d exceeds max %d", c.Min, c.Max)
	}
	if c.Default < c.Min || c.Default > c.Max {
		return fmt.Errorf("batch: default %d outside [%d, %d]", c.Default, c.Min, c.Max)
	}
	return nil
}

func (c *MemoryConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BudgetBytes, validation.Min(int64(0))),
		validation.Field(&c.Threshold, validation.Required, validation.Min(0.05), validation.Max(1.0)),
	)
}

func (c *PageConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Margin, validation.Required, validation.Min(0.0)),
		validation.Field(&c.HeaderSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.MetadataSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.SampleSizes, validation.Required, validation.Length(1, 0)),
		validation.Field(&c.ParagraphSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.TOCEntriesPerPage, validation.Required, validation.Min(1)),
	)
}

// Texts returns the sample texts for the configured scenario.
func (c *Config) Texts() SampleTexts {
	return c.Scenarios[c.Scenario]
}
