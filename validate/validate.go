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

// Package validate checks font candidates and extracts their metadata.
//
// Validation never fails the run: every failure mode terminates in a
// classified Outcome, so that one broken font file cannot abort a
// catalogue.
package validate

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/fontsampler/scan"
)

// Reason classifies why a candidate was rejected.
type Reason int

const (
	// TooSmall means the file is below the configured minimum size.
	TooSmall Reason = iota + 1

	// Unreadable means the file could not be opened or read.
	Unreadable

	// MalformedMetadata means the font tables could not be parsed.
	MalformedMetadata

	// UnsupportedFormat means the file is not an sfnt-based font.
	UnsupportedFormat
)

func (r Reason) String() string {
	switch r {
	case TooSmall:
		return "too small"
	case Unreadable:
		return "unreadable"
	case MalformedMetadata:
		return "malformed metadata"
	case UnsupportedFormat:
		return "unsupported format"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Record is a validated font.  The metadata fields are set at
// validation time and read-only afterwards; missing metadata has
// already been replaced by its fallback value.  Font is the one
// exception: the consumer clears it once the font has been rendered,
// so that the parsed tables can be collected.
type Record struct {
	// Path is the location of the font file.
	Path string

	// File is the base name of the font file.
	File string

	// Name is the full display name of the font.
	Name string

	// Family is the font family name.
	Family string

	// Version is the font version string.
	Version string

	// Copyright is the copyright notice from the name table.
	Copyright string

	// ID is the registered identifier, unique within one run.
	ID string

	// Font is the parsed font, for embedding by the renderer.
	Font *sfnt.Font
}

// Outcome is the result of validating one candidate.  Exactly one of
// Record and Reason is set.
type Outcome struct {
	Candidate scan.Candidate
	Record    *Record
	Reason    Reason
	Err       error // underlying cause, for logging only
}

// Valid reports whether the candidate passed validation.
func (o Outcome) Valid() bool {
	return o.Record != nil
}

// Validator validates candidates and assigns registered identifiers.
//
// The identifier registry is the only state; a Validator is good for
// one run and must not be shared between goroutines.
type Validator struct {
	minSize int64

	used map[string]bool
}

// New returns a validator rejecting files smaller than minSize bytes.
func New(minSize int64) *Validator {
	return &Validator{
		minSize: minSize,
		used:    make(map[string]bool),
	}
}

// Validate checks one candidate.
//
// The checks run in a fixed order: the size gate first, so that
// truncated files are never parsed, then readability, then a format
// sniff, then the actual table parse.  Metadata extraction cannot fail;
// missing name-table entries fall back to filename-derived values.
func (v *Validator) Validate(c scan.Candidate) Outcome {
	info, err := os.Stat(c.Path)
	if err != nil {
		return Outcome{Candidate: c, Reason: Unreadable, Err: err}
	}
	if info.Size() < v.minSize {
		return Outcome{Candidate: c, Reason: TooSmall,
			Err: fmt.Errorf("%d bytes, minimum is %d", info.Size(), v.minSize)}
	}

	fd, err := os.Open(c.Path)
	if err != nil {
		return Outcome{Candidate: c, Reason: Unreadable, Err: err}
	}
	defer fd.Close()

	var magic [4]byte
	if _, err := io.ReadFull(fd, magic[:]); err != nil {
		return Outcome{Candidate: c, Reason: Unreadable, Err: err}
	}
	if !sfntMagic(magic) {
		return Outcome{Candidate: c, Reason: UnsupportedFormat,
			Err: fmt.Errorf("unknown magic %q", magic)}
	}
	if _, err := fd.Seek(0, io.SeekStart); err != nil {
		return Outcome{Candidate: c, Reason: Unreadable, Err: err}
	}

	font, err := sfnt.Read(fd)
	if err != nil {
		return Outcome{Candidate: c, Reason: MalformedMetadata, Err: err}
	}

	rec := &Record{
		Path: c.Path,
		File: filepath.Base(c.Path),
		Font: font,
	}
	stem := strings.TrimSuffix(rec.File, filepath.Ext(rec.File))

	rec.Family = font.FamilyName
	if rec.Family == "" {
		rec.Family = stem
	}
	rec.Name = strings.TrimSpace(font.FullName())
	if rec.Name == "" {
		rec.Name = stem
	}
	if ver := font.Version.String(); ver != "" && font.Version != 0 {
		rec.Version = "Version " + ver
	} else {
		rec.Version = "Unknown"
	}
	rec.Copyright = font.Copyright
	if rec.Copyright == "" {
		rec.Copyright = "Unknown"
	}

	rec.ID = v.register(rec.Name, c.Path)

	return Outcome{Candidate: c, Record: rec}
}

// register turns a display name into a unique identifier.  The name is
// sanitized into a token the rendering backend accepts as a resource
// name; a collision gets a suffix derived from the file path, so the
// result is deterministic for a given candidate sequence.
func (v *Validator) register(name, path string) string {
	id := sanitize(name)
	if v.used[id] {
		id = fmt.Sprintf("%s-%08x", id, pathHash(path))
	}
	// Hash collisions are still possible; fall back to counting.
	for i := 2; v.used[id]; i++ {
		id = fmt.Sprintf("%s-%d", sanitize(name), i)
	}
	v.used[id] = true
	return id
}

func sanitize(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	s := b.String()
	if s == "" || !(s[0] >= 'a' && s[0] <= 'z') {
		s = "font-" + s
		s = strings.TrimSuffix(s, "-")
	}
	return s
}

func pathHash(path string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(path))
	return h.Sum32()
}

func sfntMagic(m [4]byte) bool {
	switch string(m[:]) {
	case "\x00\x01\x00\x00", "OTTO", "true", "ttcf":
		return true
	}
	return false
}
