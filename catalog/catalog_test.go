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

package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/fontsampler/config"
	"seehuhn.de/go/fontsampler/scan"
	"seehuhn.de/go/fontsampler/validate"
)

// sampleRecords parses the Go Regular fixture n times, so that each
// record carries its own font object like in a real run.
func sampleRecords(t *testing.T, n int) []*validate.Record {
	t.Helper()
	dir := t.TempDir()

	v := validate.New(1024)
	var rr []*validate.Record
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("font%03d.ttf", i))
		if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
			t.Fatal(err)
		}
		out := v.Validate(scan.Candidate{Path: path, Ext: ".ttf"})
		if !out.Valid() {
			t.Fatalf("fixture rejected: %s: %v", out.Reason, out.Err)
		}
		rr = append(rr, out.Record)
	}
	return rr
}

func TestCatalogue(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := Write(buf, config.Default())
	if err != nil {
		t.Fatal(err)
	}

	records := sampleRecords(t, 3)
	for _, rec := range records {
		if err := r.EmitPage(rec); err != nil {
			t.Fatal(err)
		}
		if rec.Font != nil {
			t.Error("parsed font not released after the page was written")
		}
	}
	if n := r.NumFontPages(); n != 3 {
		t.Errorf("got %d font pages, want 3", n)
	}

	if err := r.Finalize(); err != nil {
		t.Fatal(err)
	}

	toc := r.TOC()
	if len(toc) != 3 {
		t.Fatalf("got %d TOC entries, want 3", len(toc))
	}
	for i, e := range toc {
		// one TOC page, then one page per font
		if want := 1 + i + 1; e.Page != want {
			t.Errorf("entry %d: page %d, want %d", i, e.Page, want)
		}
		if e.Name != records[i].Name {
			t.Errorf("entry %d: name %q, want %q", i, e.Name, records[i].Name)
		}
	}

	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Error("output does not look like a PDF file")
	}
}

func TestEmptyCatalogue(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := Write(buf, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Finalize(); err != nil {
		t.Fatal(err)
	}

	// An empty run still produces a valid document with a TOC page.
	if len(r.TOC()) != 0 {
		t.Errorf("unexpected TOC entries: %v", r.TOC())
	}
	if buf.Len() == 0 {
		t.Error("no output written")
	}
}

func TestTOCPagination(t *testing.T) {
	cfg := config.Default()
	cfg.Page.TOCEntriesPerPage = 2

	buf := &bytes.Buffer{}
	r, err := Write(buf, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range sampleRecords(t, 5) {
		if err := r.EmitPage(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Finalize(); err != nil {
		t.Fatal(err)
	}

	// 5 entries at 2 per page need 3 TOC pages, so the first font
	// page is page 4.
	toc := r.TOC()
	if toc[0].Page != 4 {
		t.Errorf("first font on page %d, want 4", toc[0].Page)
	}
	if last := toc[len(toc)-1].Page; last != 8 {
		t.Errorf("last font on page %d, want 8", last)
	}
}

func TestFinalizeOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := Write(buf, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Finalize(); err != nil {
		t.Fatal(err)
	}

	if err := r.Finalize(); err == nil {
		t.Error("second Finalize did not fail")
	}
	recs := sampleRecords(t, 1)
	if err := r.EmitPage(recs[0]); err == nil {
		t.Error("EmitPage after Finalize did not fail")
	}
}

func TestCreateFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "out.pdf")
	r, err := Create(fileName, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range sampleRecords(t, 1) {
		if err := r.EmitPage(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Finalize(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(fileName)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty output file")
	}
}
