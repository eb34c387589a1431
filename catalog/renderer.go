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

// Package catalog renders the font catalogue PDF incrementally.
//
// The renderer works in two phases.  During the run, EmitPage appends
// one page per font directly to the output file, so per-font content is
// never accumulated in memory.  Only the table-of-contents entries
// (name and position) are buffered, because their page numbers depend
// on the total entry count.  Finalize lays out the table of contents
// into a page range reserved at the front of the document, resolves the
// page numbers, and closes the file.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/opentype"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/font/truetype"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/graphics/content/builder"
	"seehuhn.de/go/pdf/page"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/fontsampler/config"
	"seehuhn.de/go/fontsampler/validate"
)

// Entry is one finalized table-of-contents entry.
type Entry struct {
	Name string
	Page int // 1-based page number in the document
}

// Renderer builds the catalogue document.
type Renderer struct {
	cfg   *config.Config
	texts config.SampleTexts
	paper *pdf.Rectangle

	out   *pdf.Writer
	rm    *pdf.ResourceManager
	tree  *pagetree.Writer
	front *pagetree.Writer // reserved range for the table of contents

	labelFont font.Instance
	boldFont  font.Instance

	names     []string
	toc       []Entry
	finalized bool
}

// Create creates the catalogue file and prepares the renderer.
func Create(fileName string, cfg *config.Config) (*Renderer, error) {
	out, err := pdf.Create(fileName, pdf.V1_7, nil)
	if err != nil {
		return nil, err
	}
	return newRenderer(out, cfg)
}

// Write is like Create, but writes the document to w.
func Write(w io.Writer, cfg *config.Config) (*Renderer, error) {
	out, err := pdf.NewWriter(w, pdf.V1_7, nil)
	if err != nil {
		return nil, err
	}
	return newRenderer(out, cfg)
}

func newRenderer(out *pdf.Writer, cfg *config.Config) (*Renderer, error) {
	labelFont, err := standard.Helvetica.New(nil)
	if err != nil {
		return nil, err
	}
	boldFont, err := standard.HelveticaBold.New(nil)
	if err != nil {
		return nil, err
	}

	rm := pdf.NewResourceManager(out)
	tree := pagetree.NewWriter(out, rm)
	front, err := tree.NewRange()
	if err != nil {
		return nil, err
	}

	return &Renderer{
		cfg:       cfg,
		texts:     cfg.Texts(),
		paper:     document.A4,
		out:       out,
		rm:        rm,
		tree:      tree,
		front:     front,
		labelFont: labelFont,
		boldFont:  boldFont,
	}, nil
}

// EmitPage appends one font page to the document.
//
// The page content is laid out completely before anything is appended,
// so a failure leaves the document unchanged and the font can simply be
// omitted.  The record's parsed font is released afterwards.
func (r *Renderer) EmitPage(rec *validate.Record) error {
	if r.finalized {
		return errors.New("catalogue already finalized")
	}

	F, err := instance(rec.Font)
	if err != nil {
		return fmt.Errorf("%s: %w", rec.File, err)
	}

	res := &content.Resources{}
	b := builder.New(content.Page, res)
	r.fontPage(b, rec, F)
	if b.Err != nil {
		return fmt.Errorf("%s: %w", rec.File, b.Err)
	}

	pg := &page.Page{
		MediaBox:  r.paper,
		Resources: res,
		Contents:  []*page.Content{{Operators: b.Stream}},
	}
	if err := r.tree.AppendPage(pg); err != nil {
		return fmt.Errorf("%s: %w", rec.File, err)
	}

	r.names = append(r.names, rec.Name)
	rec.Font = nil // page is written, the parsed font is no longer needed
	return nil
}

// Finalize writes the table of contents and closes the document.
// It must be called exactly once.
func (r *Renderer) Finalize() error {
	if r.finalized {
		return errors.New("catalogue already finalized")
	}
	r.finalized = true

	perPage := r.cfg.Page.TOCEntriesPerPage
	tocPages := (len(r.names) + perPage - 1) / perPage
	if tocPages < 1 {
		tocPages = 1
	}

	r.toc = make([]Entry, len(r.names))
	for i, name := range r.names {
		r.toc[i] = Entry{Name: name, Page: tocPages + i + 1}
	}
	r.names = nil

	for i := 0; i < tocPages; i++ {
		lo := i * perPage
		hi := lo + perPage
		if hi > len(r.toc) {
			hi = len(r.toc)
		}
		if err := r.tocPage(i == 0, r.toc[lo:hi]); err != nil {
			return err
		}
	}

	if _, err := r.front.Close(); err != nil {
		return err
	}
	ref, err := r.tree.Close()
	if err != nil {
		return err
	}
	meta := r.out.GetMeta()
	meta.Catalog.Pages = ref
	meta.Info = &pdf.Info{
		Title:        "Font Samples",
		Creator:      "fontsampler",
		CreationDate: time.Now(),
	}

	if err := r.rm.Close(); err != nil {
		return err
	}
	return r.out.Close()
}

// TOC returns the finalized table of contents.
// The result is empty before Finalize has been called.
func (r *Renderer) TOC() []Entry {
	return r.toc
}

// NumFontPages returns the number of font pages emitted so far.
func (r *Renderer) NumFontPages() int {
	if r.finalized {
		return len(r.toc)
	}
	return len(r.names)
}

// instance wraps a parsed font for embedding, selecting the wrapper by
// outline format.
func instance(f *sfnt.Font) (font.Instance, error) {
	switch {
	case f.IsGlyf():
		return truetype.New(f, nil)
	case f.IsCFF():
		return opentype.New(f)
	default:
		return nil, errors.New("no usable glyph outlines")
	}
}
