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
	"strconv"
	"strings"

	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/graphics/color"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/graphics/content/builder"
	"seehuhn.de/go/pdf/page"

	"seehuhn.de/go/fontsampler/validate"
)

// fontPage lays out one catalogue page for the given font.
func (r *Renderer) fontPage(b *builder.Builder, rec *validate.Record, F font.Instance) {
	margin := r.cfg.Page.Margin
	width := r.paper.Dx() - 2*margin
	yPos := r.paper.URy - margin

	b.SetFillColor(color.Black)
	b.SetStrokeColor(color.Black)

	// header
	headerSize := r.cfg.Page.HeaderSize
	yPos -= headerSize
	b.TextBegin()
	b.TextSetFont(r.boldFont, headerSize)
	b.TextFirstLine(margin, yPos)
	b.TextShow(r.fit(b, rec.File, width))
	b.TextEnd()

	yPos -= 8
	b.SetLineWidth(0.5)
	b.MoveTo(margin, yPos)
	b.LineTo(r.paper.URx-margin, yPos)
	b.Stroke()

	// metadata block
	metaSize := r.cfg.Page.MetadataSize
	leading := 1.4 * metaSize
	yPos -= 8 + metaSize
	b.TextBegin()
	b.TextSetFont(r.labelFont, metaSize)
	b.TextSetLeading(leading)
	b.TextFirstLine(margin, yPos)
	for _, line := range []string{
		"Font Name: " + rec.Name,
		"Family: " + rec.Family,
		"Version: " + rec.Version,
		"Copyright: " + rec.Copyright,
	} {
		b.TextShow(r.fit(b, line, width))
		b.TextNextLine()
		yPos -= leading
	}
	b.TextEnd()

	// sample lines, one block per size
	for _, size := range r.cfg.Page.SampleSizes {
		leading := 1.2 * size
		yPos -= 12 + size
		if yPos < margin {
			return
		}
		b.TextSetFont(F, size)
		lines := r.wrap(b, r.texts.Sample, width)
		b.TextBegin()
		b.TextSetLeading(leading)
		b.TextFirstLine(margin, yPos)
		for _, line := range lines {
			b.TextShow(line)
			b.TextNextLine()
			yPos -= leading
			if yPos < margin {
				break
			}
		}
		b.TextEnd()
	}

	// paragraph with character set sample
	size := r.cfg.Page.ParagraphSize
	leading = 1.4 * size
	yPos -= 12 + size
	if yPos < margin {
		return
	}
	b.TextSetFont(F, size)
	lines := r.wrap(b, r.texts.Paragraph, width)
	b.TextBegin()
	b.TextSetLeading(leading)
	b.TextFirstLine(margin, yPos)
	for _, line := range lines {
		b.TextShow(line)
		b.TextNextLine()
		yPos -= leading
		if yPos < margin {
			break
		}
	}
	b.TextEnd()
}

// tocPage appends one table-of-contents page to the front range.
func (r *Renderer) tocPage(first bool, entries []Entry) error {
	res := &content.Resources{}
	b := builder.New(content.Page, res)

	margin := r.cfg.Page.Margin
	width := r.paper.Dx() - 2*margin
	yPos := r.paper.URy - margin

	b.SetFillColor(color.Black)

	if first {
		headerSize := r.cfg.Page.HeaderSize
		yPos -= headerSize
		b.TextBegin()
		b.TextSetFont(r.boldFont, headerSize)
		b.TextFirstLine(margin, yPos)
		b.TextShow("Font Samples")
		b.TextEnd()
		yPos -= headerSize

		b.TextBegin()
		b.TextSetFont(r.boldFont, 12)
		b.TextFirstLine(margin, yPos)
		b.TextShow("Table of Contents")
		b.TextEnd()
		yPos -= 24
	}

	size := r.cfg.Page.MetadataSize
	leading := 1.5 * size
	b.TextSetFont(r.labelFont, size)
	dotWidth := b.TextLayout(nil, ".").TotalWidth()

	if len(entries) == 0 {
		b.TextBegin()
		b.TextFirstLine(margin, yPos-size)
		b.TextShow("No fonts found.")
		b.TextEnd()
	}

	for _, e := range entries {
		yPos -= leading
		num := strconv.Itoa(e.Page)
		numWidth := b.TextLayout(nil, num).TotalWidth()
		name := r.fit(b, e.Name, 0.75*width)
		nameWidth := b.TextLayout(nil, name).TotalWidth()

		b.TextBegin()
		b.TextFirstLine(margin, yPos)
		b.TextShow(name)
		b.TextEnd()

		// dot leader between name and page number
		gap := width - nameWidth - numWidth - 2*6
		if n := int(gap / dotWidth); n > 0 {
			b.TextBegin()
			b.TextFirstLine(margin+nameWidth+6, yPos)
			b.TextShow(strings.Repeat(".", n))
			b.TextEnd()
		}

		b.TextBegin()
		b.TextFirstLine(r.paper.URx-margin-numWidth, yPos)
		b.TextShow(num)
		b.TextEnd()
	}

	if b.Err != nil {
		return b.Err
	}
	pg := &page.Page{
		MediaBox:  r.paper,
		Resources: res,
		Contents:  []*page.Content{{Operators: b.Stream}},
	}
	return r.front.AppendPage(pg)
}

// wrap breaks text into lines no wider than width, measured with the
// builder's current font and size.  Words too long for a line get a
// line of their own.
func (r *Renderer) wrap(b *builder.Builder, text string, width float64) []string {
	spaceWidth := b.TextLayout(nil, " ").TotalWidth()

	var lines []string
	var line []string
	var lineWidth float64
	for _, word := range strings.Fields(text) {
		w := b.TextLayout(nil, word).TotalWidth()
		if len(line) == 0 {
			line = append(line, word)
			lineWidth = w
		} else if lineWidth+spaceWidth+w <= width {
			line = append(line, word)
			lineWidth += spaceWidth + w
		} else {
			lines = append(lines, strings.Join(line, " "))
			line = append(line[:0], word)
			lineWidth = w
		}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

// fit truncates s so that it fits into the given width, using the
// builder's current font and size.
func (r *Renderer) fit(b *builder.Builder, s string, width float64) string {
	if b.TextLayout(nil, s).TotalWidth() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t := string(runes) + "..."
		if b.TextLayout(nil, t).TotalWidth() <= width {
			return t
		}
	}
	return "..."
}
