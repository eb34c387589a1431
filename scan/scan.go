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

// Package scan discovers font file candidates in a directory tree.
//
// Discovery is deterministic: candidates are returned in lexicographic
// walk order, so that repeated runs over an unchanged tree produce the
// same candidate sequence.  Downstream components rely on this order and
// do not re-sort.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Candidate is a discovered file which, by extension, may be a font.
type Candidate struct {
	// Path is the full path of the file.
	Path string

	// Ext is the lower-cased file extension, including the dot.
	Ext string
}

// Scan walks the tree rooted at root and returns all files whose
// extension is in exts, in lexicographic walk order.  Extensions are
// compared case-insensitively and must include the leading dot.
//
// A missing or unreadable root is a fatal error.  Unreadable
// subdirectories further down are skipped: one bad directory must not
// abort discovery.
func Scan(root string, exts []string) ([]Candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var cc []Candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if allowed[ext] {
			cc = append(cc, Candidate{Path: path, Ext: ext})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return cc, nil
}
