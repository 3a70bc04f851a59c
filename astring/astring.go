// Copyright 2020-2024 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package astring implements AnnotatedString, the free-text container
// used for balloon bodies: an ordered sequence of (grapheme cluster,
// style) cells with precomputed word-boundary metadata, plus an optional
// per-cell "under-marker" glyph drawn one row below (used to underline
// inserted text).
package astring

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/amitsingh19975/diagnose/style"
)

// Cell is a single grapheme cluster together with the style it should be
// rendered in, and an optional glyph to draw directly beneath it.
type Cell struct {
	Grapheme    string
	Style       style.Style
	UnderMarker rune // 0 means "no under-marker"
}

// AnnotatedString is an ordered sequence of styled grapheme clusters.
//
// The zero value is a usable empty string.
type AnnotatedString struct {
	cells []Cell
	// wordBoundaries[i] is true if a word boundary falls immediately
	// before cells[i] (so the string can be wrapped without splitting a
	// word). Index 0 is always a boundary.
	wordBoundaries []bool
}

// Len returns the number of grapheme clusters in s.
func (s *AnnotatedString) Len() int {
	return len(s.cells)
}

// Cells returns the underlying cell slice. Callers must not mutate it.
func (s *AnnotatedString) Cells() []Cell {
	return s.cells
}

// IsEmpty reports whether s has no cells.
func (s *AnnotatedString) IsEmpty() bool {
	return len(s.cells) == 0
}

// String renders the plain text of s, discarding style information.
func (s *AnnotatedString) String() string {
	var b []byte
	for _, c := range s.cells {
		b = append(b, c.Grapheme...)
	}
	return string(b)
}

// IsWordBoundary reports whether a word boundary precedes cell index i.
func (s *AnnotatedString) IsWordBoundary(i int) bool {
	if i < 0 || i >= len(s.wordBoundaries) {
		return i == len(s.cells)
	}
	return s.wordBoundaries[i]
}

// Push appends text to s, styled with the given style, splitting it into
// grapheme clusters and recomputing word-boundary metadata incrementally.
func (s *AnnotatedString) Push(text string, st style.Style) {
	prevRune := ' '
	if n := len(s.cells); n > 0 {
		if r := lastRune(s.cells[n-1].Grapheme); r != 0 {
			prevRune = r
		}
	}

	state := -1
	for text != "" {
		var cluster string
		var boundary bool
		cluster, text, boundary, state = stepWord(text, state, prevRune)

		s.wordBoundaries = append(s.wordBoundaries, boundary || len(s.cells) == 0)
		s.cells = append(s.cells, Cell{Grapheme: cluster, Style: st})

		if r := lastRune(cluster); r != 0 {
			prevRune = r
		}
	}
}

// PushRune appends a single rune as one cell.
func (s *AnnotatedString) PushRune(r rune, st style.Style) {
	s.Push(string(r), st)
}

// SetUnderMarker decorates cell i with a glyph to be drawn one row
// beneath it (used for underlining inserted text). It is a no-op if i is
// out of range.
func (s *AnnotatedString) SetUnderMarker(i int, marker rune) {
	if i < 0 || i >= len(s.cells) {
		return
	}
	s.cells[i].UnderMarker = marker
}

// Builder accumulates pushes under a single inherited style, mirroring
// the teacher's "with_style" transient builder pattern.
type Builder struct {
	target *AnnotatedString
	style  style.Style
}

// WithStyle returns a Builder that appends to s using st for every
// subsequent Push call, until a different style is wanted.
func (s *AnnotatedString) WithStyle(st style.Style) Builder {
	return Builder{target: s, style: st}
}

// Push appends text using the builder's inherited style.
func (b Builder) Push(text string) Builder {
	b.target.Push(text, b.style)
	return b
}

// Done returns the underlying AnnotatedString.
func (b Builder) Done() *AnnotatedString {
	return b.target
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// stepWord extracts the next grapheme cluster from text using uniseg,
// and reports whether a word boundary precedes it. We approximate "word
// boundary" the way the teacher's wordWrap does: a transition between
// whitespace and non-whitespace, rather than pulling in full UAX#29 word
// segmentation, since that is all balloon wrapping needs.
func stepWord(text string, state int, prevRune rune) (cluster, rest string, boundary bool, newState int) {
	cluster, rest, _, newState = uniseg.FirstGraphemeClusterInString(text, state)
	first := lastRune(cluster)
	boundary = unicode.IsSpace(first) != unicode.IsSpace(prevRune)
	return cluster, rest, boundary, newState
}

// Width returns the terminal column width of s, honoring East-Asian
// width and expanding each tab to the next TabstopWidth-aligned stop.
// (The canvas does not expand tabs; it counts a tab cell as one column.)
func (s *AnnotatedString) Width() int {
	var w int
	for _, c := range s.cells {
		if c.Grapheme == "\t" {
			w += TabstopWidth - (w % TabstopWidth)
			continue
		}
		w += uniseg.StringWidth(c.Grapheme)
	}
	return w
}

// TabstopWidth is the column width tabs are expanded to when measuring
// an AnnotatedString with Width.
const TabstopWidth = 4
