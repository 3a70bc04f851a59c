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

// Package source holds the two things the renderer needs from the
// caller's world: a [File]/[IndexedFile] pair for turning byte offsets
// into line/column locations, and the [DiagnosticLocation] sum type that
// a caller-supplied converter produces (either a raw source slice, or a
// sequence of pre-tokenized, pre-styled lines).
package source

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

// TabstopWidth is the column width a tab is expanded to.
const TabstopWidth = 4

// File is a source code file involved in a diagnostic.
type File struct {
	// Path is the filesystem path for this file. It need not be a real
	// path, but it is used to deduplicate and sort spans by file.
	Path string
	// Text is the complete text of the file.
	Text string
}

// Location is a user-displayable position within a source file.
type Location struct {
	Offset     int
	Line       int // 1-indexed; 0 means "missing" (see spec §7)
	Column     int // 1-indexed, accounting for rune width, not byte count
}

// IndexedFile is a line index over a [File], letting byte offsets be
// converted to [Location]s in O(log n).
type IndexedFile struct {
	file File

	once  sync.Once
	lines []int // byte offset of the start of each line
}

// NewIndexedFile builds a line index for file. Indexing itself is
// deferred to the first call to Search.
func NewIndexedFile(file File) *IndexedFile {
	return &IndexedFile{file: file}
}

// File returns the indexed file.
func (f *IndexedFile) File() File { return f.file }

// Path returns f.File().Path.
func (f *IndexedFile) Path() string { return f.file.Path }

// Text returns f.File().Text.
func (f *IndexedFile) Text() string { return f.file.Text }

func (f *IndexedFile) index() {
	f.once.Do(func() {
		var next int
		text := f.file.Text
		for {
			nl := strings.IndexByte(text, '\n') + 1
			if nl == 0 {
				break
			}
			text = text[nl:]
			f.lines = append(f.lines, next)
			next += nl
		}
		f.lines = append(f.lines, next)
	})
}

// Search builds a full [Location] for the given byte offset.
func (f *IndexedFile) Search(offset int) Location {
	f.index()

	line, exact := slices.BinarySearch(f.lines, offset)
	if !exact {
		line--
	}
	if line < 0 {
		line = 0
	}

	column := StringWidth(0, f.file.Text[f.lines[line]:offset])
	return Location{Offset: offset, Line: line + 1, Column: column + 1}
}

// LineText returns the text of the given 1-indexed line, without its
// trailing newline.
func (f *IndexedFile) LineText(line int) string {
	f.index()
	if line < 1 || line > len(f.lines) {
		return ""
	}
	start := f.lines[line-1]
	end := len(f.file.Text)
	if nl := strings.IndexByte(f.file.Text[start:], '\n'); nl != -1 {
		end = start + nl
	}
	return f.file.Text[start:end]
}

// LineStartOffset returns the byte offset of the start of the given
// 1-indexed line.
func (f *IndexedFile) LineStartOffset(line int) int {
	f.index()
	if line < 1 || line > len(f.lines) {
		return 0
	}
	return f.lines[line-1]
}

// LineCount returns the number of lines in the file.
func (f *IndexedFile) LineCount() int {
	f.index()
	return len(f.lines)
}

// Spanner is any type with a Span.
type Spanner interface {
	Span() Span
}

// Span is an absolute span.Span tied to the file it indexes into.
type Span struct {
	File       *IndexedFile
	Start, End int
}

// Nil reports whether this span has no backing file.
func (s Span) Nil() bool { return s.File == nil }

// Span implements [Spanner].
func (s Span) Span() Span { return s }

// Raw returns the pure integer algebra form of this span.
func (s Span) Raw() span.Span { return span.New(span.Absolute, s.Start, s.End) }

// Text returns the text this span covers.
func (s Span) Text() string {
	if s.Nil() {
		return ""
	}
	return s.File.Text()[s.Start:s.End]
}

// Path returns the path of the file this span is in, or "" if nil.
func (s Span) Path() string {
	if s.Nil() {
		return ""
	}
	return s.File.Path()
}

// StartLoc returns the start location for this span.
func (s Span) StartLoc() Location { return s.File.Search(s.Start) }

// EndLoc returns the end location for this span.
func (s Span) EndLoc() Location { return s.File.Search(s.End) }

// Join returns the smallest span containing every non-nil span among
// spans. Spans from different files may not be joined; doing so panics.
func Join(spans ...Spanner) Span {
	var joined Span
	first := true
	for _, sp := range spans {
		if sp == nil {
			continue
		}
		s := sp.Span()
		if s.Nil() {
			continue
		}
		if first {
			joined = s
			first = false
			continue
		}
		if joined.File != s.File {
			panic("diagnose/source: Join called with spans from distinct files")
		}
		joined.Start = min(joined.Start, s.Start)
		joined.End = max(joined.End, s.End)
	}
	return joined
}

// Token is a single pre-tokenized, pre-styled chunk of source text, as
// supplied by a converter that has already done lexical analysis (e.g.
// one that wants to preserve syntax highlighting in the rendered
// excerpt).
type Token struct {
	Text string
	// ColumnNumber is the 1-indexed column this token starts at.
	ColumnNumber int
	// MarkerSpan is the byte range within Text, if any, that the
	// converter marks as "the marker". Decompose does not read it: its
	// zero-length-span promotion uses the location's primary span.
	MarkerSpan span.Span
	Style      style.Style
}

// TokenLine is one line's worth of pre-tokenized source.
type TokenLine struct {
	Tokens          []Token
	LineNumber      int
	LineStartOffset int
}

// BasicDiagnosticLocationItem is a [DiagnosticLocation] backed by a raw
// source slice: the converter hands back the literal text around the
// location instead of pre-tokenized lines.
type BasicDiagnosticLocationItem struct {
	// Source is the slice of source text this location is excerpted
	// from (may span multiple lines).
	Source string
	// LineNumber and ColumnNumber are 1-based; LineNumber == 0 means
	// "missing" and suppresses the gutter number (spec §7).
	LineNumber, ColumnNumber int
	// SourceLocation is the absolute byte offset of Source's first
	// character within the whole file.
	SourceLocation int
	// Length is the length, in bytes, of the marker within Source.
	Length int
}

// DiagnosticLocationTokens is a [DiagnosticLocation] backed by a list of
// pre-tokenized, pre-styled lines, plus the absolute marker span.
type DiagnosticLocationTokens struct {
	Lines  []TokenLine
	Marker span.Span // Absolute
}

// LocationKind discriminates the two [DiagnosticLocation] payload
// shapes.
type LocationKind int8

const (
	// LocationBasic means the Basic field is populated.
	LocationBasic LocationKind = iota
	// LocationTokens means the Tokens field is populated.
	LocationTokens
)

// DiagnosticLocation is the result of a caller's location converter: a
// filename plus either a raw source slice or a list of pre-tokenized
// lines.
type DiagnosticLocation struct {
	Kind LocationKind
	Path string

	Basic  BasicDiagnosticLocationItem
	Tokens DiagnosticLocationTokens
}

// IsZero reports whether l is the empty location (no file, no content).
func (l DiagnosticLocation) IsZero() bool {
	return l.Path == "" && l.Kind == LocationBasic && l.Basic == (BasicDiagnosticLocationItem{})
}

// StartLine returns the 1-based starting line of this location, or 0 if
// unknown/missing.
func (l DiagnosticLocation) StartLine() int {
	switch l.Kind {
	case LocationTokens:
		if len(l.Tokens.Lines) == 0 {
			return 0
		}
		return l.Tokens.Lines[0].LineNumber
	default:
		return l.Basic.LineNumber
	}
}

// StartColumn returns the 1-based starting column of this location, or 0
// if unknown.
func (l DiagnosticLocation) StartColumn() int {
	switch l.Kind {
	case LocationTokens:
		if len(l.Tokens.Lines) == 0 || len(l.Tokens.Lines[0].Tokens) == 0 {
			return 0
		}
		return l.Tokens.Lines[0].Tokens[0].ColumnNumber
	default:
		return l.Basic.ColumnNumber
	}
}

// Compare orders two locations lexicographically on (Path, StartLine,
// StartColumn); empty locations compare equal to each other and sort
// before any non-empty location.
func Compare(a, b DiagnosticLocation) int {
	if a.IsZero() && b.IsZero() {
		return 0
	}
	if a.IsZero() {
		return -1
	}
	if b.IsZero() {
		return 1
	}
	if c := strings.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	if c := a.StartLine() - b.StartLine(); c != 0 {
		return c
	}
	return a.StartColumn() - b.StartColumn()
}

// DiagnosticSourceLocationTokens is the payload an Insert-level
// annotation may carry: a run of styled tokens describing replacement or
// additional text. The renderer does not splice these tokens; it splices
// the annotation's plain InsertText.
type DiagnosticSourceLocationTokens struct {
	Tokens []Token
}

// Edit describes a single suggested textual change: replace the text
// covered by Span with Replace. An empty Span is a pure insertion; an
// empty Replace is a pure deletion.
type Edit struct {
	Span    span.Span // Absolute, offsets into the text the edit is applied to
	Replace string
}

// IsInsert reports whether e adds text without removing any.
func (e Edit) IsInsert() bool { return e.Span.IsEmpty() && e.Replace != "" }

// IsDelete reports whether e removes text without adding any.
func (e Edit) IsDelete() bool { return !e.Span.IsEmpty() && e.Replace == "" }

// StringWidth calculates the rendered column width of text if placed at
// the given starting column, expanding tabs to TabstopWidth-aligned
// stops and counting grapheme clusters by their East-Asian display
// width.
func StringWidth(column int, text string) int {
	for text != "" {
		nextTab := strings.IndexByte(text, '\t')
		var chunk string
		if nextTab == -1 {
			chunk, text = text, ""
		} else {
			chunk, text = text[:nextTab], text[nextTab+1:]
		}

		column += uniseg.StringWidth(chunk)

		if nextTab != -1 {
			tab := TabstopWidth - (column % TabstopWidth)
			column += tab
		}
	}
	return column
}

// NonPrint reports whether r should be rendered in escaped <U+NNNN> form
// rather than verbatim.
func NonPrint(r rune) bool {
	return !strings.ContainsRune(" \r\t\n", r) && !unicode.IsPrint(r)
}

// EscapeControl renders r in the short escape form used for control
// characters that have a conventional Go-string escape (\n, \t, \r),
// falling back to <U+NNNN> for anything else NonPrint flags.
func EscapeControl(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	default:
		if NonPrint(r) {
			return "<U+" + hex4(r) + ">"
		}
		return string(r)
	}
}

func hex4(r rune) string {
	const digits = "0123456789ABCDEF"
	buf := [4]byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && r > 0; i-- {
		buf[i] = digits[r&0xF]
		r >>= 4
	}
	return string(buf[:])
}
