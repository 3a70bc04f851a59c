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

package diagnose

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/amitsingh19975/diagnose/canvas"
	"github.com/amitsingh19975/diagnose/decompose"
	"github.com/amitsingh19975/diagnose/glyphs"
	"github.com/amitsingh19975/diagnose/placer"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

// Render lays out d onto a fresh canvas of the given width: the header
// line, the `╭─[file:line:col]` location banner, the source excerpt
// with its balloons and connectors, a suggested-fix diff footer when
// the diagnostic carries Insert/Delete edits, and finally every
// sub-diagnostic in turn (spec §2 data flow: builder -> converter ->
// Diagnostic -> consumer -> Placer -> canvas).
func Render(d Diagnostic, width int, gs glyphs.BoxChars) *canvas.Canvas {
	c := canvas.New(width)
	row := renderBlock(c, 0, d.Kind, d.Level, d.Message, d.Location, d.Annotations, d.MaxLineNumber(), gs)

	for _, sub := range d.SubDiagnostics {
		row++
		row = renderBlock(c, row, sub.Kind, sub.Level, sub.Message, sub.Location, sub.Annotations, sub.Location.StartLine(), gs)
	}

	return c
}

// renderBlock draws one diagnostic or sub-diagnostic's header, excerpt,
// and suggested-fix footer, returning the next free row.
func renderBlock(c *canvas.Canvas, row int, kind any, level Level, message string, loc source.DiagnosticLocation, anns []DiagnosticMessage, maxLine int, gs glyphs.BoxChars) int {
	row = drawHeader(c, row, kind, level, message, loc)
	row = placer.Place(c, row, placer.Input{
		Lines:         excerptLines(loc),
		Annotations:   toPlacerAnnotations(anns),
		Primary:       primarySpan(loc),
		MaxLineNumber: maxLine,
		Glyphs:        gs,
	})
	return drawSuggestionFooter(c, row, loc, anns)
}

func drawHeader(c *canvas.Canvas, row int, kind any, level Level, message string, loc source.DiagnosticLocation) int {
	gutterStyle := style.Style{Fg: style.ColorNote, Z: style.Immutable}
	headStyle := style.ForLevel(level)

	kindSuffix := ""
	if kind != nil {
		if s := fmt.Sprint(kind); s != "" {
			kindSuffix = "[" + s + "]"
		}
	}
	headline := fmt.Sprintf("%s%s: %s", capitalize(level.String()), kindSuffix, message)
	col := 0
	for _, r := range headline {
		c.DrawPixel(col, row, string(r), headStyle)
		col++
	}
	row++

	if loc.Path == "" {
		return row // empty filename suppresses the ╭─[file:line:col] banner (spec §7)
	}

	indent := max(2, len(strconv.Itoa(loc.StartLine()))) + 1
	banner := fmt.Sprintf("%s╭─[%s:%d:%d]", strings.Repeat(" ", indent), loc.Path, loc.StartLine(), loc.StartColumn())
	col = 0
	for _, r := range banner {
		c.DrawPixel(col, row, string(r), gutterStyle)
		col++
	}
	row++

	col = 0
	for i := 0; i < indent; i++ {
		c.DrawPixel(col, row, " ", gutterStyle)
		col++
	}
	c.DrawPixel(col, row, "│", gutterStyle)
	return row + 1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// excerptLines projects a DiagnosticLocation down to the plain
// (text, tokens, offset) triples the placer operates on.
func excerptLines(loc source.DiagnosticLocation) []placer.ExcerptLine {
	if loc.Kind == source.LocationTokens {
		lines := make([]placer.ExcerptLine, len(loc.Tokens.Lines))
		for i, tl := range loc.Tokens.Lines {
			var text strings.Builder
			for _, t := range tl.Tokens {
				text.WriteString(t.Text)
			}
			lines[i] = placer.ExcerptLine{
				LineNumber: tl.LineNumber, Text: text.String(),
				StartOffset: tl.LineStartOffset, Tokens: tl.Tokens,
			}
		}
		return lines
	}

	basic := loc.Basic
	if basic.Source == "" {
		return nil
	}
	rawLines := strings.Split(basic.Source, "\n")
	lines := make([]placer.ExcerptLine, len(rawLines))
	offset := basic.SourceLocation
	for i, text := range rawLines {
		lineNo := basic.LineNumber
		if lineNo > 0 {
			lineNo += i
		}
		lines[i] = placer.ExcerptLine{LineNumber: lineNo, Text: text, StartOffset: offset}
		offset += len(text) + 1
	}
	return lines
}

func primarySpan(loc source.DiagnosticLocation) span.Span {
	if loc.Kind == source.LocationTokens {
		return loc.Tokens.Marker
	}
	b := loc.Basic
	return span.New(span.Absolute, b.SourceLocation, b.SourceLocation+b.Length)
}

func toPlacerAnnotations(anns []DiagnosticMessage) []placer.Annotation {
	out := make([]placer.Annotation, len(anns))
	for i, a := range anns {
		out[i] = placer.Annotation{
			ID: a.id, Level: a.Level, Spans: a.Spans,
			Message: a.Message, InsertText: a.InsertText,
		}
	}
	return out
}

// editsFor converts a diagnostic's Insert/Delete annotations into
// [source.Edit]s relative to loc's excerpted source text, so they can
// be applied and diffed. Only a [source.LocationBasic] location has a
// contiguous source slice to edit against; a pre-tokenized location
// carries no such slice, so it contributes no suggested-fix footer.
func editsFor(loc source.DiagnosticLocation, anns []DiagnosticMessage) []source.Edit {
	if loc.Kind != source.LocationBasic || loc.Basic.Source == "" {
		return nil
	}
	base := loc.Basic.SourceLocation
	text := loc.Basic.Source

	var edits []source.Edit
	for _, a := range anns {
		if len(a.Spans) == 0 {
			continue
		}
		sp := a.Spans[0]
		switch a.Level {
		case Insert:
			at := sp.Start - base
			if at < 0 || at > len(text) {
				continue
			}
			edits = append(edits, source.Edit{Span: span.New(span.Absolute, at, at), Replace: a.InsertText})
		case Delete:
			start, end := sp.Start-base, sp.End-base
			if start < 0 || end > len(text) || start > end {
				continue
			}
			edits = append(edits, source.Edit{Span: span.New(span.Absolute, start, end), Replace: ""})
		}
	}
	return edits
}

// drawSuggestionFooter renders a unified-diff "help: apply this
// suggestion" block beneath the excerpt when anns carries any
// Insert/Delete edits, the way the original C++ library's
// builders/annotation.hpp attaches a fix-it footer to a diagnostic.
func drawSuggestionFooter(c *canvas.Canvas, row int, loc source.DiagnosticLocation, anns []DiagnosticMessage) int {
	edits := editsFor(loc, anns)
	if len(edits) == 0 {
		return row
	}

	diffText, err := decompose.UnifiedDiff(loc.Path, loc.Basic.Source, edits)
	if err != nil || strings.TrimSpace(diffText) == "" {
		return row
	}

	gutterStyle := style.Style{Fg: style.ColorNote, Z: style.Immutable}
	helpStyle := style.Style{Fg: style.ColorInsert, Bold: true}

	indent := max(2, len(strconv.Itoa(loc.StartLine())))
	row++
	col := 0
	for i := 0; i < indent; i++ {
		c.DrawPixel(col, row, " ", gutterStyle)
		col++
	}
	c.DrawPixel(col, row, ":", gutterStyle)
	col += 2
	for _, r := range "help: apply this suggestion:" {
		c.DrawPixel(col, row, string(r), helpStyle)
		col++
	}
	row++

	lines := strings.Split(strings.TrimRight(diffText, "\n"), "\n")
	for _, l := range lines {
		col = indent + 2
		st := style.Style{Fg: style.ColorNote}
		switch {
		case strings.HasPrefix(l, "+"):
			st = style.Style{Fg: style.ColorInsert}
		case strings.HasPrefix(l, "-"):
			st = style.Style{Fg: style.ColorDelete}
		}
		for _, r := range l {
			c.DrawPixel(col, row, string(r), st)
			col++
		}
		row++
	}
	return row
}
