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

// Package placer lays out one diagnostic's source excerpt, balloons,
// markers, and connector paths onto a canvas, owning all of the
// coordinate arithmetic that the spec assigns to "the placer" (§4.2 -
// §4.5). It is grounded on bufbuild-protocompile's
// experimental/report/renderer.go window/sidebar layout, generalized
// from that renderer's single-pass text layout into an explicit,
// re-enterable, multi-stage placement that also has to make room for
// balloons and routed connectors.
package placer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/amitsingh19975/diagnose/astring"
	"github.com/amitsingh19975/diagnose/canvas"
	"github.com/amitsingh19975/diagnose/decompose"
	"github.com/amitsingh19975/diagnose/glyphs"
	"github.com/amitsingh19975/diagnose/router"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

// Annotation is the placer's view of one DiagnosticMessage: enough to
// decompose per-line markup and, if it carries spans, draw a balloon.
// The root diagnose package is responsible for projecting its richer
// DiagnosticMessage type down to this shape.
type Annotation struct {
	ID      decompose.MessageID
	Level   style.Level
	Spans   []span.Span // Absolute; empty means "orphan" (spec §4.5)
	Message *astring.AnnotatedString

	// InsertText is spliced in by line decomposition when Level ==
	// style.Insert; Spans[0] gives the insertion point.
	InsertText string
}

// ExcerptLine is one source line's worth of pre-split text or tokens.
type ExcerptLine struct {
	LineNumber  int // 1-based; 0 means "missing" (spec §7)
	Text        string
	StartOffset int // absolute byte offset of Text[0]
	Tokens      []source.Token
}

// Input is everything Place needs to lay out one diagnostic's excerpt.
type Input struct {
	Lines         []ExcerptLine
	Annotations   []Annotation
	Primary       span.Span // Absolute
	MaxLineNumber int       // across the whole diagnostic; sizes the gutter
	Glyphs        glyphs.BoxChars
}

const (
	minElisionRun = 5
	balloonMargin = 4
)

// Place renders in onto c starting at row startRow and returns the next
// free row below everything it drew (source excerpt, balloons, markers,
// connectors, and orphan messages).
func Place(c *canvas.Canvas, startRow int, in Input) int {
	gutterWidth := gutterDigitsWidth(in.MaxLineNumber)
	contentStart := gutterWidth + 2

	withSpans, orphans := splitOrphans(in.Annotations)
	lineMessages := projectToLines(in.Lines, withSpans)

	placed := map[decompose.MessageID]bool{}
	for _, msgs := range lineMessages {
		for _, m := range msgs {
			placed[m.ID] = true
		}
	}
	// Spans wholly outside every excerpt line (spec §8 S5: "span
	// clipping") still need their message shown; fall back to orphan
	// rendering for them rather than silently dropping the annotation.
	for _, a := range withSpans {
		if !placed[a.ID] {
			orphans = append(orphans, a)
		}
	}

	displaySpans, markerRow := drawExcerpt(c, startRow, contentStart, gutterWidth, in, lineMessages)

	markerEnd := drawMarkersAndBalloons(c, markerRow, contentStart, in, displaySpans)

	return drawOrphans(c, markerEnd, gutterWidth, orphans)
}

func gutterDigitsWidth(maxLine int) int {
	digits := len(strconv.Itoa(maxLine))
	return max(2, digits)
}

// splitOrphans partitions annotations into those with spans (laid out
// against the excerpt) and orphans (rendered at the bottom, spec §4.5).
func splitOrphans(anns []Annotation) (withSpans []Annotation, orphans []Annotation) {
	for _, a := range anns {
		if len(a.Spans) == 0 {
			orphans = append(orphans, a)
		} else {
			withSpans = append(withSpans, a)
		}
	}
	return withSpans, orphans
}

// projectToLines buckets each annotation's spans by which excerpt line
// they (at least partly) fall on, producing the per-line decompose.Message
// list that Decompose expects. An annotation with several spans may
// contribute a message to several lines.
func projectToLines(lines []ExcerptLine, anns []Annotation) map[int][]decompose.Message {
	out := map[int][]decompose.Message{}
	for i, ln := range lines {
		lineEnd := ln.StartOffset + len([]rune(ln.Text))
		for _, a := range anns {
			for _, sp := range a.Spans {
				if sp.IsEmpty() {
					if sp.Start < ln.StartOffset || sp.Start > lineEnd {
						continue
					}
				} else if !sp.Intersects(span.New(span.Absolute, ln.StartOffset, lineEnd)) {
					continue
				}
				out[i] = append(out[i], decompose.Message{
					ID: a.ID, Level: a.Level, Span: sp, InsertText: a.InsertText,
				})
			}
		}
	}
	return out
}

// DisplaySpan records where on the canvas a marked render item ended up,
// for the marker- and connector-drawing passes that follow.
type DisplaySpan struct {
	X, Y       int
	LineIdx    int
	MessageIDs []decompose.MessageID
	Level      style.Level
	IsPrimary  bool
}

// drawExcerpt draws the gutter and source text for every line, eliding
// runs of minElisionRun or more consecutive unmarked lines, and returns
// the DisplaySpans for every marked render item plus the row immediately
// below the excerpt.
func drawExcerpt(c *canvas.Canvas, startRow, contentStart, gutterWidth int, in Input, lineMessages map[int][]decompose.Message) ([]DisplaySpan, int) {
	marked := make([]bool, len(in.Lines))
	for i := range in.Lines {
		marked[i] = len(lineMessages[i]) > 0
	}

	var spans []DisplaySpan
	row := startRow
	i := 0
	for i < len(in.Lines) {
		if !marked[i] {
			run := 0
			for i+run < len(in.Lines) && !marked[i+run] {
				run++
			}
			if run >= minElisionRun {
				drawGutterElision(c, row, gutterWidth)
				row++
				i += run
				continue
			}
		}

		ln := in.Lines[i]
		items := decompose.Decompose(ln.Text, ln.StartOffset, ln.Tokens, lineMessages[i], in.Primary)
		drawGutterLineNumber(c, row, gutterWidth, ln.LineNumber)

		col := contentStart
		curRow := row
		for _, it := range items {
			for _, r := range it.Text {
				glyph := string(r)
				if source.NonPrint(r) {
					glyph = source.EscapeControl(r)
				}
				if col+len([]rune(glyph)) > c.Width() {
					curRow++
					col = contentStart
				}
				for _, gr := range glyph {
					c.DrawPixel(col, curRow, string(gr), it.Style)
					col++
				}
			}
			if len(it.MessageIDs) > 0 {
				itemStart := ln.StartOffset + it.StartCol
				isPrimary := in.Primary.Contains(itemStart)
				spans = append(spans, DisplaySpan{
					X: col - len([]rune(it.Text)), Y: curRow,
					LineIdx: i, MessageIDs: it.MessageIDs, Level: levelOf(it.Style),
					IsPrimary: isPrimary,
				})
			}
		}

		row = curRow + 1
		i++
	}

	return spans, row
}

func levelOf(st style.Style) style.Level {
	switch st.Z {
	case style.Note.ZIndex():
		return style.Note
	case style.Remark.ZIndex():
		return style.Remark
	case style.Warning.ZIndex():
		return style.Warning
	case style.Error.ZIndex():
		return style.Error
	case style.Delete.ZIndex():
		return style.Delete
	case style.Insert.ZIndex():
		return style.Insert
	default:
		return style.Note
	}
}

func drawGutterLineNumber(c *canvas.Canvas, row, gutterWidth, lineNumber int) {
	gutterStyle := style.Style{Fg: style.ColorNote, Z: style.Immutable}
	label := strings.Repeat(" ", gutterWidth)
	if lineNumber > 0 {
		num := strconv.Itoa(lineNumber)
		label = strings.Repeat(" ", gutterWidth-len(num)) + num
	}
	x := 0
	for _, r := range label {
		c.DrawPixel(x, row, string(r), gutterStyle)
		x++
	}
	c.DrawPixel(x, row, "|", gutterStyle)
}

func drawGutterAnnotationRow(c *canvas.Canvas, row, gutterWidth int) {
	gutterStyle := style.Style{Fg: style.ColorNote, Z: style.Immutable}
	x := 0
	for ; x < gutterWidth; x++ {
		c.DrawPixel(x, row, " ", gutterStyle)
	}
	c.DrawPixel(x, row, ":", gutterStyle)
}

func drawGutterElision(c *canvas.Canvas, row, gutterWidth int) {
	gutterStyle := style.Style{Fg: style.ColorNote, Z: style.Immutable}
	label := "..."
	x := 0
	for _, r := range label {
		if x >= gutterWidth {
			break
		}
		c.DrawPixel(x, row, string(r), gutterStyle)
		x++
	}
}

// Balloon is a placed callout box.
type Balloon struct {
	X, Y, W, H int
	Level      style.Level
	ids        []decompose.MessageID
}

// drawMarkersAndBalloons allocates marker rows, draws marker glyphs,
// places one balloon per distinct message body (deduplicated by the
// backing AnnotatedString's identity), and routes connectors from
// markers whose arrow direction is not "down" (spec §4.4, §4.6).
func drawMarkersAndBalloons(c *canvas.Canvas, startRow, contentStart int, in Input, spans []DisplaySpan) int {
	byID := make(map[decompose.MessageID]Annotation, len(in.Annotations))
	for _, a := range in.Annotations {
		byID[a.ID] = a
	}

	// Group DisplaySpans by cursor so a cell marked by two distinct kinds
	// (e.g. error and warning) gets two marker rows.
	type cursorKey struct{ x, y int }
	kindsByCursor := map[cursorKey]map[style.Level]bool{}
	for _, ds := range spans {
		key := cursorKey{ds.X, ds.Y}
		if kindsByCursor[key] == nil {
			kindsByCursor[key] = map[style.Level]bool{}
		}
		kindsByCursor[key][ds.Level] = true
	}

	maxKinds := 1
	for _, kinds := range kindsByCursor {
		if len(kinds) > maxKinds {
			maxKinds = len(kinds)
		}
	}
	for i := 0; i < maxKinds; i++ {
		c.InsertRow(startRow + i)
	}
	markerBaseRow := startRow + 1

	seenBalloons := map[*astring.AnnotatedString]*Balloon{}

	rowOffsetByCursorLevel := map[cursorKey]map[style.Level]int{}
	for key, kinds := range kindsByCursor {
		levels := make([]style.Level, 0, len(kinds))
		for l := range kinds {
			levels = append(levels, l)
		}
		sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
		rowOffsetByCursorLevel[key] = map[style.Level]int{}
		for i, l := range levels {
			rowOffsetByCursorLevel[key][l] = i
		}
	}

	maxBalloonBottom := markerBaseRow + maxKinds

	for _, ds := range spans {
		key := cursorKey{ds.X, ds.Y}
		offset := rowOffsetByCursorLevel[key][ds.Level]
		markerRow := markerBaseRow + offset

		glyph := markerGlyph(ds.Level, ds.IsPrimary)
		st := style.ForLevel(ds.Level)
		c.DrawPixel(ds.X, markerRow, glyph, st)

		for _, id := range ds.MessageIDs {
			ann, ok := byID[id]
			if !ok || ann.Message == nil || ann.Message.IsEmpty() {
				continue
			}

			b, isNew := seenBalloons[ann.Message]
			if !isNew {
				b = placeBalloon(c, markerRow, ds.X, contentStart, ann, in.Glyphs)
				seenBalloons[ann.Message] = b
			}
			b.ids = append(b.ids, id)
			if b.Y+b.H > maxBalloonBottom {
				maxBalloonBottom = b.Y + b.H
			}

			routeConnector(c, markerRow, ds.X, b, int(id))
		}
	}

	return maxBalloonBottom + 1
}

func markerGlyph(level style.Level, isPrimary bool) string {
	if isPrimary {
		return "^"
	}
	switch level {
	case style.Delete:
		return "-"
	case style.Insert:
		return "+"
	default:
		return "~"
	}
}

// placeBalloon finds a free strip below (markerRow, markerX) wide enough
// for the message text and draws a boxed, word-wrapped balloon there
// (spec §4.3). The full spec describes an iterative shift-then-grow
// search; this implementation performs one leftward shift before
// falling back to growing the canvas, which covers the common layouts
// without the open-ended retry loop.
func placeBalloon(c *canvas.Canvas, markerRow, markerX, contentStart int, ann Annotation, chars glyphs.BoxChars) *Balloon {
	text := ann.Message.String()
	width := min(c.Width()-contentStart, len(text)+balloonMargin)
	width = max(width, 8)

	targetX := markerX
	if targetX+width > c.Width() {
		targetX = max(contentStart, c.Width()-width)
	}

	row := markerRow + 2
	for y := row; y < row+200; y++ {
		if stripFree(c, targetX, y, width, levelZ(ann.Level)) {
			badge := fmt.Sprintf(" %s ", ann.Level.String())
			var body astring.AnnotatedString
			body.Push(badge, style.ForLevel(ann.Level))
			body.Push("\n", style.Style{})
			for _, cell := range ann.Message.Cells() {
				body.PushRune([]rune(cell.Grapheme)[0], cell.Style)
			}

			box := c.DrawBoxedText(targetX, y, &body, style.ForLevel(ann.Level), canvas.TextOptions{
				MaxWidth: width,
				WordWrap: true,
				Align:    canvas.AlignLeft,
			}, chars)
			return &Balloon{X: box.X, Y: box.Y, W: box.W, H: box.H, Level: ann.Level}
		}
	}

	// Nothing free within the search window: grow and place at the
	// bottom, which is always free on a freshly grown canvas.
	y := row + 200
	box := c.DrawBoxedText(targetX, y, ann.Message, style.ForLevel(ann.Level), canvas.TextOptions{
		MaxWidth: width,
		WordWrap: true,
	}, chars)
	return &Balloon{X: box.X, Y: box.Y, W: box.W, H: box.H, Level: ann.Level}
}

func levelZ(l style.Level) int { return l.ZIndex() }

// stripFree reports whether every cell in the w-wide, single-row strip
// starting at (x, y) is either empty or belongs to a lower-z placement,
// per the balloon non-overlap invariant (spec §8).
func stripFree(c *canvas.Canvas, x, y, w, z int) bool {
	if x < 0 || x+w > c.Width() {
		return false
	}
	for i := 0; i < w; i++ {
		cell := c.Get(x+i, y)
		if cell.Grapheme != " " && cell.Style.Z >= z {
			return false
		}
	}
	return true
}

// routeConnector draws an orthogonal path from the marker to its
// balloon's top edge when the two are not vertically adjacent (spec
// §4.4/§4.6). A marker directly above its balloon needs no connector:
// the "down arrow" case is the default and is drawn as part of the
// marker row itself.
func routeConnector(c *canvas.Canvas, markerRow, markerX int, b *Balloon, group int) {
	if b.Y <= markerRow+2 && b.X <= markerX && markerX < b.X+b.W {
		return // directly below: no connector needed
	}

	occ := canvasOccupancy{c, group}
	dest := router.Point{X: b.X + 1, Y: b.Y}
	start := router.Point{X: markerX, Y: markerRow + 1}

	path, ok := router.Route(occ, start, dest, group, c.Width(), c.Height()+50)
	if !ok || len(path) < 2 {
		return
	}
	routeStyle := style.Style{Fg: style.ColorFor(b.Level), Z: b.Level.ZIndex(), Group: group}
	router.RenderPath(c, path, routeStyle, true)
}

type canvasOccupancy struct {
	c     *canvas.Canvas
	group int
}

func (o canvasOccupancy) CellAt(x, y int) router.CellInfo {
	cell := o.c.Get(x, y)
	if cell.Grapheme == " " || cell.Grapheme == "" {
		return router.CellInfo{Empty: true}
	}
	return router.CellInfo{Group: cell.Style.Group}
}

// drawOrphans renders every span-less annotation in a final block,
// sorted by ascending z-index so the severest prints last (spec §4.5).
func drawOrphans(c *canvas.Canvas, startRow, gutterWidth int, orphans []Annotation) int {
	if len(orphans) == 0 {
		return startRow
	}

	sort.SliceStable(orphans, func(i, j int) bool {
		return orphans[i].Level.ZIndex() < orphans[j].Level.ZIndex()
	})

	row := startRow
	for _, o := range orphans {
		drawGutterAnnotationRow(c, row, gutterWidth)
		prefix := fmt.Sprintf("= %s: ", o.Level.String())
		col := gutterWidth + 2
		st := style.ForLevel(o.Level)
		for _, r := range prefix {
			c.DrawPixel(col, row, string(r), st)
			col++
		}
		if o.Message != nil {
			for _, cell := range o.Message.Cells() {
				c.DrawPixel(col, row, cell.Grapheme, cell.Style)
				col++
			}
		}
		row++
	}
	return row
}
