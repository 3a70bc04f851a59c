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

// Package decompose flattens the overlapping annotation spans that touch
// a single source line into a z-ordered, non-overlapping sequence of
// styled render items, splicing in any suggested insertions. This is the
// "line decomposition" component of the renderer (spec §4.1).
package decompose

import (
	"slices"

	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

// MessageID identifies one of the messages passed to Decompose, so that a
// RenderItem can report which messages are responsible for it.
type MessageID int

// Message is the per-line projection of a [DiagnosticMessage]: just
// enough information for line decomposition to do its job, with the
// span already known to be in absolute file coordinates.
type Message struct {
	ID    MessageID
	Level style.Level
	Span  span.Span // Absolute

	// InsertText is the literal text to splice in, used only when
	// Level == style.Insert.
	InsertText string
}

// ItemKind distinguishes render items made of verbatim source text from
// ones synthesized to hold spliced-in suggested text.
type ItemKind int8

const (
	// ItemSource is a run of the original line text (or a sub-run of a
	// pre-tokenized line).
	ItemSource ItemKind = iota
	// ItemInserted is text spliced in by an Insert-level message.
	ItemInserted
)

// RenderItem is one styled, contiguous run of text produced by line
// decomposition. Concatenating the Text of every RenderItem for a line,
// in order, reproduces the visible line including spliced inserts.
type RenderItem struct {
	Text       string
	StartCol   int // rune-indexed column within the original line
	MessageIDs []MessageID
	Style      style.Style
	Kind       ItemKind
}

type maskCol struct {
	z     int
	level style.Level
	ids   []MessageID
}

// Decompose flattens messages touching one source line into an ordered
// list of RenderItems.
//
// lineText is the line's raw text (without trailing newline); lineStart
// is the absolute byte offset of its first character. tokens, if
// non-nil, supplies pre-styled tokens covering the line, each with a
// 1-based ColumnNumber; unmarked runs then inherit the underlying
// token's style instead of a plain one. primary is the diagnostic's
// overall primary span (used to promote zero-length messages that start
// exactly at the primary's start into the primary's full extent).
func Decompose(lineText string, lineStart int, tokens []source.Token, messages []Message, primary span.Span) []RenderItem {
	runes := []rune(lineText)
	n := len(runes)
	mask := make([]maskCol, n)

	var deferred []Message
	for _, m := range messages {
		if m.Level == style.Insert {
			deferred = append(deferred, m)
			continue
		}

		s := m.Span
		if s.IsEmpty() && !primary.IsEmpty() && s.Start == primary.Start {
			s = primary // zero-length-at-marker-start promotion
		}

		clipped := s.Clip(lineStart, lineStart+n)
		if clipped.IsEmpty() {
			continue // wholly past the line (or degenerate elsewhere)
		}

		start := clipped.Start - lineStart
		end := clipped.End - lineStart
		for c := start; c < end; c++ {
			z := m.Level.ZIndex()
			if mask[c].z == 0 || z > mask[c].z {
				mask[c].z = z
				mask[c].level = m.Level
			}
			mask[c].ids = append(mask[c].ids, m.ID)
		}
	}

	items := walkMask(runes, mask, tokens)

	slices.SortStableFunc(deferred, func(a, b Message) int {
		if d := a.Span.Start - b.Span.Start; d != 0 {
			return d
		}
		return int(a.ID - b.ID)
	})
	for _, ins := range deferred {
		col := clampCol(ins.Span.Start-lineStart, n)
		items = spliceInsert(items, col, ins)
	}

	return items
}

// walkMask emits one RenderItem per maximal run of columns sharing the
// same winning z-index and the same covering message-id set.
func walkMask(runes []rune, mask []maskCol, tokens []source.Token) []RenderItem {
	n := len(runes)
	var items []RenderItem
	for i := 0; i < n; {
		j := i + 1
		for j < n && sameGroup(mask[i], mask[j]) {
			j++
		}

		text := string(runes[i:j])
		if mask[i].z == 0 {
			st := style.Style{Z: style.Immutable}
			if tokens != nil {
				if found, ok := tokenStyleAt(tokens, i); ok {
					st = found
					st.Z = style.Immutable
				}
			}
			items = append(items, RenderItem{Text: text, StartCol: i, Style: st, Kind: ItemSource})
		} else {
			lvl := mask[i].level
			st := style.ForLevel(lvl)
			if lvl == style.Delete {
				st.Dim = true
				st.Strike = true
			}

			ids := slices.Clone(mask[i].ids)
			slices.Sort(ids)
			ids = slices.Compact(ids)

			items = append(items, RenderItem{Text: text, StartCol: i, MessageIDs: ids, Style: st, Kind: ItemSource})
		}

		i = j
	}
	return items
}

func sameGroup(a, b maskCol) bool {
	return a.z == b.z && slices.Equal(a.ids, b.ids)
}

func tokenStyleAt(tokens []source.Token, col int) (style.Style, bool) {
	for _, t := range tokens {
		start := t.ColumnNumber - 1
		end := start + len([]rune(t.Text))
		if col >= start && col < end {
			return t.Style, true
		}
	}
	return style.Style{}, false
}

func clampCol(col, n int) int {
	if col < 0 {
		return 0
	}
	if col > n {
		return n
	}
	return col
}

// spliceInsert finds the RenderItem whose original source text straddles
// col (already-inserted items have zero source width and are skipped)
// and splits it so the insert lands exactly at that column, or appends
// the insert at the end of the line if col is past all source text.
func spliceInsert(items []RenderItem, col int, ins Message) []RenderItem {
	insItem := RenderItem{
		Text:       ins.InsertText,
		StartCol:   col,
		MessageIDs: []MessageID{ins.ID},
		Style:      style.ForLevel(style.Insert),
		Kind:       ItemInserted,
	}

	for i, it := range items {
		if it.Kind != ItemSource {
			continue
		}
		runeLen := len([]rune(it.Text))
		if col < it.StartCol || col > it.StartCol+runeLen {
			continue
		}

		splitAt := col - it.StartCol
		letters := []rune(it.Text)
		before := string(letters[:splitAt])
		after := string(letters[splitAt:])

		out := make([]RenderItem, 0, len(items)+2)
		out = append(out, items[:i]...)
		if before != "" {
			out = append(out, RenderItem{Text: before, StartCol: it.StartCol, MessageIDs: it.MessageIDs, Style: it.Style, Kind: it.Kind})
		}
		out = append(out, insItem)
		if after != "" {
			out = append(out, RenderItem{Text: after, StartCol: it.StartCol + splitAt, MessageIDs: it.MessageIDs, Style: it.Style, Kind: it.Kind})
		}
		out = append(out, items[i+1:]...)
		return out
	}

	// Past all source text: append at the end of the line.
	return append(slices.Clone(items), insItem)
}

// Text concatenates the Text of every item, in order; this reproduces
// the line as it would actually be printed (source text plus spliced
// inserts).
func Text(items []RenderItem) string {
	var out []byte
	for _, it := range items {
		out = append(out, it.Text...)
	}
	return string(out)
}
