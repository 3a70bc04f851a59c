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
	"github.com/amitsingh19975/diagnose/astring"
	"github.com/amitsingh19975/diagnose/decompose"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

// Converter maps a caller's opaque location type L to a
// [source.DiagnosticLocation], consulting ctx to emit supplementary
// annotations discovered while resolving the location (spec §6). It is
// invoked exactly once per Diagnostic.Location and once per
// sub-diagnostic location.
type Converter[L any] interface {
	Convert(loc L, ctx *Builder[L]) source.DiagnosticLocation
}

// Builder assembles a [Diagnostic] one call at a time. The zero value is
// not usable; construct one with [NewBuilder].
//
// Sub-diagnostics use move semantics instead of a back-pointer (spec §9
// Design Notes): BeginSubDiagnostic consumes the parent builder into a
// [SubBuilder], and End returns the parent so building can continue.
type Builder[L any] struct {
	conv   Converter[L]
	d      Diagnostic
	nextID decompose.MessageID
}

// NewBuilder starts building a Diagnostic at the given level, formatting
// its primary message with [FormatMessage]. It returns an error if the
// format string or its arguments are invalid.
func NewBuilder[L any](conv Converter[L], kind any, level Level, format string, args ...any) (*Builder[L], error) {
	msg, err := FormatMessage(format, args...)
	if err != nil {
		return nil, err
	}
	return &Builder[L]{
		conv: conv,
		d:    Diagnostic{Kind: kind, Level: level, Message: msg},
	}, nil
}

// WithLocation resolves loc through the converter and sets it as this
// diagnostic's primary location.
func (b *Builder[L]) WithLocation(loc L) *Builder[L] {
	b.d.Location = b.conv.Convert(loc, b)
	return b
}

// AddAnnotation appends a pre-built annotation directly, assigning it
// the next message ID. This is the hook [Converter] implementations use
// to emit supplementary annotations while resolving a location.
func (b *Builder[L]) AddAnnotation(level Level, message *astring.AnnotatedString, spans ...span.Span) *Builder[L] {
	id := b.nextID
	b.nextID++
	b.d.Annotations = append(b.d.Annotations, DiagnosticMessage{
		id: id, Level: level, Message: message, Spans: spans,
	})
	return b
}

// Annotate appends a plain-text annotation over the given spans. Zero
// spans makes this an orphan message (spec §4.5).
func (b *Builder[L]) Annotate(level Level, text string, spans ...span.Span) *Builder[L] {
	var msg astring.AnnotatedString
	msg.Push(text, levelMessageStyle(level))
	return b.AddAnnotation(level, &msg, spans...)
}

// Note appends an orphan note, rendered in the trailing `= note: ...`
// block (spec §4.5).
func (b *Builder[L]) Note(text string) *Builder[L] {
	return b.Annotate(Note, text)
}

// Insert suggests inserting text at col (an absolute byte offset).
func (b *Builder[L]) Insert(col int, text string) *Builder[L] {
	id := b.nextID
	b.nextID++
	b.d.Annotations = append(b.d.Annotations, DiagnosticMessage{
		id: id, Level: Insert, Spans: []span.Span{span.New(span.Absolute, col, col)}, InsertText: text,
	})
	return b
}

// Remove suggests deleting the text covered by sp.
func (b *Builder[L]) Remove(sp span.Span) *Builder[L] {
	return b.AddAnnotation(Delete, nil, sp)
}

// BeginSubDiagnostic consumes b into a [SubBuilder] building a nested
// diagnostic at the given level and message. Call End on the returned
// builder to append the finished sub-diagnostic and get b back.
func (b *Builder[L]) BeginSubDiagnostic(kind any, level Level, format string, args ...any) (*SubBuilder[L], error) {
	msg, err := FormatMessage(format, args...)
	if err != nil {
		return nil, err
	}
	return &SubBuilder[L]{
		parent: b,
		sub:    SubDiagnostic{Kind: kind, Level: level, Message: msg},
	}, nil
}

// Emit finalizes the diagnostic. Per spec §7, a Note-level primary with
// no resolved location is a configuration error; release builds coerce
// it to Remark rather than reject it.
func (b *Builder[L]) Emit() Diagnostic {
	if b.d.Level == Note && b.d.Location.IsZero() {
		b.d.Level = Remark
	}
	return b.d
}

// SubBuilder builds one sub-diagnostic, having temporarily taken
// ownership of its parent [Builder].
type SubBuilder[L any] struct {
	parent *Builder[L]
	sub    SubDiagnostic
}

// WithLocation resolves loc through the parent's converter and sets it
// as this sub-diagnostic's location.
func (sb *SubBuilder[L]) WithLocation(loc L) *SubBuilder[L] {
	sb.sub.Location = sb.parent.conv.Convert(loc, sb.parent)
	return sb
}

// Annotate appends a plain-text annotation to this sub-diagnostic.
func (sb *SubBuilder[L]) Annotate(level Level, text string, spans ...span.Span) *SubBuilder[L] {
	id := sb.parent.nextID
	sb.parent.nextID++
	var msg astring.AnnotatedString
	msg.Push(text, levelMessageStyle(level))
	sb.sub.Annotations = append(sb.sub.Annotations, DiagnosticMessage{id: id, Level: level, Message: &msg, Spans: spans})
	return sb
}

// End appends the finished sub-diagnostic to the parent and returns it.
func (sb *SubBuilder[L]) End() *Builder[L] {
	sb.parent.d.SubDiagnostics = append(sb.parent.d.SubDiagnostics, sb.sub)
	return sb.parent
}

// levelMessageStyle is the style a plain-text annotation's body is
// pushed with: the badge line drawn by the placer carries the level's
// color separately, so the body itself stays in the level's plain
// (unbolded) foreground.
func levelMessageStyle(l Level) style.Style {
	st := style.ForLevel(l)
	st.Bold = false
	return st
}
