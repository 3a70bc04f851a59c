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

// Package diagnose renders rich, compiler-style diagnostics to a
// terminal: a primary message, a source excerpt, annotated spans with
// sub-messages, suggested insertions/deletions, and sub-diagnostics
// keyed to additional locations. This file holds the data model (spec
// §3); see builder.go, format.go, consumer.go, and renderer.go for the
// rest of the public surface.
//
// The package is grounded on bufbuild-protocompile's
// experimental/report package: Diagnostic/Annotation/Report here play
// the same role as report.Diagnostic/report.Annotation/report.Report
// there, generalized from protocompile's own fixed error model to the
// caller-supplied location type this library asks for instead.
package diagnose

import (
	"github.com/amitsingh19975/diagnose/astring"
	"github.com/amitsingh19975/diagnose/decompose"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

// Level is the severity of a diagnostic or one of its annotations.
type Level = style.Level

// Re-exported severities, in ascending z-index order.
const (
	Note    = style.Note
	Remark  = style.Remark
	Warning = style.Warning
	Error   = style.Error
	Delete  = style.Delete
	Insert  = style.Insert
)

// DiagnosticMessage is one annotation: a level, a free-text message, the
// spans it applies to, and, for Insert-level annotations, the
// replacement tokens to splice into the excerpt (spec §3).
//
// An annotation with an empty message and zero spans is illegal (the
// builder never produces one); zero spans with a non-empty message is
// an orphan, rendered after the excerpt with no connector (spec §4.5).
type DiagnosticMessage struct {
	id decompose.MessageID

	Level   Level
	Message *astring.AnnotatedString
	Spans   []span.Span // Absolute

	// InsertText is spliced in by line decomposition when Level ==
	// Insert; Spans[0].Start gives the insertion column.
	InsertText string

	// Tokens carries replacement styled tokens for an Insert-level
	// annotation. Render does not read it: spliced text always comes
	// from InsertText, in the Insert level's style.
	Tokens source.DiagnosticSourceLocationTokens
}

// ID identifies this annotation for the duration of one render; it is
// assigned by the builder that created it and is stable across the
// Diagnostic's lifetime.
func (m DiagnosticMessage) ID() decompose.MessageID { return m.id }

// SubDiagnostic is the same shape as Diagnostic, minus further nested
// sub-diagnostics (spec §3).
type SubDiagnostic struct {
	Kind     any
	Level    Level
	Message  string
	Location source.DiagnosticLocation

	Annotations []DiagnosticMessage
}

// Diagnostic is a fully-assembled top-level diagnostic: everything the
// renderer needs to produce a styled character grid (spec §3).
//
// A Diagnostic is created by a [Builder], mutated only through it,
// finalized at Emit, and consumed at most once.
type Diagnostic struct {
	// Kind is opaque to the renderer; it may be empty, a small integer,
	// or a caller-defined enum, and is only ever formatted for display.
	Kind    any
	Level   Level
	Message string

	Location source.DiagnosticLocation

	Annotations    []DiagnosticMessage
	SubDiagnostics []SubDiagnostic
}

// MaxLineNumber returns the highest 1-based line number referenced by
// this diagnostic's location or any sub-diagnostic's location, for
// sizing the renderer's gutter.
func (d Diagnostic) MaxLineNumber() int {
	max := d.Location.StartLine()
	for _, sub := range d.SubDiagnostics {
		if l := sub.Location.StartLine(); l > max {
			max = l
		}
	}
	return max
}
