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

package diagnose_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
)

// textLoc is a minimal test location: a file plus a byte offset range.
type textLoc struct {
	file       *source.IndexedFile
	start, end int
}

type textConverter struct{}

func (textConverter) Convert(loc textLoc, ctx *diagnose.Builder[textLoc]) source.DiagnosticLocation {
	text := loc.file.Text()
	lineStart := loc.file.LineStartOffset(loc.file.Search(loc.start).Line)
	return source.DiagnosticLocation{
		Kind: source.LocationBasic,
		Path: loc.file.Path(),
		Basic: source.BasicDiagnosticLocationItem{
			Source:         text[lineStart:],
			LineNumber:     loc.file.Search(loc.start).Line,
			ColumnNumber:   loc.file.Search(loc.start).Column,
			SourceLocation: lineStart,
			Length:         loc.end - loc.start,
		},
	}
}

func newTestFile(text string) *source.IndexedFile {
	return source.NewIndexedFile(source.File{Path: "main.cpp", Text: text})
}

func TestBuilderEmitProducesDiagnosticWithLocation(t *testing.T) {
	f := newTestFile("void test(int a, int a);\n")
	loc := textLoc{file: f, start: 5, end: 9}

	b, err := diagnose.NewBuilder[textLoc](textConverter{}, "E0001", diagnose.Error, "redefinition of {}", "test")
	require.NoError(t, err)

	d := b.WithLocation(loc).Annotate(diagnose.Error, "first defined here", span.New(span.Absolute, 10, 16)).Emit()

	require.Equal(t, diagnose.Error, d.Level)
	require.Equal(t, "redefinition of test", d.Message)
	require.Equal(t, "main.cpp", d.Location.Path)
	require.Len(t, d.Annotations, 1)
	require.Equal(t, diagnose.Error, d.Annotations[0].Level)
}

func TestBuilderNoteWithoutLocationCoercesToRemark(t *testing.T) {
	b, err := diagnose.NewBuilder[textLoc](textConverter{}, nil, diagnose.Note, "just a thought")
	require.NoError(t, err)

	d := b.Emit()
	require.Equal(t, diagnose.Remark, d.Level)
}

func TestBuilderInsertAndRemoveAnnotations(t *testing.T) {
	f := newTestFile("void test(int a, int a);\n")
	loc := textLoc{file: f, start: 0, end: 4}

	b, err := diagnose.NewBuilder[textLoc](textConverter{}, "E0002", diagnose.Error, "mismatched parens")
	require.NoError(t, err)

	d := b.WithLocation(loc).
		Insert(9, "(").
		Remove(span.New(span.Absolute, 17, 23)).
		Emit()

	require.Len(t, d.Annotations, 2)
	require.Equal(t, diagnose.Insert, d.Annotations[0].Level)
	require.Equal(t, "(", d.Annotations[0].InsertText)
	require.Equal(t, diagnose.Delete, d.Annotations[1].Level)
}

func TestBuilderSubDiagnosticRoundTrips(t *testing.T) {
	f := newTestFile("int a;\nint a;\n")
	primary := textLoc{file: f, start: 11, end: 12}
	other := textLoc{file: f, start: 4, end: 5}

	b, err := diagnose.NewBuilder[textLoc](textConverter{}, "E0003", diagnose.Error, "duplicate declaration")
	require.NoError(t, err)
	b = b.WithLocation(primary)

	sub, err := b.BeginSubDiagnostic(nil, diagnose.Note, "previously declared here")
	require.NoError(t, err)
	b = sub.WithLocation(other).End()

	d := b.Emit()
	require.Len(t, d.SubDiagnostics, 1)
	require.Equal(t, diagnose.Note, d.SubDiagnostics[0].Level)
	require.Equal(t, "previously declared here", d.SubDiagnostics[0].Message)
	require.Equal(t, "main.cpp", d.SubDiagnostics[0].Location.Path)
}

func TestNewBuilderRejectsInvalidFormat(t *testing.T) {
	_, err := diagnose.NewBuilder[textLoc](textConverter{}, nil, diagnose.Error, "{bogus}", 1)
	require.Error(t, err)
}
