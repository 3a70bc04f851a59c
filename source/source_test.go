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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose/source"
)

func TestIndexedFileSearchFindsLineAndColumn(t *testing.T) {
	f := source.NewIndexedFile(source.File{Path: "main.cpp", Text: "void test();\nint x;\n"})

	loc := f.Search(0)
	require.Equal(t, 1, loc.Line)
	require.Equal(t, 1, loc.Column)

	loc2 := f.Search(13) // first byte of line 2 ("int x;")
	require.Equal(t, 2, loc2.Line)
	require.Equal(t, 1, loc2.Column)
}

func TestIndexedFileLineText(t *testing.T) {
	f := source.NewIndexedFile(source.File{Path: "a", Text: "alpha\nbeta\ngamma"})
	require.Equal(t, "alpha", f.LineText(1))
	require.Equal(t, "beta", f.LineText(2))
	require.Equal(t, "gamma", f.LineText(3))
	require.Equal(t, "", f.LineText(4))
	require.Equal(t, 3, f.LineCount())
}

func TestSpanTextAndNil(t *testing.T) {
	f := source.NewIndexedFile(source.File{Path: "a", Text: "hello world"})
	sp := source.Span{File: f, Start: 0, End: 5}
	require.Equal(t, "hello", sp.Text())
	require.False(t, sp.Nil())

	var nilSpan source.Span
	require.True(t, nilSpan.Nil())
	require.Equal(t, "", nilSpan.Text())
}

func TestJoinPanicsAcrossFiles(t *testing.T) {
	f1 := source.NewIndexedFile(source.File{Path: "a", Text: "abc"})
	f2 := source.NewIndexedFile(source.File{Path: "b", Text: "def"})

	require.Panics(t, func() {
		source.Join(source.Span{File: f1, Start: 0, End: 1}, source.Span{File: f2, Start: 0, End: 1})
	})
}

func TestCompareOrdersByPathThenLineThenColumn(t *testing.T) {
	a := source.DiagnosticLocation{Path: "a.cpp", Basic: source.BasicDiagnosticLocationItem{LineNumber: 1, ColumnNumber: 1}}
	b := source.DiagnosticLocation{Path: "b.cpp", Basic: source.BasicDiagnosticLocationItem{LineNumber: 1, ColumnNumber: 1}}
	require.Negative(t, source.Compare(a, b))
	require.Positive(t, source.Compare(b, a))
	require.Zero(t, source.Compare(a, a))
}

func TestEditIsInsertIsDelete(t *testing.T) {
	insert := source.Edit{Replace: "x"}
	require.True(t, insert.IsInsert())
	require.False(t, insert.IsDelete())
}

func TestEscapeControlKnownAndUnknown(t *testing.T) {
	require.Equal(t, `\n`, source.EscapeControl('\n'))
	require.Equal(t, `\t`, source.EscapeControl('\t'))
	require.Equal(t, "<U+0007>", source.EscapeControl('\a'))
}

func TestStringWidthExpandsTabs(t *testing.T) {
	require.Equal(t, 4, source.StringWidth(0, "\t"))
	require.Equal(t, 5, source.StringWidth(0, "a\tb"))
}
