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

package decompose_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose/decompose"
	"github.com/amitsingh19975/diagnose/source"
	"github.com/amitsingh19975/diagnose/span"
	"github.com/amitsingh19975/diagnose/style"
)

func TestDecomposeConcatenationReproducesLineWithInserts(t *testing.T) {
	line := "void test( int a, int c );"

	messages := []decompose.Message{
		{ID: 0, Level: style.Insert, Span: span.New(span.Absolute, 2, 2), InsertText: ")"},
		{ID: 1, Level: style.Delete, Span: span.New(span.Absolute, 4, 8)},
		{ID: 2, Level: style.Error, Span: span.New(span.Absolute, 0, 2)},
		{ID: 3, Level: style.Error, Span: span.New(span.Absolute, 19, 24)},
		{ID: 4, Level: style.Warning, Span: span.New(span.Absolute, 6, 10)},
	}

	items := decompose.Decompose(line, 0, nil, messages, span.New(span.Absolute, 0, 2))
	got := decompose.Text(items)
	want := "vo)id test( int a, int c );"
	require.Equal(t, want, got)
}

func TestDecomposeDropsSpanPastLine(t *testing.T) {
	line := "short line"
	messages := []decompose.Message{
		{ID: 0, Level: style.Warning, Span: span.New(span.Absolute, 100, 200)},
	}
	items := decompose.Decompose(line, 0, nil, messages, span.Span{})
	for _, it := range items {
		require.Empty(t, it.MessageIDs)
	}
	require.Equal(t, line, decompose.Text(items))
}

func TestDecomposePromotesZeroLengthAtMarkerStart(t *testing.T) {
	line := "abcdef"
	primary := span.New(span.Absolute, 1, 4)
	messages := []decompose.Message{
		{ID: 0, Level: style.Error, Span: span.New(span.Absolute, 1, 1)},
	}
	items := decompose.Decompose(line, 0, nil, messages, primary)

	var marked string
	for _, it := range items {
		if len(it.MessageIDs) > 0 {
			marked += it.Text
		}
	}
	require.Equal(t, "bcd", marked)
}

func TestUnifiedDiffAndApplyEdits(t *testing.T) {
	original := "void test( int a, int c );\n"
	edits := []source.Edit{
		{Span: span.New(span.Absolute, 4, 8), Replace: ""},
		{Span: span.New(span.Absolute, 2, 2), Replace: ")"},
	}
	applied := decompose.ApplyEdits(original, edits)
	require.Equal(t, "vo)idt( int a, int c );\n", applied)

	out, err := decompose.UnifiedDiff("main.cpp", original, edits)
	require.NoError(t, err)
	require.Contains(t, out, "main.cpp")
}
