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

package canvas_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose/astring"
	"github.com/amitsingh19975/diagnose/canvas"
	"github.com/amitsingh19975/diagnose/glyphs"
	"github.com/amitsingh19975/diagnose/style"
)

func TestNewClampsWidth(t *testing.T) {
	require.Equal(t, canvas.MinWidth, canvas.New(1).Width())
	require.Equal(t, canvas.MaxWidth, canvas.New(10_000).Width())
	require.Equal(t, 80, canvas.New(80).Width())
}

func TestDrawPixelHigherZWins(t *testing.T) {
	c := canvas.New(80)
	low := style.Style{Z: style.Note.ZIndex()}
	high := style.Style{Z: style.Error.ZIndex()}

	require.True(t, c.DrawPixel(0, 0, "a", low))
	require.True(t, c.DrawPixel(0, 0, "b", high))
	require.False(t, c.DrawPixel(0, 0, "c", low))
	require.Equal(t, "b", c.Get(0, 0).Grapheme)
}

func TestDrawPixelGrowsAndTracksMaxRowsWritten(t *testing.T) {
	c := canvas.New(80)
	c.DrawPixel(0, 5, "x", style.Style{Z: 1})
	require.Equal(t, 6, c.MaxRowsWritten())
	require.GreaterOrEqual(t, c.Height(), 6)
}

func TestInsertRowPreservesContentOutsideShiftedRange(t *testing.T) {
	c := canvas.New(80)
	st := style.Style{Z: 1}
	c.DrawPixel(0, 0, "A", st)
	c.DrawPixel(0, 1, "B", st)
	c.DrawPixel(0, 2, "C", st)
	c.DrawPixel(0, 3, "D", st)

	c.InsertRow(1) // rows > 1 shift down by one; rows <= 1 untouched

	require.Equal(t, "A", c.Get(0, 0).Grapheme) // row <= r preserved
	require.Equal(t, "B", c.Get(0, 1).Grapheme) // row <= r preserved
	require.Equal(t, " ", c.Get(0, 2).Grapheme) // newly inserted row is blank
	require.Equal(t, "C", c.Get(0, 3).Grapheme) // old row 2 shifted to row 3
	require.Equal(t, "D", c.Get(0, 4).Grapheme) // old row 3 shifted to row 4
}

func TestDrawPathProducesRoundedCorner(t *testing.T) {
	c := canvas.New(80)
	st := style.Style{Z: 1}
	c.DrawPath([]canvas.Point{{0, 0}, {0, 2}, {3, 2}}, st)

	require.Equal(t, "│", c.Get(0, 0).Grapheme)
	require.Equal(t, "╰", c.Get(0, 2).Grapheme)
	require.Equal(t, "─", c.Get(2, 2).Grapheme)
}

func TestDrawBoxDrawsCorners(t *testing.T) {
	c := canvas.New(80)
	c.DrawBox(0, 0, 5, 3, style.Style{Z: 1}, glyphs.Rounded)

	require.Equal(t, "╭", c.Get(0, 0).Grapheme)
	require.Equal(t, "╮", c.Get(4, 0).Grapheme)
	require.Equal(t, "╰", c.Get(0, 2).Grapheme)
	require.Equal(t, "╯", c.Get(4, 2).Grapheme)
	require.Equal(t, "─", c.Get(1, 0).Grapheme)
	require.Equal(t, "│", c.Get(0, 1).Grapheme)
}

func TestDrawTextWordWrapsAtWidth(t *testing.T) {
	var s astring.AnnotatedString
	s.Push("the quick brown fox", style.Style{})

	c := canvas.New(80)
	bbox, dropped := c.DrawText(0, 0, &s, style.Style{Z: 1}, canvas.TextOptions{
		MaxWidth: 10,
		WordWrap: true,
	})

	require.Equal(t, 0, dropped)
	require.Greater(t, bbox.H, 1)

	var rendered strings.Builder
	for y := 0; y < bbox.H; y++ {
		for x := 0; x < 10; x++ {
			rendered.WriteString(c.Get(x, y).Grapheme)
		}
	}
	require.Contains(t, rendered.String(), "quick")
}

func TestDrawTextEllipsisOverflow(t *testing.T) {
	var s astring.AnnotatedString
	s.Push("abcdefghij", style.Style{})

	c := canvas.New(80)
	bbox, dropped := c.DrawText(0, 0, &s, style.Style{Z: 1}, canvas.TextOptions{
		MaxWidth: 5,
		Overflow: canvas.OverflowEllipsis,
	})

	require.Equal(t, 1, bbox.H)
	require.Greater(t, dropped, 0)
	require.Equal(t, "…", c.Get(4, 0).Grapheme)
}

func TestRenderTrimsTrailingWhitespace(t *testing.T) {
	c := canvas.New(80)
	c.DrawPixel(0, 0, "x", style.Style{Z: 1})

	var buf strings.Builder
	require.NoError(t, c.Render(&buf, false))
	require.Equal(t, "x\n", buf.String())
}
