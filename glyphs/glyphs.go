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

// Package glyphs enumerates the box-drawing character sets a canvas box
// or balloon border can be rendered with (spec §6).
package glyphs

// BoxChars is one named set of box-drawing glyphs: the four corners, the
// two edge runs, and the four T-connectors used where a router path
// joins a box border.
type BoxChars struct {
	Name string

	TopLeft, TopRight       string
	BottomLeft, BottomRight string
	Horizontal, Vertical    string

	// TeeUp/TeeDown/TeeLeft/TeeRight are the connector glyphs used where a
	// routed path meets a box edge head-on.
	TeeUp, TeeDown, TeeLeft, TeeRight string
}

// ASCII is the portable fallback glyph set, used when the terminal is
// not known to support Unicode box-drawing characters.
var ASCII = BoxChars{
	Name:        "ascii",
	TopLeft:     "+", TopRight: "+",
	BottomLeft: "+", BottomRight: "+",
	Horizontal: "-", Vertical: "|",
	TeeUp: "+", TeeDown: "+", TeeLeft: "+", TeeRight: "+",
}

// Rounded uses the Unicode light-rounded-corner box-drawing glyphs.
var Rounded = BoxChars{
	Name:        "rounded",
	TopLeft:     "╭", TopRight: "╮",
	BottomLeft: "╰", BottomRight: "╯",
	Horizontal: "─", Vertical: "│",
	TeeUp: "┴", TeeDown: "┬", TeeLeft: "┤", TeeRight: "├",
}

// Doubled uses the Unicode double-line box-drawing glyphs.
var Doubled = BoxChars{
	Name:        "doubled",
	TopLeft:     "╔", TopRight: "╗",
	BottomLeft: "╚", BottomRight: "╝",
	Horizontal: "═", Vertical: "║",
	TeeUp: "╩", TeeDown: "╦", TeeLeft: "╣", TeeRight: "╠",
}

// Dotted uses the Unicode light-dotted box-drawing glyphs.
var Dotted = BoxChars{
	Name:        "dotted",
	TopLeft:     "┌", TopRight: "┐",
	BottomLeft: "└", BottomRight: "┘",
	Horizontal: "┄", Vertical: "┆",
	TeeUp: "┴", TeeDown: "┬", TeeLeft: "┤", TeeRight: "├",
}

// DottedBold uses the Unicode heavy-dotted box-drawing glyphs.
var DottedBold = BoxChars{
	Name:        "dotted-bold",
	TopLeft:     "┏", TopRight: "┓",
	BottomLeft: "┗", BottomRight: "┛",
	Horizontal: "┅", Vertical: "┇",
	TeeUp: "┻", TeeDown: "┳", TeeLeft: "┫", TeeRight: "┣",
}

// RoundedBold uses the heavy box-drawing glyphs with the rounded corner
// substitutes (box-drawing has no heavy rounded corners, so the bold
// straight corners are used instead).
var RoundedBold = BoxChars{
	Name:        "rounded-bold",
	TopLeft:     "┏", TopRight: "┓",
	BottomLeft: "┗", BottomRight: "┛",
	Horizontal: "━", Vertical: "┃",
	TeeUp: "┻", TeeDown: "┳", TeeLeft: "┫", TeeRight: "┣",
}

// ByName looks up a glyph set by its Name, falling back to ASCII if name
// is not recognized.
func ByName(name string) BoxChars {
	switch name {
	case "rounded":
		return Rounded
	case "doubled":
		return Doubled
	case "dotted":
		return Dotted
	case "dotted-bold":
		return DottedBold
	case "rounded-bold":
		return RoundedBold
	default:
		return ASCII
	}
}
