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

package router_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose/router"
)

type emptyGrid struct{}

func (emptyGrid) CellAt(x, y int) router.CellInfo { return router.CellInfo{Empty: true} }

type wallGrid struct {
	wallX int
	gapY  int
}

func (g wallGrid) CellAt(x, y int) router.CellInfo {
	if x == g.wallX && y != g.gapY {
		return router.CellInfo{Empty: false, Group: 0}
	}
	return router.CellInfo{Empty: true}
}

func TestRouteStraightLineOnEmptyGrid(t *testing.T) {
	path, ok := router.Route(emptyGrid{}, router.Point{X: 0, Y: 0}, router.Point{X: 5, Y: 0}, 1, 20, 20)
	require.True(t, ok)
	require.Equal(t, router.Point{X: 0, Y: 0}, path[0])
	require.Equal(t, router.Point{X: 5, Y: 0}, path[len(path)-1])
}

func TestRouteSameStartAndEnd(t *testing.T) {
	path, ok := router.Route(emptyGrid{}, router.Point{X: 3, Y: 3}, router.Point{X: 3, Y: 3}, 1, 20, 20)
	require.True(t, ok)
	require.Equal(t, []router.Point{{X: 3, Y: 3}}, path)
}

func TestRouteFindsGapInWall(t *testing.T) {
	grid := wallGrid{wallX: 5, gapY: 3}
	path, ok := router.Route(grid, router.Point{X: 0, Y: 0}, router.Point{X: 10, Y: 0}, 1, 20, 20)
	require.True(t, ok)

	crossed := false
	for _, p := range path {
		if p.X == grid.wallX {
			crossed = true
			require.Equal(t, grid.gapY, p.Y, "path must cross the wall through its only gap")
		}
	}
	require.True(t, crossed)
}

type ownGroupCorridor struct{ corridorX, group int }

func (g ownGroupCorridor) CellAt(x, y int) router.CellInfo {
	if x == g.corridorX {
		return router.CellInfo{Group: g.group}
	}
	return router.CellInfo{Empty: true}
}

func TestRoutePrefersOwnGroupCorridor(t *testing.T) {
	grid := ownGroupCorridor{corridorX: 4, group: 7}
	path, ok := router.Route(grid, router.Point{X: 0, Y: 0}, router.Point{X: 8, Y: 0}, 7, 20, 20)
	require.True(t, ok)

	inCorridor := 0
	for _, p := range path {
		if p.X == grid.corridorX {
			inCorridor++
		}
	}
	require.Greater(t, inCorridor, 0)
}
