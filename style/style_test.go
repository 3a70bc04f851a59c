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

package style_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose/style"
)

func TestZIndexOrdering(t *testing.T) {
	require.Less(t, style.Note.ZIndex(), style.Remark.ZIndex())
	require.Less(t, style.Remark.ZIndex(), style.Warning.ZIndex())
	require.Less(t, style.Warning.ZIndex(), style.Error.ZIndex())
	require.Less(t, style.Error.ZIndex(), style.Delete.ZIndex())
	require.Less(t, style.Delete.ZIndex(), style.Insert.ZIndex())
}

func TestWinsHigherZAlwaysWins(t *testing.T) {
	low := style.Style{Z: style.Note.ZIndex()}
	high := style.Style{Z: style.Error.ZIndex()}
	require.True(t, style.Wins(low, high))
	require.False(t, style.Wins(high, low))
}

func TestWinsEqualZLaterWriteWinsUnlessImmutable(t *testing.T) {
	a := style.Style{Z: style.Warning.ZIndex()}
	b := style.Style{Z: style.Warning.ZIndex()}
	require.True(t, style.Wins(a, b), "equal z below Immutable: later write wins")

	immutable := style.Style{Z: style.Immutable}
	challenger := style.Style{Z: style.Immutable}
	require.False(t, style.Wins(immutable, challenger), "equal z at/above Immutable: existing write is kept")
}

func TestForLevelBoldsErrorInsertDelete(t *testing.T) {
	require.True(t, style.ForLevel(style.Error).Bold)
	require.True(t, style.ForLevel(style.Insert).Bold)
	require.True(t, style.ForLevel(style.Delete).Bold)
	require.False(t, style.ForLevel(style.Note).Bold)
	require.False(t, style.ForLevel(style.Warning).Bold)
}
