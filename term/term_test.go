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

package term_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose/term"
)

func TestShouldColorHonorsExplicitModes(t *testing.T) {
	require.True(t, term.ShouldColor(os.Stdout, term.ColorEnable))
	require.False(t, term.ShouldColor(os.Stdout, term.ColorDisable))
}

func TestWidthHonorsColumnsOverride(t *testing.T) {
	t.Setenv("COLUMNS", "120")
	require.Equal(t, 120, term.Width(os.Stdout))
}

func TestWidthClampsColumnsOverride(t *testing.T) {
	t.Setenv("COLUMNS", "9999")
	require.Equal(t, 200, term.Width(os.Stdout))

	t.Setenv("COLUMNS", "1")
	require.Equal(t, 50, term.Width(os.Stdout))
}

func TestLockAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	l := term.NewLock(path)
	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
	require.NoError(t, l.Release()) // idempotent
}
