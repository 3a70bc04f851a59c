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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose"
)

func TestFormatMessageUnqualifiedPlaceholder(t *testing.T) {
	got, err := diagnose.FormatMessage("expected {}, found {}", "int", "string")
	require.NoError(t, err)
	require.Equal(t, "expected int, found string", got)
}

func TestFormatMessageQualifiedIntegerTag(t *testing.T) {
	got, err := diagnose.FormatMessage("argument count {u8}", uint8(3))
	require.NoError(t, err)
	require.Equal(t, "argument count 3", got)
}

func TestFormatMessageRejectsWrongArgumentType(t *testing.T) {
	_, err := diagnose.FormatMessage("{u32}", "not an int")
	require.Error(t, err)
}

func TestFormatMessageEscapedBraces(t *testing.T) {
	got, err := diagnose.FormatMessage("{{{}}}", "x")
	require.NoError(t, err)
	require.Equal(t, "{x}", got)
}

func TestFormatMessageErrorsOnArgumentCountMismatch(t *testing.T) {
	_, err := diagnose.FormatMessage("{} and {}", "only one")
	require.Error(t, err)

	_, err = diagnose.FormatMessage("{}", "one", "two")
	require.Error(t, err)
}

func TestFormatMessageUnterminatedPlaceholder(t *testing.T) {
	_, err := diagnose.FormatMessage("oops {")
	require.Error(t, err)
}

func TestFormatMessageErrorArgument(t *testing.T) {
	got, err := diagnose.FormatMessage("failed: {}", errors.New("disk full"))
	require.NoError(t, err)
	require.Equal(t, "failed: disk full", got)
}
