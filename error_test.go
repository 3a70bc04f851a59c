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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitsingh19975/diagnose"
	"github.com/amitsingh19975/diagnose/source"
)

func TestAsErrorRoundTripsDiagnostic(t *testing.T) {
	d := diagnose.Diagnostic{
		Level:   diagnose.Error,
		Message: "unexpected token",
		Location: source.DiagnosticLocation{
			Path: "main.cpp",
			Basic: source.BasicDiagnosticLocationItem{
				LineNumber: 3, ColumnNumber: 7,
			},
		},
	}

	err := diagnose.AsError(d)
	require.Contains(t, err.Error(), "main.cpp:3:7")
	require.Contains(t, err.Error(), "unexpected token")

	var unwrapped interface{ Diagnostic() diagnose.Diagnostic }
	require.True(t, errors.As(err, &unwrapped))
	require.Equal(t, d.Message, unwrapped.Diagnostic().Message)
}

func TestErrInFileMatchesWrappedDiagnostic(t *testing.T) {
	d := diagnose.Diagnostic{
		Level:    diagnose.Warning,
		Message:  "unused variable",
		Location: source.DiagnosticLocation{Path: "util.go"},
	}
	wrapped := fmt.Errorf("while linting: %w", diagnose.AsError(d))

	require.True(t, diagnose.ErrInFile(wrapped, "util.go"))
	require.False(t, diagnose.ErrInFile(wrapped, "other.go"))
	require.False(t, diagnose.ErrInFile(errors.New("plain error"), "util.go"))
}
