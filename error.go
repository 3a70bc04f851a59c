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

package diagnose

import (
	"errors"
	"fmt"
)

// diagnosticError wraps a Diagnostic so it can be returned as a plain Go
// error, grounded on the teacher's AsError/ErrInFile helpers
// (experimental/report/error.go).
type diagnosticError struct {
	d Diagnostic
}

// Error implements the error interface, rendering a single-line summary
// (not the full multi-line canvas; call [Render] for that).
func (e diagnosticError) Error() string {
	if e.d.Location.Path != "" && e.d.Location.StartLine() > 0 {
		return fmt.Sprintf("%s: %s:%d:%d: %s", e.d.Level, e.d.Location.Path, e.d.Location.StartLine(), e.d.Location.StartColumn(), e.d.Message)
	}
	return fmt.Sprintf("%s: %s", e.d.Level, e.d.Message)
}

// Diagnostic unwraps back to the underlying Diagnostic value.
func (e diagnosticError) Diagnostic() Diagnostic { return e.d }

// AsError returns d as a Go error, for callers that want to propagate a
// diagnostic through ordinary error-handling code paths instead of (or
// in addition to) a consumer.
func AsError(d Diagnostic) error {
	return diagnosticError{d}
}

// ErrInFile reports whether err is (or wraps) a Diagnostic whose
// location is in the named file.
func ErrInFile(err error, path string) bool {
	var de diagnosticError
	if !errors.As(err, &de) {
		return false
	}
	return de.d.Location.Path == path
}
