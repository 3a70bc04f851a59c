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

package decompose

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/amitsingh19975/diagnose/source"
)

// ApplyEdits applies a set of suggested [source.Edit]s to text, which
// must be the exact text the edits' spans are offsets into. Edits are
// applied in span order; overlapping edits are not supported: the
// earlier edit in span order keeps the overlapping region, and the later
// one is clipped to start where the earlier one ended (its replacement
// text is still written).
func ApplyEdits(text string, edits []source.Edit) string {
	sorted := append([]source.Edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start < sorted[j].Span.Start })

	var out strings.Builder
	prev := 0
	for _, e := range sorted {
		start, end := e.Span.Start, e.Span.End
		if start < prev {
			start = prev
		}
		if end < start {
			end = start
		}
		out.WriteString(text[prev:start])
		out.WriteString(e.Replace)
		prev = end
	}
	out.WriteString(text[prev:])
	return out.String()
}

// UnifiedDiff renders a standard unified diff between the original text
// and the result of applying edits to it, for use as a "help: apply this
// fix" footer alongside a diagnostic. It is grounded on the teacher's
// own hand-rolled hunk/unified-diff helper (experimental/report/diff.go)
// but reuses go-difflib's line-oriented matcher instead of re-deriving
// hunk boundaries by hand.
func UnifiedDiff(path, original string, edits []source.Edit) (string, error) {
	edited := ApplyEdits(original, edits)

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(edited),
		FromFile: path,
		ToFile:   path + " (suggested)",
		Context:  2,
	}
	return difflib.GetUnifiedDiffString(diff)
}
