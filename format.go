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
	"fmt"
	"reflect"
	"strings"
)

// FormatMessage renders the `{}` positional format mini-language (spec
// §6) against args, returning an error if the format string or an
// argument's type is invalid. Validation happens here, at construction
// time (the builder calls this once, when the message is set), not at
// render time.
//
// Supported placeholders: {} (any value exposing String(), Error(), or
// a fmt-formattable basic type), and the qualified forms {c} {s} {u8}
// {u16} {u32} {u64} {i8} {i16} {i32} {i64} {f32} {f64}. Doubled braces
// {{ and }} escape to a literal brace.
func FormatMessage(format string, args ...any) (string, error) {
	var out strings.Builder
	argIdx := 0

	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := indexRune(runes, i+1, '}')
			if end == -1 {
				return "", fmt.Errorf("diagnose: unterminated '{' in format string %q", format)
			}
			tag := string(runes[i+1 : end])
			if argIdx >= len(args) {
				return "", fmt.Errorf("diagnose: format string %q expects more than %d argument(s)", format, len(args))
			}
			arg := args[argIdx]
			argIdx++
			rendered, err := formatArg(tag, arg)
			if err != nil {
				return "", fmt.Errorf("diagnose: argument %d: %w", argIdx, err)
			}
			out.WriteString(rendered)
			i = end
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("diagnose: unmatched '}' in format string %q", format)
		default:
			out.WriteRune(r)
		}
	}

	if argIdx != len(args) {
		return "", fmt.Errorf("diagnose: format string %q only consumed %d of %d argument(s)", format, argIdx, len(args))
	}
	return out.String(), nil
}

func indexRune(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

var integerTags = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
}

func formatArg(tag string, arg any) (string, error) {
	switch tag {
	case "":
		return formatAny(arg)
	case "c":
		switch v := arg.(type) {
		case rune:
			return string(v), nil
		case byte:
			return string(rune(v)), nil
		default:
			return "", fmt.Errorf("{c} requires a rune or byte, got %T", arg)
		}
	case "s":
		switch v := arg.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		default:
			return "", fmt.Errorf("{s} requires a string or fmt.Stringer, got %T", arg)
		}
	case "f32", "f64":
		v := reflect.ValueOf(arg)
		if v.Kind() != reflect.Float32 && v.Kind() != reflect.Float64 {
			return "", fmt.Errorf("{%s} requires a floating-point value, got %T", tag, arg)
		}
		return fmt.Sprintf("%v", arg), nil
	default:
		if integerTags[tag] {
			v := reflect.ValueOf(arg)
			switch v.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				return fmt.Sprintf("%d", arg), nil
			default:
				return "", fmt.Errorf("{%s} requires an integer value, got %T", tag, arg)
			}
		}
		return "", fmt.Errorf("unrecognized format tag {%s}", tag)
	}
}

// formatAny implements the unqualified {} placeholder: any value
// exposing fmt.Stringer, error, or one of Go's basic formattable types.
func formatAny(arg any) (string, error) {
	switch v := arg.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", fmt.Errorf("{} requires a Stringer, error, or basic type, got %T", arg)
	}
}
