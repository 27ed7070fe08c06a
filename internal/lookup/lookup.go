// Package lookup implements priority-ordered field resolution over raw,
// schema-varying JSON records. Callers name one or more dotted attribute
// paths in preference order and receive the first value that is neither
// absent, null, nor the empty string.
package lookup

import (
	"time"

	"github.com/tidwall/gjson"
)

// Value resolves the first of paths that yields a usable value in record.
// A value is unusable when the path is missing, the value is JSON null, or
// the value is the empty string. The boolean reports whether any path
// resolved.
func Value(record []byte, paths ...string) (gjson.Result, bool) {
	for _, path := range paths {
		result := gjson.GetBytes(record, path)
		if !result.Exists() || result.Type == gjson.Null {
			continue
		}
		if result.Type == gjson.String && result.Str == "" {
			continue
		}
		return result, true
	}
	return gjson.Result{}, false
}

// String resolves the first of paths to a string.
func String(record []byte, paths ...string) (string, bool) {
	result, ok := Value(record, paths...)
	if !ok {
		return "", false
	}
	return result.String(), true
}

// Int resolves the first of paths to an integer.
func Int(record []byte, paths ...string) (int64, bool) {
	result, ok := Value(record, paths...)
	if !ok {
		return 0, false
	}
	return result.Int(), true
}

// Time resolves the first of paths to a timestamp. Platform timestamps are
// RFC 3339; resolved times are normalized to UTC. Values that resolve but do
// not parse count as not found.
func Time(record []byte, paths ...string) (time.Time, bool) {
	for _, path := range paths {
		value, ok := String(record, path)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			continue
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}
