package normalize

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// fields wraps decoded front matter and coerces values at the boundary so
// nothing past the normalizer has to guess at their shape.
type fields map[string]any

// str returns the value of key as a string. Missing, null, false, empty and
// non-scalar values are reported as absent.
func (f fields) str(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	if b, isBool := v.(bool); isBool && !b {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

// first returns the first present value among keys.
func (f fields) first(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := f.str(k); ok {
			return s, true
		}
	}
	return "", false
}

// num accepts a native number or a numeric string. Anything that does not
// coerce to a finite number is left unset.
func (f fields) num(key string) *float64 {
	v, ok := f[key]
	if !ok || v == nil {
		return nil
	}
	if s, isStr := v.(string); isStr {
		v = strings.TrimSpace(s)
		if v == "" {
			return nil
		}
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// list returns the elements of an array value as strings. Absent or
// non-array values yield an empty list.
func (f fields) list(key string) []string {
	out := []string{}
	switch v := f[key].(type) {
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, cast.ToString(item))
		}
	case []string:
		out = append(out, v...)
	}
	return out
}

// hasList reports whether key is present with an array value.
func (f fields) hasList(key string) bool {
	switch f[key].(type) {
	case []any, []string:
		return true
	}
	return false
}
