// Package provider holds one adapter per upstream data service. Every
// adapter maps its provider's native JSON into the canonical record types
// and owns its own network timeout; callers treat any error as an empty
// result for that source.
package provider

import (
	"fmt"
	"strings"
)

// Fallback-field helpers for providers whose schemas drift: a concept may
// appear under several historical field names, so decoding tries each in
// order.

// Str returns the first non-empty string among the named fields.
func Str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// Num returns the first numeric value among the named fields.
func Num(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			var f float64
			if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
				return f
			}
		}
	}
	return 0
}

// Obj returns the named field as an object, or nil.
func Obj(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v
		}
	}
	return nil
}

// List returns the first field holding an array of objects.
func List(m map[string]any, keys ...string) []map[string]any {
	for _, k := range keys {
		arr, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(arr))
		for _, it := range arr {
			if o, ok := it.(map[string]any); ok {
				out = append(out, o)
			}
		}
		return out
	}
	return nil
}

// Strs returns the first field holding an array of strings.
func Strs(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		arr, ok := m[k].([]any)
		if !ok {
			continue
		}
		var out []string
		for _, it := range arr {
			if s, ok := it.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
