package verify

import (
	"fmt"
	"sort"
	"strings"
)

// serializeContext flattens a context value into searchable lowercase
// text. Maps are walked in sorted key order so the result is
// deterministic; keys are included alongside values. Matching against
// the flattened text is intentionally shallow substring search, a
// documented limitation rather than semantic comparison.
func serializeContext(v interface{}) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return strings.ToLower(sb.String())
}

func writeValue(sb *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case nil:
	case string:
		sb.WriteString(val)
		sb.WriteByte(' ')
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(k)
			sb.WriteByte(' ')
			writeValue(sb, val[k])
		}
	case []interface{}:
		for _, item := range val {
			writeValue(sb, item)
		}
	default:
		fmt.Fprintf(sb, "%v ", val)
	}
}

// contextContains reports whether needle occurs (case-insensitively)
// in the flattened context, checking the whole blob and the nested
// api_data field separately. A nil context verifies nothing.
func contextContains(blob map[string]interface{}, needle string) (bool, string) {
	if blob == nil {
		return false, ""
	}

	lowered := strings.ToLower(needle)

	flat := serializeContext(blob)
	if idx := strings.Index(flat, lowered); idx >= 0 {
		return true, excerpt(flat, idx, len(lowered))
	}

	if apiData, ok := blob["api_data"]; ok {
		flat := serializeContext(apiData)
		if idx := strings.Index(flat, lowered); idx >= 0 {
			return true, excerpt(flat, idx, len(lowered))
		}
	}

	return false, ""
}

// excerpt returns up to 40 characters of context on each side of a match.
func excerpt(s string, idx, matchLen int) string {
	const margin = 40
	start := idx - margin
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + margin
	if end > len(s) {
		end = len(s)
	}
	return strings.TrimSpace(s[start:end])
}
