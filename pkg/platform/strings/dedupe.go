// Package strings normalizes list-valued configuration.
package strings

import (
	"strings"
)

// NormalizeList splits comma-joined entries, trims each item and drops empty
// and repeated ones. First occurrence wins. Environment overrides such as
// GEOCLOCK_KAFKA_BROKERS="a:9092, b:9092" arrive as one joined element.
func NormalizeList(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if _, ok := seen[trimmed]; ok {
				continue
			}
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}
