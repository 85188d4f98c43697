// Package utils contains general helper functions used across the promptpack tool.
package utils

import "strings"

// DeduplicateStrings removes duplicate values from a slice while preserving
// order. The first occurrence of each unique value is kept.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := encounteredValues[value]; !exists {
			encounteredValues[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}

// NormalizeExtensionTokens lowercases extension tokens and strips any leading
// dot, dropping empty entries. "  .Go " and "go" normalize to the same token.
func NormalizeExtensionTokens(tokens []string) []string {
	normalized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		cleaned := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(token)), ".")
		if cleaned == "" {
			continue
		}
		normalized = append(normalized, cleaned)
	}
	return DeduplicateStrings(normalized)
}
