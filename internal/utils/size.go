package utils

import (
	"fmt"
	"strings"
)

// FormatByteSize converts a byte length into a human-readable lower-case unit
// string such as "512b", "1.5kb", or "12mb".
func FormatByteSize(byteCount int64) string {
	if byteCount < 0 {
		return "0b"
	}
	unitNames := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	scaledValue := float64(byteCount)
	unitIndex := 0
	for scaledValue >= 1024 && unitIndex < len(unitNames)-1 {
		scaledValue /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", byteCount)
	}
	if scaledValue < 10 {
		formatted := strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0")
		return formatted + unitNames[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, unitNames[unitIndex])
}
