package utils_test

import (
	"testing"

	"github.com/promptpack/promptpack/internal/utils"
)

func TestDeduplicateStrings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "no_duplicates", input: []string{"a", "b"}, expected: []string{"a", "b"}},
		{name: "keeps_first_occurrence", input: []string{"b", "a", "b", "a"}, expected: []string{"b", "a"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := utils.DeduplicateStrings(testCase.input)
			if len(result) != len(testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
			for index := range testCase.expected {
				if result[index] != testCase.expected[index] {
					t.Fatalf("expected %v, got %v", testCase.expected, result)
				}
			}
		})
	}
}

func TestNormalizeExtensionTokens(t *testing.T) {
	t.Parallel()

	result := utils.NormalizeExtensionTokens([]string{" .Go ", "MD", ".go", "", "  ", "py"})
	expected := []string{"go", "md", "py"}
	if len(result) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}
	for index := range expected {
		if result[index] != expected[index] {
			t.Fatalf("expected %v, got %v", expected, result)
		}
	}
}

func TestFormatByteSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		byteCount int64
		expected  string
	}{
		{byteCount: 0, expected: "0b"},
		{byteCount: 512, expected: "512b"},
		{byteCount: 1024, expected: "1kb"},
		{byteCount: 1536, expected: "1.5kb"},
		{byteCount: 10 * 1024 * 1024, expected: "10mb"},
		{byteCount: -5, expected: "0b"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.expected, func(t *testing.T) {
			t.Parallel()

			if formatted := utils.FormatByteSize(testCase.byteCount); formatted != testCase.expected {
				t.Fatalf("FormatByteSize(%d)=%q, expected %q", testCase.byteCount, formatted, testCase.expected)
			}
		})
	}
}
