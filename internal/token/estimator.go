// Package token provides heuristic token estimation for budgeting and an
// optional encoder-backed counter for reporting.
package token

import (
	"strings"
	"unicode"
)

// Per-rune weights in hundredths of a token. ASCII letters and digits cluster
// into multi-character tokens, punctuation splits more aggressively, and
// non-ASCII text frequently consumes a full token per scalar.
const (
	weightWordRune        = 25
	weightWhitespaceRune  = 20
	weightPunctuationRune = 45
	weightNonASCIIRune    = 100

	// codeDensityThresholdPercent is the share of bracket/operator runes above
	// which content is treated as code-like and weighted up.
	codeDensityThresholdPercent = 15
	codeDensityScalePercent     = 110
)

const codeRunes = "{}[]()<>=+-*/&|^%;:#$~`"

// Estimate maps text to a non-negative approximation of a downstream
// tokenizer's output length. The function is total, deterministic, and
// side-effect free. Empty text estimates to zero; for any non-empty text the
// result lies within [ceil(runes/6), 2*runes] where runes is the Unicode
// scalar count.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	runeCount := 0
	codeRuneCount := 0
	weightedHundredths := 0
	for _, currentRune := range text {
		runeCount++
		switch {
		case currentRune < 128 && (unicode.IsLetter(currentRune) || unicode.IsDigit(currentRune)):
			weightedHundredths += weightWordRune
		case unicode.IsSpace(currentRune):
			weightedHundredths += weightWhitespaceRune
		case currentRune < 128:
			weightedHundredths += weightPunctuationRune
		default:
			weightedHundredths += weightNonASCIIRune
		}
		if strings.ContainsRune(codeRunes, currentRune) {
			codeRuneCount++
		}
	}

	if codeRuneCount*100 > runeCount*codeDensityThresholdPercent {
		weightedHundredths = weightedHundredths * codeDensityScalePercent / 100
	}

	estimate := (weightedHundredths + 99) / 100

	lowerBound := (runeCount + 5) / 6
	upperBound := 2 * runeCount
	if estimate < lowerBound {
		estimate = lowerBound
	}
	if estimate > upperBound {
		estimate = upperBound
	}
	return estimate
}
