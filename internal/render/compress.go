package render

import "strings"

// Compress normalizes whitespace: runs of horizontal whitespace outside
// quoted string literals collapse to a single space while each line keeps its
// leading indentation, and three or more consecutive blank lines collapse to
// exactly one. The trailing-newline state of the original content is
// unchanged.
func Compress(content string) string {
	if content == "" {
		return ""
	}
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	state := &quoteState{}
	compressedLines := make([]string, 0, len(lines))
	blankRunLength := 0

	flushBlankRun := func() {
		if blankRunLength == 0 {
			return
		}
		keptBlankLines := blankRunLength
		if keptBlankLines >= 3 {
			keptBlankLines = 1
		}
		for blankIndex := 0; blankIndex < keptBlankLines; blankIndex++ {
			compressedLines = append(compressedLines, "")
		}
		blankRunLength = 0
	}

	for _, line := range lines {
		lineStartsInsideRawString := state.insideBacktick
		compressedLine := state.compressLine(line)
		if !lineStartsInsideRawString && strings.TrimSpace(compressedLine) == "" {
			blankRunLength++
			continue
		}
		flushBlankRun()
		compressedLines = append(compressedLines, compressedLine)
	}
	flushBlankRun()

	result := strings.Join(compressedLines, "\n")
	if hadTrailingNewline {
		result += "\n"
	}
	return result
}

// quoteState tracks quoting across lines. Single and double quotes reset at
// end of line; backtick-delimited raw strings span lines.
type quoteState struct {
	insideBacktick bool
}

func (state *quoteState) compressLine(line string) string {
	var builder strings.Builder
	insideSingleQuote := false
	insideDoubleQuote := false
	escapeNext := false
	collectingIndent := !state.insideBacktick
	pendingSpace := false

	for _, currentRune := range line {
		isHorizontalWhitespace := currentRune == ' ' || currentRune == '\t'

		if collectingIndent {
			if isHorizontalWhitespace {
				builder.WriteRune(currentRune)
				continue
			}
			collectingIndent = false
		}

		insideQuote := insideSingleQuote || insideDoubleQuote || state.insideBacktick
		if isHorizontalWhitespace && !insideQuote {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			builder.WriteByte(' ')
			pendingSpace = false
		}
		builder.WriteRune(currentRune)

		if state.insideBacktick {
			if currentRune == '`' {
				state.insideBacktick = false
			}
			continue
		}
		if escapeNext {
			escapeNext = false
			continue
		}
		switch currentRune {
		case '\\':
			if insideSingleQuote || insideDoubleQuote {
				escapeNext = true
			}
		case '\'':
			if !insideDoubleQuote {
				insideSingleQuote = !insideSingleQuote
			}
		case '"':
			if !insideSingleQuote {
				insideDoubleQuote = !insideDoubleQuote
			}
		case '`':
			if !insideSingleQuote && !insideDoubleQuote {
				state.insideBacktick = true
			}
		}
	}
	return builder.String()
}
