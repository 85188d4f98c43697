package token

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter reports exact token counts for text content. Counters supplement
// the heuristic estimator in summaries and structured output; budget
// admission never depends on them.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model along with the name of
// the encoding that was resolved. Unknown models fall back to the default
// encoding rather than failing the run.
func NewCounter(model string) (Counter, string, error) {
	trimmedModel := strings.ToLower(strings.TrimSpace(model))
	if trimmedModel == "" {
		trimmedModel = defaultModel
	}

	encoding, encodingError := tiktoken.EncodingForModel(trimmedModel)
	if encodingError == nil && encoding != nil {
		return encodingCounter{encoding: encoding, encodingName: trimmedModel}, trimmedModel, nil
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return encodingCounter{encoding: fallbackEncoding, encodingName: defaultEncodingName}, defaultEncodingName, nil
}

type encodingCounter struct {
	encoding     *tiktoken.Tiktoken
	encodingName string
}

func (counter encodingCounter) Name() string {
	return counter.encodingName
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if input == "" {
		return 0, nil
	}
	return len(counter.encoding.EncodeOrdinary(input)), nil
}

var _ Counter = encodingCounter{}
