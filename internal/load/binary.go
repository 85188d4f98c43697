package load

// sampleLimit bounds how many leading bytes participate in binary
// classification.
const sampleLimit = 1024

// controlRatioPercent is the share of non-printable control bytes in the
// sample above which content is classified as binary.
const controlRatioPercent = 30

// IsBinarySample classifies content from its leading bytes. A sample counts
// as binary when it contains a null byte or when more than thirty percent of
// its bytes are control characters other than tab, newline, and carriage
// return. Empty content is text.
func IsBinarySample(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}

	controlByteCount := 0
	for _, currentByte := range sample {
		if currentByte == 0 {
			return true
		}
		if isControlByte(currentByte) {
			controlByteCount++
		}
	}
	return controlByteCount*100 > len(sample)*controlRatioPercent
}

func isControlByte(value byte) bool {
	if value == '\t' || value == '\n' || value == '\r' {
		return false
	}
	return value < 32 || value == 127
}
