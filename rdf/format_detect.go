package rdf

import (
	"bytes"
	"io"
	"strings"
)

const formatDetectionBufferSize = 512

// DetectFormat sniffs the first bytes of the input and returns the detected
// format together with a reader that still yields the whole input.
func DetectFormat(r io.Reader) (Format, io.Reader, bool) {
	buf := make([]byte, formatDetectionBufferSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatAuto, r, false
	}
	sample := buf[:n]
	rest := io.MultiReader(bytes.NewReader(sample), r)
	format, ok := detectFormatFromSample(string(sample))
	return format, rest, ok
}

func detectFormatFromSample(sample string) (Format, bool) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return FormatAuto, false
	}

	if strings.HasPrefix(sample, "{") || strings.HasPrefix(sample, "[") {
		return FormatJSONLD, true
	}

	if strings.HasPrefix(sample, "<?xml") || strings.HasPrefix(sample, "<rdf:") || strings.HasPrefix(sample, "<rdf ") {
		return FormatRDFXML, true
	}

	upper := strings.ToUpper(sample)
	for _, directive := range []string{"@PREFIX", "PREFIX", "@BASE", "BASE"} {
		if strings.HasPrefix(upper, directive) {
			return FormatTurtle, true
		}
	}

	// N-Triples lines hold only IRIs, blank nodes and literals.
	if strings.HasPrefix(sample, "<") || strings.HasPrefix(sample, "_:") {
		if !strings.Contains(sample, "[") && !strings.Contains(sample, ";") {
			return FormatNTriples, true
		}
	}

	for _, part := range strings.Fields(sample) {
		if strings.Contains(part, ":") && !strings.HasPrefix(part, "_:") && !strings.HasPrefix(part, "<") {
			return FormatTurtle, true
		}
	}
	return FormatAuto, false
}
