package rdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatAuto     Format = ""
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "ntriples", "nt":
		return FormatNTriples, true
	case "rdfxml", "rdf", "xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl":
		return FormatTurtle, nil
	case ".nt":
		return FormatNTriples, nil
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, nil
	case ".jsonld", ".json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format for path %q", ErrUnsupportedFormat, path)
	}
}

// FormatFromContentType infers the format from a media type.
func FormatFromContentType(contentType string) (Format, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, nil
	case "application/n-triples":
		return FormatNTriples, nil
	case "application/rdf+xml", "application/xml", "text/xml":
		return FormatRDFXML, nil
	case "application/ld+json", "application/json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: unknown content type %q", ErrUnsupportedFormat, contentType)
	}
}

// ContentType returns the media type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatTurtle:
		return "text/turtle"
	case FormatNTriples:
		return "application/n-triples"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatJSONLD:
		return "application/ld+json"
	default:
		return ""
	}
}

// acceptHeader lists every readable format for content negotiation.
const acceptHeader = "text/turtle, application/rdf+xml;q=0.9, application/ld+json;q=0.8, application/n-triples;q=0.7"
