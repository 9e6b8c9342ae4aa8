package rdf

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	knakk "github.com/knakk/rdf"
)

// decodeWithKnakk reads Turtle or RDF/XML. Prefix declarations are not
// exposed by the underlying decoder, so Turtle prefixes are scanned from the
// raw input separately.
func decodeWithKnakk(r io.Reader, format Format, base string) ([]Triple, map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var kf knakk.Format
	switch format {
	case FormatTurtle:
		kf = knakk.Turtle
	case FormatRDFXML:
		kf = knakk.RDFXML
	default:
		return nil, nil, ErrUnsupportedFormat
	}

	dec := knakk.NewTripleDecoder(bytes.NewReader(data), kf)
	if base != "" {
		baseIRI, err := knakk.NewIRI(base)
		if err != nil {
			return nil, nil, wrapParseError(format, base, 0, err)
		}
		if err := dec.SetOption(knakk.Base, baseIRI); err != nil {
			return nil, nil, wrapParseError(format, base, 0, err)
		}
	}

	var triples []Triple
	for {
		kt, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, wrapParseError(format, "", 0, err)
		}
		t, ok := fromKnakkTriple(kt)
		if !ok {
			continue
		}
		triples = append(triples, t)
	}

	var prefixes map[string]string
	if format == FormatTurtle {
		prefixes = scanTurtlePrefixes(data)
	} else {
		prefixes = scanXMLNamespaces(data)
	}
	return triples, prefixes, nil
}

func fromKnakkTriple(kt knakk.Triple) (Triple, bool) {
	s := fromKnakkTerm(kt.Subj)
	p, ok := fromKnakkTerm(kt.Pred).(IRI)
	o := fromKnakkTerm(kt.Obj)
	if s == nil || !ok || o == nil {
		return Triple{}, false
	}
	return Triple{S: s, P: p, O: o}, true
}

func fromKnakkTerm(term knakk.Term) Term {
	switch value := term.(type) {
	case knakk.IRI:
		return IRI{Value: value.String()}
	case knakk.Blank:
		return BlankNode{ID: trimBlankPrefix(value.String())}
	case knakk.Literal:
		lit := Literal{Lexical: value.String(), Lang: value.Lang()}
		if lit.Lang == "" && value.DataType.String() != XSDString {
			lit.Datatype = IRI{Value: value.DataType.String()}
		}
		return lit
	default:
		return nil
	}
}

var (
	turtlePrefixPattern = regexp.MustCompile(`(?im)^[ \t]*@?prefix\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)
	xmlnsPattern        = regexp.MustCompile(`xmlns:([A-Za-z][\w.-]*)\s*=\s*"([^"]*)"`)
)

// scanTurtlePrefixes collects prefix declarations that start a line. A
// declaration may continue over following lines.
func scanTurtlePrefixes(data []byte) map[string]string {
	prefixes := make(map[string]string)
	for _, m := range turtlePrefixPattern.FindAllSubmatch(data, -1) {
		prefixes[string(m[1])] = string(m[2])
	}
	return prefixes
}

func scanXMLNamespaces(data []byte) map[string]string {
	prefixes := make(map[string]string)
	for _, m := range xmlnsPattern.FindAllSubmatch(data, -1) {
		name := string(m[1])
		if strings.EqualFold(name, "xml") {
			continue
		}
		prefixes[name] = string(m[2])
	}
	return prefixes
}
