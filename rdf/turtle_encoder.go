package rdf

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// TurtleEncodeOptions configures Turtle encoding.
type TurtleEncodeOptions struct {
	Indent   string
	Prefixes map[string]string
	BaseIRI  string
}

// turtleEncoder writes a whole graph, grouping statements by subject.
type turtleEncoder struct {
	writer *bufio.Writer
	opts   TurtleEncodeOptions
	err    error
}

func newTurtleEncoder(w io.Writer, opts TurtleEncodeOptions) *turtleEncoder {
	if opts.Indent == "" {
		opts.Indent = "    "
	}
	return &turtleEncoder{writer: bufio.NewWriter(w), opts: opts}
}

func (e *turtleEncoder) Encode(triples []Triple) error {
	e.writeHeader(usedPrefixes(triples, e.opts.Prefixes))

	var order []string
	groups := make(map[string][]Triple)
	for _, t := range triples {
		key := termKey(t.S)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	for _, key := range order {
		group := groups[key]
		e.writeString("\n" + e.term(group[0].S))
		for i, t := range group {
			predicate := e.predicate(t.P)
			e.writeString("\n" + e.opts.Indent + predicate + " " + e.term(t.O))
			if i < len(group)-1 {
				e.writeString(" ;")
			} else {
				e.writeString(" .\n")
			}
		}
	}
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *turtleEncoder) writeHeader(prefixes []string) {
	if e.opts.BaseIRI != "" {
		e.writeString("@base <" + e.opts.BaseIRI + "> .\n")
	}
	for _, prefix := range prefixes {
		label := prefix + ":"
		e.writeString("@prefix " + label + " <" + e.opts.Prefixes[prefix] + "> .\n")
	}
}

func (e *turtleEncoder) writeString(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.writer.WriteString(s); err != nil {
		e.err = err
	}
}

func (e *turtleEncoder) predicate(iri IRI) string {
	if iri.Value == RDFType.Value {
		return "a"
	}
	return renderIRIWithPrefixes(iri, e.opts.Prefixes)
}

func (e *turtleEncoder) term(term Term) string {
	return renderTermWithPrefixes(term, e.opts.Prefixes)
}

// usedPrefixes returns, sorted, the prefixes that abbreviate at least one
// IRI in the triples.
func usedPrefixes(triples []Triple, prefixes map[string]string) []string {
	used := make(map[string]struct{})
	mark := func(term Term) {
		var value string
		switch v := term.(type) {
		case IRI:
			value = v.Value
		case Literal:
			value = v.Datatype.Value
			if value == XSDString {
				return
			}
		default:
			return
		}
		if prefix, _, ok := splitQName(value, prefixes); ok {
			used[prefix] = struct{}{}
		}
	}
	for _, t := range triples {
		mark(t.S)
		if t.P.Value != RDFType.Value {
			mark(t.P)
		}
		mark(t.O)
	}
	keys := make([]string, 0, len(used))
	for key := range used {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func renderIRIWithPrefixes(iri IRI, prefixes map[string]string) string {
	if qname, ok := abbreviateQName(iri.Value, prefixes); ok {
		return qname
	}
	return renderIRI(iri)
}

func renderTermWithPrefixes(term Term, prefixes map[string]string) string {
	switch value := term.(type) {
	case IRI:
		return renderIRIWithPrefixes(value, prefixes)
	case BlankNode:
		return value.String()
	case Literal:
		return renderLiteral(value, func(dt IRI) string { return renderIRIWithPrefixes(dt, prefixes) })
	default:
		return ""
	}
}

func abbreviateQName(iri string, prefixes map[string]string) (string, bool) {
	prefix, local, ok := splitQName(iri, prefixes)
	if !ok {
		return "", false
	}
	return prefix + ":" + local, true
}

// splitQName finds the longest bound namespace that prefixes iri with a
// valid local name.
func splitQName(iri string, prefixes map[string]string) (string, string, bool) {
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !isQNameLocal(iri[len(ns):]) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", "", false
	}
	return bestPrefix, iri[len(bestNS):], true
}
