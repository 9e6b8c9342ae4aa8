package rdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	ld "github.com/piprate/json-gold/ld"
)

// JSONLDOptions configures JSON-LD processing.
type JSONLDOptions struct {
	// BaseIRI resolves relative IRIs.
	BaseIRI string
	// DocumentLoader resolves remote contexts. Nil uses json-gold's
	// default HTTP loader.
	DocumentLoader ld.DocumentLoader
}

func newJSONGoldOptions(opts JSONLDOptions) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	if opts.BaseIRI != "" {
		goldOpts.Base = opts.BaseIRI
	}
	if opts.DocumentLoader != nil {
		goldOpts.DocumentLoader = opts.DocumentLoader
	}
	return goldOpts
}

// decodeJSONLD converts a JSON-LD document into triples of the default and
// every named graph. Graph names are dropped.
func decodeJSONLD(ctx context.Context, r io.Reader, opts JSONLDOptions) ([]Triple, map[string]string, error) {
	var doc interface{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, wrapParseError(FormatJSONLD, "", 0, err)
	}
	return DecodeJSONLDValue(ctx, doc, opts)
}

// DecodeJSONLDValue converts an already decoded JSON-LD value into triples
// and returns the string-valued prefix definitions found in its contexts.
func DecodeJSONLDValue(ctx context.Context, doc interface{}, opts JSONLDOptions) ([]Triple, map[string]string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}
	doc = normalizeJSONNumbers(doc)
	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, newJSONGoldOptions(opts))
	if err != nil {
		return nil, nil, wrapParseError(FormatJSONLD, "", 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, nil, wrapParseError(FormatJSONLD, "", 0, fmt.Errorf("jsonld: unexpected ToRDF result %T", result))
	}

	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		names = append(names, name)
	}
	sort.Strings(names)

	var triples []Triple
	for _, name := range names {
		for _, quad := range dataset.Graphs[name] {
			t, ok := fromGoldQuad(quad)
			if !ok {
				continue
			}
			triples = append(triples, t)
		}
	}
	return triples, contextPrefixes(doc), nil
}

func fromGoldQuad(quad *ld.Quad) (Triple, bool) {
	if quad == nil {
		return Triple{}, false
	}
	s := fromGoldNode(quad.Subject)
	p, ok := fromGoldNode(quad.Predicate).(IRI)
	o := fromGoldNode(quad.Object)
	if s == nil || !ok || o == nil {
		return Triple{}, false
	}
	return Triple{S: s, P: p, O: o}, true
}

func fromGoldNode(node ld.Node) Term {
	switch value := node.(type) {
	case ld.IRI:
		return IRI{Value: value.Value}
	case *ld.IRI:
		return IRI{Value: value.Value}
	case ld.BlankNode:
		return BlankNode{ID: trimBlankPrefix(value.Attribute)}
	case *ld.BlankNode:
		return BlankNode{ID: trimBlankPrefix(value.Attribute)}
	case ld.Literal:
		return goldLiteral(value.Value, value.Datatype, value.Language)
	case *ld.Literal:
		return goldLiteral(value.Value, value.Datatype, value.Language)
	default:
		return nil
	}
}

func goldLiteral(value, datatype, language string) Literal {
	lit := Literal{Lexical: value, Lang: language}
	if language == "" && datatype != "" && datatype != XSDString {
		lit.Datatype = IRI{Value: datatype}
	}
	return lit
}

func trimBlankPrefix(id string) string {
	if len(id) > 2 && id[:2] == "_:" {
		return id[2:]
	}
	return id
}

// normalizeJSONNumbers turns json.Number values into float64 or int64 so
// json-gold sees the types it expects.
func normalizeJSONNumbers(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalizeJSONNumbers(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeJSONNumbers(item)
		}
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return value
	}
}

// contextPrefixes collects term definitions whose value is an IRI ending in
// '/' or '#', the shape of a namespace prefix.
func contextPrefixes(doc interface{}) map[string]string {
	prefixes := make(map[string]string)
	var walk func(interface{})
	collect := func(ctx interface{}) {
		switch c := ctx.(type) {
		case map[string]interface{}:
			for key, raw := range c {
				ns, ok := raw.(string)
				if !ok || len(key) == 0 || key[0] == '@' || len(ns) == 0 {
					continue
				}
				last := ns[len(ns)-1]
				if last == '/' || last == '#' {
					prefixes[key] = ns
				}
			}
		case []interface{}:
			for _, item := range c {
				walk(map[string]interface{}{"@context": item})
			}
		}
	}
	walk = func(value interface{}) {
		switch v := value.(type) {
		case map[string]interface{}:
			if ctx, ok := v["@context"]; ok {
				collect(ctx)
			}
			if graph, ok := v["@graph"]; ok {
				walk(graph)
			}
		case []interface{}:
			for _, item := range v {
				walk(item)
			}
		}
	}
	walk(doc)
	return prefixes
}

// encodeJSONLD writes triples as a compacted JSON-LD document whose context
// holds the given prefixes.
func encodeJSONLD(w io.Writer, triples []Triple, prefixes map[string]string, opts JSONLDOptions) error {
	var nquads bytes.Buffer
	enc := newNTriplesEncoder(&nquads)
	for _, t := range triples {
		if err := enc.Write(t); err != nil {
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := newJSONGoldOptions(opts)
	goldOpts.Format = "application/n-quads"
	expanded, err := proc.FromRDF(nquads.String(), goldOpts)
	if err != nil {
		return fmt.Errorf("jsonld: from rdf: %w", err)
	}

	context := make(map[string]interface{}, len(prefixes))
	for prefix, ns := range prefixes {
		if prefix == "" {
			context["@vocab"] = ns
			continue
		}
		context[prefix] = ns
	}
	if opts.BaseIRI != "" {
		context["@base"] = opts.BaseIRI
	}
	compactOpts := newJSONGoldOptions(opts)
	compacted, err := proc.Compact(expanded, context, compactOpts)
	if err != nil {
		return fmt.Errorf("jsonld: compact: %w", err)
	}

	out := json.NewEncoder(w)
	out.SetIndent("", "  ")
	out.SetEscapeHTML(false)
	if err := out.Encode(compacted); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
