package rdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ReadOptions configures Read and Load.
type ReadOptions struct {
	// Base resolves relative IRIs and becomes the graph's base.
	Base string
	// JSONLD configures JSON-LD decoding. Its BaseIRI defaults to Base.
	JSONLD JSONLDOptions
	// HTTPClient fetches remote documents in Load. Nil uses
	// http.DefaultClient.
	HTTPClient *http.Client
}

// Read parses the whole input into a new graph. FormatAuto sniffs the
// format from the first bytes of the input.
func Read(ctx context.Context, r io.Reader, format Format, opts ReadOptions) (*Graph, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if format == FormatAuto {
		detected, rest, ok := DetectFormat(r)
		if !ok {
			return nil, ErrUnsupportedFormat
		}
		format, r = detected, rest
	}

	var (
		triples  []Triple
		prefixes map[string]string
		err      error
	)
	switch format {
	case FormatNTriples:
		triples, err = readNTriples(ctx, r)
	case FormatTurtle, FormatRDFXML:
		triples, prefixes, err = decodeWithKnakk(r, format, opts.Base)
	case FormatJSONLD:
		jsonOpts := opts.JSONLD
		if jsonOpts.BaseIRI == "" {
			jsonOpts.BaseIRI = opts.Base
		}
		triples, prefixes, err = decodeJSONLD(ctx, r, jsonOpts)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	g := NewGraph(opts.Base)
	for prefix, ns := range prefixes {
		g.Bind(prefix, ns)
	}
	g.AddAll(triples)
	return g, nil
}

// ReadFile parses a local file, inferring the format from its extension
// when format is FormatAuto and falling back to content sniffing.
func ReadFile(ctx context.Context, path string, format Format, opts ReadOptions) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()
	if format == FormatAuto {
		if inferred, err := FormatFromPath(path); err == nil {
			format = inferred
		}
	}
	return Read(ctx, f, format, opts)
}

// Load reads a graph from a local path or an http(s) URL. For URLs the
// format comes from the response content type unless given explicitly.
func Load(ctx context.Context, location string, format Format, opts ReadOptions) (*Graph, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return ReadFile(ctx, location, format, opts)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	req.Header.Set("Accept", acceptHeader)
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrIO, location, resp.Status)
	}
	if format == FormatAuto {
		if inferred, err := FormatFromContentType(resp.Header.Get("Content-Type")); err == nil {
			format = inferred
		}
	}
	return Read(ctx, resp.Body, format, opts)
}

// Write serializes the graph. Turtle and JSON-LD use the graph's prefixes
// and base; N-Triples writes one sorted statement per line.
func Write(w io.Writer, g *Graph, format Format) error {
	switch format {
	case FormatTurtle:
		return newTurtleEncoder(w, TurtleEncodeOptions{
			Prefixes: g.Prefixes(),
			BaseIRI:  g.Base(),
		}).Encode(g.Sorted())
	case FormatNTriples:
		enc := newNTriplesEncoder(w)
		for _, t := range g.Sorted() {
			if err := enc.Write(t); err != nil {
				return err
			}
		}
		return enc.Close()
	case FormatJSONLD:
		return encodeJSONLD(w, g.Sorted(), g.Prefixes(), JSONLDOptions{BaseIRI: g.Base()})
	default:
		return ErrUnsupportedFormat
	}
}

func readNTriples(ctx context.Context, r io.Reader) ([]Triple, error) {
	dec := newNTriplesDecoder(r)
	var triples []Triple
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := dec.Next()
		if err == io.EOF {
			return triples, nil
		}
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
}
