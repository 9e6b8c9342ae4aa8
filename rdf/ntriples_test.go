package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNTriplesDecodeErrors(t *testing.T) {
	cases := []string{
		"<http://example.org/s> <http://example.org/p> .\n",
		"<http://example.org/s> <http://example.org/p> <http://example.org/o>\n",
		"\"lit\" <http://example.org/p> <http://example.org/o> .\n",
		"<http://example.org/s> <http://example.org/p> \"open .\n",
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n",
	}
	for _, input := range cases {
		dec := newNTriplesDecoder(strings.NewReader(input))
		if _, err := dec.Next(); err == nil {
			t.Fatalf("expected error for %q", input)
		} else if Code(err) != ErrCodeParseError {
			t.Fatalf("expected parse error code for %q, got %s", input, Code(err))
		}
	}
}

func TestNTriplesDecodeBlankAndLiteral(t *testing.T) {
	input := "# comment\n\n_:b1 <http://example.org/p> \"v\"@en .\n" +
		"<http://example.org/s> <http://example.org/p> \"1\"^^<http://example.org/dt> .\n"
	triples, err := readNTriples(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triples) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(triples))
	}
	if _, ok := triples[0].S.(BlankNode); !ok {
		t.Fatalf("expected blank node subject")
	}
	if lit, ok := triples[0].O.(Literal); !ok || lit.Lang != "en" {
		t.Fatalf("expected lang literal")
	}
	if lit, ok := triples[1].O.(Literal); !ok || lit.Datatype.Value != "http://example.org/dt" {
		t.Fatalf("expected datatype literal, got %v", triples[1].O)
	}
}

func TestNTriplesRoundTrip(t *testing.T) {
	g := NewGraph("")
	g.Add(Triple{S: ex("s"), P: RDFLabel, O: NewLiteral("tab\there \"quoted\"")})
	g.Add(Triple{S: BlankNode{ID: "x"}, P: ex("p"), O: ex("o")})

	var buf bytes.Buffer
	if err := Write(&buf, g, FormatNTriples); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Read(context.Background(), &buf, FormatNTriples, ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if back.Len() != 2 {
		t.Fatalf("expected 2 triples, got %d", back.Len())
	}
	for _, triple := range g.Triples() {
		if !back.Has(triple) {
			t.Fatalf("missing %s", triple)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, bytes.ErrTooLarge }

func TestNTriplesEncoderWriteError(t *testing.T) {
	g := NewGraph("")
	g.Add(Triple{S: ex("s"), P: ex("p"), O: ex("o")})
	if err := Write(failingWriter{}, g, FormatNTriples); err == nil {
		t.Fatal("expected flush error")
	}
}
