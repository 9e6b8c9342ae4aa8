package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

const sysmlContext = `{"@vocab": "http://omg.org/ns/sysml/v2/metamodel#", "@base": "http://tuwien.at/ns/"}`

func TestJSONLDDecodeWithContextAndBase(t *testing.T) {
	input := `[
  {"@context": ` + sysmlContext + `, "@id": "u1", "@type": "MetadataUsage",
   "annotatedElement": {"@id": "e1"}, "declaredName": "tag"},
  {"@context": ` + sysmlContext + `, "@id": "e1", "@type": "PartUsage"}
]`
	g, err := Read(context.Background(), strings.NewReader(input), FormatJSONLD, ReadOptions{Base: "http://tuwien.at/ns/"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	usage := IRI{Value: "http://tuwien.at/ns/u1"}
	if !g.HasType(usage, SysML("MetadataUsage")) {
		t.Fatalf("expected MetadataUsage type, got %v", g.Triples())
	}
	if !g.Has(Triple{S: usage, P: SysML("annotatedElement"), O: IRI{Value: "http://tuwien.at/ns/e1"}}) {
		t.Fatalf("expected annotatedElement edge, got %v", g.Triples())
	}
	names := g.Objects(usage, SysML("declaredName"))
	if len(names) != 1 || Lexical(names[0]) != "tag" {
		t.Fatalf("unexpected names %v", names)
	}
	if g.Len() != 4 {
		t.Fatalf("expected 4 triples, got %d", g.Len())
	}
}

func TestJSONLDDecodeCollectsPrefixes(t *testing.T) {
	input := `{"@context": {"sysml": "http://omg.org/ns/sysml/v2/metamodel#", "name": "sysml:declaredName"},
	"@id": "http://example.org/a", "name": "A"}`
	g, err := Read(context.Background(), strings.NewReader(input), FormatJSONLD, ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if g.Prefixes()["sysml"] != SysMLNamespace {
		t.Fatalf("expected sysml prefix, got %v", g.Prefixes())
	}
	if _, ok := g.Prefixes()["name"]; ok {
		t.Fatal("term definitions that are not namespaces must not become prefixes")
	}
}

func TestJSONLDDecodeInvalidJSON(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("{not json"), FormatJSONLD, ReadOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if Code(err) != ErrCodeParseError {
		t.Fatalf("unexpected code %s", Code(err))
	}
}

func TestJSONLDRoundTrip(t *testing.T) {
	g := NewGraph("")
	g.Bind("sosa", "https://www.w3.org/ns/sosa/")
	g.Add(Triple{S: ex("P1"), P: IRI{Value: "https://www.w3.org/ns/sosa/observes"}, O: ex("P2")})
	g.Add(Triple{S: ex("P1"), P: RDFLabel, O: NewLiteral("probe")})

	var buf bytes.Buffer
	if err := Write(&buf, g, FormatJSONLD); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "sosa:observes") {
		t.Fatalf("expected compacted predicate, got %s", buf.String())
	}
	back, err := Read(context.Background(), &buf, FormatJSONLD, ReadOptions{})
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	for _, triple := range g.Triples() {
		if !back.Has(triple) {
			t.Fatalf("missing %s after round trip", triple)
		}
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	if _, err := Read(context.Background(), strings.NewReader(""), Format("trig"), ReadOptions{}); err != ErrUnsupportedFormat {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := Write(&bytes.Buffer{}, NewGraph(""), FormatRDFXML); err != ErrUnsupportedFormat {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
