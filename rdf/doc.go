// Package rdf provides the in-memory triple store used by the tag pipeline:
// a compact term model, an indexed Graph, and readers/writers for the
// common serializations.
//
// Supported formats:
//   - Read: Turtle, N-Triples, RDF/XML, JSON-LD
//   - Write: Turtle, N-Triples, JSON-LD
//
// JSON-LD goes through github.com/piprate/json-gold, Turtle and RDF/XML
// decoding through github.com/knakk/rdf. N-Triples and Turtle output are
// written natively.
//
// Example (reading a model and matching a pattern):
//
//	g, err := rdf.ReadFile(ctx, "model.jsonld", rdf.FormatAuto, rdf.ReadOptions{Base: base})
//	if err != nil {
//	    // handle error
//	}
//	for _, usage := range g.Subjects(rdf.RDFType, rdf.SysML("MetadataUsage")) {
//	    // ...
//	}
//
// A Graph is a set: adding a triple twice keeps one copy. Prefix bindings
// and the base IRI only affect serialization.
package rdf
