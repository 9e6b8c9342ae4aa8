package ontology

import (
	"sort"
	"strings"

	"github.com/geoknoesis/sysml-semtag/rdf"
)

// Index holds the terms an ontology declares, by short name.
type Index struct {
	// Classes is the set of rdfs:Class and owl:Class names.
	Classes map[string]struct{}
	// Properties lists owl:ObjectProperty names in first-seen order.
	Properties []string
}

// Build collects the named classes and object properties of g. Each name is
// the subject's prefixed short form with prefix stripped; prefix is
// normalized to end in ':'. Anonymous (blank node) classes are skipped.
func Build(g *rdf.Graph, prefix string) Index {
	idx := Index{Classes: make(map[string]struct{})}
	if g == nil {
		return idx
	}
	prefix = NormalizePrefix(prefix)
	prefixes := g.Prefixes()
	name := func(term rdf.Term) (string, bool) {
		if term.Kind() != rdf.TermIRI {
			return "", false
		}
		return strings.TrimPrefix(rdf.ShortForm(term, prefixes), prefix), true
	}

	for _, class := range []rdf.IRI{rdf.RDFSClass, rdf.OWLClass} {
		for _, s := range g.Subjects(rdf.RDFType, class) {
			if n, ok := name(s); ok {
				idx.Classes[n] = struct{}{}
			}
		}
	}

	seen := make(map[string]bool)
	for _, s := range g.Subjects(rdf.RDFType, rdf.OWLObjectProperty) {
		n, ok := name(s)
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		idx.Properties = append(idx.Properties, n)
	}
	return idx
}

// ClassNames returns the class names sorted.
func (idx Index) ClassNames() []string {
	out := make([]string, 0, len(idx.Classes))
	for n := range idx.Classes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// NormalizePrefix appends ':' to prefix when missing.
func NormalizePrefix(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, ":") {
		return prefix
	}
	return prefix + ":"
}
