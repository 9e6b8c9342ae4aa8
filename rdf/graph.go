package rdf

import "sort"

// Graph is an insertion-ordered set of triples with subject, predicate and
// object indexes. The prefix map and base are serialization hints only and
// never take part in matching.
//
// A Graph is not safe for concurrent mutation. Once a pipeline stage has
// finished adding triples it is only read, and concurrent reads are safe.
type Graph struct {
	base     string
	prefixes map[string]string

	triples []Triple
	keys    map[string]int

	bySubject   map[string][]int
	byPredicate map[string][]int
	byObject    map[string][]int
}

// NewGraph returns an empty graph with the given base IRI and the default
// prefix bindings.
func NewGraph(base string) *Graph {
	return &Graph{
		base:        base,
		prefixes:    DefaultPrefixes(),
		keys:        make(map[string]int),
		bySubject:   make(map[string][]int),
		byPredicate: make(map[string][]int),
		byObject:    make(map[string][]int),
	}
}

// Base returns the graph's base IRI.
func (g *Graph) Base() string { return g.base }

// SetBase replaces the graph's base IRI.
func (g *Graph) SetBase(base string) { g.base = base }

// Bind associates a prefix with a namespace. A trailing ':' on the prefix
// is dropped. Binding an empty namespace removes the prefix.
func (g *Graph) Bind(prefix, namespace string) {
	prefix = trimPrefixColon(prefix)
	if namespace == "" {
		delete(g.prefixes, prefix)
		return
	}
	g.prefixes[prefix] = namespace
}

// Prefixes returns a copy of the prefix bindings.
func (g *Graph) Prefixes() map[string]string {
	out := make(map[string]string, len(g.prefixes))
	for k, v := range g.prefixes {
		out[k] = v
	}
	return out
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return len(g.triples) }

// Add inserts a triple. It reports false when the triple was already present
// or is incomplete.
func (g *Graph) Add(t Triple) bool {
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return false
	}
	s, p, o := termKey(t.S), termKey(t.P), termKey(t.O)
	key := s + " " + p + " " + o
	if _, ok := g.keys[key]; ok {
		return false
	}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.keys[key] = idx
	g.bySubject[s] = append(g.bySubject[s], idx)
	g.byPredicate[p] = append(g.byPredicate[p], idx)
	g.byObject[o] = append(g.byObject[o], idx)
	return true
}

// AddAll inserts every triple and returns how many were new.
func (g *Graph) AddAll(triples []Triple) int {
	added := 0
	for _, t := range triples {
		if g.Add(t) {
			added++
		}
	}
	return added
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t Triple) bool {
	if t.S == nil || t.O == nil {
		return false
	}
	_, ok := g.keys[termKey(t.S)+" "+termKey(t.P)+" "+termKey(t.O)]
	return ok
}

// Triples returns the triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Sorted returns the triples ordered by their N-Triples rendering. Encoders
// use it for deterministic output.
func (g *Graph) Sorted() []Triple {
	out := g.Triples()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Match returns the triples matching the pattern in insertion order. A nil
// subject or object, or an empty predicate, is a wildcard.
func (g *Graph) Match(s Term, p IRI, o Term) []Triple {
	candidates, all := g.candidates(s, p, o)
	if all {
		return g.Triples()
	}
	var out []Triple
	for _, idx := range candidates {
		t := g.triples[idx]
		if s != nil && termKey(t.S) != termKey(s) {
			continue
		}
		if p.Value != "" && t.P.Value != p.Value {
			continue
		}
		if o != nil && termKey(t.O) != termKey(o) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Objects returns the distinct objects of (s, p, ?) in insertion order.
func (g *Graph) Objects(s Term, p IRI) []Term {
	return distinct(g.Match(s, p, nil), func(t Triple) Term { return t.O })
}

// Subjects returns the distinct subjects of (?, p, o) in insertion order.
func (g *Graph) Subjects(p IRI, o Term) []Term {
	return distinct(g.Match(nil, p, o), func(t Triple) Term { return t.S })
}

// HasType reports whether (s, rdf:type, class) is in the graph.
func (g *Graph) HasType(s Term, class IRI) bool {
	return g.Has(Triple{S: s, P: RDFType, O: class})
}

// Union returns a new graph holding the triples of g followed by those of
// others. Base and prefixes are taken from g, with prefixes of others added
// where g does not bind them.
func (g *Graph) Union(others ...*Graph) *Graph {
	out := NewGraph(g.base)
	for k, v := range g.prefixes {
		out.prefixes[k] = v
	}
	out.AddAll(g.triples)
	for _, other := range others {
		if other == nil {
			continue
		}
		for k, v := range other.prefixes {
			if _, ok := out.prefixes[k]; !ok {
				out.prefixes[k] = v
			}
		}
		out.AddAll(other.triples)
	}
	return out
}

func (g *Graph) candidates(s Term, p IRI, o Term) ([]int, bool) {
	var best []int
	found := false
	consider := func(list []int) {
		if !found || len(list) < len(best) {
			best = list
			found = true
		}
	}
	if s != nil {
		consider(g.bySubject[termKey(s)])
	}
	if p.Value != "" {
		consider(g.byPredicate[termKey(p)])
	}
	if o != nil {
		consider(g.byObject[termKey(o)])
	}
	return best, !found
}

func distinct(triples []Triple, pick func(Triple) Term) []Term {
	seen := make(map[string]struct{}, len(triples))
	out := make([]Term, 0, len(triples))
	for _, t := range triples {
		term := pick(t)
		key := termKey(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, term)
	}
	return out
}

func trimPrefixColon(prefix string) string {
	if len(prefix) > 0 && prefix[len(prefix)-1] == ':' {
		return prefix[:len(prefix)-1]
	}
	return prefix
}
