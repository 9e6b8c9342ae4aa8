package tagging

import (
	"context"
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"
	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/rdf"
)

var (
	sysmlMetadataUsage   = rdf.SysML("MetadataUsage")
	sysmlConnectionUsage = rdf.SysML("ConnectionUsage")
	sysmlPartUsage       = rdf.SysML("PartUsage")
	sysmlFeature         = rdf.SysML("Feature")
	sysmlFeatureChaining = rdf.SysML("FeatureChaining")

	sysmlItemDefinition     = rdf.SysML("itemDefinition")
	sysmlAnnotatedElement   = rdf.SysML("annotatedElement")
	sysmlDeclaredName       = rdf.SysML("declaredName")
	sysmlQualifiedName      = rdf.SysML("qualifiedName")
	sysmlOwnedRelationship  = rdf.SysML("ownedRelationship")
	sysmlOwningRelationship = rdf.SysML("owningRelationship")
	sysmlType               = rdf.SysML("type")
	sysmlSource             = rdf.SysML("source")
	sysmlTarget             = rdf.SysML("target")
	sysmlFeatureChained     = rdf.SysML("featureChained")
)

// matcher evaluates one rule over a read-only model graph.
type matcher struct {
	g      *rdf.Graph
	cfg    Config
	logger *zap.Logger
	out    *rdf.Graph
}

func newMatcher(g *rdf.Graph, cfg Config, logger *zap.Logger) *matcher {
	return &matcher{g: g, cfg: cfg, logger: logger, out: rdf.NewGraph(cfg.BaseURI)}
}

// run evaluates rule and returns its distinct matches.
func (m *matcher) run(ctx context.Context, rule Rule) (*rdf.Graph, error) {
	var err error
	switch rule {
	case RuleMetadata:
		err = m.metadataTags(ctx, m.directTag)
	case RuleOwnership:
		err = m.metadataTags(ctx, m.ownedTag)
	case RuleConnection:
		err = m.connectionTags(ctx)
	default:
		err = fmt.Errorf("tagging: unknown rule %q", rule)
	}
	return m.out, err
}

// tagSource yields the tag definitions and annotated elements of a
// metadata usage.
type tagSource func(usage rdf.Term) (defs, elements []rdf.Term)

// directTag follows itemDefinition and annotatedElement.
func (m *matcher) directTag(usage rdf.Term) ([]rdf.Term, []rdf.Term) {
	return m.g.Objects(usage, sysmlItemDefinition), m.g.Objects(usage, sysmlAnnotatedElement)
}

// ownedTag follows ownedRelationship/type to the definition and
// owningRelationship/source to the element.
func (m *matcher) ownedTag(usage rdf.Term) ([]rdf.Term, []rdf.Term) {
	var defs, elements []rdf.Term
	for _, owned := range m.g.Objects(usage, sysmlOwnedRelationship) {
		defs = append(defs, m.g.Objects(owned, sysmlType)...)
	}
	for _, owning := range m.g.Objects(usage, sysmlOwningRelationship) {
		elements = append(elements, m.g.Objects(owning, sysmlSource)...)
	}
	return defs, elements
}

func (m *matcher) metadataTags(ctx context.Context, source tagSource) error {
	for _, usage := range m.g.Subjects(rdf.RDFType, sysmlMetadataUsage) {
		if err := ctx.Err(); err != nil {
			return err
		}
		defs, elements := source(usage)
		for _, def := range defs {
			for _, name := range m.g.Objects(def, sysmlDeclaredName) {
				class, ok := m.rewrite(name)
				if !ok {
					continue
				}
				for _, element := range elements {
					m.tagElement(element, class)
				}
			}
		}
	}
	return nil
}

// tagElement types element with class and, when the element declares both
// a short and a qualified name, labels it with them.
func (m *matcher) tagElement(element rdf.Term, class rdf.IRI) {
	if !isResource(element) {
		return
	}
	m.emit(rdf.Triple{S: element, P: rdf.RDFType, O: class})

	shorts := m.g.Objects(element, sysmlDeclaredName)
	longs := m.g.Objects(element, sysmlQualifiedName)
	if len(shorts) == 0 || len(longs) == 0 {
		return
	}
	for _, short := range shorts {
		m.emit(rdf.Triple{S: element, P: rdf.RDFLabel, O: short})
	}
	for _, long := range longs {
		m.emit(rdf.Triple{S: element, P: rdf.RDFComment, O: long})
	}
}

func (m *matcher) connectionTags(ctx context.Context) error {
	for _, conn := range m.g.Subjects(rdf.RDFType, sysmlConnectionUsage) {
		if err := ctx.Err(); err != nil {
			return err
		}
		names := m.g.Objects(conn, sysmlDeclaredName)
		if len(names) == 0 {
			continue
		}
		sources := m.resolveEnds(m.g.Objects(conn, sysmlSource))
		targets := m.resolveEnds(m.g.Objects(conn, sysmlTarget))
		if len(sources) == 0 || len(targets) == 0 {
			continue
		}
		for _, name := range names {
			prop, ok := m.rewrite(name)
			if !ok {
				continue
			}
			for _, src := range sources {
				for _, tgt := range targets {
					m.emit(rdf.Triple{S: src, P: prop, O: tgt})
				}
			}
		}
	}
	return nil
}

// resolveEnds maps connection ends to parts. An end that is a part resolves
// to itself. An end that is a feature resolves through a single feature
// chaining hop to the chaining's target, which must itself be a part;
// deeper chains resolve to nothing.
func (m *matcher) resolveEnds(ends []rdf.Term) []rdf.Term {
	var parts []rdf.Term
	for _, end := range ends {
		if !isResource(end) {
			continue
		}
		if m.g.HasType(end, sysmlPartUsage) {
			parts = append(parts, end)
		}
		if !m.g.HasType(end, sysmlFeature) {
			continue
		}
		for _, chain := range m.g.Subjects(sysmlFeatureChained, end) {
			if !m.g.HasType(chain, sysmlFeatureChaining) {
				continue
			}
			for _, part := range m.g.Objects(chain, sysmlTarget) {
				if isResource(part) && m.g.HasType(part, sysmlPartUsage) {
					parts = append(parts, part)
				}
			}
		}
	}
	return parts
}

// rewrite maps a declared tag name to an ontology IRI. Names without the
// library prefix pass through unchanged. A relative result is resolved
// against the base URI.
func (m *matcher) rewrite(name rdf.Term) (rdf.IRI, bool) {
	lexical := rdf.Lexical(name)
	if lexical == "" {
		return rdf.IRI{}, false
	}
	if !strings.HasPrefix(lexical, m.cfg.LibraryPrefix) {
		m.logger.Debug("tag name does not use the library prefix", zap.String("name", lexical))
	}
	iri := Rewrite(lexical, m.cfg.LibraryPrefix, m.cfg.Namespace)
	if !ld.IsAbsoluteIri(iri) {
		if !ld.IsAbsoluteIri(m.cfg.BaseURI) {
			m.logger.Warn("tag IRI stays relative without an absolute base URI", zap.String("iri", iri))
			return rdf.IRI{Value: iri}, true
		}
		iri = ld.Resolve(m.cfg.BaseURI, iri)
	}
	return rdf.IRI{Value: iri}, true
}

func (m *matcher) emit(t rdf.Triple) {
	m.out.Add(t)
}

func isResource(term rdf.Term) bool {
	return term != nil && term.Kind() != rdf.TermLiteral
}
