package tagging

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/sysml-semtag/rdf"
)

// Rule names a structural extraction.
type Rule string

const (
	RuleMetadata   Rule = "metadata"
	RuleOwnership  Rule = "ownership"
	RuleConnection Rule = "connection"
)

// Config parameterizes a transformation.
type Config struct {
	// LibraryPrefix is the tag name prefix of the generated library, e.g. SOSA_.
	LibraryPrefix string
	// Namespace is the ontology namespace tags are rewritten into.
	Namespace string
	// OntologyPrefix is bound to Namespace in the output graph.
	OntologyPrefix string
	// BaseURI is the output graph's base and is bound as "base".
	BaseURI string
	// IncludeOwnership enables the owned/owning relationship rule.
	IncludeOwnership bool
}

// Stats reports how many distinct triples each rule derived and the size of
// the union. Rules may derive the same triple, so Total can be smaller than
// the sum of Rules.
type Stats struct {
	Rules map[Rule]int
	Total int
}

// Transformer applies the tagging rules to model graphs.
type Transformer struct {
	cfg    Config
	logger *zap.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the transformer's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New returns a Transformer.
func New(cfg Config, opts ...Option) *Transformer {
	t := &Transformer{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	if cfg.Namespace == "" {
		t.logger.Warn("no ontology namespace set, tag names resolve against the base URI",
			zap.String("base", cfg.BaseURI))
	}
	return t
}

// Rules returns the rules this transformer evaluates, in union order.
func (t *Transformer) Rules() []Rule {
	if t.cfg.IncludeOwnership {
		return []Rule{RuleMetadata, RuleOwnership, RuleConnection}
	}
	return []Rule{RuleMetadata, RuleConnection}
}

// Transform evaluates every rule over g and returns the union of their
// output as a new graph. g is only read. A nil or empty model yields an
// empty graph.
func (t *Transformer) Transform(ctx context.Context, g *rdf.Graph) (*rdf.Graph, Stats, error) {
	out := t.newOutput()
	stats := Stats{Rules: make(map[Rule]int)}
	if g == nil || g.Len() == 0 {
		return out, stats, nil
	}

	rules := t.Rules()
	results := make([]*rdf.Graph, len(rules))
	eg, ctx := errgroup.WithContext(ctx)
	for i, rule := range rules {
		eg.Go(func() error {
			m := newMatcher(g, t.cfg, t.logger.With(zap.String("rule", string(rule))))
			derived, err := m.run(ctx, rule)
			if err != nil {
				return err
			}
			results[i] = derived
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, Stats{}, err
	}

	for i, rule := range rules {
		stats.Rules[rule] = results[i].Len()
		out.AddAll(results[i].Triples())
		t.logger.Debug("rule evaluated", zap.String("rule", string(rule)), zap.Int("triples", results[i].Len()))
	}
	stats.Total = out.Len()
	return out, stats, nil
}

func (t *Transformer) newOutput() *rdf.Graph {
	out := rdf.NewGraph(t.cfg.BaseURI)
	out.Bind("rdf", rdf.RDFNamespace)
	if prefix := strings.TrimSuffix(t.cfg.OntologyPrefix, ":"); prefix != "" && t.cfg.Namespace != "" {
		out.Bind(prefix, t.cfg.Namespace)
	}
	if t.cfg.BaseURI != "" {
		out.Bind("base", t.cfg.BaseURI)
	}
	return out
}
