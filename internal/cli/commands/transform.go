package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/internal/config"
	"github.com/geoknoesis/sysml-semtag/internal/metrics"
	"github.com/geoknoesis/sysml-semtag/rdf"
	"github.com/geoknoesis/sysml-semtag/sysmlapi"
	"github.com/geoknoesis/sysml-semtag/tagging"
)

type transformOptions struct {
	inputModel   string
	output       string
	outputFormat string
	dumpModel    string
	saveElements string
}

func newTransformCommand(a *app) *cobra.Command {
	opts := &transformOptions{}
	cmd := &cobra.Command{
		Use:   "transform-rdf",
		Short: "Extract the semantic tags of a SysML v2 model as RDF",
		Long: `Read a SysML v2 model graph and write the graph its semantic tags
describe, in the vocabulary of the target ontology.

The model comes from --input-model, or from the newest commit of the
newest project of the SysML v2 API at --api-endpoint.

Examples:
  semtag transform-rdf -i model.jsonld -o tags.ttl
  semtag transform-rdf --api-endpoint http://localhost:9000/ -o tags.ttl --save-elements elements.jsonld`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputModel, "input-model", "i", "", "Model graph file or URL (JSON-LD, Turtle, N-Triples, RDF/XML)")
	cmd.Flags().String("api-endpoint", config.DefaultAPIEndpoint, "SysML v2 API used when no input model is given")
	cmd.Flags().Duration("api-timeout", sysmlapi.DefaultTimeout, "Timeout of a single API request")
	cmd.Flags().Int("api-max-retries", sysmlapi.DefaultMaxRetries, "Retries of a failed API request")
	cmd.Flags().StringVarP(&opts.output, "output-rdf", "o", "", "Path of the tag graph")
	cmd.Flags().StringVarP(&opts.outputFormat, "output-format", "f", "", "Output format (turtle, ntriples, jsonld; default from the output extension)")
	cmd.Flags().StringP("base-uri", "b", config.DefaultBaseURI, "Base URI of the model graph")
	cmd.Flags().String("input-ontology-ns", config.DefaultOntologyNamespace, "Ontology namespace tags are rewritten into")
	cmd.Flags().StringP("prefix-ontology", "p", config.DefaultOntologyPrefix, "Prefix of the ontology, e.g. 'sosa:'")
	cmd.Flags().StringP("prefix-library", "l", config.DefaultLibraryPrefix, "Prefix of the tagging library, e.g. 'SOSA_'")
	cmd.Flags().Bool("include-ownership", false, "Also derive tags reached through owned/owning relationships")
	cmd.Flags().StringVar(&opts.dumpModel, "dump-model", "", "Also write the model graph as Turtle to this path")
	cmd.Flags().StringVar(&opts.saveElements, "save-elements", "", "Also write the elements fetched from the API to this path")
	cmd.MarkFlagRequired("output-rdf")
	cmd.MarkFlagsMutuallyExclusive("input-model", "api-endpoint")

	return cmd
}

func runTransform(cmd *cobra.Command, a *app, opts *transformOptions) error {
	cfg := a.cfg
	ctx := cmd.Context()

	format := rdf.FormatTurtle
	if opts.outputFormat != "" {
		parsed, ok := rdf.ParseFormat(opts.outputFormat)
		if !ok || parsed == rdf.FormatRDFXML {
			return usageError("unsupported --output-format %q", opts.outputFormat)
		}
		format = parsed
	} else if inferred, err := rdf.FormatFromPath(opts.output); err == nil && inferred != rdf.FormatRDFXML {
		format = inferred
	}

	a.logger.Info("retrieving semantic tags and transforming the model graph")
	done := a.metrics.Stage(metrics.StageLoad)
	model, base, err := loadModel(ctx, a, opts)
	done()
	if err != nil {
		return err
	}
	model.Bind("sysml", rdf.SysMLNamespace)
	model.Bind("base", base)
	a.logger.Info("model graph loaded", zap.Int("statements", model.Len()), zap.String("base", base))

	if opts.dumpModel != "" {
		err := writeFileAtomic(opts.dumpModel, func(w io.Writer) error {
			return rdf.Write(w, model, rdf.FormatTurtle)
		})
		if err != nil {
			return err
		}
	}

	transformer := tagging.New(tagging.Config{
		LibraryPrefix:    cfg.Library.Prefix,
		Namespace:        cfg.Ontology.Namespace,
		OntologyPrefix:   cfg.Ontology.Prefix,
		BaseURI:          base,
		IncludeOwnership: cfg.Transform.IncludeOwnership,
	}, tagging.WithLogger(a.logger))

	done = a.metrics.Stage(metrics.StageTransform)
	tags, stats, err := transformer.Transform(ctx, model)
	done()
	if err != nil {
		return err
	}
	for rule, n := range stats.Rules {
		a.metrics.AddTriples(string(rule), n)
	}

	done = a.metrics.Stage(metrics.StageWrite)
	err = writeFileAtomic(opts.output, func(w io.Writer) error {
		return rdf.Write(w, tags, format)
	})
	done()
	if err != nil {
		return err
	}

	success(cmd, "Extracted %d tag statements from %d model statements into %s",
		stats.Total, model.Len(), opts.output)
	return nil
}

// loadModel reads the model graph from the input file or the API and
// returns it with the base its identifiers resolve against.
func loadModel(ctx context.Context, a *app, opts *transformOptions) (*rdf.Graph, string, error) {
	cfg := a.cfg
	if opts.inputModel != "" {
		g, err := rdf.Load(ctx, opts.inputModel, rdf.FormatAuto, rdf.ReadOptions{Base: cfg.BaseURI})
		if err != nil {
			return nil, "", err
		}
		return g, cfg.BaseURI, nil
	}

	client, err := sysmlapi.NewClient(cfg.API.Endpoint,
		sysmlapi.WithLogger(a.logger),
		sysmlapi.WithTimeout(cfg.API.Timeout),
		sysmlapi.WithMaxRetries(cfg.API.MaxRetries))
	if err != nil {
		return nil, "", err
	}
	snap, err := client.Latest(ctx)
	if err != nil {
		return nil, "", err
	}

	if opts.saveElements != "" {
		err := writeFileAtomic(opts.saveElements, func(w io.Writer) error {
			var buf bytes.Buffer
			if err := json.Indent(&buf, snap.Document, "", "  "); err != nil {
				return err
			}
			buf.WriteByte('\n')
			_, err := w.Write(buf.Bytes())
			return err
		})
		if err != nil {
			return nil, "", err
		}
	}

	g, err := rdf.Read(ctx, bytes.NewReader(snap.Document), rdf.FormatJSONLD, rdf.ReadOptions{Base: snap.Base})
	if err != nil {
		return nil, "", err
	}
	return g, snap.Base, nil
}
