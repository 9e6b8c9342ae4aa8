package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/errs"
	"github.com/geoknoesis/sysml-semtag/internal/config"
	"github.com/geoknoesis/sysml-semtag/internal/metrics"
	"github.com/geoknoesis/sysml-semtag/ontology"
	"github.com/geoknoesis/sysml-semtag/rdf"
)

type genLibraryOptions struct {
	ontologyFile string
	output       string
}

func newGenLibraryCommand(a *app) *cobra.Command {
	opts := &genLibraryOptions{}
	cmd := &cobra.Command{
		Use:   "gen-library",
		Short: "Generate a SysML v2 tagging library from an ontology",
		Long: `Generate a SysML v2 package with one metadata definition per ontology
class and one connection definition per object property.

The ontology is read from --ontology-file, or fetched from the ontology
namespace when no file is given.

Examples:
  semtag gen-library -o SosaTags.sysml
  semtag gen-library --ontology-file ssn.ttl --input-ontology-ns http://www.w3.org/ns/ssn/ \
      --prefix-ontology ssn: --prefix-library SSN_ --package-name SsnTags -o SsnTags.sysml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenLibrary(cmd, a, opts)
		},
	}

	cmd.Flags().String("input-ontology-ns", config.DefaultOntologyNamespace, "Ontology namespace of the generated library")
	cmd.Flags().StringVar(&opts.ontologyFile, "ontology-file", "", "Ontology file or URL (default: the ontology namespace)")
	cmd.Flags().StringP("prefix-ontology", "p", config.DefaultOntologyPrefix, "Prefix of the ontology, e.g. 'sosa:'")
	cmd.Flags().StringP("prefix-library", "l", config.DefaultLibraryPrefix, "Prefix of the generated definitions, e.g. 'SOSA_'")
	cmd.Flags().StringP("package-name", "n", config.DefaultPackageName, "Name of the generated SysML v2 package")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path of the generated library file")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runGenLibrary(cmd *cobra.Command, a *app, opts *genLibraryOptions) error {
	cfg := a.cfg
	source := opts.ontologyFile
	if source == "" {
		source = cfg.Ontology.Namespace
	}
	a.logger.Info("generating tagging library", zap.String("ontology", source))

	done := a.metrics.Stage(metrics.StageLoad)
	g, err := rdf.Load(cmd.Context(), source, rdf.FormatAuto, rdf.ReadOptions{})
	done()
	if err != nil {
		return errs.Lookup("ontology", source, err)
	}
	prefix := strings.TrimSuffix(cfg.Ontology.Prefix, ":")
	if _, bound := g.Prefixes()[prefix]; !bound && prefix != "" {
		g.Bind(prefix, cfg.Ontology.Namespace)
	}

	done = a.metrics.Stage(metrics.StageIndex)
	idx := ontology.Build(g, cfg.Ontology.Prefix)
	text := ontology.GeneratePackage(cfg.Library.PackageName, cfg.Ontology.Namespace, idx, cfg.Library.Prefix)
	done()

	done = a.metrics.Stage(metrics.StageWrite)
	err = writeFileAtomic(opts.output, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
	done()
	if err != nil {
		return err
	}

	a.logger.Debug("library written",
		zap.Int("classes", len(idx.Classes)),
		zap.Int("properties", len(idx.Properties)),
		zap.String("path", opts.output))
	success(cmd, "Generated package %s with %d metadata and %d connection definitions in %s",
		cfg.Library.PackageName, len(idx.Classes), len(idx.Properties), opts.output)
	return nil
}
