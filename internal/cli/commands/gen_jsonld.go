package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/astld"
	"github.com/geoknoesis/sysml-semtag/internal/config"
	"github.com/geoknoesis/sysml-semtag/internal/metrics"
)

type genJSONLDOptions struct {
	input  string
	output string
}

func newGenJSONLDCommand(a *app) *cobra.Command {
	opts := &genJSONLDOptions{}
	cmd := &cobra.Command{
		Use:   "gen-jsonld",
		Short: "Turn a SysML v2 AST export into JSON-LD",
		Long: `Merge every entry of a SysML v2 AST export with the JSON-LD @context of
its metamodel type and write the result as a JSON-LD document.

Context fragments are read from <metadata-dir>/<Type>.jsonld.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenJSONLD(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input-ast-file", "i", "", "Path to the JSON AST of the SysML v2 model")
	cmd.Flags().StringVarP(&opts.output, "output-jsonld", "o", "", "Path of the JSON-LD output")
	cmd.Flags().StringP("base-uri", "b", config.DefaultBaseURI, "Base URI of the model graph")
	cmd.Flags().StringP("metadata-dir", "m", config.DefaultMetadataDir, "Directory of the metamodel JSON-LD context files")
	cmd.MarkFlagRequired("input-ast-file")
	cmd.MarkFlagRequired("output-jsonld")

	return cmd
}

func runGenJSONLD(cmd *cobra.Command, a *app, opts *genJSONLDOptions) error {
	cfg := a.cfg
	a.logger.Info("generating JSON-LD",
		zap.String("input", opts.input),
		zap.String("metadata_dir", cfg.MetadataDir))

	done := a.metrics.Stage(metrics.StageLoad)
	f, err := os.Open(opts.input)
	if err != nil {
		done()
		return err
	}
	entries, err := astld.ParseEntries(f)
	f.Close()
	done()
	if err != nil {
		return err
	}

	done = a.metrics.Stage(metrics.StageMerge)
	conv := astld.NewConverter(astld.NewDirStore(cfg.MetadataDir), cfg.BaseURI, astld.WithLogger(a.logger))
	records, err := conv.Convert(entries)
	done()
	if err != nil {
		return err
	}
	a.metrics.AddRecords(len(records))

	done = a.metrics.Stage(metrics.StageWrite)
	err = writeFileAtomic(opts.output, func(w io.Writer) error {
		return astld.WriteDocument(w, records)
	})
	done()
	if err != nil {
		return err
	}

	success(cmd, "Wrote %d JSON-LD records to %s", len(records), opts.output)
	return nil
}
