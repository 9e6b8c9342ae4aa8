package commands

import (
	"context"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/internal/config"
	"github.com/geoknoesis/sysml-semtag/internal/logging"
	"github.com/geoknoesis/sysml-semtag/internal/metrics"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"base-uri":          "base_uri",
	"metadata-dir":      "metadata_dir",
	"input-ontology-ns": "ontology.namespace",
	"prefix-ontology":   "ontology.prefix",
	"prefix-library":    "library.prefix",
	"package-name":      "library.package_name",
	"api-endpoint":      "api.endpoint",
	"api-timeout":       "api.timeout",
	"api-max-retries":   "api.max_retries",
	"include-ownership": "transform.include_ownership",
	"log-level":         "log.level",
	"log-format":        "log.format",
	"metrics-textfile":  "metrics.textfile",
}

// app is the state shared by the commands of one invocation.
type app struct {
	viper      *viper.Viper
	configFile string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Recorder
	runID   string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{viper: config.New()}

	rootCmd := &cobra.Command{
		Use:   "semtag",
		Short: "Generate and extract semantic metadata tags for SysML v2 models",
		Long: color.CyanString(`semtag - semantic metadata tags for SysML v2

Generates a SysML v2 tagging library from an ontology, turns a SysML v2
AST export into linked data, and extracts the tags of a model as an RDF
graph in the ontology's vocabulary.`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a config file (default ./semtag.yaml)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.String("metrics-textfile", "", "Write run metrics to this file in the prometheus text format")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newConfigCommand(a))
	rootCmd.AddCommand(newGenLibraryCommand(a))
	rootCmd.AddCommand(newGenJSONLDCommand(a))
	rootCmd.AddCommand(newTransformCommand(a))

	return rootCmd
}

// setup binds flags, loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := bindFlags(a.viper, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run_id", a.runID), zap.String("command", cmd.Name()))
	a.metrics = metrics.New()
	return nil
}

func (a *app) finish() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.cfg == nil || a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "semtag version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, runtime.Version())
		},
	}
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// usageError reports a missing or conflicting flag.
func usageError(format string, args ...interface{}) error {
	return fmt.Errorf("usage: "+format, args...)
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
