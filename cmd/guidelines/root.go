package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-guidelines/pkg/config"
	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath     string
	vocabularyPath string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "guidelines",
		Short: "Convert clinical guideline graphs into triples and ontologies",
		Long: `guidelines interprets decision graphs drawn in the guideline editor.

Input is read from the named file, or from stdin when the file is "-" or
omitted.

Examples:
  guidelines triples graph.json            # triple list as JSON
  guidelines ttl graph.json > out.ttl      # Turtle ontology
  guidelines xlsx graph.json -o out.xlsx   # spreadsheet export
  guidelines recommendation rec.json       # structured recommendation rows`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv("GUIDELINES_CONFIG"), "path to YAML configuration")
	flags.StringVar(&opts.vocabularyPath, "vocabulary", "", "vocabulary YAML overriding the built-in tables")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(
		newTriplesCmd(opts),
		newTurtleCmd(opts),
		newXLSXCmd(opts),
		newIdentifiersCmd(opts),
		newRecommendationCmd(opts),
		newTokenCmd(opts),
		newWatchCmd(opts),
		newHistoryCmd(opts),
		newArchiveCmd(opts),
	)
	return root
}

// loadConfig reads the configuration named by --config.
func (o *options) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

// service builds a conversion service without sinks.
func (o *options) service(cmd *cobra.Command) (*convert.Service, error) {
	path := o.vocabularyPath
	if path == "" && o.configPath != "" {
		cfg, err := o.loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Vocabulary.Path
	}
	vocab, err := vocabulary.Load(path)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(o.logLevel))
	return convert.New(vocab, convert.WithLogger(logger)), nil
}

// readInput returns the named file, or stdin for "-" and no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func readGraph(cmd *cobra.Command, args []string) (*guideline.Graph, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	var g guideline.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid graph document: %w", err)
	}
	return &g, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
