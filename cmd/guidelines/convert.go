package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-guidelines/pkg/export"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/recommendation"
)

func newTriplesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "triples [file]",
		Short: "Print the triples of a graph as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			g, err := readGraph(cmd, args)
			if err != nil {
				return err
			}
			res, err := svc.Triples(cmd.Context(), g)
			if err != nil {
				return err
			}
			out := res.Triples
			if out == nil {
				out = []guideline.Triple{}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newTurtleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ttl [file]",
		Short: "Print the Turtle ontology of a graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			g, err := readGraph(cmd, args)
			if err != nil {
				return err
			}
			text, err := svc.Turtle(cmd.Context(), g)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newIdentifiersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "ids [file]",
		Aliases: []string{"identifiers"},
		Short:   "Print the stable identifier of every node",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			g, err := readGraph(cmd, args)
			if err != nil {
				return err
			}
			ids, err := svc.Identifiers(cmd.Context(), g)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ids)
		},
	}
}

func newXLSXCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "xlsx [file]",
		Short: "Write the triples of a graph to a spreadsheet",
		Long: `Write the triples of a graph to a spreadsheet. Without --output the
file is named after the document id, or "triples.xlsx".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			g, err := readGraph(cmd, args)
			if err != nil {
				return err
			}
			file, err := svc.XLSX(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer file.Close()

			dst := output
			if dst == "" {
				dst = file.Name
			}
			if err := copyFile(file.Path, dst); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", dst)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output spreadsheet path")
	return cmd
}

func newRecommendationCmd(opts *options) *cobra.Command {
	var (
		xlsxPath string
		ttl      bool
		sel      recommendation.Selection
	)

	cmd := &cobra.Command{
		Use:   "recommendation [file]",
		Short: "Convert a structured recommendation document into triple rows",
		Long: `Convert a structured recommendation document into triple rows, or with
--ttl into ontology individuals. --document and --disease narrow the input
to one document or one disease of a document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl && xlsxPath != "" {
				return fmt.Errorf("--ttl and --xlsx are mutually exclusive")
			}
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			if ttl {
				text, err := svc.RecommendationTurtle(cmd.Context(), data, sel)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), text)
				return err
			}

			rows, err := svc.Recommendation(cmd.Context(), data, sel)
			if err != nil {
				return err
			}
			if xlsxPath == "" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			docID := ""
			if len(rows) > 0 {
				docID = rows[0].Document
			}
			file, err := export.WriteXLSX(rows, docID)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := copyFile(file.Path, xlsxPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), xlsxPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the rows to this spreadsheet instead of stdout")
	cmd.Flags().BoolVar(&ttl, "ttl", false, "print Turtle ontology individuals instead of rows")
	cmd.Flags().StringVar(&sel.Document, "document", "", "only convert this document key")
	cmd.Flags().StringVar(&sel.Disease, "disease", "", "only convert this disease key (requires --document)")
	return cmd
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return out.Close()
}
