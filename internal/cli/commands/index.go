package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/index"
)

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "index [path...]",
		Short: "List every definition as a flat table",
		Long: `List every class and function with its qualified name, kind, location and the
first line of its docstring.`,
		Example: `  pyoutline index src/
  pyoutline index --format markdown . > INDEX.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := GetRuntime(cmd.Context())
			forest, err := loadForest(cmd.Context(), rt, args)
			if err != nil {
				return err
			}
			return renderIndex(cmd.OutOrStdout(), index.Build(forest), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|markdown|csv)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "markdown", "csv"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderIndex(w io.Writer, entries []index.Entry, format string) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "File", "Line", "Summary"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.QualifiedName(), e.Kind.String(), e.File, e.Line, e.Summary})
	}

	var out string
	switch format {
	case "table":
		if len(entries) == 0 {
			_, _ = fmt.Fprintln(w, "(0 definitions)")
			return nil
		}
		out = t.Render()
	case "md", "markdown":
		out = t.RenderMarkdown()
	case "csv":
		out = t.RenderCSV()
	default:
		return fmt.Errorf("invalid --format %q (want table, markdown or csv)", format)
	}

	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	if format == "table" {
		_, _ = fmt.Fprintf(w, "(%d definitions)\n", len(entries))
	}
	return nil
}
