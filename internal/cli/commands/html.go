package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/render"
)

// NewHTMLCommand creates the html command.
func NewHTMLCommand() *cobra.Command {
	var (
		output   string
		title    string
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "html [path...]",
		Short: "Write the outline as an HTML page",
		Example: `  pyoutline html src/
  pyoutline html --markdown -o docs/index.html .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := GetRuntime(cmd.Context())
			forest, err := loadForest(cmd.Context(), rt, args)
			if err != nil {
				return err
			}

			opts := render.HTMLOptions{Title: rt.Config.Title, Markdown: rt.Config.MarkdownDescriptions}
			if cmd.Flags().Changed("title") {
				opts.Title = title
			}
			if cmd.Flags().Changed("markdown") {
				opts.Markdown = markdown
			}

			w, closeFn, err := createOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			if err := render.WriteHTML(w, forest, opts); err != nil {
				_ = closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "HTML written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "index.html", "Output file (- for stdout)")
	cmd.Flags().StringVar(&title, "title", "Code Index", "Page title")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render docstrings as Markdown")

	return cmd
}
