package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/render"
)

// NewDOCXCommand creates the docx command.
func NewDOCXCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "docx [path...]",
		Short:   "Write the outline as a Word document",
		Example: `  pyoutline docx -o outline.docx src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := GetRuntime(cmd.Context())
			forest, err := loadForest(cmd.Context(), rt, args)
			if err != nil {
				return err
			}

			w, closeFn, err := createOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			if err := render.WriteDOCX(w, forest, rt.Config.Title); err != nil {
				_ = closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "DOCX written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "outline.docx", "Output file (- for stdout)")

	return cmd
}
