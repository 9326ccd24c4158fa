package commands

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/render"
)

// NewJSONCommand creates the json command.
func NewJSONCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "json [path...]",
		Short: "Write the outline as JSON",
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
			if err := render.WriteJSON(w, forest); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")

	return cmd
}
