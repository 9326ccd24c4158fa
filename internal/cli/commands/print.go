package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgallion1/pyoutline/internal/render"
)

// NewPrintCommand creates the print command.
func NewPrintCommand() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "print [path...]",
		Short: "Print the outline to the terminal",
		Long: `Print every class and function found under the given files or directories,
indented by nesting depth and followed by its docstring.`,
		Example: `  pyoutline print
  pyoutline print src/ tools/build.py
  pyoutline print --color=never . > outline.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor, err := resolveColor(cmd, color)
			if err != nil {
				return err
			}
			rt := GetRuntime(cmd.Context())
			forest, err := loadForest(cmd.Context(), rt, args)
			if err != nil {
				return err
			}
			return render.NewConsole(cmd.OutOrStdout(), useColor).RenderForest(forest)
		},
	}

	cmd.Flags().StringVar(&color, "color", "auto", "Colorize output (auto|always|never)")
	_ = cmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func resolveColor(cmd *cobra.Command, mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := cmd.OutOrStdout().(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid --color %q (want auto, always or never)", mode)
	}
}
