package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/pathstore"
	"github.com/dgallion1/pyoutline/internal/pipeline"
	"github.com/dgallion1/pyoutline/internal/source"
)

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "publish [path...]",
		Short: "Publish outlines to pathstore",
		Long: `Parse the given files or directories and write one pathstore node per definition,
replacing whatever was previously published for each file. Requires PATHSTORE_URL and
PATHSTORE_API_KEY.`,
		Example: `  PATHSTORE_URL=http://localhost:8080 PATHSTORE_API_KEY=... pyoutline publish --project api src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := GetRuntime(cmd.Context())
			cfg := rt.Config
			if !cfg.PublishEnabled() {
				return errors.New("PATHSTORE_URL is not set")
			}
			if project == "" {
				project = cfg.PathstoreProject
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			opts := source.Options{Exclude: cfg.Exclude, Extensions: cfg.Extensions}
			var uploads []pipeline.Upload
			for _, arg := range args {
				paths, err := source.Collect(arg, opts)
				if err != nil {
					return fmt.Errorf("collect %s: %w", arg, err)
				}
				for _, p := range paths {
					data, err := os.ReadFile(p)
					if err != nil {
						rt.Log.Warn("skipping file", "path", p, "error", err)
						continue
					}
					uploads = append(uploads, pipeline.Upload{Filename: p, Data: data})
				}
			}
			if len(uploads) == 0 {
				return errors.New("no Python files found")
			}

			client := pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
			defer client.Close()

			job := pipeline.NewJob(project, uploads)
			w := pipeline.NewWorker(pathstore.NewPublisher(client), nil, rt.Log, cfg.MaxConcurrentPublish)
			w.Process(cmd.Context(), job)

			snap := job.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:     %s\n", snap.Project)
			fmt.Fprintf(out, "Files:       %d/%d parsed\n", snap.Progress.FilesParsed, snap.Progress.FilesTotal)
			fmt.Fprintf(out, "Definitions: %d\n", snap.Progress.Definitions)
			fmt.Fprintf(out, "Published:   %d\n", snap.Progress.EntriesPublished)
			for _, e := range snap.Progress.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}

			if snap.Status != pipeline.StatusCompleted {
				return fmt.Errorf("publish %s", snap.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name (default: PATHSTORE_PROJECT)")

	return cmd
}
