package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/exporters"
)

func newExportCommand(r *runner) *cobra.Command {
	var (
		format string
		output string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON or a Markdown reading list",
		Long: "Export the collection to stdout, to --output, or as a timestamped snapshot in --dir.\n" +
			"The JSON format is the same payload the collection is stored as.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := exporters.ForFormat(format)
			if err != nil {
				return err
			}
			if output != "" && dir != "" {
				return fmt.Errorf("use either --output or --dir, not both")
			}

			return r.withApp(func(app *entrypoint.App) error {
				books := app.Books.Books()

				if dir != "" {
					path, result, err := exporters.WriteSnapshot(dir, exporter, books, time.Now())
					if err != nil {
						return err
					}
					printSuccess(cmd.ErrOrStderr(), "Exported %d books to %s", result.BooksProcessed, path)
					return nil
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}

				result, err := exporter.Export(w, books)
				if err != nil {
					return err
				}
				if output != "" {
					printSuccess(cmd.ErrOrStderr(), "Exported %d books to %s", result.BooksProcessed, output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&dir, "dir", "", "write a timestamped snapshot into this directory")
	return cmd
}
