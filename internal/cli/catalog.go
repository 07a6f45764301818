package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

func newCatalogCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the sample catalog and add books from it",
	}
	cmd.AddCommand(newCatalogListCommand(r), newCatalogAddCommand(r))
	return cmd
}

func newCatalogListCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries; ✓ marks books already in the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				out := cmd.OutOrStdout()
				for i, entry := range app.Catalog.Entries() {
					mark := " "
					if app.Books.Contains(entry.Title, entry.Author) {
						mark = styles.Success.Render(iconSuccess)
					}
					fmt.Fprintf(out, "%3d %s %s %s %s\n",
						i+1, mark, styles.Title.Render(entry.Title), styles.Muted.Render("by"), entry.Author)
				}
				return nil
			})
		},
	}
}

func newCatalogAddCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "add <number>",
		Short: "Add the catalog entry with this number to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid catalog number %q", args[0])
			}

			return r.withApp(func(app *entrypoint.App) error {
				entry, err := app.Catalog.Get(number - 1)
				if err != nil {
					return err
				}
				book, outcome, err := app.Books.Add(entry.Book())
				reportMutation(cmd.OutOrStdout(), "Added", book, outcome)
				return saveError(err)
			})
		},
	}
}
