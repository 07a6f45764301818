package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/forms"
)

func newAddCommand(r *runner) *cobra.Command {
	var form forms.BookForm

	cmd := &cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add a book to the collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Title, form.Author = args[0], args[1]
			if err := form.Validate(); err != nil {
				return err
			}
			return r.withApp(func(app *entrypoint.App) error {
				book, outcome, err := app.Books.Add(form.NewBook())
				reportMutation(cmd.OutOrStdout(), "Added", book, outcome)
				return saveError(err)
			})
		},
	}

	cmd.Flags().StringVar(&form.Note, "note", "", "free-form note")
	cmd.Flags().StringVar(&form.Status, "status", "", "reading status (not_started, reading, completed)")
	cmd.Flags().BoolVar(&form.IsFavorite, "favorite", false, "mark as favourite")
	return cmd
}

func newListCommand(r *runner) *cobra.Command {
	var (
		status    string
		favorites bool
		search    string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := collection.Query{FavoritesOnly: favorites, Search: search}
			if status != "" {
				parsed, err := entities.ParseReadingStatus(status)
				if err != nil {
					return err
				}
				query = query.WithStatus(parsed)
			}

			return r.withApp(func(app *entrypoint.App) error {
				books := app.Books.Filter(query)
				out := cmd.OutOrStdout()

				if asJSON {
					data, err := json.MarshalIndent(books, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
					return nil
				}

				if len(books) == 0 {
					fmt.Fprintln(out, styles.Muted.Render("No books found."))
					return nil
				}

				positions := positionsByID(app.Books.Books())
				for _, book := range books {
					fmt.Fprintln(out, renderBookLine(positions[book.ID], book))
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderStats(app.Books.Stats()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only books with this reading status")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favourite books")
	cmd.Flags().StringVarP(&search, "query", "q", "", "case-insensitive title/author search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// positionsByID maps each id to its 1-based position in the full collection.
func positionsByID(books []entities.Book) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(books))
	for i, book := range books {
		out[book.ID] = i + 1
	}
	return out
}

func newShowCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				book, err := resolveBook(app.Books, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderBookDetail(book))
				return nil
			})
		},
	}
}

func newEditCommand(r *runner) *cobra.Command {
	var (
		title, author, note, status string
		favorite                    bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a book's title, author, note, status or favourite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				existing, err := resolveBook(app.Books, args[0])
				if err != nil {
					return err
				}

				form := forms.BookForm{
					Title:      existing.Title,
					Author:     existing.Author,
					Note:       existing.Note,
					IsFavorite: existing.IsFavorite,
				}
				flags := cmd.Flags()
				if flags.Changed("title") {
					form.Title = title
				}
				if flags.Changed("author") {
					form.Author = author
				}
				if flags.Changed("note") {
					form.Note = note
				}
				if flags.Changed("status") {
					form.Status = status
				}
				if flags.Changed("favorite") {
					form.IsFavorite = favorite
				}
				if err := form.Validate(); err != nil {
					return err
				}

				book, outcome, err := app.Books.Update(form.Edit(existing))
				reportMutation(cmd.OutOrStdout(), "Updated", book, outcome)
				return saveError(err)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().StringVar(&note, "note", "", "new note (empty clears it)")
	cmd.Flags().StringVar(&status, "status", "", "new reading status")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "favourite flag")
	return cmd
}

func newDeleteCommand(r *runner) *cobra.Command {
	var positions []int

	cmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete books by id or by --position",
		Long: "Delete books by id (or id prefix) or by their 1-based position in `bookshelf list`.\n" +
			"Unknown ids and positions are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(positions) == 0 {
				return fmt.Errorf("give at least one id or --position")
			}
			if len(args) > 0 && len(positions) > 0 {
				return fmt.Errorf("use either ids or --position, not both")
			}

			return r.withApp(func(app *entrypoint.App) error {
				var (
					removed int
					err     error
				)
				if len(positions) > 0 {
					indexes := make([]int, 0, len(positions))
					for _, p := range positions {
						indexes = append(indexes, p-1)
					}
					removed, err = app.Books.DeleteAt(indexes...)
				} else {
					ids := make([]uuid.UUID, 0, len(args))
					for _, ref := range args {
						book, resolveErr := resolveBook(app.Books, ref)
						if errors.Is(resolveErr, ErrBookNotFound) {
							printWarning(cmd.OutOrStdout(), "skipping %s: not in your books", ref)
							continue
						}
						if resolveErr != nil {
							return resolveErr
						}
						ids = append(ids, book.ID)
					}
					removed, err = app.Books.Delete(ids...)
				}

				if removed == 0 {
					printWarning(cmd.OutOrStdout(), "nothing to delete")
				} else {
					printSuccess(cmd.OutOrStdout(), "Deleted %d book(s)", removed)
				}
				return saveError(err)
			})
		},
	}

	cmd.Flags().IntSliceVar(&positions, "position", nil, "1-based position from list (repeatable)")
	return cmd
}

func newFavouriteCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:     "favourite <id>",
		Aliases: []string{"favorite", "fav"},
		Short:   "Toggle a book's favourite flag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				existing, err := resolveBook(app.Books, args[0])
				if err != nil {
					return err
				}
				book, outcome, err := app.Books.ToggleFavorite(existing.ID)
				verb := "Unmarked"
				if book.IsFavorite {
					verb = "Marked"
				}
				reportMutation(cmd.OutOrStdout(), verb, book, outcome)
				return saveError(err)
			})
		},
	}
}

func newStatusCommand(r *runner) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Advance a book's reading status, or set it with --set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target entities.ReadingStatus
			if set != "" {
				parsed, err := entities.ParseReadingStatus(set)
				if err != nil {
					return err
				}
				target = parsed
			}

			return r.withApp(func(app *entrypoint.App) error {
				existing, err := resolveBook(app.Books, args[0])
				if err != nil {
					return err
				}

				var (
					book    entities.Book
					outcome collection.Outcome
				)
				if target != "" {
					book, outcome, err = app.Books.SetStatus(existing.ID, target)
				} else {
					book, outcome, err = app.Books.CycleStatus(existing.ID)
				}
				reportMutation(cmd.OutOrStdout(), fmt.Sprintf("%s %s:", book.Status.Emoji(), book.Status), book, outcome)
				return saveError(err)
			})
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "status to set instead of advancing")
	return cmd
}
