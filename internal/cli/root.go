// Package cli implements the bookshelf command line. Every command opens the
// configured store, runs one collection operation and exits.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrAmbiguousBook = errors.New("more than one book matches")
)

const minIDPrefix = 4

// Options configures the command tree.
type Options struct {
	Version string
	Commit  string

	// LoadConfig defaults to config.NewConfig (environment variables)
	LoadConfig func() *config.Config
}

type runner struct {
	opts Options
}

func (r *runner) config() *config.Config {
	if r.opts.LoadConfig != nil {
		return r.opts.LoadConfig()
	}
	return config.NewConfig()
}

// withApp opens the app for the duration of fn.
func (r *runner) withApp(fn func(app *entrypoint.App) error) error {
	app, err := entrypoint.Open(r.config(), false)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

// NewRootCommand builds the full command tree.
func NewRootCommand(opts Options) *cobra.Command {
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Keep track of the books you own, read and love",
		Version:       fmt.Sprintf("%s (%s)", opts.Version, opts.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(r),
		newAddCommand(r),
		newListCommand(r),
		newShowCommand(r),
		newEditCommand(r),
		newDeleteCommand(r),
		newFavouriteCommand(r),
		newStatusCommand(r),
		newCatalogCommand(r),
		newExportCommand(r),
		newAuditCommand(r),
	)
	return root
}

func newServeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(r.config(), r.opts.Version)
		},
	}
}

// resolveBook finds a book by full id or by a unique id prefix of at least
// four characters, as printed by list.
func resolveBook(books *collection.Locked, ref string) (entities.Book, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		if book, ok := books.Get(id); ok {
			return book, nil
		}
		return entities.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, ref)
	}
	if len(ref) < minIDPrefix {
		return entities.Book{}, fmt.Errorf("book id %q is too short, use at least %d characters", ref, minIDPrefix)
	}

	var (
		match entities.Book
		found int
	)
	for _, book := range books.Books() {
		if strings.HasPrefix(book.ID.String(), ref) {
			match = book
			found++
		}
	}
	switch found {
	case 0:
		return entities.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, ref)
	case 1:
		return match, nil
	default:
		return entities.Book{}, fmt.Errorf("%w: %s", ErrAmbiguousBook, ref)
	}
}

// saveError turns a persistence failure into the command's error. Rejected
// input is returned as is.
func saveError(err error) error {
	if err == nil || errors.Is(err, collection.ErrInvalidStatus) {
		return err
	}
	return fmt.Errorf("failed to save collection: %w", err)
}
