package entrypoint

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/settings"
	"github.com/mrlokans/bookshelf/internal/kvstore"
	"github.com/mrlokans/bookshelf/internal/metrics"
	"github.com/mrlokans/bookshelf/internal/settingsstore"
)

// App is the collection with everything built around it. The server and
// every CLI command open one.
type App struct {
	Config   *config.Config
	Store    kvstore.Store
	Books    *collection.Locked
	Catalog  *catalog.Catalog
	Settings *settingsstore.SettingsStore

	// Audit is nil unless the sqlite driver is used
	Audit *audit.Service
	// Metrics is nil unless requested
	Metrics *metrics.Metrics

	// Database is the sqlite handle for the sqlite driver
	Database *database.Database
	// Badger is the store for the badger driver
	Badger *kvstore.BadgerStore

	closers []func() error
}

// Open builds the store for cfg.Store.Driver and loads the collection.
// A collection that cannot be loaded is reported and replaced with an
// empty one; only infrastructure failures are returned.
func Open(cfg *config.Config, withMetrics bool) (*App, error) {
	app := &App{Config: cfg}
	if err := app.openStore(); err != nil {
		app.Close()
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Catalog = cat
	app.Settings = settingsstore.New(app.Store)

	opts := []collection.Option{collection.WithKey(cfg.Store.CollectionKey)}
	if app.Audit != nil {
		opts = append(opts, collection.WithObserver(app.Audit.Observe))
	}
	if withMetrics {
		// Metrics reads the collection at scrape time, so it is created after
		// the manager and the observer resolves it lazily.
		opts = append(opts, collection.WithObserver(func(e collection.Event) {
			if app.Metrics != nil {
				app.Metrics.Observe(e)
			}
		}))
	}

	app.Books = collection.NewLocked(collection.NewManager(app.Store, opts...))
	if withMetrics {
		app.Metrics = metrics.New(app.Books)
	}

	if err := app.Books.Load(); err != nil {
		if errors.Is(err, collection.ErrCorrupt) {
			log.Printf("WARNING: stored collection under %q is unreadable, starting empty: %v", cfg.Store.CollectionKey, err)
		} else {
			log.Printf("WARNING: failed to load collection, starting empty: %v", err)
		}
	} else {
		log.Printf("Loaded %d books from %s store", app.Books.Len(), cfg.Store.Driver)
	}

	return app, nil
}

func (a *App) openStore() error {
	switch a.Config.Store.Driver {
	case config.StoreDriverSQLite, "":
		db, err := database.NewDatabase(a.Config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.Database = db
		a.Store = settings.NewRepository(db.DB)
		a.Audit = audit.NewService(auditRepo.NewRepository(db.DB))
		a.closers = append(a.closers, db.Close)

	case config.StoreDriverBadger:
		store, err := kvstore.OpenBadger(kvstore.BadgerConfig{
			Path:       a.Config.Badger.Path,
			SyncWrites: true,
			Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		})
		if err != nil {
			return fmt.Errorf("failed to open badger store: %w", err)
		}
		a.Badger = store
		a.Store = store
		a.closers = append(a.closers, store.Close)
		log.Printf("Badger store opened at %s (audit trail disabled)", a.Config.Badger.Path)

	case config.StoreDriverMemory:
		a.Store = kvstore.NewMemoryStore()
		log.Printf("WARNING: memory store selected, changes will not survive a restart")

	default:
		return fmt.Errorf("unknown store driver %q (expected %s, %s or %s)",
			a.Config.Store.Driver, config.StoreDriverSQLite, config.StoreDriverBadger, config.StoreDriverMemory)
	}
	return nil
}

// Pinger returns the store's connectivity check, or nil when it has none.
func (a *App) Pinger() kvstore.Pinger {
	if p, ok := a.Store.(kvstore.Pinger); ok {
		return p
	}
	return nil
}

// Close releases the store in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
