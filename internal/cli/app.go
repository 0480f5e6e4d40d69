package cli

import (
	"context"
	"fmt"

	"canteen-client/internal/api"
	"canteen-client/internal/cart"
	"canteen-client/internal/catalog"
	"canteen-client/internal/checkout"
	"canteen-client/internal/config"
	"canteen-client/internal/feed"
	"canteen-client/internal/session"
	"canteen-client/internal/storage"

	"github.com/rs/zerolog"
)

// App wires the client components together for the commands. It is
// built once per invocation, after flags are parsed.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Storage  storage.Store
	API      *api.Client
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Checkout *checkout.Submitter
	Session  *session.Session
}

// init builds the component graph. Local state (cart, cached user) is
// restored here so every command starts from the persisted session.
func (a *App) init(opts *RootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.Verbose {
		cfg.Logger.Level = "debug"
	}
	a.Config = cfg
	a.Logger = config.NewLogger(cfg.Logger)

	a.Storage = storage.NewFileStore(cfg.Storage.Path, a.Logger)

	a.API, err = api.New(cfg.API, a.Logger)
	if err != nil {
		return fmt.Errorf("cannot create API client: %w", err)
	}

	a.Catalog = catalog.New(a.Logger)
	a.Cart = cart.NewStore(a.Storage, a.Catalog, a.Logger)
	a.Cart.Restore()

	a.Checkout = checkout.New(a.Cart, a.API, a.Logger)
	a.Session = session.New(a.API, a.Storage, a.Logger)

	// Ending the session also ends the cart session.
	a.Session.OnLogout(a.Cart.Clear)

	return nil
}

// loadCatalog fetches the menu snapshot. Commands that resolve item ids
// call this before touching the cart.
func (a *App) loadCatalog(ctx context.Context) error {
	if err := a.Catalog.Refresh(ctx, a.API); err != nil {
		return fmt.Errorf("cannot load menu: %w", err)
	}
	return nil
}

// newFeed creates the live order feed delivering table fragments to
// onTable.
func (a *App) newFeed(onTable func(string)) *feed.Client {
	return feed.New(a.Config.Feed, a.API, onTable, a.Logger)
}

// requireStaff restores the session and enforces the staff gate for the
// kitchen and administration commands.
func (a *App) requireStaff(ctx context.Context) error {
	a.Session.Restore(ctx)
	_, err := a.Session.RequireStaff()
	return err
}
