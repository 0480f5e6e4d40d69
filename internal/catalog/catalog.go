// Package catalog holds the in-session snapshot of the menu: categories
// and items as fetched from the server at session start. The cart
// resolves additions against this snapshot, so prices seen here are the
// prices frozen into line items.
package catalog

import (
	"context"
	"strings"
	"sync"

	"canteen-client/internal/model"

	"github.com/rs/zerolog"
)

// Source fetches menu data from the server.
type Source interface {
	Categories(ctx context.Context) ([]model.Category, error)
	MenuItems(ctx context.Context) ([]model.MenuItem, error)
}

// Catalog is the in-session menu snapshot.
type Catalog struct {
	mu         sync.RWMutex
	categories []model.Category
	items      []model.MenuItem
	byID       map[int64]model.MenuItem
	logger     zerolog.Logger
}

// New creates an empty catalog.
func New(logger zerolog.Logger) *Catalog {
	return &Catalog{
		byID:   make(map[int64]model.MenuItem),
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Refresh replaces the snapshot with fresh data from src. A failure
// leaves the previous snapshot in place.
func (c *Catalog) Refresh(ctx context.Context, src Source) error {
	categories, err := src.Categories(ctx)
	if err != nil {
		return err
	}

	items, err := src.MenuItems(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int64]model.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	c.mu.Lock()
	c.categories = categories
	c.items = items
	c.byID = byID
	c.mu.Unlock()

	c.logger.Debug().
		Int("categories", len(categories)).
		Int("items", len(items)).
		Msg("catalog refreshed")
	return nil
}

// Categories returns the category snapshot.
func (c *Catalog) Categories() []model.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Items returns all menu items.
func (c *Catalog) Items() []model.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// ItemByID returns the catalogue item with the given id.
func (c *Catalog) ItemByID(id int64) (model.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.byID[id]
	return item, ok
}

// Filter returns items matching a category name and a case-insensitive
// search term over name and description. Empty arguments match
// everything; category "all" matches every category.
func (c *Catalog) Filter(category, search string) []model.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	category = strings.ToLower(strings.TrimSpace(category))
	search = strings.ToLower(strings.TrimSpace(search))

	var out []model.MenuItem
	for _, item := range c.items {
		if category != "" && category != "all" &&
			strings.ToLower(item.CategoryName) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}
