package menu

import (
	"context"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Catalog is an in-memory view over the menu repository. The ordering core
// reads from it; refreshes are triggered at startup and whenever the backend
// announces a menu change. A failed refresh keeps the previous snapshot so
// cart, session and order state stay usable while the menu source is down.
type Catalog struct {
	mu      sync.RWMutex
	repo    Repo
	logger  apt.Logger
	items   []*MenuItem
	byID    map[uuid.UUID]*MenuItem
	byCode  map[string]*MenuItem
	loaded  bool
	lastErr error
}

func NewCatalog(repo Repo, logger apt.Logger) *Catalog {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Catalog{
		repo:   repo,
		logger: logger,
		byID:   make(map[uuid.UUID]*MenuItem),
		byCode: make(map[string]*MenuItem),
	}
}

// Warm loads the catalog for the first time. A warmup failure is not fatal,
// the catalog stays empty and reports a retryable error until the next refresh.
func (c *Catalog) Warm(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		c.logger.Info("menu catalog warmup failed", "error", err)
		return err
	}
	return nil
}

// Refresh replaces the cached snapshot from the repository.
func (c *Catalog) Refresh(ctx context.Context) error {
	if c.repo == nil {
		return fmt.Errorf("menu catalog has no repository")
	}

	items, err := c.repo.ListAvailable(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return fmt.Errorf("cannot refresh menu catalog: %w", err)
	}

	byID := make(map[uuid.UUID]*MenuItem, len(items))
	byCode := make(map[string]*MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
		if item.ShortCode != "" {
			byCode[item.ShortCode] = item
		}
	}

	c.mu.Lock()
	c.items = items
	c.byID = byID
	c.byCode = byCode
	c.loaded = true
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Debug("menu catalog refreshed", "items", len(items))
	return nil
}

// Items returns the cached menu items.
func (c *Catalog) Items() []*MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*MenuItem(nil), c.items...)
}

// ItemsByCategory filters the cached items by category, optionally keeping
// only vegetarian-tagged entries.
func (c *Catalog) ItemsByCategory(category string, vegetarianOnly bool) []*MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []*MenuItem
	for _, item := range c.items {
		if item.Category != category {
			continue
		}
		if vegetarianOnly && !item.IsVegetarian() {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Item returns the cached item with the given id.
func (c *Catalog) Item(id uuid.UUID) (*MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.byID[id]
	return item, ok
}

// ItemByCode returns the cached item with the given short code.
func (c *Catalog) ItemByCode(code string) (*MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.byCode[code]
	return item, ok
}

// Loaded reports whether at least one refresh has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Err returns the error of the last failed refresh, nil after a success.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
