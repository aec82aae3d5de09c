package ordering

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/thewinery/selforder/internal/menu"
)

// Cart holds the live cart lines and mirrors every mutation to the
// persistence adapter in the same synchronous step. An empty cart deletes
// the stored entry rather than storing an empty list.
type Cart struct {
	mu       sync.Mutex
	lines    []*CartLine
	store    Store
	sessions *SessionManager
	logger   apt.Logger
}

func NewCart(store Store, sessions *SessionManager, logger apt.Logger) *Cart {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Cart{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// AddItem adds an uncustomized item. While a tapas session is active,
// tapas-category items take the free path: zero price, renamed snapshot,
// customization requirements bypassed. Items with customization groups are
// rejected so the caller routes the guest through the customization flow.
func (c *Cart) AddItem(item *menu.MenuItem, quantity int) (*CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if c.sessions != nil && c.sessions.Active() && item.Category == menu.CategoryTapas {
		line := NewFreeTapasLine(item, quantity)
		c.append(line)
		return line, nil
	}

	if item.RequiresCustomization() {
		return nil, ErrCustomizationRequired
	}

	line := NewCartLine(item, quantity)
	c.append(line)
	return line, nil
}

// AddCustomizedItem adds a line produced by the customization flow. The
// supplied total has already been computed by the selection rules; required
// groups are re-checked here so the contract holds no matter the caller.
// Confirming the Tapas Night package starts the tapas session as a side
// effect, with the line quantity interpreted as the party size.
func (c *Cart) AddCustomizedItem(ctx context.Context, item *menu.MenuItem, quantity int, selections Selection, totalPrice float64) (*CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := selections.Validate(item); err != nil {
		return nil, err
	}

	if item.IsTapasPackage() && c.sessions != nil {
		if _, err := c.sessions.Start(ctx, quantity); err != nil {
			return nil, err
		}
	}

	line := NewCustomizedLine(item, quantity, selections, totalPrice)
	c.append(line)
	return line, nil
}

// AddLines appends pre-built lines, used by reorder.
func (c *Cart) AddLines(lines []*CartLine) {
	c.mu.Lock()
	c.lines = append(c.lines, lines...)
	c.persistLocked()
	c.mu.Unlock()
}

// UpdateQuantity rescales a line; zero removes it.
func (c *Cart) UpdateQuantity(id uuid.UUID, quantity int) error {
	if quantity == 0 {
		return c.Remove(id)
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		if line.ID == id {
			line.Rescale(quantity)
			c.persistLocked()
			return nil
		}
	}
	return ErrLineNotFound
}

// Remove deletes a line by identity.
func (c *Cart) Remove(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persistLocked()
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.persistLocked()
	c.mu.Unlock()
}

// Lines returns the current cart lines.
func (c *Cart) Lines() []*CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*CartLine(nil), c.lines...)
}

// ItemCount is the total quantity across lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Totals derives the price breakdown of the current cart.
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeTotals(c.lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Restore rehydrates the cart from the persistence adapter.
func (c *Cart) Restore() error {
	if c.store == nil {
		return nil
	}
	lines, err := c.store.LoadCart()
	if err != nil {
		c.logger.Error("cannot restore cart", "error", err)
		return nil
	}
	if len(lines) == 0 {
		return nil
	}

	c.mu.Lock()
	c.lines = lines
	c.mu.Unlock()
	c.logger.Info("cart restored", "lines", len(lines))
	return nil
}

func (c *Cart) append(line *CartLine) {
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.persistLocked()
	c.mu.Unlock()
}

// persistLocked mirrors the cart to the store. Failures are logged, the
// in-memory cart stays authoritative for the running session.
func (c *Cart) persistLocked() {
	if c.store == nil {
		return
	}

	var err error
	if len(c.lines) == 0 {
		err = c.store.ClearCart()
	} else {
		err = c.store.SaveCart(c.lines)
	}
	if err != nil {
		c.logger.Error("cannot persist cart", "error", err)
	}
}
