package nav

import (
	"sync"

	"github.com/appetiteclub/apt"

	"github.com/thewinery/selforder/internal/menu"
)

// URLWriter pushes a canonical query string to the address bar without
// creating a history entry, so back/forward is not spammed by filter clicks.
// The routing plumbing outside this core implements it.
type URLWriter interface {
	ReplaceURL(query string)
}

// Navigator owns the in-memory view state and keeps it in sync with the URL:
// setters re-serialize the full state after every change, and Resync restores
// state when external back/forward navigation rewrites the query.
type Navigator struct {
	mu     sync.Mutex
	state  ViewState
	writer URLWriter
	logger apt.Logger
}

// NewNavigator restores initial state from the given raw query. The URL is
// not rewritten on init; the incoming address is left as the guest opened it.
func NewNavigator(rawQuery string, writer URLWriter, logger apt.Logger) *Navigator {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Navigator{
		state:  ParseQueryString(rawQuery),
		writer: writer,
		logger: logger,
	}
}

// State returns the current view state.
func (n *Navigator) State() ViewState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// SetTab switches the active tab. Switching away from the menu keeps the
// category; switching into the menu with a category that is invalid there
// (or the drinks pseudo-category) resets it to the default food category.
func (n *Navigator) SetTab(tab Tab) {
	if !ValidTab(string(tab)) {
		tab = TabMenu
	}

	n.mu.Lock()
	n.state.Tab = tab
	if tab == TabMenu {
		if n.state.Category == menu.CategoryDrinks || !menu.ValidFoodCategory(n.state.Category) {
			n.state.Category = menu.DefaultCategory()
		}
	}
	n.syncLocked()
	n.mu.Unlock()
}

// SetCategory switches the active menu category. Selecting the drinks
// category resets the drink subcategory to its default, matching the
// category sidebar behavior.
func (n *Navigator) SetCategory(category string) {
	if !menu.ValidCategory(category) {
		category = menu.DefaultCategory()
	}

	n.mu.Lock()
	n.state.Category = category
	if category == menu.CategoryDrinks {
		n.state.DrinkCategory = menu.DefaultDrinkCategory()
	}
	n.syncLocked()
	n.mu.Unlock()
}

// SetDrinkCategory switches the active drink subcategory.
func (n *Navigator) SetDrinkCategory(drinkCategory string) {
	if !menu.ValidDrinkCategory(drinkCategory) {
		drinkCategory = menu.DefaultDrinkCategory()
	}

	n.mu.Lock()
	n.state.DrinkCategory = drinkCategory
	n.syncLocked()
	n.mu.Unlock()
}

// Resync replaces the in-memory state from the URL after external
// back/forward navigation. The URL is already what the browser shows, so
// nothing is written back.
func (n *Navigator) Resync(rawQuery string) {
	state := ParseQueryString(rawQuery)

	n.mu.Lock()
	n.state = state
	n.mu.Unlock()
	n.logger.Debug("view state resynced from URL", "query", rawQuery)
}

func (n *Navigator) syncLocked() {
	if n.writer == nil {
		return
	}
	n.writer.ReplaceURL(n.state.Encode())
}
