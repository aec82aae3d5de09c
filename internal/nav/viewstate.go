package nav

import (
	"net/url"

	"github.com/thewinery/selforder/internal/menu"
)

// Tab identifies the top-level view.
type Tab string

const (
	TabMenu       Tab = "menu"
	TabPromotions Tab = "promotions"
	TabOrders     Tab = "orders"
)

// Recognized query parameters. Absence implies the default; unrecognized
// values fall back to defaults instead of failing.
const (
	paramTab           = "tab"
	paramCategory      = "category"
	paramDrinkCategory = "drinkCategory"
)

func ValidTab(tab string) bool {
	switch Tab(tab) {
	case TabMenu, TabPromotions, TabOrders:
		return true
	}
	return false
}

// ViewState is pure navigation state: active tab, menu category and drink
// subcategory. It round-trips through the URL query string; default values
// are omitted so the default state serializes to an empty query.
type ViewState struct {
	Tab           Tab    `json:"tab"`
	Category      string `json:"category"`
	DrinkCategory string `json:"drink_category"`
}

func DefaultViewState() ViewState {
	return ViewState{
		Tab:           TabMenu,
		Category:      menu.DefaultCategory(),
		DrinkCategory: menu.DefaultDrinkCategory(),
	}
}

// ParseQuery restores view state from URL query parameters. Unknown or
// invalid values are rejected to defaults.
func ParseQuery(values url.Values) ViewState {
	state := DefaultViewState()

	if tab := values.Get(paramTab); ValidTab(tab) {
		state.Tab = Tab(tab)
	}
	if category := values.Get(paramCategory); menu.ValidCategory(category) {
		state.Category = category
	}
	if drink := values.Get(paramDrinkCategory); menu.ValidDrinkCategory(drink) {
		state.DrinkCategory = drink
	}
	return state
}

// ParseQueryString is ParseQuery over a raw query string. A malformed query
// falls back to the default state.
func ParseQueryString(rawQuery string) ViewState {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return DefaultViewState()
	}
	return ParseQuery(values)
}

// Query serializes the state canonically: fields equal to their default are
// omitted, and the drink subcategory only appears while the drinks category
// is active.
func (v ViewState) Query() url.Values {
	defaults := DefaultViewState()
	values := url.Values{}

	if v.Tab != defaults.Tab {
		values.Set(paramTab, string(v.Tab))
	}
	if v.Category != defaults.Category {
		values.Set(paramCategory, v.Category)
	}
	if v.DrinkCategory != defaults.DrinkCategory && v.Category == menu.CategoryDrinks {
		values.Set(paramDrinkCategory, v.DrinkCategory)
	}
	return values
}

// Encode returns the canonical query string, empty for the default state.
func (v ViewState) Encode() string {
	return v.Query().Encode()
}
