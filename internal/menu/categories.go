package menu

// Category is a fixed navigation grouping for the menu.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// The category lists are fixed. The first entry of each list is the
// default used when the URL carries no selection.
var foodCategories = []Category{
	{ID: "tapas", Name: "Tapas", Icon: "UtensilsCrossed"},
	{ID: "starters", Name: "Starters", Icon: "Sparkles"},
	{ID: "mains", Name: "Mains", Icon: "UtensilsCrossed"},
	{ID: "paellas", Name: "Paellas", Icon: "ChefHat"},
	{ID: "desserts", Name: "Desserts", Icon: "Cake"},
	{ID: "drinks", Name: "Drinks", Icon: "Wine"},
}

var drinkCategories = []Category{
	{ID: "Bubbles", Name: "Bubbles", Icon: "Wine"},
	{ID: "White Wine", Name: "White Wine", Icon: "Wine"},
	{ID: "Rosé", Name: "Rosé", Icon: "Wine"},
	{ID: "Red Wine", Name: "Red Wine", Icon: "Wine"},
	{ID: "Spirits", Name: "Spirits", Icon: "Bottle"},
	{ID: "Beer", Name: "Beer", Icon: "Beer"},
	{ID: "Cocktails", Name: "Cocktails", Icon: "Martini"},
	{ID: "Draft", Name: "Draft Beer", Icon: "Beer"},
	{ID: "Bottled", Name: "Bottled Beer", Icon: "Beer"},
	{ID: "Signature", Name: "Signature Cocktails", Icon: "Martini"},
	{ID: "Classic", Name: "Classic Cocktails", Icon: "Martini"},
	{ID: "Water", Name: "Water", Icon: "Coffee"},
	{ID: "Soft Drinks", Name: "Soft Drinks", Icon: "Coffee"},
	{ID: "Coffee", Name: "Coffee", Icon: "Coffee"},
	{ID: "Tea", Name: "Tea", Icon: "Coffee"},
}

// FoodCategories returns the navigation categories for food and drinks.
func FoodCategories() []Category {
	return append([]Category(nil), foodCategories...)
}

// DrinkCategories returns the drink subcategories.
func DrinkCategories() []Category {
	return append([]Category(nil), drinkCategories...)
}

// DefaultCategory is the category shown when none is selected.
func DefaultCategory() string {
	return foodCategories[0].ID
}

// DefaultDrinkCategory is the drink subcategory shown when none is selected.
func DefaultDrinkCategory() string {
	return drinkCategories[0].ID
}

// ValidCategory reports whether id names a known food or drink category.
func ValidCategory(id string) bool {
	for _, c := range foodCategories {
		if c.ID == id {
			return true
		}
	}
	for _, c := range drinkCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ValidFoodCategory reports whether id names a food navigation category.
func ValidFoodCategory(id string) bool {
	for _, c := range foodCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ValidDrinkCategory reports whether id names a known drink subcategory.
func ValidDrinkCategory(id string) bool {
	for _, c := range drinkCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}
