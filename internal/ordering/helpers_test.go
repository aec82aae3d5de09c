package ordering

import (
	"math"

	"github.com/appetiteclub/apt"

	"github.com/thewinery/selforder/internal/menu"
)

func testItem(name string, price float64, category string) *menu.MenuItem {
	return &menu.MenuItem{
		ID:        apt.GenerateNewID(),
		ShortCode: name,
		Name:      name,
		Price:     price,
		Category:  category,
		Available: true,
	}
}

func testTapasPackage() *menu.MenuItem {
	item := testItem("Tapas Night Package", 39.0, menu.CategoryTapas)
	item.ShortCode = menu.TapasPackageCode
	return item
}

func testCustomizableItem() *menu.MenuItem {
	item := testItem("Grilled Ribeye", 32.0, "mains")
	item.Customizations = []menu.Customization{
		{
			ID:            "doneness",
			Name:          "Doneness",
			Required:      true,
			MaxSelections: 1,
			Options: []menu.CustomizationOption{
				{ID: "rare", Name: "Rare"},
				{ID: "medium", Name: "Medium"},
				{ID: "well-done", Name: "Well Done"},
			},
		},
		{
			ID:            "sides",
			Name:          "Extra Sides",
			MaxSelections: 2,
			Options: []menu.CustomizationOption{
				{ID: "fries", Name: "Fries", Price: 4.0},
				{ID: "salad", Name: "Salad", Price: 5.0},
				{ID: "rice", Name: "Rice", Price: 3.0},
			},
		},
	}
	return item
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
