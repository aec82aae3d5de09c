package menu

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds returns all seeds for the menu catalog.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-10_menu_tapas_night",
			Description: "Load the Tapas Night package and the tapas selection",
			Run: func(ctx context.Context) error {
				return seedItems(ctx, db, tapasNightSeedItems())
			},
		},
		{
			ID:          "2026-08-10_menu_a_la_carte",
			Description: "Load representative a la carte dishes and drinks",
			Run: func(ctx context.Context) error {
				return seedItems(ctx, db, aLaCarteSeedItems())
			},
		},
	}
}

func seedItems(ctx context.Context, db *mongo.Database, items []*MenuItem) error {
	collection := db.Collection("menu_items")
	opts := options.Replace().SetUpsert(true)

	for order, item := range items {
		item.Available = true
		item.DisplayOrder = order + 1
		item.BeforeCreate()
		if _, err := collection.ReplaceOne(ctx, bson.M{"short_code": item.ShortCode}, item, opts); err != nil {
			return fmt.Errorf("cannot seed menu item %s: %w", item.ShortCode, err)
		}
	}
	return nil
}

func tapasNightSeedItems() []*MenuItem {
	items := []*MenuItem{
		{
			ShortCode:   TapasPackageCode,
			Name:        "Monday Tapas Night",
			Description: "Unlimited tapas for 2 hours. All items available, 3 dishes per person per round.",
			Price:       39,
			Category:    CategoryTapas,
			Featured:    true,
			Tags:        []string{"promotion", "unlimited"},
		},
		{ShortCode: "tapas-olives", Name: "Mixed Olives", Description: "Chef's selection olives", Price: 8, Category: CategoryTapas, Tags: []string{"vegetarian", "spanish"}},
		{ShortCode: "tapas-sweet-potato-taco", Name: "Sweet Potato Taco", Description: "Sweet potato, handmade sesame dressing", Price: 9, Category: CategoryTapas, Tags: []string{"vegetarian", "taco"}},
		{ShortCode: "tapas-padron-peppers", Name: "Padrón Peppers", Description: "Sea salt, togarashi", Price: 10, Category: CategoryTapas, Tags: []string{"vegetarian", "spicy", "spanish"}, SpiceLevel: 1},
		{ShortCode: "tapas-croquettes", Name: "Porcini Mushroom Croquettes", Description: "Truffle mayo", Price: 12, Category: CategoryTapas, Tags: []string{"vegetarian", "mushroom", "truffle"}, Allergens: []string{"dairy", "gluten"}},
		{ShortCode: "tapas-fries", Name: "Crispy Fries", Description: "Truffle mayo", Price: 8, Category: CategoryTapas, Tags: []string{"vegetarian", "truffle"}},
		{ShortCode: "tapas-cauliflower", Name: "Roasted Cauliflower", Description: "Romesco sauce, basil pesto, pine nuts, piparras, Parmigiano Reggiano", Price: 13, Category: CategoryTapas, Tags: []string{"vegetarian", "romesco", "pesto"}, Allergens: []string{"dairy", "nuts"}},
		{ShortCode: "tapas-patatas-bravas", Name: "Patatas Bravas", Description: "Crispy layered Agria potatoes, spicy bravas sauce, mayo, togarashi", Price: 11, Category: CategoryTapas, Tags: []string{"vegetarian", "spicy", "spanish"}, SpiceLevel: 2, Allergens: []string{"dairy"}},
		{ShortCode: "tapas-tortilla", Name: "Spanish Tortilla", Description: "Confit Agria potato, mayo", Price: 11, Category: CategoryTapas, Tags: []string{"vegetarian", "spanish"}, Allergens: []string{"eggs", "dairy"}},
		{ShortCode: "tapas-baked-potato", Name: "Baked Agria Potato with Cheese", Description: "Béchamel sauce, mozzarella, Parmigiano Reggiano", Price: 12, Category: CategoryTapas, Tags: []string{"vegetarian", "cheese"}, Allergens: []string{"dairy", "gluten"}},
		{ShortCode: "tapas-pan-con-tomate", Name: "Pan con Tomate", Description: "Hand-ground Roma tomatoes, baguette, chives", Price: 9, Category: CategoryTapas, Tags: []string{"vegetarian", "spanish"}, Allergens: []string{"gluten"}},
		{ShortCode: "tapas-pig-taco", Name: "Suckling Pig Taco", Description: "Spanish suckling pig, handmade sweet sauce, pickled onions", Price: 14, Category: CategoryTapas, Tags: []string{"pork", "taco", "spanish"}, Allergens: []string{"gluten"}},
		{ShortCode: "tapas-wagyu-slider", Name: "Wagyu Beef Brioche Slider with Fries", Description: "Caramelized onions, Dijon mustard, cheddar, mayo", Price: 18, Category: CategoryTapas, Tags: []string{"wagyu", "beef", "premium"}, Allergens: []string{"dairy", "gluten"}},
		{ShortCode: "tapas-cuttlefish", Name: "Crispy Baby Cuttlefish", Description: "Mayo, lemon wedge", Price: 15, Category: CategoryTapas, Tags: []string{"seafood", "crispy"}, Allergens: []string{"seafood"}},
		{ShortCode: "tapas-popcorn-chicken", Name: "Popcorn Chicken", Description: "Chipotle mayo, lemon wedge", Price: 12, Category: CategoryTapas, Tags: []string{"chicken", "spicy"}, SpiceLevel: 2},
		{ShortCode: "tapas-bacon-tomato", Name: "Crispy Bacon with Cherry Tomato", Description: "Crispy bacon, cherry tomatoes, chipotle mayo", Price: 13, Category: CategoryTapas, Tags: []string{"bacon", "pork"}},
		{ShortCode: "tapas-cured-meats", Name: "Trio of Cured Meats", Description: "Chef's selection of cold cuts", Price: 19, Category: CategoryTapas, Tags: []string{"charcuterie", "cured meats"}},
	}
	return items
}

func aLaCarteSeedItems() []*MenuItem {
	items := []*MenuItem{
		{ShortCode: "starter-gazpacho", Name: "Gazpacho Andaluz", Description: "Chilled tomato soup, cucumber, sherry vinegar", Price: 12, Category: "starters", Tags: []string{"vegetarian", "spanish"}},
		{ShortCode: "starter-gambas", Name: "Gambas al Ajillo", Description: "Tiger prawns, garlic, chilli oil", Price: 19, Category: "starters", Tags: []string{"seafood", "spicy"}, SpiceLevel: 1, Allergens: []string{"shellfish"}},
		{
			ShortCode:   "main-iberico",
			Name:        "Ibérico Pork Pluma",
			Description: "Grilled Ibérico pluma, piquillo peppers",
			Price:       38,
			Category:    "mains",
			Tags:        []string{"pork", "premium"},
			Customizations: []Customization{
				{
					ID:       "doneness",
					Name:     "Doneness",
					Required: true,
					// Exclusive choice.
					MaxSelections: 1,
					Options: []CustomizationOption{
						{ID: "pink", Name: "Pink (recommended)", Price: 0},
						{ID: "medium", Name: "Medium", Price: 0},
						{ID: "well-done", Name: "Well Done", Price: 0},
					},
				},
				{
					ID:            "sides",
					Name:          "Sides",
					MaxSelections: 2,
					Options: []CustomizationOption{
						{ID: "fries", Name: "Crispy Fries", Price: 4},
						{ID: "salad", Name: "Green Salad", Price: 4},
						{ID: "padron", Name: "Padrón Peppers", Price: 5},
					},
				},
			},
		},
		{
			ShortCode:   "paella-seafood",
			Name:        "Paella de Mariscos",
			Description: "Bomba rice, prawns, mussels, squid, saffron",
			Price:       34,
			Category:    "paellas",
			Tags:        []string{"seafood", "spanish"},
			Allergens:   []string{"shellfish"},
			Customizations: []Customization{
				{
					ID:            "size",
					Name:          "Size",
					Required:      true,
					MaxSelections: 1,
					Options: []CustomizationOption{
						{ID: "for-two", Name: "For Two", Price: 0},
						{ID: "for-four", Name: "For Four", Price: 28},
					},
				},
				{
					ID:            "extras",
					Name:          "Extras",
					MaxSelections: 3,
					Options: []CustomizationOption{
						{ID: "aioli", Name: "Extra Aioli", Price: 2},
						{ID: "chorizo", Name: "Chorizo", Price: 6},
						{ID: "scampi", Name: "Scampi", Price: 9},
					},
				},
			},
		},
		{ShortCode: "dessert-crema", Name: "Crema Catalana", Description: "Burnt sugar crust, orange zest", Price: 11, Category: "desserts", Tags: []string{"vegetarian", "spanish"}, Allergens: []string{"dairy", "eggs"}},
		{ShortCode: "dessert-churros", Name: "Churros con Chocolate", Description: "Cinnamon sugar, thick drinking chocolate", Price: 12, Category: "desserts", Tags: []string{"vegetarian"}, Allergens: []string{"gluten", "dairy"}},
		{ShortCode: "drink-cava", Name: "Cava Brut Nature", Description: "Penedès, Spain", Price: 14, Category: CategoryDrinks, Subcategory: "Bubbles"},
		{ShortCode: "drink-albarino", Name: "Albariño", Description: "Rías Baixas, Spain", Price: 15, Category: CategoryDrinks, Subcategory: "White Wine"},
		{ShortCode: "drink-rioja", Name: "Rioja Reserva", Description: "Tempranillo, Rioja, Spain", Price: 16, Category: CategoryDrinks, Subcategory: "Red Wine"},
		{ShortCode: "drink-estrella", Name: "Estrella Damm", Description: "Barcelona lager, 330ml", Price: 9, Category: CategoryDrinks, Subcategory: "Bottled"},
		{ShortCode: "drink-sangria", Name: "Signature Sangría", Description: "Red wine, brandy, seasonal fruit", Price: 15, Category: CategoryDrinks, Subcategory: "Signature"},
	}
	return items
}

// ApplySeeds loads the menu catalog seeds when enabled via config.
func ApplySeeds(ctx context.Context, config *apt.Config, dbFn func() *mongo.Database, logger apt.Logger) error {
	enabled, _ := config.GetString("seeding.demo")
	if enabled != "true" {
		return nil
	}

	logger.Info("Menu seeding enabled, loading catalog...")
	db := dbFn()
	tracker := seed.NewMongoTracker(db)

	if err := seed.Apply(ctx, tracker, Seeds(db), "menu"); err != nil {
		return fmt.Errorf("menu seed failed: %w", err)
	}

	logger.Info("Menu catalog seeded successfully")
	return nil
}
