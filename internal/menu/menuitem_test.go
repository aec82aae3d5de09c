package menu

import (
	"testing"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleItem() *MenuItem {
	return &MenuItem{
		ID:        apt.GenerateNewID(),
		ShortCode: "patatas-bravas",
		Name:      "Patatas Bravas",
		Price:     8.5,
		Category:  CategoryTapas,
		Tags:      []string{"vegetarian", "spicy"},
		Available: true,
		Customizations: []Customization{
			{
				ID:            "spice",
				Name:          "Spice Level",
				Required:      true,
				MaxSelections: 1,
				Options: []CustomizationOption{
					{ID: "mild", Name: "Mild"},
					{ID: "hot", Name: "Hot"},
				},
			},
		},
	}
}

func TestMenuItemIsVegetarian(t *testing.T) {
	item := sampleItem()
	if !item.IsVegetarian() {
		t.Error("IsVegetarian() = false, want true")
	}

	item.Tags = []string{"spicy"}
	if item.IsVegetarian() {
		t.Error("IsVegetarian() = true, want false")
	}
}

func TestMenuItemIsTapasPackage(t *testing.T) {
	item := sampleItem()
	if item.IsTapasPackage() {
		t.Error("IsTapasPackage() = true for a regular item")
	}

	item.ShortCode = TapasPackageCode
	if !item.IsTapasPackage() {
		t.Error("IsTapasPackage() = false for the package short code")
	}
}

func TestMenuItemCustomizationLookup(t *testing.T) {
	item := sampleItem()

	group := item.CustomizationGroup("spice")
	if group == nil || group.Name != "Spice Level" {
		t.Fatalf("CustomizationGroup() = %+v, want the spice group", group)
	}
	if got := item.CustomizationGroup("missing"); got != nil {
		t.Errorf("CustomizationGroup() = %+v, want nil", got)
	}

	option := group.Option("hot")
	if option == nil || option.Name != "Hot" {
		t.Errorf("Option() = %+v, want the hot option", option)
	}
	if got := group.Option("missing"); got != nil {
		t.Errorf("Option() = %+v, want nil", got)
	}
}

func TestMenuItemSnapshot(t *testing.T) {
	item := sampleItem()
	snapshot := item.Snapshot()

	snapshot.Name = "changed"
	snapshot.Tags[0] = "changed"
	snapshot.Customizations[0].Options[0].Name = "changed"

	if item.Name == "changed" || item.Tags[0] == "changed" {
		t.Error("Snapshot() shares storage with the original")
	}
	if item.Customizations[0].Options[0].Name == "changed" {
		t.Error("Snapshot() shares customization options with the original")
	}

	var nilItem *MenuItem
	if nilItem.Snapshot() != nil {
		t.Error("Snapshot() of nil = non-nil")
	}
}

func TestMenuItemBSONRoundTrip(t *testing.T) {
	item := sampleItem()
	item.BeforeCreate()

	data, err := bson.Marshal(item)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}

	var decoded MenuItem
	if err := bson.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	if decoded.ID != item.ID {
		t.Errorf("decoded ID = %v, want %v", decoded.ID, item.ID)
	}
	if decoded.ShortCode != item.ShortCode || decoded.Price != item.Price {
		t.Errorf("decoded item = %+v, want %+v", decoded, item)
	}
	if len(decoded.Customizations) != 1 || len(decoded.Customizations[0].Options) != 2 {
		t.Errorf("decoded customizations = %+v", decoded.Customizations)
	}
}

func TestCategories(t *testing.T) {
	if got := DefaultCategory(); got != CategoryTapas {
		t.Errorf("DefaultCategory() = %q, want %q", got, CategoryTapas)
	}
	if got := DefaultDrinkCategory(); got != "Bubbles" {
		t.Errorf("DefaultDrinkCategory() = %q, want %q", got, "Bubbles")
	}

	if !ValidCategory("drinks") || !ValidCategory("Red Wine") {
		t.Error("ValidCategory() rejected known categories")
	}
	if ValidCategory("bogus") {
		t.Error("ValidCategory() accepted an unknown category")
	}
	if ValidFoodCategory("Red Wine") {
		t.Error("ValidFoodCategory() accepted a drink subcategory")
	}
	if !ValidDrinkCategory("Bubbles") || ValidDrinkCategory("tapas") {
		t.Error("ValidDrinkCategory() misclassified")
	}
}
