package menu

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

const CurrentMenuItemSchemaVersion = 1

// Reserved identifiers the ordering core keys off.
const (
	CategoryTapas    = "tapas"
	CategoryDrinks   = "drinks"
	TapasPackageCode = "tapas-night-package"
)

// MenuItem represents a dish or drink offered for self-ordering.
type MenuItem struct {
	ID             uuid.UUID       `json:"id" bson:"-"`
	ShortCode      string          `json:"short_code" bson:"short_code"` // Unique within menu
	Name           string          `json:"name" bson:"name"`
	Description    string          `json:"description" bson:"description"`
	Price          float64         `json:"price" bson:"price"`
	Category       string          `json:"category" bson:"category"`
	Subcategory    string          `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Allergens      []string        `json:"allergens,omitempty" bson:"allergens,omitempty"`
	Tags           []string        `json:"tags,omitempty" bson:"tags,omitempty"`
	SpiceLevel     int             `json:"spice_level,omitempty" bson:"spice_level,omitempty"`
	Featured       bool            `json:"featured" bson:"featured"`
	Available      bool            `json:"available" bson:"available"`
	DisplayOrder   int             `json:"display_order" bson:"display_order"`
	Customizations []Customization `json:"customizations,omitempty" bson:"customizations,omitempty"`
	SchemaVersion  int             `json:"schema_version" bson:"schema_version"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
}

// Customization is a group of options a guest picks from before an item
// can be added to the cart. MaxSelections 1 behaves as an exclusive choice,
// 0 means unlimited, anything larger caps the number of picks.
type Customization struct {
	ID            string                `json:"id" bson:"id"`
	Name          string                `json:"name" bson:"name"`
	Options       []CustomizationOption `json:"options" bson:"options"`
	Required      bool                  `json:"required" bson:"required"`
	MaxSelections int                   `json:"max_selections,omitempty" bson:"max_selections,omitempty"`
}

// CustomizationOption is a single pick with an additive price per unit.
type CustomizationOption struct {
	ID    string  `json:"id" bson:"id"`
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

func (m *MenuItem) GetID() uuid.UUID {
	return m.ID
}

func (m *MenuItem) SetID(id uuid.UUID) {
	m.ID = id
}

func (m *MenuItem) ResourceType() string {
	return "menu-item"
}

func (m *MenuItem) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = apt.GenerateNewID()
	}
}

func (m *MenuItem) BeforeCreate() {
	m.EnsureID()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.SchemaVersion == 0 {
		m.SchemaVersion = CurrentMenuItemSchemaVersion
	}
}

func (m *MenuItem) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}

// IsVegetarian reports whether the item carries the vegetarian tag.
func (m *MenuItem) IsVegetarian() bool {
	for _, tag := range m.Tags {
		if tag == "vegetarian" {
			return true
		}
	}
	return false
}

// IsTapasPackage reports whether this is the reserved Tapas Night package item.
func (m *MenuItem) IsTapasPackage() bool {
	return m.ShortCode == TapasPackageCode
}

// RequiresCustomization reports whether the item cannot be added without
// going through the customization flow.
func (m *MenuItem) RequiresCustomization() bool {
	return len(m.Customizations) > 0
}

// CustomizationGroup returns the group with the given id, or nil.
func (m *MenuItem) CustomizationGroup(id string) *Customization {
	for i := range m.Customizations {
		if m.Customizations[i].ID == id {
			return &m.Customizations[i]
		}
	}
	return nil
}

// Option returns the option with the given id, or nil.
func (c *Customization) Option(id string) *CustomizationOption {
	for i := range c.Options {
		if c.Options[i].ID == id {
			return &c.Options[i]
		}
	}
	return nil
}

// Snapshot returns a deep copy of the item. Cart lines own snapshots rather
// than live references because tapas-session pricing rewrites name and price.
func (m *MenuItem) Snapshot() *MenuItem {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Allergens = append([]string(nil), m.Allergens...)
	cp.Tags = append([]string(nil), m.Tags...)
	if m.Customizations != nil {
		cp.Customizations = make([]Customization, len(m.Customizations))
		for i, group := range m.Customizations {
			g := group
			g.Options = append([]CustomizationOption(nil), group.Options...)
			cp.Customizations[i] = g
		}
	}
	return &cp
}

// MarshalBSON stores the UUID as a string for readable documents.
func (m *MenuItem) MarshalBSON() ([]byte, error) {
	type Alias MenuItem
	return bson.Marshal(struct {
		ID     string `bson:"_id"`
		*Alias `bson:",inline"`
	}{
		ID:    m.ID.String(),
		Alias: (*Alias)(m),
	})
}

// UnmarshalBSON parses the string form UUID back.
func (m *MenuItem) UnmarshalBSON(data []byte) error {
	type Alias MenuItem
	aux := struct {
		ID     string `bson:"_id"`
		*Alias `bson:",inline"`
	}{
		Alias: (*Alias)(m),
	}
	if err := bson.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ID != "" {
		id, err := uuid.Parse(aux.ID)
		if err != nil {
			return fmt.Errorf("invalid UUID format for _id: %w", err)
		}
		m.ID = id
	}
	return nil
}
