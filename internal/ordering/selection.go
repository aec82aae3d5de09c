package ordering

import (
	"fmt"

	"github.com/thewinery/selforder/internal/menu"
)

// Selection maps customization group ids to the chosen option ids. Insertion
// order within a group is irrelevant.
type Selection map[string][]string

// Toggle flips an option in a group following the selection rules:
// picking an already selected option removes it; in a single-select group
// (MaxSelections 1) a new pick replaces the previous one; in a capped group
// picks beyond the cap are silent no-ops.
func (s Selection) Toggle(group *menu.Customization, optionID string) {
	current := s[group.ID]

	for i, id := range current {
		if id == optionID {
			s[group.ID] = append(current[:i:i], current[i+1:]...)
			return
		}
	}

	switch {
	case group.MaxSelections == 1:
		s[group.ID] = []string{optionID}
	case group.MaxSelections > 1 && len(current) >= group.MaxSelections:
		// At the cap, ignore.
	default:
		s[group.ID] = append(current, optionID)
	}
}

// Validate checks that every required group has at least one selected option.
func (s Selection) Validate(item *menu.MenuItem) error {
	for _, group := range item.Customizations {
		if !group.Required {
			continue
		}
		if len(s[group.ID]) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingRequiredChoice, group.Name)
		}
	}
	return nil
}

// Price computes the line total for the item at the given quantity:
// unit price plus every selected option's additive price, each per unit.
// The Tapas Night package is priced at the package price per head
// regardless of selections.
func (s Selection) Price(item *menu.MenuItem, quantity int) float64 {
	total := item.Price * float64(quantity)
	if item.IsTapasPackage() {
		return total
	}

	for _, group := range item.Customizations {
		for _, optionID := range s[group.ID] {
			if option := group.Option(optionID); option != nil {
				total += option.Price * float64(quantity)
			}
		}
	}
	return total
}

func (s Selection) clone() map[string][]string {
	cp := make(map[string][]string, len(s))
	for group, options := range s {
		cp[group] = append([]string(nil), options...)
	}
	return cp
}
