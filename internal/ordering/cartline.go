package ordering

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/thewinery/selforder/internal/menu"
)

// CartLine is one add-to-cart action: an owned menu item snapshot, a
// quantity and the selected customizations. Identical items added twice
// stay two distinct lines, there is no merging.
type CartLine struct {
	ID             uuid.UUID           `json:"id"`
	MenuItem       *menu.MenuItem      `json:"menu_item"`
	Quantity       int                 `json:"quantity"`
	Customizations map[string][]string `json:"customizations"`
	TotalPrice     float64             `json:"total_price"`
	CreatedAt      time.Time           `json:"created_at"`
}

// NewCartLine builds a plain priced line from an item snapshot.
func NewCartLine(item *menu.MenuItem, quantity int) *CartLine {
	return &CartLine{
		ID:             apt.GenerateNewID(),
		MenuItem:       item.Snapshot(),
		Quantity:       quantity,
		Customizations: map[string][]string{},
		TotalPrice:     item.Price * float64(quantity),
		CreatedAt:      time.Now(),
	}
}

// NewFreeTapasLine builds a zero-priced line for a tapas item ordered while
// a tapas session is active. The snapshot is renamed so receipts and the
// kitchen see the session context, and any customization requirement is
// bypassed.
func NewFreeTapasLine(item *menu.MenuItem, quantity int) *CartLine {
	snapshot := item.Snapshot()
	snapshot.Name = fmt.Sprintf("%s (Tapas Night)", snapshot.Name)
	snapshot.Price = 0

	return &CartLine{
		ID:             apt.GenerateNewID(),
		MenuItem:       snapshot,
		Quantity:       quantity,
		Customizations: map[string][]string{},
		TotalPrice:     0,
		CreatedAt:      time.Now(),
	}
}

// NewCustomizedLine builds a line from the customization flow. The price is
// supplied by the caller, already computed and validated by the selection
// rules.
func NewCustomizedLine(item *menu.MenuItem, quantity int, selections Selection, totalPrice float64) *CartLine {
	return &CartLine{
		ID:             apt.GenerateNewID(),
		MenuItem:       item.Snapshot(),
		Quantity:       quantity,
		Customizations: selections.clone(),
		TotalPrice:     totalPrice,
		CreatedAt:      time.Now(),
	}
}

// Rescale changes the quantity and adjusts the total proportionally,
// preserving the per-unit price established when the line was created.
// Customizations are not re-validated after the initial add.
func (l *CartLine) Rescale(quantity int) {
	if l.Quantity > 0 {
		l.TotalPrice = (l.TotalPrice / float64(l.Quantity)) * float64(quantity)
	}
	l.Quantity = quantity
}

// UnitPrice is the effective per-unit price of the line.
func (l *CartLine) UnitPrice() float64 {
	if l.Quantity == 0 {
		return 0
	}
	return l.TotalPrice / float64(l.Quantity)
}

// Clone deep-copies the line keeping its identity. Order snapshots use it
// so later cart mutations cannot reach into recorded history.
func (l *CartLine) Clone() *CartLine {
	cp := *l
	cp.MenuItem = l.MenuItem.Snapshot()
	cp.Customizations = make(map[string][]string, len(l.Customizations))
	for group, options := range l.Customizations {
		cp.Customizations[group] = append([]string(nil), options...)
	}
	return &cp
}

// CloneWithNewID deep-copies the line under a fresh identifier. Reordering
// uses it so re-materialized lines never collide with lines already in the
// live cart.
func (l *CartLine) CloneWithNewID() *CartLine {
	cp := l.Clone()
	cp.ID = apt.GenerateNewID()
	cp.CreatedAt = time.Now()
	return cp
}
