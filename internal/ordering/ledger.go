package ordering

import (
	"math/rand"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const CurrentOrderSchemaVersion = 1

// Order statuses. This core only ever produces "confirmed"; the later
// states exist for consumers that track preparation downstream.
const (
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
)

const DefaultEstimatedMinutes = 20

// Order is an immutable record of a confirmed checkout: a frozen snapshot
// of the cart lines plus the totals as computed at confirmation time.
type Order struct {
	ID               uuid.UUID   `json:"id"`
	OrderNumber      string      `json:"order_number"`
	Items            []*CartLine `json:"items"`
	Subtotal         float64     `json:"subtotal"`
	ServiceCharge    float64     `json:"service_charge"`
	GST              float64     `json:"gst"`
	TotalAmount      float64     `json:"total_amount"`
	Timestamp        time.Time   `json:"timestamp"`
	Status           string      `json:"status"`
	EstimatedMinutes int         `json:"estimated_minutes,omitempty"`
	SchemaVersion    int         `json:"schema_version"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func (o *Order) ResourceType() string {
	return "order"
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const orderNumberLength = 8

// NewOrderNumber generates a short human-scannable code for staff callouts.
// Uniqueness is not checked; the history is device-local and short-lived.
func NewOrderNumber() string {
	code := make([]byte, orderNumberLength)
	for i := range code {
		code[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return string(code)
}

// Ledger is the per-device history of placed orders, most recent first.
// Orders are never mutated after recording.
type Ledger struct {
	mu               sync.Mutex
	orders           []*Order
	store            Store
	logger           apt.Logger
	estimatedMinutes int
	now              func() time.Time
}

func NewLedger(store Store, estimatedMinutes int, logger apt.Logger) *Ledger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if estimatedMinutes <= 0 {
		estimatedMinutes = DefaultEstimatedMinutes
	}
	return &Ledger{
		store:            store,
		logger:           logger,
		estimatedMinutes: estimatedMinutes,
		now:              time.Now,
	}
}

// Record freezes the supplied lines and totals into a new confirmed order
// and prepends it to the history. The lines are deep-copied so later cart
// mutations cannot reach the recorded snapshot.
func (l *Ledger) Record(lines []*CartLine, totals Totals) *Order {
	items := make([]*CartLine, len(lines))
	for i, line := range lines {
		items[i] = line.Clone()
	}

	order := &Order{
		ID:               apt.GenerateNewID(),
		OrderNumber:      NewOrderNumber(),
		Items:            items,
		Subtotal:         totals.Subtotal,
		ServiceCharge:    totals.ServiceCharge,
		GST:              totals.GST,
		TotalAmount:      totals.Total,
		Timestamp:        l.now(),
		Status:           StatusConfirmed,
		EstimatedMinutes: l.estimatedMinutes,
		SchemaVersion:    CurrentOrderSchemaVersion,
	}

	l.mu.Lock()
	l.orders = append([]*Order{order}, l.orders...)
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.AddOrder(order); err != nil {
			l.logger.Error("cannot persist order", "order_number", order.OrderNumber, "error", err)
		}
	}

	l.logger.Info("order recorded",
		"order_number", order.OrderNumber,
		"items", len(order.Items),
		"total", order.TotalAmount)
	return order
}

// Delete removes an order from the history by identity.
func (l *Ledger) Delete(id uuid.UUID) error {
	l.mu.Lock()
	found := false
	for i, order := range l.orders {
		if order.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			found = true
			break
		}
	}
	l.mu.Unlock()

	if !found {
		return ErrOrderNotFound
	}
	if l.store != nil {
		if err := l.store.RemoveOrder(id); err != nil {
			l.logger.Error("cannot remove persisted order", "order_id", id.String(), "error", err)
		}
	}
	return nil
}

// Orders returns the history, most recent first.
func (l *Ledger) Orders() []*Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Order(nil), l.orders...)
}

// Order returns a recorded order by id.
func (l *Ledger) Order(id uuid.UUID) (*Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, order := range l.orders {
		if order.ID == id {
			return order, true
		}
	}
	return nil, false
}

// Reorder materializes fresh cart lines from a recorded order's snapshot.
// Each line gets a new identifier so it cannot collide with lines already
// in the live cart; the order itself is left untouched. The caller appends
// the result to the cart and switches the view back to the menu.
func (l *Ledger) Reorder(id uuid.UUID) ([]*CartLine, error) {
	order, ok := l.Order(id)
	if !ok {
		return nil, ErrOrderNotFound
	}

	lines := make([]*CartLine, len(order.Items))
	for i, item := range order.Items {
		lines[i] = item.CloneWithNewID()
	}
	return lines, nil
}

// Restore rehydrates the history from the persistence adapter.
func (l *Ledger) Restore() error {
	if l.store == nil {
		return nil
	}
	orders, err := l.store.LoadOrders()
	if err != nil {
		l.logger.Error("cannot restore orders", "error", err)
		return nil
	}
	if len(orders) == 0 {
		return nil
	}

	l.mu.Lock()
	l.orders = orders
	l.mu.Unlock()
	l.logger.Info("order history restored", "orders", len(orders))
	return nil
}
