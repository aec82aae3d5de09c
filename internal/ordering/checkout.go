package ordering

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	selfevents "github.com/thewinery/selforder/internal/events"
)

// DefaultStaffCode is the fallback shared secret when none is configured.
const DefaultStaffCode = "WAITER123"

// CheckoutState is the sequencer state.
type CheckoutState string

const (
	CheckoutIdle         CheckoutState = "idle"
	CheckoutAwaitingCode CheckoutState = "awaiting_staff_code"
)

// Receipt is the confirmation surfaced to the guest after checkout.
type Receipt struct {
	OrderNumber      string  `json:"order_number"`
	TotalAmount      float64 `json:"total_amount"`
	EstimatedMinutes int     `json:"estimated_minutes,omitempty"`
}

// Checkout orchestrates cart confirmation: begin, staff code validation,
// order creation, cart clear, receipt. Cancelling at any point before a
// successful code leaves the cart exactly as it was.
type Checkout struct {
	mu        sync.Mutex
	state     CheckoutState
	cart      *Cart
	ledger    *Ledger
	staffCode string
	publisher events.Publisher
	logger    apt.Logger
}

func NewCheckout(cart *Cart, ledger *Ledger, staffCode string, publisher events.Publisher, logger apt.Logger) *Checkout {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if staffCode == "" {
		staffCode = DefaultStaffCode
	}
	return &Checkout{
		state:     CheckoutIdle,
		cart:      cart,
		ledger:    ledger,
		staffCode: staffCode,
		publisher: publisher,
		logger:    logger,
	}
}

// State returns the current sequencer state.
func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin starts a checkout. Only valid with a non-empty cart.
func (c *Checkout) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CheckoutIdle {
		return ErrCheckoutInProgress
	}
	if c.cart.Empty() {
		return ErrEmptyCart
	}
	c.state = CheckoutAwaitingCode
	return nil
}

// SubmitStaffCode validates the staff code. On mismatch the sequencer stays
// in the awaiting state and the caller surfaces a validation error. On match
// the order is recorded, the cart cleared and a receipt returned, all in the
// same synchronous step.
func (c *Checkout) SubmitStaffCode(ctx context.Context, code string) (*Receipt, error) {
	c.mu.Lock()
	if c.state != CheckoutAwaitingCode {
		c.mu.Unlock()
		return nil, ErrCheckoutNotStarted
	}
	if c.cart.Empty() {
		// Cart was cleared out from under the checkout; nothing to record.
		c.state = CheckoutIdle
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if !strings.EqualFold(strings.TrimSpace(code), c.staffCode) {
		c.mu.Unlock()
		return nil, ErrInvalidStaffCode
	}

	lines := c.cart.Lines()
	totals := ComputeTotals(lines)
	order := c.ledger.Record(lines, totals)
	c.cart.Clear()
	c.state = CheckoutIdle
	c.mu.Unlock()

	c.publishConfirmed(ctx, order)

	return &Receipt{
		OrderNumber:      order.OrderNumber,
		TotalAmount:      order.TotalAmount,
		EstimatedMinutes: order.EstimatedMinutes,
	}, nil
}

// Cancel abandons the checkout, leaving the cart untouched.
func (c *Checkout) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CheckoutAwaitingCode {
		return ErrCheckoutNotStarted
	}
	c.state = CheckoutIdle
	return nil
}

func (c *Checkout) publishConfirmed(ctx context.Context, order *Order) {
	if c.publisher == nil {
		return
	}

	event := selfevents.OrderConfirmedEvent{
		EventType:   selfevents.EventOrderConfirmed,
		OccurredAt:  time.Now(),
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("cannot marshal order confirmed event", "error", err)
		return
	}
	if err := c.publisher.Publish(ctx, selfevents.OrdersConfirmedTopic, payload); err != nil {
		// Best effort: the order is already recorded locally.
		c.logger.Error("cannot publish order confirmed event", "error", err)
	}
}
