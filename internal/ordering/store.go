package ordering

import "github.com/google/uuid"

// Store is the durable device-local persistence adapter mirrored after every
// mutation. Implementations are synchronous; callers treat every error as
// fail-soft (log and continue, in-memory state stays authoritative).
type Store interface {
	SaveCart(lines []*CartLine) error
	LoadCart() ([]*CartLine, error)
	ClearCart() error

	SaveOrders(orders []*Order) error
	LoadOrders() ([]*Order, error)
	AddOrder(order *Order) error
	RemoveOrder(id uuid.UUID) error

	// SaveSession with nil clears the persisted session. LoadSession
	// rehydrates timestamps and must never return an already expired
	// session: expired records are purged and reported as absent.
	SaveSession(session *TapasSession) error
	LoadSession() (*TapasSession, error)
}
