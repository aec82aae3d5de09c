package ordering

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing
type MockStore struct {
	mu      sync.Mutex
	cart    []*CartLine
	orders  []*Order
	session *TapasSession

	SaveCartFunc    func(lines []*CartLine) error
	SaveSessionFunc func(session *TapasSession) error
	AddOrderFunc    func(order *Order) error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SaveCart(lines []*CartLine) error {
	if m.SaveCartFunc != nil {
		return m.SaveCartFunc(lines)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = append([]*CartLine(nil), lines...)
	return nil
}

func (m *MockStore) LoadCart() ([]*CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*CartLine(nil), m.cart...), nil
}

func (m *MockStore) ClearCart() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = nil
	return nil
}

func (m *MockStore) SaveOrders(orders []*Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append([]*Order(nil), orders...)
	return nil
}

func (m *MockStore) LoadOrders() ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Order(nil), m.orders...), nil
}

func (m *MockStore) AddOrder(order *Order) error {
	if m.AddOrderFunc != nil {
		return m.AddOrderFunc(order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append([]*Order{order}, m.orders...)
	return nil
}

func (m *MockStore) RemoveOrder(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.orders {
		if o.ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStore) SaveSession(session *TapasSession) error {
	if m.SaveSessionFunc != nil {
		return m.SaveSessionFunc(session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
	return nil
}

func (m *MockStore) LoadSession() (*TapasSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MockStore) StoredSession() *TapasSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu        sync.Mutex
	published []publishedMsg

	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type publishedMsg struct {
	topic string
	data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedMsg{topic: topic, data: msg})
	return nil
}

func (m *MockPublisher) Published() []publishedMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedMsg(nil), m.published...)
}
