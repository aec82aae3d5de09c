package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/thewinery/selforder/internal/ordering"
)

const CurrentStateSchemaVersion = 1

// FileStore is the device-local persistence adapter: a single JSON file
// holding versioned records for cart, order history and tapas session.
// Records are explicit typed schemas so timestamps rehydrate through the
// decoder instead of being patched up from raw blobs. Writes are
// synchronous. The store assumes a single owning process; concurrent
// writers would be last-write-wins.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger apt.Logger
	now    func() time.Time
}

type stateFile struct {
	SchemaVersion int            `json:"schema_version"`
	Cart          *cartRecord    `json:"cart,omitempty"`
	Orders        *ordersRecord  `json:"orders,omitempty"`
	Session       *sessionRecord `json:"session,omitempty"`
}

type cartRecord struct {
	SchemaVersion int                  `json:"schema_version"`
	SavedAt       time.Time            `json:"saved_at"`
	Lines         []*ordering.CartLine `json:"lines"`
}

type ordersRecord struct {
	SchemaVersion int               `json:"schema_version"`
	SavedAt       time.Time         `json:"saved_at"`
	Orders        []*ordering.Order `json:"orders"`
}

type sessionRecord struct {
	SchemaVersion int                    `json:"schema_version"`
	SavedAt       time.Time              `json:"saved_at"`
	Session       *ordering.TapasSession `json:"session"`
}

func NewFileStore(path string, logger apt.Logger) *FileStore {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &FileStore{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// SaveCart mirrors the cart lines.
func (s *FileStore) SaveCart(lines []*ordering.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Cart = &cartRecord{
		SchemaVersion: CurrentStateSchemaVersion,
		SavedAt:       s.now(),
		Lines:         lines,
	}
	return s.save(state)
}

// LoadCart returns the persisted cart lines, nil when none are stored.
func (s *FileStore) LoadCart() ([]*ordering.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if state.Cart == nil {
		return nil, nil
	}
	return state.Cart.Lines, nil
}

// ClearCart removes the stored cart entry. An empty cart is never stored
// as an empty list.
func (s *FileStore) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state.Cart == nil {
		return nil
	}
	state.Cart = nil
	return s.save(state)
}

// SaveOrders mirrors the whole order history.
func (s *FileStore) SaveOrders(orders []*ordering.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Orders = &ordersRecord{
		SchemaVersion: CurrentStateSchemaVersion,
		SavedAt:       s.now(),
		Orders:        orders,
	}
	return s.save(state)
}

// LoadOrders returns the persisted history, most recent first.
func (s *FileStore) LoadOrders() ([]*ordering.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if state.Orders == nil {
		return nil, nil
	}
	return state.Orders.Orders, nil
}

// AddOrder prepends a single order to the persisted history.
func (s *FileStore) AddOrder(order *ordering.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	record := state.Orders
	if record == nil {
		record = &ordersRecord{SchemaVersion: CurrentStateSchemaVersion}
	}
	record.SavedAt = s.now()
	record.Orders = append([]*ordering.Order{order}, record.Orders...)
	state.Orders = record
	return s.save(state)
}

// RemoveOrder deletes one order from the persisted history by id.
func (s *FileStore) RemoveOrder(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state.Orders == nil {
		return nil
	}
	orders := state.Orders.Orders
	for i, order := range orders {
		if order.ID == id {
			state.Orders.Orders = append(orders[:i], orders[i+1:]...)
			state.Orders.SavedAt = s.now()
			return s.save(state)
		}
	}
	return nil
}

// SaveSession mirrors the tapas session; nil clears it.
func (s *FileStore) SaveSession(session *ordering.TapasSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if session == nil {
		if state.Session == nil {
			return nil
		}
		state.Session = nil
	} else {
		state.Session = &sessionRecord{
			SchemaVersion: CurrentStateSchemaVersion,
			SavedAt:       s.now(),
			Session:       session,
		}
	}
	return s.save(state)
}

// LoadSession returns the persisted session. A session whose end time is
// already in the past is purged and reported as absent, never resurrected.
func (s *FileStore) LoadSession() (*ordering.TapasSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if state.Session == nil || state.Session.Session == nil {
		return nil, nil
	}

	session := state.Session.Session
	if session.Expired(s.now()) {
		state.Session = nil
		if err := s.save(state); err != nil {
			s.logger.Error("cannot purge expired session record", "error", err)
		}
		return nil, nil
	}
	return session, nil
}

func (s *FileStore) load() (*stateFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &stateFile{SchemaVersion: CurrentStateSchemaVersion}, nil
		}
		return nil, fmt.Errorf("cannot read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("cannot decode state file: %w", err)
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentStateSchemaVersion
	}
	return &state, nil
}

// save writes through a temp file and renames, so a crash mid-write never
// leaves a truncated state file behind.
func (s *FileStore) save(state *stateFile) error {
	state.SchemaVersion = CurrentStateSchemaVersion
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode state file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("cannot create state directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cannot write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("cannot replace state file: %w", err)
	}
	return nil
}
