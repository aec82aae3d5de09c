package ordering

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	selfevents "github.com/thewinery/selforder/internal/events"
)

const (
	DefaultSessionMinutes = 120
	MinPartySize          = 1
	MaxPartySize          = 12
)

// TapasSession is the time-boxed unlimited-tapas mode. At most one session
// is active in the process at a time.
type TapasSession struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"start_time"`
	Duration  int       `json:"duration"` // minutes
	PartySize int       `json:"party_size"`
	Active    bool      `json:"active"`
}

// EndTime is the instant the session expires.
func (s *TapasSession) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Minute)
}

// Remaining reports how much session time is left at the given instant,
// never negative.
func (s *TapasSession) Remaining(now time.Time) time.Duration {
	remaining := s.EndTime().Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the session has run out at the given instant.
func (s *TapasSession) Expired(now time.Time) bool {
	return !now.Before(s.EndTime())
}

// SessionManager owns the single active tapas session. Expiry is a single
// scheduled wake-up at the known end instant; live countdown displays poll
// Remaining instead. The manager is passed explicitly to whoever composes
// the cart and checkout, it is not an ambient global.
type SessionManager struct {
	mu        sync.Mutex
	current   *TapasSession
	minutes   int
	store     Store
	publisher events.Publisher
	logger    apt.Logger
	now       func() time.Time
	timer     *time.Timer
	onEnd     []func(*TapasSession)
}

func NewSessionManager(store Store, publisher events.Publisher, minutes int, logger apt.Logger) *SessionManager {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if minutes <= 0 {
		minutes = DefaultSessionMinutes
	}
	return &SessionManager{
		minutes:   minutes,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// OnEnd registers a callback fired whenever a session ends, whether by
// explicit end or automatic expiry.
func (m *SessionManager) OnEnd(fn func(*TapasSession)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, fn)
}

// Start begins a session for the given party size. A session already in
// progress is replaced; confirming the package again restarts the clock.
func (m *SessionManager) Start(ctx context.Context, partySize int) (*TapasSession, error) {
	if partySize < MinPartySize || partySize > MaxPartySize {
		return nil, ErrInvalidPartySize
	}

	m.mu.Lock()
	if m.current != nil {
		m.logger.Info("replacing active tapas session", "session_id", m.current.ID.String())
	}

	session := &TapasSession{
		ID:        apt.GenerateNewID(),
		StartTime: m.now(),
		Duration:  m.minutes,
		PartySize: partySize,
		Active:    true,
	}
	m.current = session
	m.persistLocked()
	m.scheduleExpiryLocked()
	snapshot := *session
	m.mu.Unlock()

	m.publish(ctx, selfevents.EventSessionStarted, &snapshot)
	m.logger.Info("tapas session started",
		"session_id", snapshot.ID.String(),
		"party_size", snapshot.PartySize,
		"duration_minutes", snapshot.Duration)
	return &snapshot, nil
}

// Current returns a copy of the active session, or nil.
func (m *SessionManager) Current() *TapasSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	snapshot := *m.current
	return &snapshot
}

// Active reports whether a session is currently running.
func (m *SessionManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.Active
}

// Remaining reports the time left in the active session, zero when none.
func (m *SessionManager) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0
	}
	return m.current.Remaining(m.now())
}

// End terminates the active session on user request.
func (m *SessionManager) End(ctx context.Context) error {
	return m.end(ctx, selfevents.EventSessionEnded, false, uuid.Nil)
}

// Restore rehydrates a persisted session. The store already purges expired
// records on load; anything it returns gets its expiry wake-up rescheduled.
func (m *SessionManager) Restore() error {
	if m.store == nil {
		return nil
	}

	session, err := m.store.LoadSession()
	if err != nil {
		m.logger.Error("cannot restore tapas session", "error", err)
		return nil
	}
	if session == nil {
		return nil
	}
	if session.Expired(m.now()) {
		// Never resurrect an expired session.
		if err := m.store.SaveSession(nil); err != nil {
			m.logger.Error("cannot purge expired tapas session", "error", err)
		}
		return nil
	}

	m.mu.Lock()
	m.current = session
	m.scheduleExpiryLocked()
	m.mu.Unlock()

	m.logger.Info("tapas session restored",
		"session_id", session.ID.String(),
		"remaining", session.Remaining(m.now()).String())
	return nil
}

// Stop releases the expiry timer. Wired as a lifecycle hook.
func (m *SessionManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	return nil
}

// end tears down the active session. A non-nil id restricts the teardown
// to that specific session so a stale expiry timer cannot kill a
// replacement started after it was armed.
func (m *SessionManager) end(ctx context.Context, eventType string, expired bool, id uuid.UUID) error {
	m.mu.Lock()
	session := m.current
	if session == nil || (id != uuid.Nil && session.ID != id) {
		m.mu.Unlock()
		return ErrNoActiveSession
	}

	session.Active = false
	m.current = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.store != nil {
		if err := m.store.SaveSession(nil); err != nil {
			m.logger.Error("cannot clear persisted tapas session", "error", err)
		}
	}
	var callbacks []func(*TapasSession)
	callbacks = append(callbacks, m.onEnd...)
	snapshot := *session
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(&snapshot)
	}

	m.publish(ctx, eventType, &snapshot)
	if expired {
		m.logger.Info("tapas session expired", "session_id", snapshot.ID.String())
	} else {
		m.logger.Info("tapas session ended", "session_id", snapshot.ID.String())
	}
	return nil
}

// scheduleExpiryLocked arms a single wake-up at the session end instant.
func (m *SessionManager) scheduleExpiryLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	session := m.current
	until := session.EndTime().Sub(m.now())
	if until < 0 {
		until = 0
	}
	id := session.ID
	m.timer = time.AfterFunc(until, func() {
		m.expire(id)
	})
}

func (m *SessionManager) expire(id uuid.UUID) {
	if err := m.end(context.Background(), selfevents.EventSessionEnded, true, id); err != nil {
		// Session already ended or replaced before the timer fired.
		m.logger.Debug("stale session expiry ignored", "session_id", id.String())
	}
}

func (m *SessionManager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.SaveSession(m.current); err != nil {
		m.logger.Error("cannot persist tapas session", "error", err)
	}
}

func (m *SessionManager) publish(ctx context.Context, eventType string, session *TapasSession) {
	if m.publisher == nil {
		return
	}

	event := selfevents.SessionEvent{
		EventType:        eventType,
		OccurredAt:       m.now(),
		SessionID:        session.ID.String(),
		PartySize:        session.PartySize,
		RemainingSeconds: int(session.Remaining(m.now()).Seconds()),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("cannot marshal session event", "error", err)
		return
	}
	if err := m.publisher.Publish(ctx, selfevents.TapasSessionsTopic, payload); err != nil {
		// Best effort: event delivery never blocks the session state machine.
		m.logger.Error("cannot publish session event", "error", err)
	}
}
