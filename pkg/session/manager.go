package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/almanac/pkg/theme"
)

// ErrClosed is returned by a Manager after Close.
var ErrClosed = errors.New("session: manager closed")

// ErrLimit is returned by Create when MaxSessions is reached.
var ErrLimit = errors.New("session: too many sessions")

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	idleTTL         time.Duration
	cleanupInterval time.Duration
	maxSessions     int
	logger          *slog.Logger
	onCountChange   func(int)
}

// WithIdleTTL sets how long an untouched session survives. Default: 30 minutes.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(c *managerConfig) {
		c.idleTTL = d
	}
}

// WithCleanupInterval sets how often idle sessions are swept. Default: 1 minute.
func WithCleanupInterval(d time.Duration) ManagerOption {
	return func(c *managerConfig) {
		c.cleanupInterval = d
	}
}

// WithMaxSessions caps concurrent sessions. Zero means no limit.
func WithMaxSessions(n int) ManagerOption {
	return func(c *managerConfig) {
		c.maxSessions = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = l
	}
}

// WithCountHook is called with the session count after every change.
func WithCountHook(fn func(int)) ManagerOption {
	return func(c *managerConfig) {
		c.onCountChange = fn
	}
}

// Manager keeps sessions in memory.
type Manager struct {
	cfg managerConfig

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a manager and starts its cleanup loop. Call Close to
// stop it.
func NewManager(opts ...ManagerOption) *Manager {
	cfg := managerConfig{
		idleTTL:         30 * time.Minute,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	cfg.logger = cfg.logger.With("component", "session")

	m := &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.cleanupLoop()
	return m
}

// Create starts a new session.
func (m *Manager) Create(mode theme.Mode) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if m.cfg.maxSessions > 0 && len(m.sessions) >= m.cfg.maxSessions {
		m.mu.Unlock()
		return nil, ErrLimit
	}
	s := New(uuid.NewString(), mode)
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.cfg.logger.Debug("session created", "session", s.ID)
	m.countChanged(n)
	return s, nil
}

// Get returns the session with id and marks it active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	closed := m.closed
	m.mu.RUnlock()
	if !ok || closed {
		return nil, false
	}
	s.Touch(time.Now())
	return s, true
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if ok {
		m.countChanged(n)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup loop and drops every session.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.wg.Wait()
	m.countChanged(0)
	return nil
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.sweep(now)
		case <-m.done:
			return
		}
	}
}

// sweep drops sessions idle since before now - idleTTL.
func (m *Manager) sweep(now time.Time) int {
	cutoff := now.Add(-m.cfg.idleTTL)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		m.cfg.logger.Debug("idle sessions expired", "count", len(expired))
		m.countChanged(n)
	}
	return len(expired)
}

func (m *Manager) countChanged(n int) {
	if m.cfg.onCountChange != nil {
		m.cfg.onCountChange(n)
	}
}
