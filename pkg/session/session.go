package session

import (
	"sync"
	"time"

	"github.com/vango-dev/almanac/pkg/pref"
	"github.com/vango-dev/almanac/pkg/store"
	"github.com/vango-dev/almanac/pkg/theme"
)

// Preference keys.
const (
	ModeKey = "mode"
)

// Session is one reader's state.
type Session struct {
	ID string

	// Mode is the display mode preference.
	Mode *pref.Pref[theme.Mode]

	// PenFriends is the set of followed authors.
	PenFriends *store.Store[PenFriends]

	createdAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// New creates a session with the given initial mode.
func New(id string, mode theme.Mode) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Mode:       pref.New(ModeKey, mode),
		PenFriends: store.New(PenFriends{}, store.WithEqual(PenFriends.Equal)),
		createdAt:  now,
		lastSeen:   now,
	}
}

// SetMode changes the display mode. A zero at is a local change and always
// applies; otherwise at is when the reader made the change, and a change
// older than the current mode is ignored. It reports whether the mode was
// taken.
func (s *Session) SetMode(m theme.Mode, at time.Time) bool {
	if at.IsZero() {
		s.Mode.Set(m)
		return true
	}
	return s.Mode.SetFromRemote(m, at)
}

// ToggleMode flips between light and dark and returns the new mode.
func (s *Session) ToggleMode() theme.Mode {
	return s.Mode.Update(theme.Mode.Toggle)
}

// AddPenFriend follows an author. It reports whether the set changed.
func (s *Session) AddPenFriend(name string) bool {
	before := s.PenFriends.Get()
	return !s.PenFriends.Update(func(p PenFriends) PenFriends { return p.With(name) }).Equal(before)
}

// RemovePenFriend unfollows an author. It reports whether the set changed.
func (s *Session) RemovePenFriend(name string) bool {
	before := s.PenFriends.Get()
	return !s.PenFriends.Update(func(p PenFriends) PenFriends { return p.Without(name) }).Equal(before)
}

// IsPenFriend reports whether the reader follows name.
func (s *Session) IsPenFriend(name string) bool {
	return s.PenFriends.Get().Has(name)
}

// Snapshot is the serialisable state of a session.
type Snapshot struct {
	ID            string     `json:"id"`
	Mode          theme.Mode `json:"mode"`
	ModeUpdatedAt time.Time  `json:"modeUpdatedAt"`
	PenFriends    []string   `json:"penFriends"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:            s.ID,
		Mode:          s.Mode.Get(),
		ModeUpdatedAt: s.Mode.UpdatedAt(),
		PenFriends:    s.PenFriends.Get().Names(),
	}
}

// Touch records activity.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}
