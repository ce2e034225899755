// Package repository keeps conversation state of the bot users in memory
// and caches scraped benchmark tables.
package repository

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

// UsersState manages the dialog state of Telegram bot users in memory.
// Entries that were not touched for longer than ttl are treated as idle
// and removed by the janitor.
type UsersState struct {
	states  map[int64]models.UserState // Состояния пользователей по userID
	mu      *sync.RWMutex              // Protects states from concurrent access
	locks   map[int64]*userLock        // Per-user serialization of read-modify-write
	locksMu sync.Mutex                 // Protects locks
	ttl     time.Duration
	now     func() time.Time
}

// userLock is removed from the map once nobody holds or waits for it.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewUsersStateMap creates a new UsersState instance with an empty buffer.
// Arguments:
//   - ttl: inactivity period after which a state is forgotten, zero keeps states forever.
//
// Returns a pointer to a UsersState.
func NewUsersStateMap(ttl time.Duration) *UsersState {
	return &UsersState{
		states: make(map[int64]models.UserState),
		mu:     &sync.RWMutex{},
		locks:  make(map[int64]*userLock),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Lock serializes transitions of a single user and returns the unlock func.
// Different users never contend for the same lock.
func (m *UsersState) Lock(userID int64) func() {
	m.locksMu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, userID)
		}
		m.locksMu.Unlock()
	}
}

// Get returns a copy of the user's state. An absent or expired entry
// yields the idle state for that user.
func (m *UsersState) Get(userID int64) models.UserState {
	m.mu.RLock()
	state, ok := m.states[userID]
	m.mu.RUnlock()
	if !ok || m.expired(state) {
		return models.UserState{UserID: userID}
	}
	return state
}

// Save stores the state and refreshes its activity timestamp.
func (m *UsersState) Save(state models.UserState) {
	state.UpdatedAt = m.now()
	m.mu.Lock()
	m.states[state.UserID] = state
	m.mu.Unlock()
}

// Clear forgets everything collected for the user.
func (m *UsersState) Clear(userID int64) {
	m.mu.Lock()
	delete(m.states, userID)
	m.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (m *UsersState) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

// EvictExpired removes states idle for longer than ttl and returns how many were removed.
func (m *UsersState) EvictExpired() int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for userID, state := range m.states {
		if m.expired(state) {
			delete(m.states, userID)
			removed++
		}
	}
	return removed
}

// RunJanitor evicts expired states every interval until ctx is done
// and reports the number of stored states.
func (m *UsersState) RunJanitor(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictExpired(); n > 0 {
				logrus.WithField("evicted", n).Debug("Expired user states removed")
			}
			metrics.StoredStates.Set(float64(m.Len()))
		}
	}
}

func (m *UsersState) expired(state models.UserState) bool {
	return m.ttl > 0 && m.now().Sub(state.UpdatedAt) > m.ttl
}
