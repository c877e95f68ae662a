// Package session holds the per-operator mutable state that the original
// handlers kept in ambient context: the daily-mode flag, the undo slot, and
// the last task list. State is explicit and keyed by operator identity.
package session

import (
	"sync"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/task"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/undo"
)

// Session is the state of one operator.
type Session struct {
	mu          sync.Mutex
	dailyMode   bool
	lastCapture *undo.Record
	lastTasks   []task.Location
}

// DailyMode reports whether captures are routed to the daily note.
func (s *Session) DailyMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyMode
}

// SetDailyMode sets the daily-mode flag.
func (s *Session) SetDailyMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyMode = on
}

// ToggleDailyMode flips the daily-mode flag and returns the new value.
func (s *Session) ToggleDailyMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyMode = !s.dailyMode
	return s.dailyMode
}

// SetLastCapture overwrites the undo slot. Every successful capture calls
// this, replacing whatever was there.
func (s *Session) SetLastCapture(rec *undo.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCapture = rec
}

// TakeLastCapture returns the undo record and clears the slot. Undo is
// single-use: the slot empties regardless of what the caller does next.
func (s *Session) TakeLastCapture() *undo.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.lastCapture
	s.lastCapture = nil
	return rec
}

// SetTaskList stores the most recent task listing for /done N lookups.
func (s *Session) SetTaskList(tasks []task.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTasks = tasks
}

// TaskList returns the cached task listing, or nil when none was produced.
func (s *Session) TaskList() []task.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTasks
}

// TaskAt returns the task at the given 1-based index from the cached list.
func (s *Session) TaskAt(n int) (task.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > len(s.lastTasks) {
		return task.Location{}, false
	}
	return s.lastTasks[n-1], true
}

// Store maps operator IDs to their sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session for the operator, creating it on first use.
func (s *Store) Get(operatorID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[operatorID]
	if !ok {
		sess = &Session{}
		s.sessions[operatorID] = sess
	}
	return sess
}
