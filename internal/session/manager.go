// Package session tracks interactive sessions and their result stores.
package session

import (
	"sync"

	"github.com/google/uuid"

	"docsimplifier/internal/pipeline"
)

// Manager hands out pipeline sessions keyed by an opaque session ID. It is
// safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*pipeline.Session
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*pipeline.Session)}
}

// Get returns the session for id, creating it on first use.
func (m *Manager) Get(id string) *pipeline.Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = pipeline.NewSession()
	m.sessions[id] = s
	return s
}

// Lookup returns the session for id without creating one.
func (m *Manager) Lookup(id string) (*pipeline.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove forgets the session entirely.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// NewID mints a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}
