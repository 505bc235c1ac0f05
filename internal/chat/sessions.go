package chat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager holds one Orchestrator per session so front ends can serve
// independent concurrent conversations. Safe for concurrent use.
type Manager struct {
	factory func() *Orchestrator

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Orchestrator
}

// NewManager creates a session manager. factory builds a fresh
// orchestrator for each new session.
func NewManager(factory func() *Orchestrator) *Manager {
	return &Manager{
		factory:  factory,
		sessions: make(map[uuid.UUID]*Orchestrator),
	}
}

// Create starts a new session and returns its ID and orchestrator.
func (m *Manager) Create() (uuid.UUID, *Orchestrator) {
	id := uuid.New()
	orch := m.factory()

	m.mu.Lock()
	m.sessions[id] = orch
	m.mu.Unlock()

	return id, orch
}

// Get returns the orchestrator for a session.
func (m *Manager) Get(id uuid.UUID) (*Orchestrator, error) {
	m.mu.RLock()
	orch, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown session %s", ErrInvalidInput, id)
	}
	return orch, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
