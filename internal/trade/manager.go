package trade

import (
	"log/slog"
	"sync"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/enc"
)

// Manager hands out trade sessions keyed by id, one per open dialog. Unknown
// ids get a fresh session; Close detaches and forgets the session without
// cancelling any in-flight submission.
type Manager struct {
	writer  ContractWriter
	backend enc.Backend
	trades  domain.TradeStore
	bus     domain.SignalBus
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager. trades and bus may be nil.
func NewManager(writer ContractWriter, backend enc.Backend, trades domain.TradeStore, bus domain.SignalBus, logger *slog.Logger) *Manager {
	return &Manager{
		writer:   writer,
		backend:  backend,
		trades:   trades,
		bus:      bus,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session with the given id, creating one when the id is
// empty or unknown.
func (m *Manager) Session(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}

	s := NewSession(m.writer, m.backend, m.trades, m.bus, m.logger)
	m.sessions[s.ID()] = s
	return s
}

// Close detaches and forgets a session. An in-flight submission keeps running
// and its outcome is still recorded and published.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.Close()
		delete(m.sessions, id)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
