package cart

import (
	"sync"

	"github.com/drcalc/drcalc-backend/pkg/enums"
)

// Manager holds one independent ledger per operation mode. Switching
// modes never leaks cart contents between catalogs.
type Manager struct {
	mu      sync.Mutex
	ledgers map[enums.OperationMode]*Ledger
}

func NewManager() *Manager {
	return &Manager{ledgers: make(map[enums.OperationMode]*Ledger)}
}

// Ledger returns the mode's ledger, creating it on first use.
func (m *Manager) Ledger(mode enums.OperationMode) *Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[mode]
	if !ok {
		l = NewLedger()
		m.ledgers[mode] = l
	}
	return l
}

// Reset clears the mode's ledger.
func (m *Manager) Reset(mode enums.OperationMode) {
	m.Ledger(mode).Clear()
}
