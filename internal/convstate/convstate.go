// Package convstate tracks which free-text field the bot is currently
// waiting to receive from each user. Markers are transient: losing them
// only means the user gets re-prompted.
package convstate

import (
	"context"
	"sync"
)

// Field tags the pending free-text input for a user.
type Field string

const (
	FieldNone     Field = ""
	FieldLocation Field = "location"
	FieldStatus   Field = "status"
)

// Store is the per-user pending-field mapping. A later SetPending
// overwrites an unresolved marker (last prompt wins).
type Store interface {
	SetPending(ctx context.Context, userID int64, field Field) error
	Pending(ctx context.Context, userID int64) (Field, error)
	Clear(ctx context.Context, userID int64) error
}

// Memory is the process-local Store for single-instance deployments.
type Memory struct {
	mu      sync.Mutex
	pending map[int64]Field
}

func NewMemory() *Memory {
	return &Memory{pending: make(map[int64]Field)}
}

func (m *Memory) SetPending(_ context.Context, userID int64, field Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if field == FieldNone {
		delete(m.pending, userID)
		return nil
	}
	m.pending[userID] = field
	return nil
}

func (m *Memory) Pending(_ context.Context, userID int64) (Field, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[userID], nil
}

func (m *Memory) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, userID)
	return nil
}
