package storage

import (
	"context"
	"sync"

	"github.com/mysterygames/dialog-engine/pkg/session"
)

// MockStore is an in-memory SessionStore for testing.
type MockStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	logs     map[string][]session.LogEntry

	// PutErr, when set, is returned by PutSession to simulate store failures.
	PutErr error
}

var _ SessionStore = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		sessions: make(map[string]session.Session),
		logs:     make(map[string][]session.LogEntry),
	}
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }
func (m *MockStore) Close() error                   { return nil }

func (m *MockStore) GetSession(ctx context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MockStore) PutSession(ctx context.Context, s session.Session) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MockStore) AppendLog(ctx context.Context, entry session.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[entry.SessionID] = append(m.logs[entry.SessionID], entry)
	return nil
}

func (m *MockStore) SessionLog(ctx context.Context, sessionID string) ([]session.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.LogEntry(nil), m.logs[sessionID]...), nil
}

func (m *MockStore) ClearLog(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, sessionID)
	return nil
}

// PutCount returns how many sessions are stored. Test helper.
func (m *MockStore) PutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
