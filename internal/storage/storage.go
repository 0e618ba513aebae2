package storage

import (
	"context"

	"github.com/mysterygames/dialog-engine/pkg/session"
)

// SessionStore defines persistence for session snapshots and the
// append-only session log.
type SessionStore interface {
	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// GetSession retrieves a session snapshot by id.
	// Returns nil, nil if the session doesn't exist.
	GetSession(ctx context.Context, id string) (*session.Session, error)

	// PutSession saves a session snapshot.
	PutSession(ctx context.Context, s session.Session) error

	// AppendLog appends one entry to the session log.
	AppendLog(ctx context.Context, entry session.LogEntry) error

	// SessionLog returns all log entries for a session in append order.
	SessionLog(ctx context.Context, sessionID string) ([]session.LogEntry, error)

	// ClearLog removes the session log for a session.
	ClearLog(ctx context.Context, sessionID string) error
}
