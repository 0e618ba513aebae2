package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mysterygames/dialog-engine/pkg/session"
)

// RedisStore implements SessionStore using Redis. Session snapshots are
// stored as JSON values, the session log as a JSON list per session.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStore implements SessionStore interface
var _ SessionStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis session store. Sessions and logs expire
// together after ttl of inactivity.
func NewRedisStore(redisURL string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func sessionLogKey(id string) string {
	return "sessionlog:" + id
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) GetSession(ctx context.Context, id string) (*session.Session, error) {
	cmd := r.client.Get(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(cmd.Val()), &s); err != nil {
		r.logger.Error("Failed to unmarshal session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) PutSession(ctx context.Context, s session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", s.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(s.ID), string(data), r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "session_id", s.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) AppendLog(ctx context.Context, entry session.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	key := sessionLogKey(entry.SessionID)
	if err := r.client.RPush(ctx, key, string(data)).Err(); err != nil {
		r.logger.Error("Failed to append session log", "session_id", entry.SessionID, "error", err)
		return fmt.Errorf("failed to append session log: %w", err)
	}
	// keep the log alive as long as the session
	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		r.logger.Warn("Failed to refresh session log TTL", "session_id", entry.SessionID, "error", err)
	}
	return nil
}

func (r *RedisStore) SessionLog(ctx context.Context, sessionID string) ([]session.LogEntry, error) {
	vals, err := r.client.LRange(ctx, sessionLogKey(sessionID), 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to load session log", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to load session log: %w", err)
	}

	entries := make([]session.LogEntry, 0, len(vals))
	for _, v := range vals {
		var entry session.LogEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisStore) ClearLog(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionLogKey(sessionID)).Err(); err != nil {
		r.logger.Error("Failed to clear session log", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to clear session log: %w", err)
	}
	return nil
}
