// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Manager keeps active sessions in redis, keyed by identity and JTI. Redis is
// the source of truth: a token whose session is gone is no longer valid, so
// logout takes effect immediately even before the JWT expires.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session with a TTL matching the token lifetime
func (m *Manager) CreateSession(ctx context.Context, s *SessionData) error {
	key := m.sessionKey(s.IdentityID, s.JTI)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetSession retrieves an active session
func (m *Manager) GetSession(ctx context.Context, identityID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(identityID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s SessionData
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

// DeleteSession revokes one session
func (m *Manager) DeleteSession(ctx context.Context, identityID int64, jti string) error {
	if err := m.client.Del(ctx, m.sessionKey(identityID, jti)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteAllSessions revokes every session of an identity
func (m *Manager) DeleteAllSessions(ctx context.Context, identityID int64) error {
	pattern := fmt.Sprintf("session:%d:*", identityID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan sessions: %w", err)
	}

	return nil
}

func (m *Manager) sessionKey(identityID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", identityID, jti)
}
