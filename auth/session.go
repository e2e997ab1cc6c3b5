package auth

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SessionLifetime is the absolute lifetime of a login session. After this the
// session is treated as absent, there is no sliding renewal.
const SessionLifetime = 24 * time.Hour

// Session is the server-held payload behind a session token. Role and admin
// flag are cached at login time and not re-fetched from storage.
type Session struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity converts the session payload into a resolved identity.
func (s *Session) Identity() *Identity {
	return &Identity{UserID: s.UserID, Username: s.Username, Role: s.Role, IsAdmin: s.IsAdmin}
}

// SessionStore holds login sessions keyed by opaque token.
type SessionStore interface {
	Create(ctx context.Context, session Session) (token string, err error)
	Get(ctx context.Context, token string) (*Session, bool)
	Delete(ctx context.Context, token string)
	// DeleteExpired removes stale sessions; backends with native TTL may no-op.
	DeleteExpired(ctx context.Context)
}

// ----------------------------------------------------------------------------
// In-memory store (default, also used by all tests)
// ----------------------------------------------------------------------------

// MemorySessionStore keeps sessions in process memory. Expired entries are
// swept periodically by the maintenance service.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (ms *MemorySessionStore) Create(_ context.Context, session Session) (string, error) {
	token := uuid.NewString()
	ms.mu.Lock()
	ms.sessions[token] = session
	ms.mu.Unlock()
	return token, nil
}

func (ms *MemorySessionStore) Get(_ context.Context, token string) (*Session, bool) {
	ms.mu.RLock()
	session, ok := ms.sessions[token]
	ms.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		ms.Delete(context.Background(), token)
		return nil, false
	}
	return &session, true
}

func (ms *MemorySessionStore) Delete(_ context.Context, token string) {
	ms.mu.Lock()
	delete(ms.sessions, token)
	ms.mu.Unlock()
}

func (ms *MemorySessionStore) DeleteExpired(_ context.Context) {
	now := time.Now()
	ms.mu.Lock()
	for token, session := range ms.sessions {
		if now.After(session.ExpiresAt) {
			delete(ms.sessions, token)
		}
	}
	ms.mu.Unlock()
}

// ----------------------------------------------------------------------------
// Redis store
// ----------------------------------------------------------------------------

// RedisSessionStore keeps sessions in Redis with a TTL matching the session
// lifetime, so expiry needs no sweeping.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps an established Redis client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (rs *RedisSessionStore) Create(ctx context.Context, session Session) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	if err := rs.client.Set(ctx, sessionKey(token), payload, time.Until(session.ExpiresAt)).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (rs *RedisSessionStore) Get(ctx context.Context, token string) (*Session, bool) {
	payload, err := rs.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[SESSION] Redis lookup failed: %v", err)
		}
		return nil, false
	}
	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return &session, true
}

func (rs *RedisSessionStore) Delete(ctx context.Context, token string) {
	if err := rs.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		log.Printf("[SESSION] Redis delete failed: %v", err)
	}
}

// DeleteExpired is a no-op, Redis expires session keys via TTL.
func (rs *RedisSessionStore) DeleteExpired(context.Context) {}
