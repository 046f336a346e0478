package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionCookie is the name of the session cookie.
	SessionCookie = "session_id"

	// DefaultSessionTTL is the absolute session lifetime. There is no
	// sliding renewal; re-authentication is required after expiry.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Sessions maps opaque session ids to account ids. A zero user id with a nil
// error means no live session. A non-nil error means the session store
// itself failed; callers must surface it instead of treating the request as
// anonymous.
type Sessions interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, sessionID string) (int64, error)
	Delete(ctx context.Context, sessionID string) error
	TTL() time.Duration
}

// RedisSessions stores sessions in Redis with an absolute TTL.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func (s *RedisSessions) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.New().String()
	if err := s.rdb.Set(ctx, "session:"+sid, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *RedisSessions) Get(ctx context.Context, sessionID string) (int64, error) {
	userID, err := s.rdb.Get(ctx, "session:"+sessionID).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *RedisSessions) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "session:"+sessionID).Err()
}

func (s *RedisSessions) TTL() time.Duration { return s.ttl }

// MemorySessions is an in-process Sessions implementation for tests and
// single-node development. Expired entries are dropped lazily on lookup.
type MemorySessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memorySession
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessions{ttl: ttl, sessions: map[string]memorySession{}}
}

func (s *MemorySessions) Create(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sid := uuid.New().String()
	s.sessions[sid] = memorySession{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	return sid, nil
}

func (s *MemorySessions) Get(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, nil
	}
	return sess.userID, nil
}

func (s *MemorySessions) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemorySessions) TTL() time.Duration { return s.ttl }
