package dialog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"finassist/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// Store persists conversation state between turns. A missing session reads
// back as the zero (idle) state.
type Store interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Put(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps state in-process. Suitable for a single instance.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID], nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = state
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// RedisStore persists state as JSON documents with a per-session TTL so
// abandoned conversations expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (State, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return State{}, nil
	}
	if err != nil {
		return State{}, errors.NewSessionError(errors.ErrCodeSessionLoadFailed, err.Error())
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, errors.NewSessionError(errors.ErrCodeSessionLoadFailed, err.Error())
	}
	return state, nil
}

func (r *RedisStore) Put(ctx context.Context, sessionID string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return errors.NewSessionError(errors.ErrCodeSessionSaveFailed, err.Error())
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), raw, r.ttl).Err(); err != nil {
		return errors.NewSessionError(errors.ErrCodeSessionSaveFailed, err.Error())
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return errors.NewSessionError(errors.ErrCodeSessionSaveFailed, err.Error())
	}
	return nil
}
