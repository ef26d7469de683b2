// Package chatsession keeps short-lived chat-widget transcripts so a lead
// captured mid-conversation can carry its context into scoring. Entries are
// capped to match the normalizer's sanitization limits.
package chatsession

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxTurns   = 10
	maxTurnLen = 500
)

// Store records chat turns keyed by session id.
type Store interface {
	Append(ctx context.Context, sessionID, turn string) error
	Turns(ctx context.Context, sessionID string) ([]string, error)
}

// RedisStore persists session transcripts in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("chatsession: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Append(ctx context.Context, sessionID, turn string) error {
	turn = sanitizeTurn(turn)
	if sessionID == "" || turn == "" {
		return nil
	}

	turns, err := s.Turns(ctx, sessionID)
	if err != nil {
		return err
	}
	turns = appendCapped(turns, turn)

	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("chatsession: marshal turns: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("chatsession: persist turns: %w", err)
	}
	return nil
}

func (s *RedisStore) Turns(ctx context.Context, sessionID string) ([]string, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chatsession: load turns: %w", err)
	}

	var turns []string
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("chatsession: decode turns: %w", err)
	}
	return turns, nil
}

// MemoryStore is the fallback when Redis is not configured. Entries never
// expire; fine for development, not for production.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]string)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Append(ctx context.Context, sessionID, turn string) error {
	turn = sanitizeTurn(turn)
	if sessionID == "" || turn == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = appendCapped(s.sessions[sessionID], turn)
	return nil
}

func (s *MemoryStore) Turns(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]string, len(turns))
	copy(out, turns)
	return out, nil
}

func sessionKey(id string) string {
	return "chat_session:" + id
}

func sanitizeTurn(turn string) string {
	turn = strings.TrimSpace(turn)
	if len(turn) > maxTurnLen {
		turn = turn[:maxTurnLen]
	}
	return turn
}

func appendCapped(turns []string, turn string) []string {
	turns = append(turns, turn)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	return turns
}
