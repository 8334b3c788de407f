package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The triage bot keeps one conversation per session id. State lives in an
// explicit per-session store rather than a process-wide mutable object, so
// concurrent sessions never observe each other.

const triageSessionTTL = 30 * time.Minute

// TriageMessage is one exchange in a triage conversation.
type TriageMessage struct {
	Role    string    `json:"role" example:"patient"`
	Content string    `json:"content" example:"I have chest pain"`
	SentAt  time.Time `json:"sentAt"`
}

// TriageSessionStore holds triage conversations keyed by session id.
type TriageSessionStore interface {
	Get(ctx context.Context, sessionID string) ([]TriageMessage, error)
	Append(ctx context.Context, sessionID string, msg TriageMessage) error
	Expire(ctx context.Context, sessionID string) error
}

// RedisTriageStore is the Redis-backed TriageSessionStore. Each session is a
// list under triage:<id> with a sliding TTL.
type RedisTriageStore struct {
	Client *redis.Client
}

// NewRedisTriageStore wraps a Redis client into a session store.
func NewRedisTriageStore(client *redis.Client) *RedisTriageStore {
	return &RedisTriageStore{Client: client}
}

func triageKey(sessionID string) string {
	return fmt.Sprintf("triage:%s", sessionID)
}

// Get returns the conversation for a session id, oldest first. An unknown
// session id yields an empty conversation, not an error.
func (s *RedisTriageStore) Get(ctx context.Context, sessionID string) ([]TriageMessage, error) {
	if s.Client == nil {
		return nil, nil
	}
	raw, err := s.Client.LRange(ctx, triageKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	messages := make([]TriageMessage, 0, len(raw))
	for _, item := range raw {
		var msg TriageMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Append pushes a message onto the session's conversation and refreshes the
// sliding TTL.
func (s *RedisTriageStore) Append(ctx context.Context, sessionID string, msg TriageMessage) error {
	if s.Client == nil {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := triageKey(sessionID)
	if err := s.Client.RPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return s.Client.Expire(ctx, key, triageSessionTTL).Err()
}

// Expire drops a session's conversation immediately.
func (s *RedisTriageStore) Expire(ctx context.Context, sessionID string) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Del(ctx, triageKey(sessionID)).Err()
}
