// Package flash is the per-member stash for error/success messages shown on
// the next rendered page. Messages are written when a mutation settles and
// cleared when read; nothing runs in the background.
package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitcenter/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	KindSuccess = "success"
	KindError   = "error"

	// A stash that is never read back should not linger forever.
	messageTTL = 24 * time.Hour
)

type Message struct {
	Kind    string    `json:"kind"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

type Store struct {
	redis *redis.Client
}

func New(redisAddr string) *Store {
	return &Store{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// NewWithClient exists for tests that inject a mock client.
func NewWithClient(client *redis.Client) *Store {
	return &Store{redis: client}
}

func key(memberID int) string {
	return fmt.Sprintf("flash:%d", memberID)
}

func (s *Store) Add(ctx context.Context, memberID int, kind, text string) error {
	msg := Message{
		Kind:    kind,
		Text:    text,
		Created: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	k := key(memberID)
	if err := s.redis.RPush(ctx, k, string(data)).Err(); err != nil {
		logger.Errorf("Failed to stash flash message for member %d: %v", memberID, err)
		return err
	}
	if err := s.redis.Expire(ctx, k, messageTTL).Err(); err != nil {
		logger.Errorf("Failed to set flash expiry for member %d: %v", memberID, err)
	}

	return nil
}

func (s *Store) Success(ctx context.Context, memberID int, text string) {
	// Flash is best effort: a dead stash never fails the mutation it trails.
	_ = s.Add(ctx, memberID, KindSuccess, text)
}

func (s *Store) Error(ctx context.Context, memberID int, text string) {
	_ = s.Add(ctx, memberID, KindError, text)
}

// Pop returns every pending message for the member and clears the stash,
// mirroring the delete-on-read the rendering layer expects.
func (s *Store) Pop(ctx context.Context, memberID int) ([]Message, error) {
	k := key(memberID)

	pipe := s.redis.TxPipeline()
	rangeCmd := pipe.LRange(ctx, k, 0, -1)
	pipe.Del(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw := rangeCmd.Val()
	msgs := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			logger.Errorf("Bad flash payload for member %d: %v", memberID, err)
			continue
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}

// Clear drops any pending messages, used at logout.
func (s *Store) Clear(ctx context.Context, memberID int) error {
	return s.redis.Del(ctx, key(memberID)).Err()
}

func (s *Store) Close() error {
	return s.redis.Close()
}
