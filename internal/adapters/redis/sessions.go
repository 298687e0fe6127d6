package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

// Sessions keeps the signed-in user projection under an opaque token.
// Expiry is handled by the key TTL.
type Sessions struct{ c *redis.Client }

func NewSessions(c *redis.Client) *Sessions { return &Sessions{c: c} }

func sessionKey(token string) string { return "session:" + token }

func (s *Sessions) Put(ctx context.Context, token string, u domain.CurrentUser, ttlSec int) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, sessionKey(token), b, time.Duration(ttlSec)*time.Second).Err()
}

func (s *Sessions) Get(ctx context.Context, token string) (domain.CurrentUser, bool, error) {
	v, err := s.c.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return domain.CurrentUser{}, false, nil
	}
	if err != nil {
		return domain.CurrentUser{}, false, err
	}
	var u domain.CurrentUser
	if err := json.Unmarshal(v, &u); err != nil {
		return domain.CurrentUser{}, false, err
	}
	return u, true, nil
}

func (s *Sessions) Del(ctx context.Context, token string) error {
	return s.c.Del(ctx, sessionKey(token)).Err()
}
