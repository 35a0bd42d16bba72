package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/docquiz/internal/quiz"
)

// TTL matches the quiz service's cleanup of stale sessions.
const TTL = 24 * time.Hour

type redisStore struct {
	rdb *redis.Client
}

func NewRedis(addr, password string, db int) Store {
	return &redisStore{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// NewRedisClient wraps an existing client.
func NewRedisClient(rdb *redis.Client) Store { return &redisStore{rdb: rdb} }

func key(id string) string { return fmt.Sprintf("quiz:session:%s:view", id) }

func (r *redisStore) Load(ctx context.Context, id string) (quiz.Session, bool, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quiz.Session{}, false, nil
	}
	if err != nil {
		return quiz.Session{}, false, err
	}
	var s quiz.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return quiz.Session{}, false, err
	}
	return s, true, nil
}

func (r *redisStore) Save(ctx context.Context, s quiz.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(s.ID), data, TTL).Err()
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, key(id)).Err()
}
