package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"othello_ai/internal/domain/session"
	errs "othello_ai/internal/errors"
)

const sessionKeyPrefix = "othello:session:"

type RedisSessionStorage struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewSessionRedisStorage(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// SaveSession stores s and restarts its expiry.
func (r *RedisSessionStorage) SaveSession(ctx context.Context, s session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		r.log.Errorf("failed to store session %s: %v", s.ID, err)
		return fmt.Errorf("store session %s: %w", s.ID, err)
	}
	return nil
}

// UpdateSession replaces the stored session only if it is still at version.
// The check and the write run in one WATCH transaction.
func (r *RedisSessionStorage) UpdateSession(ctx context.Context, s session.Session, version int) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	key := sessionKeyPrefix + s.ID

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return errs.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var stored session.Session
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("decode session %s: %w", s.ID, err)
		}
		if stored.Version != version {
			return errs.ErrSessionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return errs.ErrSessionConflict
	case errors.Is(err, errs.ErrSessionConflict), errors.Is(err, errs.ErrSessionNotFound):
		return err
	}
	r.log.Errorf("failed to update session %s: %v", s.ID, err)
	return fmt.Errorf("update session %s: %w", s.ID, err)
}

func (r *RedisSessionStorage) GetSession(ctx context.Context, id string) (session.Session, error) {
	v, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, errs.ErrSessionNotFound
		}
		r.log.Errorf("failed to load session %s: %v", id, err)
		return session.Session{}, fmt.Errorf("load session %s: %w", id, err)
	}
	var s session.Session
	if err := json.Unmarshal(v, &s); err != nil {
		return session.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *RedisSessionStorage) DeleteSession(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}
