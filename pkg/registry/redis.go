package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/verifier/pkg/dataaccess/monitoring"
	"github.com/go-redis/redis/v8"
)

// maxUpdateAttempts bounds how often Update retries after another writer touched the key mid transaction.
const maxUpdateAttempts = 10

// Redis is a Store shared between bot processes. Values are stored as JSON under prefix:key and never expire.
type Redis[V any] struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a store using the given client. The prefix separates the tables held in one database.
func NewRedis[V any](client *redis.Client, prefix string) *Redis[V] {
	return &Redis[V]{
		client: client,
		prefix: prefix,
	}
}

func (s *Redis[V]) key(k string) string {
	return s.prefix + ":" + k
}

func (s *Redis[V]) Get(ctx context.Context, key string) (V, bool, error) {
	defer monitoring.ObserveRedis(s.prefix, "get")()

	var v V

	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	} else if err != nil {
		return v, false, fmt.Errorf("error getting %s: %w", s.key(key), err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("error decoding %s: %w", s.key(key), err)
	}
	return v, true, nil
}

func (s *Redis[V]) Set(ctx context.Context, key string, v V) error {
	defer monitoring.ObserveRedis(s.prefix, "set")()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", s.key(key), err)
	}

	if err := s.client.Set(ctx, s.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("error setting %s: %w", s.key(key), err)
	}
	return nil
}

func (s *Redis[V]) Add(ctx context.Context, key string, v V) (bool, error) {
	defer monitoring.ObserveRedis(s.prefix, "setnx")()

	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("error encoding %s: %w", s.key(key), err)
	}

	ok, err := s.client.SetNX(ctx, s.key(key), raw, 0).Result()
	if err != nil {
		return false, fmt.Errorf("error adding %s: %w", s.key(key), err)
	}
	return ok, nil
}

func (s *Redis[V]) Update(ctx context.Context, key string, fn func(V) V) (V, bool, error) {
	defer monitoring.ObserveRedis(s.prefix, "update")()

	var (
		result  V
		present bool
	)

	txf := func(tx *redis.Tx) error {
		var v V
		present = false

		raw, err := tx.Get(ctx, s.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		} else if err != nil {
			return err
		}

		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("error decoding %s: %w", s.key(key), err)
		}

		v = fn(v)
		enc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("error encoding %s: %w", s.key(key), err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key(key), enc, 0)
			return nil
		})
		if err != nil {
			return err
		}

		result, present = v, true
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, s.key(key))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		} else if err != nil {
			var zero V
			return zero, false, fmt.Errorf("error updating %s: %w", s.key(key), err)
		}
		return result, present, nil
	}

	var zero V
	return zero, false, fmt.Errorf("error updating %s: gave up after %d conflicting writes", s.key(key), maxUpdateAttempts)
}

func (s *Redis[V]) Delete(ctx context.Context, key string) error {
	defer monitoring.ObserveRedis(s.prefix, "del")()

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("error deleting %s: %w", s.key(key), err)
	}
	return nil
}

func (s *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	defer monitoring.ObserveRedis(s.prefix, "exists")()

	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("error checking %s: %w", s.key(key), err)
	}
	return n > 0, nil
}
