package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record as a JSON string and maintains one set per type and per index key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisRecordKey(id string) string {
	return "wolf:record:" + id
}

func redisTypeKey(typ entities.RecordType) string {
	return "wolf:type:" + string(typ)
}

func redisIndexKey(typ entities.RecordType, name, value string) string {
	return fmt.Sprintf("wolf:idx:%s:%s:%s", typ, name, value)
}

func (s *RedisStore) Put(ctx context.Context, rec *entities.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error encoding record: %w", err)
	}

	old, err := s.Get(ctx, rec.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if old != nil {
			p.SRem(ctx, redisTypeKey(old.Type), old.ID)
			for name, value := range old.Keys {
				p.SRem(ctx, redisIndexKey(old.Type, name, value), old.ID)
			}
		}

		p.Set(ctx, redisRecordKey(rec.ID), data, 0)
		p.SAdd(ctx, redisTypeKey(rec.Type), rec.ID)
		for name, value := range rec.Keys {
			p.SAdd(ctx, redisIndexKey(rec.Type, name, value), rec.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error writing record: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*entities.Record, error) {
	data, err := s.client.Get(ctx, redisRecordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting record: %w", err)
	}

	rec := new(entities.Record)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("error decoding record: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	old, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisRecordKey(id))
		p.SRem(ctx, redisTypeKey(old.Type), id)
		for name, value := range old.Keys {
			p.SRem(ctx, redisIndexKey(old.Type, name, value), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}
	return nil
}

func (s *RedisStore) Scan(ctx context.Context, typ entities.RecordType) ([]*entities.Record, error) {
	return s.Find(ctx, typ, nil)
}

func (s *RedisStore) Find(ctx context.Context, typ entities.RecordType, match map[string]string) ([]*entities.Record, error) {
	sets := []string{redisTypeKey(typ)}
	for name, value := range match {
		sets = append(sets, redisIndexKey(typ, name, value))
	}

	ids, err := s.client.SInter(ctx, sets...).Result()
	if err != nil {
		return nil, fmt.Errorf("error intersecting index: %w", err)
	}
	sort.Strings(ids)

	out := make([]*entities.Record, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisRecordKey(id)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting records: %w", err)
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Removed between SINTER and MGET.
			continue
		}
		rec := new(entities.Record)
		if err := json.Unmarshal([]byte(str), rec); err != nil {
			return nil, fmt.Errorf("error decoding record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Close(context.Context) error {
	return s.client.Close()
}
