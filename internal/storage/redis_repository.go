package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisRepository stores each document under "<prefix><name>_<userKey>".
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisRepository(rdb redis.UniversalClient, prefix string) (*RedisRepository, error) {
	if rdb == nil {
		return nil, errors.New("storage: nil redis client")
	}
	return &RedisRepository{rdb: rdb, prefix: prefix}, nil
}

// OpenRedis dials cfg.Addr and checks the connection with PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return NewRedisRepository(rdb, cfg.KeyPrefix)
}

func (r *RedisRepository) key(name, userKey string) string {
	return r.prefix + name + "_" + userKey
}

func (r *RedisRepository) Load(ctx context.Context, userKey string) (State, error) {
	if err := checkUserKey(userKey); err != nil {
		return State{}, err
	}
	keys := make([]string, len(Keys))
	for i, name := range Keys {
		keys[i] = r.key(name, userKey)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return State{}, fmt.Errorf("load state %s: %w", userKey, err)
	}
	docs := make(map[string][]byte, len(Keys))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		docs[Keys[i]] = []byte(s)
	}
	return Decode(docs)
}

func (r *RedisRepository) Save(ctx context.Context, userKey string, st State) error {
	if err := checkUserKey(userKey); err != nil {
		return err
	}
	docs, err := Encode(st)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range Keys {
			pipe.Set(ctx, r.key(name, userKey), docs[name], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save state %s: %w", userKey, err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}
