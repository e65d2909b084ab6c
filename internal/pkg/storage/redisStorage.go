package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
	KeyPrefix   string
}

type redisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisClient opens a client and checks the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisStorage stores each object as a plain string value under prefix+key.
func NewRedisStorage(client *redis.Client, prefix string) ObjectStore {
	return &redisStorage{client: client, prefix: prefix}
}

func (s *redisStorage) key(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return s.prefix + k, nil
}

func (s *redisStorage) Put(ctx context.Context, key string, data []byte) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, k, data, 0).Err()
}

func (s *redisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *redisStorage) Delete(ctx context.Context, key string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, k).Err()
}

func (s *redisStorage) Exists(ctx context.Context, key string) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, k).Result()
	return n > 0, err
}

func (s *redisStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	match := s.prefix + prefix
	iter := s.client.Scan(ctx, 0, match+"*", 100).Iterator()
	for iter.Next(ctx) {
		if k := iter.Val(); strings.HasPrefix(k, match) {
			keys = append(keys, k[len(s.prefix):])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
