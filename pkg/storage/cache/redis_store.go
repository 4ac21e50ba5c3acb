package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"fedorabatch/pkg/core"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/types"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedStore 是一个装饰器：用 Redis 记住“哪些快照已经存在”
// 反复对同一批记录跑编辑时，未变化的原文不会再去底层存储做 Head/Stat
type CachedStore struct {
	backend storage.Store
	client  *redis.Client
	ttl     time.Duration
	log     *zap.Logger
}

type Config struct {
	RedisURL string        // redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 存在性标记的过期时间
}

func NewCachedStore(backend storage.Store, cfg Config, log *zap.Logger) (*CachedStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CachedStore{
		backend: backend,
		client:  client,
		ttl:     cfg.TTL,
		log:     log,
	}, nil
}

func (s *CachedStore) cacheKey(hash types.Hash) string {
	return "dsedit:snap:" + string(hash)
}

// Has 先查 Redis，未命中再查底层并回填
func (s *CachedStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	key := s.cacheKey(hash)

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		// Redis 故障时降级为直连底层存储
		s.log.Warn("redis exists failed, falling back to backend", zap.Error(err))
	} else if n > 0 {
		return true, nil
	}

	found, err := s.backend.Has(ctx, hash)
	if err != nil {
		return false, err
	}
	if found {
		s.mark(ctx, key)
	}
	return found, nil
}

// Put 写穿 (Write-Through)：底层成功后才写缓存
func (s *CachedStore) Put(ctx context.Context, obj core.Object) error {
	exists, err := s.Has(ctx, obj.ID())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.backend.Put(ctx, obj); err != nil {
		return err
	}
	s.mark(ctx, s.cacheKey(obj.ID()))
	return nil
}

// Get 透传，快照内容不进 Redis
func (s *CachedStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	return s.backend.Get(ctx, hash)
}

// Close 释放 Redis 连接
func (s *CachedStore) Close() error {
	return s.client.Close()
}

func (s *CachedStore) mark(ctx context.Context, key string) {
	if err := s.client.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		s.log.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}
