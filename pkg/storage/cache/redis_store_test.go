package cache

import (
	"context"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"fedorabatch/pkg/core"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// -----------------------------------------------------------------------------
// SpyStore: 统计底层被调用的次数，验证请求是否穿透了缓存
// -----------------------------------------------------------------------------
type SpyStore struct {
	hasCount int
	putCount int
	objects  map[types.Hash][]byte
}

func NewSpyStore() *SpyStore {
	return &SpyStore{objects: make(map[types.Hash][]byte)}
}

func (s *SpyStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	s.hasCount++
	_, ok := s.objects[hash]
	return ok, nil
}

func (s *SpyStore) Put(ctx context.Context, obj core.Object) error {
	s.putCount++
	s.objects[obj.ID()] = obj.Bytes()
	return nil
}

func (s *SpyStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func TestNewCachedStore_InvalidURL(t *testing.T) {
	_, err := NewCachedStore(NewSpyStore(), Config{RedisURL: "not-a-url"}, zap.NewNop())
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestCachedStore_Integration(t *testing.T) {
	redisAddr := "localhost:6379"
	conn, err := net.DialTimeout("tcp", redisAddr, time.Second)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	conn.Close()

	ctx := context.Background()
	spy := NewSpyStore()
	cached, err := NewCachedStore(spy, Config{
		RedisURL: fmt.Sprintf("redis://%s/0", redisAddr),
		TTL:      time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)
	defer cached.Close()

	snap, err := core.NewSnapshot(types.ObjectID(fmt.Sprintf("vudl:%d", time.Now().UnixNano())), "DC", []byte("<dc/>"))
	require.NoError(t, err)
	cached.client.Del(ctx, cached.cacheKey(snap.ID()))

	// 1. Cache Miss: 穿透到底层
	ok, err := cached.Has(ctx, snap.ID())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, spy.hasCount)

	// 2. Put: Has 再穿透一次，然后写底层 + 写缓存
	require.NoError(t, cached.Put(ctx, snap))
	assert.Equal(t, 1, spy.putCount)
	assert.Equal(t, 2, spy.hasCount)

	n, err := cached.client.Exists(ctx, cached.cacheKey(snap.ID())).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "Redis key should be set after Put")

	// 3. Cache Hit: 底层计数不变
	ok, err = cached.Has(ctx, snap.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, spy.hasCount, "Backend Has() should NOT be called on hit")

	// 4. 再次 Put 不会重复写底层
	require.NoError(t, cached.Put(ctx, snap))
	assert.Equal(t, 1, spy.putCount)
}
