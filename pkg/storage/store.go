package storage

import (
	"context"
	"errors"
	"io"

	"fedorabatch/pkg/core"
	"fedorabatch/pkg/types"
)

var (
	ErrNotFound = errors.New("snapshot not found")
)

// Store 是快照仓库的抽象
// 实现: 本地磁盘 (disk)、S3/MinIO (s3)、以及 Redis 存在性缓存装饰器 (cache)
type Store interface {
	// Put 持久化一个对象，Hash 已经在 core.Object 里了
	// 内容寻址：同一个 Hash 重复 Put 是无害的
	Put(ctx context.Context, obj core.Object) error

	// Get 根据 Hash 读取原始字节，调用方负责 Close
	Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error)

	// Has 检查对象是否存在 (用于去重)
	Has(ctx context.Context, hash types.Hash) (bool, error)
}

// ReadSnapshot 读取并解码一个快照
func ReadSnapshot(ctx context.Context, s Store, hash types.Hash) (*core.Snapshot, error) {
	r, err := s.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	snap, err := core.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	// 存储层被篡改或损坏时，重新计算的 Hash 对不上
	if snap.ID() != hash {
		return nil, errors.New("snapshot " + hash.Short() + " is corrupted (hash mismatch)")
	}
	return snap, nil
}
