package core

import "fedorabatch/pkg/types"

// ObjectType 定义了快照仓库中的对象类型
type ObjectType string

const (
	TypeSnapshot ObjectType = "snapshot" // 写回前的 Datastream 原文
)

// Object 是所有可持久化对象的通用接口
type Object interface {
	// Type 返回对象类型
	Type() ObjectType

	// ID 返回对象的哈希值 (内容寻址)
	ID() types.Hash

	// Bytes 返回对象的序列化数据 (用于存储)
	Bytes() []byte
}
