package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"fedorabatch/pkg/types"

	"github.com/fxamacker/cbor/v2"
)

// 快照采用规范化 CBOR：Map Key 排序 + 定长编码
// 同一个 (PID, Stream, 原文) 永远编码成同一串字节，于是得到同一个 Hash
var encMode = func() cbor.EncMode {
	m, err := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnix,
		TimeTag:     cbor.EncTagNone,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("core: invalid cbor encode options: %v", err))
	}
	return m
}()

// 解码时限制容器大小，并拒绝重复 Key
var decMode = func() cbor.DecMode {
	m, err := cbor.DecOptions{
		MaxArrayElements: 10000,
		MaxMapPairs:      10000,
		MaxNestedLevels:  16,
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("core: invalid cbor decode options: %v", err))
	}
	return m
}()

// CalculateHash 序列化 v 并返回 (sha256 hex, 序列化字节)
func CalculateHash(v any) (types.Hash, []byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal object: %w", err)
	}
	return CalculateBlobHash(data), data, nil
}

// CalculateBlobHash 计算原始字节的 Hash
func CalculateBlobHash(data []byte) types.Hash {
	sum := sha256.Sum256(data)
	return types.Hash(hex.EncodeToString(sum[:]))
}

// DecodeObject 按包内统一的解码选项反序列化
func DecodeObject(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
