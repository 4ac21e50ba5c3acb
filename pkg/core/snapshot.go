package core

import (
	"errors"
	"fmt"

	"fedorabatch/pkg/types"
)

var ErrNotSnapshot = errors.New("object is not a snapshot")

// Snapshot 是写回之前 Datastream 的原始内容
// revert 命令依靠它把对象恢复到批量编辑之前的样子
type Snapshot struct {
	TypeVal  ObjectType       `cbor:"t"`
	ObjectID types.ObjectID   `cbor:"o"`
	Stream   types.StreamName `cbor:"s"`
	Content  []byte           `cbor:"c"`

	hash     types.Hash `cbor:"-"`
	rawBytes []byte     `cbor:"-"`
}

// NewSnapshot 构造并“密封”一个快照：计算编码与 Hash
func NewSnapshot(id types.ObjectID, stream types.StreamName, content []byte) (*Snapshot, error) {
	s := &Snapshot{
		TypeVal:  TypeSnapshot,
		ObjectID: id,
		Stream:   stream,
		Content:  content,
	}
	hash, data, err := CalculateHash(s)
	if err != nil {
		return nil, fmt.Errorf("failed to seal snapshot of %s/%s: %w", id, stream, err)
	}
	s.hash = hash
	s.rawBytes = data
	return s, nil
}

// DecodeSnapshot 从存储读回的字节还原快照
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := DecodeObject(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.TypeVal != TypeSnapshot {
		return nil, fmt.Errorf("%w: got %q", ErrNotSnapshot, s.TypeVal)
	}
	s.hash = CalculateBlobHash(data)
	s.rawBytes = data
	return &s, nil
}

func (s *Snapshot) Type() ObjectType { return TypeSnapshot }
func (s *Snapshot) ID() types.Hash   { return s.hash }
func (s *Snapshot) Bytes() []byte    { return s.rawBytes }
