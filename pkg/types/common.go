// pkg/types/common.go
package types

import "strings"

// ObjectID 是 Fedora 对象的 PID (例如 "vudl:12345")
// 只来自 Solr 查询结果，对流水线来说是不透明、不可变的值。
type ObjectID string

func (id ObjectID) String() string { return string(id) }
func (id ObjectID) IsZero() bool   { return strings.TrimSpace(string(id)) == "" }

// StreamName 是对象上某个 Datastream 的名字 (例如 "DC", "MODS")
// 一次运行中保持不变。
type StreamName string

func (s StreamName) String() string { return string(s) }
func (s StreamName) IsZero() bool   { return strings.TrimSpace(string(s)) == "" }

// Hash 代表快照对象的唯一标识符 (SHA256 Hex String)
// 这是一个“值对象”，应当是不可变的。
type Hash string

func (h Hash) String() string { return string(h) }

// 验证 Hash 合法性
func (h Hash) IsZero() bool  { return h == "" }
func (h Hash) IsValid() bool { return len(h) == 64 } // 简单的长度检查

// Short 返回前 8 位，用于终端输出
func (h Hash) Short() string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

// RunID 标识一次批量运行 (ksuid，按时间有序)
type RunID string

func (r RunID) String() string { return string(r) }
func (r RunID) IsZero() bool   { return r == "" }
