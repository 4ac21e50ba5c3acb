package meta

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
)

// RunModel 记录一次批量编辑的运行
// 只用于审计和 revert，从不用来“续跑”：ID 集合在每次运行时重新解析
type RunModel struct {
	// ID 是 ksuid，按时间有序
	ID string `gorm:"primaryKey;type:char(27)"`

	Query     string `gorm:"type:text;not null"`
	Stream    string `gorm:"type:varchar(64);not null"`
	Transform string `gorm:"type:varchar(64)"`
	DryRun    bool

	Status RunStatus `gorm:"index;type:varchar(16);not null"`
	Error  string    `gorm:"type:text"`

	Resolved int
	Written  int

	StartedAt  time.Time `gorm:"index"`
	FinishedAt *time.Time
}

func (RunModel) TableName() string {
	return "runs"
}

// EditModel 是一次成功写回的记录，每个写回的对象一行
type EditModel struct {
	ID uint `gorm:"primaryKey"`

	// (RunID, Seq) 唯一：Seq 是对象在解析结果里的位置
	RunID string `gorm:"uniqueIndex:idx_edit_run_seq;type:char(27);not null"`
	Seq   int    `gorm:"uniqueIndex:idx_edit_run_seq"`

	ObjectID string `gorm:"index;type:varchar(255);not null"`
	Stream   string `gorm:"type:varchar(64);not null"`

	// SnapshotHash 指向写回前的原始内容，未开启快照时为空
	SnapshotHash string `gorm:"type:varchar(64)"`
	Bytes        int

	// Attrs 存放非结构化的附加信息 (原始大小、是否改变、变换名称)
	Attrs datatypes.JSON

	CreatedAt time.Time
}

func (EditModel) TableName() string {
	return "edits"
}

// EditAttrs 是 EditModel.Attrs 的结构化视图
type EditAttrs struct {
	OriginalBytes int    `json:"original_bytes"`
	Changed       bool   `json:"changed"`
	Transform     string `json:"transform,omitempty"`
}

func (a EditAttrs) JSON() datatypes.JSON {
	// 只有基本类型字段，Marshal 不会失败
	data, _ := json.Marshal(a)
	return datatypes.JSON(data)
}

// models 是 AutoMigrate 的全部表
func models() []any {
	return []any{&RunModel{}, &EditModel{}}
}
