package meta

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRunNotFound = errors.New("run not found in journal")
)

// Repository 封装所有对运行日志的 SQL 操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// RunResult 是一次运行结束时要落库的信息
type RunResult struct {
	Resolved int
	Written  int
	// Err 非 nil 表示运行被中止
	Err error
}

// -----------------------------------------------------------------------------
// 1. 运行 (Runs)
// -----------------------------------------------------------------------------

// CreateRun 登记一次新运行，回填 ID、状态和开始时间
func (r *Repository) CreateRun(ctx context.Context, run *RunModel) error {
	if run.ID == "" {
		run.ID = ksuid.New().String()
	}
	run.Status = RunRunning
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = nil

	if err := r.db.GetConn().WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun 把运行标记为 completed 或 aborted
func (r *Repository) FinishRun(ctx context.Context, id string, res RunResult) error {
	status, msg := RunCompleted, ""
	if res.Err != nil {
		status, msg = RunAborted, res.Err.Error()
	}

	result := r.db.GetConn().WithContext(ctx).
		Model(&RunModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"error":       msg,
			"resolved":    res.Resolved,
			"written":     res.Written,
			"finished_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finish run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *Repository) GetRun(ctx context.Context, id string) (*RunModel, error) {
	var run RunModel
	err := r.db.GetConn().WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns 按开始时间倒序列出最近的运行
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]RunModel, error) {
	var runs []RunModel
	err := r.db.GetConn().WithContext(ctx).
		Order("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// -----------------------------------------------------------------------------
// 2. 编辑记录 (Edits)
// -----------------------------------------------------------------------------

// RecordEdit 记录一次成功写回 (幂等：同一 RunID+Seq 只保留第一条)
func (r *Repository) RecordEdit(ctx context.Context, edit *EditModel) error {
	if edit.RunID == "" {
		return errors.New("edit has no run id")
	}
	err := r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}, {Name: "seq"}},
			DoNothing: true,
		}).
		Create(edit).Error
	if err != nil {
		return fmt.Errorf("failed to record edit: %w", err)
	}
	return nil
}

// ListEdits 按处理顺序返回某次运行的全部编辑
func (r *Repository) ListEdits(ctx context.Context, runID string) ([]EditModel, error) {
	var edits []EditModel
	err := r.db.GetConn().WithContext(ctx).
		Where("run_id = ?", runID).
		Order("seq ASC").
		Find(&edits).Error
	return edits, err
}
