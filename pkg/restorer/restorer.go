// Package restorer 利用运行日志和快照把一次批量编辑撤销掉
package restorer

import (
	"context"
	"errors"
	"fmt"

	"fedorabatch/pkg/fedora"
	"fedorabatch/pkg/meta"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrNotRestorable = errors.New("run cannot be reverted")
)

type Restorer struct {
	store   storage.Store
	journal *meta.Repository
	repo    *fedora.Client
	log     *zap.Logger
}

func NewRestorer(store storage.Store, journal *meta.Repository, repo *fedora.Client, log *zap.Logger) *Restorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Restorer{store: store, journal: journal, repo: repo, log: log}
}

// Report 是一次 revert 的结果
type Report struct {
	RunID    string
	Restored int
}

// Revert 把 runID 写回过的每个对象恢复成写回前的内容
// 倒序处理：同一对象在一次运行里出现多次时，最终留下的是最早的原始内容
// 遇到第一个错误即停止，已经恢复的对象不会回滚
func (r *Restorer) Revert(ctx context.Context, runID string, onRestored func(meta.EditModel)) (*Report, error) {
	// 1. 找到运行与编辑记录
	run, err := r.journal.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.DryRun {
		return nil, fmt.Errorf("%w: %s was a dry run", ErrNotRestorable, runID)
	}

	edits, err := r.journal.ListEdits(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edits: %w", err)
	}

	// 2. 先检查全部编辑都有快照，避免只恢复一半
	missing := lo.Filter(edits, func(e meta.EditModel, _ int) bool { return e.SnapshotHash == "" })
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %d of %d edits have no snapshot (backup was disabled)",
			ErrNotRestorable, len(missing), len(edits))
	}

	report := &Report{RunID: runID}

	// 3. 逐个恢复
	for _, edit := range lo.Reverse(edits) {
		if err := r.restoreOne(ctx, edit); err != nil {
			return report, err
		}
		report.Restored++
		if onRestored != nil {
			onRestored(edit)
		}
	}
	return report, nil
}

func (r *Restorer) restoreOne(ctx context.Context, edit meta.EditModel) error {
	hash := types.Hash(edit.SnapshotHash)
	snap, err := storage.ReadSnapshot(ctx, r.store, hash)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s for %s: %w", hash.Short(), edit.ObjectID, err)
	}

	// 快照必须属于这条编辑记录
	if snap.ObjectID.String() != edit.ObjectID || snap.Stream.String() != edit.Stream {
		return fmt.Errorf("snapshot %s belongs to %s/%s, not %s/%s",
			hash.Short(), snap.ObjectID, snap.Stream, edit.ObjectID, edit.Stream)
	}

	if err := r.repo.PutStream(ctx, snap.ObjectID, snap.Stream, snap.Content); err != nil {
		return err
	}
	r.log.Info("stream restored",
		zap.String("id", edit.ObjectID),
		zap.String("stream", edit.Stream),
		zap.String("snapshot", hash.Short()),
	)
	return nil
}
