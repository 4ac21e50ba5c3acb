// Package pipeline 把 Solr 查询结果逐个送进 Fedora 的 读取 -> 变换 -> 写回 流程。
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"fedorabatch/pkg/core"
	"fedorabatch/pkg/fedora"
	"fedorabatch/pkg/meta"
	"fedorabatch/pkg/solr"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// TransformFunc 接收对象 ID 和当前内容，返回要写回的新内容
// 返回错误会中止整个运行
type TransformFunc func(id types.ObjectID, content []byte) ([]byte, error)

// Filter 决定某个 ID 是否在处理前被剔除
type Filter interface {
	Excludes(id types.ObjectID) bool
}

// Summary 是一次运行的统计，出错时反映中止前的进度
type Summary struct {
	RunID    types.RunID
	Resolved int
	Excluded int
	Fetched  int
	Written  int
	// Changed 统计变换后内容与原内容不同的对象数 (dry-run 下即“将会改变”的数量)
	Changed int
	DryRun  bool
}

// Updater 是批量编辑的执行者
// 严格串行：一个对象的 读取/变换/写回 全部完成后才处理下一个
type Updater struct {
	index *solr.Client
	repo  *fedora.Client

	log       *zap.Logger
	snapshots storage.Store
	journal   *meta.Repository
	filter    Filter
	observer  Observer
	label     string
	dryRun    bool
}

type Option func(*Updater)

func WithLogger(log *zap.Logger) Option {
	return func(u *Updater) { u.log = log }
}

// WithSnapshots 在每次写回前把原始内容存进快照仓库
func WithSnapshots(s storage.Store) Option {
	return func(u *Updater) { u.snapshots = s }
}

// WithJournal 把运行和每次写回记入数据库
func WithJournal(r *meta.Repository) Option {
	return func(u *Updater) { u.journal = r }
}

func WithFilter(f Filter) Option {
	return func(u *Updater) { u.filter = f }
}

func WithObserver(o Observer) Option {
	return func(u *Updater) { u.observer = o }
}

// WithLabel 设置记入日志的变换名称
func WithLabel(name string) Option {
	return func(u *Updater) { u.label = name }
}

// WithDryRun 只读取和变换，不写回、不做快照、不记录编辑
func WithDryRun(on bool) Option {
	return func(u *Updater) { u.dryRun = on }
}

func NewUpdater(index *solr.Client, repo *fedora.Client, opts ...Option) *Updater {
	u := &Updater{
		index: index,
		repo:  repo,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run 执行一次批量编辑，成功返回 nil
func (u *Updater) Run(ctx context.Context, query string, stream types.StreamName, fn TransformFunc) error {
	_, err := u.Execute(ctx, query, stream, fn)
	return err
}

// Execute 同 Run，另外返回统计信息 (出错时也非 nil)
func (u *Updater) Execute(ctx context.Context, query string, stream types.StreamName, fn TransformFunc) (*Summary, error) {
	if fn == nil {
		return nil, errors.New("transform function is required")
	}
	if stream.IsZero() {
		return nil, errors.New("datastream name is required")
	}

	sum := &Summary{DryRun: u.dryRun}

	// 1. 登记运行
	if u.journal != nil {
		run := &meta.RunModel{
			Query:     query,
			Stream:    stream.String(),
			Transform: u.label,
			DryRun:    u.dryRun,
		}
		if err := u.journal.CreateRun(ctx, run); err != nil {
			return sum, fmt.Errorf("failed to open run journal: %w", err)
		}
		sum.RunID = types.RunID(run.ID)
	}

	err := u.process(ctx, query, stream, fn, sum)

	// 2. 无论成败都收尾；取消的 ctx 不能挡住这一步
	if u.journal != nil {
		if ferr := u.journal.FinishRun(context.WithoutCancel(ctx), sum.RunID.String(), meta.RunResult{
			Resolved: sum.Resolved,
			Written:  sum.Written,
			Err:      err,
		}); ferr != nil && err == nil {
			err = fmt.Errorf("failed to close run journal: %w", ferr)
		}
	}
	return sum, err
}

func (u *Updater) process(ctx context.Context, query string, stream types.StreamName, fn TransformFunc, sum *Summary) error {
	ids, err := u.index.ResolveIDs(ctx, query)
	if err != nil {
		return err
	}
	sum.Resolved = len(ids)

	if u.filter != nil {
		kept := lo.Reject(ids, func(id types.ObjectID, _ int) bool { return u.filter.Excludes(id) })
		sum.Excluded = len(ids) - len(kept)
		ids = kept
	}

	u.log.Info("ids resolved",
		zap.String("query", query),
		zap.Int("resolved", sum.Resolved),
		zap.Int("excluded", sum.Excluded),
		zap.Bool("dry_run", u.dryRun),
	)

	for seq, id := range ids {
		if err := u.processOne(ctx, seq, id, stream, fn, sum); err != nil {
			u.notify(StageAborted, id)
			u.log.Error("run aborted", zap.String("id", id.String()), zap.Error(err))
			return err
		}
	}
	return nil
}

// processOne 处理单个对象：读取 -> 变换 -> (快照) -> 写回 -> (记录)
func (u *Updater) processOne(ctx context.Context, seq int, id types.ObjectID, stream types.StreamName, fn TransformFunc, sum *Summary) error {
	original, err := u.repo.GetStream(ctx, id, stream)
	if err != nil {
		return err
	}
	sum.Fetched++
	u.notify(StageFetched, id)
	u.log.Debug("stream fetched", zap.String("id", id.String()), zap.Int("bytes", len(original)))

	updated, err := fn(id, original)
	if err != nil {
		return fmt.Errorf("transform failed for %s: %w", id, err)
	}
	changed := !bytes.Equal(original, updated)
	if changed {
		sum.Changed++
	}
	u.notify(StageTransformed, id)
	u.log.Debug("stream transformed", zap.String("id", id.String()), zap.Bool("changed", changed))

	if u.dryRun {
		return nil
	}

	var snapHash types.Hash
	if u.snapshots != nil {
		snap, err := core.NewSnapshot(id, stream, original)
		if err != nil {
			return err
		}
		if err := u.snapshots.Put(ctx, snap); err != nil {
			return fmt.Errorf("failed to store snapshot of %s: %w", id, err)
		}
		snapHash = snap.ID()
	}

	if err := u.repo.PutStream(ctx, id, stream, updated); err != nil {
		return err
	}
	sum.Written++
	u.notify(StageWritten, id)
	u.log.Info("stream written",
		zap.String("id", id.String()),
		zap.String("stream", stream.String()),
		zap.Int("bytes", len(updated)),
	)

	if u.journal != nil {
		edit := &meta.EditModel{
			RunID:        sum.RunID.String(),
			Seq:          seq,
			ObjectID:     id.String(),
			Stream:       stream.String(),
			SnapshotHash: snapHash.String(),
			Bytes:        len(updated),
			Attrs: meta.EditAttrs{
				OriginalBytes: len(original),
				Changed:       changed,
				Transform:     u.label,
			}.JSON(),
		}
		if err := u.journal.RecordEdit(ctx, edit); err != nil {
			return fmt.Errorf("failed to journal edit of %s: %w", id, err)
		}
	}
	return nil
}

func (u *Updater) notify(stage Stage, id types.ObjectID) {
	if u.observer != nil {
		u.observer(stage, id)
	}
}
