// pkg/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"

	"fedorabatch/pkg/config"
	"fedorabatch/pkg/fedora"
	"fedorabatch/pkg/ignore"
	"fedorabatch/pkg/logging"
	"fedorabatch/pkg/meta"
	"fedorabatch/pkg/pipeline"
	"fedorabatch/pkg/restorer"
	"fedorabatch/pkg/solr"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/storage/cache"
	"fedorabatch/pkg/storage/disk"
	"fedorabatch/pkg/storage/s3"
	"fedorabatch/pkg/transport"

	"go.uber.org/zap"
)

var ErrNoJournal = errors.New("run journal is disabled (set journal.driver)")

// App 是整个应用程序的依赖容器 (Dependency Container)
// 它持有所有“单例”服务
type App struct {
	Settings config.Settings
	Log      *zap.Logger

	HTTP   *transport.Client
	Fedora *fedora.Client

	// Snapshots 为 nil 表示未开启快照 (backup.type=none)
	Snapshots storage.Store
	// Journal 为 nil 表示未开启运行日志 (journal.driver=none)
	Journal *meta.Repository

	closers []func() error
}

// NewApp 是工厂函数，负责组装这一台机器
// 它只认 config.Settings，不知道具体的 CLI 命令
func NewApp(ctx context.Context, s config.Settings) (*App, error) {
	// 1. 校验配置
	if err := s.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(s.LogLevel, map[string]any{"app": "dsedit"})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	a := &App{Settings: s, Log: log}

	// 2. HTTP 层：Solr 与 Fedora 共用一个限速器
	a.HTTP = transport.NewClient(transport.Config{
		Timeout:   s.HTTP.Timeout,
		RateLimit: s.HTTP.Rate,
		RateBurst: s.HTTP.Burst,
		UserAgent: s.HTTP.UserAgent,
	})
	a.Fedora = fedora.NewClient(s.FedoraURL, a.HTTP)

	// 3. 快照仓库
	store, closeStore, err := initStore(ctx, s.Backup, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init snapshot storage: %w", err)
	}
	a.Snapshots = store
	a.onClose(closeStore)

	// 4. 运行日志
	journal, closeJournal, err := initJournal(ctx, s.Journal, s.LogLevel == "debug")
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init run journal: %w", err)
	}
	a.Journal = journal
	a.onClose(closeJournal)

	return a, nil
}

// Solr 按需构造索引客户端 (分页是单次命令的选项)
func (a *App) Solr(paginate bool) *solr.Client {
	return solr.NewClient(a.Settings.SolrURL, a.HTTP,
		solr.WithRows(a.Settings.SolrRows),
		solr.WithPagination(paginate),
	)
}

// Matcher 合并排除规则文件与命令行上的额外规则
func (a *App) Matcher(extra ...string) (*ignore.Matcher, error) {
	return ignore.NewMatcher(a.Settings.IgnoreFile, extra...)
}

// Updater 组装批量编辑器，快照与运行日志按配置自动接入
func (a *App) Updater(paginate bool, opts ...pipeline.Option) *pipeline.Updater {
	base := []pipeline.Option{pipeline.WithLogger(a.Log)}
	if a.Snapshots != nil {
		base = append(base, pipeline.WithSnapshots(a.Snapshots))
	}
	if a.Journal != nil {
		base = append(base, pipeline.WithJournal(a.Journal))
	}
	return pipeline.NewUpdater(a.Solr(paginate), a.Fedora, append(base, opts...)...)
}

// Restorer 需要快照和运行日志同时开启
func (a *App) Restorer() (*restorer.Restorer, error) {
	if a.Journal == nil {
		return nil, ErrNoJournal
	}
	if a.Snapshots == nil {
		return nil, fmt.Errorf("%w: snapshot storage is disabled (set backup.type)", restorer.ErrNotRestorable)
	}
	return restorer.NewRestorer(a.Snapshots, a.Journal, a.Fedora, a.Log), nil
}

// Close 释放数据库与 Redis 连接，并刷新日志
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	if fn != nil {
		a.closers = append(a.closers, fn)
	}
}

// initStore 根据 backup.type 选择快照存储，可选地套一层 Redis 缓存
func initStore(ctx context.Context, cfg config.BackupSettings, log *zap.Logger) (storage.Store, func() error, error) {
	var backend storage.Store

	switch cfg.Type {
	case "", "none":
		return nil, nil, nil
	case "disk":
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("backup path not set")
		}
		store, err := disk.NewAdapter(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		backend = store
	case "s3":
		store, err := s3.NewAdapter(ctx, s3.Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKey,
			SecretAccessKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		backend = store
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}

	if cfg.RedisURL == "" {
		return backend, nil, nil
	}

	cached, err := cache.NewCachedStore(backend, cache.Config{RedisURL: cfg.RedisURL, TTL: cfg.CacheTTL}, log)
	if err != nil {
		return nil, nil, err
	}
	return cached, cached.Close, nil
}

func initJournal(ctx context.Context, cfg config.JournalSettings, verbose bool) (*meta.Repository, func() error, error) {
	if cfg.Driver == "" || cfg.Driver == "none" {
		return nil, nil, nil
	}
	db, err := meta.NewDB(ctx, meta.Config{
		Driver:   cfg.Driver,
		Path:     cfg.Path,
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Verbose:  verbose,
	})
	if err != nil {
		return nil, nil, err
	}
	return meta.NewRepository(db), db.Close, nil
}
