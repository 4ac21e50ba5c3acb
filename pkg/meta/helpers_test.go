package meta

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// -----------------------------------------------------------------------------
// 通用辅助函数 (Helpers)
// -----------------------------------------------------------------------------

// setupTestRepo 构建隔离的内存数据库
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	metaDB := NewWithConn(db)
	require.NoError(t, metaDB.AutoMigrate())

	return NewRepository(metaDB)
}

// mustCreateRun 创建运行，失败直接终止测试
func mustCreateRun(t *testing.T, repo *Repository, query string, msgAndArgs ...any) *RunModel {
	t.Helper()
	run := &RunModel{Query: query, Stream: "DC", Transform: "identity"}
	require.NoError(t, repo.CreateRun(context.Background(), run), msgAndArgs...)
	return run
}

func mustRecordEdit(t *testing.T, repo *Repository, runID string, seq int, objectID string, msgAndArgs ...any) {
	t.Helper()
	edit := &EditModel{
		RunID:    runID,
		Seq:      seq,
		ObjectID: objectID,
		Stream:   "DC",
		Bytes:    10,
		Attrs:    EditAttrs{OriginalBytes: 8, Changed: true}.JSON(),
	}
	require.NoError(t, repo.RecordEdit(context.Background(), edit), msgAndArgs...)
}
