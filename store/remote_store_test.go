package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/sxinguo/Review-tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个用例独立的内存库。date 上带非空CHECK，
// 用于构造迁移批次失败的场景
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE review_items (
		id varchar(50) PRIMARY KEY,
		content text,
		date varchar(10) CHECK (date <> ''),
		created_at integer,
		user_id varchar(50)
	)`).Error)
	return db
}

func TestRemoteStoreAddAndList(t *testing.T) {
	s := NewRemoteStore(newTestDB(t))
	ctx := context.Background()

	item, err := s.Add(ctx, "user-1", "【基础】洗漱", "2024-01-01")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "user-1", item.UserID)

	_, err = s.Add(ctx, "user-2", "别人的记录", "2024-01-01")
	require.NoError(t, err)

	// 只能看到自己的记录
	items, err := s.List(ctx, "user-1", "", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "【基础】洗漱", items[0].Content)

	// 日期范围过滤
	_, err = s.Add(ctx, "user-1", "后面的记录", "2024-02-01")
	require.NoError(t, err)
	items, err = s.List(ctx, "user-1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemoteStoreRequiresAuth(t *testing.T) {
	s := NewRemoteStore(newTestDB(t))
	ctx := context.Background()

	_, err := s.Add(ctx, "", "内容", "2024-01-01")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.List(ctx, "", "", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRemoteStoreDeleteOwnership(t *testing.T) {
	s := NewRemoteStore(newTestDB(t))
	ctx := context.Background()

	item, err := s.Add(ctx, "user-1", "内容", "2024-01-01")
	require.NoError(t, err)

	// 别人删报无权，自己删不存在的报不存在
	assert.ErrorIs(t, s.Delete(ctx, "user-2", item.ID), ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, "user-1", "no-such-id"), ErrNotFound)

	require.NoError(t, s.Delete(ctx, "user-1", item.ID))
	items, _ := s.List(ctx, "user-1", "", "")
	assert.Empty(t, items)
}

func TestRemoteStoreUpdate(t *testing.T) {
	s := NewRemoteStore(newTestDB(t))
	ctx := context.Background()

	item, err := s.Add(ctx, "user-1", "旧内容", "2024-01-01")
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "user-1", item.ID, "新内容", "2024-01-02"))
	assert.ErrorIs(t, s.Update(ctx, "user-2", item.ID, "x", "2024-01-02"), ErrForbidden)

	items, _ := s.List(ctx, "user-1", "", "")
	require.Len(t, items, 1)
	assert.Equal(t, "新内容", items[0].Content)
}

func TestRemoteStoreStats(t *testing.T) {
	s := NewRemoteStore(newTestDB(t))
	ctx := context.Background()

	stats, err := s.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalItems)
	assert.Equal(t, 0, stats.TotalDays)

	_, err = s.Add(ctx, "user-1", "内容", "2024-01-01")
	require.NoError(t, err)
	stats, err = s.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalItems)
	assert.Greater(t, stats.TotalDays, 0)
}

func TestAddBatchPartialFailure(t *testing.T) {
	s := NewRemoteStore(newTestDB(t))
	ctx := context.Background()

	// 150条分两批，第二批里混入一条违反CHECK约束的记录
	items := make([]models.MigrateItem, 150)
	for i := range items {
		items[i] = models.MigrateItem{Content: fmt.Sprintf("记录%d", i), Date: "2024-01-01"}
	}
	items[120].Date = ""

	migrated, failedBatches := s.AddBatch(ctx, "user-1", items)
	assert.Equal(t, 100, migrated)
	assert.Equal(t, 1, failedBatches)

	// 只有第一批真正落库
	stats, err := s.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalItems)
}

func TestMigrateGuestDataEmptyIsNoop(t *testing.T) {
	local := NewLocalStore(NewMemoryKV())
	remote := NewRemoteStore(newTestDB(t))
	require.NoError(t, local.SetGuestFlag())
	svc := NewDataService(local, remote)
	require.True(t, svc.IsGuestMode())

	resp, err := svc.MigrateGuestData(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.MigratedCount)

	// 未发起任何远端写入
	stats, _ := remote.Stats(context.Background(), "user-1")
	assert.Equal(t, 0, stats.TotalItems)
}

func TestMigrateGuestDataFullSuccessClearsLocal(t *testing.T) {
	local := NewLocalStore(NewMemoryKV())
	remote := NewRemoteStore(newTestDB(t))
	require.NoError(t, local.SetGuestFlag())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := local.Add(ctx, "", fmt.Sprintf("记录%d", i), "2024-01-01")
		require.NoError(t, err)
	}

	svc := NewDataService(local, remote)
	resp, err := svc.MigrateGuestData(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.MigratedCount)

	// 本地清空，游客标记解除，后续读写走远端
	count, _ := local.Count()
	assert.Equal(t, 0, count)
	assert.False(t, svc.IsGuestMode())
	items, err := svc.GetItems(ctx, "user-1", "", "")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestMigrateGuestDataPartialFailureKeepsLocal(t *testing.T) {
	local := NewLocalStore(NewMemoryKV())
	remote := NewRemoteStore(newTestDB(t))
	require.NoError(t, local.SetGuestFlag())
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		date := "2024-01-01"
		if i == 120 {
			// 落在第二批，使该批整体失败
			date = ""
		}
		_, err := local.Add(ctx, "", fmt.Sprintf("记录%d", i), date)
		require.NoError(t, err)
	}

	svc := NewDataService(local, remote)
	resp, err := svc.MigrateGuestData(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, 100, resp.MigratedCount)
	assert.Equal(t, 150, resp.RequestedCount)

	// 部分失败不得清空本地数据，保留重试可能
	count, _ := local.Count()
	assert.Equal(t, 150, count)
	assert.True(t, svc.IsGuestMode())
}
