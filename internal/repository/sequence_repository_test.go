package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSequenceTestDB 创建序列仓储测试数据库
func setupSequenceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.SequenceModel{})
	require.NoError(t, err)

	return db
}

// TestSequenceRepository_Next 测试序号自增
func TestSequenceRepository_Next(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := repository.NewSequenceRepository(db)
	ctx := context.Background()

	// 首次使用从 1 开始
	first, err := repo.Next(ctx, model.SequenceEmployerNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	// 连续分配单调递增且不重复
	prev := first
	for i := 0; i < 20; i++ {
		next, err := repo.Next(ctx, model.SequenceEmployerNumber)
		require.NoError(t, err)
		assert.Equal(t, prev+1, next)
		prev = next
	}
}

// TestSequenceRepository_ConcurrentNext 测试并发自增不重号
// 包括并发首次使用:序列行尚不存在时多个调用同时触发创建,
// 每个调用仍然必须得到互不相同的值
func TestSequenceRepository_ConcurrentNext(t *testing.T) {
	db := setupSequenceTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离,固定单连接让所有 goroutine 共享同一个库
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewSequenceRepository(db)
	const n = 16

	values := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := repo.Next(context.Background(), model.SequenceEmployerNumber)
			if assert.NoError(t, err) {
				values <- next
			}
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	for v := range values {
		assert.False(t, seen[v], "duplicate sequence value %d", v)
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(n))
		seen[v] = true
	}
	assert.Len(t, seen, n)
}

// TestSequenceRepository_Current 测试读取当前值
func TestSequenceRepository_Current(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := repository.NewSequenceRepository(db)
	ctx := context.Background()

	// 未使用的序列当前值为 0
	current, err := repo.Current(ctx, model.SequenceEmployerNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(0), current)

	_, err = repo.Next(ctx, model.SequenceEmployerNumber)
	require.NoError(t, err)
	_, err = repo.Next(ctx, model.SequenceEmployerNumber)
	require.NoError(t, err)

	current, err = repo.Current(ctx, model.SequenceEmployerNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current)
}

// TestSequenceRepository_IndependentSequences 测试序列相互独立
func TestSequenceRepository_IndependentSequences(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := repository.NewSequenceRepository(db)
	ctx := context.Background()

	a, err := repo.Next(ctx, "seq_a")
	require.NoError(t, err)
	b, err := repo.Next(ctx, "seq_b")
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(1), b)
}
